package middleware

import (
	"net/http"
	"time"

	"github.com/Varun5711/attendly/internal/enrichment"
	"github.com/Varun5711/attendly/internal/logger"
	chimw "github.com/go-chi/chi/v5/middleware"
)

// RequestLogger logs one line per request once the response is written.
// Server errors log at ERROR, client errors at WARN.
func RequestLogger(log *logger.Logger) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			start := time.Now()
			ww := chimw.NewWrapResponseWriter(w, r.ProtoMajor)

			next.ServeHTTP(ww, r)

			status := ww.Status()
			if status == 0 {
				status = http.StatusOK
			}

			ua := enrichment.ParseUserAgent(r.UserAgent())
			format := "%s %s %d %dB %s ip=%s browser=%s os=%q device=%s req=%s"
			args := []interface{}{
				r.Method, r.URL.Path, status, ww.BytesWritten(), time.Since(start).Round(time.Microsecond),
				enrichment.ClientIP(r), ua.Browser, ua.OS, ua.DeviceType, chimw.GetReqID(r.Context()),
			}

			switch {
			case status >= http.StatusInternalServerError:
				log.Error(format, args...)
			case status >= http.StatusBadRequest:
				log.Warn(format, args...)
			default:
				log.Info(format, args...)
			}
		})
	}
}
