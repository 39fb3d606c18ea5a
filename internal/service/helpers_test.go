package service

import (
	"bytes"
	"time"

	"github.com/Varun5711/attendly/internal/auth"
	"github.com/Varun5711/attendly/internal/cache"
	"github.com/Varun5711/attendly/internal/logger"
	"github.com/Varun5711/attendly/internal/models"
	"github.com/Varun5711/attendly/internal/storage"
	"golang.org/x/crypto/bcrypt"
)

var jakarta = time.FixedZone("WIB", 7*60*60)

func testLogger() *logger.Logger {
	return logger.NewWithConfig("service-test", logger.Config{Out: &bytes.Buffer{}})
}

func newUserService(store storage.UserStore) *UserService {
	log := testLogger()
	return NewUserService(store, cache.NewProfileCache(16, nil, time.Minute, log), auth.Passwords{Cost: bcrypt.MinCost}, log)
}

// newAttendanceService pins the service clock to at.
func newAttendanceService(store storage.AttendanceStore, at time.Time) *AttendanceService {
	s := NewAttendanceService(store, jakarta, testLogger())
	s.now = func() time.Time { return at }
	return s
}

func session(id, name string) *auth.Claims {
	return &auth.Claims{UserID: id, Email: id + "@example.com", Name: name}
}

func tasks(descriptions ...string) []models.Task {
	out := make([]models.Task, 0, len(descriptions))
	for _, d := range descriptions {
		out = append(out, models.Task{Description: d})
	}
	return out
}

