// Package report renders the plain-text daily report users paste into chat,
// and the share link that pre-fills it in WhatsApp.
package report

import (
	"net/url"
	"strings"

	"github.com/Varun5711/attendly/internal/models"
)

const shareBaseURL = "https://wa.me/?text="

// Daily renders the report for one side of a record. Check-in tasks are
// listed as incomplete todos, check-out tasks as completed work.
func Daily(record *models.AttendanceRecord, t models.AttendanceType) string {
	header, badge := "Incomplete:", "todo"
	if t == models.CheckOut {
		header, badge = "Complete:", "done"
	}

	var sb strings.Builder
	sb.WriteString("dailyreport\n")
	sb.WriteString(record.UserName)
	sb.WriteString("\n\n")
	sb.WriteString(header)
	sb.WriteString("\n")

	for _, task := range record.Tasks(t) {
		sb.WriteString("[" + badge + "] " + task.Description)
		if task.TimeRange != "" {
			sb.WriteString(" (" + task.TimeRange + ")")
		}
		sb.WriteString("\n")
	}

	return sb.String()
}

// ShareURL percent-encodes text the way browsers encode URI components.
func ShareURL(text string) string {
	return shareBaseURL + strings.ReplaceAll(url.QueryEscape(text), "+", "%20")
}
