package validation

import (
	"errors"
	"strings"
	"time"
	"unicode/utf8"

	"github.com/Varun5711/attendly/internal/models"
	"github.com/google/uuid"
)

const (
	DateLayout           = "2006-01-02"
	MaxDescriptionLength = 500
	MaxSearchLength      = 200
)

var (
	ErrInvalidRecordID    = errors.New("invalid record ID")
	ErrInvalidDate        = errors.New("dates must be formatted as YYYY-MM-DD")
	ErrInvalidType        = errors.New("type must be checkin or checkout")
	ErrEmptyDescription   = errors.New("task description is required")
	ErrDescriptionTooLong = errors.New("task description must be at most 500 characters")
	ErrInvalidTaskStatus  = errors.New("task status must be todo or done")
	ErrSearchTooLong      = errors.New("search must be at most 200 characters")
	ErrInvalidDateRange   = errors.New("startDate must not be after endDate")
)

// NormalizeRecordID returns the canonical lowercase form of a record UUID.
func NormalizeRecordID(id string) (string, error) {
	parsed, err := uuid.Parse(id)
	if err != nil || len(id) != 36 {
		return "", ErrInvalidRecordID
	}
	return parsed.String(), nil
}

func ValidateDate(date string) error {
	if _, err := time.Parse(DateLayout, date); err != nil {
		return ErrInvalidDate
	}
	return nil
}

func ParseAttendanceType(raw string) (models.AttendanceType, error) {
	switch t := models.AttendanceType(raw); t {
	case models.CheckIn, models.CheckOut:
		return t, nil
	default:
		return "", ErrInvalidType
	}
}

// NormalizeTasks trims descriptions, defaults status to todo and assigns an
// ID to tasks that arrive without one. The input slice is not modified.
func NormalizeTasks(tasks []models.Task) ([]models.Task, error) {
	out := make([]models.Task, 0, len(tasks))
	for _, task := range tasks {
		task.Description = strings.TrimSpace(task.Description)
		task.TimeRange = strings.TrimSpace(task.TimeRange)

		if task.Description == "" {
			return nil, ErrEmptyDescription
		}
		if utf8.RuneCountInString(task.Description) > MaxDescriptionLength {
			return nil, ErrDescriptionTooLong
		}

		switch task.Status {
		case "":
			task.Status = models.TaskTodo
		case models.TaskTodo, models.TaskDone:
		default:
			return nil, ErrInvalidTaskStatus
		}

		if task.ID == "" {
			task.ID = uuid.New().String()
		}

		out = append(out, task)
	}
	return out, nil
}

// NormalizeFilters validates list filters and applies paging defaults.
func NormalizeFilters(f models.AttendanceFilters) (models.AttendanceFilters, error) {
	f.Search = strings.TrimSpace(f.Search)
	if utf8.RuneCountInString(f.Search) > MaxSearchLength {
		return f, ErrSearchTooLong
	}

	if f.StartDate != "" {
		if err := ValidateDate(f.StartDate); err != nil {
			return f, err
		}
	}
	if f.EndDate != "" {
		if err := ValidateDate(f.EndDate); err != nil {
			return f, err
		}
	}
	if f.StartDate != "" && f.EndDate != "" && f.StartDate > f.EndDate {
		return f, ErrInvalidDateRange
	}

	if f.Page < 1 {
		f.Page = models.DefaultPage
	}
	if f.Page > models.MaxPage {
		f.Page = models.MaxPage
	}
	if f.Limit < 1 {
		f.Limit = models.DefaultLimit
	}
	if f.Limit > models.MaxLimit {
		f.Limit = models.MaxLimit
	}

	return f, nil
}
