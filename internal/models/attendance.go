package models

import (
	"math"
	"time"
)

type AttendanceType string

const (
	CheckIn  AttendanceType = "checkin"
	CheckOut AttendanceType = "checkout"
)

type TaskStatus string

const (
	TaskTodo TaskStatus = "todo"
	TaskDone TaskStatus = "done"
)

const (
	DefaultPage  = 1
	DefaultLimit = 10
	MaxLimit     = 100

	// MaxPage keeps (page-1)*limit inside a 32-bit OFFSET.
	MaxPage = math.MaxInt32 / MaxLimit
)

// Task is one line item of a check-in plan or check-out summary.
type Task struct {
	ID          string     `json:"id"`
	Description string     `json:"description"`
	Status      TaskStatus `json:"status"`
	TimeRange   string     `json:"timeRange,omitempty"`
}

// AttendanceRecord holds one user's attendance for a single calendar day.
// Times are HH:MM strings and stay empty until the matching action happens.
type AttendanceRecord struct {
	ID            string    `json:"id"`
	UserID        string    `json:"userId"`
	UserName      string    `json:"userName"`
	Date          string    `json:"date"`
	CheckInTime   string    `json:"checkInTime"`
	CheckOutTime  string    `json:"checkOutTime"`
	CheckInTasks  []Task    `json:"checkInTasks"`
	CheckOutTasks []Task    `json:"checkOutTasks"`
	CreatedAt     time.Time `json:"createdAt"`
	UpdatedAt     time.Time `json:"updatedAt"`
}

// Tasks returns the task list for the given type.
func (r *AttendanceRecord) Tasks(t AttendanceType) []Task {
	if t == CheckOut {
		return r.CheckOutTasks
	}
	return r.CheckInTasks
}

// AttendanceFilters is the caller-facing list query.
type AttendanceFilters struct {
	Search    string
	StartDate string
	EndDate   string
	Page      int
	Limit     int
}

// AttendanceQuery is a list query already scoped to one owner.
type AttendanceQuery struct {
	UserID    string
	Search    string
	StartDate string
	EndDate   string
	Offset    int
	Limit     int
}

type Pagination struct {
	Page  int `json:"page"`
	Limit int `json:"limit"`
	Total int `json:"total"`
	Pages int `json:"pages"`
}

type AttendanceRequest struct {
	Type  AttendanceType `json:"type"`
	Tasks []Task         `json:"tasks"`
}

type ListAttendanceResponse struct {
	Records    []*AttendanceRecord `json:"records"`
	Pagination Pagination          `json:"pagination"`
}

type SuccessResponse struct {
	Success bool `json:"success"`
}

type ErrorResponse struct {
	Error string `json:"error"`
}
