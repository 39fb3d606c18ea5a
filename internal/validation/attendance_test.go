package validation

import (
	"math"
	"strings"
	"testing"

	"github.com/Varun5711/attendly/internal/models"
)

func TestNormalizeRecordID(t *testing.T) {
	id, err := NormalizeRecordID("0B6C1F1E-5D7A-4F57-9A55-7F3F7B8F2A01")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if id != "0b6c1f1e-5d7a-4f57-9a55-7f3f7b8f2a01" {
		t.Errorf("expected canonical lowercase id, got %s", id)
	}

	invalid := []string{
		"",
		"123",
		"507f1f77bcf86cd799439011",
		"urn:uuid:0b6c1f1e-5d7a-4f57-9a55-7f3f7b8f2a01",
		"{0b6c1f1e-5d7a-4f57-9a55-7f3f7b8f2a01}",
		"0b6c1f1e5d7a4f579a557f3f7b8f2a01",
	}
	for _, raw := range invalid {
		if _, err := NormalizeRecordID(raw); err != ErrInvalidRecordID {
			t.Errorf("expected ErrInvalidRecordID for '%s', got: %v", raw, err)
		}
	}
}

func TestValidateDate(t *testing.T) {
	if err := ValidateDate("2025-03-10"); err != nil {
		t.Errorf("expected valid date, got: %v", err)
	}

	for _, raw := range []string{"2025-3-10", "10/03/2025", "2025-02-30", ""} {
		if err := ValidateDate(raw); err != ErrInvalidDate {
			t.Errorf("expected ErrInvalidDate for '%s', got: %v", raw, err)
		}
	}
}

func TestParseAttendanceType(t *testing.T) {
	for _, raw := range []string{"checkin", "checkout"} {
		got, err := ParseAttendanceType(raw)
		if err != nil {
			t.Errorf("expected '%s' to be valid, got error: %v", raw, err)
		}
		if string(got) != raw {
			t.Errorf("expected %s, got %s", raw, got)
		}
	}

	for _, raw := range []string{"", "CHECKIN", "lunch"} {
		if _, err := ParseAttendanceType(raw); err != ErrInvalidType {
			t.Errorf("expected ErrInvalidType for '%s', got: %v", raw, err)
		}
	}
}

func TestNormalizeTasks(t *testing.T) {
	in := []models.Task{
		{Description: "  write report  ", TimeRange: " 09:00-10:00 "},
		{ID: "keep-me", Description: "deploy", Status: models.TaskDone},
	}

	out, err := NormalizeTasks(in)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	if out[0].Description != "write report" || out[0].TimeRange != "09:00-10:00" {
		t.Errorf("expected trimmed task, got %+v", out[0])
	}
	if out[0].Status != models.TaskTodo {
		t.Errorf("expected default status todo, got %s", out[0].Status)
	}
	if out[0].ID == "" {
		t.Error("expected an ID to be assigned")
	}
	if out[1].ID != "keep-me" || out[1].Status != models.TaskDone {
		t.Errorf("expected second task unchanged, got %+v", out[1])
	}
	if in[0].ID != "" {
		t.Error("input slice must not be modified")
	}
}

func TestNormalizeTasks_Errors(t *testing.T) {
	tests := []struct {
		name string
		task models.Task
		want error
	}{
		{name: "blank", task: models.Task{Description: "   "}, want: ErrEmptyDescription},
		{name: "too long", task: models.Task{Description: strings.Repeat("é", MaxDescriptionLength+1)}, want: ErrDescriptionTooLong},
		{name: "bad status", task: models.Task{Description: "x", Status: "blocked"}, want: ErrInvalidTaskStatus},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if _, err := NormalizeTasks([]models.Task{tt.task}); err != tt.want {
				t.Errorf("expected %v, got %v", tt.want, err)
			}
		})
	}

	if _, err := NormalizeTasks([]models.Task{{Description: strings.Repeat("é", MaxDescriptionLength)}}); err != nil {
		t.Errorf("expected 500-character description to be accepted, got %v", err)
	}
}

func TestNormalizeFilters(t *testing.T) {
	f, err := NormalizeFilters(models.AttendanceFilters{Search: "  deploy ", Limit: 500})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if f.Search != "deploy" {
		t.Errorf("expected trimmed search, got '%s'", f.Search)
	}
	if f.Page != models.DefaultPage {
		t.Errorf("expected default page, got %d", f.Page)
	}
	if f.Limit != models.MaxLimit {
		t.Errorf("expected limit capped at %d, got %d", models.MaxLimit, f.Limit)
	}

	f, err = NormalizeFilters(models.AttendanceFilters{Page: -3})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if f.Page != 1 || f.Limit != models.DefaultLimit {
		t.Errorf("expected defaults, got page=%d limit=%d", f.Page, f.Limit)
	}

	f, err = NormalizeFilters(models.AttendanceFilters{Page: math.MaxInt64, Limit: models.MaxLimit})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if f.Page != models.MaxPage {
		t.Errorf("expected page capped at %d, got %d", models.MaxPage, f.Page)
	}
	if offset := (f.Page - 1) * f.Limit; offset < 0 || offset > math.MaxInt32 {
		t.Errorf("offset %d out of range", offset)
	}

	if _, err := NormalizeFilters(models.AttendanceFilters{StartDate: "yesterday"}); err != ErrInvalidDate {
		t.Errorf("expected ErrInvalidDate, got %v", err)
	}
	if _, err := NormalizeFilters(models.AttendanceFilters{StartDate: "2025-03-10", EndDate: "2025-03-01"}); err != ErrInvalidDateRange {
		t.Errorf("expected ErrInvalidDateRange, got %v", err)
	}
	if _, err := NormalizeFilters(models.AttendanceFilters{Search: strings.Repeat("a", MaxSearchLength+1)}); err != ErrSearchTooLong {
		t.Errorf("expected ErrSearchTooLong, got %v", err)
	}
}
