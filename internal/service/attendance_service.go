package service

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/Varun5711/attendly/internal/auth"
	"github.com/Varun5711/attendly/internal/logger"
	"github.com/Varun5711/attendly/internal/models"
	"github.com/Varun5711/attendly/internal/qrcode"
	"github.com/Varun5711/attendly/internal/report"
	"github.com/Varun5711/attendly/internal/storage"
	"github.com/Varun5711/attendly/internal/validation"
	"github.com/google/uuid"
)

const clockLayout = "15:04"

// AttendanceService applies the owner rule to every record operation: a nil
// session fails before storage is touched, and every lookup is scoped to the
// session's user so foreign records read as missing.
type AttendanceService struct {
	store storage.AttendanceStore
	loc   *time.Location
	now   func() time.Time
	log   *logger.Logger
}

func NewAttendanceService(store storage.AttendanceStore, loc *time.Location, log *logger.Logger) *AttendanceService {
	return &AttendanceService{
		store: store,
		loc:   loc,
		now:   time.Now,
		log:   log,
	}
}

// Record sets today's check-in or check-out, creating the day's record on
// first use. Repeating an action overwrites its time and tasks.
func (s *AttendanceService) Record(ctx context.Context, session *auth.Claims, req models.AttendanceRequest) (*models.AttendanceRecord, error) {
	if session == nil {
		return nil, ErrUnauthenticated
	}

	t, tasks, err := parseAttendanceRequest(req)
	if err != nil {
		return nil, err
	}

	now := s.now().In(s.loc)
	date := now.Format(validation.DateLayout)

	record, err := s.store.FindByDate(ctx, session.UserID, date)
	if err != nil {
		return nil, err
	}

	if record == nil {
		record = s.newRecord(session, date, now)
		applyAction(record, t, tasks, now.Format(clockLayout), true)

		err = s.store.Insert(ctx, record)
		if err == nil {
			s.log.Info("Created attendance %s for user %s on %s", record.ID, session.UserID, date)
			return record, nil
		}
		if !errors.Is(err, storage.ErrDuplicate) {
			return nil, err
		}

		// Lost the race with a concurrent request for the same day.
		record, err = s.store.FindByDate(ctx, session.UserID, date)
		if err != nil {
			return nil, err
		}
		if record == nil {
			return nil, fmt.Errorf("attendance for %s vanished after duplicate insert", date)
		}
	}

	applyAction(record, t, tasks, now.Format(clockLayout), true)
	record.UpdatedAt = now.UTC()

	ok, err := s.store.Update(ctx, record)
	if err != nil {
		return nil, err
	}
	if !ok {
		return nil, ErrNotFound
	}

	return record, nil
}

func (s *AttendanceService) List(ctx context.Context, session *auth.Claims, filters models.AttendanceFilters) (*models.ListAttendanceResponse, error) {
	if session == nil {
		return nil, ErrUnauthenticated
	}

	filters, err := validation.NormalizeFilters(filters)
	if err != nil {
		return nil, inputError(err)
	}

	q := models.AttendanceQuery{
		UserID:    session.UserID,
		Search:    filters.Search,
		StartDate: filters.StartDate,
		EndDate:   filters.EndDate,
		Offset:    (filters.Page - 1) * filters.Limit,
		Limit:     filters.Limit,
	}

	records, err := s.store.List(ctx, q)
	if err != nil {
		return nil, err
	}

	total, err := s.store.Count(ctx, q)
	if err != nil {
		return nil, err
	}

	return &models.ListAttendanceResponse{
		Records: records,
		Pagination: models.Pagination{
			Page:  filters.Page,
			Limit: filters.Limit,
			Total: total,
			Pages: (total + filters.Limit - 1) / filters.Limit,
		},
	}, nil
}

func (s *AttendanceService) Get(ctx context.Context, session *auth.Claims, id string) (*models.AttendanceRecord, error) {
	if session == nil {
		return nil, ErrUnauthenticated
	}

	id, err := validation.NormalizeRecordID(id)
	if err != nil {
		return nil, invalidInput("Invalid record ID")
	}

	record, err := s.store.FindByID(ctx, id, session.UserID)
	if err != nil {
		return nil, err
	}
	if record == nil {
		return nil, ErrNotFound
	}

	return record, nil
}

// Update replaces one task list of an owned record. The matching time is
// only filled in when it was never set.
func (s *AttendanceService) Update(ctx context.Context, session *auth.Claims, id string, req models.AttendanceRequest) (*models.AttendanceRecord, error) {
	record, err := s.Get(ctx, session, id)
	if err != nil {
		return nil, err
	}

	t, tasks, err := parseAttendanceRequest(req)
	if err != nil {
		return nil, err
	}

	now := s.now().In(s.loc)
	applyAction(record, t, tasks, now.Format(clockLayout), false)
	record.UpdatedAt = now.UTC()

	ok, err := s.store.Update(ctx, record)
	if err != nil {
		return nil, err
	}
	if !ok {
		return nil, ErrNotFound
	}

	return record, nil
}

func (s *AttendanceService) Delete(ctx context.Context, session *auth.Claims, id string) error {
	if session == nil {
		return ErrUnauthenticated
	}

	id, err := validation.NormalizeRecordID(id)
	if err != nil {
		return invalidInput("Invalid record ID")
	}

	deleted, err := s.store.Delete(ctx, id, session.UserID)
	if err != nil {
		return err
	}
	if !deleted {
		return ErrNotFound
	}

	s.log.Info("Deleted attendance %s for user %s", id, session.UserID)
	return nil
}

// Report renders the daily report text for one side of an owned record.
func (s *AttendanceService) Report(ctx context.Context, session *auth.Claims, id, rawType string) (string, error) {
	record, err := s.Get(ctx, session, id)
	if err != nil {
		return "", err
	}

	t, err := validation.ParseAttendanceType(rawType)
	if err != nil {
		return "", inputError(err)
	}

	return report.Daily(record, t), nil
}

// ReportQR renders a QR code that opens the report as a WhatsApp share.
func (s *AttendanceService) ReportQR(ctx context.Context, session *auth.Claims, id, rawType string) ([]byte, error) {
	text, err := s.Report(ctx, session, id, rawType)
	if err != nil {
		return nil, err
	}

	png, err := qrcode.GeneratePNG(report.ShareURL(text))
	if err != nil {
		return nil, invalidInput("Report is too long to encode as a QR code")
	}

	return png, nil
}

func (s *AttendanceService) newRecord(session *auth.Claims, date string, now time.Time) *models.AttendanceRecord {
	return &models.AttendanceRecord{
		ID:            uuid.New().String(),
		UserID:        session.UserID,
		UserName:      session.Name,
		Date:          date,
		CheckInTasks:  []models.Task{},
		CheckOutTasks: []models.Task{},
		CreatedAt:     now.UTC(),
		UpdatedAt:     now.UTC(),
	}
}

func parseAttendanceRequest(req models.AttendanceRequest) (models.AttendanceType, []models.Task, error) {
	t, err := validation.ParseAttendanceType(string(req.Type))
	if err != nil {
		return "", nil, inputError(err)
	}

	tasks, err := validation.NormalizeTasks(req.Tasks)
	if err != nil {
		return "", nil, inputError(err)
	}

	return t, tasks, nil
}

// applyAction stores tasks for the given side. With overwrite false the
// time is only set when empty.
func applyAction(record *models.AttendanceRecord, t models.AttendanceType, tasks []models.Task, clock string, overwrite bool) {
	switch t {
	case models.CheckIn:
		record.CheckInTasks = tasks
		if overwrite || record.CheckInTime == "" {
			record.CheckInTime = clock
		}
	case models.CheckOut:
		record.CheckOutTasks = tasks
		if overwrite || record.CheckOutTime == "" {
			record.CheckOutTime = clock
		}
	}
}
