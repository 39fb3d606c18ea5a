package storage

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"strings"

	"github.com/Varun5711/attendly/internal/database"
	"github.com/Varun5711/attendly/internal/models"
	"github.com/jackc/pgx/v5"
)

const attendanceColumns = `id, user_id, user_name, date, check_in_time, check_out_time,
		check_in_tasks, check_out_tasks, created_at, updated_at`

type AttendanceStorage struct {
	db database.Router
}

func NewAttendanceStorage(db database.Router) *AttendanceStorage {
	return &AttendanceStorage{db: db}
}

func (s *AttendanceStorage) Insert(ctx context.Context, record *models.AttendanceRecord) error {
	checkIn, checkOut, err := encodeTasks(record)
	if err != nil {
		return err
	}

	query := `
		INSERT INTO attendance (` + attendanceColumns + `)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10)
	`

	_, err = s.db.Write().Exec(ctx, query,
		record.ID,
		record.UserID,
		record.UserName,
		record.Date,
		record.CheckInTime,
		record.CheckOutTime,
		checkIn,
		checkOut,
		record.CreatedAt,
		record.UpdatedAt,
	)

	if isUniqueViolation(err) {
		return ErrDuplicate
	}

	if err != nil {
		return fmt.Errorf("failed to insert attendance: %w", err)
	}

	return nil
}

func (s *AttendanceStorage) FindByID(ctx context.Context, id, userID string) (*models.AttendanceRecord, error) {
	query := `
		SELECT ` + attendanceColumns + `
		FROM attendance
		WHERE id = $1 AND user_id = $2
	`

	record, err := scanRecord(s.db.Read().QueryRow(ctx, query, id, userID))
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, nil
	}

	if err != nil {
		return nil, fmt.Errorf("failed to get attendance: %w", err)
	}

	return record, nil
}

// FindByDate reads from the primary; it backs the find-or-create of
// today's record and must see the row a moment after it is inserted.
func (s *AttendanceStorage) FindByDate(ctx context.Context, userID, date string) (*models.AttendanceRecord, error) {
	query := `
		SELECT ` + attendanceColumns + `
		FROM attendance
		WHERE user_id = $1 AND date = $2
	`

	record, err := scanRecord(s.db.Write().QueryRow(ctx, query, userID, date))
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, nil
	}

	if err != nil {
		return nil, fmt.Errorf("failed to get attendance by date: %w", err)
	}

	return record, nil
}

func (s *AttendanceStorage) Update(ctx context.Context, record *models.AttendanceRecord) (bool, error) {
	checkIn, checkOut, err := encodeTasks(record)
	if err != nil {
		return false, err
	}

	query := `
		UPDATE attendance
		SET check_in_time = $3, check_out_time = $4, check_in_tasks = $5, check_out_tasks = $6, updated_at = $7
		WHERE id = $1 AND user_id = $2
	`

	tag, err := s.db.Write().Exec(ctx, query,
		record.ID,
		record.UserID,
		record.CheckInTime,
		record.CheckOutTime,
		checkIn,
		checkOut,
		record.UpdatedAt,
	)
	if err != nil {
		return false, fmt.Errorf("failed to update attendance: %w", err)
	}

	return tag.RowsAffected() > 0, nil
}

func (s *AttendanceStorage) Delete(ctx context.Context, id, userID string) (bool, error) {
	query := `DELETE FROM attendance WHERE id = $1 AND user_id = $2`

	tag, err := s.db.Write().Exec(ctx, query, id, userID)
	if err != nil {
		return false, fmt.Errorf("failed to delete attendance: %w", err)
	}

	return tag.RowsAffected() > 0, nil
}

func (s *AttendanceStorage) List(ctx context.Context, q models.AttendanceQuery) ([]*models.AttendanceRecord, error) {
	where, args := attendanceFilter(q)
	args = append(args, q.Limit, q.Offset)

	query := fmt.Sprintf(`
		SELECT %s
		FROM attendance
		WHERE %s
		ORDER BY date DESC
		LIMIT $%d OFFSET $%d
	`, attendanceColumns, where, len(args)-1, len(args))

	rows, err := s.db.Read().Query(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("failed to list attendance: %w", err)
	}
	defer rows.Close()

	records := make([]*models.AttendanceRecord, 0)
	for rows.Next() {
		record, err := scanRecord(rows)
		if err != nil {
			return nil, fmt.Errorf("failed to scan row: %w", err)
		}
		records = append(records, record)
	}

	if err = rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating rows: %w", err)
	}

	return records, nil
}

func (s *AttendanceStorage) Count(ctx context.Context, q models.AttendanceQuery) (int, error) {
	where, args := attendanceFilter(q)
	query := `SELECT COUNT(*) FROM attendance WHERE ` + where

	var total int64
	if err := s.db.Read().QueryRow(ctx, query, args...).Scan(&total); err != nil {
		return 0, fmt.Errorf("failed to count attendance: %w", err)
	}

	return int(total), nil
}

// attendanceFilter builds the owner-scoped WHERE clause shared by List and
// Count. Search is a literal case-insensitive substring over task
// descriptions of either list.
func attendanceFilter(q models.AttendanceQuery) (string, []any) {
	conds := []string{"user_id = $1"}
	args := []any{q.UserID}

	if q.StartDate != "" {
		args = append(args, q.StartDate)
		conds = append(conds, fmt.Sprintf("date >= $%d", len(args)))
	}

	if q.EndDate != "" {
		args = append(args, q.EndDate)
		conds = append(conds, fmt.Sprintf("date <= $%d", len(args)))
	}

	if q.Search != "" {
		args = append(args, "%"+escapeLike(strings.ToLower(q.Search))+"%")
		n := len(args)
		conds = append(conds, fmt.Sprintf(`(EXISTS (SELECT 1 FROM jsonb_array_elements(check_in_tasks) t WHERE lower(t->>'description') LIKE $%d ESCAPE '\')
			OR EXISTS (SELECT 1 FROM jsonb_array_elements(check_out_tasks) t WHERE lower(t->>'description') LIKE $%d ESCAPE '\'))`, n, n))
	}

	return strings.Join(conds, " AND "), args
}

func escapeLike(s string) string {
	return strings.NewReplacer(`\`, `\\`, `%`, `\%`, `_`, `\_`).Replace(s)
}

func scanRecord(row pgx.Row) (*models.AttendanceRecord, error) {
	var record models.AttendanceRecord
	var checkIn, checkOut []byte

	err := row.Scan(
		&record.ID,
		&record.UserID,
		&record.UserName,
		&record.Date,
		&record.CheckInTime,
		&record.CheckOutTime,
		&checkIn,
		&checkOut,
		&record.CreatedAt,
		&record.UpdatedAt,
	)
	if err != nil {
		return nil, err
	}

	if record.CheckInTasks, err = decodeTaskList(checkIn); err != nil {
		return nil, err
	}
	if record.CheckOutTasks, err = decodeTaskList(checkOut); err != nil {
		return nil, err
	}

	return &record, nil
}

func encodeTasks(record *models.AttendanceRecord) ([]byte, []byte, error) {
	checkIn, err := encodeTaskList(record.CheckInTasks)
	if err != nil {
		return nil, nil, err
	}
	checkOut, err := encodeTaskList(record.CheckOutTasks)
	if err != nil {
		return nil, nil, err
	}
	return checkIn, checkOut, nil
}

func encodeTaskList(tasks []models.Task) ([]byte, error) {
	if tasks == nil {
		tasks = []models.Task{}
	}
	data, err := json.Marshal(tasks)
	if err != nil {
		return nil, fmt.Errorf("failed to encode tasks: %w", err)
	}
	return data, nil
}

func decodeTaskList(data []byte) ([]models.Task, error) {
	tasks := []models.Task{}
	if len(data) == 0 {
		return tasks, nil
	}
	if err := json.Unmarshal(data, &tasks); err != nil {
		return nil, fmt.Errorf("failed to decode tasks: %w", err)
	}
	if tasks == nil {
		tasks = []models.Task{}
	}
	return tasks, nil
}
