package storage

import (
	"context"
	"sort"
	"strings"
	"sync"
	"time"

	"github.com/Varun5711/attendly/internal/models"
	usermodel "github.com/Varun5711/attendly/internal/models/user"
	"github.com/google/uuid"
)

// MemoryStorage implements UserStore and AttendanceStore in process. It
// backs tests and STORAGE_DRIVER=memory; nothing survives a restart.
type MemoryStorage struct {
	mu         sync.RWMutex
	users      map[string]*usermodel.User
	emails     map[string]string
	attendance map[string]*models.AttendanceRecord
}

func NewMemoryStorage() *MemoryStorage {
	return &MemoryStorage{
		users:      make(map[string]*usermodel.User),
		emails:     make(map[string]string),
		attendance: make(map[string]*models.AttendanceRecord),
	}
}

func (s *MemoryStorage) CreateUser(_ context.Context, req *usermodel.SignupRequest, passwordHash string) (*usermodel.User, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if _, exists := s.emails[req.Email]; exists {
		return nil, ErrDuplicate
	}

	user := &usermodel.User{
		ID:           uuid.New().String(),
		Email:        req.Email,
		Name:         req.Name,
		PasswordHash: passwordHash,
		CreatedAt:    time.Now().UTC(),
	}
	s.users[user.ID] = user
	s.emails[user.Email] = user.ID

	copied := *user
	return &copied, nil
}

func (s *MemoryStorage) GetUserByEmail(_ context.Context, email string) (*usermodel.User, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	id, exists := s.emails[email]
	if !exists {
		return nil, nil
	}

	copied := *s.users[id]
	return &copied, nil
}

func (s *MemoryStorage) GetUserByID(_ context.Context, userID string) (*usermodel.User, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	user, exists := s.users[userID]
	if !exists {
		return nil, nil
	}

	copied := *user
	copied.PasswordHash = ""
	return &copied, nil
}

func (s *MemoryStorage) Insert(_ context.Context, record *models.AttendanceRecord) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	for _, existing := range s.attendance {
		if existing.UserID == record.UserID && existing.Date == record.Date {
			return ErrDuplicate
		}
	}
	if _, exists := s.attendance[record.ID]; exists {
		return ErrDuplicate
	}

	s.attendance[record.ID] = cloneRecord(record)
	return nil
}

func (s *MemoryStorage) FindByID(_ context.Context, id, userID string) (*models.AttendanceRecord, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	record, exists := s.attendance[id]
	if !exists || record.UserID != userID {
		return nil, nil
	}

	return cloneRecord(record), nil
}

func (s *MemoryStorage) FindByDate(_ context.Context, userID, date string) (*models.AttendanceRecord, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	for _, record := range s.attendance {
		if record.UserID == userID && record.Date == date {
			return cloneRecord(record), nil
		}
	}

	return nil, nil
}

func (s *MemoryStorage) Update(_ context.Context, record *models.AttendanceRecord) (bool, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	existing, exists := s.attendance[record.ID]
	if !exists || existing.UserID != record.UserID {
		return false, nil
	}

	existing.CheckInTime = record.CheckInTime
	existing.CheckOutTime = record.CheckOutTime
	existing.CheckInTasks = cloneTasks(record.CheckInTasks)
	existing.CheckOutTasks = cloneTasks(record.CheckOutTasks)
	existing.UpdatedAt = record.UpdatedAt
	return true, nil
}

func (s *MemoryStorage) Delete(_ context.Context, id, userID string) (bool, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	record, exists := s.attendance[id]
	if !exists || record.UserID != userID {
		return false, nil
	}

	delete(s.attendance, id)
	return true, nil
}

func (s *MemoryStorage) List(_ context.Context, q models.AttendanceQuery) ([]*models.AttendanceRecord, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	matched := s.match(q)
	sort.Slice(matched, func(i, j int) bool {
		return matched[i].Date > matched[j].Date
	})

	if q.Offset < 0 || q.Offset >= len(matched) {
		return []*models.AttendanceRecord{}, nil
	}
	end := len(matched)
	if q.Limit > 0 && q.Offset+q.Limit < end {
		end = q.Offset + q.Limit
	}

	page := make([]*models.AttendanceRecord, 0, end-q.Offset)
	for _, record := range matched[q.Offset:end] {
		page = append(page, cloneRecord(record))
	}
	return page, nil
}

func (s *MemoryStorage) Count(_ context.Context, q models.AttendanceQuery) (int, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	return len(s.match(q)), nil
}

// match must be called with s.mu held.
func (s *MemoryStorage) match(q models.AttendanceQuery) []*models.AttendanceRecord {
	search := strings.ToLower(q.Search)

	var out []*models.AttendanceRecord
	for _, record := range s.attendance {
		if record.UserID != q.UserID {
			continue
		}
		if q.StartDate != "" && record.Date < q.StartDate {
			continue
		}
		if q.EndDate != "" && record.Date > q.EndDate {
			continue
		}
		if search != "" && !containsTask(record.CheckInTasks, search) && !containsTask(record.CheckOutTasks, search) {
			continue
		}
		out = append(out, record)
	}
	return out
}

func containsTask(tasks []models.Task, search string) bool {
	for _, task := range tasks {
		if strings.Contains(strings.ToLower(task.Description), search) {
			return true
		}
	}
	return false
}

func cloneRecord(record *models.AttendanceRecord) *models.AttendanceRecord {
	copied := *record
	copied.CheckInTasks = cloneTasks(record.CheckInTasks)
	copied.CheckOutTasks = cloneTasks(record.CheckOutTasks)
	return &copied
}

func cloneTasks(tasks []models.Task) []models.Task {
	out := make([]models.Task, len(tasks))
	copy(out, tasks)
	return out
}
