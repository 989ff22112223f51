package testutil

import (
	"context"
	"fmt"
	"sync"
	"time"

	"github.com/google/uuid"

	"github.com/fatitalo/quickfeedback/internal/domain/feedback"
	"github.com/fatitalo/quickfeedback/internal/domain/user"
	"github.com/fatitalo/quickfeedback/internal/mailer"
)

// MockUserRepository is a mock implementation of user.Repository
type MockUserRepository struct {
	Users       map[string]*user.User
	EmailIndex  map[string]*user.User
	CreateError error
	GetError    error
	UpdateError error
}

func NewMockUserRepository() *MockUserRepository {
	return &MockUserRepository{
		Users:      make(map[string]*user.User),
		EmailIndex: make(map[string]*user.User),
	}
}

func (m *MockUserRepository) Create(ctx context.Context, u *user.User) error {
	if m.CreateError != nil {
		return m.CreateError
	}
	if u.ID == "" {
		u.ID = uuid.NewString()
	}
	if u.Plan == "" {
		u.Plan = user.PlanFree
	}
	now := time.Now()
	u.CreatedAt = now
	u.UpdatedAt = now
	m.Users[u.ID] = u
	m.EmailIndex[u.Email] = u
	return nil
}

func (m *MockUserRepository) CreateIfAbsent(ctx context.Context, email, plan string) (*user.User, bool, error) {
	if m.CreateError != nil {
		return nil, false, m.CreateError
	}
	if existing, ok := m.EmailIndex[email]; ok {
		return existing, false, nil
	}
	u := &user.User{Email: email, Plan: plan}
	if err := m.Create(ctx, u); err != nil {
		return nil, false, err
	}
	return u, true, nil
}

func (m *MockUserRepository) GetByID(ctx context.Context, id string) (*user.User, error) {
	if m.GetError != nil {
		return nil, m.GetError
	}
	u, ok := m.Users[id]
	if !ok {
		return nil, fmt.Errorf("user not found")
	}
	return u, nil
}

func (m *MockUserRepository) GetByEmail(ctx context.Context, email string) (*user.User, error) {
	if m.GetError != nil {
		return nil, m.GetError
	}
	u, ok := m.EmailIndex[email]
	if !ok {
		return nil, fmt.Errorf("user not found")
	}
	return u, nil
}

func (m *MockUserRepository) UpdatePlan(ctx context.Context, key user.LookupKey, plan string) (int64, error) {
	if m.UpdateError != nil {
		return 0, m.UpdateError
	}
	var u *user.User
	var ok bool
	if key.ID != "" {
		u, ok = m.Users[key.ID]
	} else {
		u, ok = m.EmailIndex[key.Email]
	}
	if !ok {
		return 0, nil
	}
	u.Plan = plan
	u.UpdatedAt = time.Now()
	return 1, nil
}

// MockFeedbackRepository is a mock implementation of feedback.Repository
type MockFeedbackRepository struct {
	Rows        []*feedback.Feedback
	CreateError error
	ListError   error
	DeleteError error
}

func NewMockFeedbackRepository() *MockFeedbackRepository {
	return &MockFeedbackRepository{}
}

func (m *MockFeedbackRepository) Create(ctx context.Context, fb *feedback.Feedback) error {
	if m.CreateError != nil {
		return m.CreateError
	}
	if fb.ID == "" {
		fb.ID = uuid.NewString()
	}
	fb.CreatedAt = time.Now()
	m.Rows = append(m.Rows, fb)
	return nil
}

func (m *MockFeedbackRepository) List(ctx context.Context, ownerID string) ([]*feedback.Feedback, error) {
	if m.ListError != nil {
		return nil, m.ListError
	}
	var result []*feedback.Feedback
	// Newest first: rows are appended in insertion order.
	for i := len(m.Rows) - 1; i >= 0; i-- {
		fb := m.Rows[i]
		if ownerID == "" || fb.UserID == ownerID {
			result = append(result, fb)
		}
	}
	return result, nil
}

func (m *MockFeedbackRepository) Delete(ctx context.Context, id string) (int64, error) {
	if m.DeleteError != nil {
		return 0, m.DeleteError
	}
	for i, fb := range m.Rows {
		if fb.ID == id {
			m.Rows = append(m.Rows[:i], m.Rows[i+1:]...)
			return 1, nil
		}
	}
	return 0, nil
}

// MockMailer records sent emails. Safe for concurrent use since the
// feedback service sends from a goroutine.
type MockMailer struct {
	mu                sync.Mutex
	Confirmations     []mailer.ConfirmationEmail
	Notifications     []mailer.NotificationEmail
	ConfirmationError error
	NotificationError error
}

func NewMockMailer() *MockMailer {
	return &MockMailer{}
}

func (m *MockMailer) SendConfirmation(ctx context.Context, email mailer.ConfirmationEmail) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.ConfirmationError != nil {
		return m.ConfirmationError
	}
	m.Confirmations = append(m.Confirmations, email)
	return nil
}

func (m *MockMailer) SendNotification(ctx context.Context, email mailer.NotificationEmail) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.NotificationError != nil {
		return m.NotificationError
	}
	m.Notifications = append(m.Notifications, email)
	return nil
}

// SentCounts returns how many confirmation and notification emails have
// been recorded so far.
func (m *MockMailer) SentCounts() (confirmations, notifications int) {
	m.mu.Lock()
	defer m.mu.Unlock()
	return len(m.Confirmations), len(m.Notifications)
}
