package rest

import (
	"context"
	"io"
	"sync"
	"time"

	"github.com/csye-webapp/webapp/internal/common"
	"github.com/csye-webapp/webapp/internal/server/models"
	"github.com/csye-webapp/webapp/internal/server/validation"
)

// memAccounts is an in-memory stand-in for the user and auth services.
type memAccounts struct {
	mu          sync.Mutex
	byEmail     map[string]*models.User
	plain       map[string]string
	updates     int
	verifyErr   error
	authCalls   int
	registerErr error
}

func newMemAccounts() *memAccounts {
	return &memAccounts{byEmail: map[string]*models.User{}, plain: map[string]string{}}
}

func (m *memAccounts) Register(ctx context.Context, r validation.Registration) (*models.User, error) {
	if m.registerErr != nil {
		return nil, m.registerErr
	}
	if err := validation.ValidateRegistration(r); err != nil {
		return nil, err
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	if _, ok := m.byEmail[r.Email]; ok {
		return nil, common.ErrUserAlreadyExists
	}
	now := time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC)
	u := &models.User{
		ID: "u-" + r.Email, FirstName: r.FirstName, LastName: r.LastName, Email: r.Email,
		Password: "hashed", AccountCreated: now, AccountUpdated: now,
	}
	m.byEmail[r.Email] = u
	m.plain[r.Email] = r.Password
	return u, nil
}

func (m *memAccounts) GetSelf(ctx context.Context, userID string) (*models.User, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	for _, u := range m.byEmail {
		if u.ID == userID {
			return u, nil
		}
	}
	return nil, common.ErrUserNotFound
}

func (m *memAccounts) Update(ctx context.Context, userID string, upd validation.Update) error {
	if err := validation.ValidateUpdate(upd); err != nil {
		return err
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	for _, u := range m.byEmail {
		if u.ID != userID {
			continue
		}
		if upd.FirstName != nil {
			u.FirstName = *upd.FirstName
		}
		if upd.LastName != nil {
			u.LastName = *upd.LastName
		}
		if upd.Password != nil {
			m.plain[u.Email] = *upd.Password
		}
		m.updates++
		return nil
	}
	return common.ErrUserNotFound
}

func (m *memAccounts) Authenticate(ctx context.Context, email, password string) (*models.User, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.authCalls++
	u, ok := m.byEmail[email]
	if !ok {
		return nil, common.ErrUserNotFound
	}
	if m.plain[email] != password {
		return nil, common.ErrWrongPassword
	}
	return u, nil
}

func (m *memAccounts) CheckEmailVerified(ctx context.Context, user *models.User) error {
	return m.verifyErr
}

type memPics struct {
	byUser  map[string]*models.ProfilePic
	uploads []string
}

func newMemPics() *memPics { return &memPics{byUser: map[string]*models.ProfilePic{}} }

func (m *memPics) Add(ctx context.Context, userID, name string, body io.Reader) (*models.ProfilePic, error) {
	if _, ok := m.byUser[userID]; ok {
		return nil, common.ErrProfilePicExists
	}
	data, _ := io.ReadAll(body)
	m.uploads = append(m.uploads, name+":"+string(data))
	p := &models.ProfilePic{
		ID: "p-1", FileName: "f00d.png", URL: "bucket/" + userID + "/f00d.png",
		UploadDate: time.Date(2024, 1, 2, 0, 0, 0, 0, time.UTC), UserID: userID,
	}
	m.byUser[userID] = p
	return p, nil
}

func (m *memPics) Get(ctx context.Context, userID string) (*models.ProfilePic, error) {
	p, ok := m.byUser[userID]
	if !ok {
		return nil, common.ErrProfilePicNotFound
	}
	return p, nil
}

func (m *memPics) Delete(ctx context.Context, userID string) error {
	if _, ok := m.byUser[userID]; !ok {
		return common.ErrProfilePicNotFound
	}
	delete(m.byUser, userID)
	return nil
}

type fakeVerifier struct {
	err   error
	calls [][2]string
}

func (f *fakeVerifier) Verify(ctx context.Context, email, token string) error {
	f.calls = append(f.calls, [2]string{email, token})
	return f.err
}

type fakeReadiness struct {
	err   error
	calls int
}

func (f *fakeReadiness) Ready(context.Context) error {
	f.calls++
	return f.err
}

type countingRecorder struct {
	mu     sync.Mutex
	counts map[string]int
	times  map[string]int
}

func newCountingRecorder() *countingRecorder {
	return &countingRecorder{counts: map[string]int{}, times: map[string]int{}}
}

func (c *countingRecorder) IncrementAPICount(name string) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.counts[name]++
}

func (c *countingRecorder) RecordAPITime(name string, _ time.Duration) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.times[name]++
}

func (c *countingRecorder) RecordDBQueryTime(string, time.Duration)     {}
func (c *countingRecorder) RecordS3OperationTime(string, time.Duration) {}
