package services

import (
	"context"
	"database/sql"
	"io"
	"testing"
	"time"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/csye-webapp/webapp/internal/common"
	"github.com/csye-webapp/webapp/internal/dbx"
	"github.com/csye-webapp/webapp/internal/server/models"
	"github.com/csye-webapp/webapp/internal/server/notify"
	"github.com/csye-webapp/webapp/internal/server/repositories/profilepics"
	"github.com/csye-webapp/webapp/internal/server/repositories/users"
	"github.com/csye-webapp/webapp/internal/server/repositories/verifications"
)

// --- helpers ---

func newSQLMockDB(t *testing.T) (*sql.DB, sqlmock.Sqlmock) {
	t.Helper()
	db, mock, err := sqlmock.New()
	if err != nil {
		t.Fatalf("sqlmock.New error: %v", err)
	}
	t.Cleanup(func() { db.Close() })
	return db, mock
}

func fixedClock(t time.Time) Clock { return func() time.Time { return t } }

// --- users ---

type fakeUsersRepo struct {
	byEmail    map[string]*models.User
	getErr     error
	createErr  error
	created    []*models.User
	updated    map[string]models.UserUpdate
	updateErr  error
	getByIDOut *models.User
}

func newFakeUsers() *fakeUsersRepo {
	return &fakeUsersRepo{byEmail: map[string]*models.User{}, updated: map[string]models.UserUpdate{}}
}

func (f *fakeUsersRepo) Create(ctx context.Context, u *models.User) (*models.User, error) {
	if f.createErr != nil {
		return nil, f.createErr
	}
	u.ID = "u-1"
	f.created = append(f.created, u)
	f.byEmail[u.Email] = u
	return u, nil
}

func (f *fakeUsersRepo) GetByEmail(ctx context.Context, email string) (*models.User, error) {
	if f.getErr != nil {
		return nil, f.getErr
	}
	u, ok := f.byEmail[email]
	if !ok {
		return nil, common.ErrorNotFound
	}
	return u, nil
}

func (f *fakeUsersRepo) GetByID(ctx context.Context, id string) (*models.User, error) {
	if f.getErr != nil {
		return nil, f.getErr
	}
	if f.getByIDOut == nil {
		return nil, common.ErrorNotFound
	}
	return f.getByIDOut, nil
}

func (f *fakeUsersRepo) Update(ctx context.Context, id string, upd models.UserUpdate) error {
	if f.updateErr != nil {
		return f.updateErr
	}
	f.updated[id] = upd
	return nil
}

// --- profile pictures ---

type fakePicsRepo struct {
	byUser    map[string]*models.ProfilePic
	getErr    error
	createErr error
	deleteErr error
	deleted   []string
}

func newFakePics() *fakePicsRepo {
	return &fakePicsRepo{byUser: map[string]*models.ProfilePic{}}
}

func (f *fakePicsRepo) Create(ctx context.Context, p *models.ProfilePic) (*models.ProfilePic, error) {
	if f.createErr != nil {
		return nil, f.createErr
	}
	p.ID = "p-1"
	f.byUser[p.UserID] = p
	return p, nil
}

func (f *fakePicsRepo) GetByUserID(ctx context.Context, userID string) (*models.ProfilePic, error) {
	if f.getErr != nil {
		return nil, f.getErr
	}
	p, ok := f.byUser[userID]
	if !ok {
		return nil, common.ErrorNotFound
	}
	return p, nil
}

func (f *fakePicsRepo) DeleteByID(ctx context.Context, id string) error {
	if f.deleteErr != nil {
		return f.deleteErr
	}
	f.deleted = append(f.deleted, id)
	for k, p := range f.byUser {
		if p.ID == id {
			delete(f.byUser, k)
		}
	}
	return nil
}

// --- verifications ---

type fakeVerificationsRepo struct {
	rows      map[string]*models.EmailVerification
	createErr error
	findErr   error
	markErr   error
	created   []*models.EmailVerification
}

func newFakeVerifications() *fakeVerificationsRepo {
	return &fakeVerificationsRepo{rows: map[string]*models.EmailVerification{}}
}

func (f *fakeVerificationsRepo) Create(ctx context.Context, v *models.EmailVerification) (*models.EmailVerification, error) {
	if f.createErr != nil {
		return nil, f.createErr
	}
	v.ID = "v-1"
	f.created = append(f.created, v)
	f.rows[v.UserID] = v
	return v, nil
}

func (f *fakeVerificationsRepo) GetByUserID(ctx context.Context, userID string) (*models.EmailVerification, error) {
	if f.findErr != nil {
		return nil, f.findErr
	}
	v, ok := f.rows[userID]
	if !ok {
		return nil, common.ErrorNotFound
	}
	return v, nil
}

func (f *fakeVerificationsRepo) FindForUpdate(ctx context.Context, userID, email, token string) (*models.EmailVerification, error) {
	if f.findErr != nil {
		return nil, f.findErr
	}
	v, ok := f.rows[userID]
	if !ok || v.Email != email || v.Token != token {
		return nil, common.ErrorNotFound
	}
	return v, nil
}

func (f *fakeVerificationsRepo) MarkVerified(ctx context.Context, id string) error {
	if f.markErr != nil {
		return f.markErr
	}
	for _, v := range f.rows {
		if v.ID == id {
			v.IsVerified = true
			return nil
		}
	}
	return common.ErrorNotFound
}

// --- manager ---

type fakeRepoManager struct {
	u *fakeUsersRepo
	p *fakePicsRepo
	v *fakeVerificationsRepo
}

func newFakeManager() *fakeRepoManager {
	return &fakeRepoManager{u: newFakeUsers(), p: newFakePics(), v: newFakeVerifications()}
}

func (m *fakeRepoManager) RunMigrations(context.Context, *sql.DB) error         { return nil }
func (m *fakeRepoManager) Users(db dbx.DBTX) users.Repository                 { return m.u }
func (m *fakeRepoManager) ProfilePics(db dbx.DBTX) profilepics.Repository     { return m.p }
func (m *fakeRepoManager) Verifications(db dbx.DBTX) verifications.Repository { return m.v }

// --- collaborators ---

type fakeStore struct {
	objects map[string]string
	putErr  error
	delErr  error
	deleted []string
}

func newFakeStore() *fakeStore { return &fakeStore{objects: map[string]string{}} }

func (f *fakeStore) Put(ctx context.Context, key string, body io.Reader, contentType string) error {
	if f.putErr != nil {
		return f.putErr
	}
	b, _ := io.ReadAll(body)
	f.objects[key] = string(b)
	return nil
}

func (f *fakeStore) Delete(ctx context.Context, key string) error {
	f.deleted = append(f.deleted, key)
	if f.delErr != nil {
		return f.delErr
	}
	delete(f.objects, key)
	return nil
}

func (f *fakeStore) URL(key string) string { return "bucket/" + key }

type fakePublisher struct {
	sent []notify.VerificationMessage
	err  error
}

func (f *fakePublisher) PublishVerification(ctx context.Context, msg notify.VerificationMessage) error {
	f.sent = append(f.sent, msg)
	return f.err
}
