package services

import (
	"context"
	"database/sql"
	"errors"
	"io"
	"path/filepath"
	"slices"
	"strings"
	"time"

	"github.com/csye-webapp/webapp/internal/common"
	"github.com/csye-webapp/webapp/internal/logging"
	"github.com/csye-webapp/webapp/internal/metrics"
	"github.com/csye-webapp/webapp/internal/server/models"
	"github.com/csye-webapp/webapp/internal/server/repositories/repomanager"
	"github.com/csye-webapp/webapp/internal/server/storage"
	"github.com/google/uuid"
)

var allowedImageExts = []string{"jpg", "jpeg", "png"}

type ProfilePicService struct {
	db          *sql.DB
	repomanager repomanager.RepositoryManager
	store       storage.ObjectStore
	metrics     metrics.Recorder
	logger      logging.Logger
	now         Clock
	newName     func() string
}

func NewProfilePicService(db *sql.DB, m repomanager.RepositoryManager, store storage.ObjectStore,
	rec metrics.Recorder, l logging.Logger) *ProfilePicService {
	return &ProfilePicService{
		db:          db,
		repomanager: m,
		store:       store,
		metrics:     rec,
		logger:      l,
		now:         utcNow,
		newName:     uuid.NewString,
	}
}

// ImageExt returns the lower-cased extension of name without the dot and
// whether it is an accepted image format.
func ImageExt(name string) (string, bool) {
	ext := strings.ToLower(strings.TrimPrefix(filepath.Ext(name), "."))
	return ext, slices.Contains(allowedImageExts, ext)
}

// Add uploads body for userID and records its metadata. The object is
// written before the row; a crash in between leaves an orphan object.
func (s *ProfilePicService) Add(ctx context.Context, userID, originalName string, body io.Reader) (*models.ProfilePic, error) {
	ext, ok := ImageExt(originalName)
	if !ok {
		return nil, common.ErrInvalidFileFormat
	}

	start := time.Now()
	defer func() { s.metrics.RecordDBQueryTime("addProfilePic", time.Since(start)) }()

	repo := s.repomanager.ProfilePics(s.db)

	_, err := repo.GetByUserID(ctx, userID)
	switch {
	case err == nil:
		return nil, common.ErrProfilePicExists
	case !errors.Is(err, common.ErrorNotFound):
		return nil, common.ErrAddProfilePicFailed.WithCause(err)
	}

	fileName := s.newName() + "." + ext
	key := userID + "/" + fileName

	if err := s.store.Put(ctx, key, body, "image/"+ext); err != nil {
		return nil, common.ErrAddProfilePicFailed.WithCause(err)
	}

	pic, err := repo.Create(ctx, &models.ProfilePic{
		FileName:   fileName,
		URL:        s.store.URL(key),
		UploadDate: s.now(),
		UserID:     userID,
	})
	if err != nil {
		// Lost a race with a concurrent upload; drop our object.
		if derr := s.store.Delete(ctx, key); derr != nil {
			s.logger.Warn(ctx, "orphan object left behind", "key", key, "error", derr)
		}
		if errors.Is(err, common.ErrorAlreadyExists) {
			return nil, common.ErrProfilePicExists
		}
		return nil, common.ErrAddProfilePicFailed.WithCause(err)
	}

	s.logger.Info(ctx, "profile picture added", "user_id", userID)
	return pic, nil
}

func (s *ProfilePicService) Get(ctx context.Context, userID string) (*models.ProfilePic, error) {
	start := time.Now()
	defer func() { s.metrics.RecordDBQueryTime("getProfilePic", time.Since(start)) }()

	pic, err := s.repomanager.ProfilePics(s.db).GetByUserID(ctx, userID)
	if err != nil {
		if errors.Is(err, common.ErrorNotFound) {
			return nil, common.ErrProfilePicNotFound
		}
		return nil, common.ErrGetProfilePicFailed.WithCause(err)
	}
	return pic, nil
}

// Delete removes the stored object and then its metadata row.
func (s *ProfilePicService) Delete(ctx context.Context, userID string) error {
	start := time.Now()
	defer func() { s.metrics.RecordDBQueryTime("deleteProfilePic", time.Since(start)) }()

	repo := s.repomanager.ProfilePics(s.db)

	pic, err := repo.GetByUserID(ctx, userID)
	if err != nil {
		if errors.Is(err, common.ErrorNotFound) {
			return common.ErrProfilePicNotFound
		}
		return common.ErrDeleteProfilePicFailed.WithCause(err)
	}

	if err := s.store.Delete(ctx, pic.UserID+"/"+pic.FileName); err != nil {
		return common.ErrDeleteProfilePicFailed.WithCause(err)
	}

	if err := repo.DeleteByID(ctx, pic.ID); err != nil {
		if errors.Is(err, common.ErrorNotFound) {
			return common.ErrProfilePicNotFound
		}
		return common.ErrDeleteProfilePicFailed.WithCause(err)
	}

	s.logger.Info(ctx, "profile picture deleted", "user_id", userID)
	return nil
}
