package service

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"io"
	"path/filepath"
	"regexp"
	"strings"
	"time"

	"github.com/go-playground/validator/v10"
	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/noah-isme/campus-records-api/internal/dto"
	"github.com/noah-isme/campus-records-api/internal/models"
	"github.com/noah-isme/campus-records-api/internal/repository"
	appErrors "github.com/noah-isme/campus-records-api/pkg/errors"
	"github.com/noah-isme/campus-records-api/pkg/jobs"
	"github.com/noah-isme/campus-records-api/pkg/storage"
)

type noteRepository interface {
	CreateForUploader(ctx context.Context, note *models.Note) error
	GetByID(ctx context.Context, id int64) (*models.Note, error)
	GetByFilename(ctx context.Context, filename string) (*models.Note, error)
	ListByUploader(ctx context.Context, userID string) ([]models.Note, error)
	ListAll(ctx context.Context) ([]models.NoteWithUploader, error)
	Save(ctx context.Context, userID string, noteID int64, savedAt time.Time) (bool, error)
	Unsave(ctx context.Context, userID string, noteID int64) error
	ListSaved(ctx context.Context, userID string) ([]models.SavedNote, error)
	DeleteOwned(ctx context.Context, noteID int64, uploaderID string) (string, error)
}

type listingCache interface {
	Get(ctx context.Context, key string, dest interface{}) bool
	Set(ctx context.Context, key string, value interface{}, ttl time.Duration)
	Invalidate(ctx context.Context, keys ...string)
}

type blobCleanupQueue interface {
	TryEnqueue(job jobs.Job) error
}

// NoteUpload carries the uploaded file stream.
type NoteUpload struct {
	Filename    string
	Size        int64
	ContentType string
	Content     io.Reader
}

// NoteDownload is an open blob plus the metadata needed to stream it.
type NoteDownload struct {
	Note        *models.Note
	Body        io.ReadCloser
	Size        int64
	ContentType string
}

// NoteServiceConfig holds upload policy.
type NoteServiceConfig struct {
	AllowedCoursePrefixes []string
	MaxUploadSize         int64
	CacheTTL              time.Duration
}

// NoteService manages note metadata, blobs and saved bookmarks.
type NoteService struct {
	repo      noteRepository
	store     storage.BlobStore
	cache     listingCache
	cleanup   blobCleanupQueue
	metrics   *MetricsService
	validator *validator.Validate
	logger    *zap.Logger
	cfg       NoteServiceConfig
	now       func() time.Time
}

// NewNoteService constructs the service with defaults. cache and cleanup may be nil.
func NewNoteService(repo noteRepository, store storage.BlobStore, cache listingCache, cleanup blobCleanupQueue, metrics *MetricsService, validate *validator.Validate, logger *zap.Logger, cfg NoteServiceConfig) *NoteService {
	if logger == nil {
		logger = zap.NewNop()
	}
	if validate == nil {
		validate = validator.New()
	}
	if cfg.MaxUploadSize <= 0 {
		cfg.MaxUploadSize = 20 << 20
	}
	if len(cfg.AllowedCoursePrefixes) == 0 {
		cfg.AllowedCoursePrefixes = []string{"CSE", "MAT", "PHY"}
	}
	prefixes := make([]string, 0, len(cfg.AllowedCoursePrefixes))
	for _, p := range cfg.AllowedCoursePrefixes {
		if p = strings.ToUpper(strings.TrimSpace(p)); p != "" {
			prefixes = append(prefixes, p)
		}
	}
	cfg.AllowedCoursePrefixes = prefixes
	return &NoteService{
		repo:      repo,
		store:     store,
		cache:     cache,
		cleanup:   cleanup,
		metrics:   metrics,
		validator: validate,
		logger:    logger,
		cfg:       cfg,
		now:       time.Now,
	}
}

// Upload stores the blob under a generated name and records its metadata.
// The blob is removed again when the metadata insert fails.
func (s *NoteService) Upload(ctx context.Context, meta dto.UploadNoteRequest, upload NoteUpload) (*models.Note, error) {
	meta.Title = strings.TrimSpace(meta.Title)
	meta.Course = strings.TrimSpace(meta.Course)
	meta.UploaderID = strings.TrimSpace(meta.UploaderID)
	if err := s.validator.Struct(meta); err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrValidation.Code, appErrors.ErrValidation.Status, "invalid note payload")
	}
	if !s.courseAllowed(meta.Course) {
		return nil, appErrors.Clone(appErrors.ErrValidation, fmt.Sprintf("course must match one of %s", strings.Join(s.cfg.AllowedCoursePrefixes, ", ")))
	}
	if upload.Content == nil || upload.Size <= 0 {
		return nil, appErrors.Clone(appErrors.ErrValidation, "file is required")
	}
	if upload.Size > s.cfg.MaxUploadSize {
		return nil, appErrors.Clone(appErrors.ErrValidation, fmt.Sprintf("file exceeds %d bytes limit", s.cfg.MaxUploadSize))
	}

	original := filepath.Base(strings.ReplaceAll(upload.Filename, `\`, "/"))
	name := uuid.NewString() + "_" + sanitizeFilename(original)
	contentType := upload.ContentType
	if contentType == "" {
		contentType = "application/octet-stream"
	}

	if err := s.store.Put(ctx, name, upload.Content, upload.Size, contentType); err != nil {
		return nil, appErrors.Storage(err, "failed to store file")
	}

	note := &models.Note{
		Title:            meta.Title,
		Description:      strings.TrimSpace(meta.Description),
		Course:           meta.Course,
		Filename:         name,
		OriginalFilename: original,
		ContentType:      contentType,
		UploaderID:       meta.UploaderID,
		FileSize:         upload.Size,
		UploadedAt:       s.now().UTC(),
	}
	if err := s.repo.CreateForUploader(ctx, note); err != nil {
		if delErr := s.store.Delete(context.WithoutCancel(ctx), name); delErr != nil {
			s.logger.Error("failed to remove blob after metadata failure", zap.String("filename", name), zap.Error(delErr))
		}
		switch {
		case errors.Is(err, repository.ErrMissingReference):
			return nil, appErrors.Wrap(err, appErrors.ErrNotFound.Code, appErrors.ErrNotFound.Status, "uploader not found")
		case errors.Is(err, repository.ErrDuplicate):
			return nil, appErrors.Wrap(err, appErrors.ErrConflict.Code, appErrors.ErrConflict.Status, "file name already in use")
		default:
			return nil, appErrors.Storage(err, "failed to record note")
		}
	}

	s.invalidate(ctx)
	s.metrics.RecordNoteUpload()
	s.logger.Info("note uploaded", zap.Int64("note_id", note.ID), zap.String("uploader_id", note.UploaderID), zap.Int64("size", note.FileSize))
	return note, nil
}

// ListByUploader returns the notes uploaded by userID.
func (s *NoteService) ListByUploader(ctx context.Context, userID string) ([]models.Note, error) {
	userID = strings.TrimSpace(userID)
	if userID == "" {
		return nil, appErrors.Clone(appErrors.ErrValidation, "user_id is required")
	}
	notes, err := s.repo.ListByUploader(ctx, userID)
	if err != nil {
		return nil, appErrors.Storage(err, "failed to list notes")
	}
	return notes, nil
}

// ListAll returns every note with its uploader name, served from cache when possible.
func (s *NoteService) ListAll(ctx context.Context) ([]models.NoteWithUploader, error) {
	var cached []models.NoteWithUploader
	if s.cache != nil && s.cache.Get(ctx, cacheKeyAllNotes, &cached) {
		return cached, nil
	}
	notes, err := s.repo.ListAll(ctx)
	if err != nil {
		return nil, appErrors.Storage(err, "failed to list notes")
	}
	if s.cache != nil {
		s.cache.Set(ctx, cacheKeyAllNotes, notes, s.cfg.CacheTTL)
	}
	return notes, nil
}

// Download opens the blob stored under filename. Callers must close Body.
func (s *NoteService) Download(ctx context.Context, filename string) (*NoteDownload, error) {
	if err := storage.ValidateName(filename); err != nil {
		return nil, appErrors.Clone(appErrors.ErrNotFound, "file not found")
	}
	note, err := s.repo.GetByFilename(ctx, filename)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, appErrors.Clone(appErrors.ErrNotFound, "file not found")
		}
		return nil, appErrors.Storage(err, "failed to load note")
	}
	blob, err := s.store.Get(ctx, filename)
	if err != nil {
		if errors.Is(err, storage.ErrNotFound) {
			s.logger.Warn("note metadata without blob", zap.Int64("note_id", note.ID), zap.String("filename", filename))
			return nil, appErrors.Clone(appErrors.ErrNotFound, "file not found")
		}
		return nil, appErrors.Storage(err, "failed to open file")
	}
	contentType := blob.ContentType
	if contentType == "" || contentType == "application/octet-stream" {
		contentType = note.ContentType
	}
	return &NoteDownload{Note: note, Body: blob.Body, Size: blob.Size, ContentType: contentType}, nil
}

// Save bookmarks a note. Saving the same pair twice yields Conflict.
func (s *NoteService) Save(ctx context.Context, req models.SaveNoteRequest, actor *models.JWTClaims) error {
	req.UserID = strings.TrimSpace(req.UserID)
	if err := s.validator.Struct(req); err != nil {
		return appErrors.Wrap(err, appErrors.ErrValidation.Code, appErrors.ErrValidation.Status, "invalid save payload")
	}
	if err := authorizeActor(actor, req.UserID); err != nil {
		return err
	}
	inserted, err := s.repo.Save(ctx, req.UserID, req.NoteID, s.now().UTC())
	if err != nil {
		if errors.Is(err, repository.ErrMissingReference) {
			return appErrors.Wrap(err, appErrors.ErrNotFound.Code, appErrors.ErrNotFound.Status, "note or user not found")
		}
		return appErrors.Storage(err, "failed to save note")
	}
	if !inserted {
		return appErrors.Clone(appErrors.ErrConflict, "note already saved")
	}
	return nil
}

// Unsave removes a bookmark; removing an absent bookmark succeeds.
func (s *NoteService) Unsave(ctx context.Context, userID string, noteID int64, actor *models.JWTClaims) error {
	userID = strings.TrimSpace(userID)
	if userID == "" || noteID <= 0 {
		return appErrors.Clone(appErrors.ErrValidation, "user_id and note_id are required")
	}
	if err := authorizeActor(actor, userID); err != nil {
		return err
	}
	if err := s.repo.Unsave(ctx, userID, noteID); err != nil {
		return appErrors.Storage(err, "failed to unsave note")
	}
	return nil
}

// ListSaved returns the user's bookmarks, most recent first.
func (s *NoteService) ListSaved(ctx context.Context, userID string) ([]models.SavedNote, error) {
	userID = strings.TrimSpace(userID)
	if userID == "" {
		return nil, appErrors.Clone(appErrors.ErrValidation, "user_id is required")
	}
	notes, err := s.repo.ListSaved(ctx, userID)
	if err != nil {
		return nil, appErrors.Storage(err, "failed to list saved notes")
	}
	return notes, nil
}

// Delete removes a note owned by userID together with its bookmarks, then
// its blob. Blob removal failures are retried in the background.
func (s *NoteService) Delete(ctx context.Context, userID string, noteID int64, actor *models.JWTClaims) error {
	userID = strings.TrimSpace(userID)
	if userID == "" || noteID <= 0 {
		return appErrors.Clone(appErrors.ErrValidation, "user_id and note_id are required")
	}
	if err := authorizeActor(actor, userID); err != nil {
		return err
	}

	note, err := s.repo.GetByID(ctx, noteID)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return appErrors.Clone(appErrors.ErrNotFound, "note not found")
		}
		return appErrors.Storage(err, "failed to load note")
	}
	if note.UploaderID != userID {
		return appErrors.Clone(appErrors.ErrForbidden, "only the uploader can delete this note")
	}

	filename, err := s.repo.DeleteOwned(ctx, noteID, userID)
	if err != nil {
		switch {
		case errors.Is(err, sql.ErrNoRows):
			return appErrors.Clone(appErrors.ErrNotFound, "note not found")
		case errors.Is(err, repository.ErrNotOwner):
			return appErrors.Clone(appErrors.ErrForbidden, "only the uploader can delete this note")
		default:
			return appErrors.Storage(err, "failed to delete note")
		}
	}

	s.invalidate(ctx)
	s.removeBlob(ctx, filename)
	return nil
}

func (s *NoteService) removeBlob(ctx context.Context, filename string) {
	err := s.store.Delete(ctx, filename)
	if err == nil {
		s.metrics.ObserveBlobCleanup(CleanupRemoved)
		return
	}
	s.logger.Warn("blob delete failed, scheduling retry", zap.String("filename", filename), zap.Error(err))
	if s.cleanup == nil {
		s.metrics.ObserveBlobCleanup(CleanupDropped)
		return
	}
	job := jobs.Job{ID: uuid.NewString(), Type: JobTypeBlobDelete, Payload: filename}
	if qErr := s.cleanup.TryEnqueue(job); qErr != nil {
		s.logger.Error("failed to schedule blob cleanup", zap.String("filename", filename), zap.Error(qErr))
		s.metrics.ObserveBlobCleanup(CleanupDropped)
		return
	}
	s.metrics.ObserveBlobCleanup(CleanupQueued)
}

func (s *NoteService) invalidate(ctx context.Context) {
	if s.cache != nil {
		s.cache.Invalidate(ctx, cacheKeyAllNotes)
	}
}

func (s *NoteService) courseAllowed(course string) bool {
	upper := strings.ToUpper(course)
	for _, prefix := range s.cfg.AllowedCoursePrefixes {
		if strings.Contains(upper, prefix) {
			return true
		}
	}
	return false
}

// authorizeActor rejects a request whose bearer token belongs to another user.
// Requests without a token are allowed through.
func authorizeActor(actor *models.JWTClaims, userID string) error {
	if actor == nil || actor.UserID == userID {
		return nil
	}
	return appErrors.Clone(appErrors.ErrForbidden, "token does not belong to this user")
}

var unsafeFilenameChars = regexp.MustCompile(`[^A-Za-z0-9._-]+`)

func sanitizeFilename(name string) string {
	name = unsafeFilenameChars.ReplaceAllString(strings.TrimSpace(name), "_")
	name = strings.Trim(name, "._")
	if len(name) > 120 {
		name = name[len(name)-120:]
	}
	if name == "" {
		return "file"
	}
	return name
}
