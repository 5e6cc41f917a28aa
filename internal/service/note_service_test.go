package service

import (
	"bytes"
	"context"
	"database/sql"
	"errors"
	"fmt"
	"io"
	"os"
	"sort"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"

	"github.com/noah-isme/campus-records-api/internal/dto"
	"github.com/noah-isme/campus-records-api/internal/models"
	"github.com/noah-isme/campus-records-api/internal/repository"
	appErrors "github.com/noah-isme/campus-records-api/pkg/errors"
	"github.com/noah-isme/campus-records-api/pkg/jobs"
	"github.com/noah-isme/campus-records-api/pkg/storage"
)

type savedKey struct {
	userID string
	noteID int64
}

// memoryNoteRepo mirrors the constraints of the notes and saved_notes tables.
type memoryNoteRepo struct {
	mu        sync.Mutex
	users     map[string]string
	notes     map[int64]models.Note
	saved     map[savedKey]time.Time
	nextID    int64
	createErr error
}

func newMemoryNoteRepo(users ...string) *memoryNoteRepo {
	repo := &memoryNoteRepo{users: map[string]string{}, notes: map[int64]models.Note{}, saved: map[savedKey]time.Time{}}
	for _, u := range users {
		repo.users[u] = "name-" + u
	}
	return repo
}

func (m *memoryNoteRepo) CreateForUploader(ctx context.Context, note *models.Note) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.createErr != nil {
		return m.createErr
	}
	if _, ok := m.users[note.UploaderID]; !ok {
		return fmt.Errorf("%w: uploader %s", repository.ErrMissingReference, note.UploaderID)
	}
	m.nextID++
	note.ID = m.nextID
	m.notes[note.ID] = *note
	return nil
}

func (m *memoryNoteRepo) GetByID(ctx context.Context, id int64) (*models.Note, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	note, ok := m.notes[id]
	if !ok {
		return nil, sql.ErrNoRows
	}
	return &note, nil
}

func (m *memoryNoteRepo) GetByFilename(ctx context.Context, filename string) (*models.Note, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	for _, note := range m.notes {
		if note.Filename == filename {
			n := note
			return &n, nil
		}
	}
	return nil, sql.ErrNoRows
}

func (m *memoryNoteRepo) ListByUploader(ctx context.Context, userID string) ([]models.Note, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	out := []models.Note{}
	for _, note := range m.notes {
		if note.UploaderID == userID {
			out = append(out, note)
		}
	}
	return out, nil
}

func (m *memoryNoteRepo) ListAll(ctx context.Context) ([]models.NoteWithUploader, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	out := []models.NoteWithUploader{}
	for _, note := range m.notes {
		out = append(out, models.NoteWithUploader{Note: note, UploaderName: m.users[note.UploaderID]})
	}
	return out, nil
}

func (m *memoryNoteRepo) Save(ctx context.Context, userID string, noteID int64, savedAt time.Time) (bool, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	_, userOK := m.users[userID]
	_, noteOK := m.notes[noteID]
	if !userOK || !noteOK {
		return false, fmt.Errorf("save note: %w", repository.ErrMissingReference)
	}
	key := savedKey{userID, noteID}
	if _, exists := m.saved[key]; exists {
		return false, nil
	}
	m.saved[key] = savedAt
	return true, nil
}

func (m *memoryNoteRepo) Unsave(ctx context.Context, userID string, noteID int64) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	delete(m.saved, savedKey{userID, noteID})
	return nil
}

func (m *memoryNoteRepo) ListSaved(ctx context.Context, userID string) ([]models.SavedNote, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	out := []models.SavedNote{}
	for key, at := range m.saved {
		if key.userID == userID {
			note := m.notes[key.noteID]
			out = append(out, models.SavedNote{Note: note, UploaderName: m.users[note.UploaderID], SavedAt: at})
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i].SavedAt.After(out[j].SavedAt) })
	return out, nil
}

func (m *memoryNoteRepo) DeleteOwned(ctx context.Context, noteID int64, uploaderID string) (string, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	note, ok := m.notes[noteID]
	if !ok {
		return "", sql.ErrNoRows
	}
	if note.UploaderID != uploaderID {
		return "", repository.ErrNotOwner
	}
	for key := range m.saved {
		if key.noteID == noteID {
			delete(m.saved, key)
		}
	}
	delete(m.notes, noteID)
	return note.Filename, nil
}

func (m *memoryNoteRepo) savedCount(noteID int64) int {
	m.mu.Lock()
	defer m.mu.Unlock()
	n := 0
	for key := range m.saved {
		if key.noteID == noteID {
			n++
		}
	}
	return n
}

type failingDeleteStore struct {
	storage.BlobStore
}

func (f failingDeleteStore) Delete(ctx context.Context, name string) error {
	return errors.New("bucket unavailable")
}

type mockCleanupQueue struct {
	mock.Mock
}

func (m *mockCleanupQueue) TryEnqueue(job jobs.Job) error {
	args := m.Called(job)
	return args.Error(0)
}

type noteFixture struct {
	svc   *NoteService
	repo  *memoryNoteRepo
	store *storage.LocalStorage
	dir   string
}

func newNoteFixture(t *testing.T, users ...string) *noteFixture {
	t.Helper()
	dir := t.TempDir()
	store, err := storage.NewLocalStorage(dir)
	require.NoError(t, err)
	repo := newMemoryNoteRepo(users...)
	svc := NewNoteService(repo, store, nil, nil, nil, nil, nil, NoteServiceConfig{AllowedCoursePrefixes: []string{"CSE", "MAT", "PHY"}, MaxUploadSize: 1 << 20})
	return &noteFixture{svc: svc, repo: repo, store: store, dir: dir}
}

func (f *noteFixture) upload(t *testing.T, uploader, course string, content []byte) *models.Note {
	t.Helper()
	note, err := f.svc.Upload(context.Background(),
		dto.UploadNoteRequest{Title: "Notes", Course: course, UploaderID: uploader},
		NoteUpload{Filename: "lecture 1.pdf", Size: int64(len(content)), ContentType: "application/pdf", Content: bytes.NewReader(content)})
	require.NoError(t, err)
	return note
}

func blobCount(t *testing.T, dir string) int {
	t.Helper()
	entries, err := os.ReadDir(dir)
	require.NoError(t, err)
	return len(entries)
}

func TestUploadDownloadRoundTrip(t *testing.T) {
	f := newNoteFixture(t, "u1")
	content := []byte("%PDF-1.4 lecture body \x00\x01\x02")

	note := f.upload(t, "u1", "cse110", content)
	assert.Contains(t, note.Filename, "_lecture_1.pdf")
	assert.Equal(t, "lecture 1.pdf", note.OriginalFilename)
	assert.Equal(t, int64(len(content)), note.FileSize)

	dl, err := f.svc.Download(context.Background(), note.Filename)
	require.NoError(t, err)
	defer dl.Body.Close()
	got, err := io.ReadAll(dl.Body)
	require.NoError(t, err)
	assert.Equal(t, content, got)
	assert.Equal(t, "application/pdf", dl.ContentType)
}

func TestUploadSameNameTwiceKeepsBoth(t *testing.T) {
	f := newNoteFixture(t, "u1")
	first := f.upload(t, "u1", "MAT120", []byte("first"))
	second := f.upload(t, "u1", "MAT120", []byte("second"))
	assert.NotEqual(t, first.Filename, second.Filename)
	assert.Equal(t, 2, blobCount(t, f.dir))
}

func TestUploadRejectsUnknownCourseWithoutBlob(t *testing.T) {
	f := newNoteFixture(t, "u1")
	_, err := f.svc.Upload(context.Background(),
		dto.UploadNoteRequest{Title: "Notes", Course: "XYZ101", UploaderID: "u1"},
		NoteUpload{Filename: "a.pdf", Size: 3, Content: bytes.NewReader([]byte("abc"))})
	require.Error(t, err)
	assert.Equal(t, appErrors.ErrValidation.Code, appCode(err))
	assert.Equal(t, 0, blobCount(t, f.dir))
	assert.Empty(t, f.repo.notes)
}

func TestUploadUnknownUploaderRemovesBlob(t *testing.T) {
	f := newNoteFixture(t)
	_, err := f.svc.Upload(context.Background(),
		dto.UploadNoteRequest{Title: "Notes", Course: "PHY111", UploaderID: "ghost"},
		NoteUpload{Filename: "a.pdf", Size: 3, Content: bytes.NewReader([]byte("abc"))})
	require.Error(t, err)
	assert.Equal(t, appErrors.ErrNotFound.Code, appCode(err))
	assert.Equal(t, 0, blobCount(t, f.dir))
}

func TestUploadMetadataFailureRemovesBlob(t *testing.T) {
	f := newNoteFixture(t, "u1")
	f.repo.createErr = errors.New("deadlock detected")
	_, err := f.svc.Upload(context.Background(),
		dto.UploadNoteRequest{Title: "Notes", Course: "CSE220", UploaderID: "u1"},
		NoteUpload{Filename: "a.pdf", Size: 3, Content: bytes.NewReader([]byte("abc"))})
	assert.Equal(t, appErrors.ErrStorage.Code, appCode(err))
	assert.Equal(t, 0, blobCount(t, f.dir))
}

func TestUploadRejectsOversizedAndEmptyFiles(t *testing.T) {
	f := newNoteFixture(t, "u1")
	meta := dto.UploadNoteRequest{Title: "Notes", Course: "CSE220", UploaderID: "u1"}

	_, err := f.svc.Upload(context.Background(), meta, NoteUpload{Filename: "a.pdf", Size: 2 << 20, Content: bytes.NewReader(nil)})
	assert.Equal(t, appErrors.ErrValidation.Code, appCode(err))

	_, err = f.svc.Upload(context.Background(), meta, NoteUpload{Filename: "a.pdf"})
	assert.Equal(t, appErrors.ErrValidation.Code, appCode(err))
	assert.Equal(t, 0, blobCount(t, f.dir))
}

func TestDownloadMissing(t *testing.T) {
	f := newNoteFixture(t, "u1")
	_, err := f.svc.Download(context.Background(), "nope.pdf")
	assert.Equal(t, appErrors.ErrNotFound.Code, appCode(err))

	_, err = f.svc.Download(context.Background(), "../etc/passwd")
	assert.Equal(t, appErrors.ErrNotFound.Code, appCode(err))
}

func TestSaveTwiceConflicts(t *testing.T) {
	f := newNoteFixture(t, "u1", "u2")
	note := f.upload(t, "u1", "CSE110", []byte("abc"))
	ctx := context.Background()

	require.NoError(t, f.svc.Save(ctx, models.SaveNoteRequest{UserID: "u2", NoteID: note.ID}, nil))
	err := f.svc.Save(ctx, models.SaveNoteRequest{UserID: "u2", NoteID: note.ID}, nil)
	assert.Equal(t, appErrors.ErrConflict.Code, appCode(err))
	assert.Equal(t, 1, f.repo.savedCount(note.ID))

	err = f.svc.Save(ctx, models.SaveNoteRequest{UserID: "u2", NoteID: 999}, nil)
	assert.Equal(t, appErrors.ErrNotFound.Code, appCode(err))
}

func TestSaveWithForeignTokenForbidden(t *testing.T) {
	f := newNoteFixture(t, "u1", "u2")
	note := f.upload(t, "u1", "CSE110", []byte("abc"))

	err := f.svc.Save(context.Background(), models.SaveNoteRequest{UserID: "u2", NoteID: note.ID}, &models.JWTClaims{UserID: "u1"})
	assert.Equal(t, appErrors.ErrForbidden.Code, appCode(err))
	assert.Equal(t, 0, f.repo.savedCount(note.ID))
}

func TestUnsaveIsIdempotent(t *testing.T) {
	f := newNoteFixture(t, "u1")
	note := f.upload(t, "u1", "CSE110", []byte("abc"))
	ctx := context.Background()

	require.NoError(t, f.svc.Save(ctx, models.SaveNoteRequest{UserID: "u1", NoteID: note.ID}, nil))
	require.NoError(t, f.svc.Unsave(ctx, "u1", note.ID, nil))
	require.NoError(t, f.svc.Unsave(ctx, "u1", note.ID, nil))
	assert.Equal(t, 0, f.repo.savedCount(note.ID))
}

func TestListSavedMostRecentFirst(t *testing.T) {
	f := newNoteFixture(t, "u1", "u2")
	first := f.upload(t, "u1", "CSE110", []byte("a"))
	second := f.upload(t, "u1", "MAT110", []byte("b"))
	ctx := context.Background()

	base := time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC)
	f.svc.now = func() time.Time { return base }
	require.NoError(t, f.svc.Save(ctx, models.SaveNoteRequest{UserID: "u2", NoteID: first.ID}, nil))
	f.svc.now = func() time.Time { return base.Add(time.Minute) }
	require.NoError(t, f.svc.Save(ctx, models.SaveNoteRequest{UserID: "u2", NoteID: second.ID}, nil))

	saved, err := f.svc.ListSaved(ctx, "u2")
	require.NoError(t, err)
	require.Len(t, saved, 2)
	assert.Equal(t, second.ID, saved[0].ID)
	assert.Equal(t, first.ID, saved[1].ID)
}

func TestDeleteByNonOwnerLeavesEverything(t *testing.T) {
	f := newNoteFixture(t, "u1", "u2")
	note := f.upload(t, "u1", "CSE110", []byte("abc"))
	ctx := context.Background()
	require.NoError(t, f.svc.Save(ctx, models.SaveNoteRequest{UserID: "u2", NoteID: note.ID}, nil))

	err := f.svc.Delete(ctx, "u2", note.ID, nil)
	assert.Equal(t, appErrors.ErrForbidden.Code, appCode(err))

	_, err = f.repo.GetByID(ctx, note.ID)
	assert.NoError(t, err)
	exists, err := f.store.Exists(ctx, note.Filename)
	require.NoError(t, err)
	assert.True(t, exists)
	assert.Equal(t, 1, f.repo.savedCount(note.ID))
}

func TestDeleteByOwnerCascades(t *testing.T) {
	f := newNoteFixture(t, "u1", "u2", "u3")
	note := f.upload(t, "u1", "CSE110", []byte("abc"))
	ctx := context.Background()
	require.NoError(t, f.svc.Save(ctx, models.SaveNoteRequest{UserID: "u2", NoteID: note.ID}, nil))
	require.NoError(t, f.svc.Save(ctx, models.SaveNoteRequest{UserID: "u3", NoteID: note.ID}, nil))

	require.NoError(t, f.svc.Delete(ctx, "u1", note.ID, nil))

	_, err := f.repo.GetByID(ctx, note.ID)
	assert.ErrorIs(t, err, sql.ErrNoRows)
	exists, err := f.store.Exists(ctx, note.Filename)
	require.NoError(t, err)
	assert.False(t, exists)
	for _, user := range []string{"u2", "u3"} {
		saved, err := f.svc.ListSaved(ctx, user)
		require.NoError(t, err)
		assert.Empty(t, saved)
	}
}

func TestDeleteMissingNote(t *testing.T) {
	f := newNoteFixture(t, "u1")
	err := f.svc.Delete(context.Background(), "u1", 42, nil)
	assert.Equal(t, appErrors.ErrNotFound.Code, appCode(err))
}

func TestDeleteToleratesMissingBlob(t *testing.T) {
	f := newNoteFixture(t, "u1")
	note := f.upload(t, "u1", "CSE110", []byte("abc"))
	require.NoError(t, f.store.Delete(context.Background(), note.Filename))

	require.NoError(t, f.svc.Delete(context.Background(), "u1", note.ID, nil))
}

func TestDeleteQueuesBlobRetryOnStoreFailure(t *testing.T) {
	dir := t.TempDir()
	local, err := storage.NewLocalStorage(dir)
	require.NoError(t, err)
	repo := newMemoryNoteRepo("u1")
	queue := &mockCleanupQueue{}
	svc := NewNoteService(repo, failingDeleteStore{local}, nil, queue, nil, nil, nil, NoteServiceConfig{})

	note, err := svc.Upload(context.Background(),
		dto.UploadNoteRequest{Title: "Notes", Course: "CSE110", UploaderID: "u1"},
		NoteUpload{Filename: "a.pdf", Size: 3, Content: bytes.NewReader([]byte("abc"))})
	require.NoError(t, err)

	queue.On("TryEnqueue", mock.MatchedBy(func(job jobs.Job) bool {
		return job.Type == JobTypeBlobDelete && job.Payload == note.Filename
	})).Return(nil).Once()

	require.NoError(t, svc.Delete(context.Background(), "u1", note.ID, nil))
	queue.AssertExpectations(t)
	_, err = repo.GetByID(context.Background(), note.ID)
	assert.ErrorIs(t, err, sql.ErrNoRows)
}

type countingCache struct {
	store       map[string]interface{}
	invalidated []string
}

func (c *countingCache) Get(ctx context.Context, key string, dest interface{}) bool {
	v, ok := c.store[key]
	if !ok {
		return false
	}
	*(dest.(*[]models.NoteWithUploader)) = v.([]models.NoteWithUploader)
	return true
}

func (c *countingCache) Set(ctx context.Context, key string, value interface{}, ttl time.Duration) {
	c.store[key] = value
}

func (c *countingCache) Invalidate(ctx context.Context, keys ...string) {
	for _, k := range keys {
		delete(c.store, k)
	}
	c.invalidated = append(c.invalidated, keys...)
}

func TestListAllUsesCacheAndUploadInvalidates(t *testing.T) {
	f := newNoteFixture(t, "u1")
	cache := &countingCache{store: map[string]interface{}{}}
	f.svc.cache = cache
	ctx := context.Background()

	f.upload(t, "u1", "CSE110", []byte("a"))
	notes, err := f.svc.ListAll(ctx)
	require.NoError(t, err)
	require.Len(t, notes, 1)
	assert.Equal(t, "name-u1", notes[0].UploaderName)
	assert.Contains(t, cache.store, cacheKeyAllNotes)

	f.upload(t, "u1", "CSE111", []byte("b"))
	assert.NotContains(t, cache.store, cacheKeyAllNotes)
	notes, err = f.svc.ListAll(ctx)
	require.NoError(t, err)
	assert.Len(t, notes, 2)
}

func TestSanitizeFilename(t *testing.T) {
	assert.Equal(t, "lecture_1.pdf", sanitizeFilename("lecture 1.pdf"))
	assert.Equal(t, "file", sanitizeFilename("..."))
	assert.Equal(t, "a_b.txt", sanitizeFilename("a/b.txt"))
}
