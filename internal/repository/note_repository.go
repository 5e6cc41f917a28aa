package repository

import (
	"context"
	"database/sql"
	"fmt"
	"time"

	"github.com/jmoiron/sqlx"

	"github.com/noah-isme/campus-records-api/internal/models"
)

const noteColumns = `n.id, n.title, n.description, n.course, n.filename, n.original_filename, n.content_type, n.uploader_id, n.file_size, n.uploaded_at`

// NoteRepository persists note metadata and saved-note bookmarks.
type NoteRepository struct {
	db *sqlx.DB
}

// NewNoteRepository constructs a NoteRepository.
func NewNoteRepository(db *sqlx.DB) *NoteRepository {
	return &NoteRepository{db: db}
}

// CreateForUploader verifies the uploader exists and inserts the note in one
// transaction. note.ID is populated on success.
func (r *NoteRepository) CreateForUploader(ctx context.Context, note *models.Note) (err error) {
	tx, err := r.db.BeginTxx(ctx, nil)
	if err != nil {
		return fmt.Errorf("begin note transaction: %w", err)
	}
	defer func() {
		if err != nil {
			_ = tx.Rollback()
		}
	}()

	var exists bool
	if err = tx.GetContext(ctx, &exists, `SELECT EXISTS(SELECT 1 FROM users WHERE user_id = $1)`, note.UploaderID); err != nil {
		return fmt.Errorf("check uploader: %w", err)
	}
	if !exists {
		err = fmt.Errorf("%w: uploader %s", ErrMissingReference, note.UploaderID)
		return err
	}

	if note.UploadedAt.IsZero() {
		note.UploadedAt = time.Now().UTC()
	}
	const insertQuery = `INSERT INTO notes (title, description, course, filename, original_filename, content_type, uploader_id, file_size, uploaded_at)
VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9) RETURNING id`
	if err = tx.QueryRowxContext(ctx, insertQuery,
		note.Title, note.Description, note.Course, note.Filename, note.OriginalFilename,
		note.ContentType, note.UploaderID, note.FileSize, note.UploadedAt,
	).Scan(&note.ID); err != nil {
		err = translateConstraint(err)
		return fmt.Errorf("insert note: %w", err)
	}

	if err = tx.Commit(); err != nil {
		return fmt.Errorf("commit note: %w", err)
	}
	return nil
}

// GetByID returns a note by id. sql.ErrNoRows is returned unchanged.
func (r *NoteRepository) GetByID(ctx context.Context, id int64) (*models.Note, error) {
	query := `SELECT ` + noteColumns + ` FROM notes n WHERE n.id = $1`
	var note models.Note
	if err := r.db.GetContext(ctx, &note, query, id); err != nil {
		if err == sql.ErrNoRows {
			return nil, err
		}
		return nil, fmt.Errorf("get note: %w", err)
	}
	return &note, nil
}

// GetByFilename returns a note by its stored blob key.
func (r *NoteRepository) GetByFilename(ctx context.Context, filename string) (*models.Note, error) {
	query := `SELECT ` + noteColumns + ` FROM notes n WHERE n.filename = $1`
	var note models.Note
	if err := r.db.GetContext(ctx, &note, query, filename); err != nil {
		if err == sql.ErrNoRows {
			return nil, err
		}
		return nil, fmt.Errorf("get note by filename: %w", err)
	}
	return &note, nil
}

// ListByUploader returns the notes uploaded by a user, newest first.
func (r *NoteRepository) ListByUploader(ctx context.Context, userID string) ([]models.Note, error) {
	query := `SELECT ` + noteColumns + ` FROM notes n WHERE n.uploader_id = $1 ORDER BY n.uploaded_at DESC, n.id DESC`
	notes := []models.Note{}
	if err := r.db.SelectContext(ctx, &notes, query, userID); err != nil {
		return nil, fmt.Errorf("list notes by uploader: %w", err)
	}
	return notes, nil
}

// ListAll returns every note joined with its uploader name.
func (r *NoteRepository) ListAll(ctx context.Context) ([]models.NoteWithUploader, error) {
	query := `SELECT ` + noteColumns + `, u.name AS uploader_name FROM notes n JOIN users u ON u.user_id = n.uploader_id ORDER BY n.uploaded_at DESC, n.id DESC`
	notes := []models.NoteWithUploader{}
	if err := r.db.SelectContext(ctx, &notes, query); err != nil {
		return nil, fmt.Errorf("list notes: %w", err)
	}
	return notes, nil
}

// Save bookmarks a note for a user. It reports false when the pair already
// exists; the unique constraint makes the check and the insert one statement.
func (r *NoteRepository) Save(ctx context.Context, userID string, noteID int64, savedAt time.Time) (bool, error) {
	const query = `INSERT INTO saved_notes (user_id, note_id, saved_at) VALUES ($1, $2, $3) ON CONFLICT (user_id, note_id) DO NOTHING`
	res, err := r.db.ExecContext(ctx, query, userID, noteID, savedAt)
	if err != nil {
		return false, fmt.Errorf("save note: %w", translateConstraint(err))
	}
	affected, err := res.RowsAffected()
	if err != nil {
		return false, fmt.Errorf("save note rows affected: %w", err)
	}
	return affected == 1, nil
}

// Unsave removes the bookmark if present.
func (r *NoteRepository) Unsave(ctx context.Context, userID string, noteID int64) error {
	const query = `DELETE FROM saved_notes WHERE user_id = $1 AND note_id = $2`
	if _, err := r.db.ExecContext(ctx, query, userID, noteID); err != nil {
		return fmt.Errorf("unsave note: %w", err)
	}
	return nil
}

// ListSaved returns a user's bookmarked notes, most recently saved first.
func (r *NoteRepository) ListSaved(ctx context.Context, userID string) ([]models.SavedNote, error) {
	query := `SELECT ` + noteColumns + `, u.name AS uploader_name, s.saved_at
FROM saved_notes s
JOIN notes n ON n.id = s.note_id
JOIN users u ON u.user_id = n.uploader_id
WHERE s.user_id = $1
ORDER BY s.saved_at DESC`
	notes := []models.SavedNote{}
	if err := r.db.SelectContext(ctx, &notes, query, userID); err != nil {
		return nil, fmt.Errorf("list saved notes: %w", err)
	}
	return notes, nil
}

// DeleteOwned removes a note and every bookmark pointing at it. The row is
// locked and ownership re-checked inside the transaction. It returns the
// stored blob key so the caller can remove the file after commit.
func (r *NoteRepository) DeleteOwned(ctx context.Context, noteID int64, uploaderID string) (filename string, err error) {
	tx, err := r.db.BeginTxx(ctx, nil)
	if err != nil {
		return "", fmt.Errorf("begin delete note transaction: %w", err)
	}
	defer func() {
		if err != nil {
			_ = tx.Rollback()
		}
	}()

	var current struct {
		UploaderID string `db:"uploader_id"`
		Filename   string `db:"filename"`
	}
	if err = tx.GetContext(ctx, &current, `SELECT uploader_id, filename FROM notes WHERE id = $1 FOR UPDATE`, noteID); err != nil {
		if err == sql.ErrNoRows {
			return "", err
		}
		return "", fmt.Errorf("lock note: %w", err)
	}
	if current.UploaderID != uploaderID {
		err = ErrNotOwner
		return "", err
	}

	if _, err = tx.ExecContext(ctx, `DELETE FROM saved_notes WHERE note_id = $1`, noteID); err != nil {
		return "", fmt.Errorf("delete saved references: %w", err)
	}
	if _, err = tx.ExecContext(ctx, `DELETE FROM notes WHERE id = $1`, noteID); err != nil {
		return "", fmt.Errorf("delete note: %w", err)
	}
	if err = tx.Commit(); err != nil {
		return "", fmt.Errorf("commit delete note: %w", err)
	}
	return current.Filename, nil
}
