package models

import "time"

// Note is the metadata row for an uploaded course note. Filename is the
// stored blob key; OriginalFilename is what the uploader sent.
type Note struct {
	ID               int64     `db:"id" json:"id"`
	Title            string    `db:"title" json:"title"`
	Description      string    `db:"description" json:"description"`
	Course           string    `db:"course" json:"course"`
	Filename         string    `db:"filename" json:"filename"`
	OriginalFilename string    `db:"original_filename" json:"original_filename"`
	ContentType      string    `db:"content_type" json:"content_type"`
	UploaderID       string    `db:"uploader_id" json:"uploader_id"`
	FileSize         int64     `db:"file_size" json:"file_size"`
	UploadedAt       time.Time `db:"uploaded_at" json:"uploaded_at"`
}

// NoteWithUploader joins the note with its uploader's display name.
type NoteWithUploader struct {
	Note
	UploaderName string `db:"uploader_name" json:"uploader_name"`
}

// SavedNote is a note bookmarked by a user.
type SavedNote struct {
	Note
	UploaderName string    `db:"uploader_name" json:"uploader_name"`
	SavedAt      time.Time `db:"saved_at" json:"saved_at"`
}

// SaveNoteRequest is the payload accepted by POST /api/notes/save.
type SaveNoteRequest struct {
	UserID string `json:"user_id" validate:"required"`
	NoteID int64  `json:"note_id" validate:"required,gt=0"`
}
