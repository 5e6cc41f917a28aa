package dto

// UploadNoteRequest contains metadata submitted alongside a note upload.
type UploadNoteRequest struct {
	Title       string `form:"title" json:"title" validate:"required,max=255"`
	Description string `form:"description" json:"description" validate:"max=2000"`
	Course      string `form:"course" json:"course" validate:"required,max=64"`
	UploaderID  string `form:"uploader_id" json:"uploader_id" validate:"required"`
}

// ExportQuery captures the export format query parameter.
type ExportQuery struct {
	Format string `form:"format"`
}
