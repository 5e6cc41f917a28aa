package handler

import (
	"context"
	"fmt"
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/noah-isme/campus-records-api/internal/dto"
	"github.com/noah-isme/campus-records-api/internal/models"
	"github.com/noah-isme/campus-records-api/internal/service"
	appErrors "github.com/noah-isme/campus-records-api/pkg/errors"
	"github.com/noah-isme/campus-records-api/pkg/response"
)

type noteService interface {
	Upload(ctx context.Context, meta dto.UploadNoteRequest, upload service.NoteUpload) (*models.Note, error)
	ListByUploader(ctx context.Context, userID string) ([]models.Note, error)
	ListAll(ctx context.Context) ([]models.NoteWithUploader, error)
	Download(ctx context.Context, filename string) (*service.NoteDownload, error)
	Save(ctx context.Context, req models.SaveNoteRequest, actor *models.JWTClaims) error
	Unsave(ctx context.Context, userID string, noteID int64, actor *models.JWTClaims) error
	ListSaved(ctx context.Context, userID string) ([]models.SavedNote, error)
	Delete(ctx context.Context, userID string, noteID int64, actor *models.JWTClaims) error
}

// NoteHandler exposes the note catalog endpoints.
type NoteHandler struct {
	service noteService
}

// NewNoteHandler constructs a NoteHandler.
func NewNoteHandler(svc noteService) *NoteHandler {
	return &NoteHandler{service: svc}
}

// Upload godoc
// @Summary Upload a course note
// @Tags Notes
// @Accept multipart/form-data
// @Produce json
// @Param title formData string true "Title"
// @Param description formData string false "Description"
// @Param course formData string true "Course code"
// @Param uploader_id formData string true "Uploader user ID"
// @Param file formData file true "Note file"
// @Success 201 {object} map[string]interface{}
// @Failure 400 {object} response.ErrorBody
// @Router /api/notes/upload [post]
func (h *NoteHandler) Upload(c *gin.Context) {
	var meta dto.UploadNoteRequest
	if err := c.ShouldBind(&meta); err != nil {
		response.Error(c, appErrors.Wrap(err, appErrors.ErrValidation.Code, http.StatusBadRequest, "invalid note payload"))
		return
	}
	fileHeader, err := c.FormFile("file")
	if err != nil {
		response.Error(c, appErrors.Clone(appErrors.ErrValidation, "file is required"))
		return
	}
	src, err := fileHeader.Open()
	if err != nil {
		response.Error(c, appErrors.Wrap(err, appErrors.ErrValidation.Code, http.StatusBadRequest, "unable to read file"))
		return
	}
	defer src.Close()

	note, err := h.service.Upload(c.Request.Context(), meta, service.NoteUpload{
		Filename:    fileHeader.Filename,
		Size:        fileHeader.Size,
		ContentType: fileHeader.Header.Get("Content-Type"),
		Content:     src,
	})
	if err != nil {
		response.Error(c, err)
		return
	}
	response.Created(c, response.Fields{"message": "note uploaded", "filename": note.Filename, "note": note})
}

// ListByUploader godoc
// @Summary List notes uploaded by a user
// @Tags Notes
// @Produce json
// @Param user_id path string true "User ID"
// @Router /api/notes/user/{user_id} [get]
func (h *NoteHandler) ListByUploader(c *gin.Context) {
	notes, err := h.service.ListByUploader(c.Request.Context(), c.Param("user_id"))
	if err != nil {
		response.Error(c, err)
		return
	}
	response.OK(c, response.Fields{"notes": notes})
}

// ListAll godoc
// @Summary List every note with its uploader
// @Tags Notes
// @Produce json
// @Router /api/notes/all [get]
func (h *NoteHandler) ListAll(c *gin.Context) {
	notes, err := h.service.ListAll(c.Request.Context())
	if err != nil {
		response.Error(c, err)
		return
	}
	response.OK(c, response.Fields{"notes": notes})
}

// Download godoc
// @Summary Download a note file
// @Tags Notes
// @Produce application/octet-stream
// @Param filename path string true "Stored filename"
// @Failure 404 {object} response.ErrorBody
// @Router /api/notes/download/{filename} [get]
func (h *NoteHandler) Download(c *gin.Context) {
	dl, err := h.service.Download(c.Request.Context(), c.Param("filename"))
	if err != nil {
		response.Error(c, err)
		return
	}
	defer dl.Body.Close()

	c.Header("Cache-Control", "no-store")
	extra := map[string]string{
		"Content-Disposition": fmt.Sprintf("attachment; filename=%q", dl.Note.OriginalFilename),
	}
	c.DataFromReader(http.StatusOK, dl.Size, dl.ContentType, dl.Body, extra)
}

// Save godoc
// @Summary Bookmark a note
// @Tags Notes
// @Accept json
// @Produce json
// @Param payload body models.SaveNoteRequest true "Save payload"
// @Failure 409 {object} response.ErrorBody
// @Router /api/notes/save [post]
func (h *NoteHandler) Save(c *gin.Context) {
	var req models.SaveNoteRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.Error(c, appErrors.Wrap(err, appErrors.ErrValidation.Code, http.StatusBadRequest, "invalid save payload"))
		return
	}
	if err := h.service.Save(c.Request.Context(), req, claimsFromContext(c)); err != nil {
		response.Error(c, err)
		return
	}
	response.Message(c, "note saved")
}

// Unsave godoc
// @Summary Remove a bookmark
// @Tags Notes
// @Router /api/notes/unsave/{user_id}/{note_id} [delete]
func (h *NoteHandler) Unsave(c *gin.Context) {
	noteID, err := int64Param(c, "note_id")
	if err != nil {
		response.Error(c, err)
		return
	}
	if err := h.service.Unsave(c.Request.Context(), c.Param("user_id"), noteID, claimsFromContext(c)); err != nil {
		response.Error(c, err)
		return
	}
	response.Message(c, "note unsaved")
}

// ListSaved godoc
// @Summary List a user's saved notes, most recent first
// @Tags Notes
// @Router /api/notes/saved/{user_id} [get]
func (h *NoteHandler) ListSaved(c *gin.Context) {
	notes, err := h.service.ListSaved(c.Request.Context(), c.Param("user_id"))
	if err != nil {
		response.Error(c, err)
		return
	}
	response.OK(c, response.Fields{"notes": notes})
}

// Delete godoc
// @Summary Delete a note owned by the user
// @Tags Notes
// @Failure 403 {object} response.ErrorBody
// @Failure 404 {object} response.ErrorBody
// @Router /api/notes/delete/{user_id}/{note_id} [delete]
func (h *NoteHandler) Delete(c *gin.Context) {
	noteID, err := int64Param(c, "note_id")
	if err != nil {
		response.Error(c, err)
		return
	}
	if err := h.service.Delete(c.Request.Context(), c.Param("user_id"), noteID, claimsFromContext(c)); err != nil {
		response.Error(c, err)
		return
	}
	response.Message(c, "note deleted")
}
