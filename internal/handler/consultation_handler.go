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

type consultationService interface {
	Book(ctx context.Context, req models.BookConsultationRequest) (*models.Consultation, error)
	ListForStudent(ctx context.Context, studentID string) ([]models.Consultation, error)
	ListForFaculty(ctx context.Context, facultyInitial string) ([]models.Consultation, error)
	UpdateStatus(ctx context.Context, req models.UpdateConsultationStatusRequest) (models.ConsultationStatus, error)
	Delete(ctx context.Context, id int64) error
	Export(ctx context.Context, studentID, format string) (*service.ExportFile, error)
}

// ConsultationHandler exposes the consultation ledger.
type ConsultationHandler struct {
	service consultationService
}

// NewConsultationHandler constructs a ConsultationHandler.
func NewConsultationHandler(svc consultationService) *ConsultationHandler {
	return &ConsultationHandler{service: svc}
}

// Book godoc
// @Summary Book a consultation
// @Tags Consultations
// @Accept json
// @Produce json
// @Param payload body models.BookConsultationRequest true "Booking payload"
// @Success 201 {object} map[string]interface{}
// @Failure 400 {object} response.ErrorBody
// @Router /consultations [post]
func (h *ConsultationHandler) Book(c *gin.Context) {
	var req models.BookConsultationRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.Error(c, appErrors.Wrap(err, appErrors.ErrValidation.Code, http.StatusBadRequest, "invalid consultation payload"))
		return
	}
	consultation, err := h.service.Book(c.Request.Context(), req)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.Created(c, response.Fields{"message": "consultation booked", "consultation": consultation})
}

// ListForStudent godoc
// @Summary List a student's consultations
// @Tags Consultations
// @Param student_id path string true "Student ID"
// @Router /consultations/{student_id} [get]
func (h *ConsultationHandler) ListForStudent(c *gin.Context) {
	items, err := h.service.ListForStudent(c.Request.Context(), c.Param("student_id"))
	if err != nil {
		response.Error(c, err)
		return
	}
	response.OK(c, response.Fields{"consultations": items})
}

// ListForFaculty godoc
// @Summary List consultations booked with a faculty member
// @Tags Consultations
// @Param f_initial path string true "Faculty initial"
// @Router /consultations/faculty/{f_initial} [get]
func (h *ConsultationHandler) ListForFaculty(c *gin.Context) {
	items, err := h.service.ListForFaculty(c.Request.Context(), c.Param("f_initial"))
	if err != nil {
		response.Error(c, err)
		return
	}
	response.OK(c, response.Fields{"consultations": items})
}

// UpdateStatus godoc
// @Summary Change a consultation's status
// @Tags Consultations
// @Accept json
// @Param payload body models.UpdateConsultationStatusRequest true "Status payload"
// @Failure 404 {object} response.ErrorBody
// @Router /consultations/update_status [put]
func (h *ConsultationHandler) UpdateStatus(c *gin.Context) {
	var req models.UpdateConsultationStatusRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.Error(c, appErrors.Wrap(err, appErrors.ErrValidation.Code, http.StatusBadRequest, "invalid status payload"))
		return
	}
	status, err := h.service.UpdateStatus(c.Request.Context(), req)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.OK(c, response.Fields{"message": "consultation status updated", "status": status})
}

// Delete godoc
// @Summary Delete a consultation
// @Tags Consultations
// @Router /consultations/{consultation_id} [delete]
func (h *ConsultationHandler) Delete(c *gin.Context) {
	id, err := int64Param(c, "consultation_id")
	if err != nil {
		response.Error(c, err)
		return
	}
	if err := h.service.Delete(c.Request.Context(), id); err != nil {
		response.Error(c, err)
		return
	}
	response.Message(c, "consultation deleted")
}

// Export godoc
// @Summary Export a student's consultations
// @Tags Consultations
// @Produce text/csv
// @Produce application/pdf
// @Param student_id path string true "Student ID"
// @Param format query string false "csv or pdf"
// @Router /consultations/{student_id}/export [get]
func (h *ConsultationHandler) Export(c *gin.Context) {
	var query dto.ExportQuery
	_ = c.ShouldBindQuery(&query)
	file, err := h.service.Export(c.Request.Context(), c.Param("student_id"), query.Format)
	if err != nil {
		response.Error(c, err)
		return
	}
	c.Header("Content-Disposition", fmt.Sprintf("attachment; filename=%q", file.Filename))
	c.Header("Cache-Control", "no-store")
	c.Data(http.StatusOK, file.ContentType, file.Data)
}
