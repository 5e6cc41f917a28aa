package handler

import (
	"context"

	"github.com/gin-gonic/gin"

	"github.com/noah-isme/campus-records-api/internal/models"
	"github.com/noah-isme/campus-records-api/pkg/response"
)

type rosterService interface {
	ListAvailableFaculties(ctx context.Context) ([]models.Faculty, error)
	ListAvailableManagers(ctx context.Context) ([]string, error)
	GetFaculty(ctx context.Context, fID string) (*models.Faculty, error)
}

// RosterHandler exposes faculty and tutor availability.
type RosterHandler struct {
	service rosterService
}

// NewRosterHandler constructs a RosterHandler.
func NewRosterHandler(svc rosterService) *RosterHandler {
	return &RosterHandler{service: svc}
}

// GetFaculty godoc
// @Summary Get a faculty member
// @Tags Roster
// @Param f_id path string true "Faculty ID"
// @Failure 404 {object} response.ErrorBody
// @Router /faculty/{f_id} [get]
func (h *RosterHandler) GetFaculty(c *gin.Context) {
	faculty, err := h.service.GetFaculty(c.Request.Context(), c.Param("f_id"))
	if err != nil {
		response.Error(c, err)
		return
	}
	response.OK(c, response.Fields{"faculty": faculty})
}

// ListFaculties godoc
// @Summary List available faculty members
// @Tags Roster
// @Router /faculties [get]
func (h *RosterHandler) ListFaculties(c *gin.Context) {
	faculties, err := h.service.ListAvailableFaculties(c.Request.Context())
	if err != nil {
		response.Error(c, err)
		return
	}
	response.OK(c, response.Fields{"faculties": faculties})
}

// ListManagers godoc
// @Summary List initials of everyone taking consultations
// @Tags Roster
// @Router /consultation-managers [get]
func (h *RosterHandler) ListManagers(c *gin.Context) {
	initials, err := h.service.ListAvailableManagers(c.Request.Context())
	if err != nil {
		response.Error(c, err)
		return
	}
	response.OK(c, response.Fields{"initials": initials})
}
