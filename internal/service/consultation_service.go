package service

import (
	"context"
	"fmt"
	"strconv"
	"strings"
	"time"

	"github.com/go-playground/validator/v10"
	"go.uber.org/zap"

	"github.com/noah-isme/campus-records-api/internal/models"
	appErrors "github.com/noah-isme/campus-records-api/pkg/errors"
	"github.com/noah-isme/campus-records-api/pkg/export"
)

type consultationRepository interface {
	Create(ctx context.Context, c *models.Consultation) error
	ListByStudent(ctx context.Context, studentID string) ([]models.Consultation, error)
	ListByFaculty(ctx context.Context, facultyName string) ([]models.Consultation, error)
	UpdateStatus(ctx context.Context, id int64, status models.ConsultationStatus, updatedAt time.Time) (bool, error)
	Delete(ctx context.Context, id int64) (bool, error)
}

// ExportFile is a rendered document ready to be sent as an attachment.
type ExportFile struct {
	Filename    string
	ContentType string
	Data        []byte
}

var consultationExportHeaders = []string{"id", "course_name", "faculty_name", "day", "time_slot", "status", "created_at"}

// ConsultationService manages consultation bookings.
type ConsultationService struct {
	repo      consultationRepository
	validator *validator.Validate
	logger    *zap.Logger
	now       func() time.Time
}

// NewConsultationService constructs a ConsultationService.
func NewConsultationService(repo consultationRepository, validate *validator.Validate, logger *zap.Logger) *ConsultationService {
	if logger == nil {
		logger = zap.NewNop()
	}
	if validate == nil {
		validate = validator.New()
	}
	return &ConsultationService{repo: repo, validator: validate, logger: logger, now: time.Now}
}

// Book records a new consultation in the pending state.
func (s *ConsultationService) Book(ctx context.Context, req models.BookConsultationRequest) (*models.Consultation, error) {
	req.StudentID = strings.TrimSpace(req.StudentID)
	req.CourseName = strings.TrimSpace(req.CourseName)
	req.FacultyName = strings.TrimSpace(req.FacultyName)
	req.Day = strings.TrimSpace(req.Day)
	req.TimeSlot = strings.TrimSpace(req.TimeSlot)
	if err := s.validator.Struct(req); err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrValidation.Code, appErrors.ErrValidation.Status, "invalid consultation payload")
	}

	now := s.now().UTC()
	consultation := &models.Consultation{
		StudentID:   req.StudentID,
		CourseName:  req.CourseName,
		FacultyName: req.FacultyName,
		Day:         req.Day,
		TimeSlot:    req.TimeSlot,
		Status:      models.ConsultationPending,
		CreatedAt:   now,
		UpdatedAt:   now,
	}
	if err := s.repo.Create(ctx, consultation); err != nil {
		return nil, appErrors.Storage(err, "failed to book consultation")
	}
	s.logger.Info("consultation booked", zap.Int64("consultation_id", consultation.ID), zap.String("student_id", consultation.StudentID))
	return consultation, nil
}

// ListForStudent returns the student's bookings.
func (s *ConsultationService) ListForStudent(ctx context.Context, studentID string) ([]models.Consultation, error) {
	studentID = strings.TrimSpace(studentID)
	if studentID == "" {
		return nil, appErrors.Clone(appErrors.ErrValidation, "student_id is required")
	}
	items, err := s.repo.ListByStudent(ctx, studentID)
	if err != nil {
		return nil, appErrors.Storage(err, "failed to list consultations")
	}
	return items, nil
}

// ListForFaculty returns bookings whose faculty name equals the given initial.
func (s *ConsultationService) ListForFaculty(ctx context.Context, facultyInitial string) ([]models.Consultation, error) {
	facultyInitial = strings.TrimSpace(facultyInitial)
	if facultyInitial == "" {
		return nil, appErrors.Clone(appErrors.ErrValidation, "faculty initial is required")
	}
	items, err := s.repo.ListByFaculty(ctx, facultyInitial)
	if err != nil {
		return nil, appErrors.Storage(err, "failed to list consultations")
	}
	return items, nil
}

// UpdateStatus overwrites the status with any member of the status set.
func (s *ConsultationService) UpdateStatus(ctx context.Context, req models.UpdateConsultationStatusRequest) (models.ConsultationStatus, error) {
	if err := s.validator.Struct(req); err != nil {
		return "", appErrors.Wrap(err, appErrors.ErrValidation.Code, appErrors.ErrValidation.Status, "invalid status payload")
	}
	status, ok := models.ParseConsultationStatus(req.Status)
	if !ok {
		return "", appErrors.Clone(appErrors.ErrValidation, fmt.Sprintf("status must be one of %s", joinStatuses()))
	}
	found, err := s.repo.UpdateStatus(ctx, req.ConsultationID, status, s.now().UTC())
	if err != nil {
		return "", appErrors.Storage(err, "failed to update consultation")
	}
	if !found {
		return "", appErrors.Clone(appErrors.ErrNotFound, "consultation not found")
	}
	return status, nil
}

// Delete removes a booking.
func (s *ConsultationService) Delete(ctx context.Context, id int64) error {
	if id <= 0 {
		return appErrors.Clone(appErrors.ErrValidation, "consultation id is required")
	}
	found, err := s.repo.Delete(ctx, id)
	if err != nil {
		return appErrors.Storage(err, "failed to delete consultation")
	}
	if !found {
		return appErrors.Clone(appErrors.ErrNotFound, "consultation not found")
	}
	return nil
}

// Export renders the student's bookings as CSV or PDF.
func (s *ConsultationService) Export(ctx context.Context, studentID, format string) (*ExportFile, error) {
	renderer, err := export.ForFormat(format)
	if err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrValidation.Code, appErrors.ErrValidation.Status, "format must be csv or pdf")
	}
	items, err := s.ListForStudent(ctx, studentID)
	if err != nil {
		return nil, err
	}

	studentID = strings.TrimSpace(studentID)
	dataset := export.Dataset{
		Title:   "Consultations for " + studentID,
		Headers: consultationExportHeaders,
		Rows:    make([]map[string]string, 0, len(items)),
	}
	for _, item := range items {
		dataset.Rows = append(dataset.Rows, map[string]string{
			"id":           strconv.FormatInt(item.ID, 10),
			"course_name":  item.CourseName,
			"faculty_name": item.FacultyName,
			"day":          item.Day,
			"time_slot":    item.TimeSlot,
			"status":       string(item.Status),
			"created_at":   item.CreatedAt.UTC().Format(time.RFC3339),
		})
	}

	data, err := renderer.Render(dataset)
	if err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to render export")
	}
	return &ExportFile{
		Filename:    fmt.Sprintf("consultations_%s.%s", sanitizeFilename(studentID), renderer.Extension()),
		ContentType: renderer.ContentType(),
		Data:        data,
	}, nil
}

func joinStatuses() string {
	parts := make([]string, len(models.ConsultationStatuses))
	for i, st := range models.ConsultationStatuses {
		parts[i] = string(st)
	}
	return strings.Join(parts, ", ")
}
