package models

import (
	"strings"
	"time"
)

// ConsultationStatus is the lifecycle state of a booking.
type ConsultationStatus string

const (
	ConsultationPending   ConsultationStatus = "pending"
	ConsultationApproved  ConsultationStatus = "approved"
	ConsultationRejected  ConsultationStatus = "rejected"
	ConsultationCompleted ConsultationStatus = "completed"
)

// ConsultationStatuses lists every accepted status.
var ConsultationStatuses = []ConsultationStatus{
	ConsultationPending,
	ConsultationApproved,
	ConsultationRejected,
	ConsultationCompleted,
}

// ParseConsultationStatus normalises raw input and reports whether it is a known status.
func ParseConsultationStatus(raw string) (ConsultationStatus, bool) {
	status := ConsultationStatus(strings.ToLower(strings.TrimSpace(raw)))
	for _, known := range ConsultationStatuses {
		if status == known {
			return status, true
		}
	}
	return "", false
}

// Consultation is a booking between a student and a faculty member or tutor.
type Consultation struct {
	ID          int64              `db:"id" json:"id"`
	StudentID   string             `db:"student_id" json:"student_id"`
	CourseName  string             `db:"course_name" json:"course_name"`
	FacultyName string             `db:"faculty_name" json:"faculty_name"`
	Day         string             `db:"day" json:"day"`
	TimeSlot    string             `db:"time_slot" json:"time_slot"`
	Status      ConsultationStatus `db:"status" json:"status"`
	CreatedAt   time.Time          `db:"created_at" json:"created_at"`
	UpdatedAt   time.Time          `db:"updated_at" json:"updated_at"`
}

// BookConsultationRequest is the payload accepted by POST /consultations.
type BookConsultationRequest struct {
	StudentID   string `json:"student_id" validate:"required"`
	CourseName  string `json:"course_name" validate:"required"`
	FacultyName string `json:"faculty_name" validate:"required"`
	Day         string `json:"day" validate:"required"`
	TimeSlot    string `json:"time_slot" validate:"required"`
}

// UpdateConsultationStatusRequest is the payload accepted by PUT /consultations/update_status.
type UpdateConsultationStatusRequest struct {
	ConsultationID int64  `json:"consultation_id" validate:"required,gt=0"`
	Status         string `json:"status" validate:"required"`
}
