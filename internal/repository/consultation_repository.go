package repository

import (
	"context"
	"fmt"
	"time"

	"github.com/jmoiron/sqlx"

	"github.com/noah-isme/campus-records-api/internal/models"
)

const consultationColumns = `id, student_id, course_name, faculty_name, day, time_slot, status, created_at, updated_at`

// ConsultationRepository persists consultation bookings.
type ConsultationRepository struct {
	db *sqlx.DB
}

// NewConsultationRepository constructs a ConsultationRepository.
func NewConsultationRepository(db *sqlx.DB) *ConsultationRepository {
	return &ConsultationRepository{db: db}
}

// Create inserts a booking and fills in the generated id.
func (r *ConsultationRepository) Create(ctx context.Context, c *models.Consultation) error {
	const query = `INSERT INTO consultations (student_id, course_name, faculty_name, day, time_slot, status, created_at, updated_at)
VALUES ($1, $2, $3, $4, $5, $6, $7, $8) RETURNING id`
	if err := r.db.QueryRowxContext(ctx, query,
		c.StudentID, c.CourseName, c.FacultyName, c.Day, c.TimeSlot, c.Status, c.CreatedAt, c.UpdatedAt,
	).Scan(&c.ID); err != nil {
		return fmt.Errorf("create consultation: %w", err)
	}
	return nil
}

// ListByStudent returns a student's bookings in booking order.
func (r *ConsultationRepository) ListByStudent(ctx context.Context, studentID string) ([]models.Consultation, error) {
	query := `SELECT ` + consultationColumns + ` FROM consultations WHERE student_id = $1 ORDER BY id`
	items := []models.Consultation{}
	if err := r.db.SelectContext(ctx, &items, query, studentID); err != nil {
		return nil, fmt.Errorf("list consultations by student: %w", err)
	}
	return items, nil
}

// ListByFaculty returns bookings whose faculty_name matches the given value.
func (r *ConsultationRepository) ListByFaculty(ctx context.Context, facultyName string) ([]models.Consultation, error) {
	query := `SELECT ` + consultationColumns + ` FROM consultations WHERE faculty_name = $1 ORDER BY id`
	items := []models.Consultation{}
	if err := r.db.SelectContext(ctx, &items, query, facultyName); err != nil {
		return nil, fmt.Errorf("list consultations by faculty: %w", err)
	}
	return items, nil
}

// UpdateStatus overwrites the status; it reports false when no row matched.
func (r *ConsultationRepository) UpdateStatus(ctx context.Context, id int64, status models.ConsultationStatus, updatedAt time.Time) (bool, error) {
	const query = `UPDATE consultations SET status = $1, updated_at = $2 WHERE id = $3`
	res, err := r.db.ExecContext(ctx, query, status, updatedAt, id)
	if err != nil {
		return false, fmt.Errorf("update consultation status: %w", err)
	}
	affected, err := res.RowsAffected()
	if err != nil {
		return false, fmt.Errorf("update consultation rows affected: %w", err)
	}
	return affected > 0, nil
}

// Delete removes a booking; it reports false when no row matched.
func (r *ConsultationRepository) Delete(ctx context.Context, id int64) (bool, error) {
	res, err := r.db.ExecContext(ctx, `DELETE FROM consultations WHERE id = $1`, id)
	if err != nil {
		return false, fmt.Errorf("delete consultation: %w", err)
	}
	affected, err := res.RowsAffected()
	if err != nil {
		return false, fmt.Errorf("delete consultation rows affected: %w", err)
	}
	return affected > 0, nil
}
