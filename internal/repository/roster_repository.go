package repository

import (
	"context"
	"database/sql"
	"fmt"

	"github.com/jmoiron/sqlx"

	"github.com/noah-isme/campus-records-api/internal/models"
)

// RosterRepository reads the faculty and student tutor rosters.
type RosterRepository struct {
	db *sqlx.DB
}

// NewRosterRepository constructs a RosterRepository.
func NewRosterRepository(db *sqlx.DB) *RosterRepository {
	return &RosterRepository{db: db}
}

// FindFaculty returns a faculty member by f_id.
func (r *RosterRepository) FindFaculty(ctx context.Context, fID string) (*models.Faculty, error) {
	const query = `SELECT f_id, f_name, f_initial, con_status FROM faculties WHERE f_id = $1`
	var faculty models.Faculty
	if err := r.db.GetContext(ctx, &faculty, query, fID); err != nil {
		if err == sql.ErrNoRows {
			return nil, err
		}
		return nil, fmt.Errorf("find faculty: %w", err)
	}
	return &faculty, nil
}

// FindTutor returns a student tutor by st_id.
func (r *RosterRepository) FindTutor(ctx context.Context, stID string) (*models.StudentTutor, error) {
	const query = `SELECT st_id, st_name, st_initial, st_con_status FROM student_tutors WHERE st_id = $1`
	var tutor models.StudentTutor
	if err := r.db.GetContext(ctx, &tutor, query, stID); err != nil {
		if err == sql.ErrNoRows {
			return nil, err
		}
		return nil, fmt.Errorf("find student tutor: %w", err)
	}
	return &tutor, nil
}

// ListAvailableFaculties returns faculty members accepting consultations.
func (r *RosterRepository) ListAvailableFaculties(ctx context.Context) ([]models.Faculty, error) {
	const query = `SELECT f_id, f_name, f_initial, con_status FROM faculties WHERE con_status = $1 ORDER BY f_id`
	faculties := []models.Faculty{}
	if err := r.db.SelectContext(ctx, &faculties, query, models.StatusAvailable); err != nil {
		return nil, fmt.Errorf("list available faculties: %w", err)
	}
	return faculties, nil
}

// ListAvailableFacultyInitials returns initials of available faculty.
func (r *RosterRepository) ListAvailableFacultyInitials(ctx context.Context) ([]string, error) {
	const query = `SELECT f_initial FROM faculties WHERE con_status = $1 ORDER BY f_id`
	initials := []string{}
	if err := r.db.SelectContext(ctx, &initials, query, models.StatusAvailable); err != nil {
		return nil, fmt.Errorf("list faculty initials: %w", err)
	}
	return initials, nil
}

// ListAvailableTutorInitials returns initials of available student tutors.
func (r *RosterRepository) ListAvailableTutorInitials(ctx context.Context) ([]string, error) {
	const query = `SELECT st_initial FROM student_tutors WHERE st_con_status = $1 ORDER BY st_id`
	initials := []string{}
	if err := r.db.SelectContext(ctx, &initials, query, models.StatusAvailable); err != nil {
		return nil, fmt.Errorf("list tutor initials: %w", err)
	}
	return initials, nil
}
