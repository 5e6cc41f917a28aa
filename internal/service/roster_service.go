package service

import (
	"context"
	"database/sql"
	"errors"
	"strings"
	"time"

	"github.com/noah-isme/campus-records-api/internal/models"
	appErrors "github.com/noah-isme/campus-records-api/pkg/errors"
)

type rosterRepository interface {
	FindFaculty(ctx context.Context, fID string) (*models.Faculty, error)
	ListAvailableFaculties(ctx context.Context) ([]models.Faculty, error)
	ListAvailableFacultyInitials(ctx context.Context) ([]string, error)
	ListAvailableTutorInitials(ctx context.Context) ([]string, error)
}

// RosterService answers roster availability queries.
type RosterService struct {
	repo  rosterRepository
	cache listingCache
	ttl   time.Duration
}

// NewRosterService constructs a RosterService. cache may be nil.
func NewRosterService(repo rosterRepository, cache listingCache, ttl time.Duration) *RosterService {
	return &RosterService{repo: repo, cache: cache, ttl: ttl}
}

// ListAvailableFaculties returns faculty members currently taking consultations.
func (s *RosterService) ListAvailableFaculties(ctx context.Context) ([]models.Faculty, error) {
	var cached []models.Faculty
	if s.cache != nil && s.cache.Get(ctx, cacheKeyFaculties, &cached) {
		return cached, nil
	}
	faculties, err := s.repo.ListAvailableFaculties(ctx)
	if err != nil {
		return nil, appErrors.Storage(err, "failed to list faculties")
	}
	if s.cache != nil {
		s.cache.Set(ctx, cacheKeyFaculties, faculties, s.ttl)
	}
	return faculties, nil
}

// ListAvailableManagers returns available faculty initials followed by
// available tutor initials.
func (s *RosterService) ListAvailableManagers(ctx context.Context) ([]string, error) {
	var cached []string
	if s.cache != nil && s.cache.Get(ctx, cacheKeyManagerInitials, &cached) {
		return cached, nil
	}
	faculty, err := s.repo.ListAvailableFacultyInitials(ctx)
	if err != nil {
		return nil, appErrors.Storage(err, "failed to list faculty initials")
	}
	tutors, err := s.repo.ListAvailableTutorInitials(ctx)
	if err != nil {
		return nil, appErrors.Storage(err, "failed to list tutor initials")
	}
	initials := make([]string, 0, len(faculty)+len(tutors))
	initials = append(initials, faculty...)
	initials = append(initials, tutors...)
	if s.cache != nil {
		s.cache.Set(ctx, cacheKeyManagerInitials, initials, s.ttl)
	}
	return initials, nil
}

// GetFaculty returns a faculty member by f_id.
func (s *RosterService) GetFaculty(ctx context.Context, fID string) (*models.Faculty, error) {
	fID = strings.TrimSpace(fID)
	if fID == "" {
		return nil, appErrors.Clone(appErrors.ErrValidation, "faculty id is required")
	}
	faculty, err := s.repo.FindFaculty(ctx, fID)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, appErrors.Clone(appErrors.ErrNotFound, "faculty not found")
		}
		return nil, appErrors.Storage(err, "failed to load faculty")
	}
	return faculty, nil
}
