package service

import (
	"context"
	"database/sql"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"

	"github.com/noah-isme/campus-records-api/internal/models"
	appErrors "github.com/noah-isme/campus-records-api/pkg/errors"
)

type mockRosterRepo struct {
	mock.Mock
}

func (m *mockRosterRepo) FindFaculty(ctx context.Context, fID string) (*models.Faculty, error) {
	args := m.Called(ctx, fID)
	faculty, _ := args.Get(0).(*models.Faculty)
	return faculty, args.Error(1)
}

func (m *mockRosterRepo) ListAvailableFaculties(ctx context.Context) ([]models.Faculty, error) {
	args := m.Called(ctx)
	faculties, _ := args.Get(0).([]models.Faculty)
	return faculties, args.Error(1)
}

func (m *mockRosterRepo) ListAvailableFacultyInitials(ctx context.Context) ([]string, error) {
	args := m.Called(ctx)
	initials, _ := args.Get(0).([]string)
	return initials, args.Error(1)
}

func (m *mockRosterRepo) ListAvailableTutorInitials(ctx context.Context) ([]string, error) {
	args := m.Called(ctx)
	initials, _ := args.Get(0).([]string)
	return initials, args.Error(1)
}

type mapCache struct {
	values map[string][]string
}

func (c *mapCache) Get(ctx context.Context, key string, dest interface{}) bool {
	v, ok := c.values[key]
	if ok {
		*(dest.(*[]string)) = v
	}
	return ok
}

func (c *mapCache) Set(ctx context.Context, key string, value interface{}, ttl time.Duration) {
	if v, ok := value.([]string); ok {
		c.values[key] = v
	}
}

func (c *mapCache) Invalidate(ctx context.Context, keys ...string) {}

func TestListAvailableManagersFacultyFirst(t *testing.T) {
	repo := &mockRosterRepo{}
	repo.On("ListAvailableFacultyInitials", mock.Anything).Return([]string{"ADL", "AMT"}, nil).Once()
	repo.On("ListAvailableTutorInitials", mock.Anything).Return([]string{"RHN"}, nil).Once()
	cache := &mapCache{values: map[string][]string{}}
	svc := NewRosterService(repo, cache, time.Minute)

	initials, err := svc.ListAvailableManagers(context.Background())
	require.NoError(t, err)
	assert.Equal(t, []string{"ADL", "AMT", "RHN"}, initials)

	initials, err = svc.ListAvailableManagers(context.Background())
	require.NoError(t, err)
	assert.Equal(t, []string{"ADL", "AMT", "RHN"}, initials)
	repo.AssertExpectations(t)
}

func TestListAvailableFaculties(t *testing.T) {
	repo := &mockRosterRepo{}
	repo.On("ListAvailableFaculties", mock.Anything).Return([]models.Faculty{{FID: "f1", FInitial: "ADL", ConStatus: "available"}}, nil)
	svc := NewRosterService(repo, nil, time.Minute)

	faculties, err := svc.ListAvailableFaculties(context.Background())
	require.NoError(t, err)
	require.Len(t, faculties, 1)
	assert.Equal(t, "ADL", faculties[0].FInitial)
}

func TestGetFaculty(t *testing.T) {
	repo := &mockRosterRepo{}
	repo.On("FindFaculty", mock.Anything, "f1").Return(&models.Faculty{FID: "f1"}, nil)
	repo.On("FindFaculty", mock.Anything, "f9").Return(nil, sql.ErrNoRows)
	svc := NewRosterService(repo, nil, time.Minute)

	faculty, err := svc.GetFaculty(context.Background(), "f1")
	require.NoError(t, err)
	assert.Equal(t, "f1", faculty.FID)

	_, err = svc.GetFaculty(context.Background(), "f9")
	assert.Equal(t, appErrors.ErrNotFound.Code, appCode(err))
}
