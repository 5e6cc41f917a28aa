package handler

import (
	"bytes"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/noah-isme/campus-records-api/internal/middleware"
	"github.com/noah-isme/campus-records-api/internal/models"
	"github.com/noah-isme/campus-records-api/internal/service"
	appErrors "github.com/noah-isme/campus-records-api/pkg/errors"
)

type tokenValidatorStub struct {
	claims *models.JWTClaims
}

func (s tokenValidatorStub) ValidateToken(token string) (*models.JWTClaims, error) {
	if token != "good" {
		return nil, appErrors.Clone(appErrors.ErrUnauthorized, "invalid token")
	}
	return s.claims, nil
}

type routerFixture struct {
	engine        *gin.Engine
	notes         *noteServiceMock
	consultations *consultationServiceMock
}

func newRouterFixture() routerFixture {
	gin.SetMode(gin.TestMode)
	notes := &noteServiceMock{}
	consultations := &consultationServiceMock{exportResp: &service.ExportFile{
		Filename:    "consultations_22101234.pdf",
		ContentType: "application/pdf",
		Data:        []byte("%PDF-1.3"),
	}}
	r := gin.New()
	Routes{
		Accounts:      NewAccountHandler(&accountServiceMock{}),
		Notes:         NewNoteHandler(notes),
		Consultations: NewConsultationHandler(consultations),
		Roster:        NewRosterHandler(&rosterServiceMock{initials: []string{"RHM"}}),
		Metrics:       NewMetricsHandler(nil, nil),
		Actor:         middleware.OptionalJWT(tokenValidatorStub{claims: &models.JWTClaims{UserID: "22101234"}}),
	}.Register(r)
	return routerFixture{engine: r, notes: notes, consultations: consultations}
}

func (f routerFixture) do(method, path, body, token string) *httptest.ResponseRecorder {
	req := httptest.NewRequest(method, path, bytes.NewBufferString(body))
	req.Header.Set("Content-Type", "application/json")
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}
	w := httptest.NewRecorder()
	f.engine.ServeHTTP(w, req)
	return w
}

func TestRoutesDispatchFacultyBeforeStudent(t *testing.T) {
	f := newRouterFixture()

	w := f.do(http.MethodGet, "/consultations/faculty/RHM", "", "")
	require.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, "RHM", f.consultations.lastFaculty)

	w = f.do(http.MethodGet, "/consultations/22101234/export?format=pdf", "", "")
	require.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, "pdf", f.consultations.lastFormat)
}

func TestRoutesSaveWithoutTokenStaysOpen(t *testing.T) {
	f := newRouterFixture()

	w := f.do(http.MethodPost, "/api/notes/save", `{"user_id":"22101234","note_id":7}`, "")

	require.Equal(t, http.StatusOK, w.Code)
	assert.Nil(t, f.notes.lastActor)
}

func TestRoutesSaveAttachesClaims(t *testing.T) {
	f := newRouterFixture()

	w := f.do(http.MethodPost, "/api/notes/save", `{"user_id":"22101234","note_id":7}`, "good")

	require.Equal(t, http.StatusOK, w.Code)
	require.NotNil(t, f.notes.lastActor)
	assert.Equal(t, "22101234", f.notes.lastActor.UserID)
}

func TestRoutesRejectInvalidToken(t *testing.T) {
	f := newRouterFixture()

	w := f.do(http.MethodDelete, "/api/notes/delete/22101234/7", "", "forged")

	require.Equal(t, http.StatusUnauthorized, w.Code)
	assert.False(t, f.notes.deleteCalled)
}

func TestRoutesRejectMalformedAuthorization(t *testing.T) {
	f := newRouterFixture()
	req := httptest.NewRequest(http.MethodDelete, "/api/notes/unsave/22101234/7", nil)
	req.Header.Set("Authorization", "Token abc")
	w := httptest.NewRecorder()

	f.engine.ServeHTTP(w, req)

	require.Equal(t, http.StatusUnauthorized, w.Code)
	assert.Zero(t, f.notes.lastNoteID)
}

func TestRoutesHealthAndManagers(t *testing.T) {
	f := newRouterFixture()

	assert.Equal(t, http.StatusOK, f.do(http.MethodGet, "/health", "", "").Code)
	w := f.do(http.MethodGet, "/consultation-managers", "", "")
	require.Equal(t, http.StatusOK, w.Code)
	assert.Contains(t, w.Body.String(), "RHM")
}
