package handler

import (
	"bytes"
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/noah-isme/campus-records-api/internal/models"
	appErrors "github.com/noah-isme/campus-records-api/pkg/errors"
)

type accountServiceMock struct {
	registerResp *models.UserInfo
	registerErr  error
	loginResp    *models.LoginResponse
	loginErr     error
	roleResp     *models.RoleLookup
	roleErr      error
	lastRegister models.RegisterRequest
	lastRoleID   string
}

func (m *accountServiceMock) Register(ctx context.Context, req models.RegisterRequest) (*models.UserInfo, error) {
	m.lastRegister = req
	return m.registerResp, m.registerErr
}

func (m *accountServiceMock) Login(ctx context.Context, req models.LoginRequest) (*models.LoginResponse, error) {
	return m.loginResp, m.loginErr
}

func (m *accountServiceMock) GetRole(ctx context.Context, userID string) (*models.RoleLookup, error) {
	m.lastRoleID = userID
	return m.roleResp, m.roleErr
}

func jsonRequest(t *testing.T, method, path, body string) (*httptest.ResponseRecorder, *gin.Context) {
	t.Helper()
	gin.SetMode(gin.TestMode)
	w := httptest.NewRecorder()
	c, _ := gin.CreateTestContext(w)
	req, err := http.NewRequest(method, path, bytes.NewBufferString(body))
	require.NoError(t, err)
	req.Header.Set("Content-Type", "application/json")
	c.Request = req
	return w, c
}

func decodeBody(t *testing.T, w *httptest.ResponseRecorder) map[string]interface{} {
	t.Helper()
	var body map[string]interface{}
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &body))
	return body
}

func TestAccountHandlerRegister(t *testing.T) {
	svc := &accountServiceMock{registerResp: &models.UserInfo{UserID: "22101234", Name: "Rafi", Email: "rafi@g.bracu.ac.bd"}}
	w, c := jsonRequest(t, http.MethodPost, "/register", `{"user_id":"22101234","name":"Rafi","email":"rafi@g.bracu.ac.bd","password":"longenough"}`)

	NewAccountHandler(svc).Register(c)

	require.Equal(t, http.StatusCreated, w.Code)
	assert.Equal(t, "22101234", svc.lastRegister.UserID)
	body := decodeBody(t, w)
	assert.Equal(t, "registration successful", body["message"])
	assert.NotContains(t, w.Body.String(), "password")
}

func TestAccountHandlerRegisterMalformedBody(t *testing.T) {
	w, c := jsonRequest(t, http.MethodPost, "/register", `{"user_id":`)

	NewAccountHandler(&accountServiceMock{}).Register(c)

	require.Equal(t, http.StatusBadRequest, w.Code)
	assert.Equal(t, "VALIDATION_ERROR", decodeBody(t, w)["error"])
}

func TestAccountHandlerRegisterConflict(t *testing.T) {
	svc := &accountServiceMock{registerErr: appErrors.Clone(appErrors.ErrConflict, "email already registered")}
	w, c := jsonRequest(t, http.MethodPost, "/register", `{"user_id":"1","name":"A","email":"a@g.bracu.ac.bd","password":"longenough"}`)

	NewAccountHandler(svc).Register(c)

	require.Equal(t, http.StatusConflict, w.Code)
	assert.Equal(t, "email already registered", decodeBody(t, w)["message"])
}

func TestAccountHandlerLogin(t *testing.T) {
	svc := &accountServiceMock{loginResp: &models.LoginResponse{
		User:        models.UserInfo{UserID: "22101234", Name: "Rafi"},
		AccessToken: "token",
		ExpiresIn:   3600,
	}}
	w, c := jsonRequest(t, http.MethodPost, "/login", `{"email":"rafi@g.bracu.ac.bd","password":"longenough"}`)

	NewAccountHandler(svc).Login(c)

	require.Equal(t, http.StatusOK, w.Code)
	body := decodeBody(t, w)
	assert.Equal(t, "token", body["access_token"])
	assert.Equal(t, float64(3600), body["expires_in"])
	assert.Equal(t, "22101234", body["user"].(map[string]interface{})["user_id"])
}

func TestAccountHandlerLoginWrongPassword(t *testing.T) {
	svc := &accountServiceMock{loginErr: appErrors.ErrInvalidCredentials}
	w, c := jsonRequest(t, http.MethodPost, "/login", `{"email":"rafi@g.bracu.ac.bd","password":"nope"}`)

	NewAccountHandler(svc).Login(c)

	require.Equal(t, http.StatusUnauthorized, w.Code)
	assert.Equal(t, "incorrect password", decodeBody(t, w)["message"])
}

func TestAccountHandlerRole(t *testing.T) {
	svc := &accountServiceMock{roleResp: &models.RoleLookup{
		Role:   models.RoleFaculty,
		Person: models.Faculty{FID: "F1", FName: "Dr. Rahman", FInitial: "RHM"},
	}}
	w, c := jsonRequest(t, http.MethodGet, "/role/F1", "")
	c.Params = gin.Params{{Key: "user_id", Value: "F1"}}

	NewAccountHandler(svc).Role(c)

	require.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, "F1", svc.lastRoleID)
	body := decodeBody(t, w)
	assert.Equal(t, "faculty", body["role"])
	assert.Equal(t, "RHM", body["person"].(map[string]interface{})["f_initial"])
}
