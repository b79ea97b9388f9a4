package handler

import (
	"context"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"task_tracker/internal/model"
	"task_tracker/internal/service"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
)

func init() {
	gin.SetMode(gin.TestMode)
}

type fakeAuthService struct {
	registerErr    error
	registeredRole string
	loginToken     string
	loginErr       error
}

func (f *fakeAuthService) Register(_ context.Context, name, email, _, role string) (*model.User, error) {
	if f.registerErr != nil {
		return nil, f.registerErr
	}
	f.registeredRole = role
	if role == "" {
		role = model.RoleUser
	}
	return &model.User{ID: 1, Name: name, Email: email, Role: role}, nil
}

func (f *fakeAuthService) Login(_ context.Context, _, _ string) (string, error) {
	if f.loginErr != nil {
		return "", f.loginErr
	}
	return f.loginToken, nil
}

func authRouter(svc service.AuthService) *gin.Engine {
	r := gin.New()
	NewAuthHandler(svc).RegisterAuthRoutes(r)
	return r
}

func postJSON(r *gin.Engine, path, body string) *httptest.ResponseRecorder {
	req := httptest.NewRequest(http.MethodPost, path, strings.NewReader(body))
	req.Header.Set("Content-Type", "application/json")
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)
	return w
}

func TestSignup(t *testing.T) {
	r := authRouter(&fakeAuthService{})

	w := postJSON(r, "/signup", `{"name":"Alice","email":"alice@example.com","password":"password1"}`)

	assert.Equal(t, http.StatusOK, w.Code)
	assert.JSONEq(t, `{"message":"User registered"}`, w.Body.String())
}

func TestSignup_DuplicateEmail(t *testing.T) {
	r := authRouter(&fakeAuthService{registerErr: service.ErrEmailAlreadyExists})

	w := postJSON(r, "/signup", `{"name":"Alice","email":"alice@example.com","password":"password1"}`)

	assert.Equal(t, http.StatusBadRequest, w.Code)
	assert.JSONEq(t, `{"error":"Email already exists"}`, w.Body.String())
}

func TestSignup_ShortPassword(t *testing.T) {
	r := authRouter(&fakeAuthService{})

	w := postJSON(r, "/signup", `{"name":"Alice","email":"alice@example.com","password":"12345"}`)

	assert.Equal(t, http.StatusBadRequest, w.Code)
}

func TestSignup_BadRole(t *testing.T) {
	r := authRouter(&fakeAuthService{})

	w := postJSON(r, "/signup", `{"name":"Alice","email":"alice@example.com","password":"password1","role":"superuser"}`)

	assert.Equal(t, http.StatusBadRequest, w.Code)
}

func TestLogin(t *testing.T) {
	r := authRouter(&fakeAuthService{loginToken: "signed.jwt.token"})

	w := postJSON(r, "/login", `{"email":"alice@example.com","password":"password1"}`)

	assert.Equal(t, http.StatusOK, w.Code)
	assert.JSONEq(t, `{"token":"signed.jwt.token"}`, w.Body.String())
}

func TestLogin_InvalidCredentials(t *testing.T) {
	r := authRouter(&fakeAuthService{loginErr: service.ErrInvalidCredentials})

	w := postJSON(r, "/login", `{"email":"alice@example.com","password":"wrongpass"}`)

	assert.Equal(t, http.StatusBadRequest, w.Code)
	assert.JSONEq(t, `{"message":"Invalid credentials"}`, w.Body.String())
}
