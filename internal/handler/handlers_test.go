package handler

import (
	"bytes"
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"uptime_monitor/internal/model"
	"uptime_monitor/internal/repository"
	"uptime_monitor/internal/service"
	"uptime_monitor/internal/storage"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const testMaxChecks = 5

type testServer struct {
	router *gin.Engine
	store  *storage.FileStore
}

func newTestServer(t *testing.T) *testServer {
	t.Helper()
	gin.SetMode(gin.TestMode)

	store, err := storage.NewFileStore(t.TempDir())
	require.NoError(t, err)

	userRepo := repository.NewUserRepository(store)
	checkRepo := repository.NewCheckRepository(store)
	tokenRepo := repository.NewTokenRepository(store)

	tokenService := service.NewTokenService(tokenRepo)
	userService := service.NewUserService(userRepo)
	checkService := service.NewCheckService(checkRepo, userRepo, tokenRepo, tokenService, testMaxChecks)

	router := gin.New()
	router.HandleMethodNotAllowed = true
	api := router.Group("/api/v1")
	NewUserHandler(userService).RegisterUserRoutes(api)
	NewCheckHandler(checkService).RegisterCheckRoutes(api)

	return &testServer{router: router, store: store}
}

func (s *testServer) do(t *testing.T, method, path string, body interface{}, headers map[string]string) *httptest.ResponseRecorder {
	t.Helper()
	var buf bytes.Buffer
	if body != nil {
		require.NoError(t, json.NewEncoder(&buf).Encode(body))
	}
	req := httptest.NewRequest(method, path, &buf)
	req.Header.Set("Content-Type", "application/json")
	for k, v := range headers {
		req.Header.Set(k, v)
	}
	w := httptest.NewRecorder()
	s.router.ServeHTTP(w, req)
	return w
}

func (s *testServer) seedToken(t *testing.T, id, phone string, expires time.Time) {
	t.Helper()
	token := model.Token{ID: id, Phone: phone, Expires: expires.UnixMilli()}
	require.NoError(t, s.store.Create(context.Background(), "tokens", id, token))
}

func validUserBody() gin.H {
	return gin.H{
		"firstName":    "Ada",
		"lastName":     "Lovelace",
		"phone":        "01700000000",
		"password":     "secret",
		"tosAgreement": true,
	}
}

func validCheckBody() gin.H {
	return gin.H{
		"protocol":       "https",
		"url":            "example.com",
		"method":         "GET",
		"successCodes":   []int{200, 301},
		"timeoutSeconds": 3,
	}
}

func TestRegisterUser(t *testing.T) {
	srv := newTestServer(t)

	w := srv.do(t, http.MethodPost, "/api/v1/users", validUserBody(), nil)

	assert.Equal(t, http.StatusOK, w.Code)
	assert.Contains(t, w.Body.String(), "User created successfully!")

	var stored model.User
	require.NoError(t, srv.store.Read(context.Background(), "users", "01700000000", &stored))
	assert.Equal(t, "Ada", stored.FirstName)
	assert.NotEqual(t, "secret", stored.Password, "password must be stored hashed")
	assert.NotEmpty(t, stored.Password)
}

func TestUnsupportedMethod(t *testing.T) {
	srv := newTestServer(t)

	for _, path := range []string{"/api/v1/users", "/api/v1/checks"} {
		w := srv.do(t, http.MethodPatch, path, nil, nil)
		assert.Equal(t, http.StatusMethodNotAllowed, w.Code, "PATCH %s", path)
	}
}

func TestRegisterUser_MissingField(t *testing.T) {
	for _, field := range []string{"firstName", "lastName", "phone", "password", "tosAgreement"} {
		t.Run(field, func(t *testing.T) {
			srv := newTestServer(t)
			body := validUserBody()
			delete(body, field)

			w := srv.do(t, http.MethodPost, "/api/v1/users", body, nil)

			assert.Equal(t, http.StatusBadRequest, w.Code)
			var stored model.User
			err := srv.store.Read(context.Background(), "users", "01700000000", &stored)
			assert.ErrorIs(t, err, storage.ErrNotFound, "no record may be persisted")
		})
	}
}

func TestRegisterUser_TOSNotAgreed(t *testing.T) {
	srv := newTestServer(t)
	body := validUserBody()
	body["tosAgreement"] = false

	w := srv.do(t, http.MethodPost, "/api/v1/users", body, nil)

	assert.Equal(t, http.StatusBadRequest, w.Code)
}

func TestRegisterUser_WrongPhoneLength(t *testing.T) {
	srv := newTestServer(t)
	body := validUserBody()
	body["phone"] = "12345"

	w := srv.do(t, http.MethodPost, "/api/v1/users", body, nil)

	assert.Equal(t, http.StatusBadRequest, w.Code)
}

func TestRegisterUser_PaddedPhoneAccepted(t *testing.T) {
	srv := newTestServer(t)
	body := validUserBody()
	body["phone"] = " 01700000000" // raw length 12, trimmed length 11

	w := srv.do(t, http.MethodPost, "/api/v1/users", body, nil)

	assert.Equal(t, http.StatusOK, w.Code)

	var stored model.User
	require.NoError(t, srv.store.Read(context.Background(), "users", " 01700000000", &stored))
	assert.Equal(t, "Ada", stored.FirstName)
}

func TestRegisterUser_Duplicate(t *testing.T) {
	srv := newTestServer(t)

	first := srv.do(t, http.MethodPost, "/api/v1/users", validUserBody(), nil)
	require.Equal(t, http.StatusOK, first.Code)

	second := srv.do(t, http.MethodPost, "/api/v1/users", validUserBody(), nil)
	assert.Equal(t, http.StatusConflict, second.Code)

	// the original record is left unmodified
	var stored model.User
	require.NoError(t, srv.store.Read(context.Background(), "users", "01700000000", &stored))
	assert.Equal(t, "Ada", stored.FirstName)
}

func TestCreateCheck(t *testing.T) {
	srv := newTestServer(t)

	require.Equal(t, http.StatusOK, srv.do(t, http.MethodPost, "/api/v1/users", validUserBody(), nil).Code)
	srv.seedToken(t, "tokenid0123456789abc", "01700000000", time.Now().Add(time.Hour))

	w := srv.do(t, http.MethodPost, "/api/v1/checks", validCheckBody(), map[string]string{"token": "tokenid0123456789abc"})

	require.Equal(t, http.StatusOK, w.Code)

	var created model.Check
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &created))
	assert.Len(t, created.ID, 20)
	assert.Equal(t, "01700000000", created.UserPhone)
	assert.Equal(t, "https", created.Protocol)
	assert.Equal(t, "example.com", created.URL)
	assert.Equal(t, "GET", created.Method)
	assert.Equal(t, []int{200, 301}, created.SuccessCodes)
	assert.Equal(t, 3, created.TimeoutSeconds)

	var storedCheck model.Check
	require.NoError(t, srv.store.Read(context.Background(), "checks", created.ID, &storedCheck))

	var storedUser model.User
	require.NoError(t, srv.store.Read(context.Background(), "users", "01700000000", &storedUser))
	assert.Contains(t, storedUser.Checks, created.ID)
}

func TestCreateCheck_TimeoutOutOfRange(t *testing.T) {
	srv := newTestServer(t)

	require.Equal(t, http.StatusOK, srv.do(t, http.MethodPost, "/api/v1/users", validUserBody(), nil).Code)
	srv.seedToken(t, "tokenid0123456789abc", "01700000000", time.Now().Add(time.Hour))

	body := validCheckBody()
	body["timeoutSeconds"] = 7
	w := srv.do(t, http.MethodPost, "/api/v1/checks", body, map[string]string{"token": "tokenid0123456789abc"})

	assert.Equal(t, http.StatusBadRequest, w.Code)

	var storedUser model.User
	require.NoError(t, srv.store.Read(context.Background(), "users", "01700000000", &storedUser))
	assert.Empty(t, storedUser.Checks, "no check may be created")
}

func TestCreateCheck_WhitespaceURL(t *testing.T) {
	srv := newTestServer(t)

	require.Equal(t, http.StatusOK, srv.do(t, http.MethodPost, "/api/v1/users", validUserBody(), nil).Code)
	srv.seedToken(t, "tokenid0123456789abc", "01700000000", time.Now().Add(time.Hour))

	body := validCheckBody()
	body["url"] = "   "
	w := srv.do(t, http.MethodPost, "/api/v1/checks", body, map[string]string{"token": "tokenid0123456789abc"})

	assert.Equal(t, http.StatusBadRequest, w.Code)

	var storedUser model.User
	require.NoError(t, srv.store.Read(context.Background(), "users", "01700000000", &storedUser))
	assert.Empty(t, storedUser.Checks, "no check may be created")
}

func TestCreateCheck_EmptySuccessCodes(t *testing.T) {
	srv := newTestServer(t)

	require.Equal(t, http.StatusOK, srv.do(t, http.MethodPost, "/api/v1/users", validUserBody(), nil).Code)
	srv.seedToken(t, "tokenid0123456789abc", "01700000000", time.Now().Add(time.Hour))

	body := validCheckBody()
	body["successCodes"] = []int{}
	w := srv.do(t, http.MethodPost, "/api/v1/checks", body, map[string]string{"token": "tokenid0123456789abc"})

	assert.Equal(t, http.StatusOK, w.Code)
}

func TestCreateCheck_AbsentSuccessCodes(t *testing.T) {
	srv := newTestServer(t)

	require.Equal(t, http.StatusOK, srv.do(t, http.MethodPost, "/api/v1/users", validUserBody(), nil).Code)
	srv.seedToken(t, "tokenid0123456789abc", "01700000000", time.Now().Add(time.Hour))

	body := validCheckBody()
	delete(body, "successCodes")
	w := srv.do(t, http.MethodPost, "/api/v1/checks", body, map[string]string{"token": "tokenid0123456789abc"})

	assert.Equal(t, http.StatusBadRequest, w.Code)
}

func TestCreateCheck_NonIntegerTimeout(t *testing.T) {
	srv := newTestServer(t)
	body := validCheckBody()
	body["timeoutSeconds"] = 3.5

	w := srv.do(t, http.MethodPost, "/api/v1/checks", body, nil)

	assert.Equal(t, http.StatusBadRequest, w.Code)
}

func TestCreateCheck_BadProtocol(t *testing.T) {
	srv := newTestServer(t)
	body := validCheckBody()
	body["protocol"] = "ftp"

	w := srv.do(t, http.MethodPost, "/api/v1/checks", body, nil)

	assert.Equal(t, http.StatusBadRequest, w.Code)
}

func TestCreateCheck_MissingToken(t *testing.T) {
	srv := newTestServer(t)

	w := srv.do(t, http.MethodPost, "/api/v1/checks", validCheckBody(), nil)

	assert.Equal(t, http.StatusForbidden, w.Code)
	assert.Contains(t, w.Body.String(), "Authentication problem")
}

func TestCreateCheck_ExpiredToken(t *testing.T) {
	srv := newTestServer(t)

	require.Equal(t, http.StatusOK, srv.do(t, http.MethodPost, "/api/v1/users", validUserBody(), nil).Code)
	srv.seedToken(t, "tokenid0123456789abc", "01700000000", time.Now().Add(-time.Minute))

	w := srv.do(t, http.MethodPost, "/api/v1/checks", validCheckBody(), map[string]string{"token": "tokenid0123456789abc"})

	assert.Equal(t, http.StatusForbidden, w.Code)
	assert.Contains(t, w.Body.String(), "Token expired or Authentication failed")
}

func TestCreateCheck_QuotaReached(t *testing.T) {
	srv := newTestServer(t)

	require.Equal(t, http.StatusOK, srv.do(t, http.MethodPost, "/api/v1/users", validUserBody(), nil).Code)
	srv.seedToken(t, "tokenid0123456789abc", "01700000000", time.Now().Add(time.Hour))

	headers := map[string]string{"token": "tokenid0123456789abc"}
	for i := 0; i < testMaxChecks; i++ {
		require.Equal(t, http.StatusOK, srv.do(t, http.MethodPost, "/api/v1/checks", validCheckBody(), headers).Code)
	}

	w := srv.do(t, http.MethodPost, "/api/v1/checks", validCheckBody(), headers)

	assert.Equal(t, http.StatusUnauthorized, w.Code)
	assert.Contains(t, w.Body.String(), "User already reached max check limit")

	var storedUser model.User
	require.NoError(t, srv.store.Read(context.Background(), "users", "01700000000", &storedUser))
	assert.Len(t, storedUser.Checks, testMaxChecks)
}
