package handler_test

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/require"
	"github.com/whisperbox/internal/config"
	"github.com/whisperbox/internal/handler"
	"github.com/whisperbox/internal/middleware"
	"github.com/whisperbox/internal/models"
	"github.com/whisperbox/internal/repository"
	"github.com/whisperbox/internal/service"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
)

func init() {
	gin.SetMode(gin.TestMode)
}

type stubSender struct {
	lastCode string
	fail     bool
}

func (s *stubSender) SendVerificationEmail(_ context.Context, _, _, code string) error {
	if s.fail {
		return fmt.Errorf("delivery refused")
	}
	s.lastCode = code
	return nil
}

type stubGenerator struct {
	text string
}

func (s *stubGenerator) GenerateText(_ context.Context, _ string) (string, error) {
	return s.text, nil
}

type testServer struct {
	router *gin.Engine
	db     *gorm.DB
	sender *stubSender
}

func newTestServer(t *testing.T) *testServer {
	t.Helper()

	dsn := fmt.Sprintf("file:%s?mode=memory&cache=shared", t.Name())
	db, err := gorm.Open(sqlite.Open(dsn), &gorm.Config{
		Logger: logger.Default.LogMode(logger.Silent),
	})
	require.NoError(t, err)
	require.NoError(t, db.AutoMigrate(&models.User{}, &models.Message{}))

	userRepo := repository.NewUserRepository(db)
	messageRepo := repository.NewMessageRepository(db)

	sender := &stubSender{}
	jwtConfig := config.JWTConfig{Secret: "test-secret", ExpireHours: 1}

	authService := service.NewAuthService(userRepo, sender, jwtConfig, "http://localhost:8080")
	messageService := service.NewMessageService(userRepo, messageRepo, nil)
	suggestService := service.NewSuggestService(&stubGenerator{text: "a||b||c"}, nil)

	router := gin.New()
	authMiddleware := middleware.AuthMiddleware(authService)
	v1 := router.Group("/api/v1")
	handler.NewAuthHandler(authService).RegisterRoutes(v1, authMiddleware)
	handler.NewMessageHandler(messageService).RegisterRoutes(v1, authMiddleware)
	handler.NewSuggestHandler(suggestService).RegisterRoutes(v1)

	return &testServer{router: router, db: db, sender: sender}
}

type envelope struct {
	Success bool                   `json:"success"`
	Message string                 `json:"message"`
	Data    map[string]interface{} `json:"data"`
}

func (ts *testServer) do(t *testing.T, method, path, token string, body interface{}) (*httptest.ResponseRecorder, envelope) {
	t.Helper()

	var reader *bytes.Reader
	if body != nil {
		payload, err := json.Marshal(body)
		require.NoError(t, err)
		reader = bytes.NewReader(payload)
	} else {
		reader = bytes.NewReader(nil)
	}

	req := httptest.NewRequest(method, path, reader)
	req.Header.Set("Content-Type", "application/json")
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}

	w := httptest.NewRecorder()
	ts.router.ServeHTTP(w, req)

	var env envelope
	if len(w.Body.Bytes()) > 0 {
		require.NoError(t, json.Unmarshal(w.Body.Bytes(), &env))
	}
	return w, env
}

// signUpAndVerify runs the full registration flow and returns an access token.
func (ts *testServer) signUpAndVerify(t *testing.T, username, email string) string {
	t.Helper()

	w, _ := ts.do(t, http.MethodPost, "/api/v1/auth/sign-up", "", gin.H{
		"username": username,
		"email":    email,
		"password": "secret1",
	})
	require.Equal(t, http.StatusCreated, w.Code)

	w, _ = ts.do(t, http.MethodPost, "/api/v1/auth/verify-code", "", gin.H{
		"username": username,
		"code":     ts.sender.lastCode,
	})
	require.Equal(t, http.StatusOK, w.Code)

	w, env := ts.do(t, http.MethodPost, "/api/v1/auth/sign-in", "", gin.H{
		"identifier": username,
		"password":   "secret1",
	})
	require.Equal(t, http.StatusOK, w.Code)
	token, _ := env.Data["access_token"].(string)
	require.NotEmpty(t, token)
	return token
}
