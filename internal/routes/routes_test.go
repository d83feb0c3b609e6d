package routes

import (
	"bytes"
	"encoding/json"
	"fmt"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"task-tracker-api/internal/auth"
	"task-tracker-api/internal/middleware"
	"task-tracker-api/internal/models"
	"task-tracker-api/internal/realtime"
	"task-tracker-api/internal/repository"
	"task-tracker-api/internal/service"
	"task-tracker-api/internal/testutil"

	"github.com/gin-gonic/gin"
	"github.com/gorilla/websocket"
	"github.com/stretchr/testify/require"
	"golang.org/x/crypto/bcrypt"
)

func newRouter(t *testing.T, limiter *middleware.RateLimiter) (*gin.Engine, *realtime.Hub) {
	t.Helper()
	gin.SetMode(gin.TestMode)

	db := testutil.NewInMemoryDB(t)
	issuer, err := auth.NewTokenIssuer(auth.TokenConfig{
		Secret:   "test-secret",
		Issuer:   "test",
		Audience: "test-clients",
		TTL:      time.Hour,
	})
	require.NoError(t, err)

	hub := realtime.NewHub()
	r, err := SetupRoutes(Dependencies{
		Tasks:       service.NewTaskService(repository.NewTaskRepository(db), hub),
		Auth:        service.NewAuthService(repository.NewUserRepository(db), auth.NewPasswordHasher(bcrypt.MinCost), issuer),
		Tokens:      issuer,
		Hub:         hub,
		AuthLimiter: limiter,
	})
	require.NoError(t, err)
	return r, hub
}

func send(t *testing.T, r http.Handler, method, path, token string, body any) *httptest.ResponseRecorder {
	t.Helper()
	var buf bytes.Buffer
	if body != nil {
		require.NoError(t, json.NewEncoder(&buf).Encode(body))
	}
	req := httptest.NewRequest(method, path, &buf)
	req.Header.Set("Content-Type", "application/json")
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)
	return w
}

func register(t *testing.T, r http.Handler) string {
	t.Helper()
	w := send(t, r, http.MethodPost, "/api/auth/register", "", map[string]string{
		"firstName": "Alice",
		"lastName":  "Liddell",
		"username":  "alice",
		"email":     "alice@x.com",
		"password":  "secret1",
	})
	require.Equal(t, http.StatusOK, w.Code, w.Body.String())

	var resp struct {
		Token string `json:"token"`
	}
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
	require.NotEmpty(t, resp.Token)
	return resp.Token
}

func TestHealth(t *testing.T) {
	r, _ := newRouter(t, nil)
	w := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodGet, "/health", nil)
	r.ServeHTTP(w, req)
	require.Equal(t, http.StatusOK, w.Code)
	require.NotEmpty(t, w.Header().Get(middleware.RequestIDHeader))
}

func TestTaskLifecycle(t *testing.T) {
	r, _ := newRouter(t, nil)
	token := register(t, r)

	require.Equal(t, http.StatusUnauthorized, send(t, r, http.MethodGet, "/api/tasks", "", nil).Code)

	w := send(t, r, http.MethodPost, "/api/tasks", token, map[string]string{
		"title":    "Write report",
		"priority": "HIGH",
	})
	require.Equal(t, http.StatusCreated, w.Code, w.Body.String())
	var created models.Task
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &created))
	require.Equal(t, models.StatusTodo, created.Status)

	path := fmt.Sprintf("/api/tasks/%d", created.ID)
	w = send(t, r, http.MethodPatch, path+"/complete", token, nil)
	require.Equal(t, http.StatusOK, w.Code)

	w = send(t, r, http.MethodGet, "/api/tasks/status/completed", token, nil)
	require.Equal(t, http.StatusOK, w.Code)
	var completed []models.Task
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &completed))
	require.Len(t, completed, 1)
	require.NotNil(t, completed[0].CompletedAt)

	require.Equal(t, http.StatusOK, send(t, r, http.MethodDelete, path, token, nil).Code)
	require.Equal(t, http.StatusNotFound, send(t, r, http.MethodGet, path, token, nil).Code)
}

func TestAuthRateLimit(t *testing.T) {
	limiter := middleware.NewRateLimiter(0.001, 1, time.Minute)
	t.Cleanup(limiter.Stop)
	r, _ := newRouter(t, limiter)

	login := map[string]string{"email": "nobody@x.com", "password": "secret1"}
	require.Equal(t, http.StatusUnauthorized, send(t, r, http.MethodPost, "/api/auth/login", "", login).Code)
	require.Equal(t, http.StatusTooManyRequests, send(t, r, http.MethodPost, "/api/auth/login", "", login).Code)

	// Task routes are not limited.
	require.Equal(t, http.StatusUnauthorized, send(t, r, http.MethodGet, "/api/tasks", "", nil).Code)
}

func TestAuthRateLimit_IgnoresForwardedFor(t *testing.T) {
	limiter := middleware.NewRateLimiter(0.001, 1, time.Minute)
	t.Cleanup(limiter.Stop)
	r, _ := newRouter(t, limiter)

	body := `{"email":"nobody@x.com","password":"secret1"}`
	codes := make([]int, 0, 5)
	for i := 0; i < 5; i++ {
		req := httptest.NewRequest(http.MethodPost, "/api/auth/login", strings.NewReader(body))
		req.Header.Set("Content-Type", "application/json")
		req.Header.Set("X-Forwarded-For", fmt.Sprintf("198.51.100.%d", i+1))
		req.RemoteAddr = "203.0.113.7:4000"
		w := httptest.NewRecorder()
		r.ServeHTTP(w, req)
		codes = append(codes, w.Code)
	}

	require.Equal(t, http.StatusUnauthorized, codes[0])
	for _, code := range codes[1:] {
		require.Equal(t, http.StatusTooManyRequests, code)
	}
}

func TestWebSocketReceivesTaskEvents(t *testing.T) {
	r, hub := newRouter(t, nil)
	token := register(t, r)

	srv := httptest.NewServer(r)
	t.Cleanup(srv.Close)

	wsURL := "ws" + strings.TrimPrefix(srv.URL, "http") + "/api/ws?token=" + token
	conn, resp, err := websocket.DefaultDialer.Dial(wsURL, nil)
	require.NoError(t, err)
	t.Cleanup(func() { _ = conn.Close() })
	require.Equal(t, http.StatusSwitchingProtocols, resp.StatusCode)

	require.Eventually(t, func() bool { return hub.ClientCount() == 1 }, 2*time.Second, 10*time.Millisecond)

	w := send(t, r, http.MethodPost, "/api/tasks", token, map[string]string{"title": "Watch me"})
	require.Equal(t, http.StatusCreated, w.Code)

	require.NoError(t, conn.SetReadDeadline(time.Now().Add(2*time.Second)))
	var event models.TaskEvent
	require.NoError(t, conn.ReadJSON(&event))
	require.Equal(t, models.EventTaskCreated, event.Type)
	require.Equal(t, models.StatusTodo, event.Status)
}

func TestWebSocketRejectsMissingToken(t *testing.T) {
	r, _ := newRouter(t, nil)
	srv := httptest.NewServer(r)
	t.Cleanup(srv.Close)

	_, resp, err := websocket.DefaultDialer.Dial("ws"+strings.TrimPrefix(srv.URL, "http")+"/api/ws", nil)
	require.Error(t, err)
	require.NotNil(t, resp)
	require.Equal(t, http.StatusUnauthorized, resp.StatusCode)
}
