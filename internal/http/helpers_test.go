package http

import (
	"bytes"
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"sync"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/sirupsen/logrus"
	"github.com/sirupsen/logrus/hooks/test"
	"github.com/stretchr/testify/require"
	"golang.org/x/crypto/bcrypt"

	"blog-api/internal/auth"
	"blog-api/internal/mail"
	"blog-api/internal/metrics"
	"blog-api/internal/repository"
	"blog-api/internal/repository/sqlite"
	"blog-api/internal/service"
)

type capturingMailer struct {
	mu   sync.Mutex
	sent []mail.Message
}

func (m *capturingMailer) Send(_ context.Context, msg mail.Message) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.sent = append(m.sent, msg)
	return nil
}

// verificationPath returns the path of the most recent verification link.
func (m *capturingMailer) verificationPath(t *testing.T) string {
	t.Helper()
	m.mu.Lock()
	defer m.mu.Unlock()
	require.NotEmpty(t, m.sent)
	text := m.sent[len(m.sent)-1].Text
	idx := strings.Index(text, "/api/user/auth/verify/")
	require.GreaterOrEqual(t, idx, 0, text)
	return text[idx:]
}

type testServer struct {
	t        *testing.T
	router   *gin.Engine
	users    repository.UserRepository
	authSvc  service.AuthService
	tokens   *auth.TokenIssuer
	mailer   *capturingMailer
	registry *prometheus.Registry
	hook     *test.Hook

	mu  sync.Mutex
	now time.Time
}

func newTestServer(t *testing.T, opts ...func(*Options)) *testServer {
	t.Helper()
	gin.SetMode(gin.TestMode)

	db, err := sqlite.Open("file:" + uuid.NewString() + "?mode=memory&cache=shared")
	require.NoError(t, err)
	t.Cleanup(func() { _ = db.Close() })

	users := sqlite.NewUserRepository(db)
	posts := sqlite.NewPostRepository(db)
	require.NoError(t, users.Init(context.Background()))
	require.NoError(t, posts.Init(context.Background()))

	logger, hook := test.NewNullLogger()
	ts := &testServer{
		t:        t,
		users:    users,
		mailer:   &capturingMailer{},
		registry: prometheus.NewRegistry(),
		hook:     hook,
		now:      time.Date(2024, 5, 1, 12, 0, 0, 0, time.UTC),
	}
	ts.tokens = auth.NewTokenIssuer("test-secret", auth.WithClock(ts.clock))
	ts.authSvc = service.NewAuthService(users, auth.NewPasswordHasher(bcrypt.MinCost), ts.tokens, ts.mailer, logger)

	options := Options{
		PublicURL: "http://blog.test",
		Metrics:   metrics.NewCollector(ts.registry),
		Gatherer:  ts.registry,
	}
	for _, opt := range opts {
		opt(&options)
	}

	handler := NewHandler(
		ts.authSvc,
		service.NewPostService(posts, logger),
		auth.NewGate(ts.tokens, users, logger),
		logger,
		options,
	)
	router, err := handler.Router()
	require.NoError(t, err)
	ts.router = router
	return ts
}

func (ts *testServer) clock() time.Time {
	ts.mu.Lock()
	defer ts.mu.Unlock()
	return ts.now
}

func (ts *testServer) advance(d time.Duration) {
	ts.mu.Lock()
	defer ts.mu.Unlock()
	ts.now = ts.now.Add(d)
}

func (ts *testServer) do(method, path, token string, body any) *httptest.ResponseRecorder {
	ts.t.Helper()
	var reader *bytes.Reader
	if body != nil {
		raw, err := json.Marshal(body)
		require.NoError(ts.t, err)
		reader = bytes.NewReader(raw)
	} else {
		reader = bytes.NewReader(nil)
	}

	req := httptest.NewRequest(method, path, reader)
	req.Header.Set("Content-Type", "application/json")
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}
	rec := httptest.NewRecorder()
	ts.router.ServeHTTP(rec, req)
	return rec
}

func decode(t *testing.T, rec *httptest.ResponseRecorder) map[string]any {
	t.Helper()
	var out map[string]any
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &out), rec.Body.String())
	return out
}

func signupBody(email string) map[string]string {
	return map[string]string{
		"name":      "Doe",
		"firstName": "Jane",
		"email":     email,
		"country":   "NL",
		"password":  "pa55word",
	}
}

// verifiedUserToken signs up, verifies and signs in a user.
func (ts *testServer) verifiedUserToken(email string) string {
	ts.t.Helper()
	rec := ts.do(http.MethodPost, "/api/user/auth/signup", "", signupBody(email))
	require.Equal(ts.t, http.StatusCreated, rec.Code, rec.Body.String())

	rec = ts.do(http.MethodGet, ts.mailer.verificationPath(ts.t), "", nil)
	require.Equal(ts.t, http.StatusOK, rec.Code, rec.Body.String())

	rec = ts.do(http.MethodPost, "/api/user/auth/signin", "", map[string]string{"email": email, "password": "pa55word"})
	require.Equal(ts.t, http.StatusOK, rec.Code, rec.Body.String())
	return decode(ts.t, rec)["token"].(string)
}

func (ts *testServer) adminToken(email string) string {
	ts.t.Helper()
	_, err := ts.authSvc.SeedAdmin(context.Background(), service.CreateAdminInput{
		FirstName: "Default", LastName: "Admin", Email: email, Password: "adminpassword", Country: "Xyz",
	})
	require.NoError(ts.t, err)

	rec := ts.do(http.MethodPost, "/api/admin/auth/signin", "", map[string]string{"email": email, "password": "adminpassword"})
	require.Equal(ts.t, http.StatusOK, rec.Code, rec.Body.String())
	body := decode(ts.t, rec)
	require.Equal(ts.t, "signin successful", body["message"])
	return body["token"].(string)
}

func (ts *testServer) hookLogger() *logrus.Logger {
	logger, hook := test.NewNullLogger()
	ts.hook = hook
	return logger
}

func httptestDo(router http.Handler, method, path string) *httptest.ResponseRecorder {
	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, httptest.NewRequest(method, path, nil))
	return rec
}
