package service

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"sync"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/sirupsen/logrus"
	"github.com/sirupsen/logrus/hooks/test"
	"github.com/stretchr/testify/require"
	"golang.org/x/crypto/bcrypt"

	"blog-api/internal/auth"
	"blog-api/internal/mail"
	"blog-api/internal/repository"
	"blog-api/internal/repository/sqlite"
)

type recordingMailer struct {
	mu   sync.Mutex
	sent []mail.Message
	err  error
}

func (m *recordingMailer) Send(_ context.Context, msg mail.Message) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.err != nil {
		return m.err
	}
	m.sent = append(m.sent, msg)
	return nil
}

func (m *recordingMailer) last() mail.Message {
	m.mu.Lock()
	defer m.mu.Unlock()
	if len(m.sent) == 0 {
		return mail.Message{}
	}
	return m.sent[len(m.sent)-1]
}

type authFixture struct {
	svc    AuthService
	users  repository.UserRepository
	tokens *auth.TokenIssuer
	mailer *recordingMailer
	now    time.Time
	seq    int
}

func openTestDB(t *testing.T) *sql.DB {
	t.Helper()
	db, err := sqlite.Open("file:" + uuid.NewString() + "?mode=memory&cache=shared")
	require.NoError(t, err)
	t.Cleanup(func() { _ = db.Close() })
	return db
}

func newAuthFixture(t *testing.T) *authFixture {
	t.Helper()
	db := openTestDB(t)
	users := sqlite.NewUserRepository(db)
	require.NoError(t, users.Init(context.Background()))

	logger, _ := test.NewNullLogger()
	f := &authFixture{
		users:  users,
		mailer: &recordingMailer{},
		now:    time.Date(2024, 5, 1, 12, 0, 0, 0, time.UTC),
	}
	f.tokens = auth.NewTokenIssuer("test-secret", auth.WithClock(func() time.Time { return f.now }))
	f.svc = NewAuthService(
		users,
		auth.NewPasswordHasher(bcrypt.MinCost),
		f.tokens,
		f.mailer,
		logger,
		WithVerificationTokens(func() (string, error) {
			f.seq++
			return fmt.Sprintf("verify-%d", f.seq), nil
		}),
	)
	return f
}

func (f *authFixture) signup(t *testing.T, email string) {
	t.Helper()
	_, err := f.svc.Signup(context.Background(), SignupInput{
		Name:      "Doe",
		FirstName: "Jane",
		Email:     email,
		Country:   "NL",
		Password:  "pa55word",
	}, "http://localhost:8080")
	require.NoError(t, err)
}

func (f *authFixture) signupVerified(t *testing.T, email string) {
	t.Helper()
	f.signup(t, email)
	_, err := f.svc.Verify(context.Background(), fmt.Sprintf("verify-%d", f.seq))
	require.NoError(t, err)
}

var errMailDown = errors.New("smtp unavailable")

func nullLogger() *logrus.Logger {
	logger, _ := test.NewNullLogger()
	return logger
}
