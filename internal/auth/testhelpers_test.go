package auth

import (
	"context"
	"errors"
	"strings"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/require"
	"golang.org/x/crypto/bcrypt"

	"github.com/redmonkez12/expense-api/internal/logging"
	"github.com/redmonkez12/expense-api/internal/testutil"
	"github.com/redmonkez12/expense-api/internal/user"
)

var testKey = []byte(strings.Repeat("k", 32))

type fakeMailer struct {
	mu     sync.Mutex
	fail   error
	sentTo []string
	tokens []string
}

func (m *fakeMailer) SendPasswordResetEmail(_ context.Context, toEmail, token string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.fail != nil {
		return m.fail
	}
	m.sentTo = append(m.sentTo, toEmail)
	m.tokens = append(m.tokens, token)
	return nil
}

func (m *fakeMailer) lastToken() string {
	m.mu.Lock()
	defer m.mu.Unlock()
	if len(m.tokens) == 0 {
		return ""
	}
	return m.tokens[len(m.tokens)-1]
}

type fakeLimiter struct {
	limited  map[string]bool
	cooldown bool
	err      error
	recorded []string
}

func (l *fakeLimiter) CheckIPRateLimitWithPurpose(_ context.Context, _, purpose string) (bool, error) {
	return l.limited[purpose], l.err
}

func (l *fakeLimiter) RecordIPRequestWithPurpose(_ context.Context, _, purpose string) error {
	l.recorded = append(l.recorded, purpose)
	return nil
}

func (l *fakeLimiter) CheckEmailCooldown(context.Context, string) (bool, error) {
	return l.cooldown, l.err
}

func (l *fakeLimiter) SetEmailCooldown(context.Context, string) error { return nil }

type fixture struct {
	service *Service
	users   *user.Repository
	tokens  *PasetoService
	mailer  *fakeMailer
	clock   *time.Time
}

func newFixture(t *testing.T) *fixture {
	t.Helper()

	users := user.NewRepository(testutil.NewDB(t))
	tokens, err := NewPasetoService(testKey)
	require.NoError(t, err)

	mailer := &fakeMailer{}
	svc := NewService(users, tokens, NewBcryptHasher(bcrypt.MinCost), mailer, logging.Discard(), time.Hour)

	clock := time.Now().UTC().Truncate(time.Second)
	svc.now = func() time.Time { return clock }

	return &fixture{service: svc, users: users, tokens: tokens, mailer: mailer, clock: &clock}
}

func (f *fixture) advance(d time.Duration) {
	*f.clock = f.clock.Add(d)
}

var errSMTPDown = errors.New("smtp: connection refused")
