package service

import (
	"context"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/require"

	"github.com/Skotchmaster/dojo_backoffice/internal/dbtest"
	"github.com/Skotchmaster/dojo_backoffice/internal/hash"
	"github.com/Skotchmaster/dojo_backoffice/internal/models"
	"github.com/Skotchmaster/dojo_backoffice/internal/repo"
)

type fakeClock struct {
	mu sync.Mutex
	t  time.Time
}

func (c *fakeClock) Now() time.Time {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.t
}

func (c *fakeClock) Advance(d time.Duration) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.t = c.t.Add(d)
}

type recordingPublisher struct {
	mu     sync.Mutex
	topics []string
	events []AccountEvent
	err    error
}

func (p *recordingPublisher) PublishEvent(_ context.Context, topic, _ string, event any) error {
	p.mu.Lock()
	defer p.mu.Unlock()
	if p.err != nil {
		return p.err
	}
	p.topics = append(p.topics, topic)
	p.events = append(p.events, event.(AccountEvent))
	return nil
}

func (p *recordingPublisher) types() []string {
	p.mu.Lock()
	defer p.mu.Unlock()
	out := make([]string, 0, len(p.events))
	for _, e := range p.events {
		out = append(out, e.Type)
	}
	return out
}

type testEnv struct {
	repo      *repo.GormRepo
	hasher    *hash.Hasher
	clock     *fakeClock
	pub       *recordingPublisher
	issuer    *SessionIssuer
	gate      *Gate
	auth      *AuthService
	users     *UserService
	schedules *ScheduleService
}

func newTestEnv(t *testing.T) *testEnv {
	t.Helper()

	r := &repo.GormRepo{DB: dbtest.InitTestDB(t)}
	h := hash.New(hash.MinCost)
	clock := &fakeClock{t: time.Date(2024, 5, 1, 10, 0, 0, 0, time.UTC)}
	pub := &recordingPublisher{}

	issuer := &SessionIssuer{Store: r, TTL: DefaultSessionTTL, Now: clock.Now}
	gate := &Gate{Accounts: r, Sessions: r, Now: clock.Now}

	return &testEnv{
		repo:   r,
		hasher: h,
		clock:  clock,
		pub:    pub,
		issuer: issuer,
		gate:   gate,
		auth: &AuthService{
			Accounts: r,
			Hasher:   h,
			Sessions: issuer,
			Gate:     gate,
			Events:   pub,
			Topic:    "user_events",
		},
		users: &UserService{
			Accounts: r,
			Hasher:   h,
			Sessions: issuer,
			Events:   pub,
			Topic:    "user_events",
		},
		schedules: &ScheduleService{Store: r},
	}
}

func (e *testEnv) seedAccount(t *testing.T, username, password string, role models.Role) *models.Account {
	t.Helper()
	pwHash, err := e.hasher.HashPassword(password)
	require.NoError(t, err)
	acc := &models.Account{Username: username, Role: role}
	require.NoError(t, e.repo.CreateAccount(context.Background(), acc, pwHash))
	return acc
}

// loginAs seeds an account and returns its resolved identity and token.
func (e *testEnv) loginAs(t *testing.T, username string, role models.Role) (*Identity, string) {
	t.Helper()
	ctx := context.Background()
	e.seedAccount(t, username, "longpassword1", role)

	res, err := e.auth.Login(ctx, username, "longpassword1")
	require.NoError(t, err)
	ident, err := e.gate.Resolve(ctx, res.Token)
	require.NoError(t, err)
	return ident, res.Token
}

func ptr[T any](v T) *T { return &v }
