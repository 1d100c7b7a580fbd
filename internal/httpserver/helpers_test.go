package httpserver

import (
	"bytes"
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/labstack/echo/v4"
	"github.com/stretchr/testify/require"

	"github.com/Skotchmaster/dojo_backoffice/internal/db"
	"github.com/Skotchmaster/dojo_backoffice/internal/dbtest"
	"github.com/Skotchmaster/dojo_backoffice/internal/hash"
	"github.com/Skotchmaster/dojo_backoffice/internal/models"
	"github.com/Skotchmaster/dojo_backoffice/internal/repo"
	"github.com/Skotchmaster/dojo_backoffice/internal/service"
)

type testEnv struct {
	e      *echo.Echo
	repo   *repo.GormRepo
	hasher *hash.Hasher
}

func newTestEnv(t *testing.T) *testEnv {
	t.Helper()

	gdb := dbtest.InitTestDB(t)
	r := &repo.GormRepo{DB: gdb}
	h := hash.New(hash.MinCost)

	issuer := &service.SessionIssuer{Store: r}
	gate := &service.Gate{Accounts: r, Sessions: r}
	cookies := CookieConfig{Secure: true}

	e := echo.New()
	Register(e, &Deps{
		AuthHandler: &AuthHTTP{
			Svc:     &service.AuthService{Accounts: r, Hasher: h, Sessions: issuer, Gate: gate},
			Cookies: cookies,
		},
		UsersHandler:     &UsersHTTP{Svc: &service.UserService{Accounts: r, Hasher: h, Sessions: issuer}},
		SchedulesHandler: &SchedulesHTTP{Svc: &service.ScheduleService{Store: r}},
		Gate:             &GateMiddleware{Gate: gate, Cookies: cookies},
		Ready:            func(ctx context.Context) error { return db.Ping(ctx, gdb) },
	})

	return &testEnv{e: e, repo: r, hasher: h}
}

func (env *testEnv) doJSONRequest(method, path string, payload any, opts ...func(*http.Request)) *httptest.ResponseRecorder {
	var body bytes.Buffer
	if payload != nil {
		_ = json.NewEncoder(&body).Encode(payload)
	}
	req := httptest.NewRequest(method, path, &body)
	if payload != nil {
		req.Header.Set(echo.HeaderContentType, echo.MIMEApplicationJSON)
	}
	for _, o := range opts {
		o(req)
	}
	rec := httptest.NewRecorder()
	env.e.ServeHTTP(rec, req)
	return rec
}

func withCookie(ck *http.Cookie) func(*http.Request) {
	return func(r *http.Request) { r.AddCookie(&http.Cookie{Name: ck.Name, Value: ck.Value}) }
}

func withHeader(k, v string) func(*http.Request) {
	return func(r *http.Request) { r.Header.Set(k, v) }
}

func (env *testEnv) seed(t *testing.T, username string, role models.Role) *models.Account {
	t.Helper()
	pwHash, err := env.hasher.HashPassword("longpassword1")
	require.NoError(t, err)
	acc := &models.Account{Username: username, Role: role}
	require.NoError(t, env.repo.CreateAccount(context.Background(), acc, pwHash))
	return acc
}

// login seeds an account, logs it in and returns the session cookie.
func (env *testEnv) login(t *testing.T, username string, role models.Role) (*models.Account, *http.Cookie) {
	t.Helper()
	acc := env.seed(t, username, role)

	rec := env.doJSONRequest(http.MethodPost, "/api/v1/auth/login", map[string]string{
		"username": username,
		"password": "longpassword1",
	})
	require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())
	return acc, sessionCookie(t, rec)
}

func sessionCookie(t *testing.T, rec *httptest.ResponseRecorder) *http.Cookie {
	t.Helper()
	for _, ck := range rec.Result().Cookies() {
		if ck.Name == SessionCookieName {
			return ck
		}
	}
	t.Fatalf("no %s cookie in response", SessionCookieName)
	return nil
}

func decode(t *testing.T, rec *httptest.ResponseRecorder) map[string]any {
	t.Helper()
	var out map[string]any
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &out), rec.Body.String())
	return out
}

func requireError(t *testing.T, rec *httptest.ResponseRecorder, status int, code string) {
	t.Helper()
	require.Equal(t, status, rec.Code, rec.Body.String())
	body := decode(t, rec)
	require.Equal(t, false, body["success"])
	require.Equal(t, code, body["code"])
	require.NotEmpty(t, body["error"])
}
