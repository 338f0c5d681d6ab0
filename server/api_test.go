package main

import (
	"database/sql"
	"io"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"golang.org/x/crypto/bcrypt"
)

func newTestAPI(t *testing.T) (*api, sqlmock.Sqlmock, *http.ServeMux) {
	t.Helper()
	db, mock, err := sqlmock.New(
		sqlmock.QueryMatcherOption(sqlmock.QueryMatcherRegexp),
		sqlmock.MonitorPingsOption(true),
	)
	require.NoError(t, err)
	t.Cleanup(func() { db.Close() })
	a := newAPI(NewStore(db), slog.New(slog.NewTextHandler(io.Discard, nil)), nil, nil)
	mux := http.NewServeMux()
	a.routes(mux)
	return a, mock, mux
}

func doJSON(mux *http.ServeMux, method, path, body string, cookies ...*http.Cookie) *httptest.ResponseRecorder {
	var rd io.Reader
	if body != "" {
		rd = strings.NewReader(body)
	}
	req := httptest.NewRequest(method, path, rd)
	if body != "" {
		req.Header.Set("Content-Type", "application/json")
	}
	for _, c := range cookies {
		req.AddCookie(c)
	}
	rec := httptest.NewRecorder()
	mux.ServeHTTP(rec, req)
	return rec
}

func adminCookie() *http.Cookie {
	return &http.Cookie{Name: "admin-session", Value: "valid-token"}
}

func expectSession(mock sqlmock.Sqlmock) {
	mock.ExpectQuery(`select 1 from sessions where token=\$1 and expires_at > now\(\)`).
		WithArgs("valid-token").
		WillReturnRows(sqlmock.NewRows([]string{"?column?"}).AddRow(1))
}

func TestAdminEndpointsRejectMissingSession(t *testing.T) {
	_, mock, mux := newTestAPI(t)

	for _, tc := range []struct{ method, path string }{
		{"GET", "/api/admin/projects"},
		{"POST", "/api/admin/projects"},
		{"PUT", "/api/admin/projects/reorder"},
		{"DELETE", "/api/admin/skills/abc"},
		{"PUT", "/api/admin/hero"},
		{"GET", "/api/admin/comments"},
		{"POST", "/api/admin/upload"},
	} {
		rec := doJSON(mux, tc.method, tc.path, "")
		assert.Equal(t, 401, rec.Code, "%s %s", tc.method, tc.path)
	}
	require.NoError(t, mock.ExpectationsWereMet(), "no queries may run for unauthenticated requests")
}

func TestAdminEndpointRejectsExpiredSession(t *testing.T) {
	_, mock, mux := newTestAPI(t)

	mock.ExpectQuery(`select 1 from sessions where token=\$1 and expires_at > now\(\)`).
		WithArgs("valid-token").
		WillReturnError(sql.ErrNoRows)

	rec := doJSON(mux, "GET", "/api/admin/projects", "", adminCookie())
	require.Equal(t, 401, rec.Code)
	assert.Contains(t, rec.Header().Get("Set-Cookie"), "Max-Age=0", "stale cookie must be cleared")
}

func TestLogin_SetsHardenedCookie(t *testing.T) {
	t.Setenv("ADMIN_USERNAME", "admin")
	t.Setenv("ADMIN_PASSWORD", "s3cret")
	t.Setenv("ADMIN_PASSWORD_HASH", "")
	_, mock, mux := newTestAPI(t)

	mock.ExpectExec(`delete from sessions where expires_at <= now\(\)`).
		WillReturnResult(sqlmock.NewResult(0, 0))
	mock.ExpectExec(`insert into sessions\(token, expires_at\) values\(\$1,\$2\)`).
		WithArgs(sqlmock.AnyArg(), sqlmock.AnyArg()).
		WillReturnResult(sqlmock.NewResult(0, 1))

	rec := doJSON(mux, "POST", "/api/auth/login", `{"username":"admin","password":"s3cret"}`)
	require.Equal(t, 200, rec.Code, rec.Body.String())

	setCookie := rec.Header().Get("Set-Cookie")
	assert.Contains(t, setCookie, "admin-session=")
	assert.Contains(t, setCookie, "HttpOnly")
	assert.Contains(t, setCookie, "SameSite=Strict")
	assert.Contains(t, setCookie, "Secure")
	assert.Contains(t, setCookie, "Max-Age=86")
	assert.Contains(t, rec.Body.String(), `"username":"admin"`)
	require.NoError(t, mock.ExpectationsWereMet())
}

func TestLogin_WrongPassword(t *testing.T) {
	t.Setenv("ADMIN_USERNAME", "admin")
	t.Setenv("ADMIN_PASSWORD", "s3cret")
	t.Setenv("ADMIN_PASSWORD_HASH", "")
	_, mock, mux := newTestAPI(t)

	rec := doJSON(mux, "POST", "/api/auth/login", `{"username":"admin","password":"wrong"}`)
	require.Equal(t, 401, rec.Code)
	assert.Empty(t, rec.Header().Get("Set-Cookie"))
	require.NoError(t, mock.ExpectationsWereMet())
}

func TestLogin_BcryptHashTakesPrecedence(t *testing.T) {
	hash, err := bcrypt.GenerateFromPassword([]byte("hashed-pass"), bcrypt.MinCost)
	require.NoError(t, err)
	t.Setenv("ADMIN_USERNAME", "admin")
	t.Setenv("ADMIN_PASSWORD", "plain-pass")
	t.Setenv("ADMIN_PASSWORD_HASH", string(hash))
	_, mock, mux := newTestAPI(t)

	// the plain password is ignored when a hash is configured
	rec := doJSON(mux, "POST", "/api/auth/login", `{"username":"admin","password":"plain-pass"}`)
	require.Equal(t, 401, rec.Code)

	mock.ExpectExec(`delete from sessions where expires_at <= now\(\)`).
		WillReturnResult(sqlmock.NewResult(0, 0))
	mock.ExpectExec(`insert into sessions`).
		WithArgs(sqlmock.AnyArg(), sqlmock.AnyArg()).
		WillReturnResult(sqlmock.NewResult(0, 1))

	rec = doJSON(mux, "POST", "/api/auth/login", `{"username":"admin","password":"hashed-pass"}`)
	require.Equal(t, 200, rec.Code, rec.Body.String())
}

func TestLogin_DisabledWithoutCredentials(t *testing.T) {
	t.Setenv("ADMIN_PASSWORD", "")
	t.Setenv("ADMIN_PASSWORD_HASH", "")
	_, _, mux := newTestAPI(t)

	rec := doJSON(mux, "POST", "/api/auth/login", `{"username":"admin","password":""}`)
	assert.Equal(t, 400, rec.Code)

	rec = doJSON(mux, "POST", "/api/auth/login", `{"username":"admin","password":"anything"}`)
	assert.Equal(t, 401, rec.Code)
}

func TestLogin_RateLimited(t *testing.T) {
	t.Setenv("ADMIN_PASSWORD", "s3cret")
	_, _, mux := newTestAPI(t)

	var last int
	for i := 0; i < 11; i++ {
		rec := doJSON(mux, "POST", "/api/auth/login", `{"username":"admin","password":"wrong"}`)
		last = rec.Code
	}
	assert.Equal(t, http.StatusTooManyRequests, last)
}

func TestLogout_ClearsCookieAndSession(t *testing.T) {
	_, mock, mux := newTestAPI(t)

	mock.ExpectExec(`delete from sessions where token=\$1`).
		WithArgs("valid-token").
		WillReturnResult(sqlmock.NewResult(0, 1))

	rec := doJSON(mux, "POST", "/api/auth/logout", "", adminCookie())
	require.Equal(t, 200, rec.Code)
	assert.Contains(t, rec.Header().Get("Set-Cookie"), "Max-Age=0")
	require.NoError(t, mock.ExpectationsWereMet())
}

func TestMe_AnonymousGetsNullUser(t *testing.T) {
	_, mock, mux := newTestAPI(t)

	rec := doJSON(mux, "GET", "/api/auth/me", "")
	require.Equal(t, 200, rec.Code)
	assert.Contains(t, rec.Body.String(), `"user":null`)
	require.NoError(t, mock.ExpectationsWereMet())
}

func TestMe_ValidSession(t *testing.T) {
	t.Setenv("ADMIN_USERNAME", "admin")
	_, mock, mux := newTestAPI(t)

	expectSession(mock)
	rec := doJSON(mux, "GET", "/api/auth/me", "", adminCookie())
	require.Equal(t, 200, rec.Code)
	assert.Contains(t, rec.Body.String(), `"username":"admin"`)
}

func TestHealth(t *testing.T) {
	_, mock, mux := newTestAPI(t)

	mock.ExpectPing()
	rec := doJSON(mux, "GET", "/api/health", "")
	require.Equal(t, 200, rec.Code)
	assert.Contains(t, rec.Body.String(), `"ok":true`)
}
