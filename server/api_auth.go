package main

import (
	"crypto/subtle"
	"net/http"

	"golang.org/x/crypto/bcrypt"
)

func (a *api) adminUsername() string { return getenv("ADMIN_USERNAME", "admin") }

// checkCredentials compares against the single fixed admin credential pair.
// ADMIN_PASSWORD_HASH (bcrypt) takes precedence over the plain
// ADMIN_PASSWORD; with neither set, login is disabled.
func (a *api) checkCredentials(username, password string) bool {
	userOK := subtle.ConstantTimeCompare([]byte(username), []byte(a.adminUsername())) == 1
	if hash := getenv("ADMIN_PASSWORD_HASH", ""); hash != "" {
		return bcrypt.CompareHashAndPassword([]byte(hash), []byte(password)) == nil && userOK
	}
	want := getenv("ADMIN_PASSWORD", "")
	if want == "" {
		return false
	}
	return subtle.ConstantTimeCompare([]byte(password), []byte(want)) == 1 && userOK
}

func (a *api) handleLogin(w http.ResponseWriter, r *http.Request) {
	var req struct {
		Username string `json:"username"`
		Password string `json:"password"`
	}
	if err := readJSON(w, r, &req); err != nil || req.Username == "" || req.Password == "" {
		writeError(w, 400, "invalid payload")
		return
	}
	if !a.checkCredentials(req.Username, req.Password) {
		writeError(w, 401, "invalid credentials")
		return
	}
	if err := a.store.DeleteExpiredSessions(r.Context()); err != nil {
		a.log.Error("expire sessions", "err", err)
	}
	token, exp, err := a.store.CreateSession(r.Context(), a.sessionTTL())
	if err != nil {
		a.log.Error("create session", "err", err)
		writeError(w, 500, "internal error")
		return
	}
	a.setSessionCookie(w, token, exp)
	writeJSON(w, 200, map[string]any{"ok": true, "user": map[string]string{"id": "admin", "username": a.adminUsername()}})
}

func (a *api) handleLogout(w http.ResponseWriter, r *http.Request) {
	if c, err := r.Cookie(a.sessionCookieName()); err == nil && c.Value != "" {
		if err := a.store.DeleteSession(r.Context(), c.Value); err != nil {
			a.log.Error("delete session", "err", err)
		}
	}
	a.clearSessionCookie(w)
	writeJSON(w, 200, map[string]any{"ok": true})
}

func (a *api) handleMe(w http.ResponseWriter, r *http.Request) {
	// For anonymous visitors return 200 with user: null to avoid noisy 401s
	c, err := r.Cookie(a.sessionCookieName())
	if err != nil || c.Value == "" {
		writeJSON(w, 200, map[string]any{"user": nil})
		return
	}
	if err := a.store.SessionValid(r.Context(), c.Value); err != nil {
		writeJSON(w, 200, map[string]any{"user": nil})
		return
	}
	writeJSON(w, 200, map[string]any{"user": map[string]string{"id": "admin", "username": a.adminUsername()}})
}
