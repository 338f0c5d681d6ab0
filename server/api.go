package main

import (
	"encoding/json"
	"errors"
	"io"
	"log/slog"
	"net/http"
	"strings"
	"time"

	"github.com/go-chi/httprate"
)

type api struct {
	store    *Store
	log      *slog.Logger
	uploader Uploader
	mailer   Mailer
}

func newAPI(store *Store, log *slog.Logger, uploader Uploader, mailer Mailer) *api {
	return &api{store: store, log: log, uploader: uploader, mailer: mailer}
}

func readJSON(w http.ResponseWriter, r *http.Request, dst any) error {
	r.Body = http.MaxBytesReader(w, r.Body, 1<<20)
	dec := json.NewDecoder(r.Body)
	dec.DisallowUnknownFields()
	if err := dec.Decode(dst); err != nil {
		return err
	}
	_, _ = io.Copy(io.Discard, r.Body)
	return nil
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json; charset=utf-8")
	w.WriteHeader(status)
	enc := json.NewEncoder(w)
	enc.SetEscapeHTML(true)
	_ = enc.Encode(v)
}

func writeError(w http.ResponseWriter, status int, msg string) {
	writeJSON(w, status, map[string]any{"ok": false, "error": msg})
}

// cookie/session helpers
func (a *api) sessionCookieName() string { return getenv("SESSION_COOKIE_NAME", "admin-session") }
func (a *api) sessionTTL() time.Duration {
	if v := getenv("SESSION_TTL", ""); v != "" {
		if d, err := time.ParseDuration(v); err == nil {
			return d
		}
	}
	return 24 * time.Hour
}
func (a *api) secureCookie() bool { return getenv("COOKIE_SECURE", "true") == "true" }
func (a *api) sameSite() http.SameSite {
	switch strings.ToLower(getenv("COOKIE_SAMESITE", "strict")) {
	case "lax":
		return http.SameSiteLaxMode
	case "none":
		return http.SameSiteNoneMode
	default:
		return http.SameSiteStrictMode
	}
}

func (a *api) setSessionCookie(w http.ResponseWriter, token string, expires time.Time) {
	http.SetCookie(w, &http.Cookie{
		Name:     a.sessionCookieName(),
		Value:    token,
		Path:     "/",
		HttpOnly: true,
		Secure:   a.secureCookie(),
		SameSite: a.sameSite(),
		Expires:  expires,
		MaxAge:   int(time.Until(expires).Seconds()),
	})
}

func (a *api) clearSessionCookie(w http.ResponseWriter) {
	http.SetCookie(w, &http.Cookie{
		Name:     a.sessionCookieName(),
		Value:    "",
		Path:     "/",
		HttpOnly: true,
		Secure:   a.secureCookie(),
		SameSite: a.sameSite(),
		Expires:  time.Unix(0, 0),
		MaxAge:   -1,
	})
}

// requireAdmin gates a handler behind a valid admin session. The token is
// looked up server-side and must not be expired; a stale cookie is cleared
// on the way out.
func (a *api) requireAdmin(next http.HandlerFunc) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		c, err := r.Cookie(a.sessionCookieName())
		if err != nil || c.Value == "" {
			writeError(w, 401, "unauthorized")
			return
		}
		if err := a.store.SessionValid(r.Context(), c.Value); err != nil {
			if !errors.Is(err, ErrNotFound) {
				a.log.Error("session check", "err", err)
				writeError(w, 500, "internal error")
				return
			}
			a.clearSessionCookie(w)
			writeError(w, 401, "unauthorized")
			return
		}
		next(w, r)
	}
}

// limit adapts an httprate middleware to a single HandlerFunc route.
func limit(mw func(http.Handler) http.Handler, next http.HandlerFunc) http.HandlerFunc {
	h := mw(next)
	return func(w http.ResponseWriter, r *http.Request) { h.ServeHTTP(w, r) }
}

func (a *api) routes(mux *http.ServeMux) {
	login := httprate.LimitByIP(10, time.Minute)
	submit := httprate.LimitByIP(5, time.Minute)

	mux.HandleFunc("POST /api/auth/login", limit(login, a.handleLogin))
	mux.HandleFunc("POST /api/auth/logout", a.handleLogout)
	mux.HandleFunc("GET /api/auth/me", a.handleMe)

	mux.HandleFunc("GET /api/health", a.handleHealth)

	// Public reads
	mux.HandleFunc("GET /api/projects", a.handlePublicProjects)
	mux.HandleFunc("GET /api/skills", a.handlePublicSkills)
	mux.HandleFunc("GET /api/certifications", a.handlePublicCertifications)
	mux.HandleFunc("GET /api/profile", a.handlePublicProfile)
	mux.HandleFunc("GET /api/comments", a.handleListApprovedComments)

	// Public writes
	mux.HandleFunc("POST /api/comments", limit(submit, a.handleSubmitComment))
	mux.HandleFunc("POST /api/contact", limit(submit, a.handleContact))

	// Admin: ordered collections
	mux.HandleFunc("GET /api/admin/projects", a.requireAdmin(a.handleAdminListProjects))
	mux.HandleFunc("POST /api/admin/projects", a.requireAdmin(a.handleCreateProject))
	mux.HandleFunc("PUT /api/admin/projects/{id}", a.requireAdmin(a.handleUpdateProject))
	mux.HandleFunc("DELETE /api/admin/projects/{id}", a.requireAdmin(a.handleDeleteItem("projects")))
	mux.HandleFunc("PUT /api/admin/projects/reorder", a.requireAdmin(a.handleReorder("projects")))

	mux.HandleFunc("GET /api/admin/skills", a.requireAdmin(a.handleAdminListSkills))
	mux.HandleFunc("POST /api/admin/skills", a.requireAdmin(a.handleCreateSkill))
	mux.HandleFunc("PUT /api/admin/skills/{id}", a.requireAdmin(a.handleUpdateSkill))
	mux.HandleFunc("DELETE /api/admin/skills/{id}", a.requireAdmin(a.handleDeleteItem("skills")))
	mux.HandleFunc("PUT /api/admin/skills/reorder", a.requireAdmin(a.handleReorder("skills")))

	mux.HandleFunc("GET /api/admin/certifications", a.requireAdmin(a.handleAdminListCertifications))
	mux.HandleFunc("POST /api/admin/certifications", a.requireAdmin(a.handleCreateCertification))
	mux.HandleFunc("PUT /api/admin/certifications/{id}", a.requireAdmin(a.handleUpdateCertification))
	mux.HandleFunc("DELETE /api/admin/certifications/{id}", a.requireAdmin(a.handleDeleteItem("certifications")))
	mux.HandleFunc("PUT /api/admin/certifications/reorder", a.requireAdmin(a.handleReorder("certifications")))

	// Admin: profile sections
	mux.HandleFunc("GET /api/admin/hero", a.requireAdmin(a.handleGetHero))
	mux.HandleFunc("PUT /api/admin/hero", a.requireAdmin(a.handleUpdateHero))
	mux.HandleFunc("GET /api/admin/about", a.requireAdmin(a.handleGetAbout))
	mux.HandleFunc("PUT /api/admin/about", a.requireAdmin(a.handleUpdateAbout))

	// Admin: comment moderation
	mux.HandleFunc("GET /api/admin/comments", a.requireAdmin(a.handleAdminListComments))
	mux.HandleFunc("PUT /api/admin/comments/{id}/approve", a.requireAdmin(a.handleApproveComment))
	mux.HandleFunc("DELETE /api/admin/comments/{id}", a.requireAdmin(a.handleDeleteComment))

	// Admin: uploads
	mux.HandleFunc("POST /api/admin/upload", a.requireAdmin(a.handleUpload))
}

func withLogging(log *slog.Logger, next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		sw := &statusWriter{ResponseWriter: w, status: 200}
		start := time.Now()
		next.ServeHTTP(sw, r)
		log.Info("http", "method", r.Method, "path", r.URL.Path, "status", sw.status, "dur_ms", time.Since(start).Milliseconds())
	})
}

type statusWriter struct {
	http.ResponseWriter
	status int
}

func (w *statusWriter) WriteHeader(code int) { w.status = code; w.ResponseWriter.WriteHeader(code) }
