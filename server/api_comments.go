package main

import (
	"errors"
	"net/http"
	"regexp"
	"strings"
)

// basic local@domain.tld shape; anything stricter belongs to the mail server
var emailRe = regexp.MustCompile(`^[^\s@]+@[^\s@]+\.[^\s@]+$`)

func (a *api) handleListApprovedComments(w http.ResponseWriter, r *http.Request) {
	items, err := a.store.ListApprovedComments(r.Context())
	if err != nil {
		a.log.Error("list comments", "err", err)
		writeError(w, 500, "internal error")
		return
	}
	writeJSON(w, 200, items)
}

func (a *api) handleSubmitComment(w http.ResponseWriter, r *http.Request) {
	var req struct {
		Name    string `json:"name"`
		Email   string `json:"email"`
		Message string `json:"message"`
	}
	if err := readJSON(w, r, &req); err != nil {
		writeError(w, 400, "invalid payload")
		return
	}
	name := strings.TrimSpace(req.Name)
	email := strings.TrimSpace(req.Email)
	message := strings.TrimSpace(req.Message)
	if name == "" || message == "" {
		writeError(w, 400, "name and message are required")
		return
	}
	if len(name) > 255 {
		writeError(w, 400, "name is too long")
		return
	}
	if len(message) > 1000 {
		writeError(w, 400, "message is too long (max 1000 characters)")
		return
	}
	if email != "" && !emailRe.MatchString(email) {
		writeError(w, 400, "invalid email")
		return
	}
	c, err := a.store.CreateComment(r.Context(), name, email, message)
	if err != nil {
		a.log.Error("create comment", "err", err)
		writeError(w, 500, "internal error")
		return
	}
	writeJSON(w, 201, c)
}

func (a *api) handleAdminListComments(w http.ResponseWriter, r *http.Request) {
	items, err := a.store.ListComments(r.Context())
	if err != nil {
		a.log.Error("admin list comments", "err", err)
		writeError(w, 500, "internal error")
		return
	}
	writeJSON(w, 200, items)
}

func (a *api) handleApproveComment(w http.ResponseWriter, r *http.Request) {
	id := r.PathValue("id")
	var req struct {
		Approved *bool `json:"approved"`
	}
	if err := readJSON(w, r, &req); err != nil || req.Approved == nil {
		writeError(w, 400, "invalid payload")
		return
	}
	if err := a.store.SetCommentApproved(r.Context(), id, *req.Approved); err != nil {
		if errors.Is(err, ErrNotFound) {
			writeError(w, 404, "not found")
			return
		}
		a.log.Error("approve comment", "err", err)
		writeError(w, 500, "internal error")
		return
	}
	writeJSON(w, 200, map[string]any{"ok": true})
}

func (a *api) handleDeleteComment(w http.ResponseWriter, r *http.Request) {
	if err := a.store.DeleteComment(r.Context(), r.PathValue("id")); err != nil {
		if errors.Is(err, ErrNotFound) {
			writeError(w, 404, "not found")
			return
		}
		a.log.Error("delete comment", "err", err)
		writeError(w, 500, "internal error")
		return
	}
	writeJSON(w, 200, map[string]any{"ok": true})
}
