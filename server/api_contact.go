package main

import (
	"net/http"
	"strings"
)

// POST /api/contact
// Emails the site owner; nothing is persisted.
func (a *api) handleContact(w http.ResponseWriter, r *http.Request) {
	var req struct {
		Email   string `json:"email"`
		Subject string `json:"subject"`
		Message string `json:"message"`
	}
	if err := readJSON(w, r, &req); err != nil {
		writeError(w, 400, "invalid payload")
		return
	}
	email := strings.TrimSpace(req.Email)
	subject := strings.TrimSpace(req.Subject)
	message := strings.TrimSpace(req.Message)
	if email == "" || subject == "" || message == "" {
		writeError(w, 400, "email, subject and message are required")
		return
	}
	if !emailRe.MatchString(email) {
		writeError(w, 400, "invalid email")
		return
	}
	if err := a.mailer.SendContact(r.Context(), email, subject, message); err != nil {
		a.log.Error("send contact mail", "err", err)
		writeError(w, 500, "failed to send message")
		return
	}
	writeJSON(w, 200, map[string]any{"success": true})
}
