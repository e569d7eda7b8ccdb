package handlers

import (
	"encoding/json"
	"net/http"
	"net/mail"
	"strings"

	"github.com/strideworks/server/internal/api/problem"
	"github.com/strideworks/server/internal/auth"
)

// SessionHandler issues and clears the session cookie. Sessions are
// identity claims, not password logins: any syntactically valid email is
// granted a token for itself.
type SessionHandler struct {
	Manager *auth.SessionManager
	Env     string
}

func NewSessionHandler(manager *auth.SessionManager, env string) *SessionHandler {
	return &SessionHandler{Manager: manager, Env: env}
}

type sessionRequest struct {
	Email string `json:"email"`
}

type sessionResponse struct {
	Success bool   `json:"success"`
	Email   string `json:"email"`
}

func (h *SessionHandler) Issue(w http.ResponseWriter, r *http.Request) {
	if h.Manager == nil {
		problem.Write(w, r, http.StatusInternalServerError, problem.TypeServerError, "Server error", nil, h.Env)
		return
	}

	var req sessionRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		problem.Write(w, r, http.StatusBadRequest, problem.TypeValidation, "Invalid request", err, h.Env)
		return
	}

	email := strings.ToLower(strings.TrimSpace(req.Email))
	if _, err := mail.ParseAddress(email); err != nil {
		problem.Write(w, r, http.StatusBadRequest, problem.TypeValidation, "Invalid email", err, h.Env)
		return
	}

	token, err := h.Manager.Issue(email)
	if err != nil {
		problem.Write(w, r, http.StatusInternalServerError, problem.TypeServerError, "Server error", err, h.Env)
		return
	}

	auth.SetSessionCookie(w, token, h.Manager.TTL(), h.Env)
	writeJSON(w, http.StatusOK, sessionResponse{Success: true, Email: email})
}

func (h *SessionHandler) Logout(w http.ResponseWriter, r *http.Request) {
	auth.ClearSessionCookie(w, h.Env)
	writeJSON(w, http.StatusOK, map[string]bool{"success": true})
}
