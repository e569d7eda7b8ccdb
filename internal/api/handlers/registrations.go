package handlers

import (
	"encoding/json"
	"errors"
	"net/http"

	"github.com/strideworks/server/internal/api/problem"
	"github.com/strideworks/server/internal/domain/registrations"
)

type RegistrationsHandler struct {
	Ledger *registrations.Ledger
	Env    string
}

func NewRegistrationsHandler(ledger *registrations.Ledger, env string) *RegistrationsHandler {
	return &RegistrationsHandler{Ledger: ledger, Env: env}
}

// Create registers the authenticated participant for an event. A duplicate
// (participant, event) pair is a 409; the store constraint decides, so two
// racing requests cannot both win.
func (h *RegistrationsHandler) Create(w http.ResponseWriter, r *http.Request) {
	if h.Ledger == nil {
		problem.Write(w, r, http.StatusInternalServerError, problem.TypeServerError, "Server error", nil, h.Env)
		return
	}

	var input registrations.RegistrationInput
	if err := json.NewDecoder(r.Body).Decode(&input); err != nil {
		problem.Write(w, r, http.StatusBadRequest, problem.TypeValidation, "Invalid request", err, h.Env)
		return
	}

	registration, err := h.Ledger.Register(r.Context(), input)
	if err != nil {
		switch {
		case errors.Is(err, registrations.ErrAlreadyRegistered):
			problem.Write(w, r, http.StatusConflict, problem.TypeConflict, "Already registered", err, h.Env)
		case isValidationError(err):
			problem.Write(w, r, http.StatusBadRequest, problem.TypeValidation, "Invalid registration", err, h.Env)
		default:
			problem.Write(w, r, http.StatusInternalServerError, problem.TypeServerError, "Server error", err, h.Env)
		}
		return
	}

	writeJSON(w, http.StatusCreated, registration)
}

// Mine lists the participant's registrations, optionally narrowed by an
// event-title search term.
func (h *RegistrationsHandler) Mine(w http.ResponseWriter, r *http.Request) {
	if h.Ledger == nil {
		problem.Write(w, r, http.StatusInternalServerError, problem.TypeServerError, "Server error", nil, h.Env)
		return
	}

	email := pathParam(r, "email")
	if !requireOwner(w, r, email, h.Env) {
		return
	}

	items, err := h.Ledger.ListByParticipant(r.Context(), email, r.URL.Query().Get("search"))
	if err != nil {
		problem.Write(w, r, http.StatusInternalServerError, problem.TypeServerError, "Server error", err, h.Env)
		return
	}

	writeJSON(w, http.StatusOK, items)
}

// Organizer lists registrations across the organizer's events.
func (h *RegistrationsHandler) Organizer(w http.ResponseWriter, r *http.Request) {
	if h.Ledger == nil {
		problem.Write(w, r, http.StatusInternalServerError, problem.TypeServerError, "Server error", nil, h.Env)
		return
	}

	email := pathParam(r, "email")
	if !requireOwner(w, r, email, h.Env) {
		return
	}

	items, err := h.Ledger.ListByOrganizer(r.Context(), email)
	if err != nil {
		problem.Write(w, r, http.StatusInternalServerError, problem.TypeServerError, "Server error", err, h.Env)
		return
	}

	writeJSON(w, http.StatusOK, items)
}

func (h *RegistrationsHandler) Get(w http.ResponseWriter, r *http.Request) {
	if h.Ledger == nil {
		problem.Write(w, r, http.StatusInternalServerError, problem.TypeServerError, "Server error", nil, h.Env)
		return
	}

	registration, err := h.Ledger.Get(r.Context(), pathParam(r, "id"))
	if err != nil {
		if errors.Is(err, registrations.ErrNotFound) {
			problem.Write(w, r, http.StatusNotFound, problem.TypeNotFound, "Registration not found", err, h.Env)
			return
		}
		problem.Write(w, r, http.StatusInternalServerError, problem.TypeServerError, "Server error", err, h.Env)
		return
	}

	writeJSON(w, http.StatusOK, registration)
}

func (h *RegistrationsHandler) Update(w http.ResponseWriter, r *http.Request) {
	if h.Ledger == nil {
		problem.Write(w, r, http.StatusInternalServerError, problem.TypeServerError, "Server error", nil, h.Env)
		return
	}

	var patch registrations.RegistrationPatch
	if err := json.NewDecoder(r.Body).Decode(&patch); err != nil {
		problem.Write(w, r, http.StatusBadRequest, problem.TypeValidation, "Invalid request", err, h.Env)
		return
	}

	registration, err := h.Ledger.Update(r.Context(), pathParam(r, "id"), patch)
	if err != nil {
		switch {
		case isValidationError(err):
			problem.Write(w, r, http.StatusBadRequest, problem.TypeValidation, "Invalid registration", err, h.Env)
		case errors.Is(err, registrations.ErrNotFound):
			problem.Write(w, r, http.StatusNotFound, problem.TypeNotFound, "Registration not found", err, h.Env)
		default:
			problem.Write(w, r, http.StatusInternalServerError, problem.TypeServerError, "Server error", err, h.Env)
		}
		return
	}

	writeJSON(w, http.StatusOK, registration)
}

func (h *RegistrationsHandler) Delete(w http.ResponseWriter, r *http.Request) {
	if h.Ledger == nil {
		problem.Write(w, r, http.StatusInternalServerError, problem.TypeServerError, "Server error", nil, h.Env)
		return
	}

	if err := h.Ledger.Delete(r.Context(), pathParam(r, "id")); err != nil {
		if errors.Is(err, registrations.ErrNotFound) {
			problem.Write(w, r, http.StatusNotFound, problem.TypeNotFound, "Registration not found", err, h.Env)
			return
		}
		problem.Write(w, r, http.StatusInternalServerError, problem.TypeServerError, "Server error", err, h.Env)
		return
	}

	writeJSON(w, http.StatusOK, map[string]bool{"success": true})
}
