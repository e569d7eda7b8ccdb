package handlers

import (
	"encoding/json"
	"errors"
	"net/http"
	"strings"

	"github.com/go-playground/validator/v10"

	"github.com/strideworks/server/internal/api/middleware"
	"github.com/strideworks/server/internal/api/problem"
)

func writeJSON(w http.ResponseWriter, status int, payload any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(payload)
}

func pathParam(r *http.Request, key string) string {
	if r == nil {
		return ""
	}
	return strings.TrimSpace(r.PathValue(key))
}

// requireOwner compares the verified session identity against the identity
// the route addresses. On mismatch it writes a 401 problem and returns
// false; handlers must return immediately. Resource existence is never
// consulted, so a mismatch looks the same whether or not the data exists.
func requireOwner(w http.ResponseWriter, r *http.Request, ownerEmail string, env string) bool {
	claims := middleware.SessionClaims(r)
	if claims == nil {
		problem.Write(w, r, http.StatusUnauthorized, problem.TypeUnauthenticated, "Missing session credential", problem.ErrUnauthorized, env)
		return false
	}
	// Claims are lowercased at issuance, so folding here only tolerates
	// path-segment casing; it can never match two distinct identities.
	if !strings.EqualFold(strings.TrimSpace(claims.Email), strings.TrimSpace(ownerEmail)) {
		problem.Write(w, r, http.StatusUnauthorized, problem.TypeUnauthorized, "Identity mismatch", problem.ErrUnauthorized, env)
		return false
	}
	return true
}

func isValidationError(err error) bool {
	var verrs validator.ValidationErrors
	return errors.As(err, &verrs)
}
