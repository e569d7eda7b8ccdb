// Package problem renders API errors as RFC 7807 problem+json documents.
package problem

import (
	"encoding/json"
	"errors"
	"fmt"
	"net/http"

	"github.com/rs/zerolog"
)

const contentType = "application/problem+json"

// Problem type URIs. The taxonomy distinguishes authentication failures
// (no or invalid credential) from authorization failures (valid credential,
// wrong identity for the resource).
const (
	TypeUnauthenticated  = "https://stride.run/problems/unauthenticated"
	TypeUnauthorized     = "https://stride.run/problems/unauthorized"
	TypeValidation       = "https://stride.run/problems/validation-error"
	TypeConflict         = "https://stride.run/problems/conflict"
	TypeNotFound         = "https://stride.run/problems/not-found"
	TypeServerError      = "https://stride.run/problems/server-error"
	TypeRateLimited      = "https://stride.run/problems/rate-limited"
	TypeUnsupportedMedia = "https://stride.run/problems/unsupported-media-type"
)

type Details struct {
	Type     string `json:"type"`
	Title    string `json:"title"`
	Status   int    `json:"status"`
	Detail   string `json:"detail,omitempty"`
	Instance string `json:"instance,omitempty"`
}

var (
	ErrNotFound     = errors.New("not found")
	ErrUnauthorized = errors.New("unauthorized")
	ErrConflict     = errors.New("conflict")
)

// Write renders a problem document. Error detail is only exposed outside
// production; store failures and other 5xx causes are logged, never leaked.
func Write(w http.ResponseWriter, r *http.Request, status int, typ, title string, err error, env string) {
	p := Details{
		Type:   typ,
		Title:  title,
		Status: status,
	}

	if err != nil {
		if env == "development" || env == "test" {
			p.Detail = err.Error()
		} else {
			p.Detail = http.StatusText(status)
		}
	}
	if r != nil {
		p.Instance = r.URL.Path
	}

	if err != nil && r != nil {
		logger := zerolog.Ctx(r.Context())
		event := logger.Warn()
		if status >= 500 {
			event = logger.Error()
		}
		event.
			Err(err).
			Int("status", status).
			Str("type", typ).
			Str("path", r.URL.Path).
			Str("method", r.Method).
			Msg(title)
	}

	writeDetails(w, p)
}

func writeDetails(w http.ResponseWriter, p Details) {
	payload, err := json.Marshal(p)
	if err != nil {
		fallback := fmt.Sprintf("{\"type\":\"about:blank\",\"title\":\"%s\",\"status\":500}", http.StatusText(http.StatusInternalServerError))
		w.Header().Set("Content-Type", contentType)
		w.WriteHeader(http.StatusInternalServerError)
		_, _ = w.Write([]byte(fallback))
		return
	}

	w.Header().Set("Content-Type", contentType)
	w.WriteHeader(p.Status)
	_, _ = w.Write(payload)
}
