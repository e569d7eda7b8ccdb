package problem

import (
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/require"
)

func decode(t *testing.T, rec *httptest.ResponseRecorder) Details {
	t.Helper()
	var p Details
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &p))
	return p
}

func TestWriteSetsContentTypeAndStatus(t *testing.T) {
	rec := httptest.NewRecorder()
	r := httptest.NewRequest(http.MethodGet, "/registrations/abc", nil)

	Write(rec, r, http.StatusNotFound, TypeNotFound, "Not found", ErrNotFound, "production")

	require.Equal(t, http.StatusNotFound, rec.Code)
	require.Equal(t, "application/problem+json", rec.Header().Get("Content-Type"))

	p := decode(t, rec)
	require.Equal(t, TypeNotFound, p.Type)
	require.Equal(t, "Not found", p.Title)
	require.Equal(t, http.StatusNotFound, p.Status)
	require.Equal(t, "/registrations/abc", p.Instance)
}

func TestWriteHidesDetailInProduction(t *testing.T) {
	rec := httptest.NewRecorder()
	r := httptest.NewRequest(http.MethodGet, "/events", nil)

	Write(rec, r, http.StatusInternalServerError, TypeServerError, "Server error",
		errors.New("pq: connection refused"), "production")

	p := decode(t, rec)
	require.Equal(t, http.StatusText(http.StatusInternalServerError), p.Detail)
	require.NotContains(t, p.Detail, "connection refused")
}

func TestWriteExposesDetailInDevelopment(t *testing.T) {
	rec := httptest.NewRecorder()
	r := httptest.NewRequest(http.MethodPost, "/registrations", nil)

	Write(rec, r, http.StatusConflict, TypeConflict, "Conflict",
		errors.New("already registered"), "development")

	p := decode(t, rec)
	require.Equal(t, "already registered", p.Detail)
}

func TestWriteWithoutError(t *testing.T) {
	rec := httptest.NewRecorder()
	r := httptest.NewRequest(http.MethodGet, "/events/mine/a@x.com", nil)

	Write(rec, r, http.StatusUnauthorized, TypeUnauthorized, "Unauthorized", nil, "production")

	p := decode(t, rec)
	require.Empty(t, p.Detail)
	require.Equal(t, TypeUnauthorized, p.Type)
}
