package middleware

import (
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/stretchr/testify/require"
)

func jsonBodyGuard(t *testing.T) (http.Handler, *bool) {
	t.Helper()
	called := false
	handler := RequireJSONBody("test")(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		called = true
		w.WriteHeader(http.StatusOK)
	}))
	return handler, &called
}

func TestRequireJSONBodyRejectsFormPost(t *testing.T) {
	handler, called := jsonBodyGuard(t)

	req := httptest.NewRequest(http.MethodPost, "/registrations", strings.NewReader("eventId=1"))
	req.Header.Set("Content-Type", "application/x-www-form-urlencoded")
	rec := httptest.NewRecorder()
	handler.ServeHTTP(rec, req)

	require.Equal(t, http.StatusUnsupportedMediaType, rec.Code)
	require.Equal(t, "application/problem+json", rec.Header().Get("Content-Type"))
	require.False(t, *called)
}

func TestRequireJSONBodyRejectsMissingContentType(t *testing.T) {
	handler, called := jsonBodyGuard(t)

	req := httptest.NewRequest(http.MethodPut, "/events/01JC0000000000000000000000", strings.NewReader("{}"))
	rec := httptest.NewRecorder()
	handler.ServeHTTP(rec, req)

	require.Equal(t, http.StatusUnsupportedMediaType, rec.Code)
	require.False(t, *called)
}

func TestRequireJSONBodyAcceptsJSONWithCharset(t *testing.T) {
	handler, called := jsonBodyGuard(t)

	req := httptest.NewRequest(http.MethodPost, "/events", strings.NewReader("{}"))
	req.Header.Set("Content-Type", "application/json; charset=utf-8")
	rec := httptest.NewRecorder()
	handler.ServeHTTP(rec, req)

	require.Equal(t, http.StatusOK, rec.Code)
	require.True(t, *called)
}

func TestRequireJSONBodyIgnoresSafeMethods(t *testing.T) {
	handler, called := jsonBodyGuard(t)

	for _, method := range []string{http.MethodGet, http.MethodDelete} {
		*called = false
		req := httptest.NewRequest(method, "/events", nil)
		rec := httptest.NewRecorder()
		handler.ServeHTTP(rec, req)

		require.Equal(t, http.StatusOK, rec.Code, method)
		require.True(t, *called, method)
	}
}
