package handlers

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/require"

	"github.com/strideworks/server/internal/api/middleware"
	"github.com/strideworks/server/internal/auth"
	"github.com/strideworks/server/internal/domain/events"
	"github.com/strideworks/server/internal/domain/ids"
)

type stubEventRepo struct {
	events map[string]events.Event

	listCalls      int
	byCreatorEmail string
}

func newStubEventRepo() *stubEventRepo {
	return &stubEventRepo{events: make(map[string]events.Event)}
}

func (s *stubEventRepo) Create(_ context.Context, event events.Event) error {
	s.events[event.ID] = event
	return nil
}

func (s *stubEventRepo) List(_ context.Context, _ events.Filters) ([]events.Event, error) {
	s.listCalls++
	items := make([]events.Event, 0, len(s.events))
	for _, event := range s.events {
		items = append(items, event)
	}
	return items, nil
}

func (s *stubEventRepo) GetByID(_ context.Context, id string) (*events.Event, error) {
	event, ok := s.events[id]
	if !ok {
		return nil, events.ErrNotFound
	}
	return &event, nil
}

func (s *stubEventRepo) ListByCreator(_ context.Context, creatorEmail string, _ string) ([]events.Event, error) {
	s.byCreatorEmail = creatorEmail
	var items []events.Event
	for _, event := range s.events {
		if event.CreatorEmail == creatorEmail {
			items = append(items, event)
		}
	}
	return items, nil
}

func (s *stubEventRepo) Update(_ context.Context, id string, patch events.EventPatch, upsert bool) (*events.Event, error) {
	event, ok := s.events[id]
	if !ok {
		if upsert {
			event = events.Event{ID: id}
		} else {
			return nil, events.ErrNotFound
		}
	}
	if patch.Title != nil {
		event.Title = *patch.Title
	}
	s.events[id] = event
	return &event, nil
}

func (s *stubEventRepo) Delete(_ context.Context, id string) error {
	if _, ok := s.events[id]; !ok {
		return events.ErrNotFound
	}
	delete(s.events, id)
	return nil
}

func sessionManagerForTest() *auth.SessionManager {
	return auth.NewSessionManager("handler-test-secret", time.Hour, "stride-test")
}

func requestWithSession(t *testing.T, manager *auth.SessionManager, method, target, email string, body string) *http.Request {
	t.Helper()
	var reader *strings.Reader
	if body == "" {
		reader = strings.NewReader("")
	} else {
		reader = strings.NewReader(body)
	}
	req := httptest.NewRequest(method, target, reader)
	token, err := manager.Issue(email)
	require.NoError(t, err)
	req.AddCookie(&http.Cookie{Name: auth.SessionCookieName, Value: token})
	return req
}

func guardedMux(manager *auth.SessionManager, pattern string, handler http.HandlerFunc) http.Handler {
	mux := http.NewServeMux()
	mux.Handle(pattern, middleware.RequireSession(manager, "test")(handler))
	return mux
}

func TestEventsCreateSanitizesAndReturnsCreated(t *testing.T) {
	repo := newStubEventRepo()
	handler := NewEventsHandler(events.NewService(repo, events.ServiceOptions{}), "test")

	body := `{"title":"  City Marathon <script>x</script>","creatorEmail":"Organizer@Example.com","distance":"42k"}`
	req := httptest.NewRequest(http.MethodPost, "/events", strings.NewReader(body))
	rec := httptest.NewRecorder()
	handler.Create(rec, req)

	require.Equal(t, http.StatusCreated, rec.Code)

	var created events.Event
	require.NoError(t, json.NewDecoder(rec.Body).Decode(&created))
	require.Equal(t, "City Marathon", created.Title)
	require.Equal(t, "organizer@example.com", created.CreatorEmail)
	require.NoError(t, ids.ValidateULID(created.ID))
	require.Zero(t, created.RegistrationCount)
}

func TestEventsCreateRejectsMissingTitle(t *testing.T) {
	repo := newStubEventRepo()
	handler := NewEventsHandler(events.NewService(repo, events.ServiceOptions{}), "test")

	req := httptest.NewRequest(http.MethodPost, "/events", strings.NewReader(`{"creatorEmail":"a@b.com"}`))
	rec := httptest.NewRecorder()
	handler.Create(rec, req)

	require.Equal(t, http.StatusBadRequest, rec.Code)
	require.Empty(t, repo.events)
}

func TestEventsListRejectsBadLimit(t *testing.T) {
	repo := newStubEventRepo()
	handler := NewEventsHandler(events.NewService(repo, events.ServiceOptions{}), "test")

	req := httptest.NewRequest(http.MethodGet, "/events?limit=lots", nil)
	rec := httptest.NewRecorder()
	handler.List(rec, req)

	require.Equal(t, http.StatusBadRequest, rec.Code)
	require.Zero(t, repo.listCalls)
}

func TestEventsGetUnknownID(t *testing.T) {
	repo := newStubEventRepo()
	handler := NewEventsHandler(events.NewService(repo, events.ServiceOptions{}), "test")
	manager := sessionManagerForTest()

	mux := guardedMux(manager, "GET /events/{id}", handler.Get)

	id, err := ids.NewEventID()
	require.NoError(t, err)
	req := requestWithSession(t, manager, http.MethodGet, "/events/"+id, "runner@example.com", "")
	rec := httptest.NewRecorder()
	mux.ServeHTTP(rec, req)

	require.Equal(t, http.StatusNotFound, rec.Code)
}

func TestEventsGetMalformedID(t *testing.T) {
	repo := newStubEventRepo()
	handler := NewEventsHandler(events.NewService(repo, events.ServiceOptions{}), "test")
	manager := sessionManagerForTest()

	mux := guardedMux(manager, "GET /events/{id}", handler.Get)

	req := requestWithSession(t, manager, http.MethodGet, "/events/not-a-ulid", "runner@example.com", "")
	rec := httptest.NewRecorder()
	mux.ServeHTTP(rec, req)

	require.Equal(t, http.StatusNotFound, rec.Code)
}

func TestEventsMineOwnerMismatch(t *testing.T) {
	repo := newStubEventRepo()
	handler := NewEventsHandler(events.NewService(repo, events.ServiceOptions{}), "test")
	manager := sessionManagerForTest()

	mux := guardedMux(manager, "GET /events/mine/{email}", handler.Mine)

	req := requestWithSession(t, manager, http.MethodGet, "/events/mine/victim@example.com", "attacker@example.com", "")
	rec := httptest.NewRecorder()
	mux.ServeHTTP(rec, req)

	require.Equal(t, http.StatusUnauthorized, rec.Code)
	require.Empty(t, repo.byCreatorEmail, "store must not be consulted on an identity mismatch")
}

func TestEventsMineOwnerMatch(t *testing.T) {
	repo := newStubEventRepo()
	service := events.NewService(repo, events.ServiceOptions{})
	handler := NewEventsHandler(service, "test")
	manager := sessionManagerForTest()

	_, err := service.Create(context.Background(), events.EventInput{
		Title:        "Coastal Half",
		CreatorEmail: "organizer@example.com",
	})
	require.NoError(t, err)

	mux := guardedMux(manager, "GET /events/mine/{email}", handler.Mine)

	req := requestWithSession(t, manager, http.MethodGet, "/events/mine/Organizer@Example.com", "organizer@example.com", "")
	rec := httptest.NewRecorder()
	mux.ServeHTTP(rec, req)

	require.Equal(t, http.StatusOK, rec.Code)

	var items []events.Event
	require.NoError(t, json.NewDecoder(rec.Body).Decode(&items))
	require.Len(t, items, 1)
	require.Equal(t, "Coastal Half", items[0].Title)
}

func TestEventsUpdateNotFound(t *testing.T) {
	repo := newStubEventRepo()
	handler := NewEventsHandler(events.NewService(repo, events.ServiceOptions{}), "test")
	manager := sessionManagerForTest()

	mux := guardedMux(manager, "PUT /events/{id}", handler.Update)

	id, err := ids.NewEventID()
	require.NoError(t, err)
	req := requestWithSession(t, manager, http.MethodPut, "/events/"+id, "organizer@example.com", `{"title":"Renamed"}`)
	rec := httptest.NewRecorder()
	mux.ServeHTTP(rec, req)

	require.Equal(t, http.StatusNotFound, rec.Code)
}

func TestEventsDelete(t *testing.T) {
	repo := newStubEventRepo()
	service := events.NewService(repo, events.ServiceOptions{})
	handler := NewEventsHandler(service, "test")
	manager := sessionManagerForTest()

	created, err := service.Create(context.Background(), events.EventInput{
		Title:        "Trail Ultra",
		CreatorEmail: "organizer@example.com",
	})
	require.NoError(t, err)

	mux := guardedMux(manager, "DELETE /events/{id}", handler.Delete)

	req := requestWithSession(t, manager, http.MethodDelete, "/events/"+created.ID, "organizer@example.com", "")
	rec := httptest.NewRecorder()
	mux.ServeHTTP(rec, req)

	require.Equal(t, http.StatusOK, rec.Code)
	require.Empty(t, repo.events)
}

func TestEventsNilServiceIsServerError(t *testing.T) {
	handler := NewEventsHandler(nil, "test")

	req := httptest.NewRequest(http.MethodGet, "/events", nil)
	rec := httptest.NewRecorder()
	require.NotPanics(t, func() { handler.List(rec, req) })
	require.Equal(t, http.StatusInternalServerError, rec.Code)
}
