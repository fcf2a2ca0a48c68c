package middleware

import (
	"context"
	"fmt"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/AdamBeresnev/tourney/internal/bracket"
	users "github.com/AdamBeresnev/tourney/internal/user"
	"github.com/alexedwards/scs/v2"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type fakeResolver struct {
	known   map[uuid.UUID]*users.User
	created int
}

func newFakeResolver() *fakeResolver {
	return &fakeResolver{known: map[uuid.UUID]*users.User{}}
}

func (f *fakeResolver) FindUser(_ context.Context, id uuid.UUID) (*users.User, error) {
	if u, ok := f.known[id]; ok {
		return u, nil
	}
	return nil, fmt.Errorf("user %s: %w", id, bracket.ErrNotFound)
}

func (f *fakeResolver) EnsureUser(ctx context.Context, id uuid.UUID) (*users.User, error) {
	if u, err := f.FindUser(ctx, id); err == nil {
		return u, nil
	}
	f.created++
	u := &users.User{ID: uuid.New(), Username: "guest"}
	f.known[u.ID] = u
	return u, nil
}

type recordedRequest struct {
	userID uuid.UUID
	ok     bool
}

func newOrganizerHandler(sm *scs.SessionManager, resolver UserResolver, seen *[]recordedRequest) http.Handler {
	return sm.LoadAndSave(Organizer(sm, resolver)(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		id, ok := GetUserIDFromContext(r.Context())
		if ok {
			if GetAuthenticatedUser(r.Context()) == nil {
				panic("user id without user")
			}
		}
		*seen = append(*seen, recordedRequest{userID: id, ok: ok})
	})))
}

func TestOrganizerKeepsGuestAcrossRequests(t *testing.T) {
	sm := scs.New()
	resolver := newFakeResolver()
	var seen []recordedRequest
	handler := newOrganizerHandler(sm, resolver, &seen)

	rec := httptest.NewRecorder()
	handler.ServeHTTP(rec, httptest.NewRequest(http.MethodPost, "/tournaments", nil))
	cookies := rec.Result().Cookies()
	require.NotEmpty(t, cookies, "expected a session cookie")

	req := httptest.NewRequest(http.MethodGet, "/tournaments", nil)
	for _, c := range cookies {
		req.AddCookie(c)
	}
	handler.ServeHTTP(httptest.NewRecorder(), req)

	require.Len(t, seen, 2)
	assert.True(t, seen[0].ok)
	assert.True(t, seen[1].ok)
	assert.Equal(t, seen[0].userID, seen[1].userID)
	assert.Equal(t, 1, resolver.created)
}

func TestOrganizerReadsStayAnonymous(t *testing.T) {
	sm := scs.New()
	resolver := newFakeResolver()
	var seen []recordedRequest
	handler := newOrganizerHandler(sm, resolver, &seen)

	for _, path := range []string{"/tournaments", "/tournaments/x/standings"} {
		rec := httptest.NewRecorder()
		handler.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, path, nil))
		assert.Empty(t, rec.Result().Cookies())
	}

	require.Len(t, seen, 2)
	assert.False(t, seen[0].ok)
	assert.False(t, seen[1].ok)
	assert.Zero(t, resolver.created, "reads must not create organizers")
}

func TestOrganizerForgetsUnknownUserOnRead(t *testing.T) {
	sm := scs.New()
	resolver := newFakeResolver()
	var seen []recordedRequest

	handler := sm.LoadAndSave(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		sm.Put(r.Context(), sessionUserKey, uuid.NewString())
	}))
	rec := httptest.NewRecorder()
	handler.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/", nil))
	cookies := rec.Result().Cookies()
	require.NotEmpty(t, cookies)

	req := httptest.NewRequest(http.MethodGet, "/tournaments", nil)
	for _, c := range cookies {
		req.AddCookie(c)
	}
	newOrganizerHandler(sm, resolver, &seen).ServeHTTP(httptest.NewRecorder(), req)

	require.Len(t, seen, 1)
	assert.False(t, seen[0].ok)
	assert.Zero(t, resolver.created)
}

func TestGetUserIDFromContext(t *testing.T) {
	_, ok := GetUserIDFromContext(context.Background())
	assert.False(t, ok)

	id := uuid.New()
	got, ok := GetUserIDFromContext(context.WithValue(context.Background(), UserIDKey, id))
	assert.True(t, ok)
	assert.Equal(t, id, got)

	assert.Nil(t, GetAuthenticatedUser(context.Background()))
}
