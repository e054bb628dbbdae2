package middleware_test

import (
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/ironclub/fittrack/internal/auth"
	"github.com/ironclub/fittrack/internal/middleware"
	"github.com/ironclub/fittrack/internal/models"
)

type fakeSessions struct {
	byID   map[string]auth.Session
	getErr error
}

func (f *fakeSessions) Create(_ context.Context, sess auth.Session) (string, error) {
	panic("not used")
}

func (f *fakeSessions) Get(_ context.Context, sid string) (*auth.Session, error) {
	if f.getErr != nil {
		return nil, f.getErr
	}
	sess, ok := f.byID[sid]
	if !ok {
		return nil, nil
	}
	return &sess, nil
}

func (f *fakeSessions) Delete(_ context.Context, sid string) error {
	delete(f.byID, sid)
	return nil
}

func okHandler(called *bool) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		*called = true
		w.WriteHeader(http.StatusOK)
	})
}

func TestRequireAuthWithoutCookie(t *testing.T) {
	sessions := &fakeSessions{byID: map[string]auth.Session{}}
	called := false
	h := middleware.RequireAuth(sessions)(okHandler(&called))

	w := httptest.NewRecorder()
	h.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/client/homepage", nil))

	assert.False(t, called)
	assert.Equal(t, http.StatusFound, w.Code)
	assert.Equal(t, "/login", w.Header().Get("Location"))
}

func TestRequireAuthUnknownToken(t *testing.T) {
	sessions := &fakeSessions{byID: map[string]auth.Session{}}
	called := false
	h := middleware.RequireAuth(sessions)(okHandler(&called))

	req := httptest.NewRequest(http.MethodGet, "/client/homepage", nil)
	req.AddCookie(&http.Cookie{Name: auth.SessionCookie, Value: "expired"})
	w := httptest.NewRecorder()
	h.ServeHTTP(w, req)

	assert.False(t, called)
	assert.Equal(t, "/login", w.Header().Get("Location"))
}

func TestRequireAuthStoreError(t *testing.T) {
	sessions := &fakeSessions{byID: map[string]auth.Session{}, getErr: errors.New("redis down")}
	called := false
	h := middleware.RequireAuth(sessions)(okHandler(&called))

	req := httptest.NewRequest(http.MethodGet, "/client/homepage", nil)
	req.AddCookie(&http.Cookie{Name: auth.SessionCookie, Value: "whatever"})
	w := httptest.NewRecorder()
	h.ServeHTTP(w, req)

	assert.False(t, called)
	assert.Equal(t, "/login", w.Header().Get("Location"))
}

func TestRequireAuthInjectsSession(t *testing.T) {
	sessions := &fakeSessions{byID: map[string]auth.Session{
		"tok": {UserID: "u1", UserName: "alice", Role: models.RoleClient},
	}}

	var got *auth.Session
	next := http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		sess, ok := middleware.SessionFrom(r.Context())
		require.True(t, ok)
		got = sess
	})
	h := middleware.RequireAuth(sessions)(next)

	req := httptest.NewRequest(http.MethodGet, "/client/homepage", nil)
	req.AddCookie(&http.Cookie{Name: auth.SessionCookie, Value: "tok"})
	h.ServeHTTP(httptest.NewRecorder(), req)

	require.NotNil(t, got)
	assert.Equal(t, "alice", got.UserName)
	assert.Equal(t, models.RoleClient, got.Role)
}

func TestRequireGuestRedirectsAuthenticated(t *testing.T) {
	tests := []struct {
		role models.Role
		want string
	}{
		{models.RoleClient, "/client/homepage"},
		{models.RoleInstructor, "/instructor/homepage"},
	}
	for _, tt := range tests {
		t.Run(string(tt.role), func(t *testing.T) {
			sessions := &fakeSessions{byID: map[string]auth.Session{
				"tok": {UserID: "u1", Role: tt.role},
			}}
			called := false
			h := middleware.RequireGuest(sessions)(okHandler(&called))

			req := httptest.NewRequest(http.MethodGet, "/login", nil)
			req.AddCookie(&http.Cookie{Name: auth.SessionCookie, Value: "tok"})
			w := httptest.NewRecorder()
			h.ServeHTTP(w, req)

			assert.False(t, called)
			assert.Equal(t, tt.want, w.Header().Get("Location"))
		})
	}
}

func TestRequireGuestPassesAnonymous(t *testing.T) {
	sessions := &fakeSessions{byID: map[string]auth.Session{}}
	called := false
	h := middleware.RequireGuest(sessions)(okHandler(&called))

	h.ServeHTTP(httptest.NewRecorder(), httptest.NewRequest(http.MethodGet, "/login", nil))
	assert.True(t, called)
}

func TestRequireRole(t *testing.T) {
	sess := &auth.Session{UserID: "u1", Role: models.RoleClient}

	t.Run("matching role passes", func(t *testing.T) {
		called := false
		h := middleware.RequireRole(models.RoleClient)(okHandler(&called))
		req := httptest.NewRequest(http.MethodGet, "/client/homepage", nil)
		req = req.WithContext(middleware.WithSession(req.Context(), sess))
		h.ServeHTTP(httptest.NewRecorder(), req)
		assert.True(t, called)
	})

	t.Run("mismatched role is denied", func(t *testing.T) {
		called := false
		h := middleware.RequireRole(models.RoleInstructor)(okHandler(&called))
		req := httptest.NewRequest(http.MethodGet, "/instructor/homepage", nil)
		req = req.WithContext(middleware.WithSession(req.Context(), sess))
		w := httptest.NewRecorder()
		h.ServeHTTP(w, req)
		assert.False(t, called)
		assert.Equal(t, "/client/homepage", w.Header().Get("Location"))
	})

	t.Run("missing session is denied", func(t *testing.T) {
		called := false
		h := middleware.RequireRole(models.RoleClient)(okHandler(&called))
		w := httptest.NewRecorder()
		h.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/client/homepage", nil))
		assert.False(t, called)
		assert.Equal(t, "/login", w.Header().Get("Location"))
	})
}
