package server

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"auction-console/internal/models"
	"auction-console/internal/session"
	"auction-console/utils"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/require"
)

const cookieName = "auction_session"

func newSessionRouter(store session.CredentialStore) *gin.Engine {
	gin.SetMode(gin.TestMode)
	router := gin.New()
	router.Use(SessionMiddleware(SessionOptions{Store: store, CookieName: cookieName, TTL: time.Hour}))
	router.GET("/open", func(c *gin.Context) {
		c.String(http.StatusOK, "%v|%s", c.GetBool(utils.AuthenticatedKey), c.GetString(utils.UsernameKey))
	})
	router.GET("/guarded", AuthRequired, func(c *gin.Context) {
		c.String(http.StatusOK, "secret")
	})
	return router
}

func sessionCookie(t *testing.T, w *httptest.ResponseRecorder) *http.Cookie {
	t.Helper()
	for _, ck := range w.Result().Cookies() {
		if ck.Name == cookieName {
			return ck
		}
	}
	t.Fatalf("no %s cookie set", cookieName)
	return nil
}

func TestSessionMiddleware_IssuesCookie(t *testing.T) {
	t.Parallel()
	router := newSessionRouter(session.NewMemoryStore(time.Hour))

	w := httptest.NewRecorder()
	router.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/open", nil))

	require.Equal(t, http.StatusOK, w.Code)
	require.Equal(t, "false|", w.Body.String())

	ck := sessionCookie(t, w)
	require.True(t, utils.IsValidID(ck.Value))
	require.True(t, ck.HttpOnly)
	require.Equal(t, http.SameSiteLaxMode, ck.SameSite)
	require.Equal(t, 3600, ck.MaxAge)
}

func TestSessionMiddleware_RestoresCredential(t *testing.T) {
	t.Parallel()
	store := session.NewMemoryStore(time.Hour)
	sid := utils.GenerateID()
	require.NoError(t, store.Put(context.Background(), sid, models.Credential{AccessToken: "tok", Username: "alice"}))
	router := newSessionRouter(store)

	req := httptest.NewRequest(http.MethodGet, "/open", nil)
	req.AddCookie(&http.Cookie{Name: cookieName, Value: sid})
	w := httptest.NewRecorder()
	router.ServeHTTP(w, req)

	require.Equal(t, "true|alice", w.Body.String())
	require.Equal(t, sid, sessionCookie(t, w).Value)
}

func TestSessionMiddleware_ReplacesForgedCookie(t *testing.T) {
	t.Parallel()
	router := newSessionRouter(session.NewMemoryStore(time.Hour))

	req := httptest.NewRequest(http.MethodGet, "/open", nil)
	req.AddCookie(&http.Cookie{Name: cookieName, Value: "../../etc"})
	w := httptest.NewRecorder()
	router.ServeHTTP(w, req)

	require.NotEqual(t, "../../etc", sessionCookie(t, w).Value)
}

func TestAuthRequired(t *testing.T) {
	t.Parallel()
	store := session.NewMemoryStore(time.Hour)
	sid := utils.GenerateID()
	require.NoError(t, store.Put(context.Background(), sid, models.Credential{AccessToken: "tok", Username: "alice"}))
	router := newSessionRouter(store)

	tests := []struct {
		name           string
		cookie         string
		expectedStatus int
		expectedLoc    string
	}{
		{name: "no_session", expectedStatus: http.StatusFound, expectedLoc: "/login"},
		{name: "unknown_session", cookie: utils.GenerateID(), expectedStatus: http.StatusFound, expectedLoc: "/login"},
		{name: "authenticated", cookie: sid, expectedStatus: http.StatusOK},
	}

	for _, tc := range tests {
		tc := tc
		t.Run(tc.name, func(t *testing.T) {
			t.Parallel()
			req := httptest.NewRequest(http.MethodGet, "/guarded", nil)
			if tc.cookie != "" {
				req.AddCookie(&http.Cookie{Name: cookieName, Value: tc.cookie})
			}
			w := httptest.NewRecorder()
			router.ServeHTTP(w, req)

			require.Equal(t, tc.expectedStatus, w.Code)
			require.Equal(t, tc.expectedLoc, w.Header().Get("Location"))
		})
	}
}
