package integrationtests

import (
	"io"
	"net/http"
	"net/http/cookiejar"
	"net/http/httptest"
	"net/url"
	"strings"
	"sync"
	"testing"
	"time"

	"auction-console/internal/backend"
	bidding "auction-console/internal/biddingService"
	"auction-console/internal/devbackend"
	"auction-console/internal/endpoints"
	"auction-console/internal/repository"
	"auction-console/internal/server"
	"auction-console/internal/session"
	"auction-console/internal/views"
	"auction-console/internal/webui"
	handler "auction-console/services/console/handler"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/require"
)

// clock lets a test move the dev backend forward in time
type clock struct {
	mu     sync.Mutex
	offset time.Duration
}

func (c *clock) Now() time.Time {
	c.mu.Lock()
	defer c.mu.Unlock()
	return time.Now().Add(c.offset)
}

func (c *clock) Advance(d time.Duration) {
	c.mu.Lock()
	c.offset += d
	c.mu.Unlock()
}

// stack is a console wired to a dev backend over real HTTP
type stack struct {
	console *httptest.Server
	service *bidding.BiddingService
	store   *session.MemoryStore
	clock   *clock
}

// SetupStack starts the dev backend and the console in front of it
func SetupStack(t *testing.T) *stack {
	t.Helper()
	gin.SetMode(gin.TestMode)

	clk := &clock{}
	svc := bidding.NewBiddingService(repository.NewMemoryRepo(), bidding.Options{
		Secret: "integration-secret",
		Now:    clk.Now,
	})
	api := httptest.NewServer(devbackend.NewRouter(svc))
	t.Cleanup(api.Close)

	reg, err := endpoints.New(api.URL)
	require.NoError(t, err)
	bundle, err := webui.Load(time.UTC)
	require.NoError(t, err)

	store := session.NewMemoryStore(time.Hour)
	consoleHandler := handler.NewConsoleHandler(backend.NewClient(reg, 5*time.Second), handler.Options{
		Listing:  views.ListingOptions{Tick: 20 * time.Millisecond, Refresh: time.Second},
		Location: time.UTC,
	})
	router := server.SetupRouter(consoleHandler, server.SessionOptions{
		Store:      store,
		CookieName: "auction_session",
		TTL:        time.Hour,
	}, bundle)

	console := httptest.NewServer(router)
	t.Cleanup(console.Close)

	return &stack{console: console, service: svc, store: store, clock: clk}
}

// browser is one cookie-carrying visitor; redirects are returned, not followed
type browser struct {
	t      *testing.T
	base   string
	client *http.Client
}

func (s *stack) NewBrowser(t *testing.T) *browser {
	t.Helper()
	jar, err := cookiejar.New(nil)
	require.NoError(t, err)
	return &browser{
		t:    t,
		base: s.console.URL,
		client: &http.Client{
			Jar:     jar,
			Timeout: 5 * time.Second,
			CheckRedirect: func(*http.Request, []*http.Request) error {
				return http.ErrUseLastResponse
			},
		},
	}
}

// Get fetches path and returns status, Location header and body
func (b *browser) Get(path string) (int, string, string) {
	b.t.Helper()
	resp, err := b.client.Get(b.base + path)
	require.NoError(b.t, err)
	return readResponse(b.t, resp)
}

// PostForm submits form to path
func (b *browser) PostForm(path string, form url.Values) (int, string, string) {
	b.t.Helper()
	resp, err := b.client.Post(b.base+path, "application/x-www-form-urlencoded", strings.NewReader(form.Encode()))
	require.NoError(b.t, err)
	return readResponse(b.t, resp)
}

func readResponse(t *testing.T, resp *http.Response) (int, string, string) {
	t.Helper()
	defer resp.Body.Close()
	body, err := io.ReadAll(resp.Body)
	require.NoError(t, err)
	return resp.StatusCode, resp.Header.Get("Location"), string(body)
}

// SignUp registers and logs in through the console pages
func (b *browser) SignUp(username, email, password string) {
	b.t.Helper()
	status, loc, _ := b.PostForm("/register", url.Values{
		"username": {username},
		"email":    {email},
		"password": {password},
	})
	require.Equal(b.t, http.StatusSeeOther, status)
	require.Equal(b.t, "/login?registered=1", loc)

	status, loc, _ = b.PostForm("/login", url.Values{"email": {email}, "password": {password}})
	require.Equal(b.t, http.StatusSeeOther, status)
	require.Equal(b.t, "/home", loc)
}
