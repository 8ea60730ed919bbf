package upstream

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"sync"
	"sync/atomic"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// fakeProvider is a minimal authenticated data provider for client tests.
type fakeProvider struct {
	mu         sync.Mutex
	logins     int32
	gets       int32
	validToken string
	loginDelay time.Duration
}

func (f *fakeProvider) handler() http.Handler {
	mux := http.NewServeMux()
	mux.HandleFunc("POST /auth/login", func(w http.ResponseWriter, r *http.Request) {
		if f.loginDelay > 0 {
			time.Sleep(f.loginDelay)
		}
		n := atomic.AddInt32(&f.logins, 1)
		f.mu.Lock()
		f.validToken = "tok-" + time.Now().Format("150405") + "-" + string(rune('a'+n%26))
		tok := f.validToken
		f.mu.Unlock()
		_ = json.NewEncoder(w).Encode(map[string]string{
			"token":      tok,
			"expires_at": time.Now().Add(time.Hour).Format(time.RFC3339),
		})
	})
	mux.HandleFunc("GET /worlds/{name}", func(w http.ResponseWriter, r *http.Request) {
		atomic.AddInt32(&f.gets, 1)
		f.mu.Lock()
		ok := r.Header.Get("Authorization") == "Bearer "+f.validToken && f.validToken != ""
		f.mu.Unlock()
		if !ok {
			w.WriteHeader(http.StatusUnauthorized)
			return
		}
		_ = json.NewEncoder(w).Encode(WorldInfo{Name: r.PathValue("name"), PlayersOnline: 321})
	})
	mux.HandleFunc("GET /guilds/{name}", func(w http.ResponseWriter, r *http.Request) {
		switch r.PathValue("name") {
		case "Redd Alliance":
			_ = json.NewEncoder(w).Encode(GuildInfo{Name: "Redd Alliance", World: "Antica", MembersTotal: 120})
		case "Ghost Guild":
			_ = json.NewEncoder(w).Encode(GuildInfo{})
		default:
			w.WriteHeader(http.StatusNotFound)
		}
	})
	return mux
}

func (f *fakeProvider) invalidateToken() {
	f.mu.Lock()
	f.validToken = ""
	f.mu.Unlock()
}

func newTestClient(t *testing.T, f *fakeProvider) *Client {
	t.Helper()
	srv := httptest.NewServer(f.handler())
	t.Cleanup(srv.Close)
	return NewClient(ClientOptions{
		BaseURL:  srv.URL,
		Email:    "bot@example.com",
		Password: "secret",
		Timeout:  5 * time.Second,
	})
}

func TestTokenReusedWithinValidityWindow(t *testing.T) {
	f := &fakeProvider{}
	c := newTestClient(t, f)

	ctx := context.Background()
	w, err := c.FetchWorld(ctx, "Antica")
	require.NoError(t, err)
	assert.Equal(t, "Antica", w.Name)
	assert.Equal(t, 321, w.PlayersOnline)

	_, err = c.FetchWorld(ctx, "Secura")
	require.NoError(t, err)

	assert.Equal(t, int32(1), atomic.LoadInt32(&f.logins), "second call must reuse the cached token")
}

func TestAuthorizationErrorTriggersSingleRefreshAndRetry(t *testing.T) {
	f := &fakeProvider{}
	c := newTestClient(t, f)

	ctx := context.Background()
	_, err := c.FetchWorld(ctx, "Antica")
	require.NoError(t, err)

	// Simulate provider-side token expiry mid-lifetime.
	f.invalidateToken()

	before := atomic.LoadInt32(&f.gets)
	_, err = c.FetchWorld(ctx, "Antica")
	require.NoError(t, err)

	assert.Equal(t, int32(2), atomic.LoadInt32(&f.logins), "exactly one re-authentication")
	assert.Equal(t, before+2, atomic.LoadInt32(&f.gets), "exactly one retried request")
}

func TestPersistentRejectionSurfacesAuthFailure(t *testing.T) {
	f := &fakeProvider{}
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path == "/auth/login" {
			atomic.AddInt32(&f.logins, 1)
			_ = json.NewEncoder(w).Encode(map[string]string{
				"token":      "tok",
				"expires_at": time.Now().Add(time.Hour).Format(time.RFC3339),
			})
			return
		}
		w.WriteHeader(http.StatusUnauthorized)
	}))
	defer srv.Close()

	c := NewClient(ClientOptions{BaseURL: srv.URL, Email: "bot@example.com", Password: "secret"})
	_, err := c.FetchWorld(context.Background(), "Antica")
	require.ErrorIs(t, err, ErrAuthFailure)
	assert.Equal(t, int32(2), atomic.LoadInt32(&f.logins), "retry stops after one refresh")
}

func TestMissingCredentialsFailFast(t *testing.T) {
	f := &fakeProvider{}
	srv := httptest.NewServer(f.handler())
	defer srv.Close()

	c := NewClient(ClientOptions{BaseURL: srv.URL})
	_, err := c.FetchWorld(context.Background(), "Antica")
	require.ErrorIs(t, err, ErrAuthFailure)
	assert.Zero(t, atomic.LoadInt32(&f.logins))
}

func TestConcurrentCallersShareOneLogin(t *testing.T) {
	f := &fakeProvider{loginDelay: 50 * time.Millisecond}
	c := newTestClient(t, f)

	const callers = 16
	var wg sync.WaitGroup
	errs := make([]error, callers)
	for i := 0; i < callers; i++ {
		wg.Add(1)
		go func(i int) {
			defer wg.Done()
			_, errs[i] = c.FetchWorld(context.Background(), "Antica")
		}(i)
	}
	wg.Wait()

	for i, err := range errs {
		require.NoError(t, err, "caller %d", i)
	}
	assert.Equal(t, int32(1), atomic.LoadInt32(&f.logins), "token refresh must be single-flighted")
}

func TestFetchGuildNotFound(t *testing.T) {
	f := &fakeProvider{}
	c := newTestClient(t, f)

	_, err := c.FetchGuild(context.Background(), "No Such Guild")
	require.ErrorIs(t, err, ErrGuildNotFound)
}

func TestFetchGuildEmptyPayloadIsNotFound(t *testing.T) {
	f := &fakeProvider{}
	c := newTestClient(t, f)

	_, err := c.FetchGuild(context.Background(), "Ghost Guild")
	require.ErrorIs(t, err, ErrGuildNotFound)
}

func TestFetchGuildSuccess(t *testing.T) {
	f := &fakeProvider{}
	c := newTestClient(t, f)

	g, err := c.FetchGuild(context.Background(), "Redd Alliance")
	require.NoError(t, err)
	assert.Equal(t, "Antica", g.World)
	assert.Equal(t, 120, g.MembersTotal)
}

func TestExpiredCachedTokenRefreshes(t *testing.T) {
	f := &fakeProvider{}
	c := newTestClient(t, f)

	_, err := c.FetchWorld(context.Background(), "Antica")
	require.NoError(t, err)

	// Move the clock past the validity window minus skew.
	c.now = func() time.Time { return time.Now().Add(2 * time.Hour) }
	f.invalidateToken()

	_, err = c.FetchWorld(context.Background(), "Antica")
	require.NoError(t, err)
	assert.Equal(t, int32(2), atomic.LoadInt32(&f.logins))
}
