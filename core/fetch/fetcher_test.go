package fetch

import (
	"context"
	"fmt"
	"net/http"
	"net/http/httptest"
	"sync/atomic"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func testOptions() Options {
	opts := DefaultOptions()
	opts.Timeout = 2 * time.Second
	opts.RatePerSecond = 0
	return opts
}

func TestFetch_Success(t *testing.T) {
	var gotUA string
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		gotUA = r.Header.Get("User-Agent")
		w.Header().Set("Content-Type", "text/html")
		_, _ = fmt.Fprint(w, "<html><body>OK</body></html>")
	}))
	defer server.Close()

	html := New(testOptions()).Fetch(context.Background(), server.URL)
	assert.Equal(t, "<html><body>OK</body></html>", html)
	assert.Equal(t, DefaultUserAgent, gotUA)
}

func TestFetch_DegradesOnErrorStatus(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusInternalServerError)
		_, _ = fmt.Fprint(w, "<html>boom</html>")
	}))
	defer server.Close()

	f := New(testOptions())
	assert.Equal(t, "", f.Fetch(context.Background(), server.URL))

	_, err := f.Get(context.Background(), server.URL)
	assert.ErrorContains(t, err, "unexpected status 500")
}

func TestFetch_DegradesOnTimeout(t *testing.T) {
	release := make(chan struct{})
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		select {
		case <-release:
		case <-r.Context().Done():
		}
	}))
	defer server.Close()
	defer close(release)

	opts := testOptions()
	opts.Timeout = 50 * time.Millisecond

	start := time.Now()
	html := New(opts).Fetch(context.Background(), server.URL)
	assert.Equal(t, "", html)
	assert.Less(t, time.Since(start), 2*time.Second)
}

func TestFetch_InvalidURL(t *testing.T) {
	f := New(testOptions())
	for _, u := range []string{"", "not a url", "ftp://example.com/file", "https://"} {
		assert.Equal(t, "", f.Fetch(context.Background(), u), u)
	}
}

func TestFetch_MaxBytes(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		_, _ = fmt.Fprint(w, "0123456789")
	}))
	defer server.Close()

	opts := testOptions()
	opts.MaxBytes = 4
	assert.Equal(t, "0123", New(opts).Fetch(context.Background(), server.URL))
}

func TestFetch_RespectsRobots(t *testing.T) {
	var pageHits atomic.Int32
	mux := http.NewServeMux()
	mux.HandleFunc("/robots.txt", func(w http.ResponseWriter, r *http.Request) {
		_, _ = fmt.Fprint(w, "User-agent: *\nDisallow: /private\n")
	})
	mux.HandleFunc("/", func(w http.ResponseWriter, r *http.Request) {
		pageHits.Add(1)
		_, _ = fmt.Fprint(w, "<p>page</p>")
	})
	server := httptest.NewServer(mux)
	defer server.Close()

	opts := testOptions()
	opts.RespectRobots = true
	f := New(opts)

	assert.Equal(t, "", f.Fetch(context.Background(), server.URL+"/private/terms"))
	_, err := f.Get(context.Background(), server.URL+"/private/terms")
	assert.ErrorIs(t, err, ErrDisallowed)
	assert.Equal(t, int32(0), pageHits.Load())

	assert.Equal(t, "<p>page</p>", f.Fetch(context.Background(), server.URL+"/terms"))
	assert.Equal(t, int32(1), pageHits.Load())
}

func TestRobotsChecker_MissingRobotsAllows(t *testing.T) {
	server := httptest.NewServer(http.NotFoundHandler())
	defer server.Close()

	rc := NewRobotsChecker(DefaultUserAgent, time.Second)
	allowed, delay, err := rc.CanFetch(context.Background(), server.URL+"/anything")
	require.NoError(t, err)
	assert.True(t, allowed)
	assert.Zero(t, delay)
}

func TestProductToken(t *testing.T) {
	assert.Equal(t, "termscan", productToken(DefaultUserAgent))
	assert.Equal(t, "", productToken(""))
	assert.Equal(t, "bot", productToken("bot"))
}

func TestLimiter_Wait(t *testing.T) {
	l := NewLimiter(100, 1)
	ctx := context.Background()
	require.NoError(t, l.Wait(ctx, "http://example.com/foo"))
	require.NoError(t, l.Wait(ctx, "http://other.example.com"))
}

func TestLimiter_CanceledContext(t *testing.T) {
	l := NewLimiter(0.1, 1)
	ctx, cancel := context.WithCancel(context.Background())
	require.NoError(t, l.Wait(ctx, "http://example.com"))

	cancel()
	assert.Error(t, l.Wait(ctx, "http://example.com"))
}

func TestLimiter_WaitWithDelay(t *testing.T) {
	l := NewLimiter(100, 1)
	start := time.Now()
	require.NoError(t, l.WaitWithDelay(context.Background(), "http://example.com", 30*time.Millisecond))
	assert.GreaterOrEqual(t, time.Since(start), 30*time.Millisecond)
}
