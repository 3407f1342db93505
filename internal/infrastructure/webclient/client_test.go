package webclient

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/webpilot/backend/internal/infrastructure/config"
)

func newTestClient() *Client {
	return New(config.WebConfig{TimeoutSeconds: 5, MaxRetries: 0})
}

func TestFetchReturnsBodyAndFinalURL(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path == "/start" {
			http.Redirect(w, r, "/landed", http.StatusFound)
			return
		}
		w.Write([]byte("<html><body>hello</body></html>"))
	}))
	defer srv.Close()

	page, err := newTestClient().Fetch(context.Background(), srv.URL+"/start")
	require.NoError(t, err)

	assert.Equal(t, http.StatusOK, page.StatusCode)
	assert.Contains(t, string(page.Body), "hello")
	assert.Equal(t, srv.URL+"/landed", page.URL)
}

func TestFetchServerErrorFails(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusBadGateway)
	}))
	defer srv.Close()

	_, err := newTestClient().Fetch(context.Background(), srv.URL)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "502")
}

func TestFetchClientErrorStillReturnsPage(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusNotFound)
		w.Write([]byte("gone"))
	}))
	defer srv.Close()

	page, err := newTestClient().Fetch(context.Background(), srv.URL)
	require.NoError(t, err)
	assert.Equal(t, http.StatusNotFound, page.StatusCode)
}

func TestFetchRateLimitCapsThroughput(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte("ok"))
	}))
	defer srv.Close()

	// One request every 100 seconds: the first fetch spends the only
	// token, the second cannot acquire one before its deadline.
	client := New(config.WebConfig{TimeoutSeconds: 5, RequestsPerSecond: 0.01})

	_, err := client.Fetch(context.Background(), srv.URL)
	require.NoError(t, err)

	ctx, cancel := context.WithTimeout(context.Background(), 50*time.Millisecond)
	defer cancel()
	_, err = client.Fetch(ctx, srv.URL)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "rate limit wait")
}

func TestSetRateLimitZeroRemovesCap(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte("ok"))
	}))
	defer srv.Close()

	client := New(config.WebConfig{TimeoutSeconds: 5, RequestsPerSecond: 0.01})
	client.SetRateLimit(0)

	for i := 0; i < 3; i++ {
		_, err := client.Fetch(context.Background(), srv.URL)
		require.NoError(t, err)
	}
}

func TestFetchHonorsContextCancellation(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		<-r.Context().Done()
	}))
	defer srv.Close()

	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	_, err := newTestClient().Fetch(ctx, srv.URL)
	assert.Error(t, err)
}
