package fetch

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"motorstats/lib/telemetry"

	"github.com/stretchr/testify/require"
)

func newCountingServer(t *testing.T) (*httptest.Server, *int) {
	hits := 0
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		hits++

		require.True(t, strings.HasPrefix(r.Header.Get("User-Agent"), "motorstats/"))

		switch r.URL.Path {
		case "/ok":
			w.Write([]byte(`{"hello": "world"}`))
		case "/echo":
			body := map[string]any{}
			err := json.NewDecoder(r.Body).Decode(&body)
			require.NoError(t, err)
			json.NewEncoder(w).Encode(body)
		default:
			http.NotFound(w, r)
		}
	}))
	t.Cleanup(srv.Close)
	return srv, &hits
}

func TestGetServesFromCache(t *testing.T) {
	cleanup := telemetry.SetupForTesting("test:lib/fetch")
	defer cleanup()

	srv, hits := newCountingServer(t)

	client, err := NewClient(Options{
		CacheDir: t.TempDir(),
		CacheTTL: time.Hour,
	})
	require.NoError(t, err)
	defer client.Close()

	ctx := context.Background()

	status, body, err := client.Get(ctx, srv.URL+"/ok")
	require.NoError(t, err)
	require.Equal(t, 200, status)
	require.JSONEq(t, `{"hello": "world"}`, string(body))
	require.Equal(t, 1, *hits)

	status, body, err = client.Get(ctx, srv.URL+"/ok")
	require.NoError(t, err)
	require.Equal(t, 200, status)
	require.JSONEq(t, `{"hello": "world"}`, string(body))
	require.Equal(t, 1, *hits)
}

func TestGetDoesNotCacheErrors(t *testing.T) {
	cleanup := telemetry.SetupForTesting("test:lib/fetch")
	defer cleanup()

	srv, hits := newCountingServer(t)

	client, err := NewClient(Options{
		CacheDir: t.TempDir(),
		CacheTTL: time.Hour,
	})
	require.NoError(t, err)
	defer client.Close()

	ctx := context.Background()

	status, _, err := client.Get(ctx, srv.URL+"/missing")
	require.NoError(t, err)
	require.Equal(t, 404, status)

	status, _, err = client.Get(ctx, srv.URL+"/missing")
	require.NoError(t, err)
	require.Equal(t, 404, status)
	require.Equal(t, 2, *hits)
}

func TestGetWithoutCache(t *testing.T) {
	cleanup := telemetry.SetupForTesting("test:lib/fetch")
	defer cleanup()

	srv, hits := newCountingServer(t)

	client, err := NewClient(Options{})
	require.NoError(t, err)
	defer client.Close()

	ctx := context.Background()

	_, _, err = client.Get(ctx, srv.URL+"/ok")
	require.NoError(t, err)
	_, _, err = client.Get(ctx, srv.URL+"/ok")
	require.NoError(t, err)
	require.Equal(t, 2, *hits)
}

func TestPost(t *testing.T) {
	cleanup := telemetry.SetupForTesting("test:lib/fetch")
	defer cleanup()

	srv, _ := newCountingServer(t)

	client, err := NewClient(Options{})
	require.NoError(t, err)
	defer client.Close()

	status, body, err := client.Post(context.Background(), srv.URL+"/echo", map[string]any{
		"longitude": "50.5106",
		"latitude":  "26.0325",
	})
	require.NoError(t, err)
	require.Equal(t, 200, status)
	require.JSONEq(t, `{"longitude": "50.5106", "latitude": "26.0325"}`, string(body))
}

func TestCacheExpiry(t *testing.T) {
	cleanup := telemetry.SetupForTesting("test:lib/fetch")
	defer cleanup()

	cache, err := openResponseCache(t.TempDir(), -time.Hour)
	require.NoError(t, err)
	defer cache.close()

	ctx := context.Background()

	err = cache.set(ctx, "https://api.test/f1/2022.json", cachedResponse{
		Status: 200,
		Body:   []byte("{}"),
	})
	require.NoError(t, err)

	// already expired thanks to the negative ttl
	_, err = cache.get(ctx, "https://api.test/f1/2022.json")
	require.ErrorIs(t, err, errResponseNotFound)
}
