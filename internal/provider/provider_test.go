package provider_test

import (
	"context"
	"net/http"
	"net/http/httptest"
	"sync/atomic"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/harborview/maya/internal/provider"
)

func TestFetchSnapshotFallsBackWhenCollaboratorErrors(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		http.Error(w, "boom", http.StatusInternalServerError)
	}))
	defer srv.Close()

	p := provider.NewHTTPProvider(srv.URL, time.Second, time.Minute)
	snapshot := provider.FetchSnapshot(context.Background(), p)

	assert.False(t, snapshot.Live)
	assert.NotEmpty(t, snapshot.Rooms)
	assert.NotEmpty(t, snapshot.Rates)
	assert.NotEmpty(t, snapshot.Availability)

	static := provider.FetchSnapshot(context.Background(), provider.NewStaticProvider())
	assert.Equal(t, static.Rooms, snapshot.Rooms)
	assert.Equal(t, static.Rates, snapshot.Rates)
	assert.Equal(t, static.Availability, snapshot.Availability)
}

func TestFetchSnapshotFallsBackOnTimeout(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		time.Sleep(200 * time.Millisecond)
		w.Write([]byte("[]"))
	}))
	defer srv.Close()

	p := provider.NewHTTPProvider(srv.URL, 20*time.Millisecond, time.Minute)
	snapshot := provider.FetchSnapshot(context.Background(), p)

	assert.False(t, snapshot.Live)
	assert.NotEmpty(t, snapshot.Rooms, "static set must fill in for a slow collaborator")
}

func TestFetchSnapshotPartialFailure(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		switch r.URL.Path {
		case "/rooms":
			w.Write([]byte(`[{"name":"Garden Twin","base_rate":95,"max_guests":2,"features":"twin beds"}]`))
		default:
			http.Error(w, "down", http.StatusServiceUnavailable)
		}
	}))
	defer srv.Close()

	p := provider.NewHTTPProvider(srv.URL, time.Second, time.Minute)
	snapshot := provider.FetchSnapshot(context.Background(), p)

	// The piece that worked stays live data, the rest is canned, and the
	// snapshot as a whole must not claim to be live.
	assert.False(t, snapshot.Live)
	require.Len(t, snapshot.Rooms, 1)
	assert.Equal(t, "Garden Twin", snapshot.Rooms[0].Name)
	assert.NotEmpty(t, snapshot.Rates)
}

func TestHTTPProviderFetchesAndCaches(t *testing.T) {
	var hits atomic.Int32
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		hits.Add(1)
		w.Write([]byte(`[{"name":"Standard Queen","base_rate":120,"max_guests":2,"features":"queen bed"}]`))
	}))
	defer srv.Close()

	p := provider.NewHTTPProvider(srv.URL, time.Second, time.Minute)
	ctx := context.Background()

	rooms, err := p.Rooms(ctx)
	require.NoError(t, err)
	require.Len(t, rooms, 1)
	assert.Equal(t, "Standard Queen", rooms[0].Name)
	assert.Equal(t, 120.0, rooms[0].BaseRate)

	// Second read is served from cache.
	rooms, err = p.Rooms(ctx)
	require.NoError(t, err)
	require.Len(t, rooms, 1)
	assert.Equal(t, int32(1), hits.Load())
}

func TestHTTPProviderRejectsMalformedBody(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte("not json"))
	}))
	defer srv.Close()

	p := provider.NewHTTPProvider(srv.URL, time.Second, time.Minute)
	_, err := p.Rooms(context.Background())
	assert.Error(t, err)
}

func TestStaticSourceIsNeverLive(t *testing.T) {
	snapshot := provider.FetchSnapshot(context.Background(), provider.NewStaticProvider())

	assert.False(t, snapshot.Live)
	assert.NotEmpty(t, snapshot.Rooms)
}
