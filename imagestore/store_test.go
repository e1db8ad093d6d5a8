package imagestore_test

import (
	"context"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"sync/atomic"
	"testing"

	"github.com/fwojciec/docbind"
	"github.com/fwojciec/docbind/imagestore"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestStore_ResolveImage(t *testing.T) {
	t.Parallel()

	var hits atomic.Int64
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		hits.Add(1)
		w.Write([]byte("png-bytes"))
	}))
	defer srv.Close()

	dir := t.TempDir()
	ctx := context.Background()
	store := imagestore.New(dir, srv.Client())

	local, err := store.ResolveImage(ctx, srv.URL+"/assets/devices.png")
	require.NoError(t, err)
	assert.Equal(t, "./images/devices.png", local)

	data, err := os.ReadFile(filepath.Join(dir, "images", "devices.png"))
	require.NoError(t, err)
	assert.Equal(t, "png-bytes", string(data))

	// Second resolve of the same URL is served from the cache.
	again, err := store.ResolveImage(ctx, srv.URL+"/assets/devices.png")
	require.NoError(t, err)
	assert.Equal(t, local, again)
	assert.EqualValues(t, 1, hits.Load())
}

func TestStore_ResolveImage_NameCollision(t *testing.T) {
	t.Parallel()

	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte(r.URL.Path))
	}))
	defer srv.Close()

	ctx := context.Background()
	store := imagestore.New(t.TempDir(), srv.Client())

	first, err := store.ResolveImage(ctx, srv.URL+"/guide/icon.png")
	require.NoError(t, err)
	assert.Equal(t, "./images/icon.png", first)

	// A different URL with the same base name gets a suffixed copy.
	second, err := store.ResolveImage(ctx, srv.URL+"/reference/icon.png")
	require.NoError(t, err)
	assert.Equal(t, "./images/icon_1.png", second)
}

func TestStore_ResolveImage_Failure(t *testing.T) {
	t.Parallel()

	var hits atomic.Int64
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		hits.Add(1)
		w.WriteHeader(http.StatusNotFound)
	}))
	defer srv.Close()

	store := imagestore.New(t.TempDir(), srv.Client())

	_, err := store.ResolveImage(context.Background(), srv.URL+"/gone.png")
	require.Error(t, err)
	assert.Equal(t, docbind.ENOTFOUND, docbind.ErrorCode(err))

	// 4xx responses are not retried.
	assert.EqualValues(t, 1, hits.Load())
	assert.Empty(t, store.Refs())
}

func TestStore_ResolveImage_RetriesServerErrors(t *testing.T) {
	t.Parallel()

	var hits atomic.Int64
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if hits.Add(1) < 3 {
			w.WriteHeader(http.StatusInternalServerError)
			return
		}
		w.Write([]byte("ok"))
	}))
	defer srv.Close()

	store := imagestore.New(t.TempDir(), srv.Client())

	local, err := store.ResolveImage(context.Background(), srv.URL+"/flaky.png")
	require.NoError(t, err)
	assert.Equal(t, "./images/flaky.png", local)
	assert.EqualValues(t, 3, hits.Load())
}

func TestStore_RetryFailed(t *testing.T) {
	t.Parallel()

	var healthy atomic.Bool
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if !healthy.Load() {
			w.WriteHeader(http.StatusNotFound)
			return
		}
		w.Write([]byte("ok"))
	}))
	defer srv.Close()

	ctx := context.Background()
	store := imagestore.New(t.TempDir(), srv.Client())

	_, err := store.ResolveImage(ctx, srv.URL+"/a.png")
	require.Error(t, err)
	_, err = store.ResolveImage(ctx, srv.URL+"/b.png")
	require.Error(t, err)

	t.Run("still failing yields warnings", func(t *testing.T) {
		warnings := store.RetryFailed(ctx)
		require.Len(t, warnings, 2)
		assert.Equal(t, docbind.ENOTFOUND, warnings[0].Code)
	})

	t.Run("recovered URLs resolve and clear", func(t *testing.T) {
		healthy.Store(true)
		assert.Empty(t, store.RetryFailed(ctx))
		assert.Len(t, store.Refs(), 2)
		assert.Empty(t, store.RetryFailed(ctx))
	})
}

func TestStore_Refs_Sorted(t *testing.T) {
	t.Parallel()

	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte("ok"))
	}))
	defer srv.Close()

	ctx := context.Background()
	store := imagestore.New(t.TempDir(), srv.Client())

	for _, p := range []string{"/z.png", "/a.png", "/m.png"} {
		_, err := store.ResolveImage(ctx, srv.URL+p)
		require.NoError(t, err)
	}

	refs := store.Refs()
	require.Len(t, refs, 3)
	assert.Equal(t, srv.URL+"/a.png", refs[0].RemoteURL)
	assert.Equal(t, "./images/a.png", refs[0].LocalPath)
	assert.Equal(t, srv.URL+"/z.png", refs[2].RemoteURL)
}
