package service

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// nodeIndexJSON 模拟 nodejs.org 的版本索引，lts 字段为 false 或代号
const nodeIndexJSON = `[
  {"version": "v21.1.0", "lts": false},
  {"version": "v20.11.1", "lts": "Iron"},
  {"version": "v20.9.0", "lts": "Iron"},
  {"version": "v18.19.0", "lts": "Hydrogen"},
  {"version": "v19.9.0", "lts": false}
]`

func newTestCatalog(t *testing.T) NodeCatalog {
	t.Helper()
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		w.Write([]byte(nodeIndexJSON))
	}))
	t.Cleanup(srv.Close)
	return NewNodeCatalog(srv.URL)
}

func TestReleasesSortedDescending(t *testing.T) {
	catalog := newTestCatalog(t)

	releases, err := catalog.Releases(context.Background())
	require.NoError(t, err)
	require.Len(t, releases, 5)

	assert.Equal(t, "v21.1.0", releases[0].Version)
	assert.Equal(t, "v20.11.1", releases[1].Version)
	assert.Equal(t, "v20.9.0", releases[2].Version)
	assert.Equal(t, "v19.9.0", releases[3].Version)
	assert.Equal(t, "v18.19.0", releases[4].Version)

	assert.False(t, releases[0].LTS)
	assert.True(t, releases[1].LTS)
	assert.Equal(t, "Iron", releases[1].LTSName)
}

func TestResolveSymbolicTags(t *testing.T) {
	catalog := newTestCatalog(t)
	ctx := context.Background()

	for _, tag := range []string{"latest", "node"} {
		version, err := catalog.Resolve(ctx, tag)
		require.NoError(t, err)
		assert.Equal(t, "v21.1.0", version)
	}

	for _, tag := range []string{"lts", "stable"} {
		version, err := catalog.Resolve(ctx, tag)
		require.NoError(t, err)
		assert.Equal(t, "v20.11.1", version)
	}
}

func TestResolveVersionPrefix(t *testing.T) {
	catalog := newTestCatalog(t)
	ctx := context.Background()

	version, err := catalog.Resolve(ctx, "20")
	require.NoError(t, err)
	assert.Equal(t, "v20.11.1", version)

	version, err = catalog.Resolve(ctx, "20.9")
	require.NoError(t, err)
	assert.Equal(t, "v20.9.0", version)

	version, err = catalog.Resolve(ctx, "18.19.0")
	require.NoError(t, err)
	assert.Equal(t, "v18.19.0", version)

	// 前缀匹配不允许 2 命中 20/21
	_, err = catalog.Resolve(ctx, "2")
	assert.Error(t, err)

	_, err = catalog.Resolve(ctx, "99")
	assert.Error(t, err)
}

func TestResolveIndexError(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusInternalServerError)
	}))
	defer srv.Close()

	catalog := NewNodeCatalog(srv.URL)
	_, err := catalog.Resolve(context.Background(), "lts")
	assert.Error(t, err)
}

func TestSemverCompare(t *testing.T) {
	// 降序比较：较新的版本排在前面
	assert.Equal(t, -1, semverCompare("2.0.0", "1.9.9"))
	assert.Equal(t, 1, semverCompare("1.9.9", "2.0.0"))
	assert.Equal(t, 0, semverCompare("1.0.0", "1.0.0"))
	assert.Equal(t, -1, semverCompare("v20.11.1", "v20.9.0"))
}

func TestToTravisTags(t *testing.T) {
	assert.Equal(t, []string{"lts/*", "node"}, ToTravisTags([]string{"stable", "latest"}))
	assert.Equal(t, []string{"node"}, ToTravisTags([]string{"node", "latest"}))
	assert.Equal(t, []string{"lts/*", "20"}, ToTravisTags([]string{"lts", "20"}))
	assert.Nil(t, ToTravisTags(nil))
}
