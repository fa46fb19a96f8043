package cache

import (
	"context"
	"encoding/json"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestFileCache_RoundTrip(t *testing.T) {
	c, err := NewFileCache(t.TempDir())
	require.NoError(t, err)
	defer c.Close()

	ctx := context.Background()
	require.NoError(t, c.Set(ctx, "key1", []byte("payload"), time.Hour))

	data, hit, err := c.Get(ctx, "key1")
	require.NoError(t, err)
	assert.True(t, hit)
	assert.Equal(t, []byte("payload"), data)
}

func TestFileCache_Miss(t *testing.T) {
	c, err := NewFileCache(t.TempDir())
	require.NoError(t, err)
	defer c.Close()

	_, hit, err := c.Get(context.Background(), "absent")
	require.NoError(t, err)
	assert.False(t, hit)
}

func TestFileCache_Expiry(t *testing.T) {
	c, err := NewFileCache(t.TempDir())
	require.NoError(t, err)
	defer c.Close()

	ctx := context.Background()
	require.NoError(t, c.Set(ctx, "ephemeral", []byte("x"), -time.Second))

	_, hit, err := c.Get(ctx, "ephemeral")
	require.NoError(t, err)
	// Negative TTL means no expiry is recorded on file entries only when
	// ttl <= 0; an already-past expiry behaves as a miss.
	assert.True(t, hit, "non-positive TTL stores without expiry")

	require.NoError(t, c.Set(ctx, "expired", []byte("x"), time.Nanosecond))
	time.Sleep(5 * time.Millisecond)
	_, hit, err = c.Get(ctx, "expired")
	require.NoError(t, err)
	assert.False(t, hit)
}

func TestFileCache_Delete(t *testing.T) {
	c, err := NewFileCache(t.TempDir())
	require.NoError(t, err)
	defer c.Close()

	ctx := context.Background()
	require.NoError(t, c.Set(ctx, "key", []byte("x"), 0))
	require.NoError(t, c.Delete(ctx, "key"))

	_, hit, err := c.Get(ctx, "key")
	require.NoError(t, err)
	assert.False(t, hit)

	// Deleting a missing key is not an error.
	require.NoError(t, c.Delete(ctx, "never-existed"))
}

func TestFileCache_FormatMismatch(t *testing.T) {
	c, err := NewFileCache(t.TempDir())
	require.NoError(t, err)
	defer c.Close()
	fc := c.(*FileCache)

	ctx := context.Background()
	require.NoError(t, c.Set(ctx, "layout:abc", []byte("x"), 0))

	// Rewrite the entry under a future envelope format; it must read as a
	// miss and be dropped, not misparsed.
	stale, err := json.Marshal(fileEntry{Format: entryFormat + 1, Data: []byte("x")})
	require.NoError(t, err)
	require.NoError(t, os.WriteFile(fc.path("layout:abc"), stale, 0644))

	_, hit, err := c.Get(ctx, "layout:abc")
	require.NoError(t, err)
	assert.False(t, hit)
	_, statErr := os.Stat(fc.path("layout:abc"))
	assert.True(t, os.IsNotExist(statErr), "stale-format entry should be removed")
}

func TestFileCache_NamespaceLayout(t *testing.T) {
	dir := t.TempDir()
	c, err := NewFileCache(dir)
	require.NoError(t, err)
	defer c.Close()
	fc := c.(*FileCache)

	ctx := context.Background()
	require.NoError(t, c.Set(ctx, "layout:h1", []byte("a"), 0))
	require.NoError(t, c.Set(ctx, "spec:h2", []byte("b"), 0))
	require.NoError(t, c.Set(ctx, "bare-key", []byte("c"), 0))

	assert.True(t, strings.HasPrefix(fc.path("layout:h1"), filepath.Join(dir, "layout")))
	assert.True(t, strings.HasPrefix(fc.path("spec:h2"), filepath.Join(dir, "spec")))
	assert.True(t, strings.HasPrefix(fc.path("bare-key"), filepath.Join(dir, "misc")))

	for _, key := range []string{"layout:h1", "spec:h2", "bare-key"} {
		_, hit, err := c.Get(ctx, key)
		require.NoError(t, err)
		assert.True(t, hit, key)
	}
}

func TestNullCache(t *testing.T) {
	c := NewNullCache()
	ctx := context.Background()

	require.NoError(t, c.Set(ctx, "key", []byte("x"), time.Hour))
	_, hit, err := c.Get(ctx, "key")
	require.NoError(t, err)
	assert.False(t, hit, "null cache never hits")
}

func TestKeyer_Deterministic(t *testing.T) {
	k := NewDefaultKeyer()
	opts := LayoutKeyOpts{TurnPenalty: 1, HeuristicWeight: 1}

	assert.Equal(t, k.LayoutKey("abc", opts), k.LayoutKey("abc", opts))
	assert.NotEqual(t, k.LayoutKey("abc", opts), k.LayoutKey("def", opts))
	assert.NotEqual(t,
		k.LayoutKey("abc", opts),
		k.LayoutKey("abc", LayoutKeyOpts{TurnPenalty: 2, HeuristicWeight: 1}),
	)
	assert.NotEqual(t, k.SpecKey("abc"), k.LayoutKey("abc", opts), "namespaces differ")
}

func TestScopedKeyer(t *testing.T) {
	base := NewDefaultKeyer()
	scoped := NewScopedKeyer(base, "tenant42:")

	assert.Equal(t, "tenant42:"+base.SpecKey("h"), scoped.SpecKey("h"))
	opts := LayoutKeyOpts{TurnPenalty: 1}
	assert.Equal(t, "tenant42:"+base.LayoutKey("h", opts), scoped.LayoutKey("h", opts))
}

func TestHash(t *testing.T) {
	h := Hash([]byte("input"))
	assert.Len(t, h, 64)
	assert.Equal(t, h, Hash([]byte("input")))
	assert.NotEqual(t, h, Hash([]byte("other")))
}
