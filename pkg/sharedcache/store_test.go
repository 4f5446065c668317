package sharedcache

import (
	"context"
	"testing"
	"time"

	"github.com/alicebob/miniredis/v2"
	"github.com/redis/go-redis/v9"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTestRedisStore(t *testing.T) (*RedisStore, *miniredis.Miniredis) {
	t.Helper()

	server := miniredis.RunT(t)
	client := redis.NewClient(&redis.Options{Addr: server.Addr()})
	t.Cleanup(func() { _ = client.Close() })

	return NewRedisStore(client), server
}

// storeContract runs the behaviour every Store implementation must share
func storeContract(t *testing.T, s Store) {
	ctx := context.Background()

	t.Run("scalar round trip", func(t *testing.T) {
		_, err := s.Get(ctx, "missing")
		assert.ErrorIs(t, err, ErrNotFound)

		require.NoError(t, s.Put(ctx, "scalar", "value", time.Hour))
		value, err := s.Get(ctx, "scalar")
		require.NoError(t, err)
		assert.Equal(t, "value", value)
	})

	t.Run("merge keeps unrelated fields and overwrites named ones", func(t *testing.T) {
		require.NoError(t, s.Merge(ctx, "hash", map[string]string{"a": "1", "b": "2"}, time.Hour))
		require.NoError(t, s.Merge(ctx, "hash", map[string]string{"b": "3", "c": "4"}, time.Hour))

		values, err := s.HashGetAll(ctx, "hash")
		require.NoError(t, err)
		assert.Equal(t, map[string]string{"a": "1", "b": "3", "c": "4"}, values)

		value, err := s.HashGet(ctx, "hash", "c")
		require.NoError(t, err)
		assert.Equal(t, "4", value)

		_, err = s.HashGet(ctx, "hash", "z")
		assert.ErrorIs(t, err, ErrNotFound)

		_, err = s.HashGetAll(ctx, "no-hash")
		assert.ErrorIs(t, err, ErrNotFound)
	})

	t.Run("merging nothing creates nothing", func(t *testing.T) {
		require.NoError(t, s.Merge(ctx, "empty-hash", map[string]string{}, time.Hour))

		exists, err := s.Exists(ctx, "empty-hash")
		require.NoError(t, err)
		assert.False(t, exists)
	})

	t.Run("sets", func(t *testing.T) {
		require.NoError(t, s.SetAdd(ctx, "set-a", []string{"x", "y", "z"}, time.Hour))
		require.NoError(t, s.SetAdd(ctx, "set-b", []string{"z", "x", "w"}, time.Hour))

		members, err := s.SetMembers(ctx, "set-a")
		require.NoError(t, err)
		assert.ElementsMatch(t, []string{"x", "y", "z"}, members)

		shared, err := s.SetIntersect(ctx, "set-a", "set-b")
		require.NoError(t, err)
		assert.ElementsMatch(t, []string{"x", "z"}, shared)

		shared, err = s.SetIntersect(ctx, "set-a", "set-missing")
		require.NoError(t, err)
		assert.Empty(t, shared)

		members, err = s.SetMembers(ctx, "set-missing")
		require.NoError(t, err)
		assert.Empty(t, members)
	})

	t.Run("apply", func(t *testing.T) {
		require.NoError(t, s.Apply(ctx, []Write{
			SetWrite("apply-set", []string{"a", "b"}),
			SetWrite("apply-empty", nil),
			ValueWrite("apply-marker", "done"),
		}, time.Hour))

		members, err := s.SetMembers(ctx, "apply-set")
		require.NoError(t, err)
		assert.ElementsMatch(t, []string{"a", "b"}, members)

		value, err := s.Get(ctx, "apply-marker")
		require.NoError(t, err)
		assert.Equal(t, "done", value)

		exists, err := s.Exists(ctx, "apply-empty")
		require.NoError(t, err)
		assert.False(t, exists)
	})

	t.Run("delete and prefix delete", func(t *testing.T) {
		require.NoError(t, s.Put(ctx, "REPORT_1_a", "a", time.Hour))
		require.NoError(t, s.SetAdd(ctx, "REPORT_1_b", []string{"b"}, time.Hour))
		require.NoError(t, s.Merge(ctx, "REPORT_1_c", map[string]string{"c": "c"}, time.Hour))
		require.NoError(t, s.Put(ctx, "REPORT_10", "other report", time.Hour))

		require.NoError(t, s.DeletePrefix(ctx, "REPORT_1_"))
		require.NoError(t, s.DeletePrefix(ctx, "NOTHING_"))

		for _, key := range []string{"REPORT_1_a", "REPORT_1_b", "REPORT_1_c"} {
			exists, err := s.Exists(ctx, key)
			require.NoError(t, err)
			assert.False(t, exists, key)
		}

		exists, err := s.Exists(ctx, "REPORT_10")
		require.NoError(t, err)
		assert.True(t, exists)

		require.NoError(t, s.Delete(ctx, "REPORT_10", "never-existed"))
		require.NoError(t, s.Delete(ctx))
		exists, err = s.Exists(ctx, "REPORT_10")
		require.NoError(t, err)
		assert.False(t, exists)
	})
}

func TestMemoryStoreContract(t *testing.T) {
	storeContract(t, NewMemoryStore())
}

func TestRedisStoreContract(t *testing.T) {
	s, _ := newTestRedisStore(t)
	storeContract(t, s)
}

func TestMemoryStoreExpiry(t *testing.T) {
	ctx := context.Background()
	now := time.Date(2024, 1, 1, 12, 0, 0, 0, time.UTC)

	s := NewMemoryStore()
	s.Now = func() time.Time { return now }

	require.NoError(t, s.Put(ctx, "scalar", "v", time.Minute))
	require.NoError(t, s.SetAdd(ctx, "set", []string{"a"}, time.Hour))

	now = now.Add(2 * time.Minute)

	_, err := s.Get(ctx, "scalar")
	assert.ErrorIs(t, err, ErrNotFound)
	assert.Equal(t, []string{"set"}, s.Keys())

	require.NoError(t, s.Expire(ctx, "set", time.Minute))
	now = now.Add(2 * time.Minute)
	assert.Empty(t, s.Keys())
}

func TestRedisStoreExpiry(t *testing.T) {
	ctx := context.Background()
	s, server := newTestRedisStore(t)

	require.NoError(t, s.Put(ctx, "scalar", "v", time.Minute))
	require.NoError(t, s.Merge(ctx, "hash", map[string]string{"a": "b"}, time.Minute))
	require.NoError(t, s.SetAdd(ctx, "set", []string{"a"}, time.Hour))

	server.FastForward(2 * time.Minute)

	_, err := s.Get(ctx, "scalar")
	assert.ErrorIs(t, err, ErrNotFound)
	_, err = s.HashGetAll(ctx, "hash")
	assert.ErrorIs(t, err, ErrNotFound)

	exists, err := s.Exists(ctx, "set")
	require.NoError(t, err)
	assert.True(t, exists)
}

func TestMemoryStoreWrongType(t *testing.T) {
	ctx := context.Background()
	s := NewMemoryStore()

	require.NoError(t, s.Put(ctx, "scalar", "v", time.Hour))
	assert.ErrorIs(t, s.SetAdd(ctx, "scalar", []string{"a"}, time.Hour), ErrWrongType)
	assert.ErrorIs(t, s.Merge(ctx, "scalar", map[string]string{"a": "b"}, time.Hour), ErrWrongType)

	err := s.Apply(ctx, []Write{SetWrite("fresh", []string{"a"}), SetWrite("scalar", []string{"a"})}, time.Hour)
	assert.ErrorIs(t, err, ErrWrongType)

	exists, err := s.Exists(ctx, "fresh")
	require.NoError(t, err)
	assert.False(t, exists)
}

func TestEscapeGlob(t *testing.T) {
	assert.Equal(t, `LOCAL_IDS_report\*1_`, escapeGlob("LOCAL_IDS_report*1_"))
	assert.Equal(t, `a\?b\[c\]\\`, escapeGlob(`a?b[c]\`))
	assert.Equal(t, "plain", escapeGlob("plain"))
}
