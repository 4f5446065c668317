package duplicates

import (
	"context"
	"errors"
	"fmt"
	"sync/atomic"
	"testing"
	"time"

	"github.com/alicebob/miniredis/v2"
	"github.com/redis/go-redis/v9"
	"github.com/sourcegraph/conc/pool"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/travigo/netex-validator/pkg/sharedcache"
)

type trackerFactory func(t *testing.T) (*Tracker, sharedcache.Store)

func memoryTracker(t *testing.T) (*Tracker, sharedcache.Store) {
	store := sharedcache.NewMemoryStore()
	return NewTracker(store, sharedcache.NewMemoryLocker(5*time.Second), time.Hour), store
}

func redisTracker(t *testing.T) (*Tracker, sharedcache.Store) {
	server := miniredis.RunT(t)
	client := redis.NewClient(&redis.Options{Addr: server.Addr()})
	t.Cleanup(func() { _ = client.Close() })

	store := sharedcache.NewRedisStore(client)
	return NewTracker(store, sharedcache.NewRedisLocker(client, 30*time.Second, 5*time.Second), time.Hour), store
}

func forEachTracker(t *testing.T, test func(t *testing.T, factory trackerFactory)) {
	t.Run("memory", func(t *testing.T) { test(t, memoryTracker) })
	t.Run("redis", func(t *testing.T) { test(t, redisTracker) })
}

func TestFindDuplicatesAcrossFiles(t *testing.T) {
	forEachTracker(t, func(t *testing.T, factory trackerFactory) {
		ctx := context.Background()
		tracker, _ := factory(t)

		a, err := tracker.FindDuplicates(ctx, "report-1", "a.xml", []string{"x", "y", "z"})
		require.NoError(t, err)
		b, err := tracker.FindDuplicates(ctx, "report-1", "b.xml", []string{"z", "w", "v"})
		require.NoError(t, err)
		c, err := tracker.FindDuplicates(ctx, "report-1", "c.xml", []string{"x", "p", "q"})
		require.NoError(t, err)

		assert.Empty(t, a)
		assert.Equal(t, []string{"z"}, b)
		assert.Equal(t, []string{"x"}, c)
	})
}

func TestFindDuplicatesIsIdempotent(t *testing.T) {
	forEachTracker(t, func(t *testing.T, factory trackerFactory) {
		ctx := context.Background()
		tracker, store := factory(t)

		_, err := tracker.FindDuplicates(ctx, "report-1", "a.xml", []string{"x", "y"})
		require.NoError(t, err)

		first, err := tracker.FindDuplicates(ctx, "report-1", "b.xml", []string{"y", "w"})
		require.NoError(t, err)
		accumulated, err := store.SetMembers(ctx, accumulatedIDsKey("report-1"))
		require.NoError(t, err)

		second, err := tracker.FindDuplicates(ctx, "report-1", "b.xml", []string{"y", "w"})
		require.NoError(t, err)
		accumulatedAgain, err := store.SetMembers(ctx, accumulatedIDsKey("report-1"))
		require.NoError(t, err)

		assert.Equal(t, []string{"y"}, first)
		assert.Equal(t, first, second)
		assert.ElementsMatch(t, accumulated, accumulatedAgain)
		assert.ElementsMatch(t, []string{"x", "y", "w"}, accumulatedAgain)
	})
}

func TestRedeliveredFileWithoutDuplicates(t *testing.T) {
	forEachTracker(t, func(t *testing.T, factory trackerFactory) {
		ctx := context.Background()
		tracker, _ := factory(t)

		first, err := tracker.FindDuplicates(ctx, "report-1", "a.xml", []string{"x"})
		require.NoError(t, err)
		second, err := tracker.FindDuplicates(ctx, "report-1", "a.xml", []string{"x"})
		require.NoError(t, err)

		assert.Empty(t, first)
		assert.Empty(t, second)
	})
}

func TestReportsAreIndependent(t *testing.T) {
	forEachTracker(t, func(t *testing.T, factory trackerFactory) {
		ctx := context.Background()
		tracker, _ := factory(t)

		_, err := tracker.FindDuplicates(ctx, "report-1", "a.xml", []string{"x"})
		require.NoError(t, err)

		duplicates, err := tracker.FindDuplicates(ctx, "report-2", "a.xml", []string{"x"})
		require.NoError(t, err)
		assert.Empty(t, duplicates)
	})
}

func TestConcurrentFilesOfOneReport(t *testing.T) {
	forEachTracker(t, func(t *testing.T, factory trackerFactory) {
		ctx := context.Background()
		tracker, _ := factory(t)

		var flagged atomic.Int32
		p := pool.New().WithErrors().WithMaxGoroutines(4)
		for i := 0; i < 10; i++ {
			fileName := fmt.Sprintf("line-%d.xml", i)
			p.Go(func() error {
				duplicates, err := tracker.FindDuplicates(ctx, "report-1", fileName, []string{"shared", fileName})
				if err != nil {
					return err
				}
				flagged.Add(int32(len(duplicates)))
				return nil
			})
		}
		require.NoError(t, p.Wait())

		assert.Equal(t, int32(9), flagged.Load())
	})
}

func TestSharedIDs(t *testing.T) {
	forEachTracker(t, func(t *testing.T, factory trackerFactory) {
		ctx := context.Background()
		tracker, _ := factory(t)

		ids, err := tracker.SharedIDs(ctx, "report-1")
		require.NoError(t, err)
		assert.Empty(t, ids)

		require.NoError(t, tracker.AddSharedIDs(ctx, "report-1", []string{"b", "a"}))
		require.NoError(t, tracker.AddSharedIDs(ctx, "report-1", []string{"c", "a"}))

		ids, err = tracker.SharedIDs(ctx, "report-1")
		require.NoError(t, err)
		assert.Equal(t, []string{"a", "b", "c"}, ids)
	})
}

func TestCleanUp(t *testing.T) {
	forEachTracker(t, func(t *testing.T, factory trackerFactory) {
		ctx := context.Background()
		tracker, store := factory(t)

		_, err := tracker.FindDuplicates(ctx, "report-1", "a.xml", []string{"x"})
		require.NoError(t, err)
		_, err = tracker.FindDuplicates(ctx, "report-1", "b.xml", []string{"x"})
		require.NoError(t, err)
		require.NoError(t, tracker.AddSharedIDs(ctx, "report-1", []string{"x"}))
		_, err = tracker.FindDuplicates(ctx, "report-2", "a.xml", []string{"x"})
		require.NoError(t, err)

		require.NoError(t, tracker.CleanUp(ctx, "report-1"))
		require.NoError(t, tracker.CleanUp(ctx, "report-1"))

		for _, key := range []string{
			accumulatedIDsKey("report-1"),
			sharedIDsKey("report-1"),
			fileKey(localIDsPrefix, "report-1", "a.xml"),
			fileKey(duplicateIDsPrefix, "report-1", "b.xml"),
			fileKey(processedFilePrefix, "report-1", "b.xml"),
		} {
			exists, err := store.Exists(ctx, key)
			require.NoError(t, err)
			assert.False(t, exists, key)
		}

		exists, err := store.Exists(ctx, accumulatedIDsKey("report-2"))
		require.NoError(t, err)
		assert.True(t, exists)

		// the report starts from scratch: b.xml is analysed again instead of replaying its old result
		duplicates, err := tracker.FindDuplicates(ctx, "report-1", "b.xml", []string{"x"})
		require.NoError(t, err)
		assert.Empty(t, duplicates)
	})
}

// flakyStore fails the first atomic write of a file's results
type flakyStore struct {
	sharedcache.Store
	failures atomic.Int32
}

func (s *flakyStore) Apply(ctx context.Context, writes []sharedcache.Write, ttl time.Duration) error {
	if s.failures.Add(-1) >= 0 {
		return errors.New("connection reset")
	}
	return s.Store.Apply(ctx, writes, ttl)
}

func TestFailedWriteIsRetriedFromScratch(t *testing.T) {
	forEachTracker(t, func(t *testing.T, factory trackerFactory) {
		ctx := context.Background()
		_, inner := factory(t)
		store := &flakyStore{Store: inner}
		store.failures.Store(1)
		tracker := NewTracker(store, sharedcache.NewMemoryLocker(5*time.Second), time.Hour)

		_, err := tracker.FindDuplicates(ctx, "report-1", "a.xml", []string{"x", "y"})
		require.Error(t, err)

		exists, err := inner.Exists(ctx, fileKey(processedFilePrefix, "report-1", "a.xml"))
		require.NoError(t, err)
		assert.False(t, exists)

		duplicates, err := tracker.FindDuplicates(ctx, "report-1", "a.xml", []string{"x", "y"})
		require.NoError(t, err)
		assert.Empty(t, duplicates)

		duplicates, err = tracker.FindDuplicates(ctx, "report-1", "b.xml", []string{"x"})
		require.NoError(t, err)
		assert.Equal(t, []string{"x"}, duplicates)
	})
}
