package store_test

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/require"
	"golang.org/x/sync/errgroup"
	"paneld/internal/sensors"
	"paneld/internal/store"
)

func newTestReadings(t *testing.T) *store.Readings {
	t.Helper()

	db, err := store.Open(t.Context(), "", true)
	require.NoError(t, err)
	t.Cleanup(func() { _ = db.Close() })

	return store.NewReadings(db)
}

func TestInsertAndRecent(t *testing.T) {
	readings := newTestReadings(t)
	ctx := context.Background()
	base := time.Now().Truncate(time.Second)

	for i := range 5 {
		err := readings.Insert(ctx, sensors.Sample{
			At:    base.Add(time.Duration(i) * time.Second),
			TempC: float64(30 + i),
		})
		require.NoError(t, err)
	}

	recent, err := readings.Recent(ctx, 3)
	require.NoError(t, err)
	require.Len(t, recent, 3)

	// Chronological order, newest three samples.
	require.Equal(t, 32.0, recent[0].TempC)
	require.Equal(t, 34.0, recent[2].TempC)
	require.True(t, recent[0].At.Before(recent[2].At))
}

func TestConcurrentInsertsOnMemoryDatabase(t *testing.T) {
	readings := newTestReadings(t)
	ctx := context.Background()
	base := time.Now().Truncate(time.Second)

	// The in-memory pool is pinned to one connection; a second pooled
	// connection would see an empty schema and fail with "no such table".
	var group errgroup.Group
	for i := range 8 {
		group.Go(func() error {
			return readings.Insert(ctx, sensors.Sample{
				At:    base.Add(time.Duration(i) * time.Second),
				TempC: float64(i),
			})
		})
	}
	require.NoError(t, group.Wait())

	rows, err := readings.Recent(ctx, 10)
	require.NoError(t, err)
	require.Len(t, rows, 8)
}

func TestPrune(t *testing.T) {
	readings := newTestReadings(t)
	ctx := context.Background()
	now := time.Now().Truncate(time.Second)

	require.NoError(t, readings.Insert(ctx, sensors.Sample{At: now.Add(-48 * time.Hour)}))
	require.NoError(t, readings.Insert(ctx, sensors.Sample{At: now}))

	pruned, err := readings.Prune(ctx, now.Add(-24*time.Hour))
	require.NoError(t, err)
	require.Equal(t, int64(1), pruned)

	remaining, err := readings.Recent(ctx, 10)
	require.NoError(t, err)
	require.Len(t, remaining, 1)
}
