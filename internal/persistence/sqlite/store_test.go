package sqlite

import (
	"context"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

func TestBlobStoreUpsertAndRemove(t *testing.T) {
	ctx := context.Background()
	path := filepath.Join(t.TempDir(), "workouts.db")

	store, err := Open(path, zap.NewNop())
	require.NoError(t, err)

	_, found, err := store.GetItem(ctx, "workouts")
	require.NoError(t, err)
	require.False(t, found)

	require.NoError(t, store.SetItem(ctx, "workouts", []byte(`[{"id":"a"}]`)))
	require.NoError(t, store.SetItem(ctx, "workouts", []byte(`[{"id":"b"}]`)))

	got, found, err := store.GetItem(ctx, "workouts")
	require.NoError(t, err)
	require.True(t, found)
	require.Equal(t, `[{"id":"b"}]`, string(got))

	require.NoError(t, store.RemoveItem(ctx, "workouts"))
	_, found, err = store.GetItem(ctx, "workouts")
	require.NoError(t, err)
	require.False(t, found)
	require.NoError(t, store.Close())
}

func TestBlobStoreSurvivesReopen(t *testing.T) {
	ctx := context.Background()
	path := filepath.Join(t.TempDir(), "workouts.db")

	store, err := Open(path, nil)
	require.NoError(t, err)
	require.NoError(t, store.SetItem(ctx, "workouts", []byte(`[]`)))
	require.NoError(t, store.Close())

	reopened, err := Open(path, nil)
	require.NoError(t, err)
	t.Cleanup(func() { _ = reopened.Close() })

	got, found, err := reopened.GetItem(ctx, "workouts")
	require.NoError(t, err)
	require.True(t, found)
	require.Equal(t, `[]`, string(got))
}
