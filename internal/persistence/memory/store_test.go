package memory

import (
	"context"
	"testing"

	"github.com/stretchr/testify/require"
)

func TestBlobStoreRoundTrip(t *testing.T) {
	ctx := context.Background()
	store := NewBlobStore()

	_, found, err := store.GetItem(ctx, "workouts")
	require.NoError(t, err)
	require.False(t, found)

	blob := []byte(`[{"id":"a"}]`)
	require.NoError(t, store.SetItem(ctx, "workouts", blob))
	blob[0] = 'x'

	got, found, err := store.GetItem(ctx, "workouts")
	require.NoError(t, err)
	require.True(t, found)
	require.Equal(t, `[{"id":"a"}]`, string(got))

	require.NoError(t, store.SetItem(ctx, "workouts", []byte(`[]`)))
	got, _, err = store.GetItem(ctx, "workouts")
	require.NoError(t, err)
	require.Equal(t, `[]`, string(got))

	require.NoError(t, store.RemoveItem(ctx, "workouts"))
	require.NoError(t, store.RemoveItem(ctx, "workouts"))
	_, found, err = store.GetItem(ctx, "workouts")
	require.NoError(t, err)
	require.False(t, found)
}
