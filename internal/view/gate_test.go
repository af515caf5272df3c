package view

import (
	"testing"

	"github.com/stretchr/testify/require"
)

func TestGateQueuesUntilReady(t *testing.T) {
	var g Gate
	var order []int

	g.Do(func() { order = append(order, 1) })
	g.Do(func() { order = append(order, 2) })
	require.Empty(t, order)
	require.Equal(t, 2, g.Pending())
	require.False(t, g.IsReady())

	g.Ready()
	require.Equal(t, []int{1, 2}, order)
	require.True(t, g.IsReady())
	require.Zero(t, g.Pending())

	g.Do(func() { order = append(order, 3) })
	require.Equal(t, []int{1, 2, 3}, order)
}

func TestGateReadyIsOneShot(t *testing.T) {
	var g Gate
	runs := 0
	g.Do(func() { runs++ })

	g.Ready()
	g.Ready()
	require.Equal(t, 1, runs)
}

func TestGateWorkQueuedWhileDrainingKeepsOrder(t *testing.T) {
	var g Gate
	var order []string

	g.Do(func() {
		order = append(order, "first")
		g.Do(func() { order = append(order, "nested") })
	})
	g.Do(func() { order = append(order, "second") })

	g.Ready()
	require.Equal(t, []string{"first", "second", "nested"}, order)
}
