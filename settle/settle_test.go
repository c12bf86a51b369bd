package settle

import (
	"context"
	"errors"
	"strconv"
	"sync/atomic"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestAllIsolatesFailures(t *testing.T) {
	items := []int{1, 2, 3, 4, 5}
	out := All(context.Background(), items,
		func(i int) string { return "m" + strconv.Itoa(i) },
		func(_ context.Context, i int) (int, error) {
			if i == 3 {
				return 0, errors.New("broken image")
			}
			return i * 10, nil
		}, 2)

	require.Len(t, out, 5)
	assert.Equal(t, []int{10, 20, 40, 50}, Values(out))

	failed := Failures(out)
	require.Len(t, failed, 1)
	assert.Equal(t, "m3", failed[0].ID)
	assert.EqualError(t, failed[0].Err, "broken image")
	for i, o := range out {
		assert.Equal(t, "m"+strconv.Itoa(items[i]), o.ID)
	}
}

func TestAllRecoversPanics(t *testing.T) {
	out := All(context.Background(), []string{"a", "b"},
		func(s string) string { return s },
		func(_ context.Context, s string) (string, error) {
			if s == "a" {
				panic("boom")
			}
			return s, nil
		}, 0)

	assert.False(t, out[0].OK())
	assert.Contains(t, out[0].Err.Error(), "a: panic: boom")
	assert.True(t, out[1].OK())
	assert.Equal(t, "b", out[1].Value)
}

func TestAllRespectsLimit(t *testing.T) {
	var inFlight, peak atomic.Int32
	items := make([]int, 20)
	All(context.Background(), items,
		func(int) string { return "" },
		func(context.Context, int) (struct{}, error) {
			n := inFlight.Add(1)
			for {
				p := peak.Load()
				if n <= p || peak.CompareAndSwap(p, n) {
					break
				}
			}
			inFlight.Add(-1)
			return struct{}{}, nil
		}, 3)
	assert.LessOrEqual(t, peak.Load(), int32(3))
}

func TestAllCanceledContext(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	out := All(ctx, []int{1, 2},
		func(i int) string { return strconv.Itoa(i) },
		func(context.Context, int) (int, error) { return 1, nil }, 0)
	for _, o := range out {
		assert.ErrorIs(t, o.Err, context.Canceled)
	}
}
