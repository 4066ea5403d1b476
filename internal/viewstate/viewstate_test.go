package viewstate

import (
	"testing"

	"github.com/stretchr/testify/require"
)

func TestHolderTransitions(t *testing.T) {
	var h Holder[int]
	require.Equal(t, Idle, h.Current().Kind())

	h.Begin()
	require.True(t, h.Current().IsPending())
	_, ok := h.Current().Payload()
	require.False(t, ok)

	h.Succeed(7)
	v, ok := h.Current().Payload()
	require.True(t, ok)
	require.Equal(t, 7, v)
	_, isErr := h.Current().Message()
	require.False(t, isErr)

	h.Fail("boom")
	msg, ok := h.Current().Message()
	require.True(t, ok)
	require.Equal(t, "boom", msg)
	_, ok = h.Current().Payload()
	require.False(t, ok, "error state must not expose the previous payload")

	h.Begin()
	_, ok = h.Current().Message()
	require.False(t, ok, "pending clears the previous error")

	h.Reset()
	require.Equal(t, Idle, h.Current().Kind())
}

func TestKindString(t *testing.T) {
	require.Equal(t, "idle", Idle.String())
	require.Equal(t, "pending", Pending.String())
	require.Equal(t, "success", Success.String())
	require.Equal(t, "error", Error.String())
}
