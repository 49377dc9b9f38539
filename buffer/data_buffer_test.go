package buffer

import (
	"bytes"
	"testing"

	"github.com/stretchr/testify/require"
)

func TestRefillResetsCursors(t *testing.T) {
	d := New(8)
	require.True(t, d.IsEmpty())

	err := d.Refill(func(b []byte) (int, error) {
		copy(b, []byte("abcdef"))
		return 6, nil
	})
	require.NoError(t, err)
	require.Equal(t, 6, d.Remaining())
	require.True(t, bytes.Equal(d.ReadToEnd(), []byte("abcdef")))
}

func TestTakeAdvancesCursor(t *testing.T) {
	d := New(8)
	require.NoError(t, d.Refill(func(b []byte) (int, error) {
		copy(b, []byte("abcdef"))
		return 6, nil
	}))

	first := d.Take(2)
	require.Equal(t, []byte("ab"), first)
	require.Equal(t, 4, d.Remaining())

	rest := d.TakeToEnd()
	require.Equal(t, []byte("cdef"), rest)
	require.True(t, d.IsEmpty())
}

func TestTakePastRemainingSaturates(t *testing.T) {
	d := New(8)
	require.NoError(t, d.Refill(func(b []byte) (int, error) {
		copy(b, []byte("ab"))
		return 2, nil
	}))

	out := d.Take(4)
	require.Equal(t, []byte("ab"), out)
	require.True(t, d.IsEmpty())
}

func TestReadDoesNotAdvance(t *testing.T) {
	d := New(8)
	require.NoError(t, d.Refill(func(b []byte) (int, error) {
		copy(b, []byte("abcd"))
		return 4, nil
	}))

	require.Equal(t, []byte("ab"), d.Read(2))
	require.Equal(t, 4, d.Remaining())
}
