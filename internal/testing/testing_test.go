package testing

import (
	"testing"
	"unicode/utf8"

	"github.com/stretchr/testify/require"
)

func TestFanOut(t *testing.T) {
	pairs := FanOut([]int64{0, 1, 2, 3})
	require.Equal(t, []Pair{{0, 1}, {0, 2}, {0, 3}}, pairs)
}

func TestFanOutTooShort(t *testing.T) {
	require.Nil(t, FanOut([]int64{7}))
	require.Nil(t, FanOut(nil))
}

func TestRandStringN(t *testing.T) {
	require.Equal(t, 10, utf8.RuneCountInString(RandString()))
	require.Equal(t, 201, utf8.RuneCountInString(RandStringN(201)))
	require.Empty(t, RandStringN(0))
}
