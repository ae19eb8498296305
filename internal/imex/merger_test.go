package imex

import (
	"errors"
	"slices"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestMerger_Collect(t *testing.T) {
	tree := root(ref(0, Once()), group(Times(3), ref(1, Once()), ref(2, Once())))
	m := NewMerger(tree,
		lines("0\n0\n0\n0\n0"),
		lines("1\n1\n1\n1\n1"),
		lines("2\n2\n2\n2\n2\n2"),
	)

	got, err := m.Collect()
	require.NoError(t, err)
	assert.Equal(t, []string{"0", "1", "2", "1", "2", "1", "2"}, got)
	assert.Equal(t, 7, m.Count())
	assert.Equal(t, []int{1, 3, 3}, m.Consumed())
	assert.Equal(t, 2, m.Origin())
}

func TestMerger_NextAfterExhaustion(t *testing.T) {
	m := NewMerger(root(ref(0, Forever())), chars("123"))

	var counts []int
	counts = append(counts, m.Count())
	for i := 0; i < 4; i++ {
		m.Next()
		counts = append(counts, m.Count())
	}
	assert.Equal(t, []int{0, 1, 2, 3, 3}, counts)

	item, ok, err := m.Next()
	require.NoError(t, err)
	assert.False(t, ok)
	assert.Equal(t, "", item)
}

func TestMerger_GenericItems(t *testing.T) {
	m := NewMerger[int](root(ref(1, Once()), ref(0, Forever())),
		FromSlice(1, 2, 3),
		FromSlice(10),
	)

	got, err := m.Collect()
	require.NoError(t, err)
	assert.Equal(t, []int{10, 1, 2, 3}, got)
}

func TestMerger_AllStopsEarly(t *testing.T) {
	m := NewMerger(root(ref(0, Forever())), chars("abcd"))

	var first []string
	for item, err := range m.All() {
		require.NoError(t, err)
		first = append(first, item)
		if len(first) == 2 {
			break
		}
	}
	assert.Equal(t, []string{"a", "b"}, first)

	rest, err := m.Collect()
	require.NoError(t, err)
	assert.Equal(t, []string{"c", "d"}, rest)
}

func TestMerger_OutOfRangeKeepsPriorItems(t *testing.T) {
	m := NewMerger(root(ref(0, Once()), ref(1, Once()), ref(2, Once())), lines("a"), lines("b"))

	got, err := m.Collect()
	require.Error(t, err)
	assert.Equal(t, []string{"a", "b"}, got)
	assert.Equal(t, ErrCodeStreamOutOfRange, CodeOf(err))
}

func TestMerger_ReadError(t *testing.T) {
	cause := errors.New("disk on fire")
	m := NewMerger[string](root(ref(0, Forever())), &failingStream{items: []string{"x", "y"}, err: cause})

	got, err := m.Collect()
	require.Error(t, err)
	assert.Equal(t, []string{"x", "y"}, got)
	assert.True(t, IsReadError(err))
	assert.False(t, IsOutOfRange(err))
	assert.ErrorIs(t, err, cause)
}

func TestMerger_FromSeq(t *testing.T) {
	a := FromSeq(slices.Values([]string{"a1", "a2"}))
	defer a.Stop()
	b := FromSeq(slices.Values([]string{"b1", "b2", "b3"}))
	defer b.Stop()

	m := NewMerger[string](root(group(Forever(), ref(0, Once()), ref(1, Once()))), a, b)

	got, err := m.Collect()
	require.NoError(t, err)
	assert.Equal(t, []string{"a1", "b1", "a2", "b2", "b3"}, got)
}

func TestMerger_StreamFunc(t *testing.T) {
	n := 0
	counter := StreamFunc[int](func() (int, bool) {
		n++
		return n, n <= 3
	})

	m := NewMerger[int](root(ref(0, Times(10))), counter)
	got, err := m.Collect()
	require.NoError(t, err)
	assert.Equal(t, []int{1, 2, 3}, got)
}

func TestMerger_OriginBeforeFirstItem(t *testing.T) {
	m := NewMerger(root(), lines("a"))
	assert.Equal(t, -1, m.Origin())
}

func TestErrorCodes(t *testing.T) {
	assert.Equal(t, ErrorCode(""), CodeOf(errors.New("plain")))
	assert.False(t, IsOutOfRange(nil))

	err := NewOutOfRangeError(4, 2)
	assert.Contains(t, err.Error(), "STREAM_OUT_OF_RANGE")
	assert.Contains(t, err.Error(), "stream=4")
	assert.Nil(t, err.Unwrap())
}
