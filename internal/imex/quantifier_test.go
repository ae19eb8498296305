package imex

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestQuantifier_BoundedGrantsExactlyN(t *testing.T) {
	q := Times(3)

	for i := 0; i < 3; i++ {
		assert.True(t, q.Request(), "request %d should be granted", i+1)
	}
	assert.False(t, q.Request())
	assert.False(t, q.Request(), "denial is permanent")
	assert.Equal(t, 0, q.Remaining())
}

func TestQuantifier_Once(t *testing.T) {
	q := Once()
	assert.Equal(t, Bounded, q.Kind())
	assert.True(t, q.Request())
	assert.False(t, q.Request())
}

func TestQuantifier_ZeroAndNegative(t *testing.T) {
	zero := Times(0)
	assert.False(t, zero.Request())

	neg := Times(-4)
	assert.Equal(t, 0, neg.Remaining())
	assert.False(t, neg.Request())
}

func TestQuantifier_UnboundedAlwaysGrants(t *testing.T) {
	q := Forever()
	for i := 0; i < 1000; i++ {
		if !q.Request() {
			t.Fatalf("unbounded quantifier denied request %d", i)
		}
	}
	assert.Equal(t, Unbounded, q.Kind())
	assert.Equal(t, -1, q.Remaining())
}

func TestQuantifier_CopyIsIndependent(t *testing.T) {
	a := Times(2)
	b := a
	a.Request()
	a.Request()

	assert.Equal(t, 0, a.Remaining())
	assert.Equal(t, 2, b.Remaining())
}

func TestQuantifier_String(t *testing.T) {
	tests := []struct {
		q    Quantifier
		want string
	}{
		{Once(), ""},
		{Times(3), "{3}"},
		{Times(0), "{0}"},
		{Forever(), "*"},
	}
	for _, tt := range tests {
		assert.Equal(t, tt.want, tt.q.String())
	}
}
