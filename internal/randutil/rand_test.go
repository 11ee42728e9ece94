package randutil

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNewIsDeterministic(t *testing.T) {
	a, b := New(42), New(42)
	for range 10 {
		require.Equal(t, a.Uint64(), b.Uint64())
	}
	assert.NotEqual(t, New(1).Uint64(), New(2).Uint64())
}

func TestChildSequenceIsReproducible(t *testing.T) {
	p1, p2 := New(7), New(7)
	for range 4 {
		c1, c2 := Child(p1), Child(p2)
		require.Equal(t, c1.Float64(), c2.Float64())
	}
}

func TestScripted(t *testing.T) {
	s := NewScripted(0.1, 0.9)
	assert.Equal(t, 0.1, s.Float64())
	assert.Equal(t, 0.9, s.Float64())
	assert.Equal(t, 0.9, s.Float64(), "last draw repeats")
	assert.Equal(t, 3, s.Used())

	var src Source = New(3)
	v := src.Float64()
	assert.GreaterOrEqual(t, v, 0.0)
	assert.Less(t, v, 1.0)
}
