package vmath

import (
	"math"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestWrap(t *testing.T) {
	tests := []struct {
		x, r, want float64
	}{
		{0, 10, 0},
		{9.5, 10, 9.5},
		{10, 10, -10},
		{10.5, 10, -9.5},
		{-10, 10, -10},
		{-10.5, 10, 9.5},
		{45, 10, 5},
		{-45, 10, -5},
		{7, 0, 7},
	}
	for _, tt := range tests {
		assert.InDelta(t, tt.want, Wrap(tt.x, tt.r), 1e-9, "Wrap(%v, %v)", tt.x, tt.r)
	}
}

func TestFastRand_Deterministic(t *testing.T) {
	a, b := NewFastRand(42), NewFastRand(42)
	for i := 0; i < 100; i++ {
		assert.Equal(t, a.Next(), b.Next())
	}

	z := NewFastRand(0)
	assert.NotZero(t, z.Next(), "zero seed is remapped")
}

func TestFastRand_Ranges(t *testing.T) {
	r := NewFastRand(9)
	for i := 0; i < 10000; i++ {
		f := r.Float64()
		assert.True(t, f >= 0 && f < 1)

		v := r.InCube(3)
		assert.Less(t, V3FMaxAbs(v), 3.0+1e-12)

		s := r.OnShell(2, 4)
		m := V3FMag(s)
		assert.True(t, m >= 2-1e-9 && m <= 4+1e-9, "shell magnitude %v", m)
	}
	assert.Zero(t, r.Intn(0))
	assert.False(t, math.IsNaN(r.Range(1, 1)))
}
