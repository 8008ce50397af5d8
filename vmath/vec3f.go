// Package vmath holds the float vector and random helpers the particle field uses
package vmath

import (
	"math"
)

// Vec3F is a float64 3D vector
type Vec3F struct {
	X, Y, Z float64
}

func V3FAdd(a, b Vec3F) Vec3F {
	return Vec3F{a.X + b.X, a.Y + b.Y, a.Z + b.Z}
}

func V3FSub(a, b Vec3F) Vec3F {
	return Vec3F{a.X - b.X, a.Y - b.Y, a.Z - b.Z}
}

func V3FScale(v Vec3F, s float64) Vec3F {
	return Vec3F{v.X * s, v.Y * s, v.Z * s}
}

func V3FMagSq(v Vec3F) float64 {
	return v.X*v.X + v.Y*v.Y + v.Z*v.Z
}

func V3FMag(v Vec3F) float64 {
	return math.Sqrt(V3FMagSq(v))
}

// V3FMaxAbs returns the largest absolute component (Chebyshev norm)
func V3FMaxAbs(v Vec3F) float64 {
	return math.Max(math.Abs(v.X), math.Max(math.Abs(v.Y), math.Abs(v.Z)))
}

// Wrap maps x into [-r, r) toroidally; r <= 0 returns x unchanged
func Wrap(x, r float64) float64 {
	if r <= 0 || (x >= -r && x < r) {
		return x
	}
	span := 2 * r
	m := math.Mod(x+r, span)
	if m < 0 {
		m += span
	}
	if m >= span {
		m = 0
	}
	return m - r
}

// V3FWrap wraps each axis independently
func V3FWrap(v Vec3F, r float64) Vec3F {
	return Vec3F{Wrap(v.X, r), Wrap(v.Y, r), Wrap(v.Z, r)}
}

// Clamp01 bounds x to [0,1]
func Clamp01(x float64) float64 {
	if x < 0 {
		return 0
	}
	if x > 1 {
		return 1
	}
	return x
}
