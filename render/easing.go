package render

import "math"

// EaseOutCubic decelerates to t=1
func EaseOutCubic(t float64) float64 {
	t = clamp01(t)
	u := 1 - t
	return 1 - u*u*u
}

// EaseInCubic accelerates from t=0
func EaseInCubic(t float64) float64 {
	t = clamp01(t)
	return t * t * t
}

// EaseInOutSine is symmetric about t=0.5
func EaseInOutSine(t float64) float64 {
	t = clamp01(t)
	return -(math.Cos(math.Pi*t) - 1) / 2
}

// LerpF interpolates a to b without clamping t
func LerpF(a, b, t float64) float64 {
	return a + (b-a)*t
}

func clamp01(t float64) float64 {
	if t < 0 {
		return 0
	}
	if t > 1 {
		return 1
	}
	return t
}
