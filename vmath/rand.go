package vmath

// FastRand is a xorshift64 generator; deterministic for a given seed
type FastRand struct {
	state uint64
}

func NewFastRand(seed uint64) *FastRand {
	if seed == 0 {
		seed = 1
	}
	return &FastRand{state: seed}
}

func (r *FastRand) Next() uint64 {
	x := r.state
	x ^= x << 13
	x ^= x >> 17
	x ^= x << 5
	r.state = x
	return x
}

func (r *FastRand) Intn(n int) int {
	if n <= 0 {
		return 0
	}
	return int(r.Next() % uint64(n))
}

// Float64 returns a value in [0,1) from the top 53 bits
func (r *FastRand) Float64() float64 {
	return float64(r.Next()>>11) / (1 << 53)
}

// Range returns a value in [lo,hi)
func (r *FastRand) Range(lo, hi float64) float64 {
	return lo + (hi-lo)*r.Float64()
}

// Signed returns a value in [-a,a)
func (r *FastRand) Signed(a float64) float64 {
	return r.Range(-a, a)
}

// InCube returns a point uniformly distributed in [-r,r)^3
func (r *FastRand) InCube(radius float64) Vec3F {
	return Vec3F{r.Signed(radius), r.Signed(radius), r.Signed(radius)}
}

// OnShell returns a point on a sphere shell between inner and outer radius
func (r *FastRand) OnShell(inner, outer float64) Vec3F {
	for {
		v := Vec3F{r.Signed(1), r.Signed(1), r.Signed(1)}
		m := V3FMagSq(v)
		if m < 1e-6 || m > 1 {
			continue
		}
		return V3FScale(v, r.Range(inner, outer)/V3FMag(v))
	}
}
