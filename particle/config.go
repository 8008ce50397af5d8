package particle

// Color is an sRGB particle tint
type Color struct {
	R, G, B uint8
}

// PopulationConfig tunes one particle role
type PopulationConfig struct {
	Count int `yaml:"count"`

	// Dust: toroidal bound per axis. Stars: outer radius of the home shell
	Radius float64 `yaml:"radius"`
	// Stars only: inner radius of the home shell
	InnerRadius float64 `yaml:"inner_radius"`

	// Dust: max linear speed per axis (units/s). Stars: max spin about Y (rad/s)
	Speed float64 `yaml:"speed"`

	Oscillation float64 `yaml:"oscillation"`
	Frequency   float64 `yaml:"frequency"`

	// Displacement per unit of scroll progress, scaled per particle by its influence
	ScrollDrift float64 `yaml:"scroll_drift"`

	// Dust only: simplex jitter strength (units/s)
	Noise float64 `yaml:"noise"`

	SizeMin float64 `yaml:"size_min"`
	SizeMax float64 `yaml:"size_max"`

	Palette []Color `yaml:"palette"`
}

// Config is the whole background field
type Config struct {
	Seed      int64            `yaml:"seed"`
	TimeScale float64          `yaml:"time_scale"`
	Dust      PopulationConfig `yaml:"dust"`
	Stars     PopulationConfig `yaml:"stars"`
}

// DefaultTimeScale slows simulated time relative to wall time
const DefaultTimeScale = 0.7

// DefaultConfig returns the dense dust and sparse star setup
func DefaultConfig() Config {
	return Config{
		Seed:      1337,
		TimeScale: DefaultTimeScale,
		Dust: PopulationConfig{
			Count:       480,
			Radius:      12,
			Speed:       0.25,
			Oscillation: 0.35,
			Frequency:   0.6,
			ScrollDrift: 1.5,
			Noise:       0.4,
			SizeMin:     0.2,
			SizeMax:     0.6,
			Palette: []Color{
				{R: 90, G: 200, B: 255},
				{R: 150, G: 110, B: 255},
				{R: 60, G: 120, B: 200},
			},
		},
		Stars: PopulationConfig{
			Count:       72,
			Radius:      14,
			InnerRadius: 6,
			Speed:       0.05,
			Oscillation: 0.3,
			Frequency:   0.4,
			ScrollDrift: 3,
			SizeMin:     0.6,
			SizeMax:     1.0,
			Palette: []Color{
				{R: 255, G: 255, B: 255},
				{R: 200, G: 230, B: 255},
			},
		},
	}
}
