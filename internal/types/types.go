package types

// CaptureConfig selects the microphone format for a session.
type CaptureConfig struct {
	SampleRate int    `yaml:"sample_rate"` // Hz
	BlockSize  int    `yaml:"block_size"`  // frames per hardware callback
	Device     string `yaml:"device"`      // substring of the device name, empty = system default
}

// CurveConfig shapes the amplitude-to-display mapping of the level extractor.
type CurveConfig struct {
	Exponent float64 `yaml:"exponent"` // power-law exponent, < 1 lifts quiet content
	Floor    float64 `yaml:"floor"`    // additive baseline so silence stays visible
}

// TuningConfig holds the smoothing constants for one visual style. Every
// style gets its own set so tweaking one meter never changes another.
type TuningConfig struct {
	Attack           float64 `yaml:"attack"`             // rise coefficient per update tick
	Release          float64 `yaml:"release"`            // fall coefficient per update tick
	PeakDecay        float64 `yaml:"peak_decay"`         // peak-hold decay per frame
	UpdateIntervalMs int     `yaml:"update_interval_ms"` // nominal producer tick
	FrameIntervalMs  int     `yaml:"frame_interval_ms"`  // nominal renderer frame
}

type Config struct {
	Capture CaptureConfig           `yaml:"capture"`
	Curve   CurveConfig             `yaml:"curve"`
	Styles  map[string]TuningConfig `yaml:"styles"`
}

// GetCaptureConfig returns capture settings with defaults filled in.
func (c *Config) GetCaptureConfig() CaptureConfig {
	config := c.Capture

	if config.SampleRate == 0 {
		config.SampleRate = 44100
	}
	if config.BlockSize == 0 {
		// ~43 blocks/s at 44.1 kHz
		config.BlockSize = 1024
	}

	return config
}

// GetCurveConfig returns curve settings with defaults filled in.
func (c *Config) GetCurveConfig() CurveConfig {
	config := c.Curve

	if config.Exponent == 0 {
		config.Exponent = 0.85
	}
	if config.Floor == 0 {
		config.Floor = 0.05
	}

	return config
}

// GetStyleTuning returns the tuning for the named style, falling back to an
// empty TuningConfig (all defaults) for unknown names.
func (c *Config) GetStyleTuning(name string) TuningConfig {
	if t, ok := c.Styles[name]; ok {
		return t
	}
	return TuningConfig{}
}
