package config

import (
	"fmt"
	"os"

	"gopkg.in/yaml.v3"
)

// Weights tune the fretting-hand cost model. Movement multiplies the
// physical distance a finger travels in cm, Lift is the surcharge for
// pressing down after a move or position shift, StringChange is added
// per finger that lands on a different string, Reuse per finger that
// stays pressed but relocates, and OpenBonus is subtracted once per
// open string in a shape.
type Weights struct {
	Movement     float64 `yaml:"movement"`
	Lift         float64 `yaml:"lift"`
	StringChange float64 `yaml:"string_change"`
	Reuse        float64 `yaml:"reuse"`
	OpenBonus    float64 `yaml:"open_bonus"`
}

type Config struct {
	// Tuning lists open string notes from the highest string down,
	// e.g. e b G D A E1. Named tunings "standard", "drop-d" and
	// "standard-bass" are also accepted.
	Tuning      []string `yaml:"tuning"`
	FretCount   int      `yaml:"fret_count"`
	Capo        int      `yaml:"capo"`
	Span        int      `yaml:"span"`
	Harmonics   bool     `yaml:"harmonics"`
	OctaveFold  bool     `yaml:"octave_fold"`
	OctaveDown  bool     `yaml:"octave_down"`
	BeamWidth   int      `yaml:"beam_width"`
	Workers     int      `yaml:"workers"`
	FPS         float64  `yaml:"fps"`
	MaxVelocity float64  `yaml:"max_velocity"`
	IdleAfter   float64  `yaml:"idle_after"`
	Fallback    string   `yaml:"fallback"`
	ScaleLength float64  `yaml:"scale_length"`
	StringGap   float64  `yaml:"string_gap"`
	Weights     Weights  `yaml:"weights"`
}

const (
	FallbackDrop       = "drop"
	FallbackArpeggiate = "arpeggiate"
	FallbackSustain    = "sustain"
)

func Default() Config {
	return Config{
		Tuning:      []string{"standard"},
		FretCount:   22,
		Capo:        0,
		Span:        5,
		Harmonics:   false,
		OctaveFold:  true,
		OctaveDown:  false,
		BeamWidth:   100,
		Workers:     4,
		FPS:         30,
		MaxVelocity: 200,
		IdleAfter:   4,
		Fallback:    FallbackDrop,
		ScaleLength: 64.7954,
		StringGap:   0.85,
		Weights: Weights{
			Movement:     1.0,
			Lift:         0.025,
			StringChange: 0,
			Reuse:        0,
			OpenBonus:    0,
		},
	}
}

// Load reads a yaml config file over the defaults. A missing path is
// fine, the defaults stand.
func Load(path string) (Config, error) {
	cfg := Default()
	if path == "" {
		return cfg, nil
	}
	buf, err := os.ReadFile(path)
	if os.IsNotExist(err) {
		return cfg, nil
	}
	if err != nil {
		return cfg, fmt.Errorf("reading config %v: %w", path, err)
	}
	if err := yaml.Unmarshal(buf, &cfg); err != nil {
		return cfg, fmt.Errorf("parsing config %v: %w", path, err)
	}
	return cfg, cfg.Validate()
}

func (c Config) Validate() error {
	if len(c.Tuning) == 0 {
		return fmt.Errorf("config: tuning is empty")
	}
	if c.FretCount < 12 {
		return fmt.Errorf("config: fret_count %v is too small", c.FretCount)
	}
	if c.Span < 1 {
		return fmt.Errorf("config: span %v is too small", c.Span)
	}
	if c.BeamWidth < 1 {
		return fmt.Errorf("config: beam_width %v is too small", c.BeamWidth)
	}
	if c.FPS <= 0 {
		return fmt.Errorf("config: fps must be positive")
	}
	if c.MaxVelocity <= 0 {
		return fmt.Errorf("config: max_velocity must be positive")
	}
	switch c.Fallback {
	case FallbackDrop, FallbackArpeggiate, FallbackSustain:
	default:
		return fmt.Errorf("config: unknown fallback %q", c.Fallback)
	}
	return nil
}

func GetOutDir() string {
	path := os.Getenv("FRETMOTION_OUT")
	if path != "" {
		return path
	}
	return "./output"
}

func GetMediaDir() string {
	path := os.Getenv("FRETMOTION_MEDIA")
	if path != "" {
		return path
	}

	panic("FRETMOTION_MEDIA environment variable is not set!")
}

func GetMetadataEndpoint() string {
	return os.Getenv("FRETMOTION_DYNAMO_ENDPOINT")
}
