package config

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestDefaultIsValid(t *testing.T) {
	assert.NoError(t, Default().Validate())
}

func TestLoadMissingFileKeepsDefaults(t *testing.T) {
	cfg, err := Load(filepath.Join(t.TempDir(), "nope.yaml"))
	assert.NoError(t, err)
	assert.Equal(t, cfg, Default())
}

func TestLoadOverridesDefaults(t *testing.T) {
	path := filepath.Join(t.TempDir(), "config.yaml")
	body := []byte("tuning: [drop-d]\nbeam_width: 25\nfallback: sustain\nweights:\n  movement: 2.5\n")
	if err := os.WriteFile(path, body, 0666); err != nil {
		t.Fatal(err)
	}

	cfg, err := Load(path)
	assert.NoError(t, err)
	assert.Equal(t, cfg.Tuning, []string{"drop-d"})
	assert.Equal(t, cfg.BeamWidth, 25)
	assert.Equal(t, cfg.Fallback, FallbackSustain)
	assert.Equal(t, cfg.Weights.Movement, 2.5)
	// untouched values keep their defaults
	assert.Equal(t, cfg.FretCount, Default().FretCount)
	assert.Equal(t, cfg.Weights.Lift, Default().Weights.Lift)
}

func TestValidateRejectsBadValues(t *testing.T) {
	cases := map[string]func(*Config){
		"empty tuning":   func(c *Config) { c.Tuning = nil },
		"tiny fretboard": func(c *Config) { c.FretCount = 5 },
		"zero span":      func(c *Config) { c.Span = 0 },
		"zero beam":      func(c *Config) { c.BeamWidth = 0 },
		"zero fps":       func(c *Config) { c.FPS = 0 },
		"zero velocity":  func(c *Config) { c.MaxVelocity = 0 },
		"bad fallback":   func(c *Config) { c.Fallback = "panic" },
	}
	for name, mutate := range cases {
		cfg := Default()
		mutate(&cfg)
		assert.Error(t, cfg.Validate(), name)
	}
}

func TestGetOutDir(t *testing.T) {
	t.Setenv("FRETMOTION_OUT", "/tmp/fm-out")
	assert.Equal(t, GetOutDir(), "/tmp/fm-out")

	t.Setenv("FRETMOTION_OUT", "")
	assert.Equal(t, GetOutDir(), "./output")
}
