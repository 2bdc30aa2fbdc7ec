package config

import (
	"fmt"
	"os"
	"time"

	"github.com/soniq/levelviz/internal/fileops"
	"github.com/soniq/levelviz/internal/level"
	"github.com/soniq/levelviz/internal/logger"
	"github.com/soniq/levelviz/internal/types"
	"gopkg.in/yaml.v3"
)

const (
	configFilename = "levelviz.yaml"
)

// Default returns the stock configuration: the meter tunings that shipped
// after listening tests, one per visual style.
func Default() *types.Config {
	return &types.Config{
		Capture: types.CaptureConfig{
			SampleRate: 44100,
			BlockSize:  1024,
		},
		Curve: types.CurveConfig{
			Exponent: 0.85,
			Floor:    0.05,
		},
		Styles: map[string]types.TuningConfig{
			"bar": {
				Attack:           0.6,
				Release:          0.12,
				PeakDecay:        0.88,
				UpdateIntervalMs: 23,
				FrameIntervalMs:  16,
			},
			"history": {
				Attack:           0.45,
				Release:          0.08,
				PeakDecay:        0.92,
				UpdateIntervalMs: 23,
				FrameIntervalMs:  16,
			},
		},
	}
}

// LoadConfig reads levelviz.yaml from the config directory. A missing file
// returns (nil, nil); callers decide whether to write defaults.
func LoadConfig() (*types.Config, error) {
	fileOps, err := fileops.NewDefaultFileOps()
	if err != nil {
		return nil, fmt.Errorf("failed to initialize file operations: %w", err)
	}

	if err := fileOps.EnsureDirectories(); err != nil {
		return nil, fmt.Errorf("failed to create directories: %w", err)
	}

	data, err := fileOps.LoadConfig(configFilename)
	if err != nil {
		if err == fileops.ErrConfigNotFound {
			return nil, nil
		}
		return nil, fmt.Errorf("failed to read config file: %w", err)
	}

	var config types.Config
	if err := yaml.Unmarshal(data, &config); err != nil {
		return nil, fmt.Errorf("failed to parse config file: %w", err)
	}

	return &config, nil
}

// LoadConfigPath reads a config from an explicit path, bypassing the config
// directory. Unlike LoadConfig, a missing file is an error: the caller asked
// for this file specifically.
func LoadConfigPath(path string) (*types.Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read config file: %w", err)
	}

	var config types.Config
	if err := yaml.Unmarshal(data, &config); err != nil {
		return nil, fmt.Errorf("failed to parse config file: %w", err)
	}

	return &config, nil
}

// SaveConfig writes the config, merging onto any existing file so values the
// caller left unset are preserved.
func SaveConfig(config *types.Config) error {
	fileOps, err := fileops.NewDefaultFileOps()
	if err != nil {
		return fmt.Errorf("failed to initialize file operations: %w", err)
	}

	existingConfig, err := LoadConfig()
	if err != nil {
		logger.Warnf("Failed to load existing config: %v", err)
	} else if existingConfig != nil {
		mergeConfigs(existingConfig, config)
		config = existingConfig
	}

	data, err := yaml.Marshal(config)
	if err != nil {
		return fmt.Errorf("failed to marshal config: %w", err)
	}

	if err := fileOps.SaveConfig(configFilename, data); err != nil {
		return fmt.Errorf("failed to save config: %w", err)
	}

	return nil
}

// EnsureConfig loads the config, writing and returning the defaults on first
// run.
func EnsureConfig() (*types.Config, error) {
	cfg, err := LoadConfig()
	if err != nil {
		return nil, err
	}
	if cfg != nil {
		return cfg, nil
	}

	cfg = Default()
	if err := SaveConfig(cfg); err != nil {
		return nil, err
	}
	logger.Infof("Wrote default configuration (%s)", configFilename)
	return cfg, nil
}

// TuningFor converts the named style's yaml tuning into the interpolator's
// form. Unset fields fall back to level.DefaultTuning inside the
// interpolator.
func TuningFor(cfg *types.Config, style string) level.Tuning {
	t := cfg.GetStyleTuning(style)
	return level.Tuning{
		Attack:         t.Attack,
		Release:        t.Release,
		PeakDecay:      t.PeakDecay,
		UpdateInterval: time.Duration(t.UpdateIntervalMs) * time.Millisecond,
		FrameInterval:  time.Duration(t.FrameIntervalMs) * time.Millisecond,
	}
}

// mergeConfigs merges the sourceConfig into targetConfig, preserving existing
// values in targetConfig that are not explicitly set in sourceConfig
func mergeConfigs(targetConfig, sourceConfig *types.Config) {
	if sourceConfig.Capture.SampleRate != 0 {
		targetConfig.Capture.SampleRate = sourceConfig.Capture.SampleRate
	}
	if sourceConfig.Capture.BlockSize != 0 {
		targetConfig.Capture.BlockSize = sourceConfig.Capture.BlockSize
	}
	if sourceConfig.Capture.Device != "" {
		targetConfig.Capture.Device = sourceConfig.Capture.Device
	}

	if sourceConfig.Curve.Exponent != 0 {
		targetConfig.Curve.Exponent = sourceConfig.Curve.Exponent
	}
	if sourceConfig.Curve.Floor != 0 {
		targetConfig.Curve.Floor = sourceConfig.Curve.Floor
	}

	if len(sourceConfig.Styles) > 0 {
		if targetConfig.Styles == nil {
			targetConfig.Styles = make(map[string]types.TuningConfig, len(sourceConfig.Styles))
		}
		for name, tuning := range sourceConfig.Styles {
			targetConfig.Styles[name] = tuning
		}
	}
}
