// Package config loads playback and viewer settings from an optional YAML
// file layered under environment variables.
package config

import (
	"fmt"
	"os"
	"strconv"
	"strings"
	"time"

	"gopkg.in/yaml.v3"
)

// AppConfig holds every tunable of the viewer, exporter and server.
type AppConfig struct {
	// IntervalMS is the auto-advance period in milliseconds, 100..2000.
	IntervalMS int    `yaml:"interval_ms"`
	Repeat     bool   `yaml:"repeat"`
	ShowRays   bool   `yaml:"show_rays"`
	RayColor   string `yaml:"ray_color"`
	LabelMode  string `yaml:"label_mode"`

	ServeAddr string `yaml:"serve_addr"`

	ExportFramesPerMove int `yaml:"export_frames_per_move"`
	ExportStride        int `yaml:"export_stride"`
}

const (
	minIntervalMS = 100
	maxIntervalMS = 2000
)

func defaults() *AppConfig {
	return &AppConfig{
		IntervalMS: 500,
		Repeat:     true,
		ShowRays:   true,
		RayColor:   "red",
		LabelMode:  "symbols",
		ServeAddr:  ":8080",

		ExportFramesPerMove: 5,
		ExportStride:        1,
	}
}

// Load reads the YAML file named by HEATBOARD_CONFIG (or ./heatboard.yaml if
// present), then applies HEATBOARD_* environment overrides. A missing file
// is fine; a malformed one is not.
func Load() (*AppConfig, error) {
	cfg := defaults()

	path := strings.TrimSpace(os.Getenv("HEATBOARD_CONFIG"))
	explicit := path != ""
	if path == "" {
		path = "heatboard.yaml"
	}
	data, err := os.ReadFile(path)
	switch {
	case err == nil:
		if err := yaml.Unmarshal(data, cfg); err != nil {
			return nil, fmt.Errorf("parse config %s: %w", path, err)
		}
	case os.IsNotExist(err) && !explicit:
		// No config file is the common case.
	default:
		return nil, fmt.Errorf("read config %s: %w", path, err)
	}

	applyEnv(cfg)

	if cfg.IntervalMS < minIntervalMS {
		cfg.IntervalMS = minIntervalMS
	}
	if cfg.IntervalMS > maxIntervalMS {
		cfg.IntervalMS = maxIntervalMS
	}
	if cfg.ExportFramesPerMove <= 0 {
		cfg.ExportFramesPerMove = 5
	}
	if cfg.ExportStride <= 0 {
		cfg.ExportStride = 1
	}
	return cfg, nil
}

func applyEnv(cfg *AppConfig) {
	if v := strings.TrimSpace(os.Getenv("HEATBOARD_INTERVAL_MS")); v != "" {
		if n, err := strconv.Atoi(v); err == nil && n > 0 {
			cfg.IntervalMS = n
		}
	}
	if v := strings.TrimSpace(os.Getenv("HEATBOARD_REPEAT")); v != "" {
		if b, err := strconv.ParseBool(v); err == nil {
			cfg.Repeat = b
		}
	}
	if v := strings.TrimSpace(os.Getenv("HEATBOARD_SHOW_RAYS")); v != "" {
		if b, err := strconv.ParseBool(v); err == nil {
			cfg.ShowRays = b
		}
	}
	if v := strings.TrimSpace(os.Getenv("HEATBOARD_RAY_COLOR")); v != "" {
		cfg.RayColor = v
	}
	if v := strings.TrimSpace(os.Getenv("HEATBOARD_LABEL_MODE")); v != "" {
		cfg.LabelMode = v
	}
	if v := strings.TrimSpace(os.Getenv("HEATBOARD_SERVE_ADDR")); v != "" {
		cfg.ServeAddr = v
	}
}

// Interval returns the auto-advance period as a duration.
func (c *AppConfig) Interval() time.Duration {
	return time.Duration(c.IntervalMS) * time.Millisecond
}
