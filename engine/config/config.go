package config

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/BurntSushi/toml"
	"github.com/hubastard/framekit/engine/colors"
	"github.com/hubastard/framekit/engine/core"
	"gopkg.in/yaml.v3"
)

type Config struct {
	Window   WindowConfig   `toml:"window" yaml:"window"`
	Loop     LoopConfig     `toml:"loop" yaml:"loop"`
	Input    InputConfig    `toml:"input" yaml:"input"`
	Logging  LoggingConfig  `toml:"logging" yaml:"logging"`
	Profiler ProfilerConfig `toml:"profiler" yaml:"profiler"`
	UI       UIConfig       `toml:"ui" yaml:"ui"`
}

type WindowConfig struct {
	Title      string       `toml:"title" yaml:"title"`
	Width      int          `toml:"width" yaml:"width"`
	Height     int          `toml:"height" yaml:"height"`
	VSync      bool         `toml:"vsync" yaml:"vsync"`
	Background colors.Color `toml:"background" yaml:"background"`
}

type LoopConfig struct {
	FixedStep  time.Duration `toml:"fixed_step" yaml:"fixed_step"`
	MaxCatchUp int           `toml:"max_catch_up" yaml:"max_catch_up"`
	TargetFPS  int           `toml:"target_fps" yaml:"target_fps"`
	Rendering  bool          `toml:"rendering" yaml:"rendering"`
	// IsolateRenderFaults keeps the loop alive when a drawable panics.
	IsolateRenderFaults bool `toml:"isolate_render_faults" yaml:"isolate_render_faults"`
}

type InputConfig struct {
	MessageCapture         bool `toml:"message_capture" yaml:"message_capture"`
	ModifierDisambiguation bool `toml:"modifier_disambiguation" yaml:"modifier_disambiguation"`
}

type LoggingConfig struct {
	Level  string `toml:"level" yaml:"level"`
	Format string `toml:"format" yaml:"format"` // "json" or "console"
}

type ProfilerConfig struct {
	Enabled bool   `toml:"enabled" yaml:"enabled"`
	Output  string `toml:"output" yaml:"output"` // speedscope JSON written on exit
}

type UIConfig struct {
	Layout string `toml:"layout" yaml:"layout"` // YAML button layout, relative to the config file
}

// Load reads a TOML file, or YAML when the extension is .yaml/.yml. Missing
// keys keep their defaults.
func Load(path string) (*Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read config %s: %w", path, err)
	}
	cfg := defaults()
	switch strings.ToLower(filepath.Ext(path)) {
	case ".yaml", ".yml":
		err = yaml.Unmarshal(data, cfg)
	default:
		err = toml.Unmarshal(data, cfg)
	}
	if err != nil {
		return nil, fmt.Errorf("parse config %s: %w", path, err)
	}
	if err := cfg.validate(); err != nil {
		return nil, fmt.Errorf("config %s: %w", path, err)
	}
	if cfg.UI.Layout != "" && !filepath.IsAbs(cfg.UI.Layout) {
		cfg.UI.Layout = filepath.Join(filepath.Dir(path), cfg.UI.Layout)
	}
	return cfg, nil
}

// Default returns the configuration used when no file is given.
func Default() *Config { return defaults() }

func defaults() *Config {
	return &Config{
		Window: WindowConfig{
			Title:      "framekit",
			Width:      640,
			Height:     480,
			VSync:      true,
			Background: colors.Black,
		},
		Loop: LoopConfig{
			FixedStep:  time.Second / 60,
			MaxCatchUp: 10,
			Rendering:  true,
		},
		Input: InputConfig{
			MessageCapture: true,
		},
		Logging: LoggingConfig{
			Level:  "info",
			Format: "console",
		},
		Profiler: ProfilerConfig{
			Output: "profile.speedscope.json",
		},
	}
}

func (c *Config) validate() error {
	switch {
	case c.Window.Width <= 0 || c.Window.Height <= 0:
		return fmt.Errorf("window size %dx%d must be positive", c.Window.Width, c.Window.Height)
	case c.Loop.FixedStep < 0:
		return fmt.Errorf("loop.fixed_step %s is negative", c.Loop.FixedStep)
	case c.Loop.MaxCatchUp < 0:
		return fmt.Errorf("loop.max_catch_up %d is negative", c.Loop.MaxCatchUp)
	case c.Loop.TargetFPS < 0:
		return fmt.Errorf("loop.target_fps %d is negative", c.Loop.TargetFPS)
	}
	return nil
}

// Core converts to the controller's settings.
func (c *Config) Core() core.Config {
	return core.Config{
		Title:                  c.Window.Title,
		Width:                  c.Window.Width,
		Height:                 c.Window.Height,
		VSync:                  c.Window.VSync,
		Background:             c.Window.Background,
		MessageCapture:         c.Input.MessageCapture,
		Rendering:              c.Loop.Rendering,
		ModifierDisambiguation: c.Input.ModifierDisambiguation,
		IsolateRenderFaults:    c.Loop.IsolateRenderFaults,
		FixedStep:              c.Loop.FixedStep,
		MaxCatchUp:             c.Loop.MaxCatchUp,
		TargetFPS:              c.Loop.TargetFPS,
	}
}
