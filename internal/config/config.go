package config

import (
	"errors"

	"github.com/dshills/editcontext/internal/engine"
	"github.com/dshills/editcontext/internal/logging"
	"github.com/dshills/editcontext/internal/render"
)

// Config is the complete editcontext configuration.
type Config struct {
	Editor EditorConfig `toml:"editor" yaml:"editor"`
	Render RenderConfig `toml:"render" yaml:"render"`
	Log    LogConfig    `toml:"log" yaml:"log"`
}

// EditorConfig configures the edit engine. These settings apply when an
// engine is created and are not changed by live reload.
type EditorConfig struct {
	// Placeholder is the initial text, discarded by the first edit.
	Placeholder string `toml:"placeholder" yaml:"placeholder"`

	// PlaceholderPolicy selects which edits discard the placeholder:
	// "text_update" or "any_edit".
	PlaceholderPolicy string `toml:"placeholder_policy" yaml:"placeholder_policy"`
}

// RenderConfig configures the terminal renderer.
type RenderConfig struct {
	Wrap       int  `toml:"wrap" yaml:"wrap"`
	TabWidth   int  `toml:"tab_width" yaml:"tab_width"`
	ShowStatus bool `toml:"show_status" yaml:"show_status"`
}

// LogConfig configures logging.
type LogConfig struct {
	Level string `toml:"level" yaml:"level"`

	// File receives log output. Empty disables logging in the interactive
	// demo, since the terminal is owned by the editor.
	File string `toml:"file" yaml:"file"`
}

// Default returns the built-in configuration.
func Default() *Config {
	return &Config{
		Editor: EditorConfig{
			Placeholder:       engine.DefaultPlaceholder,
			PlaceholderPolicy: engine.PlaceholderClearOnTextUpdate.String(),
		},
		Render: RenderConfig{
			Wrap:       0,
			TabWidth:   render.DefaultTabWidth,
			ShowStatus: true,
		},
		Log: LogConfig{
			Level: "info",
		},
	}
}

// Validate checks every setting and returns all failures joined.
func (c *Config) Validate() error {
	var errs []error

	if _, err := engine.ParsePlaceholderPolicy(c.Editor.PlaceholderPolicy); err != nil {
		errs = append(errs, &ValidationError{
			Path:    "editor.placeholder_policy",
			Message: "must be text_update or any_edit",
			Value:   c.Editor.PlaceholderPolicy,
		})
	}
	if c.Render.Wrap < 0 {
		errs = append(errs, &ValidationError{
			Path:    "render.wrap",
			Message: "must not be negative",
			Value:   c.Render.Wrap,
		})
	}
	if c.Render.TabWidth < 1 || c.Render.TabWidth > 16 {
		errs = append(errs, &ValidationError{
			Path:    "render.tab_width",
			Message: "must be between 1 and 16",
			Value:   c.Render.TabWidth,
		})
	}
	if !logging.ValidLevel(c.Log.Level) {
		errs = append(errs, &ValidationError{
			Path:    "log.level",
			Message: "must be debug, info, warn or error",
			Value:   c.Log.Level,
		})
	}

	return errors.Join(errs...)
}

// EngineOptions returns the engine options described by the editor section.
// The config must have passed Validate.
func (c *Config) EngineOptions() []engine.Option {
	policy, _ := engine.ParsePlaceholderPolicy(c.Editor.PlaceholderPolicy)
	return []engine.Option{
		engine.WithPlaceholder(c.Editor.Placeholder),
		engine.WithPlaceholderPolicy(policy),
	}
}

// RenderOptions returns terminal renderer options for the render section.
func (c *Config) RenderOptions() render.Options {
	opts := render.DefaultOptions()
	opts.Wrap = c.Render.Wrap
	opts.TabWidth = c.Render.TabWidth
	opts.ShowStatus = c.Render.ShowStatus
	return opts
}
