package config

import (
	"strconv"
	"strings"
)

// LookupFunc reads an environment variable.
type LookupFunc func(key string) (string, bool)

// Environment variables that override file settings.
const (
	EnvPlaceholder       = "EDITCONTEXT_PLACEHOLDER"
	EnvPlaceholderPolicy = "EDITCONTEXT_PLACEHOLDER_POLICY"
	EnvLogLevel          = "EDITCONTEXT_LOG_LEVEL"
	EnvLogFile           = "EDITCONTEXT_LOG_FILE"
	EnvWrap              = "EDITCONTEXT_WRAP"
)

// ApplyEnv overrides cfg with any set environment variables. Empty values
// are treated as set, so EDITCONTEXT_PLACEHOLDER= starts with an empty text.
// Unparseable numbers are ignored.
func ApplyEnv(cfg *Config, lookup LookupFunc) {
	if lookup == nil {
		return
	}
	if v, ok := lookup(EnvPlaceholder); ok {
		cfg.Editor.Placeholder = v
	}
	if v, ok := lookup(EnvPlaceholderPolicy); ok {
		cfg.Editor.PlaceholderPolicy = strings.TrimSpace(v)
	}
	if v, ok := lookup(EnvLogLevel); ok {
		cfg.Log.Level = strings.TrimSpace(v)
	}
	if v, ok := lookup(EnvLogFile); ok {
		cfg.Log.File = v
	}
	if v, ok := lookup(EnvWrap); ok {
		if n, err := strconv.Atoi(strings.TrimSpace(v)); err == nil {
			cfg.Render.Wrap = n
		}
	}
}

// MapLookup returns a LookupFunc backed by a map.
func MapLookup(env map[string]string) LookupFunc {
	return func(key string) (string, bool) {
		v, ok := env[key]
		return v, ok
	}
}
