// Package config loads and watches the editcontext configuration.
//
// Configuration is resolved in layers, higher layers overriding lower:
//
//	┌─────────────────────────────┐
//	│  3. Environment Variables   │  ← EDITCONTEXT_*
//	├─────────────────────────────┤
//	│  2. Config File             │  ← --config (TOML or YAML)
//	├─────────────────────────────┤
//	│  1. Built-in Defaults       │  ← Default()
//	└─────────────────────────────┘
//
// The file format is chosen by extension: .toml files are decoded with
// go-toml, .yaml and .yml files with yaml.v3. Unknown keys are rejected.
//
// # Live Reload
//
// A Watcher observes the config file with fsnotify and delivers a freshly
// loaded Config on its Updates channel after edits settle:
//
//	w, err := config.NewWatcher(path)
//	if err != nil {
//	    return err
//	}
//	defer w.Close()
//
//	for cfg := range w.Updates() {
//	    apply(cfg)
//	}
package config
