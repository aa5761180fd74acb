// Package config loads lepton's advisory runtime tunables. spec.md §5
// notes that recursion depth is host-stack bounded and that
// implementations "should trampoline or bound it explicitly for
// adversarial inputs"; this package is where that bound (and the
// caches described in SPEC_FULL.md §1) come from. Nothing here is
// semantic state — spec.md §6's "Persisted state layout: none" still
// holds for terms, values and environments.
package config

import (
	"os"
	"path/filepath"

	"github.com/BurntSushi/toml"
	"github.com/adrg/xdg"
)

const dirName = "lepton"
const fileName = "core.toml"

// Config holds lepton's tunable knobs. Zero values are never used
// directly; Default fills them in and Load overlays whatever the file
// on disk sets.
type Config struct {
	MaxEvalDepth       int `toml:"max_eval_depth"`
	OverloadCacheSize  int `toml:"overload_cache_size"`
	NormalizeCacheSize int `toml:"normalize_cache_size"`
}

// Default returns the tunables lepton ships with when no config file
// is present.
func Default() Config {
	return Config{
		MaxEvalDepth:       4096,
		OverloadCacheSize:  1024,
		NormalizeCacheSize: 4096,
	}
}

// Load reads $XDG_CONFIG_HOME/lepton/core.toml, if present, over the
// defaults. A missing file is not an error; a malformed one is.
func Load() (Config, error) {
	cfg := Default()

	path, err := xdg.ConfigFile(filepath.Join(dirName, fileName))
	if err != nil {
		return cfg, nil
	}

	if _, err := os.Stat(path); err != nil {
		if os.IsNotExist(err) {
			return cfg, nil
		}
		return cfg, err
	}

	if _, err := toml.DecodeFile(path, &cfg); err != nil {
		return cfg, err
	}
	return cfg, nil
}
