package main

import (
	"os"

	"gopkg.in/yaml.v3"
)

// config is the demo's run-time configuration: buffer capacity, one-shot
// default, iteration count, and the dump format to request at the end of
// the run. Loaded from YAML instead of compiled in, since the CLI has no
// preprocessor to select these at build time the way the original
// project's header-based configuration did.
type config struct {
	Capacity   int  `yaml:"capacity"`
	OneShot    bool `yaml:"one_shot"`
	Iterations int  `yaml:"iterations"`
	DumpFormat int  `yaml:"dump_format"`
}

func defaultConfig() config {
	return config{
		Capacity:   256,
		OneShot:    false,
		Iterations: 100,
		DumpFormat: 0,
	}
}

func loadConfig(path string) (config, error) {
	cfg := defaultConfig()
	if path == "" {
		return cfg, nil
	}

	b, err := os.ReadFile(path)
	if err != nil {
		return cfg, err
	}
	if err := yaml.Unmarshal(b, &cfg); err != nil {
		return cfg, err
	}
	return cfg, nil
}
