package config

import (
	"fmt"
	"os"

	"gopkg.in/yaml.v3"
)

// Config carries the parameters a partitioning run needs: how many
// ranks and threads to use, the target block count and imbalance, and
// the clustering/coarsening parameters that drive pkg/clusterer and
// pkg/contraction.
type Config struct {
	Processes int `yaml:"processes"`
	Threads   int `yaml:"threads"`

	Blocks     int     `yaml:"blocks"`
	Imbalance  float64 `yaml:"imbalance"`

	Coarsening Coarsening `yaml:"coarsening"`
	Input      Input      `yaml:"input"`
}

// Coarsening configures the clustering-contraction loop: how many
// rounds to run and the per-round maximum cluster weight.
type Coarsening struct {
	MaxLevels           int   `yaml:"max_levels"`
	ContractionThreshold uint64 `yaml:"contraction_threshold"`
	MaxClusterWeight    int64 `yaml:"max_cluster_weight"`
	ClustererIterations int   `yaml:"clusterer_iterations"`
}

// Input configures how the input graph file is read and partitioned
// across ranks.
type Input struct {
	Path      string `yaml:"path"`
	SplitMode string `yaml:"split_mode"` // "vertex" or "edge"
}

// Load reads and validates a Config from a YAML file at configPath.
func Load(configPath string) (*Config, error) {
	data, err := os.ReadFile(configPath)
	if err != nil {
		return nil, fmt.Errorf("failed to read config file %s: %w", configPath, err)
	}

	cfg := Default()
	if err := yaml.Unmarshal(data, cfg); err != nil {
		return nil, fmt.Errorf("failed to parse config file %s: %w", configPath, err)
	}

	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

// Default returns a Config with reasonable defaults, layered under
// whatever a caller (e.g. cmd/dkaminpar's flags) overrides.
func Default() *Config {
	return &Config{
		Processes: 1,
		Threads:   0,
		Blocks:    2,
		Imbalance: 0.03,
		Coarsening: Coarsening{
			MaxLevels:            0,
			ContractionThreshold: 2000,
			MaxClusterWeight:     1 << 20,
			ClustererIterations:  10,
		},
		Input: Input{
			SplitMode: "vertex",
		},
	}
}

// Validate checks that the configuration describes a runnable
// partitioning: at least one process, at least two blocks, and a
// recognized split mode.
func (c *Config) Validate() error {
	if c.Processes < 1 {
		return fmt.Errorf("processes must be >= 1, got %d", c.Processes)
	}
	if c.Blocks < 2 {
		return fmt.Errorf("blocks must be >= 2, got %d", c.Blocks)
	}
	if c.Imbalance < 0 {
		return fmt.Errorf("imbalance must be >= 0, got %f", c.Imbalance)
	}
	switch c.Input.SplitMode {
	case "vertex", "edge":
	default:
		return fmt.Errorf("split_mode must be \"vertex\" or \"edge\", got %q", c.Input.SplitMode)
	}
	return nil
}
