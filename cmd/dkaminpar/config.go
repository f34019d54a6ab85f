package main

import (
	"strings"

	"github.com/go-viper/mapstructure/v2"
	"github.com/spf13/viper"

	"github.com/nkusla/dkaminpar-go/pkg/config"
)

// loadConfig layers a config.Config the same way anvil's CLI layers
// its own config: defaults, then an optional YAML file, then
// DKAMINPAR_-prefixed environment variables. Flag overrides are applied
// by the caller after this returns, since only the caller knows which
// flags the user actually set.
func loadConfig(configPath string) (*config.Config, error) {
	cfg := config.Default()

	v := viper.New()
	v.SetEnvPrefix("DKAMINPAR")
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()
	// AutomaticEnv alone does not make Unmarshal see keys that are absent
	// from the config file, so every Config key is bound explicitly.
	for _, key := range []string{
		"processes", "threads", "blocks", "imbalance",
		"coarsening.max_levels", "coarsening.contraction_threshold",
		"coarsening.max_cluster_weight", "coarsening.clusterer_iterations",
		"input.path", "input.split_mode",
	} {
		if err := v.BindEnv(key); err != nil {
			return nil, err
		}
	}

	if configPath != "" {
		v.SetConfigFile(configPath)
		if err := v.ReadInConfig(); err != nil {
			return nil, err
		}
	}

	decodeHook := viper.DecoderConfigOption(func(c *mapstructure.DecoderConfig) {
		c.TagName = "yaml"
	})
	if err := v.Unmarshal(cfg, decodeHook); err != nil {
		return nil, err
	}

	return cfg, nil
}
