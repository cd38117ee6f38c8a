// Package viper loads docsnap configuration from files and the environment.
package viper

import (
	"fmt"
	"strings"

	"github.com/Sam9733/docsnap"
	"github.com/spf13/viper"
)

// EnvPrefix prefixes every environment override, e.g. DOCSNAP_STORE_PATH.
const EnvPrefix = "DOCSNAP"

// Load builds a Config from defaults, an optional config file at path and
// DOCSNAP_* environment variables, in increasing order of precedence.
// An empty path skips the file.
func Load(path string) (docsnap.Config, error) {
	v := viper.New()
	v.SetEnvPrefix(EnvPrefix)
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	setDefaults(v, docsnap.DefaultConfig())

	if path != "" {
		v.SetConfigFile(path)
		if err := v.ReadInConfig(); err != nil {
			return docsnap.Config{}, fmt.Errorf("read config: %w", err)
		}
	}

	cfg := docsnap.DefaultConfig()
	cfg.Sources = nil
	if err := v.Unmarshal(&cfg); err != nil {
		return docsnap.Config{}, fmt.Errorf("unmarshal config: %w", err)
	}

	if len(cfg.Sources) == 0 {
		cfg.Sources = docsnap.DefaultSources()
	}
	for i := range cfg.Sources {
		cfg.Sources[i].ApplyDefaults()
	}

	if cfg.Staleness.Threshold == 0 {
		switch cfg.Staleness.Mode {
		case docsnap.StalenessWarn:
			cfg.Staleness.Threshold = docsnap.DefaultWarnThreshold
		case docsnap.StalenessTrigger:
			cfg.Staleness.Threshold = docsnap.DefaultTriggerThreshold
		}
	}

	if err := cfg.Validate(); err != nil {
		return docsnap.Config{}, err
	}

	return cfg, nil
}

// setDefaults registers every scalar key so environment variables can
// override keys that the config file does not mention.
func setDefaults(v *viper.Viper, d docsnap.Config) {
	v.SetDefault("fetch.timeout", d.Fetch.Timeout)
	v.SetDefault("fetch.user_agent", d.Fetch.UserAgent)
	v.SetDefault("fetch.max_attempts", d.Fetch.MaxAttempts)
	v.SetDefault("fetch.retry_base_delay", d.Fetch.RetryBaseDelay)
	v.SetDefault("fetch.polite_delay", d.Fetch.PoliteDelay)
	v.SetDefault("fetch.polite_jitter", d.Fetch.PoliteJitter)
	v.SetDefault("fetch.rate_limit", d.Fetch.RateLimit)
	v.SetDefault("crawl.concurrency", d.Crawl.Concurrency)
	v.SetDefault("refresh.schedule", d.Refresh.Schedule)
	v.SetDefault("staleness.mode", string(d.Staleness.Mode))
	// Zero means the mode's default threshold.
	v.SetDefault("staleness.threshold", "0s")
	v.SetDefault("store.driver", d.Store.Driver)
	v.SetDefault("store.path", d.Store.Path)
}
