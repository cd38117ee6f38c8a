package docsnap

import "time"

// Config holds everything needed to build the refresh pipeline.
type Config struct {
	Sources   []Source        `mapstructure:"sources"`
	Fetch     FetchConfig     `mapstructure:"fetch"`
	Crawl     CrawlConfig     `mapstructure:"crawl"`
	Refresh   RefreshConfig   `mapstructure:"refresh"`
	Staleness StalenessPolicy `mapstructure:"staleness"`
	Store     StoreConfig     `mapstructure:"store"`
}

// FetchConfig controls single page fetches and their retries.
type FetchConfig struct {
	Timeout        time.Duration `mapstructure:"timeout"`
	UserAgent      string        `mapstructure:"user_agent"`
	MaxAttempts    int           `mapstructure:"max_attempts"`
	RetryBaseDelay time.Duration `mapstructure:"retry_base_delay"`
	PoliteDelay    time.Duration `mapstructure:"polite_delay"`
	PoliteJitter   time.Duration `mapstructure:"polite_jitter"`
	RateLimit      float64       `mapstructure:"rate_limit"` // requests per second per host; 0 disables
}

// CrawlConfig controls how sources are crawled relative to each other.
type CrawlConfig struct {
	Concurrency int `mapstructure:"concurrency"`
}

// RefreshConfig controls scheduled refreshes.
type RefreshConfig struct {
	Schedule string `mapstructure:"schedule"`
}

// Store drivers.
const (
	StoreSQLite = "sqlite"
	StoreFS     = "fs"
)

// StoreConfig selects and locates the snapshot store.
type StoreConfig struct {
	Driver string `mapstructure:"driver"`
	Path   string `mapstructure:"path"`
}

// DefaultSources returns the built-in documentation sources.
func DefaultSources() []Source {
	return []Source{
		{
			ID:              "handbook",
			RootURL:         "https://handbook.gitlab.com/handbook",
			MaxPages:        DefaultMaxPages,
			MaxLinksPerPage: DefaultMaxLinksPerPage,
			BatchSize:       DefaultBatchSize,
		},
		{
			ID:              "direction",
			RootURL:         "https://about.gitlab.com/direction",
			MaxPages:        DefaultMaxPages,
			MaxLinksPerPage: DefaultMaxLinksPerPage,
			BatchSize:       DefaultBatchSize,
		},
	}
}

// DefaultConfig returns a Config with every field set to its default.
func DefaultConfig() Config {
	return Config{
		Sources: DefaultSources(),
		Fetch: FetchConfig{
			Timeout:        10 * time.Second,
			UserAgent:      "docsnap/1.0",
			MaxAttempts:    3,
			RetryBaseDelay: time.Second,
			PoliteDelay:    500 * time.Millisecond,
			PoliteJitter:   500 * time.Millisecond,
		},
		Crawl: CrawlConfig{
			Concurrency: 1,
		},
		Refresh: RefreshConfig{
			Schedule: "@every 6h",
		},
		Staleness: StalenessPolicy{
			Mode:      StalenessTrigger,
			Threshold: DefaultTriggerThreshold,
		},
		Store: StoreConfig{
			Driver: StoreSQLite,
			Path:   "docsnap.db",
		},
	}
}

// Validate returns an error if the configuration cannot be used.
func (c *Config) Validate() error {
	if len(c.Sources) == 0 {
		return Errorf(EINVALID, "at least one source required")
	}
	seen := make(map[string]bool, len(c.Sources))
	for i := range c.Sources {
		if err := c.Sources[i].Validate(); err != nil {
			return err
		}
		if seen[c.Sources[i].ID] {
			return Errorf(EINVALID, "duplicate source %q", c.Sources[i].ID)
		}
		seen[c.Sources[i].ID] = true
	}
	if c.Fetch.Timeout <= 0 {
		return Errorf(EINVALID, "fetch timeout must be positive")
	}
	if c.Fetch.MaxAttempts <= 0 {
		return Errorf(EINVALID, "fetch max attempts must be positive")
	}
	if c.Fetch.RetryBaseDelay < 0 || c.Fetch.PoliteDelay < 0 || c.Fetch.PoliteJitter < 0 {
		return Errorf(EINVALID, "fetch delays must not be negative")
	}
	if c.Crawl.Concurrency <= 0 {
		return Errorf(EINVALID, "crawl concurrency must be positive")
	}
	if err := c.Staleness.Validate(); err != nil {
		return err
	}
	switch c.Store.Driver {
	case StoreSQLite, StoreFS:
	default:
		return Errorf(EINVALID, "unknown store driver %q", c.Store.Driver)
	}
	if c.Store.Path == "" {
		return Errorf(EINVALID, "store path required")
	}
	return nil
}
