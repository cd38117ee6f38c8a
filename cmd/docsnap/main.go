package main

import (
	"context"
	"errors"
	"fmt"
	"io"
	"io/fs"
	"log/slog"
	"os"
	"os/signal"
	"syscall"

	"github.com/Sam9733/docsnap"
	"github.com/Sam9733/docsnap/crawl"
	dsfs "github.com/Sam9733/docsnap/fs"
	"github.com/Sam9733/docsnap/goquery"
	dshttp "github.com/Sam9733/docsnap/http"
	"github.com/Sam9733/docsnap/refresh"
	dsslog "github.com/Sam9733/docsnap/slog"
	"github.com/Sam9733/docsnap/sqlite"
	"github.com/Sam9733/docsnap/viper"
	"github.com/alecthomas/kong"
	"github.com/joho/godotenv"
)

func main() {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	if err := godotenv.Load(); err != nil && !errors.Is(err, fs.ErrNotExist) {
		fmt.Fprintf(os.Stderr, "warning: failed to load .env: %v\n", err)
	}

	m := NewMain()

	if err := m.Run(ctx, os.Args[1:], os.Stdout, os.Stderr); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

// Main represents the program.
type Main struct {
	// SQLite database, when the sqlite store is selected.
	DB *sqlite.DB

	// Fetcher used by refreshes. Set before calling Run() to replace the
	// HTTP fetcher, e.g. in end-to-end tests.
	Fetcher docsnap.Fetcher
}

// NewMain returns a new instance of Main with defaults.
func NewMain() *Main {
	return &Main{}
}

// Close gracefully stops the program.
func (m *Main) Close() error {
	var errs []error
	if m.Fetcher != nil {
		errs = append(errs, m.Fetcher.Close())
	}
	if m.DB != nil {
		errs = append(errs, m.DB.Close())
	}
	return errors.Join(errs...)
}

// Run executes the CLI with the given arguments.
func (m *Main) Run(ctx context.Context, args []string, stdout, stderr io.Writer) error {
	cli := &CLI{}
	parser, err := kong.New(cli,
		kong.Name("docsnap"),
		kong.Description("Crawl documentation sources into snapshots and keep them fresh"),
		kong.Writers(stdout, stderr),
		kong.Exit(func(int) {}), // Don't exit on help
	)
	if err != nil {
		return fmt.Errorf("failed to create parser: %w", err)
	}

	if len(args) == 0 {
		_, _ = parser.Parse([]string{"--help"})
		return fmt.Errorf("no command specified. Run 'docsnap --help' to see available commands")
	}

	cmd := args[0]
	if cmd == "help" || cmd == "--help" || cmd == "-h" {
		_, _ = parser.Parse([]string{"--help"})
		return nil
	}

	kongCtx, err := parser.Parse(args)
	if err != nil {
		return err
	}

	cfg, err := viper.Load(cli.Config)
	if err != nil {
		return fmt.Errorf("failed to load config: %w", err)
	}
	if cli.DB != "" {
		cfg.Store.Path = cli.DB
	}

	level := slog.LevelInfo
	if cli.Debug {
		level = slog.LevelDebug
	}
	logger := slog.New(slog.NewTextHandler(stderr, &slog.HandlerOptions{Level: level}))

	snapshots, err := m.openStore(cfg.Store)
	if err != nil {
		fmt.Fprintf(stderr, "Hint: Set DOCSNAP_DB or --db to use a different store path\n")
		return err
	}
	defer m.Close()
	snapshots = dsslog.NewLoggingSnapshotService(snapshots, logger)

	if m.Fetcher == nil {
		m.Fetcher = dshttp.NewFetcher(
			dshttp.WithTimeout(cfg.Fetch.Timeout),
			dshttp.WithUserAgent(cfg.Fetch.UserAgent),
		)
	}

	deps := &Dependencies{
		Ctx:       ctx,
		Stdout:    stdout,
		Stderr:    stderr,
		Logger:    logger,
		Config:    cfg,
		Snapshots: snapshots,
	}
	deps.Refresher, deps.Reader = wireRefresh(cfg, m.Fetcher, snapshots, logger)

	return kongCtx.Run(deps)
}

// openStore opens the snapshot store selected by cfg.
func (m *Main) openStore(cfg docsnap.StoreConfig) (docsnap.SnapshotService, error) {
	switch cfg.Driver {
	case docsnap.StoreFS:
		return dsfs.NewSnapshotStore(cfg.Path), nil
	default:
		m.DB = sqlite.NewDB(cfg.Path)
		if err := m.DB.Open(); err != nil {
			m.DB = nil
			return nil, fmt.Errorf("failed to open database at %q: %w", cfg.Path, err)
		}
		return sqlite.NewSnapshotService(m.DB), nil
	}
}

// wireRefresh builds the refresh pipeline from configuration.
func wireRefresh(cfg docsnap.Config, fetcher docsnap.Fetcher, snapshots docsnap.SnapshotService, logger *slog.Logger) (*refresh.Refresher, *refresh.Reader) {
	crawler := &crawl.Crawler{
		Fetcher:   dsslog.NewLoggingFetcher(fetcher, logger),
		Extractor: goquery.NewExtractor(),
		Retry: &crawl.RetryPolicy{
			MaxAttempts: cfg.Fetch.MaxAttempts,
			BaseDelay:   cfg.Fetch.RetryBaseDelay,
			Retryable:   docsnap.IsTransient,
		},
		Politeness: crawl.Politeness{
			Min:    cfg.Fetch.PoliteDelay,
			Jitter: cfg.Fetch.PoliteJitter,
		},
		Logger: logger,
	}
	if cfg.Fetch.RateLimit > 0 {
		crawler.RateLimiter = crawl.NewDomainLimiter(cfg.Fetch.RateLimit)
	}

	coordinator := &refresh.Coordinator{
		Sources:     cfg.Sources,
		Snapshots:   snapshots,
		Crawler:     crawler,
		Concurrency: cfg.Crawl.Concurrency,
		Logger:      logger,
	}

	refresher := refresh.NewRefresher(coordinator, logger)
	reader := &refresh.Reader{
		Snapshots: snapshots,
		Refresher: refresher,
		Policy:    cfg.Staleness,
		Logger:    logger,
	}
	return refresher, reader
}
