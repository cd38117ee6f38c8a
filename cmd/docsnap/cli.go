package main

import (
	"context"
	"io"
	"log/slog"

	"github.com/Sam9733/docsnap"
	"github.com/Sam9733/docsnap/refresh"
)

// Dependencies holds all services and configuration for command execution.
type Dependencies struct {
	Ctx       context.Context
	Stdout    io.Writer
	Stderr    io.Writer
	Logger    *slog.Logger
	Config    docsnap.Config
	Snapshots docsnap.SnapshotService
	Refresher *refresh.Refresher
	Reader    docsnap.SnapshotReader
}

// CLI defines the command-line interface structure for Kong.
type CLI struct {
	Config string `short:"c" type:"path" help:"Config file (YAML, JSON or TOML)"`
	DB     string `name:"db" env:"DOCSNAP_DB" help:"Snapshot store path, overrides store.path"`
	Debug  bool   `help:"Enable debug logging"`

	Refresh RefreshCmd `cmd:"" help:"Refresh every source now and wait for the result"`
	Show    ShowCmd    `cmd:"" help:"Show the current snapshot of a source"`
	Sources SourcesCmd `cmd:"" help:"List configured sources"`
	Run     RunCmd     `cmd:"" help:"Refresh on a schedule until interrupted"`
}

// RefreshCmd is the "refresh" subcommand.
type RefreshCmd struct{}

// ShowCmd is the "show" subcommand.
type ShowCmd struct {
	Source string `arg:"" help:"Source ID"`
	Full   bool   `help:"Print full page content"`
	Export string `type:"path" help:"Write pages as markdown files under this directory"`
}

// SourcesCmd is the "sources" subcommand.
type SourcesCmd struct{}

// RunCmd is the "run" subcommand.
type RunCmd struct {
	Schedule string `help:"Cron schedule, overrides refresh.schedule"`
}
