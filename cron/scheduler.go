// Package cron triggers refreshes on a cron schedule.
package cron

import (
	"context"
	"fmt"
	"io"
	"log/slog"

	"github.com/Sam9733/docsnap"
	"github.com/robfig/cron/v3"
)

// parser accepts standard five-field expressions and descriptors such as
// "@hourly" and "@every 6h".
var parser = cron.NewParser(cron.Minute | cron.Hour | cron.Dom | cron.Month | cron.Dow | cron.Descriptor)

// Scheduler calls Refresher.Trigger on every tick of its schedule.
// Ticks that arrive while a refresh is running are rejected by the
// refresher and simply logged.
type Scheduler struct {
	cron      *cron.Cron
	refresher docsnap.Refresher
	logger    *slog.Logger
}

// NewScheduler returns a stopped scheduler for spec.
func NewScheduler(spec string, refresher docsnap.Refresher, logger *slog.Logger) (*Scheduler, error) {
	if logger == nil {
		logger = slog.New(slog.NewTextHandler(io.Discard, nil))
	}
	if _, err := parser.Parse(spec); err != nil {
		return nil, docsnap.Errorf(docsnap.EINVALID, "invalid refresh schedule %q: %v", spec, err)
	}

	s := &Scheduler{
		refresher: refresher,
		logger:    logger.With("schedule", spec),
	}
	s.cron = cron.New(
		cron.WithParser(parser),
		cron.WithChain(cron.Recover(cronLogger{s.logger})),
		cron.WithLogger(cronLogger{s.logger}),
	)
	if _, err := s.cron.AddFunc(spec, s.tick); err != nil {
		return nil, fmt.Errorf("schedule refresh: %w", err)
	}
	return s, nil
}

// Start runs the scheduler in its own goroutine.
func (s *Scheduler) Start() {
	s.cron.Start()
	s.logger.Info("refresh scheduler started")
}

// Stop stops the scheduler. The returned context is done once a tick in
// progress has returned. Refreshes already triggered keep running.
func (s *Scheduler) Stop() context.Context {
	ctx := s.cron.Stop()
	s.logger.Info("refresh scheduler stopped")
	return ctx
}

// Tick triggers a refresh immediately, as a scheduled tick would.
func (s *Scheduler) Tick() {
	s.tick()
}

func (s *Scheduler) tick() {
	res := s.refresher.Trigger(context.Background())
	if res.Accepted {
		s.logger.Info("scheduled refresh started")
		return
	}
	s.logger.Info("scheduled refresh skipped", "reason", res.Message)
}

// cronLogger adapts slog to cron.Logger.
type cronLogger struct {
	logger *slog.Logger
}

func (l cronLogger) Info(msg string, keysAndValues ...any) {
	l.logger.Debug(msg, keysAndValues...)
}

func (l cronLogger) Error(err error, msg string, keysAndValues ...any) {
	l.logger.Error(msg, append([]any{"err", err}, keysAndValues...)...)
}
