package docsnap

import (
	"context"
	"time"
)

// RefreshStatus describes the process-wide refresh state.
type RefreshStatus struct {
	IsRefreshing  bool      `json:"isRefreshing"`
	AttemptID     string    `json:"attemptId,omitempty"`
	StartedAt     time.Time `json:"startedAt"`
	LastAttemptAt time.Time `json:"lastAttemptAt"`
	LastSuccessAt time.Time `json:"lastSuccessAt"`
	LastError     string    `json:"lastError,omitempty"`
}

// TriggerResult is the immediate answer to a refresh request.
type TriggerResult struct {
	Accepted bool   `json:"accepted"`
	Message  string `json:"message"`
}

// Refresher runs refreshes of every configured source, one at a time.
type Refresher interface {
	// Trigger starts a refresh in the background and returns immediately.
	// A trigger received while a refresh is running is rejected, not queued.
	Trigger(ctx context.Context) TriggerResult

	// Status returns the current refresh state.
	Status() RefreshStatus
}

// StalenessMode selects what a read does when it finds a stale snapshot.
type StalenessMode string

// Staleness modes.
const (
	StalenessOff     StalenessMode = "off"
	StalenessWarn    StalenessMode = "warn"
	StalenessTrigger StalenessMode = "trigger"
)

// Default staleness thresholds per mode.
const (
	DefaultTriggerThreshold = time.Hour
	DefaultWarnThreshold    = 12 * time.Hour
)

// StalenessPolicy decides how reads react to old snapshots.
type StalenessPolicy struct {
	Mode      StalenessMode `json:"mode" mapstructure:"mode"`
	Threshold time.Duration `json:"threshold" mapstructure:"threshold"`
}

// Validate returns an error if the policy is not usable.
func (p StalenessPolicy) Validate() error {
	switch p.Mode {
	case StalenessOff:
		return nil
	case StalenessWarn, StalenessTrigger:
		if p.Threshold <= 0 {
			return Errorf(EINVALID, "staleness threshold must be positive")
		}
		return nil
	default:
		return Errorf(EINVALID, "unknown staleness mode %q", p.Mode)
	}
}

// IsStale reports whether a snapshot captured at capturedAt is stale at now.
// A zero capturedAt (no snapshot yet) is always stale.
func (p StalenessPolicy) IsStale(capturedAt, now time.Time) bool {
	if p.Mode == StalenessOff {
		return false
	}
	if capturedAt.IsZero() {
		return true
	}
	return now.Sub(capturedAt) > p.Threshold
}
