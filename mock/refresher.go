package mock

import (
	"context"

	"github.com/Sam9733/docsnap"
)

var _ docsnap.Refresher = (*Refresher)(nil)

// Refresher is a mock implementation of docsnap.Refresher.
type Refresher struct {
	TriggerFn func(ctx context.Context) docsnap.TriggerResult
	StatusFn  func() docsnap.RefreshStatus
}

func (r *Refresher) Trigger(ctx context.Context) docsnap.TriggerResult {
	return r.TriggerFn(ctx)
}

func (r *Refresher) Status() docsnap.RefreshStatus {
	return r.StatusFn()
}
