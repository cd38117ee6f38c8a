package mock

import (
	"context"

	"github.com/Sam9733/docsnap"
)

var _ docsnap.PageWriter = (*PageWriter)(nil)

// PageWriter is a mock implementation of docsnap.PageWriter.
type PageWriter struct {
	AppendFn func(ctx context.Context, page docsnap.PageRecord) error
	FlushFn  func(ctx context.Context) error
}

func (w *PageWriter) Append(ctx context.Context, page docsnap.PageRecord) error {
	return w.AppendFn(ctx, page)
}

func (w *PageWriter) Flush(ctx context.Context) error {
	return w.FlushFn(ctx)
}
