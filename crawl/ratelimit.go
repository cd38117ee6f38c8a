package crawl

import (
	"context"
	"strings"
	"sync"

	"github.com/Sam9733/docsnap"
	"golang.org/x/time/rate"
)

var _ docsnap.DomainLimiter = (*DomainLimiter)(nil)

// DomainLimiter spaces requests per host with a token bucket of burst 1.
// Sources crawled concurrently may share a host; one DomainLimiter passed
// to their Crawler bounds the combined rate against that host. Host names
// are compared case-insensitively.
type DomainLimiter struct {
	limit rate.Limit

	mu    sync.Mutex
	hosts map[string]*rate.Limiter
}

// NewDomainLimiter returns a limiter allowing rps requests per second to
// each host. A non-positive rps disables limiting.
func NewDomainLimiter(rps float64) *DomainLimiter {
	return &DomainLimiter{
		limit: rate.Limit(rps),
		hosts: make(map[string]*rate.Limiter),
	}
}

// Wait blocks until a request to host is allowed or ctx is done.
func (d *DomainLimiter) Wait(ctx context.Context, host string) error {
	if d.limit <= 0 {
		return ctx.Err()
	}
	return d.bucket(host).Wait(ctx)
}

func (d *DomainLimiter) bucket(host string) *rate.Limiter {
	host = strings.ToLower(host)

	d.mu.Lock()
	defer d.mu.Unlock()

	l, ok := d.hosts[host]
	if !ok {
		l = rate.NewLimiter(d.limit, 1)
		d.hosts[host] = l
	}
	return l
}
