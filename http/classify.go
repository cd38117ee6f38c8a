package http

import (
	"context"
	"errors"
	"net"
	"strings"
	"syscall"

	"github.com/Sam9733/docsnap"
)

// Classify decides whether a transport error is worth retrying.
//
// Connection resets, hang ups, timeouts and DNS resolution failures are
// transient. Everything else, including cancellation by the caller, is
// permanent.
func Classify(err error) docsnap.FetchErrorKind {
	if err == nil || errors.Is(err, context.Canceled) {
		return docsnap.Permanent
	}
	if errors.Is(err, context.DeadlineExceeded) {
		return docsnap.Transient
	}
	if errors.Is(err, syscall.ECONNRESET) {
		return docsnap.Transient
	}

	var dnsErr *net.DNSError
	if errors.As(err, &dnsErr) {
		return docsnap.Transient
	}

	var netErr net.Error
	if errors.As(err, &netErr) && netErr.Timeout() {
		return docsnap.Transient
	}

	msg := strings.ToLower(err.Error())
	if strings.Contains(msg, "hang up") || strings.Contains(msg, "connection reset") {
		return docsnap.Transient
	}
	return docsnap.Permanent
}
