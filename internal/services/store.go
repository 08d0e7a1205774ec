package services

import (
	"context"
	stderrors "errors"
	"time"

	"github.com/dedocracia/dedocracia/internal/errors"
)

// DefaultStoreTimeout bounds every store access made by a service. A wedged
// store reports Unavailable instead of hanging the caller.
const DefaultStoreTimeout = 5 * time.Second

// storeContext derives a bounded context for a single store access
func storeContext(ctx context.Context, timeout time.Duration) (context.Context, context.CancelFunc) {
	if timeout <= 0 {
		timeout = DefaultStoreTimeout
	}
	return context.WithTimeout(ctx, timeout)
}

// storeErr classifies a store error: deadline expiry becomes Unavailable so
// the caller knows to retry to find out, everything else passes through.
func storeErr(op string, err error) error {
	if stderrors.Is(err, context.DeadlineExceeded) {
		return errors.Unavailable(op+" timed out", err)
	}
	return err
}
