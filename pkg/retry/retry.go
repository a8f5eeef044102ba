// pkg/retry/retry.go - fixed-interval polling with a deadline.

package retry

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/windowsadmins/skcom/pkg/logging"
)

// ErrTimeout is returned when the condition is still unmet at the deadline.
var ErrTimeout = errors.New("timed out waiting for condition")

// DefaultInterval is the wait between condition checks.
const DefaultInterval = 500 * time.Millisecond

// PollConfig defines how long and how often to check a condition.
type PollConfig struct {
	Interval time.Duration // zero means DefaultInterval
	Timeout  time.Duration // zero means no deadline beyond ctx
}

// Until calls cond until it reports done, an error, the timeout passes, or
// ctx is cancelled. cond runs once before the first sleep, so a condition
// that already holds returns without waiting.
func Until(ctx context.Context, cfg PollConfig, cond func(ctx context.Context) (bool, error)) error {
	interval := cfg.Interval
	if interval <= 0 {
		interval = DefaultInterval
	}
	if cfg.Timeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, cfg.Timeout)
		defer cancel()
	}

	ticker := time.NewTicker(interval)
	defer ticker.Stop()

	for attempt := 1; ; attempt++ {
		done, err := cond(ctx)
		if err != nil {
			return err
		}
		if done {
			logging.Debug("Poll condition met", "attempts", attempt)
			return nil
		}

		select {
		case <-ctx.Done():
			if errors.Is(ctx.Err(), context.DeadlineExceeded) && cfg.Timeout > 0 {
				return fmt.Errorf("%w after %s (%d checks)", ErrTimeout, cfg.Timeout, attempt)
			}
			return ctx.Err()
		case <-ticker.C:
		}
	}
}
