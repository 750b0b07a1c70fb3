package metrics

import (
	"context"
	"time"
)

type tickFunc = func(ctx context.Context) error

// RecordPollerDuration wraps a poller tick so its wall-clock duration and
// outcome land in the poller duration histogram.
func RecordPollerDuration(poller string, tick tickFunc) tickFunc {
	return func(ctx context.Context) error {
		start := time.Now()
		err := tick(ctx)

		outcome := Success
		if err != nil {
			outcome = Error
		}
		pollerDurationHistogram.WithLabelValues(poller, outcome.String()).Observe(time.Since(start).Seconds())

		return err
	}
}
