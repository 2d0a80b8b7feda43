package cache

import (
	"context"
	"errors"
	"time"

	"go.uber.org/zap"
)

// Dumper is anything that can snapshot itself to durable storage.
type Dumper interface {
	Name() string
	Dump(ctx context.Context) error
}

// DumpAll dumps every cache and joins the failures.
func DumpAll(ctx context.Context, dumpers ...Dumper) error {
	var errs []error
	for _, d := range dumpers {
		if err := d.Dump(ctx); err != nil {
			errs = append(errs, err)
		}
	}
	return errors.Join(errs...)
}

// RunPeriodicDump dumps the caches every interval until ctx is done. Failures are logged
// and retried on the next tick. It blocks; run it in its own goroutine.
func RunPeriodicDump(ctx context.Context, interval time.Duration, logger *zap.Logger, dumpers ...Dumper) {
	if interval <= 0 {
		return
	}
	if logger == nil {
		logger = zap.NewNop()
	}

	ticker := time.NewTicker(interval)
	defer ticker.Stop()
	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			for _, d := range dumpers {
				if err := d.Dump(ctx); err != nil {
					logger.Warn("periodic cache dump failed", zap.String("cache", d.Name()), zap.Error(err))
				}
			}
		}
	}
}
