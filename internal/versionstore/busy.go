package versionstore

import (
	"context"
	"errors"
	"strings"
	"time"
)

// sqliteBusy is the primary result code for SQLITE_BUSY; extended codes
// carry it in the low byte.
const sqliteBusy = 5

// busyBackoff lists the waits between attempts that still fail with
// SQLITE_BUSY after busy_timeout expired.
var busyBackoff = []time.Duration{
	10 * time.Millisecond,
	20 * time.Millisecond,
	40 * time.Millisecond,
	80 * time.Millisecond,
}

func isBusy(err error) bool {
	var coded interface{ Code() int }
	if errors.As(err, &coded) {
		return coded.Code()&0xff == sqliteBusy
	}
	return err != nil && strings.Contains(err.Error(), "database is locked")
}

// retryOnBusy runs op until it succeeds, fails with a non-busy error, or
// the backoff schedule runs out.
func retryOnBusy(ctx context.Context, op func() error) error {
	err := op()
	for _, wait := range busyBackoff {
		if !isBusy(err) {
			return err
		}
		timer := time.NewTimer(wait)
		select {
		case <-ctx.Done():
			timer.Stop()
			return ctx.Err()
		case <-timer.C:
		}
		err = op()
	}
	return err
}
