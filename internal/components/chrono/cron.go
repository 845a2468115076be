package chrono

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/robfig/cron/v3"
)

// Schedule tells when the next run after a given time should happen.
type Schedule interface {
	Next(time.Time) time.Time
}

// ParseSchedule accepts standard 5 field cron specs ("*/2 7-20 * * *") as well
// as descriptors like "@every 30s" and "@hourly". Specs are evaluated in `loc`
// unless they carry their own CRON_TZ= prefix.
func ParseSchedule(spec string, loc *time.Location) (Schedule, error) {
	if loc != nil && !strings.HasPrefix(spec, "TZ=") && !strings.HasPrefix(spec, "CRON_TZ=") {
		spec = fmt.Sprintf("CRON_TZ=%s %s", loc.String(), spec)
	}
	schedule, err := cron.ParseStandard(spec)
	if err != nil {
		return nil, fmt.Errorf("parse schedule %q: %w", spec, err)
	}
	return schedule, nil
}

// Every is a Schedule with a constant delay, unlike "@every" it does not
// round the delay to whole seconds.
type Every time.Duration

func (e Every) Next(t time.Time) time.Time {
	return t.Add(time.Duration(e))
}

// Sleep blocks for `d` or until ctx is done, it returns ctx.Err() in the latter case.
func Sleep(ctx context.Context, d time.Duration) error {
	if d <= 0 {
		return ctx.Err()
	}
	timer := time.NewTimer(d)
	defer timer.Stop()

	select {
	case <-ctx.Done():
		return ctx.Err()
	case <-timer.C:
		return nil
	}
}
