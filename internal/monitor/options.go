package monitor

import (
	"context"
	"course-monitor/internal/components/chrono"
	"course-monitor/internal/components/telemetry"
	"course-monitor/internal/notifier"
	"course-monitor/internal/scrapers/zajel"
	"course-monitor/internal/tracker"
	"fmt"
	"time"
)

const (
	DefaultSchedule     = "@every 30s"
	DefaultFetchTimeout = 15 * time.Second
	DefaultRetryDelay   = 30 * time.Second
)

// Fetcher returns the raw materials page of a course.
type Fetcher interface {
	FetchCourse(ctx context.Context, courseCode string) ([]byte, error)
}

// Extractor returns the available target sections found on a materials page.
type Extractor interface {
	Extract(body []byte, course zajel.Course) ([]zajel.SectionRecord, error)
}

// FetchFailurePolicy decides what a failed fetch means for the notified keys
// of that course.
type FetchFailurePolicy string

const (
	// FetchFailureSkip leaves the course's keys untouched until it is fetched again.
	FetchFailureSkip FetchFailurePolicy = "skip"
	// FetchFailureClosed treats the course as having no available sections.
	FetchFailureClosed FetchFailurePolicy = "closed"
)

func ParseFetchFailurePolicy(name string) (FetchFailurePolicy, error) {
	switch FetchFailurePolicy(name) {
	case "", FetchFailureSkip:
		return FetchFailureSkip, nil
	case FetchFailureClosed:
		return FetchFailureClosed, nil
	}
	return "", fmt.Errorf("unknown fetch failure policy %q (expected \"skip\" or \"closed\")", name)
}

type Options struct {
	Courses   []zajel.Course
	Fetcher   Fetcher
	Extractor Extractor
	Notifier  notifier.Notifier

	// ClearPolicy defaults to tracker.DefaultPolicy.
	ClearPolicy tracker.ClearPolicy
	// FetchFailurePolicy defaults to FetchFailureSkip.
	FetchFailurePolicy FetchFailurePolicy
	// Schedule defaults to DefaultSchedule.
	Schedule chrono.Schedule

	FetchTimeout time.Duration
	RetryDelay   time.Duration

	// Time defaults to the system clock in UTC.
	Time      chrono.TimeAPI
	Telemetry telemetry.API
}
