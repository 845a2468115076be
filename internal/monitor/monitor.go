package monitor

import (
	"context"
	"course-monitor/internal/assert"
	"course-monitor/internal/components/chrono"
	"course-monitor/internal/components/telemetry"
	"course-monitor/internal/notifier"
	"course-monitor/internal/scrapers/zajel"
	"course-monitor/internal/tracker"
	"fmt"
	"log/slog"
	"runtime/debug"
	"time"

	"github.com/mazen160/go-random"
)

const (
	report_monitor_fetch    = "monitor.fetch"
	report_monitor_extract  = "monitor.extract"
	report_monitor_notify   = "monitor.notify"
	report_monitor_cycle    = "monitor.cycle"
	report_monitor_notified = "monitor.notified-keys"
)

// Monitor polls every course on a schedule and notifies once for each
// section that becomes available. It owns the notified set, so a Monitor
// must only be driven by one goroutine at a time.
type Monitor struct {
	courses            []zajel.Course
	fetcher            Fetcher
	extractor          Extractor
	notifier           notifier.Notifier
	clearPolicy        tracker.ClearPolicy
	fetchFailurePolicy FetchFailurePolicy
	schedule           chrono.Schedule
	fetchTimeout       time.Duration
	retryDelay         time.Duration
	time               chrono.TimeAPI
	tel                telemetry.API
	metrics            metrics

	set *tracker.NotifiedSet
}

func New(opts Options) *Monitor {
	assert.NotNil("fetcher", opts.Fetcher)
	assert.NotNil("extractor", opts.Extractor)
	assert.NotNil("notifier", opts.Notifier)
	assert.NotNil("telemetry", opts.Telemetry)
	for _, course := range opts.Courses {
		assert.NotEmptyStr("course code", course.Code)
	}

	m := &Monitor{
		courses:            opts.Courses,
		fetcher:            opts.Fetcher,
		extractor:          opts.Extractor,
		notifier:           opts.Notifier,
		clearPolicy:        opts.ClearPolicy,
		fetchFailurePolicy: opts.FetchFailurePolicy,
		schedule:           opts.Schedule,
		fetchTimeout:       opts.FetchTimeout,
		retryDelay:         opts.RetryDelay,
		time:               opts.Time,
		tel:                telemetry.NewScopedAPI("monitor", opts.Telemetry),
		metrics:            newMetrics(),
		set:                tracker.NewNotifiedSet(),
	}
	if m.clearPolicy == nil {
		m.clearPolicy = tracker.DefaultPolicy
	}
	if m.fetchFailurePolicy == "" {
		m.fetchFailurePolicy = FetchFailureSkip
	}
	if m.schedule == nil {
		m.schedule = chrono.Every(30 * time.Second)
	}
	if m.fetchTimeout <= 0 {
		m.fetchTimeout = DefaultFetchTimeout
	}
	if m.retryDelay <= 0 {
		m.retryDelay = DefaultRetryDelay
	}
	if m.time == nil {
		m.time = chrono.StandardTime{}
	}
	return m
}

// Notified returns the keys currently considered notified.
func (m *Monitor) Notified() []tracker.Key {
	return m.set.Keys()
}

// Run polls until ctx is cancelled, the first cycle starts immediately.
// It only returns once ctx is done and always returns nil in that case.
func (m *Monitor) Run(ctx context.Context) error {
	m.tel.ReportDebug("starting", slog.Int("courses", len(m.courses)), slog.String("clear_policy", m.clearPolicy.Name()))

	for {
		report := m.Cycle(ctx)
		if ctx.Err() != nil {
			return nil
		}

		wait := m.retryDelay
		if report.Panic == nil {
			now := m.time.Now()
			wait = m.schedule.Next(now).Sub(now)
		}
		if err := chrono.Sleep(ctx, wait); err != nil {
			return nil
		}
	}
}

// CourseReport is what happened to one course during a cycle.
type CourseReport struct {
	Course string
	// Fetched is true when the page was retrieved, Err holds the fetch or
	// extract failure otherwise.
	Fetched bool
	Err     error
	// Skipped is true when the notified set was left untouched for this course.
	Skipped      bool
	Available    []zajel.SectionRecord
	Notified     []zajel.SectionRecord
	NotifyFailed []zajel.SectionRecord
	Cleared      []tracker.Key
}

type CycleReport struct {
	Id        string
	StartedAt time.Time
	Courses   []CourseReport
	// Panic holds the recovered value when the cycle was aborted by a panic.
	Panic any
}

func cycleId() string {
	id, err := random.String(8)
	if err != nil {
		return "????????"
	}
	return id
}

// Cycle polls every course once, in order. A panic is recovered and
// recorded in the report instead of propagating.
func (m *Monitor) Cycle(ctx context.Context) (report CycleReport) {
	report = CycleReport{
		Id:        cycleId(),
		StartedAt: m.time.Now(),
	}
	cycleAttr := slog.String("cycle", report.Id)

	defer func() {
		if r := recover(); r != nil {
			report.Panic = r
			m.tel.ReportBroken(
				report_monitor_cycle,
				fmt.Errorf("panic: %v", r),
				cycleAttr,
				slog.String("stack", string(debug.Stack())),
			)
		}
		m.metrics.cycles.Add(ctx, 1)
		m.metrics.notifiedKeys.Record(ctx, int64(m.set.Len()))
		m.tel.ReportCount(report_monitor_notified, int64(m.set.Len()))
	}()

	m.tel.ReportDebug("cycle start", cycleAttr)
	for _, course := range m.courses {
		if ctx.Err() != nil {
			break
		}
		report.Courses = append(report.Courses, m.pollCourse(ctx, cycleAttr, course))
	}
	m.tel.ReportDebug("cycle done", cycleAttr, slog.Duration("took", m.time.Now().Sub(report.StartedAt)))

	return report
}

func (m *Monitor) fetch(ctx context.Context, code string) ([]byte, error) {
	ctx, cancel := context.WithTimeout(ctx, m.fetchTimeout)
	defer cancel()
	return m.fetcher.FetchCourse(ctx, code)
}

func (m *Monitor) pollCourse(ctx context.Context, cycleAttr slog.Attr, course zajel.Course) CourseReport {
	report := CourseReport{Course: course.Code}
	courseAttr := slog.String("course", course.Code)

	var available []zajel.SectionRecord
	body, err := m.fetch(ctx, course.Code)
	switch {
	case err != nil:
		report.Err = err
		m.tel.ReportBroken(report_monitor_fetch, err, cycleAttr, courseAttr)
		m.metrics.fetchFailures.Add(ctx, 1)

		// a cancelled fetch says nothing about the course
		if ctx.Err() != nil || m.fetchFailurePolicy != FetchFailureClosed {
			report.Skipped = true
			return report
		}
		available = []zajel.SectionRecord{}
	default:
		report.Fetched = true
		available, err = m.extractor.Extract(body, course)
		if err != nil {
			report.Err = err
			report.Skipped = true
			m.tel.ReportBroken(report_monitor_extract, err, cycleAttr, courseAttr)
			return report
		}
	}
	report.Available = available

	result := tracker.Reconcile(course.Code, available, m.set, m.clearPolicy)
	report.Cleared = result.Cleared
	if len(result.Cleared) > 0 {
		m.tel.ReportDebug("cleared notified keys", cycleAttr, courseAttr, result.Cleared)
	}

	checkedAt := m.time.Now()
	for _, record := range result.Newly {
		msg := notifier.BuildMessage(course, record, checkedAt)
		err := m.notifier.Notify(ctx, msg)
		if err != nil {
			// the key stays notified, a failed delivery is not retried
			report.NotifyFailed = append(report.NotifyFailed, record)
			m.metrics.notifications.Add(ctx, 1, resultFailed)
			m.tel.ReportBroken(
				report_monitor_notify,
				err,
				cycleAttr,
				courseAttr,
				slog.String("section", record.SectionId),
			)
			continue
		}
		report.Notified = append(report.Notified, record)
		m.metrics.notifications.Add(ctx, 1, resultSent)
		m.tel.ReportDebug("notified", cycleAttr, courseAttr, slog.String("section", record.SectionId))
	}

	return report
}
