package telemetry

import (
	"fmt"
	"strings"
	"sync"
)

type ReportKind int

const (
	KindBroken ReportKind = iota
	KindWarning
	KindDebug
	KindCount
)

type Report struct {
	Kind   ReportKind
	Id     string
	Params []any
	Count  int64
}

// Recorder is an API that keeps every report in memory so tests can assert
// that failures were reported. It is safe for concurrent use.
type Recorder struct {
	mu      sync.Mutex
	reports []Report
}

func NewRecorder() *Recorder {
	return &Recorder{}
}

func (r *Recorder) add(report Report) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.reports = append(r.reports, report)
}

func (r *Recorder) ReportBroken(id string, params ...any) {
	r.add(Report{Kind: KindBroken, Id: id, Params: params})
}

func (r *Recorder) ReportWarning(id string, params ...any) {
	r.add(Report{Kind: KindWarning, Id: id, Params: params})
}

func (r *Recorder) ReportDebug(msg string, params ...any) {
	r.add(Report{Kind: KindDebug, Id: msg, Params: params})
}

func (r *Recorder) ReportCount(id string, count int64) {
	r.add(Report{Kind: KindCount, Id: id, Count: count})
}

// Reports returns a copy of every report of the given kind.
func (r *Recorder) Reports(kind ReportKind) []Report {
	r.mu.Lock()
	defer r.mu.Unlock()

	var out []Report
	for _, report := range r.reports {
		if report.Kind == kind {
			out = append(out, report)
		}
	}
	return out
}

// HasReport tells whether a report of `kind` exists with an id that ends with `id`,
// so callers don't need to know which ScopedAPI namespaces were applied.
func (r *Recorder) HasReport(kind ReportKind, id string) bool {
	for _, report := range r.Reports(kind) {
		if strings.HasSuffix(report.Id, id) {
			return true
		}
	}
	return false
}

func (r *Recorder) String() string {
	r.mu.Lock()
	defer r.mu.Unlock()

	var out strings.Builder
	for _, report := range r.reports {
		fmt.Fprintf(&out, "%d %s %v\n", report.Kind, report.Id, report.Params)
	}
	return out.String()
}
