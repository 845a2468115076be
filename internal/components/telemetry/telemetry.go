package telemetry

// API is how components report what happens to them. Components never log
// directly, so tests can swap in a Recorder and assert on failures.
//
// Ids name the component that is affected, not the line of code that noticed
// it: a failed POST in `Client.FetchCourse` is reported as
// `client.fetch-course`, and details like the HTTP status go into params or
// the wrapped error. Ids are lowercase, underscores separate words of a large
// component and dashes separate words of a method. Packages declare their ids
// as `report_...` constants and wrap the API in a ScopedAPI so ids do not
// need to repeat the package path.
type API interface {
	// ReportBroken reports a failure that needs someone to look at it, like a
	// course page that could not be fetched or an email that was not sent.
	ReportBroken(id string, params ...any)
	// ReportWarning reports something unexpected that did not stop the
	// component, like a table row that could not be understood.
	ReportWarning(id string, params ...any)
	// ReportDebug is for tracing normal operation, it is hidden unless debug
	// logging is on.
	ReportDebug(msg string, params ...any)
	// ReportCount reports the current value of a quantity, like the size of
	// the notified set after a cycle. Counts are samples, not increments.
	ReportCount(id string, count int64)
}

// ScopedAPI prefixes every id (or debug message) with a namespace before
// passing it on, scopes nest: "monitor: zajel_client: client.fetch-course".
type ScopedAPI struct {
	namespace string
	inner     API
}

func NewScopedAPI(namespace string, inner API) ScopedAPI {
	return ScopedAPI{namespace: namespace, inner: inner}
}

func (s ScopedAPI) scoped(id string) string {
	return s.namespace + ": " + id
}

func (s ScopedAPI) ReportBroken(id string, params ...any) {
	s.inner.ReportBroken(s.scoped(id), params...)
}

func (s ScopedAPI) ReportWarning(id string, params ...any) {
	s.inner.ReportWarning(s.scoped(id), params...)
}

func (s ScopedAPI) ReportDebug(msg string, params ...any) {
	s.inner.ReportDebug(s.scoped(msg), params...)
}

func (s ScopedAPI) ReportCount(id string, count int64) {
	s.inner.ReportCount(s.scoped(id), count)
}

// Discard drops every report.
type Discard struct{}

func (Discard) ReportBroken(string, ...any)  {}
func (Discard) ReportWarning(string, ...any) {}
func (Discard) ReportDebug(string, ...any)   {}
func (Discard) ReportCount(string, int64)    {}
