package telemetry

import (
	"context"
	"log/slog"
	"sync/atomic"
	"time"

	"github.com/go-resty/resty/v2"
)

const report_resty_request = "resty.request"

type restyTiming struct {
	seq   uint64
	start time.Time
}

type restyTimingKey struct{}

// InstrumentResty traces every request of `client` through tel.ReportDebug
// with a per-client sequence number and the elapsed time. Transport failures
// are reported as warnings, callers decide whether the failure is broken.
func InstrumentResty(client *resty.Client, tel API) {
	seq := &atomic.Uint64{}

	client.OnBeforeRequest(func(_ *resty.Client, req *resty.Request) error {
		timing := restyTiming{seq: seq.Add(1), start: time.Now()}
		req.SetContext(context.WithValue(req.Context(), restyTimingKey{}, timing))
		tel.ReportDebug(
			"http request",
			slog.Uint64("seq", timing.seq),
			slog.String("method", req.Method),
			slog.String("url", req.URL),
		)
		return nil
	})
	client.OnAfterResponse(func(_ *resty.Client, res *resty.Response) error {
		timing, _ := res.Request.Context().Value(restyTimingKey{}).(restyTiming)
		tel.ReportDebug(
			"http response",
			slog.Uint64("seq", timing.seq),
			slog.Int("status", res.StatusCode()),
			slog.Duration("took", time.Since(timing.start)),
		)
		return nil
	})
	client.OnError(func(req *resty.Request, err error) {
		timing, _ := req.Context().Value(restyTimingKey{}).(restyTiming)
		tel.ReportWarning(
			report_resty_request,
			err,
			slog.Uint64("seq", timing.seq),
			slog.String("method", req.Method),
			slog.String("url", req.URL),
		)
	})
}
