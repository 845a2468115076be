package telemetry

import (
	"fmt"
	"log/slog"
)

// SlogAPI writes reports to Logger, or to slog.Default() when Logger is nil.
// Broken components log at error level, warnings at warn, debug reports at
// debug and counts at info.
type SlogAPI struct {
	Logger *slog.Logger
}

func (s SlogAPI) logger() *slog.Logger {
	if s.Logger == nil {
		return slog.Default()
	}
	return s.Logger
}

// slog.Attr params keep their key, errors become their message and anything
// else is keyed by its position, counting from 1, so nothing is dropped
func attrs(id string, params []any) []any {
	out := make([]any, 0, len(params)+1)
	if id != "" {
		out = append(out, slog.String("id", id))
	}
	for i, p := range params {
		switch v := p.(type) {
		case slog.Attr:
			out = append(out, v)
		case error:
			out = append(out, slog.String("err", v.Error()))
		default:
			out = append(out, slog.Any(fmt.Sprintf("p%d", i+1), v))
		}
	}
	return out
}

func (s SlogAPI) ReportBroken(id string, params ...any) {
	s.logger().Error("component broken", attrs(id, params)...)
}

func (s SlogAPI) ReportWarning(id string, params ...any) {
	s.logger().Warn("component warning", attrs(id, params)...)
}

func (s SlogAPI) ReportDebug(msg string, params ...any) {
	s.logger().Debug(msg, attrs("", params)...)
}

func (s SlogAPI) ReportCount(id string, count int64) {
	s.logger().Info("count", slog.String("id", id), slog.Int64("value", count))
}
