package log

import (
	"github.com/cockroachdb/errors"
	"github.com/rs/zerolog"
)

// appendError attaches err and, when it carries a cockroachdb stack, the
// formatted stack trace to the event.
func appendError(e *zerolog.Event, err error) *zerolog.Event {
	e = e.Err(err)
	if stacktrace := extractStacktrace(err); stacktrace != "" {
		e = e.Str(StacktraceKey, stacktrace)
	}
	return e
}

func extractStacktrace(err error) string {
	safeDetails := errors.GetSafeDetails(err).SafeDetails
	if len(safeDetails) > 0 {
		return safeDetails[0]
	}
	return ""
}
