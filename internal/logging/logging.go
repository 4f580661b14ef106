// Package logging provides the engine's structured-logging seam. The
// engine never decides where logs go; it only emits key-value pairs
// through a go-kit/log.Logger that defaults to a no-op sink. Callers that
// embed flowkit wire in a real logger with log.NewLogfmtLogger or
// similar.
package logging

import "github.com/go-kit/log"

// Default is the package-level logger used when a component isn't given
// one explicitly. It starts as a no-op so library use is silent unless a
// caller opts in.
var Default log.Logger = log.NewNopLogger()

// SetDefault replaces the package-level default logger.
func SetDefault(l log.Logger) {
	if l == nil {
		l = log.NewNopLogger()
	}
	Default = l
}

// Warn emits a semantic-warning line (out-of-order timestamps, stale
// free-list bodies, index overflow) through l, or through Default if l is
// nil.
func Warn(l log.Logger, msg string, keyvals ...interface{}) {
	if l == nil {
		l = Default
	}
	kv := append([]interface{}{"level", "warn", "msg", msg}, keyvals...)
	_ = l.Log(kv...)
}
