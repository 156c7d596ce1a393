package analytics

import (
	"time"

	"go.uber.org/zap"
)

// Engine computes dashboard analytics over in-memory deal records. All
// methods are pure given the injected clock; malformed input is absorbed by
// the record package and never surfaces as an error.
type Engine struct {
	Logger *zap.Logger

	// Now is the clock used for range boundaries; nil means time.Now.
	Now func() time.Time
}

func (e *Engine) now() time.Time {
	if e == nil || e.Now == nil {
		return time.Now().UTC()
	}
	return e.Now()
}

func (e *Engine) warn(msg string, fields ...zap.Field) {
	if e == nil || e.Logger == nil {
		return
	}
	e.Logger.Warn(msg, fields...)
}
