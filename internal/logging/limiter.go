package logging

import "time"

// Limiter drops messages that arrive within an interval of the last
// emitted one. It exists for desync diagnostics: one report per window
// surfaces the bug without flooding the log.
type Limiter struct {
	logger   *Logger
	interval time.Duration
	last     time.Time
	dropped  int

	// now is replaceable for tests.
	now func() time.Time
}

// NewLimiter wraps a logger with a minimum interval between messages.
func NewLimiter(logger *Logger, interval time.Duration) *Limiter {
	return &Limiter{
		logger:   logger,
		interval: interval,
		now:      time.Now,
	}
}

// Warn logs at warn level unless a message was emitted within the
// interval. Returns true when the message was emitted. The number of
// messages dropped since the last emission is appended so bursts stay
// measurable.
func (r *Limiter) Warn(msg string, args ...any) bool {
	t := r.now()
	if !r.last.IsZero() && t.Sub(r.last) < r.interval {
		r.dropped++
		return false
	}
	r.last = t
	if r.dropped > 0 {
		r.logger.Warn(msg+" (%d similar dropped)", append(args, r.dropped)...)
	} else {
		r.logger.Warn(msg, args...)
	}
	r.dropped = 0
	return true
}

// Dropped returns the number of messages suppressed since the last
// emission.
func (r *Limiter) Dropped() int {
	return r.dropped
}
