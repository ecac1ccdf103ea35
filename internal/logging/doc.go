// Package logging provides leveled, structured logging for the
// synchronization core, plus a rate limiter for desynchronization
// diagnostics.
//
// Desync conditions (clamped indices, missing entities, missing
// snapshots) are recovered locally and never surfaced to the user; they
// are logged so the bugs behind them stay visible. Because a single bad
// event stream can trigger the same condition hundreds of times per
// second, those reports go through a Limiter that drops all but one
// message per interval.
package logging
