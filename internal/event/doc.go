// Package event carries the synchronization core's outbound
// notifications to the surrounding application.
//
// The contract is strict: exactly one call per state change, synchronous,
// on the same goroutine as the input event that caused it. Modeling the
// callbacks as a Listener interface (rather than ad hoc function fields)
// keeps that contract enforceable and testable.
//
// A panicking listener must not corrupt the coordinator mid-mutation, so
// the Notifier recovers panics and reports them through the logger.
package event
