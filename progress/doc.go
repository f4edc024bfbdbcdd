// Package progress defines primitives for reporting and aggregating the
// progress of a case run moving through the stage pipeline.  It abstracts
// away the underlying communication mechanism so that callers can consume
// progress updates in a uniform way regardless of whether they are delivered
// via callbacks, events or external observers.
package progress
