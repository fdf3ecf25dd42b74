// Package events carries puzzle happenings from the polling loop to
// observers such as the journal and the metrics collector.
//
// The loop publishes and never waits: every subscriber runs on its own
// dispatcher goroutine, so a slow disk cannot stretch a tick.
package events
