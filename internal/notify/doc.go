// Package notify publishes run events to an optional webhook.
//
// When no webhook URL is configured the service is a noop, so callers never
// branch on whether notifications are enabled. Delivery failures are the
// caller's to log; they never abort a run.
package notify
