// Package retry provides bounded retry with pluggable backoff strategies.
//
// The publisher uses it in two places: transient HTTP failures inside the
// API clients, and the posted-status commit, which retries a fixed number
// of times with constant spacing before the run gives up and alerts.
//
// Basic usage:
//
//	err := retry.Do(func() error {
//		return commitStatus()
//	}, &retry.Config{
//		MaxAttempts: 5,
//		Backoff:     &retry.ConstantBackoff{Delay: 5 * time.Second},
//	})
//
// All waiting is context-aware; cancelling the context aborts the retry
// loop between attempts.
package retry
