// Package ratelimit provides local request pacing for outbound API calls.
//
// This is distinct from the platform's content publishing quota, which is
// checked remotely by the quota gate. The token bucket here only keeps the
// process itself from bursting requests at the Graph API faster than the
// configured requests-per-minute budget.
package ratelimit
