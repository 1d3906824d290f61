// Package scheduler contains the batch publisher: candidate selection,
// quota-aware admission control and the bounded publish loop with a
// retry-durable status commit.
//
// A run walks TimeGate -> QuotaCheck -> Fetch -> Select -> Publish loop.
// The cap counts successful posts, the quota is re-checked after every
// success, and a row whose publish fails is skipped rather than aborting
// the batch. Nothing in a run raises to the caller; the RunSummary says
// what happened.
package scheduler
