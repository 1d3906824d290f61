// Package supabase implements the row store client for confession tables
// exposed through the Supabase REST (PostgREST) protocol: key-filtered
// reads with an explicit column projection, and partial row updates keyed
// by the unique sr_no.
//
// Failures deliberately degrade instead of propagating: a failed fetch
// yields an empty candidate list and a failed update returns false. The
// orchestrator decides what those mean for the run.
package supabase
