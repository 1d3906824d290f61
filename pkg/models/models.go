package models

import "strings"

const (
	// AcceptedMark is the moderation marker qualifying a row for posting
	AcceptedMark = "✓"

	// PostedMark marks a row as already published
	PostedMark = "✓"

	// DefaultPriority is the sentinel for rows without a post_number
	DefaultPriority = 999999
)

// Confession is one row of a tenant's confession table. The row is owned
// by the remote store; this process only reads it and flips is_posted.
// Nullable columns arrive as JSON null, which decodes to the zero value.
type Confession struct {
	SrNo        int64  `json:"sr_no"`
	Confession  string `json:"confession"`
	Timestamp   string `json:"timestamp"`
	PostNumber  int    `json:"post_number"`
	Accept      string `json:"accept"`
	Reject      string `json:"reject"`
	ImagekitURL string `json:"imagekit_url"`
	IsPosted    string `json:"is_posted"`
}

// Eligible reports whether the row qualifies for publishing: moderated as
// accepted, not yet posted, and carrying a non-blank image URL.
func (c Confession) Eligible() bool {
	return c.Accept == AcceptedMark &&
		c.IsPosted != PostedMark &&
		strings.TrimSpace(c.ImagekitURL) != ""
}

// Priority returns the row's post_number, or DefaultPriority when absent.
// Priority is informational only; publish order is sr_no ascending.
func (c Confession) Priority() int {
	if c.PostNumber == 0 {
		return DefaultPriority
	}
	return c.PostNumber
}

// Quota is a snapshot of the platform's content publishing limit. It is
// fetched fresh before a run and again after every successful publish.
type Quota struct {
	Usage int
	Limit int
}

// Exhausted reports whether no publish headroom remains.
func (q Quota) Exhausted() bool {
	return q.Usage >= q.Limit
}
