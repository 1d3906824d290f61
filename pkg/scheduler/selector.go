package scheduler

import (
	"sort"

	"confposter/pkg/models"
)

// Candidate is an eligible row paired with its computed priority. The
// priority is carried for logging; publish order is sr_no ascending.
type Candidate struct {
	Row      models.Confession
	Priority int
}

// SelectEligible filters rows by the eligibility invariant and returns
// them ordered oldest-submitted-first (sr_no ascending). Pure function,
// no side effects.
func SelectEligible(rows []models.Confession) []Candidate {
	var candidates []Candidate
	for _, row := range rows {
		if !row.Eligible() {
			continue
		}
		candidates = append(candidates, Candidate{
			Row:      row,
			Priority: row.Priority(),
		})
	}

	sort.Slice(candidates, func(i, j int) bool {
		return candidates[i].Row.SrNo < candidates[j].Row.SrNo
	})

	return candidates
}
