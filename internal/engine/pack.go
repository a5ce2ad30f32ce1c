package engine

import (
	"sort"

	"github.com/hammamikhairi/ottoplan/internal/domain"
)

// epsilon absorbs float noise when a step starts exactly as another ends.
const epsilon = 1e-9

// PackRows sorts steps by start (stable, so input order breaks ties) and
// assigns each the first row whose last step has ended by the time it
// starts, opening a new row when none qualifies. Steps sharing a row never
// overlap. It returns the number of rows used.
func PackRows(steps []domain.Step) int {
	sort.SliceStable(steps, func(i, j int) bool {
		return steps[i].Start < steps[j].Start
	})

	var rowEnds []float64
	for i := range steps {
		placed := false
		for r, end := range rowEnds {
			if end <= steps[i].Start+epsilon {
				steps[i].Row = r
				rowEnds[r] = steps[i].End
				placed = true
				break
			}
		}
		if !placed {
			steps[i].Row = len(rowEnds)
			rowEnds = append(rowEnds, steps[i].End)
		}
	}
	return len(rowEnds)
}
