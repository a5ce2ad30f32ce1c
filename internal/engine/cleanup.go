package engine

import (
	"math"

	"github.com/hammamikhairi/ottoplan/internal/domain"
)

// placeCleanup fits one washing step per tool into the schedule and returns
// the combined step set.
//
// When the longest passive step lasts more than cleanupMinWindow minutes,
// washing starts cleanupOffset minutes into it and the rest of that window is
// split evenly across tools. Otherwise, or when the offset leaves no room in
// the window, washing is appended after the cook and clean work,
// cleanupPerTool minutes each.
func (e *Engine) placeCleanup(steps, cleanup []domain.Step) []domain.Step {
	if len(cleanup) == 0 {
		return steps
	}

	var longest *domain.Step
	for i := range steps {
		if steps[i].Category != domain.CategoryPassive {
			continue
		}
		if longest == nil || steps[i].Duration > longest.Duration {
			longest = &steps[i]
		}
	}

	if longest != nil && longest.Duration > e.cleanupMinWindow {
		open := longest.Start + e.cleanupOffset
		if window := longest.End - open; window > epsilon {
			each := window / float64(len(cleanup))
			for i := range cleanup {
				cleanup[i].Duration = each
				setStart(&cleanup[i], open+float64(i)*each)
			}
			e.log.Debug("cleanup: %d tool(s) inside %q at %.1f", len(cleanup), longest.ID, open)
			return append(steps, cleanup...)
		}
		e.log.Debug("cleanup: no room left in %q after the offset, appending", longest.ID)
	}

	t := tailEnd(steps)
	for _, s := range steps {
		if s.Category == domain.CategoryClean {
			t = math.Max(t, s.End)
		}
	}
	for i := range cleanup {
		cleanup[i].Duration = e.cleanupPerTool
		setStart(&cleanup[i], t)
		t = cleanup[i].End
	}
	e.log.Debug("cleanup: %d tool(s) appended from %.1f", len(cleanup), cleanup[0].Start)
	return append(steps, cleanup...)
}
