package engine

import (
	"math"

	"github.com/hammamikhairi/ottoplan/internal/domain"
)

// placeHeuristic lays steps out by category when no dependency graph exists:
//
//   - prep runs back to back from zero in input order;
//   - passive steps start early, at min(cap, prepTotal/2), each later one
//     staggered so they overlap prep without colliding;
//   - cook steps run back to back once prep is done;
//   - explicit clean steps follow the cook track.
func (e *Engine) placeHeuristic(steps []domain.Step) {
	prepTotal := 0.0
	for _, s := range steps {
		if s.Category == domain.CategoryPrep {
			prepTotal += s.Duration
		}
	}

	t := 0.0
	for i := range steps {
		if steps[i].Category == domain.CategoryPrep {
			setStart(&steps[i], t)
			t = steps[i].End
		}
	}
	prepEnd := t

	passiveAt := math.Min(e.passiveStartCap, prepTotal/2)
	for i := range steps {
		if steps[i].Category == domain.CategoryPassive {
			setStart(&steps[i], passiveAt)
			passiveAt += e.passiveStagger
		}
	}

	t = prepEnd
	for i := range steps {
		if steps[i].Category == domain.CategoryCook {
			setStart(&steps[i], t)
			t = steps[i].End
		}
	}

	t = tailEnd(steps)
	for i := range steps {
		if steps[i].Category == domain.CategoryClean {
			setStart(&steps[i], t)
			t = steps[i].End
		}
	}
}

func setStart(s *domain.Step, start float64) {
	s.Start = start
	s.End = start + s.Duration
}

// tailEnd is where appended work begins: the end of everything already
// placed outside prep and cleanup, or the prep end when nothing else exists.
func tailEnd(steps []domain.Step) float64 {
	end, found := 0.0, false
	for _, s := range steps {
		if s.Category == domain.CategoryCook || s.Category == domain.CategoryPassive {
			end = math.Max(end, s.End)
			found = true
		}
	}
	if found {
		return end
	}
	for _, s := range steps {
		if s.Category == domain.CategoryPrep {
			end = math.Max(end, s.End)
		}
	}
	return end
}
