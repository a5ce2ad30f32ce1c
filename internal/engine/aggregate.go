package engine

import (
	"github.com/hammamikhairi/ottoplan/internal/domain"
)

// assemble groups placed steps into tracks, packs each track, and derives
// the boundaries.
func assemble(steps []domain.Step) *domain.Schedule {
	sched := &domain.Schedule{}
	for _, id := range domain.TrackOrder {
		sched.Tracks = append(sched.Tracks, domain.Track{
			ID:        id,
			Label:     id.Label(),
			ColorRole: id.ColorRole(),
		})
	}
	for _, s := range steps {
		t := sched.Track(s.Category.TrackFor())
		t.Steps = append(t.Steps, s)
		sched.SequentialTime += s.Duration
	}
	for i := range sched.Tracks {
		sched.Tracks[i].Rows = PackRows(sched.Tracks[i].Steps)
	}
	Aggregate(sched)
	return sched
}

// Aggregate recomputes every track's Start and End from its steps and the
// schedule's TotalTime from the tracks. Empty tracks are left at zero and
// do not take part in the total.
func Aggregate(sched *domain.Schedule) {
	sched.TotalTime = 0
	for i := range sched.Tracks {
		t := &sched.Tracks[i]
		t.Start, t.End = 0, 0
		for j, s := range t.Steps {
			end := s.Start + s.Duration
			if j == 0 || s.Start < t.Start {
				t.Start = s.Start
			}
			if j == 0 || end > t.End {
				t.End = end
			}
		}
		if !t.Empty() && t.End > sched.TotalTime {
			sched.TotalTime = t.End
		}
	}
}
