package engine

import (
	"context"
	"errors"
	"fmt"
	"reflect"
	"sync"
	"testing"

	"github.com/hammamikhairi/ottoplan/internal/classify"
	"github.com/hammamikhairi/ottoplan/internal/domain"
	"github.com/hammamikhairi/ottoplan/internal/logger"
	"github.com/hammamikhairi/ottoplan/internal/storage"
)

func setupEngine(t *testing.T, opts ...Option) *Engine {
	t.Helper()
	log := logger.New(logger.LevelOff, nil)
	return New(classify.New(nil, log), log, opts...)
}

func step(id, text, category string, minutes float64, deps ...string) domain.StepInput {
	return domain.StepInput{
		ID:           id,
		Text:         text,
		Category:     category,
		Duration:     domain.Minutes(minutes),
		Dependencies: deps,
	}
}

func mustSchedule(t *testing.T, eng *Engine, r *domain.RecipeInput, mode domain.Mode) *domain.Schedule {
	t.Helper()
	sched, err := eng.Schedule(r, mode)
	if err != nil {
		t.Fatalf("schedule: %v", err)
	}
	return sched
}

func mustStep(t *testing.T, sched *domain.Schedule, id string) *domain.Step {
	t.Helper()
	s, ok := sched.Step(id)
	if !ok {
		t.Fatalf("step %s missing from schedule", id)
	}
	return s
}

// checkInvariants asserts the properties every schedule must hold.
func checkInvariants(t *testing.T, sched *domain.Schedule) {
	t.Helper()
	all := map[string]domain.Step{}
	for _, s := range sched.Steps() {
		all[s.ID] = s
	}

	for _, s := range all {
		if s.Start < 0 || s.End < s.Start {
			t.Fatalf("step %s has bad interval [%v, %v)", s.ID, s.Start, s.End)
		}
		if s.End != s.Start+s.Duration {
			t.Fatalf("step %s: end %v != start %v + duration %v", s.ID, s.End, s.Start, s.Duration)
		}
	}

	if len(sched.Cycles) == 0 {
		for _, s := range all {
			for _, depID := range s.Dependencies {
				dep, ok := all[depID]
				if ok && s.Start < dep.Start+dep.Duration {
					t.Fatalf("step %s starts at %v before dependency %s ends at %v",
						s.ID, s.Start, dep.ID, dep.Start+dep.Duration)
				}
			}
		}
	}

	for _, track := range sched.Tracks {
		for i, a := range track.Steps {
			for _, b := range track.Steps[i+1:] {
				if a.Row == b.Row && a.Start < b.End && b.Start < a.End {
					t.Fatalf("track %s row %d: %s [%v,%v) overlaps %s [%v,%v)",
						track.ID, a.Row, a.ID, a.Start, a.End, b.ID, b.Start, b.End)
				}
			}
		}
	}

	if sched.TotalTime > sched.SequentialTime+epsilon {
		t.Fatalf("total %v exceeds sequential %v", sched.TotalTime, sched.SequentialTime)
	}
}

func TestScenarioSequentialPrep(t *testing.T) {
	eng := setupEngine(t)
	r := &domain.RecipeInput{Steps: []domain.StepInput{
		step("a", "Chop the onions", "prep", 3),
		step("b", "Dice the carrots", "prep", 4),
		step("c", "Mince the garlic", "prep", 2),
	}}

	sched := mustSchedule(t, eng, r, domain.ModeHeuristic)
	checkInvariants(t, sched)

	for id, want := range map[string]float64{"a": 0, "b": 3, "c": 7} {
		if got := mustStep(t, sched, id).Start; got != want {
			t.Fatalf("step %s start = %v, want %v", id, got, want)
		}
	}
	if prep := sched.Track(domain.TrackPrep); prep.End != 9 || prep.Start != 0 {
		t.Fatalf("prep track = [%v, %v], want [0, 9]", prep.Start, prep.End)
	}
	if sched.TotalTime != 9 {
		t.Fatalf("total = %v, want 9", sched.TotalTime)
	}
}

func TestScenarioPreheatOverlapsPrep(t *testing.T) {
	eng := setupEngine(t)
	r := &domain.RecipeInput{Steps: []domain.StepInput{
		{ID: "preheat", Text: "Preheat oven, 10 minutes"},
		step("chop", "Chop the onions", "prep", 1),
		step("mince", "Mince the garlic", "prep", 2),
	}}

	sched := mustSchedule(t, eng, r, domain.ModeHeuristic)
	checkInvariants(t, sched)

	pre := mustStep(t, sched, "preheat")
	if pre.Category != domain.CategoryPassive || pre.Duration != 10 {
		t.Fatalf("preheat classified as %s/%v, want passive/10", pre.Category, pre.Duration)
	}
	if pre.Start != 1.5 {
		t.Fatalf("preheat start = %v, want 1.5", pre.Start)
	}
	if sched.TotalTime != 11.5 {
		t.Fatalf("total = %v, want 11.5", sched.TotalTime)
	}
	if sched.SequentialTime != 13 || sched.Saved() != 1.5 {
		t.Fatalf("sequential = %v saved = %v, want 13 and 1.5", sched.SequentialTime, sched.Saved())
	}
}

func TestScenarioNonWashableTool(t *testing.T) {
	eng := setupEngine(t)
	r := &domain.RecipeInput{
		Steps: []domain.StepInput{step("a", "Chop the onions", "prep", 3)},
		Tools: []string{"Pan", "Oven"},
	}

	sched := mustSchedule(t, eng, r, domain.ModeHeuristic)
	checkInvariants(t, sched)

	clean := sched.Track(domain.TrackClean)
	if len(clean.Steps) != 1 {
		t.Fatalf("expected exactly one cleanup step, got %d", len(clean.Steps))
	}
	if clean.Steps[0].Label != "Wash Pan" {
		t.Fatalf("cleanup label = %q, want %q", clean.Steps[0].Label, "Wash Pan")
	}
	// No passive window: appended after the rest, two minutes per tool.
	if clean.Steps[0].Start != 3 || clean.Steps[0].End != 5 {
		t.Fatalf("cleanup at [%v, %v], want [3, 5]", clean.Steps[0].Start, clean.Steps[0].End)
	}
}

func TestScenarioDependencyMax(t *testing.T) {
	eng := setupEngine(t)
	r := &domain.RecipeInput{Steps: []domain.StepInput{
		step("A", "Boil the pasta", "cook", 5),
		step("B", "Make the sauce", "cook", 3),
		step("C", "Toss pasta with sauce", "cook", 1, "A", "B"),
	}}

	sched := mustSchedule(t, eng, r, domain.ModeGraph)
	checkInvariants(t, sched)

	if a, b := mustStep(t, sched, "A"), mustStep(t, sched, "B"); a.Start != 0 || b.Start != 0 {
		t.Fatalf("independent steps should start at 0, got A=%v B=%v", a.Start, b.Start)
	}
	if c := mustStep(t, sched, "C"); c.Start != 5 {
		t.Fatalf("C start = %v, want 5", c.Start)
	}
	// A and B run concurrently in the cook track.
	if rows := sched.Track(domain.TrackCook).Rows; rows != 2 {
		t.Fatalf("cook rows = %d, want 2", rows)
	}
	if sched.TotalTime != 6 {
		t.Fatalf("total = %v, want 6", sched.TotalTime)
	}
}

func TestCycleSafety(t *testing.T) {
	eng := setupEngine(t)
	r := &domain.RecipeInput{Steps: []domain.StepInput{
		step("A", "Whisk the eggs", "prep", 2, "B"),
		step("B", "Beat the sugar", "prep", 3, "A"),
		step("S", "Stir the pot", "cook", 1, "S"),
	}}

	sched := mustSchedule(t, eng, r, domain.ModeGraph)
	checkInvariants(t, sched)

	for _, s := range sched.Steps() {
		if s.Start < 0 || s.Start > 100 {
			t.Fatalf("step %s start %v is not finite and non-negative", s.ID, s.Start)
		}
	}
	want := []domain.CycleEdge{{From: "B", To: "A"}, {From: "S", To: "S"}}
	if !reflect.DeepEqual(sched.Cycles, want) {
		t.Fatalf("cycles = %+v, want %+v", sched.Cycles, want)
	}
	if a := mustStep(t, sched, "A"); a.Start != 3 {
		t.Fatalf("A start = %v, want 3 (after B, whose edge back to A is cut)", a.Start)
	}
}

func TestSharedDependencyIsNotACycle(t *testing.T) {
	eng := setupEngine(t)
	r := &domain.RecipeInput{Steps: []domain.StepInput{
		step("S", "Boil water", "cook", 4),
		step("X", "Blanch the beans", "cook", 2, "S"),
		step("Y", "Cook the pasta", "cook", 9, "S"),
		step("Z", "Combine everything", "prep", 1, "X", "Y"),
	}}

	sched := mustSchedule(t, eng, r, domain.ModeGraph)
	checkInvariants(t, sched)

	if len(sched.Cycles) != 0 {
		t.Fatalf("expected no cycles, got %+v", sched.Cycles)
	}
	if z := mustStep(t, sched, "Z"); z.Start != 13 {
		t.Fatalf("Z start = %v, want 13", z.Start)
	}
}

func TestMissingDependencyIgnored(t *testing.T) {
	eng := setupEngine(t)
	r := &domain.RecipeInput{Steps: []domain.StepInput{
		step("A", "Chop the herbs", "prep", 2, "ghost"),
	}}

	sched := mustSchedule(t, eng, r, domain.ModeGraph)
	if a := mustStep(t, sched, "A"); a.Start != 0 {
		t.Fatalf("A start = %v, want 0", a.Start)
	}
	if len(sched.Cycles) != 0 {
		t.Fatal("a missing dependency is not a cycle")
	}
}

func TestDiamondChainIsMemoized(t *testing.T) {
	// Forty stacked diamonds: without memoization this is 2^40 visits.
	const depth = 40
	var steps []domain.StepInput
	steps = append(steps, step("root", "Start", "prep", 1))
	prevL, prevR := "root", "root"
	for i := 0; i < depth; i++ {
		l, r := fmt.Sprintf("L%d", i), fmt.Sprintf("R%d", i)
		steps = append(steps,
			step(l, "Left", "prep", 1, prevL, prevR),
			step(r, "Right", "cook", 2, prevL, prevR),
		)
		prevL, prevR = l, r
	}

	eng := setupEngine(t)
	sched := mustSchedule(t, eng, &domain.RecipeInput{Steps: steps}, domain.ModeGraph)
	checkInvariants(t, sched)

	// root ends at 1, each layer adds the slower branch (2).
	last := mustStep(t, sched, fmt.Sprintf("R%d", depth-1))
	if want := 1.0 + 2*(depth-1); last.Start != want {
		t.Fatalf("last start = %v, want %v", last.Start, want)
	}
}

func TestHeuristicPlacement(t *testing.T) {
	eng := setupEngine(t)
	r := &domain.RecipeInput{Steps: []domain.StepInput{
		step("p1", "Chop", "prep", 3),
		step("w1", "Marinate", "passive", 4),
		step("c1", "Sear", "cook", 5),
		step("p2", "Dice", "prep", 3),
		step("w2", "Soak", "passive", 4),
		step("c2", "Simmer", "cook", 2),
		step("w3", "Chill", "passive", 4),
	}}

	sched := mustSchedule(t, eng, r, domain.ModeHeuristic)
	checkInvariants(t, sched)

	want := map[string]float64{
		"p1": 0, "p2": 3, // prep back to back
		"w1": 2, "w2": 3, "w3": 4, // min(2, 6/2) then +1 each
		"c1": 6, "c2": 11, // after prep
	}
	for id, start := range want {
		if got := mustStep(t, sched, id).Start; got != start {
			t.Fatalf("step %s start = %v, want %v", id, got, start)
		}
	}
	if sched.TotalTime >= sched.SequentialTime {
		t.Fatalf("expected overlap saving, total %v sequential %v", sched.TotalTime, sched.SequentialTime)
	}
}

func TestHeuristicConstantsConfigurable(t *testing.T) {
	eng := setupEngine(t, WithPassiveStartCap(0), WithPassiveStagger(0.5))
	r := &domain.RecipeInput{Steps: []domain.StepInput{
		step("p", "Chop", "prep", 6),
		step("w1", "Rest", "passive", 4),
		step("w2", "Cool", "passive", 4),
	}}

	sched := mustSchedule(t, eng, r, domain.ModeHeuristic)
	if w1, w2 := mustStep(t, sched, "w1"), mustStep(t, sched, "w2"); w1.Start != 0 || w2.Start != 0.5 {
		t.Fatalf("passive starts = %v, %v, want 0 and 0.5", w1.Start, w2.Start)
	}
}

func TestCleanupInsidePassiveWindow(t *testing.T) {
	eng := setupEngine(t)
	r := &domain.RecipeInput{
		Steps: []domain.StepInput{
			step("prep", "Mix the dough", "prep", 4),
			{ID: "rise", Text: "Let the dough rise for 20 minutes"},
		},
		Tools: []string{"Large Bowl", "whisk", "Oven"},
	}

	sched := mustSchedule(t, eng, r, domain.ModeHeuristic)
	checkInvariants(t, sched)

	// rise runs [2, 22); washing opens at 4 and splits 18 minutes in two.
	bowl := mustStep(t, sched, "clean-bowl")
	whisk := mustStep(t, sched, "clean-whisk")
	if bowl.Start != 4 || bowl.End != 13 || whisk.Start != 13 || whisk.End != 22 {
		t.Fatalf("cleanup at bowl [%v,%v) whisk [%v,%v), want [4,13) [13,22)",
			bowl.Start, bowl.End, whisk.Start, whisk.End)
	}
	if sched.TotalTime != 22 {
		t.Fatalf("cleanup inside the window must not extend the total, got %v", sched.TotalTime)
	}
	if bowl.Label != "Wash Bowl" {
		t.Fatalf("label = %q", bowl.Label)
	}
}

func TestCleanupAppendedAfterCook(t *testing.T) {
	eng := setupEngine(t)
	r := &domain.RecipeInput{
		Steps: []domain.StepInput{
			step("prep", "Slice", "prep", 2),
			step("cook", "Fry", "cook", 6),
			step("rest", "Rest", "passive", 5), // not longer than 5: no window
			step("wipe", "Wipe the counter", "clean", 1),
		},
		Tools: []string{"Skillet", "Tongs"},
	}

	sched := mustSchedule(t, eng, r, domain.ModeHeuristic)
	checkInvariants(t, sched)

	// rest [1, 6), cook [2, 8): tail is 8; explicit clean first, then tools.
	tests := []struct {
		id    string
		start float64
	}{
		{"wipe", 8},
		{"clean-skillet", 9},
		{"clean-tongs", 11},
	}
	for _, tt := range tests {
		if got := mustStep(t, sched, tt.id).Start; got != tt.start {
			t.Fatalf("%s start = %v, want %v", tt.id, got, tt.start)
		}
	}
	if sched.TotalTime != 13 {
		t.Fatalf("total = %v, want 13", sched.TotalTime)
	}
}

func TestEmptyRecipe(t *testing.T) {
	eng := setupEngine(t)

	tests := []struct {
		name   string
		recipe *domain.RecipeInput
	}{
		{"nothing", &domain.RecipeInput{}},
		{"tools only", &domain.RecipeInput{Tools: []string{"Pan"}}},
		{"noise only", &domain.RecipeInput{Instructions: []string{"Ok.", "  "}}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			sched := mustSchedule(t, eng, tt.recipe, domain.ModeAuto)
			if sched.TotalTime != 0 || len(sched.Steps()) != 0 {
				t.Fatalf("expected empty schedule, got total %v with %d steps", sched.TotalTime, len(sched.Steps()))
			}
			if len(sched.Tracks) != len(domain.TrackOrder) {
				t.Fatalf("expected %d empty tracks, got %d", len(domain.TrackOrder), len(sched.Tracks))
			}
		})
	}
}

func TestModes(t *testing.T) {
	eng := setupEngine(t)

	withDeps := &domain.RecipeInput{Steps: []domain.StepInput{
		step("a", "Boil", "cook", 1),
		step("b", "Drain", "prep", 1, "a"),
	}}
	if sched := mustSchedule(t, eng, withDeps, domain.ModeAuto); sched.Mode != domain.ModeGraph {
		t.Fatalf("auto with dependencies chose %s", sched.Mode)
	}

	raw := &domain.RecipeInput{Instructions: []string{"Chop the onions finely"}}
	if sched := mustSchedule(t, eng, raw, domain.ModeAuto); sched.Mode != domain.ModeHeuristic {
		t.Fatalf("auto without dependencies chose %s", sched.Mode)
	}

	if _, err := eng.Schedule(raw, domain.Mode(42)); !errors.Is(err, domain.ErrUnknownMode) {
		t.Fatalf("expected ErrUnknownMode, got %v", err)
	}
	if _, err := eng.Schedule(nil, domain.ModeAuto); !errors.Is(err, domain.ErrInvalidRecipe) {
		t.Fatalf("expected ErrInvalidRecipe, got %v", err)
	}
}

func TestIdempotentAndInputUntouched(t *testing.T) {
	eng := setupEngine(t)
	r := &domain.RecipeInput{
		Steps: []domain.StepInput{
			step("a", "Boil water", "cook", 6),
			step("b", "Salt the water", "prep", 1, "a"),
			step("c", "Chill the dressing", "passive", 12),
			step("d", "Toss the salad", "prep", 2, "b", "c"),
		},
		Tools: []string{"Pot", "Bowl"},
	}
	before := r.Clone()

	first := mustSchedule(t, eng, r, domain.ModeGraph)
	second := mustSchedule(t, eng, r, domain.ModeGraph)
	checkInvariants(t, first)

	if !reflect.DeepEqual(first, second) {
		t.Fatalf("scheduling twice differs:\n%+v\n%+v", first, second)
	}
	if !reflect.DeepEqual(r, before) {
		t.Fatal("scheduling modified the caller's recipe")
	}
}

func TestScheduleStepsCopiesInput(t *testing.T) {
	eng := setupEngine(t)
	steps := []domain.Step{
		{ID: "a", Label: "Boil", Category: domain.CategoryCook, Duration: 4},
		{ID: "b", Label: "Serve", Category: domain.CategoryPrep, Duration: 1, Dependencies: []string{"a"}},
	}

	sched, err := eng.ScheduleSteps(steps, nil, domain.ModeAuto)
	if err != nil {
		t.Fatalf("schedule steps: %v", err)
	}
	if sched.Mode != domain.ModeGraph {
		t.Fatalf("mode = %s, want graph", sched.Mode)
	}
	if b := mustStep(t, sched, "b"); b.Start != 4 {
		t.Fatalf("b start = %v, want 4", b.Start)
	}
	if steps[1].Start != 0 {
		t.Fatal("ScheduleSteps wrote into the caller's slice")
	}
}

func TestScheduleStepsUnknownCategory(t *testing.T) {
	eng := setupEngine(t)
	steps := []domain.Step{
		{ID: "a", Label: "Mystery", Category: domain.Category(9), Duration: 5},
		{ID: "b", Label: "Also odd", Category: domain.Category(-1), Duration: 2},
	}

	for _, mode := range []domain.Mode{domain.ModeHeuristic, domain.ModeGraph} {
		t.Run(mode.String(), func(t *testing.T) {
			sched, err := eng.ScheduleSteps(steps, nil, mode)
			if err != nil {
				t.Fatalf("schedule steps: %v", err)
			}
			checkInvariants(t, sched)

			a := mustStep(t, sched, "a")
			if a.Category != domain.CategoryPrep || a.Start != 0 || a.End != 5 {
				t.Fatalf("a = %s [%v,%v), want prep [0,5)", a.Category, a.Start, a.End)
			}
			if prep := sched.Track(domain.TrackPrep); prep == nil || len(prep.Steps) != 2 {
				t.Fatalf("both steps should land on the prep track, got %+v", prep)
			}
		})
	}
}

func TestScheduleStepsDuplicateIDs(t *testing.T) {
	eng := setupEngine(t)
	steps := []domain.Step{
		{ID: "boil", Label: "Boil water", Category: domain.CategoryCook, Duration: 3},
		{ID: "a", Label: "Cook pasta", Category: domain.CategoryCook, Duration: 5, Dependencies: []string{"boil"}},
		{ID: "a", Label: "Grate cheese", Category: domain.CategoryPrep, Duration: 2},
		{ID: "b", Label: "Toss", Category: domain.CategoryPrep, Duration: 1, Dependencies: []string{"a"}},
	}

	sched, err := eng.ScheduleSteps(steps, nil, domain.ModeGraph)
	if err != nil {
		t.Fatalf("schedule steps: %v", err)
	}
	checkInvariants(t, sched)

	tests := []struct {
		id    string
		start float64
	}{
		{"a", 3},
		{"a-2", 0},
		{"b", 8},
	}
	for _, tt := range tests {
		if got := mustStep(t, sched, tt.id).Start; got != tt.start {
			t.Fatalf("%s start = %v, want %v", tt.id, got, tt.start)
		}
	}
	if steps[2].ID != "a" {
		t.Fatal("ScheduleSteps renamed the caller's step")
	}
}

func TestCleanupOffsetPastWindowAppends(t *testing.T) {
	eng := setupEngine(t, WithCleanupWindow(1, 4))
	r := &domain.RecipeInput{
		Steps: []domain.StepInput{step("rest", "Rest the dough", "passive", 3)},
		Tools: []string{"Pan"},
	}

	sched := mustSchedule(t, eng, r, domain.ModeHeuristic)
	checkInvariants(t, sched)

	// rest runs [0, 3); washing would open at 4, so it goes after instead.
	pan := mustStep(t, sched, "clean-pan")
	if pan.Start != 3 || pan.End != 5 || pan.Duration != 2 {
		t.Fatalf("clean-pan = [%v,%v) for %v, want [3,5) for 2", pan.Start, pan.End, pan.Duration)
	}
}

func TestNegativeOptionsClamped(t *testing.T) {
	eng := setupEngine(t,
		WithPassiveStartCap(-2),
		WithPassiveStagger(-3),
		WithCleanupWindow(-1, -5),
		WithCleanupPerTool(-2),
	)
	r := &domain.RecipeInput{
		Steps: []domain.StepInput{
			step("p", "Chop", "prep", 4),
			step("w1", "Rest", "passive", 4),
			step("w2", "Cool", "passive", 4),
		},
		Tools: []string{"Bowl"},
	}

	sched := mustSchedule(t, eng, r, domain.ModeHeuristic)
	checkInvariants(t, sched)

	for _, id := range []string{"w1", "w2"} {
		if got := mustStep(t, sched, id).Start; got != 0 {
			t.Fatalf("%s start = %v, want 0", id, got)
		}
	}
	if bowl := mustStep(t, sched, "clean-bowl"); bowl.Start != 0 || bowl.End != 4 {
		t.Fatalf("clean-bowl = [%v,%v), want [0,4)", bowl.Start, bowl.End)
	}
}

func TestToolsInferredFromText(t *testing.T) {
	eng := setupEngine(t)
	r := &domain.RecipeInput{Steps: []domain.StepInput{
		step("melt", "Melt the butter in a skillet", "cook", 3),
		step("chop", "Chop the potatoes", "prep", 5),
	}}

	sched := mustSchedule(t, eng, r, domain.ModeHeuristic)
	checkInvariants(t, sched)

	if _, ok := sched.Step("clean-skillet"); !ok {
		t.Fatal("expected a cleanup step for the skillet named in the text")
	}
	if _, ok := sched.Step("clean-pot"); ok {
		t.Fatal("potatoes must not be read as a pot")
	}
}

func TestPackRows(t *testing.T) {
	steps := []domain.Step{
		{ID: "d", Start: 4, End: 6},
		{ID: "a", Start: 0, End: 3},
		{ID: "c", Start: 3, End: 5},
		{ID: "b", Start: 1, End: 4},
	}
	for i := range steps {
		steps[i].Duration = steps[i].End - steps[i].Start
	}

	rows := PackRows(steps)
	if rows != 2 {
		t.Fatalf("rows = %d, want 2", rows)
	}
	want := map[string]int{"a": 0, "b": 1, "c": 0, "d": 1}
	for _, s := range steps {
		if s.Row != want[s.ID] {
			t.Fatalf("step %s row = %d, want %d", s.ID, s.Row, want[s.ID])
		}
	}
	if steps[0].ID != "a" {
		t.Fatalf("expected steps sorted by start, first is %s", steps[0].ID)
	}
}

func TestAggregateSkipsEmptyTracks(t *testing.T) {
	sched := &domain.Schedule{Tracks: []domain.Track{
		{ID: domain.TrackPrep},
		{ID: domain.TrackCook, Steps: []domain.Step{{Start: 5, Duration: 3}, {Start: 6, Duration: 1}}},
		{ID: domain.TrackClean},
	}}

	Aggregate(sched)
	cook := sched.Track(domain.TrackCook)
	if cook.Start != 5 || cook.End != 8 {
		t.Fatalf("cook track = [%v, %v], want [5, 8]", cook.Start, cook.End)
	}
	if sched.TotalTime != 8 {
		t.Fatalf("total = %v, want 8", sched.TotalTime)
	}

	Aggregate(&domain.Schedule{})
}

func TestConcurrentRunsShareNothing(t *testing.T) {
	eng := setupEngine(t)
	recipes := []*domain.RecipeInput{
		{Instructions: []string{"Preheat the oven. Chop the onions finely. Bake for 20 minutes."}, Tools: []string{"Pan"}},
		{Steps: []domain.StepInput{step("a", "Boil", "cook", 3), step("b", "Drain", "prep", 1, "a")}},
	}
	want := make([]*domain.Schedule, len(recipes))
	for i, r := range recipes {
		want[i] = mustSchedule(t, eng, r, domain.ModeAuto)
	}

	var wg sync.WaitGroup
	errs := make(chan error, 20)
	for n := 0; n < 10; n++ {
		for i, r := range recipes {
			wg.Add(1)
			go func(i int, r *domain.RecipeInput) {
				defer wg.Done()
				got, err := eng.Schedule(r, domain.ModeAuto)
				if err != nil {
					errs <- err
					return
				}
				if !reflect.DeepEqual(got, want[i]) {
					errs <- fmt.Errorf("recipe %d: concurrent run differs", i)
				}
			}(i, r)
		}
	}
	wg.Wait()
	close(errs)
	for err := range errs {
		t.Fatal(err)
	}
}

func TestCachedEngine(t *testing.T) {
	log := logger.New(logger.LevelOff, nil)
	store := storage.NewMemoryStore(log)
	eng := setupEngine(t)
	cached := NewCached(eng, store, log)
	ctx := context.Background()

	r := &domain.RecipeInput{ID: "toast", Instructions: []string{"Toast the bread for 3 minutes"}}

	first, err := cached.Schedule(ctx, r, domain.ModeHeuristic)
	if err != nil {
		t.Fatalf("first: %v", err)
	}
	first.Tracks[1].Steps[0].Completed = true

	second, err := cached.Schedule(ctx, r, domain.ModeHeuristic)
	if err != nil {
		t.Fatalf("second: %v", err)
	}
	if second.Tracks[1].Steps[0].Completed {
		t.Fatal("cache returned the caller's mutated schedule")
	}
	if n, _ := store.Len(ctx); n != 1 {
		t.Fatalf("expected 1 cached schedule, got %d", n)
	}

	// A differently tuned engine must not reuse the entry.
	other := NewCached(setupEngine(t, WithPassiveStagger(3)), store, log)
	if _, err := other.Schedule(ctx, r, domain.ModeHeuristic); err != nil {
		t.Fatalf("other: %v", err)
	}
	if n, _ := store.Len(ctx); n != 2 {
		t.Fatalf("expected 2 cached schedules, got %d", n)
	}

	if err := cached.Invalidate(ctx, r, domain.ModeHeuristic); err != nil {
		t.Fatalf("invalidate: %v", err)
	}
	if err := cached.Invalidate(ctx, r, domain.ModeHeuristic); err != nil {
		t.Fatalf("second invalidate should be a no-op, got %v", err)
	}
}
