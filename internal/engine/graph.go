package engine

import (
	"github.com/hammamikhairi/ottoplan/internal/domain"
	"github.com/hammamikhairi/ottoplan/internal/logger"
)

// graphRun holds the state of one earliest-start pass. It never outlives a
// single Schedule call.
type graphRun struct {
	log    *logger.Logger
	byID   map[string]*domain.Step
	memo   map[string]float64
	cut    map[domain.CycleEdge]bool
	cycles []domain.CycleEdge
}

// earliestStarts sets Start and End on every step so that no step begins
// before all of its known dependencies end. Unknown dependency IDs are
// ignored. Edges that close a cycle contribute nothing and are returned.
func (e *Engine) earliestStarts(steps []domain.Step) []domain.CycleEdge {
	g := &graphRun{
		log:  e.log,
		byID: make(map[string]*domain.Step, len(steps)),
		memo: make(map[string]float64, len(steps)),
		cut:  make(map[domain.CycleEdge]bool),
	}
	for i := range steps {
		if _, dup := g.byID[steps[i].ID]; !dup {
			g.byID[steps[i].ID] = &steps[i]
		}
	}

	for i := range steps {
		// Fresh path guard per top-level step: siblings that share a
		// dependency must not see each other as cycles.
		visiting := make(map[string]bool)
		steps[i].Start = g.start(&steps[i], visiting)
		steps[i].End = steps[i].Start + steps[i].Duration
	}

	if len(g.cycles) > 0 {
		e.log.Warn("dependency cycle: %d edge(s) ignored, starts may be optimistic", len(g.cycles))
	}
	return g.cycles
}

// start returns the earliest start of step. visiting holds the steps on the
// current recursion path.
func (g *graphRun) start(step *domain.Step, visiting map[string]bool) float64 {
	if v, ok := g.memo[step.ID]; ok {
		return v
	}

	visiting[step.ID] = true
	defer delete(visiting, step.ID)

	earliest := 0.0
	for _, depID := range step.Dependencies {
		dep, ok := g.byID[depID]
		if !ok {
			g.log.Debug("step %s: unknown dependency %q ignored", step.ID, depID)
			continue
		}
		if visiting[depID] {
			g.record(domain.CycleEdge{From: step.ID, To: depID})
			continue
		}
		if end := g.start(dep, visiting) + dep.Duration; end > earliest {
			earliest = end
		}
	}

	g.memo[step.ID] = earliest
	return earliest
}

func (g *graphRun) record(edge domain.CycleEdge) {
	if g.cut[edge] {
		return
	}
	g.cut[edge] = true
	g.cycles = append(g.cycles, edge)
	g.log.Debug("cycle: %s -> %s cut", edge.From, edge.To)
}
