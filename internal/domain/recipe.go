// Package domain defines the core types and interfaces for the step planner.
// All other packages depend on domain; domain depends on nothing.
package domain

// RecipeInput is what a scraper, an LLM structurer, or manual entry hands to
// the planner. Either Instructions (raw sentences) or Steps (pre-structured)
// must be set; when both are present Steps wins.
type RecipeInput struct {
	ID           string      `json:"id" yaml:"id"`
	Name         string      `json:"name" yaml:"name"`
	Description  string      `json:"description,omitempty" yaml:"description,omitempty"`
	Tags         []string    `json:"tags,omitempty" yaml:"tags,omitempty"`
	Ingredients  []string    `json:"ingredients,omitempty" yaml:"ingredients,omitempty"`
	Instructions []string    `json:"instructions,omitempty" yaml:"instructions,omitempty"`
	Steps        []StepInput `json:"steps,omitempty" yaml:"steps,omitempty"`
	Tools        []string    `json:"tools,omitempty" yaml:"tools,omitempty"`

	// TotalTimeHint is the recipe's advertised total time in minutes. It is
	// carried to the Schedule for display and never used for placement.
	TotalTimeHint float64 `json:"total_time_hint,omitempty" yaml:"total_time_hint,omitempty"`
}

// RecipeSummary is a lightweight view of a recipe for listing.
type RecipeSummary struct {
	ID          string
	Name        string
	Description string
	Tags        []string
}

// StepInput is a pre-structured step. Duration is a pointer so that an
// explicit zero can be told apart from "unknown".
type StepInput struct {
	ID           string   `json:"id,omitempty" yaml:"id,omitempty"`
	Text         string   `json:"text" yaml:"text"`
	Duration     *float64 `json:"duration,omitempty" yaml:"duration,omitempty"`
	Category     string   `json:"category,omitempty" yaml:"category,omitempty"`
	Dependencies []string `json:"dependencies,omitempty" yaml:"dependencies,omitempty"`
}

// HasDependencies reports whether any structured step declares prerequisites.
func (r *RecipeInput) HasDependencies() bool {
	for _, s := range r.Steps {
		if len(s.Dependencies) > 0 {
			return true
		}
	}
	return false
}

// Clone returns a deep copy so callers can hand out recipes without sharing
// slices.
func (r *RecipeInput) Clone() *RecipeInput {
	out := *r
	out.Tags = append([]string(nil), r.Tags...)
	out.Ingredients = append([]string(nil), r.Ingredients...)
	out.Instructions = append([]string(nil), r.Instructions...)
	out.Tools = append([]string(nil), r.Tools...)
	if r.Steps != nil {
		out.Steps = make([]StepInput, len(r.Steps))
		for i, s := range r.Steps {
			s.Dependencies = append([]string(nil), s.Dependencies...)
			if s.Duration != nil {
				d := *s.Duration
				s.Duration = &d
			}
			out.Steps[i] = s
		}
	}
	return &out
}

// Minutes is a convenience for building StepInput literals.
func Minutes(m float64) *float64 {
	return &m
}
