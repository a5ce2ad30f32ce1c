package domain

import "strings"

// Category classifies how much attention a step needs.
type Category int

const (
	// CategoryPrep is hands-on preparation: chopping, mixing, measuring.
	CategoryPrep Category = iota
	// CategoryCook is active cooking that needs monitoring.
	CategoryCook
	// CategoryPassive can be left unattended and may overlap other work.
	CategoryPassive
	// CategoryClean is washing up.
	CategoryClean
)

// Valid reports whether c is one of the defined categories.
func (c Category) Valid() bool {
	return c >= CategoryPrep && c <= CategoryClean
}

// String returns the lowercase category name.
func (c Category) String() string {
	switch c {
	case CategoryPrep:
		return "prep"
	case CategoryCook:
		return "cook"
	case CategoryPassive:
		return "passive"
	case CategoryClean:
		return "clean"
	default:
		return "unknown"
	}
}

// MarshalText implements encoding.TextMarshaler.
func (c Category) MarshalText() ([]byte, error) {
	return []byte(c.String()), nil
}

// UnmarshalText implements encoding.TextUnmarshaler. Unknown names decode to
// CategoryPrep.
func (c *Category) UnmarshalText(b []byte) error {
	*c = ParseCategory(string(b))
	return nil
}

var categoryNames = map[string]Category{
	"prep":    CategoryPrep,
	"cook":    CategoryCook,
	"passive": CategoryPassive,
	"clean":   CategoryClean,
	"cleanup": CategoryClean,
}

// ParseCategory converts a category name to a Category. Unrecognized names
// return CategoryPrep.
func ParseCategory(name string) Category {
	if c, ok := categoryNames[strings.ToLower(strings.TrimSpace(name))]; ok {
		return c
	}
	return CategoryPrep
}

// TrackFor returns the display track a category belongs to. Passive steps
// share the cook track with active cooking.
func (c Category) TrackFor() TrackID {
	switch c {
	case CategoryCook, CategoryPassive:
		return TrackCook
	case CategoryClean:
		return TrackClean
	default:
		return TrackPrep
	}
}

// Step is one atomic instruction placed on the timeline. Times are minutes
// from zero.
type Step struct {
	ID           string   `json:"id"`
	Label        string   `json:"label"`
	Category     Category `json:"category"`
	Duration     float64  `json:"duration"`
	Dependencies []string `json:"dependencies,omitempty"`
	Start        float64  `json:"start"`
	End          float64  `json:"end"`
	Row          int      `json:"row"`
	Completed    bool     `json:"completed"`
}

// TrackID names a display lane.
type TrackID string

const (
	TrackPrep  TrackID = "prep"
	TrackCook  TrackID = "cook"
	TrackClean TrackID = "clean"
)

// TrackOrder is the display order of tracks.
var TrackOrder = []TrackID{TrackPrep, TrackCook, TrackClean}

// Label returns the human-readable track name.
func (t TrackID) Label() string {
	switch t {
	case TrackPrep:
		return "Prep"
	case TrackCook:
		return "Cook"
	case TrackClean:
		return "Cleanup"
	default:
		return string(t)
	}
}

// ColorRole is the palette slot a renderer should use for the track.
func (t TrackID) ColorRole() string {
	switch t {
	case TrackPrep:
		return "primary"
	case TrackCook:
		return "warning"
	case TrackClean:
		return "secondary"
	default:
		return "muted"
	}
}

// Track groups steps for display. Start and End are derived from Steps by the
// aggregator; an empty track has both at zero and Empty() true.
type Track struct {
	ID        TrackID `json:"id"`
	Label     string  `json:"label"`
	ColorRole string  `json:"color_role"`
	Start     float64 `json:"start"`
	End       float64 `json:"end"`
	Rows      int     `json:"rows"`
	Steps     []Step  `json:"steps"`
}

// Empty reports whether the track has no steps.
func (t *Track) Empty() bool { return len(t.Steps) == 0 }

// CycleEdge records a dependency edge that was cut because it closed a cycle.
type CycleEdge struct {
	From string `json:"from"` // step whose dependency list holds the edge
	To   string `json:"to"`   // dependency already on the visiting path
}

// Schedule is the planner's output.
type Schedule struct {
	RecipeID       string      `json:"recipe_id,omitempty"`
	RecipeName     string      `json:"recipe_name,omitempty"`
	Mode           Mode        `json:"mode"`
	Tracks         []Track     `json:"tracks"`
	TotalTime      float64     `json:"total_time"`
	SequentialTime float64     `json:"sequential_time"`
	TotalTimeHint  float64     `json:"total_time_hint,omitempty"`
	Cycles         []CycleEdge `json:"cycles,omitempty"`
}

// Track returns the track with the given ID, or nil.
func (s *Schedule) Track(id TrackID) *Track {
	for i := range s.Tracks {
		if s.Tracks[i].ID == id {
			return &s.Tracks[i]
		}
	}
	return nil
}

// Steps returns every step across all tracks in track order.
func (s *Schedule) Steps() []Step {
	var out []Step
	for _, t := range s.Tracks {
		out = append(out, t.Steps...)
	}
	return out
}

// Step looks up a step by ID across all tracks.
func (s *Schedule) Step(id string) (*Step, bool) {
	for i := range s.Tracks {
		for j := range s.Tracks[i].Steps {
			if s.Tracks[i].Steps[j].ID == id {
				return &s.Tracks[i].Steps[j], true
			}
		}
	}
	return nil, false
}

// Saved returns the minutes won by overlapping work.
func (s *Schedule) Saved() float64 {
	return s.SequentialTime - s.TotalTime
}

// DisplayTotal returns the time to show the user: the recipe's own hint when
// present, otherwise the computed total.
func (s *Schedule) DisplayTotal() float64 {
	if s.TotalTimeHint > 0 {
		return s.TotalTimeHint
	}
	return s.TotalTime
}

// Clone returns a deep copy.
func (s *Schedule) Clone() *Schedule {
	out := *s
	out.Cycles = append([]CycleEdge(nil), s.Cycles...)
	out.Tracks = make([]Track, len(s.Tracks))
	for i, t := range s.Tracks {
		steps := make([]Step, len(t.Steps))
		for j, st := range t.Steps {
			st.Dependencies = append([]string(nil), st.Dependencies...)
			steps[j] = st
		}
		t.Steps = steps
		out.Tracks[i] = t
	}
	return &out
}
