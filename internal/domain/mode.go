package domain

import (
	"fmt"
	"strings"
)

// Mode selects the scheduling strategy.
type Mode int

const (
	// ModeAuto uses the graph strategy when any step declares dependencies
	// and the heuristic strategy otherwise.
	ModeAuto Mode = iota
	// ModeHeuristic places steps by category rules.
	ModeHeuristic
	// ModeGraph computes earliest starts from explicit dependencies.
	ModeGraph
)

// String returns the mode name.
func (m Mode) String() string {
	switch m {
	case ModeAuto:
		return "auto"
	case ModeHeuristic:
		return "heuristic"
	case ModeGraph:
		return "graph"
	default:
		return "unknown"
	}
}

// MarshalText implements encoding.TextMarshaler.
func (m Mode) MarshalText() ([]byte, error) {
	return []byte(m.String()), nil
}

// UnmarshalText implements encoding.TextUnmarshaler.
func (m *Mode) UnmarshalText(b []byte) error {
	parsed, err := ParseMode(string(b))
	if err != nil {
		return err
	}
	*m = parsed
	return nil
}

var modeNames = map[string]Mode{
	"":          ModeAuto,
	"auto":      ModeAuto,
	"heuristic": ModeHeuristic,
	"graph":     ModeGraph,
}

// ParseMode converts a mode name to a Mode.
func ParseMode(name string) (Mode, error) {
	if m, ok := modeNames[strings.ToLower(strings.TrimSpace(name))]; ok {
		return m, nil
	}
	return ModeAuto, fmt.Errorf("%w: %q", ErrUnknownMode, name)
}
