package classify

import (
	_ "embed"
	"fmt"
	"os"

	"gopkg.in/yaml.v3"

	"github.com/hammamikhairi/ottoplan/internal/domain"
)

//go:embed keywords.yaml
var defaultRulesYAML []byte

// Rules is the classifier's configuration data. Extending the keyword lists
// never requires touching the matching code.
type Rules struct {
	Precedence        []string               `yaml:"precedence"`
	Keywords          map[string]KeywordRule `yaml:"keywords"`
	Defaults          Defaults               `yaml:"defaults"`
	MinSentenceLength int                    `yaml:"min_sentence_length"`
	ToolAdjectives    []string               `yaml:"tool_adjectives"`
	NonWashable       []string               `yaml:"non_washable"`
	ToolVocabulary    []string               `yaml:"tool_vocabulary"`
}

// KeywordRule maps one keyword to a category and an optional default
// duration effect.
type KeywordRule struct {
	Category string  `yaml:"category"`
	Default  float64 `yaml:"default,omitempty"`
}

// Defaults are the per-category durations, in minutes, used when a sentence
// names no time.
type Defaults struct {
	Prep     float64 `yaml:"prep"`
	Cook     float64 `yaml:"cook"`
	Passive  float64 `yaml:"passive"`
	Fallback float64 `yaml:"fallback"`
}

// For returns the default duration for a category.
func (d Defaults) For(c domain.Category) float64 {
	switch c {
	case domain.CategoryPrep:
		return d.Prep
	case domain.CategoryCook:
		return d.Cook
	case domain.CategoryPassive:
		return d.Passive
	default:
		return d.Fallback
	}
}

// DefaultRules returns the built-in rule set.
func DefaultRules() *Rules {
	r, err := ParseRules(defaultRulesYAML)
	if err != nil {
		// The embedded document is part of the binary.
		panic(fmt.Sprintf("classify: embedded keywords.yaml: %v", err))
	}
	return r
}

// ParseRules decodes a YAML rule document.
func ParseRules(data []byte) (*Rules, error) {
	var r Rules
	if err := yaml.Unmarshal(data, &r); err != nil {
		return nil, fmt.Errorf("classify: decode rules: %w", err)
	}
	if err := r.validate(); err != nil {
		return nil, err
	}
	return &r, nil
}

// LoadRules reads a YAML rule file and merges it over the built-in rules:
// keywords are added or replaced, lists are appended, and non-zero scalars
// override.
func LoadRules(path string) (*Rules, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("classify: read rules: %w", err)
	}
	var over Rules
	if err := yaml.Unmarshal(data, &over); err != nil {
		return nil, fmt.Errorf("classify: decode %s: %w", path, err)
	}
	base := DefaultRules()
	base.merge(&over)
	if err := base.validate(); err != nil {
		return nil, fmt.Errorf("classify: %s: %w", path, err)
	}
	return base, nil
}

func (r *Rules) merge(over *Rules) {
	if len(over.Precedence) > 0 {
		r.Precedence = over.Precedence
	}
	for kw, rule := range over.Keywords {
		r.Keywords[kw] = rule
	}
	if over.Defaults.Prep > 0 {
		r.Defaults.Prep = over.Defaults.Prep
	}
	if over.Defaults.Cook > 0 {
		r.Defaults.Cook = over.Defaults.Cook
	}
	if over.Defaults.Passive > 0 {
		r.Defaults.Passive = over.Defaults.Passive
	}
	if over.Defaults.Fallback > 0 {
		r.Defaults.Fallback = over.Defaults.Fallback
	}
	if over.MinSentenceLength > 0 {
		r.MinSentenceLength = over.MinSentenceLength
	}
	r.ToolAdjectives = append(r.ToolAdjectives, over.ToolAdjectives...)
	r.NonWashable = append(r.NonWashable, over.NonWashable...)
	r.ToolVocabulary = append(r.ToolVocabulary, over.ToolVocabulary...)
}

func (r *Rules) validate() error {
	if r.Keywords == nil {
		r.Keywords = map[string]KeywordRule{}
	}
	known := map[string]bool{}
	for _, name := range r.Precedence {
		if domain.ParseCategory(name).String() != name {
			return fmt.Errorf("classify: precedence names unknown category %q", name)
		}
		known[name] = true
	}
	for kw, rule := range r.Keywords {
		if !known[rule.Category] {
			return fmt.Errorf("classify: keyword %q maps to %q, which is not in precedence", kw, rule.Category)
		}
		if rule.Default < 0 {
			return fmt.Errorf("classify: keyword %q has negative default", kw)
		}
	}
	return nil
}
