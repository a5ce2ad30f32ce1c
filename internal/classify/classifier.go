// Package classify turns free-text recipe instructions into step skeletons:
// a category and a duration for every single-action sentence, plus one
// cleanup step per washable tool. It is pure; nothing here touches I/O.
package classify

import (
	"fmt"
	"regexp"
	"sort"
	"strings"

	"github.com/hammamikhairi/ottoplan/internal/domain"
	"github.com/hammamikhairi/ottoplan/internal/logger"
)

// keywordRule is one compiled keyword.
type keywordRule struct {
	keyword string
	regex   *regexp.Regexp
	def     float64
}

// Classifier matches instruction text against keyword rules. It holds no
// mutable state after construction and is safe for concurrent use.
type Classifier struct {
	log      *logger.Logger
	rules    *Rules
	ordered  []domain.Category // precedence
	keywords map[domain.Category][]keywordRule
	tools    toolVocab
}

// New creates a classifier. A nil rules value uses DefaultRules.
func New(rules *Rules, log *logger.Logger) *Classifier {
	if rules == nil {
		rules = DefaultRules()
	}
	c := &Classifier{
		log:      log,
		rules:    rules,
		keywords: make(map[domain.Category][]keywordRule),
		tools:    newToolVocab(rules),
	}
	for _, name := range rules.Precedence {
		c.ordered = append(c.ordered, domain.ParseCategory(name))
	}

	// Sorted so that the default-duration effect is deterministic when
	// several keywords of one category match.
	names := make([]string, 0, len(rules.Keywords))
	for kw := range rules.Keywords {
		names = append(names, kw)
	}
	sort.Strings(names)
	for _, kw := range names {
		rule := rules.Keywords[kw]
		cat := domain.ParseCategory(rule.Category)
		c.keywords[cat] = append(c.keywords[cat], keywordRule{
			keyword: kw,
			regex:   regexp.MustCompile(`(?i)\b` + regexp.QuoteMeta(kw)),
			def:     rule.Default,
		})
	}
	return c
}

// Rules returns the rule set the classifier was built with.
func (c *Classifier) Rules() *Rules { return c.rules }

// Category returns the sentence's category and the default duration that
// applies when the sentence names no explicit time.
func (c *Classifier) Category(text string) (domain.Category, float64) {
	for _, cat := range c.ordered {
		matched := false
		def := 0.0
		for _, kw := range c.keywords[cat] {
			if !kw.regex.MatchString(text) {
				continue
			}
			matched = true
			if kw.def > def {
				def = kw.def
			}
		}
		if matched {
			if def == 0 {
				def = c.rules.Defaults.For(cat)
			}
			return cat, def
		}
	}
	return domain.CategoryPrep, c.rules.Defaults.Prep
}

// Duration returns the explicit time named in the text, or the default for
// the given category.
func (c *Classifier) Duration(text string, cat domain.Category) float64 {
	if d, ok := ExplicitDuration(text); ok {
		return d
	}
	if matchedCat, def := c.Category(text); matchedCat == cat {
		return def
	}
	return c.rules.Defaults.For(cat)
}

// Split breaks instruction strings into single-action sentences.
func (c *Classifier) Split(instructions []string) []string {
	var out []string
	for _, ins := range instructions {
		out = append(out, SplitSentences(ins, c.rules.MinSentenceLength)...)
	}
	return out
}

// Steps builds step skeletons for a recipe. Structured steps are used when
// present: a missing category is classified from the text, a missing or
// negative duration is estimated. Otherwise raw instructions are split and
// classified. The recipe itself is not modified.
func (c *Classifier) Steps(recipe *domain.RecipeInput) []domain.Step {
	ids := idAllocator{seen: map[string]int{}}

	if len(recipe.Steps) > 0 {
		out := make([]domain.Step, 0, len(recipe.Steps))
		for i, in := range recipe.Steps {
			var cat domain.Category
			def := 0.0
			if strings.TrimSpace(in.Category) != "" {
				cat = domain.ParseCategory(in.Category)
			} else {
				cat, def = c.Category(in.Text)
			}

			dur := 0.0
			switch {
			case in.Duration != nil && *in.Duration >= 0:
				dur = *in.Duration
			default:
				if d, ok := ExplicitDuration(in.Text); ok {
					dur = d
				} else if def > 0 {
					dur = def
				} else {
					dur = c.Duration(in.Text, cat)
				}
			}

			id := in.ID
			if id == "" {
				id = fmt.Sprintf("step-%d", i+1)
			}
			out = append(out, domain.Step{
				ID:           ids.unique(id),
				Label:        strings.TrimSpace(in.Text),
				Category:     cat,
				Duration:     dur,
				Dependencies: append([]string(nil), in.Dependencies...),
			})
		}
		c.log.Debug("built %d structured steps for %q", len(out), recipe.Name)
		return out
	}

	sentences := c.Split(recipe.Instructions)
	out := make([]domain.Step, 0, len(sentences))
	for i, s := range sentences {
		cat, def := c.Category(s)
		dur, ok := ExplicitDuration(s)
		if !ok {
			dur = def
		}
		out = append(out, domain.Step{
			ID:       ids.unique(fmt.Sprintf("step-%d", i+1)),
			Label:    s,
			Category: cat,
			Duration: dur,
		})
	}
	c.log.Debug("classified %d sentences for %q", len(out), recipe.Name)
	return out
}

// maxInferredTools caps how many tools InferTools reports.
const maxInferredTools = 10

// Tools returns the recipe's own tool list, or the tools its text mentions
// when it lists none.
func (c *Classifier) Tools(recipe *domain.RecipeInput) []string {
	if len(recipe.Tools) > 0 {
		return recipe.Tools
	}
	texts := append([]string(nil), recipe.Instructions...)
	for _, s := range recipe.Steps {
		texts = append(texts, s.Text)
	}
	tools := c.InferTools(texts)
	if len(tools) > 0 {
		c.log.Debug("inferred tools for %q: %s", recipe.Name, strings.Join(tools, ", "))
	}
	return tools
}

// InferTools finds vocabulary tools named in the text, in order of first
// mention. Longer names win, so "dutch oven" is not also reported as "oven".
func (c *Classifier) InferTools(texts []string) []string {
	text := strings.Join(texts, "\n")

	type hit struct {
		name string
		at   int
	}
	var hits []hit
	for _, p := range c.tools.known {
		loc := p.regex.FindStringIndex(text)
		if loc == nil {
			continue
		}
		hits = append(hits, hit{name: p.name, at: loc[0]})
		// Blank the match so shorter names inside it are not found again.
		text = p.regex.ReplaceAllStringFunc(text, func(m string) string {
			return strings.Repeat(" ", len(m))
		})
	}
	sort.SliceStable(hits, func(i, j int) bool { return hits[i].at < hits[j].at })

	out := make([]string, 0, min(len(hits), maxInferredTools))
	for _, h := range hits {
		if len(out) == maxInferredTools {
			break
		}
		out = append(out, titleCase(h.name))
	}
	return out
}

// CleanupTools normalizes tool names, drops non-washable ones and removes
// duplicates, keeping first-seen order.
func (c *Classifier) CleanupTools(tools []string) []string {
	seen := map[string]bool{}
	var out []string
	for _, t := range tools {
		name := c.tools.normalize(t)
		if name == "" || seen[name] {
			continue
		}
		if !c.tools.washable(t) {
			c.log.Debug("tool %q is not washable, skipping", t)
			continue
		}
		seen[name] = true
		out = append(out, name)
	}
	return out
}

// NormalizeTool strips leading size and material words from a tool name.
func (c *Classifier) NormalizeTool(tool string) string {
	return c.tools.normalize(tool)
}

// CleanupSteps returns one unplaced cleanup step per washable tool. The
// scheduler assigns durations and times.
func (c *Classifier) CleanupSteps(tools []string) []domain.Step {
	names := c.CleanupTools(tools)
	out := make([]domain.Step, 0, len(names))
	for _, name := range names {
		out = append(out, domain.Step{
			ID:       "clean-" + slug(name),
			Label:    "Wash " + titleCase(name),
			Category: domain.CategoryClean,
		})
	}
	return out
}

// UniqueIDs makes step IDs unique in place, the same way Steps does for
// recipe input: an empty ID becomes step-N and a repeated one gets a numeric
// suffix. Dependencies keep pointing at the first step with the ID.
func UniqueIDs(steps []domain.Step) {
	ids := idAllocator{seen: map[string]int{}}
	for i := range steps {
		id := steps[i].ID
		if id == "" {
			id = fmt.Sprintf("step-%d", i+1)
		}
		steps[i].ID = ids.unique(id)
	}
}

// idAllocator suffixes repeated IDs so every step stays addressable. A
// suffixed ID never collides with one already handed out.
type idAllocator struct {
	seen map[string]int
}

func (a idAllocator) unique(id string) string {
	if a.seen[id] == 0 {
		a.seen[id] = 1
		return id
	}
	for n := a.seen[id] + 1; ; n++ {
		candidate := fmt.Sprintf("%s-%d", id, n)
		if a.seen[candidate] == 0 {
			a.seen[id] = n
			a.seen[candidate] = 1
			return candidate
		}
	}
}
