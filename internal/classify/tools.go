package classify

import (
	"regexp"
	"sort"
	"strings"

	"golang.org/x/text/cases"
	"golang.org/x/text/language"
)

var (
	parentheticalRe = regexp.MustCompile(`\([^)]*\)`)
	// "8-inch", "9x13", "9x13-inch", "12\"", "3-quart", "2 l"
	measureRe = regexp.MustCompile(`^\d+(?:\.\d+)?(?:x\d+(?:\.\d+)?)?(?:-?(?:inch|in|cm|mm|quart|qt|cup|oz|l|liter|litre|gallon)s?)?"?$`)
	spaceRe   = regexp.MustCompile(`\s+`)
	slugRe    = regexp.MustCompile(`[^a-z0-9]+`)
)

// toolVocab is the compiled view of the tool lists in Rules.
type toolVocab struct {
	adjectives  map[string]bool
	phrases     []string // hyphenated adjectives that may be written with a space
	nonWashable map[string]bool
	known       []toolPattern // longest name first
}

// toolPattern finds one vocabulary tool in free text, plural included.
type toolPattern struct {
	name  string
	regex *regexp.Regexp
}

func newToolVocab(r *Rules) toolVocab {
	v := toolVocab{
		adjectives:  make(map[string]bool, len(r.ToolAdjectives)),
		nonWashable: make(map[string]bool, len(r.NonWashable)),
	}
	for _, a := range r.ToolAdjectives {
		a = strings.ToLower(strings.TrimSpace(a))
		v.adjectives[a] = true
		if strings.Contains(a, "-") {
			v.phrases = append(v.phrases, a)
		}
	}
	for _, n := range r.NonWashable {
		v.nonWashable[strings.ToLower(strings.TrimSpace(n))] = true
	}

	seen := map[string]bool{}
	var names []string
	for _, n := range r.ToolVocabulary {
		n = strings.ToLower(strings.TrimSpace(n))
		if n == "" || seen[n] {
			continue
		}
		seen[n] = true
		names = append(names, n)
	}
	sort.SliceStable(names, func(i, j int) bool { return len(names[i]) > len(names[j]) })
	for _, n := range names {
		v.known = append(v.known, toolPattern{
			name:  n,
			regex: regexp.MustCompile(`(?i)\b` + regexp.QuoteMeta(n) + `(?:e?s)?\b`),
		})
	}
	return v
}

// clean lowercases, drops parentheticals and collapses whitespace.
func (v toolVocab) clean(tool string) string {
	s := strings.ToLower(tool)
	s = parentheticalRe.ReplaceAllString(s, " ")
	s = strings.Trim(strings.TrimSpace(spaceRe.ReplaceAllString(s, " ")), ",.;:")
	for _, p := range v.phrases {
		s = strings.ReplaceAll(s, strings.ReplaceAll(p, "-", " "), p)
	}
	return s
}

// normalize strips leading size and material words. A name made only of
// such words keeps its last word.
func (v toolVocab) normalize(tool string) string {
	words := strings.Fields(v.clean(tool))
	i := 0
	for i < len(words)-1 && (v.adjectives[words[i]] || measureRe.MatchString(words[i])) {
		i++
	}
	return strings.Join(words[i:], " ")
}

func (v toolVocab) washable(tool string) bool {
	for _, name := range []string{v.clean(tool), v.normalize(tool)} {
		if name == "" || v.nonWashable[name] || v.nonWashable[strings.TrimSuffix(name, "s")] {
			return false
		}
	}
	return true
}

// titleCase renders a normalized tool name for a step label. A Caser holds
// state, so each call gets its own.
func titleCase(s string) string {
	return cases.Title(language.English).String(s)
}

func slug(s string) string {
	return strings.Trim(slugRe.ReplaceAllString(strings.ToLower(s), "-"), "-")
}
