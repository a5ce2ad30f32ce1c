package classify

import (
	"math"
	"regexp"
	"strconv"
	"strings"
)

const timeUnit = `(minutes?|mins?|hours?|hrs?)\b`

var (
	// "10 to 15 minutes", "10-15 min", "1–2 hours"
	rangeRe = regexp.MustCompile(`(?i)(\d+(?:\.\d+)?)\s*(?:-|–|to)\s*(\d+(?:\.\d+)?)[\s-]*` + timeUnit)
	// "10 minutes", "10-minute", "1.5 hrs"
	singleRe = regexp.MustCompile(`(?i)(\d+(?:\.\d+)?)[\s-]*` + timeUnit)
	// "1 hour 30 minutes", "2 hrs and 15 min"
	compoundRe = regexp.MustCompile(`(?i)(\d+(?:\.\d+)?)\s*(?:hours?|hrs?)\s*,?\s*(?:and\s+)?(\d+(?:\.\d+)?)\s*(?:minutes?|mins?)\b`)
)

// ExplicitDuration extracts a time figure from text. A range yields its mean
// rounded to the nearest minute, and an hour figure followed by a minute
// figure yields their sum. The second return value is false when the text
// names no usable time.
func ExplicitDuration(text string) (float64, bool) {
	if m := compoundRe.FindStringSubmatch(text); m != nil {
		h, errH := strconv.ParseFloat(m[1], 64)
		mins, errM := strconv.ParseFloat(m[2], 64)
		if errH == nil && errM == nil {
			return h*60 + mins, true
		}
	}
	if m := rangeRe.FindStringSubmatch(text); m != nil {
		lo, errLo := strconv.ParseFloat(m[1], 64)
		hi, errHi := strconv.ParseFloat(m[2], 64)
		if errLo == nil && errHi == nil {
			mult := unitMinutes(m[3])
			return math.Round((lo + hi) / 2 * mult), true
		}
	}
	if m := singleRe.FindStringSubmatch(text); m != nil {
		n, err := strconv.ParseFloat(m[1], 64)
		if err == nil && !math.IsInf(n, 0) {
			return n * unitMinutes(m[2]), true
		}
	}
	return 0, false
}

func unitMinutes(unit string) float64 {
	if strings.HasPrefix(strings.ToLower(unit), "h") {
		return 60
	}
	return 1
}
