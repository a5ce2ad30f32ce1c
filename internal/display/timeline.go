package display

import (
	"fmt"
	"math"
	"sort"
	"strconv"
	"strings"

	"github.com/charmbracelet/lipgloss"
	"github.com/charmbracelet/x/ansi"

	"github.com/hammamikhairi/ottoplan/internal/domain"
)

const (
	labelWidth = 9 // "Cleanup" plus padding
	minChart   = 20
)

// Render draws the schedule as one band per non-empty track, one line per
// packed row, followed by a minute ruler and a summary line. width is the
// full line width in columns.
func Render(sched *domain.Schedule, width int) string {
	return render(sched, width, "")
}

// render draws the timeline; the step named by selected is highlighted.
func render(sched *domain.Schedule, width int, selected string) string {
	var b strings.Builder
	b.WriteString(header(sched))
	b.WriteByte('\n')

	if sched.TotalTime <= 0 {
		b.WriteString(secondaryStyle.Render("  Nothing to schedule."))
		b.WriteByte('\n')
		return b.String()
	}

	chartW := max(width-labelWidth, minChart)
	scale := float64(chartW) / sched.TotalTime

	for _, track := range sched.Tracks {
		if track.Empty() {
			continue
		}
		rows := make([][]domain.Step, max(track.Rows, 1))
		for _, s := range track.Steps {
			r := min(max(s.Row, 0), len(rows)-1)
			rows[r] = append(rows[r], s)
		}
		for i, row := range rows {
			label := ""
			if i == 0 {
				label = track.Label
			}
			b.WriteString(trackLabelStyle.Render(pad(label, labelWidth)))
			b.WriteString(renderRow(row, track.ColorRole, scale, chartW, selected))
			b.WriteByte('\n')
		}
	}

	b.WriteString(secondaryStyle.Render(pad("min", labelWidth)))
	b.WriteString(secondaryStyle.Render(ruler(sched.TotalTime, scale, chartW)))
	b.WriteByte('\n')
	b.WriteString(Summary(sched))
	b.WriteByte('\n')
	return b.String()
}

func header(sched *domain.Schedule) string {
	name := sched.RecipeName
	if name == "" {
		name = sched.RecipeID
	}
	if name == "" {
		name = "Schedule"
	}
	return titleStyle.Render(name) + secondaryStyle.Render(" ("+sched.Mode.String()+")")
}

// renderRow lays the row's steps out as coloured bars on a chartW-wide line.
func renderRow(steps []domain.Step, role string, scale float64, chartW int, selected string) string {
	sort.SliceStable(steps, func(i, j int) bool { return steps[i].Start < steps[j].Start })

	var b strings.Builder
	cursor := 0
	for _, s := range steps {
		c0 := max(column(s.Start, scale), cursor)
		if c0 >= chartW {
			break
		}
		c1 := min(column(s.End, scale), chartW)
		if c1 <= c0 {
			c1 = c0 + 1
		}
		b.WriteString(strings.Repeat(" ", c0-cursor))
		b.WriteString(barStyle(s, role, s.ID == selected).Render(pad(s.Label, c1-c0)))
		cursor = c1
	}
	b.WriteString(strings.Repeat(" ", chartW-cursor))
	return b.String()
}

func barStyle(s domain.Step, role string, selected bool) lipgloss.Style {
	bg, ok := palette[role]
	if !ok {
		bg = palette["muted"]
	}
	if s.Category == domain.CategoryPassive {
		bg = passiveBg
	}
	st := lipgloss.NewStyle().Background(bg).Foreground(barFg)
	if s.Category == domain.CategoryPassive {
		st = st.Italic(true)
	}
	if s.Completed {
		st = st.Background(lipgloss.Color("#3f3f46")).Foreground(lipgloss.Color("#a1a1aa")).Strikethrough(true)
	}
	if selected {
		st = st.Bold(true).Underline(true)
	}
	return st
}

func column(minutes, scale float64) int {
	return int(math.Round(minutes * scale))
}

// pad truncates or right-pads s to exactly n cells.
func pad(s string, n int) string {
	if n <= 0 {
		return ""
	}
	s = ansi.Truncate(s, n, "…")
	if w := ansi.StringWidth(s); w < n {
		s += strings.Repeat(" ", n-w)
	}
	return s
}

// tickSteps are the candidate ruler spacings in minutes.
var tickSteps = []float64{1, 2, 5, 10, 15, 30, 60, 120, 240}

// ruler marks minutes along the chart, spacing ticks at least eight columns
// apart. A mark that would run off the right edge is pulled back inside.
func ruler(total, scale float64, chartW int) string {
	tick := tickSteps[len(tickSteps)-1]
	for _, t := range tickSteps {
		if t*scale >= 8 {
			tick = t
			break
		}
	}

	line := []rune(strings.Repeat(" ", chartW))
	for t := 0.0; t <= total+1e-9; t += tick {
		mark := []rune("|" + formatMinutes(t))
		c := min(column(t, scale), chartW-len(mark))
		for i, r := range mark {
			if c+i >= 0 {
				line[c+i] = r
			}
		}
	}
	return strings.TrimRight(string(line), " ")
}

// Summary is the one-line verdict under the timeline.
func Summary(sched *domain.Schedule) string {
	var parts []string
	parts = append(parts, fmt.Sprintf("Total %s", humanMinutes(sched.TotalTime)))
	parts = append(parts, fmt.Sprintf("one thing at a time %s", humanMinutes(sched.SequentialTime)))

	line := "  " + strings.Join(parts, secondaryStyle.Render(" · "))
	if saved := sched.Saved(); saved > 0 && sched.SequentialTime > 0 {
		pct := int(math.Round(saved / sched.SequentialTime * 100))
		line += secondaryStyle.Render(" · ") + savedStyle.Render(fmt.Sprintf("saves %s (%d%%)", humanMinutes(saved), pct))
	}
	if sched.TotalTimeHint > 0 {
		line += secondaryStyle.Render(fmt.Sprintf(" · recipe says %s", humanMinutes(sched.TotalTimeHint)))
	}
	if len(sched.Cycles) > 0 {
		edges := make([]string, len(sched.Cycles))
		for i, e := range sched.Cycles {
			edges[i] = e.From + "→" + e.To
		}
		line += "\n  " + warnStyle.Render("dependency cycle ignored: "+strings.Join(edges, ", "))
	}
	return line
}

// RenderList prints every step in start order with its time window.
func RenderList(sched *domain.Schedule) string {
	return renderList(sched, "")
}

func renderList(sched *domain.Schedule, selected string) string {
	var b strings.Builder
	for _, s := range ordered(sched) {
		mark := "  "
		if s.ID == selected {
			mark = cursorStyle.Render("> ")
		}
		check := "[ ]"
		if s.Completed {
			check = "[x]"
		}
		window := fmt.Sprintf("%6s–%-6s", formatMinutes(s.Start), formatMinutes(s.End))
		text := fmt.Sprintf("%s %s %-8s %s", check, window, s.Category, s.Label)
		if s.Completed {
			text = doneStyle.Render(text)
		}
		b.WriteString(mark + text + "\n")
	}
	return b.String()
}

// ordered returns all steps sorted by start, ties in track order.
func ordered(sched *domain.Schedule) []domain.Step {
	steps := sched.Steps()
	sort.SliceStable(steps, func(i, j int) bool { return steps[i].Start < steps[j].Start })
	return steps
}

func formatMinutes(m float64) string {
	return strconv.FormatFloat(math.Round(m*10)/10, 'f', -1, 64)
}

func humanMinutes(m float64) string {
	if m < 60 {
		return formatMinutes(m) + " min"
	}
	total := int(math.Round(m))
	h, rest := total/60, total%60
	if rest == 0 {
		return fmt.Sprintf("%d h", h)
	}
	return fmt.Sprintf("%d h %d min", h, rest)
}
