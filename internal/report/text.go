// Package report renders entity statistics for people and for other tools.
package report

import (
	"fmt"
	"io"
	"strings"

	"github.com/charmbracelet/lipgloss"

	"github.com/bryan-cox/streakledger/internal/dates"
	"github.com/bryan-cox/streakledger/internal/model"
)

// Text output markers.
const (
	TextBanner     = "=======Autogenerated by StreakLedger======="
	TextNoEntities = "No tasks found for the selected date range."
	IconFire       = "🔥"
	IconArrow      = "→"
)

// TextOptions carries the context printed around the entity blocks.
type TextOptions struct {
	Window  *model.Window
	SortKey model.SortKey
}

// styles are bound to one renderer so color support follows the writer.
type styles struct {
	title  lipgloss.Style
	entity lipgloss.Style
	key    lipgloss.Style
	muted  lipgloss.Style
	good   lipgloss.Style
}

func newStyles(out io.Writer) styles {
	r := lipgloss.NewRenderer(out)
	return styles{
		title:  r.NewStyle().Bold(true).Foreground(lipgloss.Color("#FFD700")),
		entity: r.NewStyle().Bold(true).Foreground(lipgloss.Color("#FFBF00")),
		key:    r.NewStyle().Foreground(lipgloss.Color("#AAAAAA")).Width(18),
		muted:  r.NewStyle().Foreground(lipgloss.Color("#666666")),
		good:   r.NewStyle().Foreground(lipgloss.Color("#50C878")),
	}
}

// PrintText writes a human-readable streak report to out.
func PrintText(out io.Writer, stats []model.EntityStats, opts TextOptions) {
	st := newStyles(out)

	fmt.Fprintln(out, st.title.Render(fmt.Sprintf("Streak Report (%s)", DescribeWindow(opts.Window))))
	fmt.Fprintln(out, st.muted.Render(TextBanner))

	if len(stats) == 0 {
		fmt.Fprintln(out)
		fmt.Fprintln(out, st.muted.Render(TextNoEntities))
		return
	}
	if opts.SortKey != "" {
		fmt.Fprintln(out, st.muted.Render("Sorted by "+opts.SortKey.Label()))
	}

	for _, s := range stats {
		printEntity(out, st, s)
	}
}

func printEntity(out io.Writer, st styles, s model.EntityStats) {
	fmt.Fprintln(out)
	fmt.Fprintln(out, st.entity.Render(EntityLabel(s.EntityKey)))

	current := fmt.Sprintf("%d", s.CurrentStreak)
	if s.CurrentStreak > 0 {
		current = st.good.Render(current + " " + IconFire)
	}
	if span := describeSpan(s); span != "" {
		current += " " + st.muted.Render("("+span+")")
	}
	printKv(out, st, "Current streak", current)
	printKv(out, st, "Longest streak", fmt.Sprintf("%d", s.LongestStreak))
	printKv(out, st, "Completed", fmt.Sprintf("%d/%d (%.1f%%)",
		s.CompletedTasks, s.TotalTasks, s.CompletionRatio()*100))
}

func printKv(out io.Writer, st styles, key, value string) {
	fmt.Fprintf(out, "    %s %s\n", st.key.Render(key+":"), value)
}

// EntityLabel returns the display name for an entity key.
func EntityLabel(key string) string {
	if strings.TrimSpace(key) == "" {
		return "(unassigned)"
	}
	return key
}

func describeSpan(s model.EntityStats) string {
	if s.CurrentStreakStart == nil || s.CurrentStreakEnd == nil {
		return ""
	}
	start, end := dates.Format(*s.CurrentStreakStart), dates.Format(*s.CurrentStreakEnd)
	if start == end {
		return start
	}
	return start + " " + IconArrow + " " + end
}

// DescribeWindow renders a window as "2024-03-01 to 2024-03-31". Open sides
// read "beginning" and "latest".
func DescribeWindow(w *model.Window) string {
	if w == nil || (w.Start == nil && w.End == nil) {
		return "all dates"
	}
	start, end := "beginning", "latest"
	if w.Start != nil {
		start = dates.Format(*w.Start)
	}
	if w.End != nil {
		end = dates.Format(*w.End)
	}
	return start + " to " + end
}
