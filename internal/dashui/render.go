package dashui

import (
	"bytes"
	"fmt"
	"strings"

	"github.com/charmbracelet/lipgloss"

	"github.com/verte-zerg/basedash/internal/filter"
	"github.com/verte-zerg/basedash/internal/formfill"
	"github.com/verte-zerg/basedash/internal/model"
	"github.com/verte-zerg/basedash/internal/session"
	"github.com/verte-zerg/basedash/internal/stats"
)

var (
	activeNavStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("#F0F0F0")).
			Bold(true).
			Padding(0, 1).
			Border(lipgloss.RoundedBorder(), true).
			BorderForeground(lipgloss.Color("#C89A3A"))
	inactiveNavStyle = lipgloss.NewStyle().
				Foreground(lipgloss.Color("#B0B0B0")).
				Padding(0, 1).
				Border(lipgloss.RoundedBorder(), true).
				BorderForeground(lipgloss.Color("#4A4A4A"))
	headerStyle  = lipgloss.NewStyle().Foreground(lipgloss.Color("#6E6E6E"))
	errorStyle   = lipgloss.NewStyle().Foreground(lipgloss.Color("#FF4D4F"))
	warningStyle = lipgloss.NewStyle().Foreground(lipgloss.Color("#E0B050"))
	noticeStyle  = lipgloss.NewStyle().Foreground(lipgloss.Color("#6BBF59"))
	cardStyle    = lipgloss.NewStyle().
			Padding(0, 1).
			Border(lipgloss.RoundedBorder(), true).
			BorderForeground(lipgloss.Color("#4A4A4A"))
	cardTitleStyle  = lipgloss.NewStyle().Foreground(lipgloss.Color("#8C8C8C"))
	cardValueStyle  = lipgloss.NewStyle().Foreground(lipgloss.Color("#F0F0F0")).Bold(true)
	tableMutedStyle = lipgloss.NewStyle().Foreground(lipgloss.Color("#B8B8B8"))
	modalStyle      = lipgloss.NewStyle().
			Border(lipgloss.RoundedBorder(), true).
			BorderForeground(lipgloss.Color("#C89A3A")).
			Padding(1, 2)
)

const cardBarWidth = 16

func metricCard(label, value, bar string) string {
	lines := []string{cardTitleStyle.Render(label), cardValueStyle.Render(value)}
	if bar != "" {
		lines = append(lines, bar)
	}
	return cardStyle.Render(strings.Join(lines, "\n"))
}

// renderSnapshot draws one card per outcome followed by the record total.
func renderSnapshot(s model.Snapshot, width int) string {
	metrics := stats.Metrics(s)
	cards := make([]string, 0, len(metrics))
	for _, m := range metrics {
		cards = append(cards, metricCard(m.Label, stats.FormatCount(m.Count, m.Percent), stats.Bar(m.Percent, cardBarWidth)))
	}
	var body string
	if width < 72 {
		body = lipgloss.JoinVertical(lipgloss.Left, cards...)
	} else {
		body = lipgloss.JoinHorizontal(lipgloss.Top, cards...)
	}
	return body + "\n" + fmt.Sprintf("Total Records: %d", s.Total)
}

func renderAnalytics(s model.Snapshot, width int) string {
	return "Analytics Dashboard\n\n" + renderSnapshot(s, width)
}

// renderResult shows a search or combine outcome.
func renderResult(title, empty string, res *session.Result, err error, limit, width int) string {
	switch {
	case err != nil:
		style := errorStyle
		if filter.IsWarning(err) {
			style = warningStyle
		}
		return title + "\n\n" + style.Render(err.Error())
	case res == nil:
		return title + "\n\n" + headerStyle.Render("Press / or enter to start.")
	case res.Rows.Len() == 0:
		return title + "\n\n" + empty
	}
	var buf bytes.Buffer
	if rerr := stats.RenderRows(&buf, res.Rows, limit); rerr != nil {
		return fmt.Sprintf("Failed to render rows: %v", rerr)
	}
	lines := []string{
		title,
		"",
		noticeStyle.Render(fmt.Sprintf("Found %d result(s)", res.Rows.Len())),
		renderSnapshot(res.Stats, width),
		"",
		tableMutedStyle.Render(strings.TrimRight(buf.String(), "\n")),
	}
	return strings.Join(lines, "\n")
}

// renderBaseList draws the checkbox list of normalized base names.
func renderBaseList(st *session.State, checked map[string]bool, cursor, height int) string {
	names := st.Mapping.Names()
	lines := []string{"Available Bases", ""}
	start, end := window(len(names), cursor, height-len(lines))
	for i := start; i < end; i++ {
		name := names[i]
		box := "[ ]"
		if checked[name] {
			box = "[x]"
		}
		line := fmt.Sprintf("%s %s (%d)", box, name, len(st.Mapping.Members(name)))
		if i == cursor {
			line = cardValueStyle.Render("> " + line)
		} else {
			line = "  " + line
		}
		lines = append(lines, line)
	}
	return strings.Join(lines, "\n")
}

func renderBaseStats(groups []model.GroupSnapshot) string {
	var buf bytes.Buffer
	if err := stats.RenderGroups(&buf, groups); err != nil {
		return fmt.Sprintf("Failed to render base statistics: %v", err)
	}
	return "Base Statistics\n\n" + strings.TrimRight(buf.String(), "\n")
}

func renderFields(f formfill.Fields, err error) string {
	if err != nil {
		return warningStyle.Render(err.Error())
	}
	ordered := f.Ordered()
	lines := make([]string, 0, len(ordered)+1)
	lines = append(lines, cardTitleStyle.Render("Fields to fill"))
	for _, field := range ordered {
		lines = append(lines, fmt.Sprintf("%-12s %s", field.Name+":", field.Value))
	}
	return strings.Join(lines, "\n")
}

func caption(shown, total, displayed int) string {
	text := fmt.Sprintf("Showing %d of %d rows", shown, total)
	if displayed < shown {
		text += fmt.Sprintf(" (first %d displayed)", displayed)
	}
	return text
}

func renderTabs(tabs []string, active int) string {
	parts := make([]string, 0, len(tabs))
	for i, tab := range tabs {
		if i == active {
			parts = append(parts, activeNavStyle.Render(tab))
		} else {
			parts = append(parts, inactiveNavStyle.Render(tab))
		}
	}
	return lipgloss.JoinHorizontal(lipgloss.Top, parts...)
}
