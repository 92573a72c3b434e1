package termui

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/lipgloss"

	"github.com/leetplan/plansync/internal/models"
	"github.com/leetplan/plansync/internal/render"
)

var stateMarks = map[render.CardState]string{
	render.StateNew:       "[ ]",
	render.StateCompleted: "[✓]",
	render.StateWrong:     "[✗]",
}

const calendarColumns = 5

// Header renders the counters line
func Header(h render.Header) string {
	return panelStyle.Render(fmt.Sprintf("Progress %s   Streak %s   Accuracy %s",
		h.Progress, h.Streak, h.AccuracyLabel()))
}

// Day renders the plan of one day, session by session
func Day(v *render.DayView) string {
	var b strings.Builder

	title := fmt.Sprintf("Day %d", v.Day)
	if !v.Date.IsZero() {
		title += " · " + v.Date.Long()
	}
	b.WriteString(titleStyle.Render(title))
	if v.Description != "" {
		b.WriteString("\n" + infoStyle.Render(v.Description))
	}

	st := v.Statistics
	summary := []string{fmt.Sprintf("%d/%d done", st.Completed, st.Total)}
	for _, c := range []struct {
		n     int
		label string
	}{
		{st.Wrong, "wrong"},
		{st.FromPrevious, "carried over"},
		{st.ForReview, "for review"},
		{st.Deferred, "deferred"},
	} {
		if c.n > 0 {
			summary = append(summary, fmt.Sprintf("%d %s", c.n, c.label))
		}
	}
	b.WriteString("\n" + mutedStyle.Render(strings.Join(summary, " · ")))

	if len(v.Sessions) == 0 {
		b.WriteString("\n\n" + okStyle.Render("Nothing planned for this day"))
	}
	for _, s := range v.Sessions {
		b.WriteString("\n" + sessionStyle.Render(s.Title))
		b.WriteString("\n" + infoStyle.Render(s.Info))
		for _, c := range s.Cards {
			b.WriteString("\n" + Card(c))
		}
	}
	return b.String()
}

// Card renders one question card as a few indented lines
func Card(c *render.CardView) string {
	mark := stateMarks[c.State]
	if style, ok := stateStyles[string(c.State)]; ok {
		mark = style.Render(mark)
	}

	line := fmt.Sprintf("%s #%d %s (LC %d) %s · %s", mark, c.QuestionID, c.Title, c.LeetcodeID,
		difficulty(c.Difficulty), c.Category)
	if c.CompletedDate != "" {
		line += mutedStyle.Render(" · completed " + c.CompletedDate)
	}

	lines := []string{line}
	if len(c.Badges) > 0 {
		var badges []string
		for _, badge := range c.Badges {
			badges = append(badges, badge.Text)
		}
		lines = append(lines, "    "+badgeStyle.Render(strings.Join(badges, "  ")))
	}

	note := "    " + c.Note.Icon
	if c.Note.Preview != "" {
		note += " " + c.Note.Preview
	}
	if c.Note.Saved {
		note += " " + okStyle.Render(render.NoteSavedLabel)
	}
	lines = append(lines, note)
	lines = append(lines, "    "+actions(c.Actions)+mutedStyle.Render("  "+c.Link))
	return strings.Join(lines, "\n")
}

func actions(list []render.Action) string {
	var parts []string
	for _, a := range list {
		parts = append(parts, actionStyle.Render(fmt.Sprintf("[%s: %s]", a.Kind, a.Label)))
	}
	return strings.Join(parts, " ")
}

func difficulty(d models.Difficulty) string {
	if style, ok := difficultyStyles[string(d)]; ok {
		return style.Render(string(d))
	}
	return string(d)
}

// Calendar renders the day grid, five days per row. Today is underlined,
// the active day reversed and completed days carry a check mark.
func Calendar(entries []render.CalendarEntry) string {
	var rows []string
	for i := 0; i < len(entries); i += calendarColumns {
		end := min(i+calendarColumns, len(entries))
		var cells []string
		for _, e := range entries[i:end] {
			cells = append(cells, calendarCell(e))
		}
		rows = append(rows, lipgloss.JoinHorizontal(lipgloss.Top, cells...))
	}
	return panelStyle.Render(lipgloss.JoinVertical(lipgloss.Left, rows...))
}

func calendarCell(e render.CalendarEntry) string {
	text := fmt.Sprintf("%2d %s", e.Day, e.Label())
	if e.IsCompleted {
		text += " ✓"
	}
	switch {
	case e.IsActive:
		return activeCell.Render(text)
	case e.IsToday:
		return todayCellStyle.Render(text)
	default:
		return cellStyle.Render(text)
	}
}

// Statistics renders the full statistics panel
func Statistics(v render.StatisticsView) string {
	lines := []string{
		titleStyle.Render("Statistics"),
		fmt.Sprintf("Completed  %s (%.0f%%)", v.Header.Progress, v.Header.Ratio*100),
		fmt.Sprintf("Correct    %d", v.Correct),
		fmt.Sprintf("Wrong      %d", v.Wrong),
		fmt.Sprintf("Accuracy   %s", v.Header.AccuracyLabel()),
		fmt.Sprintf("Streak     %s", v.Header.Streak),
	}
	if len(v.ByDifficulty) > 0 {
		lines = append(lines, "", sessionStyle.UnsetMarginTop().Render("By difficulty"))
		for _, c := range v.ByDifficulty {
			lines = append(lines, fmt.Sprintf("  %-8s %d", c.Name, c.Count))
		}
	}
	if len(v.ByCategory) > 0 {
		lines = append(lines, "", sessionStyle.UnsetMarginTop().Render("By category"))
		for _, c := range v.ByCategory {
			lines = append(lines, fmt.Sprintf("  %-20s %d", c.Name, c.Count))
		}
	}
	return panelStyle.Render(strings.Join(lines, "\n"))
}

// Review renders the review list
func Review(l *render.ReviewList) string {
	if len(l.Items) == 0 {
		return okStyle.Render(l.Empty)
	}
	lines := []string{titleStyle.Render("Review")}
	for _, item := range l.Items {
		line := fmt.Sprintf("#%d %s %s · %s · completed %s", item.QuestionID, item.Title,
			difficulty(item.Difficulty), item.Category, item.CompletedDate)
		if item.PreviouslyWrong {
			line += " " + badgeStyle.Render("⚠️ Previously Wrong")
		}
		lines = append(lines, line, "    "+mutedStyle.Render(item.Link))
	}
	return strings.Join(lines, "\n")
}

// Deferred renders the "Do Later" list
func Deferred(l *render.DeferredList) string {
	if len(l.Items) == 0 {
		return okStyle.Render(l.Empty)
	}
	lines := []string{titleStyle.Render("Do Later")}
	for _, item := range l.Items {
		line := fmt.Sprintf("#%d %s %s · %s · %s · deferred %s", item.QuestionID, item.Title,
			difficulty(item.Difficulty), item.Category, item.Day, item.DeferredDate)
		if item.Completed {
			line += " " + okStyle.Render("✓")
		}
		lines = append(lines, line, "    "+actions(item.Actions))
	}
	return strings.Join(lines, "\n")
}
