package tui

import (
	"fmt"
	"strings"

	"agesync/internal/tui/theme"
	"agesync/internal/updater"

	"github.com/charmbracelet/lipgloss"
	"github.com/charmbracelet/lipgloss/table"
)

// AgeTable renders the computed ages as a bordered table
func AgeTable(plan *updater.Plan) string {
	rows := make([][]string, 0, len(plan.Entries))
	for _, e := range plan.Entries {
		rows = append(rows, []string{
			e.Category,
			e.Name,
			e.Birth.Format("2006-01-02"),
			e.Age.String(),
		})
	}

	t := table.New().
		Border(lipgloss.RoundedBorder()).
		BorderStyle(lipgloss.NewStyle().Foreground(theme.Border)).
		Headers("CATEGORY", "NAME", "BORN", "AGE").
		Rows(rows...).
		StyleFunc(func(row, col int) lipgloss.Style {
			if row == table.HeaderRow {
				return theme.TableHeader
			}
			if col == 0 {
				return theme.Category
			}
			return theme.TableCell
		})
	return t.Render()
}

// Summary renders the table followed by document changes and warnings
func Summary(plan *updater.Plan) string {
	var b strings.Builder

	b.WriteString(theme.Title.Render("Ages") + "\n")
	b.WriteString(AgeTable(plan) + "\n\n")

	b.WriteString(theme.Subtitle.Render("Document") + "\n")
	if !plan.DocumentChanged() {
		b.WriteString(theme.Muted.Render("  document unchanged") + "\n")
	} else if len(plan.Document.Changes) == 0 {
		b.WriteString(theme.Muted.Render("  no age lines change") + "\n")
	}
	for _, c := range plan.Document.Changes {
		b.WriteString("  " + theme.Removed.Render("- "+c.Old) + "\n")
		b.WriteString("  " + theme.Added.Render("+ "+c.New) + "\n")
	}
	if plan.Document.TimestampUpdated {
		b.WriteString("  " + theme.Added.Render("+ ## Last updated: "+plan.Timestamp) + "\n")
	} else {
		b.WriteString("  " + theme.Warn.Render("no \"> Updates Ages :\" block, timestamp not written") + "\n")
	}

	if len(plan.Missing) > 0 || len(plan.Orphans) > 0 {
		b.WriteString("\n" + theme.Subtitle.Render("Warnings") + "\n")
	}
	for _, m := range plan.Missing {
		line := fmt.Sprintf("  %s has no age line", m.Name)
		if len(m.Suggestions) > 0 {
			line += fmt.Sprintf(" (did you mean %s?)", strings.Join(m.Suggestions, ", "))
		}
		b.WriteString(theme.Warn.Render(line) + "\n")
	}
	for _, name := range plan.Orphans {
		b.WriteString(theme.Muted.Render(fmt.Sprintf("  %s is listed in the document but has no record", name)) + "\n")
	}

	return strings.TrimRight(b.String(), "\n")
}
