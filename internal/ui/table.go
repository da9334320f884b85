package ui

import (
	"strings"

	"github.com/charmbracelet/bubbles/table"
	"github.com/charmbracelet/lipgloss"
)

// TableColumn defines a table column with name and width.
type TableColumn struct {
	Title string
	Width int
}

// NewTable creates a Bubbles table with default styling.
func NewTable(columns []TableColumn, rows []table.Row) table.Model {
	cols := make([]table.Column, len(columns))
	for i, c := range columns {
		cols[i] = table.Column{
			Title: c.Title,
			Width: c.Width,
		}
	}

	t := table.New(
		table.WithColumns(cols),
		table.WithRows(rows),
		table.WithFocused(false),
		// Header plus its border plus every row; no scrolling.
		table.WithHeight(len(rows)+2),
	)

	s := table.DefaultStyles()
	s.Header = s.Header.
		BorderStyle(lipgloss.NormalBorder()).
		BorderForeground(ColorMuted).
		BorderBottom(true).
		Bold(true).
		Foreground(ColorPrimary)
	s.Cell = s.Cell.
		Foreground(ColorPrimary)
	// Nothing is focused, so the selected row looks like any other.
	s.Selected = s.Cell

	t.SetStyles(s)
	return t
}

// RenderSimpleTable renders a non-interactive table string. Columns with a
// zero width are sized to fit their widest cell.
func RenderSimpleTable(columns []TableColumn, rows [][]string) string {
	if len(rows) == 0 {
		return ""
	}

	sized := make([]TableColumn, len(columns))
	copy(sized, columns)
	for i := range sized {
		if sized[i].Width > 0 {
			continue
		}
		w := lipgloss.Width(sized[i].Title)
		for _, row := range rows {
			if i < len(row) && lipgloss.Width(row[i]) > w {
				w = lipgloss.Width(row[i])
			}
		}
		sized[i].Width = w
	}

	tableRows := make([]table.Row, len(rows))
	for i, row := range rows {
		tableRows[i] = table.Row(row)
	}

	return trimView(NewTable(sized, tableRows).View())
}

// trimView drops trailing padding so the table prints cleanly in a shell.
func trimView(view string) string {
	lines := strings.Split(view, "\n")
	for i := range lines {
		lines[i] = strings.TrimRight(lines[i], " ")
	}
	for len(lines) > 0 && lines[len(lines)-1] == "" {
		lines = lines[:len(lines)-1]
	}
	return strings.Join(lines, "\n") + "\n"
}

// TargetRow is one resolved target as shown by `wpx targets`.
type TargetRow struct {
	Name string
	SSH  string
	Port string
	Key  string
	Path string

	// SSHConfig summarizes matching ~/.ssh/config settings, if requested.
	SSHConfig string
}

// RenderTargetTable renders resolved targets in resolution order.
func RenderTargetTable(rows []TargetRow, withSSHConfig bool) string {
	if len(rows) == 0 {
		return ""
	}

	columns := []TableColumn{{Title: "TARGET"}, {Title: "SSH"}, {Title: "PORT"}, {Title: "KEY"}, {Title: "PATH"}}
	if withSSHConfig {
		columns = append(columns, TableColumn{Title: "SSH CONFIG"})
	}

	cells := make([][]string, len(rows))
	for i, r := range rows {
		row := []string{r.Name, r.SSH, orDash(r.Port), orDash(r.Key), orDash(r.Path)}
		if withSSHConfig {
			row = append(row, orDash(r.SSHConfig))
		}
		cells[i] = row
	}

	return RenderSimpleTable(columns, cells)
}

func orDash(s string) string {
	if s == "" {
		return "-"
	}
	return s
}
