// Package report renders clustering summaries as terminal tables.
package report

import (
	"fmt"
	"math"
	"strconv"
	"strings"

	"github.com/charmbracelet/lipgloss"
	"github.com/charmbracelet/lipgloss/table"

	"github.com/hupe1980/hclust/fcluster"
	"github.com/hupe1980/hclust/internal/dataset"
	"github.com/hupe1980/hclust/linkage"
)

var (
	titleStyle  = lipgloss.NewStyle().Bold(true).MarginTop(1)
	headerStyle = lipgloss.NewStyle().Bold(true).Padding(0, 1)
	cellStyle   = lipgloss.NewStyle().Padding(0, 1).Align(lipgloss.Right)
	labelStyle  = lipgloss.NewStyle().Padding(0, 1).Bold(true)
	borderStyle = lipgloss.NewStyle().Foreground(lipgloss.Color("240"))
)

func render(title string, headers []string, rows [][]string) string {
	t := table.New().
		Border(lipgloss.NormalBorder()).
		BorderStyle(borderStyle).
		Headers(headers...).
		Rows(rows...).
		StyleFunc(func(row, col int) lipgloss.Style {
			switch {
			case row == table.HeaderRow:
				return headerStyle
			case col == 0:
				return labelStyle
			default:
				return cellStyle
			}
		})

	return lipgloss.JoinVertical(lipgloss.Left, titleStyle.Render(title), t.String())
}

// Groups renders a per-group table keyed by cluster label.
func Groups(title string, t *dataset.Table) string {
	headers := append([]string{"group"}, t.Columns...)
	rows := make([][]string, 0, len(t.Rows))
	for _, r := range t.Rows {
		row := []string{strconv.Itoa(r.Label)}
		for _, v := range r.Values {
			row = append(row, number(v))
		}
		rows = append(rows, row)
	}
	return render(title, headers, rows)
}

// Assignment renders the size of every cluster of a.
func Assignment(title string, a *fcluster.Assignment) string {
	rows := make([][]string, 0, a.K())
	for i, size := range a.Sizes() {
		rows = append(rows, []string{strconv.Itoa(i + 1), strconv.Itoa(size)})
	}
	return render(fmt.Sprintf("%s (cut at %s)", title, number(a.Threshold)), []string{"group", "sessions"}, rows)
}

// Merges renders the last n merges of t, the root first.
func Merges(title string, t *linkage.Tree, n int) string {
	n = min(n, t.Len())
	rows := make([][]string, 0, n)
	for i := t.Len() - 1; i >= t.Len()-n; i-- {
		m := t.Merge(i)
		rows = append(rows, []string{
			strconv.Itoa(t.N() + i),
			strconv.Itoa(m.Left),
			strconv.Itoa(m.Right),
			strconv.FormatFloat(m.Height, 'f', 4, 64),
			strconv.Itoa(m.Size),
		})
	}
	return render(title, []string{"node", "left", "right", "height", "size"}, rows)
}

// Heading renders a section heading.
func Heading(s string) string {
	return titleStyle.Render(strings.ToUpper(s))
}

func number(v float64) string {
	switch {
	case math.IsNaN(v):
		return "NaN"
	case math.IsInf(v, 0):
		return strconv.FormatFloat(v, 'f', -1, 64)
	case v == math.Trunc(v) && math.Abs(v) < 1e15:
		return strconv.FormatFloat(v, 'f', 0, 64)
	default:
		return strconv.FormatFloat(v, 'f', 4, 64)
	}
}
