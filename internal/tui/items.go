package tui

import (
	"fmt"
	"io"
	"strings"

	"github.com/charmbracelet/bubbles/list"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"github.com/lepinkainen/pdbrowse/internal/openlibrary"
)

type workItem struct {
	openlibrary.Work
}

func (i workItem) Title() string {
	return i.Work.Title
}

func (i workItem) FilterValue() string {
	return i.Work.Title
}

func (i workItem) Description() string {
	return fmt.Sprintf("%s · %s", i.DisplayAuthors(), i.DisplayYear())
}

type itemStyles struct {
	normal        lipgloss.Style
	selected      lipgloss.Style
	titleStyle    lipgloss.Style
	subtitleStyle lipgloss.Style
	metadataStyle lipgloss.Style
}

func newItemStyles() itemStyles {
	container := lipgloss.NewStyle().
		Border(lipgloss.NormalBorder(), false, false, false, true).
		BorderForeground(lipgloss.Color("240")).
		PaddingLeft(1)

	selected := container.Copy().
		BorderForeground(lipgloss.Color("214")).
		Foreground(lipgloss.Color("230"))

	return itemStyles{
		normal:   container,
		selected: selected,
		titleStyle: lipgloss.NewStyle().
			Bold(true).
			Foreground(lipgloss.Color("254")),
		subtitleStyle: lipgloss.NewStyle().
			Foreground(lipgloss.Color("110")),
		metadataStyle: lipgloss.NewStyle().
			Foreground(lipgloss.Color("247")).
			Faint(true),
	}
}

type workDelegate struct {
	styles itemStyles
}

func newDelegate() workDelegate {
	return workDelegate{styles: newItemStyles()}
}

func (d workDelegate) Height() int                         { return 2 }
func (d workDelegate) Spacing() int                        { return 1 }
func (d workDelegate) Update(tea.Msg, *list.Model) tea.Cmd { return nil }

func (d workDelegate) Render(w io.Writer, m list.Model, idx int, item list.Item) {
	work, ok := item.(workItem)
	if !ok {
		return
	}

	width := m.Width() - 4
	title := d.styles.titleStyle.Render(truncate(work.Work.Title, width))
	if work.Subtitle != "" {
		title = lipgloss.JoinHorizontal(lipgloss.Left, title, d.styles.subtitleStyle.Render(truncate(": "+work.Subtitle, width-lipgloss.Width(title))))
	}
	metadata := d.styles.metadataStyle.Render(truncate(work.Description(), width))

	container := d.styles.normal
	if idx == m.Index() {
		container = d.styles.selected
	}
	_, _ = fmt.Fprint(w, container.Render(lipgloss.JoinVertical(lipgloss.Left, title, metadata)))
}

func toListItems(works []openlibrary.Work) []list.Item {
	items := make([]list.Item, len(works))
	for i, work := range works {
		items[i] = workItem{Work: work}
	}
	return items
}

// truncate collapses whitespace and cuts value to width runes.
func truncate(value string, width int) string {
	value = strings.Join(strings.Fields(value), " ")
	runes := []rune(value)
	if width <= 0 || len(runes) <= width {
		return value
	}
	if width <= 3 {
		return string(runes[:width])
	}
	return string(runes[:width-3]) + "..."
}
