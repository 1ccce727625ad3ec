package ui

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/lipgloss"
)

var (
	titleStyle = lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("212"))

	panelStyle = lipgloss.NewStyle().
			Border(lipgloss.RoundedBorder()).
			BorderForeground(lipgloss.Color("240")).
			Padding(0, 1)

	focusedPanelStyle = panelStyle.BorderForeground(lipgloss.Color("212"))

	emotionStyle = lipgloss.NewStyle().Foreground(lipgloss.Color("86"))
	hintStyle    = lipgloss.NewStyle().Foreground(lipgloss.Color("240"))
	cursorStyle  = lipgloss.NewStyle().Foreground(lipgloss.Color("212")).Bold(true)
	doneStyle    = lipgloss.NewStyle().Strikethrough(true).Faint(true)

	statusStyle      = lipgloss.NewStyle().Foreground(lipgloss.Color("82"))
	statusErrorStyle = lipgloss.NewStyle().Foreground(lipgloss.Color("196")).Bold(true)
)

func (m *model) View() string {
	if m.quitting {
		return ""
	}

	left := m.petView()
	right := m.listView()
	body := lipgloss.JoinHorizontal(lipgloss.Top, left, " ", right)

	var b strings.Builder
	b.WriteString(titleStyle.Render("TodoNeko"))
	b.WriteString("\n")
	b.WriteString(body)
	b.WriteString("\n")
	b.WriteString(m.statusView())
	b.WriteString("\n")
	b.WriteString(hintStyle.Render(m.helpLine()))
	return b.String()
}

func (m *model) petView() string {
	current := m.state.Emotions.Get()
	shown := m.animator.Display(current, m.state.Emotions.Temporary())
	frame := m.frames.Frame(shown)

	style := panelStyle
	if m.focus == focusPet {
		style = focusedPanelStyle
	}
	content := frame.String() + "\n\n" + emotionStyle.Render(current)
	return style.Render(content)
}

func (m *model) listView() string {
	var b strings.Builder

	if hint := m.nextTemplate(); hint != "" {
		b.WriteString(hintStyle.Render("ctrl+t: " + hint))
		b.WriteString("\n")
	}
	b.WriteString(m.input.View())
	b.WriteString("\n\n")

	items := m.state.Todos.List()
	if len(items) == 0 {
		b.WriteString(hintStyle.Render("Nothing to do yet."))
	}
	for i, it := range items {
		prefix := "  "
		if i == m.cursor && m.focus == focusList {
			prefix = cursorStyle.Render("> ")
		}
		box := "[ ] "
		title := it.Title
		if it.Done {
			box = "[x] "
			title = doneStyle.Render(title)
		}
		b.WriteString(prefix + box + title)
		if i < len(items)-1 {
			b.WriteString("\n")
		}
	}

	open, done := m.state.Todos.Counts()
	b.WriteString("\n\n")
	b.WriteString(hintStyle.Render(fmt.Sprintf("%d open, %d done", open, done)))

	style := panelStyle
	if m.focus != focusPet {
		style = focusedPanelStyle
	}
	if m.width > 0 {
		petWidth := lipgloss.Width(m.petView())
		if w := m.width - petWidth - 5; w > 20 {
			style = style.Width(w)
		}
	}
	return style.Render(b.String())
}

func (m *model) statusView() string {
	if m.status == "" {
		return statusStyle.Render("Ready")
	}
	if m.statusErr {
		return statusErrorStyle.Render(m.status)
	}
	return statusStyle.Render(m.status)
}

func (m *model) helpLine() string {
	switch m.focus {
	case focusInput:
		return "enter add | ctrl+t template | tab list | esc list | ctrl+c quit"
	case focusList:
		return "space/x toggle | d delete | p pet | tab pet | q quit"
	default:
		return "p/enter switch emotion | tab input | q quit"
	}
}

func (m *model) nextTemplate() string {
	if len(m.templates) == 0 {
		return ""
	}
	return m.templates[m.template]
}
