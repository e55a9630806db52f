// Package tui is the interactive to-do list.
package tui

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/bubbles/textinput"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"homebase/internal/domain"
	"homebase/internal/errors"
	"homebase/internal/logging"
)

type mode int

const (
	modeBrowse mode = iota
	modeAdd
)

type model struct {
	theme Theme
	deps  Deps

	list   domain.TaskList
	cursor int
	mode   mode
	input  textinput.Model

	loaded bool
	toast  string
	width  int
}

// Run starts the full-screen to-do list.
func Run(deps Deps) error {
	p := tea.NewProgram(newModel(deps), tea.WithAltScreen())
	_, err := p.Run()
	return err
}

func newModel(deps Deps) model {
	if deps.Today == nil {
		deps.Today = domain.Today
	}
	if deps.OverdueMarker == "" {
		deps.OverdueMarker = "overdue"
	}
	if deps.Log == nil {
		deps.Log = logging.Nop()
	}

	in := textinput.New()
	in.Placeholder = "Buy milk | 2024-01-31"
	in.CharLimit = 500
	in.Prompt = "new task: "

	return model{
		theme: DefaultTheme(),
		deps:  deps,
		list:  domain.NewTaskList(),
		input: in,
	}
}

func (m model) Init() tea.Cmd {
	return cmdLoadTasks(m.deps)
}

func (m model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.width = msg.Width
		return m, nil

	case tasksLoadedMsg:
		if msg.err != nil {
			m.toast = errors.GetUserMessage(msg.err)
			return m, nil
		}
		m.list = msg.list
		m.loaded = true
		m.clampCursor()
		return m, nil

	case taskSavedMsg:
		if msg.err != nil {
			// The store refused the change, so drop the optimistic copy.
			m.deps.Log.Warn("task change not saved", "op", msg.op, "error", msg.err)
			m.toast = errors.GetUserMessage(msg.err)
			return m, cmdLoadTasks(m.deps)
		}
		if msg.op == "add" {
			// The store hands out the authoritative id.
			return m, cmdLoadTasks(m.deps)
		}
		return m, nil

	case tea.KeyMsg:
		if m.mode == modeAdd {
			return m.updateAdd(msg)
		}
		return m.updateBrowse(msg)
	}

	if m.mode == modeAdd {
		var cmd tea.Cmd
		m.input, cmd = m.input.Update(msg)
		return m, cmd
	}
	return m, nil
}

func (m model) updateBrowse(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	m.toast = ""
	switch msg.String() {
	case "ctrl+c", "q":
		return m, tea.Quit

	case "j", "down":
		if m.cursor < m.list.Len()-1 {
			m.cursor++
		}
		return m, nil

	case "k", "up":
		if m.cursor > 0 {
			m.cursor--
		}
		return m, nil

	case "a":
		m.mode = modeAdd
		m.input.SetValue("")
		return m, m.input.Focus()

	case " ":
		task, ok := m.selected()
		if !ok {
			return m, nil
		}
		m.list = m.list.Toggle(task.ID)
		return m, cmdToggleTask(m.deps, task.ID)

	case "d":
		task, ok := m.selected()
		if !ok {
			return m, nil
		}
		m.list = m.list.Delete(task.ID)
		m.clampCursor()
		return m, cmdDeleteTask(m.deps, task.ID)
	}
	return m, nil
}

func (m model) updateAdd(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch msg.Type {
	case tea.KeyCtrlC:
		return m, tea.Quit

	case tea.KeyEsc:
		m.mode = modeBrowse
		m.input.Blur()
		return m, nil

	case tea.KeyEnter:
		text, dueText := splitEntry(m.input.Value())
		var due *domain.Date
		if dueText != "" {
			d, err := domain.ParseDate(dueText)
			if err != nil {
				m.toast = "due date must look like YYYY-MM-DD"
				return m, nil
			}
			due = &d
		}

		list, _, ok := m.list.Add(text, due)
		m.mode = modeBrowse
		m.input.Blur()
		if !ok {
			return m, nil
		}
		m.list = list
		return m, cmdAddTask(m.deps, text, dueText)
	}

	var cmd tea.Cmd
	m.input, cmd = m.input.Update(msg)
	return m, cmd
}

// selected returns the task under the cursor in sorted order.
func (m model) selected() (domain.Task, bool) {
	view := m.list.SortedView()
	if m.cursor < 0 || m.cursor >= len(view) {
		return domain.Task{}, false
	}
	return view[m.cursor], true
}

func (m *model) clampCursor() {
	if m.cursor >= m.list.Len() {
		m.cursor = m.list.Len() - 1
	}
	if m.cursor < 0 {
		m.cursor = 0
	}
}

// splitEntry separates "text | 2024-01-31" into text and due date.
func splitEntry(raw string) (string, string) {
	text, due, found := strings.Cut(raw, "|")
	if !found {
		return strings.TrimSpace(raw), ""
	}
	return strings.TrimSpace(text), strings.TrimSpace(due)
}

func (m model) View() string {
	wrap := lipgloss.NewStyle().Padding(1, 2)
	header := m.theme.Title.Render("To-do") + "\n" +
		m.theme.Subtitle.Render(fmt.Sprintf("%d of %d tasks remaining • %.0f%% done",
			m.list.RemainingCount(), m.list.Len(), m.list.Progress())) + "\n"

	var body strings.Builder
	switch {
	case !m.loaded && m.toast == "":
		body.WriteString("loading…")
	case m.list.Len() == 0:
		body.WriteString(m.theme.Help.Render("Nothing to do. Press a to add a task."))
	default:
		today := m.deps.Today()
		for i, task := range m.list.SortedView() {
			if i > 0 {
				body.WriteString("\n")
			}
			body.WriteString(m.renderTask(task, i == m.cursor, today))
		}
	}

	out := header + "\n" + m.theme.Card.Render(body.String()) + "\n"
	if m.mode == modeAdd {
		out += m.input.View() + "\n"
	}
	if m.toast != "" {
		out += m.theme.Error.Render(m.toast) + "\n"
	}

	help := "↑/↓ move • space toggle • a add • d delete • q quit"
	if m.mode == modeAdd {
		help = "enter save • esc cancel • text | YYYY-MM-DD sets a due date"
	}
	return wrap.Render(out + m.theme.Help.Render(help))
}

func (m model) renderTask(task domain.Task, selected bool, today domain.Date) string {
	pointer := "  "
	if selected {
		pointer = m.theme.Cursor.Render("> ")
	}
	box := "[ ]"
	text := task.Text
	if task.Completed {
		box = "[x]"
		text = m.theme.Done.Render(text)
	}

	line := fmt.Sprintf("%s%s %s", pointer, box, text)
	if task.Due != nil {
		line += m.theme.Subtitle.Render("  due " + task.Due.String())
	}
	if domain.IsOverdue(task, today) {
		line += "  " + m.theme.Overdue.Render(m.deps.OverdueMarker)
	}
	return line
}
