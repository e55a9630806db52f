package tui

import (
	"context"
	"time"

	tea "github.com/charmbracelet/bubbletea"
)

func (d Deps) ctx() (context.Context, context.CancelFunc) {
	timeout := d.Timeout
	if timeout <= 0 {
		timeout = 10 * time.Second
	}
	return context.WithTimeout(context.Background(), timeout)
}

func cmdLoadTasks(deps Deps) tea.Cmd {
	return func() tea.Msg {
		ctx, cancel := deps.ctx()
		defer cancel()
		list, err := deps.Store.ListTasks(ctx)
		return tasksLoadedMsg{list: list, err: err}
	}
}

func cmdAddTask(deps Deps, text, due string) tea.Cmd {
	return func() tea.Msg {
		ctx, cancel := deps.ctx()
		defer cancel()
		_, err := deps.Store.AddTask(ctx, text, due)
		return taskSavedMsg{op: "add", err: err}
	}
}

func cmdToggleTask(deps Deps, id int64) tea.Cmd {
	return func() tea.Msg {
		ctx, cancel := deps.ctx()
		defer cancel()
		_, _, err := deps.Store.ToggleTask(ctx, id)
		return taskSavedMsg{op: "toggle", err: err}
	}
}

func cmdDeleteTask(deps Deps, id int64) tea.Cmd {
	return func() tea.Msg {
		ctx, cancel := deps.ctx()
		defer cancel()
		err := deps.Store.DeleteTask(ctx, id)
		return taskSavedMsg{op: "delete", err: err}
	}
}
