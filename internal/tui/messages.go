package tui

import "homebase/internal/domain"

type tasksLoadedMsg struct {
	list domain.TaskList
	err  error
}

// taskSavedMsg reports the outcome of mirroring one change to the store.
type taskSavedMsg struct {
	op  string
	err error
}
