package domain

import (
	"sort"
	"strings"
)

// TaskList is an ordered, insertion-ordered set of tasks.
//
// A TaskList is a value: every update returns a new list and leaves the
// receiver untouched, so callers own their state explicitly and older
// snapshots stay valid.
type TaskList struct {
	tasks  []Task
	nextID int64
}

// NewTaskList returns an empty list whose first identifier is 1.
func NewTaskList() TaskList {
	return TaskList{nextID: 1}
}

// RestoreTaskList rebuilds a list from stored tasks. lastID is the highest
// identifier ever handed out, which may belong to a deleted task; new
// identifiers continue after it so they are never reused.
func RestoreTaskList(tasks []Task, lastID int64) TaskList {
	next := lastID
	for _, t := range tasks {
		if t.ID > next {
			next = t.ID
		}
	}
	out := make([]Task, len(tasks))
	for i, t := range tasks {
		out[i] = cloneTask(t)
	}
	return TaskList{tasks: out, nextID: next + 1}
}

// Add appends a new open task. It is a no-op, reported by ok=false, when
// the trimmed text is empty.
func (l TaskList) Add(text string, due *Date) (list TaskList, task Task, ok bool) {
	text = strings.TrimSpace(text)
	if text == "" {
		return l, Task{}, false
	}
	if l.nextID == 0 {
		l.nextID = 1
	}

	task = Task{ID: l.nextID, Text: text, Due: copyDate(due)}
	tasks := make([]Task, len(l.tasks), len(l.tasks)+1)
	copy(tasks, l.tasks)
	tasks = append(tasks, task)

	return TaskList{tasks: tasks, nextID: l.nextID + 1}, task, true
}

// Toggle flips the completion flag of the task with the given id.
func (l TaskList) Toggle(id int64) TaskList {
	return l.modify(id, func(t *Task) { t.Completed = !t.Completed })
}

// Edit replaces the text and due date of a task. Empty text leaves the list unchanged.
func (l TaskList) Edit(id int64, text string, due *Date) (TaskList, bool) {
	text = strings.TrimSpace(text)
	if text == "" {
		return l, false
	}
	if _, found := l.Get(id); !found {
		return l, false
	}
	return l.modify(id, func(t *Task) {
		t.Text = text
		t.Due = copyDate(due)
	}), true
}

// Delete removes the task with the given id.
func (l TaskList) Delete(id int64) TaskList {
	return l.filter(func(t Task) bool { return t.ID != id })
}

// ClearCompleted drops every completed task.
func (l TaskList) ClearCompleted() TaskList {
	return l.filter(func(t Task) bool { return !t.Completed })
}

// Get returns the task with the given id.
func (l TaskList) Get(id int64) (Task, bool) {
	for _, t := range l.tasks {
		if t.ID == id {
			return cloneTask(t), true
		}
	}
	return Task{}, false
}

// Tasks returns the tasks in insertion order.
func (l TaskList) Tasks() []Task {
	out := make([]Task, len(l.tasks))
	for i, t := range l.tasks {
		out[i] = cloneTask(t)
	}
	return out
}

func (l TaskList) Len() int { return len(l.tasks) }

// NextID is the identifier the next Add will assign.
func (l TaskList) NextID() int64 {
	if l.nextID == 0 {
		return 1
	}
	return l.nextID
}

// SortedView orders tasks by ascending due date with undated tasks last.
// Equal keys keep insertion order.
func (l TaskList) SortedView() []Task {
	view := l.Tasks()
	sort.SliceStable(view, func(i, j int) bool {
		a, b := view[i].Due, view[j].Due
		switch {
		case a == nil:
			return false
		case b == nil:
			return true
		default:
			return a.Before(*b)
		}
	})
	return view
}

func (l TaskList) RemainingCount() int {
	n := 0
	for _, t := range l.tasks {
		if !t.Completed {
			n++
		}
	}
	return n
}

func (l TaskList) CompletedCount() int {
	return len(l.tasks) - l.RemainingCount()
}

// Progress is the completed share of the list as a percentage, 0 when empty.
func (l TaskList) Progress() float64 {
	if len(l.tasks) == 0 {
		return 0
	}
	return float64(l.CompletedCount()) / float64(len(l.tasks)) * 100
}

// Overdue returns the open tasks due before today, in sorted order.
func (l TaskList) Overdue(today Date) []Task {
	var out []Task
	for _, t := range l.SortedView() {
		if IsOverdue(t, today) {
			out = append(out, t)
		}
	}
	return out
}

func (l TaskList) modify(id int64, fn func(*Task)) TaskList {
	tasks := l.Tasks()
	for i := range tasks {
		if tasks[i].ID == id {
			fn(&tasks[i])
			return TaskList{tasks: tasks, nextID: l.nextID}
		}
	}
	return l
}

func (l TaskList) filter(keep func(Task) bool) TaskList {
	tasks := make([]Task, 0, len(l.tasks))
	for _, t := range l.tasks {
		if keep(t) {
			tasks = append(tasks, cloneTask(t))
		}
	}
	if len(tasks) == len(l.tasks) {
		return l
	}
	return TaskList{tasks: tasks, nextID: l.nextID}
}

func cloneTask(t Task) Task {
	t.Due = copyDate(t.Due)
	return t
}

func copyDate(d *Date) *Date {
	if d == nil {
		return nil
	}
	c := *d
	return &c
}
