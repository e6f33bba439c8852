package domain

import "time"

// Priority is persisted using its raw value.
type Priority int

const (
	PriorityStandard Priority = 1
	PriorityHigh     Priority = 2
)

// PriorityFromRaw maps a stored value back to a Priority. Unknown values
// resolve to PriorityStandard.
func PriorityFromRaw(raw int64) Priority {
	switch Priority(raw) {
	case PriorityHigh:
		return PriorityHigh
	default:
		return PriorityStandard
	}
}

func (p Priority) String() string {
	if p == PriorityHigh {
		return "high"
	}
	return "standard"
}

// Task is a to-do item. ID never changes after creation.
type Task struct {
	ID        EntityID
	Priority  Priority
	CreatedAt time.Time
	Title     string
	Completed bool
	DueToday  bool
	Memo      *Memo
}

// NewTask creates an unsaved task carrying a placeholder identity.
func NewTask(title string) Task {
	return Task{
		ID:       StringID("createNewTask"),
		Priority: PriorityStandard,
		Title:    title,
	}
}

func (t Task) Identity() EntityID { return t.ID }

// Equal compares all fields, including the memo by value.
func (t Task) Equal(other Task) bool {
	if t.ID != other.ID ||
		t.Priority != other.Priority ||
		!t.CreatedAt.Equal(other.CreatedAt) ||
		t.Title != other.Title ||
		t.Completed != other.Completed ||
		t.DueToday != other.DueToday {
		return false
	}
	if t.Memo == nil || other.Memo == nil {
		return t.Memo == nil && other.Memo == nil
	}
	return *t.Memo == *other.Memo
}

func (t Task) String() string {
	return t.Title
}

// Memo is free text owned by at most one task.
type Memo struct {
	ID      EntityID
	Content string
}

func (m Memo) Identity() EntityID { return m.ID }

// Group is a user-defined list. TaskCount is derived from the tasks that
// reference the group.
type Group struct {
	ID        EntityID
	Title     string
	TaskCount int
}

func (g Group) Identity() EntityID { return g.ID }

func (g Group) Equal(other Group) bool { return g == other }

func (g Group) String() string {
	return g.Title
}
