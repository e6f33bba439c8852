package domain

import (
	"fmt"
	"strings"
)

// SourceKind tags a TaskSource variant.
type SourceKind uint8

const (
	SourceAll SourceKind = iota
	SourceDueToday
	SourceCompleted
	SourceGroup
	SourceMovableGroups
)

func (k SourceKind) String() string {
	switch k {
	case SourceAll:
		return "all"
	case SourceDueToday:
		return "due_today"
	case SourceCompleted:
		return "completed"
	case SourceGroup:
		return "group"
	case SourceMovableGroups:
		return "movable_groups"
	default:
		return fmt.Sprintf("SourceKind(%d)", uint8(k))
	}
}

// TaskSource selects which tasks (or groups) a query addresses.
type TaskSource struct {
	kind  SourceKind
	group Group
	task  EntityID
}

func AllTasks() TaskSource      { return TaskSource{kind: SourceAll} }
func DueTodayTasks() TaskSource { return TaskSource{kind: SourceDueToday} }
func CompletedTasks() TaskSource {
	return TaskSource{kind: SourceCompleted}
}

// InGroup selects the tasks of g.
func InGroup(g Group) TaskSource { return TaskSource{kind: SourceGroup, group: g} }

// MovableGroupsFor selects the groups task could be moved to. It is only
// meaningful for group queries.
func MovableGroupsFor(task EntityID) TaskSource {
	return TaskSource{kind: SourceMovableGroups, task: task}
}

func (s TaskSource) Kind() SourceKind { return s.kind }

// Group returns the group for SourceGroup.
func (s TaskSource) Group() (Group, bool) {
	return s.group, s.kind == SourceGroup
}

// Task returns the task id for SourceMovableGroups.
func (s TaskSource) Task() (EntityID, bool) {
	return s.task, s.kind == SourceMovableGroups
}

// IsCategory reports whether s is one of the fixed groupings (all, due
// today, completed).
func (s TaskSource) IsCategory() bool {
	switch s.kind {
	case SourceAll, SourceDueToday, SourceCompleted:
		return true
	}
	return false
}

func (s TaskSource) String() string {
	switch s.kind {
	case SourceGroup:
		return "group:" + s.group.ID.String()
	case SourceMovableGroups:
		return "movable_groups:" + s.task.String()
	default:
		return s.kind.String()
	}
}

// TaskSortType picks a fixed three-key ordering.
type TaskSortType uint8

const (
	SortByTitle TaskSortType = iota
	SortByCreatedAt
	SortByPriority
)

// AllSortTypes lists the sort types in menu order.
var AllSortTypes = []TaskSortType{SortByTitle, SortByCreatedAt, SortByPriority}

// String returns the display name.
func (s TaskSortType) String() string {
	switch s {
	case SortByTitle:
		return "Title"
	case SortByCreatedAt:
		return "Create Date"
	case SortByPriority:
		return "Priority"
	default:
		return fmt.Sprintf("TaskSortType(%d)", uint8(s))
	}
}

// ParseSortType accepts a display name or a short alias
// (title, created, priority), case-insensitively.
func ParseSortType(s string) (TaskSortType, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "title":
		return SortByTitle, nil
	case "created", "created_at", "create date", "date":
		return SortByCreatedAt, nil
	case "priority":
		return SortByPriority, nil
	}
	return 0, fmt.Errorf("unknown sort type %q", s)
}
