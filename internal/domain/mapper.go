package domain

import (
	"database/sql"
	"time"

	"todo/internal/repository/sqlite"
)

// TaskMapper handles conversion between domain and database Task models.
type TaskMapper struct {
	memo *MemoMapper
}

// NewTaskMapper creates a new TaskMapper instance.
func NewTaskMapper() *TaskMapper {
	return &TaskMapper{memo: NewMemoMapper()}
}

// NewRecord builds the record for a task that is about to be inserted.
// createdAt is stamped by the caller; the task's own CreatedAt is ignored
// and the memo is never set on creation.
func (m *TaskMapper) NewRecord(task Task, createdAt time.Time) sqlite.Task {
	return sqlite.Task{
		Title:     sql.NullString{String: task.Title, Valid: true},
		Priority:  sql.NullInt64{Int64: int64(task.Priority), Valid: true},
		CreatedAt: sql.NullString{String: sqlite.FormatTimeForDB(createdAt), Valid: true},
		Completed: task.Completed,
		DueToday:  task.DueToday,
	}
}

// ToDatabase converts the mutable fields of a stored task. The id must be a
// task store reference.
func (m *TaskMapper) ToDatabase(task Task, key int64) sqlite.Task {
	return sqlite.Task{
		ID:        key,
		Title:     sql.NullString{String: task.Title, Valid: true},
		Priority:  sql.NullInt64{Int64: int64(task.Priority), Valid: true},
		Completed: task.Completed,
		DueToday:  task.DueToday,
	}
}

// FromDatabase converts a database Task to a domain Task. NULL columns
// resolve to empty titles, standard priority and the zero time.
func (m *TaskMapper) FromDatabase(rec sqlite.Task) Task {
	task := Task{
		ID:        TaskRef(rec.ID),
		Priority:  PriorityStandard,
		Title:     rec.Title.String,
		Completed: rec.Completed,
		DueToday:  rec.DueToday,
	}
	if rec.Priority.Valid {
		task.Priority = PriorityFromRaw(rec.Priority.Int64)
	}
	if rec.CreatedAt.Valid {
		if t, err := sqlite.ParseTimeFromDB(rec.CreatedAt.String); err == nil {
			task.CreatedAt = t
		}
	}
	if rec.MemoID.Valid {
		memo := m.memo.FromDatabase(sqlite.Memo{
			ID:      rec.MemoID.Int64,
			Content: rec.MemoContent,
			TaskID:  sql.NullInt64{Int64: rec.ID, Valid: true},
		})
		task.Memo = &memo
	}
	return task
}

// FromDatabaseSlice converts a slice of database Tasks to domain Tasks.
func (m *TaskMapper) FromDatabaseSlice(recs []*sqlite.Task) []Task {
	tasks := make([]Task, len(recs))
	for i, rec := range recs {
		tasks[i] = m.FromDatabase(*rec)
	}
	return tasks
}

// GroupMapper handles conversion between domain and database Group models.
type GroupMapper struct{}

// NewGroupMapper creates a new GroupMapper instance.
func NewGroupMapper() *GroupMapper {
	return &GroupMapper{}
}

// ToDatabase converts a domain Group to a database Group. TaskCount is
// derived and never written.
func (m *GroupMapper) ToDatabase(group Group, key int64) sqlite.Group {
	return sqlite.Group{
		ID:    key,
		Title: sql.NullString{String: group.Title, Valid: true},
	}
}

// FromDatabase converts a database Group to a domain Group.
func (m *GroupMapper) FromDatabase(rec sqlite.Group) Group {
	return Group{
		ID:        GroupRef(rec.ID),
		Title:     rec.Title.String,
		TaskCount: int(rec.TaskCount),
	}
}

// FromDatabaseSlice converts a slice of database Groups to domain Groups.
func (m *GroupMapper) FromDatabaseSlice(recs []*sqlite.Group) []Group {
	groups := make([]Group, len(recs))
	for i, rec := range recs {
		groups[i] = m.FromDatabase(*rec)
	}
	return groups
}

// MemoMapper handles conversion between domain and database Memo models.
type MemoMapper struct{}

// NewMemoMapper creates a new MemoMapper instance.
func NewMemoMapper() *MemoMapper {
	return &MemoMapper{}
}

// NewRecord builds a memo record attached to the task with key taskKey.
func (m *MemoMapper) NewRecord(memo Memo, taskKey int64) sqlite.Memo {
	return sqlite.Memo{
		Content: sql.NullString{String: memo.Content, Valid: true},
		TaskID:  sql.NullInt64{Int64: taskKey, Valid: true},
	}
}

// FromDatabase converts a database Memo to a domain Memo.
func (m *MemoMapper) FromDatabase(rec sqlite.Memo) Memo {
	return Memo{
		ID:      MemoRef(rec.ID),
		Content: rec.Content.String,
	}
}

// Mapper provides a unified interface for all mapping operations.
type Mapper struct {
	Task  *TaskMapper
	Group *GroupMapper
	Memo  *MemoMapper
}

// NewMapper creates a new Mapper instance with all sub-mappers.
func NewMapper() *Mapper {
	return &Mapper{
		Task:  NewTaskMapper(),
		Group: NewGroupMapper(),
		Memo:  NewMemoMapper(),
	}
}
