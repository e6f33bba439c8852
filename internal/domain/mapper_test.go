package domain

import (
	"database/sql"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"todo/internal/repository/sqlite"
)

func TestTaskMapper_NewRecordIgnoresCallerTimestamp(t *testing.T) {
	mapper := NewTaskMapper()
	stamped := time.Date(2024, 5, 1, 12, 0, 0, 0, time.UTC)
	task := Task{
		ID:        StringID("createNewTask"),
		Priority:  PriorityHigh,
		CreatedAt: time.Date(1999, 1, 1, 0, 0, 0, 0, time.UTC),
		Title:     "Write report",
		Completed: true,
		DueToday:  true,
		Memo:      &Memo{ID: StringID("m"), Content: "ignored"},
	}

	rec := mapper.NewRecord(task, stamped)

	assert.Equal(t, sqlite.FormatTimeForDB(stamped), rec.CreatedAt.String)
	assert.False(t, rec.MemoID.Valid)
	assert.False(t, rec.GroupID.Valid)
}

func TestTaskMapper_RoundTripPreservesMutableFields(t *testing.T) {
	mapper := NewTaskMapper()
	tests := []Task{
		{Title: "a", Priority: PriorityHigh, Completed: true, DueToday: false},
		{Title: "b", Priority: PriorityStandard, Completed: false, DueToday: true},
		{Title: "", Priority: PriorityStandard},
	}
	for _, task := range tests {
		t.Run(task.Title, func(t *testing.T) {
			rec := mapper.NewRecord(task, time.Now())
			rec.ID = 7

			got := mapper.FromDatabase(rec)

			assert.Equal(t, TaskRef(7), got.ID)
			assert.Equal(t, task.Title, got.Title)
			assert.Equal(t, task.Priority, got.Priority)
			assert.Equal(t, task.Completed, got.Completed)
			assert.Equal(t, task.DueToday, got.DueToday)
		})
	}
}

func TestTaskMapper_FromDatabaseDefaults(t *testing.T) {
	mapper := NewTaskMapper()

	got := mapper.FromDatabase(sqlite.Task{ID: 1})

	assert.Equal(t, "", got.Title)
	assert.True(t, got.CreatedAt.IsZero())
	assert.Equal(t, PriorityStandard, got.Priority)
	assert.Nil(t, got.Memo)
}

func TestTaskMapper_FromDatabaseWithMemo(t *testing.T) {
	mapper := NewTaskMapper()
	created := time.Date(2024, 2, 3, 4, 5, 6, 7, time.UTC)

	got := mapper.FromDatabase(sqlite.Task{
		ID:          3,
		Title:       sql.NullString{String: "t", Valid: true},
		Priority:    sql.NullInt64{Int64: 2, Valid: true},
		CreatedAt:   sql.NullString{String: sqlite.FormatTimeForDB(created), Valid: true},
		MemoID:      sql.NullInt64{Int64: 11, Valid: true},
		MemoContent: sql.NullString{String: "note", Valid: true},
	})

	require.NotNil(t, got.Memo)
	assert.Equal(t, Memo{ID: MemoRef(11), Content: "note"}, *got.Memo)
	assert.True(t, created.Equal(got.CreatedAt))
	assert.Equal(t, PriorityHigh, got.Priority)
}

func TestGroupMapper(t *testing.T) {
	mapper := NewGroupMapper()

	rec := mapper.ToDatabase(Group{Title: "Work", TaskCount: 99}, 5)
	assert.Equal(t, int64(5), rec.ID)
	assert.Equal(t, int64(0), rec.TaskCount)

	rec.TaskCount = 3
	got := mapper.FromDatabase(rec)
	assert.Equal(t, Group{ID: GroupRef(5), Title: "Work", TaskCount: 3}, got)

	assert.Equal(t, "", mapper.FromDatabase(sqlite.Group{ID: 1}).Title)
}

func TestMapper_Slices(t *testing.T) {
	mapper := NewMapper()

	tasks := mapper.Task.FromDatabaseSlice([]*sqlite.Task{{ID: 1}, {ID: 2}})
	groups := mapper.Group.FromDatabaseSlice([]*sqlite.Group{})

	require.Len(t, tasks, 2)
	assert.Equal(t, TaskRef(2), tasks[1].ID)
	assert.Empty(t, groups)
}

func TestMemoMapper(t *testing.T) {
	mapper := NewMemoMapper()

	rec := mapper.NewRecord(Memo{ID: StringID("draft"), Content: "hello"}, 4)
	assert.Equal(t, int64(4), rec.TaskID.Int64)
	assert.Equal(t, "hello", rec.Content.String)

	rec.ID = 8
	assert.Equal(t, Memo{ID: MemoRef(8), Content: "hello"}, mapper.FromDatabase(rec))
}
