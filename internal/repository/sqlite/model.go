package sqlite

import "database/sql"

// Task is a row of the tasks table joined with its memo, if any.
type Task struct {
	ID          int64          `db:"id"`
	Title       sql.NullString `db:"title"`
	Priority    sql.NullInt64  `db:"priority"`
	CreatedAt   sql.NullString `db:"created_at"`
	Completed   bool           `db:"completed"`
	DueToday    bool           `db:"due_today"`
	GroupID     sql.NullInt64  `db:"group_id"`
	MemoID      sql.NullInt64  `db:"memo_id"`
	MemoContent sql.NullString `db:"memo_content"`
}

// Group is a row of the groups table. TaskCount is computed on read.
type Group struct {
	ID        int64          `db:"id"`
	Title     sql.NullString `db:"title"`
	TaskCount int64          `db:"task_count"`
}

// Memo is a row of the memos table. A memo with a NULL TaskID has been
// detached from its task.
type Memo struct {
	ID      int64          `db:"id"`
	Content sql.NullString `db:"content"`
	TaskID  sql.NullInt64  `db:"task_id"`
}
