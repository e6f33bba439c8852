package sqlite

import (
	"context"
	"database/sql"
	"fmt"

	"todo/internal/notify"
)

// Tx is the write scope handed to Repository.WithTx callbacks. Reads made
// through it observe the transaction's own uncommitted writes.
type Tx interface {
	Reader

	CreateGroup(ctx context.Context, group *Group) error
	UpdateGroup(ctx context.Context, group *Group) error
	DeleteGroup(ctx context.Context, id int64) error

	CreateTask(ctx context.Context, task *Task) error
	UpdateTask(ctx context.Context, task *Task) error
	DeleteTask(ctx context.Context, id int64) error
	SetTaskGroup(ctx context.Context, taskID int64, groupID sql.NullInt64) error

	CreateMemo(ctx context.Context, memo *Memo) error
	DeleteMemo(ctx context.Context, id int64) error
	DetachMemo(ctx context.Context, taskID int64) error
}

type sqliteTx struct {
	reader
	touched notify.Kind
}

func (tx *sqliteTx) mark(k notify.Kind) {
	tx.touched |= k
}

// CreateGroup inserts a group and sets its ID
func (tx *sqliteTx) CreateGroup(ctx context.Context, group *Group) error {
	query := `INSERT INTO groups (title) VALUES (?)`
	id, err := ExecuteWithLastInsertID(ctx, tx.ext, query, group.Title)
	if err != nil {
		return err
	}
	group.ID = id
	tx.mark(notify.Groups)
	return nil
}

// UpdateGroup overwrites a group's title
func (tx *sqliteTx) UpdateGroup(ctx context.Context, group *Group) error {
	query := `UPDATE groups SET title = ? WHERE id = ?`
	if err := ExecuteWithRowsAffected(ctx, tx.ext, query, "group", fmt.Sprintf("%d", group.ID), group.Title, group.ID); err != nil {
		return err
	}
	tx.mark(notify.Groups)
	return nil
}

// DeleteGroup deletes a group. Its tasks become ungrouped.
func (tx *sqliteTx) DeleteGroup(ctx context.Context, id int64) error {
	query := `DELETE FROM groups WHERE id = ?`
	if err := ExecuteWithRowsAffected(ctx, tx.ext, query, "group", fmt.Sprintf("%d", id), id); err != nil {
		return err
	}
	tx.mark(notify.Groups | notify.Tasks)
	return nil
}

// CreateTask inserts a task and sets its ID
func (tx *sqliteTx) CreateTask(ctx context.Context, task *Task) error {
	query := `
	INSERT INTO tasks (title, priority, created_at, completed, due_today, group_id)
	VALUES (?, ?, ?, ?, ?, ?)`
	id, err := ExecuteWithLastInsertID(ctx, tx.ext, query,
		task.Title, task.Priority, task.CreatedAt, task.Completed, task.DueToday, task.GroupID)
	if err != nil {
		return err
	}
	task.ID = id
	kinds := notify.Tasks
	if task.GroupID.Valid {
		kinds |= notify.Groups
	}
	tx.mark(kinds)
	return nil
}

// UpdateTask overwrites a task's scalar fields. Group, memo and creation
// time are left alone.
func (tx *sqliteTx) UpdateTask(ctx context.Context, task *Task) error {
	query := `
	UPDATE tasks
	SET title = ?, priority = ?, completed = ?, due_today = ?
	WHERE id = ?`
	if err := ExecuteWithRowsAffected(ctx, tx.ext, query, "task", fmt.Sprintf("%d", task.ID),
		task.Title, task.Priority, task.Completed, task.DueToday, task.ID); err != nil {
		return err
	}
	tx.mark(notify.Tasks)
	return nil
}

// DeleteTask deletes a task. Its memo is removed by the foreign key cascade.
func (tx *sqliteTx) DeleteTask(ctx context.Context, id int64) error {
	query := `DELETE FROM tasks WHERE id = ?`
	if err := ExecuteWithRowsAffected(ctx, tx.ext, query, "task", fmt.Sprintf("%d", id), id); err != nil {
		return err
	}
	tx.mark(notify.Tasks | notify.Groups | notify.Memos)
	return nil
}

// SetTaskGroup repoints a task's group reference. An invalid groupID
// makes the task ungrouped.
func (tx *sqliteTx) SetTaskGroup(ctx context.Context, taskID int64, groupID sql.NullInt64) error {
	query := `UPDATE tasks SET group_id = ? WHERE id = ?`
	if err := ExecuteWithRowsAffected(ctx, tx.ext, query, "task", fmt.Sprintf("%d", taskID), groupID, taskID); err != nil {
		return err
	}
	tx.mark(notify.Tasks | notify.Groups)
	return nil
}

// CreateMemo inserts a memo and sets its ID
func (tx *sqliteTx) CreateMemo(ctx context.Context, memo *Memo) error {
	query := `INSERT INTO memos (content, task_id) VALUES (?, ?)`
	id, err := ExecuteWithLastInsertID(ctx, tx.ext, query, memo.Content, memo.TaskID)
	if err != nil {
		return err
	}
	memo.ID = id
	tx.mark(notify.Memos | notify.Tasks)
	return nil
}

// DeleteMemo deletes a memo by ID
func (tx *sqliteTx) DeleteMemo(ctx context.Context, id int64) error {
	query := `DELETE FROM memos WHERE id = ?`
	if err := ExecuteWithRowsAffected(ctx, tx.ext, query, "memo", fmt.Sprintf("%d", id), id); err != nil {
		return err
	}
	tx.mark(notify.Memos | notify.Tasks)
	return nil
}

// DetachMemo clears the memo reference of a task. The memo record itself
// is kept with a NULL task. Detaching a task without a memo is not an error.
func (tx *sqliteTx) DetachMemo(ctx context.Context, taskID int64) error {
	query := `UPDATE memos SET task_id = NULL WHERE task_id = ?`
	if _, err := tx.ext.ExecContext(ctx, query, taskID); err != nil {
		return HandleDatabaseError("detach memo", err)
	}
	tx.mark(notify.Memos | notify.Tasks)
	return nil
}
