package cli

import (
	"context"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"todo/internal/domain"
)

func TestMemoCommands(t *testing.T) {
	app, out := setupTestApp(t)
	ctx := context.Background()
	mustRun(t, app, "task", "add", "Trip")

	mustRun(t, app, "memo", "set", "1", "passport", "and", "tickets")
	assert.Contains(t, out.String(), "Updated memo for task: Trip")

	task, ok := app.api.FindTask(ctx, domain.TaskRef(1))
	require.True(t, ok)
	require.NotNil(t, task.Memo)
	assert.Equal(t, "passport and tickets", task.Memo.Content)

	mustRun(t, app, "memo", "set", "1", `line one\nline two`)
	task, _ = app.api.FindTask(ctx, domain.TaskRef(1))
	assert.Equal(t, "line one\nline two", task.Memo.Content)

	out.Reset()
	mustRun(t, app, "memo", "clear", "task/1")
	assert.Contains(t, out.String(), "Cleared memo for task: Trip")

	task, _ = app.api.FindTask(ctx, domain.TaskRef(1))
	assert.Nil(t, task.Memo)
}

func TestMemoSetCommand_Validation(t *testing.T) {
	app, _ := setupTestApp(t)
	ctx := context.Background()
	mustRun(t, app, "task", "add", "Trip")

	tooLong := strings.Repeat(`row\n`, 16)
	err := app.Run(ctx, []string{"memo", "set", "1", tooLong})
	assert.ErrorContains(t, err, "memo must be at most 15 lines long")

	err = app.Run(ctx, []string{"memo", "set", "1"})
	assert.ErrorContains(t, err, "expected <task id> <text>")

	err = app.Run(ctx, []string{"memo", "set", "5", "note"})
	assert.ErrorContains(t, err, "can't get task by task/5")

	err = app.Run(ctx, []string{"memo", "clear", "group/1"})
	assert.ErrorContains(t, err, "refers to a group")
}
