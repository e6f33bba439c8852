package cli

import (
	"context"
	"strings"

	"todo/internal/domain"
	"todo/internal/errors"
)

// MemoSetCommand replaces the memo of a task
type MemoSetCommand struct {
	app *App
}

func NewMemoSetCommand(app *App) *MemoSetCommand {
	return &MemoSetCommand{app: app}
}

// Execute expects a task id followed by the memo text. Use \n in the
// text for line breaks.
func (c *MemoSetCommand) Execute(ctx context.Context, args []string) error {
	if len(args) < 2 {
		return errors.NewInvalidInputError("arguments", args, "expected <task id> <text>")
	}
	content := strings.ReplaceAll(strings.Join(args[1:], " "), `\n`, "\n")
	if err := c.app.validator.ValidateMemo(content); err != nil {
		return c.app.errors.Handle("set memo", err)
	}

	task, err := c.app.findTask(ctx, args[0])
	if err != nil {
		return c.app.errors.Handle("set memo", err)
	}

	c.app.api.UpdateMemo(ctx, task, &domain.Memo{Content: content})
	c.app.printf("Updated memo for task: %s\n", task.Title)
	return nil
}

// MemoClearCommand detaches the memo from a task
type MemoClearCommand struct {
	app *App
}

func NewMemoClearCommand(app *App) *MemoClearCommand {
	return &MemoClearCommand{app: app}
}

func (c *MemoClearCommand) Execute(ctx context.Context, args []string) error {
	if len(args) != 1 {
		return errors.NewInvalidInputError("arguments", args, "expected <task id>")
	}
	task, err := c.app.findTask(ctx, args[0])
	if err != nil {
		return c.app.errors.Handle("clear memo", err)
	}

	c.app.api.UpdateMemo(ctx, task, nil)
	c.app.printf("Cleared memo for task: %s\n", task.Title)
	return nil
}
