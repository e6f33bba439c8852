package cli

import (
	"context"
	"strings"

	"todo/internal/domain"
	"todo/internal/errors"
)

// CountCommand prints the number of tasks in a category
type CountCommand struct {
	app   *App
	Watch bool
}

func NewCountCommand(app *App) *CountCommand {
	return &CountCommand{app: app}
}

// Execute accepts an optional category: all (default), today or completed
func (c *CountCommand) Execute(ctx context.Context, args []string) error {
	if len(args) > 1 {
		return errors.NewInvalidInputError("arguments", args, "expected at most one category")
	}
	name := "all"
	if len(args) == 1 {
		name = strings.ToLower(args[0])
	}

	var category domain.TaskSource
	switch name {
	case "all":
		category = domain.AllTasks()
	case "today", "due_today", "due-today":
		category = domain.DueTodayTasks()
	case "completed", "done":
		category = domain.CompletedTasks()
	default:
		return c.app.errors.Handle("count tasks", errors.NewInvalidInputError("category", name, "expected all, today or completed"))
	}

	streamCtx, cancel := context.WithCancel(ctx)
	defer cancel()

	for n := range c.app.api.TaskCount(streamCtx, category) {
		c.app.printf("%s: %d\n", name, n)
		if !c.Watch {
			return nil
		}
	}
	return nil
}
