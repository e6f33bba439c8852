package cli

import (
	"context"
	"sort"
	"strings"

	"todo/internal/errors"
)

// Command represents a CLI command
type Command interface {
	Execute(ctx context.Context, args []string) error
}

// CommandRegistry manages all available commands
type CommandRegistry struct {
	commands map[string]Command
}

// NewCommandRegistry creates a new command registry
func NewCommandRegistry(app *App) *CommandRegistry {
	registry := &CommandRegistry{
		commands: make(map[string]Command),
	}

	registry.Register("group add", NewGroupAddCommand(app))
	registry.Register("group list", NewGroupListCommand(app))
	registry.Register("group rename", NewGroupRenameCommand(app))
	registry.Register("group rm", NewGroupRemoveCommand(app))

	registry.Register("task add", NewTaskAddCommand(app))
	registry.Register("task list", NewTaskListCommand(app))
	registry.Register("task edit", NewTaskEditCommand(app))
	registry.Register("task done", NewTaskDoneCommand(app))
	registry.Register("task rm", NewTaskRemoveCommand(app))
	registry.Register("task mv", NewTaskMoveCommand(app))
	registry.Register("task movable", NewTaskMovableCommand(app))
	registry.Register("task show", NewTaskShowCommand(app))

	registry.Register("memo set", NewMemoSetCommand(app))
	registry.Register("memo clear", NewMemoClearCommand(app))

	registry.Register("count", NewCountCommand(app))

	return registry
}

// Register adds a command to the registry
func (r *CommandRegistry) Register(name string, command Command) {
	r.commands[name] = command
}

func (r *CommandRegistry) Has(name string) bool {
	_, ok := r.commands[name]
	return ok
}

// Execute runs the specified command with the given arguments
func (r *CommandRegistry) Execute(ctx context.Context, commandName string, args []string) error {
	command, exists := r.commands[commandName]
	if !exists {
		return errors.NewInvalidInputError("command", commandName, "unknown command")
	}
	return command.Execute(ctx, args)
}

// GetUsage returns the usage string for the CLI
func (r *CommandRegistry) GetUsage() string {
	names := make([]string, 0, len(r.commands))
	for name := range r.commands {
		names = append(names, "todo "+name)
	}
	sort.Strings(names)
	return "usage: " + strings.Join(names, " | ")
}
