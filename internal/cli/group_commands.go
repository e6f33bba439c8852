package cli

import (
	"context"
	"strings"

	"todo/internal/bridge"
	"todo/internal/errors"
)

// GroupAddCommand creates a group
type GroupAddCommand struct {
	app *App
}

func NewGroupAddCommand(app *App) *GroupAddCommand {
	return &GroupAddCommand{app: app}
}

// Execute joins args into the group title
func (c *GroupAddCommand) Execute(ctx context.Context, args []string) error {
	title := strings.TrimSpace(strings.Join(args, " "))
	if err := c.app.validator.ValidateGroupTitle(title); err != nil {
		return c.app.errors.Handle("add group", err)
	}

	c.app.api.CreateGroup(ctx, title)
	c.app.printf("Created group: %s\n", title)
	return nil
}

// GroupListCommand lists groups with their task counts
type GroupListCommand struct {
	app   *App
	Watch bool
}

func NewGroupListCommand(app *App) *GroupListCommand {
	return &GroupListCommand{app: app}
}

func (c *GroupListCommand) Execute(ctx context.Context, args []string) error {
	q := c.app.api.BuildGroupQuery(ctx)
	if c.Watch {
		return c.app.watchGroups(ctx, q)
	}

	groups, err := collect(ctx, c.app, bridge.SelectGroups, c.app.api.Groups, q)
	if err != nil {
		return c.app.errors.Handle("list groups", err)
	}
	c.app.printGroups(groups)
	return nil
}

// GroupRenameCommand changes a group's title
type GroupRenameCommand struct {
	app *App
}

func NewGroupRenameCommand(app *App) *GroupRenameCommand {
	return &GroupRenameCommand{app: app}
}

// Execute expects a group id followed by the new title
func (c *GroupRenameCommand) Execute(ctx context.Context, args []string) error {
	if len(args) < 2 {
		return errors.NewInvalidInputError("arguments", args, "expected <group id> <title>")
	}
	title := strings.TrimSpace(strings.Join(args[1:], " "))
	if err := c.app.validator.ValidateGroupTitle(title); err != nil {
		return c.app.errors.Handle("rename group", err)
	}

	group, err := c.app.findGroup(ctx, args[0])
	if err != nil {
		return c.app.errors.Handle("rename group", err)
	}

	old := group.Title
	group.Title = title
	c.app.api.UpdateGroup(ctx, group)
	c.app.printf("Renamed group: %s -> %s\n", old, title)
	return nil
}

// GroupRemoveCommand deletes a group. Its tasks are kept and become
// ungrouped.
type GroupRemoveCommand struct {
	app *App
}

func NewGroupRemoveCommand(app *App) *GroupRemoveCommand {
	return &GroupRemoveCommand{app: app}
}

func (c *GroupRemoveCommand) Execute(ctx context.Context, args []string) error {
	if len(args) != 1 {
		return errors.NewInvalidInputError("arguments", args, "expected <group id>")
	}
	group, err := c.app.findGroup(ctx, args[0])
	if err != nil {
		return c.app.errors.Handle("delete group", err)
	}

	c.app.api.DeleteGroup(ctx, group)
	c.app.printf("Deleted group: %s\n", group.Title)
	return nil
}
