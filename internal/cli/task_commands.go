package cli

import (
	"context"
	"strings"

	"todo/internal/bridge"
	"todo/internal/domain"
	"todo/internal/errors"
)

// TaskAddCommand creates a task, optionally inside a group
type TaskAddCommand struct {
	app      *App
	Priority string
	Group    string
	DueToday bool
}

func NewTaskAddCommand(app *App) *TaskAddCommand {
	return &TaskAddCommand{app: app}
}

// Execute joins args into the task title
func (c *TaskAddCommand) Execute(ctx context.Context, args []string) error {
	title := strings.TrimSpace(strings.Join(args, " "))
	if err := c.app.validator.ValidateTaskTitle(title); err != nil {
		return c.app.errors.Handle("add task", err)
	}
	priority, err := c.app.validator.ParsePriority(c.Priority)
	if err != nil {
		return c.app.errors.Handle("add task", err)
	}

	source := domain.AllTasks()
	if c.Group != "" {
		group, err := c.app.findGroup(ctx, c.Group)
		if err != nil {
			return c.app.errors.Handle("add task", err)
		}
		source = domain.InGroup(group)
	}

	task := domain.NewTask(title)
	task.Priority = priority
	task.DueToday = c.DueToday
	c.app.api.CreateTask(ctx, task, source)
	c.app.printf("Created task: %s\n", title)
	return nil
}

// TaskListCommand prints the incomplete and completed tasks of a source
type TaskListCommand struct {
	app    *App
	Source string
	Sort   string
	Watch  bool
}

func NewTaskListCommand(app *App) *TaskListCommand {
	return &TaskListCommand{app: app}
}

func (c *TaskListCommand) Execute(ctx context.Context, args []string) error {
	source, err := c.app.parseSource(ctx, c.Source)
	if err != nil {
		return c.app.errors.Handle("list tasks", err)
	}
	sort := domain.SortByCreatedAt
	if c.Sort != "" {
		if sort, err = domain.ParseSortType(c.Sort); err != nil {
			return c.app.errors.Handle("list tasks", errors.NewInvalidInputError("sort", c.Sort, "expected title, created or priority"))
		}
	}

	incomplete, complete := c.app.api.BuildTaskQuery(ctx, source, sort)
	if c.Watch {
		return c.app.watchTasks(ctx, incomplete, complete)
	}

	open, err := collect(ctx, c.app, bridge.SelectIncompleteTasks, c.app.api.Tasks, incomplete)
	if err != nil {
		return c.app.errors.Handle("list tasks", err)
	}
	done, err := collect(ctx, c.app, bridge.SelectCompletedTasks, c.app.api.Tasks, complete)
	if err != nil {
		return c.app.errors.Handle("list tasks", err)
	}
	c.app.printTaskSections(open, done)
	return nil
}

// parseSource accepts all, today, completed or a group id. The
// empty string means all.
func (a *App) parseSource(ctx context.Context, s string) (domain.TaskSource, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "", "all":
		return domain.AllTasks(), nil
	case "today", "due_today", "due-today":
		return domain.DueTodayTasks(), nil
	case "completed", "done":
		return domain.CompletedTasks(), nil
	}
	group, err := a.findGroup(ctx, s)
	if err != nil {
		return domain.TaskSource{}, err
	}
	return domain.InGroup(group), nil
}

// TaskEditCommand updates the fields whose flags were given
type TaskEditCommand struct {
	app      *App
	Title    *string
	Priority *string
	DueToday *bool
}

func NewTaskEditCommand(app *App) *TaskEditCommand {
	return &TaskEditCommand{app: app}
}

func (c *TaskEditCommand) Execute(ctx context.Context, args []string) error {
	if len(args) != 1 {
		return errors.NewInvalidInputError("arguments", args, "expected <task id>")
	}
	task, err := c.app.findTask(ctx, args[0])
	if err != nil {
		return c.app.errors.Handle("edit task", err)
	}

	if c.Title != nil {
		task.Title = strings.TrimSpace(*c.Title)
	}
	if c.Priority != nil {
		if task.Priority, err = c.app.validator.ParsePriority(*c.Priority); err != nil {
			return c.app.errors.Handle("edit task", err)
		}
	}
	if c.DueToday != nil {
		task.DueToday = *c.DueToday
	}
	if err := c.app.validator.ValidateTask(task); err != nil {
		return c.app.errors.Handle("edit task", err)
	}

	c.app.api.UpdateTask(ctx, task)
	c.app.printf("Updated task: %s\n", task.Title)
	return nil
}

// TaskDoneCommand marks a task completed, or incomplete with Undo
type TaskDoneCommand struct {
	app  *App
	Undo bool
}

func NewTaskDoneCommand(app *App) *TaskDoneCommand {
	return &TaskDoneCommand{app: app}
}

func (c *TaskDoneCommand) Execute(ctx context.Context, args []string) error {
	if len(args) != 1 {
		return errors.NewInvalidInputError("arguments", args, "expected <task id>")
	}
	task, err := c.app.findTask(ctx, args[0])
	if err != nil {
		return c.app.errors.Handle("complete task", err)
	}

	task.Completed = !c.Undo
	c.app.api.UpdateTask(ctx, task)
	if c.Undo {
		c.app.printf("Reopened task: %s\n", task.Title)
	} else {
		c.app.printf("Completed task: %s\n", task.Title)
	}
	return nil
}

// TaskRemoveCommand deletes a task and its memo
type TaskRemoveCommand struct {
	app *App
}

func NewTaskRemoveCommand(app *App) *TaskRemoveCommand {
	return &TaskRemoveCommand{app: app}
}

func (c *TaskRemoveCommand) Execute(ctx context.Context, args []string) error {
	if len(args) != 1 {
		return errors.NewInvalidInputError("arguments", args, "expected <task id>")
	}
	task, err := c.app.findTask(ctx, args[0])
	if err != nil {
		return c.app.errors.Handle("delete task", err)
	}

	c.app.api.DeleteTask(ctx, task)
	c.app.printf("Deleted task: %s\n", task.Title)
	return nil
}

// TaskMoveCommand moves a task into a group
type TaskMoveCommand struct {
	app *App
}

func NewTaskMoveCommand(app *App) *TaskMoveCommand {
	return &TaskMoveCommand{app: app}
}

// Execute expects a task id and a group id
func (c *TaskMoveCommand) Execute(ctx context.Context, args []string) error {
	if len(args) != 2 {
		return errors.NewInvalidInputError("arguments", args, "expected <task id> <group id>")
	}
	task, err := c.app.findTask(ctx, args[0])
	if err != nil {
		return c.app.errors.Handle("move task", err)
	}
	group, err := c.app.findGroup(ctx, args[1])
	if err != nil {
		return c.app.errors.Handle("move task", err)
	}

	c.app.api.MoveTask(ctx, task.ID, group.ID)
	c.app.printf("Moved task: %s -> %s\n", task.Title, group.Title)
	return nil
}

// TaskMovableCommand lists the groups a task can be moved to
type TaskMovableCommand struct {
	app *App
}

func NewTaskMovableCommand(app *App) *TaskMovableCommand {
	return &TaskMovableCommand{app: app}
}

func (c *TaskMovableCommand) Execute(ctx context.Context, args []string) error {
	if len(args) != 1 {
		return errors.NewInvalidInputError("arguments", args, "expected <task id>")
	}
	task, err := c.app.findTask(ctx, args[0])
	if err != nil {
		return c.app.errors.Handle("list groups", err)
	}

	groups, err := collect(ctx, c.app, bridge.SelectGroups, c.app.api.Groups, c.app.api.BuildMovableGroupsQuery(ctx, task))
	if err != nil {
		return c.app.errors.Handle("list groups", err)
	}
	c.app.printGroups(groups)
	return nil
}

// TaskShowCommand prints one task in full. With Watch it reprints on every
// change until the task is deleted or ctx is done.
type TaskShowCommand struct {
	app   *App
	Watch bool
}

func NewTaskShowCommand(app *App) *TaskShowCommand {
	return &TaskShowCommand{app: app}
}

func (c *TaskShowCommand) Execute(ctx context.Context, args []string) error {
	if len(args) != 1 {
		return errors.NewInvalidInputError("arguments", args, "expected <task id>")
	}
	id, err := parseRef(domain.EntityTask, args[0])
	if err != nil {
		return c.app.errors.Handle("show task", err)
	}
	handle, ok := c.app.api.TaskHandle(ctx, domain.Task{ID: id})
	if !ok {
		return c.app.errors.Handle("show task", errors.NewNotFoundError("task", id.String()))
	}

	if !c.Watch {
		c.printTask(handle.Snapshot())
		return nil
	}
	changes := handle.Changes(ctx)
	c.printTask(handle.Snapshot())
	for task := range changes {
		c.app.printf("\n")
		c.printTask(task)
	}
	return nil
}

func (c *TaskShowCommand) printTask(t domain.Task) {
	created := "unknown"
	if !t.CreatedAt.IsZero() {
		created = t.CreatedAt.Local().Format("2006-01-02 15:04:05")
	}
	c.app.printf("ID:        %s\n", t.ID.String())
	c.app.printf("Title:     %s\n", t.Title)
	c.app.printf("Priority:  %s\n", t.Priority)
	c.app.printf("Created:   %s\n", created)
	c.app.printf("Completed: %s\n", yesNo(t.Completed))
	c.app.printf("Due today: %s\n", yesNo(t.DueToday))
	if t.Memo == nil {
		c.app.printf("Memo:      none\n")
		return
	}
	c.app.printf("Memo:\n")
	for _, line := range c.app.validator.MemoDisplayLines(t.Memo.Content) {
		c.app.printf("  | %s\n", line)
	}
}
