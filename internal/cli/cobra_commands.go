package cli

import (
	"github.com/spf13/cobra"
)

// addSubcommands builds the group, task, memo, count and config command trees
func (r *RootCommand) addSubcommands() {
	r.cmd.AddCommand(
		r.groupCommand(),
		r.taskCommand(),
		r.memoCommand(),
		r.countCommand(),
		r.configCommand(),
	)
}

func (r *RootCommand) groupCommand() *cobra.Command {
	groupCmd := &cobra.Command{
		Use:   "group",
		Short: "Manage task groups",
	}

	addCmd := &cobra.Command{
		Use:   "add [title]",
		Short: "Create a group",
		Args:  cobra.MinimumNArgs(1),
		RunE:  run(r, NewGroupAddCommand, nil),
	}

	listCmd := &cobra.Command{
		Use:   "list",
		Short: "List groups with their task counts",
		Args:  cobra.NoArgs,
	}
	listCmd.Flags().Bool("watch", false, "Keep printing the list as it changes")
	listCmd.RunE = run(r, NewGroupListCommand, func(cmd *cobra.Command, c *GroupListCommand) bool {
		c.Watch, _ = cmd.Flags().GetBool("watch")
		return c.Watch
	})

	renameCmd := &cobra.Command{
		Use:   "rename [group id] [title]",
		Short: "Rename a group",
		Args:  cobra.MinimumNArgs(2),
		RunE:  run(r, NewGroupRenameCommand, nil),
	}

	rmCmd := &cobra.Command{
		Use:   "rm [group id]",
		Short: "Delete a group",
		Long:  "Delete a group. Its tasks are kept and no longer belong to any group.",
		Args:  cobra.ExactArgs(1),
		RunE:  run(r, NewGroupRemoveCommand, nil),
	}

	groupCmd.AddCommand(addCmd, listCmd, renameCmd, rmCmd)
	return groupCmd
}

func (r *RootCommand) taskCommand() *cobra.Command {
	taskCmd := &cobra.Command{
		Use:   "task",
		Short: "Manage tasks",
	}

	addCmd := &cobra.Command{
		Use:   "add [title]",
		Short: "Create a task",
		Args:  cobra.MinimumNArgs(1),
	}
	addCmd.Flags().StringP("priority", "p", "standard", "standard or high")
	addCmd.Flags().StringP("group", "g", "", "Group id to create the task in")
	addCmd.Flags().Bool("today", false, "Mark the task as due today")
	addCmd.RunE = run(r, NewTaskAddCommand, func(cmd *cobra.Command, c *TaskAddCommand) bool {
		c.Priority, _ = cmd.Flags().GetString("priority")
		c.Group, _ = cmd.Flags().GetString("group")
		c.DueToday, _ = cmd.Flags().GetBool("today")
		return false
	})

	listCmd := &cobra.Command{
		Use:   "list",
		Short: "List incomplete and completed tasks",
		Long: `List the incomplete and the completed tasks of a source.

Sources: all (default), today, completed, or a group id.
Sort orders: created (default, newest first), title, priority. Each order
breaks ties with the other two.`,
		Args: cobra.NoArgs,
	}
	listCmd.Flags().StringP("source", "s", "all", "all, today, completed or a group id")
	listCmd.Flags().String("sort", "created", "created, title or priority")
	listCmd.Flags().Bool("watch", false, "Keep printing the lists as they change")
	listCmd.RunE = run(r, NewTaskListCommand, func(cmd *cobra.Command, c *TaskListCommand) bool {
		c.Source, _ = cmd.Flags().GetString("source")
		c.Sort, _ = cmd.Flags().GetString("sort")
		c.Watch, _ = cmd.Flags().GetBool("watch")
		return c.Watch
	})

	editCmd := &cobra.Command{
		Use:   "edit [task id]",
		Short: "Change a task's title, priority or due-today flag",
		Args:  cobra.ExactArgs(1),
	}
	editCmd.Flags().String("title", "", "New title")
	editCmd.Flags().String("priority", "", "standard or high")
	editCmd.Flags().Bool("today", false, "Due today (use --today=false to clear)")
	editCmd.RunE = run(r, NewTaskEditCommand, func(cmd *cobra.Command, c *TaskEditCommand) bool {
		flags := cmd.Flags()
		if flags.Changed("title") {
			v, _ := flags.GetString("title")
			c.Title = &v
		}
		if flags.Changed("priority") {
			v, _ := flags.GetString("priority")
			c.Priority = &v
		}
		if flags.Changed("today") {
			v, _ := flags.GetBool("today")
			c.DueToday = &v
		}
		return false
	})

	doneCmd := &cobra.Command{
		Use:   "done [task id]",
		Short: "Mark a task completed",
		Args:  cobra.ExactArgs(1),
	}
	doneCmd.Flags().Bool("undo", false, "Mark the task incomplete instead")
	doneCmd.RunE = run(r, NewTaskDoneCommand, func(cmd *cobra.Command, c *TaskDoneCommand) bool {
		c.Undo, _ = cmd.Flags().GetBool("undo")
		return false
	})

	rmCmd := &cobra.Command{
		Use:   "rm [task id]",
		Short: "Delete a task and its memo",
		Args:  cobra.ExactArgs(1),
		RunE:  run(r, NewTaskRemoveCommand, nil),
	}

	mvCmd := &cobra.Command{
		Use:   "mv [task id] [group id]",
		Short: "Move a task into a group",
		Args:  cobra.ExactArgs(2),
		RunE:  run(r, NewTaskMoveCommand, nil),
	}

	movableCmd := &cobra.Command{
		Use:   "movable [task id]",
		Short: "List the groups a task can be moved to",
		Args:  cobra.ExactArgs(1),
		RunE:  run(r, NewTaskMovableCommand, nil),
	}

	showCmd := &cobra.Command{
		Use:   "show [task id]",
		Short: "Show a task with its memo",
		Args:  cobra.ExactArgs(1),
	}
	showCmd.Flags().Bool("watch", false, "Reprint the task whenever it changes")
	showCmd.RunE = run(r, NewTaskShowCommand, func(cmd *cobra.Command, c *TaskShowCommand) bool {
		c.Watch, _ = cmd.Flags().GetBool("watch")
		return c.Watch
	})

	taskCmd.AddCommand(addCmd, listCmd, editCmd, doneCmd, rmCmd, mvCmd, movableCmd, showCmd)
	return taskCmd
}

func (r *RootCommand) memoCommand() *cobra.Command {
	memoCmd := &cobra.Command{
		Use:   "memo",
		Short: "Attach or clear task memos",
	}

	setCmd := &cobra.Command{
		Use:   "set [task id] [text]",
		Short: `Replace a task's memo. Write \n for a line break.`,
		Args:  cobra.MinimumNArgs(2),
		RunE:  run(r, NewMemoSetCommand, nil),
	}

	clearCmd := &cobra.Command{
		Use:   "clear [task id]",
		Short: "Remove a task's memo",
		Args:  cobra.ExactArgs(1),
		RunE:  run(r, NewMemoClearCommand, nil),
	}

	memoCmd.AddCommand(setCmd, clearCmd)
	return memoCmd
}

func (r *RootCommand) countCommand() *cobra.Command {
	countCmd := &cobra.Command{
		Use:   "count [all|today|completed]",
		Short: "Count the tasks in a category",
		Args:  cobra.MaximumNArgs(1),
	}
	countCmd.Flags().Bool("watch", false, "Print the count again whenever it changes")
	countCmd.RunE = run(r, NewCountCommand, func(cmd *cobra.Command, c *CountCommand) bool {
		c.Watch, _ = cmd.Flags().GetBool("watch")
		return c.Watch
	})
	return countCmd
}
