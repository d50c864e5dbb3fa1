package cmd

import (
	"fmt"
	"time"

	"github.com/spf13/cobra"

	"github.com/felixgeelhaar/ganttline/internal/calendar"
	"github.com/felixgeelhaar/ganttline/internal/domain"
	"github.com/felixgeelhaar/ganttline/internal/schedule"
	"github.com/felixgeelhaar/ganttline/internal/tui"
	"github.com/felixgeelhaar/ganttline/internal/ux"
)

func newTaskCmd() *cobra.Command {
	taskCmd := &cobra.Command{
		Use:   "task",
		Short: "Add, change, move and inspect tasks",
		Long: `Manage the tasks of the plan.

Task ids can be abbreviated to any unique prefix, e.g. the 8 characters
shown by 'ganttline task list'.

Examples:
  # Add a task and a subtask
  ganttline task add --name "Design" --start 2024-03-01 --end 2024-03-05
  ganttline task add --name "Mockups" --parent 3f2a --start 2024-03-01 --end 2024-03-02

  # Add a task that waits for another one
  ganttline task add --name "Build" --start 2024-03-06 --end 2024-03-12 --deps 3f2a

  # Move a task two days later, confirming dependents interactively
  ganttline task move 9c1e --by 2
`,
	}

	taskCmd.AddCommand(newTaskAddCmd())
	taskCmd.AddCommand(newTaskUpdateCmd())
	taskCmd.AddCommand(newTaskDeleteCmd())
	taskCmd.AddCommand(newTaskMoveCmd())
	taskCmd.AddCommand(newTaskCollapseCmd())
	taskCmd.AddCommand(newTaskShowCmd())
	taskCmd.AddCommand(newTaskListCmd())
	return taskCmd
}

func newTaskAddCmd() *cobra.Command {
	c := &cobra.Command{
		Use:   "add",
		Short: "Add a task",
		Long: `Add a task. The start date defaults to today and the end date to the
start date. A task starting before one of its dependencies ends is refused.`,
		Args: cobra.NoArgs,
		RunE: runTaskAdd,
	}
	f := c.Flags()
	f.String("name", "", "task name (prompted for when omitted in a terminal)")
	f.String("description", "", "free-form description")
	f.String("start", "", "start date (default today)")
	f.String("end", "", "end date, inclusive (default start date)")
	f.String("priority", "", "low, medium, high or critical (default medium)")
	f.String("color", "", "bar color: blue, green, red, orange, purple, pink, teal, yellow, gray")
	f.Float64("estimate", 0, "estimated effort in hours")
	f.String("parent", "", "parent task id")
	f.StringSlice("deps", nil, "ids of tasks that must finish first")
	return c
}

func runTaskAdd(cmd *cobra.Command, _ []string) error {
	return withSession(cmd, func(cc *CommandContext, s *Session) error {
		f := cmd.Flags()
		name, _ := f.GetString("name")
		if name == "" && tui.ShouldPrompt() {
			var err error
			name, err = tui.PromptForString(tui.Prompt{Message: "Task name", Required: true})
			if err != nil {
				return err
			}
		}

		in := schedule.NewTask{Name: name}
		in.Description, _ = f.GetString("description")

		start := calendar.Day(time.Now())
		if v, _ := f.GetString("start"); v != "" {
			t, err := cc.ParseDate("start", v)
			if err != nil {
				return err
			}
			start = t
		}
		in.StartDate, in.EndDate = start, start
		if v, _ := f.GetString("end"); v != "" {
			t, err := cc.ParseDate("end", v)
			if err != nil {
				return err
			}
			in.EndDate = t
		}

		if v, _ := f.GetString("priority"); v != "" {
			p, err := domain.NewPriority(v)
			if err != nil {
				return err
			}
			in.Priority = p
		}
		if v, _ := f.GetString("color"); v != "" {
			c, err := domain.NewColor(v)
			if err != nil {
				return err
			}
			in.Color = c
		}
		if f.Changed("estimate") {
			h, _ := f.GetFloat64("estimate")
			in.EstimatedHours = &h
		}
		if v, _ := f.GetString("parent"); v != "" {
			id, err := s.ResolveID(v)
			if err != nil {
				return err
			}
			in.ParentID = id
		}
		deps, _ := f.GetStringSlice("deps")
		ids, err := s.ResolveIDs(deps)
		if err != nil {
			return err
		}
		in.Dependencies = ids

		task, err := s.Store.AddTask(cmd.Context(), in)
		if err != nil {
			return err
		}
		return cc.Print(cmd, ux.NewTaskRow(s.Store, task))
	})
}

func newTaskUpdateCmd() *cobra.Command {
	c := &cobra.Command{
		Use:   "update <id>",
		Short: "Change the fields of a task",
		Long: `Change the fields of a task. Only the given flags are applied.

Dates of a task with subtasks follow its subtasks and cannot be set. Use
'ganttline task move' to shift a task together with its dependents.`,
		Args: cobra.ExactArgs(1),
		RunE: runTaskUpdate,
	}
	f := c.Flags()
	f.String("name", "", "new name")
	f.String("description", "", "new description")
	f.String("start", "", "new start date")
	f.String("end", "", "new end date")
	f.String("priority", "", "new priority")
	f.String("color", "", "new color (\"none\" clears it)")
	f.Float64("estimate", 0, "new estimate in hours")
	f.Bool("clear-estimate", false, "remove the estimate")
	f.String("parent", "", "new parent task id")
	f.Bool("root", false, "detach the task from its parent")
	f.StringSlice("deps", nil, "replace the dependencies (empty to clear)")
	c.MarkFlagsMutuallyExclusive("parent", "root")
	c.MarkFlagsMutuallyExclusive("estimate", "clear-estimate")
	return c
}

func runTaskUpdate(cmd *cobra.Command, args []string) error {
	return withSession(cmd, func(cc *CommandContext, s *Session) error {
		id, err := s.ResolveID(args[0])
		if err != nil {
			return err
		}
		patch, err := buildPatch(cmd, cc, s)
		if err != nil {
			return err
		}
		task, err := s.Store.UpdateTask(cmd.Context(), id, patch)
		if err != nil {
			return err
		}
		return cc.Print(cmd, ux.NewTaskRow(s.Store, task))
	})
}

// buildPatch turns the changed update flags into a TaskPatch.
func buildPatch(cmd *cobra.Command, cc *CommandContext, s *Session) (schedule.TaskPatch, error) {
	f := cmd.Flags()
	var patch schedule.TaskPatch

	if f.Changed("name") {
		v, _ := f.GetString("name")
		patch.Name = &v
	}
	if f.Changed("description") {
		v, _ := f.GetString("description")
		patch.Description = &v
	}
	for _, flag := range []string{"start", "end"} {
		if !f.Changed(flag) {
			continue
		}
		v, _ := f.GetString(flag)
		t, err := cc.ParseDate(flag, v)
		if err != nil {
			return patch, err
		}
		if flag == "start" {
			patch.StartDate = &t
		} else {
			patch.EndDate = &t
		}
	}
	if f.Changed("priority") {
		v, _ := f.GetString("priority")
		p, err := domain.NewPriority(v)
		if err != nil {
			return patch, err
		}
		patch.Priority = &p
	}
	if f.Changed("color") {
		v, _ := f.GetString("color")
		if v == "none" {
			v = ""
		}
		c, err := domain.NewColor(v)
		if err != nil {
			return patch, err
		}
		patch.Color = &c
	}
	if f.Changed("estimate") {
		h, _ := f.GetFloat64("estimate")
		patch.EstimatedHours = &h
	}
	patch.ClearEstimate, _ = f.GetBool("clear-estimate")

	if root, _ := f.GetBool("root"); root {
		empty := ""
		patch.ParentID = &empty
	}
	if f.Changed("parent") {
		v, _ := f.GetString("parent")
		id, err := s.ResolveID(v)
		if err != nil {
			return patch, err
		}
		patch.ParentID = &id
	}
	if f.Changed("deps") {
		deps, _ := f.GetStringSlice("deps")
		ids, err := s.ResolveIDs(deps)
		if err != nil {
			return patch, err
		}
		patch.Dependencies = &ids
	}
	return patch, nil
}

func newTaskDeleteCmd() *cobra.Command {
	c := &cobra.Command{
		Use:   "delete <id>",
		Short: "Delete a task and its subtasks",
		Long: `Delete a task together with all of its subtasks. Other tasks that
depended on a deleted task lose that dependency.`,
		Args: cobra.ExactArgs(1),
		RunE: runTaskDelete,
	}
	c.Flags().BoolP("yes", "y", false, "do not ask for confirmation")
	return c
}

// deleteResult lists the ids removed by task delete.
type deleteResult struct {
	Removed []string `json:"removed" yaml:"removed"`
}

func (r deleteResult) String() string {
	return fmt.Sprintf("Deleted %d task(s)", len(r.Removed))
}

func runTaskDelete(cmd *cobra.Command, args []string) error {
	return withSession(cmd, func(cc *CommandContext, s *Session) error {
		id, err := s.ResolveID(args[0])
		if err != nil {
			return err
		}
		task, _ := s.Store.GetTaskByID(id)

		yes, _ := cmd.Flags().GetBool("yes")
		if children := s.Store.GetChildTasks(id); len(children) > 0 && !yes && tui.ShouldPrompt() {
			ok, err := tui.PromptForConfirmation(
				fmt.Sprintf("Delete %q and all of its subtasks?", task.Name), false)
			if err != nil {
				return err
			}
			if !ok {
				fmt.Fprintln(cmd.OutOrStdout(), "Nothing deleted")
				return nil
			}
		}

		removed, err := s.Store.DeleteTask(cmd.Context(), id)
		if err != nil {
			return err
		}
		return cc.Print(cmd, deleteResult{Removed: removed})
	})
}

func newTaskCollapseCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "collapse <id>",
		Short: "Collapse or expand a task's subtasks in listings",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return withSession(cmd, func(cc *CommandContext, s *Session) error {
				id, err := s.ResolveID(args[0])
				if err != nil {
					return err
				}
				collapsed, err := s.Store.ToggleTaskCollapse(cmd.Context(), id)
				if err != nil {
					return err
				}
				state := "expanded"
				if collapsed {
					state = "collapsed"
				}
				return cc.Print(cmd, fmt.Sprintf("%s %s", id, state))
			})
		},
	}
}

func newTaskShowCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "show <id>",
		Short: "Show one task in detail",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return withSession(cmd, func(cc *CommandContext, s *Session) error {
				id, err := s.ResolveID(args[0])
				if err != nil {
					return err
				}
				task, _ := s.Store.GetTaskByID(id)
				return cc.Print(cmd, ux.NewTaskRow(s.Store, task))
			})
		},
	}
}

func newTaskListCmd() *cobra.Command {
	c := &cobra.Command{
		Use:     "list",
		Aliases: []string{"ls"},
		Short:   "List tasks with a timeline",
		Long: `List tasks depth-first with a timeline column. Subtasks of collapsed
tasks are hidden unless --all is given.`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			return withSession(cmd, func(cc *CommandContext, s *Session) error {
				all, _ := cmd.Flags().GetBool("all")
				width, _ := cmd.Flags().GetInt("width")
				return cc.Print(cmd, ux.NewTaskTable(s.Store, all, width, cc.NoColor))
			})
		},
	}
	c.Flags().BoolP("all", "a", false, "include subtasks of collapsed tasks")
	c.Flags().Int("width", 40, "timeline width in columns")
	return c
}
