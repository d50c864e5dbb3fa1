package cmd

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/felixgeelhaar/ganttline/internal/calendar"
	"github.com/felixgeelhaar/ganttline/internal/errors"
	"github.com/felixgeelhaar/ganttline/internal/schedule"
	"github.com/felixgeelhaar/ganttline/internal/tui"
	"github.com/felixgeelhaar/ganttline/internal/ux"
)

func newTaskMoveCmd() *cobra.Command {
	c := &cobra.Command{
		Use:   "move <id>",
		Short: "Move a task, keeping its duration",
		Long: `Move a task to a new start date. Its duration is kept, and a task with
subtasks moves together with all of them.

A move that would start the task before one of its dependencies ends is
refused. When other tasks depend on the moved task, they are offered the
same shift:

  • dependents that still fit their own dependencies after shifting are
    "clean" and follow with --yes
  • the others are "conflicting"; they only follow when listed with
    --confirm, which overrides their dependency constraint

In a terminal without --yes or --confirm, a form asks what to do.

Examples:
  ganttline task move 9c1e --start 2024-03-08
  ganttline task move 9c1e --by -2 --yes
  ganttline task move 9c1e --by 3 --confirm 4b7d,e012
`,
		Args: cobra.ExactArgs(1),
		RunE: runTaskMove,
	}
	f := c.Flags()
	f.String("start", "", "new start date")
	f.Int("by", 0, "number of days to shift (negative moves earlier)")
	f.BoolP("yes", "y", false, "shift dependents that fit without asking")
	f.StringSlice("confirm", nil, "conflicting dependents to shift anyway")
	c.MarkFlagsMutuallyExclusive("start", "by")
	c.MarkFlagsOneRequired("start", "by")
	return c
}

func runTaskMove(cmd *cobra.Command, args []string) error {
	return withSession(cmd, func(cc *CommandContext, s *Session) error {
		id, err := s.ResolveID(args[0])
		if err != nil {
			return err
		}
		task, _ := s.Store.GetTaskByID(id)

		f := cmd.Flags()
		newStart := task.StartDate
		if f.Changed("start") {
			v, _ := f.GetString("start")
			if newStart, err = cc.ParseDate("start", v); err != nil {
				return err
			}
		} else {
			by, _ := f.GetInt("by")
			newStart = calendar.AddDays(task.StartDate, by)
		}
		newEnd := calendar.AddDays(newStart, task.Duration()-1)

		res, err := s.Store.MoveTask(cmd.Context(), id, newStart, newEnd)
		if err != nil {
			return err
		}
		if res.Outcome == schedule.OutcomeNeedsCascade {
			yes, _ := f.GetBool("yes")
			confirm, _ := f.GetStringSlice("confirm")
			if res, err = decideCascade(cmd, s, res, yes, confirm); err != nil {
				return err
			}
		}

		if err := cc.Print(cmd, ux.NewMoveReport(res, cc.NoColor)); err != nil {
			return err
		}
		return moveError(res)
	})
}

// decideCascade completes a move that needs a cascade from the flags, or
// from the interactive form when no flag decides it. An undecided move is
// returned unchanged.
func decideCascade(cmd *cobra.Command, s *Session, res schedule.MoveResult, yes bool, confirm []string) (schedule.MoveResult, error) {
	if len(confirm) > 0 {
		ids, err := s.ResolveIDs(confirm)
		if err != nil {
			return res, err
		}
		return s.Store.CommitMove(cmd.Context(), res, ids)
	}
	if yes {
		return s.Store.CommitMove(cmd.Context(), res, nil)
	}
	if !tui.ShouldPrompt() {
		return res, nil
	}

	fmt.Fprintln(cmd.ErrOrStderr(), ux.NewMoveReport(res, false).String())
	decision, err := tui.ConfirmCascade(res)
	if err != nil {
		return res, err
	}
	if !decision.Apply {
		return res, nil
	}
	return s.Store.CommitMove(cmd.Context(), res, decision.Confirmed)
}

// moveError turns an unapplied move into a coded error for the exit status.
func moveError(res schedule.MoveResult) error {
	switch res.Outcome {
	case schedule.OutcomeRejected:
		return errors.NewDependencyViolationError(res.TaskID, res.Violation)
	case schedule.OutcomeNeedsCascade:
		return errors.New(errors.ErrCodeDependencyViolation,
			fmt.Sprintf("move of %s was not applied: dependent tasks need a decision", res.TaskID)).
			WithSuggestion("Re-run with --yes to shift the dependents that fit").
			WithSuggestion("Add --confirm <ids> to shift conflicting dependents anyway")
	}
	return nil
}
