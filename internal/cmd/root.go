// Package cmd implements the ganttline command line.
package cmd

import (
	"context"

	"github.com/spf13/cobra"

	"github.com/felixgeelhaar/ganttline/internal/ux"
)

// NewRootCommand builds the complete command tree.
func NewRootCommand() *cobra.Command {
	rootCmd := &cobra.Command{
		Use:   "ganttline",
		Short: "Terminal Gantt chart and task scheduler",
		Long: `ganttline keeps a project plan of tasks with dates, subtasks and
finish-to-start dependencies. Parent tasks always span their subtasks, and
moving a task offers to shift the tasks that depend on it.

Tasks live in ~/.ganttline/data by default; see 'ganttline config'.`,
		SilenceUsage:  true,
		SilenceErrors: true,
	}

	flags := rootCmd.PersistentFlags()
	flags.String("config", "", "config file (default is $HOME/.ganttline/config.yaml)")
	flags.StringP("format", "o", "", "output format: text, json, yaml (default from config)")
	flags.Bool("no-color", false, "disable colored output")
	flags.String("log-level", "", "log level: debug, info, warn, error (default from config)")

	rootCmd.AddCommand(newTaskCmd())
	rootCmd.AddCommand(newViewCmd())
	rootCmd.AddCommand(newConfigCmd())
	rootCmd.AddCommand(newDoctorCmd())
	rootCmd.AddCommand(newVersionCmd())
	return rootCmd
}

// Execute runs the root command
func Execute() error {
	return ExecuteContext(context.Background())
}

// ExecuteContext runs the root command with ctx, which commands use for
// storage access and cancellation.
func ExecuteContext(ctx context.Context) error {
	return ux.FormatError(NewRootCommand().ExecuteContext(ctx), "")
}
