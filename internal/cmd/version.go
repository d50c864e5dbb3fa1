package cmd

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/felixgeelhaar/ganttline/internal/ux"
	"github.com/felixgeelhaar/ganttline/internal/version"
)

func newVersionCmd() *cobra.Command {
	c := &cobra.Command{
		Use:   "version",
		Short: "Print version information",
		Long: `Print version information including version number, git commit,
build date, Go version, and platform.`,
		Args: cobra.NoArgs,
		RunE: runVersion,
	}
	c.Flags().BoolP("verbose", "v", false, "show detailed version information")
	return c
}

func runVersion(cmd *cobra.Command, _ []string) error {
	info := version.GetInfo()

	format, _ := cmd.Flags().GetString("format")
	if format != "" && format != ux.FormatText {
		return ux.Print(cmd.OutOrStdout(), format, info)
	}

	if verbose, _ := cmd.Flags().GetBool("verbose"); verbose {
		fmt.Fprintln(cmd.OutOrStdout(), info.String())
		return nil
	}

	fmt.Fprintf(cmd.OutOrStdout(), "ganttline %s\n", info.Short())
	return nil
}
