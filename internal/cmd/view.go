package cmd

import (
	"context"
	"fmt"

	"github.com/spf13/cobra"

	"github.com/felixgeelhaar/ganttline/internal/health"
	"github.com/felixgeelhaar/ganttline/internal/server"
	"github.com/felixgeelhaar/ganttline/internal/tui"
)

func newViewCmd() *cobra.Command {
	c := &cobra.Command{
		Use:   "view",
		Short: "Open the interactive Gantt chart",
		Long: `Open the interactive Gantt chart.

Keys:
  ↑/↓ or k/j    select a task
  ←/→ or h/l    move the selected task one day
  enter         collapse or expand subtasks
  y / n / esc   when a move affects dependents: shift all, shift the
                ones that fit, or cancel
  q             quit

With --metrics-addr the scheduler's Prometheus metrics are served at
/metrics, and a storage health report at /healthz, for as long as the
chart is open.`,
		Args: cobra.NoArgs,
		RunE: runView,
	}
	c.Flags().String("metrics-addr", "", "serve Prometheus metrics on this address, e.g. :9464")
	return c
}

func runView(cmd *cobra.Command, _ []string) error {
	if !tui.IsInteractive() {
		return fmt.Errorf("view needs an interactive terminal; use 'ganttline task list' instead")
	}
	return withSession(cmd, func(cc *CommandContext, s *Session) error {
		if addr, _ := cmd.Flags().GetString("metrics-addr"); addr != "" {
			stop, err := serveMetrics(cc, s, addr)
			if err != nil {
				return err
			}
			defer stop()
		}
		return tui.RunGantt(cmd.Context(), s.Store, cc.NoColor)
	})
}

// serveMetrics exposes the session registry and storage health until the
// returned func is called.
func serveMetrics(cc *CommandContext, s *Session, addr string) (func(), error) {
	checks := health.NewManager()
	checks.AddChecker(health.NewStorageChecker(s.backend, cc.Config.Storage.Key))

	srv := server.New(server.Config{Address: addr}, s.Registry, checks, cc.Logger)
	if err := srv.Start(); err != nil {
		return nil, err
	}
	return func() {
		if err := srv.Shutdown(context.Background()); err != nil {
			cc.Logger.LogError("stop metrics server", err)
		}
	}, nil
}
