package cmd

import (
	"context"
	"fmt"
	"os"
	"strings"

	"github.com/charmbracelet/lipgloss"
	"github.com/spf13/cobra"

	"github.com/felixgeelhaar/ganttline/internal/config"
	"github.com/felixgeelhaar/ganttline/internal/health"
	"github.com/felixgeelhaar/ganttline/internal/persist"
	"github.com/felixgeelhaar/ganttline/internal/ux"
)

func newDoctorCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "doctor",
		Short: "Check the configuration, storage and stored plan",
		Long: `Run diagnostics on the ganttline setup.

Checks include:
  • the configuration file loads and is valid
  • the storage backend opens and its data decodes
  • every parent spans its subtasks and every parent exists
  • tasks starting before a dependency ends (overridden by a confirmed move)

Exits non-zero when a check is unhealthy.

Examples:
  ganttline doctor
  ganttline doctor -o json
`,
		Args: cobra.NoArgs,
		RunE: runDoctor,
	}
}

// doctorReport is the text rendering of a health report.
type doctorReport struct {
	health.Report

	noColor bool
}

func (r doctorReport) String() string {
	style := func(s health.Status) lipgloss.Style {
		st := lipgloss.NewStyle()
		if r.noColor {
			return st
		}
		switch s {
		case health.StatusHealthy:
			return st.Foreground(lipgloss.Color("46"))
		case health.StatusDegraded:
			return st.Foreground(lipgloss.Color("226"))
		}
		return st.Foreground(lipgloss.Color("196"))
	}
	icons := map[health.Status]string{
		health.StatusHealthy:   "✓",
		health.StatusDegraded:  "⚠",
		health.StatusUnhealthy: "✗",
	}

	var b strings.Builder
	for _, res := range r.Results {
		fmt.Fprintf(&b, "%s %s: %s\n", style(res.Status).Render(icons[res.Status]), res.Name, res.Message)
		for _, key := range []string{"overridden", "dangling", "stale", "orphans", "invalid", "error"} {
			if v, ok := res.Details[key]; ok {
				fmt.Fprintf(&b, "    %s: %v\n", key, v)
			}
		}
	}
	b.WriteString("\n")
	switch r.Status {
	case health.StatusHealthy:
		b.WriteString(style(r.Status).Render("Everything looks fine"))
	case health.StatusDegraded:
		b.WriteString(style(r.Status).Render("Usable, with warnings"))
	default:
		b.WriteString(style(r.Status).Render("Problems need attention"))
	}
	return b.String()
}

func runDoctor(cmd *cobra.Command, _ []string) error {
	path, err := configPath(cmd)
	if err != nil {
		return err
	}
	noColor, _ := cmd.Flags().GetBool("no-color")
	format, _ := cmd.Flags().GetString("format")

	m := health.NewManager()
	cfg, cfgErr := loadDoctorConfig(path)
	m.AddChecker(health.NewCheckFunc("config", func(context.Context) *health.Result {
		if cfgErr != nil {
			return health.Unhealthy("configuration cannot be used").WithDetail("error", cfgErr.Error())
		}
		return health.Healthy(fmt.Sprintf("%s storage, %s", cfg.Storage.Driver, path))
	}))

	if cfgErr == nil {
		if format == "" {
			format = cfg.Display.Format
		}
		noColor = noColor || cfg.Display.NoColor || os.Getenv("NO_COLOR") != ""

		backend, err := persist.Open(cfg.StorageOptions(), nil)
		if err != nil {
			m.AddChecker(health.NewCheckFunc("storage", func(context.Context) *health.Result {
				return health.Unhealthy("storage cannot be opened").WithDetail("error", err.Error())
			}))
		} else {
			defer backend.Close()
			m.AddChecker(health.NewStorageChecker(backend, cfg.Storage.Key))
			if tasks, err := persist.NewAdapter(backend, cfg.Storage.Key, nil).Load(cmd.Context()); err == nil {
				m.AddChecker(health.NewPlanChecker(tasks))
			}
		}
	}

	report := doctorReport{Report: m.Run(cmd.Context()), noColor: noColor}
	var data interface{} = report
	if format == "json" || format == "yaml" {
		data = report.Report
	}
	if err := ux.Print(cmd.OutOrStdout(), format, data); err != nil {
		return err
	}
	if !report.Healthy() {
		return fmt.Errorf("health check failed")
	}
	return nil
}

func loadDoctorConfig(path string) (*config.Config, error) {
	cfg, err := config.Load(path)
	if err != nil {
		return nil, err
	}
	cfg.ApplyEnv(os.Getenv)
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}
