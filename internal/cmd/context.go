package cmd

import (
	"context"
	"fmt"
	"os"
	"strings"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/spf13/cobra"

	"github.com/felixgeelhaar/ganttline/internal/calendar"
	"github.com/felixgeelhaar/ganttline/internal/config"
	"github.com/felixgeelhaar/ganttline/internal/errors"
	"github.com/felixgeelhaar/ganttline/internal/log"
	"github.com/felixgeelhaar/ganttline/internal/metrics"
	"github.com/felixgeelhaar/ganttline/internal/persist"
	"github.com/felixgeelhaar/ganttline/internal/schedule"
	"github.com/felixgeelhaar/ganttline/internal/ux"
)

// CommandContext holds the global flags merged with the configuration
// file and environment.
type CommandContext struct {
	ConfigPath string
	Format     string
	NoColor    bool
	LogLevel   string

	Config *config.Config
	Logger *log.Logger
}

// NewCommandContext extracts command context from cobra.Command flags and
// loads the configuration. Commands should call this in their RunE function:
//
//	func runCommand(cmd *cobra.Command, args []string) error {
//		cc, err := NewCommandContext(cmd)
//		if err != nil {
//			return err
//		}
//		// Use cc.Format, cc.Config, etc.
//	}
func NewCommandContext(cmd *cobra.Command) (*CommandContext, error) {
	configPath, err := cmd.Flags().GetString("config")
	if err != nil {
		return nil, err
	}
	format, err := cmd.Flags().GetString("format")
	if err != nil {
		return nil, err
	}
	noColor, err := cmd.Flags().GetBool("no-color")
	if err != nil {
		return nil, err
	}
	logLevel, err := cmd.Flags().GetString("log-level")
	if err != nil {
		return nil, err
	}

	if configPath == "" {
		if configPath, err = config.DefaultPath(); err != nil {
			return nil, err
		}
	}
	cfg, err := config.Load(configPath)
	if err != nil {
		return nil, err
	}
	cfg.ApplyEnv(os.Getenv)
	if logLevel != "" {
		cfg.Logging.Level = logLevel
	}
	if format != "" {
		cfg.Display.Format = format
	}
	if noColor || os.Getenv("NO_COLOR") != "" {
		cfg.Display.NoColor = true
	}
	if err := cfg.Validate(); err != nil {
		return nil, err
	}

	logCfg := log.ConfigFrom(cfg.Logging.Level, cfg.Logging.Format)
	logCfg.Output = log.NewOutput(cmd.ErrOrStderr())
	logger := log.New(logCfg)
	log.SetDefaultLogger(logger)

	return &CommandContext{
		ConfigPath: configPath,
		Format:     cfg.Display.Format,
		NoColor:    cfg.Display.NoColor,
		LogLevel:   cfg.Logging.Level,
		Config:     cfg,
		Logger:     logger,
	}, nil
}

// Print writes data to the command's output in the selected format.
func (cc *CommandContext) Print(cmd *cobra.Command, data interface{}) error {
	return ux.Print(cmd.OutOrStdout(), cc.Format, data)
}

// ParseDate reads a date flag in the configured date format, falling back
// to ISO-8601.
func (cc *CommandContext) ParseDate(flag, value string) (time.Time, error) {
	layout := cc.Config.Display.DateFormat
	if layout != "" && layout != calendar.Layout {
		if t, err := time.Parse(layout, value); err == nil {
			return calendar.Day(t), nil
		}
	}
	t, err := calendar.Parse(value)
	if err != nil {
		return time.Time{}, fmt.Errorf("--%s: %w", flag, err)
	}
	return t, nil
}

// Session is an opened task store together with its storage and metrics.
type Session struct {
	Store    *schedule.Store
	Registry *prometheus.Registry

	backend persist.Backend
	adapter *persist.Adapter
}

// OpenSession opens the configured backend, loads the stored tasks and
// builds the Store around them.
func (cc *CommandContext) OpenSession(ctx context.Context) (*Session, error) {
	backend, err := persist.Open(cc.Config.StorageOptions(), cc.Logger)
	if err != nil {
		return nil, err
	}
	adapter := persist.NewAdapter(backend, cc.Config.Storage.Key, cc.Logger)

	tasks, err := adapter.Load(ctx)
	if err != nil {
		_ = adapter.Close()
		return nil, err
	}

	reg, m := metrics.NewRegistry()
	store := schedule.NewStore(
		schedule.WithTasks(tasks),
		schedule.WithPersister(adapter),
		schedule.WithLogger(cc.Logger),
		schedule.WithMetrics(m),
		schedule.WithCyclePolicy(cc.Config.Schedule.RejectCycles),
	)
	cc.Logger.Debug("session opened", "driver", cc.Config.Storage.Driver, "tasks", store.Len())
	return &Session{Store: store, Registry: reg, backend: backend, adapter: adapter}, nil
}

// Close releases the storage backend.
func (s *Session) Close() error {
	return s.adapter.Close()
}

// ResolveID finds a task by full id or by a unique id prefix, so the short
// ids shown in listings can be typed back.
func (s *Session) ResolveID(arg string) (string, error) {
	if _, ok := s.Store.GetTaskByID(arg); ok {
		return arg, nil
	}
	var matches []string
	for _, t := range s.Store.Tasks() {
		if strings.HasPrefix(t.ID, arg) {
			matches = append(matches, t.ID)
		}
	}
	switch len(matches) {
	case 1:
		return matches[0], nil
	case 0:
		return "", errors.NewTaskNotFoundError(arg)
	default:
		return "", errors.New(errors.ErrCodeTaskNotFound, fmt.Sprintf("id prefix %q is ambiguous: %s", arg, strings.Join(matches, ", "))).
			WithSuggestion("Type more characters of the id")
	}
}

// ResolveIDs resolves every element of args.
func (s *Session) ResolveIDs(args []string) ([]string, error) {
	out := make([]string, 0, len(args))
	for _, a := range args {
		id, err := s.ResolveID(a)
		if err != nil {
			return nil, err
		}
		out = append(out, id)
	}
	return out, nil
}

// withSession opens a session for the duration of fn.
func withSession(cmd *cobra.Command, fn func(cc *CommandContext, s *Session) error) error {
	cc, err := NewCommandContext(cmd)
	if err != nil {
		return err
	}
	s, err := cc.OpenSession(cmd.Context())
	if err != nil {
		return err
	}
	defer func() {
		if cerr := s.Close(); cerr != nil {
			cc.Logger.LogError("close storage", cerr)
		}
	}()
	return fn(cc, s)
}
