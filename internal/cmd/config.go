package cmd

import (
	"fmt"
	"os"
	"os/exec"

	"github.com/spf13/cobra"
	"gopkg.in/yaml.v3"

	"github.com/felixgeelhaar/ganttline/internal/config"
	"github.com/felixgeelhaar/ganttline/internal/ux"
)

func newConfigCmd() *cobra.Command {
	configCmd := &cobra.Command{
		Use:   "config",
		Short: "View or edit ganttline configuration",
		Long: `Manage ganttline configuration stored at ~/.ganttline/config.yaml

Configuration includes:
  • Storage driver (file, sqlite, memory) and location
  • Logging level and format
  • Scheduling rules
  • Output format and colors

The environment variables GANTTLINE_STORAGE_DRIVER, GANTTLINE_STORAGE_PATH,
GANTTLINE_LOG_LEVEL and GANTTLINE_LOG_FORMAT override the file.

Examples:
  # View current configuration
  ganttline config view

  # Keep tasks in SQLite
  ganttline config set storage.driver sqlite

  # Get a specific value
  ganttline config get storage.path

  # Show configuration file path
  ganttline config path
`,
	}

	configCmd.AddCommand(&cobra.Command{
		Use:   "view",
		Short: "Display current configuration",
		Long:  `Display the effective configuration, environment overrides included.`,
		Args:  cobra.NoArgs,
		RunE:  runConfigView,
	})
	configCmd.AddCommand(&cobra.Command{
		Use:   "edit",
		Short: "Edit configuration in $EDITOR",
		Long:  `Open the configuration file in your default editor (from $EDITOR environment variable).`,
		Args:  cobra.NoArgs,
		RunE:  runConfigEdit,
	})
	configCmd.AddCommand(&cobra.Command{
		Use:   "get <key>",
		Short: "Get a specific configuration value",
		Long:  `Retrieve the value of a specific configuration key using dot notation (e.g., storage.driver).`,
		Args:  cobra.ExactArgs(1),
		RunE:  runConfigGet,
	})
	configCmd.AddCommand(&cobra.Command{
		Use:   "set <key> <value>",
		Short: "Set a specific configuration value",
		Long:  `Set the value of a specific configuration key using dot notation (e.g., storage.driver sqlite).`,
		Args:  cobra.ExactArgs(2),
		RunE:  runConfigSet,
	})
	configCmd.AddCommand(&cobra.Command{
		Use:   "path",
		Short: "Show configuration file path",
		Long:  `Display the path to the configuration file.`,
		Args:  cobra.NoArgs,
		RunE:  runConfigPath,
	})
	return configCmd
}

// configPath returns the --config flag or the default location.
func configPath(cmd *cobra.Command) (string, error) {
	path, err := cmd.Flags().GetString("config")
	if err != nil {
		return "", err
	}
	if path != "" {
		return path, nil
	}
	return config.DefaultPath()
}

// configView is the text rendering of config view.
type configView struct {
	path string
	cfg  *config.Config
}

func (v configView) String() string {
	data, err := yaml.Marshal(v.cfg)
	if err != nil {
		return err.Error()
	}
	return fmt.Sprintf("Configuration file: %s\n\n%s", v.path, data)
}

func runConfigView(cmd *cobra.Command, _ []string) error {
	cc, err := NewCommandContext(cmd)
	if err != nil {
		return err
	}
	if cc.Format == ux.FormatText {
		return cc.Print(cmd, configView{path: cc.ConfigPath, cfg: cc.Config})
	}
	return cc.Print(cmd, cc.Config)
}

func runConfigEdit(cmd *cobra.Command, _ []string) error {
	path, err := configPath(cmd)
	if err != nil {
		return ux.FormatError(err, "getting config path")
	}

	// Start from the defaults when there is no file yet
	if _, statErr := os.Stat(path); os.IsNotExist(statErr) {
		if err := config.Save(config.Default(), path); err != nil {
			return ux.FormatError(err, "creating configuration")
		}
	}

	editor := os.Getenv("EDITOR")
	if editor == "" {
		editor = "vi"
	}

	editorCmd := exec.Command(editor, path)
	editorCmd.Stdin = os.Stdin
	editorCmd.Stdout = os.Stdout
	editorCmd.Stderr = os.Stderr

	if err := editorCmd.Run(); err != nil {
		return fmt.Errorf("failed to run editor: %w", err)
	}

	cfg, err := config.Load(path)
	if err == nil {
		err = cfg.Validate()
	}
	if err != nil {
		fmt.Fprintf(cmd.ErrOrStderr(), "Warning: Configuration may contain errors.\n")
		return err
	}

	fmt.Fprintln(cmd.OutOrStdout(), "✓ Configuration updated successfully")
	return nil
}

func runConfigGet(cmd *cobra.Command, args []string) error {
	path, err := configPath(cmd)
	if err != nil {
		return err
	}
	cfg, err := config.Load(path)
	if err != nil {
		return err
	}
	cfg.ApplyEnv(os.Getenv)

	value, err := cfg.Get(args[0])
	if err != nil {
		return fmt.Errorf("failed to get value: %w", err)
	}
	fmt.Fprintln(cmd.OutOrStdout(), value)
	return nil
}

func runConfigSet(cmd *cobra.Command, args []string) error {
	key, value := args[0], args[1]

	path, err := configPath(cmd)
	if err != nil {
		return err
	}
	cfg, err := config.Load(path)
	if err != nil {
		return err
	}

	if err := cfg.Set(key, value); err != nil {
		return fmt.Errorf("failed to set value: %w", err)
	}
	if err := cfg.Validate(); err != nil {
		return err
	}
	if err := config.Save(cfg, path); err != nil {
		return ux.FormatError(err, "saving configuration")
	}

	fmt.Fprintf(cmd.OutOrStdout(), "✓ Set %s = %s\n", key, value)
	return nil
}

func runConfigPath(cmd *cobra.Command, _ []string) error {
	path, err := configPath(cmd)
	if err != nil {
		return ux.FormatError(err, "getting config path")
	}
	fmt.Fprintln(cmd.OutOrStdout(), path)
	return nil
}
