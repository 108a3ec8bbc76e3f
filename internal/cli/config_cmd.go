package cli

import (
	"fmt"
	"os"

	"github.com/jheysaaz/snippy-backend-sub001/internal/config"
	"github.com/jheysaaz/snippy-backend-sub001/internal/logger"
	"github.com/jheysaaz/snippy-backend-sub001/internal/output"
	"github.com/jheysaaz/snippy-backend-sub001/internal/platform"
	"github.com/spf13/cobra"
	"gopkg.in/yaml.v3"
)

var configInitForce bool

var configCmd = &cobra.Command{
	Use:   "config",
	Short: "Manage the snippyctl configuration file",
}

var configInitCmd = &cobra.Command{
	Use:   "init",
	Short: "Write a starter configuration file",
	Long: `Write a configuration file with default values.

The supervisor is chosen from what the platform offers: systemd when
available, otherwise docker compose.

Examples:
  snippyctl config init
  snippyctl config init --force`,
	Args: cobra.NoArgs,
	RunE: runConfigInit,
}

var configShowCmd = &cobra.Command{
	Use:   "show",
	Short: "Show the effective configuration",
	Args:  cobra.NoArgs,
	RunE:  runConfigShow,
}

var configEditCmd = &cobra.Command{
	Use:   "edit",
	Short: "Edit the configuration file",
	Long: `Open the configuration file in an editor.

Uses $EDITOR environment variable or defaults to vi.

Examples:
  snippyctl config edit
  EDITOR=nano snippyctl config edit`,
	Args: cobra.NoArgs,
	RunE: runConfigEdit,
}

func init() {
	configInitCmd.Flags().BoolVarP(&configInitForce, "force", "f", false, "Overwrite an existing config file")
	configCmd.AddCommand(configInitCmd)
	configCmd.AddCommand(configShowCmd)
	configCmd.AddCommand(configEditCmd)
	rootCmd.AddCommand(configCmd)
}

// ConfigInitResult represents the result of config init as JSON output
type ConfigInitResult struct {
	Success    bool   `json:"success"`
	Path       string `json:"path"`
	Supervisor string `json:"supervisor"`
}

func runConfigInit(cmd *cobra.Command, args []string) error {
	path := configSavePath()

	if _, err := os.Stat(path); err == nil && !configInitForce {
		return fmt.Errorf("config file %s already exists (use --force to overwrite)", path)
	}

	cfg := config.New()

	// Detection failures leave the default supervisor in place
	if paths, err := platform.DetectPaths(); err == nil {
		if s := paths.DefaultSupervisor(); s != "" {
			cfg.Service.Supervisor = s
		}
	} else {
		logger.Debug("platform detection failed: %v", err)
	}

	if dryRun {
		return outputDryRun(DryRunResult{
			Service: cfg.Service.Name,
			Operations: []DryRunOperation{
				{Action: "write-config", Target: path, Details: "starter configuration for the " + cfg.Service.Supervisor + " supervisor"},
			},
		})
	}

	if err := deps.ConfigLoader.Save(cfg, path); err != nil {
		return err
	}

	result := &ConfigInitResult{
		Success:    true,
		Path:       path,
		Supervisor: cfg.Service.Supervisor,
	}

	return outputResult(result, "Wrote starter configuration to %s (%s supervisor)", path, cfg.Service.Supervisor)
}

func runConfigShow(cmd *cobra.Command, args []string) error {
	cfg, err := loadConfig()
	if err != nil {
		return err
	}

	if jsonOutput {
		return output.JSON(cfg)
	}

	path := configSavePath()
	if _, err := os.Stat(path); err == nil {
		output.Info("Configuration from %s", path)
	} else {
		output.Info("Built-in defaults (no config file at %s)", path)
	}

	data, err := yaml.Marshal(cfg)
	if err != nil {
		return fmt.Errorf("failed to marshal config: %w", err)
	}
	output.Print("%s", string(data))

	return nil
}

func runConfigEdit(cmd *cobra.Command, args []string) error {
	path := configSavePath()

	if _, err := os.Stat(path); os.IsNotExist(err) {
		return fmt.Errorf("no config file at %s (run snippyctl config init first)", path)
	}

	editor := editorCommand()
	if _, err := deps.CommandRunner.LookPath(editor); err != nil {
		return fmt.Errorf("editor not found: %s", editor)
	}

	output.Info("Opening %s with %s...", path, editor)

	if err := deps.CommandRunner.RunInteractive(editor, path); err != nil {
		return fmt.Errorf("editor exited with error: %w", err)
	}

	// Surface mistakes now instead of on the next command
	if _, err := deps.ConfigLoader.Load(path); err != nil {
		output.Warn("Edited config does not load: %v", err)
		return nil
	}

	output.Success("Configuration valid")
	return nil
}

func editorCommand() string {
	if editor := os.Getenv("EDITOR"); editor != "" {
		return editor
	}
	return "vi"
}
