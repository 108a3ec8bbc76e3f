package cli

import (
	"errors"
	"fmt"
	"os/exec"
	"strings"

	"github.com/jheysaaz/snippy-backend-sub001/internal/logger"
	"github.com/spf13/cobra"
)

var (
	logsFollow bool
	logsLines  int
)

var logsCmd = &cobra.Command{
	Use:   "logs",
	Short: "Show service logs",
	Long: `Show logs for the service through its supervisor.

Uses journalctl for the systemd supervisor and docker compose logs
for the compose supervisor.

Examples:
  snippyctl logs
  snippyctl logs --follow
  snippyctl logs --lines 200`,
	Args: cobra.NoArgs,
	RunE: runLogs,
}

func init() {
	logsCmd.Flags().BoolVarP(&logsFollow, "follow", "f", false, "Follow log output")
	logsCmd.Flags().IntVarP(&logsLines, "lines", "n", 50, "Number of lines to show")
	rootCmd.AddCommand(logsCmd)
}

func runLogs(cmd *cobra.Command, args []string) error {
	_, drv, err := loadConfigAndDriver()
	if err != nil {
		return err
	}

	name, cmdArgs, err := drv.LogsCommand(logsFollow, logsLines)
	if err != nil {
		return err
	}

	if _, err := deps.CommandRunner.LookPath(name); err != nil {
		return fmt.Errorf("%s is not installed", name)
	}

	logger.Debug("running %s %s", name, strings.Join(cmdArgs, " "))

	if err := deps.CommandRunner.RunInteractive(name, cmdArgs...); err != nil {
		// Ctrl-C out of a followed log is a normal exit, not a failure
		var exitErr *exec.ExitError
		if errors.As(err, &exitErr) {
			code := exitErr.ExitCode()
			if code == 130 || code == 143 {
				return nil
			}
		}
		return fmt.Errorf("failed to read logs: %w", err)
	}

	return nil
}
