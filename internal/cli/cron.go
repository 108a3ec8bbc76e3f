package cli

import (
	"os"

	"github.com/jheysaaz/snippy-backend-sub001/internal/cron"
	"github.com/jheysaaz/snippy-backend-sub001/internal/output"
	"github.com/spf13/cobra"
)

var (
	cronSchedule string
	cronYes      bool
)

var cronCmd = &cobra.Command{
	Use:   "cron",
	Short: "Manage the certificate renewal cron entry",
	Long: `Manage the crontab entry that runs certificate renewal. The entry
is tagged with the ` + cron.Marker + ` marker, so the tool never
touches crontab lines it does not own.`,
}

var cronInstallCmd = &cobra.Command{
	Use:   "install",
	Short: "Install the renewal crontab entry",
	Long: `Register a crontab entry running certificate renewal on the
configured schedule. Installing twice is a no-op; a schedule change
replaces the managed entry in place.

Examples:
  snippyctl cron install
  snippyctl cron install --schedule "30 4 * * *"`,
	Args: cobra.NoArgs,
	RunE: runCronInstall,
}

var cronShowCmd = &cobra.Command{
	Use:   "show",
	Short: "Show the managed crontab entry",
	Args:  cobra.NoArgs,
	RunE:  runCronShow,
}

var cronRemoveCmd = &cobra.Command{
	Use:   "remove",
	Short: "Remove the managed crontab entry",
	Args:  cobra.NoArgs,
	RunE:  runCronRemove,
}

func init() {
	cronInstallCmd.Flags().StringVarP(&cronSchedule, "schedule", "s", "", "Cron schedule (default from config)")
	cronRemoveCmd.Flags().BoolVarP(&cronYes, "yes", "y", false, "Skip the confirmation prompt")
	cronCmd.AddCommand(cronInstallCmd)
	cronCmd.AddCommand(cronShowCmd)
	cronCmd.AddCommand(cronRemoveCmd)
	rootCmd.AddCommand(cronCmd)
}

// CronResult is the JSON result of the cron commands
type CronResult struct {
	Success   bool   `json:"success"`
	Installed bool   `json:"installed"`
	Changed   bool   `json:"changed,omitempty"`
	Schedule  string `json:"schedule,omitempty"`
	Entry     string `json:"entry,omitempty"`
}

// renewCommand returns the command line the cron entry runs
func renewCommand() string {
	exe, err := os.Executable()
	if err != nil {
		exe = "snippyctl"
	}
	return exe + " ssl renew --quiet"
}

func runCronInstall(cmd *cobra.Command, args []string) error {
	cfg, err := loadConfig()
	if err != nil {
		return err
	}

	schedule := cfg.Cron.Schedule
	if cronSchedule != "" {
		schedule = cronSchedule
	}
	if err := cron.ValidateSchedule(schedule); err != nil {
		return err
	}
	command := renewCommand()
	entry := cron.Entry(schedule, command)

	if dryRun {
		return outputDryRun(DryRunResult{
			Service: cfg.Service.Name,
			Operations: []DryRunOperation{
				{Action: "install-cron", Target: entry},
			},
		})
	}

	changed, err := deps.CronManager.Install(schedule, command)
	if err != nil {
		return err
	}

	result := CronResult{
		Success:   true,
		Installed: true,
		Changed:   changed,
		Schedule:  schedule,
		Entry:     entry,
	}
	if !changed {
		return outputResult(result, "Renewal cron entry already installed")
	}

	recordAudit(cfg, "cron-install", map[string]string{
		"schedule": schedule,
		"result":   "ok",
	})
	return outputResult(result, "Installed renewal cron entry (%s)", schedule)
}

func runCronShow(cmd *cobra.Command, args []string) error {
	entry, err := deps.CronManager.Show()
	if err != nil {
		return err
	}

	if jsonOutput {
		return output.JSON(CronResult{Success: true, Installed: entry != "", Entry: entry})
	}
	if entry == "" {
		output.Info("No renewal cron entry installed")
		return nil
	}
	output.Print("%s", entry)
	return nil
}

func runCronRemove(cmd *cobra.Command, args []string) error {
	cfg, err := loadConfig()
	if err != nil {
		return err
	}

	if dryRun {
		return outputDryRun(DryRunResult{
			Service: cfg.Service.Name,
			Operations: []DryRunOperation{
				{Action: "remove-cron", Target: "entry tagged " + cron.Marker},
			},
		})
	}

	if !cronYes {
		if !confirm("Remove the renewal cron entry?") {
			output.Info("Removal cancelled")
			return nil
		}
	}

	removed, err := deps.CronManager.Remove()
	if err != nil {
		return err
	}

	result := CronResult{Success: true, Installed: false, Changed: removed}
	if !removed {
		if jsonOutput {
			return output.JSON(result)
		}
		output.Info("No renewal cron entry to remove")
		return nil
	}

	recordAudit(cfg, "cron-remove", map[string]string{"result": "ok"})
	return outputResult(result, "Removed renewal cron entry")
}
