package cli

import (
	"errors"
	"fmt"
	"os"

	"github.com/jheysaaz/snippy-backend-sub001/internal/cert"
	"github.com/jheysaaz/snippy-backend-sub001/internal/config"
	"github.com/jheysaaz/snippy-backend-sub001/internal/output"
	"github.com/spf13/cobra"
)

// expiryWarnDays is the remaining-validity threshold that turns a
// certificate row into a warning
const expiryWarnDays = 30

var sslStatusCmd = &cobra.Command{
	Use:   "status",
	Short: "Show the certificate inventory",
	Long: `List the project certificates and, when a Let's Encrypt domain is
configured, the live certificate: subject, expiry and days left.
Certificates within 30 days of expiry are flagged as warnings,
expired ones as errors.`,
	Args: cobra.NoArgs,
	RunE: runSSLStatus,
}

func init() {
	sslCmd.AddCommand(sslStatusCmd)
}

// CertStatus describes one certificate in the inventory
type CertStatus struct {
	Name    string     `json:"name"`
	Path    string     `json:"path"`
	Present bool       `json:"present"`
	Info    *cert.Info `json:"info,omitempty"`
	Error   string     `json:"error,omitempty"`
}

func runSSLStatus(cmd *cobra.Command, args []string) error {
	cfg, err := loadConfig()
	if err != nil {
		return err
	}

	var statuses []CertStatus
	for _, name := range config.ValidBundles() {
		statuses = append(statuses, inspectStatus(name, cfg.SSL.CertPath(name)))
	}
	if cfg.LetsEncrypt.Domain != "" {
		live := deps.CertbotManager.Live(cfg.LetsEncrypt.Domain)
		statuses = append(statuses, inspectStatus("letsencrypt", live.CertPath))
	}

	if jsonOutput {
		return output.JSON(statuses)
	}

	rows := make([][]string, 0, len(statuses))
	for _, s := range statuses {
		rows = append(rows, statusRow(s))
	}
	output.Table([]string{"CERTIFICATE", "SUBJECT", "EXPIRES", "DAYS", "NOTES"}, rows)

	for _, s := range statuses {
		switch {
		case !s.Present:
			output.Warn("%s: no certificate at %s (run snippyctl ssl setup)", s.Name, s.Path)
		case s.Info == nil:
			output.Error("%s: %s", s.Name, s.Error)
		case s.Info.Expired():
			output.Error("%s expired %d day(s) ago", s.Name, -s.Info.DaysLeft)
		case s.Info.DaysLeft < expiryWarnDays:
			output.Warn("%s expires in %d day(s)", s.Name, s.Info.DaysLeft)
		}
	}
	return nil
}

// inspectStatus parses one certificate into an inventory row
func inspectStatus(name, path string) CertStatus {
	info, err := cert.Inspect(path)
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return CertStatus{Name: name, Path: path}
		}
		return CertStatus{Name: name, Path: path, Present: true, Error: err.Error()}
	}
	return CertStatus{Name: name, Path: path, Present: true, Info: info}
}

func statusRow(s CertStatus) []string {
	if !s.Present {
		return []string{s.Name, "-", "-", "-", "missing"}
	}
	if s.Info == nil {
		return []string{s.Name, "-", "-", "-", "unreadable"}
	}

	notes := ""
	if s.Info.SelfSigned {
		notes = "self-signed"
	}
	return []string{
		s.Name,
		s.Info.Subject,
		s.Info.NotAfter.Format("2006-01-02"),
		fmt.Sprintf("%d", s.Info.DaysLeft),
		notes,
	}
}
