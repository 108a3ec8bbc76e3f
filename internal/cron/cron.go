// Package cron manages the crontab entry that drives certificate
// renewal. The tool owns at most one entry, tagged with a marker
// comment so repeated installs stay idempotent and removal never
// touches entries it does not manage.
package cron

import (
	"fmt"
	"strings"

	opserrors "github.com/jheysaaz/snippy-backend-sub001/internal/errors"
	"github.com/jheysaaz/snippy-backend-sub001/internal/executor"
)

// Marker tags the managed crontab entry.
const Marker = "# snippyctl:renew"

// cmdExecutor is the command executor (can be replaced for testing)
var cmdExecutor executor.CommandExecutor = executor.NewSystemExecutor()

// SetExecutor allows tests to inject a mock executor
func SetExecutor(exec executor.CommandExecutor) {
	cmdExecutor = exec
}

// ResetExecutor resets the executor to the default system executor
func ResetExecutor() {
	cmdExecutor = executor.NewSystemExecutor()
}

// CrontabInstalled checks if the crontab binary is available
func CrontabInstalled() bool {
	_, err := cmdExecutor.LookPath("crontab")
	return err == nil
}

// Entry builds the managed crontab line for the given schedule and command.
func Entry(schedule, command string) string {
	return fmt.Sprintf("%s %s %s", schedule, command, Marker)
}

// ValidateSchedule checks that the schedule has the five crontab fields
// with plausible content. Full expression parsing is left to cron.
func ValidateSchedule(schedule string) error {
	fields := strings.Fields(schedule)
	if len(fields) != 5 {
		return opserrors.Validation(fmt.Sprintf("cron schedule %q must have 5 fields, got %d", schedule, len(fields)))
	}
	for _, field := range fields {
		for _, r := range field {
			switch {
			case r >= '0' && r <= '9':
			case r >= 'A' && r <= 'Z':
			case r >= 'a' && r <= 'z':
			case r == '*' || r == ',' || r == '-' || r == '/':
			default:
				return opserrors.Validation(fmt.Sprintf("cron schedule field %q contains invalid character %q", field, r))
			}
		}
	}
	return nil
}

// readCrontab returns the current crontab lines. A missing crontab is
// treated as empty, matching how crontab -l reports it.
func readCrontab() ([]string, error) {
	if !CrontabInstalled() {
		return nil, fmt.Errorf("crontab is not installed. Install it with: apt install cron")
	}

	output, err := cmdExecutor.Execute("crontab", "-l")
	if err != nil {
		if strings.Contains(string(output), "no crontab for") {
			return nil, nil
		}
		return nil, fmt.Errorf("crontab -l failed: %s", string(output))
	}

	text := strings.TrimRight(string(output), "\n")
	if text == "" {
		return nil, nil
	}
	return strings.Split(text, "\n"), nil
}

// writeCrontab replaces the current crontab with the given lines by
// piping them to crontab -.
func writeCrontab(lines []string) error {
	data := strings.Join(lines, "\n") + "\n"
	output, err := cmdExecutor.ExecuteInput([]byte(data), "crontab", "-")
	if err != nil {
		return fmt.Errorf("crontab update failed: %s", string(output))
	}
	return nil
}

// managedIndex returns the index of the managed entry, or -1.
func managedIndex(lines []string) int {
	for i, line := range lines {
		if strings.Contains(line, Marker) {
			return i
		}
	}
	return -1
}

// Install registers the renewal entry. It reports true when the crontab
// was changed and false when an identical entry is already installed.
// A managed entry with a different schedule or command is replaced.
func Install(schedule, command string) (bool, error) {
	if err := ValidateSchedule(schedule); err != nil {
		return false, err
	}

	lines, err := readCrontab()
	if err != nil {
		return false, err
	}

	desired := Entry(schedule, command)
	if i := managedIndex(lines); i >= 0 {
		if lines[i] == desired {
			return false, nil
		}
		lines[i] = desired
		return true, writeCrontab(lines)
	}

	lines = append(lines, desired)
	return true, writeCrontab(lines)
}

// Show returns the managed entry, or the empty string when none is
// installed.
func Show() (string, error) {
	lines, err := readCrontab()
	if err != nil {
		return "", err
	}
	if i := managedIndex(lines); i >= 0 {
		return lines[i], nil
	}
	return "", nil
}

// Remove deletes the managed entry, leaving all other crontab lines in
// place. It reports false when no managed entry was present.
func Remove() (bool, error) {
	lines, err := readCrontab()
	if err != nil {
		return false, err
	}

	i := managedIndex(lines)
	if i < 0 {
		return false, nil
	}

	kept := append(append([]string{}, lines[:i]...), lines[i+1:]...)
	return true, writeCrontab(kept)
}
