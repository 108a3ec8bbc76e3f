package config

// ServiceConfig describes the managed backend service
type ServiceConfig struct {
	Name           string `yaml:"name"`
	Supervisor     string `yaml:"supervisor"` // systemd, compose
	UnitFile       string `yaml:"unit_file,omitempty"`
	ExecStart      string `yaml:"exec_start"`
	WorkingDir     string `yaml:"working_dir"`
	User           string `yaml:"user"`
	EnvFile        string `yaml:"env_file,omitempty"`
	ComposeFile    string `yaml:"compose_file,omitempty"`
	ComposeService string `yaml:"compose_service,omitempty"`
}

// Supervisor constants
const (
	SupervisorSystemd = "systemd"
	SupervisorCompose = "compose"
)

// ValidSupervisors returns all valid supervisor kinds
func ValidSupervisors() []string {
	return []string{SupervisorSystemd, SupervisorCompose}
}

// IsValidSupervisor checks if the given supervisor kind is valid
func IsValidSupervisor(s string) bool {
	for _, valid := range ValidSupervisors() {
		if s == valid {
			return true
		}
	}
	return false
}

// UnitName returns the systemd unit name for the service.
func (s ServiceConfig) UnitName() string {
	return s.Name + ".service"
}
