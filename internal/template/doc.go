// Package template provides rendering of the systemd unit file from an
// embedded Go template.
//
// The deploy command installs a unit for the managed service when none is
// present. When the project config names a pre-authored unit file, that
// file is installed verbatim; otherwise the embedded template here is
// rendered from the service settings. Templates are embedded in the binary
// using go:embed directives.
//
// # Template Organization
//
// Templates are organized by family:
//
//	systemd/service.tmpl
//
// # Rendering the Unit
//
//	svc := config.ServiceConfig{
//	    Name:       "snippy-backend",
//	    ExecStart:  "/usr/local/bin/snippy-backend",
//	    WorkingDir: "/opt/snippy-backend",
//	    User:       "snippy",
//	}
//
//	content, err := template.RenderUnit(svc)
//	if err != nil {
//	    log.Fatal(err)
//	}
//
//	// Write content to /etc/systemd/system/snippy-backend.service
//
// User, WorkingDirectory and EnvironmentFile lines are omitted when the
// corresponding config fields are empty. ExecStart is required.
package template
