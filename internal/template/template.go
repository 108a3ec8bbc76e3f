package template

import (
	"bytes"
	"fmt"
	"strings"
	"text/template"

	"github.com/jheysaaz/snippy-backend-sub001/internal/config"
)

// UnitData contains data for rendering the systemd unit template
type UnitData struct {
	Description string
	ExecStart   string
	WorkingDir  string
	User        string
	EnvFile     string
}

// RenderUnit renders the systemd unit file for the configured service
func RenderUnit(svc config.ServiceConfig) (string, error) {
	if svc.ExecStart == "" {
		return "", fmt.Errorf("exec_start must be set to render a unit for %s", svc.Name)
	}

	data := UnitData{
		Description: svc.Name + " service",
		ExecStart:   svc.ExecStart,
		WorkingDir:  svc.WorkingDir,
		User:        svc.User,
		EnvFile:     svc.EnvFile,
	}

	return render("systemd", "service", data)
}

// render renders the named template from the given family
func render(family, name string, data interface{}) (string, error) {
	tmplPath := fmt.Sprintf("%s/%s.tmpl", family, name)

	// Get template filesystem for the family
	fs, err := getTemplateFS(family)
	if err != nil {
		return "", err
	}

	// Read template content
	content, err := fs.ReadFile(tmplPath)
	if err != nil {
		return "", fmt.Errorf("template not found: %s/%s", family, name)
	}

	// Create template with custom functions
	funcMap := template.FuncMap{
		"replace": strings.ReplaceAll,
	}

	tmpl, err := template.New(name).Funcs(funcMap).Parse(string(content))
	if err != nil {
		return "", fmt.Errorf("failed to parse template: %w", err)
	}

	// Render template
	var buf bytes.Buffer
	if err := tmpl.Execute(&buf, data); err != nil {
		return "", fmt.Errorf("failed to render template: %w", err)
	}

	return buf.String(), nil
}
