package template

import (
	"embed"
	"fmt"
)

//go:embed systemd/*.tmpl
var systemdTemplates embed.FS

// getTemplateFS returns the embed.FS for the given template family
func getTemplateFS(family string) (embed.FS, error) {
	switch family {
	case "systemd":
		return systemdTemplates, nil
	default:
		return embed.FS{}, fmt.Errorf("unknown template family: %s", family)
	}
}
