package vmconfig

import (
	"errors"
	"os"
	"path/filepath"
	"strings"
	"text/template"
)

const InitScriptName = "startup.sh"

var ErrWriteInitScript = errors.New("failed to write init script")

var initScriptTemplate = template.Must(template.New(InitScriptName).Parse(`#!/bin/bash
echo "Cloud Hypervisor VM Starting..."
echo "CPUs: {{ .CPUs }}"
echo "Memory: {{ .Memory }}"
echo "Network: {{ if .Network }}enabled{{ else }}disabled{{ end }}"
{{- if .Packages }}
pip install {{ .Packages }}
{{- end }}
{{- if .Script }}
{{ .Script }}
{{- end }}
echo "Cloud Hypervisor VM ready!"
echo "Type commands to interact with the VM"
`))

// RenderInitScript returns the startup script of recipe.
func RenderInitScript(recipe Recipe) (string, error) {
	recipe = recipe.Defaulted()

	var sb strings.Builder
	if err := initScriptTemplate.Execute(&sb, struct {
		CPUs     int
		Memory   string
		Network  bool
		Packages string
		Script   string
	}{
		CPUs:     recipe.CPUs,
		Memory:   recipe.Memory,
		Network:  recipe.NetworkEnabled(),
		Packages: strings.Join(recipe.PythonPackages, " "),
		Script:   strings.TrimRight(recipe.StartupScript, "\n"),
	}); err != nil {
		return "", errors.Join(err, ErrWriteInitScript)
	}

	return sb.String(), nil
}

// WriteInitScript renders the startup script into workDir with mode 0755 and returns its path.
func WriteInitScript(workDir string, recipe Recipe) (string, error) {
	content, err := RenderInitScript(recipe)
	if err != nil {
		return "", err
	}

	path := filepath.Join(workDir, InitScriptName)
	if err := os.WriteFile(path, []byte(content), 0o755); err != nil {
		return "", errors.Join(err, ErrWriteInitScript)
	}

	// WriteFile applies the umask.
	if err := os.Chmod(path, 0o755); err != nil {
		return "", errors.Join(err, ErrWriteInitScript)
	}

	return path, nil
}
