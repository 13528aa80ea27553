package report

import (
	"bytes"
	_ "embed"
	"fmt"
	"html/template"
	"os"
)

const HTMLFile = "dashboard.html"

//go:embed templates/dashboard.html.tmpl
var dashboardTemplate string

var htmlTemplate = template.Must(template.New("dashboard").Parse(dashboardTemplate))

func RenderHTML(d *Dashboard) ([]byte, error) {
	var buf bytes.Buffer
	if err := htmlTemplate.Execute(&buf, d); err != nil {
		return nil, fmt.Errorf("failed to render dashboard: %w", err)
	}
	return buf.Bytes(), nil
}

func writeHTML(path string, d *Dashboard) error {
	data, err := RenderHTML(d)
	if err != nil {
		return err
	}
	if err = os.WriteFile(path, data, 0o600); err != nil {
		return fmt.Errorf("failed to write dashboard: %w", err)
	}
	return nil
}
