package cli

import (
	"fmt"
	"strings"
	"text/template"

	"github.com/iudanet/coursemanager/internal/models"
)

const profileTemplate = `
=== Profile ===

ID:        {{.ID}}
Full name: {{.FullName}}
Email:     {{.Email}}
{{- if .Phone }}
Phone:     {{.Phone}}
{{- end}}
Roles:     {{join .Roles}}
`

const statusTemplate = `Status: Authenticated
Email:         {{.Email}}
Roles:         {{join .Roles}}
Access token:  {{.AccessToken}}
{{- if .LastValidated }}
Last checked:  {{.LastValidated}}
{{- else }}
Last checked:  never
{{- end}}
`

var templateFuncs = template.FuncMap{
	"join": func(roles []models.Role) string {
		out := make([]string, len(roles))
		for i, r := range roles {
			out[i] = string(r)
		}
		return strings.Join(out, ", ")
	},
}

// renderTemplate выводит данные через шаблон в c.io
func (c *Cli) renderTemplate(name, text string, data any) error {
	tmpl, err := template.New(name).Funcs(templateFuncs).Parse(text)
	if err != nil {
		return fmt.Errorf("failed to parse %s template: %w", name, err)
	}
	if err := tmpl.Execute(c.io, data); err != nil {
		return fmt.Errorf("failed to render %s: %w", name, err)
	}
	return nil
}
