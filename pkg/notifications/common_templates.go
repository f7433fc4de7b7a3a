package notifications

// commonTemplates are the built-in notification templates, selectable by name
// with --notification-template.
var commonTemplates = map[string]string{
	`default`: `{{ .Message }}`,

	`summary`: `
{{- with .Abort -}}
  {{.Stage | Title}} check failed: {{.Diagnostic.Summary}}
  {{- with .Diagnostic.Fixes}} Fix: {{index . 0}}{{end}}
{{- end -}}`,

	`porcelain.v1.stages`: `
{{- range .Stages -}}
  {{.Stage}}: {{.State}} ({{.Duration}}){{ println }}
{{- end -}}
{{- with .Abort}}abort: {{.Kind}}{{end}}`,

	`json.v1`: `{{ . | ToJSON }}`,
}
