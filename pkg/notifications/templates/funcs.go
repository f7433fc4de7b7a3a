// Package templates provides utility functions for use in the gate's notification templates.
// Funcs is installed on every template parsed from --notification-template, built-in or custom.
package templates

import (
	"encoding/json"
	"fmt"
	"text/template"

	"github.com/sirupsen/logrus"
	"golang.org/x/text/cases"
	"golang.org/x/text/language"
)

// Funcs defines a set of utility functions for use in notification templates.
var Funcs = template.FuncMap{
	"ToUpper": cases.Upper(language.English).String,
	"ToLower": cases.Lower(language.English).String,
	"ToJSON":  toJSON,
	"Title":   title,
}

// title capitalises each word, leaving acronyms such as "CLI" intact.
func title(v any) string {
	return cases.Title(language.English, cases.NoLower).String(fmt.Sprint(v))
}

// toJSON marshals a value to a formatted JSON string for use in templates.
// If marshaling fails, it logs a warning and returns an error message as the string.
func toJSON(v any) string {
	bytes, err := json.MarshalIndent(v, "", "  ")
	if err != nil {
		logrus.WithError(err).WithFields(logrus.Fields{
			"value": fmt.Sprintf("%v", v), // Avoid recursive marshaling issues
		}).Warn("Failed to marshal JSON in notification template")

		return fmt.Sprintf("failed to marshal JSON in notification template: %v", err)
	}

	return string(bytes)
}
