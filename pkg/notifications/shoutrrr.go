package notifications

import (
	"errors"
	"fmt"
	"log"
	"net/url"
	"strings"
	"text/template"

	"github.com/sirupsen/logrus"

	shoutrrrTypes "github.com/nicholas-fedor/shoutrrr/pkg/types"

	"github.com/nicholas-fedor/esphome-gate/pkg/notifications/templates"
)

// errParseTemplateFailed indicates the configured notification template is not valid text/template syntax.
var errParseTemplateFailed = errors.New("failed to parse notification template string")

// LocalLog is a logrus entry for the package's own diagnostics.
var LocalLog = logrus.WithField("notify", "no")

// router defines the interface for sending Shoutrrr notifications.
// It abstracts the underlying service implementation.
type router interface {
	Send(message string, params *shoutrrrTypes.Params) []error
}

// GetScheme extracts the scheme part of a Shoutrrr URL.
// It returns "invalid" if no scheme is found.
func GetScheme(url string) string {
	schemeEnd := strings.Index(url, ":")
	if schemeEnd <= 0 {
		return "invalid"
	}

	return url[:schemeEnd]
}

// getShoutrrrTemplate resolves a built-in template name or parses a custom template.
//
// Parameters:
//   - tplString: Name from commonTemplates, template text, or empty for the default.
//
// Returns:
//   - *template.Template: Parsed template.
//   - error: Non-nil if custom template text does not parse.
func getShoutrrrTemplate(tplString string) (*template.Template, error) {
	tplBase := template.New("").Funcs(templates.Funcs)

	if builtin, found := commonTemplates[tplString]; found {
		logrus.WithField(`template`, tplString).Debug(`Using common template`)
		tplString = builtin
	}

	if tplString == "" {
		return template.Must(tplBase.Parse(commonTemplates[`default`])), nil
	}

	tpl, err := tplBase.Parse(tplString)
	if err != nil {
		return nil, fmt.Errorf("%w: %w", errParseTemplateFailed, err)
	}

	return tpl, nil
}

// sanitizeURLForLogging drops credentials, query and fragment from a service URL.
// Strings that do not parse as URLs are reduced to their scheme.
func sanitizeURLForLogging(rawURL string) string {
	parsed, err := url.Parse(rawURL)
	if err != nil || parsed.Scheme == "" {
		return GetScheme(rawURL) + "://[redacted]"
	}

	sanitized := url.URL{Scheme: parsed.Scheme, Host: parsed.Host, Path: parsed.Path}
	if parsed.User != nil {
		sanitized.User = url.User("[redacted]")
	}

	return sanitized.String()
}

// shoutrrrLogger routes Shoutrrr's own logging to logrus at trace level.
func shoutrrrLogger() shoutrrrTypes.StdLogger {
	return log.New(logrus.StandardLogger().WriterLevel(logrus.TraceLevel), "Shoutrrr: ", 0)
}
