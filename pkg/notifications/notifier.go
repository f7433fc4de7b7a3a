package notifications

import (
	"bytes"
	"errors"
	"fmt"
	"os"
	"strings"
	"text/template"

	"github.com/nicholas-fedor/shoutrrr"

	shoutrrrTypes "github.com/nicholas-fedor/shoutrrr/pkg/types"

	"github.com/nicholas-fedor/esphome-gate/internal/util"
	"github.com/nicholas-fedor/esphome-gate/pkg/types"
)

var (
	// errCreateSenderFailed indicates the Shoutrrr sender could not be built from the URLs.
	errCreateSenderFailed = errors.New("failed to initialize Shoutrrr notifications")
	// errSendFailed indicates at least one service rejected the notification.
	errSendFailed = errors.New("failed to send notification")
	// errRenderFailed indicates the notification template failed to execute.
	errRenderFailed = errors.New("failed to render notification")
)

// DefaultTitle prefixes every notification.
const DefaultTitle = "ESPHome Gate"

// Notifier sends abort diagnostics to the configured services.
type Notifier struct {
	urls     []string
	router   router
	params   *shoutrrrTypes.Params
	template *template.Template
	data     StaticData
}

// New creates a Notifier for the given Shoutrrr URLs.
//
// Parameters:
//   - urls: Service URLs; empty entries are ignored.
//   - title: Title passed to services that support one; DefaultTitle when empty.
//   - tplString: Built-in template name or custom template text; empty for the default.
//
// Returns:
//   - *Notifier: Notifier, or nil when no URL was given.
//   - error: Non-nil if a URL or the template is invalid.
func New(urls []string, title, tplString string) (*Notifier, error) {
	cleaned := util.FilterEmpty(urls)

	if len(cleaned) == 0 {
		return nil, nil //nolint:nilnil // no notifier configured
	}

	tpl, err := getShoutrrrTemplate(tplString)
	if err != nil {
		return nil, err
	}

	sender, err := shoutrrr.NewSender(shoutrrrLogger(), cleaned...)
	if err != nil {
		return nil, fmt.Errorf("%w: %w", errCreateSenderFailed, err)
	}

	if title == "" {
		title = DefaultTitle
	}

	params := &shoutrrrTypes.Params{}
	params.SetTitle(title)

	hostname, _ := os.Hostname()

	for _, u := range cleaned {
		LocalLog.WithField("url", sanitizeURLForLogging(u)).Debug("Configured notification service")
	}

	return &Notifier{
		urls:     cleaned,
		router:   sender,
		params:   params,
		template: tpl,
		data:     StaticData{Title: title, Host: hostname},
	}, nil
}

// GetNames returns the service names of the configured URLs.
func (n *Notifier) GetNames() []string {
	names := make([]string, len(n.urls))
	for i, u := range n.urls {
		names[i] = GetScheme(u)
	}

	return names
}

// NotifyAbort sends the abort diagnostic of a failed run.
//
// A nil Notifier or a run that passed sends nothing.
//
// Parameters:
//   - result: Terminal pipeline result.
//
// Returns:
//   - error: Joined errors from every service that failed.
func (n *Notifier) NotifyAbort(result types.Result) error {
	if n == nil || result.Proceed() {
		return nil
	}

	message, err := n.render(result)
	if err != nil {
		return err
	}

	LocalLog.WithField("services", n.GetNames()).Debug("Sending abort notification")

	var sendErrors []error

	for i, err := range n.router.Send(message, n.params) {
		if err == nil {
			continue
		}

		scheme := "unknown"
		if i < len(n.urls) {
			scheme = GetScheme(n.urls[i])
		}

		LocalLog.WithError(err).WithField("service", scheme).Debug("Notification service failed")
		sendErrors = append(sendErrors, fmt.Errorf("%w: %s: %w", errSendFailed, scheme, err))
	}

	return errors.Join(sendErrors...)
}

// render executes the configured template for a run, falling back to AbortMessage
// when no template is set or it produces only whitespace.
func (n *Notifier) render(result types.Result) (string, error) {
	if n.template == nil {
		return AbortMessage(result), nil
	}

	var body bytes.Buffer
	if err := n.template.Execute(&body, newData(n.data, result)); err != nil {
		return "", fmt.Errorf("%w: %w", errRenderFailed, err)
	}

	if strings.TrimSpace(body.String()) == "" {
		return AbortMessage(result), nil
	}

	return body.String(), nil
}

// AbortMessage renders the notification body for a failed run.
func AbortMessage(result types.Result) string {
	if result.Abort == nil {
		return ""
	}

	lines := []string{
		fmt.Sprintf("Gate aborted at %s (%s), updater not started.", result.Abort.Stage, result.Abort.Kind),
	}

	lines = append(lines, util.FilterEmpty(result.Abort.Diagnostic.Lines())...)

	if result.Config.ContainerIdentifier != "" {
		lines = append(lines, "Target container: "+result.Config.ContainerIdentifier)
	}

	return strings.Join(lines, "\n")
}
