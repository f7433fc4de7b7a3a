// Package notifications sends the gate's abort diagnostics through Shoutrrr.
//
// A notifier is only built when at least one --notification-url is given. It
// sends one message per aborted run and nothing when the gate hands off.
//
// The message body comes from a text/template: one of the built-in templates
// ("default", "summary", "porcelain.v1.stages", "json.v1") or custom template
// text, executed against Data.
package notifications
