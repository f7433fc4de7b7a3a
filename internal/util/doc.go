// Package util provides small string helpers shared by the gate's packages.
//
// Key components:
//   - NormalizeContainerName: Strips the leading "/" the runtime prints before container names.
//   - FilterEmpty: Drops blank entries from string slices.
//
// Usage example:
//
//	name := util.NormalizeContainerName("/addon_15ef4d2f_esphome")
//	urls := util.FilterEmpty(rawURLs)
package util
