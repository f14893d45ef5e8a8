// Package version provides version information for the btc-cache application.
package version

// Version is the current version of the btc-cache application.
const Version = "0.3.0"

// AgentString returns the full agent string with versioning.
// Format: btc-cache/v{version}
func AgentString() string {
	return "btc-cache/v" + Version
}
