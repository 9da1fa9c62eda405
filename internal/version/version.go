// Package version holds the application version string.
package version

// Version is the current Klingate release version.
const Version = "0.1.0"
