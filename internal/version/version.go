// Package version exposes the build version string.
package version

// Version is stamped by the build; "dev" for local builds.
var Version = "dev"
