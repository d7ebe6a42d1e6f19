// Package version exposes the build version of the emfactor binary.
package version

// version is overridden at build time via
// -ldflags "-X github.com/greenledger/emfactor/pkg/version.version=v1.2.3".
var version = "dev"

// GetVersion returns the build version string.
func GetVersion() string {
	return version
}
