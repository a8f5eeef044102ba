// pkg/status/version.go - dotted-numeric version helpers.

package status

import (
	version "github.com/hashicorp/go-version"
)

// ZeroVersionString is the "not installed" version.
const ZeroVersionString = "0.0.0.0"

// ZeroVersion returns a fresh 0.0.0.0 version.
func ZeroVersion() *version.Version {
	return version.Must(version.NewVersion(ZeroVersionString))
}

// ParseVersion parses s, normalizing anything unparsable to ZeroVersion.
func ParseVersion(s string) *version.Version {
	v, err := version.NewVersion(s)
	if err != nil {
		return ZeroVersion()
	}
	return v
}
