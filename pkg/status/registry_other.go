//go:build !windows

package status

// SystemRegistry has no backing store off Windows; every lookup misses.
type SystemRegistry struct{}

// StringValue implements RegistryReader.
func (SystemRegistry) StringValue(string, string) (string, error) {
	return "", ErrNotFound
}
