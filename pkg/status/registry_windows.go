//go:build windows

package status

import (
	"errors"

	"golang.org/x/sys/windows/registry"
)

// SystemRegistry reads the local machine registry.
type SystemRegistry struct{}

// StringValue reads a string value from the local-machine registry.
func (SystemRegistry) StringValue(keyPath, valueName string) (string, error) {
	k, err := registry.OpenKey(registry.LOCAL_MACHINE, keyPath, registry.QUERY_VALUE)
	if err != nil {
		if errors.Is(err, registry.ErrNotExist) {
			return "", ErrNotFound
		}
		return "", err
	}
	defer k.Close()

	val, _, err := k.GetStringValue(valueName)
	if err != nil {
		if errors.Is(err, registry.ErrNotExist) {
			return "", ErrNotFound
		}
		return "", err
	}
	return val, nil
}
