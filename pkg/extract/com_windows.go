//go:build windows

// pkg/extract/com_windows.go - file version via Scripting.FileSystemObject.

package extract

import (
	"errors"
	"fmt"
	"runtime"

	ole "github.com/go-ole/go-ole"
	"github.com/go-ole/go-ole/oleutil"
)

// sFalse is returned by CoInitializeEx when COM is already initialized on the thread.
const sFalse = 0x1

// comReader asks the scripting runtime for a file's version, the same value
// Explorer shows on the Details tab.
type comReader struct{}

func (comReader) FileVersion(path string) (string, error) {
	runtime.LockOSThread()
	defer runtime.UnlockOSThread()

	if err := ole.CoInitializeEx(0, ole.COINIT_APARTMENTTHREADED); err != nil {
		var oleErr *ole.OleError
		if !errors.As(err, &oleErr) || oleErr.Code() != sFalse {
			return "", fmt.Errorf("failed to initialize COM: %w", err)
		}
	}
	defer ole.CoUninitialize()

	unknown, err := oleutil.CreateObject("Scripting.FileSystemObject")
	if err != nil {
		return "", fmt.Errorf("failed to create FileSystemObject: %w", err)
	}
	defer unknown.Release()

	fso, err := unknown.QueryInterface(ole.IID_IDispatch)
	if err != nil {
		return "", fmt.Errorf("failed to get IDispatch interface: %w", err)
	}
	defer fso.Release()

	result, err := oleutil.CallMethod(fso, "GetFileVersion", path)
	if err != nil {
		return "", fmt.Errorf("GetFileVersion failed for %s: %w", path, err)
	}
	defer result.Clear()

	return result.ToString(), nil
}
