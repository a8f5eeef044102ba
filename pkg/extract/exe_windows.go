//go:build windows

// pkg/extract/exe_windows.go - file version from the VS_FIXEDFILEINFO resource.

package extract

import (
	"fmt"
	"unsafe"

	"golang.org/x/sys/windows"
)

var (
	versionDLL                  = windows.NewLazySystemDLL("version.dll")
	procGetFileVersionInfoSizeW = versionDLL.NewProc("GetFileVersionInfoSizeW")
	procGetFileVersionInfoW     = versionDLL.NewProc("GetFileVersionInfoW")
	procVerQueryValueW          = versionDLL.NewProc("VerQueryValueW")
)

type vsFixedFileInfo struct {
	Signature        uint32
	StrucVersion     uint32
	FileVersionMS    uint32
	FileVersionLS    uint32
	ProductVersionMS uint32
	ProductVersionLS uint32
	FileFlagsMask    uint32
	FileFlags        uint32
	FileOS           uint32
	FileType         uint32
	FileSubtype      uint32
	FileDateMS       uint32
	FileDateLS       uint32
}

// resourceReader reads the version resource directly through version.dll.
// It still works where the scripting runtime is disabled by policy.
type resourceReader struct{}

func (resourceReader) FileVersion(path string) (string, error) {
	size, err := getFileVersionInfoSize(path)
	if err != nil {
		return "", err
	}
	info, err := getFileVersionInfo(path, size)
	if err != nil {
		return "", err
	}
	fixedInfoPtr, fixedInfoLen, err := verQueryValue(info, `\`)
	if err != nil {
		return "", err
	}
	if fixedInfoLen == 0 {
		return "", fmt.Errorf("no fixed file info in %s", path)
	}
	fixedInfo := (*vsFixedFileInfo)(fixedInfoPtr)

	major := fixedInfo.FileVersionMS >> 16
	minor := fixedInfo.FileVersionMS & 0xffff
	build := fixedInfo.FileVersionLS >> 16
	revision := fixedInfo.FileVersionLS & 0xffff

	return fmt.Sprintf("%d.%d.%d.%d", major, minor, build, revision), nil
}

func getFileVersionInfoSize(filename string) (uint32, error) {
	p, err := windows.UTF16PtrFromString(filename)
	if err != nil {
		return 0, err
	}
	r0, _, e1 := procGetFileVersionInfoSizeW.Call(uintptr(unsafe.Pointer(p)), 0)
	size := uint32(r0)
	if size == 0 {
		if e1 != nil && e1 != windows.ERROR_SUCCESS {
			return 0, e1
		}
		return 0, fmt.Errorf("GetFileVersionInfoSizeW failed for %s", filename)
	}
	return size, nil
}

func getFileVersionInfo(filename string, size uint32) ([]byte, error) {
	info := make([]byte, size)
	p, err := windows.UTF16PtrFromString(filename)
	if err != nil {
		return nil, err
	}
	r0, _, e1 := procGetFileVersionInfoW.Call(
		uintptr(unsafe.Pointer(p)),
		0,
		uintptr(size),
		uintptr(unsafe.Pointer(&info[0])))
	if r0 == 0 {
		if e1 != nil && e1 != windows.ERROR_SUCCESS {
			return nil, e1
		}
		return nil, fmt.Errorf("GetFileVersionInfoW failed for %s", filename)
	}
	return info, nil
}

func verQueryValue(block []byte, subBlock string) (unsafe.Pointer, uint32, error) {
	pSubBlock, err := windows.UTF16PtrFromString(subBlock)
	if err != nil {
		return nil, 0, err
	}
	var buf unsafe.Pointer
	var size uint32
	r0, _, e1 := procVerQueryValueW.Call(
		uintptr(unsafe.Pointer(&block[0])),
		uintptr(unsafe.Pointer(pSubBlock)),
		uintptr(unsafe.Pointer(&buf)),
		uintptr(unsafe.Pointer(&size)))
	if r0 == 0 {
		if e1 != nil && e1 != windows.ERROR_SUCCESS {
			return nil, 0, e1
		}
		return nil, 0, fmt.Errorf("VerQueryValueW failed for subBlock %s", subBlock)
	}
	return buf, size, nil
}

// NewFileVersionReader returns the system reader: the scripting runtime
// first, then the raw version resource.
func NewFileVersionReader() FileVersionReader {
	return chainReader{comReader{}, resourceReader{}}
}
