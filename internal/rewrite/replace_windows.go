//go:build windows

package rewrite

import (
	"golang.org/x/sys/windows"
)

// osReplace moves tmpPath over dest with MoveFileEx, replacing the target
// and flushing before returning.
func osReplace(tmpPath, dest string) error {
	from, err := windows.UTF16PtrFromString(tmpPath)
	if err != nil {
		return err
	}
	to, err := windows.UTF16PtrFromString(dest)
	if err != nil {
		return err
	}
	return windows.MoveFileEx(from, to, windows.MOVEFILE_REPLACE_EXISTING|windows.MOVEFILE_WRITE_THROUGH)
}

// syncDir is a no-op; directories cannot be fsynced on Windows.
func syncDir(string) error { return nil }
