//go:build !windows

package rewrite

import (
	"os"

	"golang.org/x/sys/unix"
)

// osReplace renames tmpPath over dest; rename(2) is atomic on POSIX.
func osReplace(tmpPath, dest string) error {
	return os.Rename(tmpPath, dest)
}

// syncDir flushes the directory entry so the rename survives a crash.
func syncDir(dir string) error {
	fd, err := unix.Open(dir, unix.O_RDONLY|unix.O_DIRECTORY|unix.O_CLOEXEC, 0)
	if err != nil {
		return err
	}
	defer unix.Close(fd)
	return unix.Fsync(fd)
}
