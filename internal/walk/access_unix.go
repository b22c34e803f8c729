//go:build !windows

package walk

import "golang.org/x/sys/unix"

// Readable checks read permission of the given path for the current process (real user ID, as access(2) does).
func Readable(path string) bool {
	return unix.Access(path, unix.R_OK) == nil
}
