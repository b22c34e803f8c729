//go:build windows

package walk

import "os"

// Readable checks read permission of the given path by opening it.
func Readable(path string) bool {
	f, err := os.Open(path)
	if err != nil {
		return false
	}
	f.Close()
	return true
}
