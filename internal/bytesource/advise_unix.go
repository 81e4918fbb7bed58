//go:build unix && !linux

package bytesource

// adviseFile is a no-op where posix_fadvise is unavailable.
func adviseFile(int) {}
