//go:build linux

package bytesource

import "golang.org/x/sys/unix"

// adviseFile is a best-effort kernel hint: one pass over the whole file,
// please readahead.
func adviseFile(fd int) {
	_ = unix.Fadvise(fd, 0, 0, unix.FADV_SEQUENTIAL)
	_ = unix.Fadvise(fd, 0, 0, unix.FADV_WILLNEED)
}
