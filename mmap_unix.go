//go:build !windows && !appengine && !wasm

package mmdbquery

import (
	"syscall"

	"golang.org/x/sys/unix"
)

func mmap(fd int, length int) ([]byte, error) {
	return unix.Mmap(fd, 0, length, syscall.PROT_READ, syscall.MAP_SHARED)
}

func munmap(b []byte) error {
	return unix.Munmap(b)
}
