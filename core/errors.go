package core

import (
	"fmt"

	cerrors "github.com/cockroachdb/errors"
	"github.com/nvwrapper/mmsub/nvutils"
	"golang.org/x/sys/unix"
)

// Error modules, encoded in the top nibble of a status code.
const (
	ModSystem uint32 = 0
	ModRM     uint32 = 1
	ModEngine uint32 = 2
)

var (
	ErrInvalidArgument = nvutils.ErrInvalidArgument
	ErrNotImplemented  = nvutils.ErrNotImplemented
	ErrOutOfMemory     = nvutils.ErrOutOfMemory
	ErrFault           = nvutils.ErrFault
	ErrTimeout         = nvutils.ErrTimeout
)

// KernelError carries a raw status returned by a kernel driver, preserving
// the originating module and result code through wrapping.
type KernelError struct {
	Mod uint32
	Res uint32
}

func (e *KernelError) Error() string {
	return fmt.Sprintf("kernel error (module %d, status %#x)", e.Mod, e.Res)
}

// SystemError wraps an errno from a syscall.
func SystemError(errno unix.Errno) error {
	return &KernelError{Mod: ModSystem, Res: uint32(errno)}
}

// RMError wraps a status returned by the resource manager.
func RMError(status uint32) error {
	return &KernelError{Mod: ModRM, Res: status}
}

// Code flattens an error chain to the negative 32-bit status exposed at the
// API boundary: -(res | mod<<28). A nil error maps to zero.
func Code(err error) int32 {
	if err == nil {
		return 0
	}

	var kerr *KernelError
	if cerrors.As(err, &kerr) {
		return -int32(kerr.Res | kerr.Mod<<28)
	}

	var errno unix.Errno
	switch {
	case cerrors.Is(err, nvutils.ErrInvalidArgument):
		errno = unix.EINVAL
	case cerrors.Is(err, nvutils.ErrNotImplemented):
		errno = unix.ENOSYS
	case cerrors.Is(err, nvutils.ErrOutOfMemory):
		errno = unix.ENOMEM
	case cerrors.Is(err, nvutils.ErrFault):
		errno = unix.EFAULT
	case cerrors.Is(err, nvutils.ErrTimeout):
		errno = unix.ETIMEDOUT
	case cerrors.Is(err, nvutils.PowerOfTwoError):
		errno = unix.EINVAL
	default:
		errno = unix.EIO
	}
	return -int32(errno)
}
