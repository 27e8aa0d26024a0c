package nvutils

import "github.com/pkg/errors"

// PowerOfTwoError is the error returned from CheckPow2 or other methods if the number being tested is not a power of two
var PowerOfTwoError error = errors.New("number must be a power of two")

// ErrInvalidArgument is returned when a caller-provided argument fails validation
var ErrInvalidArgument error = errors.New("invalid argument")

// ErrNotImplemented is returned when no backend supports the requested operation on this platform
var ErrNotImplemented error = errors.New("not implemented")

// ErrOutOfMemory is returned when a command buffer or allocation runs out of backing space
var ErrOutOfMemory error = errors.New("out of memory")

// ErrFault is returned when the hardware channel is in a faulted state
var ErrFault error = errors.New("channel fault")

// ErrTimeout is returned when a fence wait exceeds its time budget
var ErrTimeout error = errors.New("timed out")
