package core_test

import (
	"testing"

	cerrors "github.com/cockroachdb/errors"
	"github.com/stretchr/testify/require"
	"golang.org/x/sys/unix"

	"github.com/nvwrapper/mmsub/core"
	"github.com/nvwrapper/mmsub/nvutils"
)

func TestCodeNil(t *testing.T) {
	require.Equal(t, int32(0), core.Code(nil))
}

func TestCodeKernelError(t *testing.T) {
	require.Equal(t, -int32(uint32(unix.EBUSY)), core.Code(core.SystemError(unix.EBUSY)))
	require.Equal(t, -int32(0x57|1<<28), core.Code(core.RMError(0x57)))

	// The module and status survive wrapping.
	err := cerrors.Wrap(core.RMError(0x11), "channel setup")
	require.Equal(t, -int32(0x11|1<<28), core.Code(err))
}

func TestCodeSentinels(t *testing.T) {
	cases := []struct {
		err   error
		errno unix.Errno
	}{
		{nvutils.ErrInvalidArgument, unix.EINVAL},
		{nvutils.ErrNotImplemented, unix.ENOSYS},
		{nvutils.ErrOutOfMemory, unix.ENOMEM},
		{nvutils.ErrFault, unix.EFAULT},
		{nvutils.ErrTimeout, unix.ETIMEDOUT},
		{nvutils.PowerOfTwoError, unix.EINVAL},
	}
	for _, c := range cases {
		require.Equal(t, -int32(uint32(c.errno)), core.Code(c.err))
		require.Equal(t, -int32(uint32(c.errno)), core.Code(cerrors.Wrap(c.err, "context")))
	}

	require.Equal(t, -int32(uint32(unix.EIO)), core.Code(cerrors.New("unclassified")))
}

func TestFence(t *testing.T) {
	f := core.MakeFence(3, 0x80)
	require.Equal(t, uint32(3), f.ID())
	require.Equal(t, uint32(0x80), f.Value())
	require.True(t, f.Valid())
	require.Equal(t, "Fence{id: 3, value: 0x80}", f.String())

	require.False(t, core.Fence(0).Valid())
	require.False(t, core.MakeFence(0, 100).Valid())
}
