package nvutils_test

import (
	"encoding/binary"
	"testing"

	cerrors "github.com/cockroachdb/errors"
	"github.com/stretchr/testify/require"

	"github.com/nvwrapper/mmsub/nvutils"
)

func TestCheckPow2(t *testing.T) {
	require.NoError(t, nvutils.CheckPow2(1, "align"))
	require.NoError(t, nvutils.CheckPow2(0x1000, "align"))
	require.NoError(t, nvutils.CheckPow2(uint64(1)<<40, "align"))

	err := nvutils.CheckPow2(0, "align")
	require.Error(t, err)
	require.True(t, cerrors.Is(err, nvutils.PowerOfTwoError))

	err = nvutils.CheckPow2(3, "stride")
	require.Error(t, err)
	require.True(t, cerrors.Is(err, nvutils.PowerOfTwoError))
	require.Contains(t, err.Error(), "stride")
}

func TestAlign(t *testing.T) {
	require.Equal(t, 0, nvutils.AlignUp(0, 0x1000))
	require.Equal(t, 0x1000, nvutils.AlignUp(1, 0x1000))
	require.Equal(t, 0x1000, nvutils.AlignUp(0x1000, 0x1000))
	require.Equal(t, 0x2000, nvutils.AlignUp(0x1001, 0x1000))

	require.Equal(t, 0, nvutils.AlignDown(0xfff, 0x1000))
	require.Equal(t, 0x1000, nvutils.AlignDown(0x1fff, 0x1000))
	require.Equal(t, uint32(0x40), nvutils.AlignDown(uint32(0x7f), 0x40))
}

func TestSliceCast(t *testing.T) {
	buf := make([]byte, 16)
	binary.LittleEndian.PutUint32(buf[0:], 0x11223344)
	binary.LittleEndian.PutUint32(buf[12:], 0xdeadbeef)

	words := nvutils.SliceCast[uint32](buf)
	require.Len(t, words, 4)
	require.Equal(t, uint32(0x11223344), words[0])
	require.Equal(t, uint32(0xdeadbeef), words[3])

	// Writes through the cast view land in the original buffer.
	words[1] = 0x55667788
	require.Equal(t, uint32(0x55667788), binary.LittleEndian.Uint32(buf[4:]))

	require.Nil(t, nvutils.SliceCast[uint64](make([]byte, 7)))
}
