package core_test

import (
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/nvwrapper/mmsub/core"
)

func TestNvdecVersionFromClass(t *testing.T) {
	cases := []struct {
		class   uint32
		version core.NvdecVersion
	}{
		{0xa0b0, core.NvdecV10},
		{0xb0b0, core.NvdecV11},
		{0xb6b0, core.NvdecV20},
		{0xc1b0, core.NvdecV30},
		{0xc2b0, core.NvdecV31},
		{0xc3b0, core.NvdecV32},
		{0xc4b0, core.NvdecV40},
		{0xc6b0, core.NvdecV41},
		{0xb8b0, core.NvdecV42},
		{0xc7b0, core.NvdecV50},
		{0xc9b0, core.NvdecV51},
		{0xcdb0, core.NvdecV60},
		{0xcfb0, core.NvdecV61},
		{0x0000, core.NvdecNone},
	}
	for _, c := range cases {
		require.Equal(t, c.version, core.NvdecVersionFromClass(c.class), "class %#x", c.class)
	}
}

func TestVersionOrdering(t *testing.T) {
	require.True(t, core.NvdecV31 > core.NvdecV30)
	require.True(t, core.NvdecV40 > core.NvdecV32)
	require.True(t, core.NvdecV60 > core.NvdecV51)
	require.True(t, core.NvjpgV13 > core.NvjpgV10)
}

func TestVersionStrings(t *testing.T) {
	require.Equal(t, "NvdecNone", core.NvdecNone.String())
	require.Equal(t, "NvdecV31", core.NvdecV31.String())
	require.Equal(t, "NvdecV60", core.NvdecV60.String())
	require.Equal(t, "NvjpgNone", core.NvjpgNone.String())
	require.Equal(t, "NvjpgV13", core.NvjpgV13.String())
}

func TestPlatformTagString(t *testing.T) {
	require.Equal(t, "None", core.PlatformNone.String())
	require.Equal(t, "Discrete", core.PlatformDiscrete.String())
	require.Equal(t, "Tegra", core.PlatformTegra.String())
	require.Equal(t, "PlatformTag(9)", core.PlatformTag(9).String())
}
