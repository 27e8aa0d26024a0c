package mmsub_test

import (
	"testing"

	cerrors "github.com/cockroachdb/errors"
	"github.com/stretchr/testify/require"
	"go.uber.org/mock/gomock"

	"github.com/nvwrapper/mmsub"
	"github.com/nvwrapper/mmsub/core"
	"github.com/nvwrapper/mmsub/core/mocks"
	"github.com/nvwrapper/mmsub/nvutils"
)

func deviceWith(t *testing.T, info core.DeviceInfo) *mmsub.Device {
	t.Helper()
	ctrl := gomock.NewController(t)
	dev := mocks.NewMockDevice(ctrl)
	dev.EXPECT().Info().Return(info).AnyTimes()
	return &mmsub.Device{Device: dev}
}

func query(t *testing.T, d *mmsub.Device, codec mmsub.Codec, sub mmsub.Subsampling, depth int) mmsub.DecodeConstraints {
	t.Helper()
	c := mmsub.DecodeConstraints{Codec: codec, Subsample: sub, Depth: depth}
	require.NoError(t, d.GetDecodeConstraints(&c))
	return c
}

func requireLimits(t *testing.T, c mmsub.DecodeConstraints, minW, minH, maxW, maxH, maxMBs uint32) {
	t.Helper()
	require.True(t, c.Supported)
	require.Equal(t, minW, c.MinWidth)
	require.Equal(t, minH, c.MinHeight)
	require.Equal(t, maxW, c.MaxWidth)
	require.Equal(t, maxH, c.MaxHeight)
	require.Equal(t, maxMBs, c.MaxMBs)
}

func TestDecodeConstraintsArguments(t *testing.T) {
	d := deviceWith(t, core.DeviceInfo{NvdecVersion: core.NvdecV40})

	err := d.GetDecodeConstraints(nil)
	require.True(t, cerrors.Is(err, nvutils.ErrInvalidArgument))

	err = d.GetDecodeConstraints(&mmsub.DecodeConstraints{Codec: mmsub.Codec(99), Depth: 8})
	require.True(t, cerrors.Is(err, nvutils.ErrInvalidArgument))

	// Odd bit depths are not an error, just unsupported.
	c := query(t, d, mmsub.CodecH264, mmsub.Subsampling420, 9)
	require.False(t, c.Supported)
}

func TestDecodeConstraintsClearsResult(t *testing.T) {
	d := deviceWith(t, core.DeviceInfo{})

	c := mmsub.DecodeConstraints{Codec: mmsub.CodecH264, Subsample: mmsub.Subsampling420, Depth: 8}
	c.Supported = true
	c.MaxWidth = 123
	require.NoError(t, d.GetDecodeConstraints(&c))
	require.False(t, c.Supported)
	require.Zero(t, c.MaxWidth)
	require.Zero(t, c.MaxMBs)
}

func TestDecodeConstraintsMjpeg(t *testing.T) {
	d := deviceWith(t, core.DeviceInfo{NvjpgVersion: core.NvjpgV13})

	c := query(t, d, mmsub.CodecMjpeg, mmsub.Subsampling420, 8)
	requireLimits(t, c, 0x10, 0x10, 0x4000, 0x4000, ^uint32(0))

	require.False(t, query(t, d, mmsub.CodecMjpeg, mmsub.Subsampling420, 10).Supported)

	noJpeg := deviceWith(t, core.DeviceInfo{NvdecVersion: core.NvdecV40})
	require.False(t, query(t, noJpeg, mmsub.CodecMjpeg, mmsub.Subsampling420, 8).Supported)
}

func TestDecodeConstraintsLegacyCodecs(t *testing.T) {
	d := deviceWith(t, core.DeviceInfo{NvdecVersion: core.NvdecV40})

	requireLimits(t, query(t, d, mmsub.CodecMpeg1, mmsub.Subsampling420, 8),
		0x30, 0x10, 0xff0, 0xff0, 0xff00)
	requireLimits(t, query(t, d, mmsub.CodecMpeg2, mmsub.Subsampling420, 8),
		0x30, 0x10, 0xff0, 0xff0, 0xff00)
	requireLimits(t, query(t, d, mmsub.CodecMpeg4, mmsub.Subsampling420, 8),
		0x30, 0x10, 0x7f0, 0x7f0, 0x2000)
	requireLimits(t, query(t, d, mmsub.CodecVc1, mmsub.Subsampling420, 8),
		0x30, 0x10, 0x7f0, 0x7f0, 0x2000)

	require.False(t, query(t, d, mmsub.CodecMpeg2, mmsub.Subsampling422, 8).Supported)
	require.False(t, query(t, d, mmsub.CodecVc1, mmsub.Subsampling420, 10).Supported)
}

func TestDecodeConstraintsH264(t *testing.T) {
	recent := deviceWith(t, core.DeviceInfo{NvdecVersion: core.NvdecV60})
	requireLimits(t, query(t, recent, mmsub.CodecH264, mmsub.Subsampling422, 10),
		0x30, 0x40, 0x2000, 0x2000, 0x40000)
	require.False(t, query(t, recent, mmsub.CodecH264, mmsub.Subsampling420, 12).Supported)
	require.False(t, query(t, recent, mmsub.CodecH264, mmsub.Subsampling444, 8).Supported)

	old := deviceWith(t, core.DeviceInfo{NvdecVersion: core.NvdecV30})
	requireLimits(t, query(t, old, mmsub.CodecH264, mmsub.Subsampling420, 8),
		0x30, 0x10, 0x1000, 0x1000, 0x10000)
	require.False(t, query(t, old, mmsub.CodecH264, mmsub.Subsampling422, 8).Supported)
	require.False(t, query(t, old, mmsub.CodecH264, mmsub.Subsampling420, 10).Supported)

	fused := deviceWith(t, core.DeviceInfo{NvdecVersion: core.NvdecV60, H264Unsupported: true})
	require.False(t, query(t, fused, mmsub.CodecH264, mmsub.Subsampling420, 8).Supported)
}

func TestDecodeConstraintsH265(t *testing.T) {
	for _, c := range []struct {
		version   core.NvdecVersion
		sub       mmsub.Subsampling
		supported bool
		maxDim    uint32
	}{
		{core.NvdecV60, mmsub.Subsampling422, true, 0x2000},
		{core.NvdecV60, mmsub.Subsampling444, true, 0x2000},
		{core.NvdecV40, mmsub.Subsampling444, true, 0x2000},
		{core.NvdecV40, mmsub.Subsampling422, false, 0},
		{core.NvdecV31, mmsub.Subsampling420, true, 0x2000},
		{core.NvdecV31, mmsub.Subsampling444, false, 0},
		{core.NvdecV20, mmsub.Subsampling420, true, 0x1000},
		{core.NvdecV10, mmsub.Subsampling420, true, 0x1000},
	} {
		d := deviceWith(t, core.DeviceInfo{NvdecVersion: c.version})
		got := query(t, d, mmsub.CodecH265, c.sub, 8)
		require.Equal(t, c.supported, got.Supported, "version %s subsampling %s", c.version, c.sub)
		if c.supported {
			require.Equal(t, uint32(0x90), got.MinWidth)
			require.Equal(t, c.maxDim, got.MaxWidth)
		}
	}

	fused := deviceWith(t, core.DeviceInfo{NvdecVersion: core.NvdecV60, HEVCUnsupported: true})
	require.False(t, query(t, fused, mmsub.CodecH265, mmsub.Subsampling420, 8).Supported)
}

func TestDecodeConstraintsVp9(t *testing.T) {
	d := deviceWith(t, core.DeviceInfo{NvdecVersion: core.NvdecV31})
	requireLimits(t, query(t, d, mmsub.CodecVp9, mmsub.Subsampling420, 10),
		0x80, 0x80, 0x2000, 0x2000, 0x40000)

	noHighDepth := deviceWith(t, core.DeviceInfo{
		NvdecVersion:            core.NvdecV31,
		VP9HighDepthUnsupported: true,
	})
	require.False(t, query(t, noHighDepth, mmsub.CodecVp9, mmsub.Subsampling420, 10).Supported)
	require.True(t, query(t, noHighDepth, mmsub.CodecVp9, mmsub.Subsampling420, 8).Supported)

	requireLimits(t, query(t, deviceWith(t, core.DeviceInfo{NvdecVersion: core.NvdecV30}),
		mmsub.CodecVp9, mmsub.Subsampling420, 8),
		0x80, 0x80, 0x1000, 0x1000, 0x10000)
	requireLimits(t, query(t, deviceWith(t, core.DeviceInfo{NvdecVersion: core.NvdecV20}),
		mmsub.CodecVp9, mmsub.Subsampling420, 8),
		0x80, 0x80, 0x1000, 0x1000, 0x9000)
	require.False(t, query(t, deviceWith(t, core.DeviceInfo{NvdecVersion: core.NvdecV11}),
		mmsub.CodecVp9, mmsub.Subsampling420, 8).Supported)
}

func TestDecodeConstraintsVp8(t *testing.T) {
	d := deviceWith(t, core.DeviceInfo{NvdecVersion: core.NvdecV20})
	requireLimits(t, query(t, d, mmsub.CodecVp8, mmsub.Subsampling420, 8),
		0x30, 0x10, 0x1000, 0x1000, 0x10000)

	require.False(t, query(t, deviceWith(t, core.DeviceInfo{NvdecVersion: core.NvdecV11}),
		mmsub.CodecVp8, mmsub.Subsampling420, 8).Supported)
	require.False(t, query(t, deviceWith(t, core.DeviceInfo{NvdecVersion: core.NvdecV20, VP8Unsupported: true}),
		mmsub.CodecVp8, mmsub.Subsampling420, 8).Supported)
}

func TestDecodeConstraintsAv1(t *testing.T) {
	d := deviceWith(t, core.DeviceInfo{NvdecVersion: core.NvdecV50})
	requireLimits(t, query(t, d, mmsub.CodecAv1, mmsub.Subsampling420, 10),
		0x80, 0x80, 0x2000, 0x2000, 0x40000)
	require.True(t, query(t, d, mmsub.CodecAv1, mmsub.SubsamplingMonochrome, 8).Supported)

	require.False(t, query(t, d, mmsub.CodecAv1, mmsub.Subsampling422, 8).Supported)
	require.False(t, query(t, d, mmsub.CodecAv1, mmsub.Subsampling420, 12).Supported)
	require.False(t, query(t, deviceWith(t, core.DeviceInfo{NvdecVersion: core.NvdecV41}),
		mmsub.CodecAv1, mmsub.Subsampling420, 8).Supported)
	require.False(t, query(t, deviceWith(t, core.DeviceInfo{NvdecVersion: core.NvdecV50, AV1Unsupported: true}),
		mmsub.CodecAv1, mmsub.Subsampling420, 8).Supported)
}
