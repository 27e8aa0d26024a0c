package mmsub_test

import (
	"testing"

	"github.com/stretchr/testify/require"
	"go.uber.org/mock/gomock"

	"github.com/nvwrapper/mmsub"
	"github.com/nvwrapper/mmsub/core"
	"github.com/nvwrapper/mmsub/core/mocks"
)

func TestBuildInfoJSON(t *testing.T) {
	ctrl := gomock.NewController(t)
	defer ctrl.Finish()
	dev := mocks.NewMockDevice(ctrl)
	dev.EXPECT().Info().Return(core.DeviceInfo{
		Platform:     core.PlatformDiscrete,
		NvdecVersion: core.NvdecV50,
		NvjpgVersion: core.NvjpgV13,
		PageSize:     0x1000,
		Engines: 1<<uint(core.EngineCopy) |
			1<<uint(core.EngineNvdec) |
			1<<uint(core.EngineNvjpg),
		VP8Unsupported:          true,
		VP9HighDepthUnsupported: true,
	})

	d := &mmsub.Device{Device: dev}
	buf, err := d.BuildInfoJSON()
	require.NoError(t, err)

	require.JSONEq(t, `{
		"platform": "Discrete",
		"nvdec_version": "NvdecV50",
		"nvjpg_version": "NvjpgV13",
		"page_size": 4096,
		"engines": ["Copy", "Nvdec", "Nvjpg"],
		"unsupported_codecs": ["vp8", "vp9_high_depth"]
	}`, string(buf))
}

func TestBuildInfoJSONEmpty(t *testing.T) {
	ctrl := gomock.NewController(t)
	defer ctrl.Finish()
	dev := mocks.NewMockDevice(ctrl)
	dev.EXPECT().Info().Return(core.DeviceInfo{})

	d := &mmsub.Device{Device: dev}
	buf, err := d.BuildInfoJSON()
	require.NoError(t, err)

	require.JSONEq(t, `{
		"platform": "None",
		"nvdec_version": "NvdecNone",
		"nvjpg_version": "NvjpgNone",
		"page_size": 0,
		"engines": [],
		"unsupported_codecs": []
	}`, string(buf))
}

func TestCodecStrings(t *testing.T) {
	require.Equal(t, "H264", mmsub.CodecH264.String())
	require.Equal(t, "Av1", mmsub.CodecAv1.String())
	require.Equal(t, "Codec(77)", mmsub.Codec(77).String())

	require.Equal(t, "420", mmsub.Subsampling420.String())
	require.Equal(t, "Monochrome", mmsub.SubsamplingMonochrome.String())
	require.Equal(t, "Subsampling(9)", mmsub.Subsampling(9).String())
}
