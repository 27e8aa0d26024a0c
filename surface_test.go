package mmsub_test

import (
	"testing"

	cerrors "github.com/cockroachdb/errors"
	"github.com/stretchr/testify/require"
	"go.uber.org/mock/gomock"

	"github.com/nvwrapper/mmsub"
	"github.com/nvwrapper/mmsub/core"
	"github.com/nvwrapper/mmsub/core/mocks"
	"github.com/nvwrapper/mmsub/hwclass"
	"github.com/nvwrapper/mmsub/nvutils"
)

func TestSurfaceTransferArguments(t *testing.T) {
	ctrl := gomock.NewController(t)
	defer ctrl.Finish()
	cb := mocks.NewMockCmdbuf(ctrl)
	m := mocks.NewMockMap(ctrl)

	pitch := &mmsub.SurfaceInfo{Map: m, Width: 64, Height: 16, Stride: 64}

	err := mmsub.SurfaceTransfer(nil, pitch, pitch)
	require.True(t, cerrors.Is(err, nvutils.ErrInvalidArgument))
	err = mmsub.SurfaceTransfer(cb, nil, pitch)
	require.True(t, cerrors.Is(err, nvutils.ErrInvalidArgument))
	err = mmsub.SurfaceTransfer(cb, pitch, nil)
	require.True(t, cerrors.Is(err, nvutils.ErrInvalidArgument))
	err = mmsub.SurfaceTransfer(cb, &mmsub.SurfaceInfo{Width: 64, Height: 16, Stride: 64}, pitch)
	require.True(t, cerrors.Is(err, nvutils.ErrInvalidArgument))
}

func TestSurfaceTransferTiledValidation(t *testing.T) {
	ctrl := gomock.NewController(t)
	defer ctrl.Finish()
	cb := mocks.NewMockCmdbuf(ctrl)
	m := mocks.NewMockMap(ctrl)

	pitch := &mmsub.SurfaceInfo{Map: m, Width: 128, Height: 32, Stride: 128}

	tiled := &mmsub.SurfaceInfo{Map: m, Width: 128, Height: 32, Stride: 128, Tiled: true}
	err := mmsub.SurfaceTransfer(cb, tiled, pitch)
	require.True(t, cerrors.Is(err, nvutils.ErrInvalidArgument), "gob height zero")

	tiled.GobHeight = 3
	err = mmsub.SurfaceTransfer(cb, tiled, pitch)
	require.True(t, cerrors.Is(err, nvutils.ErrInvalidArgument), "gob height not a power of two")

	tiled.GobHeight = 2
	tiled.Stride = 100
	err = mmsub.SurfaceTransfer(cb, tiled, pitch)
	require.True(t, cerrors.Is(err, nvutils.ErrInvalidArgument), "stride off the gob width")

	tiled.Stride = 128
	tiled.Height = 24
	err = mmsub.SurfaceTransfer(cb, pitch, tiled)
	require.True(t, cerrors.Is(err, nvutils.ErrInvalidArgument), "height off the block height")
}

func TestSurfaceTransferPitchToPitch(t *testing.T) {
	ctrl := gomock.NewController(t)
	defer ctrl.Finish()
	cb := mocks.NewMockCmdbuf(ctrl)
	srcMem := mocks.NewMockMap(ctrl)
	dstMem := mocks.NewMockMap(ctrl)

	src := &mmsub.SurfaceInfo{Map: srcMem, MapOffset: 0x100, Width: 128, Height: 64, Stride: 256}
	dst := &mmsub.SurfaceInfo{Map: dstMem, Width: 128, Height: 48, Stride: 256}

	flags := hwclass.NVC7B5_LAUNCH_DMA_DATA_TRANSFER_TYPE_NON_PIPELINED |
		hwclass.NVC7B5_LAUNCH_DMA_FLUSH_ENABLE_TRUE |
		hwclass.NVC7B5_LAUNCH_DMA_MULTI_LINE_ENABLE_TRUE |
		hwclass.NVC7B5_LAUNCH_DMA_SRC_MEMORY_LAYOUT_PITCH |
		hwclass.NVC7B5_LAUNCH_DMA_DST_MEMORY_LAYOUT_PITCH

	gomock.InOrder(
		cb.EXPECT().Begin(core.EngineCopy).Return(nil),
		cb.EXPECT().PushReloc(hwclass.NVC7B5_OFFSET_IN_UPPER, core.Map(srcMem), uint32(0x100),
			core.RelocPitch, uint32(0)).Return(nil),
		cb.EXPECT().PushReloc(hwclass.NVC7B5_OFFSET_OUT_UPPER, core.Map(dstMem), uint32(0),
			core.RelocPitch, uint32(0)).Return(nil),
		cb.EXPECT().PushValue(hwclass.NVC7B5_PITCH_IN, uint32(256)).Return(nil),
		cb.EXPECT().PushValue(hwclass.NVC7B5_PITCH_OUT, uint32(256)).Return(nil),
		cb.EXPECT().PushValue(hwclass.NVC7B5_LINE_LENGTH_IN, uint32(128)).Return(nil),
		// Row count follows the shorter surface.
		cb.EXPECT().PushValue(hwclass.NVC7B5_LINE_COUNT, uint32(48)).Return(nil),
		cb.EXPECT().PushValue(hwclass.NVC7B5_LAUNCH_DMA, flags).Return(nil),
		cb.EXPECT().End().Return(nil),
	)

	require.NoError(t, mmsub.SurfaceTransfer(cb, src, dst))
}

func TestSurfaceTransferTiledSource(t *testing.T) {
	ctrl := gomock.NewController(t)
	defer ctrl.Finish()
	cb := mocks.NewMockCmdbuf(ctrl)
	srcMem := mocks.NewMockMap(ctrl)
	dstMem := mocks.NewMockMap(ctrl)

	src := &mmsub.SurfaceInfo{Map: srcMem, Width: 128, Height: 64, Stride: 128, Tiled: true, GobHeight: 2}
	dst := &mmsub.SurfaceInfo{Map: dstMem, Width: 128, Height: 64, Stride: 128}

	flags := hwclass.NVC7B5_LAUNCH_DMA_DATA_TRANSFER_TYPE_NON_PIPELINED |
		hwclass.NVC7B5_LAUNCH_DMA_FLUSH_ENABLE_TRUE |
		hwclass.NVC7B5_LAUNCH_DMA_MULTI_LINE_ENABLE_TRUE |
		hwclass.NVC7B5_LAUNCH_DMA_SRC_MEMORY_LAYOUT_BLOCKLINEAR |
		hwclass.NVC7B5_LAUNCH_DMA_DST_MEMORY_LAYOUT_PITCH

	blockSize := hwclass.NVC7B5_SET_BLOCK_SIZE_WIDTH_ONE_GOB |
		uint32(1)<<hwclass.NVC7B5_SET_BLOCK_SIZE_HEIGHT_SHIFT |
		hwclass.NVC7B5_SET_BLOCK_SIZE_DEPTH_ONE_GOB |
		hwclass.NVC7B5_SET_BLOCK_SIZE_GOB_HEIGHT_FERMI_8

	gomock.InOrder(
		cb.EXPECT().Begin(core.EngineCopy).Return(nil),
		cb.EXPECT().PushReloc(hwclass.NVC7B5_OFFSET_IN_UPPER, core.Map(srcMem), uint32(0),
			core.RelocTiled, uint32(0)).Return(nil),
		cb.EXPECT().PushReloc(hwclass.NVC7B5_OFFSET_OUT_UPPER, core.Map(dstMem), uint32(0),
			core.RelocPitch, uint32(0)).Return(nil),
		cb.EXPECT().PushValue(hwclass.NVC7B5_SET_SRC_BLOCK_SIZE, blockSize).Return(nil),
		cb.EXPECT().PushValue(hwclass.NVC7B5_SET_SRC_WIDTH, uint32(128)).Return(nil),
		cb.EXPECT().PushValue(hwclass.NVC7B5_SET_SRC_HEIGHT, uint32(64)).Return(nil),
		cb.EXPECT().PushValue(hwclass.NVC7B5_SET_SRC_DEPTH, uint32(1)).Return(nil),
		cb.EXPECT().PushValue(hwclass.NVC7B5_PITCH_OUT, uint32(128)).Return(nil),
		cb.EXPECT().PushValue(hwclass.NVC7B5_LINE_LENGTH_IN, uint32(128)).Return(nil),
		cb.EXPECT().PushValue(hwclass.NVC7B5_LINE_COUNT, uint32(64)).Return(nil),
		cb.EXPECT().PushValue(hwclass.NVC7B5_LAUNCH_DMA, flags).Return(nil),
		cb.EXPECT().End().Return(nil),
	)

	require.NoError(t, mmsub.SurfaceTransfer(cb, src, dst))
}
