package mmsub

import (
	"math/bits"

	cerrors "github.com/cockroachdb/errors"

	"github.com/nvwrapper/mmsub/core"
	"github.com/nvwrapper/mmsub/hwclass"
	"github.com/nvwrapper/mmsub/nvutils"
)

// SurfaceInfo describes one side of a copy-engine transfer. Tiled surfaces
// are block-linear with 64-byte GOBs stacked GobHeight high; their stride
// and height must be aligned to the GOB dimensions.
type SurfaceInfo struct {
	Map       core.Map
	MapOffset uint32
	Width     uint32
	Height    uint32
	Stride    uint32
	Tiled     bool
	GobHeight uint8
}

const (
	gobWidth  = 64
	gobHeight = 8
)

func (s *SurfaceInfo) validate() error {
	if s.Map == nil {
		return cerrors.Wrap(nvutils.ErrInvalidArgument, "surface without memory")
	}
	if !s.Tiled {
		return nil
	}
	if s.GobHeight == 0 || bits.OnesCount8(s.GobHeight) != 1 {
		return cerrors.Wrapf(nvutils.ErrInvalidArgument, "gob height %d is not a power of two", s.GobHeight)
	}
	if s.Stride%gobWidth != 0 {
		return cerrors.Wrapf(nvutils.ErrInvalidArgument, "stride %d not aligned to the gob width", s.Stride)
	}
	if s.Height%(gobHeight*uint32(s.GobHeight)) != 0 {
		return cerrors.Wrapf(nvutils.ErrInvalidArgument, "height %d not aligned to the block height", s.Height)
	}
	return nil
}

// SurfaceTransfer records a copy between two surfaces on a copy engine
// command buffer. Pitch and block-linear layouts can be mixed freely; rows
// are copied up to the source width and the smaller of the two heights.
func SurfaceTransfer(cmdbuf core.Cmdbuf, src, dst *SurfaceInfo) error {
	if cmdbuf == nil || src == nil || dst == nil {
		return cerrors.Wrap(nvutils.ErrInvalidArgument, "nil transfer argument")
	}
	if err := src.validate(); err != nil {
		return err
	}
	if err := dst.validate(); err != nil {
		return err
	}

	flags := hwclass.NVC7B5_LAUNCH_DMA_DATA_TRANSFER_TYPE_NON_PIPELINED |
		hwclass.NVC7B5_LAUNCH_DMA_FLUSH_ENABLE_TRUE |
		hwclass.NVC7B5_LAUNCH_DMA_MULTI_LINE_ENABLE_TRUE

	if err := cmdbuf.Begin(core.EngineCopy); err != nil {
		return err
	}

	relocType := func(tiled bool) core.RelocType {
		if tiled {
			return core.RelocTiled
		}
		return core.RelocPitch
	}
	if err := cmdbuf.PushReloc(hwclass.NVC7B5_OFFSET_IN_UPPER, src.Map, src.MapOffset,
		relocType(src.Tiled), 0); err != nil {
		return err
	}
	if err := cmdbuf.PushReloc(hwclass.NVC7B5_OFFSET_OUT_UPPER, dst.Map, dst.MapOffset,
		relocType(dst.Tiled), 0); err != nil {
		return err
	}

	if src.Tiled {
		flags |= hwclass.NVC7B5_LAUNCH_DMA_SRC_MEMORY_LAYOUT_BLOCKLINEAR
		blockSize := hwclass.NVC7B5_SET_BLOCK_SIZE_WIDTH_ONE_GOB |
			uint32(bits.TrailingZeros8(src.GobHeight))<<hwclass.NVC7B5_SET_BLOCK_SIZE_HEIGHT_SHIFT |
			hwclass.NVC7B5_SET_BLOCK_SIZE_DEPTH_ONE_GOB |
			hwclass.NVC7B5_SET_BLOCK_SIZE_GOB_HEIGHT_FERMI_8
		if err := cmdbuf.PushValue(hwclass.NVC7B5_SET_SRC_BLOCK_SIZE, blockSize); err != nil {
			return err
		}
		if err := cmdbuf.PushValue(hwclass.NVC7B5_SET_SRC_WIDTH, src.Stride); err != nil {
			return err
		}
		if err := cmdbuf.PushValue(hwclass.NVC7B5_SET_SRC_HEIGHT, src.Height); err != nil {
			return err
		}
		if err := cmdbuf.PushValue(hwclass.NVC7B5_SET_SRC_DEPTH, 1); err != nil {
			return err
		}
	} else {
		flags |= hwclass.NVC7B5_LAUNCH_DMA_SRC_MEMORY_LAYOUT_PITCH
		if err := cmdbuf.PushValue(hwclass.NVC7B5_PITCH_IN, src.Stride); err != nil {
			return err
		}
	}

	if dst.Tiled {
		flags |= hwclass.NVC7B5_LAUNCH_DMA_DST_MEMORY_LAYOUT_BLOCKLINEAR
		blockSize := hwclass.NVC7B5_SET_BLOCK_SIZE_WIDTH_ONE_GOB |
			uint32(bits.TrailingZeros8(dst.GobHeight))<<hwclass.NVC7B5_SET_BLOCK_SIZE_HEIGHT_SHIFT |
			hwclass.NVC7B5_SET_BLOCK_SIZE_DEPTH_ONE_GOB |
			hwclass.NVC7B5_SET_BLOCK_SIZE_GOB_HEIGHT_FERMI_8
		if err := cmdbuf.PushValue(hwclass.NVC7B5_SET_DST_BLOCK_SIZE, blockSize); err != nil {
			return err
		}
		if err := cmdbuf.PushValue(hwclass.NVC7B5_SET_DST_WIDTH, dst.Stride); err != nil {
			return err
		}
		if err := cmdbuf.PushValue(hwclass.NVC7B5_SET_DST_HEIGHT, dst.Height); err != nil {
			return err
		}
		if err := cmdbuf.PushValue(hwclass.NVC7B5_SET_DST_DEPTH, 1); err != nil {
			return err
		}
	} else {
		flags |= hwclass.NVC7B5_LAUNCH_DMA_DST_MEMORY_LAYOUT_PITCH
		if err := cmdbuf.PushValue(hwclass.NVC7B5_PITCH_OUT, dst.Stride); err != nil {
			return err
		}
	}

	lineCount := src.Height
	if dst.Height < lineCount {
		lineCount = dst.Height
	}
	if err := cmdbuf.PushValue(hwclass.NVC7B5_LINE_LENGTH_IN, src.Width); err != nil {
		return err
	}
	if err := cmdbuf.PushValue(hwclass.NVC7B5_LINE_COUNT, lineCount); err != nil {
		return err
	}
	if err := cmdbuf.PushValue(hwclass.NVC7B5_LAUNCH_DMA, flags); err != nil {
		return err
	}

	return cmdbuf.End()
}
