package mmsub

import (
	cerrors "github.com/cockroachdb/errors"

	"github.com/nvwrapper/mmsub/core"
	"github.com/nvwrapper/mmsub/nvutils"
)

// DecodeConstraints describes what the decode engines accept for one
// codec, chroma layout and bit depth combination. When Supported is false
// the remaining fields are zero.
type DecodeConstraints struct {
	Codec     Codec
	Subsample Subsampling
	Depth     int

	Supported bool
	MinWidth  uint32
	MinHeight uint32
	MaxWidth  uint32
	MaxHeight uint32
	MaxMBs    uint32
}

func (c *DecodeConstraints) set(minWidth, minHeight, maxWidth, maxHeight, maxMBs uint32) {
	c.Supported = true
	c.MinWidth = minWidth
	c.MinHeight = minHeight
	c.MaxWidth = maxWidth
	c.MaxHeight = maxHeight
	c.MaxMBs = maxMBs
}

// GetDecodeConstraints fills in the dimension limits for the requested
// combination. The limit values follow the proprietary decode stack.
// Combinations the engines cannot decode report Supported false, unknown
// codecs are an error.
func (d *Device) GetDecodeConstraints(c *DecodeConstraints) error {
	if c == nil {
		return cerrors.Wrap(nvutils.ErrInvalidArgument, "nil constraints")
	}
	c.Supported = false
	c.MinWidth, c.MinHeight = 0, 0
	c.MaxWidth, c.MaxHeight = 0, 0
	c.MaxMBs = 0

	if c.Depth != 8 && c.Depth != 10 && c.Depth != 12 {
		return nil
	}

	info := d.Info()
	switch c.Codec {
	case CodecMpeg1, CodecMpeg2, CodecMpeg4, CodecVc1, CodecH264,
		CodecH265, CodecVp8, CodecVp9, CodecAv1:
		if info.NvdecVersion == core.NvdecNone {
			return nil
		}
	case CodecMjpeg:
		if info.NvjpgVersion == core.NvjpgNone {
			return nil
		}
	default:
		return cerrors.Wrapf(nvutils.ErrInvalidArgument, "unknown codec %d", int32(c.Codec))
	}

	switch c.Codec {
	case CodecMjpeg:
		if c.Depth != 8 {
			return nil
		}
		if info.NvjpgVersion > core.NvjpgV13 {
			return nil
		}
		c.set(0x10, 0x10, 0x4000, 0x4000, ^uint32(0))

	case CodecMpeg1, CodecMpeg2:
		if c.Depth != 8 || c.Subsample != Subsampling420 {
			return nil
		}
		c.set(0x30, 0x10, 0xff0, 0xff0, 0xff00)

	case CodecMpeg4, CodecVc1:
		if c.Depth != 8 || c.Subsample != Subsampling420 {
			return nil
		}
		c.set(0x30, 0x10, 0x7f0, 0x7f0, 0x2000)

	case CodecH264:
		if info.H264Unsupported {
			return nil
		}
		if info.NvdecVersion >= core.NvdecV60 {
			if c.Depth > 10 {
				return nil
			}
			if c.Subsample != Subsampling420 && c.Subsample != Subsampling422 {
				return nil
			}
			c.set(0x30, 0x40, 0x2000, 0x2000, 0x40000)
		} else {
			if c.Depth > 8 || c.Subsample != Subsampling420 {
				return nil
			}
			c.set(0x30, 0x10, 0x1000, 0x1000, 0x10000)
		}

	case CodecH265:
		if info.HEVCUnsupported {
			return nil
		}
		switch {
		case info.NvdecVersion >= core.NvdecV60:
			if c.Subsample != Subsampling420 && c.Subsample != Subsampling422 &&
				c.Subsample != Subsampling444 {
				return nil
			}
			c.set(0x90, 0x90, 0x2000, 0x2000, 0x40000)
		case info.NvdecVersion >= core.NvdecV40:
			if c.Subsample != Subsampling420 && c.Subsample != Subsampling444 {
				return nil
			}
			c.set(0x90, 0x90, 0x2000, 0x2000, 0x40000)
		case info.NvdecVersion >= core.NvdecV31:
			if c.Subsample != Subsampling420 {
				return nil
			}
			c.set(0x90, 0x90, 0x2000, 0x2000, 0x40000)
		default:
			if c.Subsample != Subsampling420 {
				return nil
			}
			c.set(0x90, 0x90, 0x1000, 0x1000, 0x10000)
		}

	case CodecVp8:
		if info.VP8Unsupported || info.NvdecVersion < core.NvdecV20 {
			return nil
		}
		if c.Depth != 8 || c.Subsample != Subsampling420 {
			return nil
		}
		c.set(0x30, 0x10, 0x1000, 0x1000, 0x10000)

	case CodecVp9:
		if info.VP9Unsupported || c.Subsample != Subsampling420 {
			return nil
		}
		switch {
		case info.NvdecVersion >= core.NvdecV31:
			if c.Depth > 8 && info.VP9HighDepthUnsupported {
				return nil
			}
			c.set(0x80, 0x80, 0x2000, 0x2000, 0x40000)
		case info.NvdecVersion >= core.NvdecV30:
			if c.Depth > 8 {
				return nil
			}
			c.set(0x80, 0x80, 0x1000, 0x1000, 0x10000)
		case info.NvdecVersion >= core.NvdecV20:
			if c.Depth > 8 {
				return nil
			}
			c.set(0x80, 0x80, 0x1000, 0x1000, 0x9000)
		default:
			return nil
		}

	case CodecAv1:
		if info.AV1Unsupported || c.Depth > 10 {
			return nil
		}
		if c.Subsample != SubsamplingMonochrome && c.Subsample != Subsampling420 {
			return nil
		}
		if info.NvdecVersion < core.NvdecV50 {
			return nil
		}
		c.set(0x80, 0x80, 0x2000, 0x2000, 0x40000)
	}

	return nil
}
