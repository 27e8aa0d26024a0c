package mmsub

import "fmt"

// Codec identifies a compressed video format.
type Codec int32

const (
	CodecMjpeg Codec = iota
	CodecMpeg1
	CodecMpeg2
	CodecMpeg4
	CodecVc1
	CodecH264
	CodecH265
	CodecVp8
	CodecVp9
	CodecAv1
)

var codecNames = make(map[Codec]string)

func init() {
	codecNames[CodecMjpeg] = "Mjpeg"
	codecNames[CodecMpeg1] = "Mpeg1"
	codecNames[CodecMpeg2] = "Mpeg2"
	codecNames[CodecMpeg4] = "Mpeg4"
	codecNames[CodecVc1] = "Vc1"
	codecNames[CodecH264] = "H264"
	codecNames[CodecH265] = "H265"
	codecNames[CodecVp8] = "Vp8"
	codecNames[CodecVp9] = "Vp9"
	codecNames[CodecAv1] = "Av1"
}

func (c Codec) String() string {
	if name, ok := codecNames[c]; ok {
		return name
	}
	return fmt.Sprintf("Codec(%d)", int32(c))
}

// Subsampling identifies a chroma layout.
type Subsampling int32

const (
	SubsamplingMonochrome Subsampling = iota
	Subsampling420
	Subsampling422
	Subsampling440
	Subsampling444
)

var subsamplingNames = make(map[Subsampling]string)

func init() {
	subsamplingNames[SubsamplingMonochrome] = "Monochrome"
	subsamplingNames[Subsampling420] = "420"
	subsamplingNames[Subsampling422] = "422"
	subsamplingNames[Subsampling440] = "440"
	subsamplingNames[Subsampling444] = "444"
}

func (s Subsampling) String() string {
	if name, ok := subsamplingNames[s]; ok {
		return name
	}
	return fmt.Sprintf("Subsampling(%d)", int32(s))
}
