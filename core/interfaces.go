package core

import (
	"time"
	"unsafe"
)

//go:generate mockgen -destination mocks/mocks.go -package mocks github.com/nvwrapper/mmsub/core Device,Channel,Map,Cmdbuf

// DeviceInfo describes the probed device and its decode capabilities.
type DeviceInfo struct {
	Platform     PlatformTag
	NvdecVersion NvdecVersion
	NvjpgVersion NvjpgVersion
	PageSize     int

	// Engines holds one bit per Engine value for the engines that can back
	// a channel on this device.
	Engines uint32

	VP8Unsupported          bool
	VP9Unsupported          bool
	VP9HighDepthUnsupported bool
	H264Unsupported         bool
	HEVCUnsupported         bool
	AV1Unsupported          bool
}

// HasEngine reports whether the given engine can back a channel.
func (i *DeviceInfo) HasEngine(e Engine) bool {
	return i.Engines&(1<<uint(e)) != 0
}

// Device is an open GPU handle. Implementations are safe for concurrent use
// except where noted on individual methods.
type Device interface {
	// Close releases every kernel resource held by the device. Maps and
	// channels created from the device must be closed first.
	Close() error

	// Info returns the static capability description built at open time.
	Info() DeviceInfo

	// CreateMap allocates and maps a buffer of the given size. Both size
	// and align must be non-zero and align must be a power of two.
	CreateMap(size, align int, flags MapFlags) (Map, error)

	// MapFromVA wraps caller-owned memory in a Map. The memory must stay
	// valid until the Map is closed.
	MapFromVA(addr unsafe.Pointer, size int, flags MapFlags) (Map, error)

	// CreateChannel opens a channel to the given engine. EngineHost is
	// rejected.
	CreateChannel(engine Engine) (Channel, error)

	// FenceWait blocks until the fence is reached or the timeout expires.
	FenceWait(fence Fence, timeout time.Duration) error

	// FencePoll reports whether the fence has been reached without blocking.
	FencePoll(fence Fence) (bool, error)
}

// Channel is a command submission queue bound to one engine instance.
type Channel interface {
	Close() error

	// Engine returns the engine this channel was created against.
	Engine() Engine

	// CreateCmdbuf returns an empty command buffer compatible with this
	// channel's submission path.
	CreateCmdbuf() (Cmdbuf, error)

	// Submit hands the recorded command buffer to the hardware and returns
	// a fence that signals its completion. The buffer contents must not be
	// modified until the fence is reached.
	Submit(cmdbuf Cmdbuf) (Fence, error)

	// ClockRate returns the current engine clock in Hz.
	ClockRate() (uint32, error)

	// SetClockRate requests an engine clock in Hz. Only multimedia engines
	// accept clock requests.
	SetClockRate(rate uint32) error
}

// Map is a buffer visible to the CPU, the GPU, or both, according to its
// creation flags.
type Map interface {
	// Close unpins and unmaps the buffer. The Map must not be used
	// afterwards.
	Close() error

	// Pin makes the buffer accessible to the given channel. Pinning the
	// same channel twice is a no-op.
	Pin(ch Channel) error

	// CacheOp performs cache maintenance on a range of the buffer. The
	// operation is gated on the CPU mapping mode: cacheable mappings reach
	// the kernel, write-combined mappings only order prior stores, and
	// uncached or unmapped buffers succeed without work.
	CacheOp(offset, length int, flags CacheFlags) error

	// Realloc grows the buffer in place, preserving contents, pins and the
	// identity of the Map. The new size must be strictly larger.
	Realloc(size, align int) error

	Size() int
	Flags() MapFlags

	// Bytes returns the CPU view of the buffer, or nil when the buffer has
	// no CPU mapping.
	Bytes() []byte

	// CPUAddr returns the CPU virtual address of the mapping, or 0.
	CPUAddr() uintptr

	// GPUAddrPitch returns the pitch-linear GPU virtual address.
	GPUAddrPitch() uint64

	// GPUAddrBlock returns the block-linear GPU virtual address. Both
	// backends map a buffer once, so it equals GPUAddrPitch for every usage,
	// framebuffer included.
	GPUAddrBlock() uint64

	// Handle returns the backend buffer handle.
	Handle() uint32
}

// Cmdbuf records method words for later submission through a Channel.
// Cmdbufs are not safe for concurrent use.
type Cmdbuf interface {
	// AddMemory attaches a window of a pinned Map as backing storage for
	// recorded words.
	AddMemory(m Map, offset, size int) error

	// Clear drops all recorded words and gathers, keeping the backing
	// memory.
	Clear()

	// Begin opens a gather targeting the given engine.
	Begin(engine Engine) error

	// End closes the gather opened by Begin.
	End() error

	// PushWord appends a raw word to the open gather.
	PushWord(word uint32) error

	// PushValue appends a method header and its payload.
	PushValue(offset, value uint32) error

	// PushReloc appends the address of target+targetOffset, patched at
	// submission time on backends that relocate.
	PushReloc(offset uint32, target Map, targetOffset uint32, relocType RelocType, shift uint32) error

	// WaitFence makes the engine wait for a fence before executing the
	// following methods.
	WaitFence(fence Fence) error

	// CacheOp flushes or invalidates the GPU L2 from within the command
	// stream. Multimedia engines have no L2 path and accept this as a
	// no-op.
	CacheOp(flags CacheFlags) error
}
