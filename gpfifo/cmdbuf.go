// Package gpfifo builds pushbuffers for GPFIFO channels. Methods are encoded
// with the DMA opcodes of AMPERE_CHANNEL_GPFIFO_A and written into a
// caller-supplied memory window.
package gpfifo

import (
	cerrors "github.com/cockroachdb/errors"

	"github.com/nvwrapper/mmsub/core"
	"github.com/nvwrapper/mmsub/hwclass"
	"github.com/nvwrapper/mmsub/nvutils"
)

// Subchannel assignments. The engine object is bound to subchannel 4 at
// channel setup, host methods ride on subchannel 6.
const (
	SubchannelEngine uint32 = 4
	SubchannelHost   uint32 = 6
)

// Config carries the channel-side state a command buffer needs to encode
// waits and cache maintenance.
type Config struct {
	// Engine the channel was created for.
	Engine core.Engine
	// SemaphoreBase is the GPU address of the fence array.
	SemaphoreBase uint64
	// UseSyncpts selects the syncpoint wait path.
	UseSyncpts bool
	// SyncptVaBase is the GPU mapping of the syncpoint shim aperture, zero
	// when syncpoint waits go through SYNCPOINTA/B host methods.
	SyncptVaBase   uint64
	SyncptPageSize uint64
}

// Cmdbuf is a pushbuffer under construction. It implements core.Cmdbuf.
type Cmdbuf struct {
	cfg Config

	mem       core.Map
	memOffset int
	memSize   int

	numWords   int
	subchannel uint32
	begun      bool
}

// New returns an empty command buffer for the given channel configuration.
func New(cfg Config) *Cmdbuf {
	return &Cmdbuf{cfg: cfg}
}

// AddMemory points the command buffer at a window of a CPU-mapped allocation.
// Previously pushed contents are discarded.
func (c *Cmdbuf) AddMemory(m core.Map, offset, size int) error {
	if m == nil || m.CPUAddr() == 0 {
		return cerrors.Wrap(nvutils.ErrInvalidArgument, "command buffer memory must be CPU-mapped")
	}
	if offset+size > m.Size() {
		return cerrors.Wrapf(nvutils.ErrInvalidArgument, "window [%#x, %#x) exceeds allocation of %#x bytes", offset, offset+size, m.Size())
	}
	c.mem = m
	c.memOffset = offset
	c.memSize = size
	c.numWords = 0
	return nil
}

// Clear resets the write position without touching the backing memory.
func (c *Cmdbuf) Clear() {
	c.numWords = 0
	c.begun = false
}

// Begin starts a method run directed at an engine. GPFIFO channels carry a
// single engine object, so this only selects the subchannel.
func (c *Cmdbuf) Begin(engine core.Engine) error {
	if c.begun {
		return cerrors.Wrap(nvutils.ErrInvalidArgument, "previous method run still open")
	}
	switch engine {
	case core.EngineHost:
		c.subchannel = SubchannelHost
	default:
		c.subchannel = SubchannelEngine
	}
	c.begun = true
	return nil
}

// End closes the method run opened by Begin.
func (c *Cmdbuf) End() error {
	if !c.begun {
		return cerrors.Wrap(nvutils.ErrInvalidArgument, "no open method run")
	}
	c.begun = false
	return nil
}

// PushWord appends a raw word to the pushbuffer.
func (c *Cmdbuf) PushWord(word uint32) error {
	if c.mem == nil {
		return cerrors.Wrap(nvutils.ErrInvalidArgument, "no memory attached")
	}
	if (c.numWords+1)*4 > c.memSize {
		return cerrors.Wrapf(nvutils.ErrOutOfMemory, "pushbuffer window of %#x bytes is full", c.memSize)
	}
	words := c.words()
	words[c.numWords] = word
	c.numWords++
	return nil
}

// PushValue appends a single incrementing method.
func (c *Cmdbuf) PushValue(offset, value uint32) error {
	if err := c.PushWord(hwclass.DMAIncr(c.subchannel, offset, 1)); err != nil {
		return err
	}
	return c.PushWord(value)
}

// PushReloc appends a method whose payload is a GPU address. With a shift of
// 8 or more the address fits one word, otherwise the method pair at offset
// takes the upper and lower halves.
func (c *Cmdbuf) PushReloc(offset uint32, target core.Map, targetOffset uint32, relocType core.RelocType, shift uint32) error {
	var base uint64
	switch relocType {
	case core.RelocTiled:
		base = target.GPUAddrBlock()
	default:
		base = target.GPUAddrPitch()
	}
	addr := (base + uint64(targetOffset)) >> shift
	if shift >= 8 {
		return c.PushValue(offset, uint32(addr))
	}
	if err := c.PushWord(hwclass.DMAIncr(c.subchannel, offset, 2)); err != nil {
		return err
	}
	if err := c.PushWord(uint32(addr >> 32)); err != nil {
		return err
	}
	return c.PushWord(uint32(addr))
}

// WaitFence makes the channel block until the fence value is reached, by
// syncpoint wait where the platform provides one and by semaphore acquire
// otherwise.
func (c *Cmdbuf) WaitFence(fence core.Fence) error {
	sub := c.subchannel
	c.subchannel = SubchannelHost
	defer func() { c.subchannel = sub }()

	if c.cfg.UseSyncpts && c.cfg.SyncptVaBase == 0 {
		if err := c.PushWord(hwclass.DMAIncr(SubchannelHost, hwclass.NVC76F_SYNCPOINTA, 2)); err != nil {
			return err
		}
		if err := c.PushWord(fence.Value()); err != nil {
			return err
		}
		return c.PushWord(hwclass.NVC76F_SYNCPOINTB_OPERATION_WAIT |
			hwclass.NVC76F_SYNCPOINTB_WAIT_SWITCH_EN |
			fence.ID()<<hwclass.NVC76F_SYNCPOINTB_SYNCPT_INDEX_SHIFT)
	}

	var addr uint64
	if c.cfg.UseSyncpts {
		addr = c.cfg.SyncptVaBase + uint64(fence.ID())*c.cfg.SyncptPageSize
	} else {
		addr = c.cfg.SemaphoreBase + uint64(fence.ID())*4
	}
	if err := c.PushValue(hwclass.NVC76F_SEM_ADDR_LO, uint32(addr)); err != nil {
		return err
	}
	if err := c.PushValue(hwclass.NVC76F_SEM_ADDR_HI, uint32(addr>>32)); err != nil {
		return err
	}
	if err := c.PushValue(hwclass.NVC76F_SEM_PAYLOAD_LO, fence.Value()); err != nil {
		return err
	}
	return c.PushValue(hwclass.NVC76F_SEM_EXECUTE,
		hwclass.NVC76F_SEM_EXECUTE_OPERATION_ACQ_CIRC_GEQ|
			hwclass.NVC76F_SEM_EXECUTE_ACQUIRE_SWITCH_TSG_EN)
}

// CacheOp flushes or invalidates the L2 ahead of engine access. Multimedia
// engines are not connected to the L2 cache, so they take no methods.
func (c *Cmdbuf) CacheOp(flags core.CacheFlags) error {
	if c.cfg.Engine.Multimedia() {
		return nil
	}

	sub := c.subchannel
	c.subchannel = SubchannelHost
	defer func() { c.subchannel = sub }()

	if err := c.PushValue(hwclass.NVC76F_SET_REFERENCE, 0); err != nil {
		return err
	}
	var op uint32
	if flags&core.CacheWriteback != 0 {
		op |= hwclass.NVC76F_MEM_OP_D_OPERATION_L2_FLUSH_DIRTY
	}
	if flags&core.CacheInvalidate != 0 {
		op |= hwclass.NVC76F_MEM_OP_D_OPERATION_L2_SYSMEM_INVALIDATE
	}
	if err := c.PushValue(hwclass.NVC76F_MEM_OP_A, 0); err != nil {
		return err
	}
	if err := c.PushValue(hwclass.NVC76F_MEM_OP_B, 0); err != nil {
		return err
	}
	if err := c.PushValue(hwclass.NVC76F_MEM_OP_C, 0); err != nil {
		return err
	}
	return c.PushValue(hwclass.NVC76F_MEM_OP_D, op)
}

// Memory returns the backing allocation and window offset.
func (c *Cmdbuf) Memory() (core.Map, int) {
	return c.mem, c.memOffset
}

// NumWords reports how many words have been pushed.
func (c *Cmdbuf) NumWords() int {
	return c.numWords
}

func (c *Cmdbuf) words() []uint32 {
	buf := c.mem.Bytes()[c.memOffset : c.memOffset+c.memSize]
	return nvutils.SliceCast[uint32](buf)
}

// GPEntry encodes a gather of words at a GPU address as a GPFIFO ring entry.
func GPEntry(addr uint64, words uint32) (uint32, uint32) {
	entry0 := uint32(addr) &^ ((1 << hwclass.NVC76F_GP_ENTRY0_GET_SHIFT) - 1)
	entry1 := uint32(addr>>32)&hwclass.NVC76F_GP_ENTRY1_GET_HI_MASK |
		words<<hwclass.NVC76F_GP_ENTRY1_LENGTH_SHIFT
	return entry0, entry1
}
