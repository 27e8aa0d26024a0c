package host1x

import (
	cerrors "github.com/cockroachdb/errors"

	"github.com/nvwrapper/mmsub/core"
	"github.com/nvwrapper/mmsub/hwclass"
	"github.com/nvwrapper/mmsub/nvutils"
)

// relocPlaceholder marks a word the kernel patches at submit time.
const relocPlaceholder uint32 = 0xdeadbeef

// Config carries the platform state a command buffer needs.
type Config struct {
	// Version of the host1x block, for the THI_INCR_SYNCPT layout.
	Version int
	// DRM selects the Tegra DRM submit path, where waits and relocations
	// are records in the job rather than stream words.
	DRM bool
}

// Reloc is a patch slot for an unpinned buffer address.
type Reloc struct {
	CmdbufOffset uint32
	Target       core.Map
	TargetOffset uint32
	Type         core.RelocType
	Shift        uint32
}

// Gather is a run of stream words directed at one class.
type Gather struct {
	Offset   int
	NumWords int
	Class    uint32
}

// SyncptIncr is a queued syncpoint increment for the job header.
type SyncptIncr struct {
	ID    uint32
	Count uint32
}

// SyncptWait is a DRM job wait record.
type SyncptWait struct {
	ID    uint32
	Value uint32
}

// Cmdbuf is a host1x command stream under construction. It implements
// core.Cmdbuf and additionally records the relocation and syncpoint tables
// the submit ioctls take.
type Cmdbuf struct {
	cfg Config

	mem       core.Map
	memOffset int
	memSize   int

	numWords int
	class    uint32
	begun    bool

	relocs      []Reloc
	gathers     []Gather
	incrs       []SyncptIncr
	waits       []SyncptWait
	gatherStart int
}

// New returns an empty command stream.
func New(cfg Config) *Cmdbuf {
	return &Cmdbuf{cfg: cfg}
}

func classFor(engine core.Engine) (uint32, error) {
	switch engine {
	case core.EngineNvdec:
		return hwclass.HOST1X_CLASS_NVDEC, nil
	case core.EngineNvenc:
		return hwclass.HOST1X_CLASS_NVENC, nil
	case core.EngineNvjpg:
		return hwclass.HOST1X_CLASS_NVJPG, nil
	case core.EngineOfa:
		return hwclass.HOST1X_CLASS_OFA, nil
	case core.EngineVic:
		return hwclass.HOST1X_CLASS_VIC, nil
	}
	return 0, cerrors.Wrapf(nvutils.ErrInvalidArgument, "engine %s has no host1x class", engine)
}

// AddMemory points the command stream at a window of a CPU-mapped
// allocation. Previously pushed contents are discarded.
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
	c.Clear()
	return nil
}

// Clear resets the stream and all job tables.
func (c *Cmdbuf) Clear() {
	c.numWords = 0
	c.begun = false
	c.relocs = c.relocs[:0]
	c.gathers = c.gathers[:0]
	c.incrs = c.incrs[:0]
	c.waits = c.waits[:0]
}

// Begin opens a gather directed at an engine class.
func (c *Cmdbuf) Begin(engine core.Engine) error {
	if c.begun {
		return cerrors.Wrap(nvutils.ErrInvalidArgument, "previous gather still open")
	}
	class, err := classFor(engine)
	if err != nil {
		return err
	}
	c.class = class
	c.gatherStart = c.numWords
	c.begun = true
	return c.PushWord(SetClass(0, class, 0))
}

// End closes the gather opened by Begin.
func (c *Cmdbuf) End() error {
	if !c.begun {
		return cerrors.Wrap(nvutils.ErrInvalidArgument, "no open gather")
	}
	c.gathers = append(c.gathers, Gather{
		Offset:   c.gatherStart,
		NumWords: c.numWords - c.gatherStart,
		Class:    c.class,
	})
	c.begun = false
	return nil
}

// PushWord appends a raw word to the stream.
func (c *Cmdbuf) PushWord(word uint32) error {
	if c.mem == nil {
		return cerrors.Wrap(nvutils.ErrInvalidArgument, "no memory attached")
	}
	if (c.numWords+1)*4 > c.memSize {
		return cerrors.Wrapf(nvutils.ErrOutOfMemory, "command stream window of %#x bytes is full", c.memSize)
	}
	words := c.words()
	words[c.numWords] = word
	c.numWords++
	return nil
}

// PushValue issues one engine method through the THI method registers.
func (c *Cmdbuf) PushValue(offset, value uint32) error {
	if err := c.PushWord(Incr(THI_METHOD0>>2, 2)); err != nil {
		return err
	}
	if err := c.PushWord(offset >> 2); err != nil {
		return err
	}
	return c.PushWord(value)
}

// PushReloc issues a method whose payload is a buffer address. Pinned
// buffers resolve immediately, unpinned ones leave a placeholder the kernel
// patches from the relocation table.
func (c *Cmdbuf) PushReloc(offset uint32, target core.Map, targetOffset uint32, relocType core.RelocType, shift uint32) error {
	if iova := target.GPUAddrPitch(); iova != 0 {
		return c.PushValue(offset, uint32((iova+uint64(targetOffset))>>shift))
	}
	if err := c.PushValue(offset, relocPlaceholder); err != nil {
		return err
	}
	c.relocs = append(c.relocs, Reloc{
		CmdbufOffset: uint32((c.numWords - 1) * 4),
		Target:       target,
		TargetOffset: targetOffset,
		Type:         relocType,
		Shift:        shift,
	})
	return nil
}

// WaitFence blocks the stream until a syncpoint threshold is reached. On the
// DRM path the wait becomes a job record, otherwise it is expressed with
// host1x class methods.
func (c *Cmdbuf) WaitFence(fence core.Fence) error {
	if c.cfg.DRM {
		c.waits = append(c.waits, SyncptWait{ID: fence.ID(), Value: fence.Value()})
		return nil
	}
	if err := c.PushWord(SetClass(0, hwclass.HOST1X_CLASS_HOST1X, 0)); err != nil {
		return err
	}
	mask := uint32(1)<<((HOST1X_UCLASS_LOAD_SYNCPT_PAYLOAD_32-HOST1X_UCLASS_LOAD_SYNCPT_PAYLOAD_32)>>2) |
		uint32(1)<<((HOST1X_UCLASS_WAIT_SYNCPT_32-HOST1X_UCLASS_LOAD_SYNCPT_PAYLOAD_32)>>2)
	if err := c.PushWord(Mask(HOST1X_UCLASS_LOAD_SYNCPT_PAYLOAD_32>>2, mask)); err != nil {
		return err
	}
	if err := c.PushWord(fence.Value()); err != nil {
		return err
	}
	if err := c.PushWord(fence.ID()); err != nil {
		return err
	}
	return c.PushWord(SetClass(0, c.class, 0))
}

// CacheOp is a no-op. Multimedia engines are not connected to the L2 cache.
func (c *Cmdbuf) CacheOp(flags core.CacheFlags) error {
	return nil
}

// AddSyncptIncr queues a syncpoint increment raised by the engine when the
// preceding methods complete.
func (c *Cmdbuf) AddSyncptIncr(syncpt uint32) error {
	c.incrs = append(c.incrs, SyncptIncr{ID: syncpt, Count: 1})
	if err := c.PushWord(NonIncr(THI_INCR_SYNCPT>>2, 1)); err != nil {
		return err
	}
	return c.PushWord(IncrSyncptWord(c.cfg.Version, syncpt, INCR_SYNCPT_COND_OP_DONE))
}

// Memory returns the backing allocation and window offset.
func (c *Cmdbuf) Memory() (core.Map, int) {
	return c.mem, c.memOffset
}

// NumWords reports how many words have been pushed.
func (c *Cmdbuf) NumWords() int {
	return c.numWords
}

// Relocs returns the relocation table for submit.
func (c *Cmdbuf) Relocs() []Reloc {
	return c.relocs
}

// Gathers returns the gather list for submit.
func (c *Cmdbuf) Gathers() []Gather {
	return c.gathers
}

// SyncptIncrs returns the queued increments for the job header.
func (c *Cmdbuf) SyncptIncrs() []SyncptIncr {
	return c.incrs
}

// SyncptWaits returns the DRM wait records.
func (c *Cmdbuf) SyncptWaits() []SyncptWait {
	return c.waits
}

func (c *Cmdbuf) words() []uint32 {
	buf := c.mem.Bytes()[c.memOffset : c.memOffset+c.memSize]
	return nvutils.SliceCast[uint32](buf)
}
