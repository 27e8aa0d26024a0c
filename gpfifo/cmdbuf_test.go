package gpfifo_test

import (
	"testing"
	"unsafe"

	cerrors "github.com/cockroachdb/errors"
	"github.com/stretchr/testify/require"

	"github.com/nvwrapper/mmsub/core"
	"github.com/nvwrapper/mmsub/gpfifo"
	"github.com/nvwrapper/mmsub/hwclass"
	"github.com/nvwrapper/mmsub/nvutils"
)

// fakeMap backs a command buffer with plain process memory.
type fakeMap struct {
	buf   []byte
	pitch uint64
	block uint64
}

func newFakeMap(size int) *fakeMap {
	return &fakeMap{buf: make([]byte, size)}
}

func (m *fakeMap) Close() error                                    { return nil }
func (m *fakeMap) Pin(ch core.Channel) error                       { return nil }
func (m *fakeMap) CacheOp(_, _ int, _ core.CacheFlags) error       { return nil }
func (m *fakeMap) Realloc(_, _ int) error                          { return nvutils.ErrNotImplemented }
func (m *fakeMap) Size() int                                       { return len(m.buf) }
func (m *fakeMap) Flags() core.MapFlags                            { return core.MapCPUCacheable }
func (m *fakeMap) Bytes() []byte                                   { return m.buf }
func (m *fakeMap) CPUAddr() uintptr                                { return uintptr(unsafe.Pointer(&m.buf[0])) }
func (m *fakeMap) GPUAddrPitch() uint64                            { return m.pitch }
func (m *fakeMap) GPUAddrBlock() uint64                            { return m.block }
func (m *fakeMap) Handle() uint32                                  { return 1 }

func (m *fakeMap) words() []uint32 {
	return nvutils.SliceCast[uint32](m.buf)
}

func newCmdbuf(t *testing.T, cfg gpfifo.Config, size int) (*gpfifo.Cmdbuf, *fakeMap) {
	t.Helper()
	mem := newFakeMap(size)
	cb := gpfifo.New(cfg)
	require.NoError(t, cb.AddMemory(mem, 0, size))
	return cb, mem
}

func TestAddMemoryValidation(t *testing.T) {
	cb := gpfifo.New(gpfifo.Config{})

	err := cb.AddMemory(nil, 0, 0x100)
	require.True(t, cerrors.Is(err, nvutils.ErrInvalidArgument))

	mem := newFakeMap(0x100)
	err = cb.AddMemory(mem, 0x80, 0x100)
	require.True(t, cerrors.Is(err, nvutils.ErrInvalidArgument))

	require.NoError(t, cb.AddMemory(mem, 0x80, 0x80))
}

func TestPushValueEncoding(t *testing.T) {
	cb, mem := newCmdbuf(t, gpfifo.Config{Engine: core.EngineNvdec}, 0x100)

	require.NoError(t, cb.Begin(core.EngineNvdec))
	require.NoError(t, cb.PushValue(0x400, 0x1234))
	require.NoError(t, cb.End())

	require.Equal(t, 2, cb.NumWords())
	words := mem.words()
	require.Equal(t, hwclass.NVC76F_DMA_INCR_OPCODE_VALUE|
		1<<hwclass.NVC76F_DMA_COUNT_SHIFT|
		gpfifo.SubchannelEngine<<hwclass.NVC76F_DMA_SUBCHANNEL_SHIFT|
		0x400>>2, words[0])
	require.Equal(t, uint32(0x1234), words[1])
}

func TestBeginSelectsSubchannel(t *testing.T) {
	cb, mem := newCmdbuf(t, gpfifo.Config{Engine: core.EngineCopy}, 0x100)

	require.NoError(t, cb.Begin(core.EngineHost))
	require.NoError(t, cb.PushValue(0x50, 0))
	require.NoError(t, cb.End())

	header := mem.words()[0]
	sub := header >> hwclass.NVC76F_DMA_SUBCHANNEL_SHIFT & 0x7
	require.Equal(t, gpfifo.SubchannelHost, sub)

	err := cb.Begin(core.EngineCopy)
	require.NoError(t, err)
	require.Error(t, cb.Begin(core.EngineCopy))
	require.NoError(t, cb.End())
	require.Error(t, cb.End())
}

func TestPushRelocSplit(t *testing.T) {
	cb, mem := newCmdbuf(t, gpfifo.Config{Engine: core.EngineCopy}, 0x100)
	target := newFakeMap(0x1000)
	target.pitch = 0x12_3456_7000
	target.block = 0x98_7654_3000

	require.NoError(t, cb.Begin(core.EngineCopy))
	require.NoError(t, cb.PushReloc(0x400, target, 0x80, core.RelocPitch, 0))
	require.NoError(t, cb.End())

	require.Equal(t, 3, cb.NumWords())
	words := mem.words()
	require.Equal(t, hwclass.NVC76F_DMA_INCR_OPCODE_VALUE|
		2<<hwclass.NVC76F_DMA_COUNT_SHIFT|
		gpfifo.SubchannelEngine<<hwclass.NVC76F_DMA_SUBCHANNEL_SHIFT|
		0x400>>2, words[0])
	addr := target.pitch + 0x80
	require.Equal(t, uint32(addr>>32), words[1])
	require.Equal(t, uint32(addr), words[2])
}

func TestPushRelocShifted(t *testing.T) {
	cb, mem := newCmdbuf(t, gpfifo.Config{Engine: core.EngineCopy}, 0x100)
	target := newFakeMap(0x1000)
	target.pitch = 0x12_3456_7000
	target.block = 0x98_7654_3000

	require.NoError(t, cb.Begin(core.EngineCopy))
	require.NoError(t, cb.PushReloc(0x400, target, 0, core.RelocTiled, 8))
	require.NoError(t, cb.End())

	// A shifted address fits a single payload word, taken from the
	// block-linear mapping for tiled relocations.
	require.Equal(t, 2, cb.NumWords())
	require.Equal(t, uint32(target.block>>8), mem.words()[1])
}

func TestWaitFenceSyncptMethods(t *testing.T) {
	cb, mem := newCmdbuf(t, gpfifo.Config{
		Engine:     core.EngineNvdec,
		UseSyncpts: true,
	}, 0x100)

	require.NoError(t, cb.WaitFence(core.MakeFence(5, 0x10)))

	require.Equal(t, 3, cb.NumWords())
	words := mem.words()
	require.Equal(t, hwclass.NVC76F_DMA_INCR_OPCODE_VALUE|
		2<<hwclass.NVC76F_DMA_COUNT_SHIFT|
		gpfifo.SubchannelHost<<hwclass.NVC76F_DMA_SUBCHANNEL_SHIFT|
		hwclass.NVC76F_SYNCPOINTA>>2, words[0])
	require.Equal(t, uint32(0x10), words[1])
	require.Equal(t, hwclass.NVC76F_SYNCPOINTB_OPERATION_WAIT|
		hwclass.NVC76F_SYNCPOINTB_WAIT_SWITCH_EN|
		5<<hwclass.NVC76F_SYNCPOINTB_SYNCPT_INDEX_SHIFT, words[2])
}

func TestWaitFenceSyncptShim(t *testing.T) {
	cb, mem := newCmdbuf(t, gpfifo.Config{
		Engine:         core.EngineNvdec,
		UseSyncpts:     true,
		SyncptVaBase:   0x10000,
		SyncptPageSize: 0x1000,
	}, 0x100)

	require.NoError(t, cb.WaitFence(core.MakeFence(5, 0x10)))

	require.Equal(t, 8, cb.NumWords())
	words := mem.words()
	addr := uint64(0x10000 + 5*0x1000)
	require.Equal(t, uint32(addr), words[1])
	require.Equal(t, uint32(addr>>32), words[3])
	require.Equal(t, uint32(0x10), words[5])
	require.Equal(t, hwclass.NVC76F_SEM_EXECUTE_OPERATION_ACQ_CIRC_GEQ|
		hwclass.NVC76F_SEM_EXECUTE_ACQUIRE_SWITCH_TSG_EN, words[7])
}

func TestWaitFenceSemaphore(t *testing.T) {
	cb, mem := newCmdbuf(t, gpfifo.Config{
		Engine:        core.EngineCopy,
		SemaphoreBase: 0xff00_0000,
	}, 0x100)

	require.NoError(t, cb.WaitFence(core.MakeFence(3, 0x42)))

	require.Equal(t, 8, cb.NumWords())
	words := mem.words()
	require.Equal(t, hwclass.NVC76F_DMA_INCR_OPCODE_VALUE|
		1<<hwclass.NVC76F_DMA_COUNT_SHIFT|
		gpfifo.SubchannelHost<<hwclass.NVC76F_DMA_SUBCHANNEL_SHIFT|
		hwclass.NVC76F_SEM_ADDR_LO>>2, words[0])
	require.Equal(t, uint32(0xff00_0000+3*4), words[1])
	require.Equal(t, uint32(0), words[3])
	require.Equal(t, uint32(0x42), words[5])
}

func TestCacheOp(t *testing.T) {
	// Multimedia engines have no L2 path.
	cb, _ := newCmdbuf(t, gpfifo.Config{Engine: core.EngineNvdec}, 0x100)
	require.NoError(t, cb.CacheOp(core.CacheWriteback))
	require.Equal(t, 0, cb.NumWords())

	cb, mem := newCmdbuf(t, gpfifo.Config{Engine: core.EngineCopy}, 0x100)
	require.NoError(t, cb.CacheOp(core.CacheWriteback|core.CacheInvalidate))

	require.Equal(t, 10, cb.NumWords())
	words := mem.words()
	require.Equal(t, hwclass.NVC76F_SET_REFERENCE>>2, words[0]&0x1fff)
	require.Equal(t, hwclass.NVC76F_MEM_OP_D_OPERATION_L2_FLUSH_DIRTY|
		hwclass.NVC76F_MEM_OP_D_OPERATION_L2_SYSMEM_INVALIDATE, words[9])
}

func TestWindowExhaustion(t *testing.T) {
	cb, _ := newCmdbuf(t, gpfifo.Config{Engine: core.EngineCopy}, 0x40)

	for i := 0; i < 16; i++ {
		require.NoError(t, cb.PushWord(uint32(i)))
	}
	err := cb.PushWord(0)
	require.True(t, cerrors.Is(err, nvutils.ErrOutOfMemory))

	cb.Clear()
	require.Equal(t, 0, cb.NumWords())
	require.NoError(t, cb.PushWord(0))
}

func TestGPEntry(t *testing.T) {
	entry0, entry1 := gpfifo.GPEntry(0x12_3456_7890, 0x40)
	require.Equal(t, uint32(0x3456_7890), entry0)
	require.Equal(t, uint32(0x12)|0x40<<hwclass.NVC76F_GP_ENTRY1_LENGTH_SHIFT, entry1)
}
