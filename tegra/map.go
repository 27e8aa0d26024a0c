package tegra

import (
	"unsafe"

	cerrors "github.com/cockroachdb/errors"
	"golang.org/x/sys/unix"

	"github.com/nvwrapper/mmsub/core"
	"github.com/nvwrapper/mmsub/nvutils"
)

// Map is an nvmap allocation exported as a dmabuf. It implements core.Map.
type Map struct {
	dev *Device

	handle uint32
	fd     int

	size  int
	flags core.MapFlags

	cpu  []byte
	iova uint64

	// cacheAddr is the address nvmap cache maintenance operates on. For
	// wrapped user memory it is the original virtual address.
	cacheAddr uintptr
	ownMem    bool

	pinned map[*Channel]uint32
}

func nvmapFlagsFor(flags core.MapFlags) uint32 {
	switch flags.CPU() {
	case core.MapCPUCacheable:
		return NVMAP_HANDLE_CACHEABLE | NVMAP_HANDLE_MEM_TAG
	case core.MapCPUUncacheable:
		return NVMAP_HANDLE_UNCACHEABLE | NVMAP_HANDLE_MEM_TAG
	default:
		return NVMAP_HANDLE_WRITE_COMBINE | NVMAP_HANDLE_MEM_TAG
	}
}

func heapFor(flags core.MapFlags) uint32 {
	switch flags.Usage() {
	case core.MapUsageEngine, core.MapUsageCmdbuf:
		return NVMAP_HEAP_IOVMM
	default:
		return NVMAP_HEAP_CARVEOUT_GENERIC
	}
}

// CreateMap allocates memory from nvmap and maps it per the flags.
func (d *Device) CreateMap(size, align int, flags core.MapFlags) (core.Map, error) {
	m := &Map{
		dev:    d,
		fd:     -1,
		size:   size,
		flags:  flags,
		ownMem: true,
		pinned: make(map[*Channel]uint32),
	}

	create := NvmapCreateHandle{Size: uint32(size)}
	if err := ioctl(d.nvmapFD, nvmapIocCreate(), ptr(&create)); err != nil {
		return nil, cerrors.Wrap(err, "creating nvmap handle")
	}
	m.handle = create.Handle

	alloc := NvmapAllocHandle{
		Handle:   m.handle,
		HeapMask: heapFor(flags),
		Flags:    nvmapFlagsFor(flags),
		Align:    uint32(align),
	}
	if err := ioctl(d.nvmapFD, nvmapIocAlloc(), ptr(&alloc)); err != nil {
		m.Close()
		return nil, cerrors.Wrap(err, "allocating nvmap memory")
	}

	if err := m.export(); err != nil {
		m.Close()
		return nil, err
	}
	if flags.CPU() != core.MapCPUUnmapped {
		buf, err := unix.Mmap(m.fd, 0, size, unix.PROT_READ|unix.PROT_WRITE, unix.MAP_SHARED)
		if err != nil {
			m.Close()
			return nil, cerrors.Wrap(err, "mmap")
		}
		m.cpu = buf
		m.cacheAddr = uintptr(unsafe.Pointer(&buf[0]))
	}
	return m, nil
}

// MapFromVA wraps caller-owned pages in an nvmap handle.
func (d *Device) MapFromVA(addr unsafe.Pointer, size int, flags core.MapFlags) (core.Map, error) {
	m := &Map{
		dev:    d,
		fd:     -1,
		size:   size,
		flags:  flags,
		ownMem: false,
		pinned: make(map[*Channel]uint32),
	}

	fromVA := NvmapCreateHandleFromVA{
		VA:    uint64(uintptr(addr)),
		Size:  uint32(size),
		Flags: nvmapFlagsFor(flags),
	}
	if err := ioctl(d.nvmapFD, nvmapIocFromVA(), ptr(&fromVA)); err != nil {
		return nil, cerrors.Wrap(err, "wrapping user memory")
	}
	m.handle = fromVA.Handle

	if err := m.export(); err != nil {
		m.Close()
		return nil, err
	}
	m.cpu = unsafe.Slice((*byte)(addr), size)
	m.cacheAddr = uintptr(addr)
	return m, nil
}

// export turns the nvmap handle into a dmabuf fd for mmap and channel
// mapping.
func (m *Map) export() error {
	getFD := NvmapCreateHandle{Handle: m.handle}
	if err := ioctl(m.dev.nvmapFD, nvmapIocGetFD(), ptr(&getFD)); err != nil {
		return cerrors.Wrap(err, "exporting dmabuf")
	}
	m.fd = int(getFD.Size)
	return nil
}

// Pin maps the buffer into the engine context of a channel. Pinning twice
// on the same channel is a no-op.
func (m *Map) Pin(ch core.Channel) error {
	c, ok := ch.(*Channel)
	if !ok {
		return cerrors.Wrap(nvutils.ErrInvalidArgument, "channel from another backend")
	}
	if _, done := m.pinned[c]; done {
		return nil
	}
	iova, mapping, err := c.mapBuffer(m)
	if err != nil {
		return err
	}
	m.iova = iova
	m.pinned[c] = mapping
	return nil
}

// CacheOp maintains the CPU cache over a range of the mapping.
func (m *Map) CacheOp(offset, length int, flags core.CacheFlags) error {
	if m.flags.CPU() == core.MapCPUWriteCombine {
		nvutils.WriteFence()
		return nil
	}
	if m.flags.CPU() != core.MapCPUCacheable {
		return nil
	}
	var op int32
	switch {
	case flags&core.CacheWriteback != 0 && flags&core.CacheInvalidate != 0:
		op = NVMAP_CACHE_OP_WB_INV
	case flags&core.CacheInvalidate != 0:
		op = NVMAP_CACHE_OP_INV
	case flags&core.CacheWriteback != 0:
		op = NVMAP_CACHE_OP_WB
	default:
		return nil
	}
	args := NvmapCacheOp{
		Addr:   uint64(m.cacheAddr) + uint64(offset),
		Handle: m.handle,
		Len:    uint32(length),
		Op:     op,
	}
	return ioctl(m.dev.nvmapFD, nvmapIocCacheOp(), ptr(&args))
}

// Realloc grows the allocation in place. A fresh allocation is pinned to
// the same channels, takes over the contents, then the Map identity, so
// held pointers stay valid.
func (m *Map) Realloc(size, align int) error {
	if !m.ownMem {
		return cerrors.Wrap(nvutils.ErrInvalidArgument, "wrapped memory cannot be reallocated")
	}
	if size <= m.size {
		return cerrors.Wrap(nvutils.ErrInvalidArgument, "realloc must grow the allocation")
	}
	fresh, err := m.dev.CreateMap(size, align, m.flags)
	if err != nil {
		return err
	}
	f := fresh.(*Map)
	for ch := range m.pinned {
		if err := f.Pin(ch); err != nil {
			f.Close()
			return err
		}
	}
	if f.cpu != nil && m.cpu != nil {
		copy(f.cpu, m.cpu)
	}
	if err := m.Close(); err != nil {
		f.Close()
		return err
	}
	*m = *f
	return nil
}

// Close unpins, unmaps and frees the allocation.
func (m *Map) Close() error {
	for ch, mapping := range m.pinned {
		ch.unmapBuffer(mapping)
		delete(m.pinned, ch)
	}
	if m.cpu != nil && m.ownMem {
		unix.Munmap(m.cpu)
	}
	m.cpu = nil
	if m.fd >= 0 {
		unix.Close(m.fd)
		m.fd = -1
	}
	if m.handle != 0 {
		ioctl(m.dev.nvmapFD, nvmapIocFree(), unsafe.Pointer(uintptr(m.handle)))
		m.handle = 0
	}
	return nil
}

// Size returns the allocation size in bytes.
func (m *Map) Size() int {
	return m.size
}

// Flags returns the creation flags.
func (m *Map) Flags() core.MapFlags {
	return m.flags
}

// Bytes returns the CPU view of the mapping, nil when CPU-unmapped.
func (m *Map) Bytes() []byte {
	return m.cpu
}

// CPUAddr returns the CPU address of the mapping, zero when CPU-unmapped.
func (m *Map) CPUAddr() uintptr {
	if m.cpu == nil {
		return 0
	}
	return uintptr(unsafe.Pointer(&m.cpu[0]))
}

// GPUAddrPitch returns the engine address after pinning, zero before.
func (m *Map) GPUAddrPitch() uint64 {
	return m.iova
}

// GPUAddrBlock returns the block-linear engine address. The SMMU mapping
// serves both views.
func (m *Map) GPUAddrBlock() uint64 {
	return m.iova
}

// Handle returns the nvmap handle.
func (m *Map) Handle() uint32 {
	return m.handle
}
