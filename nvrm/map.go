package nvrm

import (
	"unsafe"

	cerrors "github.com/cockroachdb/errors"
	"golang.org/x/sys/unix"

	"github.com/nvwrapper/mmsub/core"
	"github.com/nvwrapper/mmsub/nvutils"
	"github.com/nvwrapper/mmsub/rmapi"
)

// Map is a memory allocation visible to the GPU. It implements core.Map.
type Map struct {
	dev    *Device
	handle rmapi.Handle

	size  int
	align int
	flags core.MapFlags

	cpu     []byte
	gpuAddr uint64

	// ownMem is false for wrapped user memory, whose pages belong to the
	// caller.
	ownMem bool
}

// attrsFor derives the RM allocation attributes from the map flags.
func attrsFor(flags core.MapFlags) (attr, attr2, allocFlags uint32) {
	var cpuCache uint32
	switch flags.CPU() {
	case core.MapCPUCacheable:
		cpuCache = rmapi.NVOS32_ATTR_COHERENCY_CACHED
	case core.MapCPUWriteCombine:
		cpuCache = rmapi.NVOS32_ATTR_COHERENCY_WRITE_COMBINE
	default:
		cpuCache = rmapi.NVOS32_ATTR_COHERENCY_UNCACHED
	}
	gpuCache := rmapi.NVOS32_ATTR2_GPU_CACHEABLE_NO
	if flags.GPU() == core.MapGPUCacheable {
		gpuCache = rmapi.NVOS32_ATTR2_GPU_CACHEABLE_YES
	}
	location := rmapi.NVOS32_ATTR_LOCATION_VIDMEM
	if flags.Location() == core.MapLocationHost {
		location = rmapi.NVOS32_ATTR_LOCATION_PCI
	}

	attr2 = rmapi.NVOS32_ATTR2_ZBC_PREFER_NO_ZBC | gpuCache

	switch flags.Usage() {
	case core.MapUsageFramebuffer:
		pageSize := rmapi.NVOS32_ATTR_PAGE_SIZE_DEFAULT
		if flags.Location() == core.MapLocationDevice {
			pageSize = rmapi.NVOS32_ATTR_PAGE_SIZE_HUGE
		}
		attr = pageSize | rmapi.NVOS32_ATTR_PHYSICALITY_NONCONTIGUOUS | cpuCache | location
		attr2 |= rmapi.NVOS32_ATTR2_PAGE_SIZE_HUGE_DEFAULT
		allocFlags = rmapi.NVOS32_ALLOC_FLAGS_PERSISTENT_VIDMEM
	case core.MapUsageEngine:
		attr = rmapi.NVOS32_ATTR_PAGE_SIZE_DEFAULT | rmapi.NVOS32_ATTR_PHYSICALITY_NONCONTIGUOUS | cpuCache | location
		allocFlags = rmapi.NVOS32_ALLOC_FLAGS_PERSISTENT_VIDMEM
	case core.MapUsageCmdbuf:
		attr = rmapi.NVOS32_ATTR_PAGE_SIZE_4KB | rmapi.NVOS32_ATTR_PHYSICALITY_NONCONTIGUOUS | cpuCache | location
	default:
		attr = rmapi.NVOS32_ATTR_PAGE_SIZE_4KB | rmapi.NVOS32_ATTR_PHYSICALITY_CONTIGUOUS | cpuCache | location
		allocFlags = rmapi.NVOS32_ALLOC_FLAGS_PERSISTENT_VIDMEM
	}

	allocFlags |= rmapi.NVOS32_ALLOC_FLAGS_ALIGNMENT_FORCE | rmapi.NVOS32_ALLOC_FLAGS_MAP_NOT_REQUIRED
	return attr, attr2, allocFlags
}

func (m *Map) class() rmapi.ClassID {
	if m.flags.Location() == core.MapLocationHost {
		return rmapi.NV01_MEMORY_SYSTEM
	}
	return rmapi.NV01_MEMORY_LOCAL_USER
}

// CreateMap allocates GPU-visible memory and maps it per the flags.
func (d *Device) CreateMap(size, align int, flags core.MapFlags) (core.Map, error) {
	m := &Map{
		dev:    d,
		size:   size,
		align:  align,
		flags:  flags,
		ownMem: true,
	}
	if err := m.allocate(); err != nil {
		return nil, err
	}
	return m, nil
}

func (m *Map) allocate() error {
	attr, attr2, allocFlags := attrsFor(m.flags)
	m.handle = m.dev.rm.newHandle()
	params := rmapi.NV_MEMORY_ALLOCATION_PARAMS{
		Owner:     uint32(m.dev.rm.client),
		Type:      rmapi.NVOS32_TYPE_IMAGE,
		Flags:     allocFlags,
		Attr:      attr,
		Attr2:     attr2,
		Size:      uint64(m.size),
		Alignment: uint64(m.align),
	}
	if err := m.dev.rm.alloc(m.dev.device, m.handle, m.class(),
		unsafe.Pointer(&params), unsafe.Sizeof(params)); err != nil {
		return cerrors.Wrap(err, "allocating memory")
	}
	return m.establish()
}

// establish performs the CPU and GPU mappings requested by the flags.
func (m *Map) establish() error {
	if m.flags.CPU() != core.MapCPUUnmapped && m.ownMem {
		buf, err := m.dev.mapCPU(m.handle, m.dev.device, m.size,
			m.class() == rmapi.NV01_MEMORY_SYSTEM)
		if err != nil {
			return err
		}
		m.cpu = buf
	}
	if m.flags.GPU() != core.MapGPUUnmapped {
		p := rmapi.NVOS46Parameters{
			HClient: m.dev.rm.client,
			HDevice: m.dev.device,
			HDma:    m.dev.vaspace,
			HMemory: m.handle,
			Length:  uint64(m.size),
			Flags:   rmapi.NVOS46_FLAGS_PAGE_SIZE_DEFAULT,
		}
		if err := rmapi.Ioctl(m.dev.rm.ctlFD, rmapi.NV_ESC_RM_MAP_MEMORY_DMA,
			unsafe.Pointer(&p), unsafe.Sizeof(p)); err != nil {
			return err
		}
		if err := statusErr(p.Status); err != nil {
			return cerrors.Wrap(err, "mapping memory to the GPU")
		}
		m.gpuAddr = p.DmaOffset
	}
	return nil
}

// MapFromVA wraps caller-owned pages as a GPU-visible allocation.
func (d *Device) MapFromVA(addr unsafe.Pointer, size int, flags core.MapFlags) (core.Map, error) {
	m := &Map{
		dev:    d,
		size:   size,
		flags:  flags,
		ownMem: false,
	}

	attr, attr2, _ := attrsFor(flags)
	// Wrapped pages are always noncontiguous system memory, and the
	// kernel refuses anything but a write-back mapping of them.
	attr = attr&^rmapi.NVOS32_ATTR_LOCATION_MASK | rmapi.NVOS32_ATTR_LOCATION_PCI
	attr = attr&^rmapi.NVOS32_ATTR_PAGE_SIZE_MASK | rmapi.NVOS32_ATTR_PAGE_SIZE_DEFAULT
	attr = attr&^rmapi.NVOS32_ATTR_PHYSICALITY_MASK | rmapi.NVOS32_ATTR_PHYSICALITY_NONCONTIGUOUS
	if attr&rmapi.NVOS32_ATTR_COHERENCY_MASK != rmapi.NVOS32_ATTR_COHERENCY_CACHED {
		attr = attr&^rmapi.NVOS32_ATTR_COHERENCY_MASK | rmapi.NVOS32_ATTR_COHERENCY_WRITE_BACK
	}

	m.handle = d.rm.newHandle()
	p := rmapi.NVOS32Parameters{
		HRoot:         d.rm.client,
		HObjectParent: d.device,
		Function:      rmapi.NVOS32_FUNCTION_ALLOC_OS_DESCRIPTOR,
	}
	p.SetAllocOsDesc(rmapi.NVOS32AllocOsDesc{
		HMemory:        m.handle,
		Type:           rmapi.NVOS32_TYPE_IMAGE,
		Flags:          rmapi.NVOS32_ALLOC_FLAGS_MAP_NOT_REQUIRED,
		Attr:           attr,
		Attr2:          attr2,
		Descriptor:     rmapi.PtrTo64(addr),
		Limit:          uint64(size) - 1,
		DescriptorType: rmapi.NVOS32_DESCRIPTOR_TYPE_VIRTUAL_ADDRESS,
	})
	if err := rmapi.Ioctl(d.rm.ctlFD, rmapi.NV_ESC_RM_VID_HEAP_CONTROL,
		unsafe.Pointer(&p), unsafe.Sizeof(p)); err != nil {
		return nil, err
	}
	if err := statusErr(p.Status); err != nil {
		return nil, cerrors.Wrap(err, "wrapping user memory")
	}

	m.cpu = unsafe.Slice((*byte)(addr), size)
	if err := m.establish(); err != nil {
		m.Close()
		return nil, err
	}
	return m, nil
}

// Realloc grows the allocation in place. A fresh allocation takes over the
// contents and then the Map identity, so held references stay valid.
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
	if f.cpu != nil && m.cpu != nil {
		copy(f.cpu, m.cpu)
	}
	if err := m.release(); err != nil {
		f.Close()
		return err
	}
	*m = *f
	return nil
}

// Pin is a no-op, GPU mappings are established at creation.
func (m *Map) Pin(ch core.Channel) error {
	return nil
}

// CacheOp maintains the CPU cache over a range of the mapping. Cacheable
// mappings go to the kernel, write-combined mappings only order prior
// stores, and uncached or unmapped mappings need nothing.
func (m *Map) CacheOp(offset, length int, flags core.CacheFlags) error {
	if m.flags.CPU() == core.MapCPUWriteCombine {
		nvutils.WriteFence()
		return nil
	}
	if m.flags.CPU() != core.MapCPUCacheable || flags&(core.CacheWriteback|core.CacheInvalidate) == 0 {
		return nil
	}
	op := rmapi.NV0000_CTRL_OS_UNIX_FLAGS_USER_CACHE_INVALIDATE
	if flags&core.CacheInvalidate == 0 {
		op = rmapi.NV0000_CTRL_OS_UNIX_FLAGS_USER_CACHE_FLUSH
	} else if flags&core.CacheWriteback != 0 {
		op = rmapi.NV0000_CTRL_OS_UNIX_FLAGS_USER_CACHE_FLUSH_INVALIDATE
	}
	params := rmapi.NV0000CtrlOsUnixFlushUserCacheParams{
		Offset:   uint64(offset),
		Length:   uint64(length),
		CacheOps: op,
		HDevice:  m.dev.device,
		HObject:  m.handle,
	}
	return m.dev.rm.control(m.dev.rm.client, rmapi.NV0000_CTRL_CMD_OS_UNIX_FLUSH_USER_CACHE,
		unsafe.Pointer(&params), unsafe.Sizeof(params))
}

func (m *Map) unmapGPU() error {
	if m.gpuAddr == 0 {
		return nil
	}
	p := rmapi.NVOS47Parameters{
		HClient:   m.dev.rm.client,
		HDevice:   m.dev.device,
		HDma:      m.dev.vaspace,
		HMemory:   m.handle,
		DmaOffset: m.gpuAddr,
	}
	if err := rmapi.Ioctl(m.dev.rm.ctlFD, rmapi.NV_ESC_RM_UNMAP_MEMORY_DMA,
		unsafe.Pointer(&p), unsafe.Sizeof(p)); err != nil {
		return err
	}
	m.gpuAddr = 0
	return statusErr(p.Status)
}

func (m *Map) unmapCPU() error {
	if m.cpu == nil {
		return nil
	}
	addr := uintptr(unsafe.Pointer(&m.cpu[0]))
	if m.ownMem {
		if err := unix.Munmap(m.cpu); err != nil {
			return cerrors.Wrap(err, "munmap")
		}
	}
	m.cpu = nil
	if !m.ownMem {
		return nil
	}
	// The kernel tracks frontend mappings under the subdevice.
	p := rmapi.NVOS34Parameters{
		HClient:        m.dev.rm.client,
		HDevice:        m.dev.subdevice,
		HMemory:        m.handle,
		PLinearAddress: rmapi.P64(addr),
	}
	if err := rmapi.Ioctl(m.dev.rm.ctlFD, rmapi.NV_ESC_RM_UNMAP_MEMORY,
		unsafe.Pointer(&p), unsafe.Sizeof(p)); err != nil {
		return err
	}
	return statusErr(p.Status)
}

func (m *Map) release() error {
	if err := m.unmapGPU(); err != nil {
		return err
	}
	if err := m.unmapCPU(); err != nil {
		return err
	}
	if m.handle != 0 {
		if err := m.dev.rm.free(m.dev.device, m.handle); err != nil {
			return err
		}
		m.handle = 0
	}
	return nil
}

// Close releases the mapping and the underlying allocation.
func (m *Map) Close() error {
	return m.release()
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

// GPUAddrPitch returns the GPU virtual address of the linear view.
func (m *Map) GPUAddrPitch() uint64 {
	return m.gpuAddr
}

// GPUAddrBlock returns the GPU virtual address of the block-linear view.
// The RM path uses a single mapping for both.
func (m *Map) GPUAddrBlock() uint64 {
	return m.gpuAddr
}

// Handle returns the RM memory handle.
func (m *Map) Handle() uint32 {
	return uint32(m.handle)
}
