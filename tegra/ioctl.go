// Package tegra drives the multimedia engines of Tegra SoCs. Buffers come
// from nvmap, engines are reached through host1x channels via either the
// legacy nvhost devices or the Tegra DRM interface, and completion is
// tracked with syncpoints.
package tegra

import (
	"unsafe"

	cerrors "github.com/cockroachdb/errors"
	"golang.org/x/sys/unix"
)

// Linux ioctl direction bits.
const (
	iocWrite = 1
	iocRead  = 2
)

func ioc(dir, magic, nr int, size uintptr) uintptr {
	return uintptr(dir)<<30 | size<<16 | uintptr(magic)<<8 | uintptr(nr)
}

func iowr(magic, nr int, size uintptr) uintptr {
	return ioc(iocRead|iocWrite, magic, nr, size)
}

func iow(magic, nr int, size uintptr) uintptr {
	return ioc(iocWrite, magic, nr, size)
}

func ptr[T any](v *T) unsafe.Pointer {
	return unsafe.Pointer(v)
}

// ioctl issues a request, retrying on EINTR.
func ioctl(fd int, request uintptr, data unsafe.Pointer) error {
	for {
		_, _, errno := unix.Syscall(unix.SYS_IOCTL, uintptr(fd), request, uintptr(data))
		if errno == unix.EINTR {
			continue
		}
		if errno != 0 {
			return cerrors.Wrapf(errno, "ioctl %#x failed", request)
		}
		return nil
	}
}

// nvmap interface, from the L4T nvmap.h UAPI.
const nvmapMagic = 'N'

// NvmapCreateHandle is nvmap_create_handle, shared by create and get-fd.
type NvmapCreateHandle struct {
	Size   uint32
	Handle uint32
}

// NvmapAllocHandle is nvmap_alloc_handle.
type NvmapAllocHandle struct {
	Handle   uint32
	HeapMask uint32
	Flags    uint32
	Align    uint32
}

// NvmapCreateHandleFromVA is nvmap_create_handle_from_va.
type NvmapCreateHandleFromVA struct {
	VA     uint64
	Size   uint32
	Flags  uint32
	Handle uint32
	Pad0   [4]byte
}

// NvmapCacheOp is nvmap_cache_op.
type NvmapCacheOp struct {
	Addr   uint64
	Handle uint32
	Len    uint32
	Op     int32
	Pad0   [4]byte
}

// Values for NvmapCacheOp.Op.
const (
	NVMAP_CACHE_OP_WB     int32 = 0
	NVMAP_CACHE_OP_WB_INV int32 = 1
	NVMAP_CACHE_OP_INV    int32 = 2
)

// Heap masks for NvmapAllocHandle.HeapMask.
const (
	NVMAP_HEAP_CARVEOUT_GENERIC uint32 = 1 << 0
	NVMAP_HEAP_IOVMM            uint32 = 1 << 30
)

// Flags for NvmapAllocHandle.Flags. The tag in the upper half labels the
// allocation in kernel accounting.
const (
	NVMAP_HANDLE_UNCACHEABLE   uint32 = 0
	NVMAP_HANDLE_WRITE_COMBINE uint32 = 1
	NVMAP_HANDLE_CACHEABLE     uint32 = 3

	NVMAP_HANDLE_MEM_TAG uint32 = 0xfeed << 16
)

func nvmapIocCreate() uintptr {
	return iowr(nvmapMagic, 0, unsafe.Sizeof(NvmapCreateHandle{}))
}

func nvmapIocAlloc() uintptr {
	return iow(nvmapMagic, 3, unsafe.Sizeof(NvmapAllocHandle{}))
}

func nvmapIocFree() uintptr {
	return ioc(0, nvmapMagic, 4, 0)
}

func nvmapIocCacheOp() uintptr {
	return iow(nvmapMagic, 12, unsafe.Sizeof(NvmapCacheOp{}))
}

func nvmapIocGetFD() uintptr {
	return iowr(nvmapMagic, 15, unsafe.Sizeof(NvmapCreateHandle{}))
}

func nvmapIocFromVA() uintptr {
	return iowr(nvmapMagic, 16, unsafe.Sizeof(NvmapCreateHandleFromVA{}))
}

// nvhost interface, from the L4T nvhost.h UAPI.
const nvhostMagic = 'H'

// NvhostGetParamArg carries per-channel parameter queries.
type NvhostGetParamArg struct {
	Param uint32
	Value uint32
}

// NvhostClkRateArgs carries engine clock queries and updates.
type NvhostClkRateArgs struct {
	Rate     uint32
	ModuleID uint32
}

// NvhostSyncptIncr is nvhost_syncpt_incr.
type NvhostSyncptIncr struct {
	SyncptID    uint32
	SyncptIncrs uint32
}

// NvhostCmdbuf is nvhost_cmdbuf.
type NvhostCmdbuf struct {
	Mem    uint32
	Offset uint32
	Words  uint32
}

// NvhostReloc is nvhost_reloc.
type NvhostReloc struct {
	CmdbufMem    uint32
	CmdbufOffset uint32
	Target       uint32
	TargetOffset uint32
}

// NvhostRelocShift is nvhost_reloc_shift.
type NvhostRelocShift struct {
	Shift uint32
}

// NvhostRelocType is nvhost_reloc_type.
type NvhostRelocType struct {
	RelocType uint32
	Pad0      [4]byte
}

// NvhostSubmitArgs is nvhost_submit_args, version 2.
type NvhostSubmitArgs struct {
	SubmitVersion  uint32
	NumSyncptIncrs uint32
	NumCmdbufs     uint32
	NumRelocs      uint32
	NumWaitchks    uint32
	Timeout        uint32
	Flags          uint32
	Fence          uint32
	SyncptIncrs    uint64
	CmdbufExts     uint64
	Checksum       [8]byte
	ClassIDs       uint64
	Fences         uint64
	Relocs         uint64
	RelocShifts    uint64
	Waitchks       uint64
	Waitbases      uint64
	Cmdbufs        uint64
	RelocTypes     uint64
}

const nvhostSubmitVersionV2 uint32 = 2

func nvhostIoctlChannelGetSyncpoint() uintptr {
	return iowr(nvhostMagic, 16, unsafe.Sizeof(NvhostGetParamArg{}))
}

func nvhostIoctlChannelGetClkRate() uintptr {
	return iowr(nvhostMagic, 9, unsafe.Sizeof(NvhostClkRateArgs{}))
}

func nvhostIoctlChannelSetClkRate() uintptr {
	return iow(nvhostMagic, 10, unsafe.Sizeof(NvhostClkRateArgs{}))
}

func nvhostIoctlChannelSubmit() uintptr {
	return iowr(nvhostMagic, 26, unsafe.Sizeof(NvhostSubmitArgs{}))
}

// nvhost-ctrl syncpoint interface.

// NvhostCtrlSyncptReadArgs reads the current syncpoint value.
type NvhostCtrlSyncptReadArgs struct {
	ID    uint32
	Value uint32
}

// NvhostCtrlSyncptWaitexArgs waits for a threshold with a timeout, returning
// the observed value.
type NvhostCtrlSyncptWaitexArgs struct {
	ID      uint32
	Thresh  uint32
	Timeout int32
	Value   uint32
}

func nvhostIoctlCtrlSyncptRead() uintptr {
	return iowr(nvhostMagic, 1, unsafe.Sizeof(NvhostCtrlSyncptReadArgs{}))
}

func nvhostIoctlCtrlSyncptWaitex() uintptr {
	return iowr(nvhostMagic, 6, unsafe.Sizeof(NvhostCtrlSyncptWaitexArgs{}))
}
