// Package rmapi carries the userspace ABI of the NVIDIA resource manager:
// frontend escape ioctl numbers, NVOS parameter structs, control commands
// and allocation parameter types. Names follow the kernel driver headers
// they originate from.
package rmapi

import (
	"unsafe"

	cerrors "github.com/cockroachdb/errors"
	"golang.org/x/sys/unix"
)

// Handle is a resource-manager object handle.
type Handle uint32

// ClassID is a class identifier passed to RM allocation.
type ClassID uint32

// P64 is NvP64, a 64-bit pointer transported through the ioctl interface.
type P64 uint64

// PtrTo64 converts a Go pointer for transport in a P64 field.
func PtrTo64(p unsafe.Pointer) P64 {
	return P64(uintptr(p))
}

// Frontend ioctl numbers, from src/nvidia/arch/nvalloc/unix/include/nv_escape.h
// and nv-ioctl-numbers.h. All escapes use the 'F' ioctl magic.
const (
	NV_IOCTL_MAGIC = 'F'

	NV_ESC_RM_FREE             = 0x29
	NV_ESC_RM_CONTROL          = 0x2a
	NV_ESC_RM_ALLOC            = 0x2b
	NV_ESC_RM_VID_HEAP_CONTROL = 0x4a
	NV_ESC_RM_MAP_MEMORY       = 0x4e
	NV_ESC_RM_UNMAP_MEMORY     = 0x4f
	NV_ESC_RM_MAP_MEMORY_DMA   = 0x57
	NV_ESC_RM_UNMAP_MEMORY_DMA = 0x58

	NV_ESC_CARD_INFO      = 200
	NV_ESC_REGISTER_FD    = 201
	NV_ESC_ALLOC_OS_EVENT = 206
	NV_ESC_FREE_OS_EVENT  = 207
)

// NV_MAX_DEVICES bounds the card info array returned by NV_ESC_CARD_INFO.
const NV_MAX_DEVICES = 32

// PCIInfo is nv_pci_info_t, from nv-ioctl.h.
type PCIInfo struct {
	Domain   uint32
	Bus      uint8
	Slot     uint8
	Function uint8
	Pad0     [1]byte
	VendorID uint16
	DeviceID uint16
}

// IoctlCardInfo is nv_ioctl_card_info_t, from nv-ioctl.h.
type IoctlCardInfo struct {
	Flags         uint16
	Pad0          [2]byte
	PCIInfo       PCIInfo
	GPUID         uint32
	InterruptLine uint16
	Pad1          [2]byte
	RegAddress    uint64
	RegSize       uint64
	FBAddress     uint64
	FBSize        uint64
	MinorNumber   uint32
	DevName       [10]byte
	Pad2          [2]byte
}

// Flags in IoctlCardInfo.Flags.
const (
	NV_IOCTL_CARD_INFO_FLAG_PRESENT = 0x0001
)

// IoctlRegisterFD is the parameter type for NV_ESC_REGISTER_FD.
type IoctlRegisterFD struct {
	CtlFD int32
}

// IoctlAllocOSEvent is the parameter type for NV_ESC_ALLOC_OS_EVENT.
type IoctlAllocOSEvent struct {
	HClient Handle
	HDevice Handle
	FD      uint32
	Status  uint32
}

// IoctlFreeOSEvent is the parameter type for NV_ESC_FREE_OS_EVENT.
type IoctlFreeOSEvent struct {
	HClient Handle
	HDevice Handle
	FD      uint32
	Status  uint32
}

// NVOS00Parameters is NVOS00_PARAMETERS, the parameter type for
// NV_ESC_RM_FREE.
type NVOS00Parameters struct {
	HRoot         Handle
	HObjectParent Handle
	HObjectOld    Handle
	Status        uint32
}

// NVOS21Parameters is NVOS21_PARAMETERS, one possible parameter type for
// NV_ESC_RM_ALLOC.
type NVOS21Parameters struct {
	HRoot         Handle
	HObjectParent Handle
	HObjectNew    Handle
	HClass        ClassID
	PAllocParms   P64
	ParamsSize    uint32
	Status        uint32
}

// NVOS64Parameters is NVOS64_PARAMETERS, the extended parameter type for
// NV_ESC_RM_ALLOC.
type NVOS64Parameters struct {
	HRoot            Handle
	HObjectParent    Handle
	HObjectNew       Handle
	HClass           ClassID
	PAllocParms      P64
	PRightsRequested P64
	ParamsSize       uint32
	Flags            uint32
	Status           uint32
	Pad0             [4]byte
}

// NVOS54Parameters is NVOS54_PARAMETERS, the parameter type for
// NV_ESC_RM_CONTROL.
type NVOS54Parameters struct {
	HClient    Handle
	HObject    Handle
	Cmd        uint32
	Flags      uint32
	Params     P64
	ParamsSize uint32
	Status     uint32
}

// NVOS33Parameters is NVOS33_PARAMETERS, wrapped with a file descriptor for
// NV_ESC_RM_MAP_MEMORY.
type NVOS33Parameters struct {
	HClient        Handle
	HDevice        Handle
	HMemory        Handle
	Pad0           [4]byte
	Offset         uint64
	Length         uint64
	PLinearAddress P64
	Status         uint32
	Flags          uint32
}

// IoctlNVOS33ParametersWithFD is nv_ioctl_nvos33_parameters_with_fd, from
// nv-unix-nvos-params-wrappers.h.
type IoctlNVOS33ParametersWithFD struct {
	Params NVOS33Parameters
	FD     int32
	Pad0   [4]byte
}

// Fields in NVOS33Parameters.Flags.
const (
	NVOS33_FLAGS_CACHING_TYPE_DEFAULT uint32 = 6 << 23
	NVOS33_FLAGS_MAPPING_DIRECT       uint32 = 1 << 30
)

// NVOS34Parameters is NVOS34_PARAMETERS, the parameter type for
// NV_ESC_RM_UNMAP_MEMORY.
type NVOS34Parameters struct {
	HClient        Handle
	HDevice        Handle
	HMemory        Handle
	Pad0           [4]byte
	PLinearAddress P64
	Status         uint32
	Flags          uint32
}

// NVOS46Parameters is NVOS46_PARAMETERS, the parameter type for
// NV_ESC_RM_MAP_MEMORY_DMA.
type NVOS46Parameters struct {
	HClient   Handle
	HDevice   Handle
	HDma      Handle
	HMemory   Handle
	Offset    uint64
	Length    uint64
	Flags     uint32
	Pad0      [4]byte
	DmaOffset uint64
	Status    uint32
	Pad1      [4]byte
}

// Fields in NVOS46Parameters.Flags.
const (
	NVOS46_FLAGS_PAGE_SIZE_DEFAULT uint32 = 0 << 8
)

// NVOS47Parameters is NVOS47_PARAMETERS, the parameter type for
// NV_ESC_RM_UNMAP_MEMORY_DMA.
type NVOS47Parameters struct {
	HClient   Handle
	HDevice   Handle
	HDma      Handle
	HMemory   Handle
	Flags     uint32
	Pad0      [4]byte
	DmaOffset uint64
	Status    uint32
	Pad1      [4]byte
}

// NVOS32Parameters is NVOS32_PARAMETERS, the parameter type for
// NV_ESC_RM_VID_HEAP_CONTROL.
type NVOS32Parameters struct {
	HRoot         Handle
	HObjectParent Handle
	Function      uint32
	HVASpace      Handle
	IVCHeapNumber int16
	Pad0          [2]byte
	Status        uint32
	Total         uint64
	Free          uint64
	Data          [144]byte // union
}

// Values for NVOS32Parameters.Function.
const (
	NVOS32_FUNCTION_ALLOC_OS_DESCRIPTOR = 27
)

// NVOS32AllocOsDesc is the type of NVOS32Parameters.Data for
// NVOS32_FUNCTION_ALLOC_OS_DESCRIPTOR.
type NVOS32AllocOsDesc struct {
	HMemory        Handle
	Type           uint32
	Flags          uint32
	Attr           uint32
	Attr2          uint32
	Pad0           [4]byte
	Descriptor     P64
	Limit          uint64
	DescriptorType uint32
	Pad1           [4]byte
}

// Values for NVOS32AllocOsDesc.DescriptorType.
const (
	NVOS32_DESCRIPTOR_TYPE_VIRTUAL_ADDRESS = 0
	NVOS32_DESCRIPTOR_TYPE_OS_PAGE_ARRAY   = 1
)

// SetAllocOsDesc stores an os-descriptor request into the parameter union.
func (p *NVOS32Parameters) SetAllocOsDesc(d NVOS32AllocOsDesc) {
	*(*NVOS32AllocOsDesc)(unsafe.Pointer(&p.Data[0])) = d
}

// AllocOsDesc reads the os-descriptor view of the parameter union.
func (p *NVOS32Parameters) AllocOsDesc() NVOS32AllocOsDesc {
	return *(*NVOS32AllocOsDesc)(unsafe.Pointer(&p.Data[0]))
}

// IOWR builds the ioctl request number for an escape with an inout payload,
// following the Linux _IOWR encoding.
func IOWR(nr int, size uintptr) uintptr {
	return 3<<30 | size<<16 | NV_IOCTL_MAGIC<<8 | uintptr(nr)
}

// Ioctl performs an escape ioctl against an open frontend fd, retrying on
// EINTR.
func Ioctl(fd int, nr int, data unsafe.Pointer, size uintptr) error {
	for {
		_, _, errno := unix.Syscall(unix.SYS_IOCTL, uintptr(fd), IOWR(nr, size), uintptr(data))
		if errno == unix.EINTR {
			continue
		}
		if errno != 0 {
			return cerrors.Wrapf(errno, "escape %#x failed", nr)
		}
		return nil
	}
}
