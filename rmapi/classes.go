package rmapi

// Class identifiers, from src/nvidia/generated/g_allclasses.h.
const (
	NV01_ROOT_CLIENT      ClassID = 0x00000041
	NV01_DEVICE_0         ClassID = 0x00000080
	NV20_SUBDEVICE_0      ClassID = 0x00002080
	NV01_MEMORY_SYSTEM    ClassID = 0x0000003e
	NV01_MEMORY_LOCAL_USER ClassID = 0x00000040
	NV01_MEMORY_VIRTUAL   ClassID = 0x00000070
	NV01_EVENT_OS_EVENT   ClassID = 0x00000079
	RM_USER_SHARED_DATA   ClassID = 0x000000de
)

// NV0080_ALLOC_PARAMETERS is the alloc params type for NV01_DEVICE_0, from
// src/common/sdk/nvidia/inc/class/cl0080.h.
type NV0080_ALLOC_PARAMETERS struct {
	DeviceID        uint32
	HClientShare    Handle
	HTargetClient   Handle
	HTargetDevice   Handle
	Flags           uint32
	Pad0            [4]byte
	VASpaceSize     uint64
	VAStartInternal uint64
	VALimitInternal uint64
	VAMode          uint32
	Pad1            [4]byte
}

// NV2080_ALLOC_PARAMETERS is the alloc params type for NV20_SUBDEVICE_0,
// from src/common/sdk/nvidia/inc/class/cl2080.h.
type NV2080_ALLOC_PARAMETERS struct {
	SubDeviceID uint32
}

// NV0005_ALLOC_PARAMETERS is the alloc params type for NV01_EVENT_OS_EVENT,
// from src/common/sdk/nvidia/inc/class/cl0005.h. Data carries the event fd.
type NV0005_ALLOC_PARAMETERS struct {
	HParentClient Handle
	HSrcResource  Handle
	HClass        uint32
	NotifyIndex   uint32
	Data          P64
}

// Fields in NV0005_ALLOC_PARAMETERS.NotifyIndex.
const (
	NV01_EVENT_NONSTALL_INTR        uint32 = 1 << 30
	NV01_EVENT_WITHOUT_EVENT_DATA   uint32 = 1 << 31
)

// NV_MEMORY_ALLOCATION_PARAMS is the alloc params type for the NV01_MEMORY
// classes, from src/common/sdk/nvidia/inc/nvos.h.
type NV_MEMORY_ALLOCATION_PARAMS struct {
	Owner         uint32
	Type          uint32
	Flags         uint32
	Width         uint32
	Height        uint32
	Pitch         uint32
	Attr          uint32
	Attr2         uint32
	Format        uint32
	ComprCovg     uint32
	ZcullCovg     uint32
	Pad0          [4]byte
	RangeLo       uint64
	RangeHi       uint64
	Size          uint64
	Alignment     uint64
	Offset        uint64
	Limit         uint64
	Address       P64
	CtagOffset    uint64
	HVASpace      Handle
	InternalFlags uint32
	Tag           uint32
	NumaNode      uint32
}

// Values for NV_MEMORY_ALLOCATION_PARAMS.Type.
const (
	NVOS32_TYPE_IMAGE = 0
)

// Flags in NV_MEMORY_ALLOCATION_PARAMS.Flags, from nvos.h.
const (
	NVOS32_ALLOC_FLAGS_ALIGNMENT_FORCE   uint32 = 0x00000010
	NVOS32_ALLOC_FLAGS_MAP_NOT_REQUIRED  uint32 = 0x00000400
	NVOS32_ALLOC_FLAGS_PERSISTENT_VIDMEM uint32 = 0x00000800
)

// Fields in NV_MEMORY_ALLOCATION_PARAMS.Attr.
const (
	NVOS32_ATTR_PAGE_SIZE_DEFAULT uint32 = 0 << 23
	NVOS32_ATTR_PAGE_SIZE_4KB     uint32 = 1 << 23
	NVOS32_ATTR_PAGE_SIZE_BIG     uint32 = 2 << 23
	NVOS32_ATTR_PAGE_SIZE_HUGE    uint32 = 3 << 23

	NVOS32_ATTR_LOCATION_VIDMEM uint32 = 0 << 25
	NVOS32_ATTR_LOCATION_PCI    uint32 = 1 << 25

	NVOS32_ATTR_PHYSICALITY_DEFAULT       uint32 = 0 << 27
	NVOS32_ATTR_PHYSICALITY_NONCONTIGUOUS uint32 = 1 << 27
	NVOS32_ATTR_PHYSICALITY_CONTIGUOUS    uint32 = 2 << 27

	NVOS32_ATTR_COHERENCY_UNCACHED      uint32 = 0 << 29
	NVOS32_ATTR_COHERENCY_CACHED        uint32 = 1 << 29
	NVOS32_ATTR_COHERENCY_WRITE_COMBINE uint32 = 2 << 29
	NVOS32_ATTR_COHERENCY_WRITE_BACK    uint32 = 5 << 29

	NVOS32_ATTR_PHYSICALITY_MASK uint32 = 3 << 27
	NVOS32_ATTR_LOCATION_MASK    uint32 = 3 << 25
	NVOS32_ATTR_PAGE_SIZE_MASK   uint32 = 3 << 23
	NVOS32_ATTR_COHERENCY_MASK   uint32 = 7 << 29
)

// Fields in NV_MEMORY_ALLOCATION_PARAMS.Attr2.
const (
	NVOS32_ATTR2_ZBC_PREFER_NO_ZBC uint32 = 2 << 0
	NVOS32_ATTR2_GPU_CACHEABLE_YES uint32 = 1 << 2
	NVOS32_ATTR2_GPU_CACHEABLE_NO  uint32 = 2 << 2

	NVOS32_ATTR2_PAGE_SIZE_HUGE_DEFAULT uint32 = 0 << 20
)

// NV_MEMORY_VIRTUAL_ALLOCATION_PARAMS is the alloc params type for
// NV01_MEMORY_VIRTUAL, from src/common/sdk/nvidia/inc/class/cl0070.h.
type NV_MEMORY_VIRTUAL_ALLOCATION_PARAMS struct {
	Offset   uint64
	Limit    uint64
	HVASpace Handle
	Pad0     [4]byte
}

// NV_MEMORY_DESC_PARAMS is from
// src/common/sdk/nvidia/inc/alloc/alloc_channel.h.
type NV_MEMORY_DESC_PARAMS struct {
	Base         uint64
	Size         uint64
	AddressSpace uint32
	CacheAttrib  uint32
}

// NV_MAX_SUBDEVICES bounds the per-subdevice arrays in channel allocation.
const NV_MAX_SUBDEVICES = 8

// NV_CHANNEL_ALLOC_PARAMS is the alloc params type for the GPFIFO channel
// classes, from src/common/sdk/nvidia/inc/alloc/alloc_channel.h.
type NV_CHANNEL_ALLOC_PARAMS struct {
	HObjectError        Handle
	HObjectBuffer       Handle
	GPFIFOOffset        uint64
	GPFIFOEntries       uint32
	Flags               uint32
	HContextShare       Handle
	HVASpace            Handle
	HUserdMemory        [NV_MAX_SUBDEVICES]Handle
	UserdOffset         [NV_MAX_SUBDEVICES]uint64
	EngineType          uint32
	CID                 uint32
	SubDeviceID         uint32
	HObjectECCError     Handle
	InstanceMem         NV_MEMORY_DESC_PARAMS
	UserdMem            NV_MEMORY_DESC_PARAMS
	RamfcMem            NV_MEMORY_DESC_PARAMS
	MthdbufMem          NV_MEMORY_DESC_PARAMS
	HPhysChannelGroup   Handle
	InternalFlags       uint32
	ErrorNotifierMem    NV_MEMORY_DESC_PARAMS
	ECCErrorNotifierMem NV_MEMORY_DESC_PARAMS
	ProcessID           uint32
	SubProcessID        uint32
}

// NVB0B5_ALLOCATION_PARAMETERS is the alloc params type for the DMA copy
// classes, from src/common/sdk/nvidia/inc/class/clb0b5sw.h.
type NVB0B5_ALLOCATION_PARAMETERS struct {
	Version    uint32
	EngineType uint32
}

// NV_BSP_ALLOCATION_PARAMETERS is the alloc params type for the video
// decoder classes, from src/common/sdk/nvidia/inc/nvos.h.
type NV_BSP_ALLOCATION_PARAMETERS struct {
	Size                      uint32
	ProhibitMultipleInstances uint32
	EngineInstance            uint32
}

// NV_MSENC_ALLOCATION_PARAMETERS is the alloc params type for the video
// encoder classes.
type NV_MSENC_ALLOCATION_PARAMETERS struct {
	Size                      uint32
	ProhibitMultipleInstances uint32
	EngineInstance            uint32
}

// NV_NVJPG_ALLOCATION_PARAMETERS is the alloc params type for the NVJPG
// classes.
type NV_NVJPG_ALLOCATION_PARAMETERS struct {
	Size                      uint32
	ProhibitMultipleInstances uint32
	EngineInstance            uint32
}

// NV_OFA_ALLOCATION_PARAMETERS is the alloc params type for the OFA classes.
type NV_OFA_ALLOCATION_PARAMETERS struct {
	Size                      uint32
	ProhibitMultipleInstances uint32
	EngineInstance            uint32
}

// NV00DE_ALLOC_PARAMETERS is the alloc params type for RM_USER_SHARED_DATA,
// from src/common/sdk/nvidia/inc/class/cl00de.h.
type NV00DE_ALLOC_PARAMETERS struct {
	PolledDataMask uint64
}
