package rmapi

// Control commands issued through NV_ESC_RM_CONTROL, from the ctrl/ headers
// under src/common/sdk/nvidia/inc.

// NV0000 (root client) commands.
const (
	NV0000_CTRL_CMD_GPU_GET_ID_INFO_V2        = 0x205
	NV0000_CTRL_CMD_OS_UNIX_FLUSH_USER_CACHE  = 0x3d02
)

// NV0000_CTRL_GPU_GET_ID_INFO_V2_PARAMS, from ctrl0000gpu.h.
type NV0000CtrlGpuGetIDInfoV2Params struct {
	GpuID             uint32
	GpuFlags          uint32
	DeviceInstance    uint32
	SubDeviceInstance uint32
}

// Fields in NV0000CtrlGpuGetIDInfoV2Params.GpuFlags.
const (
	NV0000_CTRL_GPU_ID_INFO_SOC_ATTACHED uint32 = 1 << 5
)

// NV0000_CTRL_OS_UNIX_FLUSH_USER_CACHE_PARAMS, from ctrl0000unix.h.
type NV0000CtrlOsUnixFlushUserCacheParams struct {
	Offset       uint64
	Length       uint64
	CacheOps     uint32
	HDevice      Handle
	HObject      Handle
	Pad0         [4]byte
	InternalOnly P64
}

// Values for NV0000CtrlOsUnixFlushUserCacheParams.CacheOps.
const (
	NV0000_CTRL_OS_UNIX_FLAGS_USER_CACHE_FLUSH            uint32 = 1
	NV0000_CTRL_OS_UNIX_FLAGS_USER_CACHE_INVALIDATE       uint32 = 2
	NV0000_CTRL_OS_UNIX_FLAGS_USER_CACHE_FLUSH_INVALIDATE uint32 = 3
)

// NV0080 (device) commands.
const (
	NV0080_CTRL_CMD_GPU_GET_CLASSLIST_V2 = 0x800292
	NV0080_CTRL_CMD_BSP_GET_CAPS_V2      = 0x801c02
)

// NV0080_CTRL_GPU_GET_CLASSLIST_V2_PARAMS, from ctrl0080gpu.h.
const NV0080_CTRL_GPU_CLASSLIST_MAX_SIZE = 116

type NV0080CtrlGpuGetClasslistV2Params struct {
	NumClasses uint32
	ClassList  [NV0080_CTRL_GPU_CLASSLIST_MAX_SIZE]uint32
}

// NV0080_CTRL_BSP_GET_CAPS_PARAMS_V2, from ctrl0080bsp.h.
type NV0080CtrlBspGetCapsParamsV2 struct {
	CapsTbl    [8]uint8
	InstanceID uint32
}

// NV2080 (subdevice) commands.
const (
	NV2080_CTRL_CMD_GPU_GET_ENGINES_V2        = 0x20800170
	NV2080_CTRL_CMD_GPU_GET_ENGINE_CLASSLIST  = 0x20800124
	NV2080_CTRL_CMD_EVENT_SET_NOTIFICATION    = 0x20800301
	NV2080_CTRL_CMD_CE_GET_CAPS_V2            = 0x20802a03
)

// NV2080 engine types, from cl2080_notification.h.
const (
	NV2080_ENGINE_TYPE_COPY0  uint32 = 0x09
	NV2080_ENGINE_TYPE_NVDEC0 uint32 = 0x13
	NV2080_ENGINE_TYPE_NVENC0 uint32 = 0x1b
	NV2080_ENGINE_TYPE_VIC    uint32 = 0x26
	NV2080_ENGINE_TYPE_NVJPEG0 uint32 = 0x2d
	NV2080_ENGINE_TYPE_OFA    uint32 = 0x35
)

// NV2080_CTRL_GPU_GET_ENGINES_V2_PARAMS, from ctrl2080gpu.h.
const NV2080_GPU_MAX_ENGINES_LIST_SIZE = 64

type NV2080CtrlGpuGetEnginesV2Params struct {
	EngineCount uint32
	EngineList  [NV2080_GPU_MAX_ENGINES_LIST_SIZE]uint32
}

// NV2080_CTRL_GPU_GET_ENGINE_CLASSLIST_PARAMS, from ctrl2080gpu.h. ClassList
// is a user pointer; a first call with NumClasses 0 returns the count.
type NV2080CtrlGpuGetEngineClasslistParams struct {
	EngineType uint32
	NumClasses uint32
	ClassList  P64
}

// NV2080_CTRL_EVENT_SET_NOTIFICATION_PARAMS, from ctrl2080event.h.
type NV2080CtrlEventSetNotificationParams struct {
	Event      uint32
	Action     uint32
	BNotifyAll uint8
	Pad0       [3]byte
}

// Values for NV2080CtrlEventSetNotificationParams.Action.
const (
	NV2080_CTRL_EVENT_SET_NOTIFICATION_ACTION_DISABLE uint32 = 0
	NV2080_CTRL_EVENT_SET_NOTIFICATION_ACTION_SINGLE  uint32 = 1
	NV2080_CTRL_EVENT_SET_NOTIFICATION_ACTION_REPEAT  uint32 = 2
)

// NV2080_CTRL_CE_GET_CAPS_V2_PARAMS, from ctrl2080ce.h.
type NV2080CtrlCeGetCapsV2Params struct {
	CEEngineType uint32
	CapsTbl      [2]uint8
	Pad0         [2]byte
}

// CE capability bits in CapsTbl[0].
const (
	NV2080_CTRL_CE_CAPS_CE_GRCE uint8 = 1 << 0
)

// NVA06F (channel) commands.
const (
	NVA06F_CTRL_CMD_GPFIFO_SCHEDULE = 0xa06f0103
	NVA06F_CTRL_CMD_BIND            = 0xa06f0104
)

// NVA06F_CTRL_GPFIFO_SCHEDULE_PARAMS, from ctrla06f.h.
type NVA06FCtrlGpfifoScheduleParams struct {
	BEnable     uint8
	BSkipSubmit uint8
}

// NVA06F_CTRL_BIND_PARAMS, from ctrla06f.h.
type NVA06FCtrlBindParams struct {
	EngineType uint32
}

// NVC36F (GPFIFO channel) commands.
const (
	NVC36F_CTRL_CMD_GPFIFO_GET_WORK_SUBMIT_TOKEN = 0xc36f0108
)

// NVC36F_CTRL_CMD_GPFIFO_GET_WORK_SUBMIT_TOKEN_PARAMS, from ctrlc36f.h.
type NVC36FCtrlCmdGpfifoGetWorkSubmitTokenParams struct {
	WorkSubmitToken uint32
}
