package rmapi

// RM status codes, from src/common/sdk/nvidia/inc/nvstatuscodes.h. Only the
// codes the backend maps to errors appear here.
const (
	NV_OK                   uint32 = 0x0
	NV_ERR_INVALID_ARGUMENT uint32 = 0x1e
	NV_ERR_NO_MEMORY        uint32 = 0x51
	NV_ERR_NOT_SUPPORTED    uint32 = 0x56
	NV_ERR_TIMEOUT          uint32 = 0x65
	NV_ERR_GENERIC          uint32 = 0xffff
)
