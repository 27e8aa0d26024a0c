package hwclass

// Host channel methods and fields, from clc76f.h (AMPERE_CHANNEL_GPFIFO_A).

const (
	NVC76F_SET_OBJECT          uint32 = 0x0000
	NVC76F_NON_STALL_INTERRUPT uint32 = 0x0020
	NVC76F_MEM_OP_A            uint32 = 0x0028
	NVC76F_MEM_OP_B            uint32 = 0x002c
	NVC76F_MEM_OP_C            uint32 = 0x0030
	NVC76F_MEM_OP_D            uint32 = 0x0034
	NVC76F_SET_REFERENCE       uint32 = 0x0050
	NVC76F_SEM_ADDR_LO         uint32 = 0x005c
	NVC76F_SEM_ADDR_HI         uint32 = 0x0060
	NVC76F_SEM_PAYLOAD_LO      uint32 = 0x0064
	NVC76F_SEM_PAYLOAD_HI      uint32 = 0x0068
	NVC76F_SEM_EXECUTE         uint32 = 0x006c
	NVC76F_SYNCPOINTA          uint32 = 0x0070
	NVC76F_SYNCPOINTB          uint32 = 0x0074
)

// SEM_EXECUTE fields, pre-shifted.
const (
	NVC76F_SEM_EXECUTE_OPERATION_ACQUIRE       uint32 = 0x0 << 0
	NVC76F_SEM_EXECUTE_OPERATION_RELEASE       uint32 = 0x1 << 0
	NVC76F_SEM_EXECUTE_OPERATION_ACQ_CIRC_GEQ  uint32 = 0x3 << 0
	NVC76F_SEM_EXECUTE_ACQUIRE_SWITCH_TSG_EN   uint32 = 0x1 << 12
	NVC76F_SEM_EXECUTE_RELEASE_WFI_DIS         uint32 = 0x0 << 20
	NVC76F_SEM_EXECUTE_RELEASE_WFI_EN          uint32 = 0x1 << 20
	NVC76F_SEM_EXECUTE_PAYLOAD_SIZE_32BIT      uint32 = 0x0 << 24
	NVC76F_SEM_EXECUTE_PAYLOAD_SIZE_64BIT      uint32 = 0x1 << 24
	NVC76F_SEM_EXECUTE_RELEASE_TIMESTAMP_DIS   uint32 = 0x0 << 25
	NVC76F_SEM_EXECUTE_RELEASE_TIMESTAMP_EN    uint32 = 0x1 << 25
)

// SYNCPOINTB fields.
const (
	NVC76F_SYNCPOINTB_OPERATION_WAIT     uint32 = 0x0 << 0
	NVC76F_SYNCPOINTB_OPERATION_INCR     uint32 = 0x1 << 0
	NVC76F_SYNCPOINTB_WAIT_SWITCH_EN     uint32 = 0x1 << 4
	NVC76F_SYNCPOINTB_SYNCPT_INDEX_SHIFT        = 8
)

// MEM_OP_D operations, pre-shifted into bits 31:27.
const (
	NVC76F_MEM_OP_D_OPERATION_L2_SYSMEM_INVALIDATE uint32 = 0x0e << 27
	NVC76F_MEM_OP_D_OPERATION_L2_FLUSH_DIRTY       uint32 = 0x10 << 27
)

// GPFIFO entry layout. Entry 0 holds bits 31:2 of the gather address, entry
// 1 holds bits 39:32 in its low byte and the word count in bits 30:10.
const (
	NVC76F_GP_ENTRY__SIZE = 8

	NVC76F_GP_ENTRY0_GET_SHIFT    = 2
	NVC76F_GP_ENTRY1_GET_HI_MASK  = 0xff
	NVC76F_GP_ENTRY1_LENGTH_SHIFT = 10
)

// Pushbuffer method headers (DMA opcodes), fields pre-shifted.
const (
	NVC76F_DMA_INCR_OPCODE_VALUE      uint32 = 0x1 << 29
	NVC76F_DMA_NONINCR_OPCODE_VALUE   uint32 = 0x3 << 29
	NVC76F_DMA_IMMD_OPCODE_VALUE      uint32 = 0x4 << 29
	NVC76F_DMA_COUNT_SHIFT                   = 16
	NVC76F_DMA_SUBCHANNEL_SHIFT              = 13
	NVC76F_DMA_ADDRESS_SHIFT                 = 0
)

// DMAIncr builds an incrementing-method header.
func DMAIncr(subchannel, offset, count uint32) uint32 {
	return NVC76F_DMA_INCR_OPCODE_VALUE |
		count<<NVC76F_DMA_COUNT_SHIFT |
		subchannel<<NVC76F_DMA_SUBCHANNEL_SHIFT |
		(offset >> 2)
}

// Usermode MMIO region, from clc361.h (VOLTA_USERMODE_A).
const (
	NVC361_NV_USERMODE__SIZE        = 0x10000
	NVC361_NOTIFY_CHANNEL_PENDING   uint32 = 0x0090
)
