package hwclass

// Copy engine methods and fields, from clc7b5.h (AMPERE_DMA_COPY_B).

const (
	NVC7B5_SET_SEMAPHORE_A       uint32 = 0x0240
	NVC7B5_SET_SEMAPHORE_B       uint32 = 0x0244
	NVC7B5_SET_SEMAPHORE_PAYLOAD uint32 = 0x0248
	NVC7B5_LAUNCH_DMA            uint32 = 0x0300
	NVC7B5_OFFSET_IN_UPPER       uint32 = 0x0400
	NVC7B5_OFFSET_IN_LOWER       uint32 = 0x0404
	NVC7B5_OFFSET_OUT_UPPER      uint32 = 0x0408
	NVC7B5_OFFSET_OUT_LOWER      uint32 = 0x040c
	NVC7B5_PITCH_IN              uint32 = 0x0410
	NVC7B5_PITCH_OUT             uint32 = 0x0414
	NVC7B5_LINE_LENGTH_IN        uint32 = 0x0418
	NVC7B5_LINE_COUNT            uint32 = 0x041c
	NVC7B5_SET_REMAP_CONST_A     uint32 = 0x0700
	NVC7B5_SET_REMAP_CONST_B     uint32 = 0x0704
	NVC7B5_SET_REMAP_COMPONENTS  uint32 = 0x0708
	NVC7B5_SET_DST_BLOCK_SIZE    uint32 = 0x070c
	NVC7B5_SET_DST_WIDTH         uint32 = 0x0710
	NVC7B5_SET_DST_HEIGHT        uint32 = 0x0714
	NVC7B5_SET_DST_DEPTH         uint32 = 0x0718
	NVC7B5_SET_SRC_BLOCK_SIZE    uint32 = 0x0728
	NVC7B5_SET_SRC_WIDTH         uint32 = 0x072c
	NVC7B5_SET_SRC_HEIGHT        uint32 = 0x0730
	NVC7B5_SET_SRC_DEPTH         uint32 = 0x0734
)

// LAUNCH_DMA fields, pre-shifted.
const (
	NVC7B5_LAUNCH_DMA_DATA_TRANSFER_TYPE_NONE          uint32 = 0x0 << 0
	NVC7B5_LAUNCH_DMA_DATA_TRANSFER_TYPE_PIPELINED     uint32 = 0x1 << 0
	NVC7B5_LAUNCH_DMA_DATA_TRANSFER_TYPE_NON_PIPELINED uint32 = 0x2 << 0
	NVC7B5_LAUNCH_DMA_FLUSH_ENABLE_TRUE                uint32 = 0x1 << 2
	NVC7B5_LAUNCH_DMA_SEMAPHORE_TYPE_RELEASE_ONE_WORD  uint32 = 0x1 << 3
	NVC7B5_LAUNCH_DMA_INTERRUPT_TYPE_NON_BLOCKING      uint32 = 0x2 << 5
	NVC7B5_LAUNCH_DMA_SRC_MEMORY_LAYOUT_BLOCKLINEAR    uint32 = 0x0 << 7
	NVC7B5_LAUNCH_DMA_SRC_MEMORY_LAYOUT_PITCH          uint32 = 0x1 << 7
	NVC7B5_LAUNCH_DMA_DST_MEMORY_LAYOUT_BLOCKLINEAR    uint32 = 0x0 << 8
	NVC7B5_LAUNCH_DMA_DST_MEMORY_LAYOUT_PITCH          uint32 = 0x1 << 8
	NVC7B5_LAUNCH_DMA_MULTI_LINE_ENABLE_TRUE           uint32 = 0x1 << 9
	NVC7B5_LAUNCH_DMA_REMAP_ENABLE_TRUE                uint32 = 0x1 << 10
)

// SET_REMAP_COMPONENTS fields, pre-shifted.
const (
	NVC7B5_SET_REMAP_COMPONENTS_DST_X_CONST_A         uint32 = 0x4 << 0
	NVC7B5_SET_REMAP_COMPONENTS_DST_Y_CONST_A         uint32 = 0x4 << 4
	NVC7B5_SET_REMAP_COMPONENTS_DST_Z_CONST_A         uint32 = 0x4 << 8
	NVC7B5_SET_REMAP_COMPONENTS_DST_W_CONST_A         uint32 = 0x4 << 12
	NVC7B5_SET_REMAP_COMPONENTS_COMPONENT_SIZE_ONE    uint32 = 0x0 << 16
	NVC7B5_SET_REMAP_COMPONENTS_NUM_SRC_COMPONENTS_ONE uint32 = 0x0 << 20
	NVC7B5_SET_REMAP_COMPONENTS_NUM_DST_COMPONENTS_ONE uint32 = 0x0 << 24
)

// Block size fields. Width and depth stay at one GOB, height is the log2 of
// the GOB count.
const (
	NVC7B5_SET_BLOCK_SIZE_WIDTH_ONE_GOB       uint32 = 0x0 << 0
	NVC7B5_SET_BLOCK_SIZE_HEIGHT_SHIFT               = 4
	NVC7B5_SET_BLOCK_SIZE_DEPTH_ONE_GOB       uint32 = 0x0 << 8
	NVC7B5_SET_BLOCK_SIZE_GOB_HEIGHT_FERMI_8  uint32 = 0x1 << 12
)
