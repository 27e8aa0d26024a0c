package hwclass

// Video engine semaphore methods, from clc9b0.h (NVC9B0_VIDEO_DECODER) and
// clc9b7.h (NVC9B7_VIDEO_ENCODER). The semaphore block sits at the same
// offsets in both classes.

const (
	NVC9B0_SEMAPHORE_A uint32 = 0x0240
	NVC9B0_SEMAPHORE_B uint32 = 0x0244
	NVC9B0_SEMAPHORE_C uint32 = 0x0248
	NVC9B0_SEMAPHORE_D uint32 = 0x024c

	NVC9B7_SEMAPHORE_A uint32 = 0x0240
	NVC9B7_SEMAPHORE_B uint32 = 0x0244
	NVC9B7_SEMAPHORE_C uint32 = 0x0248
	NVC9B7_SEMAPHORE_D uint32 = 0x024c
)

// SEMAPHORE_D fields, pre-shifted. Shared by both classes.
const (
	NVC9B0_SEMAPHORE_D_STRUCTURE_SIZE_ONE uint32 = 0x0 << 0
	NVC9B0_SEMAPHORE_D_PAYLOAD_SIZE_32BIT uint32 = 0x0 << 1
	NVC9B0_SEMAPHORE_D_OPERATION_RELEASE  uint32 = 0x0 << 16
	NVC9B0_SEMAPHORE_D_OPERATION_TRAP     uint32 = 0x3 << 16

	NVC9B7_SEMAPHORE_D_STRUCTURE_SIZE_ONE uint32 = NVC9B0_SEMAPHORE_D_STRUCTURE_SIZE_ONE
	NVC9B7_SEMAPHORE_D_PAYLOAD_SIZE_32BIT uint32 = NVC9B0_SEMAPHORE_D_PAYLOAD_SIZE_32BIT
	NVC9B7_SEMAPHORE_D_OPERATION_RELEASE  uint32 = NVC9B0_SEMAPHORE_D_OPERATION_RELEASE
	NVC9B7_SEMAPHORE_D_OPERATION_TRAP     uint32 = NVC9B0_SEMAPHORE_D_OPERATION_TRAP
)
