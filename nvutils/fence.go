package nvutils

import "sync/atomic"

// Fences pack a 32-bit syncpoint or semaphore slot id with a 32-bit target value.
// An id of zero denotes an invalid fence.

func MakeFence(id, value uint32) uint64 {
	return uint64(id)<<32 | uint64(value)
}

func FenceID(fence uint64) uint32 {
	return uint32(fence >> 32)
}

func FenceValue(fence uint64) uint32 {
	return uint32(fence)
}

// FenceReached reports whether a hardware counter has passed the expected value,
// tolerating wraparound of the 32-bit cell.
func FenceReached(cell, expected uint32) bool {
	return int32(cell-expected) >= 0
}

// StoreRelease publishes buffered command words before the doorbell write that
// makes them visible to the hardware.
func StoreRelease(addr *uint32, value uint32) {
	atomic.StoreUint32(addr, value)
}

// WriteFence orders prior plain stores against a subsequent device-visible write.
func WriteFence() {
	var guard uint32
	atomic.StoreUint32(&guard, 1)
}
