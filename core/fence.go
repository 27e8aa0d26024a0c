package core

import (
	"fmt"

	"github.com/nvwrapper/mmsub/nvutils"
)

// Fence is a completion token returned by a submission. It packs the
// syncpoint or semaphore slot id in the high half and the target value in
// the low half. The zero Fence is invalid and always treated as signaled.
type Fence uint64

func MakeFence(id, value uint32) Fence {
	return Fence(nvutils.MakeFence(id, value))
}

func (f Fence) ID() uint32 {
	return nvutils.FenceID(uint64(f))
}

func (f Fence) Value() uint32 {
	return nvutils.FenceValue(uint64(f))
}

func (f Fence) Valid() bool {
	return f.ID() != 0
}

func (f Fence) String() string {
	return fmt.Sprintf("Fence{id: %d, value: %#x}", f.ID(), f.Value())
}
