package nvrm

import (
	"os"
	"sync/atomic"
	"unsafe"

	cerrors "github.com/cockroachdb/errors"

	"github.com/nvwrapper/mmsub/core"
	"github.com/nvwrapper/mmsub/gpfifo"
	"github.com/nvwrapper/mmsub/hwclass"
	"github.com/nvwrapper/mmsub/nvutils"
	"github.com/nvwrapper/mmsub/rmapi"
)

const (
	// gpfifoEntries sizes the ring. Each submit consumes two entries.
	// Must stay at 256 so the int8 compare on the released fetch
	// position is exact over the whole ring.
	gpfifoEntries = 0x100

	// userdSize covers NV_RAMUSERD.
	userdSize = 0x200

	// userdGPPut is the GP_PUT offset within USERD.
	userdGPPut = 0x88

	// releaseGatherWords is the fixed size of the per-slot completion
	// gather, four methods of two words each.
	releaseGatherWords = 8
)

// Channel is an open GPFIFO channel bound to one engine. It implements
// core.Channel.
type Channel struct {
	dev    *Device
	engine core.Engine

	handle       rmapi.Handle
	engineHandle rmapi.Handle
	engineType   uint32
	class        uint32

	mem          *Map
	ringOffset   int
	userdOffset  int
	gatherOffset int

	submitToken  uint32
	gpPut        uint32
	fenceID      uint32
	pbdmaFenceID uint32
	fenceCounter uint32
}

func (d *Device) engineClass(engine core.Engine) (class, engineType uint32, err error) {
	switch engine {
	case core.EngineCopy:
		return d.classes[classSuffixCopy], d.ceEngineType, nil
	case core.EngineNvdec:
		return d.classes[classSuffixNvdec], rmapi.NV2080_ENGINE_TYPE_NVDEC0, nil
	case core.EngineNvenc:
		return d.classes[classSuffixNvenc], rmapi.NV2080_ENGINE_TYPE_NVENC0, nil
	case core.EngineNvjpg:
		return d.classes[classSuffixNvjpg], rmapi.NV2080_ENGINE_TYPE_NVJPEG0, nil
	case core.EngineOfa:
		return d.classes[classSuffixOfa], rmapi.NV2080_ENGINE_TYPE_OFA, nil
	case core.EngineVic:
		return d.classes[classSuffixVic], rmapi.NV2080_ENGINE_TYPE_VIC, nil
	}
	return 0, 0, cerrors.Wrapf(nvutils.ErrInvalidArgument, "engine %s cannot back a channel", engine)
}

// CreateChannel opens a GPFIFO channel on an engine.
func (d *Device) CreateChannel(engine core.Engine) (core.Channel, error) {
	if !d.info.HasEngine(engine) {
		return nil, cerrors.Wrapf(nvutils.ErrNotImplemented, "engine %s not present", engine)
	}
	class, engineType, err := d.engineClass(engine)
	if err != nil {
		return nil, err
	}
	if class == 0 {
		return nil, cerrors.Wrapf(nvutils.ErrNotImplemented, "no class for engine %s", engine)
	}

	ch := &Channel{
		dev:        d,
		engine:     engine,
		engineType: engineType,
		class:      class,
	}
	if err := ch.initialize(); err != nil {
		ch.Close()
		return nil, err
	}
	return ch, nil
}

func (ch *Channel) initialize() error {
	d := ch.dev

	ch.ringOffset = 0
	ch.userdOffset = gpfifoEntries * hwclass.NVC76F_GP_ENTRY__SIZE
	ch.gatherOffset = ch.userdOffset + userdSize
	memSize := nvutils.AlignUp(ch.gatherOffset+gpfifoEntries*releaseGatherWords*4, os.Getpagesize())

	mem, err := d.CreateMap(memSize, os.Getpagesize(),
		core.MapCPUWriteCombine|core.MapGPUCacheable|core.MapUsageCmdbuf|core.MapLocationHost)
	if err != nil {
		return cerrors.Wrap(err, "allocating channel memory")
	}
	ch.mem = mem.(*Map)

	ch.handle = d.rm.newHandle()
	params := rmapi.NV_CHANNEL_ALLOC_PARAMS{
		HObjectBuffer: ch.mem.handle,
		GPFIFOOffset:  ch.mem.GPUAddrPitch() + uint64(ch.ringOffset),
		GPFIFOEntries: gpfifoEntries,
		HVASpace:      d.vaspace,
		EngineType:    ch.engineType,
	}
	params.HUserdMemory[0] = ch.mem.handle
	params.UserdOffset[0] = uint64(ch.userdOffset)
	if err := d.rm.alloc(d.device, ch.handle, rmapi.ClassID(d.classes[classSuffixGpfifo]),
		unsafe.Pointer(&params), unsafe.Sizeof(params)); err != nil {
		return cerrors.Wrap(err, "allocating channel")
	}

	if err := ch.allocEngineObject(); err != nil {
		return err
	}

	bind := rmapi.NVA06FCtrlBindParams{EngineType: ch.engineType}
	if err := d.rm.control(ch.handle, rmapi.NVA06F_CTRL_CMD_BIND,
		unsafe.Pointer(&bind), unsafe.Sizeof(bind)); err != nil {
		return cerrors.Wrap(err, "binding channel")
	}

	token := rmapi.NVC36FCtrlCmdGpfifoGetWorkSubmitTokenParams{}
	if err := d.rm.control(ch.handle, rmapi.NVC36F_CTRL_CMD_GPFIFO_GET_WORK_SUBMIT_TOKEN,
		unsafe.Pointer(&token), unsafe.Sizeof(token)); err != nil {
		return cerrors.Wrap(err, "fetching submit token")
	}
	ch.submitToken = token.WorkSubmitToken

	schedule := rmapi.NVA06FCtrlGpfifoScheduleParams{BEnable: 1}
	if err := d.rm.control(ch.handle, rmapi.NVA06F_CTRL_CMD_GPFIFO_SCHEDULE,
		unsafe.Pointer(&schedule), unsafe.Sizeof(schedule)); err != nil {
		return cerrors.Wrap(err, "scheduling channel")
	}

	if ch.fenceID, err = d.allocFence(); err != nil {
		return err
	}
	if ch.pbdmaFenceID, err = d.allocFence(); err != nil {
		return err
	}
	return nil
}

func (ch *Channel) allocEngineObject() error {
	d := ch.dev
	ch.engineHandle = d.rm.newHandle()
	class := rmapi.ClassID(ch.class)

	switch ch.engine {
	case core.EngineCopy:
		p := rmapi.NVB0B5_ALLOCATION_PARAMETERS{EngineType: ch.engineType}
		return d.rm.alloc(ch.handle, ch.engineHandle, class, unsafe.Pointer(&p), unsafe.Sizeof(p))
	case core.EngineNvdec:
		p := rmapi.NV_BSP_ALLOCATION_PARAMETERS{}
		return d.rm.alloc(ch.handle, ch.engineHandle, class, unsafe.Pointer(&p), unsafe.Sizeof(p))
	case core.EngineNvenc:
		p := rmapi.NV_MSENC_ALLOCATION_PARAMETERS{}
		return d.rm.alloc(ch.handle, ch.engineHandle, class, unsafe.Pointer(&p), unsafe.Sizeof(p))
	case core.EngineNvjpg:
		p := rmapi.NV_NVJPG_ALLOCATION_PARAMETERS{}
		return d.rm.alloc(ch.handle, ch.engineHandle, class, unsafe.Pointer(&p), unsafe.Sizeof(p))
	case core.EngineOfa:
		p := rmapi.NV_OFA_ALLOCATION_PARAMETERS{}
		return d.rm.alloc(ch.handle, ch.engineHandle, class, unsafe.Pointer(&p), unsafe.Sizeof(p))
	}
	return d.rm.alloc(ch.handle, ch.engineHandle, class, nil, 0)
}

// Engine reports the engine the channel was created for.
func (ch *Channel) Engine() core.Engine {
	return ch.engine
}

// CreateCmdbuf returns an empty pushbuffer wired to this channel.
func (ch *Channel) CreateCmdbuf() (core.Cmdbuf, error) {
	return gpfifo.New(gpfifo.Config{
		Engine:        ch.engine,
		SemaphoreBase: ch.dev.semaphores.GPUAddrPitch(),
	}), nil
}

// pushRelease appends the engine's completion methods to the pushbuffer. The
// semaphore release makes the fence observable, the trailing interrupt wakes
// CPU waiters.
func (ch *Channel) pushRelease(cb *gpfifo.Cmdbuf, value uint32) error {
	sem := ch.dev.semaphores
	off := ch.fenceID * 4

	if err := cb.Begin(ch.engine); err != nil {
		return err
	}
	switch ch.engine {
	case core.EngineCopy:
		if err := cb.PushReloc(hwclass.NVC7B5_SET_SEMAPHORE_A, sem, off, core.RelocDefault, 0); err != nil {
			return err
		}
		if err := cb.PushValue(hwclass.NVC7B5_SET_SEMAPHORE_PAYLOAD, value); err != nil {
			return err
		}
		if err := cb.PushValue(hwclass.NVC7B5_LAUNCH_DMA,
			hwclass.NVC7B5_LAUNCH_DMA_DATA_TRANSFER_TYPE_NONE|
				hwclass.NVC7B5_LAUNCH_DMA_SEMAPHORE_TYPE_RELEASE_ONE_WORD|
				hwclass.NVC7B5_LAUNCH_DMA_INTERRUPT_TYPE_NON_BLOCKING); err != nil {
			return err
		}
	case core.EngineNvdec, core.EngineNvenc:
		if err := cb.PushReloc(hwclass.NVC9B0_SEMAPHORE_A, sem, off, core.RelocDefault, 0); err != nil {
			return err
		}
		if err := cb.PushValue(hwclass.NVC9B0_SEMAPHORE_C, value); err != nil {
			return err
		}
		if err := cb.PushValue(hwclass.NVC9B0_SEMAPHORE_D,
			hwclass.NVC9B0_SEMAPHORE_D_OPERATION_RELEASE|
				hwclass.NVC9B0_SEMAPHORE_D_STRUCTURE_SIZE_ONE|
				hwclass.NVC9B0_SEMAPHORE_D_PAYLOAD_SIZE_32BIT); err != nil {
			return err
		}
		if err := cb.PushValue(hwclass.NVC9B0_SEMAPHORE_D,
			hwclass.NVC9B0_SEMAPHORE_D_OPERATION_TRAP); err != nil {
			return err
		}
	default:
		cb.End()
		return cerrors.Wrapf(nvutils.ErrInvalidArgument, "engine %s has no completion path", ch.engine)
	}
	if err := cb.End(); err != nil {
		return err
	}

	if err := cb.Begin(core.EngineHost); err != nil {
		return err
	}
	if err := cb.PushValue(hwclass.NVC76F_NON_STALL_INTERRUPT, 0); err != nil {
		return err
	}
	return cb.End()
}

// buildPbdmaGather writes the per-slot completion gather that releases the
// ring-position fence once the pushbuffer fetch has passed.
func (ch *Channel) buildPbdmaGather(slot, pos uint32) uint64 {
	addr := ch.dev.semaphores.GPUAddrPitch() + uint64(ch.pbdmaFenceID)*4
	base := ch.gatherOffset + int(slot)*releaseGatherWords*4
	words := nvutils.SliceCast[uint32](ch.mem.Bytes()[base : base+releaseGatherWords*4])

	words[0] = hwclass.DMAIncr(gpfifo.SubchannelHost, hwclass.NVC76F_SEM_ADDR_LO, 1)
	words[1] = uint32(addr)
	words[2] = hwclass.DMAIncr(gpfifo.SubchannelHost, hwclass.NVC76F_SEM_ADDR_HI, 1)
	words[3] = uint32(addr >> 32)
	words[4] = hwclass.DMAIncr(gpfifo.SubchannelHost, hwclass.NVC76F_SEM_PAYLOAD_LO, 1)
	words[5] = pos
	words[6] = hwclass.DMAIncr(gpfifo.SubchannelHost, hwclass.NVC76F_SEM_EXECUTE, 1)
	words[7] = hwclass.NVC76F_SEM_EXECUTE_OPERATION_RELEASE |
		hwclass.NVC76F_SEM_EXECUTE_RELEASE_WFI_DIS |
		hwclass.NVC76F_SEM_EXECUTE_PAYLOAD_SIZE_32BIT |
		hwclass.NVC76F_SEM_EXECUTE_RELEASE_TIMESTAMP_DIS

	return ch.mem.GPUAddrPitch() + uint64(base)
}

// Submit appends completion methods to the pushbuffer, publishes it on the
// ring and rings the doorbell.
func (ch *Channel) Submit(cmdbuf core.Cmdbuf) (core.Fence, error) {
	cb, ok := cmdbuf.(*gpfifo.Cmdbuf)
	if !ok {
		return 0, cerrors.Wrap(nvutils.ErrInvalidArgument, "pushbuffer built for another channel type")
	}
	mem, off := cb.Memory()
	if mem == nil || cb.NumWords() == 0 {
		return 0, cerrors.Wrap(nvutils.ErrInvalidArgument, "empty pushbuffer")
	}

	prev := ch.gpPut
	pos := (prev + 2) & (gpfifoEntries - 1)

	// A fetch position past the slot about to be reused means the channel
	// stopped consuming the ring.
	cell := atomic.LoadUint32(ch.dev.fenceCell(ch.pbdmaFenceID))
	if int8(cell-prev) > 0 {
		return 0, cerrors.Wrap(nvutils.ErrFault, "channel stopped fetching")
	}

	value := ch.fenceCounter + 1
	if err := ch.pushRelease(cb, value); err != nil {
		return 0, err
	}
	ch.fenceCounter = value

	if mem.Flags().CPU() != core.MapCPUUncacheable {
		nvutils.WriteFence()
	}

	userAddr := mem.GPUAddrPitch() + uint64(off)
	gatherAddr := ch.buildPbdmaGather(prev, pos)

	ring := nvutils.SliceCast[uint32](ch.mem.Bytes()[ch.ringOffset : ch.ringOffset+gpfifoEntries*hwclass.NVC76F_GP_ENTRY__SIZE])
	e0, e1 := gpfifo.GPEntry(userAddr, uint32(cb.NumWords()))
	ring[prev*2] = e0
	ring[prev*2+1] = e1
	next := (prev + 1) & (gpfifoEntries - 1)
	e0, e1 = gpfifo.GPEntry(gatherAddr, releaseGatherWords)
	ring[next*2] = e0
	ring[next*2+1] = e1

	gpPut := (*uint32)(unsafe.Pointer(&ch.mem.Bytes()[ch.userdOffset+userdGPPut]))
	nvutils.StoreRelease(gpPut, pos)
	ch.dev.doorbell(ch.submitToken)
	ch.gpPut = pos

	return core.MakeFence(ch.fenceID, value), nil
}

// ClockRate reports the current video clock in Hz from the shared data
// region.
func (ch *Channel) ClockRate() (uint32, error) {
	return ch.dev.videoClockRate()
}

// SetClockRate rejects engines without clock control. On multimedia engines
// the request is accepted and ignored, the driver manages clocks on
// discrete GPUs.
func (ch *Channel) SetClockRate(rate uint32) error {
	if !ch.engine.Multimedia() {
		return cerrors.Wrapf(nvutils.ErrNotImplemented, "engine %s has no clock control", ch.engine)
	}
	return nil
}

// Close frees the channel and its backing memory.
func (ch *Channel) Close() error {
	d := ch.dev
	if ch.engineHandle != 0 {
		d.rm.free(ch.handle, ch.engineHandle)
		ch.engineHandle = 0
	}
	if ch.handle != 0 {
		d.rm.free(d.device, ch.handle)
		ch.handle = 0
	}
	if ch.mem != nil {
		ch.mem.Close()
		ch.mem = nil
	}
	return nil
}
