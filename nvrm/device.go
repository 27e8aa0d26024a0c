package nvrm

import (
	"fmt"
	"os"
	"sync"
	"sync/atomic"
	"time"
	"unsafe"

	cerrors "github.com/cockroachdb/errors"
	"golang.org/x/exp/slog"
	"golang.org/x/sys/unix"

	"github.com/nvwrapper/mmsub/core"
	"github.com/nvwrapper/mmsub/hwclass"
	"github.com/nvwrapper/mmsub/nvutils"
	"github.com/nvwrapper/mmsub/rmapi"
)

const ctlPath = "/dev/nvidiactl"

func cardPath(minor int) string {
	return fmt.Sprintf("/dev/nvidia%d", minor)
}

// Class suffixes used to pick the newest implementation of each engine from
// the device class list.
const (
	classSuffixUsermode uint32 = 0x61
	classSuffixGpfifo   uint32 = 0x6f
	classSuffixNvdec    uint32 = 0xb0
	classSuffixCopy     uint32 = 0xb5
	classSuffixVic      uint32 = 0xb6
	classSuffixNvenc    uint32 = 0xb7
	classSuffixNvjpg    uint32 = 0xd1
	classSuffixOfa      uint32 = 0xfa
)

// Options configures Open.
type Options struct {
	CardIndex int
	Logger    *slog.Logger
}

// Device is an open discrete GPU. It implements core.Device.
type Device struct {
	rm        rmClient
	cardFD    int
	cardMinor int

	device    rmapi.Handle
	subdevice rmapi.Handle
	vaspace   rmapi.Handle

	usermodeHandle rmapi.Handle
	usermode       []byte

	rusdHandle rmapi.Handle
	rusd       []byte

	eventHandle rmapi.Handle
	eventFD     int

	semaphores *Map

	classes      map[uint32]uint32
	ceEngineType uint32

	fenceMu     sync.Mutex
	nextFenceID uint32

	info core.DeviceInfo
	log  *slog.Logger
}

// Open probes and initializes a discrete GPU.
func Open(opts Options) (*Device, error) {
	log := opts.Logger
	if log == nil {
		log = slog.Default()
	}

	ctlFD, err := unix.Open(ctlPath, unix.O_RDWR|unix.O_CLOEXEC, 0)
	if err != nil {
		return nil, cerrors.Wrapf(err, "opening %s", ctlPath)
	}

	d := &Device{
		rm:      rmClient{ctlFD: ctlFD, log: log},
		cardFD:  -1,
		eventFD: -1,
		log:     log,
	}
	if err := d.initialize(opts.CardIndex); err != nil {
		d.Close()
		return nil, err
	}
	return d, nil
}

func (d *Device) initialize(cardIndex int) error {
	var cards [rmapi.NV_MAX_DEVICES]rmapi.IoctlCardInfo
	if err := rmapi.Ioctl(d.rm.ctlFD, rmapi.NV_ESC_CARD_INFO,
		unsafe.Pointer(&cards[0]), unsafe.Sizeof(cards)); err != nil {
		return cerrors.Wrap(err, "querying card info")
	}
	card := (*rmapi.IoctlCardInfo)(nil)
	present := 0
	for i := range cards {
		if cards[i].Flags&rmapi.NV_IOCTL_CARD_INFO_FLAG_PRESENT == 0 {
			continue
		}
		if present == cardIndex {
			card = &cards[i]
			break
		}
		present++
	}
	if card == nil {
		return cerrors.Wrapf(nvutils.ErrInvalidArgument, "no GPU at index %d", cardIndex)
	}

	d.cardMinor = int(card.MinorNumber)
	cardFD, err := unix.Open(cardPath(d.cardMinor), unix.O_RDWR|unix.O_CLOEXEC, 0)
	if err != nil {
		return cerrors.Wrap(err, "opening card device")
	}
	d.cardFD = cardFD

	regFD := rmapi.IoctlRegisterFD{CtlFD: int32(d.rm.ctlFD)}
	if err := rmapi.Ioctl(d.cardFD, rmapi.NV_ESC_REGISTER_FD,
		unsafe.Pointer(&regFD), unsafe.Sizeof(regFD)); err != nil {
		return cerrors.Wrap(err, "registering control fd")
	}

	if err := d.allocRoot(); err != nil {
		return err
	}

	idInfo := rmapi.NV0000CtrlGpuGetIDInfoV2Params{GpuID: card.GPUID}
	if err := d.rm.control(d.rm.client, rmapi.NV0000_CTRL_CMD_GPU_GET_ID_INFO_V2,
		unsafe.Pointer(&idInfo), unsafe.Sizeof(idInfo)); err != nil {
		return cerrors.Wrap(err, "resolving gpu id")
	}
	if idInfo.GpuFlags&rmapi.NV0000_CTRL_GPU_ID_INFO_SOC_ATTACHED != 0 {
		return cerrors.Wrap(nvutils.ErrNotImplemented, "SoC-attached GPU on the RM path")
	}

	d.device = d.rm.newHandle()
	devParams := rmapi.NV0080_ALLOC_PARAMETERS{
		DeviceID:     idInfo.DeviceInstance,
		HClientShare: d.rm.client,
	}
	if err := d.rm.alloc(d.rm.client, d.device, rmapi.NV01_DEVICE_0,
		unsafe.Pointer(&devParams), unsafe.Sizeof(devParams)); err != nil {
		return err
	}

	d.subdevice = d.rm.newHandle()
	subParams := rmapi.NV2080_ALLOC_PARAMETERS{SubDeviceID: idInfo.SubDeviceInstance}
	if err := d.rm.alloc(d.device, d.subdevice, rmapi.NV20_SUBDEVICE_0,
		unsafe.Pointer(&subParams), unsafe.Sizeof(subParams)); err != nil {
		return err
	}

	if err := d.probeClasses(); err != nil {
		return err
	}
	if err := d.probeEngines(); err != nil {
		return err
	}

	d.vaspace = d.rm.newHandle()
	vaParams := rmapi.NV_MEMORY_VIRTUAL_ALLOCATION_PARAMS{}
	if err := d.rm.alloc(d.device, d.vaspace, rmapi.NV01_MEMORY_VIRTUAL,
		unsafe.Pointer(&vaParams), unsafe.Sizeof(vaParams)); err != nil {
		return cerrors.Wrap(err, "allocating virtual address space")
	}

	if err := d.mapUsermode(); err != nil {
		return err
	}
	if err := d.setupEvent(); err != nil {
		return err
	}
	if err := d.setupRusd(); err != nil {
		return err
	}

	sem, err := d.CreateMap(os.Getpagesize(), os.Getpagesize(),
		core.MapCPUUncacheable|core.MapGPUUncacheable|core.MapUsageGeneric|core.MapLocationHost)
	if err != nil {
		return cerrors.Wrap(err, "allocating fence array")
	}
	d.semaphores = sem.(*Map)

	d.log.Debug("opened gpu",
		"gpu_id", card.GPUID,
		"nvdec", d.info.NvdecVersion.String(),
		"gpfifo_class", d.classes[classSuffixGpfifo])
	return nil
}

// allocRoot allocates the root client. RM picks the handle when zero is
// passed in.
func (d *Device) allocRoot() error {
	p := rmapi.NVOS64Parameters{HClass: rmapi.NV01_ROOT_CLIENT}
	if err := rmapi.Ioctl(d.rm.ctlFD, rmapi.NV_ESC_RM_ALLOC,
		unsafe.Pointer(&p), unsafe.Sizeof(p)); err != nil {
		return err
	}
	if err := statusErr(p.Status); err != nil {
		return cerrors.Wrap(err, "allocating root client")
	}
	d.rm.client = p.HObjectNew
	return nil
}

func (d *Device) probeClasses() error {
	list := rmapi.NV0080CtrlGpuGetClasslistV2Params{}
	if err := d.rm.control(d.device, rmapi.NV0080_CTRL_CMD_GPU_GET_CLASSLIST_V2,
		unsafe.Pointer(&list), unsafe.Sizeof(list)); err != nil {
		return cerrors.Wrap(err, "querying class list")
	}

	d.classes = make(map[uint32]uint32)
	for _, cl := range list.ClassList[:list.NumClasses] {
		suffix := cl & 0xff
		switch suffix {
		case classSuffixUsermode, classSuffixGpfifo, classSuffixNvdec,
			classSuffixCopy, classSuffixVic, classSuffixNvenc,
			classSuffixNvjpg, classSuffixOfa:
			if cl > d.classes[suffix] {
				d.classes[suffix] = cl
			}
		}
	}
	if d.classes[classSuffixGpfifo] == 0 || d.classes[classSuffixUsermode] == 0 {
		return cerrors.Wrap(nvutils.ErrNotImplemented, "GPU lacks usermode submission classes")
	}
	return nil
}

func (d *Device) probeEngines() error {
	engines := rmapi.NV2080CtrlGpuGetEnginesV2Params{}
	if err := d.rm.control(d.subdevice, rmapi.NV2080_CTRL_CMD_GPU_GET_ENGINES_V2,
		unsafe.Pointer(&engines), unsafe.Sizeof(engines)); err != nil {
		return cerrors.Wrap(err, "querying engine list")
	}

	d.info.Platform = core.PlatformDiscrete
	d.info.PageSize = os.Getpagesize()

	for _, eng := range engines.EngineList[:engines.EngineCount] {
		switch {
		case eng >= rmapi.NV2080_ENGINE_TYPE_COPY0 && eng < rmapi.NV2080_ENGINE_TYPE_COPY0+10:
			// Pick the first copy engine that is not grafted onto
			// graphics.
			if d.ceEngineType != 0 {
				continue
			}
			caps := rmapi.NV2080CtrlCeGetCapsV2Params{CEEngineType: eng}
			if err := d.rm.control(d.subdevice, rmapi.NV2080_CTRL_CMD_CE_GET_CAPS_V2,
				unsafe.Pointer(&caps), unsafe.Sizeof(caps)); err != nil {
				continue
			}
			if caps.CapsTbl[0]&rmapi.NV2080_CTRL_CE_CAPS_CE_GRCE != 0 {
				continue
			}
			d.ceEngineType = eng
			d.info.Engines |= 1 << uint(core.EngineCopy)
		case eng >= rmapi.NV2080_ENGINE_TYPE_NVDEC0 && eng < rmapi.NV2080_ENGINE_TYPE_NVDEC0+8:
			d.info.Engines |= 1 << uint(core.EngineNvdec)
		case eng >= rmapi.NV2080_ENGINE_TYPE_NVENC0 && eng < rmapi.NV2080_ENGINE_TYPE_NVENC0+3:
			d.info.Engines |= 1 << uint(core.EngineNvenc)
		case eng == rmapi.NV2080_ENGINE_TYPE_VIC:
			d.info.Engines |= 1 << uint(core.EngineVic)
		case eng >= rmapi.NV2080_ENGINE_TYPE_NVJPEG0 && eng < rmapi.NV2080_ENGINE_TYPE_NVJPEG0+8:
			d.info.Engines |= 1 << uint(core.EngineNvjpg)
		case eng == rmapi.NV2080_ENGINE_TYPE_OFA:
			d.info.Engines |= 1 << uint(core.EngineOfa)
		}
	}

	if cl := d.classes[classSuffixNvdec]; cl != 0 {
		d.info.NvdecVersion = core.NvdecVersionFromClass(cl)
	}
	if d.classes[classSuffixNvjpg] != 0 {
		d.info.NvjpgVersion = core.NvjpgV13
	}
	// Later decoders dropped the VP8 hardware path.
	if d.info.NvdecVersion >= core.NvdecV50 {
		d.info.VP8Unsupported = true
	}
	return nil
}

func (d *Device) mapUsermode() error {
	d.usermodeHandle = d.rm.newHandle()
	if err := d.rm.alloc(d.subdevice, d.usermodeHandle,
		rmapi.ClassID(d.classes[classSuffixUsermode]), nil, 0); err != nil {
		return cerrors.Wrap(err, "allocating usermode object")
	}
	buf, err := d.mapCPU(d.usermodeHandle, d.subdevice, hwclass.NVC361_NV_USERMODE__SIZE, false)
	if err != nil {
		return cerrors.Wrap(err, "mapping usermode region")
	}
	d.usermode = buf
	return nil
}

func (d *Device) setupEvent() error {
	fd, err := unix.Open(ctlPath, unix.O_RDWR|unix.O_CLOEXEC, 0)
	if err != nil {
		return cerrors.Wrap(err, "opening event fd")
	}
	d.eventFD = fd

	allocEvent := rmapi.IoctlAllocOSEvent{
		HClient: d.rm.client,
		HDevice: d.subdevice,
		FD:      uint32(fd),
	}
	if err := rmapi.Ioctl(fd, rmapi.NV_ESC_ALLOC_OS_EVENT,
		unsafe.Pointer(&allocEvent), unsafe.Sizeof(allocEvent)); err != nil {
		return cerrors.Wrap(err, "binding os event")
	}
	if err := statusErr(allocEvent.Status); err != nil {
		return cerrors.Wrap(err, "binding os event")
	}

	d.eventHandle = d.rm.newHandle()
	eventParams := rmapi.NV0005_ALLOC_PARAMETERS{
		HParentClient: d.rm.client,
		HSrcResource:  d.subdevice,
		HClass:        uint32(rmapi.NV01_EVENT_OS_EVENT),
		NotifyIndex: rmapi.NV01_EVENT_NONSTALL_INTR |
			rmapi.NV01_EVENT_WITHOUT_EVENT_DATA,
		Data: rmapi.P64(fd),
	}
	if err := d.rm.alloc(d.subdevice, d.eventHandle, rmapi.NV01_EVENT_OS_EVENT,
		unsafe.Pointer(&eventParams), unsafe.Sizeof(eventParams)); err != nil {
		return cerrors.Wrap(err, "allocating event object")
	}

	notify := rmapi.NV2080CtrlEventSetNotificationParams{
		Action: rmapi.NV2080_CTRL_EVENT_SET_NOTIFICATION_ACTION_REPEAT,
	}
	return d.rm.control(d.subdevice, rmapi.NV2080_CTRL_CMD_EVENT_SET_NOTIFICATION,
		unsafe.Pointer(&notify), unsafe.Sizeof(notify))
}

func (d *Device) setupRusd() error {
	d.rusdHandle = d.rm.newHandle()
	params := rmapi.NV00DE_ALLOC_PARAMETERS{
		PolledDataMask: rmapi.NV00DE_RUSD_POLL_CLOCK,
	}
	if err := d.rm.alloc(d.subdevice, d.rusdHandle, rmapi.RM_USER_SHARED_DATA,
		unsafe.Pointer(&params), unsafe.Sizeof(params)); err != nil {
		// Shared data is a recent addition, clock queries degrade
		// gracefully without it.
		d.log.Debug("shared data unavailable", "error", err)
		d.rusdHandle = 0
		return nil
	}
	size := nvutils.AlignUp(int(unsafe.Sizeof(rmapi.NV00DESharedData{})), os.Getpagesize())
	buf, err := d.mapCPU(d.rusdHandle, d.subdevice, size, false)
	if err != nil {
		d.log.Debug("shared data mapping failed", "error", err)
		d.rm.free(d.subdevice, d.rusdHandle)
		d.rusdHandle = 0
		return nil
	}
	d.rusd = buf
	return nil
}

// mapCPU maps an RM memory object into the process through the frontend
// mmap protocol. system selects the control device as the mapping target,
// which is where RM places system-memory objects.
func (d *Device) mapCPU(memory, parent rmapi.Handle, size int, system bool) ([]byte, error) {
	path := cardPath(d.cardMinor)
	if system {
		path = ctlPath
	}
	mapFD, err := unix.Open(path, unix.O_RDWR|unix.O_CLOEXEC, 0)
	if err != nil {
		return nil, cerrors.Wrap(err, "opening mapping fd")
	}
	defer unix.Close(mapFD)

	p := rmapi.IoctlNVOS33ParametersWithFD{
		Params: rmapi.NVOS33Parameters{
			HClient: d.rm.client,
			HDevice: parent,
			HMemory: memory,
			Length:  uint64(size),
			Flags: rmapi.NVOS33_FLAGS_CACHING_TYPE_DEFAULT |
				rmapi.NVOS33_FLAGS_MAPPING_DIRECT,
		},
		FD: int32(mapFD),
	}
	if err := rmapi.Ioctl(d.cardFD, rmapi.NV_ESC_RM_MAP_MEMORY,
		unsafe.Pointer(&p), unsafe.Sizeof(p)); err != nil {
		return nil, err
	}
	if err := statusErr(p.Params.Status); err != nil {
		return nil, cerrors.Wrap(err, "mapping memory")
	}

	buf, err := unix.Mmap(mapFD, 0, size, unix.PROT_READ|unix.PROT_WRITE, unix.MAP_SHARED)
	if err != nil {
		return nil, cerrors.Wrap(err, "mmap")
	}
	return buf, nil
}

// Info reports the probed device capabilities.
func (d *Device) Info() core.DeviceInfo {
	return d.info
}

// allocFence reserves a cell in the fence array.
func (d *Device) allocFence() (uint32, error) {
	d.fenceMu.Lock()
	defer d.fenceMu.Unlock()
	if (d.nextFenceID+1)*4 >= uint32(d.info.PageSize) {
		return 0, cerrors.Wrap(nvutils.ErrOutOfMemory, "fence array exhausted")
	}
	d.nextFenceID++
	return d.nextFenceID, nil
}

func (d *Device) fenceCell(id uint32) *uint32 {
	return (*uint32)(unsafe.Pointer(&d.semaphores.Bytes()[id*4]))
}

// FencePoll reports whether the fence has been reached.
func (d *Device) FencePoll(fence core.Fence) (bool, error) {
	if !fence.Valid() {
		return true, nil
	}
	cell := atomic.LoadUint32(d.fenceCell(fence.ID()))
	return nvutils.FenceReached(cell, fence.Value()), nil
}

// FenceWait blocks until the fence is reached or the timeout expires.
func (d *Device) FenceWait(fence core.Fence, timeout time.Duration) error {
	deadline := time.Now().Add(timeout)
	for {
		done, err := d.FencePoll(fence)
		if err != nil {
			return err
		}
		if done {
			return nil
		}
		remaining := time.Until(deadline)
		if remaining <= 0 {
			return cerrors.Wrapf(nvutils.ErrTimeout, "waiting for %s", fence)
		}
		// Bounded slices: the event fd wakes for any channel interrupt,
		// so the cell must be re-read even when no wake arrives.
		waitMs := int(remaining.Milliseconds()) + 1
		if waitMs > 100 {
			waitMs = 100
		}
		fds := []unix.PollFd{{Fd: int32(d.eventFD), Events: unix.POLLIN | unix.POLLPRI}}
		n, err := unix.Poll(fds, waitMs)
		if err != nil && err != unix.EINTR {
			return cerrors.Wrap(err, "polling event fd")
		}
		if n > 0 {
			var drain [16]byte
			unix.Read(d.eventFD, drain[:])
		}
	}
}

// doorbell rings the usermode notify register with a channel's submit token.
func (d *Device) doorbell(token uint32) {
	reg := (*uint32)(unsafe.Pointer(&d.usermode[hwclass.NVC361_NOTIFY_CHANNEL_PENDING]))
	nvutils.StoreRelease(reg, token)
}

// Close tears the device down. RM frees the whole object tree with the
// client.
func (d *Device) Close() error {
	if d.semaphores != nil {
		d.semaphores.Close()
		d.semaphores = nil
	}
	if d.rusd != nil {
		unix.Munmap(d.rusd)
		d.rusd = nil
	}
	if d.usermode != nil {
		unix.Munmap(d.usermode)
		d.usermode = nil
	}
	if d.eventFD >= 0 {
		freeEvent := rmapi.IoctlFreeOSEvent{
			HClient: d.rm.client,
			HDevice: d.subdevice,
			FD:      uint32(d.eventFD),
		}
		rmapi.Ioctl(d.eventFD, rmapi.NV_ESC_FREE_OS_EVENT,
			unsafe.Pointer(&freeEvent), unsafe.Sizeof(freeEvent))
		unix.Close(d.eventFD)
		d.eventFD = -1
	}
	if d.rm.client != 0 {
		d.rm.free(d.rm.client, d.rm.client)
		d.rm.client = 0
	}
	if d.cardFD >= 0 {
		unix.Close(d.cardFD)
		d.cardFD = -1
	}
	if d.rm.ctlFD >= 0 {
		unix.Close(d.rm.ctlFD)
		d.rm.ctlFD = -1
	}
	return nil
}
