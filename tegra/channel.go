package tegra

import (
	"fmt"
	"unsafe"

	cerrors "github.com/cockroachdb/errors"
	"golang.org/x/sys/unix"

	"github.com/nvwrapper/mmsub/core"
	"github.com/nvwrapper/mmsub/host1x"
	"github.com/nvwrapper/mmsub/hwclass"
	"github.com/nvwrapper/mmsub/nvutils"
)

var nvhostPaths = map[core.Engine]string{
	core.EngineNvdec: "/dev/nvhost-nvdec",
	core.EngineNvenc: "/dev/nvhost-msenc",
	core.EngineNvjpg: "/dev/nvhost-nvjpg",
	core.EngineOfa:   "/dev/nvhost-ofa",
	core.EngineVic:   "/dev/nvhost-vic",
}

func host1xClassFor(engine core.Engine) uint32 {
	switch engine {
	case core.EngineNvdec:
		return hwclass.HOST1X_CLASS_NVDEC
	case core.EngineNvenc:
		return hwclass.HOST1X_CLASS_NVENC
	case core.EngineNvjpg:
		return hwclass.HOST1X_CLASS_NVJPG
	case core.EngineOfa:
		return hwclass.HOST1X_CLASS_OFA
	case core.EngineVic:
		return hwclass.HOST1X_CLASS_VIC
	default:
		return 0
	}
}

// Channel is a host1x channel to one multimedia engine. It implements
// core.Channel. Submission goes through either the legacy nvhost channel
// device or a Tegra DRM channel context.
type Channel struct {
	dev    *Device
	engine core.Engine

	// Legacy nvhost path.
	fd       int
	syncptID uint32

	// DRM path.
	context    uint32
	drmSyncpt  uint32
	ownsSyncpt bool
}

// CreateChannel opens a channel to the engine.
func (d *Device) CreateChannel(engine core.Engine) (core.Channel, error) {
	if !d.info.HasEngine(engine) {
		return nil, cerrors.Wrapf(nvutils.ErrInvalidArgument, "engine %s not present", engine)
	}

	ch := &Channel{
		dev:    d,
		engine: engine,
		fd:     -1,
	}

	if d.drm != nil {
		open := DrmTegraChannelOpen{Host1xClass: host1xClassFor(engine)}
		if err := ioctl(d.drm.fd, drmIoctlTegra(drmTegraChannelOpen, unsafe.Sizeof(open)), ptr(&open)); err != nil {
			return nil, cerrors.Wrapf(err, "opening drm channel for %s", engine)
		}
		ch.context = open.Context

		id, err := d.drm.syncpointAllocate()
		if err != nil {
			ch.Close()
			return nil, err
		}
		ch.drmSyncpt = id
		ch.ownsSyncpt = true
		return ch, nil
	}

	path, ok := nvhostPaths[engine]
	if !ok {
		return nil, cerrors.Wrapf(nvutils.ErrInvalidArgument, "engine %s has no channel device", engine)
	}
	fd, err := unix.Open(path, unix.O_RDWR|unix.O_CLOEXEC, 0)
	if err != nil {
		return nil, cerrors.Wrapf(err, "opening %s", path)
	}
	ch.fd = fd

	param := NvhostGetParamArg{}
	if err := ioctl(fd, nvhostIoctlChannelGetSyncpoint(), ptr(&param)); err != nil {
		ch.Close()
		return nil, cerrors.Wrap(err, "querying channel syncpoint")
	}
	ch.syncptID = param.Value
	return ch, nil
}

// Engine returns the engine this channel drives.
func (ch *Channel) Engine() core.Engine {
	return ch.engine
}

// CreateCmdbuf returns a command buffer builder for this channel.
func (ch *Channel) CreateCmdbuf() (core.Cmdbuf, error) {
	return host1x.New(host1x.Config{
		Version: ch.dev.chip.host1xVersion,
		DRM:     ch.dev.drm != nil,
	}), nil
}

// mapBuffer makes a nvmap buffer reachable from the channel's engine. On
// the legacy path the kernel patches relocations at submit time, so no
// mapping is needed up front.
func (ch *Channel) mapBuffer(m *Map) (uint64, uint32, error) {
	if ch.dev.drm == nil {
		return 0, 0, nil
	}
	handle, err := ch.dev.drm.importBuffer(m.fd)
	if err != nil {
		return 0, 0, err
	}
	args := DrmTegraChannelMap{
		Context: ch.context,
		Handle:  handle,
		Flags:   DRM_TEGRA_CHANNEL_MAP_READ_WRITE,
	}
	err = ioctl(ch.dev.drm.fd, drmIoctlTegra(drmTegraChannelMap, unsafe.Sizeof(args)), ptr(&args))
	ch.dev.drm.closeBuffer(handle)
	if err != nil {
		return 0, 0, cerrors.Wrap(err, "mapping buffer into channel")
	}
	return 0, args.Mapping, nil
}

func (ch *Channel) unmapBuffer(mapping uint32) {
	if ch.dev.drm == nil {
		return
	}
	args := DrmTegraChannelUnmap{
		Context: ch.context,
		Mapping: mapping,
	}
	ioctl(ch.dev.drm.fd, drmIoctlTegra(drmTegraChannelUnmap, unsafe.Sizeof(args)), ptr(&args))
}

// Submit hands the command buffer to the engine and returns the completion
// fence.
func (ch *Channel) Submit(cmdbuf core.Cmdbuf) (core.Fence, error) {
	cb, ok := cmdbuf.(*host1x.Cmdbuf)
	if !ok {
		return 0, cerrors.Wrap(nvutils.ErrInvalidArgument, "cmdbuf from another backend")
	}
	if cb.NumWords() == 0 {
		return 0, cerrors.Wrap(nvutils.ErrInvalidArgument, "empty cmdbuf")
	}

	syncptID := ch.syncptID
	if ch.dev.drm != nil {
		syncptID = ch.drmSyncpt
	}
	if err := cb.AddSyncptIncr(syncptID); err != nil {
		return 0, err
	}

	mem, memOffset := cb.Memory()
	if mem.Flags().CPU() == core.MapCPUCacheable {
		if err := mem.CacheOp(memOffset, cb.NumWords()*4, core.CacheWriteback); err != nil {
			return 0, err
		}
	}

	if ch.dev.drm != nil {
		return ch.submitDRM(cb)
	}
	return ch.submitNvhost(cb)
}

func (ch *Channel) submitNvhost(cb *host1x.Cmdbuf) (core.Fence, error) {
	cmdbufMap, memOffset := cb.Memory()
	mem, ok := cmdbufMap.(*Map)
	if !ok {
		return 0, cerrors.Wrap(nvutils.ErrInvalidArgument, "cmdbuf memory from another backend")
	}

	gathers := cb.Gathers()
	cmdbufs := make([]NvhostCmdbuf, len(gathers))
	classIDs := make([]uint32, len(gathers))
	for i, g := range gathers {
		cmdbufs[i] = NvhostCmdbuf{
			Mem:    mem.handle,
			Offset: uint32(memOffset + g.Offset*4),
			Words:  uint32(g.NumWords),
		}
		classIDs[i] = g.Class
	}

	var (
		relocs      []NvhostReloc
		relocShifts []NvhostRelocShift
		relocTypes  []NvhostRelocType
	)
	for _, r := range cb.Relocs() {
		target, ok := r.Target.(*Map)
		if !ok {
			return 0, cerrors.Wrap(nvutils.ErrInvalidArgument, "reloc target from another backend")
		}
		relocs = append(relocs, NvhostReloc{
			CmdbufMem:    mem.handle,
			CmdbufOffset: uint32(memOffset) + r.CmdbufOffset,
			Target:       target.handle,
			TargetOffset: r.TargetOffset,
		})
		relocShifts = append(relocShifts, NvhostRelocShift{Shift: uint32(r.Shift)})
		var relocType uint32
		if r.Type == core.RelocTiled {
			relocType = 1
		}
		relocTypes = append(relocTypes, NvhostRelocType{RelocType: relocType})
	}

	var numIncrs uint32
	for _, incr := range cb.SyncptIncrs() {
		numIncrs += incr.Count
	}
	syncptIncrs := []NvhostSyncptIncr{{
		SyncptID:    ch.syncptID,
		SyncptIncrs: numIncrs,
	}}
	fences := make([]uint32, 1)

	args := NvhostSubmitArgs{
		SubmitVersion:  nvhostSubmitVersionV2,
		NumSyncptIncrs: uint32(len(syncptIncrs)),
		NumCmdbufs:     uint32(len(cmdbufs)),
		NumRelocs:      uint32(len(relocs)),
		SyncptIncrs:    uint64(uintptr(unsafe.Pointer(&syncptIncrs[0]))),
		Cmdbufs:        uint64(uintptr(unsafe.Pointer(&cmdbufs[0]))),
		ClassIDs:       uint64(uintptr(unsafe.Pointer(&classIDs[0]))),
		Fences:         uint64(uintptr(unsafe.Pointer(&fences[0]))),
	}
	if len(relocs) > 0 {
		args.Relocs = uint64(uintptr(unsafe.Pointer(&relocs[0])))
		args.RelocShifts = uint64(uintptr(unsafe.Pointer(&relocShifts[0])))
		args.RelocTypes = uint64(uintptr(unsafe.Pointer(&relocTypes[0])))
	}
	if err := ioctl(ch.fd, nvhostIoctlChannelSubmit(), ptr(&args)); err != nil {
		return 0, cerrors.Wrap(err, "submitting to channel")
	}
	return core.MakeFence(ch.syncptID, args.Fence), nil
}

func (ch *Channel) submitDRM(cb *host1x.Cmdbuf) (core.Fence, error) {
	mem, memOffset := cb.Memory()
	words := nvutils.SliceCast[uint32](mem.Bytes()[memOffset:])[:cb.NumWords()]

	var cmds []DrmTegraSubmitCmd
	for _, w := range cb.SyncptWaits() {
		cmds = append(cmds, DrmTegraSubmitCmd{
			Type:   DRM_TEGRA_SUBMIT_CMD_WAIT_SYNCPT,
			Words0: w.ID,
			Words1: w.Value,
		})
	}
	var numIncrs uint32
	for _, g := range cb.Gathers() {
		cmds = append(cmds, DrmTegraSubmitCmd{
			Type:   DRM_TEGRA_SUBMIT_CMD_GATHER_UPTR,
			Words0: uint32(g.NumWords),
		})
	}
	for _, incr := range cb.SyncptIncrs() {
		numIncrs += incr.Count
	}

	var bufs []DrmTegraSubmitBuf
	for _, r := range cb.Relocs() {
		target, ok := r.Target.(*Map)
		if !ok {
			return 0, cerrors.Wrap(nvutils.ErrInvalidArgument, "reloc target from another backend")
		}
		mapping, pinned := target.pinned[ch]
		if !pinned {
			return 0, cerrors.Wrap(nvutils.ErrInvalidArgument, "reloc target not pinned to channel")
		}
		bufs = append(bufs, DrmTegraSubmitBuf{
			Mapping:           mapping,
			TargetOffset:      uint64(r.TargetOffset),
			GatherOffsetWords: r.CmdbufOffset / 4,
			Shift:             r.Shift,
		})
	}

	args := DrmTegraSubmit{
		Context:         ch.context,
		NumCmds:         uint32(len(cmds)),
		GatherDataWords: uint32(len(words)),
		CmdsPtr:         uint64(uintptr(unsafe.Pointer(&cmds[0]))),
		GatherDataPtr:   uint64(uintptr(unsafe.Pointer(&words[0]))),
		Syncpt: DrmTegraSubmitSyncpt{
			ID:         ch.drmSyncpt,
			Increments: numIncrs,
		},
	}
	if len(bufs) > 0 {
		args.NumBufs = uint32(len(bufs))
		args.BufsPtr = uint64(uintptr(unsafe.Pointer(&bufs[0])))
	}
	if err := ioctl(ch.dev.drm.fd, drmIoctlTegra(drmTegraSubmit, unsafe.Sizeof(args)), ptr(&args)); err != nil {
		return 0, cerrors.Wrap(err, "submitting to drm channel")
	}
	return core.MakeFence(ch.drmSyncpt, args.Syncpt.Value), nil
}

// ClockRate reads the engine clock in Hz. Only the legacy interface
// exposes clock control.
func (ch *Channel) ClockRate() (uint32, error) {
	if ch.fd < 0 {
		return 0, cerrors.Wrap(nvutils.ErrNotImplemented, "clock control requires nvhost")
	}
	args := NvhostClkRateArgs{}
	if err := ioctl(ch.fd, nvhostIoctlChannelGetClkRate(), ptr(&args)); err != nil {
		return 0, cerrors.Wrapf(err, "reading %s clock", ch.engine)
	}
	return args.Rate, nil
}

// SetClockRate requests an engine clock in Hz.
func (ch *Channel) SetClockRate(rate uint32) error {
	if ch.fd < 0 {
		return cerrors.Wrap(nvutils.ErrNotImplemented, "clock control requires nvhost")
	}
	args := NvhostClkRateArgs{Rate: rate}
	if err := ioctl(ch.fd, nvhostIoctlChannelSetClkRate(), ptr(&args)); err != nil {
		return cerrors.Wrapf(err, "setting %s clock", ch.engine)
	}
	return nil
}

// Close releases the channel and its syncpoint.
func (ch *Channel) Close() error {
	if ch.dev.drm != nil {
		if ch.ownsSyncpt {
			ch.dev.drm.syncpointFree(ch.drmSyncpt)
			ch.ownsSyncpt = false
		}
		if ch.context != 0 {
			args := DrmTegraChannelClose{Context: ch.context}
			ioctl(ch.dev.drm.fd, drmIoctlTegra(drmTegraChannelClose, unsafe.Sizeof(args)), ptr(&args))
			ch.context = 0
		}
	}
	if ch.fd >= 0 {
		unix.Close(ch.fd)
		ch.fd = -1
	}
	return nil
}

// String identifies the channel in logs.
func (ch *Channel) String() string {
	if ch.dev.drm != nil {
		return fmt.Sprintf("tegra drm channel %s ctx %d", ch.engine, ch.context)
	}
	return fmt.Sprintf("tegra channel %s syncpt %d", ch.engine, ch.syncptID)
}
