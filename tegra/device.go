package tegra

import (
	"time"

	cerrors "github.com/cockroachdb/errors"
	"golang.org/x/exp/slog"
	"golang.org/x/sys/unix"

	"github.com/nvwrapper/mmsub/core"
	"github.com/nvwrapper/mmsub/nvutils"
)

const (
	nvmapPath     = "/dev/nvmap"
	nvhostCtrlPath = "/dev/nvhost-ctrl"
)

const tegraPageSize = 4096

// Options configures Open.
type Options struct {
	// PreferDRM selects the Tegra DRM submission interface over the
	// legacy nvhost devices when both are present.
	PreferDRM bool
	Logger    *slog.Logger
}

// Device is an open Tegra SoC multimedia complex. It implements
// core.Device.
type Device struct {
	chip chip

	nvmapFD int
	ctrlFD  int
	drm     *drmDevice

	info core.DeviceInfo
	log  *slog.Logger
}

// Open probes the SoC and the kernel interfaces.
func Open(opts Options) (*Device, error) {
	log := opts.Logger
	if log == nil {
		log = slog.Default()
	}

	c, err := detectChip()
	if err != nil {
		return nil, err
	}

	d := &Device{
		chip:    c,
		nvmapFD: -1,
		ctrlFD:  -1,
		log:     log,
	}

	d.nvmapFD, err = unix.Open(nvmapPath, unix.O_RDWR|unix.O_CLOEXEC, 0)
	if err != nil {
		return nil, cerrors.Wrapf(err, "opening %s", nvmapPath)
	}

	if opts.PreferDRM {
		if d.drm, err = openDRM(); err != nil {
			d.log.Debug("drm unavailable, falling back to nvhost", "error", err)
			d.drm = nil
		}
	}
	if d.drm == nil {
		d.ctrlFD, err = unix.Open(nvhostCtrlPath, unix.O_RDWR|unix.O_CLOEXEC, 0)
		if err != nil {
			d.Close()
			return nil, cerrors.Wrapf(err, "opening %s", nvhostCtrlPath)
		}
	}

	d.info = core.DeviceInfo{
		Platform:     core.PlatformTegra,
		NvdecVersion: c.nvdecVersion,
		NvjpgVersion: c.nvjpgVersion,
		PageSize:     tegraPageSize,
	}
	d.info.Engines = 1<<uint(core.EngineNvdec) |
		1<<uint(core.EngineNvenc) |
		1<<uint(core.EngineNvjpg) |
		1<<uint(core.EngineVic)
	if c.hasOfa {
		d.info.Engines |= 1 << uint(core.EngineOfa)
	}

	d.log.Debug("opened tegra soc",
		"chip", c.id,
		"host1x_version", c.host1xVersion,
		"drm", d.drm != nil)
	return d, nil
}

// Info reports the probed device capabilities.
func (d *Device) Info() core.DeviceInfo {
	return d.info
}

// FencePoll reads the syncpoint and reports whether the threshold has been
// reached.
func (d *Device) FencePoll(fence core.Fence) (bool, error) {
	if !fence.Valid() {
		return true, nil
	}
	if d.drm != nil {
		return d.drm.syncpointPoll(fence.ID(), fence.Value())
	}
	args := NvhostCtrlSyncptReadArgs{ID: fence.ID()}
	if err := ioctl(d.ctrlFD, nvhostIoctlCtrlSyncptRead(), ptr(&args)); err != nil {
		return false, cerrors.Wrap(err, "reading syncpoint")
	}
	return nvutils.FenceReached(args.Value, fence.Value()), nil
}

// FenceWait blocks in the kernel until the syncpoint passes the threshold
// or the timeout expires.
func (d *Device) FenceWait(fence core.Fence, timeout time.Duration) error {
	if !fence.Valid() {
		return nil
	}
	if d.drm != nil {
		return d.drm.syncpointWait(fence.ID(), fence.Value(), timeout)
	}
	args := NvhostCtrlSyncptWaitexArgs{
		ID:      fence.ID(),
		Thresh:  fence.Value(),
		Timeout: int32(timeout.Milliseconds()),
	}
	err := ioctl(d.ctrlFD, nvhostIoctlCtrlSyncptWaitex(), ptr(&args))
	if cerrors.Is(err, unix.EAGAIN) || cerrors.Is(err, unix.ETIMEDOUT) {
		return cerrors.Wrapf(nvutils.ErrTimeout, "waiting for %s", fence)
	}
	return err
}

// Close releases the kernel interfaces.
func (d *Device) Close() error {
	if d.drm != nil {
		d.drm.close()
		d.drm = nil
	}
	if d.ctrlFD >= 0 {
		unix.Close(d.ctrlFD)
		d.ctrlFD = -1
	}
	if d.nvmapFD >= 0 {
		unix.Close(d.nvmapFD)
		d.nvmapFD = -1
	}
	return nil
}
