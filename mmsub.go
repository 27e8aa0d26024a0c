// Package mmsub drives the NVIDIA multimedia engines through the kernel
// interfaces directly. It probes the discrete resource-manager driver and
// the Tegra SoC interfaces, and exposes the selected backend behind the
// core.Device contract together with decode constraint queries and a copy
// engine surface transfer helper.
package mmsub

import (
	"unsafe"

	cerrors "github.com/cockroachdb/errors"
	"golang.org/x/exp/slog"

	"github.com/nvwrapper/mmsub/core"
	"github.com/nvwrapper/mmsub/dfs"
	"github.com/nvwrapper/mmsub/nvrm"
	"github.com/nvwrapper/mmsub/nvutils"
	"github.com/nvwrapper/mmsub/tegra"
)

// DeviceOptions configures Open. The zero value selects defaults.
type DeviceOptions struct {
	// Logger receives probe and lifecycle events. Nil means slog.Default().
	Logger *slog.Logger

	// DisableDFS turns clock governors created through the device into
	// no-ops.
	DisableDFS bool

	// PreferDRM selects the Tegra DRM submission interface over the legacy
	// nvhost devices when both are present.
	PreferDRM bool

	// CardIndex selects among multiple discrete GPUs.
	CardIndex int
}

// Validate checks the options for consistency.
func (o *DeviceOptions) Validate() error {
	if o.CardIndex < 0 {
		return cerrors.Wrapf(nvutils.ErrInvalidArgument, "negative card index %d", o.CardIndex)
	}
	return nil
}

// Device is an open multimedia device. It wraps the backend with argument
// validation and carries the facade helpers.
type Device struct {
	core.Device

	dfsDisabled bool
	log         *slog.Logger
}

// Open probes the available backends, discrete first, and returns the one
// that answers.
func Open(opts DeviceOptions) (*Device, error) {
	if err := opts.Validate(); err != nil {
		return nil, err
	}
	log := opts.Logger
	if log == nil {
		log = slog.Default()
	}

	var backend core.Device
	if dev, err := nvrm.Open(nvrm.Options{CardIndex: opts.CardIndex, Logger: log}); err == nil {
		backend = dev
	} else {
		log.Debug("discrete gpu unavailable", "error", err)
		dev, err := tegra.Open(tegra.Options{PreferDRM: opts.PreferDRM, Logger: log})
		if err != nil {
			log.Debug("tegra soc unavailable", "error", err)
			return nil, cerrors.Wrap(nvutils.ErrNotImplemented, "no supported device")
		}
		backend = dev
	}

	return &Device{
		Device:      backend,
		dfsDisabled: opts.DisableDFS,
		log:         log,
	}, nil
}

// CreateMap allocates a buffer. Size must be non-zero and align a non-zero
// power of two.
func (d *Device) CreateMap(size, align int, flags core.MapFlags) (core.Map, error) {
	if size == 0 {
		return nil, cerrors.Wrap(nvutils.ErrInvalidArgument, "zero-sized map")
	}
	if err := nvutils.CheckPow2(align, "align"); err != nil {
		return nil, err
	}
	return d.Device.CreateMap(size, align, flags)
}

// MapFromVA wraps caller-owned memory in a Map.
func (d *Device) MapFromVA(addr unsafe.Pointer, size int, flags core.MapFlags) (core.Map, error) {
	if addr == nil || size == 0 {
		return nil, cerrors.Wrap(nvutils.ErrInvalidArgument, "empty memory range")
	}
	return d.Device.MapFromVA(addr, size, flags)
}

// CreateChannel opens a channel to a multimedia or copy engine. The host
// engine cannot back a channel.
func (d *Device) CreateChannel(engine core.Engine) (core.Channel, error) {
	if engine == core.EngineHost {
		return nil, cerrors.Wrap(nvutils.ErrInvalidArgument, "host engine has no channel")
	}
	return d.Device.CreateChannel(engine)
}

// NewGovernor returns a frequency governor driving the channel clock. With
// DFS disabled the governor runs its bookkeeping but never touches the
// clock.
func (d *Device) NewGovernor(ch core.Channel, framerate float64) *dfs.Governor {
	setClock := ch.SetClockRate
	if d.dfsDisabled {
		setClock = func(uint32) error { return nil }
	}
	return dfs.New(setClock, framerate, d.log)
}
