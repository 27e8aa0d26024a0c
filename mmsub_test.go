package mmsub_test

import (
	"encoding/json"
	"testing"
	"time"
	"unsafe"

	"github.com/cespare/xxhash/v2"
	cerrors "github.com/cockroachdb/errors"
	"github.com/stretchr/testify/require"
	"go.uber.org/mock/gomock"

	"github.com/nvwrapper/mmsub"
	"github.com/nvwrapper/mmsub/core"
	"github.com/nvwrapper/mmsub/core/mocks"
	"github.com/nvwrapper/mmsub/nvutils"
)

func TestDeviceOptionsValidate(t *testing.T) {
	opts := mmsub.DeviceOptions{}
	require.NoError(t, opts.Validate())

	opts.CardIndex = -1
	err := opts.Validate()
	require.True(t, cerrors.Is(err, nvutils.ErrInvalidArgument))

	_, err = mmsub.Open(opts)
	require.True(t, cerrors.Is(err, nvutils.ErrInvalidArgument))
}

func TestCreateMapGuards(t *testing.T) {
	ctrl := gomock.NewController(t)
	defer ctrl.Finish()
	dev := mocks.NewMockDevice(ctrl)
	d := &mmsub.Device{Device: dev}

	_, err := d.CreateMap(0, 0x10, core.MapCPUCacheable)
	require.True(t, cerrors.Is(err, nvutils.ErrInvalidArgument))

	_, err = d.CreateMap(0x1000, 3, core.MapCPUCacheable)
	require.True(t, cerrors.Is(err, nvutils.PowerOfTwoError))

	m := mocks.NewMockMap(ctrl)
	dev.EXPECT().CreateMap(0x1000, 0x10, core.MapCPUCacheable).Return(m, nil)
	got, err := d.CreateMap(0x1000, 0x10, core.MapCPUCacheable)
	require.NoError(t, err)
	require.Equal(t, core.Map(m), got)
}

func TestMapFromVAGuards(t *testing.T) {
	ctrl := gomock.NewController(t)
	defer ctrl.Finish()
	dev := mocks.NewMockDevice(ctrl)
	d := &mmsub.Device{Device: dev}

	buf := make([]byte, 0x1000)

	_, err := d.MapFromVA(nil, 0x1000, core.MapCPUCacheable)
	require.True(t, cerrors.Is(err, nvutils.ErrInvalidArgument))

	_, err = d.MapFromVA(unsafe.Pointer(&buf[0]), 0, core.MapCPUCacheable)
	require.True(t, cerrors.Is(err, nvutils.ErrInvalidArgument))
}

func TestCreateChannelGuards(t *testing.T) {
	ctrl := gomock.NewController(t)
	defer ctrl.Finish()
	dev := mocks.NewMockDevice(ctrl)
	d := &mmsub.Device{Device: dev}

	_, err := d.CreateChannel(core.EngineHost)
	require.True(t, cerrors.Is(err, nvutils.ErrInvalidArgument))

	ch := mocks.NewMockChannel(ctrl)
	dev.EXPECT().CreateChannel(core.EngineNvdec).Return(ch, nil)
	got, err := d.CreateChannel(core.EngineNvdec)
	require.NoError(t, err)
	require.Equal(t, core.Channel(ch), got)
}

func TestNewGovernorDrivesChannelClock(t *testing.T) {
	ctrl := gomock.NewController(t)
	defer ctrl.Finish()
	dev := mocks.NewMockDevice(ctrl)
	ch := mocks.NewMockChannel(ctrl)
	d := &mmsub.Device{Device: dev}

	ch.EXPECT().SetClockRate(uint32(0)).Return(nil)

	g := d.NewGovernor(ch, 30.0)
	require.NotNil(t, g)
	require.NoError(t, g.Close())
}

// The tests below need real hardware and skip when no backend probes.

func openDevice(t *testing.T) *mmsub.Device {
	t.Helper()
	d, err := mmsub.Open(mmsub.DeviceOptions{})
	if err != nil {
		t.Skipf("no multimedia device: %v", err)
	}
	t.Cleanup(func() { require.NoError(t, d.Close()) })
	return d
}

func TestHardwareInfo(t *testing.T) {
	d := openDevice(t)

	buf, err := d.BuildInfoJSON()
	require.NoError(t, err)

	var info map[string]any
	require.NoError(t, json.Unmarshal(buf, &info))
	require.NotEqual(t, "None", info["platform"])
	require.Greater(t, info["page_size"], 0.0)
}

func TestHardwareMapReadback(t *testing.T) {
	d := openDevice(t)

	m, err := d.CreateMap(0x10000, 0x1000, core.MapCPUCacheable|core.MapGPUCacheable)
	require.NoError(t, err)
	defer m.Close()

	buf := m.Bytes()
	require.Len(t, buf, 0x10000)
	for i := range buf {
		buf[i] = byte(i)
	}
	require.NoError(t, m.CacheOp(0, len(buf), core.CacheWriteback|core.CacheInvalidate))
	for i := range buf {
		require.Equal(t, byte(i), buf[i])
	}
}

func TestHardwareCopyEngineTransfer(t *testing.T) {
	d := openDevice(t)
	info := d.Info()
	if !info.HasEngine(core.EngineCopy) {
		t.Skip("no copy engine")
	}

	const (
		width  = 256
		height = 64
		stride = 256
		size   = stride * height
	)

	ch, err := d.CreateChannel(core.EngineCopy)
	require.NoError(t, err)
	defer ch.Close()

	dataFlags := core.MapCPUCacheable | core.MapGPUCacheable
	src, err := d.CreateMap(size, 0x1000, dataFlags)
	require.NoError(t, err)
	defer src.Close()
	dst, err := d.CreateMap(size, 0x1000, dataFlags)
	require.NoError(t, err)
	defer dst.Close()
	cmdMem, err := d.CreateMap(0x1000, 0x1000, dataFlags|core.MapUsageCmdbuf)
	require.NoError(t, err)
	defer cmdMem.Close()

	for _, m := range []core.Map{src, dst, cmdMem} {
		require.NoError(t, m.Pin(ch))
	}

	srcBytes := src.Bytes()
	for i := range srcBytes {
		srcBytes[i] = byte(i * 7)
	}
	require.NoError(t, src.CacheOp(0, size, core.CacheWriteback))

	cb, err := ch.CreateCmdbuf()
	require.NoError(t, err)
	require.NoError(t, cb.AddMemory(cmdMem, 0, cmdMem.Size()))

	require.NoError(t, mmsub.SurfaceTransfer(cb,
		&mmsub.SurfaceInfo{Map: src, Width: width, Height: height, Stride: stride},
		&mmsub.SurfaceInfo{Map: dst, Width: width, Height: height, Stride: stride}))

	fence, err := ch.Submit(cb)
	require.NoError(t, err)
	require.NoError(t, d.FenceWait(fence, 5*time.Second))

	done, err := d.FencePoll(fence)
	require.NoError(t, err)
	require.True(t, done)

	require.NoError(t, dst.CacheOp(0, size, core.CacheInvalidate))
	require.Equal(t, xxhash.Sum64(srcBytes), xxhash.Sum64(dst.Bytes()))
}
