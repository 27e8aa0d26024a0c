package core_test

import (
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/nvwrapper/mmsub/core"
)

func TestMapFlagsFields(t *testing.T) {
	f := core.MapCPUCacheable | core.MapGPUWriteCombine | core.MapUsageCmdbuf | core.MapLocationDevice

	require.Equal(t, core.MapCPUCacheable, f.CPU())
	require.Equal(t, core.MapGPUWriteCombine, f.GPU())
	require.Equal(t, core.MapUsageCmdbuf, f.Usage())
	require.Equal(t, core.MapLocationDevice, f.Location())

	require.Equal(t, core.MapCPUUnmapped, core.MapFlags(0).CPU())
	require.Equal(t, core.MapLocationHost, core.MapFlags(0).Location())
}

func TestMapFlagsString(t *testing.T) {
	f := core.MapCPUUncacheable | core.MapGPUCacheable | core.MapUsageFramebuffer | core.MapLocationHost
	require.Equal(t, "CpuUncacheable|GpuCacheable|UsageFramebuffer|LocationHost", f.String())

	require.Equal(t, "CpuUnmapped|GpuUnmapped|UsageGeneric|LocationHost", core.MapFlags(0).String())
}

func TestRelocTypeString(t *testing.T) {
	require.Equal(t, "RelocDefault", core.RelocDefault.String())
	require.Equal(t, "RelocPitch", core.RelocPitch.String())
	require.Equal(t, "RelocTiled", core.RelocTiled.String())
	require.Equal(t, "RelocType(unknown)", core.RelocType(42).String())
}

func TestCacheFlagsString(t *testing.T) {
	require.Equal(t, "CacheWriteback", core.CacheWriteback.String())
	require.Equal(t, "CacheInvalidate", core.CacheInvalidate.String())
	require.Equal(t, "CacheWriteback|CacheInvalidate", (core.CacheWriteback | core.CacheInvalidate).String())
}

func TestEngine(t *testing.T) {
	require.Equal(t, "Host", core.EngineHost.String())
	require.Equal(t, "Nvdec", core.EngineNvdec.String())
	require.Equal(t, "Engine(42)", core.Engine(42).String())

	require.False(t, core.EngineHost.Multimedia())
	require.False(t, core.EngineCopy.Multimedia())
	require.True(t, core.EngineNvdec.Multimedia())
	require.True(t, core.EngineVic.Multimedia())
}

func TestDeviceInfoHasEngine(t *testing.T) {
	info := core.DeviceInfo{
		Engines: 1<<uint(core.EngineCopy) | 1<<uint(core.EngineNvdec),
	}
	require.True(t, info.HasEngine(core.EngineCopy))
	require.True(t, info.HasEngine(core.EngineNvdec))
	require.False(t, info.HasEngine(core.EngineNvenc))
	require.False(t, info.HasEngine(core.EngineHost))
}
