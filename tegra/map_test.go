package tegra

import (
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/nvwrapper/mmsub/core"
	"github.com/nvwrapper/mmsub/hwclass"
)

func TestNvmapFlagsFor(t *testing.T) {
	require.Equal(t, NVMAP_HANDLE_CACHEABLE|NVMAP_HANDLE_MEM_TAG,
		nvmapFlagsFor(core.MapCPUCacheable))
	require.Equal(t, NVMAP_HANDLE_UNCACHEABLE|NVMAP_HANDLE_MEM_TAG,
		nvmapFlagsFor(core.MapCPUUncacheable))
	require.Equal(t, NVMAP_HANDLE_WRITE_COMBINE|NVMAP_HANDLE_MEM_TAG,
		nvmapFlagsFor(core.MapCPUWriteCombine))
	require.Equal(t, NVMAP_HANDLE_WRITE_COMBINE|NVMAP_HANDLE_MEM_TAG,
		nvmapFlagsFor(core.MapCPUUnmapped))
}

func TestHeapFor(t *testing.T) {
	require.Equal(t, NVMAP_HEAP_IOVMM, heapFor(core.MapUsageEngine))
	require.Equal(t, NVMAP_HEAP_IOVMM, heapFor(core.MapUsageCmdbuf))
	require.Equal(t, NVMAP_HEAP_CARVEOUT_GENERIC, heapFor(core.MapUsageGeneric))
	require.Equal(t, NVMAP_HEAP_CARVEOUT_GENERIC, heapFor(core.MapUsageFramebuffer))
}

func TestHost1xClassFor(t *testing.T) {
	require.Equal(t, hwclass.HOST1X_CLASS_NVDEC, host1xClassFor(core.EngineNvdec))
	require.Equal(t, hwclass.HOST1X_CLASS_NVENC, host1xClassFor(core.EngineNvenc))
	require.Equal(t, hwclass.HOST1X_CLASS_VIC, host1xClassFor(core.EngineVic))
	require.Equal(t, uint32(0), host1xClassFor(core.EngineCopy))
	require.Equal(t, uint32(0), host1xClassFor(core.EngineHost))
}

func TestChipTable(t *testing.T) {
	for id, c := range chips {
		require.Equal(t, id, c.id)
		require.NotZero(t, c.host1xVersion)
		require.NotEqual(t, core.NvdecNone, c.nvdecVersion)
		require.NotEqual(t, core.NvjpgNone, c.nvjpgVersion)
	}

	// Orin moved to a different block-linear kind and gained the OFA.
	orin := chips[0x23]
	require.True(t, orin.hasOfa)
	require.Equal(t, uint8(0x06), orin.blKind)
	require.Equal(t, 8, orin.host1xVersion)
}
