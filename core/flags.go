package core

import "strings"

// MapFlags packs the CPU mapping mode, GPU mapping mode, usage hint and
// memory location of a Map into a single value. CPU mode occupies bits 0-3,
// GPU mode bits 4-7, usage bits 8-11 and location bit 12.
type MapFlags int32

const (
	MapCPUUnmapped     MapFlags = 0x0
	MapCPUUncacheable  MapFlags = 0x1
	MapCPUWriteCombine MapFlags = 0x2
	MapCPUCacheable    MapFlags = 0x3

	MapGPUUnmapped     MapFlags = 0x0 << 4
	MapGPUUncacheable  MapFlags = 0x1 << 4
	MapGPUWriteCombine MapFlags = 0x2 << 4
	MapGPUCacheable    MapFlags = 0x3 << 4

	MapUsageGeneric     MapFlags = 0x0 << 8
	MapUsageFramebuffer MapFlags = 0x1 << 8
	MapUsageEngine      MapFlags = 0x2 << 8
	MapUsageCmdbuf      MapFlags = 0x3 << 8

	MapLocationHost   MapFlags = 0x0 << 12
	MapLocationDevice MapFlags = 0x1 << 12
)

// CPU extracts the CPU mapping mode field.
func (f MapFlags) CPU() MapFlags {
	return f & 0xf
}

// GPU extracts the GPU mapping mode field.
func (f MapFlags) GPU() MapFlags {
	return f & (0xf << 4)
}

// Usage extracts the usage hint field.
func (f MapFlags) Usage() MapFlags {
	return f & (0xf << 8)
}

// Location extracts the memory location field.
func (f MapFlags) Location() MapFlags {
	return f & (0x1 << 12)
}

var (
	mapCPUNames      = make(map[MapFlags]string)
	mapGPUNames      = make(map[MapFlags]string)
	mapUsageNames    = make(map[MapFlags]string)
	mapLocationNames = make(map[MapFlags]string)
)

func init() {
	mapCPUNames[MapCPUUnmapped] = "CpuUnmapped"
	mapCPUNames[MapCPUUncacheable] = "CpuUncacheable"
	mapCPUNames[MapCPUWriteCombine] = "CpuWriteCombine"
	mapCPUNames[MapCPUCacheable] = "CpuCacheable"

	mapGPUNames[MapGPUUnmapped] = "GpuUnmapped"
	mapGPUNames[MapGPUUncacheable] = "GpuUncacheable"
	mapGPUNames[MapGPUWriteCombine] = "GpuWriteCombine"
	mapGPUNames[MapGPUCacheable] = "GpuCacheable"

	mapUsageNames[MapUsageGeneric] = "UsageGeneric"
	mapUsageNames[MapUsageFramebuffer] = "UsageFramebuffer"
	mapUsageNames[MapUsageEngine] = "UsageEngine"
	mapUsageNames[MapUsageCmdbuf] = "UsageCmdbuf"

	mapLocationNames[MapLocationHost] = "LocationHost"
	mapLocationNames[MapLocationDevice] = "LocationDevice"
}

func (f MapFlags) String() string {
	parts := []string{
		mapCPUNames[f.CPU()],
		mapGPUNames[f.GPU()],
		mapUsageNames[f.Usage()],
		mapLocationNames[f.Location()],
	}
	return strings.Join(parts, "|")
}

// RelocType selects how a relocated address is interpreted by the engine.
type RelocType int32

const (
	RelocDefault RelocType = iota
	RelocPitch
	RelocTiled
)

var relocNames = make(map[RelocType]string)

func init() {
	relocNames[RelocDefault] = "RelocDefault"
	relocNames[RelocPitch] = "RelocPitch"
	relocNames[RelocTiled] = "RelocTiled"
}

func (t RelocType) String() string {
	if name, ok := relocNames[t]; ok {
		return name
	}
	return "RelocType(unknown)"
}

// CacheFlags selects the cache maintenance operations to apply to a range.
type CacheFlags int32

const (
	CacheWriteback  CacheFlags = 1 << 0
	CacheInvalidate CacheFlags = 1 << 1
)

var cacheFlagNames = make(map[CacheFlags]string)

func init() {
	cacheFlagNames[CacheWriteback] = "CacheWriteback"
	cacheFlagNames[CacheInvalidate] = "CacheInvalidate"
	cacheFlagNames[CacheWriteback|CacheInvalidate] = "CacheWriteback|CacheInvalidate"
}

func (f CacheFlags) String() string {
	if name, ok := cacheFlagNames[f]; ok {
		return name
	}
	return "CacheFlags(unknown)"
}
