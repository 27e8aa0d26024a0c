// Package hwclass carries hardware class identifiers and per-class method
// offsets for the engines driven by this module. Names follow the NVIDIA
// class headers they originate from.
package hwclass

// Host1x client module class identifiers, from the Tegra TRM.
const (
	HOST1X_CLASS_HOST1X uint32 = 0x01
	HOST1X_CLASS_NVENC  uint32 = 0x21
	HOST1X_CLASS_VIC    uint32 = 0x5d
	HOST1X_CLASS_NVJPG  uint32 = 0xc0
	HOST1X_CLASS_NVDEC  uint32 = 0xf0
	HOST1X_CLASS_OFA    uint32 = 0xf8
)

// Low bytes used to locate classes in the per-chip class list. The full
// class id varies with the architecture, the engine type in the low byte
// does not.
const (
	CLASS_SUFFIX_USERMODE uint32 = 0x61
	CLASS_SUFFIX_GPFIFO   uint32 = 0x6f
)

// ClassMatch reports whether a class identifier has the given low byte.
func ClassMatch(class, suffix uint32) bool {
	return class&0xff == suffix
}
