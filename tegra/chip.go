package tegra

import (
	"os"
	"strconv"
	"strings"

	cerrors "github.com/cockroachdb/errors"

	"github.com/nvwrapper/mmsub/core"
	"github.com/nvwrapper/mmsub/nvutils"
)

var chipIDPaths = []string{
	"/sys/module/tegra_fuse/parameters/tegra_chip_id",
	"/sys/devices/soc0/soc_id",
}

// chip captures the per-SoC parameters that differ across Tegra
// generations.
type chip struct {
	id            int
	host1xVersion int
	nvdecVersion  core.NvdecVersion
	nvjpgVersion  core.NvjpgVersion
	// blKind is the chip's block-linear memory kind. No mapping path applies
	// it; every Map has a single engine view.
	blKind uint8
	hasOfa bool
}

var chips = map[int]chip{
	0x21: {id: 0x21, host1xVersion: 5, nvdecVersion: core.NvdecV20, nvjpgVersion: core.NvjpgV10, blKind: 0xfe},
	0x18: {id: 0x18, host1xVersion: 6, nvdecVersion: core.NvdecV30, nvjpgVersion: core.NvjpgV11, blKind: 0xfe},
	0x19: {id: 0x19, host1xVersion: 7, nvdecVersion: core.NvdecV40, nvjpgVersion: core.NvjpgV12, blKind: 0xfe},
	0x23: {id: 0x23, host1xVersion: 8, nvdecVersion: core.NvdecV50, nvjpgVersion: core.NvjpgV13, blKind: 0x06, hasOfa: true},
}

// detectChip reads the SoC identity from sysfs.
func detectChip() (chip, error) {
	for _, path := range chipIDPaths {
		raw, err := os.ReadFile(path)
		if err != nil {
			continue
		}
		id, err := strconv.Atoi(strings.TrimSpace(string(raw)))
		if err != nil {
			continue
		}
		c, ok := chips[id]
		if !ok {
			return chip{}, cerrors.Wrapf(nvutils.ErrNotImplemented, "unknown Tegra chip %#x", id)
		}
		return c, nil
	}
	return chip{}, cerrors.Wrap(nvutils.ErrNotImplemented, "not a Tegra system")
}
