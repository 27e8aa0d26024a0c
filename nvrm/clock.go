package nvrm

import (
	"sync/atomic"
	"unsafe"

	cerrors "github.com/cockroachdb/errors"

	"github.com/nvwrapper/mmsub/core"
	"github.com/nvwrapper/mmsub/nvutils"
	"github.com/nvwrapper/mmsub/rmapi"
)

// videoClockRate reads the video clock from the shared data region. The
// kernel bumps the section timestamp around writes, so the read retries
// until it observes a stable snapshot.
func (d *Device) videoClockRate() (uint32, error) {
	if d.rusd == nil {
		return 0, cerrors.Wrap(nvutils.ErrNotImplemented, "shared data region unavailable")
	}

	poll := rmapi.NV00DECtrlRequestDataPollParams{
		PolledDataMask: rmapi.NV00DE_RUSD_POLL_CLOCK,
	}
	if err := d.rm.control(d.rusdHandle, rmapi.NV00DE_CTRL_CMD_REQUEST_DATA_POLL,
		unsafe.Pointer(&poll), unsafe.Sizeof(poll)); err != nil {
		return 0, cerrors.Wrap(err, "requesting clock poll")
	}

	shared := (*rmapi.NV00DESharedData)(unsafe.Pointer(&d.rusd[0]))
	clk := &shared.ClkPublicDomainInfos
	for {
		before := atomic.LoadUint64(&clk.LastModifiedTimestamp)
		if before == rmapi.RUSD_TIMESTAMP_INVALID {
			return 0, cerrors.Wrap(core.ErrNotImplemented, "clock data not populated")
		}
		mhz := clk.Info[rmapi.RUSD_CLK_PUBLIC_DOMAIN_VIDEO].TargetClkMHz
		after := atomic.LoadUint64(&clk.LastModifiedTimestamp)
		if before == after {
			return mhz * 1_000_000, nil
		}
	}
}
