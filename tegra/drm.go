package tegra

import (
	"fmt"
	"time"
	"unsafe"

	cerrors "github.com/cockroachdb/errors"
	"golang.org/x/sys/unix"

	"github.com/nvwrapper/mmsub/nvutils"
)

// Tegra DRM UAPI, from include/uapi/drm/tegra_drm.h. The driver-specific
// range starts at the DRM command base.
const (
	drmMagic       = 'd'
	drmCommandBase = 0x40

	drmTegraChannelOpen      = 0x10
	drmTegraChannelClose     = 0x11
	drmTegraChannelMap       = 0x12
	drmTegraChannelUnmap     = 0x13
	drmTegraSubmit           = 0x14
	drmTegraSyncptAllocate   = 0x20
	drmTegraSyncptFree       = 0x21
	drmTegraSyncptWait       = 0x22
)

// DrmVersion is drm_version, used to identify the driver behind a node.
type DrmVersion struct {
	Major   int32
	Minor   int32
	Patch   int32
	Pad0    [4]byte
	NameLen uint64
	Name    uint64
	DateLen uint64
	Date    uint64
	DescLen uint64
	Desc    uint64
}

// DrmPrimeHandle is drm_prime_handle, for dmabuf import.
type DrmPrimeHandle struct {
	Handle uint32
	Flags  uint32
	FD     int32
}

// DrmGemClose is drm_gem_close.
type DrmGemClose struct {
	Handle uint32
	Pad0   [4]byte
}

// DrmTegraChannelOpen is drm_tegra_channel_open.
type DrmTegraChannelOpen struct {
	Host1xClass  uint32
	Flags        uint32
	Context      uint32
	Version      uint32
	Capabilities uint32
	Pad0         [4]byte
}

// DrmTegraChannelClose is drm_tegra_channel_close.
type DrmTegraChannelClose struct {
	Context uint32
	Pad0    [4]byte
}

// DrmTegraChannelMap is drm_tegra_channel_map.
type DrmTegraChannelMap struct {
	Context uint32
	Handle  uint32
	Flags   uint32
	Mapping uint32
}

// Flags for DrmTegraChannelMap.Flags.
const (
	DRM_TEGRA_CHANNEL_MAP_READ_WRITE uint32 = 1<<0 | 1<<1
)

// DrmTegraChannelUnmap is drm_tegra_channel_unmap.
type DrmTegraChannelUnmap struct {
	Context uint32
	Mapping uint32
}

// DrmTegraSubmitBuf is drm_tegra_submit_buf, a relocation against a mapped
// buffer.
type DrmTegraSubmitBuf struct {
	Mapping           uint32
	Flags             uint32
	TargetOffset      uint64
	GatherOffsetWords uint32
	Shift             uint32
}

// Command types for DrmTegraSubmitCmd.Type.
const (
	DRM_TEGRA_SUBMIT_CMD_GATHER_UPTR uint32 = 0
	DRM_TEGRA_SUBMIT_CMD_WAIT_SYNCPT uint32 = 1
)

// DrmTegraSubmitCmd is drm_tegra_submit_cmd. Words0 and Words1 overlay the
// per-type union.
type DrmTegraSubmitCmd struct {
	Type   uint32
	Flags  uint32
	Words0 uint32
	Words1 uint32
	Pad0   [8]byte
}

// DrmTegraSubmitSyncpt is drm_tegra_submit_syncpt.
type DrmTegraSubmitSyncpt struct {
	ID         uint32
	Flags      uint32
	Increments uint32
	Value      uint32
}

// DrmTegraSubmit is drm_tegra_submit. Gather words are copied out of user
// memory at submit time.
type DrmTegraSubmit struct {
	Context         uint32
	NumBufs         uint32
	NumCmds         uint32
	GatherDataWords uint32
	BufsPtr         uint64
	CmdsPtr         uint64
	GatherDataPtr   uint64
	SyncobjIn       uint32
	SyncobjOut      uint32
	Syncpt          DrmTegraSubmitSyncpt
	Reserved        [4]uint64
}

// DrmTegraSyncptAllocate is drm_tegra_syncpoint_allocate.
type DrmTegraSyncptAllocate struct {
	ID   uint32
	Pad0 [4]byte
}

// DrmTegraSyncptFree is drm_tegra_syncpoint_free.
type DrmTegraSyncptFree struct {
	ID   uint32
	Pad0 [4]byte
}

// DrmTegraSyncptWait is drm_tegra_syncpoint_wait.
type DrmTegraSyncptWait struct {
	TimeoutNs int64
	ID        uint32
	Threshold uint32
	Value     uint32
	Pad0      [4]byte
}

func drmIoctlVersion() uintptr {
	return iowr(drmMagic, 0x00, unsafe.Sizeof(DrmVersion{}))
}

func drmIoctlGemClose() uintptr {
	return iow(drmMagic, 0x09, unsafe.Sizeof(DrmGemClose{}))
}

func drmIoctlPrimeFDToHandle() uintptr {
	return iowr(drmMagic, 0x2e, unsafe.Sizeof(DrmPrimeHandle{}))
}

func drmIoctlTegra(nr int, size uintptr) uintptr {
	return iowr(drmMagic, drmCommandBase+nr, size)
}

// drmDevice is an open Tegra DRM render node.
type drmDevice struct {
	fd int
}

// openDRM scans the DRM nodes for the tegra driver.
func openDRM() (*drmDevice, error) {
	for i := 0; i < 16; i++ {
		path := fmt.Sprintf("/dev/dri/renderD%d", 128+i)
		fd, err := unix.Open(path, unix.O_RDWR|unix.O_CLOEXEC, 0)
		if err != nil {
			continue
		}
		var name [32]byte
		version := DrmVersion{
			NameLen: uint64(len(name)),
			Name:    uint64(uintptr(unsafe.Pointer(&name[0]))),
		}
		if err := ioctl(fd, drmIoctlVersion(), ptr(&version)); err != nil {
			unix.Close(fd)
			continue
		}
		if string(name[:version.NameLen]) == "tegra" {
			return &drmDevice{fd: fd}, nil
		}
		unix.Close(fd)
	}
	return nil, cerrors.Wrap(nvutils.ErrNotImplemented, "no tegra drm node")
}

func (d *drmDevice) close() {
	unix.Close(d.fd)
}

// importBuffer turns a dmabuf into a GEM handle.
func (d *drmDevice) importBuffer(fd int) (uint32, error) {
	prime := DrmPrimeHandle{FD: int32(fd)}
	if err := ioctl(d.fd, drmIoctlPrimeFDToHandle(), ptr(&prime)); err != nil {
		return 0, cerrors.Wrap(err, "importing dmabuf")
	}
	return prime.Handle, nil
}

func (d *drmDevice) closeBuffer(handle uint32) {
	gemClose := DrmGemClose{Handle: handle}
	ioctl(d.fd, drmIoctlGemClose(), ptr(&gemClose))
}

func (d *drmDevice) syncpointAllocate() (uint32, error) {
	args := DrmTegraSyncptAllocate{}
	if err := ioctl(d.fd, drmIoctlTegra(drmTegraSyncptAllocate, unsafe.Sizeof(args)), ptr(&args)); err != nil {
		return 0, cerrors.Wrap(err, "allocating syncpoint")
	}
	return args.ID, nil
}

func (d *drmDevice) syncpointFree(id uint32) {
	args := DrmTegraSyncptFree{ID: id}
	ioctl(d.fd, drmIoctlTegra(drmTegraSyncptFree, unsafe.Sizeof(args)), ptr(&args))
}

func (d *drmDevice) syncpointWait(id, threshold uint32, timeout time.Duration) error {
	args := DrmTegraSyncptWait{
		TimeoutNs: timeout.Nanoseconds(),
		ID:        id,
		Threshold: threshold,
	}
	err := ioctl(d.fd, drmIoctlTegra(drmTegraSyncptWait, unsafe.Sizeof(args)), ptr(&args))
	if cerrors.Is(err, unix.ETIMEDOUT) || cerrors.Is(err, unix.EAGAIN) {
		return cerrors.Wrapf(nvutils.ErrTimeout, "waiting for syncpoint %d", id)
	}
	return err
}

func (d *drmDevice) syncpointPoll(id, threshold uint32) (bool, error) {
	err := d.syncpointWait(id, threshold, 0)
	if cerrors.Is(err, nvutils.ErrTimeout) {
		return false, nil
	}
	if err != nil {
		return false, err
	}
	return true, nil
}
