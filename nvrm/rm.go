// Package nvrm drives discrete GPUs through the resource manager frontend
// devices. Channels run on GPFIFO classes, fences are semaphore cells in a
// shared system-memory array, and work submission rings the usermode
// doorbell.
package nvrm

import (
	"unsafe"

	cerrors "github.com/cockroachdb/errors"
	"golang.org/x/exp/slog"

	"github.com/nvwrapper/mmsub/core"
	"github.com/nvwrapper/mmsub/rmapi"
)

// handleBase seeds the client-chosen handle space. RM only needs handles to
// be unique within the client.
const handleBase = 0x6d6d0000

// rmClient wraps an open control fd and the root client allocated on it.
type rmClient struct {
	ctlFD      int
	client     rmapi.Handle
	nextHandle uint32
	log        *slog.Logger
}

func (rm *rmClient) newHandle() rmapi.Handle {
	rm.nextHandle++
	return rmapi.Handle(handleBase + rm.nextHandle)
}

func statusErr(status uint32) error {
	if status == rmapi.NV_OK {
		return nil
	}
	return core.RMError(status)
}

// alloc allocates an RM object under parent. params may be nil for classes
// without allocation parameters.
func (rm *rmClient) alloc(parent, object rmapi.Handle, class rmapi.ClassID, params unsafe.Pointer, size uintptr) error {
	p := rmapi.NVOS64Parameters{
		HRoot:         rm.client,
		HObjectParent: parent,
		HObjectNew:    object,
		HClass:        class,
		PAllocParms:   rmapi.PtrTo64(params),
		ParamsSize:    uint32(size),
	}
	if err := rmapi.Ioctl(rm.ctlFD, rmapi.NV_ESC_RM_ALLOC, unsafe.Pointer(&p), unsafe.Sizeof(p)); err != nil {
		return err
	}
	if err := statusErr(p.Status); err != nil {
		return cerrors.Wrapf(err, "allocating class %#x", uint32(class))
	}
	return nil
}

// free releases an RM object and everything below it.
func (rm *rmClient) free(parent, object rmapi.Handle) error {
	p := rmapi.NVOS00Parameters{
		HRoot:         rm.client,
		HObjectParent: parent,
		HObjectOld:    object,
	}
	if err := rmapi.Ioctl(rm.ctlFD, rmapi.NV_ESC_RM_FREE, unsafe.Pointer(&p), unsafe.Sizeof(p)); err != nil {
		return err
	}
	return statusErr(p.Status)
}

// control issues a control command against an RM object.
func (rm *rmClient) control(object rmapi.Handle, cmd uint32, params unsafe.Pointer, size uintptr) error {
	p := rmapi.NVOS54Parameters{
		HClient:    rm.client,
		HObject:    object,
		Cmd:        cmd,
		Params:     rmapi.PtrTo64(params),
		ParamsSize: uint32(size),
	}
	if err := rmapi.Ioctl(rm.ctlFD, rmapi.NV_ESC_RM_CONTROL, unsafe.Pointer(&p), unsafe.Sizeof(p)); err != nil {
		return err
	}
	if err := statusErr(p.Status); err != nil {
		return cerrors.Wrapf(err, "control %#x", cmd)
	}
	return nil
}
