//go:build linux

package usbfs

import (
	"errors"
	"fmt"
	"sync"
	"time"
	"unsafe"

	"github.com/charmbracelet/log"
	"golang.org/x/sys/unix"
)

// Kernel layout of struct usbdevfs_ctrltransfer.
type ctrlTransfer struct {
	requestType uint8
	request     uint8
	value       uint16
	index       uint16
	length      uint16
	timeout     uint32
	data        uintptr
}

// Kernel layout of struct usbdevfs_urb without the iso descriptors.
type urb struct {
	typ          uint8
	endpoint     uint8
	status       int32
	flags        uint32
	buffer       uintptr
	bufferLength int32
	actualLength int32
	startFrame   int32
	streamID     uint32
	errorCount   int32
	signr        uint32
	userContext  uintptr
}

const urbTypeBulk = 3

const (
	iocNone  = 0
	iocWrite = 1
	iocRead  = 2
)

func ioc(dir, nr, size uintptr) uintptr {
	return dir<<30 | size<<16 | 'U'<<8 | nr
}

var (
	ioctlControl          = ioc(iocRead|iocWrite, 0, unsafe.Sizeof(ctrlTransfer{}))
	ioctlSubmitURB        = ioc(iocRead, 10, unsafe.Sizeof(urb{}))
	ioctlDiscardURB       = ioc(iocNone, 11, 0)
	ioctlReapURB          = ioc(iocWrite, 12, unsafe.Sizeof(uintptr(0)))
	ioctlClaimInterface   = ioc(iocRead, 15, unsafe.Sizeof(uint32(0)))
	ioctlReleaseInterface = ioc(iocRead, 16, unsafe.Sizeof(uint32(0)))
)

func ioctl(fd int, req, arg uintptr) (int, error) {
	for {
		r, _, errno := unix.Syscall(unix.SYS_IOCTL, uintptr(fd), req, arg)
		if errno == unix.EINTR {
			continue
		}
		if errno != 0 {
			return int(r), errno
		}
		return int(r), nil
	}
}

func mapErrno(err error) error {
	switch {
	case errors.Is(err, unix.ENODEV), errors.Is(err, unix.ESHUTDOWN):
		return fmt.Errorf("%w: %w", ErrNoDevice, err)
	}
	return err
}

// Device is an open usbfs node with one claimed interface.
type Device struct {
	Path  string
	fd    int
	iface uint32
	mu    sync.Mutex
}

// Open opens the usbfs node at path and claims interface 0.
func Open(path string) (*Device, error) {
	fd, err := unix.Open(path, unix.O_RDWR|unix.O_CLOEXEC, 0)
	if err != nil {
		return nil, fmt.Errorf("open %s: %w", path, err)
	}
	d := &Device{Path: path, fd: fd}
	if _, err := ioctl(fd, ioctlClaimInterface, uintptr(unsafe.Pointer(&d.iface))); err != nil {
		unix.Close(fd)
		return nil, fmt.Errorf("claim interface %d on %s: %w", d.iface, path, mapErrno(err))
	}
	log.Debugf("[usbfs] opened %s (fd %d)", path, fd)
	return d, nil
}

// Control performs a synchronous control transfer and returns the number of
// octets moved in the data stage.
func (d *Device) Control(requestType, request uint8, value, index uint16, data []byte, timeout time.Duration) (int, error) {
	ctrl := ctrlTransfer{
		requestType: requestType,
		request:     request,
		value:       value,
		index:       index,
		length:      uint16(len(data)),
		timeout:     uint32(timeout / time.Millisecond),
	}
	if len(data) > 0 {
		ctrl.data = uintptr(unsafe.Pointer(&data[0]))
	}

	d.mu.Lock()
	defer d.mu.Unlock()
	if d.fd < 0 {
		return 0, ErrClosed
	}
	n, err := ioctl(d.fd, ioctlControl, uintptr(unsafe.Pointer(&ctrl)))
	if err != nil {
		return 0, mapErrno(err)
	}
	return n, nil
}

func (d *Device) Close() error {
	d.mu.Lock()
	defer d.mu.Unlock()
	if d.fd < 0 {
		return nil
	}
	if _, err := ioctl(d.fd, ioctlReleaseInterface, uintptr(unsafe.Pointer(&d.iface))); err != nil {
		log.Debugf("[usbfs] release interface on %s: %v", d.Path, err)
	}
	err := unix.Close(d.fd)
	d.fd = -1
	return err
}

// Stream keeps up to len(slots) bulk URBs in flight on one endpoint. Submit
// and Wait belong to a single goroutine, Cancel may be called from any.
type Stream struct {
	dev      *Device
	endpoint uint8

	mu        sync.Mutex
	urbs      []urb
	bufs      [][]byte // keeps in-flight buffers reachable
	pending   []bool
	inFlight  int
	cancelled bool
}

// OpenStream prepares slots asynchronous transfers on endpoint.
func (d *Device) OpenStream(endpoint uint8, slots int) (*Stream, error) {
	if slots <= 0 {
		return nil, fmt.Errorf("%w: %d slots", ErrSlot, slots)
	}
	return &Stream{
		dev:      d,
		endpoint: endpoint,
		urbs:     make([]urb, slots),
		bufs:     make([][]byte, slots),
		pending:  make([]bool, slots),
	}, nil
}

// Submit queues a read of len(buf) octets into buf on the given slot. buf
// must not be touched until Wait returns the slot.
func (s *Stream) Submit(slot int, buf []byte) error {
	if slot < 0 || slot >= len(s.urbs) || len(buf) == 0 {
		return ErrSlot
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.cancelled {
		return ErrCancelled
	}
	if s.pending[slot] {
		return ErrBusy
	}

	u := &s.urbs[slot]
	*u = urb{
		typ:          urbTypeBulk,
		endpoint:     s.endpoint,
		buffer:       uintptr(unsafe.Pointer(&buf[0])),
		bufferLength: int32(len(buf)),
		userContext:  uintptr(slot),
	}
	s.bufs[slot] = buf
	if _, err := ioctl(s.dev.fd, ioctlSubmitURB, uintptr(unsafe.Pointer(u))); err != nil {
		s.bufs[slot] = nil
		return fmt.Errorf("submit urb: %w", mapErrno(err))
	}
	s.pending[slot] = true
	s.inFlight++
	return nil
}

// Wait blocks until any submitted transfer completes and returns its slot
// and the number of octets received. A transfer ended by Cancel returns
// ErrCancelled together with its slot.
func (s *Stream) Wait() (int, int, error) {
	s.mu.Lock()
	if s.inFlight == 0 {
		cancelled := s.cancelled
		s.mu.Unlock()
		if cancelled {
			return -1, 0, ErrCancelled
		}
		return -1, 0, ErrClosed
	}
	s.mu.Unlock()

	var done *urb
	if _, err := ioctl(s.dev.fd, ioctlReapURB, uintptr(unsafe.Pointer(&done))); err != nil {
		return -1, 0, fmt.Errorf("reap urb: %w", mapErrno(err))
	}

	slot := int(done.userContext)
	s.mu.Lock()
	s.pending[slot] = false
	s.bufs[slot] = nil
	s.inFlight--
	s.mu.Unlock()

	switch status := unix.Errno(-done.status); {
	case done.status == 0:
		return slot, int(done.actualLength), nil
	case status == unix.ENOENT, status == unix.ECONNRESET:
		return slot, 0, ErrCancelled
	default:
		return slot, int(done.actualLength), fmt.Errorf("bulk transfer on slot %d: %w", slot, mapErrno(status))
	}
}

// Cancel discards every pending transfer. Each one is still returned by Wait.
// Later calls to Submit fail with ErrCancelled.
func (s *Stream) Cancel() {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.cancelled {
		return
	}
	s.cancelled = true
	for i := range s.urbs {
		if !s.pending[i] {
			continue
		}
		// EINVAL means the URB already completed and waits to be reaped.
		if _, err := ioctl(s.dev.fd, ioctlDiscardURB, uintptr(unsafe.Pointer(&s.urbs[i]))); err != nil && !errors.Is(err, unix.EINVAL) {
			log.Debugf("[usbfs] discard slot %d: %v", i, err)
		}
	}
}

// Close cancels the stream and reaps what is left in flight.
func (s *Stream) Close() error {
	s.Cancel()
	for {
		s.mu.Lock()
		left := s.inFlight
		s.mu.Unlock()
		if left == 0 {
			return nil
		}
		if slot, _, err := s.Wait(); slot < 0 && err != nil {
			return err
		}
	}
}
