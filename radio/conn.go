package radio

import (
	"time"

	"github.com/jrwynneiii/airspyrx/usbfs"
)

// Conn is the control and bulk transport to one device.
type Conn interface {
	Control(requestType, request uint8, value, index uint16, data []byte, timeout time.Duration) (int, error)
	OpenStream(endpoint uint8, slots int) (BulkStream, error)
	Close() error
}

// BulkStream keeps a fixed number of reads in flight. Wait returns the slot of
// a finished read, or usbfs.ErrCancelled with the slot after Cancel.
type BulkStream interface {
	Submit(slot int, buf []byte) error
	Wait() (slot, n int, err error)
	Cancel()
	Close() error
}

type usbConn struct {
	*usbfs.Device
}

func (c usbConn) OpenStream(endpoint uint8, slots int) (BulkStream, error) {
	s, err := c.Device.OpenStream(endpoint, slots)
	if err != nil {
		return nil, err
	}
	return s, nil
}
