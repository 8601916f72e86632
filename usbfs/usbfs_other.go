//go:build !linux

package usbfs

import (
	"time"
)

type Device struct {
	Path string
}

func Open(path string) (*Device, error) {
	return nil, ErrNotSupported
}

func (d *Device) Control(requestType, request uint8, value, index uint16, data []byte, timeout time.Duration) (int, error) {
	return 0, ErrNotSupported
}

func (d *Device) OpenStream(endpoint uint8, slots int) (*Stream, error) {
	return nil, ErrNotSupported
}

func (d *Device) Close() error {
	return nil
}

type Stream struct{}

func (s *Stream) Submit(slot int, buf []byte) error {
	return ErrNotSupported
}

func (s *Stream) Wait() (int, int, error) {
	return -1, 0, ErrNotSupported
}

func (s *Stream) Cancel() {}

func (s *Stream) Close() error {
	return nil
}
