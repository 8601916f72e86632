// Package usbfs talks to USB devices through the Linux usbfs character
// devices under /dev/bus/usb, without libusb.
package usbfs

import (
	"errors"
	"time"
)

var (
	ErrNotSupported = errors.New("usbfs is only available on linux")
	ErrNoDevice     = errors.New("device disconnected")
	ErrCancelled    = errors.New("transfer cancelled")
	ErrClosed       = errors.New("stream closed")
	ErrSlot         = errors.New("invalid transfer slot")
	ErrBusy         = errors.New("transfer slot busy")
)

// Request type bits for control transfers.
const (
	DirOut uint8 = 0x00
	DirIn  uint8 = 0x80

	TypeStandard uint8 = 0x00
	TypeClass    uint8 = 0x20
	TypeVendor   uint8 = 0x40

	RecipientDevice uint8 = 0x00
)

const DefaultControlTimeout = time.Second
