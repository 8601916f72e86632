// Package packing expands the Airspy packed wire format, where 12 octets carry
// eight 12-bit samples, into 16-bit little-endian slots.
package packing

import (
	"errors"
	"fmt"
)

var ErrLength = errors.New("invalid unpack length")

// UnpackedSize returns the octet count produced from n packed octets.
func UnpackedSize(n int) int {
	return n * 4 / 3
}

// PackedSize returns the octet count that unpacks to n octets.
func PackedSize(n int) int {
	return n * 3 / 4
}

// Unpack writes length octets of unpacked samples into dst. length must be a
// multiple of 16 and src must hold at least 3/4 of len(dst) octets. On a length
// violation dst is left untouched.
func Unpack(src, dst []byte, length int) error {
	if length%16 != 0 || len(src) < len(dst)*3/4 || len(dst) < length {
		return fmt.Errorf("%w: src=%d dst=%d length=%d", ErrLength, len(src), len(dst), length)
	}

	for i, j := 0, 0; i < length; i, j = i+16, j+12 {
		s := src[j : j+12 : j+12]
		d := dst[i : i+16 : i+16]
		d[0] = s[3]<<4&0xF0 | s[2]>>4&0x0F
		d[1] = s[3] >> 4 & 0x0F
		d[2] = s[1]
		d[3] = s[2] & 0x0F
		d[4] = s[0]<<4&0xF0 | s[7]>>4&0x0F
		d[5] = s[0] >> 4 & 0x0F
		d[6] = s[6]
		d[7] = s[7] & 0x0F
		d[8] = s[5]<<4&0xF0 | s[4]>>4&0x0F
		d[9] = s[5] >> 4 & 0x0F
		d[10] = s[11]
		d[11] = s[4] & 0x0F
		d[12] = s[10]<<4&0xF0 | s[9]>>4&0x0F
		d[13] = s[10] >> 4 & 0x0F
		d[14] = s[8]
		d[15] = s[9] & 0x0F
	}
	return nil
}
