package demod

import (
	"fmt"
)

// Wire samples are little-endian 12-bit unsigned values in 16-bit slots.
func sample12(src []byte, i int) int32 {
	return int32(src[2*i+1]&0x0F)<<8 + int32(src[2*i])
}

func checkLengths(src, count, dst int) error {
	if src < 2*count || dst < count {
		return fmt.Errorf("%w: src=%d dst=%d count=%d", ErrBufferSize, src, dst, count)
	}
	return nil
}

// ConvertInt16 centres count samples around zero and scales them to the full
// int16 range.
func ConvertInt16(src []byte, dst []int16, count int) error {
	if err := checkLengths(len(src), count, len(dst)); err != nil {
		return err
	}
	for i := 0; i < count; i++ {
		dst[i] = int16((sample12(src, i) - 2048) << 4)
	}
	return nil
}

// ConvertUint16 scales count samples without removing the offset. The result
// is the unsigned value stored in an int16.
func ConvertUint16(src []byte, dst []int16, count int) error {
	if err := checkLengths(len(src), count, len(dst)); err != nil {
		return err
	}
	for i := 0; i < count; i++ {
		dst[i] = int16(uint16(sample12(src, i) << 4))
	}
	return nil
}

// ConvertFloat normalizes count samples to [-1, 1).
func ConvertFloat(src []byte, dst []float32, count int) error {
	if err := checkLengths(len(src), count, len(dst)); err != nil {
		return err
	}
	const scale = float32(1.0 / 2048.0)
	for i := 0; i < count; i++ {
		dst[i] = float32(sample12(src, i)-2048) * scale
	}
	return nil
}
