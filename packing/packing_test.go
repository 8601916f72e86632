package packing

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"pgregory.net/rapid"
)

func TestUnpackFixture(t *testing.T) {
	in := []byte{0x12, 0x34, 0x56, 0x78, 0x9A, 0xBC, 0xDE, 0xF0, 0x12, 0x34, 0x56, 0x78}
	want := []byte{0x85, 0x07, 0x34, 0x06, 0x2F, 0x01, 0xDE, 0x00, 0xC9, 0x0B, 0x78, 0x0A, 0x63, 0x05, 0x12, 0x04}

	out := make([]byte, 16)
	require.NoError(t, Unpack(in, out, 16))
	assert.Equal(t, want, out)
}

func TestUnpackRejectsBadLengths(t *testing.T) {
	tests := []struct {
		name   string
		src    int
		dst    int
		length int
	}{
		{"not a block multiple", 12, 16, 15},
		{"short source", 11, 16, 16},
		{"short destination", 24, 16, 32},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			dst := make([]byte, tt.dst)
			for i := range dst {
				dst[i] = 0xAA
			}
			err := Unpack(make([]byte, tt.src), dst, tt.length)
			assert.ErrorIs(t, err, ErrLength)
			for _, b := range dst {
				assert.Equal(t, byte(0xAA), b)
			}
		})
	}
}

func TestUnpackBlocksAreIndependent(t *testing.T) {
	rapid.Check(t, func(t *rapid.T) {
		blocks := rapid.IntRange(1, 64).Draw(t, "blocks")
		src := rapid.SliceOfN(rapid.Byte(), blocks*12, blocks*12).Draw(t, "src")

		whole := make([]byte, blocks*16)
		if err := Unpack(src, whole, len(whole)); err != nil {
			t.Fatal(err)
		}
		for b := 0; b < blocks; b++ {
			one := make([]byte, 16)
			if err := Unpack(src[b*12:(b+1)*12], one, 16); err != nil {
				t.Fatal(err)
			}
			for i := range one {
				if one[i] != whole[b*16+i] {
					t.Fatalf("block %d octet %d: %#x != %#x", b, i, one[i], whole[b*16+i])
				}
			}
			// Every sample fits in 12 bits.
			for i := 1; i < 16; i += 2 {
				if one[i]&0xF0 != 0 {
					t.Fatalf("block %d sample %d exceeds 12 bits", b, i/2)
				}
			}
		}
	})
}

func TestSizes(t *testing.T) {
	assert.Equal(t, 12288, PackedSize(16384))
	assert.Equal(t, 16384, UnpackedSize(12288))
}
