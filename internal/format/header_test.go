package format

import (
	"math"
	"testing"
	"unsafe"

	"github.com/stretchr/testify/require"
)

func TestHeaderLayout(t *testing.T) {
	require.Equal(t, 32, HeaderSize)
	require.Zero(t, HeaderSize%BlockAlign, "header must keep payloads aligned")
	require.Equal(t, uintptr(8), unsafe.Offsetof(Header{}.HeapID))
	require.Equal(t, uintptr(16), unsafe.Offsetof(Header{}.Usable))
	require.Equal(t, uintptr(24), unsafe.Offsetof(Header{}.Span))
}

func TestHeaderOfRoundTrip(t *testing.T) {
	buf := make([]uint64, 16)
	block := unsafe.Pointer(&buf[0])

	user := UserPointer(block)
	require.Equal(t, uintptr(block)+uintptr(HeaderSize), uintptr(user))

	h := HeaderOf(user)
	require.Equal(t, block, unsafe.Pointer(h))

	h.Magic = LiveMagic
	h.HeapID = 7
	h.Usable = 40
	require.True(t, h.Valid())
	require.Equal(t, uint64(LiveMagic), buf[0])
	require.Equal(t, uint64(7), buf[1])

	h.Magic = FreedMagic
	require.False(t, h.Valid())
}

func TestBlockSize(t *testing.T) {
	tests := []struct {
		size int
		want int
	}{
		{0, MinBlockSize},
		{1, HeaderSize + 16},
		{16, HeaderSize + 16},
		{17, HeaderSize + 32},
		{100, HeaderSize + 112},
	}
	for _, tt := range tests {
		require.Equal(t, tt.want, BlockSize(tt.size), "size=%d", tt.size)
	}
}

func TestAlign(t *testing.T) {
	require.Equal(t, 16, AlignBlock(1))
	require.Equal(t, 16, AlignBlock(16))
	require.Equal(t, 32, AlignBlock(17))

	require.Equal(t, 4096, AlignUp(1, 4096))
	require.Equal(t, 4096, AlignUp(4096, 4096))
	require.Equal(t, 8192, AlignUp(4097, 4096))
	require.Equal(t, 12288, AlignUp(10032, 4096))

	require.True(t, IsAligned(8192, 4096))
	require.False(t, IsAligned(8193, 4096))
}

func TestBlockSizeRejectsOversizedPayload(t *testing.T) {
	require.Positive(t, BlockSize(MaxPayload))
	require.Equal(t, -1, BlockSize(MaxPayload+1))
	require.Equal(t, -1, BlockSize(math.MaxInt))
	require.Equal(t, -1, BlockSize(math.MaxInt-20))
}
