package mines

import (
	"math/rand/v2"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestObfuscateBitmapShortString(t *testing.T) {
	/*
	 * A 28-bit input, so the split point falls mid-nibble and the
	 * padding bits have to come back out as zero.
	 */
	bmp := []byte{0x12, 0x34, 0x56, 0x70}

	obfuscateBitmap(bmp, 28, false)
	assert.Equal(t, []byte{0x07, 0xfa, 0x65, 0x00}, bmp)

	obfuscateBitmap(bmp, 28, true)
	assert.Equal(t, []byte{0x12, 0x34, 0x56, 0x70}, bmp)
}

func TestObfuscateBitmapLongString(t *testing.T) {
	/*
	 * Fifty zero bytes: long enough that the mask stream has to
	 * roll over from one hash block to the next.
	 */
	bmp := make([]byte, 50)

	obfuscateBitmap(bmp, 50*8, false)
	assert.Equal(t, []byte(
		"\xb2\x02\xc0\x7b\x99\x0c\x01\xf6\xff\x2d\x54"+
			"\x47\x07\xf6\x0e\x50\x60\x19\xb6\x71\xfc\xb1\xd8"+
			"\xb5\xa2\x10\xb0\xaf\x91\x3d\xb8\x5d\x37\xca\x27"+
			"\xf5\x2a\x9f\x78\xbb\xa3\xa8\x00\x30\xdb\x3d\x01"+
			"\xd8\xdf\x78",
	), bmp)

	obfuscateBitmap(bmp, 50*8, true)
	assert.Equal(t, make([]byte, 50), bmp)
}

func TestDescribeLayoutRoundTrip(t *testing.T) {
	r := rand.New(rand.NewPCG(3, 4))
	for _, size := range [][2]int{{9, 9}, {8, 8}, {5, 3}, {30, 16}} {
		w, h := size[0], size[1]
		grid := make([]bool, w*h)
		for i := range grid {
			grid[i] = r.IntN(4) == 0
		}
		x, y := r.IntN(w), r.IntN(h)

		for _, masked := range []bool{true, false} {
			desc := DescribeLayout(grid, x, y, masked)

			got, gx, gy, err := ParseLayout(desc, w, h)
			require.NoError(t, err)
			assert.Equal(t, grid, got)
			assert.Equal(t, x, gx)
			assert.Equal(t, y, gy)
		}
	}
}

func TestDescribeLayoutMasks(t *testing.T) {
	grid := make([]bool, 81)
	grid[40] = true

	masked := DescribeLayout(grid, 0, 0, true)
	plain := DescribeLayout(grid, 0, 0, false)

	assert.True(t, strings.HasPrefix(masked, "0,0,m"))
	assert.True(t, strings.HasPrefix(plain, "0,0,u"))
	assert.NotEqual(t, masked[5:], plain[5:])
}

func TestParseLayoutAcceptsBareHex(t *testing.T) {
	/*
	 * Hand-entered descriptions may omit the masking flag byte.
	 */
	grid := make([]bool, 16)
	grid[5] = true
	desc := DescribeLayout(grid, 1, 1, false)

	bare := strings.Replace(desc, ",u", ",", 1)
	got, x, y, err := ParseLayout(bare, 4, 4)
	require.NoError(t, err)
	assert.Equal(t, grid, got)
	assert.Equal(t, 1, x)
	assert.Equal(t, 1, y)
}

func TestParseLayoutErrors(t *testing.T) {
	tests := []struct {
		name string
		desc string
	}{
		{"no start position", "mdeadbeef"},
		{"non-numeric start", "a,b,mdead"},
		{"start out of bounds", "4,4,mdead"},
		{"body too short", "1,1,mdea"},
		{"body too long", "1,1,mdeadb"},
		{"bad hex digit", "1,1,mdeag"},
	}
	for _, test := range tests {
		t.Run(test.name, func(t *testing.T) {
			_, _, _, err := ParseLayout(test.desc, 4, 4)
			assert.Error(t, err)
		})
	}
}
