package mines

import (
	"crypto/sha1"
	"fmt"
	"strconv"
	"strings"
)

/* ----------------------------------------------------------------------
 * Shareable layout descriptions: a one-bit-per-cell bitmap, hex
 * encoded, with the starting click prepended. The bitmap is normally
 * masked first so that a casual glance at a puzzle identifier does
 * not give the mine positions away; the masking transform is keyed,
 * length-preserving and exactly invertible.
 */

const hexDigits = "0123456789abcdef"

/*
obfuscateBitmap scrambles (or, with decode set, unscrambles) a bitmap
of the given bit length in place. The scheme is similar in concept to
the OAEP encoding used in some forms of RSA:

  - A masking function turns a seed byte string into an arbitrarily
    long stream of pseudorandom bytes: the concatenation of SHA-1
    digests of the seed followed by successive decimal counters,
    starting from "0".

  - The input is padded with zero bits to a whole number of bytes and
    the byte stream split in half, rounding the midpoint down.

  - A mask generated from the second half is XORed over the first
    half; then a mask generated from the (now encoded) first half is
    XORed over the second half. Padding bits are cleared back to zero
    afterwards.

Decoding runs the same two steps in the opposite order.
*/
func obfuscateBitmap(bmp []byte, bits int, decode bool) {
	nbytes := (bits + 7) / 8
	firsthalf := nbytes / 2

	type step struct{ seed, target []byte }
	steps := [2]step{
		{seed: bmp[firsthalf:nbytes], target: bmp[:firsthalf]},
		{seed: bmp[:firsthalf], target: bmp[firsthalf:nbytes]},
	}
	if decode {
		steps[0], steps[1] = steps[1], steps[0]
	}

	for _, st := range steps {
		var (
			digest    [sha1.Size]byte
			digestpos = sha1.Size
			counter   int
		)
		for j := range st.target {
			if digestpos >= sha1.Size {
				h := sha1.New()
				h.Write(st.seed)
				h.Write([]byte(strconv.Itoa(counter)))
				counter++
				h.Sum(digest[:0])
				digestpos = 0
			}
			st.target[j] ^= digest[digestpos]
			digestpos++
		}
	}

	/* Clear the padding bits back down to zero. */
	if bits%8 != 0 {
		bmp[nbytes-1] &= 0xFF << (8 - bits%8)
	}
}

/*
DescribeLayout encodes a mine layout and its starting click as
"x,y,m<hex>". With masked unset the bitmap is left in the clear and
the flag byte is 'u' instead.
*/
func DescribeLayout(grid []bool, x, y int, masked bool) string {
	area := len(grid)

	/*
	 * Set up the mine bitmap and obfuscate it.
	 */
	bmp := make([]byte, (area+7)/8)
	for i, mine := range grid {
		if mine {
			bmp[i/8] |= 0x80 >> (i % 8)
		}
	}
	if masked {
		obfuscateBitmap(bmp, area, false)
	}

	/*
	 * Encode the resulting bitmap in hex. We can work to nibble
	 * rather than byte granularity, since the obfuscation function
	 * guarantees to return a bit string of the same length as its
	 * input.
	 */
	var b strings.Builder
	flag := "u"
	if masked {
		flag = "m"
	}
	fmt.Fprintf(&b, "%d,%d,%s", x, y, flag)
	for i := range (area + 3) / 4 {
		v := bmp[i/2]
		if i%2 == 0 {
			v >>= 4
		}
		b.WriteByte(hexDigits[v&0xF])
	}
	return b.String()
}

/*
ParseLayout decodes a layout description produced by DescribeLayout
back into a mine layout and starting click for a board of the given
dimensions. Descriptions with the 'u' flag (or no flag at all) are
accepted unmasked, so layouts can also be entered by hand.
*/
func ParseLayout(desc string, width, height int) (grid []bool, x, y int, err error) {
	area := width * height

	xs, rest, ok := strings.Cut(desc, ",")
	if !ok {
		return nil, 0, 0, fmt.Errorf("layout %q: expected x,y prefix", desc)
	}
	ys, body, ok := strings.Cut(rest, ",")
	if !ok {
		return nil, 0, 0, fmt.Errorf("layout %q: expected x,y prefix", desc)
	}
	if x, err = strconv.Atoi(xs); err != nil {
		return nil, 0, 0, fmt.Errorf("layout %q: bad x: %w", desc, err)
	}
	if y, err = strconv.Atoi(ys); err != nil {
		return nil, 0, 0, fmt.Errorf("layout %q: bad y: %w", desc, err)
	}
	if x < 0 || x >= width || y < 0 || y >= height {
		return nil, 0, 0, fmt.Errorf(
			"layout %q: start %d:%d outside %dx%d grid", desc, x, y, width, height,
		)
	}

	masked := false
	switch {
	case strings.HasPrefix(body, "m"):
		masked = true
		body = body[1:]
	case strings.HasPrefix(body, "u"):
		body = body[1:]
	}

	if len(body) != (area+3)/4 {
		return nil, 0, 0, fmt.Errorf(
			"layout %q: want %d hex digits, have %d", desc, (area+3)/4, len(body),
		)
	}

	bmp := make([]byte, (area+7)/8)
	for i := range len(body) {
		c := body[i]
		var v byte
		switch {
		case '0' <= c && c <= '9':
			v = c - '0'
		case 'a' <= c && c <= 'f':
			v = c - 'a' + 10
		case 'A' <= c && c <= 'F':
			v = c - 'A' + 10
		default:
			return nil, 0, 0, fmt.Errorf(
				"layout %q: bad hex digit %q", desc, c,
			)
		}
		bmp[i/2] |= v << (4 * (1 - i%2))
	}

	if masked {
		obfuscateBitmap(bmp, area, true)
	}

	grid = make([]bool, area)
	for i := range grid {
		if bmp[i/8]&(0x80>>(i%8)) != 0 {
			grid[i] = true
		}
	}
	return grid, x, y, nil
}
