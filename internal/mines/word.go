package mines

import "github.com/sirupsen/logrus"

var Log = logrus.New()

/*
A Mask selects cells out of a 3x3 block anchored at some (x, y): bit
3*dy+dx covers the cell at (x+dx, y+dy). Only the low nine bits are
ever used.
*/
type Mask uint16

func (m Mask) bitCount() int {
	m = ((m & 0xAAAA) >> 1) + (m & 0x5555)
	m = ((m & 0xCCCC) >> 2) + (m & 0x3333)
	m = ((m & 0xF0F0) >> 4) + (m & 0x0F0F)
	m = ((m & 0xFF00) >> 8) + (m & 0x00FF)
	return int(m)
}

func absDiff(a, b int) int {
	if a > b {
		return a - b
	}
	return b - a
}
