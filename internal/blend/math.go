// Package blend provides straight-alpha compositing for sprite layers.
//
// Sprite sheets decode to non-premultiplied RGBA8, so every operator here
// takes and returns straight alpha. Channel math is done in integers with
// exact rounding; the div255 helpers avoid integer division on the hot path.
package blend

// div255 divides x by 255 exactly without using division.
//
// Formula: ((x + 1) + ((x + 1) >> 8)) >> 8 (Alvy Ray Smith).
func div255(x uint16) uint16 {
	t := x + 1
	return (t + (t >> 8)) >> 8
}

// mulDiv255 multiplies two bytes and divides by 255 with rounding.
func mulDiv255(a, b byte) byte {
	return byte(div255(uint16(a)*uint16(b) + 127))
}

// inv255 computes 255 - x (inverse alpha).
func inv255(x byte) byte {
	return 255 - x
}

// divRound divides num by den rounding to nearest. den must be > 0.
func divRound(num, den uint32) byte {
	v := (num + den/2) / den
	if v > 255 {
		return 255
	}
	return byte(v)
}
