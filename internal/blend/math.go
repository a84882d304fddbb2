// Package blend composites canonical RGBA rows: Porter-Duff over and its
// mirror under, in straight or premultiplied alpha, at 8 or 16 bits per
// sample.
//
// The div255 family avoids integer division in the 8-bit hot paths.
//
// References:
//   - Alpha blending without division: https://arxiv.org/abs/2202.02864
//   - Alvy Ray Smith's technical memos: http://alvyray.com/Memos/
package blend

// div255 divides x by 255 using fast shift approximation.
//
// Formula: (x + 255) >> 8
//
// The maximum error is +1 for some input values.
func div255(x uint16) uint16 {
	return (x + 255) >> 8
}

// div255Exact divides x by 255 exactly without using division.
//
// Formula: ((x + 1) + ((x + 1) >> 8)) >> 8
func div255Exact(x uint16) uint16 {
	t := x + 1
	return (t + (t >> 8)) >> 8
}

// mulDiv255 multiplies two bytes and divides by 255 using fast approximation.
func mulDiv255(a, b byte) byte {
	return byte(div255(uint16(a) * uint16(b)))
}

// mulDiv255Exact multiplies two bytes and divides by 255 exactly.
func mulDiv255Exact(a, b byte) byte {
	return byte(div255Exact(uint16(a) * uint16(b)))
}

// inv255 computes 255 - x (inverse alpha).
func inv255(x byte) byte {
	return 255 - x
}

// addClamp adds two bytes and clamps to 255.
func addClamp(a, b byte) byte {
	sum := uint16(a) + uint16(b)
	if sum > 255 {
		return 255
	}
	return byte(sum)
}

// mulDiv65535 multiplies two 16-bit samples and divides by 65535 with
// rounding.
func mulDiv65535(a, b uint16) uint16 {
	return uint16((uint32(a)*uint32(b) + 32767) / 65535)
}
