package filter

// Channels returns the number of samples per pixel for a PNG color type,
// or 0 for an unknown color type.
func Channels(colorType uint8) int {
	switch colorType {
	case 0, 3:
		return 1
	case 2:
		return 3
	case 4:
		return 2
	case 6:
		return 4
	default:
		return 0
	}
}

// BytesPerPixel returns the filter unit: the number of bytes per complete
// pixel, rounded up to 1 for sub-byte depths.
func BytesPerPixel(colorType, bitDepth uint8) int {
	bits := Channels(colorType) * int(bitDepth)
	if bits < 8 {
		return 1
	}
	return bits / 8
}

// RowBytes returns the length in bytes of one packed, unfiltered scanline
// of width pixels.
func RowBytes(width int, colorType, bitDepth uint8) int {
	if width <= 0 {
		return 0
	}
	return (width*Channels(colorType)*int(bitDepth) + 7) / 8
}
