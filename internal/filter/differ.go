package filter

// MethodAdaptive is PNG filter method 0.
const MethodAdaptive = 0

// MethodIntrapixel is MNG filter method 64: adaptive filtering followed by
// intrapixel differencing (red and blue stored as differences from green).
const MethodIntrapixel = 64

// Undifference restores red and blue samples of an unfiltered RGB or RGBA
// row (8 or 16 bits per sample) encoded with MethodIntrapixel. Other
// formats are left unchanged.
func Undifference(row []byte, colorType, bitDepth uint8) {
	intrapixel(row, colorType, bitDepth, 1)
}

// Difference is the inverse of Undifference, applied before filtering.
func Difference(row []byte, colorType, bitDepth uint8) {
	intrapixel(row, colorType, bitDepth, -1)
}

func intrapixel(row []byte, colorType, bitDepth uint8, sign int) {
	if colorType != 2 && colorType != 6 {
		return
	}
	ch := Channels(colorType)

	switch bitDepth {
	case 8:
		for i := 0; i+ch <= len(row); i += ch {
			g := row[i+1]
			if sign > 0 {
				row[i] += g
				row[i+2] += g
			} else {
				row[i] -= g
				row[i+2] -= g
			}
		}
	case 16:
		step := ch * 2
		for i := 0; i+step <= len(row); i += step {
			g := uint16(row[i+2])<<8 | uint16(row[i+3])
			for _, off := range [2]int{0, 4} {
				v := uint16(row[i+off])<<8 | uint16(row[i+off+1])
				if sign > 0 {
					v += g
				} else {
					v -= g
				}
				row[i+off] = byte(v >> 8)
				row[i+off+1] = byte(v)
			}
		}
	}
}
