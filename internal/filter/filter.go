package filter

import (
	"errors"
	"fmt"
)

// Type is a PNG per-row filter type (the byte preceding each scanline).
type Type uint8

// PNG filter types.
const (
	None Type = iota
	Sub
	Up
	Average
	Paeth
)

// NumTypes is the number of defined filter types.
const NumTypes = 5

// Errors returned by the filter pipeline.
var (
	// ErrUnknownType is returned for a filter-type byte outside 0..4.
	ErrUnknownType = errors.New("filter: unknown filter type")

	// ErrRowLength is returned when the current, previous or destination
	// rows disagree in length.
	ErrRowLength = errors.New("filter: row length mismatch")
)

// String returns the filter name.
func (t Type) String() string {
	switch t {
	case None:
		return "None"
	case Sub:
		return "Sub"
	case Up:
		return "Up"
	case Average:
		return "Average"
	case Paeth:
		return "Paeth"
	default:
		return fmt.Sprintf("Type(%d)", uint8(t))
	}
}

// IsValid reports whether t is one of the five PNG filter types.
func (t Type) IsValid() bool {
	return t < NumTypes
}

// Unfilter reverses filter ft on cur in place. prev is the previous
// reconstructed row of the same pass; nil means the first row. bpp is the
// filter unit (BytesPerPixel).
func Unfilter(ft Type, cur, prev []byte, bpp int) error {
	if prev != nil && len(prev) != len(cur) {
		return ErrRowLength
	}
	if bpp < 1 {
		bpp = 1
	}

	switch ft {
	case None:
	case Sub:
		for i := bpp; i < len(cur); i++ {
			cur[i] += cur[i-bpp]
		}
	case Up:
		if prev == nil {
			return nil
		}
		for i := range cur {
			cur[i] += prev[i]
		}
	case Average:
		for i := range cur {
			var a, b int
			if i >= bpp {
				a = int(cur[i-bpp])
			}
			if prev != nil {
				b = int(prev[i])
			}
			cur[i] += byte((a + b) >> 1)
		}
	case Paeth:
		for i := range cur {
			var a, b, c byte
			if i >= bpp {
				a = cur[i-bpp]
			}
			if prev != nil {
				b = prev[i]
				if i >= bpp {
					c = prev[i-bpp]
				}
			}
			cur[i] += paeth(a, b, c)
		}
	default:
		return fmt.Errorf("%w: %d", ErrUnknownType, uint8(ft))
	}
	return nil
}

// Filter applies ft to the raw row cur and writes the filtered bytes into
// dst. dst and cur must have equal length and must not overlap.
func Filter(ft Type, dst, cur, prev []byte, bpp int) error {
	if len(dst) != len(cur) || (prev != nil && len(prev) != len(cur)) {
		return ErrRowLength
	}
	if bpp < 1 {
		bpp = 1
	}

	switch ft {
	case None:
		copy(dst, cur)
	case Sub:
		for i := range cur {
			var a byte
			if i >= bpp {
				a = cur[i-bpp]
			}
			dst[i] = cur[i] - a
		}
	case Up:
		for i := range cur {
			var b byte
			if prev != nil {
				b = prev[i]
			}
			dst[i] = cur[i] - b
		}
	case Average:
		for i := range cur {
			var a, b int
			if i >= bpp {
				a = int(cur[i-bpp])
			}
			if prev != nil {
				b = int(prev[i])
			}
			dst[i] = cur[i] - byte((a+b)>>1)
		}
	case Paeth:
		for i := range cur {
			var a, b, c byte
			if i >= bpp {
				a = cur[i-bpp]
			}
			if prev != nil {
				b = prev[i]
				if i >= bpp {
					c = prev[i-bpp]
				}
			}
			dst[i] = cur[i] - paeth(a, b, c)
		}
	default:
		return fmt.Errorf("%w: %d", ErrUnknownType, uint8(ft))
	}
	return nil
}

// Choose picks the filter type whose output has the minimum sum of
// absolute differences, treating every filtered byte as a signed value.
// scratch, if at least len(cur) long, is used to avoid an allocation.
func Choose(cur, prev []byte, bpp int, scratch []byte) Type {
	if len(scratch) < len(cur) {
		scratch = make([]byte, len(cur))
	}
	scratch = scratch[:len(cur)]

	best := None
	bestSum := -1
	for ft := None; ft < NumTypes; ft++ {
		if err := Filter(ft, scratch, cur, prev, bpp); err != nil {
			continue
		}
		sum := 0
		for _, v := range scratch {
			sum += absSigned(v)
			if bestSum >= 0 && sum >= bestSum {
				break
			}
		}
		if bestSum < 0 || sum < bestSum {
			best, bestSum = ft, sum
		}
	}
	return best
}

func paeth(a, b, c byte) byte {
	p := int(a) + int(b) - int(c)
	pa := abs(p - int(a))
	pb := abs(p - int(b))
	pc := abs(p - int(c))
	if pa <= pb && pa <= pc {
		return a
	}
	if pb <= pc {
		return b
	}
	return c
}

func abs(x int) int {
	if x < 0 {
		return -x
	}
	return x
}

func absSigned(v byte) int {
	if v < 128 {
		return int(v)
	}
	return 256 - int(v)
}
