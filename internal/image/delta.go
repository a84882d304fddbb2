package image

import (
	"errors"
	"fmt"
)

// Delta errors.
var (
	// ErrDeltaBounds is returned when a delta block does not fit inside the
	// target image.
	ErrDeltaBounds = errors.New("image: delta block outside target")

	// ErrDeltaFormat is returned when the block format does not match what
	// the target and channel selector require.
	ErrDeltaFormat = errors.New("image: delta block format does not match target")
)

// DeltaOp is the per-sample operation of a delta block.
type DeltaOp uint8

const (
	// OpReplace overwrites target samples.
	OpReplace DeltaOp = iota
	// OpAdd adds block samples modulo 2^depth.
	OpAdd
	// OpXOR exclusive-ors block samples into the target.
	OpXOR
)

// String returns the operation name.
func (op DeltaOp) String() string {
	switch op {
	case OpReplace:
		return "replace"
	case OpAdd:
		return "add"
	case OpXOR:
		return "xor"
	default:
		return fmt.Sprintf("DeltaOp(%d)", uint8(op))
	}
}

// Channels selects which target samples a delta block addresses.
type Channels uint8

const (
	ChannelsAll Channels = iota
	// ChannelsColor addresses everything except alpha.
	ChannelsColor
	// ChannelsAlpha addresses the alpha sample only.
	ChannelsAlpha
)

// BlockFormat returns the format a delta block must have to modify a target
// in format target through the channel selector ch.
func BlockFormat(target Format, ch Channels) (Format, error) {
	switch ch {
	case ChannelsAll:
		return target, nil
	case ChannelsColor:
		return target.ColorOnly(), nil
	case ChannelsAlpha:
		if !target.HasAlpha() {
			return 0, fmt.Errorf("%w: %v has no alpha channel", ErrDeltaFormat, target)
		}
		if target.BitDepth() == 16 {
			return FormatG16, nil
		}
		return FormatG8, nil
	}
	return 0, fmt.Errorf("%w: channel selector %d", ErrDeltaFormat, ch)
}

// ApplyDelta combines block into dst with its top-left corner at (x, y).
func ApplyDelta(dst, block *ImageBuf, x, y int, op DeltaOp, ch Channels) error {
	want, err := BlockFormat(dst.format, ch)
	if err != nil {
		return err
	}
	if block.format != want {
		return fmt.Errorf("%w: block is %v, want %v", ErrDeltaFormat, block.format, want)
	}
	if x < 0 || y < 0 || x+block.width > dst.width || y+block.height > dst.height {
		return fmt.Errorf("%w: %dx%d at (%d,%d) in %dx%d",
			ErrDeltaBounds, block.width, block.height, x, y, dst.width, dst.height)
	}
	if op > OpXOR {
		return fmt.Errorf("%w: operation %d", ErrDeltaFormat, op)
	}

	info := dst.format.Info()
	sb := info.SampleBytes
	mask := MaxSample(info.BitDepth)

	first, count := 0, info.Channels
	switch ch {
	case ChannelsColor:
		if info.HasAlpha {
			count--
		}
	case ChannelsAlpha:
		first, count = info.Channels-1, 1
	}

	for by := range block.height {
		for bx := range block.width {
			sp := block.PixelBytes(bx, by)
			dp := dst.PixelBytes(x+bx, y+by)
			for c := range count {
				s := getSample(sp, c, sb)
				d := getSample(dp, first+c, sb)
				switch op {
				case OpReplace:
					d = s
				case OpAdd:
					d = (d + s) & mask
				case OpXOR:
					d = (d ^ s) & mask
				}
				putSample(dp, first+c, sb, d)
			}
		}
	}
	return nil
}
