// Package image holds the pixel buffers of MNG objects and the pixel
// operations applied to them: row decoding and encoding, promotion,
// magnification, delta application, orientation and canonical RGBA
// retrieval.
//
// Buffers store samples unpacked: one byte per sample for bit depths up to
// 8 (sub-byte samples keep their numeric value, they are not scaled) and two
// big-endian bytes per sample for 16-bit formats.
package image

import "fmt"

// ColorType is a PNG color type.
type ColorType uint8

// PNG color types.
const (
	ColorGray      ColorType = 0
	ColorRGB       ColorType = 2
	ColorIndexed   ColorType = 3
	ColorGrayAlpha ColorType = 4
	ColorRGBA      ColorType = 6
)

// String returns the color type name.
func (c ColorType) String() string {
	switch c {
	case ColorGray:
		return "Gray"
	case ColorRGB:
		return "RGB"
	case ColorIndexed:
		return "Indexed"
	case ColorGrayAlpha:
		return "GrayAlpha"
	case ColorRGBA:
		return "RGBA"
	default:
		return fmt.Sprintf("ColorType(%d)", uint8(c))
	}
}

// Format represents a pixel storage format: a legal PNG color type and
// bit depth pair.
type Format uint8

const (
	FormatG1 Format = iota
	FormatG2
	FormatG4
	FormatG8
	FormatG16
	FormatRGB8
	FormatRGB16
	FormatIDX1
	FormatIDX2
	FormatIDX4
	FormatIDX8
	FormatGA8
	FormatGA16
	FormatRGBA8
	FormatRGBA16

	// formatCount is the number of formats (for internal use).
	formatCount
)

// FormatInfo contains metadata about a pixel format.
type FormatInfo struct {
	Name string

	// ColorType and BitDepth are the PNG header values.
	ColorType ColorType
	BitDepth  uint8

	// Channels is the number of samples per pixel.
	Channels int

	// SampleBytes is the number of bytes each stored sample occupies.
	SampleBytes int

	HasAlpha  bool
	IsIndexed bool
}

var formatInfoTable = [formatCount]FormatInfo{
	FormatG1:     {"G1", ColorGray, 1, 1, 1, false, false},
	FormatG2:     {"G2", ColorGray, 2, 1, 1, false, false},
	FormatG4:     {"G4", ColorGray, 4, 1, 1, false, false},
	FormatG8:     {"G8", ColorGray, 8, 1, 1, false, false},
	FormatG16:    {"G16", ColorGray, 16, 1, 2, false, false},
	FormatRGB8:   {"RGB8", ColorRGB, 8, 3, 1, false, false},
	FormatRGB16:  {"RGB16", ColorRGB, 16, 3, 2, false, false},
	FormatIDX1:   {"IDX1", ColorIndexed, 1, 1, 1, false, true},
	FormatIDX2:   {"IDX2", ColorIndexed, 2, 1, 1, false, true},
	FormatIDX4:   {"IDX4", ColorIndexed, 4, 1, 1, false, true},
	FormatIDX8:   {"IDX8", ColorIndexed, 8, 1, 1, false, true},
	FormatGA8:    {"GA8", ColorGrayAlpha, 8, 2, 1, true, false},
	FormatGA16:   {"GA16", ColorGrayAlpha, 16, 2, 2, true, false},
	FormatRGBA8:  {"RGBA8", ColorRGBA, 8, 4, 1, true, false},
	FormatRGBA16: {"RGBA16", ColorRGBA, 16, 4, 2, true, false},
}

// FormatFor returns the storage format for a color type and bit depth.
// ok is false when the pair is not one of the legal PNG combinations.
func FormatFor(ct ColorType, depth uint8) (f Format, ok bool) {
	for i := range formatInfoTable {
		info := &formatInfoTable[i]
		if info.ColorType == ct && info.BitDepth == depth {
			return Format(i), true
		}
	}
	return 0, false
}

// Info returns the metadata for this format.
func (f Format) Info() FormatInfo {
	if f >= formatCount {
		return FormatInfo{}
	}
	return formatInfoTable[f]
}

// String returns a human-readable name for the format.
func (f Format) String() string {
	if f >= formatCount {
		return fmt.Sprintf("Format(%d)", uint8(f))
	}
	return formatInfoTable[f].Name
}

// IsValid returns true if the format is a known valid format.
func (f Format) IsValid() bool {
	return f < formatCount
}

// ColorType returns the PNG color type of the format.
func (f Format) ColorType() ColorType { return f.Info().ColorType }

// BitDepth returns the PNG bit depth of the format.
func (f Format) BitDepth() uint8 { return f.Info().BitDepth }

// Channels returns the number of samples per pixel.
func (f Format) Channels() int { return f.Info().Channels }

// HasAlpha returns true if the format carries an alpha channel.
func (f Format) HasAlpha() bool { return f.Info().HasAlpha }

// IsIndexed returns true for palette formats.
func (f Format) IsIndexed() bool { return f.Info().IsIndexed }

// BytesPerPixel returns the number of stored bytes per pixel.
func (f Format) BytesPerPixel() int {
	info := f.Info()
	return info.Channels * info.SampleBytes
}

// RowBytes returns the number of stored bytes for a row of given width.
func (f Format) RowBytes(width int) int {
	return width * f.BytesPerPixel()
}

// MaxSample returns the largest sample value for the format's bit depth.
func (f Format) MaxSample() uint16 {
	return MaxSample(f.BitDepth())
}

// ColorOnly returns the format without its alpha channel (GA to G, RGBA
// to RGB). Formats without alpha are returned unchanged.
func (f Format) ColorOnly() Format {
	switch f {
	case FormatGA8:
		return FormatG8
	case FormatGA16:
		return FormatG16
	case FormatRGBA8:
		return FormatRGB8
	case FormatRGBA16:
		return FormatRGB16
	default:
		return f
	}
}

// WithAlpha returns the alpha-carrying counterpart of a gray or RGB
// format. ok is false for indexed and sub-byte formats.
func (f Format) WithAlpha() (Format, bool) {
	switch f {
	case FormatG8, FormatGA8:
		return FormatGA8, true
	case FormatG16, FormatGA16:
		return FormatGA16, true
	case FormatRGB8, FormatRGBA8:
		return FormatRGBA8, true
	case FormatRGB16, FormatRGBA16:
		return FormatRGBA16, true
	default:
		return f, false
	}
}

// MaxSample returns 2^depth - 1.
func MaxSample(depth uint8) uint16 {
	if depth >= 16 {
		return 0xffff
	}
	return uint16(1)<<depth - 1
}
