package image

// Palette is a PLTE palette with optional per-entry alpha from tRNS.
type Palette struct {
	RGB   [][3]uint8
	Alpha []uint8
}

// Clone returns a deep copy of the palette. A nil palette clones to nil.
func (p *Palette) Clone() *Palette {
	if p == nil {
		return nil
	}
	return &Palette{
		RGB:   append([][3]uint8(nil), p.RGB...),
		Alpha: append([]uint8(nil), p.Alpha...),
	}
}

// entry returns the 8-bit color of index i. Indices past the palette end
// are opaque black.
func (p *Palette) entry(i uint16) (r, g, b, a uint8) {
	if p == nil || int(i) >= len(p.RGB) {
		return 0, 0, 0, 0xff
	}
	c := p.RGB[i]
	a = 0xff
	if int(i) < len(p.Alpha) {
		a = p.Alpha[i]
	}
	return c[0], c[1], c[2], a
}

// ColorKey is the single transparent color of a gray or RGB image (tRNS),
// expressed in the image's own bit depth.
type ColorKey struct {
	Valid   bool
	Gray    uint16
	R, G, B uint16
}

// Expand carries the attributes needed to turn stored samples into RGBA.
type Expand struct {
	Palette *Palette
	Key     ColorKey
}

// Transparent reports whether pixels of format f expanded with ex may have
// alpha below the maximum.
func (ex Expand) Transparent(f Format) bool {
	switch {
	case f.HasAlpha():
		return true
	case f.IsIndexed():
		return ex.Palette != nil && len(ex.Palette.Alpha) > 0
	default:
		return ex.Key.Valid
	}
}

// RGBA16 returns pixel (x, y) as 16-bit straight-alpha RGBA.
func (b *ImageBuf) RGBA16(x, y int, ex Expand) (r, g, bl, a uint16) {
	p := b.PixelBytes(x, y)
	if p == nil {
		return 0, 0, 0, 0
	}
	info := b.format.Info()
	sb := info.SampleBytes
	d := info.BitDepth
	up := func(v uint16) uint16 { return ScaleSample(v, d, 16, FillReplicate) }

	switch info.ColorType {
	case ColorGray:
		v := getSample(p, 0, sb)
		a = 0xffff
		if ex.Key.Valid && v == ex.Key.Gray {
			a = 0
		}
		v = up(v)
		return v, v, v, a
	case ColorGrayAlpha:
		v := up(getSample(p, 0, sb))
		return v, v, v, up(getSample(p, 1, sb))
	case ColorRGB:
		rr, gg, bb := getSample(p, 0, sb), getSample(p, 1, sb), getSample(p, 2, sb)
		a = 0xffff
		if ex.Key.Valid && rr == ex.Key.R && gg == ex.Key.G && bb == ex.Key.B {
			a = 0
		}
		return up(rr), up(gg), up(bb), a
	case ColorRGBA:
		return up(getSample(p, 0, sb)), up(getSample(p, 1, sb)), up(getSample(p, 2, sb)), up(getSample(p, 3, sb))
	case ColorIndexed:
		r8, g8, b8, a8 := ex.Palette.entry(getSample(p, 0, sb))
		return uint16(r8) * 0x101, uint16(g8) * 0x101, uint16(b8) * 0x101, uint16(a8) * 0x101
	}
	return 0, 0, 0, 0
}

// RGBA8Row appends row y as straight-alpha RGBA8 to dst.
func (b *ImageBuf) RGBA8Row(dst []byte, y int, ex Expand) []byte {
	for x := range b.width {
		r, g, bl, a := b.RGBA16(x, y, ex)
		dst = append(dst, byte(r>>8), byte(g>>8), byte(bl>>8), byte(a>>8))
	}
	return dst
}

// RGBA16Row appends row y as straight-alpha big-endian RGBA16 to dst.
func (b *ImageBuf) RGBA16Row(dst []byte, y int, ex Expand) []byte {
	for x := range b.width {
		r, g, bl, a := b.RGBA16(x, y, ex)
		dst = append(dst,
			byte(r>>8), byte(r),
			byte(g>>8), byte(g),
			byte(bl>>8), byte(bl),
			byte(a>>8), byte(a))
	}
	return dst
}

// RGBARow appends row y in the canonical format of the given depth (8 or
// 16).
func (b *ImageBuf) RGBARow(dst []byte, y int, depth uint8, ex Expand) []byte {
	if depth == 16 {
		return b.RGBA16Row(dst, y, ex)
	}
	return b.RGBA8Row(dst, y, ex)
}

// ToRGBA converts the buffer to a canonical RGBA8 or RGBA16 buffer.
func (b *ImageBuf) ToRGBA(depth uint8, ex Expand) *ImageBuf {
	f := FormatRGBA8
	if depth == 16 {
		f = FormatRGBA16
	}
	out, _ := NewImageBuf(b.width, b.height, f)
	for y := range b.height {
		b.RGBARow(out.Row(y)[:0], y, depth, ex)
	}
	return out
}
