package image

import (
	stdimage "image"
	"image/color"
)

// FromStd converts a standard library image into a buffer, choosing the
// storage format that keeps the source's precision: Gray, Gray16, Paletted
// (with its palette), NRGBA64 and RGBA64 map to their counterparts and
// everything else to RGBA8.
func FromStd(img stdimage.Image) (*ImageBuf, *Palette, error) {
	r := img.Bounds()
	w, h := r.Dx(), r.Dy()

	switch src := img.(type) {
	case *stdimage.Gray:
		b, err := NewImageBuf(w, h, FormatG8)
		if err != nil {
			return nil, nil, err
		}
		for y := range h {
			copy(b.Row(y), src.Pix[y*src.Stride:y*src.Stride+w])
		}
		return b, nil, nil
	case *stdimage.Gray16:
		b, err := NewImageBuf(w, h, FormatG16)
		if err != nil {
			return nil, nil, err
		}
		for y := range h {
			copy(b.Row(y), src.Pix[y*src.Stride:y*src.Stride+2*w])
		}
		return b, nil, nil
	case *stdimage.Paletted:
		b, err := NewImageBuf(w, h, FormatIDX8)
		if err != nil {
			return nil, nil, err
		}
		for y := range h {
			copy(b.Row(y), src.Pix[y*src.Stride:y*src.Stride+w])
		}
		return b, paletteFromStd(src.Palette), nil
	case *stdimage.NRGBA64, *stdimage.RGBA64:
		b, err := NewImageBuf(w, h, FormatRGBA16)
		if err != nil {
			return nil, nil, err
		}
		for y := range h {
			for x := range w {
				c := color.NRGBA64Model.Convert(img.At(r.Min.X+x, r.Min.Y+y)).(color.NRGBA64)
				p := b.PixelBytes(x, y)
				putSample(p, 0, 2, c.R)
				putSample(p, 1, 2, c.G)
				putSample(p, 2, 2, c.B)
				putSample(p, 3, 2, c.A)
			}
		}
		return b, nil, nil
	}

	b, err := NewImageBuf(w, h, FormatRGBA8)
	if err != nil {
		return nil, nil, err
	}
	if src, ok := img.(*stdimage.NRGBA); ok {
		for y := range h {
			copy(b.Row(y), src.Pix[y*src.Stride:y*src.Stride+4*w])
		}
		return b, nil, nil
	}
	for y := range h {
		row := b.Row(y)
		for x := range w {
			c := color.NRGBAModel.Convert(img.At(r.Min.X+x, r.Min.Y+y)).(color.NRGBA)
			row[4*x], row[4*x+1], row[4*x+2], row[4*x+3] = c.R, c.G, c.B, c.A
		}
	}
	return b, nil, nil
}

func paletteFromStd(p color.Palette) *Palette {
	pal := &Palette{RGB: make([][3]uint8, len(p))}
	opaque := true
	alpha := make([]uint8, len(p))
	for i, c := range p {
		n := color.NRGBAModel.Convert(c).(color.NRGBA)
		pal.RGB[i] = [3]uint8{n.R, n.G, n.B}
		alpha[i] = n.A
		if n.A != 0xff {
			opaque = false
		}
	}
	if !opaque {
		// tRNS may stop at the last non-opaque entry.
		last := len(alpha)
		for last > 0 && alpha[last-1] == 0xff {
			last--
		}
		pal.Alpha = alpha[:last]
	}
	return pal
}

// ToNRGBA returns an RGBA8 or RGBA16 buffer as a standard library image.
// Other formats are expanded with ex first.
func (b *ImageBuf) ToNRGBA(ex Expand) stdimage.Image {
	rect := stdimage.Rect(0, 0, b.width, b.height)
	if b.format.BitDepth() == 16 {
		src := b
		if b.format != FormatRGBA16 {
			src = b.ToRGBA(16, ex)
		}
		img := stdimage.NewNRGBA64(rect)
		for y := range b.height {
			copy(img.Pix[y*img.Stride:], src.Row(y))
		}
		return img
	}
	src := b
	if b.format != FormatRGBA8 {
		src = b.ToRGBA(8, ex)
	}
	img := stdimage.NewNRGBA(rect)
	for y := range b.height {
		copy(img.Pix[y*img.Stride:], src.Row(y))
	}
	return img
}
