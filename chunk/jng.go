package chunk

// JNG color types.
const (
	JNGGray      = 8
	JNGColor     = 10
	JNGGrayAlpha = 12
	JNGColorA    = 14
)

// JHDR is the JNG image header.
type JHDR struct {
	Width, Height    uint32
	ColorType        uint8
	SampleDepth      uint8
	Compression      uint8
	Interlace        uint8
	AlphaDepth       uint8
	AlphaCompression uint8
	AlphaFilter      uint8
	AlphaInterlace   uint8
}

func (*JHDR) Tag() Tag { return TagJHDR }

// HasAlpha reports whether the image carries an alpha channel.
func (h *JHDR) HasAlpha() bool { return h.ColorType == JNGGrayAlpha || h.ColorType == JNGColorA }

// JNG alpha compression methods.
const (
	AlphaPNG  = 0
	AlphaJPEG = 8
)

func decodeJHDR(p *parser, ctx Context) (Record, error) {
	if p.left() != 16 {
		return nil, lengthError(TagJHDR, p.left())
	}
	h := &JHDR{
		Width:            p.u32(),
		Height:           p.u32(),
		ColorType:        p.u8(),
		SampleDepth:      p.u8(),
		Compression:      p.u8(),
		Interlace:        p.u8(),
		AlphaDepth:       p.u8(),
		AlphaCompression: p.u8(),
		AlphaFilter:      p.u8(),
		AlphaInterlace:   p.u8(),
	}
	if err := ctx.checkSize(TagJHDR, h.Width, h.Height); err != nil {
		return nil, err
	}
	switch {
	case h.ColorType != JNGGray && h.ColorType != JNGColor && !h.HasAlpha():
		return nil, fieldError(TagJHDR, "color type", h.ColorType)
	case h.SampleDepth != 8 && h.SampleDepth != 12 && h.SampleDepth != 20:
		return nil, fieldError(TagJHDR, "sample depth", h.SampleDepth)
	case h.Compression != 8:
		return nil, fieldError(TagJHDR, "compression", h.Compression)
	case h.Interlace != 0 && h.Interlace != 8:
		return nil, fieldError(TagJHDR, "interlace", h.Interlace)
	}
	if !h.HasAlpha() {
		if h.AlphaDepth|h.AlphaCompression|h.AlphaFilter|h.AlphaInterlace != 0 {
			return nil, newError(TagJHDR, ErrBadField, "alpha fields set without alpha channel")
		}
		return h, nil
	}
	switch {
	case !LegalDepth(0, h.AlphaDepth):
		return nil, fieldError(TagJHDR, "alpha depth", h.AlphaDepth)
	case h.AlphaCompression != AlphaPNG && h.AlphaCompression != AlphaJPEG:
		return nil, fieldError(TagJHDR, "alpha compression", h.AlphaCompression)
	case h.AlphaCompression == AlphaJPEG && h.AlphaDepth != 8:
		return nil, fieldError(TagJHDR, "alpha depth", h.AlphaDepth)
	case h.AlphaFilter != 0 && !(h.AlphaFilter == FilterIntrapixel && ctx.InMNG):
		return nil, fieldError(TagJHDR, "alpha filter", h.AlphaFilter)
	case h.AlphaInterlace != 0:
		return nil, fieldError(TagJHDR, "alpha interlace", h.AlphaInterlace)
	}
	return h, nil
}

func (h *JHDR) encode() ([]byte, error) {
	var w builder
	w.u32(h.Width)
	w.u32(h.Height)
	w.raw([]byte{h.ColorType, h.SampleDepth, h.Compression, h.Interlace,
		h.AlphaDepth, h.AlphaCompression, h.AlphaFilter, h.AlphaInterlace})
	return w.b, nil
}

// JDAT carries a slice of the JPEG color stream.
type JDAT struct {
	Data []byte
}

func (*JDAT) Tag() Tag                  { return TagJDAT }
func (r *JDAT) encode() ([]byte, error) { return r.Data, nil }

// JDAA carries a slice of the JPEG alpha stream.
type JDAA struct {
	Data []byte
}

func (*JDAA) Tag() Tag                  { return TagJDAA }
func (r *JDAA) encode() ([]byte, error) { return r.Data, nil }

// JSEP separates the 8-bit and 12-bit JPEG streams.
type JSEP struct{}

func (*JSEP) Tag() Tag                { return TagJSEP }
func (*JSEP) encode() ([]byte, error) { return nil, nil }
