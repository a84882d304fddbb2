package mng

import (
	"errors"
	"fmt"
	"slices"
	"strconv"
	"strings"

	"github.com/gogpu/mng/chunk"
	"github.com/gogpu/mng/cms"
	"github.com/gogpu/mng/codec"
	"github.com/gogpu/mng/internal/image"
	"github.com/gogpu/mng/internal/object"
)

// assembler is the chunk-level state of a stream: the image or delta
// being collected, the global color chunks and the position in the
// datastream grammar.
type assembler struct {
	sig     chunk.Signature
	started bool
	ended   bool

	img   *pendingImage
	delta *pendingDelta

	// id is the object id given to the next embedded image (last DEFI).
	id uint16

	palette [][3]uint8
	trns    []byte
	hasTRNS bool
	profile cms.Profile

	dropped map[chunk.Tag]bool
}

// pendingImage collects the chunks of one PNG, JNG or BASI image until
// IEND.
type pendingImage struct {
	source chunk.Tag
	ihdr   *chunk.IHDR
	jhdr   *chunk.JHDR
	basi   *chunk.BASI

	idat []byte
	jdat []byte
	jdaa []byte
	jsep bool

	palette [][3]uint8
	plte    bool
	trns    *chunk.TRNS
	profile cms.Profile
}

// pendingDelta collects a delta image: DHDR, PROM, palette chunks and an
// optional embedded pixel stream.
type pendingDelta struct {
	hdr     chunk.DHDR
	prom    *chunk.PROM
	pplt    []*chunk.PPLT
	key     *image.ColorKey
	ihdr    *chunk.IHDR
	idat    []byte
	hasIDAT bool
}

// colorType returns the PNG color type governing context-dependent chunk
// layouts, and whether a header is active.
func (a *assembler) colorType() (uint8, bool) {
	switch {
	case a.img != nil && a.img.ihdr != nil:
		return a.img.ihdr.ColorType, true
	case a.img != nil && a.img.basi != nil:
		return a.img.basi.ColorType, true
	case a.img != nil && a.img.jhdr != nil:
		return a.img.jhdr.ColorType - chunk.JNGGray, true
	case a.delta != nil && a.delta.ihdr != nil:
		return a.delta.ihdr.ColorType, true
	}
	return 0, false
}

// context returns the decoding context for the next chunk.
func (d *Decoder) context() chunk.Context {
	ct, ok := d.asm.colorType()
	return chunk.Context{
		HasHeader: ok,
		ColorType: ct,
		InMNG:     d.asm.sig == chunk.SigMNG,
		MaxWidth:  d.cfg.MaxWidth,
		MaxHeight: d.cfg.MaxHeight,
		MaxPixels: d.cfg.MaxPixels,
		Inflater:  d.cfg.Inflater,
	}
}

// firstTag is the header each signature must start with.
var firstTag = map[chunk.Signature]chunk.Tag{
	chunk.SigPNG: chunk.TagIHDR,
	chunk.SigMNG: chunk.TagMHDR,
	chunk.SigJNG: chunk.TagJHDR,
}

func orderError(tag chunk.Tag, format string, args ...any) error {
	return &chunk.Error{Tag: tag, Err: ErrChunkOrder, Detail: fmt.Sprintf(format, args...)}
}

// chunk handles one verified chunk. The returned error is fatal; warnings
// are reported before it returns nil.
func (d *Decoder) chunk(c chunk.Chunk, offset int64) error {
	a := &d.asm
	if a.ended {
		d.log.Debug("chunk after end of stream ignored", "tag", c.Tag.String(), "offset", offset)
		return nil
	}
	if !a.started {
		a.sig = d.rd.Signature()
		if want := firstTag[a.sig]; c.Tag != want {
			return d.fatal("read", c.Tag, offset, orderError(c.Tag, "%v stream must start with %v", a.sig, want))
		}
		a.started = true
		d.log.Info("stream started", "signature", a.sig.String())
	}
	if a.dropped[c.Tag] {
		d.log.Debug("dropped chunk skipped", "tag", c.Tag.String())
		return nil
	}
	if d.cfg.StoreChunks {
		d.chunks = append(d.chunks, c)
	}

	rec, err := chunk.Decode(c, d.context())
	if err != nil {
		if c.Tag.Critical() {
			return d.fatal("decode", c.Tag, offset, err)
		}
		d.warn("decode", c.Tag, offset, err)
		return nil
	}
	if err := d.record(rec); err != nil {
		if c.Tag.Critical() || errors.Is(err, ErrUnsupported) {
			return d.fatal("assemble", c.Tag, offset, err)
		}
		d.warn("assemble", c.Tag, offset, err)
	}
	return nil
}

// record routes a decoded chunk to the pending image, the pending delta,
// the global state or the animation queue.
func (d *Decoder) record(rec chunk.Record) error {
	a := &d.asm
	if a.img != nil {
		return d.imageChunk(rec)
	}
	if a.delta != nil {
		return d.deltaChunk(rec)
	}

	switch r := rec.(type) {
	case *chunk.IHDR:
		a.img = d.newPending(chunk.TagIHDR)
		a.img.ihdr = r
	case *chunk.JHDR:
		a.img = d.newPending(chunk.TagJHDR)
		a.img.jhdr = r
	case *chunk.BASI:
		a.img = d.newPending(chunk.TagBASI)
		a.img.basi = r
	case *chunk.DHDR:
		a.delta = &pendingDelta{hdr: *r}
	case *chunk.MHDR:
		d.enqueue(r)
	case *chunk.MEND:
		d.enqueue(r)
		d.endOfStream()
	case *chunk.PLTE:
		a.palette = r.Entries
	case *chunk.TRNS:
		a.trns, a.hasTRNS = r.Raw, r.Kind == chunk.TRNSRaw && len(r.Raw) > 0
	case *chunk.GAMA, *chunk.CHRM, *chunk.SRGB, *chunk.ICCP:
		applyProfile(&a.profile, rec)
	case *chunk.DEFI:
		a.id = r.ID
		d.enqueue(r)
	case *chunk.NEED:
		return d.checkNeed(r)
	case *chunk.DROP:
		if a.dropped == nil {
			a.dropped = make(map[chunk.Tag]bool)
		}
		for _, t := range r.Tags {
			a.dropped[t] = true
		}
	case *chunk.SAVE:
		if d.cfg.OnSave != nil {
			d.cfg.OnSave(r)
		}
		d.enqueue(r)
	case *chunk.SEEK:
		if d.cfg.OnSeek != nil {
			d.cfg.OnSeek(r.Name)
		}
		d.enqueue(r)
	case *chunk.LOOP, *chunk.ENDL, *chunk.CLON, *chunk.PAST, *chunk.DISC,
		*chunk.BACK, *chunk.BKGD, *chunk.FRAM, *chunk.MOVE, *chunk.CLIP,
		*chunk.SHOW, *chunk.TERM, *chunk.EXPI, *chunk.FPRI, *chunk.MAGN,
		*chunk.PPLT, *chunk.EVNT:
		d.enqueue(rec)
	case *chunk.IDAT, *chunk.IEND, *chunk.JDAT, *chunk.JDAA, *chunk.JSEP,
		*chunk.PROM, *chunk.IPNG, *chunk.IJNG:
		return orderError(rec.Tag(), "outside an image")
	default:
		d.ancillary(rec)
	}
	return nil
}

func (d *Decoder) newPending(tag chunk.Tag) *pendingImage {
	return &pendingImage{source: tag, profile: d.asm.profile}
}

func (d *Decoder) enqueue(r chunk.Record) {
	d.store.Enqueue(&object.Chunk{Rec: r})
}

// ancillary handles chunks that carry no pixels or timing.
func (d *Decoder) ancillary(rec chunk.Record) {
	switch r := rec.(type) {
	case chunk.Text:
		k, v := r.KeywordText()
		d.texts = append(d.texts, Text{Tag: r.Tag(), Keyword: k, Text: v})
		if d.cfg.OnText != nil {
			d.cfg.OnText(k, v)
		}
	case *chunk.Unknown:
		if d.cfg.OnUnknown != nil {
			d.cfg.OnUnknown(chunk.New(r.ChunkTag, r.Data))
		}
	default:
		d.log.Debug("chunk not used for display", "tag", rec.Tag().String())
	}
}

// mngKeywords are the nEED keywords naming decoder capabilities rather
// than chunk tags.
var mngKeywords = []string{"MNG-1.0", "MNG-1.1", "MNG-LC", "MNG-VLC", "CACHEOFF"}

func (d *Decoder) checkNeed(r *chunk.NEED) error {
	for _, k := range r.Keywords {
		if t, err := chunk.ParseTag(k); err == nil && chunk.Known(t) {
			continue
		}
		if slices.Contains(mngKeywords, k) {
			continue
		}
		if v, ok := strings.CutPrefix(k, "draft "); ok {
			if n, err := strconv.Atoi(v); err == nil && n <= 99 {
				continue
			}
		}
		return &chunk.Error{Tag: chunk.TagNEED, Err: ErrUnsupported, Detail: strconv.Quote(k)}
	}
	return nil
}

// imageChunk handles a chunk inside an IHDR, JHDR or BASI image.
func (d *Decoder) imageChunk(rec chunk.Record) error {
	p := d.asm.img
	switch r := rec.(type) {
	case *chunk.PLTE:
		p.palette, p.plte = r.Entries, true
	case *chunk.TRNS:
		p.trns = r
	case *chunk.GAMA, *chunk.CHRM, *chunk.SRGB, *chunk.ICCP:
		applyProfile(&p.profile, rec)
	case *chunk.IDAT:
		if p.jhdr != nil && p.jhdr.AlphaCompression != chunk.AlphaPNG {
			return orderError(chunk.TagIDAT, "JNG alpha is JPEG compressed")
		}
		p.idat = append(p.idat, r.Data...)
	case *chunk.JDAT:
		if p.jhdr == nil {
			return orderError(chunk.TagJDAT, "outside a JNG image")
		}
		if !p.jsep {
			p.jdat = append(p.jdat, r.Data...)
		}
	case *chunk.JSEP:
		p.jsep = true
	case *chunk.JDAA:
		if p.jhdr == nil || p.jhdr.AlphaCompression != chunk.AlphaJPEG {
			return orderError(chunk.TagJDAA, "no JPEG alpha declared")
		}
		p.jdaa = append(p.jdaa, r.Data...)
	case *chunk.IEND:
		d.asm.img = nil
		return d.finishImage(p)
	case *chunk.IHDR, *chunk.JHDR, *chunk.BASI, *chunk.DHDR, *chunk.MHDR,
		*chunk.MEND, *chunk.LOOP, *chunk.ENDL, *chunk.DEFI, *chunk.CLON,
		*chunk.PAST, *chunk.DISC, *chunk.FRAM, *chunk.SHOW, *chunk.TERM,
		*chunk.SAVE, *chunk.SEEK:
		return orderError(rec.Tag(), "inside an image")
	default:
		d.ancillary(rec)
	}
	return nil
}

// applyProfile merges a color chunk into p. Empty MNG forms cancel the
// corresponding setting.
func applyProfile(p *cms.Profile, rec chunk.Record) {
	switch r := rec.(type) {
	case *chunk.GAMA:
		p.Gamma = 0
		if !r.Empty {
			p.Gamma = r.Value()
		}
	case *chunk.CHRM:
		p.HasChroma = !r.Empty
		p.Chroma = cms.Chromaticities{
			WhiteX: r.WhiteX, WhiteY: r.WhiteY,
			RedX: r.RedX, RedY: r.RedY,
			GreenX: r.GreenX, GreenY: r.GreenY,
			BlueX: r.BlueX, BlueY: r.BlueY,
		}
	case *chunk.SRGB:
		p.SRGB, p.Intent = !r.Empty, r.Intent
	case *chunk.ICCP:
		p.ICCName, p.ICC = r.Name, r.Profile
	}
}

// finishImage decodes a complete image and queues it.
func (d *Decoder) finishImage(p *pendingImage) error {
	var (
		img *object.Image
		err error
	)
	if p.jhdr != nil {
		img, err = d.decodeJNG(p)
	} else {
		img, err = d.decodePNG(p)
	}
	if err != nil {
		return err
	}
	img.ID = d.asm.id
	d.store.Enqueue(img)
	d.log.Debug("image queued", "source", p.source.String(), "object", img.ID,
		"width", img.Buf.Width(), "height", img.Buf.Height(), "format", img.Buf.Format().String())
	if d.asm.sig != chunk.SigMNG {
		d.endOfStream()
	}
	return nil
}

func (d *Decoder) decodePNG(p *pendingImage) (*object.Image, error) {
	var w, h uint32
	var ct, depth, method, interlace uint8
	if r := p.ihdr; r != nil {
		w, h, ct, depth, method, interlace = r.Width, r.Height, r.ColorType, r.BitDepth, r.Filter, r.Interlace
	} else {
		r := p.basi
		w, h, ct, depth, method, interlace = r.Width, r.Height, r.ColorType, r.BitDepth, r.Filter, r.Interlace
	}
	interlaced := interlace == 1
	f, ok := image.FormatFor(image.ColorType(ct), depth)
	if !ok {
		return nil, &chunk.Error{Tag: p.source, Err: chunk.ErrBadField, Detail: "color type and bit depth"}
	}
	if err := image.CheckSize(int(w), int(h), f, d.cfg.MaxPixels); err != nil {
		return nil, &chunk.Error{Tag: p.source, Err: chunk.ErrImageSize, Detail: err.Error()}
	}
	var rows []byte
	switch {
	case len(p.idat) > 0:
		var err error
		if rows, err = d.inflateRows(p.idat, int(w), int(h), f, interlaced); err != nil {
			return nil, err
		}
	case p.basi == nil:
		return nil, orderError(chunk.TagIEND, "image without IDAT")
	}
	buf, err := image.NewImageBuf(int(w), int(h), f)
	if err != nil {
		return nil, err
	}
	if rows != nil {
		if err := image.DecodeRows(buf, rows, interlaced, method); err != nil {
			return nil, err
		}
	} else {
		b := p.basi
		switch image.ColorType(ct) {
		case image.ColorGray, image.ColorIndexed:
			buf.Fill(b.Red)
		case image.ColorGrayAlpha:
			buf.Fill(b.Red, b.Alpha)
		case image.ColorRGB:
			buf.Fill(b.Red, b.Green, b.Blue)
		case image.ColorRGBA:
			buf.Fill(b.Red, b.Green, b.Blue, b.Alpha)
		}
	}

	img := &object.Image{
		Source:     p.source,
		Buf:        buf,
		Profile:    p.profile,
		Interlaced: interlaced,
		Viewable:   p.basi == nil || p.basi.Viewable == 1,
	}
	if image.ColorType(ct) == image.ColorIndexed {
		img.Palette = d.palette(p)
	} else {
		img.Key = d.colorKey(p, ct)
	}
	return img, nil
}

// inflateRows inflates the pixel stream of a w x h image in f. Inflation
// stops as soon as the output passes the size the image needs.
func (d *Decoder) inflateRows(data []byte, w, h int, f image.Format, interlaced bool) ([]byte, error) {
	rows, err := codec.InflateRows(d.cfg.Inflater, data, image.StreamSize(w, h, f, interlaced))
	switch {
	case errors.Is(err, codec.ErrShortRows):
		return nil, fmt.Errorf("%w: %w", image.ErrRowData, err)
	case err != nil:
		return nil, tagged(errInflate, err)
	}
	return rows, nil
}

// palette returns the palette of an indexed image: its own PLTE, or the
// global one when PLTE is missing or empty. Alpha comes from the local
// tRNS, falling back to the global tRNS with the global palette.
func (d *Decoder) palette(p *pendingImage) *image.Palette {
	pal := &image.Palette{RGB: p.palette}
	global := !p.plte || len(p.palette) == 0
	if global {
		pal.RGB = slices.Clone(d.asm.palette)
	}
	switch {
	case p.trns != nil && p.trns.Kind == chunk.TRNSIndexed:
		pal.Alpha = p.trns.Alpha
	case p.trns != nil:
		// Empty tRNS discards transparency.
	case global && d.asm.hasTRNS:
		pal.Alpha = slices.Clone(d.asm.trns)
	}
	return pal
}

// colorKey returns the tRNS color key of a gray or RGB image.
func (d *Decoder) colorKey(p *pendingImage, ct uint8) image.ColorKey {
	if t := p.trns; t != nil {
		switch t.Kind {
		case chunk.TRNSGray:
			return image.ColorKey{Valid: true, Gray: t.Gray}
		case chunk.TRNSRGB:
			return image.ColorKey{Valid: true, R: t.Red, G: t.Green, B: t.Blue}
		}
		return image.ColorKey{}
	}
	if !d.asm.hasTRNS {
		return image.ColorKey{}
	}
	return rawKey(d.asm.trns, ct)
}

// rawKey interprets a global tRNS payload for color type ct.
func rawKey(b []byte, ct uint8) image.ColorKey {
	u16 := func(i int) uint16 { return uint16(b[i])<<8 | uint16(b[i+1]) }
	switch {
	case ct == 0 && len(b) == 2:
		return image.ColorKey{Valid: true, Gray: u16(0)}
	case ct == 2 && len(b) == 6:
		return image.ColorKey{Valid: true, R: u16(0), G: u16(2), B: u16(4)}
	}
	return image.ColorKey{}
}

// decodeJNG decodes the JPEG color data of a JNG image and merges its
// alpha channel.
func (d *Decoder) decodeJNG(p *pendingImage) (*object.Image, error) {
	h := p.jhdr
	if len(p.jdat) == 0 {
		return nil, orderError(chunk.TagIEND, "JNG without JDAT")
	}
	buf, err := d.decodeJPEG(chunk.TagJDAT, p.jdat, h)
	if err != nil {
		return nil, err
	}
	img := &object.Image{Source: chunk.TagJHDR, Profile: p.profile, Viewable: true, Interlaced: h.Interlace != 0}
	if !h.HasAlpha() {
		img.Buf = buf
		return img, nil
	}
	alpha, err := d.jngAlpha(p)
	if err != nil {
		return nil, err
	}
	f := image.FormatRGBA8
	if h.ColorType == chunk.JNGGrayAlpha {
		f = image.FormatGA8
	}
	out, err := image.NewImageBuf(buf.Width(), buf.Height(), f)
	if err != nil {
		return nil, err
	}
	if buf.Format().BitDepth() != 8 {
		buf = buf.ToRGBA(8, image.Expand{})
	}
	gray := buf.Format().Channels() == 1
	for y := range out.Height() {
		for x := range out.Width() {
			px, src := out.PixelBytes(x, y), buf.PixelBytes(x, y)
			a := uint8(alpha(x, y))
			switch {
			case f == image.FormatGA8:
				px[0], px[1] = src[0], a
			case gray:
				px[0], px[1], px[2], px[3] = src[0], src[0], src[0], a
			default:
				px[0], px[1], px[2], px[3] = src[0], src[1], src[2], a
			}
		}
	}
	img.Buf = out
	return img, nil
}

// decodeJPEG decodes the JDAT or JDAA stream src of the JNG image h. The
// JPEG must have the dimensions JHDR declares; a JPEGSizer lets that be
// checked before the pixels are decoded.
func (d *Decoder) decodeJPEG(tag chunk.Tag, src []byte, h *chunk.JHDR) (*image.ImageBuf, error) {
	mismatch := func(w, ht int) error {
		return tagged(errJPEG, fmt.Errorf("%v JPEG is %dx%d, JHDR declares %dx%d", tag, w, ht, h.Width, h.Height))
	}
	if s, ok := d.cfg.JPEG.(codec.JPEGSizer); ok {
		w, ht, err := s.JPEGSize(src)
		if err != nil {
			return nil, tagged(errJPEG, err)
		}
		if w != int(h.Width) || ht != int(h.Height) {
			return nil, mismatch(w, ht)
		}
	}
	std, err := d.cfg.JPEG.DecodeJPEG(src)
	if err != nil {
		return nil, tagged(errJPEG, err)
	}
	buf, _, err := image.FromStd(std)
	if err != nil {
		return nil, tagged(errJPEG, err)
	}
	if buf.Width() != int(h.Width) || buf.Height() != int(h.Height) {
		return nil, mismatch(buf.Width(), buf.Height())
	}
	return buf, nil
}

// jngAlpha returns an 8-bit alpha lookup for a JNG image, decoded from
// the IDAT stream or from the JDAA JPEG.
func (d *Decoder) jngAlpha(p *pendingImage) (func(x, y int) uint16, error) {
	h := p.jhdr
	if h.AlphaCompression == chunk.AlphaJPEG {
		ab, err := d.decodeJPEG(chunk.TagJDAA, p.jdaa, h)
		if err != nil {
			return nil, err
		}
		return func(x, y int) uint16 { return ab.Sample(x, y, 0) }, nil
	}
	f, ok := image.FormatFor(image.ColorGray, h.AlphaDepth)
	if !ok {
		return nil, &chunk.Error{Tag: chunk.TagJHDR, Err: chunk.ErrBadField, Detail: "alpha depth"}
	}
	interlaced := h.AlphaInterlace == 1
	rows, err := d.inflateRows(p.idat, int(h.Width), int(h.Height), f, interlaced)
	if err != nil {
		return nil, err
	}
	ab, err := image.NewImageBuf(int(h.Width), int(h.Height), f)
	if err != nil {
		return nil, err
	}
	if err := image.DecodeRows(ab, rows, interlaced, h.AlphaFilter); err != nil {
		return nil, err
	}
	return func(x, y int) uint16 {
		return image.ScaleSample(ab.Sample(x, y, 0), h.AlphaDepth, 8, image.FillReplicate)
	}, nil
}

// deltaChunk handles a chunk inside a DHDR delta image.
func (d *Decoder) deltaChunk(rec chunk.Record) error {
	p := d.asm.delta
	switch r := rec.(type) {
	case *chunk.PROM:
		if p.ihdr != nil || p.hasIDAT {
			return orderError(chunk.TagPROM, "after the delta pixel data")
		}
		p.prom = r
	case *chunk.IPNG, *chunk.IJNG:
	case *chunk.IHDR:
		if p.ihdr != nil {
			return orderError(chunk.TagIHDR, "repeated in a delta image")
		}
		p.ihdr = r
	case *chunk.PLTE:
		if len(r.Entries) == 0 {
			break
		}
		g := chunk.PPLTGroup{Last: uint8(len(r.Entries) - 1)}
		for _, e := range r.Entries {
			g.Samples = append(g.Samples, e[:]...)
		}
		p.pplt = append(p.pplt, &chunk.PPLT{Type: chunk.PPLTReplaceRGB, Groups: []chunk.PPLTGroup{g}})
	case *chunk.PPLT:
		p.pplt = append(p.pplt, r)
	case *chunk.TRNS:
		switch r.Kind {
		case chunk.TRNSGray:
			p.key = &image.ColorKey{Valid: true, Gray: r.Gray}
		case chunk.TRNSRGB:
			p.key = &image.ColorKey{Valid: true, R: r.Red, G: r.Green, B: r.Blue}
		case chunk.TRNSIndexed:
			if len(r.Alpha) > 0 {
				p.pplt = append(p.pplt, &chunk.PPLT{Type: chunk.PPLTReplaceA, Groups: []chunk.PPLTGroup{
					{Last: uint8(len(r.Alpha) - 1), Samples: r.Alpha},
				}})
			}
		default:
			if len(r.Raw) == 0 {
				p.key = &image.ColorKey{}
			}
		}
	case *chunk.IDAT:
		p.idat = append(p.idat, r.Data...)
		p.hasIDAT = true
	case *chunk.IEND:
		d.asm.delta = nil
		return d.finishDelta(p)
	case *chunk.MHDR, *chunk.MEND, *chunk.DHDR, *chunk.JHDR, *chunk.BASI,
		*chunk.LOOP, *chunk.ENDL, *chunk.DEFI, *chunk.FRAM, *chunk.SHOW:
		return orderError(rec.Tag(), "inside a delta image")
	default:
		d.ancillary(rec)
	}
	return nil
}

func (d *Decoder) finishDelta(p *pendingDelta) error {
	rec := &object.Delta{Header: p.hdr, Promote: p.prom, Palette: p.pplt, Key: p.key}
	if p.hasIDAT && p.hdr.DeltaType != chunk.DeltaNoChange {
		rec.Width, rec.Height = int(p.hdr.BlockWidth), int(p.hdr.BlockHeight)
		if h := p.ihdr; h != nil {
			if rec.Width == 0 || rec.Height == 0 {
				rec.Width, rec.Height = int(h.Width), int(h.Height)
			}
			rec.Interlaced, rec.Method = h.Interlace == 1, h.Filter
			f, ok := image.FormatFor(image.ColorType(h.ColorType), h.BitDepth)
			if !ok {
				return &chunk.Error{Tag: chunk.TagIHDR, Err: chunk.ErrBadField, Detail: "color type and bit depth"}
			}
			rec.Format, rec.HasFormat = f, true
		}
		var err error
		if rec.HasFormat && rec.Width > 0 && rec.Height > 0 {
			rec.Rows, err = d.inflateRows(p.idat, rec.Width, rec.Height, rec.Format, rec.Interlaced)
		} else {
			rec.Rows, err = codec.InflateLimit(d.cfg.Inflater, p.idat, d.deltaLimit(rec.Width, rec.Height))
			if err != nil {
				err = tagged(errInflate, err)
			}
		}
		if err != nil {
			return err
		}
	}
	d.store.Enqueue(rec)
	d.log.Debug("delta queued", "object", p.hdr.Object, "type", p.hdr.DeltaType, "pixels", rec.Rows != nil)
	return nil
}

// deltaLimit bounds the pixel stream of a delta block whose format is only
// known once its target is: a filtered stream never holds more than eight
// sample bytes and one filter byte per pixel. A block without dimensions
// covers its target, which the pixel budget bounds.
func (d *Decoder) deltaLimit(w, h int) int64 {
	pixels := uint64(w) * uint64(h)
	if w == 0 || h == 0 {
		pixels = d.cfg.MaxPixels
		if pixels == 0 {
			pixels = image.MaxBufferBytes
		}
	}
	return int64(9 * min(pixels, image.MaxBufferBytes))
}

// endOfStream marks the final IEND or MEND.
func (d *Decoder) endOfStream() {
	d.asm.ended = true
	d.sched.Finish()
	d.log.Info("stream complete", "signature", d.asm.sig.String(), "records", d.store.Len())
}
