package mng

import (
	"image/color"

	"github.com/gogpu/mng/chunk"
	"github.com/gogpu/mng/cms"
	"github.com/gogpu/mng/codec"
)

// CRCMode selects how chunk CRC mismatches are handled.
type CRCMode uint8

const (
	// CRCStrict halts the stream on any CRC mismatch.
	CRCStrict CRCMode = iota
	// CRCAncillary skips ancillary chunks with a bad CRC and halts on
	// critical ones.
	CRCAncillary
	// CRCIgnore does not verify CRCs.
	CRCIgnore
)

func (m CRCMode) String() string {
	switch m {
	case CRCStrict:
		return "strict"
	case CRCAncillary:
		return "ancillary"
	case CRCIgnore:
		return "ignore"
	}
	return "unknown"
}

// Config holds the settings of a Decoder or Encoder. Start from
// DefaultConfig and adjust it with Options.
type Config struct {
	// Canvas receives the rows of every refreshed area. Nil disables row
	// output; the canvas is still available through Decoder.Image.
	Canvas Canvas

	// Depth is the canvas sample depth: 8 for RGBA8 rows, 16 for
	// big-endian RGBA16 rows.
	Depth uint8

	// Premultiplied composites layers with premultiplied alpha.
	Premultiplied bool

	// Background is used until the stream provides BACK or bKGD.
	Background color.Color

	CRC CRCMode

	// MaxChunkLength caps declared chunk lengths.
	MaxChunkLength uint32

	// MaxWidth and MaxHeight bound image and canvas dimensions.
	MaxWidth  uint32
	MaxHeight uint32

	// MaxPixels bounds the pixel count of every image, delta block, canvas
	// and magnified object. Zero leaves only the per-buffer byte cap.
	MaxPixels uint64

	// MaxLoopTicks bounds loops whose termination is left to the decoder.
	MaxLoopTicks uint64

	// StoreChunks keeps every chunk read for Decoder.Chunks.
	StoreChunks bool

	Inflater codec.Inflater
	Deflater codec.Deflater
	JPEG     codec.JPEG

	// Color corrects images from their profile to Output. Nil disables
	// color correction.
	Color  cms.Manager
	Output cms.Profile

	// ReadSize is the read granularity of pull-mode decoders.
	ReadSize int

	// MaxIDAT is the largest IDAT payload an Encoder writes.
	MaxIDAT int
	// Interlace makes the Encoder write Adam7 images.
	Interlace bool
	// JPEGQuality is the quality of JNG images written by an Encoder.
	JPEGQuality int

	// OnError receives every classified error before the decoder decides
	// whether to continue.
	OnError func(*Error)
	// OnText receives tEXt, zTXt and iTXt chunks.
	OnText func(keyword, text string)
	// OnUnknown receives ancillary chunks without a registered record.
	OnUnknown func(chunk.Chunk)
	// OnSave and OnSeek receive SAVE and SEEK chunks as they are read.
	OnSave func(*chunk.SAVE)
	OnSeek func(name string)
}

// DefaultMaxPixels is the default Config.MaxPixels: an 8192 x 8192 image.
const DefaultMaxPixels = 1 << 26

// DefaultConfig returns the default settings: RGBA8 canvas, transparent
// black background, strict CRCs, zlib, baseline JPEG and no color
// correction.
func DefaultConfig() Config {
	return Config{
		Depth:          8,
		Background:     color.Transparent,
		CRC:            CRCStrict,
		MaxChunkLength: chunk.MaxLength,
		MaxPixels:      DefaultMaxPixels,
		Inflater:       codec.DefaultZlib,
		Deflater:       codec.DefaultZlib,
		JPEG:           codec.StdJPEG{},
		ReadSize:       4096,
		MaxIDAT:        32 << 10,
		JPEGQuality:    90,
	}
}

// background returns the background as RGBA16 samples.
func (c *Config) background() [4]uint16 {
	if c.Background == nil {
		return [4]uint16{}
	}
	n := color.NRGBA64Model.Convert(c.Background).(color.NRGBA64)
	return [4]uint16{n.R, n.G, n.B, n.A}
}

// Option configures a Decoder or Encoder.
//
// Example:
//
//	d := mng.NewDecoder(
//	    mng.WithCanvas(canvas),
//	    mng.WithDepth(16),
//	    mng.WithErrorHandler(func(e *mng.Error) { log.Print(e) }),
//	)
type Option func(*Config)

// WithConfig replaces the whole configuration. Options after it still
// apply.
func WithConfig(c Config) Option {
	return func(o *Config) { *o = c }
}

// WithCanvas sets the canvas that receives refreshed rows.
func WithCanvas(c Canvas) Option {
	return func(o *Config) { o.Canvas = c }
}

// WithDepth selects an RGBA8 (8) or RGBA16 (16) canvas.
func WithDepth(depth uint8) Option {
	return func(o *Config) { o.Depth = depth }
}

// WithPremultiplied selects premultiplied-alpha compositing.
func WithPremultiplied(on bool) Option {
	return func(o *Config) { o.Premultiplied = on }
}

// WithBackground sets the initial background color.
func WithBackground(c color.Color) Option {
	return func(o *Config) { o.Background = c }
}

// WithCRC sets the CRC handling mode.
func WithCRC(m CRCMode) Option {
	return func(o *Config) { o.CRC = m }
}

// WithMaxChunkLength caps declared chunk lengths.
func WithMaxChunkLength(n uint32) Option {
	return func(o *Config) { o.MaxChunkLength = n }
}

// WithMaxSize bounds image and canvas dimensions.
func WithMaxSize(width, height uint32) Option {
	return func(o *Config) { o.MaxWidth, o.MaxHeight = width, height }
}

// WithMaxPixels sets Config.MaxPixels.
func WithMaxPixels(n uint64) Option {
	return func(o *Config) { o.MaxPixels = n }
}

// WithMaxLoopTicks bounds loops whose termination is left to the decoder.
func WithMaxLoopTicks(ticks uint64) Option {
	return func(o *Config) { o.MaxLoopTicks = ticks }
}

// WithStoreChunks keeps every chunk for iteration with Decoder.Chunks.
func WithStoreChunks(on bool) Option {
	return func(o *Config) { o.StoreChunks = on }
}

// WithCodec sets the zlib collaborators. Nil values keep the defaults.
func WithCodec(inf codec.Inflater, def codec.Deflater) Option {
	return func(o *Config) {
		if inf != nil {
			o.Inflater = inf
		}
		if def != nil {
			o.Deflater = def
		}
	}
}

// WithJPEG sets the JPEG collaborator used for JNG images.
func WithJPEG(j codec.JPEG) Option {
	return func(o *Config) {
		if j != nil {
			o.JPEG = j
		}
	}
}

// WithColorManager enables color correction from each image's profile to
// out.
//
// Example:
//
//	d := mng.NewDecoder(mng.WithColorManager(cms.NewGammaOnly(), cms.Profile{SRGB: true}))
func WithColorManager(m cms.Manager, out cms.Profile) Option {
	return func(o *Config) { o.Color, o.Output = m, out }
}

// WithReadSize sets how many bytes a pull-mode decoder requests per Read.
func WithReadSize(n int) Option {
	return func(o *Config) { o.ReadSize = n }
}

// WithMaxIDAT sets the largest IDAT payload an Encoder writes.
func WithMaxIDAT(n int) Option {
	return func(o *Config) { o.MaxIDAT = n }
}

// WithInterlace makes an Encoder write Adam7 images.
func WithInterlace(on bool) Option {
	return func(o *Config) { o.Interlace = on }
}

// WithJPEGQuality sets the quality of JNG images written by an Encoder.
func WithJPEGQuality(q int) Option {
	return func(o *Config) { o.JPEGQuality = q }
}

// WithErrorHandler sets the function that receives every classified error.
func WithErrorHandler(fn func(*Error)) Option {
	return func(o *Config) { o.OnError = fn }
}

// WithTextHandler sets the function that receives text chunks.
func WithTextHandler(fn func(keyword, text string)) Option {
	return func(o *Config) { o.OnText = fn }
}

// WithUnknownHandler sets the function that receives unregistered
// ancillary chunks.
func WithUnknownHandler(fn func(chunk.Chunk)) Option {
	return func(o *Config) { o.OnUnknown = fn }
}

// WithSaveSeekHandlers sets the functions that receive SAVE and SEEK
// chunks.
func WithSaveSeekHandlers(save func(*chunk.SAVE), seek func(name string)) Option {
	return func(o *Config) { o.OnSave, o.OnSeek = save, seek }
}

func newConfig(opts []Option) Config {
	c := DefaultConfig()
	for _, opt := range opts {
		opt(&c)
	}
	if c.Depth != 16 {
		c.Depth = 8
	}
	if c.Inflater == nil {
		c.Inflater = codec.DefaultZlib
	}
	if c.Deflater == nil {
		c.Deflater = codec.DefaultZlib
	}
	if c.JPEG == nil {
		c.JPEG = codec.StdJPEG{}
	}
	if c.MaxIDAT <= 0 {
		c.MaxIDAT = 32 << 10
	}
	return c
}
