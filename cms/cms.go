// Package cms is the color-management collaborator of the MNG engine.
//
// A Manager turns an input Profile (built from gAMA, cHRM, sRGB and iCCP)
// and an output Profile into a Transform that corrects canonical RGBA rows
// in place. GammaOnly, the default, applies a single gamma exponent and
// ignores chromaticities and ICC data.
package cms

import (
	"github.com/gogpu/mng/internal/cache"
	"github.com/gogpu/mng/internal/color"
)

// Chromaticities are cHRM white point and primaries, scaled by 100000.
type Chromaticities struct {
	WhiteX, WhiteY uint32
	RedX, RedY     uint32
	GreenX, GreenY uint32
	BlueX, BlueY   uint32
}

// Profile describes the color encoding of an image or a display.
type Profile struct {
	// Gamma is the file gamma (gAMA / 100000); 0 means unknown.
	Gamma float64

	Chroma    Chromaticities
	HasChroma bool

	// SRGB is set by an sRGB chunk; Intent is its rendering intent.
	SRGB   bool
	Intent uint8

	// ICC is an embedded (decompressed) ICC profile.
	ICCName string
	ICC     []byte
}

// IsZero reports whether the profile carries no color information.
func (p Profile) IsZero() bool {
	return p.Gamma == 0 && !p.HasChroma && !p.SRGB && len(p.ICC) == 0
}

// FileGamma returns the gamma to assume for the profile: the explicit gAMA
// value, the sRGB gamma, or dflt.
func (p Profile) FileGamma(dflt float64) float64 {
	switch {
	case p.SRGB:
		return color.SRGBGamma
	case p.Gamma > 0:
		return p.Gamma
	default:
		return dflt
	}
}

// Transform corrects the color samples of one canonical row in place.
// depth is 8 for RGBA8 rows and 16 for big-endian RGBA16 rows. Alpha is
// never modified.
type Transform interface {
	TransformRow(row []byte, depth uint8)
}

// Manager builds transforms. A nil Transform with a nil error means no
// correction is needed.
type Manager interface {
	NewTransform(in, out Profile) (Transform, error)
}

// Identity never corrects.
type Identity struct{}

// NewTransform implements Manager.
func (Identity) NewTransform(_, _ Profile) (Transform, error) {
	return nil, nil
}

// tables is shared by every GammaOnly manager in the process.
var tables = cache.New[uint32, *color.GammaTable](32)

// GammaOnly corrects with view_gamma / (file_gamma * display_gamma).
type GammaOnly struct {
	// DisplayGamma is the gamma of the output device (default 2.2).
	DisplayGamma float64

	// ViewGamma is the viewing-condition gamma (default 1.0).
	ViewGamma float64

	// DefaultGamma is assumed for images without gAMA or sRGB
	// (default 0.45455).
	DefaultGamma float64
}

// NewGammaOnly returns a GammaOnly manager with the standard defaults.
func NewGammaOnly() *GammaOnly {
	return &GammaOnly{DisplayGamma: 2.2, ViewGamma: 1.0, DefaultGamma: color.SRGBGamma}
}

// NewTransform implements Manager. An output profile with a gamma overrides
// DisplayGamma with its reciprocal.
func (g *GammaOnly) NewTransform(in, out Profile) (Transform, error) {
	display := g.DisplayGamma
	if out.Gamma > 0 {
		display = 1 / out.Gamma
	}
	if len(in.ICC) > 0 && !in.SRGB && in.Gamma == 0 {
		slogger().Debug("ICC profile ignored by gamma-only correction", "profile", in.ICCName)
	}
	e := color.Exponent(in.FileGamma(g.DefaultGamma), display, g.ViewGamma)
	if color.IsIdentity(e) {
		return nil, nil
	}
	t := tables.GetOrCreate(color.Key(e), func() *color.GammaTable {
		return color.NewGammaTable(e)
	})
	return gammaTransform{t}, nil
}

type gammaTransform struct {
	t *color.GammaTable
}

func (g gammaTransform) TransformRow(row []byte, depth uint8) {
	if depth == 16 {
		g.t.Row16(row)
		return
	}
	g.t.Row8(row)
}
