// Package color builds the gamma lookup tables used for color correction.
//
// A table maps an encoded sample to sample^exponent over the normalized
// range [0, 1]. The exponent for an image is
//
//	view_gamma / (file_gamma * display_gamma)
//
// where file_gamma is the gAMA value (0.45455 for sRGB content).
package color

import (
	"math"
	"sync"
)

// SRGBGamma is the file gamma assumed for sRGB-tagged images.
const SRGBGamma = 0.45455

// identityTolerance is how close an exponent must be to 1 to skip
// correction entirely.
const identityTolerance = 0.005

// Exponent returns the correction exponent for an image with the given
// file gamma shown on a display with displayGamma, viewed with viewGamma.
// Non-positive inputs yield 1.
func Exponent(fileGamma, displayGamma, viewGamma float64) float64 {
	if fileGamma <= 0 || displayGamma <= 0 || viewGamma <= 0 {
		return 1
	}
	return viewGamma / (fileGamma * displayGamma)
}

// IsIdentity reports whether exponent e leaves samples unchanged at 8-bit
// precision.
func IsIdentity(e float64) bool {
	return math.Abs(e-1) < identityTolerance
}

// Key quantizes an exponent for use as a table cache key.
func Key(e float64) uint32 {
	return uint32(math.Round(e * 100000))
}

// GammaTable maps samples through one exponent. The 8-bit table is built
// eagerly, the 16-bit table on first use.
//
// GammaTable is safe for concurrent use.
type GammaTable struct {
	exponent float64
	t8       [256]uint8

	once sync.Once
	t16  []uint16
}

// NewGammaTable builds the table for exponent e.
func NewGammaTable(e float64) *GammaTable {
	g := &GammaTable{exponent: e}
	for i := range g.t8 {
		g.t8[i] = uint8(math.Round(math.Pow(float64(i)/255, e) * 255))
	}
	return g
}

// Exponent returns the table's exponent.
func (g *GammaTable) Exponent() float64 {
	return g.exponent
}

// Apply8 corrects an 8-bit sample.
func (g *GammaTable) Apply8(v uint8) uint8 {
	return g.t8[v]
}

// Apply16 corrects a 16-bit sample.
func (g *GammaTable) Apply16(v uint16) uint16 {
	g.once.Do(func() {
		g.t16 = make([]uint16, 1<<16)
		for i := range g.t16 {
			g.t16[i] = uint16(math.Round(math.Pow(float64(i)/65535, g.exponent) * 65535))
		}
	})
	return g.t16[v]
}

// Row8 corrects the color samples of an RGBA8 row in place.
func (g *GammaTable) Row8(row []byte) {
	for i := 0; i+4 <= len(row); i += 4 {
		row[i] = g.t8[row[i]]
		row[i+1] = g.t8[row[i+1]]
		row[i+2] = g.t8[row[i+2]]
	}
}

// Row16 corrects the color samples of a big-endian RGBA16 row in place.
func (g *GammaTable) Row16(row []byte) {
	for i := 0; i+8 <= len(row); i += 8 {
		for c := 0; c < 6; c += 2 {
			v := g.Apply16(uint16(row[i+c])<<8 | uint16(row[i+c+1]))
			row[i+c] = byte(v >> 8)
			row[i+c+1] = byte(v)
		}
	}
}
