package blend

import "fmt"

// Mode is a compositing mode. The values match the PAST composition byte.
type Mode uint8

const (
	// ModeOver places the source over the destination.
	ModeOver Mode = 0
	// ModeReplace copies the source, alpha included.
	ModeReplace Mode = 1
	// ModeUnder places the source under the destination.
	ModeUnder Mode = 2
)

// String returns the mode name.
func (m Mode) String() string {
	switch m {
	case ModeOver:
		return "over"
	case ModeReplace:
		return "replace"
	case ModeUnder:
		return "under"
	default:
		return fmt.Sprintf("Mode(%d)", uint8(m))
	}
}

// BlendFunc combines one 8-bit source pixel with one destination pixel.
type BlendFunc func(sr, sg, sb, sa, dr, dg, db, da byte) (r, g, b, a byte)

// GetBlendFunc returns the 8-bit pixel function for mode.
func GetBlendFunc(mode Mode, premultiplied bool) BlendFunc {
	switch mode {
	case ModeReplace:
		return blendSource
	case ModeUnder:
		if premultiplied {
			return blendDestinationOver
		}
		return blendUnderStraight
	default:
		if premultiplied {
			return blendSourceOver
		}
		return blendOverStraight
	}
}

// blendSource: Result = S
func blendSource(sr, sg, sb, sa, _, _, _, _ byte) (byte, byte, byte, byte) {
	return sr, sg, sb, sa
}

// blendSourceOver: S + D * (1 - Sa), premultiplied.
func blendSourceOver(sr, sg, sb, sa, dr, dg, db, da byte) (byte, byte, byte, byte) {
	invSa := inv255(sa)
	return addClamp(sr, mulDiv255(dr, invSa)),
		addClamp(sg, mulDiv255(dg, invSa)),
		addClamp(sb, mulDiv255(db, invSa)),
		addClamp(sa, mulDiv255(da, invSa))
}

// blendDestinationOver: D + S * (1 - Da), premultiplied.
func blendDestinationOver(sr, sg, sb, sa, dr, dg, db, da byte) (byte, byte, byte, byte) {
	return blendSourceOver(dr, dg, db, da, sr, sg, sb, sa)
}

// blendOverStraight composites straight-alpha S over D.
func blendOverStraight(sr, sg, sb, sa, dr, dg, db, da byte) (byte, byte, byte, byte) {
	switch {
	case sa == 255 || da == 0:
		return sr, sg, sb, sa
	case sa == 0:
		return dr, dg, db, da
	case da == 255:
		// Opaque background: a plain weighted mix.
		inv := uint16(inv255(sa))
		mix := func(s, d byte) byte {
			return byte(div255Exact(uint16(s)*uint16(sa) + uint16(d)*inv + 127))
		}
		return mix(sr, dr), mix(sg, dg), mix(sb, db), 255
	}
	r, g, b, a := overStraight(
		[4]uint32{uint32(sr), uint32(sg), uint32(sb), uint32(sa)},
		[4]uint32{uint32(dr), uint32(dg), uint32(db), uint32(da)}, 255)
	return byte(r), byte(g), byte(b), byte(a)
}

// blendUnderStraight composites straight-alpha D over S.
func blendUnderStraight(sr, sg, sb, sa, dr, dg, db, da byte) (byte, byte, byte, byte) {
	return blendOverStraight(dr, dg, db, da, sr, sg, sb, sa)
}

// overStraight is the general straight-alpha over for samples with maximum
// m. Both alphas must be strictly between 0 and m.
//
//	Ao = Fa + Ba*(1-Fa)
//	Co = (Fc*Fa + Bc*Ba*(1-Fa)) / Ao
func overStraight(f, b [4]uint32, m uint32) (r, g, bl, a uint32) {
	fa, ba := uint64(f[3]), uint64(b[3])
	mm := uint64(m)
	fw := fa * mm
	bw := ba * (mm - fa)
	outA := fw + bw // Ao * m
	c := func(fc, bc uint32) uint32 {
		return uint32((uint64(fc)*fw + uint64(bc)*bw + outA/2) / outA)
	}
	return c(f[0], b[0]), c(f[1], b[1]), c(f[2], b[2]), uint32((outA + mm/2) / mm)
}

// over16 composites one 16-bit source pixel onto a destination pixel.
func over16(s, d [4]uint16, premultiplied bool) [4]uint16 {
	sa, da := s[3], d[3]
	if premultiplied {
		inv := 0xffff - sa
		var out [4]uint16
		for i := range out {
			v := uint32(s[i]) + uint32(mulDiv65535(d[i], inv))
			out[i] = uint16(min(v, 0xffff))
		}
		return out
	}
	switch {
	case sa == 0xffff || da == 0:
		return s
	case sa == 0:
		return d
	}
	r, g, b, a := overStraight(
		[4]uint32{uint32(s[0]), uint32(s[1]), uint32(s[2]), uint32(sa)},
		[4]uint32{uint32(d[0]), uint32(d[1]), uint32(d[2]), uint32(da)}, 0xffff)
	return [4]uint16{uint16(r), uint16(g), uint16(b), uint16(a)}
}
