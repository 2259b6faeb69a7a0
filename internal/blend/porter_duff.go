package blend

// Mode selects a Porter-Duff operator.
type Mode uint8

const (
	// SourceOver draws the source on top of the destination.
	// Result: S + D*(1-Sa)
	SourceOver Mode = iota

	// DestinationOver draws the source underneath the destination.
	// Result: S*(1-Da) + D
	DestinationOver
)

// String returns the operator name.
func (m Mode) String() string {
	switch m {
	case SourceOver:
		return "SourceOver"
	case DestinationOver:
		return "DestinationOver"
	default:
		return "Unknown"
	}
}

// Func blends one straight-alpha source pixel with a destination pixel.
type Func func(sr, sg, sb, sa, dr, dg, db, da byte) (r, g, b, a byte)

// GetFunc returns the pixel function for mode.
// Unknown modes fall back to SourceOver.
func GetFunc(mode Mode) Func {
	switch mode {
	case DestinationOver:
		return destinationOver
	default:
		return sourceOver
	}
}

// sourceOver composites a straight-alpha source over a straight-alpha
// destination.
//
// Color is computed in premultiplied space and divided back out:
//
//	Ao = Sa + Da*(1-Sa)
//	Co = (Cs*Sa + Cd*Da*(1-Sa)) / Ao
func sourceOver(sr, sg, sb, sa, dr, dg, db, da byte) (byte, byte, byte, byte) {
	switch {
	case sa == 255:
		return sr, sg, sb, 255
	case sa == 0:
		return dr, dg, db, da
	}
	return over(sr, sg, sb, sa, dr, dg, db, da)
}

// destinationOver is sourceOver with the operands swapped.
func destinationOver(sr, sg, sb, sa, dr, dg, db, da byte) (byte, byte, byte, byte) {
	return sourceOver(dr, dg, db, da, sr, sg, sb, sa)
}

// over is the general case of sourceOver, 0 < sa < 255.
func over(sr, sg, sb, sa, dr, dg, db, da byte) (byte, byte, byte, byte) {
	// Weights scaled by 255 to keep everything integral.
	ws := uint32(sa) * 255
	wd := uint32(da) * uint32(inv255(sa))
	den := ws + wd
	if den == 0 {
		return 0, 0, 0, 0
	}
	r := divRound(uint32(sr)*ws+uint32(dr)*wd, den)
	g := divRound(uint32(sg)*ws+uint32(dg)*wd, den)
	b := divRound(uint32(sb)*ws+uint32(db)*wd, den)
	a := sa + mulDiv255(da, inv255(sa))
	return r, g, b, a
}
