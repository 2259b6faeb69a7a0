package blend

// Row blends a row of straight RGBA8 source pixels into dst using mode.
// Both slices hold 4 bytes per pixel; the shorter one bounds the operation.
func Row(dst, src []byte, mode Mode) {
	n := min(len(dst), len(src)) &^ 3
	if mode == SourceOver {
		sourceOverRow(dst[:n], src[:n])
		return
	}
	fn := GetFunc(mode)
	for i := 0; i < n; i += 4 {
		dst[i], dst[i+1], dst[i+2], dst[i+3] = fn(
			src[i], src[i+1], src[i+2], src[i+3],
			dst[i], dst[i+1], dst[i+2], dst[i+3])
	}
}

// sourceOverRow skips the function call for transparent and opaque sources,
// which make up nearly all pixels of a rendered sprite.
func sourceOverRow(dst, src []byte) {
	for i := 0; i < len(src); i += 4 {
		switch sa := src[i+3]; sa {
		case 0:
		case 255:
			copy(dst[i:i+4], src[i:i+4])
		default:
			dst[i], dst[i+1], dst[i+2], dst[i+3] = over(
				src[i], src[i+1], src[i+2], sa,
				dst[i], dst[i+1], dst[i+2], dst[i+3])
		}
	}
}

// Pixel blends a single straight-alpha source pixel into dst[0:4].
func Pixel(dst []byte, sr, sg, sb, sa byte) {
	dst[0], dst[1], dst[2], dst[3] = sourceOver(sr, sg, sb, sa, dst[0], dst[1], dst[2], dst[3])
}
