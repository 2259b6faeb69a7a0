package cinema

import (
	"math"

	"github.com/cquammen/cinema/internal/blend"
)

// shader colors the pixels of a lit layer.
type shader struct {
	light Vec3
	half  Vec3
	terms LightTerms
	color Color
	lut   *LUT
}

func newShader(light, view Vec3, terms LightTerms, color Color, lut *LUT) shader {
	return shader{
		light: light,
		half:  normalize(light.Add(view)),
		terms: terms,
		color: color,
		lut:   lut,
	}
}

// decodeNormal maps a byte in [0, 255] to a normal component in [-1, 1].
func decodeNormal(c byte) float64 {
	return float64(c)/255*2 - 1
}

// intensity is the Phong term for unit normal n.
func (s *shader) intensity(n Vec3) float64 {
	diffuse := math.Max(0, n.Dot(s.light))
	specular := math.Pow(math.Max(0, n.Dot(s.half)), s.terms.Alpha)
	return s.terms.Ka + s.terms.Kd*diffuse + s.terms.Ks*specular
}

// shadeRow blends one row of a lit layer into dst. The normal comes from
// the red channel of the nx, ny and nz rows; the scalar row supplies the
// lookup index (red) and the coverage (alpha).
func (s *shader) shadeRow(dst, nx, ny, nz, scalar []byte) {
	for i := 0; i+3 < len(dst); i += 4 {
		a := scalar[i+3]
		if a == 0 {
			continue
		}
		n := normalize(Vec3{decodeNormal(nx[i]), decodeNormal(ny[i]), decodeNormal(nz[i])})
		term := s.intensity(n)
		c := s.lut[scalar[i]]
		blend.Pixel(dst[i:i+4],
			toByte(float64(c.R)*s.color.R*term),
			toByte(float64(c.G)*s.color.G*term),
			toByte(float64(c.B)*s.color.B*term),
			a)
	}
}
