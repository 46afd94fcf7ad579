package math

import "github.com/chewxy/math32"

// EPS is the tolerance used by the camera and orbit code for near-zero tests.
const EPS float32 = 0.000001

const (
	Pi    = math32.Pi
	TwoPi = 2 * math32.Pi
)

// Clamp limits n to [lo, hi].
func Clamp(n, lo, hi float32) float32 {
	if n <= lo {
		return lo
	}
	if n >= hi {
		return hi
	}
	return n
}

// Lerp blends a and b by t. t is not clamped.
func Lerp(a, b, t float32) float32 {
	return (1-t)*a + t*b
}

// Mod returns n modulo m with the sign of m, so Mod(-1, 4) == 3.
func Mod(n, m float32) float32 {
	return math32.Mod(math32.Mod(n, m)+m, m)
}

func DegToRad(deg float32) float32 {
	return deg * math32.Pi / 180
}

func RadToDeg(rad float32) float32 {
	return rad * 180 / math32.Pi
}
