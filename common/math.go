package common

// BaseWidth and BaseHeight are the logical render resolution; screens scale
// up from this in LayoutF.
const (
	BaseWidth  = 960
	BaseHeight = 640
)

func Lerp(a, b, t float64) float64 {
	return a + t*(b-a)
}

func Clamp(v, lo, hi float64) float64 {
	if v < lo {
		return lo
	}
	if v > hi {
		return hi
	}
	return v
}
