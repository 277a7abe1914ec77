package render

import mandel "github.com/marben/adaptive_mandel"

// DetectEdge reports whether pixel (x, y) of the sketch differs from any of
// its up to eight neighbors, and returns the pixel's sketch color.
// Neighbors outside of the image are skipped, never wrapped.
func DetectEdge(sketch *mandel.Image, eq mandel.Equivalence, x, y int) (bool, mandel.Pixel) {
	center := sketch.At(x, y)
	for j := max(0, y-1); j <= min(sketch.Height-1, y+1); j++ {
		for i := max(0, x-1); i <= min(sketch.Width-1, x+1); i++ {
			if i == x && j == y {
				continue
			}
			if !eq.Equivalent(center, sketch.At(i, j)) {
				return true, center
			}
		}
	}
	return false, center
}
