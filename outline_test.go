package bdfbuild

import (
	"math"
	"testing"

	"github.com/tdewolff/test"
)

func TestPixelContourSquare(t *testing.T) {
	points := pixelContour(100.0, PixelShape{Volume: 1, Roundness: 0, Bleed: 0})
	test.T(t, len(points), 16)
	for _, p := range points {
		test.T(t, math.Abs(p.x), 50.0)
		test.T(t, math.Abs(p.y), 50.0)
	}
	test.T(t, points[0], contourPoint{50, 50, "curve"})
	test.T(t, points[1], contourPoint{50, -50, "line"})
}

func TestPixelContourThin(t *testing.T) {
	points := pixelContour(100.0, PixelShape{Volume: 0.1, Roundness: 0, Bleed: 0})
	test.T(t, points[0], contourPoint{5, 5, "curve"})
	test.T(t, points[13], contourPoint{5, 5, "line"})
}

func TestPixelContourRound(t *testing.T) {
	points := pixelContour(100.0, PixelShape{Volume: 1, Roundness: 1, Bleed: 0})
	test.T(t, len(points), 16)

	// fully round: the straight edge midpoints collapse onto the axes
	test.T(t, points[0], contourPoint{50, 0, "curve"})
	test.T(t, points[1], contourPoint{50, 0, "line"})

	// the control points approximate a circular corner
	tangent := 50.0 * (4.0 / 3.0) * math.Tan(math.Pi/8.0)
	test.T(t, points[2], contourPoint{50, -tangent, ""})
	test.T(t, points[3], contourPoint{tangent, -50, ""})
	test.T(t, points[4], contourPoint{0, -50, "curve"})
}

func TestPixelContourBleed(t *testing.T) {
	points := pixelContour(100.0, PixelShape{Volume: 1, Roundness: 0, Bleed: 1})
	test.T(t, points[0], contourPoint{100, 50, "curve"})
	test.T(t, points[9], contourPoint{-100, 50, "line"})

	// bleed stretches horizontally only up to the cell edge
	half := pixelContour(100.0, PixelShape{Volume: 0.5, Roundness: 0, Bleed: 1})
	test.T(t, half[0], contourPoint{100, 25, "curve"})
}
