package bdfbuild

import "math"

// PixelShape are the master design parameters of a single pixel: its size
// relative to the pixel cell (volume), corner roundness, and how far it bleeds
// into neighboring cells. All three range from 0 to 1.
type PixelShape struct {
	Volume    float64
	Roundness float64
	Bleed     float64
}

// contourPoint is one point of a pixel contour, relative to the pixel center
// in font units. Type is "curve", "line" or "" for an off-curve control point.
type contourPoint struct {
	x, y float64
	typ  string
}

// pixelContour returns the closed cubic contour of a single pixel centered at
// the origin. Corners are approximated by cubic beziers; bleed stretches the
// shape horizontally up to the full pixel cell.
func pixelContour(unitsPerPixel float64, shape PixelShape) []contourPoint {
	pixelUnit := unitsPerPixel / 2.0
	unit := shape.Volume * pixelUnit
	radius := shape.Roundness * unit

	tangent := radius * (4.0 / 3.0) * math.Tan(math.Pi/8.0)
	maxX := unit + shape.Bleed*(2.0*pixelUnit-unit)
	maxY := unit
	minX := maxX - radius
	minY := maxY - radius
	tangentX := minX + tangent
	tangentY := minY + tangent

	return []contourPoint{
		{maxX, minY, "curve"},
		{maxX, -minY, "line"},
		{maxX, -tangentY, ""},
		{tangentX, -maxY, ""},
		{minX, -maxY, "curve"},
		{-minX, -maxY, "line"},
		{-tangentX, -maxY, ""},
		{-maxX, -tangentY, ""},
		{-maxX, -minY, "curve"},
		{-maxX, minY, "line"},
		{-maxX, tangentY, ""},
		{-tangentX, maxY, ""},
		{-minX, maxY, "curve"},
		{minX, maxY, "line"},
		{tangentX, maxY, ""},
		{maxX, tangentY, ""},
	}
}
