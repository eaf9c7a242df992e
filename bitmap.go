package bdfbuild

// Bitmap is a 1-bit glyph image. Pixels are stored row-major with row 0 at
// the bottom, so y grows upwards like font coordinates do.
type Bitmap struct {
	W, H int
	Pix  []uint8
}

// NewBitmap returns an all-clear bitmap of the given dimensions.
func NewBitmap(w, h int) *Bitmap {
	return &Bitmap{W: w, H: h, Pix: make([]uint8, w*h)}
}

// At returns whether the pixel at (x,y) is set. Out-of-range coordinates are clear.
func (b *Bitmap) At(x, y int) bool {
	if x < 0 || b.W <= x || y < 0 || b.H <= y {
		return false
	}
	return b.Pix[y*b.W+x] != 0
}

// Set marks the pixel at (x,y).
func (b *Bitmap) Set(x, y int) {
	if 0 <= x && x < b.W && 0 <= y && y < b.H {
		b.Pix[y*b.W+x] = 1
	}
}

// Any returns whether any pixel is set.
func (b *Bitmap) Any() bool {
	for _, p := range b.Pix {
		if p != 0 {
			return true
		}
	}
	return false
}

// Equals returns whether both bitmaps have the same dimensions and pixels.
func (b *Bitmap) Equals(o *Bitmap) bool {
	if b.W != o.W || b.H != o.H {
		return false
	}
	for i, p := range b.Pix {
		if p != o.Pix[i] {
			return false
		}
	}
	return true
}

// Clone returns a deep copy.
func (b *Bitmap) Clone() *Bitmap {
	pix := make([]uint8, len(b.Pix))
	copy(pix, b.Pix)
	return &Bitmap{W: b.W, H: b.H, Pix: pix}
}

// Crop cuts the bitmap down to its ink box and returns the cropped bitmap
// together with the (x,y) position of its lower-left corner in the original.
// An empty bitmap crops to a single clear pixel at the origin.
func (b *Bitmap) Crop() (*Bitmap, int, int) {
	xMin, yMin := b.W, b.H
	xMax, yMax := -1, -1
	for y := 0; y < b.H; y++ {
		for x := 0; x < b.W; x++ {
			if b.At(x, y) {
				if x < xMin {
					xMin = x
				}
				if xMax < x {
					xMax = x
				}
				if y < yMin {
					yMin = y
				}
				if yMax < y {
					yMax = y
				}
			}
		}
	}
	if xMax == -1 {
		return NewBitmap(1, 1), 0, 0
	}
	c := NewBitmap(xMax-xMin+1, yMax-yMin+1)
	for y := 0; y < c.H; y++ {
		for x := 0; x < c.W; x++ {
			if b.At(xMin+x, yMin+y) {
				c.Set(x, y)
			}
		}
	}
	return c, xMin, yMin
}

// Paint copies the set pixels of src at (dx,dy) into b, but only where dst
// already has ink in the composed target. It returns false when src has a set
// pixel that falls outside the target's ink.
func (b *Bitmap) Paint(target, src *Bitmap, dx, dy int) bool {
	for y := 0; y < src.H; y++ {
		for x := 0; x < src.W; x++ {
			if src.At(x, y) {
				if !target.At(dx+x, dy+y) {
					return false
				}
				b.Set(dx+x, dy+y)
			}
		}
	}
	return true
}
