package bdfbuild

import (
	"testing"

	"github.com/tdewolff/test"
)

func bitmapFromRows(rows ...string) *Bitmap {
	b := NewBitmap(len(rows[0]), len(rows))
	for i, row := range rows {
		for x := 0; x < len(row); x++ {
			if row[x] != '.' {
				b.Set(x, len(rows)-1-i)
			}
		}
	}
	return b
}

func testFont(glyphs ...*srcGlyph) *srcFont {
	f := &srcFont{glyphs: map[string]*srcGlyph{}, codepoints: map[int]string{}}
	for _, g := range glyphs {
		f.add(g)
	}
	return f
}

func TestDecompose(t *testing.T) {
	test.T(t, decompose(0xe9), []rune{0x65, 0x301}) // eacute
	test.T(t, decompose(0x69), []rune{0x131, 0x307}) // i gets a custom dotless base
	test.T(t, len(decompose(0x17f)), 0)              // longs never composes
	test.T(t, len(decompose(0x41)), 0)
	test.T(t, len(decompose(0x20)), 0)
	test.T(t, decompose(0x1f04), []rune{0x3b1, 0x313, 0x301})
}

func TestComponentsOf(t *testing.T) {
	e := &srcGlyph{"e", 0x65, bitmapFromRows(
		"111",
		"1.1",
		"111",
	), 0, 0, 4}
	acute := &srcGlyph{"acute", 0x2ca, bitmapFromRows("1"), 1, 4, 4}
	eacute := &srcGlyph{"eacute", 0xe9, bitmapFromRows(
		".1.",
		"...",
		"111",
		"1.1",
		"111",
	), 0, 0, 4}
	f := testFont(e, acute, eacute)

	comps := f.componentsOf(eacute)
	test.T(t, len(comps), 2)
	test.T(t, comps[0], component{"e", 0, 0})
	test.T(t, comps[1], component{"acute", 1, 4})
}

func TestComponentsOfMismatch(t *testing.T) {
	// the composed shape differs from any placement of its parts
	e := &srcGlyph{"e", 0x65, bitmapFromRows(
		"111",
		"1.1",
		"111",
	), 0, 0, 4}
	acute := &srcGlyph{"acute", 0x2ca, bitmapFromRows("1"), 1, 4, 4}
	eacute := &srcGlyph{"eacute", 0xe9, bitmapFromRows(
		".1.",
		"...",
		"111",
		"111",
		"111",
	), 0, 0, 4}
	f := testFont(e, acute, eacute)
	test.T(t, len(f.componentsOf(eacute)), 0)
}

func TestComponentsOfMissing(t *testing.T) {
	// no dotless i in the font, so i keeps its own outline
	i := &srcGlyph{"i", 0x69, bitmapFromRows(
		"1",
		".",
		"1",
		"1",
	), 0, 0, 2}
	f := testFont(i)
	test.T(t, len(f.componentsOf(i)), 0)
}

func TestCoverComponentsUncomposable(t *testing.T) {
	// a spacing modifier must not be composed out of itself
	acute := &srcGlyph{"acute", 0x2ca, bitmapFromRows("1"), 1, 4, 4}
	f := testFont(acute)
	_, res := f.coverComponents(acute, []rune{0x301}, nil)
	test.T(t, res, composeUncomposable)
}

func TestCoverComponentsModifierFallback(t *testing.T) {
	// a combining mark missing from the font uses its modifier lookalike
	acute := &srcGlyph{"acute", 0x2ca, bitmapFromRows("1"), 1, 4, 4}
	mark := &srcGlyph{"mark", 0x20, bitmapFromRows("1"), 1, 4, 4}
	f := testFont(acute, mark)
	comps, res := f.coverComponents(mark, []rune{0x301}, nil)
	test.T(t, res, composeOK)
	test.T(t, len(comps), 1)
	test.T(t, comps[0].name, "acute")
}

func TestComponentsOfNested(t *testing.T) {
	alpha := &srcGlyph{"alpha", 0x3b1, bitmapFromRows(
		"111",
		"1.1",
		"111",
	), 0, 0, 4}
	psili := &srcGlyph{"comma", 0x2c, bitmapFromRows("1"), 0, 0, 2}
	acute := &srcGlyph{"acute", 0x2ca, bitmapFromRows("1"), 1, 4, 4}
	composed := &srcGlyph{"composed", 0x1f04, bitmapFromRows(
		"1.1",
		"...",
		"111",
		"1.1",
		"111",
	), 0, 0, 4}
	f := testFont(alpha, psili, acute, composed)

	comps := f.componentsOf(composed)
	test.T(t, len(comps), 3)
	test.T(t, comps[0], component{"alpha", 0, 0})
	test.T(t, comps[1], component{"comma", 0, 4})
	test.T(t, comps[2], component{"acute", 2, 4})
}
