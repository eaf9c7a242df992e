package bdfbuild

import (
	"sort"

	"golang.org/x/text/unicode/norm"
)

// combiningMark describes a combining diacritic: the anchor class it attaches
// with, and the spacing modifier codepoint that shares its shape (0 if none).
// Fonts rarely draw combining marks directly; when a mark is missing its
// modifier lookalike is used instead.
type combiningMark struct {
	anchor   string
	modifier rune
}

var combiningMarks = map[rune]combiningMark{
	0x300:  {"top", 0x2cb},         // grave accent
	0x301:  {"top.shifted", 0x2ca}, // acute accent
	0x302:  {"top", 0x2c6},         // circumflex accent
	0x303:  {"top.shifted", 0x2dc}, // tilde
	0x304:  {"top", 0x2c9},         // macron
	0x306:  {"top", 0x2d8},         // breve
	0x307:  {"top", 0x2d9},         // dot above
	0x308:  {"top", 0xa8},          // diaeresis
	0x309:  {"top", 0},             // hook above
	0x30a:  {"top", 0x2da},         // ring above
	0x30b:  {"top.shifted", 0x2dd}, // double acute accent
	0x30c:  {"top", 0x2c7},         // caron
	0x30d:  {"top", 0x2c8},         // vertical line above
	0x30f:  {"top", 0x2f5},         // double grave accent
	0x311:  {"top", 0x1aff},        // inverted breve
	0x313:  {"top", 0x2c},          // comma above
	0x314:  {"top", 0},             // reversed comma above
	0x315:  {"top.right", 0x2c},    // comma above right
	0x31b:  {"horn", 0},            // horn
	0x323:  {"bottom", 0x2d9},      // dot below
	0x324:  {"bottom", 0xa8},       // diaeresis below
	0x325:  {"bottom", 0x2da},      // ring below
	0x326:  {"bottom", 0x2c},       // comma below
	0x327:  {"cedilla", 0xb8},      // cedilla
	0x328:  {"ogonek", 0x2db},      // ogonek
	0x32d:  {"bottom", 0x2c6},      // circumflex accent below
	0x32e:  {"bottom", 0x2d8},      // breve below
	0x32f:  {"bottom", 0x1aff},     // inverted breve below
	0x330:  {"bottom.shifted", 0x2dc}, // tilde below
	0x331:  {"bottom", 0x2c9},      // macron below
	0x332:  {"top", 0x5f},          // low line
	0x335:  {"overlay", 0},         // short stroke overlay
	0x342:  {"top.shifted", 0x2dc}, // greek perispomeni
	0x343:  {"top", 0x2c},          // greek koronis
	0x344:  {"top", 0xa8},          // greek dialytika tonos
	0x345:  {"bottom", 0x37a},      // greek ypogegrammeni
	0x359:  {"bottom", 0},          // asterisk below
	0x35c:  {"bottom", 0},          // double breve below
	0x35f:  {"bottom", 0x2ed},      // double macron below
	0x1dc4: {"top", 0},             // macron acute
	0x1dc5: {"top", 0},             // grave macron
	0x1dc6: {"top", 0},             // macron grave
	0x1dc7: {"top", 0},             // acute macron
	0x1dca: {"bottom", 0},          // latin small letter r below
}

func combiningOrder() []rune {
	marks := make([]rune, 0, len(combiningMarks))
	for cp := range combiningMarks {
		marks = append(marks, cp)
	}
	sort.Slice(marks, func(i, j int) bool { return marks[i] < marks[j] })
	return marks
}

// customDecompositions overrides the Unicode canonical decomposition where the
// pixel shapes compose differently, or not at all (empty entry).
var customDecompositions = map[rune][]rune{
	0x69:   {0x131, 0x307},
	0x6a:   {0x237, 0x307},
	0xec:   {0x131, 0x300},
	0xed:   {0x131, 0x301},
	0xee:   {0x131, 0x302},
	0xef:   {0x131, 0x308},
	0x10f:  {0x0064, 0x2bc},
	0x122:  {0x0047, 0x326},
	0x123:  {0x0067, 0x2bb},
	0x129:  {0x131, 0x303},
	0x12b:  {0x131, 0x304},
	0x12d:  {0x131, 0x306},
	0x135:  {0x237, 0x302},
	0x136:  {0x004b, 0x326},
	0x137:  {0x006b, 0x326},
	0x13b:  {0x004c, 0x326},
	0x13c:  {0x006c, 0x326},
	0x13d:  {0x004c, 0x2bc},
	0x13e:  {0x006c, 0x2bc},
	0x145:  {0x004e, 0x326},
	0x146:  {0x006e, 0x326},
	0x156:  {0x0052, 0x326},
	0x157:  {0x0072, 0x326},
	0x165:  {0x0074, 0x2bc},
	0x17f:  {},
	0x1d0:  {0x131, 0x30c},
	0x1f0:  {0x237, 0x30c},
	0x209:  {0x131, 0x30f},
	0x20b:  {0x131, 0x311},
	0x385:  {0x308, 0x301},
	0x457:  {0x131, 0x308},
	0x1e06: {0x0042, 0x331},
	0x1e07: {0x0062, 0x331},
	0x1e0e: {0x0044, 0x331},
	0x1e0f: {0x0064, 0x331},
	0x1e34: {0x004b, 0x331},
	0x1e35: {0x006b, 0x331},
	0x1e3a: {0x004c, 0x331},
	0x1e3b: {0x006c, 0x331},
	0x1e48: {0x004e, 0x331},
	0x1e49: {0x006e, 0x331},
	0x1e5e: {0x0052, 0x331},
	0x1e5f: {0x0072, 0x331},
	0x1e6e: {0x0054, 0x331},
	0x1e6f: {0x0074, 0x331},
	0x1e94: {0x005a, 0x331},
	0x1e95: {0x007a, 0x331},
	0x1ec9: {0x131, 0x309},
	0x1f02: {0x3b1, 0x313, 0x300},
	0x1f03: {0x3b1, 0x314, 0x300},
	0x1f04: {0x3b1, 0x313, 0x301},
	0x1f05: {0x3b1, 0x314, 0x301},
	0x1f0a: {0x391, 0x313, 0x300},
	0x1f0b: {0x391, 0x314, 0x300},
	0x1f0c: {0x391, 0x313, 0x301},
	0x1f0d: {0x391, 0x314, 0x301},
	0x1f12: {0x3b5, 0x313, 0x300},
	0x1f13: {0x3b5, 0x314, 0x300},
	0x1f14: {0x3b5, 0x313, 0x301},
	0x1f15: {0x3b5, 0x314, 0x301},
	0x1f1a: {0x395, 0x313, 0x300},
	0x1f1b: {0x395, 0x314, 0x300},
	0x1f1c: {0x395, 0x313, 0x301},
	0x1f1d: {0x395, 0x314, 0x301},
	0x1f22: {0x3b7, 0x313, 0x300},
	0x1f23: {0x3b7, 0x314, 0x300},
	0x1f24: {0x3b7, 0x313, 0x301},
	0x1f25: {0x3b7, 0x314, 0x301},
	0x1f2a: {0x397, 0x313, 0x300},
	0x1f2b: {0x397, 0x314, 0x300},
	0x1f2c: {0x397, 0x313, 0x301},
	0x1f2d: {0x397, 0x314, 0x301},
	0x1f32: {0x3b9, 0x313, 0x300},
	0x1f33: {0x3b9, 0x314, 0x300},
	0x1f34: {0x3b9, 0x313, 0x301},
	0x1f35: {0x3b9, 0x314, 0x301},
	0x1f3a: {0x399, 0x313, 0x300},
	0x1f3b: {0x399, 0x314, 0x300},
	0x1f3c: {0x399, 0x313, 0x301},
	0x1f3d: {0x399, 0x314, 0x301},
	0x1f42: {0x3bf, 0x313, 0x300},
	0x1f43: {0x3bf, 0x314, 0x300},
	0x1f44: {0x3bf, 0x313, 0x301},
	0x1f45: {0x3bf, 0x314, 0x301},
	0x1f4a: {0x39f, 0x313, 0x300},
	0x1f4b: {0x39f, 0x314, 0x300},
	0x1f4c: {0x39f, 0x313, 0x301},
	0x1f4d: {0x39f, 0x314, 0x301},
	0x1f52: {0x3c5, 0x313, 0x300},
	0x1f53: {0x3c5, 0x314, 0x300},
	0x1f54: {0x3c5, 0x313, 0x301},
	0x1f55: {0x3c5, 0x314, 0x301},
	0x1f5b: {0x3a5, 0x314, 0x300},
	0x1f5d: {0x3a5, 0x314, 0x301},
	0x1f62: {0x3c9, 0x313, 0x300},
	0x1f63: {0x3c9, 0x314, 0x300},
	0x1f64: {0x3c9, 0x313, 0x301},
	0x1f65: {0x3c9, 0x314, 0x301},
	0x1f6a: {0x3a9, 0x313, 0x300},
	0x1f6b: {0x3a9, 0x314, 0x300},
	0x1f6c: {0x3a9, 0x313, 0x301},
	0x1f6d: {0x3a9, 0x314, 0x301},
	0x1fbe: {0x37a},
	0x1fc1: {0x308, 0x342},
	0x1fed: {0x308, 0x300},
	0x1fee: {0x308, 0x301},
	0x1ff9: {0x39f, 0x301},
	0x2116: {0x004e, 0xba},
}

// customAnchors lists codepoints whose derived anchors would misalign with the
// rest of the font; their components still compose, but contribute no anchors.
var customAnchors = map[rune]bool{
	0x3b6: true, 0x3b8: true, 0x3b9: true, 0x3ba: true, 0x3bc: true, 0x3be: true, 0x3bf: true,
	0x1f02: true, 0x1f03: true, 0x1f04: true, 0x1f05: true, 0x1f08: true, 0x1f09: true,
	0x1f0a: true, 0x1f0b: true, 0x1f0c: true, 0x1f0d: true,
	0x1f12: true, 0x1f13: true, 0x1f14: true, 0x1f15: true, 0x1f18: true, 0x1f19: true,
	0x1f1a: true, 0x1f1b: true, 0x1f1c: true, 0x1f1d: true,
	0x1f22: true, 0x1f23: true, 0x1f24: true, 0x1f25: true, 0x1f28: true, 0x1f29: true,
	0x1f2a: true, 0x1f2b: true, 0x1f2c: true, 0x1f2d: true,
	0x1f32: true, 0x1f33: true, 0x1f34: true, 0x1f35: true, 0x1f38: true, 0x1f39: true,
	0x1f3a: true, 0x1f3b: true, 0x1f3c: true, 0x1f3d: true,
	0x1f42: true, 0x1f43: true, 0x1f44: true, 0x1f45: true, 0x1f48: true, 0x1f49: true,
	0x1f4a: true, 0x1f4b: true, 0x1f4c: true, 0x1f4d: true,
	0x1f52: true, 0x1f53: true, 0x1f54: true, 0x1f55: true, 0x1f59: true, 0x1f5b: true, 0x1f5c: true,
	0x1f62: true, 0x1f63: true, 0x1f64: true, 0x1f65: true, 0x1f68: true, 0x1f69: true,
	0x1f6a: true, 0x1f6b: true, 0x1f6c: true, 0x1f6d: true,
	0x1f82: true, 0x1f83: true, 0x1f84: true, 0x1f85: true, 0x1f88: true, 0x1f89: true,
	0x1f8a: true, 0x1f8b: true, 0x1f8c: true, 0x1f8d: true,
	0x1f92: true, 0x1f93: true, 0x1f94: true, 0x1f95: true, 0x1f98: true, 0x1f99: true,
	0x1f9a: true, 0x1f9b: true, 0x1f9c: true, 0x1f9d: true,
	0x1fa2: true, 0x1fa3: true, 0x1fa4: true, 0x1fa5: true, 0x1fa8: true, 0x1fa9: true,
	0x1faa: true, 0x1fab: true, 0x1fac: true, 0x1fad: true,
	0x1fba: true, 0x1fbb: true,
	0x1fc1: true, 0x1fc8: true, 0x1fc9: true, 0x1fca: true, 0x1fcb: true,
	0x1fcd: true, 0x1fce: true, 0x1fcf: true,
	0x1fda: true, 0x1fdb: true, 0x1fdd: true, 0x1fde: true, 0x1fdf: true,
	0x1fea: true, 0x1feb: true, 0x1fec: true, 0x1fed: true, 0x1fee: true,
	0x1ff8: true, 0x1ff9: true, 0x1ffa: true, 0x1ffb: true,
}

// decompose returns the codepoints a character decomposes into, or nil when it
// should keep its precomposed glyph. Spaces never contribute components.
func decompose(cp int) []rune {
	var d []rune
	if custom, ok := customDecompositions[rune(cp)]; ok {
		d = custom
	} else if cp > 0 {
		s := string(rune(cp))
		if n := norm.NFD.String(s); n != s {
			d = []rune(n)
		}
	}
	out := make([]rune, 0, len(d))
	for _, r := range d {
		if r != 0x20 {
			out = append(out, r)
		}
	}
	return out
}

// component places a source glyph's ink box at pixel position (x,y) within a
// composed glyph.
type component struct {
	name string
	x, y int
}

type composeResult int

const (
	composeOK composeResult = iota
	composeMissing      // a required component glyph is not in the font
	composeMismatch     // components exist but cannot cover the composed pixels
	composeUncomposable // a mark would be built from the composed glyph itself
)

// coverComponents searches for placements of the decomposition's glyphs that
// exactly cover the composed glyph's pixels. Placements are tried over every
// offset inside the composed ink box; marks missing from the font fall back to
// their spacing modifier shape.
func (f *srcFont) coverComponents(composed *srcGlyph, decomposition []rune, painted *Bitmap) ([]component, composeResult) {
	if painted == nil {
		painted = NewBitmap(composed.bitmap.W, composed.bitmap.H)
	}
	if len(decomposition) == 0 {
		if composed.bitmap.Equals(painted) {
			return []component{}, composeOK
		}
		return nil, composeMismatch
	}

	cp := decomposition[0]
	for stage := 0; stage < 2; stage++ {
		if stage == 0 {
			if _, ok := f.codepoints[int(cp)]; !ok {
				continue
			}
		} else {
			mark, ok := combiningMarks[cp]
			if !ok {
				break
			}
			if int(mark.modifier) == composed.codepoint {
				return nil, composeUncomposable
			}
			if mark.modifier == 0 {
				return nil, composeMissing
			}
			if _, ok := f.codepoints[int(mark.modifier)]; !ok {
				return nil, composeMissing
			}
			cp = mark.modifier
		}

		name := f.codepoints[int(cp)]
		comp := f.glyphs[name]
		dw := composed.bitmap.W - comp.bitmap.W
		dh := composed.bitmap.H - comp.bitmap.H

		for dy := 0; dy <= dh; dy++ {
			for dx := 0; dx <= dw; dx++ {
				next := painted.Clone()
				if !next.Paint(composed.bitmap, comp.bitmap, dx, dy) {
					continue
				}
				comps, res := f.coverComponents(composed, decomposition[1:], next)
				if res == composeMissing || res == composeUncomposable {
					return nil, res
				} else if res == composeOK {
					comps = append(comps, component{name, composed.x + dx, composed.y + dy})
					return comps, composeOK
				}
			}
		}
	}

	// no placement worked: missing when neither the codepoint nor its
	// modifier shape exists in the font, a shape mismatch otherwise
	if _, ok := f.codepoints[int(decomposition[0])]; !ok {
		mark, isMark := combiningMarks[decomposition[0]]
		if !isMark {
			return nil, composeMissing
		}
		if _, ok := f.codepoints[int(mark.modifier)]; mark.modifier == 0 || !ok {
			return nil, composeMissing
		}
	}
	return nil, composeMismatch
}

// componentsOf decomposes a glyph into positioned components, or returns nil
// when the glyph keeps its own outline.
func (f *srcFont) componentsOf(g *srcGlyph) []component {
	decomposition := decompose(g.codepoint)
	if len(decomposition) == 0 {
		return nil
	}

	comps, res := f.coverComponents(g, decomposition, nil)
	switch res {
	case composeMissing:
		f.infof("%s could be composed from [%s]", unicodeString(g.codepoint), decompositionString(decomposition))
		return nil
	case composeMismatch:
		f.warnf("%s cannot be composed from [%s], storing precomposed glyph", unicodeString(g.codepoint), decompositionString(decomposition))
		return nil
	case composeUncomposable:
		return nil
	}
	f.infof("%s composed with [%s]", unicodeString(g.codepoint), decompositionString(decomposition))
	// components come back innermost first
	for i, j := 0, len(comps)-1; i < j; i, j = i+1, j-1 {
		comps[i], comps[j] = comps[j], comps[i]
	}
	return comps
}
