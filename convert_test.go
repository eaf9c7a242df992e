package bdfbuild

import (
	"bytes"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/tdewolff/test"
)

const convertBDF = `STARTFONT 2.1
FONT -misc-tiny-regular-r-normal--8-80-75-75-p-40-iso10646-1
SIZE 8 75 75
FONTBOUNDINGBOX 4 7 0 -1
STARTPROPERTIES 6
FAMILY_NAME "Tiny"
WEIGHT_NAME "Regular"
SLANT "R"
FOUNDRY "Misc"
FONT_ASCENT 7
FONT_DESCENT 1
ENDPROPERTIES
CHARS 7
STARTCHAR uni0000
ENCODING 0
DWIDTH 4 0
BBX 3 5 0 0
BITMAP
E0
E0
E0
E0
E0
ENDCHAR
STARTCHAR space
ENCODING 32
DWIDTH 3 0
BBX 0 0 0 0
BITMAP
ENDCHAR
STARTCHAR X
ENCODING 88
DWIDTH 4 0
BBX 3 5 0 0
BITMAP
A0
A0
40
A0
A0
ENDCHAR
STARTCHAR x
ENCODING 120
DWIDTH 4 0
BBX 3 3 0 0
BITMAP
A0
40
A0
ENDCHAR
STARTCHAR e
ENCODING 101
DWIDTH 4 0
BBX 3 3 0 0
BITMAP
E0
A0
E0
ENDCHAR
STARTCHAR acute
ENCODING 714
DWIDTH 2 0
BBX 1 1 0 5
BITMAP
80
ENDCHAR
STARTCHAR eacute
ENCODING 233
DWIDTH 4 0
BBX 3 5 0 0
BITMAP
40
00
E0
A0
E0
ENDCHAR
ENDFONT
`

func TestParseCodepointRanges(t *testing.T) {
	ranges, err := parseCodepointRanges("0x20-0x7e,0xa0")
	test.Error(t, err)
	test.T(t, len(ranges), 2)
	test.That(t, matchCodepoint(ranges, 0x20))
	test.That(t, matchCodepoint(ranges, 0x41))
	test.That(t, matchCodepoint(ranges, 0xa0))
	test.That(t, !matchCodepoint(ranges, 0x7f))
	test.That(t, !matchCodepoint(ranges, 0xa1))

	// no subset matches everything
	test.That(t, matchCodepoint(nil, 0x2603))

	_, err = parseCodepointRanges("xyz")
	test.That(t, err != nil)
	_, err = parseCodepointRanges("0x20-xyz")
	test.That(t, err != nil)
}

func TestSanitizeGlyphName(t *testing.T) {
	test.T(t, sanitizeGlyphName("eacute"), "eacute")
	test.T(t, sanitizeGlyphName(".notdef"), ".notdef")
	test.T(t, sanitizeGlyphName("a-b c"), "a_b_c")
	test.T(t, filterName("Extra-Light "), "extralight")
}

func TestLoadFont(t *testing.T) {
	bdf, err := ParseBDF([]byte(convertBDF))
	test.Error(t, err)

	f, m, err := loadFont(bdf, &Options{})
	test.Error(t, err)

	test.T(t, m.familyName, "Tiny")
	test.T(t, m.weight, 400)
	test.T(t, m.styleName, "Regular")
	test.T(t, m.fontName, "Tiny Regular")
	test.T(t, m.manufacturer, "Misc")
	test.T(t, m.unitsPerEm, 1024)
	test.T(t, m.unitsPerPixel, 128)
	test.T(t, m.ascent, 7)
	test.T(t, m.descent, 1)
	test.T(t, m.capHeight, 5)
	test.T(t, m.xHeight, 3)

	// encoding 0 becomes .notdef
	test.That(t, f.glyphs[".notdef"] != nil)
	test.T(t, f.glyphs[".notdef"].codepoint, 0)

	// the combining acute is synthesized from its spacing modifier
	mark := f.glyphs["uni0301"]
	test.That(t, mark != nil)
	test.T(t, mark.codepoint, 0x301)
	test.T(t, mark.x, 0)
	test.T(t, mark.y, 5)
	test.That(t, mark.bitmap.Equals(f.glyphs["acute"].bitmap))

	// empty glyphs crop to a single clear pixel
	test.T(t, f.glyphs["space"].bitmap.W, 1)
	test.T(t, f.glyphs["space"].advance, 3)
}

func TestLoadFontOverrides(t *testing.T) {
	bdf, err := ParseBDF([]byte(convertBDF))
	test.Error(t, err)

	_, m, err := loadFont(bdf, &Options{
		FamilyName: "Other",
		Version:    "3.2",
		Weight:     700,
		Slope:      "Italic",
		WidthClass: 3,
	})
	test.Error(t, err)
	test.T(t, m.familyName, "Other")
	test.T(t, m.versionMajor, 3)
	test.T(t, m.versionMinor, 2)
	test.T(t, m.weight, 700)
	test.T(t, m.styleName, "Bold Italic Condensed")
	test.T(t, m.fontName, "Other Bold Italic Condensed")
}

func TestLoadFontSubset(t *testing.T) {
	bdf, err := ParseBDF([]byte(convertBDF))
	test.Error(t, err)

	f, _, err := loadFont(bdf, &Options{Codepoints: "0x58"})
	test.Error(t, err)
	test.T(t, len(f.order), 2) // .notdef and X
	test.That(t, f.glyphs["X"] != nil)
	test.That(t, f.glyphs["e"] == nil)
}

func TestUFOInfo(t *testing.T) {
	bdf, err := ParseBDF([]byte(convertBDF))
	test.Error(t, err)
	_, m, err := loadFont(bdf, &Options{Version: "2.1"})
	test.Error(t, err)

	info := m.ufoInfo(time.Date(2024, 1, 2, 3, 4, 5, 0, time.UTC))
	test.T(t, info.FamilyName, "Tiny")
	test.T(t, info.StyleMapStyleName, "regular")
	test.T(t, info.UnitsPerEm, 1024)
	test.T(t, info.Ascender, 896)
	test.T(t, info.Descender, -128)
	test.T(t, info.CapHeight, 640)
	test.T(t, info.XHeight, 384)
	test.T(t, info.OpenTypeHeadCreated, "2024/01/02 03:04:05")
	test.T(t, info.OpenTypeHheaAscender, 896)
	test.T(t, info.OpenTypeHheaDescender, -128)
	test.T(t, info.OpenTypeNameVersion, "Version 2.1")
	test.T(t, info.OpenTypeNameUniqueID, "Misc: Tiny Regular")
	test.T(t, info.PostscriptFontName, "Tiny-Regular")
	test.T(t, info.OpenTypeOS2WeightClass, 400)
	test.T(t, info.OpenTypeOS2WidthClass, 5)
	test.T(t, info.OpenTypeOS2VendorID, "B2UF")
}

func TestConvert(t *testing.T) {
	bdf, err := ParseBDF([]byte(convertBDF))
	test.Error(t, err)

	now := func() time.Time { return time.Date(2024, 1, 2, 3, 4, 5, 0, time.UTC) }
	dir := t.TempDir()
	ds, err := Convert(bdf, &Options{Now: now}, dir)
	test.Error(t, err)
	test.T(t, ds.FamilyName, "Tiny")
	test.T(t, ds.StyleName, "Regular")

	// eight corner masters, the designspace document, and the builder config
	dirs := ds.MasterDirs()
	test.T(t, len(dirs), 8)
	for _, masterDir := range dirs {
		_, err := os.Stat(filepath.Join(dir, masterDir, "fontinfo.plist"))
		test.Error(t, err)
		_, err = os.Stat(filepath.Join(dir, masterDir, "glyphs", "contents.plist"))
		test.Error(t, err)
	}
	_, err = os.Stat(filepath.Join(dir, "Tiny-Regular.designspace"))
	test.Error(t, err)
	_, err = os.Stat(filepath.Join(dir, "config.yaml"))
	test.Error(t, err)

	// eacute is composed; the component offsets are in font units
	glif, err := os.ReadFile(filepath.Join(dir, dirs[0], "glyphs", "eacute.glif"))
	test.Error(t, err)
	test.That(t, bytes.Contains(glif, []byte(`<component base="e"/>`)))
	test.That(t, bytes.Contains(glif, []byte(`<component base="uni0301" xOffset="128" yOffset="-128"/>`)))

	// composed glyphs are identical across masters
	glif2, err := os.ReadFile(filepath.Join(dir, dirs[7], "glyphs", "eacute.glif"))
	test.Error(t, err)
	test.That(t, bytes.Equal(glif, glif2))

	// outlined glyphs get one contour per pixel and differ between masters
	eGlif, err := os.ReadFile(filepath.Join(dir, dirs[0], "glyphs", "e.glif"))
	test.Error(t, err)
	test.T(t, bytes.Count(eGlif, []byte("<contour>")), 8)
	eGlif2, err := os.ReadFile(filepath.Join(dir, dirs[1], "glyphs", "e.glif"))
	test.Error(t, err)
	test.That(t, !bytes.Equal(eGlif, eGlif2))

	// the mark feature is derived from the composition
	fea, err := os.ReadFile(filepath.Join(dir, dirs[0], "features.fea"))
	test.Error(t, err)
	test.That(t, bytes.Contains(fea, []byte("markClass [uni0301] <anchor 0 640> @top.shifted;")))
	test.That(t, bytes.Contains(fea, []byte("pos base [e] <anchor 128 512> mark @top.shifted;")))
}

func TestConvertDeterministic(t *testing.T) {
	bdf, err := ParseBDF([]byte(convertBDF))
	test.Error(t, err)

	now := func() time.Time { return time.Date(2024, 1, 2, 3, 4, 5, 0, time.UTC) }
	dir1, dir2 := t.TempDir(), t.TempDir()
	_, err = Convert(bdf, &Options{Now: now}, dir1)
	test.Error(t, err)
	ds, err := Convert(bdf, &Options{Now: now}, dir2)
	test.Error(t, err)

	for _, name := range []string{
		ds.FileName(),
		"config.yaml",
		filepath.Join(ds.MasterDirs()[0], "fontinfo.plist"),
		filepath.Join(ds.MasterDirs()[0], "features.fea"),
		filepath.Join(ds.MasterDirs()[0], "lib.plist"),
		filepath.Join(ds.MasterDirs()[0], "glyphs", "contents.plist"),
		filepath.Join(ds.MasterDirs()[0], "glyphs", "eacute.glif"),
	} {
		b1, err := os.ReadFile(filepath.Join(dir1, name))
		test.Error(t, err)
		b2, err := os.ReadFile(filepath.Join(dir2, name))
		test.Error(t, err)
		test.That(t, bytes.Equal(b1, b2), name)
	}
}

func TestConvertErrors(t *testing.T) {
	bdf, err := ParseBDF([]byte(convertBDF))
	test.Error(t, err)

	_, err = Convert(bdf, &Options{Codepoints: "xyz"}, t.TempDir())
	test.That(t, err != nil)

	_, err = Convert(&BDF{Glyphs: bdf.Glyphs}, &Options{}, t.TempDir())
	test.That(t, err != nil)
	test.That(t, strings.Contains(err.Error(), "invalid point size"))
}
