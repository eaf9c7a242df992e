package bdfbuild

import (
	"testing"

	"github.com/tdewolff/test"
)

const sampleBDF = `STARTFONT 2.1
COMMENT Example font
FONT -misc-tiny-bold-r-normal--5-50-75-75-p-30-iso10646-1
SIZE 5 75 75
FONTBOUNDINGBOX 4 6 0 -1
STARTPROPERTIES 6
FAMILY_NAME "Tiny"
WEIGHT_NAME "Bold"
SLANT "R"
FONT_ASCENT 5
FONT_DESCENT 1
COPYRIGHT "Say ""hi"""
ENDPROPERTIES
CHARS 3
STARTCHAR space
ENCODING 32
SWIDTH 600 0
DWIDTH 3 0
BBX 0 0 0 0
BITMAP
ENDCHAR
STARTCHAR A
ENCODING 65
SWIDTH 800 0
DWIDTH 4 0
BBX 3 5 0 0
BITMAP
40
A0
E0
A0
A0
ENDCHAR
STARTCHAR nonstandard
ENCODING -1 57344
SWIDTH 800 0
DWIDTH 4 0
BBX 1 1 0 0
BITMAP
80
ENDCHAR
ENDFONT
`

func TestParseBDF(t *testing.T) {
	bdf, err := ParseBDF([]byte(sampleBDF))
	test.Error(t, err)

	test.T(t, bdf.Name, "-misc-tiny-bold-r-normal--5-50-75-75-p-30-iso10646-1")
	test.T(t, bdf.PointSize, 5)
	test.T(t, bdf.XRes, 75)
	test.T(t, bdf.YRes, 75)
	test.T(t, bdf.BBW, 4)
	test.T(t, bdf.BBH, 6)
	test.T(t, bdf.BBX, 0)
	test.T(t, bdf.BBY, -1)
	test.T(t, len(bdf.Comments), 1)
	test.T(t, bdf.Comments[0], "Example font")

	test.T(t, bdf.Property("FAMILY_NAME", ""), "Tiny")
	test.T(t, bdf.Property("WEIGHT_NAME", ""), "Bold")
	test.T(t, bdf.Property("COPYRIGHT", ""), `Say "hi"`)
	test.T(t, bdf.Property("MISSING", "fallback"), "fallback")
	test.T(t, bdf.IntProperty("FONT_ASCENT", 0), 5)
	test.T(t, bdf.IntProperty("FONT_DESCENT", 0), 1)
	test.T(t, bdf.IntProperty("FAMILY_NAME", 7), 7)
	test.T(t, bdf.IntProperty("MISSING", 7), 7)

	test.T(t, len(bdf.Glyphs), 3)

	space := bdf.Glyphs[0]
	test.T(t, space.Name, "space")
	test.T(t, space.Encoding, 32)
	test.T(t, space.Advance, 3)
	test.That(t, !space.Bitmap.Any())

	a := bdf.Glyphs[1]
	test.T(t, a.Name, "A")
	test.T(t, a.Encoding, 65)
	test.T(t, a.Advance, 4)
	test.T(t, a.Bitmap.W, 3)
	test.T(t, a.Bitmap.H, 5)

	// row 0 is the bottom row of the BITMAP block
	test.That(t, a.Bitmap.At(0, 0))
	test.That(t, !a.Bitmap.At(1, 0))
	test.That(t, a.Bitmap.At(2, 0))
	test.That(t, a.Bitmap.At(1, 2))
	test.That(t, a.Bitmap.At(1, 4))
	test.That(t, !a.Bitmap.At(0, 4))

	// ENCODING -1 takes the alternative codepoint that follows
	test.T(t, bdf.Glyphs[2].Encoding, 57344)
}

func TestParseBDFErrors(t *testing.T) {
	var tests = []struct {
		bdf string
		err string
	}{
		{"", "invalid BDF file"},
		{"FONT x\n", "invalid BDF file"},
		{"STARTFONT 2.1\nBOGUS\n", "bdf: unexpected BOGUS at line 2"},
		{"STARTFONT 2.1\nENDFONT2\n", "bdf: unexpected ENDFONT2 at line 2"},
		{"STARTFONT 2.1\n", "bdf: unexpected end of file at line 1"},
		{"STARTFONT 2.1\nSTARTCHAR A\nENCODING 65\n", "bdf: unexpected end of file at line 3"},
		{"STARTFONT 2.1\nSTARTCHAR A\nBITMAP\nENDCHAR\nENDFONT\n", "bdf: BITMAP before BBX at line 3"},
		{"STARTFONT 2.1\nSTARTCHAR A\nBBX 1 1 0 0\nBITMAP\nZZ\nENDCHAR\nENDFONT\n", "bdf: invalid bitmap row at line 5"},
		{"STARTFONT 2.1\nSTARTCHAR A\nBBX -1 1 0 0\nENDCHAR\nENDFONT\n", "bdf: invalid BBX at line 3"},
	}
	for _, tt := range tests {
		t.Run(tt.err, func(t *testing.T) {
			_, err := ParseBDF([]byte(tt.bdf))
			test.That(t, err != nil)
			test.T(t, err.Error(), tt.err)
		})
	}
}
