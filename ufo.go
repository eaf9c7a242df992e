package bdfbuild

import (
	"bytes"
	"fmt"
	"os"
	"path/filepath"
	"strconv"
	"strings"
)

// UFOPoint is a contour point in font units. Type is "curve", "line" or ""
// for an off-curve control point.
type UFOPoint struct {
	X, Y int
	Type string
}

type UFOContour []UFOPoint

// UFOComponent references another glyph, shifted by (DX,DY) font units.
type UFOComponent struct {
	Base   string
	DX, DY int
}

// UFOAnchor is a named attachment point in font units.
type UFOAnchor struct {
	Name string
	X, Y int
}

// UFOGlyph is a single glyph of a UFO font. Unicode is -1 for unencoded glyphs.
type UFOGlyph struct {
	Name       string
	Unicode    int
	Width      int
	Contours   []UFOContour
	Components []UFOComponent
	Anchors    []UFOAnchor
}

// UFOInfo maps onto the fontinfo.plist keys of UFO format 3.
type UFOInfo struct {
	FamilyName         string
	StyleName          string
	StyleMapFamilyName string
	StyleMapStyleName  string
	VersionMajor       int
	VersionMinor       int
	Copyright          string
	UnitsPerEm         int
	Ascender           int
	Descender          int
	XHeight            int
	CapHeight          int
	ItalicAngle        float64

	PostscriptFontName           string
	PostscriptFullName           string
	PostscriptUnderlinePosition  int
	PostscriptUnderlineThickness int
	PostscriptWeightName         string

	OpenTypeHeadCreated   string
	OpenTypeHheaAscender  int
	OpenTypeHheaDescender int
	OpenTypeHheaLineGap   int

	OpenTypeNameVersion            string
	OpenTypeNameUniqueID           string
	OpenTypeNameCompatibleFullName string
	OpenTypeNameDesigner           string
	OpenTypeNameDesignerURL        string
	OpenTypeNameManufacturer       string
	OpenTypeNameManufacturerURL    string
	OpenTypeNameLicense            string
	OpenTypeNameLicenseURL         string

	OpenTypeOS2WeightClass        int
	OpenTypeOS2WidthClass         int
	OpenTypeOS2VendorID           string
	OpenTypeOS2Panose             []int
	OpenTypeOS2FamilyClass        []int
	OpenTypeOS2TypoAscender       int
	OpenTypeOS2TypoDescender      int
	OpenTypeOS2TypoLineGap        int
	OpenTypeOS2WinAscent          int
	OpenTypeOS2WinDescent         int
	OpenTypeOS2SubscriptXSize     int
	OpenTypeOS2SubscriptYSize     int
	OpenTypeOS2SubscriptXOffset   int
	OpenTypeOS2SubscriptYOffset   int
	OpenTypeOS2SuperscriptXSize   int
	OpenTypeOS2SuperscriptYSize   int
	OpenTypeOS2SuperscriptXOffset int
	OpenTypeOS2SuperscriptYOffset int
	OpenTypeOS2StrikeoutPosition  int
	OpenTypeOS2StrikeoutSize      int
}

// UFO is an in-memory UFO format 3 font, written as a .ufo directory.
type UFO struct {
	Info     UFOInfo
	Features string
	Glyphs   []*UFOGlyph
}

// Glyph returns the glyph with the given name, or nil.
func (u *UFO) Glyph(name string) *UFOGlyph {
	for _, g := range u.Glyphs {
		if g.Name == name {
			return g
		}
	}
	return nil
}

// plist building. A plistDict keeps its insertion order so that output is
// deterministic across runs.
type plistDict struct {
	keys   []string
	values []interface{}
}

func (d *plistDict) add(key string, value interface{}) {
	d.keys = append(d.keys, key)
	d.values = append(d.values, value)
}

func xmlEscape(s string) string {
	return xmlEscaper.Replace(s)
}

var xmlEscaper = strings.NewReplacer(
	"&", "&amp;",
	"<", "&lt;",
	">", "&gt;",
	"\"", "&quot;",
)

func writePlistValue(w *bytes.Buffer, v interface{}, indent int) {
	prefix := strings.Repeat("\t", indent)
	switch v := v.(type) {
	case string:
		fmt.Fprintf(w, "%s<string>%s</string>\n", prefix, xmlEscape(v))
	case int:
		fmt.Fprintf(w, "%s<integer>%d</integer>\n", prefix, v)
	case float64:
		fmt.Fprintf(w, "%s<real>%s</real>\n", prefix, strconv.FormatFloat(v, 'g', -1, 64))
	case bool:
		if v {
			fmt.Fprintf(w, "%s<true/>\n", prefix)
		} else {
			fmt.Fprintf(w, "%s<false/>\n", prefix)
		}
	case []int:
		if len(v) == 0 {
			fmt.Fprintf(w, "%s<array/>\n", prefix)
			return
		}
		fmt.Fprintf(w, "%s<array>\n", prefix)
		for _, e := range v {
			writePlistValue(w, e, indent+1)
		}
		fmt.Fprintf(w, "%s</array>\n", prefix)
	case []string:
		if len(v) == 0 {
			fmt.Fprintf(w, "%s<array/>\n", prefix)
			return
		}
		fmt.Fprintf(w, "%s<array>\n", prefix)
		for _, e := range v {
			writePlistValue(w, e, indent+1)
		}
		fmt.Fprintf(w, "%s</array>\n", prefix)
	case []interface{}:
		if len(v) == 0 {
			fmt.Fprintf(w, "%s<array/>\n", prefix)
			return
		}
		fmt.Fprintf(w, "%s<array>\n", prefix)
		for _, e := range v {
			writePlistValue(w, e, indent+1)
		}
		fmt.Fprintf(w, "%s</array>\n", prefix)
	case *plistDict:
		if len(v.keys) == 0 {
			fmt.Fprintf(w, "%s<dict/>\n", prefix)
			return
		}
		fmt.Fprintf(w, "%s<dict>\n", prefix)
		for i, key := range v.keys {
			fmt.Fprintf(w, "%s\t<key>%s</key>\n", prefix, xmlEscape(key))
			writePlistValue(w, v.values[i], indent+1)
		}
		fmt.Fprintf(w, "%s</dict>\n", prefix)
	default:
		panic(fmt.Sprintf("plist: unsupported type %T", v))
	}
}

func marshalPlist(v interface{}) []byte {
	w := &bytes.Buffer{}
	w.WriteString("<?xml version=\"1.0\" encoding=\"UTF-8\"?>\n")
	w.WriteString("<!DOCTYPE plist PUBLIC \"-//Apple//DTD PLIST 1.0//EN\" \"http://www.apple.com/DTDs/PropertyList-1.0.dtd\">\n")
	w.WriteString("<plist version=\"1.0\">\n")
	writePlistValue(w, v, 0)
	w.WriteString("</plist>\n")
	return w.Bytes()
}

func (info *UFOInfo) plist() *plistDict {
	d := &plistDict{}
	d.add("ascender", info.Ascender)
	d.add("capHeight", info.CapHeight)
	d.add("copyright", info.Copyright)
	d.add("descender", info.Descender)
	d.add("familyName", info.FamilyName)
	d.add("guidelines", []interface{}{})
	d.add("italicAngle", info.ItalicAngle)
	d.add("openTypeHeadCreated", info.OpenTypeHeadCreated)
	d.add("openTypeHheaAscender", info.OpenTypeHheaAscender)
	d.add("openTypeHheaDescender", info.OpenTypeHheaDescender)
	d.add("openTypeHheaLineGap", info.OpenTypeHheaLineGap)
	d.add("openTypeNameCompatibleFullName", info.OpenTypeNameCompatibleFullName)
	d.add("openTypeNameDesigner", info.OpenTypeNameDesigner)
	d.add("openTypeNameDesignerURL", info.OpenTypeNameDesignerURL)
	d.add("openTypeNameLicense", info.OpenTypeNameLicense)
	d.add("openTypeNameLicenseURL", info.OpenTypeNameLicenseURL)
	d.add("openTypeNameManufacturer", info.OpenTypeNameManufacturer)
	d.add("openTypeNameManufacturerURL", info.OpenTypeNameManufacturerURL)
	d.add("openTypeNameUniqueID", info.OpenTypeNameUniqueID)
	d.add("openTypeNameVersion", info.OpenTypeNameVersion)
	d.add("openTypeOS2FamilyClass", info.OpenTypeOS2FamilyClass)
	d.add("openTypeOS2Panose", info.OpenTypeOS2Panose)
	d.add("openTypeOS2StrikeoutPosition", info.OpenTypeOS2StrikeoutPosition)
	d.add("openTypeOS2StrikeoutSize", info.OpenTypeOS2StrikeoutSize)
	d.add("openTypeOS2SubscriptXOffset", info.OpenTypeOS2SubscriptXOffset)
	d.add("openTypeOS2SubscriptXSize", info.OpenTypeOS2SubscriptXSize)
	d.add("openTypeOS2SubscriptYOffset", info.OpenTypeOS2SubscriptYOffset)
	d.add("openTypeOS2SubscriptYSize", info.OpenTypeOS2SubscriptYSize)
	d.add("openTypeOS2SuperscriptXOffset", info.OpenTypeOS2SuperscriptXOffset)
	d.add("openTypeOS2SuperscriptXSize", info.OpenTypeOS2SuperscriptXSize)
	d.add("openTypeOS2SuperscriptYOffset", info.OpenTypeOS2SuperscriptYOffset)
	d.add("openTypeOS2SuperscriptYSize", info.OpenTypeOS2SuperscriptYSize)
	d.add("openTypeOS2Type", []int{})
	d.add("openTypeOS2TypoAscender", info.OpenTypeOS2TypoAscender)
	d.add("openTypeOS2TypoDescender", info.OpenTypeOS2TypoDescender)
	d.add("openTypeOS2TypoLineGap", info.OpenTypeOS2TypoLineGap)
	d.add("openTypeOS2VendorID", info.OpenTypeOS2VendorID)
	d.add("openTypeOS2WeightClass", info.OpenTypeOS2WeightClass)
	d.add("openTypeOS2WidthClass", info.OpenTypeOS2WidthClass)
	d.add("openTypeOS2WinAscent", info.OpenTypeOS2WinAscent)
	d.add("openTypeOS2WinDescent", info.OpenTypeOS2WinDescent)
	d.add("postscriptFontName", info.PostscriptFontName)
	d.add("postscriptFullName", info.PostscriptFullName)
	d.add("postscriptUnderlinePosition", info.PostscriptUnderlinePosition)
	d.add("postscriptUnderlineThickness", info.PostscriptUnderlineThickness)
	d.add("postscriptWeightName", info.PostscriptWeightName)
	d.add("styleMapFamilyName", info.StyleMapFamilyName)
	d.add("styleMapStyleName", info.StyleMapStyleName)
	d.add("styleName", info.StyleName)
	d.add("unitsPerEm", info.UnitsPerEm)
	d.add("versionMajor", info.VersionMajor)
	d.add("versionMinor", info.VersionMinor)
	d.add("xHeight", info.XHeight)
	return d
}

// glifFileName converts a glyph name to a .glif file name following the UFO
// naming convention: uppercase letters get an underscore suffix and characters
// that are unsafe in file names are replaced.
func glifFileName(name string) string {
	sb := strings.Builder{}
	for i, r := range name {
		switch {
		case 'A' <= r && r <= 'Z':
			sb.WriteRune(r)
			sb.WriteByte('_')
		case i == 0 && r == '.':
			sb.WriteByte('_')
		case r < 0x20 || r == 0x7f || strings.ContainsRune("\"*+/:<>?[\\]|", r):
			sb.WriteByte('_')
		default:
			sb.WriteRune(r)
		}
	}
	return sb.String() + ".glif"
}

func (g *UFOGlyph) glif() []byte {
	w := &bytes.Buffer{}
	w.WriteString("<?xml version=\"1.0\" encoding=\"UTF-8\"?>\n")
	fmt.Fprintf(w, "<glyph name=\"%s\" format=\"2\">\n", xmlEscape(g.Name))
	fmt.Fprintf(w, "\t<advance width=\"%d\"/>\n", g.Width)
	if g.Unicode >= 0 {
		fmt.Fprintf(w, "\t<unicode hex=\"%04X\"/>\n", g.Unicode)
	}
	for _, a := range g.Anchors {
		fmt.Fprintf(w, "\t<anchor x=\"%d\" y=\"%d\" name=\"%s\"/>\n", a.X, a.Y, xmlEscape(a.Name))
	}
	if len(g.Contours) > 0 || len(g.Components) > 0 {
		w.WriteString("\t<outline>\n")
		for _, c := range g.Components {
			fmt.Fprintf(w, "\t\t<component base=\"%s\"", xmlEscape(c.Base))
			if c.DX != 0 {
				fmt.Fprintf(w, " xOffset=\"%d\"", c.DX)
			}
			if c.DY != 0 {
				fmt.Fprintf(w, " yOffset=\"%d\"", c.DY)
			}
			w.WriteString("/>\n")
		}
		for _, contour := range g.Contours {
			w.WriteString("\t\t<contour>\n")
			for _, p := range contour {
				if p.Type == "" {
					fmt.Fprintf(w, "\t\t\t<point x=\"%d\" y=\"%d\"/>\n", p.X, p.Y)
				} else {
					fmt.Fprintf(w, "\t\t\t<point x=\"%d\" y=\"%d\" type=\"%s\"/>\n", p.X, p.Y, p.Type)
				}
			}
			w.WriteString("\t\t</contour>\n")
		}
		w.WriteString("\t</outline>\n")
	} else {
		w.WriteString("\t<outline/>\n")
	}
	w.WriteString("</glyph>\n")
	return w.Bytes()
}

// Write writes the font as a .ufo directory, replacing any existing one.
func (u *UFO) Write(dir string) error {
	if err := os.RemoveAll(dir); err != nil {
		return err
	}
	if err := os.MkdirAll(filepath.Join(dir, "glyphs"), 0755); err != nil {
		return err
	}

	meta := &plistDict{}
	meta.add("creator", "com.github.gissio.bdfbuild")
	meta.add("formatVersion", 3)
	if err := os.WriteFile(filepath.Join(dir, "metainfo.plist"), marshalPlist(meta), 0644); err != nil {
		return err
	}

	if err := os.WriteFile(filepath.Join(dir, "fontinfo.plist"), marshalPlist(u.Info.plist()), 0644); err != nil {
		return err
	}

	layers := []interface{}{[]string{"public.default", "glyphs"}}
	if err := os.WriteFile(filepath.Join(dir, "layercontents.plist"), marshalPlist(layers), 0644); err != nil {
		return err
	}

	order := make([]string, len(u.Glyphs))
	contents := &plistDict{}
	for i, g := range u.Glyphs {
		order[i] = g.Name
		contents.add(g.Name, glifFileName(g.Name))
	}
	lib := &plistDict{}
	lib.add("public.glyphOrder", order)
	if err := os.WriteFile(filepath.Join(dir, "lib.plist"), marshalPlist(lib), 0644); err != nil {
		return err
	}
	if err := os.WriteFile(filepath.Join(dir, "glyphs", "contents.plist"), marshalPlist(contents), 0644); err != nil {
		return err
	}

	for _, g := range u.Glyphs {
		if err := os.WriteFile(filepath.Join(dir, "glyphs", glifFileName(g.Name)), g.glif(), 0644); err != nil {
			return err
		}
	}

	if u.Features != "" {
		if err := os.WriteFile(filepath.Join(dir, "features.fea"), []byte(u.Features), 0644); err != nil {
			return err
		}
	}
	return nil
}
