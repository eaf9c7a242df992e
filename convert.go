package bdfbuild

import (
	"fmt"
	"log"
	"math"
	"os"
	"path/filepath"
	"strconv"
	"strings"
	"time"
)

var weightByName = map[string]int{
	"thin":       100,
	"extralight": 200,
	"ultralight": 200,
	"light":      300,
	"normal":     400,
	"regular":    400,
	"medium":     500,
	"demibold":   600,
	"semibold":   600,
	"bold":       700,
	"extrabold":  800,
	"ultrabold":  800,
	"black":      900,
	"heavy":      900,
}

var weightNames = map[int]string{
	100: "Thin",
	200: "ExtraLight",
	300: "Light",
	400: "Regular",
	500: "Medium",
	600: "SemiBold",
	700: "Bold",
	800: "ExtraBold",
	900: "Black",
}

var slopeBySlant = map[string]string{
	"R":  "",
	"I":  "Italic",
	"RI": "Italic",
	"O":  "Oblique",
	"RO": "Oblique",
}

var widthClassByName = map[string]int{
	"ultracondensed": 1,
	"extracondensed": 2,
	"condensed":      3,
	"semicondensed":  4,
	"normal":         5,
	"semiexpanded":   6,
	"expanded":       7,
	"extraexpanded":  8,
	"ultraexpanded":  9,
}

var widthNames = map[int]string{
	1: "UltraCondensed",
	2: "ExtraCondensed",
	3: "Condensed",
	4: "SemiCondensed",
	5: "Normal",
	6: "SemiExpanded",
	7: "Expanded",
	8: "ExtraExpanded",
	9: "UltraExpanded",
}

// Options override metadata derived from the BDF source and control the
// conversion. Zero values keep the value derived from the source.
type Options struct {
	UnitsPerEm int
	Codepoints string // comma-separated codepoint subset, eg. 0x0-0x2000,0x20ee

	FamilyName string
	Version    string
	Weight     int // 100..900
	Slope      string
	WidthClass int // 1..9

	Copyright       string
	Designer        string
	DesignerURL     string
	Manufacturer    string
	ManufacturerURL string
	License         string
	LicenseURL      string

	Ascent             int
	Descent            int
	CapHeight          int
	XHeight            int
	UnderlinePosition  int
	UnderlineThickness int
	StrikeoutPosition  int
	StrikeoutThickness int

	NotdefCodepoint int // encoding that maps to .notdef
	GlyphOffsetX    int // pixel offset applied to every glyph
	GlyphOffsetY    int

	OutputDir string // outputDir of the generated builder config

	Axes      []Axis     // defaults to DefaultAxes
	Instances []Instance // defaults to DefaultInstances

	Info    *log.Logger // verbose diagnostics, may be nil
	Warning *log.Logger // composition warnings, may be nil

	Now func() time.Time // timestamp source, defaults to time.Now
}

// srcGlyph is a working glyph: its cropped ink bitmap, positioned at pixel
// (x,y) relative to the origin on the baseline.
type srcGlyph struct {
	name      string
	codepoint int
	bitmap    *Bitmap
	x, y      int
	advance   int
}

type srcFont struct {
	glyphs     map[string]*srcGlyph
	order      []string
	codepoints map[int]string
	info       *log.Logger
	warn       *log.Logger
}

func (f *srcFont) infof(format string, args ...interface{}) {
	if f.info != nil {
		f.info.Printf(format, args...)
	}
}

func (f *srcFont) warnf(format string, args ...interface{}) {
	if f.warn != nil {
		f.warn.Printf(format, args...)
	}
}

func (f *srcFont) add(g *srcGlyph) {
	f.glyphs[g.name] = g
	f.order = append(f.order, g.name)
	f.codepoints[g.codepoint] = g.name
}

func unicodeString(cp int) string {
	return fmt.Sprintf("U+%04x", cp)
}

func decompositionString(d []rune) string {
	parts := make([]string, len(d))
	for i, r := range d {
		parts[i] = unicodeString(int(r))
	}
	return strings.Join(parts, ", ")
}

type codepointRange struct{ lo, hi int }

func parseCodepointRanges(s string) ([]codepointRange, error) {
	if s == "" {
		return nil, nil
	}
	var ranges []codepointRange
	for _, token := range strings.Split(s, ",") {
		lo, hi, found := strings.Cut(token, "-")
		a, err := strconv.ParseInt(strings.TrimSpace(lo), 0, 32)
		if err != nil {
			return nil, fmt.Errorf("invalid codepoint range: %v", token)
		}
		b := a
		if found {
			if b, err = strconv.ParseInt(strings.TrimSpace(hi), 0, 32); err != nil {
				return nil, fmt.Errorf("invalid codepoint range: %v", token)
			}
		}
		ranges = append(ranges, codepointRange{int(a), int(b)})
	}
	return ranges, nil
}

func matchCodepoint(ranges []codepointRange, cp int) bool {
	if ranges == nil {
		return true
	}
	for _, r := range ranges {
		if r.lo <= cp && cp <= r.hi {
			return true
		}
	}
	return false
}

func filterName(name string) string {
	sb := strings.Builder{}
	for _, r := range strings.ToLower(name) {
		if 'a' <= r && r <= 'z' {
			sb.WriteRune(r)
		}
	}
	return sb.String()
}

func sanitizeGlyphName(name string) string {
	sb := strings.Builder{}
	for _, r := range name {
		if 'a' <= r && r <= 'z' || 'A' <= r && r <= 'Z' || '0' <= r && r <= '9' || r == '.' {
			sb.WriteRune(r)
		} else {
			sb.WriteByte('_')
		}
	}
	return sb.String()
}

func isAlnum(r rune) bool {
	return 'a' <= r && r <= 'z' || 'A' <= r && r <= 'Z' || '0' <= r && r <= '9'
}

// fontMetrics is the resolved metadata of a conversion: BDF properties with
// their fallbacks, overridden by Options.
type fontMetrics struct {
	version                    string
	versionMajor, versionMinor int
	familyName                 string
	weight                     int
	slopeName                  string
	widthClass                 int
	styleName                  string
	fontName                   string

	copyright       string
	designer        string
	designerURL     string
	manufacturer    string
	manufacturerURL string
	license         string
	licenseURL      string

	bboxX0, bboxY0, bboxX1, bboxY1 int

	ascent, descent              int
	capHeight, xHeight           int
	underlinePos, underlineThick int
	strikeoutPos, strikeoutThick int
	superscriptX, superscriptY   int
	superscriptSize              int
	subscriptX, subscriptY       int
	subscriptSize                int
	unitsPerEm, unitsPerPixel    int
}

const unsetProperty = math.MinInt32

// loadFont builds the working glyph set and resolved metrics from a parsed
// BDF font and the conversion options.
func loadFont(bdf *BDF, opts *Options) (*srcFont, *fontMetrics, error) {
	ranges, err := parseCodepointRanges(opts.Codepoints)
	if err != nil {
		return nil, nil, err
	}

	f := &srcFont{
		glyphs:     map[string]*srcGlyph{},
		codepoints: map[int]string{},
		info:       opts.Info,
		warn:       opts.Warning,
	}

	bboxX0, bboxY0 := math.MaxInt32, math.MaxInt32
	bboxX1, bboxY1 := math.MinInt32, math.MinInt32
	capHeight, xHeight := 0, 0

	for _, glyph := range bdf.Glyphs {
		cp := glyph.Encoding
		var name string
		if cp == opts.NotdefCodepoint {
			name = ".notdef"
		} else {
			if !matchCodepoint(ranges, cp) {
				continue
			}
			name = glyph.Name
			if name == "" || !isAlnum(rune(name[0])) {
				name = "_" + name
			}
		}
		name = sanitizeGlyphName(name)
		for _, exists := f.glyphs[name]; exists; _, exists = f.glyphs[name] {
			name += "_"
		}

		bitmap, xMin, yMin := glyph.Bitmap.Crop()
		x := glyph.X + xMin + opts.GlyphOffsetX
		y := glyph.Y + yMin + opts.GlyphOffsetY

		if x < bboxX0 {
			bboxX0 = x
		}
		if y < bboxY0 {
			bboxY0 = y
		}
		if bboxX1 < x+bitmap.W {
			bboxX1 = x + bitmap.W
		}
		if bboxY1 < y+bitmap.H {
			bboxY1 = y + bitmap.H
		}

		if cp == 'X' {
			capHeight = bitmap.H
		} else if cp == 'x' {
			xHeight = bitmap.H
		}

		f.add(&srcGlyph{name, cp, bitmap, x, y, glyph.Advance})
	}
	if len(f.order) == 0 {
		return nil, nil, fmt.Errorf("bdf: font contains no glyphs")
	}

	// synthesize combining marks that only exist as spacing modifiers
	for _, cp := range combiningOrder() {
		mark := combiningMarks[cp]
		if mark.modifier == 0 {
			continue
		}
		modifierName, ok := f.codepoints[int(mark.modifier)]
		if !ok {
			continue
		}
		if _, ok := f.codepoints[int(cp)]; ok || !matchCodepoint(ranges, int(cp)) {
			continue
		}
		modifier := f.glyphs[modifierName]
		f.add(&srcGlyph{
			name:      fmt.Sprintf("uni%04x", cp),
			codepoint: int(cp),
			bitmap:    modifier.bitmap,
			x:         modifier.x,
			y:         modifier.y,
			advance:   modifier.advance,
		})
	}

	if capHeight == 0 {
		capHeight = bdf.PointSize
	}
	if xHeight == 0 {
		xHeight = bdf.PointSize
	}

	m := &fontMetrics{}

	m.version = bdf.Property("FONT_VERSION", "")
	if opts.Version != "" {
		m.version = opts.Version
	}
	m.versionMajor, m.versionMinor = 1, 0
	if major, minor, found := strings.Cut(m.version, "."); found {
		a, err1 := strconv.Atoi(major)
		b, err2 := strconv.Atoi(minor)
		if err1 == nil && err2 == nil {
			m.versionMajor, m.versionMinor = a, b
		}
	}

	m.familyName = bdf.Property("FAMILY_NAME", bdf.Name)
	if opts.FamilyName != "" {
		m.familyName = opts.FamilyName
	}
	m.weight = 400
	if w, ok := weightByName[filterName(bdf.Property("WEIGHT_NAME", ""))]; ok {
		m.weight = w
	}
	if opts.Weight != 0 {
		m.weight = opts.Weight
	}
	m.slopeName = slopeBySlant[strings.ToUpper(bdf.Property("SLANT", ""))]
	if opts.Slope != "" {
		m.slopeName = opts.Slope
	}
	m.widthClass = 5
	if wc, ok := widthClassByName[filterName(bdf.Property("SETWIDTH_NAME", ""))]; ok {
		m.widthClass = wc
	}
	if opts.WidthClass != 0 {
		m.widthClass = opts.WidthClass
	}

	m.styleName = weightNames[m.weight]
	if m.slopeName != "" {
		m.styleName += " " + m.slopeName
	}
	if m.widthClass != 5 {
		m.styleName += " " + widthNames[m.widthClass]
	}
	m.fontName = m.familyName + " " + m.styleName

	m.copyright = bdf.Property("COPYRIGHT", strings.Join(bdf.Comments, "\n"))
	if opts.Copyright != "" {
		m.copyright = opts.Copyright
	}
	m.designer = opts.Designer
	m.designerURL = opts.DesignerURL
	m.manufacturer = bdf.Property("FOUNDRY", "")
	if opts.Manufacturer != "" {
		m.manufacturer = opts.Manufacturer
	}
	m.manufacturerURL = opts.ManufacturerURL
	m.license = opts.License
	m.licenseURL = opts.LicenseURL

	m.bboxX0, m.bboxY0, m.bboxX1, m.bboxY1 = bboxX0, bboxY0, bboxX1, bboxY1

	m.ascent = bdf.IntProperty("FONT_ASCENT", bdf.PointSize)
	if opts.Ascent != 0 {
		m.ascent = opts.Ascent
	}
	m.descent = bdf.IntProperty("FONT_DESCENT", 0)
	if opts.Descent != 0 {
		m.descent = opts.Descent
	}
	m.capHeight = bdf.IntProperty("CAP_HEIGHT", capHeight)
	if opts.CapHeight != 0 {
		m.capHeight = opts.CapHeight
	}
	m.xHeight = bdf.IntProperty("X_HEIGHT", xHeight)
	if opts.XHeight != 0 {
		m.xHeight = opts.XHeight
	}
	m.underlinePos = bdf.IntProperty("UNDERLINE_POSITION", 0)
	if opts.UnderlinePosition != 0 {
		m.underlinePos = opts.UnderlinePosition
	}
	m.underlineThick = bdf.IntProperty("UNDERLINE_THICKNESS", 0)
	if opts.UnderlineThickness != 0 {
		m.underlineThick = opts.UnderlineThickness
	}
	m.strikeoutPos = bdf.IntProperty("STRIKEOUT_ASCENT", 0)
	if opts.StrikeoutPosition != 0 {
		m.strikeoutPos = opts.StrikeoutPosition
	}
	m.strikeoutThick = bdf.IntProperty("STRIKEOUT_DESCENT", 0)
	if opts.StrikeoutThickness != 0 {
		m.strikeoutThick = opts.StrikeoutThickness
	}

	m.unitsPerEm = 1024
	if opts.UnitsPerEm != 0 {
		m.unitsPerEm = opts.UnitsPerEm
	}
	if bdf.PointSize <= 0 {
		return nil, nil, fmt.Errorf("bdf: invalid point size %v", bdf.PointSize)
	}
	m.unitsPerPixel = m.unitsPerEm / bdf.PointSize

	m.superscriptSize = bdf.IntProperty("SUPERSCRIPT_SIZE", unsetProperty)
	if m.superscriptSize == unsetProperty {
		m.superscriptSize = int(0.6 * float64(m.capHeight))
	}
	m.superscriptX = bdf.IntProperty("SUPERSCRIPT_X", unsetProperty)
	if m.superscriptX == unsetProperty {
		m.superscriptX = m.capHeight - m.superscriptSize
	}
	m.superscriptY = bdf.IntProperty("SUPERSCRIPT_Y", unsetProperty)
	if m.superscriptY == unsetProperty {
		m.superscriptY = m.capHeight - m.superscriptSize
	}
	m.subscriptSize = bdf.IntProperty("SUBSCRIPT_SIZE", unsetProperty)
	if m.subscriptSize == unsetProperty {
		m.subscriptSize = int(0.6 * float64(m.capHeight))
	}
	m.subscriptX = bdf.IntProperty("SUBSCRIPT_X", unsetProperty)
	if m.subscriptX == unsetProperty {
		m.subscriptX = m.capHeight - m.subscriptSize
	}
	m.subscriptY = bdf.IntProperty("SUBSCRIPT_Y", unsetProperty)
	if m.subscriptY == unsetProperty {
		m.subscriptY = m.capHeight - m.subscriptSize
	}

	return f, m, nil
}

func (m *fontMetrics) ufoInfo(now time.Time) UFOInfo {
	upp := m.unitsPerPixel
	upe := m.unitsPerEm

	styleMapStyleName := "regular"
	if m.weight > 500 {
		styleMapStyleName = "bold"
	}
	italicAngle := 0.0
	if m.slopeName != "" {
		italicAngle = -15.0
		styleMapStyleName += " italic"
	}

	lineAscender := m.ascent * upp
	lineDescender := -m.descent * upp
	lineHeight := lineAscender - lineDescender
	emDescender := lineDescender - (upe-lineHeight)/2
	emAscender := upe + emDescender
	bboxAscender := m.bboxY1 * upp
	if bboxAscender < 0 {
		bboxAscender = 0
	}
	bboxDescender := -m.bboxY0 * upp
	if bboxDescender < 0 {
		bboxDescender = 0
	}

	return UFOInfo{
		FamilyName:         m.familyName,
		StyleName:          m.styleName,
		StyleMapFamilyName: m.fontName,
		StyleMapStyleName:  styleMapStyleName,
		VersionMajor:       m.versionMajor,
		VersionMinor:       m.versionMinor,
		Copyright:          m.copyright,
		UnitsPerEm:         upe,
		Ascender:           emAscender,
		Descender:          emDescender,
		XHeight:            m.xHeight * upp,
		CapHeight:          m.capHeight * upp,
		ItalicAngle:        italicAngle,

		PostscriptFontName:           strings.ReplaceAll(m.fontName, " ", "-"),
		PostscriptFullName:           m.fontName,
		PostscriptUnderlinePosition:  m.underlinePos * upp,
		PostscriptUnderlineThickness: m.underlineThick * upp,
		PostscriptWeightName:         weightNames[m.weight],

		OpenTypeHeadCreated:   now.Format("2006/01/02 15:04:05"),
		OpenTypeHheaAscender:  lineAscender,
		OpenTypeHheaDescender: lineDescender,
		OpenTypeHheaLineGap:   0,

		OpenTypeNameVersion:            "Version " + m.version,
		OpenTypeNameUniqueID:           m.manufacturer + ": " + m.fontName,
		OpenTypeNameCompatibleFullName: m.fontName,
		OpenTypeNameDesigner:           m.designer,
		OpenTypeNameDesignerURL:        m.designerURL,
		OpenTypeNameManufacturer:       m.manufacturer,
		OpenTypeNameManufacturerURL:    m.manufacturerURL,
		OpenTypeNameLicense:            m.license,
		OpenTypeNameLicenseURL:         m.licenseURL,

		OpenTypeOS2WeightClass: m.weight,
		OpenTypeOS2WidthClass:  m.widthClass,
		OpenTypeOS2VendorID:    "B2UF",
		OpenTypeOS2Panose:      []int{2, 0, 0, 0, 0, 0, 0, 0, 0, 0},
		OpenTypeOS2FamilyClass: []int{0, 0},

		OpenTypeOS2TypoAscender:  emAscender,
		OpenTypeOS2TypoDescender: emDescender,
		OpenTypeOS2TypoLineGap:   0,
		OpenTypeOS2WinAscent:     bboxAscender,
		OpenTypeOS2WinDescent:    bboxDescender,

		OpenTypeOS2SubscriptXSize:   int(float64(m.subscriptSize) / float64(m.capHeight) * float64(upe)),
		OpenTypeOS2SubscriptYSize:   int(float64(m.subscriptSize) / float64(m.capHeight) * float64(upe)),
		OpenTypeOS2SubscriptXOffset: m.subscriptX * upp,
		OpenTypeOS2SubscriptYOffset: m.subscriptY * upp,

		OpenTypeOS2SuperscriptXSize:   int(float64(m.superscriptSize) / float64(m.capHeight) * float64(upe)),
		OpenTypeOS2SuperscriptYSize:   int(float64(m.superscriptSize) / float64(m.capHeight) * float64(upe)),
		OpenTypeOS2SuperscriptXOffset: m.superscriptX * upp,
		OpenTypeOS2SuperscriptYOffset: m.superscriptY * upp,

		OpenTypeOS2StrikeoutPosition: m.strikeoutPos * upp,
		OpenTypeOS2StrikeoutSize:     m.strikeoutThick * upp,
	}
}

// outlineGlyph fills a UFO glyph with one pixel contour per set pixel.
func outlineGlyph(ufoGlyph *UFOGlyph, g *srcGlyph, upp int, shape PixelShape) {
	points := pixelContour(float64(upp), shape)
	for y := 0; y < g.bitmap.H; y++ {
		for x := 0; x < g.bitmap.W; x++ {
			if !g.bitmap.At(x, y) {
				continue
			}
			cx := float64(upp) * (float64(g.x+x) + 0.5)
			cy := float64(upp) * (float64(g.y+y) + 0.5)
			contour := make(UFOContour, len(points))
			for i, p := range points {
				contour[i] = UFOPoint{int(cx + p.x), int(cy + p.y), p.typ}
			}
			ufoGlyph.Contours = append(ufoGlyph.Contours, contour)
		}
	}
}

// Convert converts a parsed BDF font into a UFO designspace project in dir:
// eight corner master UFOs, a designspace document, and a gftools builder
// configuration. It returns the designspace that was written.
func Convert(bdf *BDF, opts *Options, dir string) (*DesignSpace, error) {
	if opts == nil {
		opts = &Options{}
	}
	now := time.Now()
	if opts.Now != nil {
		now = opts.Now()
	}

	f, m, err := loadFont(bdf, opts)
	if err != nil {
		return nil, err
	}

	// decomposition and anchors are the same for every master
	components := map[string][]component{}
	anchors := anchorSet{}
	for _, name := range f.order {
		g := f.glyphs[name]
		if comps := f.componentsOf(g); comps != nil {
			components[name] = comps
			deriveAnchors(anchors, f, g, comps)
		}
	}
	features := buildFeatures(f, anchors, m.unitsPerPixel)
	info := m.ufoInfo(now)

	if err := os.MkdirAll(dir, 0755); err != nil {
		return nil, err
	}

	axes := opts.Axes
	if axes == nil {
		axes = DefaultAxes
	}
	instances := opts.Instances
	if instances == nil {
		instances = DefaultInstances
	}
	ds := &DesignSpace{
		FamilyName: m.familyName,
		StyleName:  m.styleName,
		Axes:       axes,
		Instances:  instances,
	}

	for i, masterDir := range ds.MasterDirs() {
		f.infof("building %s", masterDir)
		ufo := &UFO{Info: info, Features: features}
		for _, name := range f.order {
			g := f.glyphs[name]
			ufoGlyph := &UFOGlyph{
				Name:    name,
				Unicode: g.codepoint,
				Width:   g.advance * m.unitsPerPixel,
			}
			if name == ".notdef" {
				ufoGlyph.Unicode = -1
			}
			if comps, ok := components[name]; ok {
				for _, comp := range comps {
					base := f.glyphs[comp.name]
					ufoGlyph.Components = append(ufoGlyph.Components, UFOComponent{
						Base: comp.name,
						DX:   (comp.x - base.x) * m.unitsPerPixel,
						DY:   (comp.y - base.y) * m.unitsPerPixel,
					})
				}
			} else {
				outlineGlyph(ufoGlyph, g, m.unitsPerPixel, masters[i].shape)
			}
			ufoGlyph.Anchors = glyphAnchors(anchors, name, m.unitsPerPixel)
			ufo.Glyphs = append(ufo.Glyphs, ufoGlyph)
		}
		if err := ufo.Write(filepath.Join(dir, masterDir)); err != nil {
			return nil, err
		}
	}

	f.infof("building %s", ds.FileName())
	if err := ds.Write(dir); err != nil {
		return nil, err
	}
	if _, err := ds.WriteBuilderConfig(dir, opts.OutputDir); err != nil {
		return nil, err
	}
	return ds, nil
}
