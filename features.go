package bdfbuild

import (
	"fmt"
	"sort"
	"strings"
)

// anchorSet collects derived attachment points: glyph name → anchor name →
// (x,y) position in pixels.
type anchorSet map[string]map[string][2]int

func (a anchorSet) glyph(name string) map[string][2]int {
	m := a[name]
	if m == nil {
		m = map[string][2]int{}
		a[name] = m
	}
	return m
}

func sortedAnchorNames(m map[string][2]int) []string {
	names := make([]string, 0, len(m))
	for name := range m {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

// deriveAnchors derives mark attachment anchors from a composed glyph built
// out of exactly one base and one combining component. The first composition
// that uses a mark fixes the mark's own anchor; later compositions reuse it
// and are checked for alignment on the base side.
func deriveAnchors(anchors anchorSet, f *srcFont, composed *srcGlyph, comps []component) {
	if customAnchors[rune(composed.codepoint)] {
		return
	}
	if len(comps) != 2 {
		return
	}

	var base, combining *srcGlyph
	var basePlace, combPlace component
	var anchorName string
	for _, comp := range comps {
		g := f.glyphs[comp.name]
		if mark, ok := combiningMarks[rune(g.codepoint)]; ok {
			combining = g
			combPlace = comp
			anchorName = mark.anchor
		} else {
			base = g
			basePlace = comp
		}
	}
	if base == nil || combining == nil {
		return
	}

	// anchor position relative to the combining glyph's ink box: marks above
	// attach at their bottom edge, marks below at their top edge
	combAnchors := anchors.glyph(combining.name)
	var combOffset [2]int
	if pos, ok := combAnchors[anchorName]; ok {
		combOffset = [2]int{pos[0] - combining.x, pos[1] - combining.y}
	} else {
		switch anchorName {
		case "bottom", "cedilla", "ogonek":
			combOffset = [2]int{combining.bitmap.W / 2, combining.bitmap.H}
		default:
			combOffset = [2]int{combining.bitmap.W / 2, 0}
		}
		combAnchors[anchorName] = [2]int{combining.x + combOffset[0], combining.y + combOffset[1]}
	}

	// into the base glyph's own coordinates
	ax := combPlace.x + combOffset[0] - basePlace.x + base.x
	ay := combPlace.y + combOffset[1] - basePlace.y + base.y

	baseAnchors := anchors.glyph(base.name)
	if pos, ok := baseAnchors[anchorName]; !ok {
		baseAnchors[anchorName] = [2]int{ax, ay}
	} else if pos != [2]int{ax, ay} {
		names := make([]string, len(comps))
		for i, comp := range comps {
			names[i] = comp.name
		}
		f.warnf("%s anchor %q does not align with anchors from components [%s]",
			unicodeString(composed.codepoint), anchorName, strings.Join(names, ", "))
	}
}

// glyphAnchors returns the UFO anchors of a glyph in font units, sorted by name.
func glyphAnchors(anchors anchorSet, name string, upp int) []UFOAnchor {
	m := anchors[name]
	if len(m) == 0 {
		return nil
	}
	out := make([]UFOAnchor, 0, len(m))
	for _, anchorName := range sortedAnchorNames(m) {
		pos := m[anchorName]
		out = append(out, UFOAnchor{anchorName, pos[0] * upp, pos[1] * upp})
	}
	return out
}

// buildFeatures generates the OpenType feature text: language systems, mark
// glyph classes, the mark attachment lookup from the derived anchors, and the
// GDEF mark class.
func buildFeatures(f *srcFont, anchors anchorSet, upp int) string {
	w := &strings.Builder{}

	w.WriteString("languagesystem DFLT dflt;\n")
	if _, ok := f.codepoints[0x41]; ok {
		w.WriteString("languagesystem latn dflt;\n")
	}
	if _, ok := f.codepoints[0x391]; ok {
		w.WriteString("languagesystem grek dflt;\n")
	}
	if _, ok := f.codepoints[0x410]; ok {
		w.WriteString("languagesystem cyrl dflt;\n")
	}

	var allMarks, topMarks []string
	for _, cp := range combiningOrder() {
		name, ok := f.codepoints[int(cp)]
		if !ok {
			continue
		}
		allMarks = append(allMarks, name)
		if anchor := combiningMarks[cp].anchor; anchor == "top" || anchor == "top.shifted" {
			topMarks = append(topMarks, name)
		}
	}
	fmt.Fprintf(w, "\n@allmarks = [%s];\n", strings.Join(allMarks, " "))
	fmt.Fprintf(w, "@topmarks = [%s];\n", strings.Join(topMarks, " "))

	// group marks by anchor class and position, bases by their full anchor set
	type markKey struct {
		anchor string
		x, y   int
	}
	markOrder := []markKey{}
	markMap := map[markKey][]string{}
	baseOrder := []string{}
	baseMap := map[string][]string{}
	baseAnchors := map[string][]markKey{}

	for _, name := range f.order {
		g := f.glyphs[name]
		m, ok := anchors[name]
		if !ok {
			continue
		}
		_, isMark := combiningMarks[rune(g.codepoint)]
		if isMark {
			for _, anchorName := range sortedAnchorNames(m) {
				pos := m[anchorName]
				key := markKey{anchorName, pos[0], pos[1]}
				if _, ok := markMap[key]; !ok {
					markOrder = append(markOrder, key)
				}
				markMap[key] = append(markMap[key], name)
			}
		} else {
			keys := make([]markKey, 0, len(m))
			parts := make([]string, 0, len(m))
			for _, anchorName := range sortedAnchorNames(m) {
				pos := m[anchorName]
				keys = append(keys, markKey{anchorName, pos[0], pos[1]})
				parts = append(parts, fmt.Sprintf("%s/%d/%d", anchorName, pos[0], pos[1]))
			}
			key := strings.Join(parts, ";")
			if _, ok := baseMap[key]; !ok {
				baseOrder = append(baseOrder, key)
				baseAnchors[key] = keys
			}
			baseMap[key] = append(baseMap[key], name)
		}
	}

	if len(markOrder) > 0 && len(baseOrder) > 0 {
		w.WriteString("\nlookup marklookup {\n")
		for _, key := range markOrder {
			fmt.Fprintf(w, "    markClass [%s] <anchor %d %d> @%s;\n",
				strings.Join(markMap[key], " "), key.x*upp, key.y*upp, key.anchor)
		}
		for _, key := range baseOrder {
			fmt.Fprintf(w, "    pos base [%s]", strings.Join(baseMap[key], " "))
			for _, anchor := range baseAnchors[key] {
				fmt.Fprintf(w, " <anchor %d %d> mark @%s", anchor.x*upp, anchor.y*upp, anchor.anchor)
			}
			w.WriteString(";\n")
		}
		w.WriteString("} marklookup;\n")
		w.WriteString("\nfeature mark {\n    lookup marklookup;\n} mark;\n")
	}

	w.WriteString("\ntable GDEF {\n    GlyphClassDef , , @allmarks, ;\n} GDEF;\n")
	return w.String()
}
