package bdfbuild

import (
	"bufio"
	"bytes"
	"encoding/hex"
	"fmt"

	"github.com/tdewolff/parse/v2/strconv"
)

// Glyph is a single character of a BDF font. The bitmap covers the BBX box of
// the glyph; X and Y position its lower-left corner relative to the origin on
// the baseline, Advance is the horizontal advance, all in pixels.
type Glyph struct {
	Name     string
	Encoding int
	Advance  int
	X, Y     int
	Bitmap   *Bitmap
}

// BDF is a parsed BDF bitmap font.
type BDF struct {
	Name      string
	PointSize int
	XRes      int
	YRes      int
	BBW, BBH  int
	BBX, BBY  int

	Comments   []string
	Properties map[string]string
	Glyphs     []*Glyph
}

// Property returns a string property, or def when it is not present.
func (bdf *BDF) Property(key, def string) string {
	if v, ok := bdf.Properties[key]; ok {
		return v
	}
	return def
}

// IntProperty returns an integer property, or def when it is not present or
// not a number.
func (bdf *BDF) IntProperty(key string, def int) int {
	v, ok := bdf.Properties[key]
	if !ok {
		return def
	}
	i, n := strconv.ParseInt([]byte(v))
	if n != len(v) || n == 0 {
		return def
	}
	return int(i)
}

func bdfIsWhitespace(c byte) bool {
	return c == ' ' || c == '\t' || c == '\r'
}

func bdfSkipWhitespace(b []byte, i int) int {
	for i < len(b) && bdfIsWhitespace(b[i]) {
		i++
	}
	return i
}

func bdfNextValue(b []byte, i int) ([]byte, int) {
	start := i
	for i < len(b) && !bdfIsWhitespace(b[i]) {
		i++
	}
	return b[start:i], i
}

func bdfParseString(b []byte, i int) (string, int) {
	i = bdfSkipWhitespace(b, i)
	var v []byte
	v, i = bdfNextValue(b, i)
	return string(v), i
}

func bdfParseInteger(b []byte, i int) (int, int) {
	i = bdfSkipWhitespace(b, i)
	v, n := strconv.ParseInt(b[i:])
	return int(v), i + n
}

// bdfParseValue parses a property value: either an integer, a quoted string
// with doubled quotes as escapes, or a bare string running to end of line.
func bdfParseValue(b []byte, i int) string {
	i = bdfSkipWhitespace(b, i)
	if i < len(b) && b[i] == '"' {
		var v []byte
		i++
		for i < len(b) {
			if b[i] == '"' {
				if i+1 < len(b) && b[i+1] == '"' {
					v = append(v, '"')
					i += 2
					continue
				}
				break
			}
			v = append(v, b[i])
			i++
		}
		return string(v)
	}
	end := len(b)
	for end > i && bdfIsWhitespace(b[end-1]) {
		end--
	}
	return string(b[i:end])
}

func (bdf *BDF) parseProperties(scanner *bufio.Scanner, j *int, n int) error {
	for i := 0; i < n; i++ {
		*j++
		if !scanner.Scan() {
			return fmt.Errorf("bdf: invalid properties at line %v", *j)
		}
		line := scanner.Bytes()
		key, pos := bdfNextValue(line, 0)
		if string(key) == "ENDPROPERTIES" {
			return nil
		}
		bdf.Properties[string(key)] = bdfParseValue(line, pos)
	}
	*j++
	if !scanner.Scan() {
		return fmt.Errorf("bdf: invalid properties at line %v", *j)
	} else if key, _ := bdfNextValue(scanner.Bytes(), 0); string(key) != "ENDPROPERTIES" {
		return fmt.Errorf("bdf: invalid properties at line %v: unexpected %v", *j, string(key))
	}
	return nil
}

func parseGlyph(scanner *bufio.Scanner, j *int, name string) (*Glyph, error) {
	glyph := &Glyph{Name: name, Encoding: -1}
	var bbW, bbH int
	haveBBX := false
	for scanner.Scan() {
		*j++
		line := scanner.Bytes()
		key, pos := bdfNextValue(line, 0)
		switch string(key) {
		case "ENCODING":
			enc, pos2 := bdfParseInteger(line, pos)
			if enc == -1 {
				// non-standard encoding may follow as a second value
				if alt, pos3 := bdfParseInteger(line, pos2); pos3 != pos2 {
					enc = alt
				}
			}
			glyph.Encoding = enc
		case "SWIDTH", "SWIDTH1", "DWIDTH1", "VVECTOR":
			// scalable and vertical writing metrics are not used
		case "DWIDTH":
			glyph.Advance, _ = bdfParseInteger(line, pos)
		case "BBX":
			bbW, pos = bdfParseInteger(line, pos)
			bbH, pos = bdfParseInteger(line, pos)
			glyph.X, pos = bdfParseInteger(line, pos)
			glyph.Y, _ = bdfParseInteger(line, pos)
			if bbW < 0 || bbH < 0 {
				return nil, fmt.Errorf("bdf: invalid BBX at line %v", *j)
			}
			haveBBX = true
		case "BITMAP":
			if !haveBBX {
				return nil, fmt.Errorf("bdf: BITMAP before BBX at line %v", *j)
			}
			glyph.Bitmap = NewBitmap(bbW, bbH)
			for y := 0; y < bbH; y++ {
				*j++
				if !scanner.Scan() {
					return nil, fmt.Errorf("bdf: invalid bitmap at line %v", *j)
				}
				row, _ := bdfNextValue(scanner.Bytes(), 0)
				data, err := hex.DecodeString(string(row))
				if err != nil || len(data) < (bbW+7)/8 {
					return nil, fmt.Errorf("bdf: invalid bitmap row at line %v", *j)
				}
				for x := 0; x < bbW; x++ {
					if data[x/8]&(0x80>>(x%8)) != 0 {
						glyph.Bitmap.Set(x, bbH-1-y)
					}
				}
			}
		case "ENDCHAR":
			if glyph.Bitmap == nil {
				glyph.Bitmap = NewBitmap(bbW, bbH)
			}
			return glyph, nil
		}
	}
	return nil, fmt.Errorf("bdf: unexpected end of file at line %v", *j)
}

// ParseBDF parses a BDF bitmap font.
func ParseBDF(b []byte) (*BDF, error) {
	scanner := bufio.NewScanner(bytes.NewReader(b))
	if !scanner.Scan() {
		return nil, fmt.Errorf("invalid BDF file")
	} else if key, _ := bdfNextValue(scanner.Bytes(), 0); string(key) != "STARTFONT" {
		return nil, fmt.Errorf("invalid BDF file")
	}

	j := 1 // line number
	bdf := &BDF{Properties: map[string]string{}}
	for scanner.Scan() {
		j++
		line := scanner.Bytes()
		key, pos := bdfNextValue(line, 0)
		switch string(key) {
		case "", "CHARS", "METRICSSET", "CONTENTVERSION",
			"SWIDTH", "DWIDTH", "SWIDTH1", "DWIDTH1", "VVECTOR":
			// ignored
		case "COMMENT":
			bdf.Comments = append(bdf.Comments, bdfParseValue(line, pos))
		case "FONT":
			bdf.Name = bdfParseValue(line, pos)
		case "SIZE":
			bdf.PointSize, pos = bdfParseInteger(line, pos)
			bdf.XRes, pos = bdfParseInteger(line, pos)
			bdf.YRes, _ = bdfParseInteger(line, pos)
		case "FONTBOUNDINGBOX":
			bdf.BBW, pos = bdfParseInteger(line, pos)
			bdf.BBH, pos = bdfParseInteger(line, pos)
			bdf.BBX, pos = bdfParseInteger(line, pos)
			bdf.BBY, _ = bdfParseInteger(line, pos)
		case "STARTPROPERTIES":
			n, _ := bdfParseInteger(line, pos)
			if err := bdf.parseProperties(scanner, &j, n); err != nil {
				return nil, err
			}
		case "STARTCHAR":
			name, _ := bdfParseString(line, pos)
			glyph, err := parseGlyph(scanner, &j, name)
			if err != nil {
				return nil, err
			}
			bdf.Glyphs = append(bdf.Glyphs, glyph)
		case "ENDFONT":
			return bdf, nil
		default:
			return nil, fmt.Errorf("bdf: unexpected %v at line %v", string(key), j)
		}
	}
	return nil, fmt.Errorf("bdf: unexpected end of file at line %v", j)
}
