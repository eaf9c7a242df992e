package main

import (
	"fmt"
	"io/ioutil"
	"sort"

	"github.com/gissio/bdfbuild"
)

type Info struct {
	Char       string `short:"c" desc:"Show the glyph bitmap of a character."`
	Properties bool   `short:"p" desc:"List all BDF properties."`
	Input      string `index:"0" desc:"Input BDF file."`
}

func (cmd *Info) Run() error {
	b, err := ioutil.ReadFile(cmd.Input)
	if err != nil {
		return fmt.Errorf("%v: %v", cmd.Input, err)
	}
	bdf, err := bdfbuild.ParseBDF(b)
	if err != nil {
		return fmt.Errorf("%v: %v", cmd.Input, err)
	}

	fmt.Printf("File: %s\n\n", cmd.Input)
	fmt.Printf("Font: %s\n", bdf.Name)
	fmt.Printf("Point size: %d  resolution: %dx%d dpi\n", bdf.PointSize, bdf.XRes, bdf.YRes)
	fmt.Printf("Bounding box: %dx%d at (%d,%d)\n", bdf.BBW, bdf.BBH, bdf.BBX, bdf.BBY)
	fmt.Printf("Glyphs: %d\n", len(bdf.Glyphs))

	if cmd.Properties {
		keys := make([]string, 0, len(bdf.Properties))
		for key := range bdf.Properties {
			keys = append(keys, key)
		}
		sort.Strings(keys)
		fmt.Printf("\nProperties:\n")
		for _, key := range keys {
			fmt.Printf("  %s: %s\n", key, bdf.Properties[key])
		}
	}

	if cmd.Char != "" {
		cp := -1
		for _, r := range cmd.Char {
			cp = int(r)
			break
		}
		var glyph *bdfbuild.Glyph
		for _, g := range bdf.Glyphs {
			if g.Encoding == cp {
				glyph = g
				break
			}
		}
		if glyph == nil {
			return fmt.Errorf("glyph not found: %s", cmd.Char)
		}
		fmt.Printf("\nGlyph: %s  encoding: U+%04X  advance: %d  offset: (%d,%d)\n",
			glyph.Name, glyph.Encoding, glyph.Advance, glyph.X, glyph.Y)
		for y := glyph.Bitmap.H - 1; y >= 0; y-- {
			for x := 0; x < glyph.Bitmap.W; x++ {
				if glyph.Bitmap.At(x, y) {
					fmt.Print("#")
				} else {
					fmt.Print(".")
				}
			}
			fmt.Print("\n")
		}
	}
	return nil
}
