package main

import (
	"fmt"
	"io/ioutil"
	"log"
	"os"
	"strconv"
	"strings"

	"github.com/gissio/bdfbuild"
	"github.com/tdewolff/prompt"
)

type Convert struct {
	Quiet   bool `short:"q" desc:"Suppress warnings."`
	Verbose bool `short:"v" desc:"Print composition details."`
	Force   bool `short:"f" desc:"Force overwriting an existing output directory."`

	UnitsPerEm int    `name:"units-per-em" desc:"Units per em."`
	Codepoints string `desc:"Comma-separated subset of codepoints to convert, eg. 0x0-0x2000,0x20ee."`

	FamilyName  string `name:"family-name" desc:"Override the font family name."`
	FontVersion string `name:"font-version" desc:"Override the font version string."`
	Weight      int    `desc:"Override the font weight (Regular: 400)."`
	Slope       string `desc:"Override the font slope, eg. Italic."`
	WidthClass  int    `name:"width-class" desc:"Override the font width class (Normal: 5)."`

	Copyright       string `desc:"Override the font copyright string."`
	Designer        string `desc:"Override the font designer string."`
	DesignerURL     string `name:"designer-url" desc:"Override the font designer URL."`
	Manufacturer    string `desc:"Override the font manufacturer string."`
	ManufacturerURL string `name:"manufacturer-url" desc:"Override the font manufacturer URL."`
	License         string `desc:"Override the font license string."`
	LicenseURL      string `name:"license-url" desc:"Override the font license URL."`

	Ascent             int    `desc:"Override the font ascent in pixels (baseline to top of line)."`
	Descent            int    `desc:"Override the font descent in pixels (baseline to bottom of line)."`
	CapHeight          int    `name:"cap-height" desc:"Override the font cap height in pixels."`
	XHeight            int    `name:"x-height" desc:"Override the font x height in pixels."`
	UnderlinePosition  int    `name:"underline-position" desc:"Underline position in pixels, relative to the baseline."`
	UnderlineThickness int    `name:"underline-thickness" desc:"Underline thickness in pixels."`
	StrikeoutPosition  int    `name:"strikeout-position" desc:"Strikeout position in pixels, relative to the baseline."`
	StrikeoutThickness int    `name:"strikeout-thickness" desc:"Strikeout thickness in pixels."`
	NotdefCodepoint    int    `name:"notdef" desc:"Encoding that maps to .notdef."`
	GlyphOffset        string `name:"glyph-offset" desc:"Pixel offset dx,dy applied to every glyph."`

	Output string `index:"1" desc:"Output project directory."`
	Input  string `index:"0" desc:"Input BDF file."`
}

func (cmd *Convert) Run() error {
	if cmd.Quiet {
		Warning = log.New(ioutil.Discard, "", 0)
	}
	if cmd.Weight != 0 && (cmd.Weight < 100 || 900 < cmd.Weight || cmd.Weight%100 != 0) {
		return fmt.Errorf("invalid weight: %v", cmd.Weight)
	}
	if cmd.WidthClass < 0 || 9 < cmd.WidthClass {
		return fmt.Errorf("invalid width class: %v", cmd.WidthClass)
	}

	opts := &bdfbuild.Options{
		UnitsPerEm: cmd.UnitsPerEm,
		Codepoints: cmd.Codepoints,

		FamilyName: cmd.FamilyName,
		Version:    cmd.FontVersion,
		Weight:     cmd.Weight,
		Slope:      cmd.Slope,
		WidthClass: cmd.WidthClass,

		Copyright:       cmd.Copyright,
		Designer:        cmd.Designer,
		DesignerURL:     cmd.DesignerURL,
		Manufacturer:    cmd.Manufacturer,
		ManufacturerURL: cmd.ManufacturerURL,
		License:         cmd.License,
		LicenseURL:      cmd.LicenseURL,

		Ascent:             cmd.Ascent,
		Descent:            cmd.Descent,
		CapHeight:          cmd.CapHeight,
		XHeight:            cmd.XHeight,
		UnderlinePosition:  cmd.UnderlinePosition,
		UnderlineThickness: cmd.UnderlineThickness,
		StrikeoutPosition:  cmd.StrikeoutPosition,
		StrikeoutThickness: cmd.StrikeoutThickness,
		NotdefCodepoint:    cmd.NotdefCodepoint,

		Warning: Warning,
	}
	if cmd.Verbose {
		opts.Info = log.New(os.Stdout, "", 0)
	}
	if cmd.GlyphOffset != "" {
		dx, dy, found := strings.Cut(cmd.GlyphOffset, ",")
		var err1, err2 error
		opts.GlyphOffsetX, err1 = strconv.Atoi(strings.TrimSpace(dx))
		if found {
			opts.GlyphOffsetY, err2 = strconv.Atoi(strings.TrimSpace(dy))
		}
		if err1 != nil || err2 != nil {
			return fmt.Errorf("invalid glyph offset: %v", cmd.GlyphOffset)
		}
	}

	b, err := ioutil.ReadFile(cmd.Input)
	if err != nil {
		return fmt.Errorf("%v: %v", cmd.Input, err)
	}
	bdf, err := bdfbuild.ParseBDF(b)
	if err != nil {
		return fmt.Errorf("%v: %v", cmd.Input, err)
	}

	if _, err := os.Stat(cmd.Output); err == nil {
		if !cmd.Force && !prompt.YesNo(fmt.Sprintf("%s already exists, overwrite?", cmd.Output), false) {
			return nil
		}
	}

	ds, err := bdfbuild.Convert(bdf, opts, cmd.Output)
	if err != nil {
		return err
	}
	fmt.Printf("Converted %s %s to %s\n", ds.FamilyName, ds.StyleName, cmd.Output)
	return nil
}
