package main

import (
	"fmt"
	"image"
	"image/png"
	"io/ioutil"
	"os"

	"github.com/golang/freetype/truetype"
	"github.com/tdewolff/prompt"
	"golang.org/x/image/font"
	"golang.org/x/image/math/fixed"
)

type Preview struct {
	Text   string  `short:"t" default:"The quick brown fox jumps over the lazy dog" desc:"Text to render."`
	Size   float64 `short:"s" default:"48" desc:"Font size in points."`
	DPI    float64 `default:"72" desc:"Resolution in dots per inch."`
	Force  bool    `short:"f" desc:"Force overwriting existing files."`
	Input  string  `index:"0" desc:"Input TTF file."`
	Output string  `index:"1" desc:"Output PNG file, writes ASCII to the terminal if empty."`
}

func (cmd *Preview) Run() error {
	b, err := ioutil.ReadFile(cmd.Input)
	if err != nil {
		return fmt.Errorf("%v: %v", cmd.Input, err)
	}
	f, err := truetype.Parse(b)
	if err != nil {
		return fmt.Errorf("%v: %v", cmd.Input, err)
	}
	face := truetype.NewFace(f, &truetype.Options{
		Size:    cmd.Size,
		DPI:     cmd.DPI,
		Hinting: font.HintingNone,
	})
	defer face.Close()

	metrics := face.Metrics()
	bounds, advance := font.BoundString(face, cmd.Text)
	margin := fixed.I(int(cmd.Size / 4.0))
	width := (advance + 2*margin).Ceil()
	height := (metrics.Ascent + metrics.Descent + 2*margin).Ceil()
	if width < 1 || height < 1 || bounds.Empty() {
		return fmt.Errorf("%v: nothing to render", cmd.Input)
	}

	img := image.NewRGBA(image.Rect(0, 0, width, height))
	for i := range img.Pix {
		img.Pix[i] = 255
	}
	d := font.Drawer{
		Dst:  img,
		Src:  image.Black,
		Face: face,
		Dot:  fixed.Point26_6{X: margin, Y: margin + metrics.Ascent},
	}
	d.DrawString(cmd.Text)

	if cmd.Output == "" {
		printASCII(img)
		return nil
	}

	if _, err := os.Stat(cmd.Output); err == nil {
		if !cmd.Force && !prompt.YesNo(fmt.Sprintf("%s already exists, overwrite?", cmd.Output), false) {
			return nil
		}
	}
	w, err := os.Create(cmd.Output)
	if err != nil {
		return err
	}
	if err := png.Encode(w, img); err != nil {
		w.Close()
		return err
	} else if err := w.Close(); err != nil {
		return err
	}
	fmt.Printf("Rendered %s to %s\n", cmd.Input, cmd.Output)
	return nil
}
