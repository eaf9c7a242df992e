package main

import (
	"log"
	"os"

	"github.com/tdewolff/argp"
)

var (
	Error   *log.Logger
	Warning *log.Logger
)

func main() {
	Error = log.New(os.Stderr, "ERROR: ", 0)
	Warning = log.New(os.Stderr, "WARNING: ", 0)

	cmd := argp.New("Build pipeline for BDF pixel fonts to variable TTF/OTF")
	cmd.AddCmd(&Convert{}, "convert", "Convert a BDF font to a UFO designspace project")
	cmd.AddCmd(&Build{}, "build", "Build all weights of a font project")
	cmd.AddCmd(&Info{}, "info", "Show BDF font info")
	cmd.AddCmd(&Preview{}, "preview", "Render a built font to an image or the terminal")
	cmd.Parse()
}
