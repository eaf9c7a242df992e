package main

import (
	"fmt"
	"image"
	"image/color"
)

func printASCII(img image.Image) {
	palette := []byte("$@B%8&WM#*oahkbdpqwmZO0QLCJUYXzcvunxrjft/\\|()1{}[]?-_+~<>i!lI;:,\"^`'. ")

	size := img.Bounds().Max
	for j := 0; j < size.Y; j++ {
		for i := 0; i < size.X; i++ {
			r, g, b, _ := img.At(i, j).RGBA()
			y, _, _ := color.RGBToYCbCr(uint8(r>>8), uint8(g>>8), uint8(b>>8))
			idx := int(float64(y)/255.0*float64(len(palette)-1) + 0.5)
			fmt.Print(string(palette[idx]))
		}
		fmt.Print("\n")
	}
}
