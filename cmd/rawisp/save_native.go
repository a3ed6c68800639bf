//go:build !purego && !js

package main

import (
	"fmt"
	"image"
	"image/draw"

	"gocv.io/x/gocv"
)

func savePreview(img image.Image, path string) error {
	rgba, ok := img.(*image.RGBA)
	if !ok {
		rgba = image.NewRGBA(img.Bounds())
		draw.Draw(rgba, rgba.Bounds(), img, img.Bounds().Min, draw.Src)
	}

	m, err := gocv.ImageToMatRGBA(rgba)
	if err != nil {
		return fmt.Errorf("converting preview: %w", err)
	}
	defer m.Close()

	bgr := gocv.NewMat()
	defer bgr.Close()
	gocv.CvtColor(m, &bgr, gocv.ColorRGBAToBGR)

	if ok := gocv.IMWrite(path, bgr); !ok {
		return fmt.Errorf("could not write image: %s", path)
	}
	return nil
}
