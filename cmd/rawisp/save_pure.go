//go:build purego || js

package main

import (
	"fmt"
	"image"
	"image/png"
	"os"
)

func savePreview(img image.Image, path string) error {
	f, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("create preview file: %w", err)
	}
	defer f.Close()

	if err := png.Encode(f, img); err != nil {
		return fmt.Errorf("encoding preview: %w", err)
	}
	return nil
}
