package rawisp

import (
	"fmt"
	"image"
	"image/color"
)

// ToDisplayable normalizes a floating-point image buffer by its own
// maximum into 8-bit form: one plane becomes grayscale, three planes
// become color with an opaque alpha channel. A buffer whose maximum is not
// positive maps to all-zero output. Any other plane count is a caller
// error.
func ToDisplayable(img *PlaneImage) (image.Image, error) {
	switch img.NumPlanes() {
	case 1:
		return displayGray(img), nil
	case 3:
		return displayRGBA(img), nil
	default:
		return nil, fmt.Errorf("displayable image needs 1 or 3 planes, got %d", img.NumPlanes())
	}
}

func displayScale(img *PlaneImage) float64 {
	maxVal := img.Max()
	if maxVal <= 0 {
		return 0
	}
	return 255.0 / maxVal
}

func displayGray(img *PlaneImage) *image.Gray {
	out := image.NewGray(image.Rect(0, 0, img.Width, img.Height))
	scale := displayScale(img)
	data := img.Planes[0].DataFloat32()
	for y := 0; y < img.Height; y++ {
		off := y * img.Width
		for x := 0; x < img.Width; x++ {
			out.SetGray(x, y, color.Gray{Y: quantize(data[off+x], scale)})
		}
	}
	return out
}

func displayRGBA(img *PlaneImage) *image.RGBA {
	out := image.NewRGBA(image.Rect(0, 0, img.Width, img.Height))
	scale := displayScale(img)
	r := img.Planes[0].DataFloat32()
	g := img.Planes[1].DataFloat32()
	b := img.Planes[2].DataFloat32()
	for y := 0; y < img.Height; y++ {
		off := y * img.Width
		for x := 0; x < img.Width; x++ {
			i := off + x
			out.SetRGBA(x, y, color.RGBA{
				R: quantize(r[i], scale),
				G: quantize(g[i], scale),
				B: quantize(b[i], scale),
				A: 255,
			})
		}
	}
	return out
}

func quantize(v float32, scale float64) uint8 {
	s := float64(v) * scale
	if s <= 0 {
		return 0
	}
	if s >= 255 {
		return 255
	}
	return uint8(s + 0.5)
}
