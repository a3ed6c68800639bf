package rawisp

import (
	"bytes"
	"fmt"
	"image"
	"image/color"
	"image/draw"
	"image/jpeg"
	"os"

	"golang.org/x/image/font"
	"golang.org/x/image/font/basicfont"
	"golang.org/x/image/math/fixed"
)

// RenderStagePreview renders a stage output as a labeled JPG and writes it
// to a file.
func RenderStagePreview(img *PlaneImage, stage Stage, outputPath string) error {
	preview, err := renderPreviewImage(img, stage)
	if err != nil {
		return err
	}

	f, err := os.Create(outputPath)
	if err != nil {
		return fmt.Errorf("create preview file: %w", err)
	}
	defer f.Close()

	return jpeg.Encode(f, preview, &jpeg.Options{Quality: 90})
}

// RenderStagePreviewBytes renders a stage output as a labeled JPG and
// returns it as JPEG bytes.
func RenderStagePreviewBytes(img *PlaneImage, stage Stage) ([]byte, error) {
	preview, err := renderPreviewImage(img, stage)
	if err != nil {
		return nil, err
	}

	var buf bytes.Buffer
	if err := jpeg.Encode(&buf, preview, &jpeg.Options{Quality: 90}); err != nil {
		return nil, err
	}
	return buf.Bytes(), nil
}

// renderPreviewImage builds the displayable image with a banner strip
// naming the stage and dimensions.
func renderPreviewImage(img *PlaneImage, stage Stage) (*image.RGBA, error) {
	disp, err := ToDisplayable(img)
	if err != nil {
		return nil, err
	}

	const bannerH = 22
	out := image.NewRGBA(image.Rect(0, 0, img.Width, img.Height+bannerH))

	// Dark banner background
	bannerBG := color.RGBA{24, 24, 24, 255}
	for y := 0; y < bannerH; y++ {
		for x := 0; x < img.Width; x++ {
			out.Set(x, y, bannerBG)
		}
	}

	draw.Draw(out, image.Rect(0, bannerH, img.Width, img.Height+bannerH), disp, image.Point{}, draw.Src)

	label := fmt.Sprintf("stage %d: %s  %dx%d", int(stage), stage, img.Width, img.Height)
	drawLabel(out, basicfont.Face7x13, label, 6, 15, color.RGBA{220, 220, 220, 255})

	return out, nil
}

// drawLabel draws a string at (x, y) using the given font face.
func drawLabel(img *image.RGBA, face font.Face, s string, x, y int, c color.RGBA) {
	d := &font.Drawer{
		Dst:  img,
		Src:  image.NewUniform(c),
		Face: face,
		Dot:  fixed.P(x, y),
	}
	d.DrawString(s)
}
