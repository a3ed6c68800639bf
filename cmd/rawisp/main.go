package main

import (
	"flag"
	"fmt"
	"os"
	"strings"
	"time"

	ri "rawisp/pkg/rawisp"
)

func main() {
	if err := run(os.Args[1:]); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}

func run(args []string) error {
	fs := flag.NewFlagSet("rawisp", flag.ContinueOnError)
	width := fs.Int("width", 1920, "frame width in samples")
	height := fs.Int("height", 1080, "frame height in samples")
	bpp := fs.Int("bpp", 10, "sensor bits per pixel")
	packed := fs.Bool("packed", true, "10-bit packed layout (5 bytes per 4 samples)")
	bayer := fs.String("bayer", "RGGB", "bayer pattern: RGGB, GRBG, GBRG or BGGR")
	metaPath := fs.String("meta", "", "sidecar metadata text file")
	stageIdx := fs.Int("stage", int(ri.StageColorCorrect), "process up to this stage (0-8)")
	out := fs.String("out", "", "preview output (.jpg/.jpeg gets a stage banner, anything else is PNG)")
	if err := fs.Parse(args); err != nil {
		return err
	}
	if fs.NArg() < 1 {
		return fmt.Errorf("usage: rawisp [flags] <raw-file>")
	}
	inputPath := fs.Arg(0)

	params := ri.NewISPParams()
	if *metaPath != "" {
		text, err := os.ReadFile(*metaPath)
		if err != nil {
			return fmt.Errorf("reading metadata: %w", err)
		}
		meta := ri.ParseMetadata(string(text))
		meta.ApplyTo(params)
		fmt.Printf("Metadata: camera=%d sensor=%d product=%d bpp=%d packed=%d bayer=%s\n",
			meta.CameraID, meta.SensorID, meta.ProductID,
			meta.BitsPerPixel, meta.Packed, ri.BayerPatternFromCode(meta.BayerType))
		if len(meta.Extra) > 0 {
			fmt.Printf("  %d unrecognized field(s) preserved\n", len(meta.Extra))
		}
	}

	// Explicitly passed flags override metadata seeding.
	set := make(map[string]bool)
	fs.Visit(func(f *flag.Flag) { set[f.Name] = true })
	params.Width = *width
	params.Height = *height
	if set["bpp"] || *metaPath == "" {
		params.BitsPerPixel = *bpp
	}
	if set["packed"] || *metaPath == "" {
		params.Packed = *packed
	}
	if set["bayer"] || *metaPath == "" {
		pattern, err := parseBayerName(*bayer)
		if err != nil {
			return err
		}
		params.Pattern = pattern
	}

	fmt.Printf("Loading: %s\n", inputPath)
	start := time.Now()
	frame, diag := ri.DecodeRawFile(inputPath, params.Width, params.Height, params.BitsPerPixel, params.Packed)
	if diag.Placeholder {
		fmt.Printf("  [%s]\n", diag.Note)
	}

	session := ri.NewSession()
	session.LoadFrame(frame)
	stage := ri.Stage(*stageIdx)
	img := session.ProcessStage(stage, params)
	elapsed := time.Since(start)

	fmt.Println()
	fmt.Printf("=== Pipeline Result (%.2fs) ===\n", elapsed.Seconds())
	fmt.Printf("  Frame:  %d x %d, %d-bit, %s\n", frame.Width, frame.Height, frame.BitsPerPixel, params.Pattern)
	fmt.Printf("  Stage:  %d (%s)\n", int(stage), stage)
	planeNames := []string{"Y"}
	if img.NumPlanes() == 3 {
		planeNames = []string{"R", "G", "B"}
	}
	for i := 0; i < img.NumPlanes(); i++ {
		minV, mean, maxV := img.PlaneStats(i)
		fmt.Printf("  %s: min=%.1f mean=%.1f max=%.1f\n", planeNames[i], minV, mean, maxV)
	}
	fmt.Println("==============================")

	if *out != "" {
		lower := strings.ToLower(*out)
		if strings.HasSuffix(lower, ".jpg") || strings.HasSuffix(lower, ".jpeg") {
			if err := ri.RenderStagePreview(img, stage, *out); err != nil {
				return fmt.Errorf("writing preview: %w", err)
			}
		} else {
			disp, err := ri.ToDisplayable(img)
			if err != nil {
				return err
			}
			if err := savePreview(disp, *out); err != nil {
				return fmt.Errorf("writing preview: %w", err)
			}
		}
		fmt.Printf("Preview written: %s\n", *out)
	}
	return nil
}

func parseBayerName(s string) (ri.BayerPattern, error) {
	switch strings.ToUpper(s) {
	case "RGGB":
		return ri.BayerRGGB, nil
	case "GRBG":
		return ri.BayerGRBG, nil
	case "GBRG":
		return ri.BayerGBRG, nil
	case "BGGR":
		return ri.BayerBGGR, nil
	default:
		return ri.BayerRGGB, fmt.Errorf("unknown bayer pattern %q", s)
	}
}
