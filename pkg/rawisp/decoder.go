package rawisp

import (
	"encoding/binary"
	"fmt"
	"os"
)

const (
	placeholderBlock = 100
	placeholderLow   = 256
	placeholderHigh  = 768
)

// DecodeDiagnostics reports how a decode degraded without breaking the
// always-succeeds contract: decoding never returns an error, it returns a
// frame plus a note about any substitution that was made.
type DecodeDiagnostics struct {
	Placeholder bool
	Note        string
}

// PlaceholderFrame builds the synthetic checkerboard test pattern used
// whenever real sensor data cannot be decoded: 100x100 sample blocks
// alternating between values 256 and 768.
func PlaceholderFrame(width, height, bpp int) *RawFrame {
	pixels := make([]uint16, width*height)
	for y := 0; y < height; y++ {
		for x := 0; x < width; x++ {
			v := uint16(placeholderLow)
			if (x/placeholderBlock+y/placeholderBlock)%2 == 1 {
				v = placeholderHigh
			}
			pixels[y*width+x] = v
		}
	}
	return &RawFrame{Pixels: pixels, Width: width, Height: height, BitsPerPixel: bpp}
}

// DecodeRaw interprets a raw byte buffer as a sensor sample grid.
// Packed 10-bit data is unpacked from 5-byte quintuples; everything else,
// including packed data at other bit depths, is read as little-endian
// 16-bit samples. Truncated buffers yield the placeholder pattern instead
// of an error.
func DecodeRaw(data []byte, width, height, bpp int, packed bool) (*RawFrame, DecodeDiagnostics) {
	if width <= 0 || height <= 0 {
		def := NewISPParams()
		width, height = def.Width, def.Height
		frame := PlaceholderFrame(width, height, bpp)
		return frame, DecodeDiagnostics{
			Placeholder: true,
			Note:        "invalid dimensions, substituted placeholder",
		}
	}
	if packed && bpp == 10 {
		return decodePacked10(data, width, height)
	}
	return decodeUnpacked16(data, width, height, bpp)
}

// DecodeRawFile reads and decodes a raw file. I/O errors degrade to the
// placeholder pattern like any other decode failure.
func DecodeRawFile(path string, width, height, bpp int, packed bool) (*RawFrame, DecodeDiagnostics) {
	data, err := os.ReadFile(path)
	if err != nil {
		frame := PlaceholderFrame(width, height, bpp)
		return frame, DecodeDiagnostics{
			Placeholder: true,
			Note:        fmt.Sprintf("read %s: %v, substituted placeholder", path, err),
		}
	}
	return DecodeRaw(data, width, height, bpp, packed)
}

// decodePacked10 unpacks 5-byte groups into 4 ten-bit samples. b4 carries
// the two low bits of each of the four samples.
func decodePacked10(data []byte, width, height int) (*RawFrame, DecodeDiagnostics) {
	need := width * height
	pixels := make([]uint16, 0, need+3)
	for i := 0; i+5 <= len(data) && len(pixels) < need; i += 5 {
		b0 := uint16(data[i])
		b1 := uint16(data[i+1])
		b2 := uint16(data[i+2])
		b3 := uint16(data[i+3])
		b4 := uint16(data[i+4])
		pixels = append(pixels,
			(b0<<2|b4&0x3)&0x3FF,
			(b1<<2|(b4>>2)&0x3)&0x3FF,
			(b2<<2|(b4>>4)&0x3)&0x3FF,
			(b3<<2|(b4>>6)&0x3)&0x3FF,
		)
	}
	if len(pixels) < need {
		frame := PlaceholderFrame(width, height, 10)
		return frame, DecodeDiagnostics{
			Placeholder: true,
			Note: fmt.Sprintf("packed buffer yields %d of %d samples, substituted placeholder",
				len(pixels), need),
		}
	}
	return &RawFrame{
		Pixels:       pixels[:need],
		Width:        width,
		Height:       height,
		BitsPerPixel: 10,
	}, DecodeDiagnostics{}
}

func decodeUnpacked16(data []byte, width, height, bpp int) (*RawFrame, DecodeDiagnostics) {
	need := width * height
	if len(data) < need*2 {
		frame := PlaceholderFrame(width, height, bpp)
		return frame, DecodeDiagnostics{
			Placeholder: true,
			Note: fmt.Sprintf("buffer holds %d of %d samples, substituted placeholder",
				len(data)/2, need),
		}
	}
	pixels := make([]uint16, need)
	for i := 0; i < need; i++ {
		pixels[i] = binary.LittleEndian.Uint16(data[i*2:])
	}
	return &RawFrame{
		Pixels:       pixels,
		Width:        width,
		Height:       height,
		BitsPerPixel: bpp,
	}, DecodeDiagnostics{}
}
