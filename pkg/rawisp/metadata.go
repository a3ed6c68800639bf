package rawisp

import (
	"strconv"
	"strings"
)

// RawMetadata holds the parsed sidecar description of a sensor frame.
// Unrecognized keys and values that fail numeric parsing are preserved
// verbatim in Extra.
type RawMetadata struct {
	ShotMetaRevision  int
	FrameMetaRevision int
	FrameMetaVersion  int
	CameraID          int
	SensorID          int
	ProductID         int
	DeviceState       int
	FlashState        int
	BitsPerPixel      int
	Packed            int
	BayerType         int
	Extra             map[string]string
}

// NewRawMetadata creates a RawMetadata with default field values.
func NewRawMetadata() *RawMetadata {
	return &RawMetadata{
		BitsPerPixel: 10,
		Packed:       1,
		Extra:        make(map[string]string),
	}
}

// metadataFields is matched against lower-cased keys by substring, in
// order. Longer revision fragments must come before the shorter fragments
// they contain, or the wrong field wins.
var metadataFields = []struct {
	fragment string
	assign   func(*RawMetadata, int)
}{
	{"shotmetarevisionver", func(m *RawMetadata, v int) { m.ShotMetaRevision = v }},
	{"framemetarevisionver", func(m *RawMetadata, v int) { m.FrameMetaRevision = v }},
	{"framemetaver", func(m *RawMetadata, v int) { m.FrameMetaVersion = v }},
	{"bitsperpixel", func(m *RawMetadata, v int) { m.BitsPerPixel = v }},
	{"bpp", func(m *RawMetadata, v int) { m.BitsPerPixel = v }},
	{"bayertype", func(m *RawMetadata, v int) { m.BayerType = v }},
	{"bayer", func(m *RawMetadata, v int) { m.BayerType = v }},
	{"cameraid", func(m *RawMetadata, v int) { m.CameraID = v }},
	{"camera", func(m *RawMetadata, v int) { m.CameraID = v }},
	{"sensorid", func(m *RawMetadata, v int) { m.SensorID = v }},
	{"sensor", func(m *RawMetadata, v int) { m.SensorID = v }},
	{"productid", func(m *RawMetadata, v int) { m.ProductID = v }},
	{"product", func(m *RawMetadata, v int) { m.ProductID = v }},
	{"devicestate", func(m *RawMetadata, v int) { m.DeviceState = v }},
	{"device", func(m *RawMetadata, v int) { m.DeviceState = v }},
	{"flashstate", func(m *RawMetadata, v int) { m.FlashState = v }},
	{"flash", func(m *RawMetadata, v int) { m.FlashState = v }},
	{"packed", func(m *RawMetadata, v int) { m.Packed = v }},
}

// ParseMetadata parses a free-form sidecar text blob. Fields are separated
// by newlines or commas, each shaped "key: value". Lines without a colon
// are skipped. Values of recognized fields are parsed as integers; on
// failure the raw string lands in Extra under the lower-cased key, as do
// values of unrecognized keys. ParseMetadata never fails.
func ParseMetadata(text string) *RawMetadata {
	meta := NewRawMetadata()
	normalized := strings.ReplaceAll(text, ",", "\n")
	for _, line := range strings.Split(normalized, "\n") {
		idx := strings.Index(line, ":")
		if idx < 0 {
			continue
		}
		key := strings.ToLower(strings.TrimSpace(line[:idx]))
		value := strings.TrimSpace(line[idx+1:])
		if key == "" {
			continue
		}
		assigned := false
		for _, f := range metadataFields {
			if strings.Contains(key, f.fragment) {
				if n, err := strconv.Atoi(value); err == nil {
					f.assign(meta, n)
				} else {
					meta.Extra[key] = value
				}
				assigned = true
				break
			}
		}
		if !assigned {
			meta.Extra[key] = value
		}
	}
	return meta
}

// ApplyTo seeds the raw-geometry parameters this metadata describes.
func (m *RawMetadata) ApplyTo(p *ISPParams) {
	if m.BitsPerPixel > 0 {
		p.BitsPerPixel = m.BitsPerPixel
	}
	p.Packed = m.Packed != 0
	p.Pattern = BayerPatternFromCode(m.BayerType)
}
