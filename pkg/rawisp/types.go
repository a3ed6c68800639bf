package rawisp

// Channel identifies a Bayer sensor site color.
type Channel int

const (
	ChanR Channel = iota
	ChanGr
	ChanGb
	ChanB
)

func (c Channel) String() string {
	switch c {
	case ChanR:
		return "R"
	case ChanGr:
		return "Gr"
	case ChanGb:
		return "Gb"
	case ChanB:
		return "B"
	default:
		return "Unknown"
	}
}

// BayerPattern is one of the four 2x2 color filter arrangements.
type BayerPattern int

const (
	BayerRGGB BayerPattern = iota
	BayerGRBG
	BayerGBRG
	BayerBGGR
)

func (b BayerPattern) String() string {
	switch b {
	case BayerRGGB:
		return "RGGB"
	case BayerGRBG:
		return "GRBG"
	case BayerGBRG:
		return "GBRG"
	case BayerBGGR:
		return "BGGR"
	default:
		return "Unknown"
	}
}

// BayerPatternFromCode maps a metadata bayer-type code to a pattern.
// Unknown codes default to RGGB.
func BayerPatternFromCode(code int) BayerPattern {
	if code < 0 || code > int(BayerBGGR) {
		return BayerRGGB
	}
	return BayerPattern(code)
}

// ChannelAt returns the channel at pixel (y, x) for this pattern.
// Gr is the green site sharing a row with red, Gb the one sharing a row with blue.
func (b BayerPattern) ChannelAt(y, x int) Channel {
	evenRow := y%2 == 0
	evenCol := x%2 == 0
	switch b {
	case BayerGRBG:
		switch {
		case evenRow && evenCol:
			return ChanGr
		case evenRow && !evenCol:
			return ChanR
		case !evenRow && evenCol:
			return ChanB
		default:
			return ChanGb
		}
	case BayerGBRG:
		switch {
		case evenRow && evenCol:
			return ChanGb
		case evenRow && !evenCol:
			return ChanB
		case !evenRow && evenCol:
			return ChanR
		default:
			return ChanGr
		}
	case BayerBGGR:
		switch {
		case evenRow && evenCol:
			return ChanB
		case evenRow && !evenCol:
			return ChanGb
		case !evenRow && evenCol:
			return ChanGr
		default:
			return ChanR
		}
	default: // RGGB
		switch {
		case evenRow && evenCol:
			return ChanR
		case evenRow && !evenCol:
			return ChanGr
		case !evenRow && evenCol:
			return ChanGb
		default:
			return ChanB
		}
	}
}

// Stage indexes the pipeline stages. StageRaw is the decoded grid itself;
// each later stage is applied cumulatively on top of all earlier ones.
type Stage int

const (
	StageRaw Stage = iota
	StageBlackLevel
	StageDemosaic
	StageWhiteBalance
	StageLensShading
	StageToneMap
	StageExposure
	StageGamma
	StageColorCorrect
)

func (s Stage) String() string {
	switch s {
	case StageRaw:
		return "Raw"
	case StageBlackLevel:
		return "BlackLevel"
	case StageDemosaic:
		return "Demosaic"
	case StageWhiteBalance:
		return "WhiteBalance"
	case StageLensShading:
		return "LensShading"
	case StageToneMap:
		return "ToneMapping"
	case StageExposure:
		return "Exposure"
	case StageGamma:
		return "Gamma"
	case StageColorCorrect:
		return "ColorCorrection"
	default:
		return "Unknown"
	}
}

// DemosaicMethod selects how the sparse Bayer planes are densified.
type DemosaicMethod int

const (
	// DemosaicBilinear scatters samples into per-channel planes and fills
	// holes with the mean of non-zero 3x3 neighbors.
	DemosaicBilinear DemosaicMethod = iota
	// DemosaicReplicate copies the single-channel raw image into all three
	// planes, producing a grayscale rendition.
	DemosaicReplicate
)

func (m DemosaicMethod) String() string {
	switch m {
	case DemosaicBilinear:
		return "Bilinear"
	case DemosaicReplicate:
		return "Replicate"
	default:
		return "Unknown"
	}
}

// UI-facing parameter ranges. Editing affordances clamp to these; the
// pipeline itself does not enforce them.
const (
	MinBlackLevel = 0
	MaxBlackLevel = 1023

	MinWBGain = 0.5
	MaxWBGain = 3.0

	MinLensShadingStrength = 0.0
	MaxLensShadingStrength = 2.0
	MinLensCenter          = 0.0
	MaxLensCenter          = 1.0

	MinToneMapStrength = 0.5
	MaxToneMapStrength = 2.0
	MinToneMapContrast = 0.5
	MaxToneMapContrast = 2.0

	MinExposureEV = -3.0
	MaxExposureEV = 3.0
	MinRecovery   = 0.0
	MaxRecovery   = 1.0

	MinGamma = 1.0
	MaxGamma = 3.0

	MinSaturation = 0.0
	MaxSaturation = 2.0
	MinHueShift   = -1.0
	MaxHueShift   = 1.0
)

// ISPParams is one mutable parameter snapshot per editing session. The UI
// layer mutates it field by field; the pipeline only reads it, copying the
// snapshot at the start of each replay.
type ISPParams struct {
	// Raw geometry
	Width        int
	Height       int
	BitsPerPixel int
	Packed       bool
	Pattern      BayerPattern

	// Black level, per Bayer channel
	BlackLevelR  int
	BlackLevelGr int
	BlackLevelGb int
	BlackLevelB  int

	// Demosaic
	Method        DemosaicMethod
	EdgeThreshold float64

	// White balance
	GainR            float64
	GainG            float64
	GainB            float64
	AutoWhiteBalance bool

	// Lens shading
	LensShadingEnabled  bool
	LensShadingStrength float64
	LensCenterX         float64
	LensCenterY         float64

	// Tone mapping
	ToneMapEnabled  bool
	ToneMapStrength float64
	ToneMapContrast float64

	// Exposure
	ExposureEV        float64
	HighlightRecovery float64
	ShadowRecovery    float64

	// Gamma
	GammaEnabled bool
	Gamma        float64

	// Color correction. HueShift and ColorMatrixEnabled are collected for
	// the UI but not consumed by the transform in this version.
	Saturation         float64
	HueShift           float64
	ColorMatrixEnabled bool
}

// NewISPParams creates an ISPParams with default values.
func NewISPParams() *ISPParams {
	return &ISPParams{
		Width:        1920,
		Height:       1080,
		BitsPerPixel: 10,
		Packed:       true,
		Pattern:      BayerRGGB,

		BlackLevelR:  64,
		BlackLevelGr: 64,
		BlackLevelGb: 64,
		BlackLevelB:  64,

		Method:        DemosaicBilinear,
		EdgeThreshold: 0.1,

		GainR:            1.0,
		GainG:            1.0,
		GainB:            1.0,
		AutoWhiteBalance: false,

		LensShadingEnabled:  false,
		LensShadingStrength: 0.5,
		LensCenterX:         0.5,
		LensCenterY:         0.5,

		ToneMapEnabled:  false,
		ToneMapStrength: 1.0,
		ToneMapContrast: 1.0,

		ExposureEV:        0.0,
		HighlightRecovery: 0.0,
		ShadowRecovery:    0.0,

		GammaEnabled: true,
		Gamma:        2.2,

		Saturation:         1.0,
		HueShift:           0.0,
		ColorMatrixEnabled: false,
	}
}

// ResetStageDefaults restores only the fields feeding the given stage to
// their defaults, leaving every other stage's fields untouched.
func (p *ISPParams) ResetStageDefaults(stage Stage) {
	def := NewISPParams()
	switch stage {
	case StageRaw:
		p.Width = def.Width
		p.Height = def.Height
		p.BitsPerPixel = def.BitsPerPixel
		p.Packed = def.Packed
		p.Pattern = def.Pattern
	case StageBlackLevel:
		p.BlackLevelR = def.BlackLevelR
		p.BlackLevelGr = def.BlackLevelGr
		p.BlackLevelGb = def.BlackLevelGb
		p.BlackLevelB = def.BlackLevelB
	case StageDemosaic:
		p.Method = def.Method
		p.EdgeThreshold = def.EdgeThreshold
	case StageWhiteBalance:
		p.GainR = def.GainR
		p.GainG = def.GainG
		p.GainB = def.GainB
		p.AutoWhiteBalance = def.AutoWhiteBalance
	case StageLensShading:
		p.LensShadingEnabled = def.LensShadingEnabled
		p.LensShadingStrength = def.LensShadingStrength
		p.LensCenterX = def.LensCenterX
		p.LensCenterY = def.LensCenterY
	case StageToneMap:
		p.ToneMapEnabled = def.ToneMapEnabled
		p.ToneMapStrength = def.ToneMapStrength
		p.ToneMapContrast = def.ToneMapContrast
	case StageExposure:
		p.ExposureEV = def.ExposureEV
		p.HighlightRecovery = def.HighlightRecovery
		p.ShadowRecovery = def.ShadowRecovery
	case StageGamma:
		p.GammaEnabled = def.GammaEnabled
		p.Gamma = def.Gamma
	case StageColorCorrect:
		p.Saturation = def.Saturation
		p.HueShift = def.HueShift
		p.ColorMatrixEnabled = def.ColorMatrixEnabled
	}
}

// RawFrame holds a decoded sensor sample grid, row-major.
type RawFrame struct {
	Pixels       []uint16
	Width        int
	Height       int
	BitsPerPixel int
}
