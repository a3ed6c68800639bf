package rawisp

import (
	"math"
	"testing"
)

func smallDefaults(w, h int) *ISPParams {
	p := NewISPParams()
	p.Width = w
	p.Height = h
	p.BitsPerPixel = 16
	p.Packed = false
	p.Pattern = BayerRGGB
	return p
}

func TestProcessStageEndToEndUniform(t *testing.T) {
	p := smallDefaults(4, 4)
	s := NewSession()
	s.LoadFrame(constantFrame(4, 4, 512))

	img := s.ProcessStage(StageColorCorrect, p)
	if img.NumPlanes() != 3 {
		t.Fatalf("NumPlanes = %d, want 3", img.NumPlanes())
	}

	// A constant field stays spatially uniform through every stage under
	// default parameters.
	first := img.Planes[0].DataFloat32()[0]
	for pi := 0; pi < 3; pi++ {
		for i, v := range img.Planes[pi].DataFloat32() {
			if math.Abs(float64(v-first)) > 1e-3 {
				t.Fatalf("plane %d sample %d = %f, want uniform %f", pi, i, v, first)
			}
		}
	}
	if first <= 0 {
		t.Errorf("uniform output level = %f, want positive (512 is above the black level)", first)
	}
}

func TestProcessStageCachesIntermediates(t *testing.T) {
	p := smallDefaults(4, 4)
	s := NewSession()
	s.LoadFrame(constantFrame(4, 4, 512))

	s.ProcessStage(StageWhiteBalance, p)
	for st := StageRaw; st <= StageWhiteBalance; st++ {
		if _, ok := s.CachedStage(st); !ok {
			t.Errorf("stage %s missing from cache", st)
		}
	}
	if _, ok := s.CachedStage(StageGamma); ok {
		t.Error("stage Gamma cached without being requested")
	}
}

func TestProcessStageReplaysFromRaw(t *testing.T) {
	p := smallDefaults(4, 4)
	s := NewSession()
	s.LoadFrame(constantFrame(4, 4, 512))

	s.ProcessStage(StageColorCorrect, p)

	p.BlackLevelR, p.BlackLevelGr, p.BlackLevelGb, p.BlackLevelB = 0, 0, 0, 0
	img := s.ProcessStage(StageBlackLevel, p)
	if got := img.Planes[0].DataFloat32()[0]; got != 512 {
		t.Errorf("sample = %f, want 512 under zero black levels (stale cache?)", got)
	}
}

func TestProcessStageCachedRawMatchesGrid(t *testing.T) {
	p := smallDefaults(2, 2)
	s := NewSession()
	s.LoadFrame(&RawFrame{Pixels: []uint16{1, 2, 3, 4}, Width: 2, Height: 2, BitsPerPixel: 16})

	s.ProcessStage(StageBlackLevel, p)
	raw, ok := s.CachedStage(StageRaw)
	if !ok {
		t.Fatal("raw stage missing from cache")
	}
	want := []float32{1, 2, 3, 4}
	for i, v := range raw.Planes[0].DataFloat32() {
		if v != want[i] {
			t.Errorf("raw cache sample %d = %f, want %f", i, v, want[i])
		}
	}
}

func TestLoadRawClearsCache(t *testing.T) {
	p := smallDefaults(2, 2)
	s := NewSession()
	s.LoadFrame(constantFrame(2, 2, 100))
	s.ProcessStage(StageBlackLevel, p)

	s.LoadRaw(nil, p)
	if _, ok := s.CachedStage(StageRaw); ok {
		t.Error("cache survived LoadRaw")
	}
}

func TestProcessStageWithoutLoadUsesPlaceholder(t *testing.T) {
	p := smallDefaults(20, 20)
	s := NewSession()

	img := s.ProcessStage(StageRaw, p)
	if img.Width != 20 || img.Height != 20 {
		t.Fatalf("image is %dx%d, want 20x20", img.Width, img.Height)
	}
	// 20x20 fits in a single 100-px placeholder block.
	for i, v := range img.Planes[0].DataFloat32() {
		if v != 256 {
			t.Fatalf("sample %d = %f, want placeholder value 256", i, v)
		}
	}
}

func TestProcessStageSnapshotsParams(t *testing.T) {
	p := smallDefaults(4, 4)
	s := NewSession()
	s.LoadFrame(constantFrame(4, 4, 512))

	before := *p
	s.ProcessStage(StageColorCorrect, p)
	if *p != before {
		t.Error("ProcessStage mutated the caller's parameter snapshot")
	}
}

func TestHueShiftIsInert(t *testing.T) {
	s := NewSession()
	s.LoadFrame(constantFrame(4, 4, 512))

	pa := smallDefaults(4, 4)
	pa.HueShift = -1.0
	a := s.ProcessStage(StageColorCorrect, pa).Clone()

	pb := smallDefaults(4, 4)
	pb.HueShift = 1.0
	b := s.ProcessStage(StageColorCorrect, pb)

	for pi := 0; pi < 3; pi++ {
		if d := maxAbsDiff(a.Planes[pi].DataFloat32(), b.Planes[pi].DataFloat32()); d != 0 {
			t.Errorf("plane %d differs by %g across hue shifts", pi, d)
		}
	}
}

func TestColorMatrixFlagIsInert(t *testing.T) {
	s := NewSession()
	s.LoadFrame(constantFrame(4, 4, 512))

	pa := smallDefaults(4, 4)
	pa.ColorMatrixEnabled = false
	a := s.ProcessStage(StageColorCorrect, pa).Clone()

	pb := smallDefaults(4, 4)
	pb.ColorMatrixEnabled = true
	b := s.ProcessStage(StageColorCorrect, pb)

	for pi := 0; pi < 3; pi++ {
		if d := maxAbsDiff(a.Planes[pi].DataFloat32(), b.Planes[pi].DataFloat32()); d != 0 {
			t.Errorf("plane %d differs by %g across matrix flag", pi, d)
		}
	}
}

func TestResetStageDefaults(t *testing.T) {
	p := NewISPParams()
	p.Gamma = 3.0
	p.GammaEnabled = false
	p.Saturation = 0.2

	p.ResetStageDefaults(StageGamma)
	def := NewISPParams()
	if p.Gamma != def.Gamma || p.GammaEnabled != def.GammaEnabled {
		t.Errorf("gamma fields not reset: %+v", p)
	}
	if p.Saturation != 0.2 {
		t.Errorf("Saturation = %f, want untouched 0.2", p.Saturation)
	}
}

func TestResetStageDefaultsBlackLevel(t *testing.T) {
	p := NewISPParams()
	p.BlackLevelR = 999
	p.ExposureEV = 2.0

	p.ResetStageDefaults(StageBlackLevel)
	if p.BlackLevelR != 64 {
		t.Errorf("BlackLevelR = %d, want 64", p.BlackLevelR)
	}
	if p.ExposureEV != 2.0 {
		t.Errorf("ExposureEV = %f, want untouched 2.0", p.ExposureEV)
	}
}
