package rawisp

import "math"

// PlaneImage is a floating-point image buffer: one plane before demosaic,
// three (R, G, B) after.
type PlaneImage struct {
	Planes []Mat
	Width  int
	Height int
}

func (img *PlaneImage) NumPlanes() int { return len(img.Planes) }

func (img *PlaneImage) Clone() *PlaneImage {
	out := &PlaneImage{Width: img.Width, Height: img.Height}
	out.Planes = make([]Mat, len(img.Planes))
	for i, p := range img.Planes {
		out.Planes[i] = p.Clone()
	}
	return out
}

func (img *PlaneImage) Close() {
	for i := range img.Planes {
		img.Planes[i].Close()
	}
	img.Planes = nil
}

// Max returns the maximum sample across all planes.
func (img *PlaneImage) Max() float64 {
	maxVal := float32(math.Inf(-1))
	for _, p := range img.Planes {
		if v := matMax(p); v > maxVal {
			maxVal = v
		}
	}
	if math.IsInf(float64(maxVal), -1) {
		return 0
	}
	return float64(maxVal)
}

// PlaneStats returns min, mean and max of one plane.
func (img *PlaneImage) PlaneStats(i int) (minVal, mean, maxVal float64) {
	data := img.Planes[i].DataFloat32()
	if len(data) == 0 {
		return 0, 0, 0
	}
	minVal, maxVal = float64(data[0]), float64(data[0])
	var sum float64
	for _, v := range data {
		f := float64(v)
		sum += f
		if f < minVal {
			minVal = f
		}
		if f > maxVal {
			maxVal = f
		}
	}
	return minVal, sum / float64(len(data)), maxVal
}

// rawToImage converts a sample grid into a single-plane float image,
// keeping raw DN values (no normalization; stages compute their own maxima).
func rawToImage(f *RawFrame) *PlaneImage {
	m := NewMatWithSize(f.Height, f.Width)
	data := m.DataFloat32()
	for i, p := range f.Pixels {
		data[i] = float32(p)
	}
	return &PlaneImage{Planes: []Mat{m}, Width: f.Width, Height: f.Height}
}

// applyStage dispatches one cumulative transform. img is mutated in place
// except by demosaic, which changes the plane count.
func applyStage(stage Stage, img *PlaneImage, p *ISPParams) *PlaneImage {
	switch stage {
	case StageBlackLevel:
		applyBlackLevel(img, p)
	case StageDemosaic:
		return applyDemosaic(img, p)
	case StageWhiteBalance:
		applyWhiteBalance(img, p)
	case StageLensShading:
		applyLensShading(img, p)
	case StageToneMap:
		applyToneMap(img, p)
	case StageExposure:
		applyExposure(img, p)
	case StageGamma:
		applyGamma(img, p)
	case StageColorCorrect:
		applyColorCorrection(img, p)
	}
	return img
}

// applyBlackLevel subtracts the channel-specific black level per 2x2 Bayer
// cell, clamped at zero.
func applyBlackLevel(img *PlaneImage, p *ISPParams) {
	levels := [4]float32{
		ChanR:  float32(p.BlackLevelR),
		ChanGr: float32(p.BlackLevelGr),
		ChanGb: float32(p.BlackLevelGb),
		ChanB:  float32(p.BlackLevelB),
	}
	data := img.Planes[0].DataFloat32()
	for y := 0; y < img.Height; y++ {
		off := y * img.Width
		for x := 0; x < img.Width; x++ {
			v := data[off+x] - levels[p.Pattern.ChannelAt(y, x)]
			if v < 0 {
				v = 0
			}
			data[off+x] = v
		}
	}
}

// applyDemosaic densifies the Bayer grid into full-resolution R/G/B planes.
// Bilinear: scatter each sample into its color plane, then fill zero
// positions with the mean of non-zero values in their 3x3 neighborhood.
// Replicate: copy the single channel into three identical planes.
func applyDemosaic(img *PlaneImage, p *ISPParams) *PlaneImage {
	raw := img.Planes[0]
	out := &PlaneImage{Width: img.Width, Height: img.Height}

	if p.Method != DemosaicBilinear {
		out.Planes = []Mat{raw.Clone(), raw.Clone(), raw.Clone()}
		img.Close()
		return out
	}

	// Scatter. Both green sites land in the same plane.
	planeOf := [4]int{ChanR: 0, ChanGr: 1, ChanGb: 1, ChanB: 2}
	scattered := make([]Mat, 3)
	for i := range scattered {
		scattered[i] = NewMatWithSize(img.Height, img.Width)
		scattered[i].SetToZero()
	}
	rawData := raw.DataFloat32()
	planeData := [3][]float32{
		scattered[0].DataFloat32(),
		scattered[1].DataFloat32(),
		scattered[2].DataFloat32(),
	}
	for y := 0; y < img.Height; y++ {
		off := y * img.Width
		for x := 0; x < img.Width; x++ {
			ch := p.Pattern.ChannelAt(y, x)
			planeData[planeOf[ch]][off+x] = rawData[off+x]
		}
	}

	// Fill holes. Zeros contribute nothing to the neighborhood sum, so
	// sum/count is exactly the mean of the non-zero neighbors.
	mask := NewMatWithSize(img.Height, img.Width)
	sums := NewMat()
	counts := NewMat()
	out.Planes = make([]Mat, 3)
	for i := range scattered {
		sp := scattered[i].DataFloat32()
		md := mask.DataFloat32()
		for j := range md {
			if sp[j] != 0 {
				md[j] = 1
			} else {
				md[j] = 0
			}
		}
		boxSum3x3(scattered[i], &sums)
		boxSum3x3(mask, &counts)

		filled := scattered[i].Clone()
		fd := filled.DataFloat32()
		sd := sums.DataFloat32()
		cd := counts.DataFloat32()
		for j := range fd {
			if sp[j] == 0 && cd[j] > 0 {
				fd[j] = sd[j] / cd[j]
			}
		}
		out.Planes[i] = filled
		scattered[i].Close()
	}
	mask.Close()
	sums.Close()
	counts.Close()
	img.Close()
	return out
}

// applyWhiteBalance scales channels either by gray-world gains (per-channel
// means equalized to the overall mean) or by the manual gains.
func applyWhiteBalance(img *PlaneImage, p *ISPParams) {
	gains := [3]float64{p.GainR, p.GainG, p.GainB}
	if p.AutoWhiteBalance {
		var means [3]float64
		var overall float64
		for i, plane := range img.Planes {
			means[i] = matMean(plane)
			overall += means[i]
		}
		overall /= float64(len(img.Planes))
		for i := range gains {
			if means[i] > 0 {
				gains[i] = overall / means[i]
			} else {
				gains[i] = 1
			}
		}
	}
	for i, plane := range img.Planes {
		g := float32(gains[i])
		data := plane.DataFloat32()
		for j := range data {
			data[j] *= g
		}
	}
}

// applyLensShading multiplies each pixel by a radially increasing gain,
// 1 + strength * (d/dmax)^2, compensating vignette falloff.
func applyLensShading(img *PlaneImage, p *ISPParams) {
	if !p.LensShadingEnabled {
		return
	}
	cx := p.LensCenterX * float64(img.Width)
	cy := p.LensCenterY * float64(img.Height)
	maxDist := 0.0
	for _, corner := range [4][2]float64{
		{0, 0}, {float64(img.Width), 0}, {0, float64(img.Height)}, {float64(img.Width), float64(img.Height)},
	} {
		d := math.Hypot(corner[0]-cx, corner[1]-cy)
		if d > maxDist {
			maxDist = d
		}
	}
	if maxDist <= 0 {
		return
	}
	gains := make([]float32, img.Width*img.Height)
	for y := 0; y < img.Height; y++ {
		off := y * img.Width
		dy := float64(y) - cy
		for x := 0; x < img.Width; x++ {
			dx := float64(x) - cx
			ratio := math.Hypot(dx, dy) / maxDist
			gains[off+x] = float32(1 + p.LensShadingStrength*ratio*ratio)
		}
	}
	for _, plane := range img.Planes {
		data := plane.DataFloat32()
		for j := range data {
			data[j] *= gains[j]
		}
	}
}

// applyToneMap normalizes by the image maximum, applies contrast around
// mid-gray and an inverse-power brightness curve, then rescales and clips
// to [0, max]. Negative post-contrast values are clamped to zero before the
// power curve; a fractional power of a negative base is NaN.
func applyToneMap(img *PlaneImage, p *ISPParams) {
	if !p.ToneMapEnabled {
		return
	}
	maxVal := float32(img.Max())
	if maxVal <= 0 {
		return
	}
	contrast := float32(p.ToneMapContrast)
	invStrength := 1.0 / p.ToneMapStrength
	curved := p.ToneMapStrength != 1.0
	for _, plane := range img.Planes {
		data := plane.DataFloat32()
		for j, v := range data {
			v /= maxVal
			v = (v-0.5)*contrast + 0.5
			if v < 0 {
				v = 0
			}
			if curved {
				v = float32(math.Pow(float64(v), invStrength))
			}
			v *= maxVal
			if v > maxVal {
				v = maxVal
			}
			data[j] = v
		}
	}
}

// applyExposure multiplies by 2^EV, then compresses highlights above 80% of
// the post-EV maximum and lifts shadows below 20% of it.
func applyExposure(img *PlaneImage, p *ISPParams) {
	factor := float32(math.Exp2(p.ExposureEV))
	for _, plane := range img.Planes {
		data := plane.DataFloat32()
		for j := range data {
			data[j] *= factor
		}
	}
	if p.HighlightRecovery <= 0 && p.ShadowRecovery <= 0 {
		return
	}
	maxVal := float32(img.Max())
	if maxVal <= 0 {
		return
	}
	hi := 0.8 * maxVal
	lo := 0.2 * maxVal
	hiScale := float32(1 - 0.5*p.HighlightRecovery)
	loScale := float32(1 + p.ShadowRecovery)
	for _, plane := range img.Planes {
		data := plane.DataFloat32()
		for j, v := range data {
			if p.HighlightRecovery > 0 && v > hi {
				v = hi + (v-hi)*hiScale
			}
			if p.ShadowRecovery > 0 && v < lo {
				v *= loScale
			}
			data[j] = v
		}
	}
}

// applyGamma raises normalized samples to 1/gamma, rescaled by the maximum.
func applyGamma(img *PlaneImage, p *ISPParams) {
	if !p.GammaEnabled {
		return
	}
	maxVal := float32(img.Max())
	if maxVal <= 0 {
		return
	}
	invGamma := 1.0 / p.Gamma
	for _, plane := range img.Planes {
		data := plane.DataFloat32()
		for j, v := range data {
			data[j] = float32(math.Pow(float64(v/maxVal), invGamma)) * maxVal
		}
	}
}

// applyColorCorrection blends each pixel toward its per-pixel luma by the
// saturation factor: 1 is identity, 0 full gray, >1 oversaturates. The
// result is clipped at zero; HueShift and the matrix flag are inert here.
func applyColorCorrection(img *PlaneImage, p *ISPParams) {
	if len(img.Planes) != 3 {
		return
	}
	sat := float32(p.Saturation)
	r := img.Planes[0].DataFloat32()
	g := img.Planes[1].DataFloat32()
	b := img.Planes[2].DataFloat32()
	for j := range r {
		luma := (r[j] + g[j] + b[j]) / 3
		r[j] = luma + (r[j]-luma)*sat
		g[j] = luma + (g[j]-luma)*sat
		b[j] = luma + (b[j]-luma)*sat
		if r[j] < 0 {
			r[j] = 0
		}
		if g[j] < 0 {
			g[j] = 0
		}
		if b[j] < 0 {
			b[j] = 0
		}
	}
}
