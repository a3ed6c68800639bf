//go:build js && wasm

package main

import (
	"syscall/js"

	ri "rawisp/pkg/rawisp"
)

var (
	session = ri.NewSession()
	params  = ri.NewISPParams()
)

func main() {
	js.Global().Set("ispLoadRaw", js.FuncOf(loadRaw))
	js.Global().Set("ispParseMetadata", js.FuncOf(parseMetadata))
	js.Global().Set("ispSetParams", js.FuncOf(setParams))
	js.Global().Set("ispResetStage", js.FuncOf(resetStage))
	js.Global().Set("ispProcessStage", js.FuncOf(processStage))
	js.Global().Set("ispRenderPreview", js.FuncOf(renderPreview))
	select {} // block forever
}

func loadRaw(this js.Value, args []js.Value) interface{} {
	if len(args) < 5 {
		return errorResult("usage: ispLoadRaw(bytes, width, height, bpp, packed)")
	}

	jsBytes := args[0]
	data := make([]byte, jsBytes.Get("length").Int())
	js.CopyBytesToGo(data, jsBytes)

	params.Width = args[1].Int()
	params.Height = args[2].Int()
	params.BitsPerPixel = args[3].Int()
	params.Packed = args[4].Bool()

	diag := session.LoadRaw(data, params)
	return js.ValueOf(map[string]interface{}{
		"width":       params.Width,
		"height":      params.Height,
		"placeholder": diag.Placeholder,
		"note":        diag.Note,
	})
}

func parseMetadata(this js.Value, args []js.Value) interface{} {
	if len(args) < 1 {
		return errorResult("usage: ispParseMetadata(text)")
	}

	meta := ri.ParseMetadata(args[0].String())
	meta.ApplyTo(params)

	extra := make(map[string]interface{}, len(meta.Extra))
	for k, v := range meta.Extra {
		extra[k] = v
	}
	return js.ValueOf(map[string]interface{}{
		"shotMetaRevision":  meta.ShotMetaRevision,
		"frameMetaRevision": meta.FrameMetaRevision,
		"frameMetaVersion":  meta.FrameMetaVersion,
		"cameraId":          meta.CameraID,
		"sensorId":          meta.SensorID,
		"productId":         meta.ProductID,
		"deviceState":       meta.DeviceState,
		"flashState":        meta.FlashState,
		"bitsPerPixel":      meta.BitsPerPixel,
		"packed":            meta.Packed,
		"bayerType":         meta.BayerType,
		"extra":             extra,
	})
}

// setParams copies recognized numeric and boolean fields from a JS object
// into the parameter snapshot. Missing keys leave fields untouched.
func setParams(this js.Value, args []js.Value) interface{} {
	if len(args) < 1 || args[0].Type() != js.TypeObject {
		return errorResult("usage: ispSetParams(object)")
	}
	o := args[0]

	intField := func(name string, dst *int) {
		if v := o.Get(name); v.Type() == js.TypeNumber {
			*dst = v.Int()
		}
	}
	floatField := func(name string, dst *float64) {
		if v := o.Get(name); v.Type() == js.TypeNumber {
			*dst = v.Float()
		}
	}
	boolField := func(name string, dst *bool) {
		if v := o.Get(name); v.Type() == js.TypeBoolean {
			*dst = v.Bool()
		}
	}

	intField("blackLevelR", &params.BlackLevelR)
	intField("blackLevelGr", &params.BlackLevelGr)
	intField("blackLevelGb", &params.BlackLevelGb)
	intField("blackLevelB", &params.BlackLevelB)
	floatField("edgeThreshold", &params.EdgeThreshold)
	floatField("gainR", &params.GainR)
	floatField("gainG", &params.GainG)
	floatField("gainB", &params.GainB)
	boolField("autoWhiteBalance", &params.AutoWhiteBalance)
	boolField("lensShadingEnabled", &params.LensShadingEnabled)
	floatField("lensShadingStrength", &params.LensShadingStrength)
	floatField("lensCenterX", &params.LensCenterX)
	floatField("lensCenterY", &params.LensCenterY)
	boolField("toneMapEnabled", &params.ToneMapEnabled)
	floatField("toneMapStrength", &params.ToneMapStrength)
	floatField("toneMapContrast", &params.ToneMapContrast)
	floatField("exposureEV", &params.ExposureEV)
	floatField("highlightRecovery", &params.HighlightRecovery)
	floatField("shadowRecovery", &params.ShadowRecovery)
	boolField("gammaEnabled", &params.GammaEnabled)
	floatField("gamma", &params.Gamma)
	floatField("saturation", &params.Saturation)
	floatField("hueShift", &params.HueShift)
	boolField("colorMatrixEnabled", &params.ColorMatrixEnabled)

	if v := o.Get("bayerType"); v.Type() == js.TypeNumber {
		params.Pattern = ri.BayerPatternFromCode(v.Int())
	}
	if v := o.Get("demosaicMethod"); v.Type() == js.TypeNumber {
		params.Method = ri.DemosaicMethod(v.Int())
	}

	return js.ValueOf(map[string]interface{}{"ok": true})
}

func resetStage(this js.Value, args []js.Value) interface{} {
	if len(args) < 1 {
		return errorResult("usage: ispResetStage(stageIndex)")
	}
	params.ResetStageDefaults(ri.Stage(args[0].Int()))
	return js.ValueOf(map[string]interface{}{"ok": true})
}

func processStage(this js.Value, args []js.Value) interface{} {
	if len(args) < 1 {
		return errorResult("usage: ispProcessStage(stageIndex)")
	}

	stage := ri.Stage(args[0].Int())
	img := session.ProcessStage(stage, params)

	jsPlanes := make([]interface{}, img.NumPlanes())
	for i := 0; i < img.NumPlanes(); i++ {
		minV, mean, maxV := img.PlaneStats(i)
		jsPlanes[i] = map[string]interface{}{
			"min":  minV,
			"mean": mean,
			"max":  maxV,
		}
	}
	return js.ValueOf(map[string]interface{}{
		"stage":  int(stage),
		"name":   stage.String(),
		"width":  img.Width,
		"height": img.Height,
		"planes": jsPlanes,
	})
}

func renderPreview(this js.Value, args []js.Value) interface{} {
	if len(args) < 1 {
		return errorResult("usage: ispRenderPreview(stageIndex)")
	}

	stage := ri.Stage(args[0].Int())
	img, ok := session.CachedStage(stage)
	if !ok {
		img = session.ProcessStage(stage, params)
	}

	jpegBytes, err := ri.RenderStagePreviewBytes(img, stage)
	if err != nil {
		return errorResult("render preview: " + err.Error())
	}

	uint8Array := js.Global().Get("Uint8Array").New(len(jpegBytes))
	js.CopyBytesToJS(uint8Array, jpegBytes)
	return uint8Array
}

func errorResult(msg string) interface{} {
	return js.ValueOf(map[string]interface{}{
		"error": msg,
	})
}
