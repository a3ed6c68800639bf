package rawisp

// Session owns a decoded raw frame and the per-stage output cache for one
// editing session. All calls are made from a single control thread; the
// parameter snapshot is copied at the start of each replay so in-progress
// edits cannot tear a computation.
type Session struct {
	raw   *RawFrame
	cache map[Stage]*PlaneImage
}

func NewSession() *Session {
	return &Session{cache: make(map[Stage]*PlaneImage)}
}

// LoadRaw decodes a raw byte buffer using the geometry in p, replaces the
// session's frame and clears the stage cache. Always succeeds; the
// diagnostics say whether the placeholder pattern was substituted.
func (s *Session) LoadRaw(data []byte, p *ISPParams) DecodeDiagnostics {
	frame, diag := DecodeRaw(data, p.Width, p.Height, p.BitsPerPixel, p.Packed)
	s.LoadFrame(frame)
	return diag
}

// LoadFrame adopts an already-decoded frame and clears the stage cache.
func (s *Session) LoadFrame(f *RawFrame) {
	s.raw = f
	s.ClearCache()
}

// Raw returns the current sample grid, which callers must treat as
// read-only.
func (s *Session) Raw() *RawFrame { return s.raw }

// ProcessStage replays stages 1..stage over the raw grid under a snapshot
// of p and returns the result. There is no incremental invalidation: every
// call restarts from the raw data, caching each intermediate by stage
// index for redisplay. If no frame has been loaded the placeholder
// pattern is used, so the pipeline is always computable.
func (s *Session) ProcessStage(stage Stage, p *ISPParams) *PlaneImage {
	params := *p
	if s.raw == nil {
		s.raw = PlaceholderFrame(params.Width, params.Height, params.BitsPerPixel)
	}
	if stage < StageRaw {
		stage = StageRaw
	}
	if stage > StageColorCorrect {
		stage = StageColorCorrect
	}

	img := rawToImage(s.raw)
	s.storeStage(StageRaw, img)
	for st := StageBlackLevel; st <= stage; st++ {
		img = applyStage(st, img, &params)
		s.storeStage(st, img)
	}
	return img
}

// CachedStage returns the stored output of a stage from the most recent
// replay that reached it.
func (s *Session) CachedStage(stage Stage) (*PlaneImage, bool) {
	img, ok := s.cache[stage]
	return img, ok
}

func (s *Session) ClearCache() {
	for st, img := range s.cache {
		img.Close()
		delete(s.cache, st)
	}
}

func (s *Session) storeStage(stage Stage, img *PlaneImage) {
	if old, ok := s.cache[stage]; ok {
		old.Close()
	}
	s.cache[stage] = img.Clone()
}
