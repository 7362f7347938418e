package sdc

// StreamerOptions configures streaming behavior.
type StreamerOptions struct {
	// LoadRadius is the distance in meters within which chunks are loaded.
	// Default: 1000.
	LoadRadius float32

	// UnloadRadius is the distance in meters beyond which resident chunks
	// are evicted. Must be >= LoadRadius; the gap is hysteresis that keeps a
	// camera hovering on a boundary from thrashing loads. Default: 1500.
	UnloadRadius float32

	// MaxLoadedChunks caps how many chunks may be resident or loading at
	// once. When the cap is reached, chunks farther from the camera are not
	// dispatched until something is evicted. Default: 16.
	MaxLoadedChunks int

	// ProbeHeight is the extrusion height in meters used when testing chunk
	// ground rectangles against the view frustum. Should exceed the tallest
	// building. Default: 200.
	ProbeHeight float32

	// Parser decodes chunk buffers. Default: NewParser().
	Parser Parser

	// Logger receives streaming diagnostics. Default: NopLogger().
	Logger Logger
}

// DefaultStreamerOptions returns streaming options with defaults.
func DefaultStreamerOptions() StreamerOptions {
	return StreamerOptions{
		LoadRadius:      1000,
		UnloadRadius:    1500,
		MaxLoadedChunks: 16,
		ProbeHeight:     200,
	}
}

func (o *StreamerOptions) fillDefaults() {
	def := DefaultStreamerOptions()
	if o.LoadRadius <= 0 {
		o.LoadRadius = def.LoadRadius
	}
	if o.UnloadRadius <= 0 {
		o.UnloadRadius = def.UnloadRadius
	}
	if o.UnloadRadius < o.LoadRadius {
		o.UnloadRadius = o.LoadRadius
	}
	if o.MaxLoadedChunks <= 0 {
		o.MaxLoadedChunks = def.MaxLoadedChunks
	}
	if o.ProbeHeight <= 0 {
		o.ProbeHeight = def.ProbeHeight
	}
	if o.Parser == nil {
		o.Parser = NewParser()
	}
	if o.Logger == nil {
		o.Logger = NopLogger()
	}
}
