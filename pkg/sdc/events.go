package sdc

// LoadListener receives streaming lifecycle events.
//
// Callbacks fire outside the streamer's lock, on the goroutine that triggered
// the transition: ChunkUnloaded on the Update caller, ChunkLoaded and
// ChunkFailed on the background load goroutine. Callbacks must not block for
// long and may call back into the streamer.
type LoadListener interface {
	// ChunkLoaded fires when a chunk finishes loading and becomes resident.
	ChunkLoaded(c *Chunk)

	// ChunkUnloaded fires when a resident chunk is evicted.
	ChunkUnloaded(id ChunkID)

	// ChunkFailed fires when a load fails. The chunk returns to the absent
	// state and will be retried on a later update while it stays in range.
	ChunkFailed(id ChunkID, err error)
}

// LoadListenerFuncs adapts plain functions to the LoadListener interface.
// Nil fields are skipped.
type LoadListenerFuncs struct {
	Loaded   func(c *Chunk)
	Unloaded func(id ChunkID)
	Failed   func(id ChunkID, err error)
}

func (l LoadListenerFuncs) ChunkLoaded(c *Chunk) {
	if l.Loaded != nil {
		l.Loaded(c)
	}
}

func (l LoadListenerFuncs) ChunkUnloaded(id ChunkID) {
	if l.Unloaded != nil {
		l.Unloaded(id)
	}
}

func (l LoadListenerFuncs) ChunkFailed(id ChunkID, err error) {
	if l.Failed != nil {
		l.Failed(id, err)
	}
}
