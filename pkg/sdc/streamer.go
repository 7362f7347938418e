package sdc

import (
	"sort"
	"sync"

	"github.com/go-gl/mathgl/mgl32"
)

// ChunkState is where a chunk stands in the streaming lifecycle.
type ChunkState uint8

const (
	// StateAbsent means the chunk holds no resources and no load is pending.
	StateAbsent ChunkState = iota

	// StateLoading means a background load is in flight.
	StateLoading

	// StateResident means the chunk is decoded and available in snapshots.
	StateResident
)

// String returns "absent", "loading" or "resident".
func (s ChunkState) String() string {
	switch s {
	case StateLoading:
		return "loading"
	case StateResident:
		return "resident"
	default:
		return "absent"
	}
}

// Streamer keeps the set of resident chunks in sync with a moving camera.
//
// Each Update evicts resident chunks beyond the unload radius, then
// dispatches background loads for absent chunks within the load radius,
// nearest first, while the combined resident and in-flight count stays under
// the budget. The gap between the two radii is hysteresis: a camera sitting
// on a chunk boundary never alternates load and evict for the same chunk.
//
// Loads that finish after their chunk left the load radius still install; the
// next Update evicts them through the ordinary distance check. Failed loads
// return the chunk to absent and it is retried while it stays in range.
//
// All methods are safe for concurrent use.
//
// Example:
//
//	streamer := sdc.NewStreamer(catalog, sdc.NewDirStore("data/chunks"),
//	    sdc.DefaultStreamerOptions())
//	defer streamer.Close()
//
//	for frame := range frames {
//	    streamer.Update(frame.CameraPosition)
//	    frustum := sdc.ExtractFrustum(frame.Projection.Mul4(frame.View))
//	    for _, chunk := range streamer.VisibleSnapshot(frustum) {
//	        draw(chunk)
//	    }
//	}
type Streamer struct {
	catalog *Catalog
	store   ChunkStore
	opts    StreamerOptions

	mu        sync.Mutex
	resident  map[ChunkID]*Chunk
	loading   map[ChunkID]struct{}
	listeners []LoadListener
	closed    bool

	loads     int64
	failures  int64
	evictions int64
	bytesRead int64

	wg sync.WaitGroup
}

// NewStreamer creates a streamer over a catalog and a chunk store.
// Zero-value option fields fall back to defaults.
func NewStreamer(catalog *Catalog, store ChunkStore, opts StreamerOptions) *Streamer {
	opts.fillDefaults()
	return &Streamer{
		catalog:  catalog,
		store:    store,
		opts:     opts,
		resident: make(map[ChunkID]*Chunk),
		loading:  make(map[ChunkID]struct{}),
	}
}

// AddListener registers a lifecycle listener. Listeners added after chunks
// are already resident only see transitions from that point on.
func (s *Streamer) AddListener(l LoadListener) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.listeners = append(s.listeners, l)
}

// Update reconciles residency against a camera position. Evictions happen
// before new loads are dispatched, so the freed budget is available to the
// same update.
func (s *Streamer) Update(camera mgl32.Vec3) {
	camX, camZ := camera.X(), camera.Z()

	s.mu.Lock()
	if s.closed {
		s.mu.Unlock()
		return
	}

	var evicted []ChunkID
	for id := range s.resident {
		entry, ok := s.catalog.Entry(id)
		if ok && entry.Bounds.DistanceTo(camX, camZ) <= s.opts.UnloadRadius {
			continue
		}
		delete(s.resident, id)
		s.evictions++
		evicted = append(evicted, id)
	}

	candidates := s.catalog.QueryRadius(camX, camZ, s.opts.LoadRadius)
	sort.Slice(candidates, func(i, j int) bool {
		return candidates[i].Bounds.DistanceTo(camX, camZ) < candidates[j].Bounds.DistanceTo(camX, camZ)
	})

	var dispatched []Entry
	for _, entry := range candidates {
		if len(s.resident)+len(s.loading) >= s.opts.MaxLoadedChunks {
			break
		}
		if _, ok := s.resident[entry.ID]; ok {
			continue
		}
		if _, ok := s.loading[entry.ID]; ok {
			continue
		}
		s.loading[entry.ID] = struct{}{}
		dispatched = append(dispatched, entry)
	}

	listeners := s.snapshotListenersLocked()
	s.mu.Unlock()

	for _, id := range evicted {
		s.opts.Logger.Debugf("evict chunk %s", id)
		for _, l := range listeners {
			l.ChunkUnloaded(id)
		}
	}

	for _, entry := range dispatched {
		s.wg.Add(1)
		go s.load(entry)
	}
}

// load runs on its own goroutine: read, decode, install.
func (s *Streamer) load(entry Entry) {
	defer s.wg.Done()

	data, err := s.store.ReadChunk(entry)
	var c *Chunk
	if err == nil {
		c, err = s.opts.Parser.Parse(entry.ID, data)
	} else {
		err = &IOError{Chunk: entry.ID, Path: entry.File, Err: err}
	}

	s.mu.Lock()
	delete(s.loading, entry.ID)
	if s.closed {
		s.mu.Unlock()
		return
	}
	if err == nil {
		s.resident[entry.ID] = c
		s.loads++
		s.bytesRead += int64(len(data))
	} else {
		s.failures++
	}
	listeners := s.snapshotListenersLocked()
	s.mu.Unlock()

	if err != nil {
		s.opts.Logger.Warnf("load chunk %s failed: %v", entry.ID, err)
		for _, l := range listeners {
			l.ChunkFailed(entry.ID, err)
		}
		return
	}

	for _, w := range c.Warnings {
		s.opts.Logger.Warnf("chunk %s: %v", entry.ID, w)
	}
	s.opts.Logger.Debugf("chunk %s resident: %d buildings, %d roads",
		entry.ID, len(c.Buildings), len(c.Roads))
	for _, l := range listeners {
		l.ChunkLoaded(c)
	}
}

func (s *Streamer) snapshotListenersLocked() []LoadListener {
	if len(s.listeners) == 0 {
		return nil
	}
	out := make([]LoadListener, len(s.listeners))
	copy(out, s.listeners)
	return out
}

// State returns a chunk's current lifecycle state.
func (s *Streamer) State(id ChunkID) ChunkState {
	s.mu.Lock()
	defer s.mu.Unlock()
	if _, ok := s.resident[id]; ok {
		return StateResident
	}
	if _, ok := s.loading[id]; ok {
		return StateLoading
	}
	return StateAbsent
}

// Snapshot returns the resident chunks at this moment. The slice is owned by
// the caller; chunks are immutable after decoding, so entries stay valid even
// after later evictions.
func (s *Streamer) Snapshot() []*Chunk {
	s.mu.Lock()
	defer s.mu.Unlock()
	out := make([]*Chunk, 0, len(s.resident))
	for _, c := range s.resident {
		out = append(out, c)
	}
	return out
}

// VisibleSnapshot returns resident chunks whose ground bounds intersect the
// frustum, the per-frame draw list.
func (s *Streamer) VisibleSnapshot(f Frustum) []*Chunk {
	s.mu.Lock()
	defer s.mu.Unlock()
	out := make([]*Chunk, 0, len(s.resident))
	for id, c := range s.resident {
		entry, ok := s.catalog.Entry(id)
		if !ok {
			continue
		}
		if f.IntersectsBounds(entry.Bounds, s.opts.ProbeHeight) {
			out = append(out, c)
		}
	}
	return out
}

// HitTest unprojects a screen position and tests it against all resident
// chunks.
func (s *Streamer) HitTest(screen ScreenRay, opts HitTestOptions) (HitResult, bool) {
	ray, ok := CreateRay(screen)
	if !ok {
		return HitResult{}, false
	}
	return PerformHitTest(ray, s.Snapshot(), opts)
}

// WaitForLoads blocks until every load dispatched so far has finished.
// Intended for tests and for deterministic shutdown.
func (s *Streamer) WaitForLoads() {
	s.wg.Wait()
}

// Close evicts everything and stops further dispatches. In-flight loads are
// drained; their results are discarded.
func (s *Streamer) Close() {
	s.mu.Lock()
	if s.closed {
		s.mu.Unlock()
		return
	}
	s.closed = true
	ids := make([]ChunkID, 0, len(s.resident))
	for id := range s.resident {
		ids = append(ids, id)
	}
	s.resident = make(map[ChunkID]*Chunk)
	listeners := s.snapshotListenersLocked()
	s.mu.Unlock()

	for _, id := range ids {
		for _, l := range listeners {
			l.ChunkUnloaded(id)
		}
	}
	s.wg.Wait()
}

// Stats returns streaming counters.
func (s *Streamer) Stats() StreamerStats {
	s.mu.Lock()
	defer s.mu.Unlock()
	return StreamerStats{
		CatalogChunks:  s.catalog.Count(),
		ResidentChunks: len(s.resident),
		LoadingChunks:  len(s.loading),
		Loads:          s.loads,
		Failures:       s.failures,
		Evictions:      s.evictions,
		BytesRead:      s.bytesRead,
	}
}

// StreamerStats holds streaming counters.
type StreamerStats struct {
	CatalogChunks  int   // chunks in the catalog
	ResidentChunks int   // chunks currently resident
	LoadingChunks  int   // loads in flight
	Loads          int64 // successful loads since creation
	Failures       int64 // failed loads since creation
	Evictions      int64 // evictions since creation
	BytesRead      int64 // chunk file bytes read by successful loads
}
