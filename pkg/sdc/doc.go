// Package sdc streams Songdo city chunks for real-time 3D rendering.
//
// The package reads the SDC binary chunk format produced by the preprocessing
// pipeline: a manifest.json catalog describing a square grid of chunks, and
// one .sdc file per chunk carrying baked building and road meshes. It provides
// everything between the files on disk and a renderer's draw list:
//
//   - Catalog: manifest loading and R-tree spatial queries over chunk entries
//   - Parser: binary chunk decoding with graceful truncation handling
//   - Streamer: distance-based chunk residency with a load budget and
//     asynchronous loading
//   - Frustum and Ray: camera-space geometry queries for visibility culling
//     and picking
//   - PerformHitTest: tap-to-identify against loaded building and road bounds
//
// # Quick start
//
//	catalog, err := sdc.LoadManifest("data/chunks/manifest.json")
//	if err != nil {
//	    log.Fatal(err)
//	}
//
//	streamer := sdc.NewStreamer(catalog, sdc.NewDirStore("data/chunks"),
//	    sdc.DefaultStreamerOptions())
//
//	// Each frame: tell the streamer where the camera is.
//	streamer.Update(cameraPosition)
//
//	// Each frame: collect resident chunks inside the view frustum.
//	frustum := sdc.ExtractFrustum(projection.Mul4(view))
//	for _, chunk := range streamer.VisibleSnapshot(frustum) {
//	    render(chunk)
//	}
//
// # Coordinate system
//
// All chunk geometry lives in a local meters frame: X east, Y up, Z south of a
// fixed geographic origin carried by the manifest. Chunk grid coordinates map
// to this frame through the chunk size (chunkX*size .. (chunkX+1)*size on X,
// likewise Z). GeoOrigin converts between WGS84 and the local frame.
//
// # Concurrency
//
// A Streamer is safe for concurrent use. Update, Snapshot, HitTest and Stats
// may be called from any goroutine; chunk loads run on background goroutines
// and publish their results through the streamer's internal state. Snapshots
// are stable copies: mutating streamer state afterwards never changes a
// snapshot already handed out.
package sdc
