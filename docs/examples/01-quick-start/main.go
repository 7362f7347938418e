package main

import (
	"fmt"
	"log"

	"github.com/go-gl/mathgl/mgl32"

	"github.com/songdo3d/sdc/pkg/sdc"
)

func main() {
	// Load the chunk catalog
	catalog, err := sdc.LoadManifest("data/chunks/manifest.json")
	if err != nil {
		log.Fatal(err)
	}
	fmt.Printf("Catalog: %d chunks of %.0fm\n", catalog.Count(), catalog.ChunkSize())

	// Create a streamer over the chunk directory
	streamer := sdc.NewStreamer(catalog, sdc.NewDirStore("data/chunks"),
		sdc.DefaultStreamerOptions())
	defer streamer.Close()

	// Put the camera over the middle of the city
	camera := mgl32.Vec3{800, 120, 600}
	streamer.Update(camera)
	streamer.WaitForLoads()

	// Print what became resident
	for _, chunk := range streamer.Snapshot() {
		fmt.Printf("chunk %s: %d buildings, %d roads, %d vertices\n",
			chunk.ID, len(chunk.Buildings), len(chunk.Roads), chunk.VertexCount())
	}

	stats := streamer.Stats()
	fmt.Printf("resident=%d loads=%d failures=%d\n",
		stats.ResidentChunks, stats.Loads, stats.Failures)
}
