package main

import (
	"fmt"
	"log"
	"math"

	"github.com/go-gl/mathgl/mgl32"

	"github.com/songdo3d/sdc/pkg/sdc"
)

// reversedPerspective matches a renderer that clears depth to zero: near
// plane at NDC z=1, far plane at z=0.
func reversedPerspective(fovy, aspect, near, far float32) mgl32.Mat4 {
	f := 1 / float32(math.Tan(float64(fovy)/2))
	var m mgl32.Mat4
	m[0] = f / aspect
	m[5] = f
	m[10] = near / (far - near)
	m[11] = -1
	m[14] = near * far / (far - near)
	return m
}

func main() {
	catalog, err := sdc.LoadManifest("data/chunks/manifest.json")
	if err != nil {
		log.Fatal(err)
	}

	streamer := sdc.NewStreamer(catalog, sdc.NewDirStore("data/chunks"),
		sdc.DefaultStreamerOptions())
	defer streamer.Close()

	// Camera hovering over the city looking north
	eye := mgl32.Vec3{800, 250, 600}
	view := mgl32.LookAtV(eye, mgl32.Vec3{800, 0, 100}, mgl32.Vec3{0, 1, 0})
	proj := reversedPerspective(mgl32.DegToRad(60), 16.0/9, 0.1, 5000)

	streamer.Update(eye)
	streamer.WaitForLoads()

	// Cull against the view frustum the way a render loop would
	frustum := sdc.ExtractFrustum(proj.Mul4(view))
	visible := streamer.VisibleSnapshot(frustum)
	fmt.Printf("%d of %d resident chunks in view\n",
		len(visible), streamer.Stats().ResidentChunks)

	// Simulate a tap in the middle of a 1920x1080 screen
	hit, ok := streamer.HitTest(sdc.ScreenRay{
		X: 960, Y: 540, Width: 1920, Height: 1080, Scale: 1,
		View: view, Proj: proj,
	}, sdc.HitTestOptions{})
	if !ok {
		fmt.Println("tap hit nothing")
		return
	}

	switch hit.Kind {
	case sdc.HitBuilding:
		fmt.Printf("tapped %s in chunk %s: %.0fm tall, %.0fm away\n",
			hit.Name, hit.Chunk, hit.Height, hit.Distance)
	case sdc.HitRoad:
		fmt.Printf("tapped %s in chunk %s: %d lanes, %.1fm wide\n",
			hit.Name, hit.Chunk, hit.Lanes, hit.Width)
	}
}
