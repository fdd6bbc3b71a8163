package cmd

import (
	"runtime"

	"github.com/urfave/cli"

	"github.com/wubugui/epsilon/renderer"
)

// Render a continuously refining view of the scene. Keyboard and mouse
// events move the camera and restart the accumulation.
func RenderInteractive(ctx *cli.Context) error {
	setupLogging(ctx)

	// The opengl context is bound to the main thread
	runtime.LockOSThread()

	opts := renderer.Options{
		FrameW:   uint32(ctx.Int("width")),
		FrameH:   uint32(ctx.Int("height")),
		Exposure: float32(ctx.Float64("exposure")),
		Seed:     uint32(ctx.Int("seed")),
	}

	sc, err := loadScene(ctx)
	if err != nil {
		return err
	}

	pool := tracerPool(ctx)
	r, err := renderer.NewInteractive(sc, scheduler(len(pool)), pool, opts)
	if err != nil {
		return err
	}
	defer r.Close()

	return r.Render()
}
