package cmd

import (
	"bytes"
	"errors"
	"fmt"
	"time"

	"github.com/olekukonko/tablewriter"
	"github.com/urfave/cli"

	"github.com/wubugui/epsilon/renderer"
	"github.com/wubugui/epsilon/scene"
	"github.com/wubugui/epsilon/scene/reader"
	"github.com/wubugui/epsilon/tracer"
	"github.com/wubugui/epsilon/tracer/cpu"
)

// Render a still frame.
func RenderFrame(ctx *cli.Context) error {
	setupLogging(ctx)

	opts := renderer.Options{
		FrameW:          uint32(ctx.Int("width")),
		FrameH:          uint32(ctx.Int("height")),
		SamplesPerPixel: uint32(ctx.Int("spp")),
		Exposure:        float32(ctx.Float64("exposure")),
		Seed:            uint32(ctx.Int("seed")),
	}

	sc, err := loadScene(ctx)
	if err != nil {
		return err
	}

	pool := tracerPool(ctx)
	r, err := renderer.NewDefault(sc, scheduler(len(pool)), pool, opts)
	if err != nil {
		return err
	}
	defer r.Close()

	logger.Noticef("rendering %dx%d frame at %d samples per pixel", opts.FrameW, opts.FrameH, opts.SamplesPerPixel)
	start := time.Now()
	if err = r.Render(); err != nil {
		return err
	}
	logger.Noticef("rendered frame in %d ms", time.Since(start).Nanoseconds()/1e6)

	displayFrameStats(r.Stats())

	imgFile := ctx.String("out")
	if err = renderer.SavePNG(r.Frame(), imgFile); err != nil {
		return err
	}
	logger.Noticef("wrote frame to %s", imgFile)

	return nil
}

// Load the scene file named by the first cli argument.
func loadScene(ctx *cli.Context) (*scene.Scene, error) {
	if ctx.NArg() != 1 {
		return nil, errors.New("missing scene file argument")
	}
	return reader.ReadScene(ctx.Args().First())
}

// Assemble the cpu tracer pool. One tracer per requested instance; worker
// counts default to the available cores.
func tracerPool(ctx *cli.Context) []tracer.Tracer {
	numTracers := ctx.Int("num-tracers")
	if numTracers < 1 {
		numTracers = 1
	}

	pool := make([]tracer.Tracer, numTracers)
	for i := range pool {
		pool[i] = cpu.NewTracer(fmt.Sprintf("cpu-%d", i), ctx.Int("workers"))
	}
	return pool
}

// A single-tracer pool needs no render-time feedback.
func scheduler(poolSize int) tracer.BlockScheduler {
	if poolSize == 1 {
		return tracer.NaiveScheduler()
	}
	return tracer.PerfectScheduler()
}

func displayFrameStats(stats renderer.FrameStats) {
	var buf bytes.Buffer
	table := tablewriter.NewWriter(&buf)
	table.SetAutoFormatHeaders(false)
	table.SetAutoWrapText(false)
	table.SetHeader([]string{"Tracer", "Block height", "% of frame", "Render time"})
	for _, stat := range stats.Tracers {
		table.Append([]string{
			stat.Id,
			fmt.Sprintf("%d", stat.BlockH),
			fmt.Sprintf("%02.1f %%", stat.FramePercent),
			stat.RenderTime.String(),
		})
	}
	table.SetFooter([]string{"", "", "TOTAL", stats.RenderTime.String()})

	table.Render()
	logger.Noticef("frame statistics\n%s", buf.String())
}
