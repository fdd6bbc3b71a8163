package renderer

import (
	"image"
	"sync"
	"time"

	"github.com/wubugui/epsilon/log"
	"github.com/wubugui/epsilon/scene"
	"github.com/wubugui/epsilon/tracer"
)

var logger = log.New("renderer")

// The default renderer drives a pool of tracers through a block scheduler,
// accumulating one sample per pixel per pass into a shared buffer.
type defaultRenderer struct {
	options Options

	sc        *scene.Scene
	scheduler tracer.BlockScheduler
	tracers   []tracer.Tracer

	// Accumulation buffer, 4 floats per pixel (XYZ + radiance weight).
	// Tracers add into disjoint row ranges of this buffer.
	accumBuffer      []float32
	blockAssignments []uint32
	completedPasses  uint32

	doneChan  chan uint32
	errChan   chan error
	closeChan chan struct{}
	closeOnce sync.Once

	stats FrameStats
}

// Create a new batch renderer using the specified scheduler and tracer pool.
func NewDefault(sc *scene.Scene, scheduler tracer.BlockScheduler, tracers []tracer.Tracer, opts Options) (Renderer, error) {
	if len(tracers) == 0 {
		return nil, ErrNoTracers
	}
	if sc == nil {
		return nil, ErrSceneNotDefined
	}
	if sc.Camera == nil {
		return nil, ErrCameraNotDefined
	}
	if opts.Exposure == 0 {
		opts.Exposure = 1.0
	}

	r := &defaultRenderer{
		options:     opts,
		sc:          sc,
		scheduler:   scheduler,
		tracers:     tracers,
		accumBuffer: make([]float32, opts.FrameW*opts.FrameH*4),
		doneChan:    make(chan uint32, len(tracers)),
		errChan:     make(chan error, len(tracers)),
		closeChan:   make(chan struct{}),
	}

	sc.Camera.SetupProjection(float32(opts.FrameW) / float32(opts.FrameH))

	logger.Noticef("setting up %d tracer(s) for a %dx%d frame", len(tracers), opts.FrameW, opts.FrameH)
	for _, tr := range tracers {
		if err := tr.Setup(opts.FrameW, opts.FrameH, r.accumBuffer); err != nil {
			r.Close()
			return nil, err
		}
		if err := tr.Update(tracer.SetScene, sc); err != nil {
			r.Close()
			return nil, err
		}
	}

	return r, nil
}

// Render the configured number of passes sequentially. Each pass adds one
// sample per pixel.
func (r *defaultRenderer) Render() error {
	if r.options.SamplesPerPixel == 0 {
		return ErrNoSamples
	}

	for pass := uint32(0); pass < r.options.SamplesPerPixel; pass++ {
		if err := r.renderPass(pass); err != nil {
			return err
		}
	}
	return nil
}

// Schedule one accumulation pass across the tracer pool and block until all
// assigned rows are rendered.
func (r *defaultRenderer) renderPass(pass uint32) error {
	start := time.Now()
	r.blockAssignments = r.scheduler.Schedule(r.tracers, r.options.FrameH)

	var blockY uint32
	var pending int
	for idx, tr := range r.tracers {
		blockH := r.blockAssignments[idx]
		if blockH == 0 {
			continue
		}
		tr.Enqueue(tracer.BlockRequest{
			BlockY:   blockY,
			BlockH:   blockH,
			Pass:     pass,
			Seed:     r.options.Seed,
			DoneChan: r.doneChan,
			ErrChan:  r.errChan,
		})
		blockY += blockH
		pending++
	}

	for pending > 0 {
		select {
		case <-r.doneChan:
			pending--
		case err := <-r.errChan:
			return err
		case <-r.closeChan:
			return ErrInterrupted
		}
	}

	r.completedPasses++
	r.collectStats(time.Since(start))
	return nil
}

func (r *defaultRenderer) collectStats(renderTime time.Duration) {
	r.stats.RenderTime = renderTime
	r.stats.Passes = r.completedPasses
	r.stats.Tracers = r.stats.Tracers[:0]
	for idx, tr := range r.tracers {
		st := tr.Stats()
		r.stats.Tracers = append(r.stats.Tracers, TracerStat{
			Id:           tr.Id(),
			BlockH:       r.blockAssignments[idx],
			FramePercent: float32(r.blockAssignments[idx]) * 100.0 / float32(r.options.FrameH),
			RenderTime:   st.BlockTime,
		})
	}
}

func (r *defaultRenderer) Stats() FrameStats {
	return r.stats
}

func (r *defaultRenderer) Frame() *image.RGBA {
	return developFrame(r.accumBuffer, r.options.FrameW, r.options.FrameH, r.completedPasses, r.options.Exposure)
}

// Zero the accumulation buffer and restart pass counting. Used after camera
// moves invalidate the accumulated estimate.
func (r *defaultRenderer) resetAccumulator() {
	for i := range r.accumBuffer {
		r.accumBuffer[i] = 0
	}
	r.completedPasses = 0
}

// Close interrupts any in-flight pass and shuts the tracer pool down.
func (r *defaultRenderer) Close() {
	r.closeOnce.Do(func() {
		close(r.closeChan)
	})
	for _, tr := range r.tracers {
		tr.Close()
	}
}
