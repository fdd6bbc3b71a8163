package cpu

import (
	"fmt"
	"runtime"
	"sync"
	"time"

	"github.com/wubugui/epsilon/log"
	"github.com/wubugui/epsilon/scene"
	"github.com/wubugui/epsilon/tracer"
)

// Tracer renders blocks of frame rows on the local CPU, dispatching one
// goroutine per worker and one independent sample walk per pixel. It
// implements the tracer.Tracer interface.
type Tracer struct {
	logger log.Logger

	id      string
	workers int

	frameW uint32
	frameH uint32
	accum  []float32

	kernel Kernel

	queue     chan tracer.BlockRequest
	closeChan chan struct{}
	closeOnce sync.Once

	// pending scene/camera updates applied before the next block
	updateMutex  sync.Mutex
	pendingScene *scene.Scene

	stats tracer.Stats
}

// Create a new CPU tracer. A non-positive worker count selects one worker
// per logical CPU.
func NewTracer(id string, workers int) *Tracer {
	if workers <= 0 {
		workers = runtime.NumCPU()
	}
	return &Tracer{
		logger:    log.New(id),
		id:        id,
		workers:   workers,
		queue:     make(chan tracer.BlockRequest),
		closeChan: make(chan struct{}),
	}
}

// Get tracer id.
func (tr *Tracer) Id() string {
	return tr.id
}

// Get the tracer's computation speed estimate relative to its peers. For
// CPU tracers this is simply the worker count.
func (tr *Tracer) Speed() uint32 {
	return uint32(tr.workers)
}

// Allocate tracer resources and start the block processing loop.
func (tr *Tracer) Setup(frameW, frameH uint32, accumBuffer []float32) error {
	if uint32(len(accumBuffer)) != frameW*frameH*4 {
		return fmt.Errorf("cpu: accumulation buffer size %d does not match %dx%d frame", len(accumBuffer), frameW, frameH)
	}

	tr.frameW = frameW
	tr.frameH = frameH
	tr.accum = accumBuffer

	tr.logger.Infof("using %d workers for a %dx%d frame", tr.workers, frameW, frameH)
	go tr.process()
	return nil
}

// Append a change to the tracer's update buffer. Changes are applied before
// the next enqueued block is rendered.
func (tr *Tracer) Update(updateType tracer.UpdateType, payload interface{}) error {
	switch updateType {
	case tracer.SetScene:
		sc, valid := payload.(*scene.Scene)
		if !valid {
			return fmt.Errorf("cpu: unexpected payload type %T for scene update", payload)
		}
		tr.updateMutex.Lock()
		tr.pendingScene = sc
		tr.updateMutex.Unlock()
	case tracer.UpdateCamera:
		// Camera state is read through the scene on every primary ray;
		// nothing to recompute here.
	default:
		return fmt.Errorf("cpu: unsupported update type %d", updateType)
	}
	return nil
}

// Enqueue block request.
func (tr *Tracer) Enqueue(req tracer.BlockRequest) {
	select {
	case tr.queue <- req:
	case <-tr.closeChan:
	}
}

// Retrieve last block statistics.
func (tr *Tracer) Stats() *tracer.Stats {
	return &tr.stats
}

// Shutdown and cleanup tracer.
func (tr *Tracer) Close() {
	tr.closeOnce.Do(func() {
		close(tr.closeChan)
	})
}

// Block processing loop. Runs until the tracer is closed.
func (tr *Tracer) process() {
	for {
		select {
		case <-tr.closeChan:
			return
		case req := <-tr.queue:
			start := time.Now()
			err := tr.renderBlock(&req)
			if err != nil {
				if req.ErrChan != nil {
					req.ErrChan <- err
				}
				continue
			}

			tr.stats.BlockH = req.BlockH
			tr.stats.BlockTime = time.Since(start)
			if req.DoneChan != nil {
				req.DoneChan <- req.BlockH
			}
		}
	}
}

// Render a single block, splitting its rows across the worker pool. Every
// pixel gets exactly one sample; the per-pixel lane index and the request
// seed make the sampler sequence deterministic and independent per lane.
func (tr *Tracer) renderBlock(req *tracer.BlockRequest) error {
	tr.updateMutex.Lock()
	sc := tr.pendingScene
	tr.updateMutex.Unlock()
	if sc == nil {
		return fmt.Errorf("cpu: no scene attached")
	}

	tr.kernel = Kernel{
		Nodes:         sc.BvhNodes,
		Triangles:     sc.Triangles,
		Materials:     sc.Materials,
		Camera:        sc.Camera,
		Spectrum:      sc.Spectrum,
		AmbientMedium: scene.AmbientMedium,
	}

	var wg sync.WaitGroup
	rows := make(chan uint32)

	for worker := 0; worker < tr.workers; worker++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			for y := range rows {
				for x := uint32(0); x < tr.frameW; x++ {
					lane := y*tr.frameW + x
					rng := tracer.NewSampler(lane, req.Seed+req.Pass)
					tr.kernel.TraceSample(x, y, tr.frameW, tr.frameH, rng, tr.accum)
				}
			}
		}()
	}

	for y := req.BlockY; y < req.BlockY+req.BlockH; y++ {
		rows <- y
	}
	close(rows)
	wg.Wait()

	return nil
}
