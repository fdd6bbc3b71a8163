package tracer

import "time"

type UpdateType uint8

const (
	// Attach a compiled scene (payload: *scene.Scene).
	SetScene UpdateType = iota

	// Recalculate camera-derived state after a camera move.
	UpdateCamera
)

// A unit of work that is processed by a tracer. One block covers a
// contiguous range of frame rows; every pixel in the block receives exactly
// one sample per pass.
type BlockRequest struct {
	// Block start row and height.
	BlockY uint32
	BlockH uint32

	// The current accumulation pass.
	Pass uint32

	// A seed value for the per-lane samplers.
	Seed uint32

	// A channel to signal on block completion with the number of rendered rows.
	DoneChan chan<- uint32

	// A channel to signal if an error occurs.
	ErrChan chan<- error
}

// Tracer statistics.
type Stats struct {
	// The rendered block height.
	BlockH uint32

	// The time for rendering this block.
	BlockTime time.Duration
}

// Tracer is implemented by all tracing backends.
type Tracer interface {
	// Get tracer id.
	Id() string

	// Get the tracer's computation speed estimate relative to its peers.
	Speed() uint32

	// Allocate tracer resources for the given frame dimensions. The
	// tracer adds sample contributions into accumBuffer; it never clears
	// or resizes it.
	Setup(frameW, frameH uint32, accumBuffer []float32) error

	// Append a change to the tracer's update buffer.
	Update(UpdateType, interface{}) error

	// Enqueue a block request. Completion is signaled via the request's
	// channels.
	Enqueue(BlockRequest)

	// Retrieve last block statistics.
	Stats() *Stats

	// Shutdown and cleanup tracer.
	Close()
}
