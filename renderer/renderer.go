package renderer

import "image"

// Renderer is implemented by all frame renderers.
type Renderer interface {
	// Render the configured number of accumulation passes.
	Render() error

	// Develop the accumulated samples into a displayable image.
	Frame() *image.RGBA

	// Get render statistics.
	Stats() FrameStats

	// Shutdown renderer and any attached tracers.
	Close()
}
