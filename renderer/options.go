package renderer

type Options struct {
	// Frame dims.
	FrameW uint32
	FrameH uint32

	// Number of accumulation passes. The interactive renderer treats 0 as
	// "refine until closed"; the batch renderer requires a positive value.
	SamplesPerPixel uint32

	// Exposure for tonemapping.
	Exposure float32

	// Base seed mixed into the per-lane samplers.
	Seed uint32
}
