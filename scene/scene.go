package scene

import "errors"

var (
	ErrMissingCamera    = errors.New("scene: no camera defined")
	ErrMissingMaterials = errors.New("scene: no material table defined")
)

// Scene holds the compiled, kernel-ready representation of a scene: the
// flattened BVH node array, the triangle array indexed by BVH leafs, the
// material table and the camera. All buffers are immutable while a trace
// is in flight.
type Scene struct {
	BvhNodes  []BvhNode
	Triangles []Triangle
	Materials *MaterialTable
	Camera    *Camera
	Spectrum  Spectrum
}

// Validate the scene before handing it to a tracer.
func (s *Scene) Validate() error {
	if s.Camera == nil {
		return ErrMissingCamera
	}
	if s.Materials == nil {
		return ErrMissingMaterials
	}
	return nil
}
