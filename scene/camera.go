package scene

import (
	"github.com/chewxy/math32"

	"github.com/wubugui/epsilon/types"
)

type CameraDirection uint8

const (
	Forward CameraDirection = iota
	Backward
	Left
	Right
)

// Stores the ray directions at the four corners of the camera frustum
// (top-left, top-right, bottom-left, bottom-right). Per-pixel rays are
// generated via bilinear interpolation of the corner rays.
type Frustum [4]types.Vec3

// The camera type controls the scene camera and generates primary rays.
type Camera struct {
	Position types.Vec3
	LookAt   types.Vec3
	Up       types.Vec3

	// Camera FOV in degrees.
	FOV float32

	// Adjust the frustum so that Y is inverted.
	InvertY bool

	Frustum Frustum

	aspect float32
}

func NewCamera(fov float32) *Camera {
	return &Camera{
		Position: types.Vec3{0, 0, 0},
		LookAt:   types.Vec3{0, 0, -1},
		Up:       types.Vec3{0, 1, 0},
		FOV:      fov,
		aspect:   1,
	}
}

// Setup the camera frustum for the given frame aspect ratio.
func (c *Camera) SetupProjection(aspect float32) {
	c.aspect = aspect
	c.Update()
}

// Recalculate the frustum corner rays from the current camera state.
func (c *Camera) Update() {
	fwd := c.LookAt.Sub(c.Position).Normalize()
	right := fwd.Cross(c.Up).Normalize()
	up := right.Cross(fwd)

	halfH := math32.Tan(c.FOV * 0.5 * math32.Pi / 180.0)
	halfW := halfH * c.aspect

	if c.InvertY {
		up = up.Mul(-1)
	}

	c.Frustum[0] = fwd.Sub(right.Mul(halfW)).Add(up.Mul(halfH))
	c.Frustum[1] = fwd.Add(right.Mul(halfW)).Add(up.Mul(halfH))
	c.Frustum[2] = fwd.Sub(right.Mul(halfW)).Sub(up.Mul(halfH))
	c.Frustum[3] = fwd.Add(right.Mul(halfW)).Sub(up.Mul(halfH))
}

// Generate a primary ray for a normalized pixel coordinate in [0,1)^2 by
// bilinearly blending the frustum corner rays.
func (c *Camera) CastRay(nx, ny float32) (origin, dir types.Vec3) {
	l := types.LerpVec3(c.Frustum[0], c.Frustum[2], ny)
	r := types.LerpVec3(c.Frustum[1], c.Frustum[3], ny)
	return c.Position, types.LerpVec3(l, r, nx).Normalize()
}

// Move the camera position towards the given direction keeping the view
// orientation fixed.
func (c *Camera) Move(dir CameraDirection, amount float32) {
	fwd := c.LookAt.Sub(c.Position).Normalize()
	right := fwd.Cross(c.Up).Normalize()

	var delta types.Vec3
	switch dir {
	case Forward:
		delta = fwd.Mul(amount)
	case Backward:
		delta = fwd.Mul(-amount)
	case Left:
		delta = right.Mul(-amount)
	case Right:
		delta = right.Mul(amount)
	}

	c.Position = c.Position.Add(delta)
	c.LookAt = c.LookAt.Add(delta)
	c.Update()
}

// Rotate the view direction by the given yaw/pitch deltas (radians).
func (c *Camera) Look(yaw, pitch float32) {
	fwd := c.LookAt.Sub(c.Position).Normalize()
	right := fwd.Cross(c.Up).Normalize()

	fwd = types.Rotate(fwd, c.Up.Normalize(), yaw)
	fwd = types.Rotate(fwd, right, pitch).Normalize()

	c.LookAt = c.Position.Add(fwd)
	c.Update()
}
