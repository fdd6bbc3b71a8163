package cpu

import (
	"github.com/chewxy/math32"

	"github.com/wubugui/epsilon/scene"
	"github.com/wubugui/epsilon/tracer"
	"github.com/wubugui/epsilon/types"
)

// Distance by which ray origins are pushed off a surface along its normal
// after an interaction, to avoid immediate self-intersection.
const surfaceBias float32 = 1e-4

// MaterialModel provides the absorption, scattering, emission and
// reflectance/transmittance lookups the integrator consumes. Directions are
// exchanged in the local frame of the interaction; implementations signal
// transmission through the sign of the returned direction's z component.
type MaterialModel interface {
	// Absorption coefficient of a medium; 0 marks a non-participating
	// medium and maps to an infinite free-flight distance.
	AbsorptionCoeff(medium uint32, wavelength float32) float32

	// Sample an in-medium scattering event. Returns the new direction in
	// the local frame built around the incident direction, plus the
	// weight factor applied to the path.
	ScatterVolume(medium uint32, wavelength float32, rng tracer.Sampler) (types.Vec3, float32)

	// Emitted radiance of a surface material towards the local incoming
	// direction. A positive value terminates the walk.
	Emission(material uint32, wavelength float32, in types.Vec3, rng tracer.Sampler) float32

	// Sample the interface between two media. Returns the outgoing local
	// direction and the weight factor applied to the path.
	Transfer(from, to uint32, wavelength float32, in types.Vec3, rng tracer.Sampler) (types.Vec3, float32)
}

// CameraModel generates primary rays for normalized pixel coordinates.
type CameraModel interface {
	CastRay(nx, ny float32) (origin, dir types.Vec3)
}

// SpectralLookup converts a normalized wavelength to a tristimulus triple.
type SpectralLookup interface {
	Tristimulus(wnorm float32) types.Vec3
}

// Kernel holds the read-only state shared by all work items of a dispatch:
// the flattened BVH, the triangle list and the external collaborator
// interfaces. It carries no per-sample state and is safe for concurrent use.
type Kernel struct {
	Nodes     []scene.BvhNode
	Triangles []scene.Triangle
	Materials MaterialModel
	Camera    CameraModel
	Spectrum  SpectralLookup

	// Medium identifier every path starts in.
	AmbientMedium uint32
}

// TraceSample runs one full random walk for the given pixel and adds its
// contribution into the accumulation buffer (4 floats per pixel: XYZ plus
// the radiance weight). Each work item owns its sampler exclusively; the
// only shared mutable state is the accumulator slot addressed by the pixel,
// which no other lane of the same dispatch writes.
func (k *Kernel) TraceSample(x, y, frameW, frameH uint32, rng tracer.Sampler, accum []float32) {
	// Jittered pixel coordinate for antialiasing
	nx := (float32(x) + rng.Float32()) / float32(frameW)
	ny := (float32(y) + rng.Float32()) / float32(frameH)
	origin, dir := k.Camera.CastRay(nx, ny)

	// One wavelength per sample, drawn uniformly
	wnorm := rng.Float32()
	wavelength := scene.WavelengthMin + wnorm*(scene.WavelengthMax-scene.WavelengthMin)

	var media mediumStack
	media.reset(k.AmbientMedium)

	weight := float32(1)
	radiance := float32(0)

	for {
		hit, ok := intersectScene(k.Nodes, k.Triangles, origin, dir)
		if !ok {
			// Escaped ray: a defined terminal state with zero radiance
			break
		}

		coeff := k.Materials.AbsorptionCoeff(media.peek(), wavelength)
		flight := math32.Inf(1)
		if coeff > 0 {
			flight = -math32.Log(1-rng.Float32()) / coeff
		}

		if flight < hit.Distance {
			// In-medium scattering event
			origin = origin.Add(dir.Mul(flight))
			tangent, bitangent := phaseBasis(dir)
			local, w := k.Materials.ScatterVolume(media.peek(), wavelength, rng)
			dir = localToWorld(local, tangent, bitangent, dir)
			weight *= w
		} else {
			// Surface interaction
			origin = origin.Add(dir.Mul(hit.Distance))
			tri := &k.Triangles[hit.Triangle]

			// Make the local frame ray-consistent: the normal always
			// opposes the incoming direction. The bitangent flips with
			// it to preserve handedness.
			tangent, bitangent, normal := tri.Tangent, tri.Bitangent, tri.Normal
			if dir.Dot(normal) > 0 {
				normal = normal.Mul(-1)
				bitangent = bitangent.Mul(-1)
			}

			localIn := worldToLocal(dir, tangent, bitangent, normal)

			if emission := k.Materials.Emission(tri.Material, wavelength, localIn, rng); emission > 0 {
				radiance = weight * emission
				break
			}

			// Determine the medium on the far side of the interface: a
			// triangle carrying the current medium's material is its
			// boundary seen from inside, so crossing it exits into the
			// enclosing medium.
			from := media.peek()
			exiting := tri.Material == from
			to := tri.Material
			if exiting {
				to = media.below()
			}

			localOut, w := k.Materials.Transfer(from, to, wavelength, localIn, rng)
			weight *= w
			dir = localToWorld(localOut, tangent, bitangent, normal)

			if localOut[2] < 0 {
				// Transmission: cross the surface and update the medium
				// nesting accordingly
				origin = origin.Sub(normal.Mul(surfaceBias))
				if exiting {
					media.pop()
				} else if !media.push(to) {
					// Nesting beyond the supported depth: treat the
					// path as absorbed
					break
				}
			} else {
				origin = origin.Add(normal.Mul(surfaceBias))
			}
		}

		// Russian roulette: terminate with probability 1-weight, and
		// compensate survivors so the estimator stays unbiased
		p := weight
		if p > 1 {
			p = 1
		}
		if rng.Float32() >= p {
			break
		}
		weight /= p
	}

	contribution := k.Spectrum.Tristimulus(wnorm).Mul(radiance)
	slot := (y*frameW + x) * 4
	accum[slot] += contribution[0]
	accum[slot+1] += contribution[1]
	accum[slot+2] += contribution[2]
	accum[slot+3] += radiance
}

// Build the tangent/bitangent pair of an orthonormal frame around a unit
// propagation direction, using the world axis least aligned with it as the
// auxiliary vector so the cross product never degenerates.
func phaseBasis(dir types.Vec3) (tangent, bitangent types.Vec3) {
	ax := math32.Abs(dir[0])
	ay := math32.Abs(dir[1])
	az := math32.Abs(dir[2])

	aux := types.Vec3{1, 0, 0}
	if ay <= ax && ay <= az {
		aux = types.Vec3{0, 1, 0}
	} else if az <= ax && az <= ay {
		aux = types.Vec3{0, 0, 1}
	}

	tangent = dir.Cross(aux).Normalize()
	bitangent = dir.Cross(tangent)
	return tangent, bitangent
}

// Express a world-space direction in the orthonormal frame (t, b, n).
func worldToLocal(v, t, b, n types.Vec3) types.Vec3 {
	return types.Vec3{v.Dot(t), v.Dot(b), v.Dot(n)}
}

// Express a frame-local direction in world space.
func localToWorld(v, t, b, n types.Vec3) types.Vec3 {
	return t.Mul(v[0]).Add(b.Mul(v[1])).Add(n.Mul(v[2]))
}
