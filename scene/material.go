package scene

import (
	"github.com/chewxy/math32"

	"github.com/wubugui/epsilon/tracer"
	"github.com/wubugui/epsilon/types"
)

// Material index reserved for the ambient non-participating medium that
// every path starts in. The material table always carries an entry for it.
const AmbientMedium uint32 = 0

// Slight attenuation applied at dielectric interfaces so the path weight is
// strictly decreasing even along all-specular chains.
const interfaceAttenuation float32 = 0.98

// Material describes both the surface response of the triangles it covers
// and the volumetric behavior of the medium it encloses.
type Material struct {
	// Radiance emitted uniformly across the spectrum. A positive value
	// turns covered triangles into light sources.
	Emission float32

	// Volumetric absorption/extinction coefficient per unit distance.
	// Zero marks a non-participating medium.
	Absorption float32

	// Single-scattering albedo applied at in-medium scattering events.
	ScatterAlbedo float32

	// Surface albedo for diffuse reflection.
	Reflectance float32

	// Refractive index at the reference wavelength. Values > 0 make
	// surfaces of this material dielectric interfaces that can transmit.
	RefractiveIndex float32

	// Cauchy dispersion coefficient (um^2). Zero disables dispersion.
	Dispersion float32
}

// MaterialTable provides the absorption, scattering, emission and
// reflectance/transmittance lookups consumed by the integrator, keyed by
// material/medium identifiers.
type MaterialTable struct {
	materials []Material
}

// Create a material table. Index 0 is the ambient medium; if the supplied
// list does not define it, a vacuum entry is inserted.
func NewMaterialTable(materials []Material) *MaterialTable {
	if len(materials) == 0 {
		materials = []Material{{}}
	}
	owned := make([]Material, len(materials))
	copy(owned, materials)
	return &MaterialTable{materials: owned}
}

// Number of entries in the table.
func (t *MaterialTable) Count() int {
	return len(t.materials)
}

// Get a material record by index.
func (t *MaterialTable) Material(index uint32) Material {
	return t.materials[index]
}

// Wavelength-dependent refractive index, via Cauchy's relation. Media with
// no refractive index behave like vacuum (n = 1).
func (t *MaterialTable) ior(medium uint32, wavelength float32) float32 {
	m := t.materials[medium]
	if m.RefractiveIndex <= 0 {
		return 1
	}
	if m.Dispersion == 0 {
		return m.RefractiveIndex
	}
	um := wavelength * 1e-3
	return m.RefractiveIndex + m.Dispersion/(um*um)
}

// Absorption coefficient of the given medium at the given wavelength. A zero
// return marks a non-participating medium; callers must map it to an
// infinite free-flight distance instead of dividing by it.
func (t *MaterialTable) AbsorptionCoeff(medium uint32, wavelength float32) float32 {
	return t.materials[medium].Absorption
}

// Sample an in-medium scattering event. Scattering is isotropic: the new
// direction is drawn uniformly from the sphere, expressed in the local frame
// built around the incident direction. Returns the direction and the weight
// factor applied to the path.
func (t *MaterialTable) ScatterVolume(medium uint32, wavelength float32, rng tracer.Sampler) (types.Vec3, float32) {
	z := 1 - 2*rng.Float32()
	r := math32.Sqrt(1 - z*z)
	sin, cos := math32.Sincos(2 * math32.Pi * rng.Float32())
	return types.Vec3{r * cos, r * sin, z}, t.materials[medium].ScatterAlbedo
}

// Emitted radiance of a surface material towards the (local frame) incoming
// direction. Non-emissive materials return 0.
func (t *MaterialTable) Emission(material uint32, wavelength float32, in types.Vec3, rng tracer.Sampler) float32 {
	return t.materials[material].Emission
}

// Sample the reflectance/transmittance of the interface between two media.
// The incoming direction is expressed in the ray-consistent local shading
// frame (z along the outward normal, in[2] < 0). Returns the sampled
// outgoing local direction and the weight factor applied to the path; a
// negative z component in the returned direction marks a transmission.
func (t *MaterialTable) Transfer(from, to uint32, wavelength float32, in types.Vec3, rng tracer.Sampler) (types.Vec3, float32) {
	// The interface behavior is keyed by the non-ambient side.
	surface := to
	if surface == AmbientMedium {
		surface = from
	}
	m := t.materials[surface]

	if m.RefractiveIndex <= 0 {
		// Diffuse surface: cosine-weighted hemisphere around the normal.
		u1 := rng.Float32()
		r := math32.Sqrt(u1)
		sin, cos := math32.Sincos(2 * math32.Pi * rng.Float32())
		return types.Vec3{r * cos, r * sin, math32.Sqrt(1 - u1)}, m.Reflectance
	}

	n1 := t.ior(from, wavelength)
	n2 := t.ior(to, wavelength)
	eta := n1 / n2

	cosI := -in[2]
	if cosI < 0 {
		cosI = 0
	}
	sin2T := eta * eta * (1 - cosI*cosI)

	fresnel := float32(1.0)
	if sin2T <= 1 {
		r0 := (n1 - n2) / (n1 + n2)
		r0 *= r0
		fresnel = r0 + (1-r0)*math32.Pow(1-cosI, 5)
	}

	if rng.Float32() < fresnel {
		// Specular reflection: mirror the direction about the normal.
		return types.Vec3{in[0], in[1], -in[2]}, interfaceAttenuation
	}

	// Refraction into the adjoining medium.
	cosT := math32.Sqrt(1 - sin2T)
	return types.Vec3{in[0] * eta, in[1] * eta, -cosT}, interfaceAttenuation
}
