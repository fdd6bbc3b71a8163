package reader

import (
	"fmt"

	"github.com/g3n/engine/loader/obj"

	"github.com/wubugui/epsilon/log"
	"github.com/wubugui/epsilon/scene"
	"github.com/wubugui/epsilon/scene/compiler"
	"github.com/wubugui/epsilon/types"
)

var logger = log.New("reader")

// Default camera parameters applied when the scene file does not position
// one. Wavefront files carry no camera data so this is always the case for
// obj input.
const defaultFOV float32 = 45

// Reflectance of the fallback diffuse substituted for undefined materials.
const defaultReflectance float32 = 0.75

// Read a wavefront obj scene (plus its material library) and compile it
// into a kernel-ready scene. The scene path may be a local file or an
// http/https URL; remote scenes are mirrored to a temporary directory
// before decoding.
//
// Material mapping: emissive obj materials become light sources, materials
// with a refraction index become dielectric media and everything else is
// treated as a diffuse reflector. Material slot 0 is always the ambient
// medium scene triangles never reference.
func ReadScene(sceneFile string) (*scene.Scene, error) {
	localFile, err := fetchSceneFile(sceneFile)
	if err != nil {
		return nil, err
	}

	dec, err := obj.Decode(localFile, "")
	if err != nil {
		return nil, fmt.Errorf("reader: %s: %s", sceneFile, err.Error())
	}
	for _, warning := range dec.Warnings {
		logger.Warning(warning)
	}

	// Assign consecutive material ids starting after the ambient slot.
	materials := []scene.Material{{}}
	materialIds := make(map[string]uint32)
	for name, mat := range dec.Materials {
		if mat == nil {
			continue
		}
		materialIds[name] = uint32(len(materials))
		materials = append(materials, convertMaterial(mat))
	}

	// Faces referencing a material the mtl library does not define share a
	// fallback diffuse entry; the ambient slot must never be referenced by
	// scene triangles.
	var fallbackId uint32

	var triangles []scene.Triangle
	for _, object := range dec.Objects {
		for _, face := range object.Faces {
			materialId, defined := materialIds[face.Material]
			if !defined {
				if fallbackId == 0 {
					fallbackId = uint32(len(materials))
					materials = append(materials, scene.Material{Reflectance: defaultReflectance})
					logger.Warningf("%s: undefined material %q; substituting a default diffuse", sceneFile, face.Material)
				}
				materialId = fallbackId
			}

			// Triangulate the face as a fan around its first vertex
			for i := 2; i < len(face.Vertices); i++ {
				v0 := vertexAt(dec, face.Vertices[0])
				v1 := vertexAt(dec, face.Vertices[i-1])
				v2 := vertexAt(dec, face.Vertices[i])
				tri := scene.NewTriangle(v0, v1, v2, materialId)
				if tri.Normal.Len() == 0 {
					// degenerate face; drop it
					continue
				}
				triangles = append(triangles, tri)
			}
		}
	}

	if len(triangles) == 0 {
		return nil, fmt.Errorf("reader: %s: scene contains no triangles", sceneFile)
	}

	logger.Noticef("loaded %d triangles, %d materials from %s", len(triangles), len(materials)-1, sceneFile)

	camera := scene.NewCamera(defaultFOV)
	camera.Position = types.Vec3{0, 1, 3}
	camera.LookAt = types.Vec3{0, 1, 0}

	return compiler.Compile(triangles, scene.NewMaterialTable(materials), camera)
}

func vertexAt(dec *obj.Decoder, index int) types.Vec3 {
	return types.Vec3{
		dec.Vertices[index*3],
		dec.Vertices[index*3+1],
		dec.Vertices[index*3+2],
	}
}

// Map an obj material onto the renderer's material model.
func convertMaterial(mat *obj.Material) scene.Material {
	out := scene.Material{
		Emission:    luminance(mat.Emissive.R, mat.Emissive.G, mat.Emissive.B),
		Reflectance: luminance(mat.Diffuse.R, mat.Diffuse.G, mat.Diffuse.B),
	}

	// Illumination model 6/7 marks refractive materials in wavefront files
	if mat.Refraction > 1 {
		out.RefractiveIndex = mat.Refraction
	}

	// Opacity below one approximates a participating medium
	if mat.Opacity > 0 && mat.Opacity < 1 {
		out.Absorption = 1 - mat.Opacity
		out.ScatterAlbedo = 0.5
	}

	// usemtl names the material library never defines decode as empty
	// records; substitute a usable diffuse for a perfectly black surface
	if out == (scene.Material{}) {
		out.Reflectance = defaultReflectance
	}

	return out
}

func luminance(r, g, b float32) float32 {
	return 0.2126*r + 0.7152*g + 0.0722*b
}
