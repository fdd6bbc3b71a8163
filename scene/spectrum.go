package scene

import "github.com/wubugui/epsilon/types"

// The sampled wavelength range in nanometers. Wavelengths are always carried
// through the tracer in normalized [0,1) form and mapped to this range when a
// physical value is needed.
const (
	WavelengthMin float32 = 380
	WavelengthMax float32 = 720
)

// CIE 1931 2-degree standard observer color matching functions, tabulated at
// 10nm steps over [WavelengthMin, WavelengthMax].
var cieMatch = [...]types.Vec3{
	{0.0014, 0.0000, 0.0065},
	{0.0042, 0.0001, 0.0201},
	{0.0143, 0.0004, 0.0679},
	{0.0435, 0.0012, 0.2074},
	{0.1344, 0.0040, 0.6456},
	{0.2839, 0.0116, 1.3856},
	{0.3483, 0.0230, 1.7471},
	{0.3362, 0.0380, 1.7721},
	{0.2908, 0.0600, 1.6692},
	{0.1954, 0.0910, 1.2876},
	{0.0956, 0.1390, 0.8130},
	{0.0320, 0.2080, 0.4652},
	{0.0049, 0.3230, 0.2720},
	{0.0093, 0.5030, 0.1582},
	{0.0633, 0.7100, 0.0782},
	{0.1655, 0.8620, 0.0422},
	{0.2904, 0.9540, 0.0203},
	{0.4334, 0.9950, 0.0087},
	{0.5945, 0.9950, 0.0039},
	{0.7621, 0.9520, 0.0021},
	{0.9163, 0.8700, 0.0017},
	{1.0263, 0.7570, 0.0011},
	{1.0622, 0.6310, 0.0008},
	{1.0026, 0.5030, 0.0003},
	{0.8544, 0.3810, 0.0002},
	{0.6424, 0.2650, 0.0000},
	{0.4479, 0.1750, 0.0000},
	{0.2835, 0.1070, 0.0000},
	{0.1649, 0.0610, 0.0000},
	{0.0874, 0.0320, 0.0000},
	{0.0468, 0.0170, 0.0000},
	{0.0227, 0.0082, 0.0000},
	{0.0114, 0.0041, 0.0000},
	{0.0058, 0.0021, 0.0000},
	{0.0029, 0.0010, 0.0000},
}

// Spectrum maps normalized wavelengths to CIE XYZ tristimulus triples via
// linear interpolation of the embedded color matching table.
type Spectrum struct{}

// Map a normalized wavelength in [0,1] to a physical wavelength in nm.
func (Spectrum) Wavelength(wnorm float32) float32 {
	return WavelengthMin + wnorm*(WavelengthMax-WavelengthMin)
}

// Look up the XYZ tristimulus triple for a normalized wavelength in [0,1],
// linearly interpolating between adjacent table entries. Inputs outside the
// range are clamped.
func (Spectrum) Tristimulus(wnorm float32) types.Vec3 {
	if wnorm <= 0 {
		return cieMatch[0]
	}
	if wnorm >= 1 {
		return cieMatch[len(cieMatch)-1]
	}

	pos := wnorm * float32(len(cieMatch)-1)
	index := int(pos)
	return types.LerpVec3(cieMatch[index], cieMatch[index+1], pos-float32(index))
}
