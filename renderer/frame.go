package renderer

import (
	"image"
	"image/png"
	"os"

	"github.com/chewxy/math32"
)

// XYZ to linear sRGB conversion matrix (D65 white point), row major.
var xyzToRGB = [9]float32{
	3.2406, -1.5372, -0.4986,
	-0.9689, 1.8758, 0.0415,
	0.0557, -0.2040, 1.0570,
}

// Develop the accumulation buffer into an 8-bit RGBA image: average the
// accumulated tristimulus values over the completed passes, convert to
// linear sRGB, apply Reinhard tonemapping with the given exposure and
// encode with a 2.2 gamma.
func developFrame(accum []float32, frameW, frameH, passes uint32, exposure float32) *image.RGBA {
	img := image.NewRGBA(image.Rect(0, 0, int(frameW), int(frameH)))

	var scale float32 = 0
	if passes > 0 {
		scale = 1.0 / float32(passes)
	}

	for y := uint32(0); y < frameH; y++ {
		for x := uint32(0); x < frameW; x++ {
			slot := (y*frameW + x) * 4
			cx := accum[slot] * scale
			cy := accum[slot+1] * scale
			cz := accum[slot+2] * scale

			r := xyzToRGB[0]*cx + xyzToRGB[1]*cy + xyzToRGB[2]*cz
			g := xyzToRGB[3]*cx + xyzToRGB[4]*cy + xyzToRGB[5]*cz
			b := xyzToRGB[6]*cx + xyzToRGB[7]*cy + xyzToRGB[8]*cz

			offset := img.PixOffset(int(x), int(y))
			img.Pix[offset] = encodeChannel(r, exposure)
			img.Pix[offset+1] = encodeChannel(g, exposure)
			img.Pix[offset+2] = encodeChannel(b, exposure)
			img.Pix[offset+3] = 255
		}
	}

	return img
}

func encodeChannel(v, exposure float32) uint8 {
	if v < 0 {
		v = 0
	}
	v *= exposure
	v = v / (1 + v)
	v = math32.Pow(v, 1.0/2.2)
	if v > 1 {
		v = 1
	}
	return uint8(v*255.0 + 0.5)
}

// Encode an image as PNG at the given path.
func SavePNG(img image.Image, path string) error {
	f, err := os.Create(path)
	if err != nil {
		return err
	}
	defer f.Close()
	return png.Encode(f, img)
}
