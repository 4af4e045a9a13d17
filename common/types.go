// package common contains the plain data types shared by every package of the
// visualization layer: shaped arrays, bounds, view transforms and staging data.
package common

import (
	"fmt"
	"image"
	"image/draw"
	_ "image/jpeg"
	_ "image/png"
	"io"
	"os"

	"github.com/cogentcore/webgpu/wgpu"
)

// TextureStagingData holds RGBA8 pixel data for a texture pending GPU upload.
type TextureStagingData struct {
	// Pixels holds 4 bytes per texel, rows first.
	Pixels []byte
	// Width is the number of texels per row.
	Width uint32
	// Height is the number of rows. It is 1 for 1-D textures.
	Height uint32
}

// SamplerStagingData holds the configuration of a sampler pending GPU creation.
// Zero fields fall back to repeat addressing and linear filtering.
type SamplerStagingData struct {
	AddressModeU, AddressModeV, AddressModeW wgpu.AddressMode
	MagFilter, MinFilter                     wgpu.FilterMode
	MipmapFilter                             wgpu.MipmapFilterMode
	LodMinClamp, LodMaxClamp                 float32
	MaxAnisotropy                            uint16
}

// DecodeImage decodes a PNG or JPEG image into a (height, width, 4) texture array
// with channel values in [0, 1].
//
// Parameters:
//   - r: the encoded image
//
// Returns:
//   - Array: the RGBA texture data
//   - error: an error if the image cannot be decoded
func DecodeImage(r io.Reader) (Array, error) {
	img, _, err := image.Decode(r)
	if err != nil {
		return Array{}, fmt.Errorf("common: decode image: %w", err)
	}

	bounds := img.Bounds()
	rgba := image.NewRGBA(bounds)
	draw.Draw(rgba, bounds, img, bounds.Min, draw.Src)

	w, h := bounds.Dx(), bounds.Dy()
	data := make([]float32, 0, w*h*4)
	for y := 0; y < h; y++ {
		row := rgba.Pix[y*rgba.Stride : y*rgba.Stride+w*4]
		for _, b := range row {
			data = append(data, float32(b)/255)
		}
	}
	return NewArray(data, h, w, 4)
}

// LoadImage reads and decodes an image file with DecodeImage.
//
// Parameters:
//   - path: the image file path
//
// Returns:
//   - Array: the RGBA texture data
//   - error: an error if the file cannot be opened or decoded
func LoadImage(path string) (Array, error) {
	f, err := os.Open(path)
	if err != nil {
		return Array{}, fmt.Errorf("common: open image: %w", err)
	}
	defer f.Close()
	return DecodeImage(f)
}
