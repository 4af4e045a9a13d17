package common

import (
	"bytes"
	"image"
	"image/color"
	"image/png"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestDecodeImage(t *testing.T) {
	img := image.NewRGBA(image.Rect(0, 0, 3, 2))
	img.Set(0, 0, color.RGBA{R: 255, A: 255})
	img.Set(2, 1, color.RGBA{B: 255, A: 255})

	var buf bytes.Buffer
	require.NoError(t, png.Encode(&buf, img))

	a, err := DecodeImage(&buf)
	require.NoError(t, err)
	assert.Equal(t, []int{2, 3, 4}, a.Shape)
	assert.Equal(t, []float32{1, 0, 0, 1}, a.Data[0:4])

	last := a.Data[len(a.Data)-4:]
	assert.Equal(t, []float32{0, 0, 1, 1}, last)
}

func TestDecodeImageInvalid(t *testing.T) {
	_, err := DecodeImage(bytes.NewReader([]byte("not an image")))
	assert.Error(t, err)
}
