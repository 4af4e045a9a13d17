package renderer

import (
	"testing"

	"github.com/Carmen-Shannon/oxy-viz/common"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestStagerComponents(t *testing.T) {
	s := NewStager(2)
	defer s.Close()

	tests := []struct {
		name  string
		texel []float32
		want  []byte
	}{
		{name: "gray", texel: []float32{0.5}, want: []byte{128, 128, 128, 255}},
		{name: "gray alpha", texel: []float32{1, 0}, want: []byte{255, 255, 255, 0}},
		{name: "rgb", texel: []float32{1, 0, 0}, want: []byte{255, 0, 0, 255}},
		{name: "rgba clamped", texel: []float32{2, -1, 0, 1}, want: []byte{255, 0, 0, 255}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			staged, err := s.Stage(common.MustArray(tt.texel, 1, 1, len(tt.texel)))
			require.NoError(t, err)
			assert.Equal(t, tt.want, staged.Pixels)
			assert.Equal(t, uint32(1), staged.Width)
			assert.Equal(t, uint32(1), staged.Height)
		})
	}
}

func TestStagerManyRows(t *testing.T) {
	s := NewStager(4)
	defer s.Close()

	rows, cols := 200, 3
	data := make([]float32, rows*cols)
	for r := 0; r < rows; r++ {
		for c := 0; c < cols; c++ {
			data[r*cols+c] = float32(r%2) // odd rows white
		}
	}
	staged, err := s.Stage(common.MustArray(data, rows, cols, 1))
	require.NoError(t, err)
	require.Len(t, staged.Pixels, rows*cols*4)

	for r := 0; r < rows; r++ {
		want := byte(0)
		if r%2 == 1 {
			want = 255
		}
		assert.Equal(t, want, staged.Pixels[(r*cols)*4], "row %d", r)
	}
}

func TestStagerRejectsShape(t *testing.T) {
	s := NewStager(1)
	defer s.Close()

	_, err := s.Stage(common.MustArray(make([]float32, 4), 2, 2))
	assert.Error(t, err)

	_, err = s.Stage(common.MustArray(make([]float32, 5), 1, 1, 5))
	assert.Error(t, err)
}
