package renderer

import (
	"fmt"
	"runtime"
	"sync"
	"time"

	"github.com/Carmen-Shannon/automation/tools/worker"
	"github.com/Carmen-Shannon/oxy-viz/common"
)

// stagingRowsPerTask is the number of texture rows converted by one pool task.
const stagingRowsPerTask = 64

// Stager converts float texture arrays into RGBA8 staging data on a worker pool.
type Stager interface {
	// Stage converts a (rows, columns, components) array with values in [0, 1] into
	// RGBA8 texels. One component is gray, two are gray and alpha, three are RGB with
	// opaque alpha and four are RGBA. Values outside [0, 1] are clamped.
	//
	// Parameters:
	//   - data: the texture array
	//
	// Returns:
	//   - common.TextureStagingData: the converted texels, with Width the column count
	//   - error: an error if data is not a 3-axis array with 1 to 4 components
	Stage(data common.Array) (common.TextureStagingData, error)

	// Close stops the worker pool. The Stager must not be used afterwards.
	Close()
}

type stager struct {
	pool worker.DynamicWorkerPool
}

var _ Stager = &stager{}

// NewStager creates a Stager backed by a dynamic worker pool.
//
// Parameters:
//   - workers: the maximum number of concurrent workers, or 0 for runtime.NumCPU()
//
// Returns:
//   - Stager: the texture stager
func NewStager(workers int) Stager {
	if workers <= 0 {
		workers = runtime.NumCPU()
	}
	return &stager{pool: worker.NewDynamicWorkerPool(workers, 256, 1*time.Second)}
}

func (s *stager) Stage(data common.Array) (common.TextureStagingData, error) {
	if data.Ndim() != 3 {
		return common.TextureStagingData{}, fmt.Errorf("renderer: texture data needs 3 axes, got %v", data.Shape)
	}
	rows, cols, comps := data.Shape[0], data.Shape[1], data.Shape[2]
	if comps < 1 || comps > 4 {
		return common.TextureStagingData{}, fmt.Errorf("renderer: texture data has %d components, want 1 to 4", comps)
	}

	pixels := make([]byte, rows*cols*4)

	// Tasks write disjoint row ranges; the WaitGroup is the barrier since the pool
	// keeps its workers alive between uploads.
	var wg sync.WaitGroup
	taskID := 0
	for start := 0; start < rows; start += stagingRowsPerTask {
		end := min(start+stagingRowsPerTask, rows)
		first, last := start, end
		wg.Add(1)
		s.pool.SubmitTask(worker.Task{
			ID: taskID,
			Do: func() (any, error) {
				defer wg.Done()
				for i := first * cols; i < last*cols; i++ {
					packTexel(pixels[i*4:i*4+4], data.Data[i*comps:(i+1)*comps])
				}
				return nil, nil
			},
		})
		taskID++
	}
	wg.Wait()

	return common.TextureStagingData{Pixels: pixels, Width: uint32(cols), Height: uint32(rows)}, nil
}

func (s *stager) Close() {
	s.pool.Stop()
}

// packTexel writes one RGBA8 texel from 1 to 4 float components.
func packTexel(dst []byte, src []float32) {
	switch len(src) {
	case 1:
		g := toByte(src[0])
		dst[0], dst[1], dst[2], dst[3] = g, g, g, 255
	case 2:
		g := toByte(src[0])
		dst[0], dst[1], dst[2], dst[3] = g, g, g, toByte(src[1])
	case 3:
		dst[0], dst[1], dst[2], dst[3] = toByte(src[0]), toByte(src[1]), toByte(src[2]), 255
	default:
		dst[0], dst[1], dst[2], dst[3] = toByte(src[0]), toByte(src[1]), toByte(src[2]), toByte(src[3])
	}
}

func toByte(v float32) byte {
	if v != v || v <= 0 {
		return 0
	}
	if v >= 1 {
		return 255
	}
	return byte(v*255 + 0.5)
}
