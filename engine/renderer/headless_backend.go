package renderer

import (
	"errors"
	"fmt"
	"slices"
	"sync"

	"github.com/Carmen-Shannon/oxy-viz/common"
	"github.com/Carmen-Shannon/oxy-viz/engine/renderer/shader"
)

// DrawRecord is one draw captured by the headless backend.
type DrawRecord struct {
	Program   Ref
	Bindings  []Binding
	Primitive PrimitiveType
	Count     int
}

// ProgramRecord is one program compiled by the headless backend.
type ProgramRecord struct {
	VertexSource   string
	FragmentSource string
}

type headlessBuffer struct {
	spec     BufferSpec
	data     common.Array
	uploads  int
	uploaded bool
}

// HeadlessBackend is a Backend that keeps every resource in memory and records
// every call. It enforces the same contract as the GPU backends: fixed shapes,
// known references and draws only inside a frame. Failures can be injected per
// operation to exercise error paths.
type HeadlessBackend struct {
	mu *sync.Mutex

	dialect  shader.Dialect
	validate bool

	nextRef  Ref
	buffers  map[Ref]*headlessBuffer
	programs map[Ref]ProgramRecord

	inFrame   bool
	frames    int
	draws     []DrawRecord
	lastFrame []DrawRecord

	width, height int

	failures map[string]error
}

var _ Backend = &HeadlessBackend{}

// Names of the operations accepted by HeadlessBackend.FailNext.
const (
	OpAllocate = "allocate"
	OpUpload   = "upload"
	OpCompile  = "compile"
	OpDraw     = "draw"
	OpRelease  = "release"
	OpBegin    = "begin-frame"
	OpEnd      = "end-frame"
)

// HeadlessOption configures a HeadlessBackend.
type HeadlessOption func(*HeadlessBackend)

// WithHeadlessDialect sets the dialect the headless backend reports. The default is WGSL.
//
// Parameters:
//   - d: the dialect programs are assembled with
//
// Returns:
//   - HeadlessOption: a function that applies the dialect option
func WithHeadlessDialect(d shader.Dialect) HeadlessOption {
	return func(b *HeadlessBackend) {
		b.dialect = d
	}
}

// WithHeadlessValidation runs WGSL programs through the naga compiler on
// CompileProgram so that generated sources are checked without a GPU.
//
// Returns:
//   - HeadlessOption: a function that enables validation
func WithHeadlessValidation() HeadlessOption {
	return func(b *HeadlessBackend) {
		b.validate = true
	}
}

// NewHeadlessBackend creates an in-memory Backend.
//
// Parameters:
//   - opts: variadic list of HeadlessOption functions
//
// Returns:
//   - *HeadlessBackend: the recording backend
func NewHeadlessBackend(opts ...HeadlessOption) *HeadlessBackend {
	b := &HeadlessBackend{
		mu:       &sync.Mutex{},
		dialect:  shader.WGSL(),
		buffers:  make(map[Ref]*headlessBuffer),
		programs: make(map[Ref]ProgramRecord),
		failures: make(map[string]error),
	}
	for _, opt := range opts {
		opt(b)
	}
	return b
}

func (b *HeadlessBackend) Name() string {
	return BackendTypeHeadless.String()
}

func (b *HeadlessBackend) Dialect() shader.Dialect {
	return b.dialect
}

func (b *HeadlessBackend) AllocateBuffer(spec BufferSpec) (Ref, error) {
	b.mu.Lock()
	defer b.mu.Unlock()

	if err := b.takeFailure(OpAllocate); err != nil {
		return 0, b.wrap(OpAllocate, err)
	}
	if err := validateSpec(spec); err != nil {
		return 0, b.wrap(OpAllocate, err)
	}
	spec.Shape = slices.Clone(spec.Shape)
	ref := b.issue()
	b.buffers[ref] = &headlessBuffer{spec: spec}
	return ref, nil
}

func (b *HeadlessBackend) UploadBuffer(ref Ref, data common.Array) error {
	b.mu.Lock()
	defer b.mu.Unlock()

	if err := b.takeFailure(OpUpload); err != nil {
		return b.wrap(OpUpload, err)
	}
	buf, ok := b.buffers[ref]
	if !ok {
		return b.wrap(OpUpload, fmt.Errorf("%w: %d", ErrUnknownRef, ref))
	}
	if err := checkShape(buf.spec.Shape, data); err != nil {
		return b.wrap(OpUpload, fmt.Errorf("buffer %q: %w", buf.spec.Label, err))
	}
	buf.data = data.Clone()
	buf.uploads++
	buf.uploaded = true
	return nil
}

func (b *HeadlessBackend) CompileProgram(vertexSrc, fragmentSrc string) (Ref, error) {
	b.mu.Lock()
	defer b.mu.Unlock()

	if err := b.takeFailure(OpCompile); err != nil {
		return 0, b.wrap(OpCompile, fmt.Errorf("%w: %w", ErrCompile, err))
	}
	if vertexSrc == "" || fragmentSrc == "" {
		return 0, b.wrap(OpCompile, fmt.Errorf("%w: empty stage source", ErrCompile))
	}
	if b.validate {
		p := shader.Program{Dialect: b.dialect.Name(), VertexSource: vertexSrc, FragmentSource: fragmentSrc}
		if err := shader.ValidateWGSL(p); err != nil {
			return 0, b.wrap(OpCompile, fmt.Errorf("%w: %w", ErrCompile, err))
		}
	}
	ref := b.issue()
	b.programs[ref] = ProgramRecord{VertexSource: vertexSrc, FragmentSource: fragmentSrc}
	return ref, nil
}

func (b *HeadlessBackend) SubmitDraw(program Ref, bindings []Binding, primitive PrimitiveType, count int) error {
	b.mu.Lock()
	defer b.mu.Unlock()

	if err := b.takeFailure(OpDraw); err != nil {
		return b.wrap(OpDraw, err)
	}
	if !b.inFrame {
		return b.wrap(OpDraw, ErrNoFrame)
	}
	if _, ok := b.programs[program]; !ok {
		return b.wrap(OpDraw, fmt.Errorf("%w: program %d", ErrUnknownRef, program))
	}
	for _, bind := range bindings {
		buf, ok := b.buffers[bind.Ref]
		if !ok {
			return b.wrap(OpDraw, fmt.Errorf("%w: %q bound to %d", ErrUnknownRef, bind.Slot.Name, bind.Ref))
		}
		if !buf.uploaded {
			return b.wrap(OpDraw, fmt.Errorf("buffer %q was never uploaded", buf.spec.Label))
		}
	}
	b.draws = append(b.draws, DrawRecord{
		Program:   program,
		Bindings:  slices.Clone(bindings),
		Primitive: primitive,
		Count:     count,
	})
	return nil
}

func (b *HeadlessBackend) Release(ref Ref) error {
	b.mu.Lock()
	defer b.mu.Unlock()

	if err := b.takeFailure(OpRelease); err != nil {
		return b.wrap(OpRelease, err)
	}
	if _, ok := b.buffers[ref]; ok {
		delete(b.buffers, ref)
		return nil
	}
	if _, ok := b.programs[ref]; ok {
		delete(b.programs, ref)
		return nil
	}
	return b.wrap(OpRelease, fmt.Errorf("%w: %d", ErrUnknownRef, ref))
}

func (b *HeadlessBackend) BeginFrame() error {
	b.mu.Lock()
	defer b.mu.Unlock()

	if err := b.takeFailure(OpBegin); err != nil {
		return b.wrap(OpBegin, err)
	}
	if b.inFrame {
		return b.wrap(OpBegin, errors.New("previous frame not ended"))
	}
	b.inFrame = true
	b.draws = nil
	return nil
}

func (b *HeadlessBackend) EndFrame() error {
	b.mu.Lock()
	defer b.mu.Unlock()

	if err := b.takeFailure(OpEnd); err != nil {
		b.inFrame = false
		return b.wrap(OpEnd, err)
	}
	if !b.inFrame {
		return b.wrap(OpEnd, ErrNoFrame)
	}
	b.inFrame = false
	b.frames++
	b.lastFrame = b.draws
	b.draws = nil
	return nil
}

func (b *HeadlessBackend) Resize(width, height int) {
	b.mu.Lock()
	defer b.mu.Unlock()
	b.width, b.height = width, height
}

func (b *HeadlessBackend) Destroy() {
	b.mu.Lock()
	defer b.mu.Unlock()
	clear(b.buffers)
	clear(b.programs)
	b.inFrame = false
}

// FailNext makes the next call of operation op fail with err.
//
// Parameters:
//   - op: one of the Op constants
//   - err: the error to report
func (b *HeadlessBackend) FailNext(op string, err error) {
	b.mu.Lock()
	defer b.mu.Unlock()
	b.failures[op] = err
}

// Frames returns the number of frames ended successfully.
func (b *HeadlessBackend) Frames() int {
	b.mu.Lock()
	defer b.mu.Unlock()
	return b.frames
}

// LastFrame returns the draws of the most recently ended frame, in submission order.
func (b *HeadlessBackend) LastFrame() []DrawRecord {
	b.mu.Lock()
	defer b.mu.Unlock()
	return slices.Clone(b.lastFrame)
}

// Buffer returns the spec and last uploaded contents of a live buffer.
//
// Parameters:
//   - ref: the buffer handle
//
// Returns:
//   - BufferSpec: the allocation spec
//   - common.Array: the uploaded data, empty if never uploaded
//   - bool: false if ref is not a live buffer
func (b *HeadlessBackend) Buffer(ref Ref) (BufferSpec, common.Array, bool) {
	b.mu.Lock()
	defer b.mu.Unlock()
	buf, ok := b.buffers[ref]
	if !ok {
		return BufferSpec{}, common.Array{}, false
	}
	return buf.spec, buf.data, true
}

// Uploads returns how many times a live buffer has been uploaded.
func (b *HeadlessBackend) Uploads(ref Ref) int {
	b.mu.Lock()
	defer b.mu.Unlock()
	if buf, ok := b.buffers[ref]; ok {
		return buf.uploads
	}
	return 0
}

// Program returns the sources of a live program.
func (b *HeadlessBackend) Program(ref Ref) (ProgramRecord, bool) {
	b.mu.Lock()
	defer b.mu.Unlock()
	p, ok := b.programs[ref]
	return p, ok
}

// Live returns the number of buffers and programs that have not been released.
func (b *HeadlessBackend) Live() int {
	b.mu.Lock()
	defer b.mu.Unlock()
	return len(b.buffers) + len(b.programs)
}

// Size returns the size of the last Resize call.
func (b *HeadlessBackend) Size() (int, int) {
	b.mu.Lock()
	defer b.mu.Unlock()
	return b.width, b.height
}

func (b *HeadlessBackend) issue() Ref {
	b.nextRef++
	return b.nextRef
}

func (b *HeadlessBackend) takeFailure(op string) error {
	err, ok := b.failures[op]
	if !ok {
		return nil
	}
	delete(b.failures, op)
	return err
}

func (b *HeadlessBackend) wrap(op string, err error) error {
	return backendError(b.Name(), op, err)
}
