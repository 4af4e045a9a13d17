package renderer

import (
	"errors"
	"fmt"
	"runtime"
	"slices"
	"strings"
	"sync"

	"github.com/Carmen-Shannon/oxy-viz/common"
	"github.com/Carmen-Shannon/oxy-viz/engine/renderer/shader"
	"github.com/go-gl/gl/v4.1-core/gl"
)

// GLContext is a window that owns an OpenGL context.
type GLContext interface {
	// MakeContextCurrent binds the window's context to the calling thread.
	MakeContextCurrent()

	// SwapBuffers presents the back buffer.
	SwapBuffers()
}

type glResource struct {
	spec BufferSpec

	buffer  uint32
	texture uint32
	target  uint32

	// uniform values are kept on the CPU and set on the program at draw time
	values []float32

	uploaded bool
}

type glProgram struct {
	id  uint32
	vao uint32

	attribs  map[string]int32
	uniforms map[string]int32
}

type glRendererBackendImpl struct {
	mu  *sync.Mutex
	ctx GLContext

	clearColor [4]float32
	stager     Stager

	nextRef   Ref
	resources map[Ref]*glResource
	programs  map[Ref]*glProgram

	inFrame bool
}

var _ Backend = &glRendererBackendImpl{}

func newGLRendererBackend(ctx GLContext, cfg backendConfig) (*glRendererBackendImpl, error) {
	runtime.LockOSThread()
	ctx.MakeContextCurrent()
	if err := gl.Init(); err != nil {
		return nil, backendError(BackendTypeOpenGL.String(), "init", err)
	}

	gl.Enable(gl.BLEND)
	gl.BlendFunc(gl.SRC_ALPHA, gl.ONE_MINUS_SRC_ALPHA)
	gl.Enable(gl.PROGRAM_POINT_SIZE)
	gl.PixelStorei(gl.UNPACK_ALIGNMENT, 1)

	common.Logger().Debug("opengl backend ready", "version", gl.GoStr(gl.GetString(gl.VERSION)))

	return &glRendererBackendImpl{
		mu:         &sync.Mutex{},
		ctx:        ctx,
		clearColor: cfg.clearColor,
		stager:     NewStager(cfg.stagingWorkers),
		resources:  make(map[Ref]*glResource),
		programs:   make(map[Ref]*glProgram),
	}, nil
}

func (b *glRendererBackendImpl) Name() string {
	return BackendTypeOpenGL.String()
}

func (b *glRendererBackendImpl) Dialect() shader.Dialect {
	return shader.GLSL()
}

func (b *glRendererBackendImpl) Resize(width, height int) {
	b.mu.Lock()
	defer b.mu.Unlock()
	if width > 0 && height > 0 {
		gl.Viewport(0, 0, int32(width), int32(height))
	}
}

func (b *glRendererBackendImpl) AllocateBuffer(spec BufferSpec) (Ref, error) {
	b.mu.Lock()
	defer b.mu.Unlock()

	if err := validateSpec(spec); err != nil {
		return 0, b.wrap(OpAllocate, err)
	}
	spec.Shape = slices.Clone(spec.Shape)
	res := &glResource{spec: spec}

	switch spec.Kind {
	case BufferVertex:
		gl.GenBuffers(1, &res.buffer)
		gl.BindBuffer(gl.ARRAY_BUFFER, res.buffer)
		gl.BufferData(gl.ARRAY_BUFFER, shapeSize(spec.Shape)*4, nil, gl.DYNAMIC_DRAW)
		gl.BindBuffer(gl.ARRAY_BUFFER, 0)
	case BufferUniform:
		res.values = make([]float32, shapeSize(spec.Shape))
	case BufferTexture:
		shape := [2]int{spec.Shape[0], spec.Shape[1]}
		res.target = gl.TEXTURE_2D
		if shader.TextureNdim(shape) == 1 {
			res.target = gl.TEXTURE_1D
		}
		gl.GenTextures(1, &res.texture)
		gl.BindTexture(res.target, res.texture)
		gl.TexParameteri(res.target, gl.TEXTURE_MIN_FILTER, glMinFilter(spec.Sampling))
		gl.TexParameteri(res.target, gl.TEXTURE_MAG_FILTER, glFilter(spec.Sampling.MagFilter))
		gl.TexParameteri(res.target, gl.TEXTURE_WRAP_S, gl.CLAMP_TO_EDGE)
		gl.TexParameteri(res.target, gl.TEXTURE_WRAP_T, gl.CLAMP_TO_EDGE)
		gl.BindTexture(res.target, 0)
	}

	if err := glError(); err != nil {
		b.releaseResource(res)
		return 0, b.wrap(OpAllocate, err)
	}

	b.nextRef++
	b.resources[b.nextRef] = res
	return b.nextRef, nil
}

func (b *glRendererBackendImpl) UploadBuffer(ref Ref, data common.Array) error {
	b.mu.Lock()
	res, ok := b.resources[ref]
	b.mu.Unlock()
	if !ok {
		return b.wrap(OpUpload, fmt.Errorf("%w: %d", ErrUnknownRef, ref))
	}
	if err := checkShape(res.spec.Shape, data); err != nil {
		return b.wrap(OpUpload, fmt.Errorf("buffer %q: %w", res.spec.Label, err))
	}

	var staged common.TextureStagingData
	if res.spec.Kind == BufferTexture {
		var err error
		if staged, err = b.stager.Stage(data); err != nil {
			return b.wrap(OpUpload, err)
		}
	}

	b.mu.Lock()
	defer b.mu.Unlock()

	switch res.spec.Kind {
	case BufferVertex:
		bytes := encodeValues(res.spec.ValueType, data.Data)
		gl.BindBuffer(gl.ARRAY_BUFFER, res.buffer)
		gl.BufferSubData(gl.ARRAY_BUFFER, 0, len(bytes), gl.Ptr(bytes))
		gl.BindBuffer(gl.ARRAY_BUFFER, 0)
	case BufferUniform:
		copy(res.values, data.Data)
	case BufferTexture:
		gl.BindTexture(res.target, res.texture)
		if res.target == gl.TEXTURE_1D {
			gl.TexImage1D(gl.TEXTURE_1D, 0, gl.RGBA8, int32(staged.Width*staged.Height), 0, gl.RGBA, gl.UNSIGNED_BYTE, gl.Ptr(staged.Pixels))
		} else {
			gl.TexImage2D(gl.TEXTURE_2D, 0, gl.RGBA8, int32(staged.Width), int32(staged.Height), 0, gl.RGBA, gl.UNSIGNED_BYTE, gl.Ptr(staged.Pixels))
		}
		if res.spec.Sampling.Mipmap {
			gl.GenerateMipmap(res.target)
		}
		gl.BindTexture(res.target, 0)
	}

	if err := glError(); err != nil {
		return b.wrap(OpUpload, err)
	}
	res.uploaded = true
	return nil
}

func (b *glRendererBackendImpl) CompileProgram(vertexSrc, fragmentSrc string) (Ref, error) {
	b.mu.Lock()
	defer b.mu.Unlock()

	vs, err := compileGLShader(vertexSrc, gl.VERTEX_SHADER)
	if err != nil {
		return 0, b.wrap(OpCompile, fmt.Errorf("%w: vertex stage: %w", ErrCompile, err))
	}
	fs, err := compileGLShader(fragmentSrc, gl.FRAGMENT_SHADER)
	if err != nil {
		gl.DeleteShader(vs)
		return 0, b.wrap(OpCompile, fmt.Errorf("%w: fragment stage: %w", ErrCompile, err))
	}

	id := gl.CreateProgram()
	gl.AttachShader(id, vs)
	gl.AttachShader(id, fs)
	gl.LinkProgram(id)
	gl.DeleteShader(vs)
	gl.DeleteShader(fs)

	var status int32
	gl.GetProgramiv(id, gl.LINK_STATUS, &status)
	if status == gl.FALSE {
		var logLength int32
		gl.GetProgramiv(id, gl.INFO_LOG_LENGTH, &logLength)
		log := strings.Repeat("\x00", int(logLength+1))
		gl.GetProgramInfoLog(id, logLength, nil, gl.Str(log))
		gl.DeleteProgram(id)
		return 0, b.wrap(OpCompile, fmt.Errorf("%w: link: %s", ErrCompile, strings.TrimRight(log, "\x00")))
	}

	prog := &glProgram{
		id:       id,
		attribs:  make(map[string]int32),
		uniforms: make(map[string]int32),
	}
	gl.GenVertexArrays(1, &prog.vao)

	b.nextRef++
	b.programs[b.nextRef] = prog
	return b.nextRef, nil
}

func compileGLShader(source string, shaderType uint32) (uint32, error) {
	sh := gl.CreateShader(shaderType)
	csources, free := gl.Strs(source + "\x00")
	gl.ShaderSource(sh, 1, csources, nil)
	free()
	gl.CompileShader(sh)

	var status int32
	gl.GetShaderiv(sh, gl.COMPILE_STATUS, &status)
	if status == gl.FALSE {
		var logLength int32
		gl.GetShaderiv(sh, gl.INFO_LOG_LENGTH, &logLength)
		logText := strings.Repeat("\x00", int(logLength+1))
		gl.GetShaderInfoLog(sh, logLength, nil, gl.Str(logText))
		gl.DeleteShader(sh)
		return 0, errors.New(strings.TrimRight(logText, "\x00"))
	}
	return sh, nil
}

func (b *glRendererBackendImpl) SubmitDraw(program Ref, bindings []Binding, primitive PrimitiveType, count int) error {
	b.mu.Lock()
	defer b.mu.Unlock()

	if !b.inFrame {
		return b.wrap(OpDraw, ErrNoFrame)
	}
	prog, ok := b.programs[program]
	if !ok {
		return b.wrap(OpDraw, fmt.Errorf("%w: program %d", ErrUnknownRef, program))
	}

	gl.UseProgram(prog.id)
	gl.BindVertexArray(prog.vao)

	unit := int32(0)
	for _, bind := range bindings {
		res, ok := b.resources[bind.Ref]
		if !ok {
			return b.wrap(OpDraw, fmt.Errorf("%w: %q bound to %d", ErrUnknownRef, bind.Slot.Name, bind.Ref))
		}
		if !res.uploaded {
			return b.wrap(OpDraw, fmt.Errorf("buffer %q was never uploaded", res.spec.Label))
		}

		switch res.spec.Kind {
		case BufferVertex:
			loc := prog.attribLocation(bind.Slot.Name)
			if loc < 0 {
				// attributes the compiler optimized away have no location
				continue
			}
			comps := int32(res.spec.Shape[1])
			gl.BindBuffer(gl.ARRAY_BUFFER, res.buffer)
			gl.EnableVertexAttribArray(uint32(loc))
			switch res.spec.ValueType {
			case shader.ValueTypeInt32:
				gl.VertexAttribIPointer(uint32(loc), comps, gl.INT, 0, nil)
			case shader.ValueTypeUint32:
				gl.VertexAttribIPointer(uint32(loc), comps, gl.UNSIGNED_INT, 0, nil)
			default:
				gl.VertexAttribPointer(uint32(loc), comps, gl.FLOAT, false, 0, nil)
			}
		case BufferUniform:
			setGLUniform(prog.uniformLocation(bind.Slot.Name), res)
		case BufferTexture:
			gl.ActiveTexture(gl.TEXTURE0 + uint32(unit))
			gl.BindTexture(res.target, res.texture)
			gl.Uniform1i(prog.uniformLocation(bind.Slot.Name), unit)
			unit++
		}
	}

	gl.DrawArrays(glPrimitive(primitive), 0, int32(count))
	gl.BindVertexArray(0)
	gl.BindBuffer(gl.ARRAY_BUFFER, 0)

	if err := glError(); err != nil {
		return b.wrap(OpDraw, err)
	}
	return nil
}

func (p *glProgram) attribLocation(name string) int32 {
	if loc, ok := p.attribs[name]; ok {
		return loc
	}
	loc := gl.GetAttribLocation(p.id, gl.Str(name+"\x00"))
	p.attribs[name] = loc
	return loc
}

func (p *glProgram) uniformLocation(name string) int32 {
	if loc, ok := p.uniforms[name]; ok {
		return loc
	}
	loc := gl.GetUniformLocation(p.id, gl.Str(name+"\x00"))
	p.uniforms[name] = loc
	return loc
}

// setGLUniform sets the CPU copy of a uniform on the bound program.
func setGLUniform(loc int32, res *glResource) {
	if loc < 0 {
		return
	}
	n := len(res.values)
	switch res.spec.ValueType {
	case shader.ValueTypeInt32, shader.ValueTypeUint32:
		ints := make([]int32, n)
		for i, v := range res.values {
			ints[i] = int32(v)
		}
		if res.spec.ValueType == shader.ValueTypeUint32 {
			uints := make([]uint32, n)
			for i, v := range ints {
				uints[i] = uint32(max(v, 0))
			}
			glUniformUint(loc, uints)
			return
		}
		glUniformInt(loc, ints)
	default:
		switch n {
		case 1:
			gl.Uniform1fv(loc, 1, &res.values[0])
		case 2:
			gl.Uniform2fv(loc, 1, &res.values[0])
		case 3:
			gl.Uniform3fv(loc, 1, &res.values[0])
		default:
			gl.Uniform4fv(loc, 1, &res.values[0])
		}
	}
}

func glUniformInt(loc int32, v []int32) {
	switch len(v) {
	case 1:
		gl.Uniform1iv(loc, 1, &v[0])
	case 2:
		gl.Uniform2iv(loc, 1, &v[0])
	case 3:
		gl.Uniform3iv(loc, 1, &v[0])
	default:
		gl.Uniform4iv(loc, 1, &v[0])
	}
}

func glUniformUint(loc int32, v []uint32) {
	switch len(v) {
	case 1:
		gl.Uniform1uiv(loc, 1, &v[0])
	case 2:
		gl.Uniform2uiv(loc, 1, &v[0])
	case 3:
		gl.Uniform3uiv(loc, 1, &v[0])
	default:
		gl.Uniform4uiv(loc, 1, &v[0])
	}
}

func (b *glRendererBackendImpl) Release(ref Ref) error {
	b.mu.Lock()
	defer b.mu.Unlock()

	if res, ok := b.resources[ref]; ok {
		b.releaseResource(res)
		delete(b.resources, ref)
		return nil
	}
	if prog, ok := b.programs[ref]; ok {
		gl.DeleteVertexArrays(1, &prog.vao)
		gl.DeleteProgram(prog.id)
		delete(b.programs, ref)
		return nil
	}
	return b.wrap(OpRelease, fmt.Errorf("%w: %d", ErrUnknownRef, ref))
}

func (b *glRendererBackendImpl) releaseResource(res *glResource) {
	if res.buffer != 0 {
		gl.DeleteBuffers(1, &res.buffer)
	}
	if res.texture != 0 {
		gl.DeleteTextures(1, &res.texture)
	}
}

func (b *glRendererBackendImpl) BeginFrame() error {
	b.mu.Lock()
	defer b.mu.Unlock()

	if b.inFrame {
		return b.wrap(OpBegin, errors.New("previous frame not ended"))
	}
	gl.ClearColor(b.clearColor[0], b.clearColor[1], b.clearColor[2], b.clearColor[3])
	gl.Clear(gl.COLOR_BUFFER_BIT)
	b.inFrame = true
	return nil
}

func (b *glRendererBackendImpl) EndFrame() error {
	b.mu.Lock()
	defer b.mu.Unlock()

	if !b.inFrame {
		return b.wrap(OpEnd, ErrNoFrame)
	}
	b.inFrame = false
	b.ctx.SwapBuffers()
	return b.wrap(OpEnd, glError())
}

func (b *glRendererBackendImpl) Destroy() {
	b.mu.Lock()
	defer b.mu.Unlock()

	for ref, res := range b.resources {
		b.releaseResource(res)
		delete(b.resources, ref)
	}
	for ref, prog := range b.programs {
		gl.DeleteVertexArrays(1, &prog.vao)
		gl.DeleteProgram(prog.id)
		delete(b.programs, ref)
	}
	b.stager.Close()
}

func (b *glRendererBackendImpl) wrap(op string, err error) error {
	return backendError(b.Name(), op, err)
}

// glError drains the GL error queue and reports the first error.
func glError() error {
	var first uint32
	for code := gl.GetError(); code != gl.NO_ERROR; code = gl.GetError() {
		if first == 0 {
			first = code
		}
	}
	if first == 0 {
		return nil
	}
	return fmt.Errorf("gl error 0x%04x", first)
}

func glPrimitive(p PrimitiveType) uint32 {
	switch p {
	case PrimitiveLines:
		return gl.LINES
	case PrimitiveLineStrip:
		return gl.LINE_STRIP
	case PrimitiveTriangles:
		return gl.TRIANGLES
	case PrimitiveTriangleStrip:
		return gl.TRIANGLE_STRIP
	default:
		return gl.POINTS
	}
}

func glFilter(f shader.Filter) int32 {
	if f == shader.FilterNearest {
		return gl.NEAREST
	}
	return gl.LINEAR
}

func glMinFilter(s shader.TextureSampling) int32 {
	switch {
	case s.Mipmap && s.MinFilter == shader.FilterNearest:
		return gl.NEAREST_MIPMAP_NEAREST
	case s.Mipmap:
		return gl.LINEAR_MIPMAP_LINEAR
	default:
		return glFilter(s.MinFilter)
	}
}
