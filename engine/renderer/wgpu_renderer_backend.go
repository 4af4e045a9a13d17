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
	"github.com/cogentcore/webgpu/wgpu"
)

type wgpuResource struct {
	spec BufferSpec

	buffer *wgpu.Buffer

	texture *wgpu.Texture
	view    *wgpu.TextureView
	sampler *wgpu.Sampler

	uploaded bool
}

type wgpuProgram struct {
	layout shader.WGSLLayout

	vertexModule   *wgpu.ShaderModule
	fragmentModule *wgpu.ShaderModule

	bindGroupLayouts []*wgpu.BindGroupLayout
	pipelineLayout   *wgpu.PipelineLayout

	// pipelines are created on first use since topology is only known at draw time
	pipelines map[PrimitiveType]*wgpu.RenderPipeline
}

type wgpuRendererBackendImpl struct {
	mu     *sync.Mutex
	device *wgpu.Device
	queue  *wgpu.Queue

	instance *wgpu.Instance
	adapter  *wgpu.Adapter
	surface  *wgpu.Surface

	surfaceFormat        *wgpu.TextureFormat
	msaaTexture          *wgpu.Texture
	msaaTextureView      *wgpu.TextureView
	renderPassDescriptor *wgpu.RenderPassDescriptor

	presentMode wgpu.PresentMode
	sampleCount MSAASampleCount
	clearColor  wgpu.Color
	validate    bool

	stager Stager

	nextRef   Ref
	resources map[Ref]*wgpuResource
	programs  map[Ref]*wgpuProgram

	// Frame state for batched rendering across multiple draw calls
	frameEncoder    *wgpu.CommandEncoder
	framePass       *wgpu.RenderPassEncoder
	frameSurface    *wgpu.Texture
	frameView       *wgpu.TextureView
	frameBindGroups []*wgpu.BindGroup
}

var _ Backend = &wgpuRendererBackendImpl{}

func newWGPURendererBackend(surfaceDescriptor *wgpu.SurfaceDescriptor, cfg backendConfig) (*wgpuRendererBackendImpl, error) {
	runtime.LockOSThread()
	w := &wgpuRendererBackendImpl{
		mu:          &sync.Mutex{},
		instance:    wgpu.CreateInstance(nil),
		presentMode: wgpuPresentMode(cfg.presentMode),
		sampleCount: cfg.msaa,
		clearColor: wgpu.Color{
			R: float64(cfg.clearColor[0]),
			G: float64(cfg.clearColor[1]),
			B: float64(cfg.clearColor[2]),
			A: float64(cfg.clearColor[3]),
		},
		validate:  cfg.validate,
		stager:    NewStager(cfg.stagingWorkers),
		resources: make(map[Ref]*wgpuResource),
		programs:  make(map[Ref]*wgpuProgram),
	}
	w.surface = w.instance.CreateSurface(surfaceDescriptor)

	a, err := w.instance.RequestAdapter(&wgpu.RequestAdapterOptions{
		ForceFallbackAdapter: cfg.forceFallbackAdapter,
		CompatibleSurface:    w.surface,
	})
	if err != nil {
		w.stager.Close()
		return nil, w.wrap("init", fmt.Errorf("request adapter: %w", err))
	}
	w.adapter = a

	d, err := a.RequestDevice(&wgpu.DeviceDescriptor{
		Label: "Visualization Device",
	})
	if err != nil {
		w.stager.Close()
		return nil, w.wrap("init", fmt.Errorf("request device: %w", err))
	}
	w.device = d
	w.queue = d.GetQueue()

	common.Logger().Debug("wgpu backend ready", "msaa", int(cfg.msaa), "validate", cfg.validate)
	return w, nil
}

func (b *wgpuRendererBackendImpl) Name() string {
	return BackendTypeWGPU.String()
}

func (b *wgpuRendererBackendImpl) Dialect() shader.Dialect {
	return shader.WGSL()
}

func (b *wgpuRendererBackendImpl) Resize(width, height int) {
	b.mu.Lock()
	defer b.mu.Unlock()

	if width <= 0 || height <= 0 {
		return
	}

	capabilities := b.surface.GetCapabilities(b.adapter)
	b.surfaceFormat = &capabilities.Formats[0]

	b.surface.Configure(b.adapter, b.device, &wgpu.SurfaceConfiguration{
		Usage:       wgpu.TextureUsageRenderAttachment,
		Format:      *b.surfaceFormat,
		Width:       uint32(width),
		Height:      uint32(height),
		PresentMode: b.presentMode,
		AlphaMode:   capabilities.AlphaModes[0],
	})

	if b.msaaTextureView != nil {
		b.msaaTextureView.Release()
		b.msaaTexture.Release()
		b.msaaTextureView, b.msaaTexture = nil, nil
	}

	count := uint32(b.sampleCount)
	msaaEnabled := count > 1

	if msaaEnabled {
		// The pass draws into the MSAA texture and resolves into the swapchain view.
		msaaTexture, err := b.device.CreateTexture(&wgpu.TextureDescriptor{
			Label: "MSAA Texture",
			Size: wgpu.Extent3D{
				Width:              uint32(width),
				Height:             uint32(height),
				DepthOrArrayLayers: 1,
			},
			MipLevelCount: 1,
			SampleCount:   count,
			Dimension:     wgpu.TextureDimension2D,
			Format:        *b.surfaceFormat,
			Usage:         wgpu.TextureUsageRenderAttachment,
		})
		if err != nil {
			common.Logger().Error("wgpu: msaa texture", "err", err)
			return
		}
		view, err := msaaTexture.CreateView(nil)
		if err != nil {
			msaaTexture.Release()
			common.Logger().Error("wgpu: msaa texture view", "err", err)
			return
		}
		b.msaaTexture, b.msaaTextureView = msaaTexture, view
	}

	storeOp := wgpu.StoreOpStore
	if msaaEnabled {
		storeOp = wgpu.StoreOpDiscard
	}
	// Visuals are composited in submission order, so the pass has no depth attachment.
	b.renderPassDescriptor = &wgpu.RenderPassDescriptor{
		ColorAttachments: []wgpu.RenderPassColorAttachment{
			{
				View:       b.msaaTextureView, // nil when MSAA is off; set in BeginFrame
				LoadOp:     wgpu.LoadOpClear,
				StoreOp:    storeOp,
				ClearValue: b.clearColor,
			},
		},
	}

	// Pipelines target the surface format, which may change with the configuration.
	for _, p := range b.programs {
		for prim, rp := range p.pipelines {
			rp.Release()
			delete(p.pipelines, prim)
		}
	}
}

func (b *wgpuRendererBackendImpl) AllocateBuffer(spec BufferSpec) (Ref, error) {
	b.mu.Lock()
	defer b.mu.Unlock()

	if err := validateSpec(spec); err != nil {
		return 0, b.wrap(OpAllocate, err)
	}
	spec.Shape = slices.Clone(spec.Shape)
	res := &wgpuResource{spec: spec}

	switch spec.Kind {
	case BufferVertex, BufferUniform:
		usage := wgpu.BufferUsageVertex | wgpu.BufferUsageCopyDst
		size := uint64(shapeSize(spec.Shape) * 4)
		if spec.Kind == BufferUniform {
			usage = wgpu.BufferUsageUniform | wgpu.BufferUsageCopyDst
			size = common.AlignUp(16, size)
		}
		buf, err := b.device.CreateBuffer(&wgpu.BufferDescriptor{
			Label: spec.Label + " Buffer",
			Size:  size,
			Usage: usage,
		})
		if err != nil {
			return 0, b.wrap(OpAllocate, err)
		}
		res.buffer = buf
	case BufferTexture:
		if err := b.initTexture(res); err != nil {
			return 0, b.wrap(OpAllocate, err)
		}
	}

	b.nextRef++
	b.resources[b.nextRef] = res
	return b.nextRef, nil
}

// initTexture creates the texture, its view and its sampler. A texture with a
// single row or column is created as a 1-D texture of the longer axis.
func (b *wgpuRendererBackendImpl) initTexture(res *wgpuResource) error {
	shape := [2]int{res.spec.Shape[0], res.spec.Shape[1]}
	dimension := wgpu.TextureDimension2D
	extent := wgpu.Extent3D{Width: uint32(shape[1]), Height: uint32(shape[0]), DepthOrArrayLayers: 1}
	if shader.TextureNdim(shape) == 1 {
		dimension = wgpu.TextureDimension1D
		extent = wgpu.Extent3D{Width: uint32(shader.TextureLength(shape)), Height: 1, DepthOrArrayLayers: 1}
	}

	tex, err := b.device.CreateTexture(&wgpu.TextureDescriptor{
		Label:         res.spec.Label + " Texture",
		Usage:         wgpu.TextureUsageTextureBinding | wgpu.TextureUsageCopyDst,
		Dimension:     dimension,
		Size:          extent,
		Format:        wgpu.TextureFormatRGBA8Unorm,
		MipLevelCount: 1,
		SampleCount:   1,
	})
	if err != nil {
		return err
	}
	view, err := tex.CreateView(nil)
	if err != nil {
		tex.Release()
		return err
	}

	staging := common.SamplerStagingData{
		AddressModeU: wgpu.AddressModeClampToEdge,
		AddressModeV: wgpu.AddressModeClampToEdge,
		AddressModeW: wgpu.AddressModeClampToEdge,
		MagFilter:    wgpuFilter(res.spec.Sampling.MagFilter),
		MinFilter:    wgpuFilter(res.spec.Sampling.MinFilter),
		MipmapFilter: wgpu.MipmapFilterModeNearest,
	}
	samp, err := b.device.CreateSampler(&wgpu.SamplerDescriptor{
		Label:         res.spec.Label + " Sampler",
		AddressModeU:  common.Coalesce(staging.AddressModeU, wgpu.AddressModeRepeat),
		AddressModeV:  common.Coalesce(staging.AddressModeV, wgpu.AddressModeRepeat),
		AddressModeW:  common.Coalesce(staging.AddressModeW, wgpu.AddressModeRepeat),
		MagFilter:     common.Coalesce(staging.MagFilter, wgpu.FilterModeLinear),
		MinFilter:     common.Coalesce(staging.MinFilter, wgpu.FilterModeLinear),
		MipmapFilter:  common.Coalesce(staging.MipmapFilter, wgpu.MipmapFilterModeLinear),
		LodMinClamp:   common.Coalesce(staging.LodMinClamp, 0.0),
		LodMaxClamp:   common.Coalesce(staging.LodMaxClamp, 32.0),
		MaxAnisotropy: common.Coalesce(staging.MaxAnisotropy, 1),
	})
	if err != nil {
		view.Release()
		tex.Release()
		return err
	}

	res.texture, res.view, res.sampler = tex, view, samp
	return nil
}

func (b *wgpuRendererBackendImpl) UploadBuffer(ref Ref, data common.Array) error {
	b.mu.Lock()
	res, ok := b.resources[ref]
	b.mu.Unlock()
	if !ok {
		return b.wrap(OpUpload, fmt.Errorf("%w: %d", ErrUnknownRef, ref))
	}
	if err := checkShape(res.spec.Shape, data); err != nil {
		return b.wrap(OpUpload, fmt.Errorf("buffer %q: %w", res.spec.Label, err))
	}

	if res.spec.Kind != BufferTexture {
		b.mu.Lock()
		defer b.mu.Unlock()
		if err := b.queue.WriteBuffer(res.buffer, 0, encodeValues(res.spec.ValueType, data.Data)); err != nil {
			return b.wrap(OpUpload, err)
		}
		res.uploaded = true
		return nil
	}

	// Texel conversion runs on the staging pool without holding the backend lock.
	staged, err := b.stager.Stage(data)
	if err != nil {
		return b.wrap(OpUpload, err)
	}
	width := staged.Width * staged.Height
	height := uint32(1)
	if shader.TextureNdim([2]int{res.spec.Shape[0], res.spec.Shape[1]}) == 2 {
		width, height = staged.Width, staged.Height
	}

	b.mu.Lock()
	defer b.mu.Unlock()
	b.queue.WriteTexture(
		&wgpu.ImageCopyTexture{
			Texture:  res.texture,
			MipLevel: 0,
			Origin:   wgpu.Origin3D{},
			Aspect:   wgpu.TextureAspectAll,
		},
		staged.Pixels,
		&wgpu.TextureDataLayout{
			Offset:       0,
			BytesPerRow:  width * 4,
			RowsPerImage: height,
		},
		&wgpu.Extent3D{
			Width:              width,
			Height:             height,
			DepthOrArrayLayers: 1,
		},
	)
	res.uploaded = true
	return nil
}

func (b *wgpuRendererBackendImpl) CompileProgram(vertexSrc, fragmentSrc string) (Ref, error) {
	if b.validate {
		p := shader.Program{Dialect: shader.WGSL().Name(), VertexSource: vertexSrc, FragmentSource: fragmentSrc}
		if err := shader.ValidateWGSL(p); err != nil {
			return 0, b.wrap(OpCompile, fmt.Errorf("%w: %w", ErrCompile, err))
		}
	}

	layout, err := shader.ParseWGSLProgram(vertexSrc, fragmentSrc)
	if err != nil {
		return 0, b.wrap(OpCompile, fmt.Errorf("%w: %w", ErrCompile, err))
	}

	b.mu.Lock()
	defer b.mu.Unlock()

	vs, err := b.device.CreateShaderModule(&wgpu.ShaderModuleDescriptor{
		Label: "Vertex Stage",
		WGSLDescriptor: &wgpu.ShaderModuleWGSLDescriptor{
			Code: vertexSrc,
		},
	})
	if err != nil {
		return 0, b.wrap(OpCompile, fmt.Errorf("%w: vertex stage: %w", ErrCompile, err))
	}
	fs, err := b.device.CreateShaderModule(&wgpu.ShaderModuleDescriptor{
		Label: "Fragment Stage",
		WGSLDescriptor: &wgpu.ShaderModuleWGSLDescriptor{
			Code: fragmentSrc,
		},
	})
	if err != nil {
		vs.Release()
		return 0, b.wrap(OpCompile, fmt.Errorf("%w: fragment stage: %w", ErrCompile, err))
	}

	prog := &wgpuProgram{
		layout:         layout,
		vertexModule:   vs,
		fragmentModule: fs,
		pipelines:      make(map[PrimitiveType]*wgpu.RenderPipeline),
	}

	maxGroup := -1
	for g := range layout.BindGroups {
		maxGroup = max(maxGroup, g)
	}
	prog.bindGroupLayouts = make([]*wgpu.BindGroupLayout, maxGroup+1)
	for g := 0; g <= maxGroup; g++ {
		desc := layout.BindGroups[g]
		bgl, layoutErr := b.device.CreateBindGroupLayout(&desc)
		if layoutErr != nil {
			b.releaseProgram(prog)
			return 0, b.wrap(OpCompile, fmt.Errorf("bind group layout for group %d: %w", g, layoutErr))
		}
		prog.bindGroupLayouts[g] = bgl
	}

	pipelineLayout, err := b.device.CreatePipelineLayout(&wgpu.PipelineLayoutDescriptor{
		Label:            "Visual Pipeline Layout",
		BindGroupLayouts: prog.bindGroupLayouts,
	})
	if err != nil {
		b.releaseProgram(prog)
		return 0, b.wrap(OpCompile, err)
	}
	prog.pipelineLayout = pipelineLayout

	b.nextRef++
	b.programs[b.nextRef] = prog
	return b.nextRef, nil
}

// renderPipeline returns the cached pipeline of prog for the topology, creating it on first use.
func (b *wgpuRendererBackendImpl) renderPipeline(prog *wgpuProgram, primitive PrimitiveType) (*wgpu.RenderPipeline, error) {
	if rp, ok := prog.pipelines[primitive]; ok {
		return rp, nil
	}
	if b.surfaceFormat == nil {
		return nil, errors.New("surface not configured, call Resize first")
	}

	created, err := b.device.CreateRenderPipeline(&wgpu.RenderPipelineDescriptor{
		Label:  primitive.String() + " Render Pipeline",
		Layout: prog.pipelineLayout,
		Vertex: wgpu.VertexState{
			Module:     prog.vertexModule,
			EntryPoint: prog.layout.VertexEntryPoint,
			Buffers:    prog.layout.VertexBuffers,
		},
		Fragment: &wgpu.FragmentState{
			Module:     prog.fragmentModule,
			EntryPoint: prog.layout.FragmentEntryPoint,
			Targets: []wgpu.ColorTargetState{
				{
					Format:    *b.surfaceFormat,
					Blend:     &wgpu.BlendStateAlphaBlending,
					WriteMask: wgpu.ColorWriteMaskAll,
				},
			},
		},
		Primitive: wgpu.PrimitiveState{
			Topology:  wgpuTopology(primitive),
			FrontFace: wgpu.FrontFaceCCW,
			CullMode:  wgpu.CullModeNone,
		},
		Multisample: wgpu.MultisampleState{
			Count: uint32(b.sampleCount),
			Mask:  0xFFFFFFFF,
		},
	})
	if err != nil {
		return nil, err
	}
	prog.pipelines[primitive] = created
	return created, nil
}

func (b *wgpuRendererBackendImpl) SubmitDraw(program Ref, bindings []Binding, primitive PrimitiveType, count int) error {
	b.mu.Lock()
	defer b.mu.Unlock()

	if b.framePass == nil {
		return b.wrap(OpDraw, ErrNoFrame)
	}
	prog, ok := b.programs[program]
	if !ok {
		return b.wrap(OpDraw, fmt.Errorf("%w: program %d", ErrUnknownRef, program))
	}

	byName := make(map[string]*wgpuResource, len(bindings))
	for _, bind := range bindings {
		res, ok := b.resources[bind.Ref]
		if !ok {
			return b.wrap(OpDraw, fmt.Errorf("%w: %q bound to %d", ErrUnknownRef, bind.Slot.Name, bind.Ref))
		}
		if !res.uploaded {
			return b.wrap(OpDraw, fmt.Errorf("buffer %q was never uploaded", res.spec.Label))
		}
		byName[bind.Slot.Name] = res
	}

	rp, err := b.renderPipeline(prog, primitive)
	if err != nil {
		return b.wrap(OpDraw, err)
	}

	groups := make([]*wgpu.BindGroup, len(prog.bindGroupLayouts))
	for g, desc := range prog.layout.BindGroups {
		entries := make([]wgpu.BindGroupEntry, 0, len(desc.Entries))
		for _, entry := range desc.Entries {
			name := prog.layout.BindingNames[g][int(entry.Binding)]
			e, entryErr := bindGroupEntry(entry, name, byName)
			if entryErr != nil {
				return b.wrap(OpDraw, entryErr)
			}
			entries = append(entries, e)
		}
		bg, bgErr := b.device.CreateBindGroup(&wgpu.BindGroupDescriptor{
			Label:   fmt.Sprintf("Group %d", g),
			Layout:  prog.bindGroupLayouts[g],
			Entries: entries,
		})
		if bgErr != nil {
			return b.wrap(OpDraw, bgErr)
		}
		b.frameBindGroups = append(b.frameBindGroups, bg)
		groups[g] = bg
	}

	b.framePass.SetPipeline(rp)
	for g, bg := range groups {
		b.framePass.SetBindGroup(uint32(g), bg, nil)
	}
	for i, name := range prog.layout.AttributeNames {
		res, ok := byName[name]
		if !ok || res.buffer == nil {
			return b.wrap(OpDraw, fmt.Errorf("attribute %q is not bound", name))
		}
		b.framePass.SetVertexBuffer(uint32(i), res.buffer, 0, wgpu.WholeSize)
	}
	b.framePass.Draw(uint32(count), 1, 0, 0)
	return nil
}

// bindGroupEntry resolves one layout entry to the resource bound under its name.
// Samplers are declared as "<texture>_sampler" and come from the texture resource.
func bindGroupEntry(entry wgpu.BindGroupLayoutEntry, name string, byName map[string]*wgpuResource) (wgpu.BindGroupEntry, error) {
	isSampler := entry.Sampler.Type != wgpu.SamplerBindingTypeUndefined
	isTexture := entry.Texture.SampleType != wgpu.TextureSampleTypeUndefined

	lookup := name
	if isSampler {
		lookup = strings.TrimSuffix(name, "_sampler")
	}
	res, ok := byName[lookup]
	if !ok {
		return wgpu.BindGroupEntry{}, fmt.Errorf("binding %d (%q) is not bound", entry.Binding, name)
	}

	switch {
	case isSampler:
		return wgpu.BindGroupEntry{Binding: entry.Binding, Sampler: res.sampler}, nil
	case isTexture:
		return wgpu.BindGroupEntry{Binding: entry.Binding, TextureView: res.view}, nil
	default:
		if res.buffer == nil {
			return wgpu.BindGroupEntry{}, fmt.Errorf("binding %d (%q) is not a buffer", entry.Binding, name)
		}
		return wgpu.BindGroupEntry{Binding: entry.Binding, Buffer: res.buffer, Offset: 0, Size: wgpu.WholeSize}, nil
	}
}

func (b *wgpuRendererBackendImpl) Release(ref Ref) error {
	b.mu.Lock()
	defer b.mu.Unlock()

	if res, ok := b.resources[ref]; ok {
		releaseResource(res)
		delete(b.resources, ref)
		return nil
	}
	if prog, ok := b.programs[ref]; ok {
		b.releaseProgram(prog)
		delete(b.programs, ref)
		return nil
	}
	return b.wrap(OpRelease, fmt.Errorf("%w: %d", ErrUnknownRef, ref))
}

func releaseResource(res *wgpuResource) {
	if res.buffer != nil {
		res.buffer.Release()
	}
	if res.sampler != nil {
		res.sampler.Release()
	}
	if res.view != nil {
		res.view.Release()
	}
	if res.texture != nil {
		res.texture.Release()
	}
}

func (b *wgpuRendererBackendImpl) releaseProgram(prog *wgpuProgram) {
	for _, rp := range prog.pipelines {
		rp.Release()
	}
	if prog.pipelineLayout != nil {
		prog.pipelineLayout.Release()
	}
	for _, bgl := range prog.bindGroupLayouts {
		if bgl != nil {
			bgl.Release()
		}
	}
	prog.vertexModule.Release()
	prog.fragmentModule.Release()
}

func (b *wgpuRendererBackendImpl) BeginFrame() error {
	b.mu.Lock()
	defer b.mu.Unlock()

	// A held surface texture means the previous frame was never presented.
	if b.frameSurface != nil {
		return b.wrap(OpBegin, errors.New("previous frame surface not yet presented"))
	}
	if b.renderPassDescriptor == nil {
		return b.wrap(OpBegin, errors.New("surface not configured, call Resize first"))
	}

	surfaceTexture, err := b.surface.GetCurrentTexture()
	if err != nil {
		return b.wrap(OpBegin, err)
	}

	view, err := surfaceTexture.CreateView(nil)
	if err != nil {
		surfaceTexture.Release()
		return b.wrap(OpBegin, err)
	}

	encoder, err := b.device.CreateCommandEncoder(nil)
	if err != nil {
		view.Release()
		surfaceTexture.Release()
		return b.wrap(OpBegin, err)
	}

	if b.sampleCount > 1 {
		b.renderPassDescriptor.ColorAttachments[0].ResolveTarget = view
	} else {
		b.renderPassDescriptor.ColorAttachments[0].View = view
	}
	pass := encoder.BeginRenderPass(b.renderPassDescriptor)

	b.frameEncoder = encoder
	b.framePass = pass
	b.frameSurface = surfaceTexture
	b.frameView = view

	return nil
}

func (b *wgpuRendererBackendImpl) EndFrame() error {
	b.mu.Lock()
	defer b.mu.Unlock()

	if b.framePass == nil {
		return b.wrap(OpEnd, ErrNoFrame)
	}
	defer b.resetFrame()

	b.framePass.End()

	commandBuffer, err := b.frameEncoder.Finish(nil)
	if err != nil {
		return b.wrap(OpEnd, err)
	}
	b.queue.Submit(commandBuffer)
	commandBuffer.Release()

	b.surface.Present()
	return nil
}

// resetFrame releases the per-frame objects. Called with the lock held.
func (b *wgpuRendererBackendImpl) resetFrame() {
	for _, bg := range b.frameBindGroups {
		bg.Release()
	}
	b.frameBindGroups = b.frameBindGroups[:0]
	if b.framePass != nil {
		b.framePass.Release()
		b.framePass = nil
	}
	if b.frameEncoder != nil {
		b.frameEncoder.Release()
		b.frameEncoder = nil
	}
	if b.frameView != nil {
		b.frameView.Release()
		b.frameView = nil
	}
	if b.frameSurface != nil {
		b.frameSurface.Release()
		b.frameSurface = nil
	}
}

func (b *wgpuRendererBackendImpl) Destroy() {
	b.mu.Lock()
	defer b.mu.Unlock()

	b.resetFrame()
	for ref, res := range b.resources {
		releaseResource(res)
		delete(b.resources, ref)
	}
	for ref, prog := range b.programs {
		b.releaseProgram(prog)
		delete(b.programs, ref)
	}
	if b.msaaTextureView != nil {
		b.msaaTextureView.Release()
		b.msaaTexture.Release()
	}
	b.stager.Close()
	b.queue.Release()
	b.device.Release()
	b.adapter.Release()
	b.surface.Release()
	b.instance.Release()
}

func (b *wgpuRendererBackendImpl) wrap(op string, err error) error {
	return backendError(b.Name(), op, err)
}

func wgpuTopology(p PrimitiveType) wgpu.PrimitiveTopology {
	switch p {
	case PrimitiveLines:
		return wgpu.PrimitiveTopologyLineList
	case PrimitiveLineStrip:
		return wgpu.PrimitiveTopologyLineStrip
	case PrimitiveTriangles:
		return wgpu.PrimitiveTopologyTriangleList
	case PrimitiveTriangleStrip:
		return wgpu.PrimitiveTopologyTriangleStrip
	default:
		return wgpu.PrimitiveTopologyPointList
	}
}

func wgpuFilter(f shader.Filter) wgpu.FilterMode {
	if f == shader.FilterNearest {
		return wgpu.FilterModeNearest
	}
	return wgpu.FilterModeLinear
}

func wgpuPresentMode(mode PresentMode) wgpu.PresentMode {
	switch mode {
	case PresentModeVSync:
		return wgpu.PresentModeFifo
	case PresentModeTripleBuffered:
		return wgpu.PresentModeMailbox
	default:
		return wgpu.PresentModeImmediate
	}
}
