package visual

import (
	"errors"
	"fmt"
	"slices"

	"github.com/Carmen-Shannon/oxy-viz/common"
	"github.com/Carmen-Shannon/oxy-viz/engine/renderer"
	"github.com/Carmen-Shannon/oxy-viz/engine/renderer/shader"
)

// State is the lifecycle stage of a visual.
type State int

const (
	// StateDeclared holds declarations and staged data; nothing is allocated.
	StateDeclared State = iota

	// StateDataBound is entered once every variable has data and backend resources
	// are being allocated and compiled.
	StateDataBound

	// StateActive is draw-ready; updates go straight to the backend.
	StateActive

	// StateDestroyed has released every backend resource.
	StateDestroyed
)

// String returns the lowercase state name.
func (s State) String() string {
	switch s {
	case StateDeclared:
		return "declared"
	case StateDataBound:
		return "data-bound"
	case StateActive:
		return "active"
	case StateDestroyed:
		return "destroyed"
	default:
		return fmt.Sprintf("State(%d)", int(s))
	}
}

// Visual is one renderable unit: declared shader inputs, the assembled program and
// the data bound to it. A Visual is not safe for concurrent use.
type Visual interface {
	// Name returns the label used in logs and errors.
	Name() string

	// State returns the lifecycle stage.
	State() State

	// Program returns the assembled vertex and fragment sources.
	Program() shader.Program

	// Declarations returns the declared variables in declaration order.
	Declarations() []shader.Declaration

	// PrimitiveType returns the vertex topology.
	PrimitiveType() renderer.PrimitiveType

	// Size returns the element count drawn.
	Size() int

	// Static reports whether the visual ignores the navigation transform.
	Static() bool

	// Bind supplies the backend, allocates a buffer or texture per variable,
	// uploads the staged data and compiles the program. On failure every
	// allocated resource is released and the visual stays Declared.
	//
	// Parameters:
	//   - backend: the graphics backend the visual draws with
	//
	// Returns:
	//   - error: a *DeclarationError wrapping ErrMissingData, a resolution failure or a backend failure
	Bind(backend renderer.Backend) error

	// UpdateData writes a new value to a variable or compound. Before Bind the value
	// is staged as initial data; once Active it is uploaded immediately and must keep
	// the allocated shape unless WithResize is given.
	//
	// Parameters:
	//   - name: a variable or compound name
	//   - value: the new value, in any form accepted by common.AsArray
	//   - opts: variadic list of UpdateOption functions
	//
	// Returns:
	//   - error: a *UpdateError wrapping the cause
	UpdateData(name string, value any, opts ...UpdateOption) error

	// SetView writes the navigation transform. Static visuals ignore it.
	//
	// Parameters:
	//   - view: the transform to apply
	//
	// Returns:
	//   - error: a *UpdateError if the navigation uniforms cannot be written
	SetView(view common.ViewTransform) error

	// Draw submits the visual to the backend. The backend must be inside a frame.
	//
	// Returns:
	//   - error: ErrInvalidState before Bind, ErrUseAfterDestroy after Destroy, or a *renderer.BackendError
	Draw() error

	// Destroy releases every backend resource. Further operations fail with ErrUseAfterDestroy.
	//
	// Returns:
	//   - error: ErrUseAfterDestroy if already destroyed, or the first release failure
	Destroy() error

	// Bounds returns the data bounds of the visual under its BoundsPolicy.
	//
	// Returns:
	//   - common.Bounds: the bounds
	//   - bool: false if the visual has no bounds
	Bounds() (common.Bounds, bool)

	// Data returns the last value written to a variable.
	//
	// Parameters:
	//   - name: the variable name
	//
	// Returns:
	//   - common.Array: the data
	//   - bool: false if the variable has no data
	Data(name string) (common.Array, bool)
}

type visual struct {
	name    string
	dialect shader.Dialect

	registry Registry
	resolver CompoundResolver
	sources  shader.Sources
	program  shader.Program
	slots    []shader.Slot

	primitive    renderer.PrimitiveType
	size         int
	sizeFixed    bool
	boundsPolicy BoundsPolicy
	static       bool

	state   State
	backend renderer.Backend
	data    map[string]common.Array
	refs    map[string]renderer.Ref
	progRef renderer.Ref

	// first declaration failure, reported when Initialize returns
	declErr error
	sealed  bool

	pending   []pendingWrite
	overrides []pendingWrite
}

type pendingWrite struct {
	name  string
	value any
}

var _ Visual = &visual{}
var _ Declarer = &visual{}

// New runs the declaration phase of def and assembles the shader program for
// dialect. Non-static visuals receive the navigation uniforms automatically.
//
// Parameters:
//   - def: the visual type
//   - dialect: the shading language of the backend the visual will be bound to
//   - options: variadic list of VisualBuilderOption functions
//
// Returns:
//   - Visual: the declared visual
//   - error: a *DeclarationError if declaration or assembly fails
func New(def Definition, dialect shader.Dialect, options ...VisualBuilderOption) (Visual, error) {
	if def == nil || dialect == nil {
		panic("visual: New requires a definition and a dialect")
	}
	reg := NewRegistry()
	v := &visual{
		name:     fmt.Sprintf("%T", def),
		dialect:  dialect,
		registry: reg,
		resolver: NewCompoundResolver(reg),
		data:     make(map[string]common.Array),
		refs:     make(map[string]renderer.Ref),
	}
	if named, ok := def.(interface{ Name() string }); ok {
		v.name = named.Name()
	}
	for _, opt := range options {
		opt(v)
	}

	if err := def.Initialize(v); err != nil {
		return nil, v.declarationError("", err)
	}
	if v.declErr != nil {
		return nil, v.declErr
	}

	if !v.static {
		if err := v.declareNavigation(); err != nil {
			return nil, err
		}
	}

	// Compound defaults first, then explicitly staged data overrides them.
	names, defaults := v.resolver.Defaults()
	for i, name := range names {
		if err := v.stage(name, defaults[i]); err != nil {
			return nil, v.declarationError(name, err)
		}
	}
	for _, w := range append(v.pending, v.overrides...) {
		if err := v.stage(w.name, w.value); err != nil {
			return nil, v.declarationError(w.name, err)
		}
	}
	v.pending, v.overrides = nil, nil

	decls := v.registry.Declarations()
	program, err := shader.Assemble(v.dialect, decls, v.sources)
	if err != nil {
		return nil, v.declarationError("", fmt.Errorf("%w: %w", ErrInvalidDeclaration, err))
	}
	v.program = program
	v.slots = shader.AssignSlots(decls)
	v.sealed = true

	common.Logger().Debug("visual declared",
		"visual", v.name,
		"variables", len(decls),
		"vertex_bytes", len(program.VertexSource),
		"fragment_bytes", len(program.FragmentSource))
	return v, nil
}

func (v *visual) declareNavigation() error {
	identity := common.IdentityView()
	for _, u := range []Variable{
		{Name: shader.UniformViewScale, Dim: 2, Data: identity.Scale},
		{Name: shader.UniformViewTranslation, Dim: 2, Data: identity.Translation},
		{Name: shader.UniformViewRotation, Dim: 1, Data: identity.Rotation},
	} {
		if err := v.AddUniform(u); err != nil {
			return err
		}
	}
	return nil
}

func (v *visual) Name() string {
	return v.name
}

func (v *visual) State() State {
	return v.state
}

func (v *visual) Program() shader.Program {
	return v.program
}

func (v *visual) Declarations() []shader.Declaration {
	return v.registry.Declarations()
}

func (v *visual) PrimitiveType() renderer.PrimitiveType {
	return v.primitive
}

func (v *visual) Size() int {
	return v.size
}

func (v *visual) Static() bool {
	return v.static
}

func (v *visual) Data(name string) (common.Array, bool) {
	a, ok := v.data[name]
	return a, ok
}

// stage resolves a value and stores the primitive writes as initial data.
func (v *visual) stage(name string, value any) error {
	writes, err := v.resolve(name, value)
	if err != nil {
		return err
	}
	for target, a := range writes {
		decl, _ := v.registry.Lookup(target)
		if err := checkDeclaredShape(decl, a, v.sizeFixed, v.size); err != nil {
			return err
		}
		v.data[target] = a
	}
	return nil
}

// resolve expands name and converts every write to an array shaped for its declaration.
func (v *visual) resolve(name string, value any) (map[string]common.Array, error) {
	raw, err := v.resolver.Resolve(name, value)
	if err != nil {
		return nil, err
	}
	out := make(map[string]common.Array, len(raw))
	for target, val := range raw {
		decl, _ := v.registry.Lookup(target)
		if decl.Kind == shader.KindVarying {
			return nil, fmt.Errorf("%w: %q is a varying", ErrNotUpdatable, target)
		}
		a, err := normalize(decl, val)
		if err != nil {
			return nil, fmt.Errorf("%q: %w", target, err)
		}
		out[target] = a
	}
	return out, nil
}

func (v *visual) Bind(backend renderer.Backend) error {
	switch v.state {
	case StateDestroyed:
		return v.declarationError("", ErrUseAfterDestroy)
	case StateDeclared:
	default:
		return v.declarationError("", fmt.Errorf("%w: bind in state %s", ErrInvalidState, v.state))
	}
	if backend == nil {
		panic("visual: Bind requires a backend")
	}
	if backend.Dialect().Name() != v.dialect.Name() {
		return v.declarationError("", fmt.Errorf("%w: visual assembled for %s, backend compiles %s",
			ErrInvalidDeclaration, v.dialect.Name(), backend.Dialect().Name()))
	}

	decls := v.registry.Declarations()
	count := -1
	for _, d := range decls {
		if d.Kind == shader.KindVarying {
			continue
		}
		a, ok := v.data[d.Name]
		if !ok {
			return v.declarationError(d.Name, ErrMissingData)
		}
		if d.Kind != shader.KindAttribute {
			continue
		}
		if count >= 0 && a.Len() != count {
			return v.declarationError(d.Name, fmt.Errorf("%w: %d elements, other attributes have %d", ErrInvalidShape, a.Len(), count))
		}
		count = a.Len()
	}
	switch {
	case v.sizeFixed && count >= 0 && count != v.size:
		return v.declarationError("", fmt.Errorf("%w: attributes have %d elements, size is %d", ErrInvalidShape, count, v.size))
	case !v.sizeFixed && count < 0:
		return v.declarationError("", fmt.Errorf("%w: no attributes and no size", ErrInvalidDeclaration))
	case !v.sizeFixed:
		v.size = count
	}

	v.state = StateDataBound
	v.backend = backend
	if err := v.allocate(decls); err != nil {
		v.releaseAll()
		v.backend = nil
		v.state = StateDeclared
		return v.declarationError("", err)
	}
	v.state = StateActive

	common.Logger().Debug("visual bound", "visual", v.name, "backend", backend.Name(), "size", v.size)
	return nil
}

// allocate creates, uploads and compiles every backend resource of the visual.
func (v *visual) allocate(decls []shader.Declaration) error {
	for _, d := range decls {
		if d.Kind == shader.KindVarying {
			continue
		}
		a := v.data[d.Name]
		ref, err := v.backend.AllocateBuffer(bufferSpec(v.name, d, a))
		if err != nil {
			return err
		}
		v.refs[d.Name] = ref
		if err := v.backend.UploadBuffer(ref, a); err != nil {
			return err
		}
	}
	ref, err := v.backend.CompileProgram(v.program.VertexSource, v.program.FragmentSource)
	if err != nil {
		return err
	}
	v.progRef = ref
	return nil
}

func bufferSpec(visualName string, d shader.Declaration, a common.Array) renderer.BufferSpec {
	spec := renderer.BufferSpec{
		Label:     visualName + "." + d.Name,
		ValueType: d.ValueType,
		Shape:     slices.Clone(a.Shape),
		Sampling:  d.Sampling,
	}
	switch d.Kind {
	case shader.KindAttribute:
		spec.Kind = renderer.BufferVertex
	case shader.KindUniform:
		spec.Kind = renderer.BufferUniform
	case shader.KindTexture:
		spec.Kind = renderer.BufferTexture
		spec.ValueType = shader.ValueTypeFloat32
	}
	return spec
}

func (v *visual) UpdateData(name string, value any, opts ...UpdateOption) error {
	var cfg updateConfig
	for _, opt := range opts {
		opt(&cfg)
	}

	switch v.state {
	case StateDestroyed:
		return v.updateError(name, ErrUseAfterDestroy)
	case StateDeclared:
		writes, err := v.resolve(name, value)
		if err != nil {
			return v.updateError(name, err)
		}
		for target, a := range writes {
			decl, _ := v.registry.Lookup(target)
			if err := checkDeclaredShape(decl, a, v.sizeFixed && !cfg.resize, v.size); err != nil {
				return v.updateError(name, err)
			}
		}
		for target, a := range writes {
			v.data[target] = a
		}
		return nil
	case StateActive:
	default:
		return v.updateError(name, fmt.Errorf("%w: update in state %s", ErrInvalidState, v.state))
	}

	writes, err := v.resolve(name, value)
	if err != nil {
		return v.updateError(name, err)
	}
	targets := make([]string, 0, len(writes))
	for target := range writes {
		targets = append(targets, target)
	}
	slices.SortFunc(targets, func(a, b string) int {
		return v.registry.Order(a) - v.registry.Order(b)
	})

	// every target is checked before the first upload so a rejected compound
	// leaves the visual unchanged
	for _, target := range targets {
		if err := v.checkWrite(target, writes[target], cfg.resize); err != nil {
			return v.updateError(name, err)
		}
	}
	for _, target := range targets {
		if err := v.write(target, writes[target], cfg.resize); err != nil {
			return v.updateError(name, err)
		}
	}
	return nil
}

// checkWrite reports whether a value can replace the uploaded data of a variable.
func (v *visual) checkWrite(name string, a common.Array, resize bool) error {
	old := v.data[name]
	if slices.Equal(a.Shape, old.Shape) {
		return nil
	}
	if !resize {
		return fmt.Errorf("%w: %q allocated as %v, got %v", renderer.ErrShapeMismatch, name, old.Shape, a.Shape)
	}
	decl, _ := v.registry.Lookup(name)
	return checkResize(decl, old, a)
}

// write uploads one primitive value to an Active visual.
func (v *visual) write(name string, a common.Array, resize bool) error {
	ref := v.refs[name]
	if resize && !slices.Equal(a.Shape, v.data[name].Shape) {
		decl, _ := v.registry.Lookup(name)
		newRef, err := v.backend.AllocateBuffer(bufferSpec(v.name, decl, a))
		if err != nil {
			return err
		}
		if err := v.backend.UploadBuffer(newRef, a); err != nil {
			_ = v.backend.Release(newRef)
			return err
		}
		if err := v.backend.Release(ref); err != nil {
			common.Logger().Warn("visual: release of resized buffer failed", "visual", v.name, "variable", name, "err", err)
		}
		v.refs[name] = newRef
		v.data[name] = a
		if decl.Kind == shader.KindAttribute {
			v.size = a.Len()
		}
		return nil
	}

	if err := v.backend.UploadBuffer(ref, a); err != nil {
		return err
	}
	v.data[name] = a
	return nil
}

// checkResize allows a new element count or texture size but never a new component
// count or sampling path.
func checkResize(decl shader.Declaration, old, next common.Array) error {
	if old.Ndim() != next.Ndim() || old.Components() != next.Components() {
		return fmt.Errorf("%w: cannot resize %v to %v", renderer.ErrShapeMismatch, old.Shape, next.Shape)
	}
	switch decl.Kind {
	case shader.KindUniform:
		return fmt.Errorf("%w: uniform %q has a fixed size", renderer.ErrShapeMismatch, decl.Name)
	case shader.KindTexture:
		if shader.TextureNdim([2]int{next.Shape[0], next.Shape[1]}) != decl.Ndim {
			return fmt.Errorf("%w: texture %q cannot change between 1-D and 2-D", renderer.ErrShapeMismatch, decl.Name)
		}
	}
	return nil
}

func (v *visual) SetView(view common.ViewTransform) error {
	if v.static {
		return nil
	}
	if err := v.UpdateData(shader.UniformViewScale, view.Scale); err != nil {
		return err
	}
	if err := v.UpdateData(shader.UniformViewTranslation, view.Translation); err != nil {
		return err
	}
	return v.UpdateData(shader.UniformViewRotation, view.Rotation)
}

func (v *visual) Draw() error {
	switch v.state {
	case StateActive:
	case StateDestroyed:
		return fmt.Errorf("visual %s: draw: %w", v.name, ErrUseAfterDestroy)
	default:
		return fmt.Errorf("visual %s: draw: %w: state %s", v.name, ErrInvalidState, v.state)
	}

	bindings := make([]renderer.Binding, 0, len(v.slots))
	for _, slot := range v.slots {
		if slot.Kind == shader.KindVarying {
			continue
		}
		if slot.Kind == shader.KindAttribute && v.data[slot.Name].Len() != v.size {
			common.Logger().Warn("visual: skipping draw with inconsistent attribute sizes",
				"visual", v.name, "attribute", slot.Name, "elements", v.data[slot.Name].Len(), "size", v.size)
			return nil
		}
		bindings = append(bindings, renderer.Binding{Slot: slot, Ref: v.refs[slot.Name]})
	}
	return v.backend.SubmitDraw(v.progRef, bindings, v.primitive, v.size)
}

func (v *visual) Destroy() error {
	if v.state == StateDestroyed {
		return fmt.Errorf("visual %s: destroy: %w", v.name, ErrUseAfterDestroy)
	}
	err := v.releaseAll()
	v.state = StateDestroyed
	v.backend = nil
	clear(v.data)
	return err
}

// releaseAll frees every backend resource held, returning the first failure.
func (v *visual) releaseAll() error {
	if v.backend == nil {
		return nil
	}
	var errs []error
	for _, d := range v.registry.Declarations() {
		ref, ok := v.refs[d.Name]
		if !ok {
			continue
		}
		if err := v.backend.Release(ref); err != nil {
			errs = append(errs, err)
		}
		delete(v.refs, d.Name)
	}
	if v.progRef != 0 {
		if err := v.backend.Release(v.progRef); err != nil {
			errs = append(errs, err)
		}
		v.progRef = 0
	}
	if len(errs) > 0 {
		return errs[0]
	}
	return nil
}

func (v *visual) Bounds() (common.Bounds, bool) {
	if v.boundsPolicy == BoundsIgnore {
		return common.Bounds{}, false
	}
	pos, ok := v.data[shader.AttributePosition]
	if !ok {
		return common.Bounds{}, false
	}
	return common.ComputeBounds(pos)
}

func (v *visual) declarationError(name string, err error) error {
	var de *DeclarationError
	if errors.As(err, &de) {
		return err
	}
	return &DeclarationError{Visual: v.name, Name: name, Err: err}
}

func (v *visual) updateError(name string, err error) error {
	return &UpdateError{Visual: v.name, Name: name, Err: err}
}

// normalize converts a value to the array layout of its declaration: (n, dim) for
// attributes, (dim) for uniforms and (rows, columns, components) for textures.
// Flat data is reshaped; anything else is returned as is and left to shape checks.
func normalize(decl shader.Declaration, value any) (common.Array, error) {
	a, err := common.AsArray(value)
	if err != nil {
		return common.Array{}, fmt.Errorf("%w: %w", ErrInvalidShape, err)
	}
	switch decl.Kind {
	case shader.KindAttribute:
		if a.Ndim() == 1 {
			if len(a.Data)%decl.Dim != 0 {
				return common.Array{}, fmt.Errorf("%w: %d values do not split into %d components", ErrInvalidShape, len(a.Data), decl.Dim)
			}
			return a.Reshape(len(a.Data)/decl.Dim, decl.Dim)
		}
	case shader.KindUniform:
		if a.Ndim() == 2 && a.Shape[0] == 1 {
			return a.Reshape(a.Shape[1])
		}
	case shader.KindTexture:
		if a.Ndim() == 2 {
			return a.Reshape(a.Shape[0], a.Shape[1], 1)
		}
	}
	return a, nil
}

// checkDeclaredShape validates staged data against its declaration before any
// buffer exists.
func checkDeclaredShape(decl shader.Declaration, a common.Array, fixedSize bool, size int) error {
	switch decl.Kind {
	case shader.KindAttribute:
		if a.Ndim() != 2 || a.Components() != decl.Dim {
			return fmt.Errorf("%w: attribute %q needs (n, %d), got %v", ErrInvalidShape, decl.Name, decl.Dim, a.Shape)
		}
		if fixedSize && a.Len() != size {
			return fmt.Errorf("%w: attribute %q needs %d elements, got %d", ErrInvalidShape, decl.Name, size, a.Len())
		}
	case shader.KindUniform:
		if a.Ndim() != 1 || a.Len() != decl.Dim {
			return fmt.Errorf("%w: uniform %q needs (%d), got %v", ErrInvalidShape, decl.Name, decl.Dim, a.Shape)
		}
	case shader.KindTexture:
		want := []int{decl.TextureShape[0], decl.TextureShape[1], decl.Components}
		if !slices.Equal(a.Shape, want) {
			return fmt.Errorf("%w: texture %q needs %v, got %v", ErrInvalidShape, decl.Name, want, a.Shape)
		}
	}
	return nil
}
