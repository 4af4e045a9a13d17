package visual

import (
	"fmt"
	"slices"

	"github.com/Carmen-Shannon/oxy-viz/engine/renderer/shader"
)

// Registry is the ShaderVariableRegistry: the ordered, typed record of the
// variables a visual declares.
type Registry interface {
	// Declare registers a variable.
	//
	// Parameters:
	//   - decl: the variable declaration
	//
	// Returns:
	//   - error: ErrDuplicateName if the name is taken, ErrInvalidShape for a texture
	//     with a non-positive axis, ErrInvalidDeclaration for out-of-range parameters
	Declare(decl shader.Declaration) error

	// Lookup returns the declaration registered under name.
	//
	// Parameters:
	//   - name: the variable name
	//
	// Returns:
	//   - shader.Declaration: the declaration
	//   - bool: false if no variable has that name
	Lookup(name string) (shader.Declaration, bool)

	// Order returns the position of a variable in declaration order.
	//
	// Parameters:
	//   - name: the variable name
	//
	// Returns:
	//   - int: the zero-based declaration index, or -1 if the name is not declared
	Order(name string) int

	// Declarations returns every declaration in registration order.
	//
	// Returns:
	//   - []shader.Declaration: a copy of the declarations
	Declarations() []shader.Declaration

	// Len returns the number of registered variables.
	Len() int

	// reserve claims a name for a compound so that variables and compounds share one namespace.
	reserve(name string) error
}

type registry struct {
	decls []shader.Declaration
	index map[string]int
	names map[string]struct{}
}

var _ Registry = &registry{}

// NewRegistry creates an empty variable registry.
//
// Returns:
//   - Registry: the registry
func NewRegistry() Registry {
	return &registry{
		index: make(map[string]int),
		names: make(map[string]struct{}),
	}
}

func (r *registry) Declare(decl shader.Declaration) error {
	if decl.Name == "" {
		return fmt.Errorf("%w: empty variable name", ErrInvalidDeclaration)
	}
	if _, taken := r.names[decl.Name]; taken {
		return fmt.Errorf("%w: %q", ErrDuplicateName, decl.Name)
	}
	if err := validateDeclaration(decl); err != nil {
		return err
	}
	r.names[decl.Name] = struct{}{}
	r.index[decl.Name] = len(r.decls)
	r.decls = append(r.decls, decl)
	return nil
}

func (r *registry) reserve(name string) error {
	if name == "" {
		return fmt.Errorf("%w: empty compound name", ErrInvalidDeclaration)
	}
	if _, taken := r.names[name]; taken {
		return fmt.Errorf("%w: %q", ErrDuplicateName, name)
	}
	r.names[name] = struct{}{}
	return nil
}

func (r *registry) Lookup(name string) (shader.Declaration, bool) {
	i, ok := r.index[name]
	if !ok {
		return shader.Declaration{}, false
	}
	return r.decls[i], true
}

func (r *registry) Order(name string) int {
	if i, ok := r.index[name]; ok {
		return i
	}
	return -1
}

func (r *registry) Declarations() []shader.Declaration {
	return slices.Clone(r.decls)
}

func (r *registry) Len() int {
	return len(r.decls)
}

func validateDeclaration(d shader.Declaration) error {
	if d.Kind == shader.KindTexture {
		if d.TextureShape[0] <= 0 || d.TextureShape[1] <= 0 {
			return fmt.Errorf("%w: texture %q has shape %v", ErrInvalidShape, d.Name, d.TextureShape)
		}
		if d.Components < 1 || d.Components > 4 {
			return fmt.Errorf("%w: texture %q has %d components, want 1 to 4", ErrInvalidDeclaration, d.Name, d.Components)
		}
		if d.Ndim != shader.TextureNdim(d.TextureShape) {
			return fmt.Errorf("%w: texture %q has ndim %d for shape %v", ErrInvalidDeclaration, d.Name, d.Ndim, d.TextureShape)
		}
		return nil
	}
	if d.Dim < 1 || d.Dim > 4 {
		return fmt.Errorf("%w: %s %q has %d components, want 1 to 4", ErrInvalidDeclaration, d.Kind, d.Name, d.Dim)
	}
	return nil
}
