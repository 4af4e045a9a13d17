package visual

import (
	"fmt"
	"slices"
)

// ExpandFunc expands the value of a compound parameter into writes on primitive
// variables, keyed by variable name.
type ExpandFunc func(value any) (map[string]any, error)

type compound struct {
	name         string
	expand       ExpandFunc
	defaultValue any

	// variables registered at or after this index are out of reach of the compound
	horizon int
}

// CompoundResolver expands user-facing parameters into primitive variable writes.
type CompoundResolver interface {
	// DeclareCompound registers a compound parameter. Its expansion may only target
	// primitive variables registered before the compound; the targets are checked on
	// every resolve since they may depend on the value.
	//
	// Parameters:
	//   - name: the parameter name, unique among variables and compounds
	//   - fn: the expansion function
	//   - defaultValue: the value applied when no data is supplied, or nil for none
	//
	// Returns:
	//   - error: ErrDuplicateName if the name is taken, ErrInvalidDeclaration if fn is nil
	DeclareCompound(name string, fn ExpandFunc, defaultValue any) error

	// Resolve maps a named value to primitive writes. A compound is expanded; a
	// primitive variable passes through as {name: value}.
	//
	// Parameters:
	//   - name: a compound or variable name
	//   - value: the supplied value
	//
	// Returns:
	//   - map[string]any: the primitive writes
	//   - error: ErrUnknownVariable for unknown names, ErrUnknownTargetVariable when an
	//     expansion escapes its containment, or the expansion's own error
	Resolve(name string, value any) (map[string]any, error)

	// IsCompound reports whether name is a registered compound.
	IsCompound(name string) bool

	// Defaults returns the compounds that carry a default value, in declaration order.
	//
	// Returns:
	//   - []string: the compound names
	//   - []any: the default values, index-aligned with the names
	Defaults() ([]string, []any)
}

type compoundResolver struct {
	reg       Registry
	compounds map[string]*compound
	order     []string
}

var _ CompoundResolver = &compoundResolver{}

// NewCompoundResolver creates a resolver over the variables of reg.
//
// Parameters:
//   - reg: the registry holding the primitive variables
//
// Returns:
//   - CompoundResolver: the resolver
func NewCompoundResolver(reg Registry) CompoundResolver {
	return &compoundResolver{
		reg:       reg,
		compounds: make(map[string]*compound),
	}
}

func (c *compoundResolver) DeclareCompound(name string, fn ExpandFunc, defaultValue any) error {
	if fn == nil {
		return fmt.Errorf("%w: compound %q has no expansion function", ErrInvalidDeclaration, name)
	}
	if err := c.reg.reserve(name); err != nil {
		return err
	}
	c.compounds[name] = &compound{
		name:         name,
		expand:       fn,
		defaultValue: defaultValue,
		horizon:      c.reg.Len(),
	}
	c.order = append(c.order, name)
	return nil
}

func (c *compoundResolver) Resolve(name string, value any) (map[string]any, error) {
	comp, ok := c.compounds[name]
	if !ok {
		if _, ok := c.reg.Lookup(name); !ok {
			return nil, fmt.Errorf("%w: %q", ErrUnknownVariable, name)
		}
		return map[string]any{name: value}, nil
	}

	writes, err := comp.expand(value)
	if err != nil {
		return nil, fmt.Errorf("compound %q: %w", name, err)
	}
	targets := make([]string, 0, len(writes))
	for target := range writes {
		targets = append(targets, target)
	}
	slices.Sort(targets)
	for _, target := range targets {
		order := c.reg.Order(target)
		if order < 0 || order >= comp.horizon {
			return nil, fmt.Errorf("%w: compound %q writes %q", ErrUnknownTargetVariable, name, target)
		}
	}
	return writes, nil
}

func (c *compoundResolver) IsCompound(name string) bool {
	_, ok := c.compounds[name]
	return ok
}

func (c *compoundResolver) Defaults() ([]string, []any) {
	var names []string
	var values []any
	for _, name := range c.order {
		if d := c.compounds[name].defaultValue; d != nil {
			names = append(names, name)
			values = append(values, d)
		}
	}
	return names, values
}
