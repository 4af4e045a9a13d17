package interaction

// BindingSetBuilderOption is a functional option for configuring a BindingSet.
type BindingSetBuilderOption func(b *bindingSet)

// WithExtenders appends extenders whose entries are merged with the base bindings.
//
// Parameters:
//   - extenders: the extenders, consulted in the given order
//
// Returns:
//   - BindingSetBuilderOption: option function to apply
func WithExtenders(extenders ...Extender) BindingSetBuilderOption {
	return func(b *bindingSet) {
		b.extenders = append(b.extenders, extenders...)
	}
}

// WithEntries appends extension entries directly.
//
// Parameters:
//   - entries: the entries, in match order
//
// Returns:
//   - BindingSetBuilderOption: option function to apply
func WithEntries(entries ...BindingEntry) BindingSetBuilderOption {
	return func(b *bindingSet) {
		b.extenders = append(b.extenders, ExtenderFunc(func() []BindingEntry { return entries }))
	}
}

// WithBaseBindings replaces the base bindings. Passing no entries drops them entirely.
//
// Parameters:
//   - entries: the base entries
//
// Returns:
//   - BindingSetBuilderOption: option function to apply
func WithBaseBindings(entries ...BindingEntry) BindingSetBuilderOption {
	return func(b *bindingSet) {
		b.base = entries
	}
}
