package interaction

// ManagerBuilderOption is a functional option for configuring a Manager.
type ManagerBuilderOption func(m *manager)

// WithBindingSet sets the binding set of the manager's translator.
//
// Parameters:
//   - b: the binding set
//
// Returns:
//   - ManagerBuilderOption: option function to apply
func WithBindingSet(b BindingSet) ManagerBuilderOption {
	return func(m *manager) {
		m.bindings = b
	}
}

// WithTranslatorOptions configures the translator created by the manager.
func WithTranslatorOptions(opts ...TranslatorBuilderOption) ManagerBuilderOption {
	return func(m *manager) {
		m.transOpts = append(m.transOpts, opts...)
	}
}

// WithExtensionHandler sets the hook receiving application-declared actions.
//
// Parameters:
//   - h: the extension handler
//
// Returns:
//   - ManagerBuilderOption: option function to apply
func WithExtensionHandler(h ExtensionHandler) ManagerBuilderOption {
	return func(m *manager) {
		m.extension = h
	}
}

// WithSelectHook sets the hook receiving the data position of select actions.
//
// Parameters:
//   - hook: the select hook
//
// Returns:
//   - ManagerBuilderOption: option function to apply
func WithSelectHook(hook SelectHook) ManagerBuilderOption {
	return func(m *manager) {
		m.selectHook = hook
	}
}

// WithViewport sets the initial framebuffer size in pixels.
func WithViewport(width, height int) ManagerBuilderOption {
	return func(m *manager) {
		m.SetViewport(width, height)
	}
}

// WithFitOnReset makes reset fit the view to the scene bounds instead of restoring
// the identity transform.
func WithFitOnReset(fit bool) ManagerBuilderOption {
	return func(m *manager) {
		m.fitReset = fit
	}
}

// WithPanSpeed scales pan distances.
func WithPanSpeed(speed float32) ManagerBuilderOption {
	return func(m *manager) {
		m.panSpeed = speed
	}
}

// WithZoomSpeed scales zoom amounts.
func WithZoomSpeed(speed float32) ManagerBuilderOption {
	return func(m *manager) {
		m.zoomSpeed = speed
	}
}

// WithZoomLimits bounds the per-axis view scale.
//
// Parameters:
//   - minZoom: the smallest scale, positive
//   - maxZoom: the largest scale, not below minZoom
//
// Returns:
//   - ManagerBuilderOption: option function to apply
func WithZoomLimits(minZoom, maxZoom float32) ManagerBuilderOption {
	return func(m *manager) {
		m.minZoom, m.maxZoom = minZoom, maxZoom
	}
}
