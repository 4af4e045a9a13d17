// Package config loads application settings for a visualization window from
// TOML or YAML files and turns them into builder options for the window, the
// renderer backend and the interaction manager.
package config

import (
	"bytes"
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/Carmen-Shannon/oxy-viz/common"
	"github.com/Carmen-Shannon/oxy-viz/engine/interaction"
	"github.com/Carmen-Shannon/oxy-viz/engine/renderer"
	"github.com/Carmen-Shannon/oxy-viz/engine/window"
	"github.com/pelletier/go-toml/v2"
	"gopkg.in/yaml.v3"
)

// Format is the encoding of a configuration file.
type Format int

const (
	FormatTOML Format = iota
	FormatYAML
)

// ErrUnknownFormat is returned by Load for file extensions other than .toml, .yaml and .yml.
var ErrUnknownFormat = errors.New("config: unknown file format")

// Config is the root of a configuration file.
type Config struct {
	Window      WindowConfig      `toml:"window" yaml:"window"`
	Render      RenderConfig      `toml:"render" yaml:"render"`
	Interaction InteractionConfig `toml:"interaction" yaml:"interaction"`
}

// WindowConfig configures the platform window.
type WindowConfig struct {
	Title     string `toml:"title" yaml:"title"`
	Width     int    `toml:"width" yaml:"width"`
	Height    int    `toml:"height" yaml:"height"`
	Resizable bool   `toml:"resizable" yaml:"resizable"`
}

// RenderConfig configures the graphics backend and the render loop.
type RenderConfig struct {
	// Backend is "wgpu", "opengl" or "headless".
	Backend string `toml:"backend" yaml:"backend"`

	// FrameLimit caps the render rate in frames per second; 0 is uncapped.
	FrameLimit float64 `toml:"frame_limit" yaml:"frame_limit"`

	VSync           bool       `toml:"vsync" yaml:"vsync"`
	MSAA            uint32     `toml:"msaa" yaml:"msaa"`
	ClearColor      [4]float32 `toml:"clear_color" yaml:"clear_color"`
	ValidateShaders bool       `toml:"validate_shaders" yaml:"validate_shaders"`
}

// InteractionConfig configures navigation and the binding table.
type InteractionConfig struct {
	// Precedence is "extensions-first" or "base-first".
	Precedence string `toml:"precedence" yaml:"precedence"`

	PanSpeed      float32 `toml:"pan_speed" yaml:"pan_speed"`
	ZoomSpeed     float32 `toml:"zoom_speed" yaml:"zoom_speed"`
	MinZoom       float32 `toml:"min_zoom" yaml:"min_zoom"`
	MaxZoom       float32 `toml:"max_zoom" yaml:"max_zoom"`
	DragThreshold float32 `toml:"drag_threshold" yaml:"drag_threshold"`
	DoubleClickMS int     `toml:"double_click_ms" yaml:"double_click_ms"`
	FitOnReset    bool    `toml:"fit_on_reset" yaml:"fit_on_reset"`

	// Bindings are extension entries added on top of the base bindings.
	Bindings []BindingRow `toml:"bindings" yaml:"bindings"`
}

// BindingRow declares one extension binding by name.
type BindingRow struct {
	// Event is a kebab-case event kind such as "key-down" or "pointer-drag".
	Event string `toml:"event" yaml:"event"`

	// Key names the key of key events, e.g. "space" or "t".
	Key string `toml:"key,omitempty" yaml:"key,omitempty"`

	// Button is "left", "right", "middle" or empty for any button.
	Button string `toml:"button,omitempty" yaml:"button,omitempty"`

	// Modifiers lists held modifiers: "shift", "control", "alt", "super".
	Modifiers []string `toml:"modifiers,omitempty" yaml:"modifiers,omitempty"`

	// Action names a declared action kind.
	Action string `toml:"action" yaml:"action"`
}

// Default returns the configuration used when no file is given.
//
// Returns:
//   - Config: the default configuration
func Default() Config {
	return Config{
		Window: WindowConfig{
			Title:     "oxy-viz",
			Width:     1280,
			Height:    720,
			Resizable: true,
		},
		Render: RenderConfig{
			Backend:    renderer.BackendTypeWGPU.String(),
			VSync:      true,
			MSAA:       uint32(renderer.MSAAOff),
			ClearColor: [4]float32{0, 0, 0, 1},
		},
		Interaction: InteractionConfig{
			Precedence:    interaction.ExtensionsFirst.String(),
			PanSpeed:      interaction.DefaultPanSpeed,
			ZoomSpeed:     interaction.DefaultZoomSpeed,
			MinZoom:       interaction.DefaultMinZoom,
			MaxZoom:       interaction.DefaultMaxZoom,
			DragThreshold: interaction.DefaultDragThreshold,
			DoubleClickMS: int(interaction.DefaultDoubleClickInterval / time.Millisecond),
		},
	}
}

// Load reads and validates a configuration file. The format follows the file
// extension. Keys missing from the file keep their Default value; unknown keys are
// rejected.
//
// Parameters:
//   - path: the .toml, .yaml or .yml file
//
// Returns:
//   - Config: the loaded configuration
//   - error: an error if the file cannot be read, decoded or validated
func Load(path string) (Config, error) {
	var format Format
	switch strings.ToLower(filepath.Ext(path)) {
	case ".toml":
		format = FormatTOML
	case ".yaml", ".yml":
		format = FormatYAML
	default:
		return Config{}, fmt.Errorf("%w: %s", ErrUnknownFormat, path)
	}
	data, err := os.ReadFile(path)
	if err != nil {
		return Config{}, fmt.Errorf("config: %w", err)
	}
	cfg, err := Decode(bytes.NewReader(data), format)
	if err != nil {
		return Config{}, fmt.Errorf("config: %s: %w", path, err)
	}
	common.Logger().Info("configuration loaded", "path", path)
	return cfg, nil
}

// Decode reads a configuration in the given format on top of Default and validates it.
//
// Parameters:
//   - r: the encoded configuration
//   - format: FormatTOML or FormatYAML
//
// Returns:
//   - Config: the decoded configuration
//   - error: a decoding or validation error
func Decode(r io.Reader, format Format) (Config, error) {
	cfg := Default()
	switch format {
	case FormatTOML:
		dec := toml.NewDecoder(r)
		dec.DisallowUnknownFields()
		if err := dec.Decode(&cfg); err != nil {
			var strict *toml.StrictMissingError
			if errors.As(err, &strict) {
				return Config{}, fmt.Errorf("config: %s", strict.String())
			}
			return Config{}, fmt.Errorf("config: toml: %w", err)
		}
	case FormatYAML:
		dec := yaml.NewDecoder(r)
		dec.KnownFields(true)
		if err := dec.Decode(&cfg); err != nil && !errors.Is(err, io.EOF) {
			return Config{}, fmt.Errorf("config: yaml: %w", err)
		}
	default:
		return Config{}, ErrUnknownFormat
	}
	if err := cfg.Validate(); err != nil {
		return Config{}, err
	}
	return cfg, nil
}

// Encode writes the configuration in the given format.
func (c Config) Encode(w io.Writer, format Format) error {
	switch format {
	case FormatTOML:
		return toml.NewEncoder(w).Encode(c)
	case FormatYAML:
		enc := yaml.NewEncoder(w)
		if err := enc.Encode(c); err != nil {
			return err
		}
		return enc.Close()
	}
	return ErrUnknownFormat
}

// Validate checks every value that can be checked without a window. Binding rows
// are checked except for their action names, which may be declared later.
//
// Returns:
//   - error: all problems joined, or nil
func (c Config) Validate() error {
	var errs []error
	if c.Window.Width <= 0 || c.Window.Height <= 0 {
		errs = append(errs, fmt.Errorf("config: window size %dx%d must be positive", c.Window.Width, c.Window.Height))
	}
	if _, err := renderer.ParseBackendType(c.Render.Backend); err != nil {
		errs = append(errs, fmt.Errorf("config: render.backend: %w", err))
	}
	if c.Render.FrameLimit < 0 {
		errs = append(errs, fmt.Errorf("config: render.frame_limit %g is negative", c.Render.FrameLimit))
	}
	switch renderer.MSAASampleCount(c.Render.MSAA) {
	case renderer.MSAAOff, renderer.MSAA4x:
	default:
		errs = append(errs, fmt.Errorf("config: render.msaa must be 1 or 4, got %d", c.Render.MSAA))
	}
	if _, err := interaction.ParsePrecedence(c.Interaction.Precedence); err != nil {
		errs = append(errs, fmt.Errorf("config: interaction.precedence: %w", err))
	}
	in := c.Interaction
	if in.MinZoom <= 0 || in.MaxZoom < in.MinZoom {
		errs = append(errs, fmt.Errorf("config: zoom limits [%g, %g] are invalid", in.MinZoom, in.MaxZoom))
	}
	if in.PanSpeed <= 0 || in.ZoomSpeed <= 0 {
		errs = append(errs, fmt.Errorf("config: pan_speed and zoom_speed must be positive"))
	}
	if in.DragThreshold < 0 || in.DoubleClickMS < 0 {
		errs = append(errs, fmt.Errorf("config: drag_threshold and double_click_ms must not be negative"))
	}
	for i, row := range in.Bindings {
		if _, err := row.entry(interaction.ActionKind(0)); err != nil {
			errs = append(errs, fmt.Errorf("config: interaction.bindings[%d]: %w", i, err))
		}
	}
	return errors.Join(errs...)
}

// WindowOptions returns the window builder options of the configuration. The
// OpenGL backend gets a window with an OpenGL context.
//
// Returns:
//   - []window.WindowBuilderOption: the options
func (c Config) WindowOptions() []window.WindowBuilderOption {
	api := window.ClientAPINone
	if c.Render.Backend == renderer.BackendTypeOpenGL.String() {
		api = window.ClientAPIOpenGL
	}
	return []window.WindowBuilderOption{
		window.WithTitle(c.Window.Title),
		window.WithSize(c.Window.Width, c.Window.Height),
		window.WithResizable(c.Window.Resizable),
		window.WithClientAPI(api),
	}
}

// RendererOptions returns the backend type and the renderer builder options.
//
// Returns:
//   - renderer.BackendType: the configured backend
//   - []renderer.RendererBuilderOption: the options
//   - error: an error if the backend name is unknown
func (c Config) RendererOptions() (renderer.BackendType, []renderer.RendererBuilderOption, error) {
	bt, err := renderer.ParseBackendType(c.Render.Backend)
	if err != nil {
		return 0, nil, fmt.Errorf("config: %w", err)
	}
	mode := renderer.PresentModeUncapped
	if c.Render.VSync {
		mode = renderer.PresentModeVSync
	}
	return bt, []renderer.RendererBuilderOption{
		renderer.WithPresentMode(mode),
		renderer.WithMSAA(renderer.MSAASampleCount(c.Render.MSAA)),
		renderer.WithClearColor(c.Render.ClearColor),
		renderer.WithShaderValidation(c.Render.ValidateShaders),
	}, nil
}

// ManagerOptions builds the binding set from the base bindings, the declared rows
// and any extra extenders, and returns it together with the navigation settings
// as interaction manager options.
//
// Parameters:
//   - extra: application extenders consulted after the rows
//
// Returns:
//   - []interaction.ManagerBuilderOption: the options
//   - error: a *interaction.BindingConfigurationError for invalid rows or precedence
func (c Config) ManagerOptions(extra ...interaction.Extender) ([]interaction.ManagerBuilderOption, error) {
	in := c.Interaction
	precedence, err := interaction.ParsePrecedence(in.Precedence)
	if err != nil {
		return nil, err
	}
	rows, err := BindingExtender(in.Bindings)
	if err != nil {
		return nil, err
	}
	bindings, err := interaction.NewBindingSet(precedence,
		interaction.WithExtenders(append([]interaction.Extender{rows}, extra...)...))
	if err != nil {
		return nil, err
	}
	return []interaction.ManagerBuilderOption{
		interaction.WithBindingSet(bindings),
		interaction.WithPanSpeed(in.PanSpeed),
		interaction.WithZoomSpeed(in.ZoomSpeed),
		interaction.WithZoomLimits(in.MinZoom, in.MaxZoom),
		interaction.WithFitOnReset(in.FitOnReset),
		interaction.WithViewport(c.Window.Width, c.Window.Height),
		interaction.WithTranslatorOptions(
			interaction.WithDragThreshold(in.DragThreshold),
			interaction.WithDoubleClickInterval(time.Duration(in.DoubleClickMS)*time.Millisecond),
		),
	}, nil
}

// BindingExtender resolves declared binding rows into an interaction.Extender.
// Action names are looked up in the action-kind registry, so custom kinds must be
// declared before calling it.
//
// Parameters:
//   - rows: the declared rows, in match order
//
// Returns:
//   - interaction.Extender: an extender returning the resolved entries
//   - error: a *interaction.BindingConfigurationError for the first invalid row
func BindingExtender(rows []BindingRow) (interaction.Extender, error) {
	entries := make([]interaction.BindingEntry, 0, len(rows))
	for i, row := range rows {
		kind, ok := interaction.LookupActionKind(row.Action)
		if !ok {
			return nil, &interaction.BindingConfigurationError{
				Index: i,
				Err:   fmt.Errorf("%w: %q", interaction.ErrUnknownActionKind, row.Action),
			}
		}
		entry, err := row.entry(kind)
		if err != nil {
			return nil, &interaction.BindingConfigurationError{Index: i, Entry: entry, Err: err}
		}
		entries = append(entries, entry)
	}
	return interaction.ExtenderFunc(func() []interaction.BindingEntry {
		return entries
	}), nil
}

// entry converts the event pattern of the row and attaches kind.
func (r BindingRow) entry(kind interaction.ActionKind) (interaction.BindingEntry, error) {
	var e interaction.BindingEntry
	if r.Action == "" {
		return e, fmt.Errorf("%w: missing action", interaction.ErrMalformedBinding)
	}
	ev, err := interaction.ParseEventKind(r.Event)
	if err != nil {
		return e, fmt.Errorf("%w: %v", interaction.ErrMalformedBinding, err)
	}
	e.Event = ev
	if r.Key != "" {
		if e.Key, err = common.ParseKey(r.Key); err != nil {
			return e, fmt.Errorf("%w: %v", interaction.ErrMalformedBinding, err)
		}
	}
	if e.Button, err = common.ParseMouseButton(r.Button); err != nil {
		return e, fmt.Errorf("%w: %v", interaction.ErrMalformedBinding, err)
	}
	if e.Modifiers, err = common.ParseModifiers(r.Modifiers...); err != nil {
		return e, fmt.Errorf("%w: %v", interaction.ErrMalformedBinding, err)
	}
	e.Action = kind
	return e, nil
}
