package config

import (
	"bytes"
	"errors"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/Carmen-Shannon/oxy-viz/common"
	"github.com/Carmen-Shannon/oxy-viz/engine/interaction"
	"github.com/Carmen-Shannon/oxy-viz/engine/renderer"
	"github.com/Carmen-Shannon/oxy-viz/engine/scene"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var testToggle = interaction.MustDeclareActionKind("config-test-toggle")

const tomlConfig = `
[window]
title = "points"
width = 800
height = 600

[render]
backend = "headless"
frame_limit = 30.0
msaa = 4

[interaction]
precedence = "base-first"
min_zoom = 0.5
max_zoom = 8.0
double_click_ms = 250

[[interaction.bindings]]
event = "key-down"
key = "space"
action = "config-test-toggle"

[[interaction.bindings]]
event = "pointer-press"
button = "left"
modifiers = ["shift"]
action = "select"
`

const yamlConfig = `
window:
  title: points
  width: 800
  height: 600
render:
  backend: headless
  frame_limit: 30
  msaa: 4
interaction:
  precedence: base-first
  min_zoom: 0.5
  max_zoom: 8
  double_click_ms: 250
  bindings:
    - event: key-down
      key: space
      action: config-test-toggle
    - event: pointer-press
      button: left
      modifiers: [shift]
      action: select
`

func assertLoaded(t *testing.T, cfg Config) {
	t.Helper()
	assert.Equal(t, "points", cfg.Window.Title)
	assert.Equal(t, 800, cfg.Window.Width)
	assert.True(t, cfg.Window.Resizable, "missing keys keep their default")
	assert.Equal(t, "headless", cfg.Render.Backend)
	assert.Equal(t, 30.0, cfg.Render.FrameLimit)
	assert.Equal(t, uint32(4), cfg.Render.MSAA)
	assert.Equal(t, "base-first", cfg.Interaction.Precedence)
	assert.Equal(t, float32(0.5), cfg.Interaction.MinZoom)
	assert.Equal(t, interaction.DefaultPanSpeed, cfg.Interaction.PanSpeed)
	require.Len(t, cfg.Interaction.Bindings, 2)
	assert.Equal(t, []string{"shift"}, cfg.Interaction.Bindings[1].Modifiers)
}

func TestDecode_TOML(t *testing.T) {
	cfg, err := Decode(strings.NewReader(tomlConfig), FormatTOML)
	require.NoError(t, err)
	assertLoaded(t, cfg)
}

func TestDecode_YAML(t *testing.T) {
	cfg, err := Decode(strings.NewReader(yamlConfig), FormatYAML)
	require.NoError(t, err)
	assertLoaded(t, cfg)
}

func TestDecode_EmptyYAMLIsDefault(t *testing.T) {
	cfg, err := Decode(strings.NewReader(""), FormatYAML)
	require.NoError(t, err)
	assert.Equal(t, Default(), cfg)
}

func TestDecode_UnknownFieldsRejected(t *testing.T) {
	_, err := Decode(strings.NewReader("[window]\ncolour = 1\n"), FormatTOML)
	assert.Error(t, err)

	_, err = Decode(strings.NewReader("window:\n  colour: 1\n"), FormatYAML)
	assert.Error(t, err)
}

func TestLoad_ChoosesFormatByExtension(t *testing.T) {
	dir := t.TempDir()
	tomlPath := filepath.Join(dir, "viz.toml")
	yamlPath := filepath.Join(dir, "viz.yml")
	require.NoError(t, os.WriteFile(tomlPath, []byte(tomlConfig), 0o644))
	require.NoError(t, os.WriteFile(yamlPath, []byte(yamlConfig), 0o644))

	cfg, err := Load(tomlPath)
	require.NoError(t, err)
	assertLoaded(t, cfg)

	cfg, err = Load(yamlPath)
	require.NoError(t, err)
	assertLoaded(t, cfg)

	_, err = Load(filepath.Join(dir, "viz.json"))
	assert.ErrorIs(t, err, ErrUnknownFormat)

	_, err = Load(filepath.Join(dir, "missing.toml"))
	assert.ErrorIs(t, err, os.ErrNotExist)
}

func TestValidate(t *testing.T) {
	tests := []struct {
		name   string
		mutate func(*Config)
	}{
		{"window size", func(c *Config) { c.Window.Width = 0 }},
		{"backend", func(c *Config) { c.Render.Backend = "vulkan" }},
		{"frame limit", func(c *Config) { c.Render.FrameLimit = -1 }},
		{"msaa", func(c *Config) { c.Render.MSAA = 2 }},
		{"precedence", func(c *Config) { c.Interaction.Precedence = "" }},
		{"zoom limits", func(c *Config) { c.Interaction.MinZoom = 4; c.Interaction.MaxZoom = 2 }},
		{"speeds", func(c *Config) { c.Interaction.PanSpeed = 0 }},
		{"binding event", func(c *Config) {
			c.Interaction.Bindings = []BindingRow{{Event: "keypress", Action: "pan"}}
		}},
		{"binding key", func(c *Config) {
			c.Interaction.Bindings = []BindingRow{{Event: "key-down", Key: "hyper", Action: "pan"}}
		}},
		{"binding action", func(c *Config) {
			c.Interaction.Bindings = []BindingRow{{Event: "key-down", Key: "t"}}
		}},
	}
	require.NoError(t, Default().Validate())
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := Default()
			tt.mutate(&cfg)
			assert.Error(t, cfg.Validate())
		})
	}
}

func TestValidate_PrecedenceIsBindingConfigurationError(t *testing.T) {
	cfg := Default()
	cfg.Interaction.Precedence = "whatever"
	err := cfg.Validate()
	var bce *interaction.BindingConfigurationError
	assert.True(t, errors.As(err, &bce))
	assert.ErrorIs(t, err, interaction.ErrUnsetPrecedence)
}

func TestBindingExtender(t *testing.T) {
	ext, err := BindingExtender([]BindingRow{
		{Event: "key-down", Key: "space", Action: "config-test-toggle"},
		{Event: "pointer-press", Button: "middle", Modifiers: []string{"ctrl"}, Action: "reset"},
	})
	require.NoError(t, err)
	entries := ext.Extend()
	require.Len(t, entries, 2)
	assert.Equal(t, interaction.EventKeyDown, entries[0].Event)
	assert.Equal(t, common.KeySpace, entries[0].Key)
	assert.Equal(t, testToggle, entries[0].Action)
	assert.Equal(t, common.ButtonMiddle, entries[1].Button)
	assert.Equal(t, common.ModControl, entries[1].Modifiers)
	assert.Equal(t, interaction.ActionReset, entries[1].Action)
}

func TestBindingExtender_UnknownAction(t *testing.T) {
	_, err := BindingExtender([]BindingRow{
		{Event: "key-down", Key: "t", Action: "pan"},
		{Event: "key-down", Key: "t", Action: "never-declared"},
	})
	var bce *interaction.BindingConfigurationError
	require.True(t, errors.As(err, &bce))
	assert.Equal(t, 1, bce.Index)
	assert.ErrorIs(t, err, interaction.ErrUnknownActionKind)
}

func TestManagerOptions_RowsDriveTheManager(t *testing.T) {
	cfg, err := Decode(strings.NewReader(tomlConfig), FormatTOML)
	require.NoError(t, err)
	opts, err := cfg.ManagerOptions()
	require.NoError(t, err)

	var got []interaction.Action
	opts = append(opts, interaction.WithExtensionHandler(interaction.ExtensionHandlerFunc(
		func(_ interaction.Manager, a interaction.Action) error {
			got = append(got, a)
			return nil
		})))

	s := scene.NewScene("cfg", renderer.NewHeadlessBackend())
	m, err := interaction.NewManager(s, opts...)
	require.NoError(t, err)
	assert.Equal(t, interaction.BaseFirst, m.Translator().Bindings().Precedence())

	w, h := m.Viewport()
	assert.Equal(t, 800, w)
	assert.Equal(t, 600, h)

	require.NoError(t, m.Process(interaction.RawEvent{
		Kind:      interaction.EventKeyDown,
		Key:       common.KeySpace,
		Timestamp: time.Now(),
	}))
	require.Len(t, got, 1)
	assert.Equal(t, testToggle, got[0].Kind)
}

func TestRendererAndWindowOptions(t *testing.T) {
	cfg := Default()
	cfg.Render.Backend = "opengl"
	bt, opts, err := cfg.RendererOptions()
	require.NoError(t, err)
	assert.Equal(t, renderer.BackendTypeOpenGL, bt)
	assert.Len(t, opts, 4)
	assert.Len(t, cfg.WindowOptions(), 4)

	cfg.Render.Backend = "metal"
	_, _, err = cfg.RendererOptions()
	assert.Error(t, err)
}

func TestEncode(t *testing.T) {
	cfg := Default()
	cfg.Interaction.Bindings = []BindingRow{{Event: "key-down", Key: "space", Action: "config-test-toggle"}}

	var buf bytes.Buffer
	require.NoError(t, cfg.Encode(&buf, FormatTOML))
	assert.Contains(t, buf.String(), "[interaction]")
	assert.Contains(t, buf.String(), "config-test-toggle")

	buf.Reset()
	require.NoError(t, cfg.Encode(&buf, FormatYAML))
	assert.Contains(t, buf.String(), "backend: wgpu")
	assert.Contains(t, buf.String(), "action: config-test-toggle")
}
