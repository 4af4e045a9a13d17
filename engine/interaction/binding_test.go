package interaction

import (
	"testing"

	"github.com/Carmen-Shannon/oxy-viz/common"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func spaceDown() RawEvent {
	return RawEvent{Kind: EventKeyDown, Key: common.KeySpace}
}

func TestBindingFirstMatchWins(t *testing.T) {
	set, err := NewBindingSet(ExtensionsFirst, WithEntries(
		BindingEntry{Event: EventKeyDown, Key: common.KeySpace, Action: testKindA},
		BindingEntry{Event: EventKeyDown, Key: common.KeySpace, Action: testKindB},
	))
	require.NoError(t, err)

	tr := NewTranslator(set)
	for i := 0; i < 3; i++ {
		a, ok := tr.Translate(spaceDown())
		require.True(t, ok)
		assert.Equal(t, testKindA, a.Kind)
	}
}

func TestBindingPrecedence(t *testing.T) {
	shadow := BindingEntry{Event: EventKeyDown, Key: common.KeyR, Action: testKindA}

	ext, err := NewBindingSet(ExtensionsFirst, WithEntries(shadow))
	require.NoError(t, err)
	e, ok := ext.Match(RawEvent{Kind: EventKeyDown, Key: common.KeyR})
	require.True(t, ok)
	assert.Equal(t, testKindA, e.Action)

	base, err := NewBindingSet(BaseFirst, WithEntries(shadow))
	require.NoError(t, err)
	e, ok = base.Match(RawEvent{Kind: EventKeyDown, Key: common.KeyR})
	require.True(t, ok)
	assert.Equal(t, ActionReset, e.Action)
	assert.Equal(t, BaseFirst, base.Precedence())
	assert.Len(t, base.Entries(), len(BaseBindings())+1)
}

func TestBindingUnsetPrecedence(t *testing.T) {
	_, err := NewBindingSet(PrecedenceUnset)
	assert.ErrorIs(t, err, ErrUnsetPrecedence)
	var bce *BindingConfigurationError
	assert.ErrorAs(t, err, &bce)

	_, err = ParsePrecedence("sometimes")
	assert.ErrorIs(t, err, ErrUnsetPrecedence)

	p, err := ParsePrecedence("extensions-first")
	require.NoError(t, err)
	assert.Equal(t, ExtensionsFirst, p)
	assert.Equal(t, "base-first", BaseFirst.String())
}

func TestBindingMalformedEntries(t *testing.T) {
	cases := []struct {
		name  string
		entry BindingEntry
		err   error
	}{
		{"no event", BindingEntry{Action: testKindA}, ErrMalformedBinding},
		{"undeclared kind", BindingEntry{Event: EventWheel, Action: ActionKind(1 << 20)}, ErrUnknownActionKind},
		{"zero kind", BindingEntry{Event: EventWheel}, ErrUnknownActionKind},
		{"key event without key", BindingEntry{Event: EventKeyDown, Action: testKindA}, ErrMalformedBinding},
		{"key on pointer event", BindingEntry{Event: EventClick, Key: common.KeyA, Action: testKindA}, ErrMalformedBinding},
		{"button on wheel", BindingEntry{Event: EventWheel, Button: common.ButtonLeft, Action: testKindA}, ErrMalformedBinding},
		{"lock modifier", BindingEntry{Event: EventWheel, Modifiers: 0x10, Action: testKindA}, ErrMalformedBinding},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			_, err := NewBindingSet(ExtensionsFirst, WithEntries(tc.entry))
			require.Error(t, err)
			assert.ErrorIs(t, err, tc.err)
			var bce *BindingConfigurationError
			require.ErrorAs(t, err, &bce)
			assert.Equal(t, 0, bce.Index)
		})
	}
}

func TestBindingMatchParameters(t *testing.T) {
	drag := BindingEntry{Event: EventPointerDrag, Action: testKindA}
	assert.True(t, drag.Matches(RawEvent{Kind: EventPointerDrag, Button: common.ButtonRight}))
	assert.False(t, drag.Matches(RawEvent{Kind: EventPointerDrag, Modifiers: common.ModShift}))

	left := BindingEntry{Event: EventPointerDrag, Button: common.ButtonLeft, Modifiers: common.ModControl, Action: testKindA}
	assert.True(t, left.Matches(RawEvent{Kind: EventPointerDrag, Button: common.ButtonLeft, Modifiers: common.ModControl | 0x10}))
	assert.False(t, left.Matches(RawEvent{Kind: EventPointerDrag, Button: common.ButtonLeft}))
	assert.False(t, left.Matches(RawEvent{Kind: EventPointerDrag, Button: common.ButtonMiddle, Modifiers: common.ModControl}))
}

func TestBindingExtenders(t *testing.T) {
	calls := 0
	ext := ExtenderFunc(func() []BindingEntry {
		calls++
		return []BindingEntry{{Event: EventKeyDown, Key: common.KeySpace, Action: testKindToggle}}
	})
	set, err := NewBindingSet(BaseFirst, WithExtenders(ext), WithBaseBindings())
	require.NoError(t, err)
	assert.Equal(t, 1, calls)
	assert.Len(t, set.Entries(), 1)

	_, ok := set.Match(RawEvent{Kind: EventKeyDown, Key: common.KeyR})
	assert.False(t, ok)
}

func TestParseEventKind(t *testing.T) {
	for k, name := range eventKindNames {
		parsed, err := ParseEventKind(name)
		require.NoError(t, err)
		assert.Equal(t, k, parsed)
	}
	_, err := ParseEventKind("hover")
	assert.Error(t, err)
}
