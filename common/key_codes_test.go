package common

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParseKey(t *testing.T) {
	tests := map[string]Key{
		"r":      KeyR,
		"R":      KeyR,
		"3":      Key3,
		"space":  KeySpace,
		"=":      KeyEqual,
		"kp-add": KeyKPAdd,
		" Up ":   KeyUp,
	}
	for in, want := range tests {
		got, err := ParseKey(in)
		require.NoError(t, err, in)
		assert.Equal(t, want, got, in)
	}
	_, err := ParseKey("hyper")
	assert.Error(t, err)
}

func TestParseMouseButton(t *testing.T) {
	b, err := ParseMouseButton("middle")
	require.NoError(t, err)
	assert.Equal(t, ButtonMiddle, b)

	b, err = ParseMouseButton("")
	require.NoError(t, err)
	assert.Equal(t, ButtonNone, b)

	_, err = ParseMouseButton("fourth")
	assert.Error(t, err)
}

func TestParseModifiers(t *testing.T) {
	m, err := ParseModifiers("shift", "Ctrl")
	require.NoError(t, err)
	assert.Equal(t, ModShift|ModControl, m)

	_, err = ParseModifiers("meta")
	assert.Error(t, err)
}

func TestModifier_Normalize(t *testing.T) {
	const capsLock Modifier = 0x0010
	assert.Equal(t, ModShift, (ModShift | capsLock).Normalize())
}
