package client

import (
	"context"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestFileTokenStore(t *testing.T) {
	path := filepath.Join(t.TempDir(), "token")
	store := NewFileTokenStore(path)

	token, err := store.Load()
	require.NoError(t, err)
	assert.Empty(t, token)

	require.NoError(t, store.Save("abc.def.ghi"))

	info, err := os.Stat(path)
	require.NoError(t, err)
	assert.Equal(t, os.FileMode(0600), info.Mode().Perm())

	token, err = store.Load()
	require.NoError(t, err)
	assert.Equal(t, "abc.def.ghi", token)

	require.NoError(t, store.Clear())
	require.NoError(t, store.Clear(), "повторная очистка не должна падать")

	token, err = store.Load()
	require.NoError(t, err)
	assert.Empty(t, token)
}

func TestLoadDeviceID(t *testing.T) {
	path := filepath.Join(t.TempDir(), "device_id")

	first, err := loadDeviceID(path)
	require.NoError(t, err)
	assert.Len(t, first, 36)

	second, err := loadDeviceID(path)
	require.NoError(t, err)
	assert.Equal(t, first, second)
}

func TestAskYesNo(t *testing.T) {
	tests := []struct {
		name     string
		input    string
		expected bool
	}{
		{name: "yes", input: "y\n", expected: true},
		{name: "full yes", input: "YES\n", expected: true},
		{name: "no", input: "n\n", expected: false},
		{name: "empty", input: "\n", expected: false},
		{name: "eof", input: "", expected: false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			var out strings.Builder
			ok, err := askYesNo(context.Background(), strings.NewReader(tt.input), &out, "allow? ")
			require.NoError(t, err)
			assert.Equal(t, tt.expected, ok)
			assert.Equal(t, "allow? ", out.String())
		})
	}
}
