package flags

import (
	"testing"

	"github.com/stretchr/testify/require"
)

func TestRegistry_Enabled(t *testing.T) {
	tests := []struct {
		name     string
		registry *Registry
		flag     string
		expected bool
	}{
		{name: "enabled flag", registry: New(map[string]bool{FlagMouse: true}), flag: FlagMouse, expected: true},
		{name: "disabled flag", registry: New(map[string]bool{FlagMouse: false}), flag: FlagMouse, expected: false},
		{name: "unset flag", registry: New(map[string]bool{FlagMouse: true}), flag: FlagReloadDiff, expected: false},
		{name: "nil map", registry: New(nil), flag: FlagMouse, expected: false},
		{name: "nil registry", registry: nil, flag: FlagMouse, expected: false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			require.Equal(t, tt.expected, tt.registry.Enabled(tt.flag))
		})
	}
}

func TestRegistry_CopiesInput(t *testing.T) {
	input := map[string]bool{FlagReloadDiff: true}
	r := New(input)

	input[FlagReloadDiff] = false
	require.True(t, r.Enabled(FlagReloadDiff))

	all := r.All()
	all[FlagMouse] = true
	require.False(t, r.Enabled(FlagMouse))
}

func TestRegistry_AllOnNil(t *testing.T) {
	var r *Registry
	require.Empty(t, r.All())
}
