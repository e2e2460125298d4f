package slug

import (
	"strings"
	"testing"

	"github.com/samber/lo"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNew(t *testing.T) {
	tests := []struct {
		name    string
		style   string
		length  int
		wantErr bool
	}{
		{name: "default style", style: "", length: 0},
		{name: "uid", style: "uid", length: 12},
		{name: "uid upper case", style: "UID", length: 8},
		{name: "pair", style: "pair"},
		{name: "too short", style: "uid", length: 2, wantErr: true},
		{name: "unknown", style: "emoji", wantErr: true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			g, err := New(tt.style, tt.length)
			if tt.wantErr {
				assert.Error(t, err)
				return
			}
			require.NoError(t, err)
			assert.NotEmpty(t, g.Generate())
		})
	}
}

func TestUIDGenerator(t *testing.T) {
	g, err := New(StyleUID, 0)
	require.NoError(t, err)

	seen := make(map[string]bool)
	for range 1000 {
		s := g.Generate()
		require.Len(t, s, DefaultLength)
		for _, c := range s {
			assert.Contains(t, lo.AlphanumericCharset, c)
		}
		assert.False(t, seen[s], "duplicate shortlink %s", s)
		seen[s] = true
	}
}

func TestPairGenerator(t *testing.T) {
	g, err := New(StylePair, 0)
	require.NoError(t, err)

	for range 50 {
		adjective, name, ok := strings.Cut(g.Generate(), "-")
		require.True(t, ok)
		assert.Contains(t, adjectives, adjective)
		assert.Contains(t, names, name)
	}
}
