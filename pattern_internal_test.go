package rawhttp

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParsePattern(t *testing.T) {
	t.Run("exact", func(t *testing.T) {
		pat, err := parsePattern("GET /data")
		require.NoError(t, err)
		assert.Equal(t, MethodGet, pat.method)
		assert.Equal(t, "/data", pat.path)
		assert.Empty(t, pat.param)
	})

	t.Run("parametric", func(t *testing.T) {
		pat, err := parsePattern("PUT /data/{id}")
		require.NoError(t, err)
		assert.Equal(t, MethodPut, pat.method)
		assert.Equal(t, "data", pat.segment)
		assert.Equal(t, "id", pat.param)
	})

	for _, tt := range []struct {
		pattern string
		wantErr string
	}{
		{"", "empty pattern"},
		{"/data", "has no method"},
		{"FETCH /data", "unknown method"},
		{"get /data", "unknown method"},
		{"GET data", "path must start with '/'"},
		{"GET /{id}", "only the second of two segments"},
		{"GET /data/{id}/more", "only the second of two segments"},
		{"GET /a/b/{id}", "only the second of two segments"},
		{"GET /data/{}", "empty placeholder name"},
		{"GET /data/{id", "bad placeholder"},
		{"GET /data/x{id}", "bad placeholder"},
	} {
		t.Run(tt.pattern, func(t *testing.T) {
			_, err := parsePattern(tt.pattern)
			require.ErrorContains(t, err, tt.wantErr)
		})
	}
}
