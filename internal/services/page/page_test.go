package page

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestInterpolate(t *testing.T) {
	tests := []struct {
		name     string
		template string
		values   map[string]string
		want     string
	}{
		{
			name:     "known keys",
			template: "db={{APPWRITE_DATABASE_ID}} col={{APPWRITE_COLLECTION_ID}}",
			values:   map[string]string{"APPWRITE_DATABASE_ID": "orders", "APPWRITE_COLLECTION_ID": "items"},
			want:     "db=orders col=items",
		},
		{
			name:     "unknown key left intact",
			template: "{{A}} {{B}}",
			values:   map[string]string{"A": "1"},
			want:     "1 {{B}}",
		},
		{
			name:     "repeated key",
			template: "{{A}}-{{A}}",
			values:   map[string]string{"A": "x"},
			want:     "x-x",
		},
		{
			name:     "empty value",
			template: "[{{A}}]",
			values:   map[string]string{"A": ""},
			want:     "[]",
		},
		{
			name:     "no values",
			template: "{{A}}",
			values:   nil,
			want:     "{{A}}",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, Interpolate(tt.template, tt.values))
		})
	}
}

func TestDefaultRender(t *testing.T) {
	html := Default().Render(map[string]string{
		"APPWRITE_FUNCTION_ID": "fn-123",
	})

	assert.Contains(t, html, "const functionId = 'fn-123';")
	assert.Contains(t, html, "{{APPWRITE_DATABASE_ID}}")
}

func TestLoad(t *testing.T) {
	path := filepath.Join(t.TempDir(), "page.html")
	require.NoError(t, os.WriteFile(path, []byte("<p>{{APPWRITE_FUNCTION_ID}}</p>"), 0o600))

	p, err := Load(path)
	require.NoError(t, err)
	assert.Equal(t, "<p>fn</p>", p.Render(map[string]string{"APPWRITE_FUNCTION_ID": "fn"}))

	p, err = Load("")
	require.NoError(t, err)
	assert.Equal(t, Default().template, p.template)

	_, err = Load(filepath.Join(t.TempDir(), "missing.html"))
	assert.Error(t, err)
}
