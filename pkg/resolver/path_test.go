package resolver

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// writeTree writes files relative to a fresh temp dir and returns the dir.
func writeTree(t *testing.T, files map[string]string) string {
	t.Helper()
	dir := t.TempDir()
	for name, content := range files {
		path := filepath.Join(dir, name)
		require.NoError(t, os.MkdirAll(filepath.Dir(path), 0o755))
		require.NoError(t, os.WriteFile(path, []byte(content), 0o644))
	}
	return dir
}

func TestPathResolver_PrefersExtensionOrder(t *testing.T) {
	dir := writeTree(t, map[string]string{
		"util.js":  "export const a = 1;",
		"util.jsx": "export const a = 2;",
	})
	importer := filepath.Join(dir, "Button.js")
	p := NewPathResolver(nil)

	for i := 0; i < 5; i++ {
		assert.Equal(t, filepath.Join(dir, "util.js"), p.Resolve(importer, "./util"))
	}
}

func TestPathResolver_Probing(t *testing.T) {
	dir := writeTree(t, map[string]string{
		"types.ts":              "",
		"Card.tsx":              "",
		"Menu.jsx":              "",
		"components/index.ts":   "",
		"nested/deep/shared.js": "",
	})
	importer := filepath.Join(dir, "Button.tsx")
	p := NewPathResolver(nil)

	tests := []struct {
		name      string
		importer  string
		specifier string
		want      string
	}{
		{"ts file", importer, "./types", filepath.Join(dir, "types.ts")},
		{"tsx file", importer, "./Card", filepath.Join(dir, "Card.tsx")},
		{"jsx file", importer, "./Menu", filepath.Join(dir, "Menu.jsx")},
		{"explicit extension", importer, "./Card.tsx", filepath.Join(dir, "Card.tsx")},
		{"explicit missing", importer, "./Gone.ts", filepath.Join(dir, "Gone.ts")},
		{"directory index", importer, "./components", filepath.Join(dir, "components", "index.ts")},
		{"parent directory", filepath.Join(dir, "nested", "deep", "x", "A.js"), "../shared", filepath.Join(dir, "nested", "deep", "shared.js")},
		{"fallback", importer, "./missing", filepath.Join(dir, "missing.jsx")},
		{"package", importer, "react", ""},
		{"scoped package", importer, "@scope/pkg", ""},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, p.Resolve(tt.importer, tt.specifier))
		})
	}
}

func TestPathResolver_CustomExtensions(t *testing.T) {
	dir := writeTree(t, map[string]string{
		"util.js": "",
		"util.ts": "",
	})
	p := NewPathResolver([]string{"ts", ".js"})

	assert.Equal(t, []string{".ts", ".js"}, p.Extensions())
	assert.Equal(t, filepath.Join(dir, "util.ts"), p.Resolve(filepath.Join(dir, "a.ts"), "./util"))
	assert.Equal(t, filepath.Join(dir, "other.js"), p.Resolve(filepath.Join(dir, "a.ts"), "./other"))
}

func TestPathResolver_DirectoryIsNotAFile(t *testing.T) {
	dir := writeTree(t, map[string]string{
		"theme.js/README": "",
	})
	p := NewPathResolver(nil)

	// theme.js exists but is a directory; the specifier carries a source
	// extension so it is returned as is and left to the loader.
	assert.Equal(t, filepath.Join(dir, "theme.js"), p.Resolve(filepath.Join(dir, "a.js"), "./theme.js"))
	assert.Equal(t, filepath.Join(dir, "theme.jsx"), p.Resolve(filepath.Join(dir, "a.js"), "./theme"))
}

func TestIsRelative(t *testing.T) {
	tests := map[string]bool{
		".":          true,
		"..":         true,
		"./a":        true,
		"../a/b":     true,
		"/abs/path":  true,
		"react":      false,
		"@scope/pkg": false,
		"lodash/fp":  false,
		".hidden":    false,
	}
	for spec, want := range tests {
		assert.Equal(t, want, IsRelative(spec), spec)
	}
}
