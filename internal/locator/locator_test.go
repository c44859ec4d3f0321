package locator

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func makeDir(t *testing.T, files ...string) string {
	t.Helper()
	dir := t.TempDir()
	for _, name := range files {
		require.NoError(t, os.WriteFile(filepath.Join(dir, name), nil, 0o600))
	}
	return dir
}

func TestFindByExtension(t *testing.T) {
	dir := makeDir(t, "c.png", "a.jpg", "b.png", "notes.txt", "B.PNG", "apng", "scan.png.bak")

	tests := []struct {
		name       string
		extensions []string
		want       []string
	}{
		{"single suffix", []string{".png"}, []string{"b.png", "c.png"}},
		{"two suffixes, sorted together", []string{".png", ".jpg"}, []string{"a.jpg", "b.png", "c.png"}},
		{"case sensitive", []string{".PNG"}, []string{"B.PNG"}},
		{"no leading dot", []string{"png"}, []string{"apng", "b.png", "c.png"}},
		{"full name as suffix", []string{"notes.txt"}, []string{"notes.txt"}},
		{"no match", []string{".gif"}, []string{}},
		{"empty list", nil, []string{}},
		{"empty suffix matches all", []string{""}, []string{"B.PNG", "a.jpg", "apng", "b.png", "c.png", "notes.txt", "scan.png.bak"}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := FindByExtension(dir, tt.extensions)
			require.NoError(t, err)
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestFindByExtension_SkipsDirectories(t *testing.T) {
	dir := makeDir(t, "a.png")
	require.NoError(t, os.Mkdir(filepath.Join(dir, "folder.png"), 0o755))

	got, err := FindByExtension(dir, []string{".png"})
	require.NoError(t, err)
	assert.Equal(t, []string{"a.png"}, got)
}

func TestFindByExtension_IsDeterministic(t *testing.T) {
	dir := makeDir(t, "z.png", "m.png", "a.png", "10.png", "9.png")

	first, err := FindByExtension(dir, []string{".png"})
	require.NoError(t, err)
	second, err := FindByExtension(dir, []string{".png"})
	require.NoError(t, err)

	assert.Equal(t, first, second)
	assert.Equal(t, []string{"10.png", "9.png", "a.png", "m.png", "z.png"}, first)
}

func TestFindByExtension_MissingDirectory(t *testing.T) {
	_, err := FindByExtension(filepath.Join(t.TempDir(), "missing"), []string{".png"})
	require.Error(t, err)
	assert.ErrorIs(t, err, os.ErrNotExist)
}

func TestPaths(t *testing.T) {
	assert.Equal(t,
		[]string{filepath.Join("scans", "a.png"), filepath.Join("scans", "b.png")},
		Paths("scans", []string{"a.png", "b.png"}))
	assert.Equal(t, []string{"a.png"}, Paths(".", []string{"a.png"}))
	assert.Empty(t, Paths(".", nil))
}
