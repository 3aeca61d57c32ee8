package writer

import (
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestWriteExport(t *testing.T) {
	dir := filepath.Join(t.TempDir(), "exports")
	w, err := New(dir)
	require.NoError(t, err)

	path, err := w.WriteExport("scraped_data_1.csv", strings.NewReader("title,url,date\n"))
	require.NoError(t, err)
	assert.Equal(t, filepath.Join(dir, "scraped_data_1.csv"), path)

	data, err := os.ReadFile(path)
	require.NoError(t, err)
	assert.Equal(t, "title,url,date\n", string(data))
}

func TestSanitizeFilename(t *testing.T) {
	w := &FileWriter{outputDir: t.TempDir()}
	tests := []struct {
		in, want string
	}{
		{"report.json", "report.json"},
		{"../../etc/passwd", "passwd"},
		{"my file?.csv", "my_file_.csv"},
		{"", "export"},
		{"..", "export"},
	}
	for _, tt := range tests {
		assert.Equal(t, tt.want, w.sanitizeFilename(tt.in), "input %q", tt.in)
	}
}

func TestRename(t *testing.T) {
	dir := t.TempDir()
	w, err := New(dir)
	require.NoError(t, err)
	require.NoError(t, os.WriteFile(filepath.Join(dir, "guid-123"), []byte("x"), 0644))

	path, err := w.Rename("guid-123", "data.json")
	require.NoError(t, err)
	assert.FileExists(t, path)
	assert.NoFileExists(t, filepath.Join(dir, "guid-123"))
}
