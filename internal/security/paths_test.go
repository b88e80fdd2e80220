package security

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestWithinDir(t *testing.T) {
	root := t.TempDir()
	safe := filepath.Join(root, "safe")
	other := filepath.Join(root, "other")
	require.NoError(t, os.MkdirAll(safe, 0o755))
	require.NoError(t, os.MkdirAll(other, 0o755))
	require.NoError(t, os.Symlink(other, filepath.Join(safe, "link")))

	tests := []struct {
		name    string
		path    string
		wantErr bool
	}{
		{"existing child", safe, false},
		{"missing nested child", filepath.Join(safe, "a", "b", "solution.csv"), false},
		{"dot dot escape", filepath.Join(safe, "..", "other", "x.csv"), true},
		{"sibling", filepath.Join(other, "x.csv"), true},
		{"symlinked parent", filepath.Join(safe, "link", "x.csv"), true},
		{"symlinked parent missing tail", filepath.Join(safe, "link", "new", "x.csv"), true},
	}
	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			err := WithinDir(tc.path, safe)
			if tc.wantErr {
				assert.ErrorIs(t, err, ErrOutsideAllowedDirs)
			} else {
				assert.NoError(t, err)
			}
		})
	}
}

func TestWithinAny(t *testing.T) {
	a, b := t.TempDir(), t.TempDir()

	assert.NoError(t, WithinAny(filepath.Join(b, "out"), []string{a, b}))
	assert.ErrorIs(t, WithinAny(filepath.Join(b, "out"), []string{a}), ErrOutsideAllowedDirs)
	assert.ErrorIs(t, WithinAny(a, nil), ErrOutsideAllowedDirs)
}

func TestValidateOutputPath(t *testing.T) {
	assert.NoError(t, ValidateOutputPath(filepath.Join(t.TempDir(), "run")))
	assert.NoError(t, ValidateOutputPath("results"))
	assert.Error(t, ValidateOutputPath("/proc/vfi-out"))
}
