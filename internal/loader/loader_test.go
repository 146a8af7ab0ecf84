package loader

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"rulebot/internal/domain"
)

func TestLoadTextFolder(t *testing.T) {
	dir := t.TempDir()
	require.NoError(t, os.WriteFile(filepath.Join(dir, "kickoff.txt"), []byte("Rule 6: Free kicks."), 0o644))
	require.NoError(t, os.WriteFile(filepath.Join(dir, "scoring.txt"), []byte("Rule 11: Scoring."), 0o644))

	docs, err := New().Load(dir)
	require.NoError(t, err)
	require.Len(t, docs, 2)

	for _, d := range docs {
		_, statErr := os.Stat(d.Path)
		assert.NoError(t, statErr, "metadata path must point at a real file")
		assert.Equal(t, filepath.Base(d.Path), d.Filename)
		assert.NotEmpty(t, d.ID)
		assert.NotEmpty(t, d.Content)
	}
}

func TestLoadSkipsUnsupportedExtensions(t *testing.T) {
	dir := t.TempDir()
	require.NoError(t, os.WriteFile(filepath.Join(dir, "rules.txt"), []byte("Rule 1."), 0o644))
	require.NoError(t, os.WriteFile(filepath.Join(dir, "notes.md"), []byte("ignored"), 0o644))
	require.NoError(t, os.WriteFile(filepath.Join(dir, "image.png"), []byte{0x89}, 0o644))

	docs, err := New().Load(dir)
	require.NoError(t, err)
	require.Len(t, docs, 1)
	assert.Equal(t, "rules.txt", docs[0].Filename)
}

func TestLoadEmptyFolder(t *testing.T) {
	docs, err := New().Load(t.TempDir())
	assert.Nil(t, docs)
	assert.ErrorIs(t, err, domain.ErrNoDocuments)
}

func TestLoadMissingFolder(t *testing.T) {
	_, err := New().Load(filepath.Join(t.TempDir(), "nope"))
	assert.Error(t, err)
	assert.NotErrorIs(t, err, domain.ErrNoDocuments)
}

func TestLoadSkipsSubdirectories(t *testing.T) {
	dir := t.TempDir()
	require.NoError(t, os.MkdirAll(filepath.Join(dir, "nested"), 0o755))
	require.NoError(t, os.WriteFile(filepath.Join(dir, "nested", "deep.txt"), []byte("hidden"), 0o644))
	require.NoError(t, os.WriteFile(filepath.Join(dir, "top.txt"), []byte("visible"), 0o644))

	docs, err := New().Load(dir)
	require.NoError(t, err)
	require.Len(t, docs, 1)
	assert.Equal(t, "top.txt", docs[0].Filename)
}
