package project

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestExportAndImportBundle(t *testing.T) {
	Clock = func() time.Time { return time.Date(2026, 3, 14, 9, 26, 53, 0, time.FixedZone("X", 3600)) }
	t.Cleanup(func() { Clock = time.Now })

	path := filepath.Join(t.TempDir(), "out", "kitchen.panelnest.json")
	p := sampleProject(t)

	require.NoError(t, ExportBundle(path, p))
	b, err := ImportBundle(path)
	require.NoError(t, err)

	assert.Equal(t, BundleVersion, b.Version)
	assert.Equal(t, "2026-03-14T08:26:53Z", b.CreatedAt)
	assertSameProject(t, p, b.Project)
}

func TestImportBundle_MissingVersion(t *testing.T) {
	path := filepath.Join(t.TempDir(), "bundle.json")
	require.NoError(t, os.WriteFile(path, []byte(`{"createdAt":"x","project":{}}`), 0644))

	_, err := ImportBundle(path)
	assert.ErrorIs(t, err, ErrMissingVersion)
}

func TestImportBundle_InvalidJSON(t *testing.T) {
	path := filepath.Join(t.TempDir(), "bundle.json")
	require.NoError(t, os.WriteFile(path, []byte(`[`), 0644))

	_, err := ImportBundle(path)
	assert.Error(t, err)
	assert.NotErrorIs(t, err, ErrMissingVersion)
}
