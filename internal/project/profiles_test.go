package project

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/piwi3910/PanelNest/internal/gcode"
)

func TestSaveAndLoadProfiles(t *testing.T) {
	path := filepath.Join(t.TempDir(), "cfg", "profiles.json")
	profiles := []gcode.Profile{
		{Name: "Shop", StartCode: []string{"G90", "G21"}, RapidMove: "G0", FeedMove: "G1", CommentPrefix: ";", DecimalPlaces: 3},
		{Name: "Fanuc", RapidMove: "G0", FeedMove: "G1", CommentPrefix: "(", CommentSuffix: ")", DecimalPlaces: 4},
	}

	require.NoError(t, SaveProfiles(path, profiles))
	loaded, err := LoadProfiles(path)
	require.NoError(t, err)

	assert.Equal(t, profiles, loaded)
}

func TestLoadProfiles_MissingFile(t *testing.T) {
	profiles, err := LoadProfiles(filepath.Join(t.TempDir(), "none.json"))
	require.NoError(t, err)
	assert.Empty(t, profiles)
}

func TestLoadProfiles_RejectsUnnamed(t *testing.T) {
	path := filepath.Join(t.TempDir(), "profiles.json")
	require.NoError(t, os.WriteFile(path, []byte(`[{"name":"ok"},{"rapidMove":"G0"}]`), 0644))

	_, err := LoadProfiles(path)
	assert.ErrorContains(t, err, "profile 2")
}

func TestDefaultProfilesPath(t *testing.T) {
	path, err := DefaultProfilesPath()
	if err != nil {
		t.Skip("no user config dir")
	}
	assert.Equal(t, "profiles.json", filepath.Base(path))
}
