package project

import (
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"path/filepath"

	"github.com/piwi3910/PanelNest/internal/gcode"
)

// DefaultProfilesPath returns the default location of the custom GCode
// profile file.
func DefaultProfilesPath() (string, error) {
	dir, err := os.UserConfigDir()
	if err != nil {
		return "", err
	}
	return filepath.Join(dir, "panelnest", "profiles.json"), nil
}

// SaveProfiles writes custom GCode profiles to path.
func SaveProfiles(path string, profiles []gcode.Profile) error {
	data, err := json.MarshalIndent(profiles, "", "  ")
	if err != nil {
		return fmt.Errorf("failed to marshal profiles: %w", err)
	}
	return writeFile(path, data)
}

// LoadProfiles reads custom GCode profiles. A missing file yields none.
// Profiles without a name are rejected.
func LoadProfiles(path string) ([]gcode.Profile, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return []gcode.Profile{}, nil
		}
		return nil, fmt.Errorf("failed to read profiles: %w", err)
	}

	var profiles []gcode.Profile
	if err := json.Unmarshal(data, &profiles); err != nil {
		return nil, fmt.Errorf("failed to parse profiles: %w", err)
	}
	for i, p := range profiles {
		if p.Name == "" {
			return nil, fmt.Errorf("profile %d has no name", i+1)
		}
	}
	return profiles, nil
}
