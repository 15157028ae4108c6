package project

import (
	"encoding/json"
	"fmt"
	"os"
	"time"

	"github.com/piwi3910/PanelNest/internal/model"
)

// BundleVersion is written into every exported bundle.
const BundleVersion = "1.0.0"

// Bundle is a versioned, timestamped envelope around a project for sharing.
type Bundle struct {
	Version   string        `json:"version"`
	CreatedAt string        `json:"createdAt"`
	Project   model.Project `json:"project"`
}

// Clock returns the current time. Tests replace it for stable timestamps.
var Clock = time.Now

// ExportBundle wraps the project in a Bundle and writes it to path.
func ExportBundle(path string, p model.Project) error {
	b := Bundle{
		Version:   BundleVersion,
		CreatedAt: Clock().UTC().Format(time.RFC3339),
		Project:   p,
	}
	data, err := json.MarshalIndent(b, "", "  ")
	if err != nil {
		return fmt.Errorf("failed to marshal bundle: %w", err)
	}
	if err := writeFile(path, data); err != nil {
		return fmt.Errorf("failed to write bundle: %w", err)
	}
	return nil
}

// ImportBundle reads a bundle written by ExportBundle.
func ImportBundle(path string) (Bundle, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return Bundle{}, fmt.Errorf("failed to read bundle: %w", err)
	}
	var b Bundle
	if err := json.Unmarshal(data, &b); err != nil {
		return Bundle{}, fmt.Errorf("failed to parse bundle: %w", err)
	}
	if b.Version == "" {
		return Bundle{}, ErrMissingVersion
	}
	normalize(&b.Project)
	return b, nil
}
