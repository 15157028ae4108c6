// Package project persists PanelNest projects and portable bundles as JSON files.
package project

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"

	"github.com/piwi3910/PanelNest/internal/model"
)

// SaveProject writes the project as indented JSON, creating parent directories.
func SaveProject(path string, p model.Project) error {
	data, err := json.MarshalIndent(p, "", "  ")
	if err != nil {
		return fmt.Errorf("failed to marshal project: %w", err)
	}
	if err := writeFile(path, data); err != nil {
		return fmt.Errorf("failed to save project: %w", err)
	}
	return nil
}

// LoadProject reads a project file. Missing slices are returned empty.
func LoadProject(path string) (model.Project, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return model.Project{}, fmt.Errorf("failed to read project file: %w", err)
	}
	return DecodeProject(data)
}

// DecodeProject parses project JSON, such as a {panels, stockSheets, options}
// request body.
func DecodeProject(data []byte) (model.Project, error) {
	p := model.NewProject()
	if err := json.Unmarshal(data, &p); err != nil {
		return model.Project{}, fmt.Errorf("failed to parse project: %w", err)
	}
	normalize(&p)
	return p, nil
}

func normalize(p *model.Project) {
	if p.Panels == nil {
		p.Panels = []model.PanelSpec{}
	}
	if p.StockSheets == nil {
		p.StockSheets = []model.StockSheetSpec{}
	}
}

func writeFile(path string, data []byte) error {
	if err := os.MkdirAll(filepath.Dir(path), 0755); err != nil {
		return err
	}
	return os.WriteFile(path, data, 0644)
}
