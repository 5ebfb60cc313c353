// Package export writes the project list in formats meant for sharing:
// spreadsheets, YAML, and a markdown report.
package export

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/jeanpaul/proyectos/internal/project"
)

// Format identifies an export file type.
type Format string

const (
	FormatXLSX     Format = "xlsx"
	FormatYAML     Format = "yaml"
	FormatMarkdown Format = "markdown"
)

// FormatFor picks a format from the file extension.
func FormatFor(path string) (Format, error) {
	switch strings.ToLower(filepath.Ext(path)) {
	case ".xlsx":
		return FormatXLSX, nil
	case ".yaml", ".yml":
		return FormatYAML, nil
	case ".md", ".markdown":
		return FormatMarkdown, nil
	default:
		return "", fmt.Errorf("unsupported export extension %q (use .xlsx, .yaml or .md)", filepath.Ext(path))
	}
}

// ToFile writes the store to path in the format implied by its extension.
func ToFile(path string, s *project.Store) error {
	format, err := FormatFor(path)
	if err != nil {
		return err
	}
	if dir := filepath.Dir(path); dir != "" {
		if err := os.MkdirAll(dir, 0755); err != nil {
			return fmt.Errorf("create export dir: %w", err)
		}
	}

	switch format {
	case FormatXLSX:
		return WriteXLSX(path, s.List())
	case FormatYAML:
		data, err := YAML(s)
		if err != nil {
			return err
		}
		return os.WriteFile(path, data, 0644)
	default:
		return os.WriteFile(path, []byte(Markdown(s.List())), 0644)
	}
}
