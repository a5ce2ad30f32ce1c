package recipe

import (
	"bytes"
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"gopkg.in/yaml.v3"

	"github.com/hammamikhairi/ottoplan/internal/domain"
)

// LoadFile reads a recipe from a .yaml, .yml, or .json file. A recipe without
// an ID takes the file name (sans extension); one without a name takes the
// ID.
func LoadFile(path string) (*domain.RecipeInput, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("recipe: read %s: %w", path, err)
	}

	r, err := Parse(data, filepath.Ext(path))
	if err != nil {
		return nil, fmt.Errorf("recipe: %s: %w", path, err)
	}
	if r.ID == "" {
		r.ID = strings.TrimSuffix(filepath.Base(path), filepath.Ext(path))
	}
	if r.Name == "" {
		r.Name = r.ID
	}
	return r, nil
}

// Parse decodes a recipe document. ext selects the format (".json", or
// ".yaml"/".yml"); an empty ext means YAML, which also accepts JSON.
func Parse(data []byte, ext string) (*domain.RecipeInput, error) {
	var r domain.RecipeInput
	switch strings.ToLower(ext) {
	case ".json":
		dec := json.NewDecoder(bytes.NewReader(data))
		dec.DisallowUnknownFields()
		if err := dec.Decode(&r); err != nil {
			return nil, fmt.Errorf("%w: decode json: %v", domain.ErrInvalidRecipe, err)
		}
	case "", ".yaml", ".yml":
		if err := yaml.Unmarshal(data, &r); err != nil {
			return nil, fmt.Errorf("%w: decode yaml: %v", domain.ErrInvalidRecipe, err)
		}
	default:
		return nil, fmt.Errorf("%w: unsupported format %q", domain.ErrInvalidRecipe, ext)
	}

	if err := validate(&r); err != nil {
		return nil, err
	}
	return &r, nil
}

func validate(r *domain.RecipeInput) error {
	hasText := false
	for _, ins := range r.Instructions {
		if strings.TrimSpace(ins) != "" {
			hasText = true
			break
		}
	}
	if !hasText && len(r.Steps) == 0 {
		return fmt.Errorf("%w: no instructions or steps", domain.ErrInvalidRecipe)
	}
	for i, s := range r.Steps {
		if strings.TrimSpace(s.Text) == "" {
			return fmt.Errorf("%w: step %d has no text", domain.ErrInvalidRecipe, i+1)
		}
	}
	return nil
}
