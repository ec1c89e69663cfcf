package app

import (
	"fmt"
	"os"
	"strings"

	"gopkg.in/yaml.v3"

	"github.com/cc0ffee/greenhouse-sim/internal/greenhouse"
)

type materialsFile struct {
	Materials []struct {
		Name         string  `yaml:"name"`
		Density      float64 `yaml:"density"`
		SpecificHeat float64 `yaml:"specific_heat"`
	} `yaml:"materials"`
}

// LoadMaterials reads a YAML material library:
//
//	materials:
//	  - name: glass
//	    density: 2500
//	    specific_heat: 840
func LoadMaterials(path string) ([]greenhouse.Material, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read materials: %w", err)
	}
	var f materialsFile
	if err := yaml.Unmarshal(data, &f); err != nil {
		return nil, fmt.Errorf("parse materials: %w", err)
	}

	out := make([]greenhouse.Material, 0, len(f.Materials))
	for i, m := range f.Materials {
		if strings.TrimSpace(m.Name) == "" {
			return nil, fmt.Errorf("%w: material %d has no name", greenhouse.ErrInvalidConfiguration, i)
		}
		if m.Density <= 0 || m.SpecificHeat <= 0 {
			return nil, fmt.Errorf("%w: material %q needs positive density and specific_heat", greenhouse.ErrInvalidConfiguration, m.Name)
		}
		out = append(out, greenhouse.Material{Name: m.Name, Density: m.Density, SpecificHeat: m.SpecificHeat})
	}
	return out, nil
}

// Presets returns the built-in materials extended by materials_file.
func (c Config) Presets() (greenhouse.Presets, error) {
	presets := greenhouse.DefaultPresets()
	if c.Greenhouse.MaterialsFile == "" {
		return presets, nil
	}
	extra, err := LoadMaterials(c.Greenhouse.MaterialsFile)
	if err != nil {
		return nil, err
	}
	return presets.With(extra...), nil
}
