package greenhouse

import (
	"slices"
	"strings"
)

// Material holds the properties needed to derive thermal mass.
type Material struct {
	Name         string
	Density      float64 // kg/m³
	SpecificHeat float64 // J/(kg·K)
}

var (
	Steel               = Material{Name: "steel", Density: 7850, SpecificHeat: 420}
	ExpandedPolystyrene = Material{Name: "eps", Density: 15, SpecificHeat: 1300}
	Concrete            = Material{Name: "concrete", Density: 2300, SpecificHeat: 1000}
)

// ThermalMass returns volume * density * specificHeat in J/K.
// Inputs are not validated; callers keep them non-negative.
func ThermalMass(volume, density, specificHeat float64) float64 {
	return volume * density * specificHeat
}

// Layer is one slab of a composite envelope.
type Layer struct {
	Material Material
	Volume   float64 // m³
}

func (l Layer) ThermalMass() float64 {
	return ThermalMass(l.Volume, l.Material.Density, l.Material.SpecificHeat)
}

// CompositeThermalMass sums the thermal mass of independent layers.
func CompositeThermalMass(layers ...Layer) float64 {
	total := 0.0
	for _, l := range layers {
		total += l.ThermalMass()
	}
	return total
}

// Presets is a read-only material library keyed by lower-case name.
type Presets map[string]Material

func DefaultPresets() Presets {
	return Presets{
		Steel.Name:               Steel,
		ExpandedPolystyrene.Name: ExpandedPolystyrene,
		Concrete.Name:            Concrete,
	}
}

// With returns a copy of p extended (or overridden) by materials.
func (p Presets) With(materials ...Material) Presets {
	out := make(Presets, len(p)+len(materials))
	for k, v := range p {
		out[k] = v
	}
	for _, m := range materials {
		m.Name = strings.ToLower(m.Name)
		out[m.Name] = m
	}
	return out
}

func (p Presets) Lookup(name string) (Material, error) {
	m, ok := p[strings.ToLower(name)]
	if !ok {
		return Material{}, ErrUnknownMaterial
	}
	return m, nil
}

// Sorted returns the materials ordered by name.
func (p Presets) Sorted() []Material {
	out := make([]Material, 0, len(p))
	for _, m := range p {
		out = append(out, m)
	}
	slices.SortFunc(out, func(a, b Material) int { return strings.Compare(a.Name, b.Name) })
	return out
}
