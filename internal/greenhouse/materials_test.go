package greenhouse

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestThermalMass_IsPure(t *testing.T) {
	a := ThermalMass(2.5, Concrete.Density, Concrete.SpecificHeat)
	b := ThermalMass(2.5, Concrete.Density, Concrete.SpecificHeat)
	assert.Equal(t, a, b)
	assert.Equal(t, 2.5*2300*1000.0, a)
}

func TestThermalMass_LinearInEachArgument(t *testing.T) {
	v, rho, c := 0.4, 7850.0, 420.0
	base := ThermalMass(v, rho, c)

	assert.InDelta(t, 3*base, ThermalMass(3*v, rho, c), 1e-6)
	assert.InDelta(t, 3*base, ThermalMass(v, 3*rho, c), 1e-6)
	assert.InDelta(t, 3*base, ThermalMass(v, rho, 3*c), 1e-6)
	assert.Zero(t, ThermalMass(0, rho, c))
}

func TestCompositeThermalMass_SumsLayers(t *testing.T) {
	layers := []Layer{
		{Material: Steel, Volume: 0.05},
		{Material: ExpandedPolystyrene, Volume: 2},
		{Material: Concrete, Volume: 0.06},
	}
	want := 0.05*7850*420 + 2*15*1300 + 0.06*2300*1000.0
	assert.InDelta(t, want, CompositeThermalMass(layers...), 1e-6)
	assert.Zero(t, CompositeThermalMass())
}

func TestPresets(t *testing.T) {
	p := DefaultPresets()
	require.Len(t, p, 3)

	m, err := p.Lookup("STEEL")
	require.NoError(t, err)
	assert.Equal(t, Steel, m)

	_, err = p.Lookup("wood")
	assert.ErrorIs(t, err, ErrUnknownMaterial)
	assert.ErrorIs(t, err, ErrInvalidConfiguration)

	ext := p.With(Material{Name: "Wood", Density: 500, SpecificHeat: 1700})
	assert.Len(t, ext, 4)
	assert.Len(t, p, 3, "With must not mutate the receiver")
	wood, err := ext.Lookup("wood")
	require.NoError(t, err)
	assert.Equal(t, "wood", wood.Name)

	names := []string{}
	for _, m := range ext.Sorted() {
		names = append(names, m.Name)
	}
	assert.Equal(t, []string{"concrete", "eps", "steel", "wood"}, names)
}

func TestHeatingPower(t *testing.T) {
	assert.InDelta(t, 11200, HeatingPower(7000, 7000, 0.8), 1e-9)
}
