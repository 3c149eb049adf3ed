package domain

import (
	"math"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestRelevance_Best_HighestScoreWins(t *testing.T) {
	r := Relevance{
		ModuleCharacter:  0.2,
		ModuleSetting:    0.9,
		ModuleAtmosphere: 0.4,
		ModuleAction:     0.1,
	}
	m, ok := r.Best()
	assert.True(t, ok)
	assert.Equal(t, ModuleSetting, m)
}

func TestRelevance_Best_TieResolvesInModuleOrder(t *testing.T) {
	r := Relevance{
		ModuleAction:     0.7,
		ModuleAtmosphere: 0.7,
		ModuleSetting:    0.7,
	}
	for i := 0; i < 20; i++ {
		m, ok := r.Best()
		assert.True(t, ok)
		assert.Equal(t, ModuleSetting, m, "ties must not depend on map iteration order")
	}
}

func TestRelevance_Best_AllZeroPicksCharacter(t *testing.T) {
	m, ok := Relevance{}.Normalize().Best()
	assert.True(t, ok)
	assert.Equal(t, ModuleCharacter, m)
}

func TestRelevance_Best_Empty(t *testing.T) {
	m, ok := Relevance(nil).Best()
	assert.False(t, ok)
	assert.Equal(t, ModuleGeneral, m)
}

func TestRelevance_Normalize_ClampsAndFills(t *testing.T) {
	r := Relevance{
		ModuleCharacter: 1.6,
		ModuleSetting:   -0.3,
		ModuleGeneral:   0.5,
		ModuleAction:    math.NaN(),
	}
	n := r.Normalize()

	assert.Len(t, n, 4)
	assert.Equal(t, 1.0, n[ModuleCharacter])
	assert.Equal(t, 0.0, n[ModuleSetting])
	assert.Equal(t, 0.0, n[ModuleAtmosphere])
	assert.Equal(t, 0.0, n[ModuleAction])
	_, hasGeneral := n[ModuleGeneral]
	assert.False(t, hasGeneral)
}

func TestParseModule(t *testing.T) {
	cases := map[string]Module{
		"character":   ModuleCharacter,
		" Setting ":   ModuleSetting,
		"ATMOSPHERE":  ModuleAtmosphere,
		"action":      ModuleAction,
		"general":     ModuleGeneral,
		"":            ModuleGeneral,
		"composition": ModuleGeneral,
	}
	for in, want := range cases {
		assert.Equal(t, want, ParseModule(in), "input %q", in)
	}
}

func TestModule_IsElaboration(t *testing.T) {
	for _, m := range ElaborationModules {
		assert.True(t, m.IsElaboration())
	}
	assert.False(t, ModuleGeneral.IsElaboration())
}
