package domain

import "strings"

// Module is one of the fixed semantic elaboration categories used to organize
// questions and answers.
type Module string

const (
	ModuleCharacter  Module = "character"
	ModuleSetting    Module = "setting"
	ModuleAtmosphere Module = "atmosphere"
	ModuleAction     Module = "action"

	// ModuleGeneral is the catch-all for answers that cannot be attributed.
	ModuleGeneral Module = "general"
)

// ElaborationModules is the canonical module order. Progress walks and
// relevance tie-breaks always follow it.
var ElaborationModules = []Module{
	ModuleCharacter,
	ModuleSetting,
	ModuleAtmosphere,
	ModuleAction,
}

// ParseModule maps a free-form module name onto the closed set. Unknown or
// empty names map to ModuleGeneral.
func ParseModule(s string) Module {
	switch Module(strings.ToLower(strings.TrimSpace(s))) {
	case ModuleCharacter:
		return ModuleCharacter
	case ModuleSetting:
		return ModuleSetting
	case ModuleAtmosphere:
		return ModuleAtmosphere
	case ModuleAction:
		return ModuleAction
	default:
		return ModuleGeneral
	}
}

// IsElaboration reports whether m is one of the four tracked modules.
func (m Module) IsElaboration() bool {
	switch m {
	case ModuleCharacter, ModuleSetting, ModuleAtmosphere, ModuleAction:
		return true
	case ModuleGeneral:
		return false
	default:
		return false
	}
}

// Title returns the display name of the module.
func (m Module) Title() string {
	switch m {
	case ModuleCharacter:
		return "Character"
	case ModuleSetting:
		return "Setting"
	case ModuleAtmosphere:
		return "Atmosphere"
	case ModuleAction:
		return "Action"
	case ModuleGeneral:
		return "General"
	default:
		return string(m)
	}
}

// PromptSource records how a final prompt was produced.
type PromptSource string

const (
	SourceLLM           PromptSource = "llm"
	SourceDeterministic PromptSource = "deterministic"
)
