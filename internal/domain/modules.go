package domain

// ModuleStatus is the activation state of one module. ExistingElements holds
// whatever the prompt analysis listed for the module's category and is only
// set for active modules.
type ModuleStatus struct {
	Active           bool `json:"active"`
	ExistingElements any  `json:"existing_elements,omitempty"`
}

// ActiveModules maps each module to its activation state.
type ActiveModules map[Module]ModuleStatus

// IsActive reports whether m is present and marked active.
func (a ActiveModules) IsActive(m Module) bool {
	return a[m].Active
}

// Clone returns a shallow copy of a.
func (a ActiveModules) Clone() ActiveModules {
	out := make(ActiveModules, len(a))
	for k, v := range a {
		out[k] = v
	}
	return out
}

// ModuleSuggestions is the output of module suggestion and the input used to
// initialize a question session.
type ModuleSuggestions struct {
	ActiveModules     ActiveModules       `json:"active_modules"`
	Suggestions       map[string]any      `json:"suggestions"`
	StandardQuestions map[Module][]string `json:"standard_questions"`
}
