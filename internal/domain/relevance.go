package domain

// Relevance scores an answer against each elaboration module.
type Relevance map[Module]float64

// Best returns the highest scoring elaboration module. Ties resolve to the
// module that comes first in ElaborationModules. ok is false when r is empty.
func (r Relevance) Best() (Module, bool) {
	if len(r) == 0 {
		return ModuleGeneral, false
	}
	best := ModuleGeneral
	bestScore := -1.0
	for _, m := range ElaborationModules {
		score, present := r[m]
		if !present {
			continue
		}
		if score > bestScore {
			best = m
			bestScore = score
		}
	}
	if bestScore < 0 {
		return ModuleGeneral, false
	}
	return best, true
}

// Normalize returns a copy holding exactly the four elaboration modules, each
// clamped to [0,1]. Missing modules score 0.
func (r Relevance) Normalize() Relevance {
	out := make(Relevance, len(ElaborationModules))
	for _, m := range ElaborationModules {
		out[m] = clampUnit(r[m])
	}
	return out
}

func clampUnit(v float64) float64 {
	switch {
	case v != v: // NaN
		return 0
	case v < 0:
		return 0
	case v > 1:
		return 1
	default:
		return v
	}
}
