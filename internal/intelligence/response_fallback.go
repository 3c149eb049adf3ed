package intelligence

import (
	"context"
	"strings"

	"github.com/alexanderramin/aiscribe/internal/domain"
)

// relevanceKeywords is the fixed vocabulary used when the completion service
// cannot score an answer.
var relevanceKeywords = map[domain.Module][]string{
	domain.ModuleCharacter:  {"character", "figure"},
	domain.ModuleSetting:    {"forest", "environment"},
	domain.ModuleAtmosphere: {"mood", "mysterious"},
	domain.ModuleAction:     {"standing", "moving"},
}

// KeywordRelevance scores text by keyword containment. Each module is scored
// independently at 1.0 or 0.0, so several modules can match at once.
func KeywordRelevance(text string) domain.Relevance {
	lower := strings.ToLower(text)
	rel := make(domain.Relevance, len(domain.ElaborationModules))
	for _, m := range domain.ElaborationModules {
		rel[m] = 0
		for _, kw := range relevanceKeywords[m] {
			if strings.Contains(lower, kw) {
				rel[m] = 1
				break
			}
		}
	}
	return rel
}

// KeywordAnalyzer is a ResponseAnalyzer that never calls the completion
// service.
type KeywordAnalyzer struct{}

func (KeywordAnalyzer) Analyze(_ context.Context, text string) domain.Relevance {
	return KeywordRelevance(text)
}
