package intelligence

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"

	"github.com/alexanderramin/aiscribe/internal/catalog"
	"github.com/alexanderramin/aiscribe/internal/domain"
	"github.com/alexanderramin/aiscribe/internal/llm"
)

// moduleCategories maps each elaboration module to the categorized_elements
// key that activates it.
var moduleCategories = map[domain.Module]string{
	domain.ModuleCharacter:  CategoryCharacters,
	domain.ModuleSetting:    CategoryPlaces,
	domain.ModuleAtmosphere: CategoryEmotions,
	domain.ModuleAction:     CategoryActions,
}

// DetermineActive marks a module active when the analysis lists its category.
// Presence of the key is what counts, even when the list is empty. Inactive
// modules carry no existing elements.
func DetermineActive(analysis PromptAnalysis) domain.ActiveModules {
	active := make(domain.ActiveModules, len(domain.ElaborationModules))
	for _, m := range domain.ElaborationModules {
		elements, ok := analysis.Element(moduleCategories[m])
		if !ok {
			active[m] = domain.ModuleStatus{Active: false}
			continue
		}
		active[m] = domain.ModuleStatus{Active: true, ExistingElements: elements}
	}
	return active
}

// ModuleSuggester decides which modules to elaborate and asks the LLM for
// per-module suggestions.
type ModuleSuggester interface {
	// Suggest returns the parsed suggestions, or an *llm.ErrorPayload.
	// Failures are not retried.
	Suggest(ctx context.Context, analysis PromptAnalysis) (map[string]any, error)

	// Process combines DetermineActive, Suggest and the catalogue's standard
	// questions. A Suggest failure is embedded as the payload map.
	Process(ctx context.Context, analysis PromptAnalysis) domain.ModuleSuggestions
}

type moduleSuggester struct {
	client   llm.LLMClient
	observer llm.Observer
	catalog  *catalog.Catalog
}

// NewModuleSuggester creates a ModuleSuggester.
func NewModuleSuggester(client llm.LLMClient, observer llm.Observer, cat *catalog.Catalog) ModuleSuggester {
	if observer == nil {
		observer = llm.NoopObserver{}
	}
	if cat == nil {
		cat = catalog.Default()
	}
	return &moduleSuggester{client: client, observer: observer, catalog: cat}
}

func (s *moduleSuggester) Suggest(ctx context.Context, analysis PromptAnalysis) (map[string]any, error) {
	if analysis == nil {
		analysis = PromptAnalysis{}
	}
	analysisJSON, err := json.MarshalIndent(analysis, "", "  ")
	if err != nil {
		return nil, llm.NewErrorPayload(fmt.Sprintf("Error encoding analysis: %v", err), "")
	}

	resp, err := s.client.Generate(ctx, llm.GenerateRequest{
		Task:         llm.TaskModuleSuggest,
		SystemPrompt: moduleSuggestSystemPrompt,
		UserPrompt: "Based on the following prompt analysis, generate specific suggestions and questions:\n\nAnalysis: " +
			string(analysisJSON),
	})
	if err != nil {
		return nil, llm.NewErrorPayload(fmt.Sprintf("Error generating suggestions: %v", err), "")
	}

	obj, err := llm.ExtractObject(resp.Text)
	if err != nil {
		return nil, llm.NewErrorPayload("Could not parse JSON from response", resp.Text)
	}
	return obj, nil
}

func (s *moduleSuggester) Process(ctx context.Context, analysis PromptAnalysis) domain.ModuleSuggestions {
	active := DetermineActive(analysis)

	suggestions, err := s.Suggest(ctx, analysis)
	if err != nil {
		s.observer.OnFallback(llm.FallbackEvent{
			Component: "module_suggester",
			Task:      llm.TaskModuleSuggest,
			Reason:    err.Error(),
		})
		var payload *llm.ErrorPayload
		if errors.As(err, &payload) {
			suggestions = payload.AsMap()
		} else {
			suggestions = llm.NewErrorPayload(err.Error(), "").AsMap()
		}
	}

	var activeList []domain.Module
	for _, m := range domain.ElaborationModules {
		if active.IsActive(m) {
			activeList = append(activeList, m)
		}
	}

	return domain.ModuleSuggestions{
		ActiveModules:     active,
		Suggestions:       suggestions,
		StandardQuestions: s.catalog.StandardQuestionMap(activeList),
	}
}
