package intelligence

import (
	"context"
	"fmt"

	"github.com/alexanderramin/aiscribe/internal/llm"
)

// Category keys recognized inside categorized_elements.
const (
	CategoryCharacters = "Characters"
	CategoryPlaces     = "Places"
	CategoryActions    = "Actions/Processes"
	CategoryEmotions   = "Emotions/Style"
)

// PromptAnalysis is the structured breakdown of an image prompt. Its shape is
// whatever the model returned; only categorized_elements is interpreted.
type PromptAnalysis map[string]any

// CategorizedElements returns the categorized_elements object, or nil when
// the analysis has none.
func (a PromptAnalysis) CategorizedElements() map[string]any {
	ce, _ := a["categorized_elements"].(map[string]any)
	return ce
}

// Element returns the elements listed under category and whether the key
// is present at all.
func (a PromptAnalysis) Element(category string) (any, bool) {
	ce := a.CategorizedElements()
	if ce == nil {
		return nil, false
	}
	v, ok := ce[category]
	return v, ok
}

// PromptAnalyzer breaks a free-text image prompt into categorized elements.
type PromptAnalyzer interface {
	// Analyze returns the analysis, or an *llm.ErrorPayload when the
	// completion failed or could not be parsed.
	Analyze(ctx context.Context, prompt string) (PromptAnalysis, error)
}

type promptAnalyzer struct {
	client   llm.LLMClient
	observer llm.Observer
}

// NewPromptAnalyzer creates a PromptAnalyzer backed by an LLM client.
func NewPromptAnalyzer(client llm.LLMClient, observer llm.Observer) PromptAnalyzer {
	if observer == nil {
		observer = llm.NoopObserver{}
	}
	return &promptAnalyzer{client: client, observer: observer}
}

func (a *promptAnalyzer) Analyze(ctx context.Context, prompt string) (PromptAnalysis, error) {
	resp, err := a.client.Generate(ctx, llm.GenerateRequest{
		Task:         llm.TaskPromptAnalysis,
		SystemPrompt: promptAnalysisSystemPrompt,
		UserPrompt: fmt.Sprintf("Analyze the following text-to-image prompt and break it down into its components:\n\nPrompt: %q",
			prompt),
	})
	if err != nil {
		a.observer.OnFallback(llm.FallbackEvent{Component: "prompt_analyzer", Task: llm.TaskPromptAnalysis, Reason: err.Error()})
		return nil, llm.NewErrorPayload(fmt.Sprintf("Error analyzing prompt: %v", err), "")
	}

	obj, err := llm.ExtractObject(resp.Text)
	if err != nil {
		a.observer.OnFallback(llm.FallbackEvent{Component: "prompt_analyzer", Task: llm.TaskPromptAnalysis, Reason: err.Error()})
		return nil, llm.NewErrorPayload("Could not parse JSON from response", resp.Text)
	}
	return PromptAnalysis(obj), nil
}
