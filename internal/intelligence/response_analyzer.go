package intelligence

import (
	"context"
	"fmt"
	"strconv"
	"strings"

	"github.com/alexanderramin/aiscribe/internal/domain"
	"github.com/alexanderramin/aiscribe/internal/llm"
)

// detailFieldDivisor is the fixed denominator applied to nested
// <module>_details objects. A details object with more than three truthy
// fields would exceed 1, so the score is clamped afterwards.
const detailFieldDivisor = 3.0

// ResponseAnalyzer scores a free-text answer against the elaboration modules.
type ResponseAnalyzer interface {
	// Analyze never fails: the result always holds all four elaboration
	// modules, each in [0,1].
	Analyze(ctx context.Context, text string) domain.Relevance
}

type responseAnalyzer struct {
	client   llm.LLMClient
	observer llm.Observer
}

// NewResponseAnalyzer creates a ResponseAnalyzer backed by an LLM client,
// falling back to KeywordRelevance when the call or its parsing fails.
func NewResponseAnalyzer(client llm.LLMClient, observer llm.Observer) ResponseAnalyzer {
	if observer == nil {
		observer = llm.NoopObserver{}
	}
	return &responseAnalyzer{client: client, observer: observer}
}

func (a *responseAnalyzer) Analyze(ctx context.Context, text string) domain.Relevance {
	rel, err := a.analyze(ctx, text)
	if err != nil {
		a.observer.OnFallback(llm.FallbackEvent{
			Component: "response_analyzer",
			Task:      llm.TaskResponseAnalysis,
			Reason:    err.Error(),
		})
		return KeywordRelevance(text)
	}
	return rel
}

func (a *responseAnalyzer) analyze(ctx context.Context, text string) (domain.Relevance, error) {
	resp, err := a.client.Generate(ctx, llm.GenerateRequest{
		Task:         llm.TaskResponseAnalysis,
		SystemPrompt: responseAnalysisSystemPrompt,
		UserPrompt:   fmt.Sprintf("Analyze this response and determine which modules it relates to:\nResponse: %q", text),
	})
	if err != nil {
		return nil, err
	}

	obj, err := llm.ExtractObject(resp.Text)
	if err != nil {
		return nil, err
	}

	rel, ok := relevanceFromObject(obj)
	if !ok {
		// Some models wrap the scores, e.g. {"relevance": {...}}.
		for _, v := range obj {
			if inner, isMap := v.(map[string]any); isMap {
				if rel, ok = relevanceFromObject(inner); ok {
					break
				}
			}
		}
	}
	if !ok {
		return nil, &llm.ParseFailure{Reason: "no module scores in response", Raw: resp.Text}
	}
	return rel, nil
}

// relevanceFromObject reads module scores out of a parsed completion. ok is
// false when no module key was recognized.
func relevanceFromObject(obj map[string]any) (domain.Relevance, bool) {
	rel := domain.Relevance{}
	found := false
	for _, m := range domain.ElaborationModules {
		if details, ok := lookupKey(obj, string(m)+"_details"); ok {
			found = true
			if dm, isMap := details.(map[string]any); isMap {
				rel[m] = float64(countTruthy(dm)) / detailFieldDivisor
			}
			continue
		}
		for _, key := range []string{string(m), string(m) + "_relevance", string(m) + "_score"} {
			v, ok := lookupKey(obj, key)
			if !ok {
				continue
			}
			if score, isNum := scoreValue(v); isNum {
				rel[m] = score
				found = true
				break
			}
		}
	}
	if !found {
		return nil, false
	}
	return rel.Normalize(), true
}

// lookupKey finds key in obj, ignoring case.
func lookupKey(obj map[string]any, key string) (any, bool) {
	if v, ok := obj[key]; ok {
		return v, true
	}
	for k, v := range obj {
		if strings.EqualFold(k, key) {
			return v, true
		}
	}
	return nil, false
}

// scoreValue accepts a number, a numeric string, or an object carrying a
// score/relevance field.
func scoreValue(v any) (float64, bool) {
	switch x := v.(type) {
	case float64:
		return x, true
	case string:
		f, err := strconv.ParseFloat(strings.TrimSpace(x), 64)
		return f, err == nil
	case map[string]any:
		for _, k := range []string{"score", "relevance"} {
			if inner, ok := lookupKey(x, k); ok {
				return scoreValue(inner)
			}
		}
	}
	return 0, false
}

func countTruthy(m map[string]any) int {
	n := 0
	for _, v := range m {
		if truthy(v) {
			n++
		}
	}
	return n
}

func truthy(v any) bool {
	switch x := v.(type) {
	case nil:
		return false
	case bool:
		return x
	case float64:
		return x != 0
	case string:
		return x != ""
	case []any:
		return len(x) > 0
	case map[string]any:
		return len(x) > 0
	default:
		return true
	}
}
