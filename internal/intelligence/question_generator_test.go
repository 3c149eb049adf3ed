package intelligence

import (
	"context"
	"encoding/json"
	"strings"
	"testing"

	"github.com/alexanderramin/aiscribe/internal/catalog"
	"github.com/alexanderramin/aiscribe/internal/domain"
	"github.com/alexanderramin/aiscribe/internal/llm"
	"github.com/alexanderramin/aiscribe/internal/session"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func activeSession(modules ...domain.Module) *session.Session {
	active := domain.ActiveModules{}
	standard := map[domain.Module][]string{}
	cat := catalog.Default()
	for _, m := range modules {
		active[m] = domain.ModuleStatus{Active: true}
		standard[m] = cat.StandardQuestions(m)
	}
	s := session.New()
	s.Initialize(domain.ModuleSuggestions{ActiveModules: active, StandardQuestions: standard})
	return s
}

func TestQuestionGenerator_UsesGeneratedQuestion(t *testing.T) {
	client := &mockLLMClient{response: `{
  "id": "q_custom",
  "question": "What color is the knight's armor?",
  "options": ["silver", "black", "gold"],
  "examples": ["Polished silver plate"],
  "module": "Character",
  "category": "appearance",
  "adaptation_reason": "The user described a knight"
}`}
	g := NewQuestionGenerator(client, nil, nil)
	s := activeSession(domain.ModuleCharacter)

	q := g.Next(context.Background(), QuestionContext{State: s.State(), Theme: "A knight"})

	assert.Equal(t, "q_custom", q.ID)
	assert.Equal(t, domain.ModuleCharacter, q.Module)
	assert.Equal(t, "appearance", q.Category)
	assert.Equal(t, "What color is the knight's armor?", q.Question)
	assert.Equal(t, []string{"silver", "black", "gold"}, q.Options)
	assert.Equal(t, []string{"Polished silver plate"}, q.Examples)
	assert.Equal(t, "The user described a knight", q.AdaptationReason)
}

func TestQuestionGenerator_FillsMissingFields(t *testing.T) {
	client := &mockLLMClient{response: `Sure! {"question": "How bright is the moon?", "options": "full and bright", "examples": "A glowing full moon", "module": "weather"}`}
	g := NewQuestionGenerator(client, nil, nil)
	s := activeSession(domain.ModuleSetting)
	s.Record(domain.Question{ID: "q_0", Module: domain.ModuleSetting, Question: "Where?"}, "by the sea")
	s.Record(domain.Question{ID: "q_1", Module: domain.ModuleSetting, Question: "When?"}, "at night")

	q := g.Next(context.Background(), QuestionContext{State: s.State()})

	assert.Equal(t, "q_2", q.ID)
	assert.Equal(t, domain.ModuleGeneral, q.Module)
	assert.Equal(t, "Following standard question flow", q.AdaptationReason)
	assert.Equal(t, []string{"full and bright"}, q.Options)
	assert.Equal(t, []string{"A glowing full moon"}, q.Examples)
}

func TestQuestionGenerator_RequestEmbedsContext(t *testing.T) {
	client := &mockLLMClient{response: `{"question": "Next?", "options": [], "examples": [], "module": "setting"}`}
	g := NewQuestionGenerator(client, nil, nil)
	s := activeSession(domain.ModuleCharacter, domain.ModuleSetting)
	prevQ := domain.Question{ID: "q_0", Module: domain.ModuleCharacter, Question: "Who is there?"}
	turn := s.Record(prevQ, "nobody, just a misty forest")

	g.Next(context.Background(), QuestionContext{
		State:    s.State(),
		Previous: &turn,
		Analysis: domain.Relevance{domain.ModuleCharacter: 0.1, domain.ModuleSetting: 0.9, domain.ModuleAtmosphere: 0.3, domain.ModuleAction: 0},
		Theme:    "A forest at dawn",
	})

	require.Len(t, client.requests, 1)
	req := client.requests[0]
	assert.Equal(t, llm.TaskQuestion, req.Task)
	assert.Contains(t, req.UserPrompt, `"A forest at dawn"`)

	ctxJSON := req.UserPrompt[strings.Index(req.UserPrompt, "{"):]
	var decoded map[string]any
	require.NoError(t, json.Unmarshal([]byte(ctxJSON), &decoded))
	assert.Equal(t, "character", decoded["intended_module"])
	assert.Equal(t, "setting", decoded["actual_module"])
	assert.Equal(t, "A forest at dawn", decoded["initial_prompt"])
	assert.Contains(t, decoded, "session")
	prev := decoded["previous_response"].(map[string]any)
	assert.Equal(t, "nobody, just a misty forest", prev["response"])
}

func TestQuestionGenerator_FirstQuestionIntendsGeneral(t *testing.T) {
	req := buildQuestionRequest(QuestionContext{State: session.New().State()})
	assert.Equal(t, domain.ModuleGeneral, req.IntendedModule)
	assert.Nil(t, req.ActualModule)
	assert.Nil(t, req.PreviousResponse)
}

func TestQuestionGenerator_TiedAnalysisPicksCanonicalOrder(t *testing.T) {
	req := buildQuestionRequest(QuestionContext{
		Analysis: domain.Relevance{domain.ModuleAction: 0.5, domain.ModuleSetting: 0.5, domain.ModuleCharacter: 0.2, domain.ModuleAtmosphere: 0},
	})
	require.NotNil(t, req.ActualModule)
	assert.Equal(t, domain.ModuleSetting, *req.ActualModule)
}

func TestQuestionGenerator_MissingQuestionTextFallsBack(t *testing.T) {
	obs := &recordingObserver{}
	client := &mockLLMClient{response: `{"options": ["a"], "module": "character"}`}
	g := NewQuestionGenerator(client, obs, nil)
	s := activeSession(domain.ModuleCharacter)

	q := g.Next(context.Background(), QuestionContext{State: s.State()})

	assert.Equal(t, "What should the character's appearance be like?", q.Question)
	assert.Equal(t, domain.ModuleCharacter, q.Module)
	assert.Equal(t, "appearance", q.Category)
	assert.Equal(t, "q_0", q.ID)
	require.Len(t, obs.fallbacks, 1)
	assert.Equal(t, "question_generator", obs.fallbacks[0].Component)
}

func TestQuestionGenerator_ServiceErrorFallsBackToFirstIncompleteModule(t *testing.T) {
	g := NewQuestionGenerator(&mockLLMClient{err: llm.ErrUnavailable}, nil, nil)
	s := activeSession(domain.ModuleAtmosphere, domain.ModuleAction)

	q := g.Next(context.Background(), QuestionContext{State: s.State()})

	assert.Equal(t, domain.ModuleAtmosphere, q.Module)
	assert.Equal(t, "What mood should the scene convey?", q.Question)
	assert.Equal(t, []string{"peaceful", "mysterious", "dramatic", "whimsical"}, q.Options)
	assert.Equal(t, []string{"For example: 'A serene and mystical atmosphere'"}, q.Examples)
}

func TestFallbackQuestion_SkipsAskedTemplates(t *testing.T) {
	cat := catalog.Default()
	s := activeSession(domain.ModuleCharacter, domain.ModuleSetting)

	var asked []string
	for i := 0; i < 7; i++ {
		q := FallbackQuestion(cat, s.State())
		asked = append(asked, q.Category)
		s.Record(q, "answer")
	}

	// Character has three templates, then setting, then the closing question
	// once every template has been used.
	assert.Equal(t, []string{
		"appearance", "facial_expression", "clothing",
		"environment", "weather", "time",
		"refinement",
	}, asked)
}

func TestFallbackQuestion_SkipsCompletedModules(t *testing.T) {
	cat := catalog.Default()
	s := session.New()
	s.Initialize(domain.ModuleSuggestions{
		ActiveModules: domain.ActiveModules{
			domain.ModuleCharacter: {Active: true},
			domain.ModuleAction:    {Active: true},
		},
		StandardQuestions: map[domain.Module][]string{
			domain.ModuleCharacter: {"only one"},
			domain.ModuleAction:    {"a", "b"},
		},
	})
	s.Record(domain.Question{ID: "q_0", Module: domain.ModuleCharacter, Question: "Custom"}, "tall")

	q := FallbackQuestion(cat, s.State())
	assert.Equal(t, domain.ModuleAction, q.Module)
	assert.Equal(t, "movement", q.Category)
	assert.Equal(t, "q_1", q.ID)
}

func TestScenario_WavySeaGetsClosingQuestion(t *testing.T) {
	// The analysis of "A wavy sea under the moonlight" came back without
	// categorized_elements, so no module is active.
	analysis := PromptAnalysis{"keywords": []any{"sea", "moonlight"}}
	active := DetermineActive(analysis)
	for _, m := range domain.ElaborationModules {
		assert.False(t, active.IsActive(m))
	}

	s := session.New()
	s.Initialize(domain.ModuleSuggestions{ActiveModules: active})

	g := NewQuestionGenerator(&mockLLMClient{response: "no json here"}, nil, nil)
	q := g.Next(context.Background(), QuestionContext{State: s.State(), Theme: "A wavy sea under the moonlight"})

	assert.Equal(t, "What other details would you like to add to the image?", q.Question)
	assert.Equal(t, domain.ModuleGeneral, q.Module)
	assert.Equal(t, "refinement", q.Category)
	assert.Equal(t, []string{"Add more detail", "Enhance mood", "Adjust composition", "Complete as is"}, q.Options)
}

func TestStringList_Decoding(t *testing.T) {
	var l stringList
	require.NoError(t, json.Unmarshal([]byte(`["a", 2, true, " "]`), &l))
	assert.Equal(t, stringList{"a", "2", "true"}, l)

	require.NoError(t, json.Unmarshal([]byte(`"single"`), &l))
	assert.Equal(t, stringList{"single"}, l)

	require.NoError(t, json.Unmarshal([]byte(`null`), &l))
	assert.Nil(t, l)
}
