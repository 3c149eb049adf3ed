package session

import (
	"encoding/json"
	"testing"
	"time"

	"github.com/alexanderramin/aiscribe/internal/domain"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func suggestions() domain.ModuleSuggestions {
	return domain.ModuleSuggestions{
		ActiveModules: domain.ActiveModules{
			domain.ModuleCharacter:  {Active: true, ExistingElements: []any{"knight"}},
			domain.ModuleSetting:    {Active: true, ExistingElements: []any{"castle"}},
			domain.ModuleAtmosphere: {Active: false},
			domain.ModuleAction:     {Active: false},
		},
		StandardQuestions: map[domain.Module][]string{
			domain.ModuleCharacter: {"a", "b"},
		},
	}
}

func question(id string, m domain.Module) domain.Question {
	return domain.Question{ID: id, Module: m, Question: "Q " + id, Options: []string{"x", "y"}}
}

func TestInitialize_ProgressStartsAtZero(t *testing.T) {
	s := New()
	s.Initialize(suggestions())

	st := s.State()
	require.Len(t, st.Progress, 2)
	assert.Equal(t, Progress{Completed: 0, Total: 2}, st.Progress[domain.ModuleCharacter])
	// Active module without standard questions gets a zero budget.
	assert.Equal(t, Progress{Completed: 0, Total: 0}, st.Progress[domain.ModuleSetting])
	_, tracked := st.Progress[domain.ModuleAtmosphere]
	assert.False(t, tracked)

	assert.Empty(t, st.Responses)
	assert.Empty(t, st.QuestionHistory)
	assert.Len(t, st.ActiveModules, 4)
}

func TestInitialize_ClearsPreviousRun(t *testing.T) {
	s := New()
	s.Initialize(suggestions())
	s.Record(question("q_0", domain.ModuleCharacter), "tall")

	s.Initialize(suggestions())
	assert.Zero(t, s.CompletedQuestions())
	p, ok := s.ModuleProgress(domain.ModuleCharacter)
	require.True(t, ok)
	assert.Zero(t, p.Completed)
}

func TestInitialize_NilActiveModules(t *testing.T) {
	s := New()
	s.Initialize(domain.ModuleSuggestions{})
	st := s.State()
	assert.NotNil(t, st.ActiveModules)
	assert.Empty(t, st.Progress)
	assert.Empty(t, s.RemainingModules())
}

func TestRecord_IncrementsTrackedModuleByOne(t *testing.T) {
	s := New()
	s.Initialize(suggestions())

	before := len(s.History())
	s.Record(question("q_0", domain.ModuleCharacter), "tall")

	p, _ := s.ModuleProgress(domain.ModuleCharacter)
	assert.Equal(t, 1, p.Completed)
	assert.Len(t, s.History(), before+1)
	assert.Equal(t, "tall", s.State().Responses["q_0"])
}

func TestRecord_ClampsAtTotal(t *testing.T) {
	s := New()
	s.Initialize(suggestions())

	for i := 0; i < 4; i++ {
		s.Record(question("q", domain.ModuleCharacter), "again")
	}
	p, _ := s.ModuleProgress(domain.ModuleCharacter)
	assert.Equal(t, 2, p.Completed)
	assert.Equal(t, 4, s.CompletedQuestions())
}

func TestRecord_UntrackedModuleOnlyAppendsHistory(t *testing.T) {
	s := New()
	s.Initialize(suggestions())

	s.Record(question("q_0", domain.ModuleGeneral), "more fog")
	s.Record(question("q_1", domain.ModuleAction), "running")

	st := s.State()
	assert.Len(t, st.QuestionHistory, 2)
	_, tracked := st.Progress[domain.ModuleGeneral]
	assert.False(t, tracked)
	_, tracked = st.Progress[domain.ModuleAction]
	assert.False(t, tracked)
}

func TestRecord_StampsAnswerTime(t *testing.T) {
	fixed := time.Date(2026, 3, 1, 12, 0, 0, 0, time.UTC)
	s := New()
	s.now = func() time.Time { return fixed }

	turn := s.Record(question("q_0", domain.ModuleGeneral), "x")
	assert.Equal(t, fixed, turn.AnsweredAt)
}

func TestState_IsSnapshot(t *testing.T) {
	s := New()
	s.Initialize(suggestions())
	q := question("q_0", domain.ModuleCharacter)
	s.Record(q, "tall")

	st := s.State()
	st.Responses["q_0"] = "short"
	st.Progress[domain.ModuleCharacter] = Progress{Completed: 9, Total: 9}
	st.QuestionHistory[0].Question.Options[0] = "mutated"
	delete(st.ActiveModules, domain.ModuleCharacter)
	q.Options[1] = "mutated too"

	fresh := s.State()
	assert.Equal(t, "tall", fresh.Responses["q_0"])
	assert.Equal(t, 1, fresh.Progress[domain.ModuleCharacter].Completed)
	assert.Equal(t, []string{"x", "y"}, fresh.QuestionHistory[0].Question.Options)
	assert.True(t, fresh.ActiveModules.IsActive(domain.ModuleCharacter))
}

func TestHistory_OldestFirst(t *testing.T) {
	s := New()
	s.Record(question("q_0", domain.ModuleGeneral), "first")
	s.Record(question("q_1", domain.ModuleGeneral), "second")

	h := s.History()
	require.Len(t, h, 2)
	assert.Equal(t, "first", h[0].Response)
	assert.Equal(t, "second", h[1].Response)
}

func TestRemainingModules_CanonicalOrder(t *testing.T) {
	s := New()
	s.Initialize(domain.ModuleSuggestions{
		ActiveModules: domain.ActiveModules{
			domain.ModuleAction:    {Active: true},
			domain.ModuleCharacter: {Active: true},
			domain.ModuleSetting:   {Active: true},
		},
		StandardQuestions: map[domain.Module][]string{
			domain.ModuleAction:    {"a"},
			domain.ModuleCharacter: {"c"},
			domain.ModuleSetting:   {},
		},
	})
	assert.Equal(t, []domain.Module{domain.ModuleCharacter, domain.ModuleAction}, s.RemainingModules())

	s.Record(question("q_0", domain.ModuleCharacter), "x")
	assert.Equal(t, []domain.Module{domain.ModuleAction}, s.RemainingModules())
}

func TestReset(t *testing.T) {
	s := New()
	s.Initialize(suggestions())
	s.Record(question("q_0", domain.ModuleCharacter), "x")

	s.Reset()
	st := s.State()
	assert.Empty(t, st.ActiveModules)
	assert.Empty(t, st.Progress)
	assert.Zero(t, s.CompletedQuestions())
}

func TestState_JSONShape(t *testing.T) {
	s := New()
	s.Initialize(suggestions())
	s.Record(question("q_0", domain.ModuleCharacter), "tall")

	data, err := json.Marshal(s.State())
	require.NoError(t, err)

	var decoded map[string]any
	require.NoError(t, json.Unmarshal(data, &decoded))
	assert.ElementsMatch(t, []string{"active_modules", "responses", "progress", "question_history"}, keys(decoded))

	progress := decoded["progress"].(map[string]any)
	assert.Equal(t, map[string]any{"completed": 1.0, "total": 2.0}, progress["character"])
}

func keys(m map[string]any) []string {
	out := make([]string, 0, len(m))
	for k := range m {
		out = append(out, k)
	}
	return out
}
