package intelligence

import (
	"context"
	"encoding/json"
	"fmt"
	"strconv"
	"strings"

	"github.com/alexanderramin/aiscribe/internal/catalog"
	"github.com/alexanderramin/aiscribe/internal/domain"
	"github.com/alexanderramin/aiscribe/internal/llm"
	"github.com/alexanderramin/aiscribe/internal/session"
)

const defaultAdaptationReason = "Following standard question flow"

// QuestionContext is everything the generator sees when choosing the next
// question.
type QuestionContext struct {
	State    session.State
	Previous *domain.Turn     // nil before the first answer
	Analysis domain.Relevance // relevance of Previous.Response
	Theme    string
}

// QuestionGenerator produces the next clarifying question.
type QuestionGenerator interface {
	// Next never fails: on a service error or unusable output it returns a
	// catalogue question instead.
	Next(ctx context.Context, qc QuestionContext) domain.Question
}

type questionGenerator struct {
	client   llm.LLMClient
	observer llm.Observer
	catalog  *catalog.Catalog
}

// NewQuestionGenerator creates a QuestionGenerator backed by an LLM client and
// a question catalogue for the fallback path.
func NewQuestionGenerator(client llm.LLMClient, observer llm.Observer, cat *catalog.Catalog) QuestionGenerator {
	if observer == nil {
		observer = llm.NoopObserver{}
	}
	if cat == nil {
		cat = catalog.Default()
	}
	return &questionGenerator{client: client, observer: observer, catalog: cat}
}

// questionRequest is the JSON context embedded in the user prompt.
type questionRequest struct {
	Session          session.State    `json:"session"`
	PreviousResponse *previousTurn    `json:"previous_response"`
	ResponseAnalysis domain.Relevance `json:"response_analysis"`
	IntendedModule   domain.Module    `json:"intended_module"`
	ActualModule     *domain.Module   `json:"actual_module"`
	InitialPrompt    string           `json:"initial_prompt,omitempty"`
}

type previousTurn struct {
	Question domain.Question `json:"question"`
	Response string          `json:"response"`
}

func buildQuestionRequest(qc QuestionContext) questionRequest {
	req := questionRequest{
		Session:          qc.State,
		ResponseAnalysis: qc.Analysis,
		IntendedModule:   domain.ModuleGeneral,
		InitialPrompt:    qc.Theme,
	}
	if qc.Previous != nil {
		req.PreviousResponse = &previousTurn{Question: qc.Previous.Question, Response: qc.Previous.Response}
		if qc.Previous.Question.Module != "" {
			req.IntendedModule = qc.Previous.Question.Module
		}
	}
	if best, ok := qc.Analysis.Best(); ok {
		req.ActualModule = &best
	}
	return req
}

func (g *questionGenerator) Next(ctx context.Context, qc QuestionContext) domain.Question {
	q, err := g.generate(ctx, qc)
	if err != nil {
		g.observer.OnFallback(llm.FallbackEvent{
			Component: "question_generator",
			Task:      llm.TaskQuestion,
			Reason:    err.Error(),
		})
		return FallbackQuestion(g.catalog, qc.State)
	}
	return q
}

func (g *questionGenerator) generate(ctx context.Context, qc QuestionContext) (domain.Question, error) {
	reqJSON, err := json.MarshalIndent(buildQuestionRequest(qc), "", "  ")
	if err != nil {
		return domain.Question{}, fmt.Errorf("encoding question context: %w", err)
	}

	userPrompt := fmt.Sprintf("Based on the current context and keeping in mind the initial prompt: %q, generate the next appropriate question.\n\nContext: %s",
		qc.Theme, reqJSON)

	resp, err := g.client.Generate(ctx, llm.GenerateRequest{
		Task:         llm.TaskQuestion,
		SystemPrompt: questionSystemPrompt,
		UserPrompt:   userPrompt,
	})
	if err != nil {
		return domain.Question{}, err
	}

	raw, err := llm.ExtractJSON(resp.Text, validateRawQuestion)
	if err != nil {
		return domain.Question{}, err
	}
	return raw.toQuestion(len(qc.State.QuestionHistory)), nil
}

// rawQuestion is the lenient decoding target for generated questions.
type rawQuestion struct {
	ID               looseString `json:"id"`
	Module           looseString `json:"module"`
	Category         looseString `json:"category"`
	Question         looseString `json:"question"`
	Options          stringList  `json:"options"`
	Examples         stringList  `json:"examples"`
	AdaptationReason looseString `json:"adaptation_reason"`
}

func validateRawQuestion(r rawQuestion) error {
	if strings.TrimSpace(string(r.Question)) == "" {
		return fmt.Errorf("question text is required")
	}
	return nil
}

func (r rawQuestion) toQuestion(historyLen int) domain.Question {
	q := domain.Question{
		ID:               strings.TrimSpace(string(r.ID)),
		Module:           domain.ParseModule(string(r.Module)),
		Category:         strings.TrimSpace(string(r.Category)),
		Question:         strings.TrimSpace(string(r.Question)),
		Options:          []string(r.Options),
		Examples:         []string(r.Examples),
		AdaptationReason: strings.TrimSpace(string(r.AdaptationReason)),
	}
	if q.ID == "" {
		q.ID = "q_" + strconv.Itoa(historyLen)
	}
	if q.AdaptationReason == "" {
		q.AdaptationReason = defaultAdaptationReason
	}
	if q.Options == nil {
		q.Options = []string{}
	}
	if q.Examples == nil {
		q.Examples = []string{}
	}
	return q
}

// looseString accepts a JSON string or number.
type looseString string

func (s *looseString) UnmarshalJSON(data []byte) error {
	var v any
	if err := json.Unmarshal(data, &v); err != nil {
		return err
	}
	*s = looseString(scalarString(v))
	return nil
}

// stringList accepts a single string or a list of scalars.
type stringList []string

func (l *stringList) UnmarshalJSON(data []byte) error {
	var v any
	if err := json.Unmarshal(data, &v); err != nil {
		return err
	}
	switch x := v.(type) {
	case nil:
		*l = nil
	case []any:
		out := make([]string, 0, len(x))
		for _, item := range x {
			if s := strings.TrimSpace(scalarString(item)); s != "" {
				out = append(out, s)
			}
		}
		*l = out
	default:
		if s := strings.TrimSpace(scalarString(x)); s != "" {
			*l = []string{s}
		} else {
			*l = []string{}
		}
	}
	return nil
}

func scalarString(v any) string {
	switch x := v.(type) {
	case nil:
		return ""
	case string:
		return x
	case float64:
		return strconv.FormatFloat(x, 'f', -1, 64)
	case bool:
		return strconv.FormatBool(x)
	default:
		data, err := json.Marshal(x)
		if err != nil {
			return ""
		}
		return string(data)
	}
}
