package service

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/alexanderramin/aiscribe/internal/catalog"
	"github.com/alexanderramin/aiscribe/internal/db"
	"github.com/alexanderramin/aiscribe/internal/domain"
	"github.com/alexanderramin/aiscribe/internal/intelligence"
	"github.com/alexanderramin/aiscribe/internal/llm"
	"github.com/alexanderramin/aiscribe/internal/repository"
	"github.com/alexanderramin/aiscribe/internal/session"
	"github.com/google/uuid"
)

type refinementService struct {
	promptAnalyzer intelligence.PromptAnalyzer
	suggester      intelligence.ModuleSuggester
	analyzer       intelligence.ResponseAnalyzer
	generator      intelligence.QuestionGenerator
	synthesizer    intelligence.Synthesizer

	llmObserver  llm.Observer
	observer     UseCaseObserver
	uow          db.UnitOfWork
	maxQuestions int
	now          func() time.Time
}

// NewRefinementService wires the intelligence components around one LLM
// client. A nil uow disables archiving; maxQuestions <= 0 selects
// DefaultMaxQuestions.
func NewRefinementService(
	client llm.LLMClient,
	llmObserver llm.Observer,
	cat *catalog.Catalog,
	uow db.UnitOfWork,
	maxQuestions int,
	observers ...UseCaseObserver,
) RefinementService {
	if llmObserver == nil {
		llmObserver = llm.NoopObserver{}
	}
	if cat == nil {
		cat = catalog.Default()
	}
	if maxQuestions <= 0 {
		maxQuestions = DefaultMaxQuestions
	}
	analyzer := intelligence.NewResponseAnalyzer(client, llmObserver)
	return &refinementService{
		promptAnalyzer: intelligence.NewPromptAnalyzer(client, llmObserver),
		suggester:      intelligence.NewModuleSuggester(client, llmObserver, cat),
		analyzer:       analyzer,
		generator:      intelligence.NewQuestionGenerator(client, llmObserver, cat),
		synthesizer:    intelligence.NewSynthesizer(client, analyzer),
		llmObserver:    llmObserver,
		observer:       useCaseObserverOrNoop(observers),
		uow:            uow,
		maxQuestions:   maxQuestions,
		now:            time.Now,
	}
}

func (s *refinementService) Preview(ctx context.Context, prompt string) (preview *Preview, err error) {
	startedAt := time.Now().UTC()
	fields := map[string]any{}
	defer observe(ctx, s.observer, "preview", startedAt, fields, &err)

	prompt = strings.TrimSpace(prompt)
	if prompt == "" {
		return nil, ErrEmptyPrompt
	}

	analysis, suggestions, err := s.analyzePrompt(ctx, prompt)
	if err != nil {
		return nil, err
	}
	fields["active_modules"] = activeModuleNames(suggestions.ActiveModules)
	return &Preview{Analysis: analysis, Suggestions: suggestions}, nil
}

func (s *refinementService) Start(ctx context.Context, prompt string) (r *Refinement, err error) {
	startedAt := time.Now().UTC()
	fields := map[string]any{}
	defer observe(ctx, s.observer, "refine-start", startedAt, fields, &err)

	prompt = strings.TrimSpace(prompt)
	if prompt == "" {
		return nil, ErrEmptyPrompt
	}

	analysis, suggestions, err := s.analyzePrompt(ctx, prompt)
	if err != nil {
		return nil, err
	}

	sess := session.New()
	sess.Initialize(suggestions)

	first := s.generator.Next(ctx, intelligence.QuestionContext{
		State: sess.State(),
		Theme: prompt,
	})
	if err = ctx.Err(); err != nil {
		return nil, err
	}

	fields["active_modules"] = activeModuleNames(suggestions.ActiveModules)
	fields["max_questions"] = s.maxQuestions
	return &Refinement{
		Theme:        prompt,
		Analysis:     analysis,
		Suggestions:  suggestions,
		Session:      sess,
		MaxQuestions: s.maxQuestions,
		Current:      &first,
	}, nil
}

// analyzePrompt runs prompt analysis and module suggestion. A failed
// analysis continues as an empty one; only cancellation is an error.
func (s *refinementService) analyzePrompt(ctx context.Context, prompt string) (intelligence.PromptAnalysis, domain.ModuleSuggestions, error) {
	analysis, err := s.promptAnalyzer.Analyze(ctx, prompt)
	if ctxErr := ctx.Err(); ctxErr != nil {
		return nil, domain.ModuleSuggestions{}, ctxErr
	}
	if err != nil {
		analysis = intelligence.PromptAnalysis{}
	}

	suggestions := s.suggester.Process(ctx, analysis)
	if ctxErr := ctx.Err(); ctxErr != nil {
		return nil, domain.ModuleSuggestions{}, ctxErr
	}
	return analysis, suggestions, nil
}

func (s *refinementService) Answer(ctx context.Context, r *Refinement, answer string) (err error) {
	startedAt := time.Now().UTC()
	fields := map[string]any{}
	defer observe(ctx, s.observer, "refine-answer", startedAt, fields, &err)

	if r == nil || r.Done || r.Current == nil {
		return ErrRefinementEnded
	}
	answer = strings.TrimSpace(answer)
	if answer == "" {
		return ErrEmptyAnswer
	}

	if err = ctx.Err(); err != nil {
		return err
	}

	// A recorded question is never left open.
	turn := r.Session.Record(*r.Current, answer)
	r.Current = nil
	fields["question_id"] = turn.Question.ID
	fields["module"] = string(turn.Question.Module)
	fields["answered"] = r.Answered()

	if r.Answered() >= r.MaxQuestions {
		r.Done = true
		fields["done"] = true
		return nil
	}

	rel := s.analyzer.Analyze(ctx, answer)
	if err = ctx.Err(); err != nil {
		return err
	}
	next := s.generator.Next(ctx, intelligence.QuestionContext{
		State:    r.Session.State(),
		Previous: &turn,
		Analysis: rel,
		Theme:    r.Theme,
	})
	if err = ctx.Err(); err != nil {
		return err
	}

	r.LastRelevance = rel
	r.Current = &next
	return nil
}

func (s *refinementService) Finish(ctx context.Context, r *Refinement) (result *domain.Refinement, err error) {
	if r == nil {
		return nil, ErrRefinementEnded
	}
	if r.result != nil {
		return r.result, nil
	}

	startedAt := time.Now().UTC()
	fields := map[string]any{}
	defer observe(ctx, s.observer, "refine-finish", startedAt, fields, &err)

	history := r.Session.History()
	source := domain.SourceLLM
	text, synthErr := s.synthesizer.Synthesize(ctx, r.Theme, history)
	if synthErr != nil {
		if err = ctx.Err(); err != nil {
			return nil, err
		}
		s.llmObserver.OnFallback(llm.FallbackEvent{
			Component: "synthesizer",
			Task:      llm.TaskSynthesis,
			Reason:    synthErr.Error(),
		})
		buckets := intelligence.BucketAnswers(ctx, intelligence.KeywordAnalyzer{}, history)
		text = intelligence.DeterministicSynthesis(r.Theme, buckets)
		source = domain.SourceDeterministic
	}

	result = &domain.Refinement{
		ID:            uuid.New().String(),
		Theme:         r.Theme,
		FinalPrompt:   text,
		Source:        source,
		ActiveModules: r.Session.State().ActiveModules,
		Transcript:    history,
		CreatedAt:     s.now().UTC(),
	}
	r.result = result
	r.Current = nil
	r.Done = true
	fields["refinement_id"] = result.ID
	fields["source"] = string(source)
	fields["answered"] = len(history)

	if s.uow == nil {
		return result, nil
	}
	err = s.uow.WithinTx(ctx, func(ctx context.Context, tx db.DBTX) error {
		return repository.NewSQLiteRefinementRepo(tx).Create(ctx, result)
	})
	if err != nil {
		// The prompt is still usable; callers decide how to surface this.
		return result, fmt.Errorf("%w: %w", ErrArchiveFailed, err)
	}
	return result, nil
}

func activeModuleNames(active domain.ActiveModules) []string {
	var out []string
	for _, m := range domain.ElaborationModules {
		if active.IsActive(m) {
			out = append(out, string(m))
		}
	}
	return out
}
