package service

import (
	"errors"

	"github.com/alexanderramin/aiscribe/internal/domain"
	"github.com/alexanderramin/aiscribe/internal/intelligence"
	"github.com/alexanderramin/aiscribe/internal/session"
)

// DefaultMaxQuestions is the number of answers collected before synthesis.
const DefaultMaxQuestions = 5

var (
	ErrEmptyPrompt     = errors.New("prompt must not be empty")
	ErrEmptyAnswer     = errors.New("answer must not be empty")
	ErrRefinementEnded = errors.New("refinement has no open question")
	// ErrArchiveFailed is returned by Finish together with a usable result
	// when only the archive write failed.
	ErrArchiveFailed = errors.New("archiving refinement")
)

// Preview is the result of analyzing a prompt without questioning.
type Preview struct {
	Analysis    intelligence.PromptAnalysis `json:"analysis"`
	Suggestions domain.ModuleSuggestions    `json:"suggestions"`
}

// Refinement is one in-progress question session. It is owned by a single
// caller and must not be shared between goroutines.
type Refinement struct {
	Theme        string
	Analysis     intelligence.PromptAnalysis
	Suggestions  domain.ModuleSuggestions
	Session      *session.Session
	MaxQuestions int

	// Current is the open question, nil once the refinement is done.
	Current *domain.Question
	// LastRelevance is the relevance of the most recent answer.
	LastRelevance domain.Relevance
	Done          bool

	result *domain.Refinement
}

// QuestionNumber is the 1-based position of the current question.
func (r *Refinement) QuestionNumber() int {
	return r.Session.CompletedQuestions() + 1
}

// Answered returns the number of recorded answers.
func (r *Refinement) Answered() int {
	return r.Session.CompletedQuestions()
}

// Result returns the finished refinement, or nil before Finish succeeds.
func (r *Refinement) Result() *domain.Refinement {
	return r.result
}
