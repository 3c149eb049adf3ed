package intelligence

import (
	"context"
	"fmt"
	"strings"

	"github.com/alexanderramin/aiscribe/internal/domain"
	"github.com/alexanderramin/aiscribe/internal/llm"
)

// DefaultStyle seeds the style bucket of every synthesis.
var DefaultStyle = []string{
	"cinematic composition",
	"dramatic lighting",
	"highly detailed",
	"photographic quality",
}

// Bucket names, in the order they are presented to the model.
const (
	BucketCharacter  = "character"
	BucketSetting    = "setting"
	BucketAtmosphere = "atmosphere"
	BucketAction     = "action"
	BucketStyle      = "style"
)

var bucketOrder = []string{BucketCharacter, BucketSetting, BucketAtmosphere, BucketAction, BucketStyle}

// Buckets groups answers by the module they describe.
type Buckets map[string][]string

// Joined returns each non-empty bucket's answers joined with "; ", keyed
// by bucket name.
func (b Buckets) Joined() map[string]string {
	out := make(map[string]string, len(b))
	for name, answers := range b {
		if len(answers) == 0 {
			continue
		}
		out[name] = strings.Join(answers, "; ")
	}
	return out
}

// Lines renders the non-empty buckets as "name: a; b" lines in presentation
// order.
func (b Buckets) Lines() []string {
	joined := b.Joined()
	var lines []string
	for _, name := range bucketOrder {
		if v, ok := joined[name]; ok {
			lines = append(lines, name+": "+v)
		}
	}
	return lines
}

// BucketAnswers sorts every answer in history into a bucket by its
// question's module. Answers to general questions are re-scored with
// analyzer and placed under the best matching module.
func BucketAnswers(ctx context.Context, analyzer ResponseAnalyzer, history []domain.Turn) Buckets {
	b := Buckets{BucketStyle: append([]string(nil), DefaultStyle...)}
	for _, turn := range history {
		answer := strings.TrimSpace(turn.Response)
		if answer == "" {
			continue
		}
		m := turn.Question.Module
		if !m.IsElaboration() {
			m, _ = analyzer.Analyze(ctx, answer).Best()
		}
		name := bucketFor(m)
		b[name] = append(b[name], answer)
	}
	return b
}

func bucketFor(m domain.Module) string {
	switch m {
	case domain.ModuleCharacter:
		return BucketCharacter
	case domain.ModuleSetting:
		return BucketSetting
	case domain.ModuleAtmosphere:
		return BucketAtmosphere
	case domain.ModuleAction:
		return BucketAction
	case domain.ModuleGeneral:
		return BucketCharacter
	default:
		return BucketCharacter
	}
}

// Synthesizer merges a finished session into one image-generation prompt.
type Synthesizer interface {
	// Synthesize returns the trimmed completion text. Completion errors are
	// returned to the caller.
	Synthesize(ctx context.Context, theme string, history []domain.Turn) (string, error)
}

type synthesizer struct {
	client   llm.LLMClient
	analyzer ResponseAnalyzer
}

// NewSynthesizer creates a Synthesizer. analyzer re-scores answers given to
// general questions.
func NewSynthesizer(client llm.LLMClient, analyzer ResponseAnalyzer) Synthesizer {
	return &synthesizer{client: client, analyzer: analyzer}
}

func (s *synthesizer) Synthesize(ctx context.Context, theme string, history []domain.Turn) (string, error) {
	buckets := BucketAnswers(ctx, s.analyzer, history)

	resp, err := s.client.Generate(ctx, llm.GenerateRequest{
		Task:         llm.TaskSynthesis,
		SystemPrompt: synthesisSystemPrompt,
		UserPrompt:   synthesisUserPrompt(theme, buckets),
	})
	if err != nil {
		return "", fmt.Errorf("synthesizing prompt: %w", err)
	}

	text := strings.TrimSpace(resp.Text)
	if text == "" {
		return "", fmt.Errorf("synthesizing prompt: %w", &llm.ParseFailure{Reason: "empty completion", Raw: resp.Text})
	}
	return text, nil
}

func synthesisUserPrompt(theme string, buckets Buckets) string {
	var sb strings.Builder
	if theme != "" {
		fmt.Fprintf(&sb, "Original idea: %s\n\n", theme)
	}
	sb.WriteString("Collected details by element:\n")
	for _, line := range buckets.Lines() {
		sb.WriteString("- ")
		sb.WriteString(line)
		sb.WriteByte('\n')
	}
	sb.WriteString("\nWrite the final prompt: lead with the character, flow into the setting and atmosphere, incorporate the action, and close with the style.")
	return sb.String()
}

// DeterministicSynthesis builds a final prompt directly from the buckets
// without using the LLM. Used when the synthesis call fails.
func DeterministicSynthesis(theme string, buckets Buckets) string {
	joined := buckets.Joined()

	var parts []string
	if t := strings.TrimRight(strings.TrimSpace(theme), "."); t != "" {
		parts = append(parts, t)
	}
	labels := map[string]string{
		BucketCharacter:  "Character",
		BucketSetting:    "Setting",
		BucketAtmosphere: "Atmosphere",
		BucketAction:     "Action",
	}
	for _, name := range bucketOrder {
		v, ok := joined[name]
		if !ok {
			continue
		}
		if name == BucketStyle {
			parts = append(parts, strings.ReplaceAll(v, "; ", ", "))
			continue
		}
		parts = append(parts, labels[name]+": "+v)
	}
	return strings.Join(parts, ". ") + "."
}
