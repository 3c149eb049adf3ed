package formatter

import (
	"fmt"
	"strings"

	"github.com/alexanderramin/aiscribe/internal/domain"
)

// FormatQuestion renders a question with its numbered options and the first
// example answer, for line-mode prompting.
func FormatQuestion(q domain.Question, number, total int) string {
	var b strings.Builder
	b.WriteString(QuestionProgress(number, total))
	b.WriteString("\n\n")
	fmt.Fprintf(&b, "%s  %s\n", ModuleBadge(q.Module), Bold(q.Question))
	for i, opt := range q.Options {
		fmt.Fprintf(&b, "  %s %s\n", StyleHeader.Render(fmt.Sprintf("%d.", i+1)), opt)
	}
	if ex := q.FirstExample(); ex != "" {
		fmt.Fprintf(&b, "  %s\n", Dim("e.g. "+ex))
	}
	return b.String()
}

// AnswerHint is the line-mode input hint shown under each question.
func AnswerHint(optionCount int) string {
	if optionCount == 0 {
		return Dim("Type your answer, or 'done' to finish now.")
	}
	return Dim(fmt.Sprintf("Pick 1-%d, type your own answer, or 'done' to finish now.", optionCount))
}
