package formatter

import (
	"fmt"
	"strings"
)

const (
	filledBlock = "█"
	emptyBlock  = "░"
)

// RenderProgress renders a bar like [████░░░░] 2/5 for n of total steps.
func RenderProgress(n, total, width int) string {
	if total <= 0 {
		total = 1
	}
	if n < 0 {
		n = 0
	}
	if n > total {
		n = total
	}
	if width < 2 {
		width = 2
	}

	filled := n * width / total
	bar := strings.Repeat(filledBlock, filled) + strings.Repeat(emptyBlock, width-filled)
	return fmt.Sprintf("[%s] %d/%d", StyleAqua.Render(bar), n, total)
}

// QuestionProgress is the "Question 2 of 5" header line with its bar.
func QuestionProgress(number, total int) string {
	return fmt.Sprintf("%s  %s", Bold(fmt.Sprintf("Question %d of %d", number, total)), RenderProgress(number, total, 20))
}
