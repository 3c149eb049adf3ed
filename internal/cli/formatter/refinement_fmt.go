package formatter

import (
	"fmt"
	"strings"

	"github.com/alexanderramin/aiscribe/internal/domain"
	"github.com/alexanderramin/aiscribe/internal/repository"
)

// FormatFinalPrompt renders the synthesized prompt in a box.
func FormatFinalPrompt(r *domain.Refinement) string {
	body := Wrap(r.FinalPrompt, 72)
	footer := fmt.Sprintf("%s  %s  %s", SourceBadge(r.Source), TruncID(r.ID), Dim(fmt.Sprintf("%d answers", len(r.Transcript))))
	return RenderBox("Your prompt", body+"\n\n"+footer) + "\n"
}

// FormatTranscript renders every question and answer of a refinement.
func FormatTranscript(turns []domain.Turn) string {
	if len(turns) == 0 {
		return Dim("No questions were answered.") + "\n"
	}
	var b strings.Builder
	for i, t := range turns {
		fmt.Fprintf(&b, "%s %s  %s\n", StyleHeader.Render(fmt.Sprintf("Q%d", i+1)), ModuleBadge(t.Question.Module), t.Question.Question)
		fmt.Fprintf(&b, "%s %s\n\n", StyleAqua.Render(fmt.Sprintf("A%d", i+1)), t.Response)
	}
	return b.String()
}

// FormatRefinementDetail renders an archived refinement with its modules and
// transcript.
func FormatRefinementDetail(r *domain.Refinement) string {
	var b strings.Builder
	b.WriteString(Header("Refinement " + r.ShortID()))
	b.WriteString("\n")
	fmt.Fprintf(&b, "%s %s\n", Dim("Theme:  "), r.Theme)
	fmt.Fprintf(&b, "%s %s\n", Dim("Created:"), HumanTimestamp(r.CreatedAt))
	fmt.Fprintf(&b, "%s %s\n\n", Dim("Modules:"), formatActiveModules(r.ActiveModules))
	b.WriteString(FormatFinalPrompt(r))
	b.WriteString("\n")
	b.WriteString(Header("Transcript"))
	b.WriteString("\n")
	b.WriteString(FormatTranscript(r.Transcript))
	return b.String()
}

func formatActiveModules(active domain.ActiveModules) string {
	var parts []string
	for _, m := range domain.ElaborationModules {
		if active.IsActive(m) {
			parts = append(parts, ModuleBadge(m))
		}
	}
	if len(parts) == 0 {
		return Dim("none")
	}
	return strings.Join(parts, " ")
}

// FormatHistoryList renders archived refinements as a table.
func FormatHistoryList(items []repository.RefinementSummary) string {
	if len(items) == 0 {
		return Dim("No refinements yet. Run 'aiscribe refine' to create one.") + "\n"
	}
	rows := make([][]string, 0, len(items))
	for _, it := range items {
		rows = append(rows, []string{
			TruncID(it.ID),
			HumanTimestamp(it.CreatedAt),
			fmt.Sprintf("%d", it.QuestionCount),
			SourceBadge(it.Source),
			Truncate(it.Theme, 48),
		})
	}
	return RenderTable([]string{"ID", "CREATED", "QS", "SOURCE", "THEME"}, rows)
}
