package intelligence

import (
	"strconv"

	"github.com/alexanderramin/aiscribe/internal/catalog"
	"github.com/alexanderramin/aiscribe/internal/domain"
	"github.com/alexanderramin/aiscribe/internal/session"
)

// FallbackQuestion picks the next catalogue question without using the LLM.
// Modules are walked in canonical order; the first one with budget left and
// an unasked template yields that template verbatim. When nothing is left
// the generic closing question is returned.
func FallbackQuestion(cat *catalog.Catalog, st session.State) domain.Question {
	id := "q_" + strconv.Itoa(len(st.QuestionHistory))

	askedText := make(map[string]bool, len(st.QuestionHistory))
	askedCategory := make(map[domain.Module]map[string]bool)
	for _, turn := range st.QuestionHistory {
		askedText[turn.Question.Question] = true
		if turn.Question.Category == "" {
			continue
		}
		if askedCategory[turn.Question.Module] == nil {
			askedCategory[turn.Question.Module] = map[string]bool{}
		}
		askedCategory[turn.Question.Module][turn.Question.Category] = true
	}

	for _, m := range domain.ElaborationModules {
		p, tracked := st.Progress[m]
		if !tracked || p.Completed >= p.Total {
			continue
		}
		for _, tpl := range cat.Templates(m) {
			if askedText[tpl.Question] || askedCategory[m][tpl.Key] {
				continue
			}
			q := tpl.ToQuestion(id, m)
			q.AdaptationReason = defaultAdaptationReason
			return q
		}
	}

	return cat.ClosingQuestion(id)
}
