package forms

import "strings"

// MissingRequired returns, in question order, the ids of questions that are
// visible, required, and effectively unanswered. Sections never fail, and
// non-required questions never fail regardless of content. A grid answer is
// complete only when every row has a populated cell.
func MissingRequired(questions []Question, visible, required IDSet, answers AnswerSet) []string {
	var missing []string
	for _, q := range questions {
		if q.Type == TypeSection || !visible.Has(q.ID) || !required.Has(q.ID) {
			continue
		}
		if !answered(q, answers[q.ID]) {
			missing = append(missing, q.ID)
		}
	}
	return missing
}

func answered(q Question, a Answer) bool {
	if q.Type == TypeGrid {
		return len(a.Grid) >= len(q.Rows)
	}
	switch a.Kind {
	case AnswerText:
		return strings.TrimSpace(a.Text) != ""
	case AnswerList:
		return len(a.List) > 0
	case AnswerGrid:
		return len(a.Grid) > 0
	default:
		return false
	}
}
