package forms

// Evaluate derives the live visibility and required sets from the current
// answers. It re-derives both from their defaults on every call: visibility
// starts as every question id and requiredness starts from the static
// Required flags, so a rule whose condition stops holding reverts its effect.
// Rules are applied in question order then rule order without short-circuit,
// which makes the last matching rule win when two rules conflict on the same
// question.
func Evaluate(form *Form, answers AnswerSet) (visible, required IDSet) {
	visible = make(IDSet, len(form.Questions))
	required = make(IDSet)
	ids := make(map[string]bool, len(form.Questions))
	for _, q := range form.Questions {
		visible[q.ID] = true
		ids[q.ID] = true
		if q.Required {
			required[q.ID] = true
		}
	}
	for _, q := range form.Questions {
		for _, r := range q.ConditionalLogic {
			if !ids[r.QuestionID] {
				continue // dangling source reference
			}
			if !RuleMatches(r, answers[r.QuestionID]) {
				continue
			}
			switch r.Action {
			case ActionShow:
				visible[q.ID] = true
			case ActionHide:
				delete(visible, q.ID)
			case ActionRequire:
				required[q.ID] = true
			case ActionSkipTo:
				// navigation-time concern, see FirstSkipTarget
			}
		}
	}
	return visible, required
}

// RuleMatches reports whether the rule's condition holds for the source
// question's current answer. Equality operators compare the raw stored
// value, containment tests list membership or substring presence, and the
// numeric operators coerce both sides to numbers (failing coercion means
// the condition does not hold). An unanswered source satisfies not_equals
// and not_contains but no other operator.
func RuleMatches(r ConditionalRule, source Answer) bool {
	switch r.Operator {
	case OpEquals:
		return source.Kind == AnswerText && source.Text == r.Value
	case OpNotEquals:
		return !(source.Kind == AnswerText && source.Text == r.Value)
	case OpContains:
		return source.Contains(r.Value)
	case OpNotContains:
		return !source.Contains(r.Value)
	case OpGreaterThan:
		lhs, ok1 := source.Number()
		rhs, ok2 := TextAnswer(r.Value).Number()
		return ok1 && ok2 && lhs > rhs
	case OpLessThan:
		lhs, ok1 := source.Number()
		rhs, ok2 := TextAnswer(r.Value).Number()
		return ok1 && ok2 && lhs < rhs
	default:
		return false
	}
}

// FirstSkipTarget scans every question's rules in order and returns the page
// index of the first skip_to rule whose condition holds and whose target
// lies strictly beyond currentPage. Backward or same-page targets are
// ignored rather than taken, and -1 means no skip applies.
func FirstSkipTarget(form *Form, pages [][]Question, answers AnswerSet, currentPage int) int {
	for _, q := range form.Questions {
		for _, r := range q.ConditionalLogic {
			if r.Action != ActionSkipTo || r.TargetQuestionID == "" {
				continue
			}
			if form.QuestionByID(r.QuestionID) == nil {
				continue
			}
			if !RuleMatches(r, answers[r.QuestionID]) {
				continue
			}
			if target := PageIndexOf(pages, r.TargetQuestionID); target > currentPage {
				return target
			}
		}
	}
	return -1
}
