package forms

import "math"

// Score computes the quiz result for a completed answer set. MaxScore sums
// the points of every question carrying points. Only choice questions are
// scored: multipleChoice and dropdown earn full credit when the answer is
// the first listed option (the author convention for "correct"), and
// checkbox earns proportional credit against the first half of its options,
// rounded up. Every other type is ignored even if it carries points. The
// final score rounds to the nearest integer.
func Score(form *Form, answers AnswerSet) (score, maxScore int) {
	var total float64
	for _, q := range form.Questions {
		if q.Points <= 0 {
			continue
		}
		maxScore += q.Points
		a := answers[q.ID]
		switch q.Type {
		case TypeMultipleChoice, TypeDropdown:
			if len(q.Options) > 0 && a.Kind == AnswerText && a.Text == q.Options[0] {
				total += float64(q.Points)
			}
		case TypeCheckbox:
			if a.Kind != AnswerList || len(q.Options) == 0 {
				continue
			}
			correct := q.Options[:(len(q.Options)+1)/2]
			hits := 0
			for _, sel := range a.List {
				for _, opt := range correct {
					if sel == opt {
						hits++
						break
					}
				}
			}
			if hits > 0 {
				total += float64(hits) / float64(len(correct)) * float64(q.Points)
			}
		}
	}
	return int(math.Round(total)), maxScore
}
