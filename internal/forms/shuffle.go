package forms

import "math/rand"

// ShuffledQuestions returns a copy of the form's questions reordered per the
// form's shuffle settings, seeded so one respondent sees a stable order
// across reloads. Questions shuffle only within their page (sections never
// move, so page boundaries are preserved) and options shuffle only for
// choice questions. Scoring always runs against the authored order, so the
// shuffled copy is for rendering only.
func ShuffledQuestions(form *Form, seed int64) []Question {
	if !form.Settings.ShuffleQuestions && !form.Settings.ShuffleOptions {
		return form.Questions
	}
	rng := rand.New(rand.NewSource(seed))
	out := make([]Question, 0, len(form.Questions))
	for _, page := range SplitPages(form.Questions) {
		qs := append([]Question(nil), page...)
		start := 0
		if len(qs) > 0 && qs[0].Type == TypeSection {
			start = 1
		}
		if form.Settings.ShuffleQuestions {
			rng.Shuffle(len(qs)-start, func(i, j int) {
				qs[start+i], qs[start+j] = qs[start+j], qs[start+i]
			})
		}
		if form.Settings.ShuffleOptions {
			for i := range qs {
				switch qs[i].Type {
				case TypeMultipleChoice, TypeCheckbox, TypeDropdown:
					opts := append([]string(nil), qs[i].Options...)
					rng.Shuffle(len(opts), func(a, b int) { opts[a], opts[b] = opts[b], opts[a] })
					qs[i].Options = opts
				}
			}
		}
		out = append(out, qs...)
	}
	return out
}
