package services

import "github.com/formlite/formlite/internal/forms"

type SummaryStore interface {
	GetForm(id string) *forms.Form
	ListResponses(formID string) []*forms.FormResponse
}

type SummaryService struct {
	store SummaryStore
}

type QuestionSummary struct {
	ID       string             `json:"id"`
	Title    string             `json:"title"`
	Type     forms.QuestionType `json:"type"`
	Answered int                `json:"answered"`
	Counts   map[string]int     `json:"counts,omitempty"`
}

type FormSummary struct {
	FormID         string            `json:"form_id"`
	TotalResponses int               `json:"total_responses"`
	Questions      []QuestionSummary `json:"questions"`
}

func NewSummaryService(store SummaryStore) *SummaryService {
	return &SummaryService{store: store}
}

// Summary aggregates per-question answer counts for the form owner's
// results view. Choice questions report per-option counts; everything else
// reports only how many responses answered.
func (s *SummaryService) Summary(formID, ownerID string) (*FormSummary, error) {
	form := s.store.GetForm(formID)
	if form == nil {
		return nil, NewNotFoundError("form not found")
	}
	if form.UserID != ownerID {
		return nil, NewForbiddenError("forbidden")
	}
	responses := s.store.ListResponses(formID)

	out := &FormSummary{FormID: formID, TotalResponses: len(responses)}
	for _, q := range form.Questions {
		if q.Type == forms.TypeSection {
			continue
		}
		qs := QuestionSummary{ID: q.ID, Title: q.Title, Type: q.Type}
		countable := q.Type == forms.TypeMultipleChoice || q.Type == forms.TypeDropdown ||
			q.Type == forms.TypeCheckbox || q.Type == forms.TypeLinearScale
		if countable {
			qs.Counts = map[string]int{}
		}
		for _, r := range responses {
			a, ok := r.Answers[q.ID]
			if !ok || a.IsZero() {
				continue
			}
			qs.Answered++
			switch {
			case q.Type == forms.TypeCheckbox:
				for _, opt := range a.List {
					qs.Counts[opt]++
				}
			case countable:
				if a.Text != "" {
					qs.Counts[a.Text]++
				}
			}
		}
		out.Questions = append(out.Questions, qs)
	}
	return out, nil
}
