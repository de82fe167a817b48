package services

import (
	"context"
	"testing"
	"time"

	"github.com/formlite/formlite/internal/forms"
)

type stubResponseStore struct {
	form      *forms.Form
	responses []*forms.FormResponse
}

func (s *stubResponseStore) GetForm(id string) *forms.Form {
	if s.form != nil && s.form.ID == id {
		return s.form
	}
	return nil
}

func (s *stubResponseStore) AddResponse(r *forms.FormResponse) error {
	s.responses = append(s.responses, r)
	return nil
}

func (s *stubResponseStore) CountResponses(formID, email string) int {
	n := 0
	for _, r := range s.responses {
		if r.FormID == formID && r.RespondentEmail == email {
			n++
		}
	}
	return n
}

func newTestResponseService(store ResponseStore) *ResponseService {
	svc := NewResponseService(store)
	svc.now = func() time.Time { return time.Date(2025, 6, 1, 0, 0, 0, 0, time.UTC) }
	svc.newID = func() string { return "R1" }
	return svc
}

func TestSubmitPersistsResponse(t *testing.T) {
	store := &stubResponseStore{form: &forms.Form{ID: "F1", Questions: []forms.Question{
		{ID: "a", Type: forms.TypeText, Required: true},
		{ID: "s", Type: forms.TypeSection},
		{ID: "b", Type: forms.TypeCheckbox, Options: []string{"x", "y"}},
	}}}
	svc := newTestResponseService(store)

	resp, err := svc.Submit(context.Background(), SubmitRequest{
		FormID: "F1",
		Answers: forms.AnswerSet{
			"a": forms.TextAnswer("hello"),
			"b": forms.ListAnswer("x"),
		},
	})
	if err != nil {
		t.Fatalf("submit: %v", err)
	}
	if resp.ID != "R1" || resp.FormID != "F1" {
		t.Fatalf("unexpected response record: %+v", resp)
	}
	if len(store.responses) != 1 {
		t.Fatalf("store did not receive the response")
	}
}

func TestSubmitUnknownForm(t *testing.T) {
	svc := newTestResponseService(&stubResponseStore{})
	_, err := svc.Submit(context.Background(), SubmitRequest{FormID: "nope"})
	fe, ok := forms.AsFlowError(err)
	if !ok || fe.Code != forms.ErrorNotFound {
		t.Fatalf("expected not_found, got %v", err)
	}
}

func TestSubmitMissingRequiredFails(t *testing.T) {
	store := &stubResponseStore{form: &forms.Form{ID: "F1", Questions: []forms.Question{
		{ID: "a", Type: forms.TypeText, Required: true},
	}}}
	svc := newTestResponseService(store)
	_, err := svc.Submit(context.Background(), SubmitRequest{FormID: "F1"})
	fe, ok := forms.AsFlowError(err)
	if !ok || fe.Code != forms.ErrorValidation {
		t.Fatalf("expected validation failure, got %v", err)
	}
	if len(store.responses) != 0 {
		t.Fatalf("invalid submission must not be persisted")
	}
}

func TestSubmitHonorsConditionalHide(t *testing.T) {
	store := &stubResponseStore{form: &forms.Form{ID: "F1", Questions: []forms.Question{
		{ID: "a", Type: forms.TypeMultipleChoice, Options: []string{"Yes", "No"}},
		{ID: "b", Type: forms.TypeText, Required: true, ConditionalLogic: []forms.ConditionalRule{
			{QuestionID: "a", Operator: forms.OpEquals, Value: "No", Action: forms.ActionHide},
		}},
	}}}
	svc := newTestResponseService(store)
	if _, err := svc.Submit(context.Background(), SubmitRequest{
		FormID:  "F1",
		Answers: forms.AnswerSet{"a": forms.TextAnswer("No")},
	}); err != nil {
		t.Fatalf("hidden required question must not block submit: %v", err)
	}
}

func TestSubmitLimitOneResponse(t *testing.T) {
	store := &stubResponseStore{form: &forms.Form{
		ID:        "F1",
		Settings:  forms.FormSettings{LimitOneResponse: true, CollectEmail: true},
		Questions: []forms.Question{{ID: "a", Type: forms.TypeText}},
	}}
	svc := newTestResponseService(store)
	req := SubmitRequest{FormID: "F1", RespondentEmail: "r@example.com"}
	if _, err := svc.Submit(context.Background(), req); err != nil {
		t.Fatalf("first submit: %v", err)
	}
	_, err := svc.Submit(context.Background(), req)
	se, ok := AsServiceError(err)
	if !ok || se.Code != ErrorConflict {
		t.Fatalf("expected conflict on second submit, got %v", err)
	}
}

func TestSubmitExpiredForm(t *testing.T) {
	store := &stubResponseStore{form: &forms.Form{
		ID:        "F1",
		Settings:  forms.FormSettings{Deadline: "2020-01-01"},
		Questions: []forms.Question{{ID: "a", Type: forms.TypeText}},
	}}
	svc := newTestResponseService(store)
	_, err := svc.Submit(context.Background(), SubmitRequest{FormID: "F1"})
	fe, ok := forms.AsFlowError(err)
	if !ok || fe.Code != forms.ErrorExpired {
		t.Fatalf("expected expired, got %v", err)
	}
}

func TestSubmitScoresQuiz(t *testing.T) {
	store := &stubResponseStore{form: &forms.Form{
		ID:       "F1",
		Settings: forms.FormSettings{QuizMode: true},
		Questions: []forms.Question{
			{ID: "q1", Type: forms.TypeMultipleChoice, Points: 10, Options: []string{"Paris", "London"}},
		},
	}}
	svc := newTestResponseService(store)
	resp, err := svc.Submit(context.Background(), SubmitRequest{
		FormID:  "F1",
		Answers: forms.AnswerSet{"q1": forms.TextAnswer("Paris")},
	})
	if err != nil {
		t.Fatalf("submit: %v", err)
	}
	if resp.Score == nil || *resp.Score != 10 || *resp.MaxScore != 10 {
		t.Fatalf("quiz score not recorded: %+v", resp)
	}
}
