package services

import (
	"context"
	"time"

	"github.com/formlite/formlite/internal/forms"
	"github.com/google/uuid"
)

// ResponseStore abstracts persistence operations required by ResponseService.
type ResponseStore interface {
	GetForm(id string) *forms.Form
	AddResponse(r *forms.FormResponse) error
	CountResponses(formID, email string) int
}

// SubmitRequest transports a sanitized one-shot submission into the service
// layer: the full answer set of a fill session completed client-side.
type SubmitRequest struct {
	FormID          string
	RespondentEmail string
	Answers         forms.AnswerSet
}

// ResponseService hosts the core submission workflow. It replays the
// submitted answers through a fill session so pagination, conditional
// rules, skip jumps, validation, and quiz scoring all apply exactly as they
// do interactively.
type ResponseService struct {
	store ResponseStore
	now   func() time.Time
	newID func() string
}

func NewResponseService(store ResponseStore) *ResponseService {
	return &ResponseService{
		store: store,
		now:   func() time.Time { return time.Now().UTC() },
		newID: uuid.NewString,
	}
}

// Submit validates and persists one completed fill session.
func (s *ResponseService) Submit(ctx context.Context, req SubmitRequest) (*forms.FormResponse, error) {
	loader := forms.LoaderFunc(func(id string) (*forms.Form, error) {
		return s.store.GetForm(id), nil
	})
	sess, err := forms.OpenSession(loader, req.FormID, forms.SessionOptions{
		Identity: func() (string, bool) { return req.RespondentEmail, req.RespondentEmail != "" },
		Sink: forms.SinkFunc(func(_ context.Context, resp *forms.FormResponse) error {
			return s.store.AddResponse(resp)
		}),
		Now:   s.now,
		NewID: s.newID,
	})
	if err != nil {
		return nil, err
	}
	form := sess.Form()
	if form.Settings.LimitOneResponse && req.RespondentEmail != "" {
		if s.store.CountResponses(form.ID, req.RespondentEmail) > 0 {
			return nil, NewConflictError("you have already responded to this form")
		}
	}
	for id, a := range req.Answers {
		sess.SetAnswer(id, a)
	}
	for !sess.OnLastPage() {
		if err := sess.Advance(); err != nil {
			return nil, err
		}
	}
	return sess.Submit(ctx)
}
