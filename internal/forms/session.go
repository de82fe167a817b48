package forms

import (
	"context"
	"strings"
	"time"

	"github.com/google/uuid"
)

// FormLoader resolves a form id to its definition. A nil form with a nil
// error means the id is unknown.
type FormLoader interface {
	LoadForm(id string) (*Form, error)
}

// LoaderFunc adapts a function to the FormLoader interface.
type LoaderFunc func(id string) (*Form, error)

func (f LoaderFunc) LoadForm(id string) (*Form, error) { return f(id) }

// ResponseSink persists the final response record of a fill session.
type ResponseSink interface {
	SubmitResponse(ctx context.Context, resp *FormResponse) error
}

// SinkFunc adapts a function to the ResponseSink interface.
type SinkFunc func(ctx context.Context, resp *FormResponse) error

func (f SinkFunc) SubmitResponse(ctx context.Context, resp *FormResponse) error {
	return f(ctx, resp)
}

// SessionOptions configures the collaborators of a fill session. All fields
// are optional: without an Identity the respondent is anonymous, and without
// a Sink the final response is produced but not persisted anywhere.
type SessionOptions struct {
	// Identity reports the current respondent's email, if any.
	Identity func() (email string, ok bool)
	Sink     ResponseSink
	Now      func() time.Time
	NewID    func() string
}

// Session is the state machine driving one respondent through a form: it
// owns the answer state, recomputes visibility and requiredness on every
// answer change, validates pages before advancing, applies forward skip
// jumps, and emits the final FormResponse on submit. Transitions run to
// completion before the next one starts; the session is not safe for
// concurrent use from multiple goroutines.
type Session struct {
	form  *Form
	pages [][]Question

	page     int
	answers  AnswerSet
	visible  IDSet
	required IDSet
	errors   map[string]bool

	identity func() (string, bool)
	sink     ResponseSink
	now      func() time.Time
	newID    func() string

	submitting bool
	response   *FormResponse
}

// OpenSession loads a form by id and starts a session over it.
func OpenSession(loader FormLoader, formID string, opts SessionOptions) (*Session, error) {
	form, err := loader.LoadForm(formID)
	if err != nil {
		return nil, err
	}
	return NewSession(form, opts)
}

// NewSession starts a fill session over the given form. It refuses to start
// when the form is missing or its deadline has passed.
func NewSession(form *Form, opts SessionOptions) (*Session, error) {
	if form == nil {
		return nil, NewNotFoundError("form not found")
	}
	now := opts.Now
	if now == nil {
		now = func() time.Time { return time.Now().UTC() }
	}
	if deadline, ok := parseDeadline(form.Settings.Deadline); ok && deadline.Before(now()) {
		return nil, NewExpiredError("form is no longer accepting responses")
	}
	newID := opts.NewID
	if newID == nil {
		newID = uuid.NewString
	}
	s := &Session{
		form:     form,
		pages:    SplitPages(form.Questions),
		answers:  AnswerSet{},
		errors:   map[string]bool{},
		identity: opts.Identity,
		sink:     opts.Sink,
		now:      now,
		newID:    newID,
	}
	s.visible, s.required = Evaluate(form, s.answers)
	return s, nil
}

func parseDeadline(s string) (time.Time, bool) {
	s = strings.TrimSpace(s)
	if s == "" {
		return time.Time{}, false
	}
	for _, layout := range []string{time.RFC3339, "2006-01-02T15:04", "2006-01-02"} {
		if t, err := time.Parse(layout, s); err == nil {
			return t, true
		}
	}
	return time.Time{}, false
}

// Form returns the definition the session was opened over.
func (s *Session) Form() *Form { return s.form }

// Page returns the current page index.
func (s *Session) Page() int { return s.page }

// PageCount returns the number of pages.
func (s *Session) PageCount() int { return len(s.pages) }

// OnLastPage reports whether the current page is the final one.
func (s *Session) OnLastPage() bool { return s.page == len(s.pages)-1 }

// CurrentQuestions returns the questions of the current page.
func (s *Session) CurrentQuestions() []Question { return s.pages[s.page] }

// Visible returns the live visibility set. Callers must not mutate it.
func (s *Session) Visible() IDSet { return s.visible }

// Required returns the live required set. Callers must not mutate it.
func (s *Session) Required() IDSet { return s.required }

// Errors returns the ids currently flagged by validation.
func (s *Session) Errors() []string {
	var ids []string
	for _, q := range s.form.Questions {
		if s.errors[q.ID] {
			ids = append(ids, q.ID)
		}
	}
	return ids
}

// Answers returns a snapshot of the current answer state.
func (s *Session) Answers() AnswerSet { return s.answers.Clone() }

// Submitted reports whether the session reached its terminal state.
func (s *Session) Submitted() bool { return s.response != nil }

// Response returns the emitted record after a successful submit, else nil.
func (s *Session) Response() *FormResponse { return s.response }

// SetAnswer records the respondent's current value for a question and
// synchronously recomputes visibility and requiredness. The question's
// validation flag clears as soon as it holds a usable value. Updates after
// submission are ignored.
func (s *Session) SetAnswer(questionID string, a Answer) {
	if s.Submitted() || s.submitting {
		return
	}
	q := s.form.QuestionByID(questionID)
	if q == nil {
		return
	}
	if a.IsZero() {
		delete(s.answers, questionID)
	} else {
		s.answers[questionID] = a.clone()
	}
	s.visible, s.required = Evaluate(s.form, s.answers)
	if s.errors[questionID] && answered(*q, s.answers[questionID]) {
		delete(s.errors, questionID)
	}
}

// SetText records a single-string answer.
func (s *Session) SetText(questionID, value string) {
	s.SetAnswer(questionID, TextAnswer(value))
}

// Toggle adds or removes one option of a checkbox answer.
func (s *Session) Toggle(questionID, option string, checked bool) {
	current := s.answers[questionID].List
	next := make([]string, 0, len(current)+1)
	for _, v := range current {
		if v != option {
			next = append(next, v)
		}
	}
	if checked {
		next = append(next, option)
	}
	s.SetAnswer(questionID, Answer{Kind: AnswerList, List: next})
}

// SetGridCell records the value of one grid row.
func (s *Session) SetGridCell(questionID string, row int, value string) {
	cells := map[int]string{}
	for k, v := range s.answers[questionID].Grid {
		cells[k] = v
	}
	cells[row] = value
	s.SetAnswer(questionID, GridAnswer(cells))
}

// Advance validates the current page and moves forward. A validation
// failure flags the offending questions and leaves the page unchanged.
// When the page is valid, the first applicable forward skip rule wins over
// plain +1 navigation; on the last page a valid Advance is a no-op, since
// submission is a separate action.
func (s *Session) Advance() error {
	if s.Submitted() {
		return NewInvalidError("session already submitted")
	}
	if missing := MissingRequired(s.pages[s.page], s.visible, s.required, s.answers); len(missing) > 0 {
		s.flagErrors(missing)
		return NewValidationError(missing)
	}
	s.errors = map[string]bool{}
	if target := FirstSkipTarget(s.form, s.pages, s.answers, s.page); target >= 0 {
		s.page = target
		return nil
	}
	if s.page < len(s.pages)-1 {
		s.page++
	}
	return nil
}

// Retreat moves back one page. Going back never validates and never clears
// answers.
func (s *Session) Retreat() {
	if s.Submitted() {
		return
	}
	if s.page > 0 {
		s.page--
	}
}

// Submit finalizes the session from the last page: it validates every
// visible required question on the whole form, enforces the collect-email
// setting, scores quiz forms, and hands the immutable FormResponse to the
// sink. A sink failure leaves the session on the last page so the
// respondent can retry; a reentrant call while a submit is in flight is
// ignored. After success, further Submit calls return the same record.
func (s *Session) Submit(ctx context.Context) (*FormResponse, error) {
	if s.Submitted() {
		return s.response, nil
	}
	if s.submitting {
		return nil, nil
	}
	if !s.OnLastPage() {
		return nil, NewInvalidError("submit is only allowed from the last page")
	}
	if missing := MissingRequired(s.form.Questions, s.visible, s.required, s.answers); len(missing) > 0 {
		s.flagErrors(missing)
		return nil, NewValidationError(missing)
	}
	var email string
	if s.identity != nil {
		email, _ = s.identity()
	}
	if s.form.Settings.CollectEmail && email == "" {
		return nil, NewAuthRequiredError("sign in to submit this form")
	}

	resp := &FormResponse{
		ID:              s.newID(),
		FormID:          s.form.ID,
		Answers:         s.answers.Clone(),
		CreatedAt:       s.now(),
		RespondentEmail: email,
	}
	if s.form.Settings.QuizMode {
		score, maxScore := Score(s.form, s.answers)
		resp.Score = &score
		resp.MaxScore = &maxScore
	}

	if s.sink != nil {
		s.submitting = true
		err := s.sink.SubmitResponse(ctx, resp)
		s.submitting = false
		if err != nil {
			return nil, NewPersistenceError("could not save response: " + err.Error())
		}
	}
	s.response = resp
	return resp, nil
}

func (s *Session) flagErrors(ids []string) {
	s.errors = make(map[string]bool, len(ids))
	for _, id := range ids {
		s.errors[id] = true
	}
}
