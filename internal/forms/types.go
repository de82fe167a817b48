package forms

import "time"

// QuestionType enumerates the field kinds a form author can place on a form.
// Section is a pseudo-question: it carries no answer and forces a page break.
type QuestionType string

const (
	TypeText           QuestionType = "text"
	TypeParagraph      QuestionType = "paragraph"
	TypeMultipleChoice QuestionType = "multipleChoice"
	TypeCheckbox       QuestionType = "checkbox"
	TypeDropdown       QuestionType = "dropdown"
	TypeLinearScale    QuestionType = "linearScale"
	TypeGrid           QuestionType = "grid"
	TypeDate           QuestionType = "date"
	TypeTime           QuestionType = "time"
	TypeFileUpload     QuestionType = "fileUpload"
	TypeSection        QuestionType = "section"
)

// Operator compares a source question's current answer against a rule's literal value.
type Operator string

const (
	OpEquals      Operator = "equals"
	OpNotEquals   Operator = "not_equals"
	OpContains    Operator = "contains"
	OpNotContains Operator = "not_contains"
	OpGreaterThan Operator = "greater_than"
	OpLessThan    Operator = "less_than"
)

// Action is what a matched rule does to the question that owns it.
type Action string

const (
	ActionShow    Action = "show"
	ActionHide    Action = "hide"
	ActionRequire Action = "require"
	ActionSkipTo  Action = "skip_to"
)

// ConditionalRule dynamically alters visibility, requiredness, or the
// navigation target of its owning question based on another question's answer.
// Rules referencing a question id that no longer exists silently no-op.
type ConditionalRule struct {
	QuestionID       string   `json:"questionId"`
	Operator         Operator `json:"operator"`
	Value            string   `json:"value"`
	Action           Action   `json:"action"`
	TargetQuestionID string   `json:"targetQuestionId,omitempty"`
}

// Question is a single typed field definition within a form.
type Question struct {
	ID               string            `json:"id"`
	Type             QuestionType      `json:"type"`
	Title            string            `json:"title"`
	Description      string            `json:"description,omitempty"`
	Required         bool              `json:"required"`
	Options          []string          `json:"options,omitempty"`
	Rows             []string          `json:"rows,omitempty"`
	Columns          []string          `json:"columns,omitempty"`
	ScaleMin         int               `json:"scaleMin,omitempty"`
	ScaleMax         int               `json:"scaleMax,omitempty"`
	MinLabel         string            `json:"minLabel,omitempty"`
	MaxLabel         string            `json:"maxLabel,omitempty"`
	Points           int               `json:"points,omitempty"`
	ConditionalLogic []ConditionalRule `json:"conditionalLogic,omitempty"`
}

// FormSettings carries the author-configured behavior flags of a form.
type FormSettings struct {
	CollectEmail        bool   `json:"collectEmail,omitempty"`
	LimitOneResponse    bool   `json:"limitOneResponse,omitempty"`
	ShowProgressBar     bool   `json:"showProgressBar,omitempty"`
	ConfirmationMessage string `json:"confirmationMessage,omitempty"`
	EmailNotifications  bool   `json:"emailNotifications,omitempty"`
	ShowSummary         bool   `json:"showSummary,omitempty"`
	Deadline            string `json:"deadline,omitempty"`
	QuizMode            bool   `json:"quizMode,omitempty"`
	ShuffleQuestions    bool   `json:"shuffleQuestions,omitempty"`
	ShuffleOptions      bool   `json:"shuffleOptions,omitempty"`
}

// Form is a named, ordered collection of questions plus settings.
// It is authored once and loaded read-only for the duration of a fill session.
type Form struct {
	ID          string       `json:"id"`
	Title       string       `json:"title"`
	Description string       `json:"description,omitempty"`
	Questions   []Question   `json:"questions"`
	CreatedAt   time.Time    `json:"createdAt"`
	UpdatedAt   time.Time    `json:"updatedAt,omitempty"`
	Theme       string       `json:"theme,omitempty"`
	Settings    FormSettings `json:"settings,omitempty"`
	HeaderImage string       `json:"headerImage,omitempty"`
	UserID      string       `json:"userId,omitempty"`
}

// QuestionByID returns the question with the given id, or nil.
func (f *Form) QuestionByID(id string) *Question {
	for i := range f.Questions {
		if f.Questions[i].ID == id {
			return &f.Questions[i]
		}
	}
	return nil
}

// FormResponse is the immutable record of one completed fill session.
// Score and MaxScore are set only for quiz-mode forms.
type FormResponse struct {
	ID              string    `json:"id"`
	FormID          string    `json:"formId"`
	Answers         AnswerSet `json:"responses"`
	CreatedAt       time.Time `json:"createdAt"`
	RespondentEmail string    `json:"respondentEmail,omitempty"`
	Score           *int      `json:"score,omitempty"`
	MaxScore        *int      `json:"maxScore,omitempty"`
}

// IDSet is a set of question ids.
type IDSet map[string]bool

// Has reports whether id is a member of the set.
func (s IDSet) Has(id string) bool { return s[id] }
