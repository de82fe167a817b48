package services

import (
	"strings"
	"testing"
	"time"

	"github.com/formlite/formlite/internal/forms"
)

func TestExportResponsesCSV(t *testing.T) {
	form := &forms.Form{ID: "F1", Questions: []forms.Question{
		{ID: "a", Type: forms.TypeText, Title: "Name"},
		{ID: "s", Type: forms.TypeSection, Title: "Part 2"},
		{ID: "b", Type: forms.TypeCheckbox, Title: "Colors", Options: []string{"red", "blue"}},
	}}
	created := time.Date(2025, 6, 1, 10, 0, 0, 0, time.UTC)
	responses := []*forms.FormResponse{{
		ID:              "R1",
		FormID:          "F1",
		CreatedAt:       created,
		RespondentEmail: "r@example.com",
		Answers: forms.AnswerSet{
			"a": forms.TextAnswer("Ada"),
			"b": forms.ListAnswer("red", "blue"),
		},
	}}
	b, err := ExportResponsesCSV(form, responses)
	if err != nil {
		t.Fatalf("export: %v", err)
	}
	lines := strings.Split(strings.TrimSpace(string(b)), "\n")
	if len(lines) != 2 {
		t.Fatalf("expected header + 1 row, got %d lines", len(lines))
	}
	if lines[0] != "timestamp,respondent_email,Name,Colors" {
		t.Fatalf("unexpected header: %q", lines[0])
	}
	if !strings.Contains(lines[1], "Ada") || !strings.Contains(lines[1], "red, blue") {
		t.Fatalf("unexpected row: %q", lines[1])
	}
}

func TestExportIncludesScoreColumnsInQuizMode(t *testing.T) {
	form := &forms.Form{
		ID:        "F1",
		Settings:  forms.FormSettings{QuizMode: true},
		Questions: []forms.Question{{ID: "q", Type: forms.TypeMultipleChoice, Title: "Q", Options: []string{"a", "b"}}},
	}
	score, maxScore := 10, 10
	responses := []*forms.FormResponse{{
		ID:        "R1",
		CreatedAt: time.Date(2025, 6, 1, 10, 0, 0, 0, time.UTC),
		Answers:   forms.AnswerSet{"q": forms.TextAnswer("a")},
		Score:     &score,
		MaxScore:  &maxScore,
	}}
	b, err := ExportResponsesCSV(form, responses)
	if err != nil {
		t.Fatalf("export: %v", err)
	}
	lines := strings.Split(strings.TrimSpace(string(b)), "\n")
	if !strings.HasSuffix(lines[0], "score,max_score") {
		t.Fatalf("quiz header missing score columns: %q", lines[0])
	}
	if !strings.HasSuffix(lines[1], "10,10") {
		t.Fatalf("quiz row missing scores: %q", lines[1])
	}
}
