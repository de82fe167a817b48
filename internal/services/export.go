package services

import (
	"bytes"
	"encoding/csv"
	"strconv"
	"time"

	"github.com/formlite/formlite/internal/forms"
)

// ExportResponsesCSV renders every response of a form into a CSV: one row
// per response, one column per non-section question in authored order, plus
// score columns for quiz forms.
func ExportResponsesCSV(form *forms.Form, responses []*forms.FormResponse) ([]byte, error) {
	header := []string{"timestamp", "respondent_email"}
	var questionIDs []string
	for _, q := range form.Questions {
		if q.Type == forms.TypeSection {
			continue
		}
		header = append(header, q.Title)
		questionIDs = append(questionIDs, q.ID)
	}
	if form.Settings.QuizMode {
		header = append(header, "score", "max_score")
	}

	buf := &bytes.Buffer{}
	w := csv.NewWriter(buf)
	_ = w.Write(header)
	for _, r := range responses {
		row := []string{r.CreatedAt.Format(time.RFC3339), r.RespondentEmail}
		for _, id := range questionIDs {
			row = append(row, r.Answers[id].Render())
		}
		if form.Settings.QuizMode {
			row = append(row, intOrEmpty(r.Score), intOrEmpty(r.MaxScore))
		}
		if err := w.Write(row); err != nil {
			return nil, err
		}
	}
	w.Flush()
	return buf.Bytes(), w.Error()
}

func intOrEmpty(v *int) string {
	if v == nil {
		return ""
	}
	return strconv.Itoa(*v)
}
