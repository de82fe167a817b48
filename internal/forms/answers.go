package forms

import (
	"encoding/json"
	"sort"
	"strconv"
	"strings"
)

// AnswerKind discriminates the runtime shape of an answer value. The shape a
// respondent produces is decided by the question type: single strings for
// text/paragraph/dropdown/date/time/fileUpload/linearScale, string lists for
// checkbox, and row-index keyed cells for grid.
type AnswerKind int

const (
	AnswerNone AnswerKind = iota
	AnswerText
	AnswerList
	AnswerGrid
)

// Answer is the tagged union holding one question's current value.
// The zero value means "unanswered".
type Answer struct {
	Kind AnswerKind
	Text string
	List []string
	Grid map[int]string
}

// TextAnswer wraps a single-string answer.
func TextAnswer(s string) Answer { return Answer{Kind: AnswerText, Text: s} }

// ListAnswer wraps a checkbox-style multi-select answer.
func ListAnswer(vs ...string) Answer { return Answer{Kind: AnswerList, List: vs} }

// GridAnswer wraps a grid answer keyed by row index.
func GridAnswer(cells map[int]string) Answer { return Answer{Kind: AnswerGrid, Grid: cells} }

// IsZero reports whether the answer carries no value at all.
func (a Answer) IsZero() bool { return a.Kind == AnswerNone }

// Contains reports membership for list answers and substring containment for
// everything else, after string coercion. Unanswered values coerce to "".
func (a Answer) Contains(v string) bool {
	if a.Kind == AnswerList {
		for _, item := range a.List {
			if item == v {
				return true
			}
		}
		return false
	}
	return strings.Contains(a.coerceString(), v)
}

func (a Answer) coerceString() string {
	if a.Kind == AnswerText {
		return a.Text
	}
	return ""
}

// Number coerces the answer to a float. ok is false for unanswered,
// non-scalar, or non-numeric values.
func (a Answer) Number() (float64, bool) {
	if a.Kind != AnswerText {
		return 0, false
	}
	n, err := strconv.ParseFloat(strings.TrimSpace(a.Text), 64)
	if err != nil {
		return 0, false
	}
	return n, true
}

func (a Answer) clone() Answer {
	cp := a
	if a.List != nil {
		cp.List = append([]string(nil), a.List...)
	}
	if a.Grid != nil {
		cp.Grid = make(map[int]string, len(a.Grid))
		for k, v := range a.Grid {
			cp.Grid[k] = v
		}
	}
	return cp
}

// MarshalJSON emits the wire shape the builder client uses: a bare string,
// an array of strings, or an object keyed by row index.
func (a Answer) MarshalJSON() ([]byte, error) {
	switch a.Kind {
	case AnswerText:
		return json.Marshal(a.Text)
	case AnswerList:
		if a.List == nil {
			return json.Marshal([]string{})
		}
		return json.Marshal(a.List)
	case AnswerGrid:
		cells := make(map[string]string, len(a.Grid))
		for row, v := range a.Grid {
			cells[strconv.Itoa(row)] = v
		}
		return json.Marshal(cells)
	default:
		return []byte("null"), nil
	}
}

// UnmarshalJSON accepts the three wire shapes plus null and bare numbers
// (linear-scale clients send stringified numbers, but numbers are tolerated).
func (a *Answer) UnmarshalJSON(data []byte) error {
	trimmed := strings.TrimSpace(string(data))
	if trimmed == "null" {
		*a = Answer{}
		return nil
	}
	var s string
	if err := json.Unmarshal(data, &s); err == nil {
		*a = TextAnswer(s)
		return nil
	}
	var list []string
	if err := json.Unmarshal(data, &list); err == nil {
		*a = Answer{Kind: AnswerList, List: list}
		return nil
	}
	var n float64
	if err := json.Unmarshal(data, &n); err == nil {
		*a = TextAnswer(strconv.FormatFloat(n, 'f', -1, 64))
		return nil
	}
	var cells map[string]string
	if err := json.Unmarshal(data, &cells); err != nil {
		return err
	}
	grid := make(map[int]string, len(cells))
	for k, v := range cells {
		row, err := strconv.Atoi(k)
		if err != nil {
			continue
		}
		grid[row] = v
	}
	*a = Answer{Kind: AnswerGrid, Grid: grid}
	return nil
}

// AnswerSet maps question ids to their current answers for one fill session.
type AnswerSet map[string]Answer

// Clone returns a deep copy suitable for freezing into a FormResponse.
func (as AnswerSet) Clone() AnswerSet {
	out := make(AnswerSet, len(as))
	for id, a := range as {
		out[id] = a.clone()
	}
	return out
}

// Render flattens an answer into a display string for CSV export and
// summaries: lists join with ", ", grid cells join in row order.
func (a Answer) Render() string {
	switch a.Kind {
	case AnswerText:
		return a.Text
	case AnswerList:
		return strings.Join(a.List, ", ")
	case AnswerGrid:
		rows := make([]int, 0, len(a.Grid))
		for row := range a.Grid {
			rows = append(rows, row)
		}
		sort.Ints(rows)
		vals := make([]string, 0, len(rows))
		for _, row := range rows {
			vals = append(vals, a.Grid[row])
		}
		return strings.Join(vals, ", ")
	default:
		return ""
	}
}
