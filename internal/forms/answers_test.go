package forms

import (
	"encoding/json"
	"testing"
)

func TestAnswerSetDecodesWireShapes(t *testing.T) {
	payload := []byte(`{
		"t": "hello",
		"c": ["a", "b"],
		"g": {"0": "yes", "1": "no"},
		"n": 4,
		"empty": null
	}`)
	var as AnswerSet
	if err := json.Unmarshal(payload, &as); err != nil {
		t.Fatalf("unmarshal: %v", err)
	}
	if as["t"].Kind != AnswerText || as["t"].Text != "hello" {
		t.Fatalf("text answer: %+v", as["t"])
	}
	if as["c"].Kind != AnswerList || len(as["c"].List) != 2 {
		t.Fatalf("list answer: %+v", as["c"])
	}
	if as["g"].Kind != AnswerGrid || as["g"].Grid[1] != "no" {
		t.Fatalf("grid answer: %+v", as["g"])
	}
	if as["n"].Kind != AnswerText || as["n"].Text != "4" {
		t.Fatalf("numeric answers coerce to strings: %+v", as["n"])
	}
	if !as["empty"].IsZero() {
		t.Fatalf("null must decode as unanswered")
	}
}

func TestAnswerRender(t *testing.T) {
	cases := []struct {
		answer Answer
		want   string
	}{
		{TextAnswer("x"), "x"},
		{ListAnswer("a", "b"), "a, b"},
		{GridAnswer(map[int]string{1: "later", 0: "first"}), "first, later"},
		{Answer{}, ""},
	}
	for _, c := range cases {
		if got := c.answer.Render(); got != c.want {
			t.Fatalf("Render(%+v)=%q, want %q", c.answer, got, c.want)
		}
	}
}
