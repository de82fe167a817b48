package forms

import "testing"

func q(id string, typ QuestionType) Question {
	return Question{ID: id, Type: typ, Title: id}
}

func TestSplitPagesNoSections(t *testing.T) {
	pages := SplitPages([]Question{q("a", TypeText), q("b", TypeCheckbox), q("c", TypeDate)})
	if len(pages) != 1 {
		t.Fatalf("expected 1 page, got %d", len(pages))
	}
	if len(pages[0]) != 3 {
		t.Fatalf("expected 3 questions on page 0, got %d", len(pages[0]))
	}
}

func TestSplitPagesEmptyForm(t *testing.T) {
	pages := SplitPages(nil)
	if len(pages) != 1 || len(pages[0]) != 0 {
		t.Fatalf("expected a single empty page, got %v", pages)
	}
}

func TestSplitPagesSectionCounts(t *testing.T) {
	cases := []struct {
		name      string
		questions []Question
		wantPages int
	}{
		{"leading section", []Question{q("s1", TypeSection), q("a", TypeText)}, 1},
		{"middle section", []Question{q("a", TypeText), q("s1", TypeSection), q("b", TypeText)}, 2},
		{"two sections", []Question{q("a", TypeText), q("s1", TypeSection), q("b", TypeText), q("s2", TypeSection)}, 3},
		{"leading and middle", []Question{q("s1", TypeSection), q("a", TypeText), q("s2", TypeSection), q("b", TypeText)}, 2},
	}
	for _, c := range cases {
		pages := SplitPages(c.questions)
		if len(pages) != c.wantPages {
			t.Fatalf("%s: expected %d pages, got %d", c.name, c.wantPages, len(pages))
		}
	}
}

func TestSplitPagesSectionStartsPage(t *testing.T) {
	pages := SplitPages([]Question{q("a", TypeText), q("s1", TypeSection), q("b", TypeText), q("c", TypeText)})
	if len(pages) != 2 {
		t.Fatalf("expected 2 pages, got %d", len(pages))
	}
	if pages[1][0].ID != "s1" {
		t.Fatalf("section must be the first question of its page, got %q", pages[1][0].ID)
	}
	if len(pages[1]) != 3 {
		t.Fatalf("expected section page to carry following questions, got %d", len(pages[1]))
	}
}

func TestPageIndexOf(t *testing.T) {
	pages := SplitPages([]Question{q("a", TypeText), q("s1", TypeSection), q("b", TypeText)})
	if got := PageIndexOf(pages, "b"); got != 1 {
		t.Fatalf("expected page 1 for b, got %d", got)
	}
	if got := PageIndexOf(pages, "zz"); got != -1 {
		t.Fatalf("expected -1 for unknown question, got %d", got)
	}
}
