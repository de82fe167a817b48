package forms

// SplitPages partitions an ordered question list into pages. A section
// question always starts a new page with the section as its first element;
// non-section questions accumulate on the current page. A form with no
// sections yields one page, and a form with no questions yields one empty
// page so downstream consumers never see a zero-length page list.
func SplitPages(questions []Question) [][]Question {
	var pages [][]Question
	for _, q := range questions {
		if q.Type == TypeSection {
			pages = append(pages, []Question{q})
			continue
		}
		if len(pages) == 0 {
			pages = append(pages, nil)
		}
		pages[len(pages)-1] = append(pages[len(pages)-1], q)
	}
	if len(pages) == 0 {
		pages = [][]Question{{}}
	}
	return pages
}

// PageIndexOf returns the index of the page containing questionID, or -1.
func PageIndexOf(pages [][]Question, questionID string) int {
	for i, page := range pages {
		for _, q := range page {
			if q.ID == questionID {
				return i
			}
		}
	}
	return -1
}
