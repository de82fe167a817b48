package api

import (
	"bytes"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/formlite/formlite/internal/forms"
	"github.com/formlite/formlite/internal/middleware"
)

func newTestHandler() http.Handler {
	mux := http.NewServeMux()
	NewRouter(NewMemoryStore()).Register(mux)
	return middleware.WithAuth(mux)
}

func do(t *testing.T, h http.Handler, method, path, token string, body any) *httptest.ResponseRecorder {
	t.Helper()
	var buf bytes.Buffer
	if body != nil {
		if err := json.NewEncoder(&buf).Encode(body); err != nil {
			t.Fatalf("encode body: %v", err)
		}
	}
	req := httptest.NewRequest(method, path, &buf)
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}
	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, req)
	return rec
}

func decode(t *testing.T, rec *httptest.ResponseRecorder, v any) {
	t.Helper()
	if err := json.Unmarshal(rec.Body.Bytes(), v); err != nil {
		t.Fatalf("decode %q: %v", rec.Body.String(), err)
	}
}

func registerUser(t *testing.T, h http.Handler, email string) string {
	t.Helper()
	rec := do(t, h, http.MethodPost, "/api/auth/register", "", map[string]string{
		"name": "Ada", "email": email, "password": "hunter22",
	})
	if rec.Code != http.StatusOK {
		t.Fatalf("register: %d %s", rec.Code, rec.Body.String())
	}
	var out struct {
		Token string `json:"token"`
	}
	decode(t, rec, &out)
	return out.Token
}

func createForm(t *testing.T, h http.Handler, token string, f map[string]any) string {
	t.Helper()
	rec := do(t, h, http.MethodPost, "/api/forms", token, f)
	if rec.Code != http.StatusOK {
		t.Fatalf("create form: %d %s", rec.Code, rec.Body.String())
	}
	var created struct {
		ID string `json:"id"`
	}
	decode(t, rec, &created)
	return created.ID
}

func TestFormLifecycle(t *testing.T) {
	h := newTestHandler()
	token := registerUser(t, h, "ada@example.com")

	formID := createForm(t, h, token, map[string]any{
		"title": "Feedback",
		"questions": []map[string]any{
			{"id": "a", "type": "text", "title": "Name", "required": true},
			{"id": "b", "type": "checkbox", "title": "Colors", "options": []string{"red", "blue"}},
		},
	})

	// Public fetch needs no token.
	rec := do(t, h, http.MethodGet, "/api/forms/"+formID, "", nil)
	if rec.Code != http.StatusOK {
		t.Fatalf("get form: %d", rec.Code)
	}

	// List is owner-scoped.
	rec = do(t, h, http.MethodGet, "/api/forms", token, nil)
	var list []*forms.Form
	decode(t, rec, &list)
	if len(list) != 1 || list[0].ID != formID {
		t.Fatalf("list forms: %+v", list)
	}

	// Submit, then read back.
	rec = do(t, h, http.MethodPost, "/api/forms/"+formID+"/responses", "", map[string]any{
		"responses": map[string]any{"a": "Ada", "b": []string{"red"}},
	})
	if rec.Code != http.StatusOK {
		t.Fatalf("submit: %d %s", rec.Code, rec.Body.String())
	}
	rec = do(t, h, http.MethodGet, "/api/forms/"+formID+"/responses", token, nil)
	var responses []*forms.FormResponse
	decode(t, rec, &responses)
	if len(responses) != 1 || responses[0].Answers["a"].Text != "Ada" {
		t.Fatalf("responses: %+v", responses)
	}

	// CSV export carries the data.
	rec = do(t, h, http.MethodGet, "/api/forms/"+formID+"/export", token, nil)
	if rec.Code != http.StatusOK || !strings.Contains(rec.Body.String(), "Ada") {
		t.Fatalf("export: %d %q", rec.Code, rec.Body.String())
	}

	// Summary counts the checkbox pick.
	rec = do(t, h, http.MethodGet, "/api/forms/"+formID+"/summary", token, nil)
	if rec.Code != http.StatusOK || !strings.Contains(rec.Body.String(), `"red":1`) {
		t.Fatalf("summary: %d %q", rec.Code, rec.Body.String())
	}

	// Delete removes form and responses.
	rec = do(t, h, http.MethodDelete, "/api/forms/"+formID, token, nil)
	if rec.Code != http.StatusOK {
		t.Fatalf("delete: %d", rec.Code)
	}
	rec = do(t, h, http.MethodGet, "/api/forms/"+formID, "", nil)
	if rec.Code != http.StatusNotFound {
		t.Fatalf("get after delete: %d", rec.Code)
	}
}

func TestSubmitValidationFailureReturns422(t *testing.T) {
	h := newTestHandler()
	token := registerUser(t, h, "ada@example.com")
	formID := createForm(t, h, token, map[string]any{
		"title": "Strict",
		"questions": []map[string]any{
			{"id": "a", "type": "text", "title": "Required", "required": true},
		},
	})
	rec := do(t, h, http.MethodPost, "/api/forms/"+formID+"/responses", "", map[string]any{
		"responses": map[string]any{},
	})
	if rec.Code != http.StatusUnprocessableEntity {
		t.Fatalf("expected 422, got %d %s", rec.Code, rec.Body.String())
	}
	var body struct {
		Fields []string `json:"fields"`
	}
	decode(t, rec, &body)
	if len(body.Fields) != 1 || body.Fields[0] != "a" {
		t.Fatalf("expected field a flagged, got %v", body.Fields)
	}
}

func TestSubmitCollectEmailNeedsAuth(t *testing.T) {
	h := newTestHandler()
	token := registerUser(t, h, "ada@example.com")
	formID := createForm(t, h, token, map[string]any{
		"title":    "With email",
		"settings": map[string]any{"collectEmail": true},
		"questions": []map[string]any{
			{"id": "a", "type": "text", "title": "Q"},
		},
	})
	rec := do(t, h, http.MethodPost, "/api/forms/"+formID+"/responses", "", map[string]any{
		"responses": map[string]any{"a": "x"},
	})
	if rec.Code != http.StatusUnauthorized {
		t.Fatalf("anonymous submit should 401, got %d", rec.Code)
	}
	rec = do(t, h, http.MethodPost, "/api/forms/"+formID+"/responses", token, map[string]any{
		"responses": map[string]any{"a": "x"},
	})
	if rec.Code != http.StatusOK {
		t.Fatalf("authenticated submit: %d %s", rec.Code, rec.Body.String())
	}
	var resp forms.FormResponse
	decode(t, rec, &resp)
	if resp.RespondentEmail != "ada@example.com" {
		t.Fatalf("email not captured: %+v", resp)
	}
}

func TestExpiredFormReturns410(t *testing.T) {
	h := newTestHandler()
	token := registerUser(t, h, "ada@example.com")
	formID := createForm(t, h, token, map[string]any{
		"title":    "Old",
		"settings": map[string]any{"deadline": "2020-01-01"},
		"questions": []map[string]any{
			{"id": "a", "type": "text", "title": "Q"},
		},
	})
	rec := do(t, h, http.MethodPost, "/api/forms/"+formID+"/responses", "", map[string]any{
		"responses": map[string]any{"a": "x"},
	})
	if rec.Code != http.StatusGone {
		t.Fatalf("expected 410 for expired form, got %d", rec.Code)
	}
}

func TestOwnershipEnforced(t *testing.T) {
	h := newTestHandler()
	owner := registerUser(t, h, "owner@example.com")
	intruder := registerUser(t, h, "intruder@example.com")
	formID := createForm(t, h, owner, map[string]any{
		"title":     "Private",
		"questions": []map[string]any{{"id": "a", "type": "text", "title": "Q"}},
	})
	for _, path := range []string{
		"/api/forms/" + formID + "/responses",
		"/api/forms/" + formID + "/export",
		"/api/forms/" + formID + "/summary",
	} {
		rec := do(t, h, http.MethodGet, path, intruder, nil)
		if rec.Code != http.StatusForbidden {
			t.Fatalf("%s: expected 403, got %d", path, rec.Code)
		}
	}
	rec := do(t, h, http.MethodDelete, "/api/forms/"+formID, intruder, nil)
	if rec.Code != http.StatusForbidden {
		t.Fatalf("delete by non-owner should 403, got %d", rec.Code)
	}
}

func TestShuffledFormViewIsSeedStable(t *testing.T) {
	h := newTestHandler()
	token := registerUser(t, h, "ada@example.com")
	formID := createForm(t, h, token, map[string]any{
		"title":    "Shuffled",
		"settings": map[string]any{"shuffleQuestions": true},
		"questions": []map[string]any{
			{"id": "a", "type": "text", "title": "A"},
			{"id": "b", "type": "text", "title": "B"},
			{"id": "c", "type": "text", "title": "C"},
			{"id": "d", "type": "text", "title": "D"},
		},
	})
	first := do(t, h, http.MethodGet, "/api/forms/"+formID+"?seed=5", "", nil)
	second := do(t, h, http.MethodGet, "/api/forms/"+formID+"?seed=5", "", nil)
	if first.Body.String() != second.Body.String() {
		t.Fatalf("same seed must render the same order")
	}
}
