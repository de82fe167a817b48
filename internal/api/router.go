package api

import (
	"encoding/json"
	"net/http"
	"strconv"
	"strings"
	"time"

	"github.com/google/uuid"

	"github.com/formlite/formlite/internal/forms"
	"github.com/formlite/formlite/internal/middleware"
	"github.com/formlite/formlite/internal/services"
)

type Router struct {
	store     Store
	auth      *services.AuthService
	responses *services.ResponseService
	summaries *services.SummaryService
	now       func() time.Time
}

func NewRouter(store Store) *Router {
	return &Router{
		store:     store,
		auth:      services.NewAuthService(store, middleware.SignToken),
		responses: services.NewResponseService(store),
		summaries: services.NewSummaryService(store),
		now:       func() time.Time { return time.Now().UTC() },
	}
}

func (rt *Router) Register(mux *http.ServeMux) {
	mux.HandleFunc("/api/auth/register", rt.handleRegister) // POST
	mux.HandleFunc("/api/auth/login", rt.handleLogin)       // POST
	mux.Handle("/api/auth/me", middleware.RequireAuth(http.HandlerFunc(rt.handleMe)))  // GET
	mux.Handle("/api/forms", middleware.RequireAuth(http.HandlerFunc(rt.handleForms))) // GET list, POST create
	mux.HandleFunc("/api/forms/", rt.handleFormScoped)      // {id}, {id}/responses, {id}/export, {id}/summary
}

// POST /api/auth/register — {name, email, password}
func (rt *Router) handleRegister(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodPost {
		http.Error(w, "method not allowed", http.StatusMethodNotAllowed)
		return
	}
	var req struct {
		Name     string `json:"name"`
		Email    string `json:"email"`
		Password string `json:"password"`
	}
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		http.Error(w, err.Error(), http.StatusBadRequest)
		return
	}
	res, err := rt.auth.Register(req.Name, req.Email, req.Password)
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, map[string]any{"token": res.Token, "user": res.User})
}

// POST /api/auth/login — {email, password}
func (rt *Router) handleLogin(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodPost {
		http.Error(w, "method not allowed", http.StatusMethodNotAllowed)
		return
	}
	var req struct {
		Email    string `json:"email"`
		Password string `json:"password"`
	}
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		http.Error(w, err.Error(), http.StatusBadRequest)
		return
	}
	res, err := rt.auth.Login(req.Email, req.Password)
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, map[string]any{"token": res.Token, "user": res.User})
}

// GET /api/auth/me
func (rt *Router) handleMe(w http.ResponseWriter, r *http.Request) {
	uid, ok := middleware.UserIDFromContext(r.Context())
	if !ok {
		http.Error(w, "unauthorized", http.StatusUnauthorized)
		return
	}
	u := rt.store.GetUser(uid)
	if u == nil {
		http.Error(w, "not found", http.StatusNotFound)
		return
	}
	writeJSON(w, http.StatusOK, u)
}

// GET/POST /api/forms
func (rt *Router) handleForms(w http.ResponseWriter, r *http.Request) {
	uid, ok := middleware.UserIDFromContext(r.Context())
	if !ok {
		http.Error(w, "unauthorized", http.StatusUnauthorized)
		return
	}
	switch r.Method {
	case http.MethodGet:
		list := rt.store.ListFormsByUser(uid)
		if list == nil {
			list = []*forms.Form{}
		}
		writeJSON(w, http.StatusOK, list)
	case http.MethodPost:
		var f forms.Form
		if err := json.NewDecoder(r.Body).Decode(&f); err != nil {
			http.Error(w, err.Error(), http.StatusBadRequest)
			return
		}
		if strings.TrimSpace(f.Title) == "" {
			writeError(w, services.NewInvalidError("title required"))
			return
		}
		if f.ID == "" {
			f.ID = strings.ReplaceAll(uuid.NewString(), "-", "")[:8]
		}
		f.UserID = uid
		f.CreatedAt = rt.now()
		f.UpdatedAt = f.CreatedAt
		rt.store.AddForm(&f)
		writeJSON(w, http.StatusOK, &f)
	default:
		http.Error(w, "method not allowed", http.StatusMethodNotAllowed)
	}
}

// handleFormScoped fans out /api/forms/{id} and its sub-resources.
func (rt *Router) handleFormScoped(w http.ResponseWriter, r *http.Request) {
	rest := strings.TrimPrefix(r.URL.Path, "/api/forms/")
	parts := strings.Split(strings.Trim(rest, "/"), "/")
	if len(parts) == 0 || parts[0] == "" {
		http.NotFound(w, r)
		return
	}
	id := parts[0]
	if len(parts) == 1 {
		rt.handleForm(w, r, id)
		return
	}
	switch parts[1] {
	case "responses":
		rt.handleResponses(w, r, id)
	case "export":
		rt.handleExport(w, r, id)
	case "summary":
		rt.handleSummary(w, r, id)
	default:
		http.NotFound(w, r)
	}
}

func (rt *Router) handleForm(w http.ResponseWriter, r *http.Request, id string) {
	switch r.Method {
	case http.MethodGet:
		f := rt.store.GetForm(id)
		if f == nil {
			writeError(w, forms.NewNotFoundError("form not found"))
			return
		}
		if f.Settings.ShuffleQuestions || f.Settings.ShuffleOptions {
			seed := rt.now().UnixNano()
			if s := r.URL.Query().Get("seed"); s != "" {
				if n, err := strconv.ParseInt(s, 10, 64); err == nil {
					seed = n
				}
			}
			view := *f
			view.Questions = forms.ShuffledQuestions(f, seed)
			writeJSON(w, http.StatusOK, &view)
			return
		}
		writeJSON(w, http.StatusOK, f)
	case http.MethodPut:
		f, ok := rt.ownedForm(w, r, id)
		if !ok {
			return
		}
		var next forms.Form
		if err := json.NewDecoder(r.Body).Decode(&next); err != nil {
			http.Error(w, err.Error(), http.StatusBadRequest)
			return
		}
		next.ID = f.ID
		next.UserID = f.UserID
		next.CreatedAt = f.CreatedAt
		next.UpdatedAt = rt.now()
		if !rt.store.UpdateForm(&next) {
			writeError(w, forms.NewNotFoundError("form not found"))
			return
		}
		writeJSON(w, http.StatusOK, &next)
	case http.MethodDelete:
		f, ok := rt.ownedForm(w, r, id)
		if !ok {
			return
		}
		rt.store.DeleteForm(f.ID)
		rt.store.DeleteResponsesByForm(f.ID)
		writeJSON(w, http.StatusOK, map[string]any{"ok": true})
	default:
		http.Error(w, "method not allowed", http.StatusMethodNotAllowed)
	}
}

// ownedForm loads the form and checks the caller owns it.
func (rt *Router) ownedForm(w http.ResponseWriter, r *http.Request, id string) (*forms.Form, bool) {
	uid, ok := middleware.UserIDFromContext(r.Context())
	if !ok {
		http.Error(w, "unauthorized", http.StatusUnauthorized)
		return nil, false
	}
	f := rt.store.GetForm(id)
	if f == nil {
		writeError(w, forms.NewNotFoundError("form not found"))
		return nil, false
	}
	if f.UserID != uid {
		writeError(w, services.NewForbiddenError("forbidden"))
		return nil, false
	}
	return f, true
}

// GET lists responses for the owner; POST submits a completed fill session.
func (rt *Router) handleResponses(w http.ResponseWriter, r *http.Request, id string) {
	switch r.Method {
	case http.MethodGet:
		if _, ok := rt.ownedForm(w, r, id); !ok {
			return
		}
		list := rt.store.ListResponses(id)
		if list == nil {
			list = []*forms.FormResponse{}
		}
		writeJSON(w, http.StatusOK, list)
	case http.MethodPost:
		var req struct {
			Responses forms.AnswerSet `json:"responses"`
		}
		if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
			http.Error(w, err.Error(), http.StatusBadRequest)
			return
		}
		email, _ := middleware.EmailFromContext(r.Context())
		resp, err := rt.responses.Submit(r.Context(), services.SubmitRequest{
			FormID:          id,
			RespondentEmail: email,
			Answers:         req.Responses,
		})
		if err != nil {
			writeError(w, err)
			return
		}
		writeJSON(w, http.StatusOK, resp)
	default:
		http.Error(w, "method not allowed", http.StatusMethodNotAllowed)
	}
}

// GET /api/forms/{id}/export — responses CSV for the owner.
func (rt *Router) handleExport(w http.ResponseWriter, r *http.Request, id string) {
	if r.Method != http.MethodGet {
		http.Error(w, "method not allowed", http.StatusMethodNotAllowed)
		return
	}
	f, ok := rt.ownedForm(w, r, id)
	if !ok {
		return
	}
	b, err := services.ExportResponsesCSV(f, rt.store.ListResponses(id))
	if err != nil {
		http.Error(w, err.Error(), http.StatusInternalServerError)
		return
	}
	w.Header().Set("Content-Type", "text/csv")
	w.Header().Set("Content-Disposition", "attachment; filename=responses.csv")
	_, _ = w.Write(b)
}

// GET /api/forms/{id}/summary — per-question aggregates for the owner.
func (rt *Router) handleSummary(w http.ResponseWriter, r *http.Request, id string) {
	if r.Method != http.MethodGet {
		http.Error(w, "method not allowed", http.StatusMethodNotAllowed)
		return
	}
	uid, ok := middleware.UserIDFromContext(r.Context())
	if !ok {
		http.Error(w, "unauthorized", http.StatusUnauthorized)
		return
	}
	sum, err := rt.summaries.Summary(id, uid)
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, sum)
}
