package api

import (
	"encoding/json"
	"os"
	"sort"
	"sync"

	"github.com/formlite/formlite/internal/forms"
	"github.com/formlite/formlite/internal/services"
)

// Store is the persistence contract the API needs. Its method set covers
// the narrower per-service interfaces (services.AuthStore,
// services.ResponseStore, services.SummaryStore) so one implementation
// serves them all.
type Store interface {
	FindUserByEmail(email string) (*services.User, error)
	AddUser(u *services.User) error
	GetUser(id string) *services.User

	AddForm(f *forms.Form)
	GetForm(id string) *forms.Form
	UpdateForm(f *forms.Form) bool
	DeleteForm(id string) bool
	ListFormsByUser(userID string) []*forms.Form

	AddResponse(r *forms.FormResponse) error
	ListResponses(formID string) []*forms.FormResponse
	CountResponses(formID, email string) int
	DeleteResponsesByForm(formID string) int
}

type memoryStore struct {
	mu        sync.RWMutex
	users     map[string]*services.User
	userEmail map[string]*services.User
	forms     map[string]*forms.Form
	responses map[string][]*forms.FormResponse
}

// NewMemoryStore returns an in-memory Store for development and tests.
func NewMemoryStore() Store { return newMemoryStore() }

func newMemoryStore() *memoryStore {
	return &memoryStore{
		users:     map[string]*services.User{},
		userEmail: map[string]*services.User{},
		forms:     map[string]*forms.Form{},
		responses: map[string][]*forms.FormResponse{},
	}
}

func (m *memoryStore) FindUserByEmail(email string) (*services.User, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return m.userEmail[email], nil
}

func (m *memoryStore) AddUser(u *services.User) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.users[u.ID] = u
	m.userEmail[u.Email] = u
	return nil
}

func (m *memoryStore) GetUser(id string) *services.User {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return m.users[id]
}

func (m *memoryStore) AddForm(f *forms.Form) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.forms[f.ID] = f
}

func (m *memoryStore) GetForm(id string) *forms.Form {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return m.forms[id]
}

func (m *memoryStore) UpdateForm(f *forms.Form) bool {
	m.mu.Lock()
	defer m.mu.Unlock()
	if _, ok := m.forms[f.ID]; !ok {
		return false
	}
	m.forms[f.ID] = f
	return true
}

func (m *memoryStore) DeleteForm(id string) bool {
	m.mu.Lock()
	defer m.mu.Unlock()
	if _, ok := m.forms[id]; !ok {
		return false
	}
	delete(m.forms, id)
	return true
}

func (m *memoryStore) ListFormsByUser(userID string) []*forms.Form {
	m.mu.RLock()
	defer m.mu.RUnlock()
	var out []*forms.Form
	for _, f := range m.forms {
		if f.UserID == userID {
			out = append(out, f)
		}
	}
	sort.Slice(out, func(i, j int) bool {
		if !out[i].CreatedAt.Equal(out[j].CreatedAt) {
			return out[i].CreatedAt.After(out[j].CreatedAt)
		}
		return out[i].ID < out[j].ID
	})
	return out
}

func (m *memoryStore) AddResponse(r *forms.FormResponse) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.responses[r.FormID] = append(m.responses[r.FormID], r)
	return nil
}

func (m *memoryStore) ListResponses(formID string) []*forms.FormResponse {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return append([]*forms.FormResponse(nil), m.responses[formID]...)
}

func (m *memoryStore) CountResponses(formID, email string) int {
	m.mu.RLock()
	defer m.mu.RUnlock()
	n := 0
	for _, r := range m.responses[formID] {
		if r.RespondentEmail == email {
			n++
		}
	}
	return n
}

func (m *memoryStore) DeleteResponsesByForm(formID string) int {
	m.mu.Lock()
	defer m.mu.Unlock()
	n := len(m.responses[formID])
	delete(m.responses, formID)
	return n
}

// Snapshot is the JSON shape of a legacy data export, used for one-time
// imports into a fresh sqlite database.
type Snapshot struct {
	Users     []*services.User                 `json:"users,omitempty"`
	Forms     []*forms.Form                    `json:"forms"`
	Responses map[string][]*forms.FormResponse `json:"responses,omitempty"`
}

// LoadSnapshot reads a legacy JSON export from disk.
func LoadSnapshot(path string) (*Snapshot, error) {
	b, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}
	var snap Snapshot
	if err := json.Unmarshal(b, &snap); err != nil {
		return nil, err
	}
	return &snap, nil
}
