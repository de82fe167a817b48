package db

import (
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"
	"log"
	"strings"
	"time"

	"github.com/formlite/formlite/internal/api"
	"github.com/formlite/formlite/internal/forms"
	"github.com/formlite/formlite/internal/services"
)

// SQLiteStore implements api.Store on a sqlite database. Question lists,
// settings, and answer sets are stored as JSON columns; everything queried
// on gets its own column.
type SQLiteStore struct {
	db *sql.DB
}

func NewSQLiteStore(db *sql.DB) (*SQLiteStore, error) {
	if db == nil {
		return nil, errors.New("nil db")
	}
	pragmas := []string{
		"PRAGMA foreign_keys = ON",
		"PRAGMA journal_mode = WAL",
		"PRAGMA synchronous = NORMAL",
	}
	for _, stmt := range pragmas {
		if _, err := db.Exec(stmt); err != nil {
			return nil, fmt.Errorf("apply sqlite pragma %q: %w", stmt, err)
		}
	}
	return &SQLiteStore{db: db}, nil
}

func NewStore(db *sql.DB) (api.Store, error) {
	return NewSQLiteStore(db)
}

func (s *SQLiteStore) logErr(prefix string, err error) {
	if err != nil {
		log.Printf("sqlite store: %s: %v", prefix, err)
	}
}

func toNullString(v string) sql.NullString {
	if strings.TrimSpace(v) == "" {
		return sql.NullString{}
	}
	return sql.NullString{String: v, Valid: true}
}

func toNullInt(v *int) sql.NullInt64 {
	if v == nil {
		return sql.NullInt64{}
	}
	return sql.NullInt64{Int64: int64(*v), Valid: true}
}

func fromNullInt(v sql.NullInt64) *int {
	if !v.Valid {
		return nil
	}
	n := int(v.Int64)
	return &n
}

func encodeJSON(v any) (string, error) {
	b, err := json.Marshal(v)
	if err != nil {
		return "", err
	}
	return string(b), nil
}

func decodeQuestions(raw string) []forms.Question {
	var qs []forms.Question
	if err := json.Unmarshal([]byte(raw), &qs); err != nil {
		log.Printf("sqlite store: decode questions: %v", err)
		return nil
	}
	return qs
}

func decodeSettings(ns sql.NullString) forms.FormSettings {
	var st forms.FormSettings
	if !ns.Valid || strings.TrimSpace(ns.String) == "" {
		return st
	}
	if err := json.Unmarshal([]byte(ns.String), &st); err != nil {
		log.Printf("sqlite store: decode settings: %v", err)
	}
	return st
}

func decodeAnswers(raw string) forms.AnswerSet {
	var as forms.AnswerSet
	if err := json.Unmarshal([]byte(raw), &as); err != nil {
		log.Printf("sqlite store: decode answers: %v", err)
		return forms.AnswerSet{}
	}
	return as
}

func (s *SQLiteStore) FindUserByEmail(email string) (*services.User, error) {
	row := s.db.QueryRow(`SELECT id, name, email, pass_hash, created_at FROM users WHERE email = ?`, email)
	u, err := scanUser(row)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, nil
	}
	return u, err
}

func (s *SQLiteStore) GetUser(id string) *services.User {
	row := s.db.QueryRow(`SELECT id, name, email, pass_hash, created_at FROM users WHERE id = ?`, id)
	u, err := scanUser(row)
	if err != nil {
		if !errors.Is(err, sql.ErrNoRows) {
			s.logErr("get user", err)
		}
		return nil
	}
	return u
}

func scanUser(row *sql.Row) (*services.User, error) {
	var u services.User
	var created time.Time
	if err := row.Scan(&u.ID, &u.Name, &u.Email, &u.PassHash, &created); err != nil {
		return nil, err
	}
	u.CreatedAt = created.UTC()
	return &u, nil
}

func (s *SQLiteStore) AddUser(u *services.User) error {
	_, err := s.db.Exec(
		`INSERT INTO users (id, name, email, pass_hash, created_at) VALUES (?, ?, ?, ?, ?)`,
		u.ID, u.Name, u.Email, u.PassHash, u.CreatedAt,
	)
	return err
}

func (s *SQLiteStore) AddForm(f *forms.Form) {
	questions, err := encodeJSON(f.Questions)
	if err != nil {
		s.logErr("encode questions", err)
		return
	}
	settings, err := encodeJSON(f.Settings)
	if err != nil {
		s.logErr("encode settings", err)
		return
	}
	_, err = s.db.Exec(
		`INSERT OR REPLACE INTO forms (id, user_id, title, description, theme, header_image, questions, settings, created_at, updated_at)
		 VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?)`,
		f.ID, f.UserID, f.Title, toNullString(f.Description), toNullString(f.Theme),
		toNullString(f.HeaderImage), questions, settings, f.CreatedAt, f.UpdatedAt,
	)
	s.logErr("add form", err)
}

func (s *SQLiteStore) GetForm(id string) *forms.Form {
	row := s.db.QueryRow(
		`SELECT id, user_id, title, description, theme, header_image, questions, settings, created_at, updated_at
		 FROM forms WHERE id = ?`, id)
	f, err := scanForm(row.Scan)
	if err != nil {
		if !errors.Is(err, sql.ErrNoRows) {
			s.logErr("get form", err)
		}
		return nil
	}
	return f
}

func scanForm(scan func(dest ...any) error) (*forms.Form, error) {
	var f forms.Form
	var description, theme, headerImage, settings sql.NullString
	var questions string
	var created, updated time.Time
	if err := scan(&f.ID, &f.UserID, &f.Title, &description, &theme, &headerImage,
		&questions, &settings, &created, &updated); err != nil {
		return nil, err
	}
	f.Description = description.String
	f.Theme = theme.String
	f.HeaderImage = headerImage.String
	f.Questions = decodeQuestions(questions)
	f.Settings = decodeSettings(settings)
	f.CreatedAt = created.UTC()
	f.UpdatedAt = updated.UTC()
	return &f, nil
}

func (s *SQLiteStore) UpdateForm(f *forms.Form) bool {
	questions, err := encodeJSON(f.Questions)
	if err != nil {
		s.logErr("encode questions", err)
		return false
	}
	settings, err := encodeJSON(f.Settings)
	if err != nil {
		s.logErr("encode settings", err)
		return false
	}
	res, err := s.db.Exec(
		`UPDATE forms SET title = ?, description = ?, theme = ?, header_image = ?, questions = ?, settings = ?, updated_at = ?
		 WHERE id = ?`,
		f.Title, toNullString(f.Description), toNullString(f.Theme), toNullString(f.HeaderImage),
		questions, settings, f.UpdatedAt, f.ID,
	)
	if err != nil {
		s.logErr("update form", err)
		return false
	}
	n, _ := res.RowsAffected()
	return n > 0
}

func (s *SQLiteStore) DeleteForm(id string) bool {
	res, err := s.db.Exec(`DELETE FROM forms WHERE id = ?`, id)
	if err != nil {
		s.logErr("delete form", err)
		return false
	}
	n, _ := res.RowsAffected()
	return n > 0
}

func (s *SQLiteStore) ListFormsByUser(userID string) []*forms.Form {
	rows, err := s.db.Query(
		`SELECT id, user_id, title, description, theme, header_image, questions, settings, created_at, updated_at
		 FROM forms WHERE user_id = ? ORDER BY created_at DESC, id`, userID)
	if err != nil {
		s.logErr("list forms", err)
		return nil
	}
	defer rows.Close()
	var out []*forms.Form
	for rows.Next() {
		f, err := scanForm(rows.Scan)
		if err != nil {
			s.logErr("scan form", err)
			continue
		}
		out = append(out, f)
	}
	s.logErr("list forms rows", rows.Err())
	return out
}

func (s *SQLiteStore) AddResponse(r *forms.FormResponse) error {
	answers, err := encodeJSON(r.Answers)
	if err != nil {
		return err
	}
	_, err = s.db.Exec(
		`INSERT INTO responses (id, form_id, respondent_email, answers, score, max_score, created_at)
		 VALUES (?, ?, ?, ?, ?, ?, ?)`,
		r.ID, r.FormID, toNullString(r.RespondentEmail), answers,
		toNullInt(r.Score), toNullInt(r.MaxScore), r.CreatedAt,
	)
	return err
}

func (s *SQLiteStore) ListResponses(formID string) []*forms.FormResponse {
	rows, err := s.db.Query(
		`SELECT id, form_id, respondent_email, answers, score, max_score, created_at
		 FROM responses WHERE form_id = ? ORDER BY created_at, id`, formID)
	if err != nil {
		s.logErr("list responses", err)
		return nil
	}
	defer rows.Close()
	var out []*forms.FormResponse
	for rows.Next() {
		var r forms.FormResponse
		var email sql.NullString
		var answers string
		var score, maxScore sql.NullInt64
		var created time.Time
		if err := rows.Scan(&r.ID, &r.FormID, &email, &answers, &score, &maxScore, &created); err != nil {
			s.logErr("scan response", err)
			continue
		}
		r.RespondentEmail = email.String
		r.Answers = decodeAnswers(answers)
		r.Score = fromNullInt(score)
		r.MaxScore = fromNullInt(maxScore)
		r.CreatedAt = created.UTC()
		out = append(out, &r)
	}
	s.logErr("list responses rows", rows.Err())
	return out
}

func (s *SQLiteStore) CountResponses(formID, email string) int {
	var n int
	err := s.db.QueryRow(
		`SELECT COUNT(*) FROM responses WHERE form_id = ? AND respondent_email = ?`,
		formID, email,
	).Scan(&n)
	if err != nil {
		s.logErr("count responses", err)
		return 0
	}
	return n
}

func (s *SQLiteStore) DeleteResponsesByForm(formID string) int {
	res, err := s.db.Exec(`DELETE FROM responses WHERE form_id = ?`, formID)
	if err != nil {
		s.logErr("delete responses", err)
		return 0
	}
	n, _ := res.RowsAffected()
	return int(n)
}
