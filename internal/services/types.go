package services

import (
	"strings"
	"time"

	"github.com/google/uuid"
)

// User is a form owner account. Respondents do not need accounts unless a
// form collects emails.
type User struct {
	ID        string    `json:"id"`
	Name      string    `json:"name"`
	Email     string    `json:"email"`
	PassHash  []byte    `json:"-"`
	CreatedAt time.Time `json:"createdAt"`
}

func shortID(n int) string {
	return strings.ReplaceAll(uuid.NewString(), "-", "")[:n]
}
