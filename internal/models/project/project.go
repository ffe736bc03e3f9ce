package project

import (
	"fmt"
	"strconv"
	"strings"
	"time"

	"github.com/google/uuid"
)

// Project группирует задачи. Прогресс не хранится, считается по задачам при чтении.
type Project struct {
	UUID        uuid.UUID  `json:"uuid" db:"uuid"`
	Name        string     `json:"name" db:"name"`
	Description string     `json:"description" db:"description"`
	Status      Status     `json:"status" db:"status"`
	DueDate     *time.Time `json:"due_date,omitempty" db:"due_date"`
	CreatedAt   time.Time  `json:"created_at" db:"created_at"`
	UpdatedAt   *time.Time `json:"updated_at,omitempty" db:"updated_at"`
}

func (p *Project) LastModified() time.Time {
	if p.UpdatedAt != nil {
		return *p.UpdatedAt
	}
	return p.CreatedAt
}

type Status int

const (
	StatusActive Status = iota
	StatusCompleted
	StatusOnHold
)

var statusNames = map[Status]string{
	StatusActive:    "active",
	StatusCompleted: "completed",
	StatusOnHold:    "on_hold",
}

func (s Status) String() string {
	if name, ok := statusNames[s]; ok {
		return name
	}
	return "status(" + strconv.Itoa(int(s)) + ")"
}

func (s Status) Valid() bool {
	_, ok := statusNames[s]
	return ok
}

func ParseStatus(raw string) (Status, error) {
	key := strings.ToLower(strings.TrimSpace(raw))
	for s, name := range statusNames {
		if name == key {
			return s, nil
		}
	}
	return 0, fmt.Errorf("неизвестный статус проекта %q", raw)
}

func (s Status) MarshalText() ([]byte, error) {
	if !s.Valid() {
		return nil, fmt.Errorf("неизвестный статус проекта %d", int(s))
	}
	return []byte(s.String()), nil
}

func (s *Status) UnmarshalText(text []byte) error {
	parsed, err := ParseStatus(string(text))
	if err != nil {
		return err
	}
	*s = parsed
	return nil
}

type ProjectOption func(*Project)

func Apply(p *Project, options ...ProjectOption) {
	for _, opt := range options {
		if opt != nil {
			opt(p)
		}
	}
}

func WithName(name string) ProjectOption {
	if name == "" {
		return nil
	}
	return func(p *Project) {
		p.Name = name
	}
}

func WithDescription(description string) ProjectOption {
	return func(p *Project) {
		p.Description = description
	}
}

func WithStatus(status Status) ProjectOption {
	return func(p *Project) {
		p.Status = status
	}
}

func WithDueDate(dueDate *time.Time) ProjectOption {
	return func(p *Project) {
		p.DueDate = dueDate
	}
}
