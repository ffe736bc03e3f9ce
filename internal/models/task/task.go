package task

import (
	"fmt"
	"strconv"
	"strings"
	"time"

	"github.com/google/uuid"
)

type Task struct {
	UUID               uuid.UUID  `json:"uuid" db:"uuid"`
	Title              string     `json:"title" db:"title"`
	Description        string     `json:"description" db:"description"`
	Status             Status     `json:"status" db:"status"`
	Priority           Priority   `json:"priority" db:"priority"`
	ProjectID          uuid.UUID  `json:"project_id" db:"project_id"`
	AssigneeID         *uuid.UUID `json:"assignee_id,omitempty" db:"assignee_id"`
	AssigneeName       string     `json:"assignee_name,omitempty" db:"assignee_name"`
	DueDate            *time.Time `json:"due_date,omitempty" db:"due_date"`
	EstimatedPomodoros *int       `json:"estimated_pomodoros,omitempty" db:"estimated_pomodoros"`
	CompletedPomodoros int        `json:"completed_pomodoros" db:"completed_pomodoros"`
	Tags               []string   `json:"tags" db:"tags"`
	IsCompleted        bool       `json:"is_completed" db:"is_completed"`
	CompletedAt        *time.Time `json:"completed_at,omitempty" db:"completed_at"`
	CreatedAt          time.Time  `json:"created_at" db:"created_at"`
	UpdatedAt          *time.Time `json:"updated_at,omitempty" db:"updated_at"`
	Version            int        `json:"version" db:"version"`
}

// IsOverdue: срок задан, уже прошёл, а задача не завершена
func (t *Task) IsOverdue(now time.Time) bool {
	return t.DueDate != nil && t.DueDate.Before(now) && !t.IsCompleted
}

// LastModified возвращает UpdatedAt, а для ни разу не изменённой задачи CreatedAt
func (t *Task) LastModified() time.Time {
	if t.UpdatedAt != nil {
		return *t.UpdatedAt
	}
	return t.CreatedAt
}

// Status единственный набор статусов задачи, старые имена это псевдонимы тех же значений
type Status int

const (
	StatusPending Status = iota
	StatusInProgress
	StatusCompleted
	StatusCancelled
)

// устаревшие имена статусов
const (
	StatusTodo  = StatusPending
	StatusDoing = StatusInProgress
	StatusDone  = StatusCompleted
)

var Statuses = []Status{StatusPending, StatusInProgress, StatusCompleted, StatusCancelled}

var statusNames = map[Status]string{
	StatusPending:    "pending",
	StatusInProgress: "in_progress",
	StatusCompleted:  "completed",
	StatusCancelled:  "cancelled",
}

var statusLookup = map[string]Status{
	"pending":     StatusPending,
	"in_progress": StatusInProgress,
	"inprogress":  StatusInProgress,
	"completed":   StatusCompleted,
	"cancelled":   StatusCancelled,
	"canceled":    StatusCancelled,
	"todo":        StatusTodo,
	"doing":       StatusDoing,
	"done":        StatusDone,
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

// ParseStatus принимает текущие имена, старые имена и номера
func ParseStatus(raw string) (Status, error) {
	key := strings.ToLower(strings.TrimSpace(raw))
	if s, ok := statusLookup[key]; ok {
		return s, nil
	}
	if n, err := strconv.Atoi(key); err == nil && Status(n).Valid() {
		return Status(n), nil
	}
	return 0, fmt.Errorf("неизвестный статус задачи %q", raw)
}

func (s Status) MarshalText() ([]byte, error) {
	if !s.Valid() {
		return nil, fmt.Errorf("неизвестный статус задачи %d", int(s))
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

type Priority int

const (
	PriorityLow Priority = iota
	PriorityMedium
	PriorityHigh
	PriorityCritical
)

var priorityNames = map[Priority]string{
	PriorityLow:      "low",
	PriorityMedium:   "medium",
	PriorityHigh:     "high",
	PriorityCritical: "critical",
}

func (p Priority) String() string {
	if name, ok := priorityNames[p]; ok {
		return name
	}
	return "priority(" + strconv.Itoa(int(p)) + ")"
}

func (p Priority) Valid() bool {
	_, ok := priorityNames[p]
	return ok
}

func ParsePriority(raw string) (Priority, error) {
	key := strings.ToLower(strings.TrimSpace(raw))
	for p, name := range priorityNames {
		if name == key {
			return p, nil
		}
	}
	if n, err := strconv.Atoi(key); err == nil && Priority(n).Valid() {
		return Priority(n), nil
	}
	return 0, fmt.Errorf("неизвестный приоритет %q", raw)
}

func (p Priority) MarshalText() ([]byte, error) {
	if !p.Valid() {
		return nil, fmt.Errorf("неизвестный приоритет %d", int(p))
	}
	return []byte(p.String()), nil
}

func (p *Priority) UnmarshalText(text []byte) error {
	parsed, err := ParsePriority(string(text))
	if err != nil {
		return err
	}
	*p = parsed
	return nil
}
