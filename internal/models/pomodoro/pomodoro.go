package pomodoro

import (
	"fmt"
	"strconv"
	"strings"
	"time"

	"github.com/google/uuid"
)

type Pomodoro struct {
	UUID                   uuid.UUID  `json:"uuid" db:"uuid"`
	TaskID                 uuid.UUID  `json:"task_id" db:"task_id"`
	Status                 Status     `json:"status" db:"status"`
	Type                   Type       `json:"type" db:"type"`
	StartTime              *time.Time `json:"start_time,omitempty" db:"start_time"`
	EndTime                *time.Time `json:"end_time,omitempty" db:"end_time"`
	PausedAt               *time.Time `json:"paused_at,omitempty" db:"paused_at"`
	PlannedDurationMinutes int        `json:"planned_duration_minutes" db:"planned_duration_minutes"`
	ActualDurationMinutes  *int       `json:"actual_duration_minutes,omitempty" db:"actual_duration_minutes"`
	PausedSeconds          int        `json:"paused_seconds" db:"paused_seconds"`
	Interruptions          int        `json:"interruptions" db:"interruptions"`
	Notes                  string     `json:"notes,omitempty" db:"notes"`
	CreatedAt              time.Time  `json:"created_at" db:"created_at"`
	UpdatedAt              *time.Time `json:"updated_at,omitempty" db:"updated_at"`
}

func (p *Pomodoro) IsTerminal() bool {
	return p.Status == StatusCompleted || p.Status == StatusCancelled
}

type Status int

const (
	StatusPending Status = iota
	StatusInProgress
	StatusPaused
	StatusCompleted
	StatusCancelled
)

var Statuses = []Status{StatusPending, StatusInProgress, StatusPaused, StatusCompleted, StatusCancelled}

var statusNames = map[Status]string{
	StatusPending:    "pending",
	StatusInProgress: "in_progress",
	StatusPaused:     "paused",
	StatusCompleted:  "completed",
	StatusCancelled:  "cancelled",
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
	return 0, fmt.Errorf("неизвестный статус помидора %q", raw)
}

func (s Status) MarshalText() ([]byte, error) {
	if !s.Valid() {
		return nil, fmt.Errorf("неизвестный статус помидора %d", int(s))
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

type Type int

const (
	TypeWork Type = iota
	TypeShortBreak
	TypeLongBreak
)

var typeNames = map[Type]string{
	TypeWork:       "work",
	TypeShortBreak: "short_break",
	TypeLongBreak:  "long_break",
}

func (t Type) String() string {
	if name, ok := typeNames[t]; ok {
		return name
	}
	return "type(" + strconv.Itoa(int(t)) + ")"
}

func (t Type) Valid() bool {
	_, ok := typeNames[t]
	return ok
}

func (t Type) IsBreak() bool {
	return t == TypeShortBreak || t == TypeLongBreak
}

func ParseType(raw string) (Type, error) {
	key := strings.ToLower(strings.TrimSpace(raw))
	for t, name := range typeNames {
		if name == key {
			return t, nil
		}
	}
	return 0, fmt.Errorf("неизвестный тип помидора %q", raw)
}

func (t Type) MarshalText() ([]byte, error) {
	if !t.Valid() {
		return nil, fmt.Errorf("неизвестный тип помидора %d", int(t))
	}
	return []byte(t.String()), nil
}

func (t *Type) UnmarshalText(text []byte) error {
	parsed, err := ParseType(string(text))
	if err != nil {
		return err
	}
	*t = parsed
	return nil
}
