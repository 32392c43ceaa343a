package domain

import (
	"time"

	"github.com/google/uuid"
)

const (
	StatusNormal  = "normal"
	StatusWarning = "warning"
	StatusDanger  = "danger"
	StatusSuccess = "success"
)

// Activity is a single calendar entry owned by exactly one user. Time is a
// wall-clock "HH:MM" value and is always nil when AllDay is set.
type Activity struct {
	ID              uuid.UUID `db:"id"`
	UserID          uuid.UUID `db:"user_id"`
	Date            time.Time `db:"date"`
	AllDay          bool      `db:"all_day"`
	Time            *string   `db:"time"`
	Title           string    `db:"title"`
	Category        *string   `db:"category"`
	Status          string    `db:"status"`
	Remind          bool      `db:"remind"`
	RemindOffsetMin int       `db:"remind_offset_min"`
	Notes           *string   `db:"notes"`
	CreatedAt       time.Time `db:"created_at"`
	UpdatedAt       time.Time `db:"updated_at"`
}
