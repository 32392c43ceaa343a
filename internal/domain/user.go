package domain

import (
	"time"

	"github.com/google/uuid"
)

// User is created at registration and immutable afterwards. Email and
// username are unique across all users.
type User struct {
	ID           uuid.UUID `db:"id"`
	Email        string    `db:"email"`
	Username     string    `db:"username"`
	Gender       *string   `db:"gender"`
	Age          *int      `db:"age"`
	PasswordHash string    `db:"password_hash"`
	CreatedAt    time.Time `db:"created_at"`
}
