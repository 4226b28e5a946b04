package models

import "time"

// User is a credential store row. The password hash and recovery key are
// never serialized outward.
type User struct {
	ID           int       `json:"id"`
	Username     string    `json:"username"`
	PasswordHash string    `json:"-"`
	RecoveryKey  string    `json:"-"`
	FullName     *string   `json:"full_name,omitempty"`
	Email        *string   `json:"email,omitempty"`
	Profession   *string   `json:"profession,omitempty"`
	Age          *int      `json:"age,omitempty"`
	CreatedAt    time.Time `json:"-"`
	UpdatedAt    time.Time `json:"-"`
}

type Task struct {
	ID          int       `json:"id"`
	OwnerID     int       `json:"owner_id"`
	Title       string    `json:"title"`
	Description string    `json:"description"`
	IsCompleted bool      `json:"is_completed"`
	CreatedAt   time.Time `json:"-"`
	UpdatedAt   time.Time `json:"-"`
}

// ProfilePatch carries a partial profile update. A nil field was not
// supplied and leaves the stored value unchanged; a non-nil field
// overwrites, including empty strings and age 0.
type ProfilePatch struct {
	FullName   *string
	Email      *string
	Profession *string
	Age        *int
}
