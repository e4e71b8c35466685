// Package model defines domain entities for the application.
package model

import "time"

// User field limits.
const (
	MaxNameLength = 100
	MinAge        = 0
	MaxAge        = 150
)

// User is a single record owned by the user repository.
// ID and CreatedAt never change once assigned.
type User struct {
	ID        string    `json:"id"`
	Name      string    `json:"name"`
	Email     string    `json:"email"`
	Age       *int      `json:"age,omitempty"`
	CreatedAt time.Time `json:"createdAt"`
	UpdatedAt time.Time `json:"updatedAt"`
}

// Clone returns a deep copy so callers never alias repository state.
func (u *User) Clone() *User {
	if u == nil {
		return nil
	}
	c := *u
	if u.Age != nil {
		age := *u.Age
		c.Age = &age
	}
	return &c
}

// CreateUserInput holds the caller-supplied fields for a new user.
type CreateUserInput struct {
	Name  string
	Email string
	Age   *int
}

// UpdateUserInput is a partial update. Nil fields are left untouched.
type UpdateUserInput struct {
	Name  *string
	Email *string
	Age   *int
}

// IsEmpty reports whether the update carries no fields.
func (in UpdateUserInput) IsEmpty() bool {
	return in.Name == nil && in.Email == nil && in.Age == nil
}
