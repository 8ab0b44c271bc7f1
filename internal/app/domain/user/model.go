// Package user defines user accounts and membership views.
package user

import "time"

// User is an authenticated TeamFlow account. Password holds the bcrypt hash
// and is never serialized.
type User struct {
	ID        int64     `json:"id"`
	Email     string    `json:"email"`
	Password  string    `json:"-"`
	FullName  string    `json:"fullName"`
	Role      string    `json:"role"`
	CreatedAt time.Time `json:"createdAt"`
}

// Member is the projection of a user shown in project member lists.
type Member struct {
	ID       int64  `json:"id"`
	FullName string `json:"fullName"`
	Email    string `json:"email"`
	Role     string `json:"role"`
}
