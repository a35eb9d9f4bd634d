package models

import (
	"time"
)

// User defines the user model based on the 'users' table. Token issuance and
// permission decisions live outside this service; the engine only needs
// identity and existence.
type User struct {
	ID        int64     `json:"id" db:"id" example:"1"`
	Email     string    `json:"email" db:"email" example:"student@school.edu.tr"`
	Password  string    `json:"-" db:"password"` // Hashed, excluded from JSON
	FirstName string    `json:"firstName" db:"first_name" example:"Elif"`
	LastName  string    `json:"lastName" db:"last_name" example:"Kaya"`
	RoleType  RoleType  `json:"roleType" db:"role_type" example:"STUDENT"`
	IsActive  bool      `json:"isActive" db:"is_active" example:"true"`
	CreatedAt time.Time `json:"createdAt" db:"created_at"`
	UpdatedAt time.Time `json:"updatedAt" db:"updated_at"`
}
