package models

import "time"

type UserRole string

const (
	RoleRepresentative UserRole = "representative"
	RoleAdmin          UserRole = "admin"
)

// User — представитель федерации или администратор лиги.
type User struct {
	ID           int       `json:"id" db:"id"`
	Email        string    `json:"email" db:"email"`
	Name         string    `json:"name" db:"name"`
	Role         UserRole  `json:"role" db:"role"`
	PasswordHash string    `json:"-" db:"password_hash"`
	CreatedAt    time.Time `json:"created_at" db:"created_at"`
}
