package entity

import "time"

// Role determines which dashboard and operations a user gets.
type Role string

const (
	RoleAdmin   Role = "admin"
	RoleTeacher Role = "teacher"
	RoleStudent Role = "student"
)

// User is the authenticated principal. PasswordHash never leaves the
// repository and usecase layers.
type User struct {
	ID           string
	Username     string
	PasswordHash string
	Role         Role
	LastLogin    *time.Time
	CreatedAt    time.Time
}
