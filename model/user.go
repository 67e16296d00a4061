package model

import "gorm.io/gorm"

// User is an account allowed to log in and keep a route session.
type User struct {
	gorm.Model
	Username string `json:"username" gorm:"uniqueIndex;not null"`
	Password string `json:"-" gorm:"not null"` // bcrypt hash
	Email    string `json:"email"`
}
