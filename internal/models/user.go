package models

import "time"

// User представляет зарегистрированного покупателя
type User struct {
	ID           string
	Username     string
	PasswordHash string // bcrypt hash
	CreatedAt    time.Time
}
