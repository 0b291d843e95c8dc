package model

import "time"

// User represents a registered account, keyed by phone number
type User struct {
	FirstName    string    `json:"firstName"`
	LastName     string    `json:"lastName"`
	Phone        string    `json:"phone"`
	Password     string    `json:"password"` // bcrypt hash; user records are stored as JSON and never returned to clients
	TOSAgreement bool      `json:"tosAgreement"`
	Checks       []string  `json:"checks"` // ids of checks owned by this user, in creation order
	CreatedAt    time.Time `json:"created_at"`
}

// CreateUserRequest is used for registering a new user
type CreateUserRequest struct {
	FirstName    string `json:"firstName" binding:"required"`
	LastName     string `json:"lastName" binding:"required"`
	Phone        string `json:"phone" binding:"required"` // trimmed length must be 11, checked by the service
	Password     string `json:"password" binding:"required"`
	TOSAgreement bool   `json:"tosAgreement" binding:"required"` // must be true, false fails "required"
}
