package models

import "time"

// User is a full user row. Password always holds the bcrypt hash,
// never the plaintext.
type User struct {
	Username    string
	Password    string
	FirstName   string
	LastName    string
	Phone       string
	JoinAt      time.Time
	LastLoginAt time.Time
}

// UserSummary is the public projection of a user embedded into message
// results and listings.
type UserSummary struct {
	Username  string
	FirstName string
	LastName  string
	Phone     string
}
