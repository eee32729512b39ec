package models

import "time"

// Message is a message row as stored. ReadAt is nil while unread.
type Message struct {
	ID           int64
	FromUsername string
	ToUsername   string
	Body         string
	SentAt       time.Time
	ReadAt       *time.Time
}

// MessageDetail is a message with both parties' current profiles
// embedded, as returned by a point lookup.
type MessageDetail struct {
	ID     int64
	Body   string
	SentAt time.Time
	ReadAt *time.Time
	From   UserSummary
	To     UserSummary
}

// SentMessage is one row of a user's outbox: the recipient's profile is
// embedded so callers need no second lookup.
type SentMessage struct {
	ID     int64
	Body   string
	SentAt time.Time
	ReadAt *time.Time
	To     UserSummary
}

// ReceivedMessage is one row of a user's inbox with the sender embedded.
type ReceivedMessage struct {
	ID     int64
	Body   string
	SentAt time.Time
	ReadAt *time.Time
	From   UserSummary
}
