package httpapi

import (
	"time"

	"github.com/messagely/messagely/internal/server/models"
)

type registerRequest struct {
	Username  string `json:"username"`
	Password  string `json:"password"`
	FirstName string `json:"first_name"`
	LastName  string `json:"last_name"`
	Phone     string `json:"phone"`
}

type loginRequest struct {
	Username string `json:"username"`
	Password string `json:"password"`
}

type tokenResponse struct {
	Token string `json:"token"`
}

type userSummaryJSON struct {
	Username  string `json:"username"`
	FirstName string `json:"first_name"`
	LastName  string `json:"last_name"`
	Phone     string `json:"phone"`
}

type userDetailJSON struct {
	userSummaryJSON
	JoinAt      time.Time `json:"join_at"`
	LastLoginAt time.Time `json:"last_login_at"`
}

type createMessageRequest struct {
	ToUsername string `json:"to_username"`
	Body       string `json:"body"`
}

type messageJSON struct {
	ID           int64      `json:"id"`
	FromUsername string     `json:"from_username,omitempty"`
	ToUsername   string     `json:"to_username,omitempty"`
	Body         string     `json:"body"`
	SentAt       time.Time  `json:"sent_at"`
	ReadAt       *time.Time `json:"read_at"`
}

type messageDetailJSON struct {
	ID       int64           `json:"id"`
	Body     string          `json:"body"`
	SentAt   time.Time       `json:"sent_at"`
	ReadAt   *time.Time      `json:"read_at"`
	FromUser userSummaryJSON `json:"from_user"`
	ToUser   userSummaryJSON `json:"to_user"`
}

type sentMessageJSON struct {
	ID     int64           `json:"id"`
	Body   string          `json:"body"`
	SentAt time.Time       `json:"sent_at"`
	ReadAt *time.Time      `json:"read_at"`
	ToUser userSummaryJSON `json:"to_user"`
}

type receivedMessageJSON struct {
	ID       int64           `json:"id"`
	Body     string          `json:"body"`
	SentAt   time.Time       `json:"sent_at"`
	ReadAt   *time.Time      `json:"read_at"`
	FromUser userSummaryJSON `json:"from_user"`
}

func toSummaryJSON(u models.UserSummary) userSummaryJSON {
	return userSummaryJSON{
		Username:  u.Username,
		FirstName: u.FirstName,
		LastName:  u.LastName,
		Phone:     u.Phone,
	}
}
