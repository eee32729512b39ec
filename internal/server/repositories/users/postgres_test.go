package users

import (
	"context"
	"database/sql"
	"errors"
	"regexp"
	"testing"
	"time"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/messagely/messagely/internal/common"
	"github.com/messagely/messagely/internal/server/models"
)

func newRepoWithMock(t *testing.T) (*PostgresRepository, sqlmock.Sqlmock, *sql.DB) {
	t.Helper()
	db, mock, err := sqlmock.New(sqlmock.QueryMatcherOption(sqlmock.QueryMatcherRegexp))
	if err != nil {
		t.Fatalf("sqlmock.New error: %v", err)
	}
	return NewPostgresRepository(db), mock, db
}

func TestCreate_Success(t *testing.T) {
	repo, mock, db := newRepoWithMock(t)
	defer db.Close()

	q := `(?s)^INSERT\s+INTO\s+users\s*\(username,\s*password,\s*first_name,\s*last_name,\s*phone,\s*join_at,\s*last_login_at\)\s*VALUES\s*\(\$1,\s*\$2,\s*\$3,\s*\$4,\s*\$5,\s*current_timestamp,\s*current_timestamp\)\s*RETURNING\s+join_at,\s*last_login_at\s*$`

	now := time.Now()
	rows := sqlmock.NewRows([]string{"join_at", "last_login_at"}).AddRow(now, now)
	mock.ExpectQuery(q).
		WithArgs("alice", "$2a$hash", "Alice", "Ames", "+14155550000").
		WillReturnRows(rows)

	u := &models.User{Username: "alice", Password: "$2a$hash", FirstName: "Alice", LastName: "Ames", Phone: "+14155550000"}
	got, err := repo.Create(context.Background(), u)
	if err != nil {
		t.Fatalf("Create error: %v", err)
	}
	if got.Username != "alice" || !got.JoinAt.Equal(now) || !got.LastLoginAt.Equal(now) {
		t.Fatalf("unexpected user: %+v", got)
	}
}

func TestCreate_DuplicateUsername(t *testing.T) {
	repo, mock, db := newRepoWithMock(t)
	defer db.Close()

	dup := errors.New(`duplicate key value violates unique constraint "users_pkey"`)
	mock.ExpectQuery(`INSERT\s+INTO\s+users`).
		WithArgs("alice", "$2a$hash", "Alice", "Ames", "+14155550000").
		WillReturnError(dup)

	_, err := repo.Create(context.Background(), &models.User{
		Username: "alice", Password: "$2a$hash", FirstName: "Alice", LastName: "Ames", Phone: "+14155550000",
	})
	if !errors.Is(err, dup) {
		t.Fatalf("constraint violation must propagate untranslated, got %v", err)
	}
	if !regexp.MustCompile(`^db error: `).MatchString(err.Error()) {
		t.Fatalf("expected wrapped db error, got %v", err)
	}
}

func TestGetByUsername_Found(t *testing.T) {
	repo, mock, db := newRepoWithMock(t)
	defer db.Close()

	q := `(?s)^SELECT\s+username,\s*password,\s*first_name,\s*last_name,\s*phone,\s*join_at,\s*last_login_at\s+FROM\s+users\s+WHERE\s+username\s*=\s*\$1\s*$`

	now := time.Now()
	rows := sqlmock.NewRows([]string{"username", "password", "first_name", "last_name", "phone", "join_at", "last_login_at"}).
		AddRow("alice", "$2a$hash", "Alice", "Ames", "+14155550000", now, now)
	mock.ExpectQuery(q).
		WithArgs("alice").
		WillReturnRows(rows)

	got, err := repo.GetByUsername(context.Background(), "alice")
	if err != nil {
		t.Fatalf("GetByUsername error: %v", err)
	}
	if got.Username != "alice" || got.FirstName != "Alice" || got.Phone != "+14155550000" {
		t.Fatalf("unexpected user: %+v", got)
	}
}

func TestGetByUsername_NotFound(t *testing.T) {
	repo, mock, db := newRepoWithMock(t)
	defer db.Close()

	mock.ExpectQuery(`SELECT\s+username,\s*password`).
		WithArgs("ghost").
		WillReturnError(sql.ErrNoRows)

	_, err := repo.GetByUsername(context.Background(), "ghost")
	if !errors.Is(err, common.ErrorNotFound) {
		t.Fatalf("want common.ErrorNotFound, got %v", err)
	}
}

func TestUpdateLoginTimestamp_Success(t *testing.T) {
	repo, mock, db := newRepoWithMock(t)
	defer db.Close()

	q := `(?s)^UPDATE\s+users\s+SET\s+last_login_at\s*=\s*current_timestamp\s+WHERE\s+username\s*=\s*\$1\s+RETURNING\s+username\s*$`

	rows := sqlmock.NewRows([]string{"username"}).AddRow("alice")
	mock.ExpectQuery(q).
		WithArgs("alice").
		WillReturnRows(rows)

	if err := repo.UpdateLoginTimestamp(context.Background(), "alice"); err != nil {
		t.Fatalf("UpdateLoginTimestamp error: %v", err)
	}
}

func TestUpdateLoginTimestamp_NotFound(t *testing.T) {
	repo, mock, db := newRepoWithMock(t)
	defer db.Close()

	mock.ExpectQuery(`UPDATE\s+users\s+SET\s+last_login_at`).
		WithArgs("ghost").
		WillReturnError(sql.ErrNoRows)

	err := repo.UpdateLoginTimestamp(context.Background(), "ghost")
	if !errors.Is(err, common.ErrorNotFound) {
		t.Fatalf("want common.ErrorNotFound, got %v", err)
	}
}

func TestAll_OrderedByUsername(t *testing.T) {
	repo, mock, db := newRepoWithMock(t)
	defer db.Close()

	q := `(?s)^SELECT\s+username,\s*first_name,\s*last_name,\s*phone\s+FROM\s+users\s+ORDER\s+BY\s+username\s*$`

	rows := sqlmock.NewRows([]string{"username", "first_name", "last_name", "phone"}).
		AddRow("alice", "Alice", "Ames", "+14155550000").
		AddRow("bob", "Bob", "Banks", "+14155552222")
	mock.ExpectQuery(q).WillReturnRows(rows)

	got, err := repo.All(context.Background())
	if err != nil {
		t.Fatalf("All error: %v", err)
	}
	if len(got) != 2 || got[0].Username != "alice" || got[1].Username != "bob" {
		t.Fatalf("unexpected users: %+v", got)
	}
}

func TestMessagesFrom_EmbedsRecipient(t *testing.T) {
	repo, mock, db := newRepoWithMock(t)
	defer db.Close()

	q := `(?s)^SELECT\s+m\.id,\s*m\.body,\s*m\.sent_at,\s*m\.read_at,\s*u\.username,\s*u\.first_name,\s*u\.last_name,\s*u\.phone\s+FROM\s+messages\s+AS\s+m\s+JOIN\s+users\s+AS\s+u\s+ON\s+m\.to_username\s*=\s*u\.username\s+WHERE\s+m\.from_username\s*=\s*\$1\s+ORDER\s+BY\s+m\.sent_at\s*$`

	sent := time.Now()
	rows := sqlmock.NewRows([]string{"id", "body", "sent_at", "read_at", "username", "first_name", "last_name", "phone"}).
		AddRow(int64(1), "u1-to-u2", sent, nil, "bob", "Bob", "Banks", "+14155552222")
	mock.ExpectQuery(q).
		WithArgs("alice").
		WillReturnRows(rows)

	got, err := repo.MessagesFrom(context.Background(), "alice")
	if err != nil {
		t.Fatalf("MessagesFrom error: %v", err)
	}
	if len(got) != 1 {
		t.Fatalf("expected 1 message, got %d", len(got))
	}
	m := got[0]
	if m.ID != 1 || m.To.Username != "bob" || m.To.Phone != "+14155552222" {
		t.Fatalf("unexpected message: %+v", m)
	}
	if m.ReadAt != nil {
		t.Fatalf("unread message must have nil ReadAt, got %v", m.ReadAt)
	}
}

func TestMessagesTo_EmbedsSender(t *testing.T) {
	repo, mock, db := newRepoWithMock(t)
	defer db.Close()

	q := `(?s)^SELECT\s+m\.id,\s*m\.body,\s*m\.sent_at,\s*m\.read_at,\s*u\.username,\s*u\.first_name,\s*u\.last_name,\s*u\.phone\s+FROM\s+messages\s+AS\s+m\s+JOIN\s+users\s+AS\s+u\s+ON\s+m\.from_username\s*=\s*u\.username\s+WHERE\s+m\.to_username\s*=\s*\$1\s+ORDER\s+BY\s+m\.sent_at\s*$`

	sent := time.Now()
	read := sent.Add(time.Minute)
	rows := sqlmock.NewRows([]string{"id", "body", "sent_at", "read_at", "username", "first_name", "last_name", "phone"}).
		AddRow(int64(2), "u2-to-u1", sent, read, "bob", "Bob", "Banks", "+14155552222")
	mock.ExpectQuery(q).
		WithArgs("alice").
		WillReturnRows(rows)

	got, err := repo.MessagesTo(context.Background(), "alice")
	if err != nil {
		t.Fatalf("MessagesTo error: %v", err)
	}
	if len(got) != 1 {
		t.Fatalf("expected 1 message, got %d", len(got))
	}
	m := got[0]
	if m.ID != 2 || m.From.Username != "bob" {
		t.Fatalf("unexpected message: %+v", m)
	}
	if m.ReadAt == nil || !m.ReadAt.Equal(read) {
		t.Fatalf("expected ReadAt %v, got %v", read, m.ReadAt)
	}
}

func TestMessagesFrom_DBError(t *testing.T) {
	repo, mock, db := newRepoWithMock(t)
	defer db.Close()

	mock.ExpectQuery(`SELECT\s+m\.id`).
		WithArgs("alice").
		WillReturnError(errors.New("db down"))

	_, err := repo.MessagesFrom(context.Background(), "alice")
	if err == nil || !regexp.MustCompile(`db down`).MatchString(err.Error()) {
		t.Fatalf("expected wrapped db error, got %v", err)
	}
}
