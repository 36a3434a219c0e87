package users

import (
	"context"
	"database/sql"
	"errors"
	"testing"
	"time"

	"github.com/DATA-DOG/go-sqlmock"

	"github.com/dbalakin/userman/internal/common"
	"github.com/dbalakin/userman/internal/server/dto"
	"github.com/dbalakin/userman/internal/server/models"
)

const (
	qSelectAll = `^SELECT id, username, email, password_hash, role, name, age, gender, marital_status, location, phone_number, created_at FROM users$`
	qSelectOne = `^SELECT id, username, email, password_hash, role, name, age, gender, marital_status, location, phone_number, created_at FROM users WHERE id = \$1$`
	qExists    = `^SELECT EXISTS\(SELECT 1 FROM users WHERE id = \$1\)$`
	qInsert    = `^INSERT INTO users \(id, username, email, password_hash, role, name, age, gender, marital_status, location, phone_number, created_at\) VALUES \(\$1, \$2, \$3, \$4, \$5, \$6, \$7, \$8, \$9, \$10, \$11, \$12\)$`
)

func userColumns() []string {
	return []string{
		"id", "username", "email", "password_hash", "role",
		"name", "age", "gender", "marital_status", "location",
		"phone_number", "created_at",
	}
}

func addUserRow(rows *sqlmock.Rows, u models.User) *sqlmock.Rows {
	return rows.AddRow(
		u.ID, u.UserName, u.Email, u.PasswordHash, u.Role,
		u.Name, u.Age, u.Gender, u.MaritalStatus, u.Location,
		u.PhoneNumber, u.CreatedAt,
	)
}

func newRepoWithMock(t *testing.T) (*PostgresRepository, sqlmock.Sqlmock, *sql.DB) {
	t.Helper()
	db, mock, err := sqlmock.New(sqlmock.QueryMatcherOption(sqlmock.QueryMatcherRegexp))
	if err != nil {
		t.Fatalf("sqlmock.New error: %v", err)
	}
	return NewPostgresRepository(db, []byte("k"), time.Hour), mock, db
}

func TestSchema_RoundTrip(t *testing.T) {
	t.Parallel()

	s := Schema()
	if s.Table != "users" {
		t.Fatalf("table: %q", s.Table)
	}
	if s.Columns[0] != "id" {
		t.Fatalf("identifier column must come first, got %q", s.Columns[0])
	}

	u := models.User{
		ID: "u1", UserName: "alice", Email: "a@example.com",
		PasswordHash: "hash", Role: "User", Name: "Alice", Age: 30,
		Gender: "Female", MaritalStatus: "Single", Location: "Riga",
		PhoneNumber: "+371000", CreatedAt: time.Date(2025, 1, 2, 3, 4, 5, 0, time.UTC),
	}

	if got := s.ID(u); got != "u1" {
		t.Fatalf("ID: %q", got)
	}
	vals := s.Values(u)
	if len(vals) != len(s.Columns) {
		t.Fatalf("values/columns mismatch: %d vs %d", len(vals), len(s.Columns))
	}
	if vals[0] != "u1" || vals[1] != "alice" {
		t.Fatalf("unexpected value order: %v", vals[:2])
	}
}

func TestGet_Found(t *testing.T) {
	repo, mock, db := newRepoWithMock(t)
	defer db.Close()

	u := models.User{ID: "u1", UserName: "alice", Role: "User", CreatedAt: time.Now()}
	mock.ExpectQuery(qSelectOne).WithArgs("u1").
		WillReturnRows(addUserRow(sqlmock.NewRows(userColumns()), u))

	got, err := repo.Get(context.Background(), "u1")
	if err != nil {
		t.Fatalf("Get error: %v", err)
	}
	if got.UserName != "alice" {
		t.Fatalf("unexpected user: %+v", got)
	}
	if err := mock.ExpectationsWereMet(); err != nil {
		t.Fatalf("sql expectations: %v", err)
	}
}

func TestGet_NotFound(t *testing.T) {
	repo, mock, db := newRepoWithMock(t)
	defer db.Close()

	mock.ExpectQuery(qSelectOne).WithArgs("ghost").
		WillReturnRows(sqlmock.NewRows(userColumns()))

	_, err := repo.Get(context.Background(), "ghost")
	if !errors.Is(err, common.ErrorNotFound) {
		t.Fatalf("want ErrorNotFound, got %v", err)
	}
}

func TestRegister_InsertsThroughSharedStore(t *testing.T) {
	repo, mock, db := newRepoWithMock(t)
	defer db.Close()

	// uniqueness probe scans the table
	mock.ExpectQuery(qSelectAll).
		WillReturnRows(sqlmock.NewRows(userColumns()))
	// then the insert flushes in its own transaction
	mock.ExpectQuery(qExists).WillReturnRows(sqlmock.NewRows([]string{"exists"}).AddRow(false))
	mock.ExpectBegin()
	mock.ExpectExec(qInsert).WillReturnResult(sqlmock.NewResult(0, 1))
	mock.ExpectCommit()

	d := dto.RegisterDto{
		LoginDto: dto.LoginDto{UserName: "alice", Password: "password123"},
		Email:    "alice@example.com",
		Name:     "Alice",
		Age:      30,
	}
	user, fieldErrs, err := repo.Register(context.Background(), d)
	if err != nil {
		t.Fatalf("Register error: %v", err)
	}
	if len(fieldErrs) != 0 {
		t.Fatalf("unexpected field errors: %v", fieldErrs)
	}
	if user.ID == "" || user.Role != common.DefaultRole {
		t.Fatalf("unexpected user: %+v", user)
	}
	if err := mock.ExpectationsWereMet(); err != nil {
		t.Fatalf("sql expectations: %v", err)
	}
}

// TestRegisterThenLogin drives a full register-then-login cycle against the
// mock, covering the credential hash round trip.
func TestRegisterThenLogin(t *testing.T) {
	repo, mock, db := newRepoWithMock(t)
	defer db.Close()

	mock.ExpectQuery(qSelectAll).WillReturnRows(sqlmock.NewRows(userColumns()))
	mock.ExpectQuery(qExists).WillReturnRows(sqlmock.NewRows([]string{"exists"}).AddRow(false))
	mock.ExpectBegin()
	mock.ExpectExec(qInsert).WillReturnResult(sqlmock.NewResult(0, 1))
	mock.ExpectCommit()

	d := dto.RegisterDto{
		LoginDto: dto.LoginDto{UserName: "alice", Password: "password123"},
		Email:    "alice@example.com",
		Name:     "Alice",
	}
	user, fieldErrs, err := repo.Register(context.Background(), d)
	if err != nil || len(fieldErrs) != 0 {
		t.Fatalf("Register: %v %v", err, fieldErrs)
	}

	mock.ExpectQuery(qSelectAll).
		WillReturnRows(addUserRow(sqlmock.NewRows(userColumns()), *user))

	resp, err := repo.Login(context.Background(), dto.LoginDto{UserName: "alice", Password: "password123"})
	if err != nil {
		t.Fatalf("Login error: %v", err)
	}
	if resp.UserID != user.ID {
		t.Fatalf("userID: got %q want %q", resp.UserID, user.ID)
	}

	mock.ExpectQuery(qSelectAll).
		WillReturnRows(addUserRow(sqlmock.NewRows(userColumns()), *user))

	_, err = repo.Login(context.Background(), dto.LoginDto{UserName: "alice", Password: "wrong-password"})
	if !errors.Is(err, common.ErrorUnauthorized) {
		t.Fatalf("want ErrorUnauthorized, got %v", err)
	}

	if err := mock.ExpectationsWereMet(); err != nil {
		t.Fatalf("sql expectations: %v", err)
	}
}
