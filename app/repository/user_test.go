package repository_test

import (
	"context"
	"database/sql"
	"testing"
	"time"

	"github.com/space2study/ms-go-api/app/entity"
	"github.com/space2study/ms-go-api/app/repository"

	"github.com/DATA-DOG/go-sqlmock"
)

const (
	insertUserQuery      = `(?s)INSERT INTO users \(role, first_name, last_name, email, password_hash, is_email_confirmed, is_first_login, created_at, updated_at\)\s+VALUES \(\?, \?, \?, \?, \?, \?, \?, \?, \?\)`
	findUserByEmailQuery = `(?s)SELECT id, role, first_name, last_name, email, password_hash, is_email_confirmed,\s+is_first_login, last_login, last_login_as, created_at, updated_at\s+FROM users WHERE email = \?`
	findUserByIDQuery    = `(?s)SELECT id, role, first_name, last_name, email, password_hash, is_email_confirmed,\s+is_first_login, last_login, last_login_as, created_at, updated_at\s+FROM users WHERE id = \?`
	updatePasswordQuery  = `UPDATE users SET password_hash = \?, updated_at = \? WHERE id = \?`
	confirmEmailQuery    = `UPDATE users SET is_email_confirmed = 1, updated_at = \? WHERE id = \?`
	updateLastLoginQuery = `UPDATE users SET last_login = \?, last_login_as = \?, is_first_login = 0, updated_at = \? WHERE id = \?`
)

var userColumns = []string{
	"id",
	"role",
	"first_name",
	"last_name",
	"email",
	"password_hash",
	"is_email_confirmed",
	"is_first_login",
	"last_login",
	"last_login_as",
	"created_at",
	"updated_at",
}

func newMockDB(t *testing.T) (*sql.DB, sqlmock.Sqlmock, func()) {
	t.Helper()

	db, mock, err := sqlmock.New(sqlmock.QueryMatcherOption(sqlmock.QueryMatcherRegexp))
	if err != nil {
		t.Fatalf("failed to create sqlmock: %v", err)
	}
	return db, mock, func() { _ = db.Close() }
}

func TestUserRepository_Create(t *testing.T) {
	db, mock, cleanup := newMockDB(t)
	defer cleanup()

	repo := repository.NewUserRepository(db)
	now := time.Now()
	user := &entity.User{
		Role:         entity.RoleStudent,
		FirstName:    "Jane",
		LastName:     "Doe",
		Email:        "jane@example.com",
		PasswordHash: "hash",
		IsFirstLogin: true,
		CreatedAt:    now,
		UpdatedAt:    now,
	}

	mock.ExpectExec(insertUserQuery).
		WithArgs(
			user.Role,
			user.FirstName,
			user.LastName,
			user.Email,
			user.PasswordHash,
			user.IsEmailConfirmed,
			user.IsFirstLogin,
			user.CreatedAt,
			user.UpdatedAt,
		).
		WillReturnResult(sqlmock.NewResult(1, 1))

	if err := repo.Create(context.Background(), user); err != nil {
		t.Fatalf("create failed: %v", err)
	}
	if user.ID != 1 {
		t.Fatalf("expected ID 1, got %d", user.ID)
	}

	if err := mock.ExpectationsWereMet(); err != nil {
		t.Fatalf("unmet expectations: %v", err)
	}
}

func TestUserRepository_FindByEmail(t *testing.T) {
	db, mock, cleanup := newMockDB(t)
	defer cleanup()

	repo := repository.NewUserRepository(db)
	now := time.Now()

	mock.ExpectQuery(findUserByEmailQuery).
		WithArgs("jane@example.com").
		WillReturnRows(sqlmock.NewRows(userColumns).AddRow(
			uint64(1),
			entity.RoleStudent,
			"Jane",
			"Doe",
			"jane@example.com",
			"hash",
			true,
			false,
			now,
			entity.RoleStudent,
			now,
			now,
		))

	user, err := repo.FindByEmail(context.Background(), "jane@example.com")
	if err != nil {
		t.Fatalf("find failed: %v", err)
	}
	if user == nil {
		t.Fatal("expected user, got nil")
	}
	if user.Email != "jane@example.com" || user.Role != entity.RoleStudent {
		t.Fatalf("unexpected user: %+v", user)
	}
	if !user.IsEmailConfirmed {
		t.Fatal("expected confirmed email")
	}

	if err := mock.ExpectationsWereMet(); err != nil {
		t.Fatalf("unmet expectations: %v", err)
	}
}

func TestUserRepository_FindByEmail_NotFound(t *testing.T) {
	db, mock, cleanup := newMockDB(t)
	defer cleanup()

	repo := repository.NewUserRepository(db)

	mock.ExpectQuery(findUserByEmailQuery).
		WithArgs("missing@example.com").
		WillReturnRows(sqlmock.NewRows(userColumns))

	user, err := repo.FindByEmail(context.Background(), "missing@example.com")
	if err != nil {
		t.Fatalf("find failed: %v", err)
	}
	if user != nil {
		t.Fatalf("expected nil user, got %+v", user)
	}
}

func TestUserRepository_FindByID(t *testing.T) {
	db, mock, cleanup := newMockDB(t)
	defer cleanup()

	repo := repository.NewUserRepository(db)
	now := time.Now()

	mock.ExpectQuery(findUserByIDQuery).
		WithArgs(uint64(7)).
		WillReturnRows(sqlmock.NewRows(userColumns).AddRow(
			uint64(7),
			entity.RoleTutor,
			"John",
			"Smith",
			"john@example.com",
			"hash",
			true,
			true,
			nil,
			nil,
			now,
			now,
		))

	user, err := repo.FindByID(context.Background(), 7)
	if err != nil {
		t.Fatalf("find failed: %v", err)
	}
	if user == nil || user.ID != 7 {
		t.Fatalf("unexpected user: %+v", user)
	}
	if user.LastLogin.Valid {
		t.Fatal("expected null last_login")
	}
}

func TestUserRepository_UpdatePassword(t *testing.T) {
	db, mock, cleanup := newMockDB(t)
	defer cleanup()

	repo := repository.NewUserRepository(db)

	mock.ExpectExec(updatePasswordQuery).
		WithArgs("new-hash", sqlmock.AnyArg(), uint64(1)).
		WillReturnResult(sqlmock.NewResult(0, 1))

	if err := repo.UpdatePassword(context.Background(), 1, "new-hash"); err != nil {
		t.Fatalf("update password failed: %v", err)
	}

	if err := mock.ExpectationsWereMet(); err != nil {
		t.Fatalf("unmet expectations: %v", err)
	}
}

func TestUserRepository_ConfirmEmail(t *testing.T) {
	db, mock, cleanup := newMockDB(t)
	defer cleanup()

	repo := repository.NewUserRepository(db)

	mock.ExpectExec(confirmEmailQuery).
		WithArgs(sqlmock.AnyArg(), uint64(1)).
		WillReturnResult(sqlmock.NewResult(0, 1))

	if err := repo.ConfirmEmail(context.Background(), 1); err != nil {
		t.Fatalf("confirm email failed: %v", err)
	}
}

func TestUserRepository_UpdateLastLogin(t *testing.T) {
	db, mock, cleanup := newMockDB(t)
	defer cleanup()

	repo := repository.NewUserRepository(db)
	lastLogin := time.Now()

	mock.ExpectExec(updateLastLoginQuery).
		WithArgs(lastLogin, entity.RoleStudent, sqlmock.AnyArg(), uint64(1)).
		WillReturnResult(sqlmock.NewResult(0, 1))

	if err := repo.UpdateLastLogin(context.Background(), 1, lastLogin, entity.RoleStudent); err != nil {
		t.Fatalf("update last login failed: %v", err)
	}

	if err := mock.ExpectationsWereMet(); err != nil {
		t.Fatalf("unmet expectations: %v", err)
	}
}
