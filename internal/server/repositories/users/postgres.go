package users

import (
	"time"

	"github.com/dbalakin/userman/internal/server/identity"
	"github.com/dbalakin/userman/internal/server/models"
	"github.com/dbalakin/userman/internal/server/store"
)

// Schema maps the User entity onto the users table. The identifier column
// comes first, as the store requires.
func Schema() store.Schema[models.User] {
	return store.Schema[models.User]{
		Table: "users",
		Columns: []string{
			"id", "username", "email", "password_hash", "role",
			"name", "age", "gender", "marital_status", "location",
			"phone_number", "created_at",
		},
		ID: func(u models.User) string { return u.ID },
		Values: func(u models.User) []any {
			return []any{
				u.ID, u.UserName, u.Email, u.PasswordHash, u.Role,
				u.Name, u.Age, u.Gender, u.MaritalStatus, u.Location,
				u.PhoneNumber, u.CreatedAt,
			}
		},
		Scan: func(row store.RowScanner) (models.User, error) {
			var u models.User
			err := row.Scan(
				&u.ID, &u.UserName, &u.Email, &u.PasswordHash, &u.Role,
				&u.Name, &u.Age, &u.Gender, &u.MaritalStatus, &u.Location,
				&u.PhoneNumber, &u.CreatedAt,
			)
			return u, err
		},
	}
}

// PostgresRepository combines the SQL-backed store with the identity service
// that shares it, so registrations land in the same pending batch discipline
// as every other mutation.
type PostgresRepository struct {
	store.Store[models.User]
	*identity.Service
}

func NewPostgresRepository(db store.Conn, secretKey []byte, accessTokenValidityDuration time.Duration) *PostgresRepository {
	st := store.NewPostgresStore(db, Schema())
	return &PostgresRepository{
		Store:   st,
		Service: identity.NewService(st, secretKey, accessTokenValidityDuration),
	}
}
