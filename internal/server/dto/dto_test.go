package dto

import (
	"testing"

	"github.com/dbalakin/userman/internal/server/models"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func sampleUser() models.User {
	return models.User{
		ID:            "u-1",
		UserName:      "alice",
		Email:         "alice@example.com",
		PasswordHash:  "$2a$10$hash",
		Role:          "User",
		Name:          "Alice Smith",
		Age:           30,
		Gender:        "Female",
		MaritalStatus: "Single",
		Location:      "Riga",
		PhoneNumber:   "+371 20000000",
	}
}

func TestUserToDto_DropsCredentials(t *testing.T) {
	d := UserToDto(sampleUser())

	assert.Equal(t, "u-1", d.ID)
	assert.Equal(t, "Alice Smith", d.Name)
	assert.Equal(t, 30, d.Age)
	assert.Equal(t, "Female", d.Gender)
	assert.Equal(t, "Single", d.MaritalStatus)
	assert.Equal(t, "Riga", d.Location)
	assert.Equal(t, "+371 20000000", d.PhoneNumber)
}

func TestUsersToDto_KeepsOrder(t *testing.T) {
	u1 := sampleUser()
	u2 := sampleUser()
	u2.ID = "u-2"

	dtos := UsersToDto([]models.User{u1, u2})
	require.Len(t, dtos, 2)
	assert.Equal(t, "u-1", dtos[0].ID)
	assert.Equal(t, "u-2", dtos[1].ID)
}

func TestUsersToDto_EmptyInput(t *testing.T) {
	dtos := UsersToDto(nil)
	require.NotNil(t, dtos)
	assert.Len(t, dtos, 0)
}

func TestApplyDto_PreservesIdentityAndCredentials(t *testing.T) {
	u := sampleUser()
	ApplyDto(&u, UserDto{
		ID:            "attempted-change",
		Name:          "Alice Jones",
		Age:           31,
		Gender:        "Female",
		MaritalStatus: "Married",
		Location:      "Tallinn",
		PhoneNumber:   "+372 5000000",
	})

	assert.Equal(t, "u-1", u.ID, "identifier must be immutable")
	assert.Equal(t, "alice", u.UserName)
	assert.Equal(t, "$2a$10$hash", u.PasswordHash)
	assert.Equal(t, "Alice Jones", u.Name)
	assert.Equal(t, 31, u.Age)
	assert.Equal(t, "Married", u.MaritalStatus)
	assert.Equal(t, "Tallinn", u.Location)
}

func TestRegisterDto_Validate(t *testing.T) {
	valid := RegisterDto{
		LoginDto:      LoginDto{UserName: "alice", Password: "password123"},
		Email:         "alice@example.com",
		Name:          "Alice",
		Age:           30,
		Gender:        "Female",
		MaritalStatus: "Single",
		Location:      "Riga",
	}

	assert.Empty(t, valid.Validate())

	tests := []struct {
		name   string
		mutate func(*RegisterDto)
		field  string
	}{
		{"missing username", func(d *RegisterDto) { d.UserName = "" }, "userName"},
		{"short password", func(d *RegisterDto) { d.Password = "short" }, "password"},
		{"bad email", func(d *RegisterDto) { d.Email = "not-an-email" }, "email"},
		{"missing name", func(d *RegisterDto) { d.Name = "" }, "name"},
		{"negative age", func(d *RegisterDto) { d.Age = -1 }, "age"},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			d := valid
			tc.mutate(&d)
			errs := d.Validate()
			require.NotEmpty(t, errs)
			found := false
			for _, fe := range errs {
				if fe.Field == tc.field {
					found = true
				}
			}
			assert.True(t, found, "expected an error for field %q, got %+v", tc.field, errs)
		})
	}
}

func TestLoginDto_Validate(t *testing.T) {
	assert.Empty(t, LoginDto{UserName: "alice", Password: "password123"}.Validate())
	assert.NotEmpty(t, LoginDto{}.Validate())
}
