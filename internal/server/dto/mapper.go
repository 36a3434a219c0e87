package dto

import "github.com/dbalakin/userman/internal/server/models"

// UserToDto projects a stored user onto the boundary type. Credential fields
// are dropped on purpose.
func UserToDto(u models.User) UserDto {
	return UserDto{
		ID:            u.ID,
		Name:          u.Name,
		Age:           u.Age,
		Gender:        u.Gender,
		MaritalStatus: u.MaritalStatus,
		Location:      u.Location,
		PhoneNumber:   u.PhoneNumber,
	}
}

// UsersToDto maps a collection, keeping the store iteration order.
func UsersToDto(users []models.User) []UserDto {
	out := make([]UserDto, 0, len(users))
	for _, u := range users {
		out = append(out, UserToDto(u))
	}
	return out
}

// ApplyDto overwrites the profile fields of an existing user with the DTO
// values. The identifier and the credential material stay untouched: the ID
// is immutable and credentials belong to the identity component.
func ApplyDto(u *models.User, d UserDto) {
	u.Name = d.Name
	u.Age = d.Age
	u.Gender = d.Gender
	u.MaritalStatus = d.MaritalStatus
	u.Location = d.Location
	u.PhoneNumber = d.PhoneNumber
}

// RegisterDtoToUser builds a new user from a registration payload. The
// caller supplies the identifier, password hash and role, which are owned by
// the identity component.
func RegisterDtoToUser(d RegisterDto) models.User {
	return models.User{
		UserName:      d.UserName,
		Email:         d.Email,
		Name:          d.Name,
		Age:           d.Age,
		Gender:        d.Gender,
		MaritalStatus: d.MaritalStatus,
		Location:      d.Location,
		PhoneNumber:   d.PhoneNumber,
	}
}
