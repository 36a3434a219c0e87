// Package dto contains the transfer objects exchanged at the HTTP boundary
// and their flat field-copy mappings to the persisted User entity.
// None of these types are ever stored.
package dto

import (
	validation "github.com/go-ozzo/ozzo-validation/v4"
	"github.com/go-ozzo/ozzo-validation/v4/is"
)

// UserDto is the serialization-friendly projection of a user profile.
// It carries no credential material.
type UserDto struct {
	ID            string `json:"id"`
	Name          string `json:"name"`
	Age           int    `json:"age"`
	Gender        string `json:"gender"`
	MaritalStatus string `json:"maritalStatus"`
	Location      string `json:"location"`
	PhoneNumber   string `json:"phoneNumber"`
}

// LoginDto is the credential payload for authentication.
type LoginDto struct {
	UserName string `json:"userName"`
	Password string `json:"password"`
}

// RegisterDto extends the credentials with profile fields for account creation.
type RegisterDto struct {
	LoginDto
	Email         string `json:"email"`
	Name          string `json:"name"`
	Age           int    `json:"age"`
	Gender        string `json:"gender"`
	MaritalStatus string `json:"maritalStatus"`
	Location      string `json:"location"`
	PhoneNumber   string `json:"phoneNumber"`
}

// AuthResponse is returned after a successful login.
type AuthResponse struct {
	UserID      string `json:"userId"`
	UserName    string `json:"userName"`
	Role        string `json:"role"`
	AccessToken string `json:"accessToken"`
	ExpiresIn   int64  `json:"expiresIn"`
}

// FieldError describes a single failed validation rule.
type FieldError struct {
	Field   string `json:"field"`
	Message string `json:"message"`
}

// Validate checks the login payload.
func (d LoginDto) Validate() []FieldError {
	err := validation.ValidateStruct(&d,
		validation.Field(&d.UserName, validation.Required, validation.Length(3, 100)),
		validation.Field(&d.Password, validation.Required, validation.Length(8, 128)),
	)
	return fieldErrors(err)
}

// Validate checks the registration payload and returns one error per
// offending field; an empty slice means the payload is acceptable.
// The embedded credentials are validated through LoginDto.Validate because
// ozzo cannot address promoted fields of an embedded struct.
func (d RegisterDto) Validate() []FieldError {
	out := d.LoginDto.Validate()
	err := validation.ValidateStruct(&d,
		validation.Field(&d.Email, validation.Required, is.Email),
		validation.Field(&d.Name, validation.Required),
		validation.Field(&d.Age, validation.Min(0), validation.Max(150)),
	)
	return append(out, fieldErrors(err)...)
}

func fieldErrors(err error) []FieldError {
	if err == nil {
		return nil
	}
	errs, ok := err.(validation.Errors)
	if !ok {
		return []FieldError{{Field: "", Message: err.Error()}}
	}
	out := make([]FieldError, 0, len(errs))
	for field, ferr := range errs {
		out = append(out, FieldError{Field: field, Message: ferr.Error()})
	}
	return out
}
