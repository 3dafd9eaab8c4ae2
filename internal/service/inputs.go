package service

import (
	"errors"
	"strings"

	validation "github.com/go-ozzo/ozzo-validation"
	"github.com/go-ozzo/ozzo-validation/is"
)

// bcrypt ignores input beyond 72 bytes.
const maxPasswordLength = 72

type SignupInput struct {
	Name      string `json:"name"`
	FirstName string `json:"firstName"`
	Email     string `json:"email"`
	Country   string `json:"country"`
	Password  string `json:"password"`
}

func (in *SignupInput) normalize() {
	in.Name = strings.TrimSpace(in.Name)
	in.FirstName = strings.TrimSpace(in.FirstName)
	in.Email = strings.TrimSpace(in.Email)
	in.Country = strings.TrimSpace(in.Country)
}

func (in SignupInput) Validate() error {
	return validation.ValidateStruct(&in,
		validation.Field(&in.Name, validation.Required, validation.Length(1, 200)),
		validation.Field(&in.FirstName, validation.Required, validation.Length(1, 200)),
		validation.Field(&in.Email, validation.Required, validation.Length(3, 254), is.Email),
		validation.Field(&in.Country, validation.Required, validation.Length(1, 100)),
		validation.Field(&in.Password, validation.Required, validation.Length(1, maxPasswordLength)),
	)
}

type SigninInput struct {
	Email    string `json:"email"`
	Password string `json:"password"`
}

// CreateAdminInput describes a new admin account. LastName is stored as the user's name.
type CreateAdminInput struct {
	FirstName string `json:"firstName"`
	LastName  string `json:"lastName"`
	Email     string `json:"email"`
	Password  string `json:"password"`
	Country   string `json:"country"`
}

func (in *CreateAdminInput) normalize() {
	in.FirstName = strings.TrimSpace(in.FirstName)
	in.LastName = strings.TrimSpace(in.LastName)
	in.Email = strings.TrimSpace(in.Email)
	in.Country = strings.TrimSpace(in.Country)
}

func (in CreateAdminInput) Validate() error {
	return validation.ValidateStruct(&in,
		validation.Field(&in.FirstName, validation.Length(0, 200)),
		validation.Field(&in.LastName, validation.Length(0, 200)),
		validation.Field(&in.Email, validation.Required, validation.Length(3, 254), is.Email),
		validation.Field(&in.Password, validation.Required, validation.Length(1, maxPasswordLength)),
		validation.Field(&in.Country, validation.Length(0, 100)),
	)
}

type PostInput struct {
	Title   string `json:"title"`
	Content string `json:"content"`
}

func (in PostInput) Validate() error {
	return validation.ValidateStruct(&in,
		validation.Field(&in.Title, validation.Required, validation.Length(1, 300)),
		validation.Field(&in.Content, validation.Required),
	)
}

// PostUpdate carries a partial edit; nil fields are left unchanged.
type PostUpdate struct {
	Title   *string `json:"title"`
	Content *string `json:"content"`
}

func (in PostUpdate) Validate() error {
	if in.Title == nil && in.Content == nil {
		return validation.Errors{"title": errors.New("title or content is required")}
	}
	return validation.ValidateStruct(&in,
		validation.Field(&in.Title, validation.NilOrNotEmpty, validation.Length(1, 300)),
		validation.Field(&in.Content, validation.NilOrNotEmpty),
	)
}
