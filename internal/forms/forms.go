// Package forms holds the input shapes accepted from clients and their
// field-level validation rules.
package forms

import (
	"errors"
	"regexp"
	"strings"

	validation "github.com/go-ozzo/ozzo-validation/v4"
	"github.com/go-ozzo/ozzo-validation/v4/is"

	"devblog/internal/domain"
)

var usernameChars = regexp.MustCompile(`^[\w.@+-]+$`)

type ArticleForm struct {
	Title       string        `json:"title"`
	Description string        `json:"description"`
	CategoryID  int64         `json:"category"`
	Body        string        `json:"body"`
	Status      domain.Status `json:"status"`
}

func (f *ArticleForm) Validate() error {
	f.Title = strings.TrimSpace(f.Title)
	f.Description = strings.TrimSpace(f.Description)

	return fieldErrors(validation.ValidateStruct(f,
		validation.Field(&f.Title,
			validation.Required.Error("Enter a title."),
			validation.RuneLength(1, 100).Error("Title must be at most 100 characters."),
		),
		validation.Field(&f.Description,
			validation.RuneLength(0, 200).Error("Description must be at most 200 characters."),
		),
		validation.Field(&f.CategoryID,
			validation.Required.Error("Select a category."),
			validation.Min(int64(1)).Error("Select a category."),
		),
		validation.Field(&f.Body,
			validation.Required.Error("Write something first."),
		),
		validation.Field(&f.Status,
			validation.In(domain.StatusDraft, domain.StatusPublished).Error("Unknown status."),
		),
	))
}

type SignupForm struct {
	FirstName string `json:"first_name"`
	Username  string `json:"username"`
	Email     string `json:"email"`
	Password  string `json:"password"`
}

func (f *SignupForm) Validate() error {
	f.FirstName = strings.TrimSpace(f.FirstName)
	f.Username = strings.TrimSpace(f.Username)
	f.Email = strings.TrimSpace(f.Email)

	return fieldErrors(validation.ValidateStruct(f,
		validation.Field(&f.FirstName,
			validation.Required.Error("Enter your name."),
			validation.RuneLength(1, 30).Error("Name must be at most 30 characters."),
		),
		validation.Field(&f.Username,
			validation.Required.Error("Choose a username."),
			validation.RuneLength(1, 150).Error("Username must be at most 150 characters."),
			validation.Match(usernameChars).Error("Use letters, digits and @/./+/-/_ only."),
		),
		validation.Field(&f.Email,
			validation.Required.Error("Enter an email address."),
			is.EmailFormat.Error("Enter a valid email address."),
		),
		validation.Field(&f.Password,
			validation.Required.Error("Choose a password."),
			validation.RuneLength(8, 0).Error("Password must be at least 8 characters."),
		),
	))
}

type LoginForm struct {
	Username string `json:"username"`
	Password string `json:"password"`
}

func (f *LoginForm) Validate() error {
	f.Username = strings.TrimSpace(f.Username)

	return fieldErrors(validation.ValidateStruct(f,
		validation.Field(&f.Username, validation.Required.Error("Enter your username.")),
		validation.Field(&f.Password, validation.Required.Error("Enter your password.")),
	))
}

// ProfileForm updates the user and profile in one go. Every field is
// optional; the password pair only takes effect when both halves are set.
type ProfileForm struct {
	FirstName   string `json:"first_name"`
	Email       string `json:"email"`
	Bio         string `json:"bio"`
	GitHub      string `json:"github"`
	Twitter     string `json:"twitter"`
	Website     string `json:"website"`
	OldPassword string `json:"old_password"`
	NewPassword string `json:"new_password"`
}

func (f *ProfileForm) Validate() error {
	f.FirstName = strings.TrimSpace(f.FirstName)
	f.Email = strings.TrimSpace(f.Email)
	f.GitHub = strings.TrimSpace(f.GitHub)
	f.Twitter = strings.TrimSpace(f.Twitter)
	f.Website = strings.TrimSpace(f.Website)

	return fieldErrors(validation.ValidateStruct(f,
		validation.Field(&f.FirstName, validation.RuneLength(0, 30).Error("Name must be at most 30 characters.")),
		validation.Field(&f.Email, is.EmailFormat.Error("Enter a valid email address.")),
		validation.Field(&f.GitHub, validation.RuneLength(0, 100).Error("At most 100 characters.")),
		validation.Field(&f.Twitter, validation.RuneLength(0, 100).Error("At most 100 characters.")),
		validation.Field(&f.Website,
			is.URL.Error("Enter a valid URL."),
			validation.RuneLength(0, 200).Error("At most 200 characters."),
		),
		validation.Field(&f.NewPassword, validation.RuneLength(8, 0).Error("Password must be at least 8 characters.")),
	))
}

// ChangesPassword reports whether the form asks for a password change.
func (f *ProfileForm) ChangesPassword() bool {
	return f.OldPassword != "" && f.NewPassword != ""
}

type SubscribeForm struct {
	Email string `json:"email"`
}

func (f *SubscribeForm) Validate() error {
	f.Email = strings.ToLower(strings.TrimSpace(f.Email))

	return fieldErrors(validation.ValidateStruct(f,
		validation.Field(&f.Email,
			validation.Required.Error("Enter an email address."),
			is.EmailFormat.Error("Enter a valid email address."),
		),
	))
}

// fieldErrors converts ozzo's error map into a domain.ValidationError so the
// service and HTTP layers never see the validation library.
func fieldErrors(err error) error {
	if err == nil {
		return nil
	}

	var errs validation.Errors
	if !errors.As(err, &errs) {
		return err
	}

	fields := make(map[string]string, len(errs))
	for name, fieldErr := range errs {
		if fieldErr != nil {
			fields[name] = fieldErr.Error()
		}
	}
	return &domain.ValidationError{Fields: fields}
}
