// Package validation holds the input rules shared by the session commands
// and the dashboard forms. Sanitization is minimal by design: trimming and
// stripping angle brackets is not HTML-safe, it only keeps the mock honest.
package validation

import (
	stderrors "errors"
	"regexp"
	"strings"
	"unicode"

	"github.com/go-playground/validator/v10"

	"linguaroom/errors"
)

const MaxMessageLength = 1000

var validate = validator.New()

var usernameRe = regexp.MustCompile(`^[a-zA-Z0-9_]{3,20}$`)

// SanitizeInput trims whitespace and strips '<' / '>' characters.
func SanitizeInput(input string) string {
	trimmed := strings.TrimSpace(input)
	return strings.Map(func(r rune) rune {
		if r == '<' || r == '>' {
			return -1
		}
		return r
	}, trimmed)
}

// Message sanitizes a chat message body and checks its bounds.
// Returns the sanitized body on success.
func Message(body string) (string, error) {
	return MessageWithLimit(body, MaxMessageLength)
}

// MessageWithLimit is Message with a configurable upper bound.
func MessageWithLimit(body string, limit int) (string, error) {
	sanitized := SanitizeInput(body)
	if sanitized == "" {
		return "", errors.NewFieldValidation("message", "Message cannot be empty")
	}
	if len([]rune(sanitized)) > limit {
		return "", errors.NewFieldValidation("message", "Message is too long")
	}
	return sanitized, nil
}

type CreateRoomRequest struct {
	Name      string `validate:"required,min=3,max=50"`
	Language  string `validate:"required"`
	UserLimit int    `validate:"required,min=2,max=50"`
}

// ValidateCreateRoom sanitizes the room name and checks the create-room
// bounds: name 3-50 chars, user limit 2-50 participants.
func ValidateCreateRoom(req CreateRoomRequest) (CreateRoomRequest, error) {
	req.Name = SanitizeInput(req.Name)
	if err := validate.Struct(req); err != nil {
		return req, toValidationError(err)
	}
	return req, nil
}

type RegisterRequest struct {
	Email    string `validate:"required,email"`
	Username string `validate:"required"`
	Password string `validate:"required,min=8"`
}

// ValidateRegister checks the register form: valid email, username of 3-20
// word characters, password of at least 8 chars with a letter and a digit.
func ValidateRegister(req RegisterRequest) error {
	if err := validate.Struct(req); err != nil {
		return toValidationError(err)
	}
	if !usernameRe.MatchString(req.Username) {
		return errors.NewFieldValidation("username", "Username must be 3-20 characters, letters, digits and underscores only")
	}
	if !isPasswordAcceptable(req.Password) {
		return errors.NewFieldValidation("password", "Password must contain at least one letter and one number")
	}
	return nil
}

func isPasswordAcceptable(s string) bool {
	var hasLetter, hasNumber bool
	for _, char := range s {
		switch {
		case unicode.IsLetter(char):
			hasLetter = true
		case unicode.IsNumber(char):
			hasNumber = true
		}
	}
	return hasLetter && hasNumber
}

func toValidationError(err error) error {
	var fieldErrs validator.ValidationErrors
	if stderrors.As(err, &fieldErrs) && len(fieldErrs) > 0 {
		return errors.NewFieldValidation(fieldErrs[0].Field(), fieldErrs[0].Error())
	}
	return errors.NewValidation(err.Error())
}
