package validator

import (
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type registerForm struct {
	FullName    string `validate:"required,min=1,max=100"`
	Email       string `validate:"required,email"`
	Password    string `validate:"required,min=8"`
	DateOfBirth string `validate:"required,datetime=2006-01-02"`
	Role        string `validate:"omitempty,oneof=admin user"`
}

func validForm() registerForm {
	return registerForm{
		FullName:    "Alice Smith",
		Email:       "alice@x.com",
		Password:    "pw123456",
		DateOfBirth: "1990-04-01",
	}
}

func TestValidate_Success(t *testing.T) {
	assert.NoError(t, Validate(validForm()))
}

func TestValidate_OptionalRoleAccepted(t *testing.T) {
	f := validForm()
	f.Role = "admin"
	assert.NoError(t, Validate(f))
}

func TestValidate_FieldFailures(t *testing.T) {
	tests := []struct {
		name    string
		mutate  func(*registerForm)
		field   string
		message string
	}{
		{"missing email", func(f *registerForm) { f.Email = "" }, "Email", "is required"},
		{"bad email", func(f *registerForm) { f.Email = "not-an-email" }, "Email", "must be a valid email address"},
		{"short password", func(f *registerForm) { f.Password = "short" }, "Password", "must be at least 8 characters"},
		{"bad date", func(f *registerForm) { f.DateOfBirth = "01/04/1990" }, "DateOfBirth", "must be a date in 2006-01-02 format"},
		{"bad role", func(f *registerForm) { f.Role = "root" }, "Role", "must be one of: admin user"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			f := validForm()
			tt.mutate(&f)

			err := Validate(f)
			require.Error(t, err)

			var valErr *ValidationError
			require.True(t, errors.As(err, &valErr))
			assert.Equal(t, tt.message, valErr.Fields()[tt.field])
			assert.Contains(t, valErr.Error(), tt.field)
		})
	}
}
