package validators

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestEmailValidator(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name  string
		email string
		want  error
	}{
		{"valid", "jane@example.com", nil},
		{"empty", "", ErrEmailEmpty},
		{"no at sign", "janeexample.com", ErrEmailInvalid},
		{"spaces", "jane doe@example.com", ErrEmailInvalid},
		{"no domain", "jane@", ErrEmailInvalid},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.ErrorIs(t, EmailValidator(tt.email), tt.want)
		})
	}
}

func TestNormalizeEmail(t *testing.T) {
	t.Parallel()

	assert.Equal(t, "jane@example.com", NormalizeEmail("  Jane@Example.COM "))
}

func TestPasswordValidator(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name     string
		password string
		want     error
	}{
		{"valid", "long enough password", nil},
		{"empty", "", ErrPasswordEmpty},
		{"too short", "short", ErrPasswordTooShort},
		{"too long", string(make([]byte, 300)), ErrPasswordTooLong},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.ErrorIs(t, PasswordValidator(tt.password), tt.want)
		})
	}
}

func TestUpdateFieldsValidator(t *testing.T) {
	t.Parallel()

	err := UpdateFieldsValidator(map[string]any{
		"first_name": "Jane",
		"email":      "jane@example.com",
		"age":        30,
	})
	assert.NoError(t, err)

	// One bad key poisons the whole update, even next to good ones
	err = UpdateFieldsValidator(map[string]any{
		"first_name": "Jane",
		"role":       "admin",
	})
	assert.Error(t, err)

	assert.Error(t, UpdateFieldsValidator(map[string]any{}))
}
