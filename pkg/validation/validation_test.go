package validation

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestValidateNonEmptyString(t *testing.T) {
	assert.NoError(t, ValidateNonEmptyString("password", "x"))
	assert.EqualError(t, ValidateNonEmptyString("password", ""), "password cannot be empty")
	assert.Error(t, ValidateNonEmptyString("password", "   "))
}

func TestValidateEmail(t *testing.T) {
	tests := []struct {
		email   string
		wantErr bool
	}{
		{"u@x.com", false},
		{"first.last@example.org", false},
		{"", true},
		{"not-an-email", true},
		{"Alice <alice@example.com>", true},
	}
	for _, tt := range tests {
		t.Run(tt.email, func(t *testing.T) {
			err := ValidateEmail(tt.email)
			if tt.wantErr {
				assert.Error(t, err)
			} else {
				assert.NoError(t, err)
			}
		})
	}
}

func TestValidateBaseURL(t *testing.T) {
	assert.NoError(t, ValidateBaseURL("http://localhost:8080"))
	assert.NoError(t, ValidateBaseURL("https://api.example.com/v1"))
	assert.Error(t, ValidateBaseURL("ftp://example.com"))
	assert.Error(t, ValidateBaseURL("https://"))
	assert.Error(t, ValidateBaseURL("::bad"))
}

func TestValidateBackend(t *testing.T) {
	assert.NoError(t, ValidateBackend("sqlite"))
	assert.NoError(t, ValidateBackend("redis"))
	assert.Error(t, ValidateBackend("postgres"))
	assert.Error(t, ValidateBackend(""))
}
