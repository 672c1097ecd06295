package entity

import (
	"errors"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestValidateURL(t *testing.T) {
	tests := []struct {
		name    string
		url     string
		wantErr bool
	}{
		{name: "valid https URL", url: "https://example.com/cover.png", wantErr: false},
		{name: "valid http URL", url: "http://example.com/cover.png", wantErr: false},
		{name: "valid URL with port", url: "https://example.com:8080/cover.png", wantErr: false},
		{name: "empty URL", url: "", wantErr: true},
		{name: "invalid scheme - ftp", url: "ftp://example.com/cover.png", wantErr: true},
		{name: "missing host", url: "https:///cover.png", wantErr: true},
		{name: "too long", url: "https://example.com/" + strings.Repeat("a", maxURLLength), wantErr: true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := ValidateURL("ImageURL", tt.url)
			if (err != nil) != tt.wantErr {
				t.Fatalf("ValidateURL(%q) error = %v, wantErr %v", tt.url, err, tt.wantErr)
			}
		})
	}
}

func TestValidateURL_ErrorTypes(t *testing.T) {
	err := ValidateURL("ImageURL", "ftp://example.com")

	var ve *ValidationError
	if !errors.As(err, &ve) {
		t.Fatalf("expected *ValidationError, got %T", err)
	}
	assert.Equal(t, "ImageURL", ve.Field)
	assert.Equal(t, "The ImageURL field must use the http or https scheme.", ve.Message)
}

func TestValidateRequired(t *testing.T) {
	assert.NoError(t, ValidateRequired("Title", "Refactoring"))
	assert.Error(t, ValidateRequired("Title", ""))
	assert.Error(t, ValidateRequired("Title", "   "))
}

func TestValidateMaxLength(t *testing.T) {
	assert.NoError(t, ValidateMaxLength("Title", "abc", 3))
	assert.Error(t, ValidateMaxLength("Title", "abcd", 3))
	// runes, not bytes
	assert.NoError(t, ValidateMaxLength("Title", "日本語", 3))
}

type alwaysInvalid struct{}

func (alwaysInvalid) Validate() error {
	return &ValidationError{Field: "x", Message: "never valid"}
}

func TestValidate_DispatchesOnValidator(t *testing.T) {
	assert.NoError(t, Validate(struct{}{}))
	assert.Error(t, Validate(alwaysInvalid{}))
}
