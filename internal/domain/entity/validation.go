package entity

import (
	"fmt"
	"net/url"
	"strings"
)

// maxURLLength defines the maximum allowed length for URLs.
const maxURLLength = 2048

// Validator is implemented by entities and DTOs that carry their own rules.
// Validate returns nil, a *ValidationError or ValidationErrors.
type Validator interface {
	Validate() error
}

// Validate runs v.Validate when v implements Validator.
func Validate(v any) error {
	if val, ok := v.(Validator); ok {
		return val.Validate()
	}
	return nil
}

// ValidateURL validates the format of an optional image or link URL.
// It checks that the URL is well-formed, uses HTTP/HTTPS scheme, and has a valid host.
func ValidateURL(field, rawURL string) error {
	if rawURL == "" {
		return &ValidationError{Field: field, Message: fmt.Sprintf("The %s field is required.", field)}
	}

	if len(rawURL) > maxURLLength {
		return &ValidationError{
			Field:   field,
			Message: fmt.Sprintf("The %s field must not exceed %d characters.", field, maxURLLength),
		}
	}

	parsedURL, err := url.Parse(rawURL)
	if err != nil {
		return &ValidationError{Field: field, Message: fmt.Sprintf("The %s field is not a valid URL.", field)}
	}

	if parsedURL.Scheme != "http" && parsedURL.Scheme != "https" {
		return &ValidationError{Field: field, Message: fmt.Sprintf("The %s field must use the http or https scheme.", field)}
	}

	if parsedURL.Host == "" {
		return &ValidationError{Field: field, Message: fmt.Sprintf("The %s field must have a valid host.", field)}
	}

	return nil
}

// ValidateRequired rejects blank strings.
func ValidateRequired(field, value string) error {
	if strings.TrimSpace(value) == "" {
		return &ValidationError{Field: field, Message: fmt.Sprintf("The %s field is required.", field)}
	}
	return nil
}

// ValidateMaxLength rejects strings longer than max runes.
func ValidateMaxLength(field, value string, max int) error {
	if len([]rune(value)) > max {
		return &ValidationError{
			Field:   field,
			Message: fmt.Sprintf("The %s field must not exceed %d characters.", field, max),
		}
	}
	return nil
}
