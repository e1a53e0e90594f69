// Copyright (c) 2026 Brandgate. All rights reserved.
// Author: dev@brandgate.io

package validate_test

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/superdwayne/brandgate/internal/platform/apperr"
	"github.com/superdwayne/brandgate/internal/platform/validate"
)

/*
TestValidator_Required tests the mandatory field validation logic.
*/
func TestValidator_Required(t *testing.T) {
	tests := []struct {
		name     string
		field    string
		value    string
		hasError bool
	}{
		{"valid_string", "email", "user@acme.com", false},
		{"empty_string", "email", "", true},
		{"whitespace_only", "email", "   ", true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			v := &validate.Validator{}
			v.Required(tt.field, tt.value)

			if tt.hasError {
				assert.True(t, v.HasErrors())
				err := v.Err()
				require.NotNil(t, err)

				ae := apperr.As(err)
				require.NotNil(t, ae)
				assert.Equal(t, "VALIDATION_ERROR", ae.Code)
				assert.Equal(t, tt.field, ae.Details[0].Field)
			} else {
				assert.False(t, v.HasErrors())
				assert.Nil(t, v.Err())
			}
		})
	}
}

/*
TestValidator_Password exercises the brand password policy: 6-100 characters,
at least one letter and at least one digit, no special-character requirement.
*/
func TestValidator_Password(t *testing.T) {
	tests := []struct {
		name     string
		password string
		isValid  bool
	}{
		{"letter_and_digit", "abc123", true},
		{"letters_only", "abcdef", false},
		{"digits_only", "123456", false},
		{"too_short", "ab1", false},
		{"too_long", strings.Repeat("a1", 51), false},
		{"specials_not_required", "hunter2", true},
		{"unicode_letters_count", "pässw0rd", true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			v := &validate.Validator{}
			v.Password("password", tt.password)

			if tt.isValid {
				assert.False(t, v.HasErrors())
			} else {
				assert.True(t, v.HasErrors())
			}
		})
	}
}

/*
TestValidator_CompanyEmail checks the combined format + domain allow-list rule.
*/
func TestValidator_CompanyEmail(t *testing.T) {
	allowed := func(email string) bool {
		return strings.HasSuffix(strings.ToLower(email), "@acme.com")
	}

	tests := []struct {
		name    string
		email   string
		isValid bool
		message string
	}{
		{"allowed_domain", "jane@acme.com", true, ""},
		{"allowed_domain_uppercase", "jane@ACME.COM", true, ""},
		{"unknown_domain", "jane@unknown.test", false, "Use your company email address"},
		{"invalid_format", "not-an-email", false, "Must be a valid email address"},
		{"empty", "", false, "Must be a valid email address"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			v := &validate.Validator{}
			v.CompanyEmail("email", tt.email, allowed)

			if tt.isValid {
				assert.False(t, v.HasErrors())
				return
			}

			require.True(t, v.HasErrors())
			ae := apperr.As(v.Err())
			require.NotNil(t, ae)
			// First failing rule wins.
			assert.Equal(t, tt.message, ae.Details[0].Message)
		})
	}
}

/*
TestValidator_Chain tests the fluent API (chaining multiple rules).
*/
func TestValidator_Chain(t *testing.T) {
	v := &validate.Validator{}

	// Multi-rule validation
	err := v.
		Required("email", "jane@acme.com").
		Email("email", "jane@acme.com").
		Password("password", "topsecret1").
		Err()

	assert.NoError(t, err)
	assert.False(t, v.HasErrors())
}

/*
TestValidator_Chain_Failure tests error accumulation in the chain.
*/
func TestValidator_Chain_Failure(t *testing.T) {
	v := &validate.Validator{}

	err := v.
		Required("email", "").          // Fails
		Email("email", "not-an-email"). // Fails
		Password("password", "short").  // Fails
		Err()

	require.Error(t, err)
	ae := apperr.As(err)
	require.NotNil(t, ae)

	// Should accumulate all 3 errors, first rule first.
	assert.Len(t, ae.Details, 3)
	assert.Equal(t, "This field is required", ae.Details[0].Message)
}
