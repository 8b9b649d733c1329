package validation_test

import (
	"testing"

	"github.com/icaliwag/pasokit/internal/platform/validation"
)

type registerInput struct {
	Username string `json:"username" validate:"required"`
	Email    string `json:"email" validate:"required,email"`
	Password string `json:"password" validate:"required,min=6"`
}

func TestGoPlaygroundValidator_ValidateStruct(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name       string
		input      registerInput
		wantFields []string
	}{
		{
			name:  "valid input",
			input: registerInput{Username: "alice", Email: "a@x.com", Password: "secret1"},
		},
		{
			name:       "missing everything",
			input:      registerInput{},
			wantFields: []string{"username", "email", "password"},
		},
		{
			name:       "bad email",
			input:      registerInput{Username: "alice", Email: "not-an-email", Password: "secret1"},
			wantFields: []string{"email"},
		},
		{
			name:       "short password",
			input:      registerInput{Username: "alice", Email: "a@x.com", Password: "abc"},
			wantFields: []string{"password"},
		},
	}

	validator := validation.NewGoPlaygroundValidator()
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()
			errs := validator.ValidateStruct(tt.input)

			if len(tt.wantFields) == 0 {
				if errs != nil {
					t.Fatalf("ValidateStruct() = %v, want: nil", errs)
				}
				return
			}

			if len(errs) != len(tt.wantFields) {
				t.Fatalf("len(errs) = %d, want: %d (%v)", len(errs), len(tt.wantFields), errs)
			}
			for _, field := range tt.wantFields {
				if _, ok := errs[field]; !ok {
					t.Errorf("errs missing field %q: %v", field, errs)
				}
			}
		})
	}
}
