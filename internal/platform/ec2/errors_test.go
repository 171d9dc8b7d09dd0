package ec2

import (
	"errors"
	"fmt"
	"testing"

	"github.com/aws/smithy-go"
)

func apiError(code string) error {
	return &smithy.GenericAPIError{Code: code, Message: "boom"}
}

func TestIsDuplicateName(t *testing.T) {
	tests := []struct {
		name string
		err  error
		want bool
	}{
		{"nil", nil, false},
		{"raw api code", apiError("InvalidAMIName.Duplicate"), true},
		{"wrapped api code", fmt.Errorf("register: %w", apiError("InvalidAMIName.Duplicate")), true},
		{"sentinel", ErrDuplicateName, true},
		{"wrapped sentinel", fmt.Errorf("register: %w", ErrDuplicateName), true},
		{"other code", apiError("InvalidAMIID.Unavailable"), false},
		{"plain error", errors.New("boom"), false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := IsDuplicateName(tt.err); got != tt.want {
				t.Errorf("IsDuplicateName(%v) = %v, want %v", tt.err, got, tt.want)
			}
		})
	}
}

func TestIsImageUnavailable(t *testing.T) {
	tests := []struct {
		name string
		err  error
		want bool
	}{
		{"nil", nil, false},
		{"raw api code", apiError("InvalidAMIID.Unavailable"), true},
		{"sentinel", ErrImageUnavailable, true},
		{"wrapped sentinel", fmt.Errorf("copy: %w", ErrImageUnavailable), true},
		{"duplicate code", apiError("InvalidAMIName.Duplicate"), false},
		{"plain error", errors.New("boom"), false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := IsImageUnavailable(tt.err); got != tt.want {
				t.Errorf("IsImageUnavailable(%v) = %v, want %v", tt.err, got, tt.want)
			}
		})
	}
}

func TestClassify_WrapsKnownCodes(t *testing.T) {
	err := classify(apiError("InvalidAMIName.Duplicate"))
	if !errors.Is(err, ErrDuplicateName) {
		t.Errorf("expected classified error to match ErrDuplicateName, got %v", err)
	}

	// The original API error must stay reachable for callers that need it.
	var apiErr smithy.APIError
	if !errors.As(err, &apiErr) {
		t.Error("expected original API error to be preserved")
	}

	err = classify(apiError("InvalidAMIID.Unavailable"))
	if !errors.Is(err, ErrImageUnavailable) {
		t.Errorf("expected classified error to match ErrImageUnavailable, got %v", err)
	}
}

func TestClassify_PassesThroughUnknownErrors(t *testing.T) {
	plain := errors.New("boom")
	if got := classify(plain); got != plain {
		t.Errorf("expected unknown error to pass through unchanged, got %v", got)
	}
	if classify(nil) != nil {
		t.Error("expected nil to pass through")
	}
}
