package service

import (
	"errors"
	"strings"
	"testing"

	"segmentservice/internal/apperror"
)

func TestSlugValidate(t *testing.T) {
	tests := []struct {
		name    string
		input   string
		wantErr error
	}{
		{name: "ValidSimple", input: "AVITO_VOICE"},
		{name: "ValidDigits", input: "TEST1000"},
		{name: "ValidSingleChar", input: "A"},
		{name: "ValidUnderscoreOnly", input: "_"},
		{name: "ErrorEmpty", input: "", wantErr: apperror.ErrValidation},
		{name: "ErrorLowercase", input: "avito_voice", wantErr: apperror.ErrFormat},
		{name: "ErrorDash", input: "BAD-SLUG", wantErr: apperror.ErrFormat},
		{name: "ErrorSpaces", input: "WITH SPACES", wantErr: apperror.ErrFormat},
		{name: "ErrorTrailingNewline", input: "FOO\n", wantErr: apperror.ErrFormat},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := slugValidate(tt.input)
			if tt.wantErr == nil && err != nil {
				t.Fatalf("slugValidate(%q) unexpected error %v", tt.input, err)
			}
			if tt.wantErr != nil && !errors.Is(err, tt.wantErr) {
				t.Errorf("slugValidate(%q) error = %v, want kind %v", tt.input, err, tt.wantErr)
			}
		})
	}
}

func TestPercentValidate(t *testing.T) {
	int0, int50, int100, intNeg, intBig := 0, 50, 100, -1, 101
	tests := []struct {
		name    string
		input   *int
		wantErr bool
	}{
		{name: "Nil", input: nil},
		{name: "Zero", input: &int0},
		{name: "Middle", input: &int50},
		{name: "Hundred", input: &int100},
		{name: "ErrorNegative", input: &intNeg, wantErr: true},
		{name: "ErrorAbove", input: &intBig, wantErr: true},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := percentValidate(tt.input)
			if (err != nil) != tt.wantErr {
				t.Fatalf("percentValidate(%v) error = %v, wantErr %v", tt.input, err, tt.wantErr)
			}
			if err != nil && !errors.Is(err, apperror.ErrRange) {
				t.Errorf("expected range error, got %v", err)
			}
		})
	}
}

func TestSlugsValidate(t *testing.T) {
	if err := slugsValidate(nil); !errors.Is(err, apperror.ErrNoSegmentsProvided) {
		t.Errorf("expected ErrNoSegmentsProvided, got %v", err)
	}
	if err := slugsValidate(strings.Split(strings.Repeat("A,", 100)+"A", ",")); !errors.Is(err, apperror.ErrTooManySegments) {
		t.Errorf("expected ErrTooManySegments, got %v", err)
	}
	if err := slugsValidate([]string{"A"}); err != nil {
		t.Errorf("unexpected error %v", err)
	}
}
