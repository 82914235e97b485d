package errors

import (
	stderrors "errors"
	"fmt"
	"math"
	"strings"
	"testing"
)

func TestNew(t *testing.T) {
	err := New(ErrCodeNodeNotFound, "node %s not found", "abc")

	if err.Code != ErrCodeNodeNotFound {
		t.Errorf("code = %s, want %s", err.Code, ErrCodeNodeNotFound)
	}
	if err.Message != "node abc not found" {
		t.Errorf("message = %q", err.Message)
	}
	if !strings.Contains(err.Error(), "NODE_NOT_FOUND") {
		t.Errorf("Error() = %q, want code prefix", err.Error())
	}
}

func TestWrap(t *testing.T) {
	cause := stderrors.New("disk full")
	err := Wrap(ErrCodeInternal, cause, "save failed")

	if !stderrors.Is(err, cause) {
		t.Error("wrapped error should match cause via errors.Is")
	}
	if !strings.Contains(err.Error(), "disk full") {
		t.Errorf("Error() = %q, want cause included", err.Error())
	}
}

func TestIs(t *testing.T) {
	tests := []struct {
		name string
		err  error
		code Code
		want bool
	}{
		{"Match", New(ErrCodeEdgeNotFound, "gone"), ErrCodeEdgeNotFound, true},
		{"Mismatch", New(ErrCodeEdgeNotFound, "gone"), ErrCodeNodeNotFound, false},
		{"Wrapped", fmt.Errorf("outer: %w", New(ErrCodeLayoutFailed, "diverged")), ErrCodeLayoutFailed, true},
		{"Plain", stderrors.New("plain"), ErrCodeInternal, false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := Is(tt.err, tt.code); got != tt.want {
				t.Errorf("Is() = %v, want %v", got, tt.want)
			}
		})
	}
}

func TestGetCode(t *testing.T) {
	if got := GetCode(New(ErrCodeInvalidOperation, "bad")); got != ErrCodeInvalidOperation {
		t.Errorf("GetCode = %s", got)
	}
	if got := GetCode(stderrors.New("plain")); got != "" {
		t.Errorf("GetCode on plain error = %s, want empty", got)
	}
}

func TestUserMessage(t *testing.T) {
	if got := UserMessage(New(ErrCodeInvalidFormat, "bad json")); got != "bad json" {
		t.Errorf("UserMessage = %q", got)
	}
	if got := UserMessage(stderrors.New("plain")); got != "plain" {
		t.Errorf("UserMessage on plain error = %q", got)
	}
}

func TestValidateCanvas(t *testing.T) {
	tests := []struct {
		name          string
		width, height float64
		wantErr       bool
	}{
		{"Valid", 800, 600, false},
		{"ZeroWidth", 0, 600, true},
		{"NegativeHeight", 800, -1, true},
		{"NaN", 800, math.NaN(), true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := ValidateCanvas(tt.width, tt.height)
			if (err != nil) != tt.wantErr {
				t.Errorf("ValidateCanvas(%g, %g) = %v, wantErr %v", tt.width, tt.height, err, tt.wantErr)
			}
			if err != nil && !Is(err, ErrCodeInvalidOperation) {
				t.Errorf("error code = %s, want INVALID_OPERATION", GetCode(err))
			}
		})
	}
}

func TestValidateSpacing(t *testing.T) {
	if err := ValidateSpacing("margin", 10); err != nil {
		t.Errorf("valid spacing rejected: %v", err)
	}
	if err := ValidateSpacing("margin", -5); err == nil {
		t.Error("negative spacing accepted")
	}
}

func TestValidateFraction(t *testing.T) {
	if err := ValidateFraction("damping", 0.85); err != nil {
		t.Errorf("valid fraction rejected: %v", err)
	}
	for _, v := range []float64{0, 1, -0.5, 2} {
		if err := ValidateFraction("damping", v); err == nil {
			t.Errorf("fraction %g accepted", v)
		}
	}
}

func TestValidatePath(t *testing.T) {
	tests := []struct {
		name    string
		path    string
		wantErr bool
	}{
		{"Valid", "maps/project.json", false},
		{"Empty", "", true},
		{"Traversal", "../etc/passwd", true},
		{"NullByte", "a\x00b", true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := ValidatePath(tt.path)
			if (err != nil) != tt.wantErr {
				t.Errorf("ValidatePath(%q) = %v, wantErr %v", tt.path, err, tt.wantErr)
			}
		})
	}
}
