package util

import (
	"errors"
	"fmt"
	"testing"

	"gorm.io/gorm"
)

func TestTransient(t *testing.T) {
	cases := []struct {
		name string
		err  error
		want bool
	}{
		{"nil", nil, false},
		{"record not found", gorm.ErrRecordNotFound, false},
		{"duplicated key", gorm.ErrDuplicatedKey, false},
		{"malformed submission", ErrMalformedSubmission, false},
		{"quiz unavailable", ErrQuizUnavailable, false},
		{"permission denied", ErrPermissionDenied, false},
		{"attempt not passed", ErrAttemptNotPassed, false},
		{"malformed quiz", ErrMalformedQuiz, false},
		{"verify code entropy", ErrVerifyCodeEntropy, false},
		{"wrapped sentinel", fmt.Errorf("issue: %w", gorm.ErrDuplicatedKey), false},
		{"io blip", errors.New("connection reset by peer"), true},
		{"wrapped io blip", fmt.Errorf("tx: %w", errors.New("timeout")), true},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			if got := Transient(tc.err); got != tc.want {
				t.Errorf("Transient(%v) = %v, want %v", tc.err, got, tc.want)
			}
		})
	}
}

func TestFatalConfiguration(t *testing.T) {
	if !FatalConfiguration(ErrMalformedQuiz) || !FatalConfiguration(ErrVerifyCodeEntropy) {
		t.Error("configuration defects not flagged fatal")
	}
	if FatalConfiguration(ErrMalformedSubmission) || FatalConfiguration(nil) {
		t.Error("request-level errors flagged fatal")
	}
}
