package service

import (
	"regexp"
	"testing"
)

func TestGenerateVerifyCodeShape(t *testing.T) {
	pattern := regexp.MustCompile(`^[0-9a-f]{20}$`)
	for i := 0; i < 100; i++ {
		code, err := generateVerifyCode()
		if err != nil {
			t.Fatalf("generateVerifyCode: %v", err)
		}
		if !pattern.MatchString(code) {
			t.Fatalf("code %q is not 20 lowercase hex chars", code)
		}
	}
}

func TestGenerateVerifyCodeUniqueness(t *testing.T) {
	const n = 1000
	seen := make(map[string]bool, n)
	for i := 0; i < n; i++ {
		code, err := generateVerifyCode()
		if err != nil {
			t.Fatalf("generateVerifyCode: %v", err)
		}
		if seen[code] {
			t.Fatalf("duplicate code %q after %d draws", code, i)
		}
		seen[code] = true
	}
}
