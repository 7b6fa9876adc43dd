package util

import (
	"errors"

	"gorm.io/gorm"
)

// Client-fixable validation failures.
var (
	ErrMalformedSubmission = errors.New("every question needs an answer in A, B or C")
)

// Missing or unavailable resources.
var (
	ErrQuizUnavailable     = errors.New("quiz not available")
	ErrCourseUnavailable   = errors.New("course not available")
	ErrAttemptNotFound     = errors.New("attempt not found")
	ErrCertificateNotFound = errors.New("certificate not found")
)

// Authorization.
var (
	ErrPermissionDenied = errors.New("permission denied")
)

// Fatal configuration defects: operator action required, retrying cannot help.
var (
	ErrMalformedQuiz     = errors.New("quiz is misconfigured: exactly 10 questions required")
	ErrVerifyCodeEntropy = errors.New("could not generate a unique verify code")
	ErrAttemptNotPassed  = errors.New("certificate issuance requires a passed attempt")
)

// FatalConfiguration reports whether err is an operator-level defect rather
// than a request problem.
func FatalConfiguration(err error) bool {
	return errors.Is(err, ErrMalformedQuiz) || errors.Is(err, ErrVerifyCodeEntropy)
}

// Transient reports whether err is worth retrying as a whole operation.
// Duplicate keys and missing rows are deterministic outcomes, everything else
// coming back from the storage layer is treated as contention or an I/O blip.
func Transient(err error) bool {
	if err == nil {
		return false
	}
	switch {
	case errors.Is(err, gorm.ErrRecordNotFound),
		errors.Is(err, gorm.ErrDuplicatedKey),
		errors.Is(err, ErrMalformedSubmission),
		errors.Is(err, ErrQuizUnavailable),
		errors.Is(err, ErrCourseUnavailable),
		errors.Is(err, ErrAttemptNotFound),
		errors.Is(err, ErrCertificateNotFound),
		errors.Is(err, ErrPermissionDenied),
		errors.Is(err, ErrAttemptNotPassed):
		return false
	}
	if FatalConfiguration(err) {
		return false
	}
	return true
}
