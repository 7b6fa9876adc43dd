package service

import (
	"crypto/rand"
	"encoding/hex"
)

// verifyCodeBytes gives 80 bits of entropy, rendered as 20 hex characters.
// Enumeration of valid codes has to be infeasible: the code is the only key
// on the unauthenticated verification endpoint.
const verifyCodeBytes = 10

func generateVerifyCode() (string, error) {
	buf := make([]byte, verifyCodeBytes)
	if _, err := rand.Read(buf); err != nil {
		return "", err
	}
	return hex.EncodeToString(buf), nil
}
