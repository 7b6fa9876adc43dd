package util

import (
	"errors"
	"io"
	"net/http"
	"path/filepath"
	"strings"
)

// ValidateMimeType sniffs the real content type of an upload and checks it
// against allowed prefixes or exact types.
func ValidateMimeType(reader io.Reader, allowedTypes []string) (string, error) {
	buffer := make([]byte, 512)
	n, err := reader.Read(buffer)
	if err != nil && err != io.EOF {
		return "", err
	}

	mimeType := http.DetectContentType(buffer[:n])

	for _, allowed := range allowedTypes {
		if strings.HasPrefix(mimeType, allowed) || mimeType == allowed {
			return mimeType, nil
		}
	}

	return mimeType, errors.New("invalid file type: " + mimeType)
}

// ValidateImageExtension checks the file name against the asset allowlist.
// Content sniffing cannot vet extensions, so both gates apply on upload.
func ValidateImageExtension(filename string) error {
	ext := strings.ToLower(filepath.Ext(filename))
	for _, allowed := range AllowedImageExtensions {
		if ext == allowed {
			return nil
		}
	}
	return errors.New("invalid file extension: " + ext)
}
