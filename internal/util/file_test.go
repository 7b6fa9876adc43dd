package util

import (
	"strings"
	"testing"
)

func TestValidateMimeType(t *testing.T) {
	pngHeader := "\x89PNG\r\n\x1a\n" + strings.Repeat("\x00", 16)

	mime, err := ValidateMimeType(strings.NewReader(pngHeader), []string{MimeImage})
	if err != nil {
		t.Fatalf("ValidateMimeType: %v", err)
	}
	if mime != "image/png" {
		t.Errorf("mime = %q, want image/png", mime)
	}

	if _, err := ValidateMimeType(strings.NewReader("plain text payload"), []string{MimeImage}); err == nil {
		t.Error("text content accepted as image")
	}
}

func TestValidateImageExtension(t *testing.T) {
	for _, name := range []string{"logo.png", "firma.JPG", "marca.webp", "sello.svg"} {
		if err := ValidateImageExtension(name); err != nil {
			t.Errorf("ValidateImageExtension(%q) = %v, want nil", name, err)
		}
	}
	for _, name := range []string{"payload.exe", "script.html", "noext", "doble.png.js"} {
		if err := ValidateImageExtension(name); err == nil {
			t.Errorf("ValidateImageExtension(%q) accepted", name)
		}
	}
}
