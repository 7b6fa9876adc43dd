package util

import (
	"fmt"
	"math"
	"time"
)

// FormatDuration renders a certified duration for display, e.g. "2 h 15 min".
func FormatDuration(seconds int) string {
	if seconds <= 0 {
		return "Duración pendiente"
	}
	totalMinutes := int(math.Round(float64(seconds) / 60))
	hours := totalMinutes / 60
	minutes := totalMinutes % 60
	if hours <= 0 {
		return fmt.Sprintf("%d min", minutes)
	}
	if minutes == 0 {
		return fmt.Sprintf("%d h", hours)
	}
	return fmt.Sprintf("%d h %d min", hours, minutes)
}

var spanishMonths = [...]string{
	"enero", "febrero", "marzo", "abril", "mayo", "junio",
	"julio", "agosto", "septiembre", "octubre", "noviembre", "diciembre",
}

// FormatIssuedDate renders the issuance date the way the credential document
// prints it.
func FormatIssuedDate(t time.Time) string {
	return fmt.Sprintf("%02d de %s de %d", t.Day(), spanishMonths[t.Month()-1], t.Year())
}
