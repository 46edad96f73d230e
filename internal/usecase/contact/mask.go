package contact

import (
	"strings"
	"unicode"
)

// maskPhone keeps the last four digits and formatting symbols.
func maskPhone(phone string) string {
	runes := []rune(strings.TrimSpace(phone))
	keep := 4
	for i := len(runes) - 1; i >= 0; i-- {
		if !unicode.IsDigit(runes[i]) {
			continue
		}
		if keep > 0 {
			keep--
			continue
		}
		runes[i] = '*'
	}
	return string(runes)
}

// maskEmail keeps the first and last rune of the local part and the whole domain.
func maskEmail(email string) string {
	email = strings.TrimSpace(email)
	at := strings.IndexByte(email, '@')
	if at <= 0 {
		return strings.Repeat("*", len([]rune(email)))
	}
	local := []rune(email[:at])
	if len(local) <= 2 {
		return string(local[0]) + strings.Repeat("*", len(local)-1) + email[at:]
	}
	return string(local[0]) + strings.Repeat("*", len(local)-2) + string(local[len(local)-1]) + email[at:]
}
