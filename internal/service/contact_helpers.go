package service

import (
	"strings"
	"unicode/utf8"
)

func maskEmailAddress(email string) string {
	email = strings.TrimSpace(strings.ToLower(email))
	if email == "" {
		return ""
	}
	parts := strings.Split(email, "@")
	if len(parts) != 2 || parts[0] == "" {
		return "***"
	}
	local := []rune(parts[0])
	domain := parts[1]
	masked := string(local[:1]) + "***"
	if len(local) > 2 {
		masked += string(local[len(local)-1:])
	}
	return masked + "@" + domain
}

// truncateRunes keeps at most limit characters of s.
func truncateRunes(s string, limit int) string {
	if utf8.RuneCountInString(s) <= limit {
		return s
	}
	runes := []rune(s)
	return string(runes[:limit])
}

// headerValue folds a value onto one line so it cannot start a new header.
func headerValue(value string) string {
	value = strings.NewReplacer("\r\n", " ", "\r", " ", "\n", " ").Replace(value)
	return strings.TrimSpace(value)
}
