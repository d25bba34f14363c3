package helper

import (
	"regexp"
	"strings"

	"golang.org/x/text/unicode/norm"
)

var (
	rePhone    = regexp.MustCompile(`^\+?[0-9(][0-9\s\-().]{6,19}$`)
	reNonDigit = regexp.MustCompile(`\D`)
)

// NormalizeEmail folds an address to the form used for uniqueness: NFC, trimmed, lowercase.
func NormalizeEmail(s string) string {
	return strings.ToLower(norm.NFC.String(strings.TrimSpace(s)))
}

// TrimPtr trims s and turns empty strings into nil.
func TrimPtr(s *string) *string {
	if s == nil {
		return nil
	}
	v := strings.TrimSpace(*s)
	if v == "" {
		return nil
	}
	return &v
}

func ValidPhone(s string) bool {
	s = strings.TrimSpace(s)
	if !rePhone.MatchString(s) {
		return false
	}
	n := len(reNonDigit.ReplaceAllString(s, ""))
	return n >= 7 && n <= 15
}

// FormatPhone renders a phone number for display.
//
//	10 digits            -> (555) 123-4567
//	11 digits, leading 1 -> +1 (555) 123-4567
//	other, leading +     -> +<digits>
//
// Anything else is returned trimmed.
func FormatPhone(raw string) string {
	s := strings.TrimSpace(raw)
	digits := reNonDigit.ReplaceAllString(s, "")
	switch {
	case len(digits) == 10:
		return "(" + digits[:3] + ") " + digits[3:6] + "-" + digits[6:]
	case len(digits) == 11 && digits[0] == '1':
		return "+1 (" + digits[1:4] + ") " + digits[4:7] + "-" + digits[7:]
	case strings.HasPrefix(s, "+") && digits != "":
		return "+" + digits
	default:
		return s
	}
}
