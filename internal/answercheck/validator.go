package answercheck

import "strings"

// sanitize collapses whitespace runs (including non-breaking variants) to
// single ASCII spaces and verifies that what remains is limited to digits,
// the four operators, parentheses, dots and spaces. Anything else, letters
// and underscores included, is rejected outright.
func sanitize(s string, maxLen int) (string, error) {
	if len(s) > maxLen {
		return "", ErrInputTooLarge
	}
	cleaned := strings.Join(strings.Fields(s), " ")
	for _, r := range cleaned {
		switch {
		case r >= '0' && r <= '9':
		case r == '+' || r == '-' || r == '*' || r == '/':
		case r == '(' || r == ')' || r == '.' || r == ' ':
		default:
			return "", ErrInvalidCharacter
		}
	}
	return cleaned, nil
}
