package secret

import (
	"strings"
	"unicode"
)

// MinLength is the minimum accepted password length.
const MinLength = 12

// Symbols is the fixed set of accepted symbol characters. A password must
// contain at least one of these; symbols outside the set do not count.
const Symbols = "!@#$%^&*"

// WeakError reports a candidate password that fails the acceptance policy.
// It carries the failed requirements, never the candidate itself.
type WeakError struct {
	Missing []string
}

func (e *WeakError) Error() string {
	return "weak password: needs " + strings.Join(e.Missing, ", ")
}

// IsAcceptable reports whether the candidate satisfies the policy: length of
// at least MinLength with at least one uppercase letter, one lowercase
// letter, one digit and one symbol from Symbols. Pure and deterministic;
// retry loops belong to the caller.
func IsAcceptable(candidate Secret) bool {
	return Check(candidate) == nil
}

// Check is IsAcceptable with the failed requirements spelled out, for prompt
// feedback. Returns nil when the candidate is acceptable, *WeakError
// otherwise.
func Check(candidate Secret) error {
	var hasUpper, hasLower, hasDigit, hasSymbol bool
	value := candidate.Reveal()
	for _, r := range value {
		switch {
		case unicode.IsUpper(r):
			hasUpper = true
		case unicode.IsLower(r):
			hasLower = true
		case unicode.IsDigit(r):
			hasDigit = true
		case strings.ContainsRune(Symbols, r):
			hasSymbol = true
		}
	}

	var missing []string
	if len(value) < MinLength {
		missing = append(missing, "length >= 12")
	}
	if !hasUpper {
		missing = append(missing, "an uppercase letter")
	}
	if !hasLower {
		missing = append(missing, "a lowercase letter")
	}
	if !hasDigit {
		missing = append(missing, "a digit")
	}
	if !hasSymbol {
		missing = append(missing, "a symbol from "+Symbols)
	}
	if len(missing) > 0 {
		return &WeakError{Missing: missing}
	}
	return nil
}
