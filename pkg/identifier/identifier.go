// Package identifier validates untrusted names before they are interpolated
// into privileged SQL statements or filesystem paths.
//
// An Identifier is accepted only when it matches ^[A-Za-z0-9_]+$. There is no
// normalization: no trimming, no case folding. Anything else is rejected so
// that SQL metacharacters and path separators never reach a CREATE statement
// or a tablespace directory name.
package identifier

import (
	"fmt"
	"regexp"
)

var validName = regexp.MustCompile(`^[A-Za-z0-9_]+$`)

// Identifier is a name that has passed validation. The zero value is not a
// valid Identifier; obtain one through Validate.
type Identifier string

func (i Identifier) String() string {
	return string(i)
}

// InvalidError reports an input that failed validation. The offending input
// is carried for diagnostics; it is safe to log because it was never accepted
// as a secret.
type InvalidError struct {
	Input string
}

func (e *InvalidError) Error() string {
	if e.Input == "" {
		return "invalid identifier: empty"
	}
	return fmt.Sprintf("invalid identifier: %q", e.Input)
}

// Validate checks input against ^[A-Za-z0-9_]+$ and returns it as an
// Identifier. Empty strings, whitespace, punctuation and SQL metacharacters
// all fail with *InvalidError.
func Validate(input string) (Identifier, error) {
	if !validName.MatchString(input) {
		return "", &InvalidError{Input: input}
	}
	return Identifier(input), nil
}

// MustValidate is Validate for inputs that are compile-time constants, such
// as built-in defaults. It panics on invalid input.
func MustValidate(input string) Identifier {
	id, err := Validate(input)
	if err != nil {
		panic(err)
	}
	return id
}
