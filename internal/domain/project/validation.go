package project

import "strings"

// MinNameLength is the shortest accepted project name.
const MinNameLength = 3

// ValidateName checks the project name invariant.
func ValidateName(name string) error {
	if len(strings.TrimSpace(name)) < MinNameLength {
		return ErrInvalidInput
	}
	return nil
}

// ValidateProgress checks the progress percentage bounds.
func ValidateProgress(progress int) error {
	if progress < 0 || progress > 100 {
		return ErrInvalidInput
	}
	return nil
}
