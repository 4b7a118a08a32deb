package errors

import (
	"errors"
	"fmt"
)

// Common error types for the login bridge
var (
	// Provider errors
	ErrProviderExchange = errors.New("provider code exchange failed")
	ErrMalformedState   = errors.New("malformed state parameter")

	// Credential errors
	ErrCredentialNotFound = errors.New("credential not found")

	// CLI errors
	ErrCliStore = errors.New("cli store-credential failed")
	ErrCliOpen  = errors.New("cli open-session failed")

	// Timeout on the provider exchange or either CLI step
	ErrTimeout = errors.New("operation timed out")
)

// Wrapf wraps an error with context using fmt.Errorf
func Wrapf(err error, format string, args ...interface{}) error {
	if err == nil {
		return nil
	}
	return fmt.Errorf(format+": %w", append(args, err)...)
}

// Is reports whether any error in err's chain matches target
func Is(err, target error) bool {
	return errors.Is(err, target)
}

// As finds the first error in err's chain that matches target
func As(err error, target interface{}) bool {
	return errors.As(err, target)
}
