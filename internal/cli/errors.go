package cli

import (
	"errors"
	"strings"

	"github.com/roach88/purse/internal/account"
	"github.com/roach88/purse/internal/persist"
	"github.com/roach88/purse/internal/store"
)

// Error codes for failures that are not account validation errors.
// Validation failures report the account package codes (E201-E211).
const (
	ErrCodeGeneric  = "E001" // Generic/unknown error
	ErrCodeConfig   = "E002" // Config file unreadable or invalid
	ErrCodeNotFound = "E404" // No account with the given id
	ErrCodeStorage  = "E500" // Storage backend failed
	ErrCodeSchema   = "E501" // Stored data unreadable by this build
)

// classify maps an error to its response code, exit code and details.
func classify(err error) (code string, exit int, details any) {
	var list account.ValidationErrors
	var single account.ValidationError
	switch {
	case errors.As(err, &list) && len(list) > 0:
		return list[0].Code, ExitFailure, []account.ValidationError(list)
	case errors.As(err, &single):
		return single.Code, ExitFailure, []account.ValidationError{single}
	case store.IsNotFound(err):
		return ErrCodeNotFound, ExitFailure, nil
	case persist.IsSchemaError(err):
		return ErrCodeSchema, ExitCommandError, nil
	case persist.IsStorageError(err), store.IsNotReady(err):
		return ErrCodeStorage, ExitCommandError, nil
	default:
		return ErrCodeGeneric, ExitCommandError, nil
	}
}

// message renders err for humans. Validation errors drop their code
// prefix since the response already carries it.
func message(err error) string {
	var list account.ValidationErrors
	if errors.As(err, &list) {
		parts := make([]string, len(list))
		for i, ve := range list {
			parts[i] = ve.Field + ": " + ve.Message
		}
		return strings.Join(parts, "; ")
	}
	var single account.ValidationError
	if errors.As(err, &single) {
		return single.Field + ": " + single.Message
	}
	return err.Error()
}

// report writes err through the formatter and returns the ExitError the
// command should fail with.
func report(f *OutputFormatter, err error) error {
	code, exit, details := classify(err)
	msg := message(err)
	if outErr := f.Error(code, msg, details); outErr != nil {
		return outErr
	}
	return WrapExitError(exit, code, err)
}
