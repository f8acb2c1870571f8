package apperr

import "fmt"

type ValidationError struct {
	Message string
	Err     error
}

func (e *ValidationError) Error() string {
	if e.Err != nil {
		return e.Message + ": " + e.Err.Error()
	}
	return e.Message
}

func (e *ValidationError) Unwrap() error {
	return e.Err
}

func NewValidation(msg string) *ValidationError {
	return &ValidationError{Message: msg}
}

func NewValidationWrap(msg string, err error) *ValidationError {
	return &ValidationError{Message: msg, Err: err}
}

// PersistError reports that a single article draft could not be saved.
// The ingestion run skips the draft and continues.
type PersistError struct {
	Provider string
	URL      string
	Err      error
}

func (e *PersistError) Error() string {
	return fmt.Sprintf("persist article %q from %s: %v", e.URL, e.Provider, e.Err)
}

func (e *PersistError) Unwrap() error {
	return e.Err
}

func NewPersist(provider, url string, err error) *PersistError {
	return &PersistError{Provider: provider, URL: url, Err: err}
}
