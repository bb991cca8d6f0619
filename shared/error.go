package shared

import (
	"errors"
	"fmt"
)

type ErrorSource int

const (
	ErrorSourceInput ErrorSource = iota
	ErrorSourceIO
	ErrorSourceStore
	ErrorSourceSystem
	ErrorSourceUnknown
)

type SummarizerError struct {
	Source  ErrorSource
	Message string
	Err     error
}

func Errorf(source ErrorSource, format string, a ...any) *SummarizerError {
	return &SummarizerError{
		Source:  source,
		Message: fmt.Sprintf(format, a...),
	}
}

func Wrap(source ErrorSource, err error, format string, a ...any) *SummarizerError {
	return &SummarizerError{
		Source:  source,
		Message: fmt.Sprintf(format, a...),
		Err:     err,
	}
}

func (e *SummarizerError) Error() string {
	if e.Err == nil {
		return e.Message
	}
	return fmt.Sprintf("%s: %v", e.Message, e.Err)
}

func (e *SummarizerError) Unwrap() error {
	return e.Err
}

func (e *SummarizerError) Is(target error) bool {
	return errors.Is(e.Err, target)
}

func (e *SummarizerError) As(target interface{}) bool {
	return errors.As(e.Err, target)
}

// SourceOf reports the source of err when it carries one, ErrorSourceUnknown
// otherwise.
func SourceOf(err error) ErrorSource {
	var serr *SummarizerError
	if errors.As(err, &serr) {
		return serr.Source
	}
	return ErrorSourceUnknown
}
