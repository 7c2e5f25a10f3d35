package kanji

import (
	"errors"
	"fmt"
)

// ErrorKind classifies why an extraction failed.
type ErrorKind int

const (
	// KindMissingSection means a required container was not on the page at all.
	KindMissingSection ErrorKind = iota + 1
	// KindMalformedField means a field was found but its content did not parse.
	KindMalformedField
	// KindInvalidJLPTLevel means the JLPT token is not one of N1..N5.
	KindInvalidJLPTLevel
)

func (k ErrorKind) String() string {
	switch k {
	case KindMissingSection:
		return "missing section"
	case KindMalformedField:
		return "malformed field"
	case KindInvalidJLPTLevel:
		return "invalid JLPT level"
	default:
		return "unknown"
	}
}

var (
	ErrMissingSection   = errors.New("missing section")
	ErrMalformedField   = errors.New("malformed field")
	ErrInvalidJLPTLevel = errors.New("invalid JLPT level")
)

// ExtractionError names the field that stopped an extraction.
// For KindInvalidJLPTLevel, Name holds the offending token.
type ExtractionError struct {
	Kind ErrorKind
	Name string
	Err  error
}

func missingSection(name string) *ExtractionError {
	return &ExtractionError{Kind: KindMissingSection, Name: name}
}

func malformedField(name string, err error) *ExtractionError {
	return &ExtractionError{Kind: KindMalformedField, Name: name, Err: err}
}

func (e *ExtractionError) Error() string {
	msg := fmt.Sprintf("%s: %q", e.Kind, e.Name)
	if e.Err != nil {
		msg += " > " + e.Err.Error()
	}
	return msg
}

// Is lets callers branch with errors.Is(err, ErrMalformedField) and friends.
func (e *ExtractionError) Is(target error) bool {
	switch target {
	case ErrMissingSection:
		return e.Kind == KindMissingSection
	case ErrMalformedField:
		return e.Kind == KindMalformedField
	case ErrInvalidJLPTLevel:
		return e.Kind == KindInvalidJLPTLevel
	}
	return false
}

func (e *ExtractionError) Unwrap() error {
	return e.Err
}
