// Package errs defines the sentinel errors shared by the navdb packages.
//
// Callers should test for these with errors.Is; the codecs wrap them with
// positional context (section number, byte offset, character) before returning.
package errs

import (
	"errors"
	"fmt"
)

var (
	// ErrMalformedContainer reports a structural problem in the container: a bad
	// table of contents, a section that does not start where the previous one
	// ended, or a record that does not fit its declared geometry.
	ErrMalformedContainer = errors.New("malformed container")

	// ErrTrailingData reports bytes left over after a section codec finished.
	ErrTrailingData = fmt.Errorf("%w: trailing data", ErrMalformedContainer)

	// ErrUnencodableCharacter reports a character outside the target alphabet.
	ErrUnencodableCharacter = errors.New("unencodable character")

	// ErrIllegalEncoding reports a bit pattern that does not decode to any symbol.
	ErrIllegalEncoding = errors.New("illegal encoding")

	// ErrOutOfRange reports a read past the end of a buffer, a seek outside of it,
	// or a value too wide for its field.
	ErrOutOfRange = errors.New("out of range")

	// ErrUnresolvedKey reports a foreign key that does not name any entity in the
	// target section.
	ErrUnresolvedKey = errors.New("unresolved key")

	// ErrInvalidIR reports an intermediate representation document that cannot be
	// turned back into a container.
	ErrInvalidIR = errors.New("invalid intermediate representation")

	// ErrUnsupportedCompression reports an unknown IR file compression.
	ErrUnsupportedCompression = errors.New("unsupported compression")
)

// SectionError attaches the failing section and operation to an error.
type SectionError struct {
	Section int
	Op      string
	Err     error
}

// Error implements the error interface.
func (e *SectionError) Error() string {
	return fmt.Sprintf("section %d: %s: %v", e.Section, e.Op, e.Err)
}

// Unwrap returns the underlying cause.
func (e *SectionError) Unwrap() error {
	return e.Err
}

// WrapSection wraps err in a SectionError. A nil err stays nil, and an error that
// already carries section context is returned unchanged.
func WrapSection(section int, op string, err error) error {
	if err == nil {
		return nil
	}

	var se *SectionError
	if errors.As(err, &se) {
		return err
	}

	return &SectionError{Section: section, Op: op, Err: err}
}
