package rcode

import (
	"errors"
	"fmt"

	"github.com/riverside-software/rcode/pkg/rcode/breader"
)

// Kind discriminates the exhaustive error taxonomy a decode can fail with.
type Kind int

const (
	// KindShortRead means the stream ended before a section finished.
	KindShortRead Kind = iota
	// KindInvalidFormat means bytes that were expected to follow the
	// format's grammar did not: bad magic, non-hex ASCII, an
	// out-of-bounds string-pool offset, a negative size, an oversize
	// segment.
	KindInvalidFormat
	// KindUnsupportedVersion means version_major < 1100.
	KindUnsupportedVersion
)

func (k Kind) String() string {
	switch k {
	case KindShortRead:
		return "ShortRead"
	case KindInvalidFormat:
		return "InvalidFormat"
	case KindUnsupportedVersion:
		return "UnsupportedVersion"
	default:
		return "Unknown"
	}
}

// Error is the single error type every decode failure surfaces as. None of
// these are retryable at this layer: callers are expected to report "this
// artifact could not be analyzed" and move on.
type Error struct {
	Kind    Kind
	Section string // set for KindShortRead
	Reason  string // set for KindInvalidFormat
	Version uint16 // set for KindUnsupportedVersion
	Err     error  // wrapped cause, if any
}

func (e *Error) Error() string {
	switch e.Kind {
	case KindShortRead:
		return fmt.Sprintf("rcode: short read in %s", e.Section)
	case KindInvalidFormat:
		return fmt.Sprintf("rcode: invalid format: %s", e.Reason)
	case KindUnsupportedVersion:
		return fmt.Sprintf("rcode: unsupported version %d", e.Version)
	default:
		return "rcode: decode error"
	}
}

func (e *Error) Unwrap() error { return e.Err }

// Is supports errors.Is(err, ErrShortRead) etc. by comparing Kind alone.
func (e *Error) Is(target error) bool {
	t, ok := target.(*Error)
	if !ok {
		return false
	}
	return t.Kind == e.Kind && t.Section == "" && t.Reason == ""
}

// Sentinel values usable with errors.Is to test the kind of a failure
// without caring about its payload.
var (
	ErrShortRead          = &Error{Kind: KindShortRead}
	ErrInvalidFormat      = &Error{Kind: KindInvalidFormat}
	ErrUnsupportedVersion = &Error{Kind: KindUnsupportedVersion}
)

func shortRead(section string, cause error) error {
	return &Error{Kind: KindShortRead, Section: section, Err: cause}
}

func invalidFormat(reason string, cause error) error {
	return &Error{Kind: KindInvalidFormat, Reason: reason, Err: cause}
}

func unsupportedVersion(v uint16) error {
	return &Error{Kind: KindUnsupportedVersion, Version: v}
}

// wrap adapts a low-level breader error (bounds check, ASCII-hex grammar)
// to the package's single Error type, preserving the original as the
// wrapped cause.
func wrap(err error) error {
	if err == nil {
		return nil
	}
	var sr *breader.ErrShortRead
	if errors.As(err, &sr) {
		return shortRead(sr.Section, err)
	}
	var fmtErr *breader.ErrInvalidFormat
	if errors.As(err, &fmtErr) {
		return invalidFormat(fmtErr.Reason, err)
	}
	return err
}

// AsRCodeError is a small convenience wrapper over errors.As for callers
// that want the structured payload.
func AsRCodeError(err error) (*Error, bool) {
	var e *Error
	ok := errors.As(err, &e)
	return e, ok
}
