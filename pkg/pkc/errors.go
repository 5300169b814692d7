package pkc

import (
	"errors"
	"fmt"
	"strings"
)

var (
	// ErrKeyGeneration indicates that key generation failed, either because the
	// prime search was cancelled or because a modular inverse did not exist.
	ErrKeyGeneration = errors.New("key generation failed")

	// ErrMessageTooLong indicates that the plaintext exceeds the capacity of the
	// scheme for the given key.
	ErrMessageTooLong = errors.New("message too long")

	// ErrEncryption indicates a malformed public key or an arithmetic failure
	// during encryption.
	ErrEncryption = errors.New("encryption failed")

	// ErrDecryption indicates a malformed private key or envelope.
	ErrDecryption = errors.New("decryption failed")

	// ErrDecoding indicates that a decrypted message could not be decoded
	// (OAEP structure, label hash or text encoding).
	ErrDecoding = errors.New("decoding error")

	// ErrNoSquareRoot is returned when a value has no square root modulo the
	// field prime, typically while decompressing a point that is not on the curve.
	ErrNoSquareRoot = errors.New("no modular square root")

	// ErrUnsupportedAlgorithm is returned for unknown algorithm or hash names.
	ErrUnsupportedAlgorithm = errors.New("unsupported algorithm")

	// ErrMissingField is returned when an envelope lacks a field the scheme requires.
	ErrMissingField = errors.New("missing envelope field")

	// ErrArithmetic is returned when a modular inverse does not exist.
	ErrArithmetic = errors.New("arithmetic error")

	// ErrValueTooLarge is returned when an integer does not fit a fixed-length encoding.
	ErrValueTooLarge = errors.New("value too large for encoding")

	// ErrInternal signals a broken invariant in fixed domain parameters. It is
	// never the result of bad caller input and must not be retried.
	ErrInternal = errors.New("internal consistency error")
)

// Error carries the taxonomy kind together with the failing operation and the
// underlying cause. errors.Is matches both Kind and Err.
type Error struct {
	Kind  error  // one of the sentinel errors above
	Op    string // operation that failed, e.g. "rsa.Decrypt"
	Field string // offending envelope or key field, if any
	Err   error  // underlying cause, may be nil
}

func (e *Error) Error() string {
	var b strings.Builder
	b.WriteString("pkc: ")
	if e.Op != "" {
		b.WriteString(e.Op)
		b.WriteString(": ")
	}
	if e.Kind != nil {
		b.WriteString(e.Kind.Error())
	} else {
		b.WriteString("error")
	}
	if e.Field != "" {
		fmt.Fprintf(&b, " (field %q)", e.Field)
	}
	if e.Err != nil {
		b.WriteString(": ")
		b.WriteString(e.Err.Error())
	}
	return b.String()
}

func (e *Error) Unwrap() []error {
	errs := make([]error, 0, 2)
	if e.Kind != nil {
		errs = append(errs, e.Kind)
	}
	if e.Err != nil {
		errs = append(errs, e.Err)
	}
	return errs
}

// E wraps err as an Error of the given kind. If err is already an *Error of
// the same kind it is returned unchanged so that engine boundaries do not
// stack identical layers.
func E(op string, kind error, err error) error {
	var pe *Error
	if errors.As(err, &pe) && pe.Kind == kind {
		return err
	}
	return &Error{Kind: kind, Op: op, Err: err}
}

// Errorf creates an Error of the given kind with a formatted cause.
func Errorf(op string, kind error, format string, args ...any) error {
	return &Error{Kind: kind, Op: op, Err: fmt.Errorf(format, args...)}
}

// MissingField reports an absent envelope field.
func MissingField(op, field string) error {
	return &Error{Kind: ErrMissingField, Op: op, Field: field}
}

// FieldError reports a malformed field of the given kind.
func FieldError(op string, kind error, field string, err error) error {
	return &Error{Kind: kind, Op: op, Field: field, Err: err}
}
