package bir

import (
	"errors"
	"fmt"
)

// Decode error codes. UnknownVariant is a malformation of a tagged union
// specifically: zero branches, several branches, or a branch tag outside
// the known set.
const (
	ErrMalformedEncoding = "MALFORMED_ENCODING"
	ErrUnknownVariant    = "UNKNOWN_VARIANT"
)

// DecodeError reports bytes that do not parse as the declared schema.
// Subject names the message being decoded when the failure was found.
type DecodeError struct {
	Code    string
	Subject string
	Message string
}

func (e *DecodeError) Error() string {
	return fmt.Sprintf("decode %s: [%s] %s", e.Subject, e.Code, e.Message)
}

// IsMalformedEncoding reports whether err is a structural decode failure.
func IsMalformedEncoding(err error) bool {
	var e *DecodeError
	return errors.As(err, &e) && e.Code == ErrMalformedEncoding
}

// IsUnknownVariant reports whether err is a union-branch decode failure.
func IsUnknownVariant(err error) bool {
	var e *DecodeError
	return errors.As(err, &e) && e.Code == ErrUnknownVariant
}

func malformed(subject, format string, args ...any) *DecodeError {
	return &DecodeError{Code: ErrMalformedEncoding, Subject: subject, Message: fmt.Sprintf(format, args...)}
}

func unknownVariant(subject, format string, args ...any) *DecodeError {
	return &DecodeError{Code: ErrUnknownVariant, Subject: subject, Message: fmt.Sprintf(format, args...)}
}

// EncodeError reports input the wire schema cannot represent, such as a
// reserved enum code or an interval bound without a level. Well-formed
// instantiations always encode.
type EncodeError struct {
	Subject string
	Message string
}

func (e *EncodeError) Error() string {
	return fmt.Sprintf("encode %s: %s", e.Subject, e.Message)
}

// IsEncodeError reports whether err is an EncodeError.
func IsEncodeError(err error) bool {
	var e *EncodeError
	return errors.As(err, &e)
}

func unencodable(subject, format string, args ...any) *EncodeError {
	return &EncodeError{Subject: subject, Message: fmt.Sprintf(format, args...)}
}
