package http

import "errors"

type ParseErrorKind uint8

const (
	// StructuralError is a request whose start line cannot be isolated or
	// split into method, target and version.
	StructuralError ParseErrorKind = iota
	UnknownMethod
	UnknownVersion
	// VersionMismatch is a well-formed version other than ServerVersion.
	VersionMismatch
	// UnsupportedRequest is a well-formed request using a feature the server
	// does not implement, such as chunked bodies.
	UnsupportedRequest
)

func (k ParseErrorKind) String() string {
	switch k {
	case StructuralError:
		return "structural_error"
	case UnknownMethod:
		return "unknown_method"
	case UnknownVersion:
		return "unknown_version"
	case VersionMismatch:
		return "version_mismatch"
	case UnsupportedRequest:
		return "unsupported_request"
	default:
		return "unknown"
	}
}

// Status is the response status a parse failure of this kind is answered with.
func (k ParseErrorKind) Status() Status {
	switch k {
	case VersionMismatch:
		return StatusHTTPVersionNotSupported
	case UnsupportedRequest:
		return StatusNotImplemented
	default:
		return StatusBadRequest
	}
}

type ParseError struct {
	Kind   ParseErrorKind
	Reason string
}

func (e *ParseError) Error() string {
	return e.Reason
}

// AsParseError unwraps err into a *ParseError, if it is one.
func AsParseError(err error) (*ParseError, bool) {
	var perr *ParseError
	if errors.As(err, &perr) {
		return perr, true
	}
	return nil, false
}
