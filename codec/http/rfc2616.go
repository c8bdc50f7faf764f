package http

import "strconv"

// HTTP Status-Codes
// https://www.iana.org/assignments/http-status-codes/http-status-codes.xhtml

type Status int

const (
	StatusContinue Status = 100

	StatusOK       Status = 200
	StatusAccepted Status = 202

	StatusMovedPermanently Status = 301
	StatusFound            Status = 302

	StatusBadRequest            Status = 400
	StatusForbidden             Status = 403
	StatusNotFound              Status = 404
	StatusMethodNotAllowed      Status = 405
	StatusRequestEntityTooLarge Status = 413
	StatusImATeapot             Status = 418

	StatusInternalServerError     Status = 500
	StatusNotImplemented          Status = 501
	StatusBadGateway              Status = 502
	StatusHTTPVersionNotSupported Status = 505
)

// String returns the reason phrase, or an empty string for codes outside
// the table.
func (s Status) String() string {
	switch s {
	case StatusContinue:
		return "Continue"

	case StatusOK:
		return "OK"
	case StatusAccepted:
		return "Accepted"

	case StatusMovedPermanently:
		return "Moved Permanently"
	case StatusFound:
		return "Found"

	case StatusBadRequest:
		return "Bad Request"
	case StatusForbidden:
		return "Forbidden"
	case StatusNotFound:
		return "Not Found"
	case StatusMethodNotAllowed:
		return "Method Not Allowed"
	case StatusRequestEntityTooLarge:
		return "Request Entity Too Large"
	case StatusImATeapot:
		return "I'm a Teapot"

	case StatusInternalServerError:
		return "Internal Server Error"
	case StatusNotImplemented:
		return "Not Implemented"
	case StatusBadGateway:
		return "Bad Gateway"
	case StatusHTTPVersionNotSupported:
		return "HTTP Version Not Supported"

	default:
		return ""
	}
}

func (s Status) Code() string {
	return strconv.Itoa(int(s))
}
