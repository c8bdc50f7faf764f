package http

import (
	"bytes"
	"fmt"
)

const CRLF = "\r\n"

var (
	crlf      = []byte(CRLF)
	separator = []byte(CRLF + CRLF)
)

type Method string

const (
	Get     Method = "GET"
	Head    Method = "HEAD"
	Post    Method = "POST"
	Put     Method = "PUT"
	Delete  Method = "DELETE"
	Connect Method = "CONNECT"
	Options Method = "OPTIONS"
	Trace   Method = "TRACE"
	Patch   Method = "PATCH"
)

// Methods lists every method the server understands.
var Methods = []Method{Get, Head, Post, Put, Delete, Connect, Options, Trace, Patch}

// ParseMethod matches b against the known methods, ignoring case.
func ParseMethod(b []byte) (Method, error) {
	for _, m := range Methods {
		if bytes.EqualFold([]byte(m), b) {
			return m, nil
		}
	}
	return "", &ParseError{
		Kind:   UnknownMethod,
		Reason: fmt.Sprintf("unexpected http method %q", b),
	}
}

func (m Method) String() string {
	return string(m)
}

type Version string

const (
	Version09 Version = "HTTP/0.9"
	Version10 Version = "HTTP/1.0"
	Version11 Version = "HTTP/1.1"
	Version20 Version = "HTTP/2.0"

	// ServerVersion is the only version whose semantics the server implements.
	ServerVersion = Version11
)

var Versions = []Version{Version09, Version10, Version11, Version20}

// ParseVersion matches b against the known versions, ignoring case. "HTTP/2"
// is accepted as HTTP/2.0.
func ParseVersion(b []byte) (Version, error) {
	for _, v := range Versions {
		if bytes.EqualFold([]byte(v), b) {
			return v, nil
		}
	}
	if bytes.EqualFold([]byte("HTTP/2"), b) {
		return Version20, nil
	}
	return "", &ParseError{
		Kind:   UnknownVersion,
		Reason: fmt.Sprintf("unexpected http version %q", b),
	}
}

func (v Version) String() string {
	return string(v)
}
