package http

import "strings"

// URI identifies a route. Only the path is ever populated; it is lower-cased
// on construction so that lookups are case-insensitive. Scheme, host and port
// are reserved.
type URI struct {
	path   string
	scheme string
	host   string
	port   uint16
}

func NewURI(path string) URI {
	return URI{path: strings.ToLower(path)}
}

func (u URI) Path() string   { return u.path }
func (u URI) Scheme() string { return u.scheme }
func (u URI) Host() string   { return u.host }
func (u URI) Port() uint16   { return u.port }

// Less orders URIs by path.
func (u URI) Less(other URI) bool {
	return u.path < other.path
}

func (u URI) String() string {
	return u.path
}
