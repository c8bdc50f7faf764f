package http

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParseValidRequest(t *testing.T) {
	raw := "GET /Host HTTP/1.1\r\n" +
		"Content-Length: 10\r\n" +
		"Something: 10\r\n" +
		"\r\n" +
		"0123456789"

	req, err := Parse([]byte(raw))
	require.NoError(t, err)

	assert := assert.New(t)
	assert.Equal(Get, req.Method)
	assert.Equal("/host", req.URI.Path())
	assert.Equal(Version11, req.Version)
	assert.Equal("10", req.Header.Get("Content-Length"))
	assert.Equal("10", req.Header.Get("Something"))
	assert.Equal(2, req.Header.Len())
	assert.Equal("0123456789", string(req.Body))
}

func TestParseIgnoresCase(t *testing.T) {
	req, err := Parse([]byte("get /A http/1.1\r\n\r\n"))
	require.NoError(t, err)

	assert.Equal(t, Get, req.Method)
	assert.Equal(t, NewURI("/a"), req.URI)
	assert.Equal(t, Version11, req.Version)
}

func TestParseStartLineOnly(t *testing.T) {
	req, err := Parse([]byte("DELETE /x HTTP/1.1\r\n"))
	require.NoError(t, err)

	assert.Equal(t, Delete, req.Method)
	assert.Equal(t, 0, req.Header.Len())
	assert.Nil(t, req.Body)
}

func TestParseBodyWithoutHeader(t *testing.T) {
	req, err := Parse([]byte("POST /x HTTP/1.1\r\n\r\nhello"))
	require.NoError(t, err)

	assert.Equal(t, 0, req.Header.Len())
	assert.Equal(t, "hello", string(req.Body))
}

func TestParseBodyIsCopied(t *testing.T) {
	raw := []byte("POST /x HTTP/1.1\r\n\r\nhello")
	req, err := Parse(raw)
	require.NoError(t, err)

	copy(raw[len(raw)-5:], "HELLO")
	assert.Equal(t, "hello", string(req.Body))
}

func TestParseStripsHeaderWhitespace(t *testing.T) {
	raw := "GET / HTTP/1.1\r\n" +
		"  X-Key \t:  a b\tc  \r\n" +
		"NoColon\r\n" +
		": orphan\r\n" +
		"\r\n"

	req, err := Parse([]byte(raw))
	require.NoError(t, err)

	assert := assert.New(t)
	assert.Equal("abc", req.Header.Get("X-Key"))
	v, ok := req.Header.Lookup("NoColon")
	assert.True(ok)
	assert.Equal("", v)
	assert.Equal(2, req.Header.Len())
}

func TestParseLastHeaderWins(t *testing.T) {
	req, err := Parse([]byte("GET / HTTP/1.1\r\nA: 1\r\nA: 2\r\n\r\n"))
	require.NoError(t, err)
	assert.Equal(t, "2", req.Header.Get("A"))
}

func TestParseErrors(t *testing.T) {
	cases := []struct {
		name   string
		raw    string
		kind   ParseErrorKind
		status Status
	}{
		{"no crlf", "GET / HTTP/1.1", StructuralError, StatusBadRequest},
		{"empty", "", StructuralError, StatusBadRequest},
		{"two tokens", "GET /\r\n\r\n", StructuralError, StatusBadRequest},
		{"unknown method", "FETCH / HTTP/1.1\r\n\r\n", UnknownMethod, StatusBadRequest},
		{"unknown version", "GET / HTTP/3.0\r\n\r\n", UnknownVersion, StatusBadRequest},
		{"http 1.0", "GET / HTTP/1.0\r\n\r\n", VersionMismatch, StatusHTTPVersionNotSupported},
		{"http 2", "GET / HTTP/2\r\n\r\n", VersionMismatch, StatusHTTPVersionNotSupported},
		{"chunked", "POST / HTTP/1.1\r\ntransfer-encoding: chunked\r\n\r\n", UnsupportedRequest, StatusNotImplemented},
	}

	for _, c := range cases {
		t.Run(c.name, func(t *testing.T) {
			req, err := Parse([]byte(c.raw))
			require.Error(t, err)
			assert.Nil(t, req)

			perr, ok := AsParseError(err)
			require.True(t, ok)
			assert.Equal(t, c.kind, perr.Kind)
			assert.Equal(t, c.status, perr.Kind.Status())
		})
	}
}

func TestVersionMismatchReason(t *testing.T) {
	_, err := Parse([]byte("GET / HTTP/1.0\r\n\r\n"))
	require.Error(t, err)
	assert.Equal(t, "http version HTTP/1.0 not supported", err.Error())
}

func TestEncodeRequestRoundTrip(t *testing.T) {
	req := NewRequest()
	req.Method = Post
	req.URI = NewURI("/submit")
	req.Header.Set("Content-Length", "5")
	req.Header.Set("Accept", "*/*")
	req.Body = []byte("hello")

	wire := EncodeRequest(req)
	assert.Equal(t,
		"POST /submit HTTP/1.1\r\nAccept: */*\r\nContent-Length: 5\r\n\r\nhello",
		string(wire))

	decoded, err := Parse(wire)
	require.NoError(t, err)
	assert.Equal(t, req, decoded)
}
