package http

import (
	"bytes"
	"fmt"

	"github.com/valyala/bytebufferpool"
)

// Parse decodes one complete request held in raw. The start line ends at the
// first CRLF; the header block ends at the first blank line, and whatever
// follows it is the body. Without a blank line the request has no header and
// no body. On failure the error is a *ParseError.
func Parse(raw []byte) (*Request, error) {
	end := bytes.Index(raw, crlf)
	if end < 0 {
		return nil, &ParseError{
			Kind:   StructuralError,
			Reason: "could not find request start line",
		}
	}

	req := NewRequest()
	if err := DecodeRequestLine(raw[:end], req); err != nil {
		return nil, err
	}

	// The separator search starts at the start line terminator so that a
	// request without header fields still has its body located.
	var headerBlock []byte
	if sep := bytes.Index(raw[end:], separator); sep >= 0 {
		sep += end
		if sep > end {
			headerBlock = raw[end+len(crlf) : sep]
		}
		if body := raw[sep+len(separator):]; len(body) > 0 {
			req.Body = bytes.Clone(body)
		}
	}

	for len(headerBlock) > 0 {
		var line []byte
		if i := bytes.IndexByte(headerBlock, '\n'); i >= 0 {
			line, headerBlock = headerBlock[:i], headerBlock[i+1:]
		} else {
			line, headerBlock = headerBlock, nil
		}

		key, value := DecodeHeaderLine(line)
		if key == "" {
			continue
		}
		req.Header.Set(key, value)
	}

	if _, ok := req.Header.Lookup("Transfer-Encoding"); ok {
		return nil, &ParseError{
			Kind:   UnsupportedRequest,
			Reason: "transfer encodings are not supported",
		}
	}

	return req, nil
}

// DecodeRequestLine splits line on whitespace into method, target and
// version. Tokens past the third are ignored.
func DecodeRequestLine(line []byte, into *Request) (err error) {
	tokens := bytes.Fields(line)
	if len(tokens) < 3 {
		return &ParseError{
			Kind:   StructuralError,
			Reason: fmt.Sprintf("invalid start line format %q", line),
		}
	}

	into.Method, err = ParseMethod(tokens[0])
	if err != nil {
		return err
	}

	into.URI = NewURI(string(tokens[1]))

	into.Version, err = ParseVersion(tokens[2])
	if err != nil {
		return err
	}
	if into.Version != ServerVersion {
		return &ParseError{
			Kind:   VersionMismatch,
			Reason: fmt.Sprintf("http version %s not supported", into.Version),
		}
	}

	return nil
}

func EncodeRequestLine(req *Request, dst *bytebufferpool.ByteBuffer) {
	dst.WriteString(req.Method.String())
	dst.WriteString(" ")
	dst.WriteString(req.URI.Path())
	dst.WriteString(" ")
	dst.WriteString(req.Version.String())
	dst.WriteString(CRLF)
}

// EncodeRequestTo appends the wire form of req to dst.
func EncodeRequestTo(dst *bytebufferpool.ByteBuffer, req *Request) error {
	EncodeRequestLine(req, dst)
	if _, err := req.Header.WriteTo(dst); err != nil {
		return err
	}
	_, err := dst.Write(req.Body)
	return err
}

// EncodeRequest returns the wire form of req.
func EncodeRequest(req *Request) []byte {
	b := bytebufferpool.Get()
	defer bytebufferpool.Put(b)

	_ = EncodeRequestTo(b, req)
	return bytes.Clone(b.B)
}
