package http

import (
	"bytes"

	"github.com/valyala/bytebufferpool"
)

func EncodeResponseLine(res *Response, dst *bytebufferpool.ByteBuffer) {
	dst.WriteString(res.Version.String())
	dst.WriteString(" ")
	dst.WriteString(res.Status.Code())
	dst.WriteString(" ")
	dst.WriteString(res.Status.String())
	dst.WriteString(CRLF)
}

// SerializeTo appends the wire form of res to dst. The body is left out when
// includeBody is false, which is how HEAD requests are answered; the header,
// including any Content-Length, is written either way.
func SerializeTo(dst *bytebufferpool.ByteBuffer, res *Response, includeBody bool) error {
	if res.Version == "" {
		res.Version = ServerVersion
	}

	// status-line
	EncodeResponseLine(res, dst)

	// header
	if res.Header == nil {
		dst.WriteString(CRLF)
	} else if _, err := res.Header.WriteTo(dst); err != nil {
		return err
	}

	// body
	if includeBody {
		if _, err := dst.Write(res.Body); err != nil {
			return err
		}
	}

	return nil
}

// Serialize returns the wire form of res.
func Serialize(res *Response, includeBody bool) []byte {
	b := bytebufferpool.Get()
	defer bytebufferpool.Put(b)

	_ = SerializeTo(b, res, includeBody)
	return bytes.Clone(b.B)
}
