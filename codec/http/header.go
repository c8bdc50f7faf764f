package http

import (
	"io"
	"sort"
	"strings"
)

const headerDelim = ": "

// Header maps field names to values. Names keep their case; setting a name
// twice keeps the last value.
type Header map[string]string

func NewHeader() Header {
	return make(Header)
}

func (h Header) Set(key, value string) {
	h[key] = value
}

func (h Header) Get(key string) string {
	return h[key]
}

// Lookup finds key ignoring case.
func (h Header) Lookup(key string) (string, bool) {
	if v, ok := h[key]; ok {
		return v, true
	}
	for k, v := range h {
		if strings.EqualFold(k, key) {
			return v, true
		}
	}
	return "", false
}

func (h Header) Del(key string) {
	delete(h, key)
}

func (h Header) Has(key string) bool {
	_, ok := h[key]
	return ok
}

func (h Header) Len() int {
	return len(h)
}

func (h Header) Reset() {
	for k := range h {
		delete(h, k)
	}
}

// Keys returns the field names in lexicographic order, which is also the
// order in which they are written on the wire.
func (h Header) Keys() []string {
	keys := make([]string, 0, len(h))
	for k := range h {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	return keys
}

// WriteTo writes every field as "key: value\r\n" followed by the blank line
// ending the header block.
func (h Header) WriteTo(w io.Writer) (int64, error) {
	var total int64
	for _, k := range h.Keys() {
		n, err := io.WriteString(w, k+headerDelim+h[k]+CRLF)
		total += int64(n)
		if err != nil {
			return total, err
		}
	}
	n, err := io.WriteString(w, CRLF)
	total += int64(n)
	return total, err
}

// DecodeHeaderLine splits line on its first colon. Every whitespace byte is
// removed from both halves, including whitespace inside the value. A line
// without a colon yields the whole line as key and an empty value.
func DecodeHeaderLine(line []byte) (key, value string) {
	for i, c := range line {
		if c == ':' {
			return stripSpace(line[:i]), stripSpace(line[i+1:])
		}
	}
	return stripSpace(line), ""
}

func stripSpace(b []byte) string {
	var sb strings.Builder
	sb.Grow(len(b))
	for _, c := range b {
		switch c {
		case ' ', '\t', '\n', '\v', '\f', '\r':
		default:
			sb.WriteByte(c)
		}
	}
	return sb.String()
}
