package http

import "strconv"

type Response struct {
	Version Version
	Status  Status
	Header  Header
	Body    []byte
}

// NewResponse returns a response carrying only a status code.
func NewResponse(status Status) *Response {
	return &Response{
		Version: ServerVersion,
		Status:  status,
		Header:  NewHeader(),
	}
}

// Text returns a plain text response with its Content-Length set.
func Text(status Status, body string) *Response {
	r := NewResponse(status)
	r.Header.Set("Content-Type", "text/plain")
	r.SetBody([]byte(body))
	return r
}

// SetBody replaces the body and sets Content-Length to match it.
func (r *Response) SetBody(b []byte) {
	r.Body = b
	r.Header.Set("Content-Length", strconv.Itoa(len(b)))
}

func (r *Response) Reset() {
	r.Version = ServerVersion
	r.Status = 0
	r.Header.Reset()
	r.Body = nil
}
