package http

type Request struct {
	Method  Method
	URI     URI
	Version Version
	Header  Header
	Body    []byte
}

func NewRequest() *Request {
	return &Request{
		Method:  Get,
		Version: ServerVersion,
		Header:  NewHeader(),
	}
}

func (r *Request) Reset() {
	r.Method = Get
	r.URI = URI{}
	r.Version = ServerVersion
	r.Header.Reset()
	r.Body = nil
}
