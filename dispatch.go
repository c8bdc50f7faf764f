package httpd

import (
	"errors"
	"fmt"

	"github.com/talostrading/httpd/codec/http"
	"github.com/valyala/bytebufferpool"
)

var errNilResponse = errors.New("handler returned no response")

// HandleHTTPData parses raw, routes the request and appends the serialized
// response to dst. Every failure becomes a response: parse failures are
// answered with the status of their kind, handler errors and panics with a
// 500. The returned error is the handler failure, if any, for logging.
func HandleHTTPData(router *Router, raw []byte, dst *bytebufferpool.ByteBuffer) error {
	var (
		res        *http.Response
		handlerErr error
	)

	req, err := http.Parse(raw)
	if err == nil {
		res, err = route(router, req)
		handlerErr = err
	}

	if err != nil {
		if perr, ok := http.AsParseError(err); ok {
			res = failure(perr.Kind.Status(), perr.Reason)
		} else {
			res = failure(http.StatusInternalServerError, err.Error())
		}
	}

	includeBody := req == nil || req.Method != http.Head
	if err := http.SerializeTo(dst, res, includeBody); err != nil {
		return err
	}
	return handlerErr
}

// route calls the handler, turning a panic into an error.
func route(router *Router, req *http.Request) (res *http.Response, err error) {
	defer func() {
		if p := recover(); p != nil {
			res, err = nil, fmt.Errorf("handler panic: %v", p)
		}
	}()

	res, err = router.Dispatch(req)
	if err == nil && res == nil {
		err = errNilResponse
	}
	return res, err
}

func failure(status http.Status, reason string) *http.Response {
	res := http.NewResponse(status)
	res.SetBody([]byte(reason))
	return res
}

// writeOversized answers a request that filled the whole connection buffer.
func writeOversized(dst *bytebufferpool.ByteBuffer) {
	res := failure(http.StatusRequestEntityTooLarge, fmt.Sprintf("request exceeds %d bytes", MaxBufferSize-1))
	res.Header.Set("Connection", "close")
	_ = http.SerializeTo(dst, res, true)
}
