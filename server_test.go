package httpd

import (
	"bufio"
	"bytes"
	"io"
	"net"
	nethttp "net/http"
	"strings"
	"sync"
	"testing"
	"time"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/talostrading/httpd/codec/http"
	"github.com/talostrading/httpd/httpderrors"
)

func startTestServer(t *testing.T) *Server {
	t.Helper()

	cfg := DefaultConfig()
	cfg.Host = "127.0.0.1"
	cfg.Port = 0
	cfg.Workers = 2
	cfg.NoDelay = true
	cfg.Logger = zerolog.Nop()

	s, err := New(cfg)
	require.NoError(t, err)

	s.RegisterHandler("/", http.Get, textHandler("hello"))
	s.RegisterHandler("/", http.Head, textHandler("hello"))
	s.RegisterHandler("/Echo", http.Post, func(req *http.Request) (*http.Response, error) {
		res := http.NewResponse(http.StatusOK)
		res.SetBody(req.Body)
		return res, nil
	})

	require.NoError(t, s.Start())
	t.Cleanup(func() {
		if s.Running() {
			s.Stop()
		}
	})
	return s
}

type testClient struct {
	conn net.Conn
	br   *bufio.Reader
}

func dial(t *testing.T, s *Server) *testClient {
	t.Helper()

	conn, err := net.Dial("tcp", s.Addr().String())
	require.NoError(t, err)
	t.Cleanup(func() { conn.Close() })
	require.NoError(t, conn.SetDeadline(time.Now().Add(5*time.Second)))

	return &testClient{conn: conn, br: bufio.NewReader(conn)}
}

func (c *testClient) do(t *testing.T, method, raw string) (*nethttp.Response, string) {
	t.Helper()

	_, err := c.conn.Write([]byte(raw))
	require.NoError(t, err)

	res, err := nethttp.ReadResponse(c.br, &nethttp.Request{Method: method})
	require.NoError(t, err)
	defer res.Body.Close()

	body, err := io.ReadAll(res.Body)
	require.NoError(t, err)
	return res, string(body)
}

func TestServerKeepAlive(t *testing.T) {
	s := startTestServer(t)
	c := dial(t, s)

	for i := 0; i < 5; i++ {
		res, body := c.do(t, "GET", "GET / HTTP/1.1\r\nHost: localhost\r\n\r\n")
		assert.Equal(t, 200, res.StatusCode)
		assert.Equal(t, "hello", body)
		assert.Equal(t, "text/plain", res.Header.Get("Content-Type"))
	}

	res, body := c.do(t, "POST", "POST /echo HTTP/1.1\r\nContent-Length: 4\r\n\r\nping")
	assert.Equal(t, 200, res.StatusCode)
	assert.Equal(t, "ping", body)

	res, body = c.do(t, "HEAD", "HEAD / HTTP/1.1\r\n\r\n")
	assert.Equal(t, 200, res.StatusCode)
	assert.Equal(t, int64(5), res.ContentLength)
	assert.Empty(t, body)
}

func TestServerErrorsKeepConnection(t *testing.T) {
	s := startTestServer(t)
	c := dial(t, s)

	res, body := c.do(t, "GET", "GET /\r\n\r\n")
	assert.Equal(t, 400, res.StatusCode)
	assert.Contains(t, body, "invalid start line format")

	res, _ = c.do(t, "GET", "GET /nowhere HTTP/1.1\r\n\r\n")
	assert.Equal(t, 404, res.StatusCode)
	assert.Equal(t, int64(0), res.ContentLength)

	res, _ = c.do(t, "DELETE", "DELETE / HTTP/1.1\r\n\r\n")
	assert.Equal(t, 405, res.StatusCode)

	res, body = c.do(t, "GET", "GET / HTTP/1.0\r\n\r\n")
	assert.Equal(t, 505, res.StatusCode)
	assert.Equal(t, "http version HTTP/1.0 not supported", body)

	res, _ = c.do(t, "POST", "POST /echo HTTP/1.1\r\nTransfer-Encoding: chunked\r\n\r\n")
	assert.Equal(t, 501, res.StatusCode)

	res, body = c.do(t, "GET", "GET / HTTP/1.1\r\n\r\n")
	assert.Equal(t, 200, res.StatusCode)
	assert.Equal(t, "hello", body)
}

func TestServerOversizedRequest(t *testing.T) {
	s := startTestServer(t)
	c := dial(t, s)

	raw := []byte("POST /echo HTTP/1.1\r\n\r\n")
	raw = append(raw, bytes.Repeat([]byte("x"), MaxBufferSize-len(raw))...)

	res, body := c.do(t, "POST", string(raw))
	assert.Equal(t, 413, res.StatusCode)
	assert.True(t, res.Close)
	assert.True(t, strings.HasPrefix(body, "request exceeds"))

	_, err := c.br.ReadByte()
	assert.Error(t, err)
}

func TestServerManyClients(t *testing.T) {
	s := startTestServer(t)

	var wg sync.WaitGroup
	for i := 0; i < 8; i++ {
		c := dial(t, s)
		wg.Add(1)
		go func() {
			defer wg.Done()
			for j := 0; j < 20; j++ {
				if _, err := c.conn.Write([]byte("GET / HTTP/1.1\r\n\r\n")); err != nil {
					t.Error(err)
					return
				}
				res, err := nethttp.ReadResponse(c.br, nil)
				if err != nil {
					t.Error(err)
					return
				}
				io.Copy(io.Discard, res.Body)
				res.Body.Close()
				if res.StatusCode != 200 {
					t.Errorf("unexpected status %d", res.StatusCode)
				}
			}
		}()
	}
	wg.Wait()

	require.NoError(t, s.Stop())
	st := s.Stats()
	assert.Equal(t, uint64(8), st.Accepted)
	assert.Equal(t, uint64(160), st.Requests)
	assert.Equal(t, int64(160), st.Latency.Count)
	assert.LessOrEqual(t, st.Latency.P50, st.Latency.P99)
}

func TestServerStopClosesConnections(t *testing.T) {
	s := startTestServer(t)
	c := dial(t, s)

	res, _ := c.do(t, "GET", "GET / HTTP/1.1\r\n\r\n")
	assert.Equal(t, 200, res.StatusCode)

	require.NoError(t, s.Stop())
	assert.False(t, s.Running())
	assert.Nil(t, s.Addr())

	_, err := c.br.ReadByte()
	assert.Error(t, err)
}

func TestServerStartStop(t *testing.T) {
	s := startTestServer(t)

	assert.ErrorIs(t, s.Start(), httpderrors.ErrServerRunning)
	require.NoError(t, s.Stop())
	assert.ErrorIs(t, s.Stop(), httpderrors.ErrServerStopped)

	require.NoError(t, s.Start())
	c := dial(t, s)
	res, body := c.do(t, "GET", "GET / HTTP/1.1\r\n\r\n")
	assert.Equal(t, 200, res.StatusCode)
	assert.Equal(t, "hello", body)
}

func TestNewRejectsInvalidConfig(t *testing.T) {
	cfg := DefaultConfig()
	cfg.Workers = 0

	_, err := New(cfg)
	assert.Error(t, err)
}
