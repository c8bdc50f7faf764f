package httpd

import (
	"net"

	"github.com/talostrading/httpd/httpdopts"
	"github.com/talostrading/httpd/internal"
	"golang.org/x/sys/unix"
)

// Listener owns one bound, listening, non-blocking socket.
type Listener struct {
	host    string
	port    uint16
	backlog int
	opts    []httpdopts.Option
	fd      int
}

// NewListener prepares a listener on host:port. Address and port reuse and
// non-blocking mode are on unless opts override them.
func NewListener(host string, port uint16, opts ...httpdopts.Option) *Listener {
	defaults := []httpdopts.Option{
		httpdopts.Nonblocking(true),
		httpdopts.ReuseAddr(true),
		httpdopts.ReusePort(true),
	}
	for _, opt := range opts {
		defaults = httpdopts.Merge(defaults, opt)
	}

	return &Listener{
		host:    host,
		port:    port,
		backlog: internal.ListenBacklog,
		opts:    defaults,
		fd:      -1,
	}
}

// Start creates, configures, binds and listens. A failure leaves no
// descriptor behind.
func (l *Listener) Start() error {
	fd, err := internal.ListenTCP(l.host, l.port, l.backlog, l.opts...)
	if err != nil {
		return err
	}
	l.fd = fd
	return nil
}

func (l *Listener) RawFd() int {
	return l.fd
}

// Addr is the bound address, which carries the actual port when the
// listener was created with port 0.
func (l *Listener) Addr() net.Addr {
	if l.fd < 0 {
		return nil
	}
	addr, err := internal.SocketAddress(l.fd)
	if err != nil {
		return nil
	}
	return addr
}

func (l *Listener) Close() error {
	if l.fd < 0 {
		return nil
	}
	err := unix.Close(l.fd)
	l.fd = -1
	return err
}
