//go:build linux

package internal

import (
	"fmt"
	"net"
	"os"
	"strconv"

	"github.com/talostrading/httpd/httpderrors"
	"github.com/talostrading/httpd/httpdopts"
	"golang.org/x/sys/unix"
)

var ListenBacklog = 1000

func CreateSocket(addr *net.TCPAddr) (int, error) {
	domain := unix.AF_INET
	if addr.IP.To4() == nil && len(addr.IP) == net.IPv6len {
		domain = unix.AF_INET6
	}

	fd, err := unix.Socket(domain, unix.SOCK_STREAM|unix.SOCK_CLOEXEC, 0)
	if err != nil {
		return -1, os.NewSyscallError("socket", err)
	}
	return fd, nil
}

// ListenTCP creates, configures, binds and listens on a TCP socket for
// host:port. An empty host binds every interface.
func ListenTCP(host string, port uint16, backlog int, opts ...httpdopts.Option) (fd int, err error) {
	localAddr, err := net.ResolveTCPAddr("tcp", net.JoinHostPort(host, strconv.Itoa(int(port))))
	if err != nil {
		return -1, err
	}

	fd, err = CreateSocket(localAddr)
	if err != nil {
		return -1, err
	}

	if err := ApplyOpts(fd, opts...); err != nil {
		unix.Close(fd)
		return -1, err
	}

	if err := unix.Bind(fd, ToSockaddr(localAddr)); err != nil {
		unix.Close(fd)
		return -1, os.NewSyscallError("bind", err)
	}

	if backlog <= 0 {
		backlog = ListenBacklog
	}
	if err := unix.Listen(fd, backlog); err != nil {
		unix.Close(fd)
		return -1, os.NewSyscallError("listen", err)
	}

	return fd, nil
}

func ApplyOpts(fd int, opts ...httpdopts.Option) error {
	for _, opt := range opts {
		v := opt.Value().(bool)

		switch t := opt.Type(); t {
		case httpdopts.TypeNonblocking:
			if err := unix.SetNonblock(fd, v); err != nil {
				return os.NewSyscallError(fmt.Sprintf("set_nonblock(%v)", v), err)
			}
		case httpdopts.TypeReuseAddr:
			if err := unix.SetsockoptInt(fd, unix.SOL_SOCKET, unix.SO_REUSEADDR, boolToInt(v)); err != nil {
				return os.NewSyscallError(fmt.Sprintf("reuse_address(%v)", v), err)
			}
		case httpdopts.TypeReusePort:
			if err := unix.SetsockoptInt(fd, unix.SOL_SOCKET, unix.SO_REUSEPORT, boolToInt(v)); err != nil {
				return os.NewSyscallError(fmt.Sprintf("reuse_port(%v)", v), err)
			}
		case httpdopts.TypeNoDelay:
			if err := unix.SetsockoptInt(fd, unix.IPPROTO_TCP, unix.TCP_NODELAY, boolToInt(v)); err != nil {
				return os.NewSyscallError(fmt.Sprintf("tcp_no_delay(%v)", v), err)
			}
		default:
			return fmt.Errorf("unsupported socket option %s", t)
		}
	}

	return nil
}

// Accept takes one pending connection off the listening socket. The new
// descriptor is already non-blocking.
func Accept(fd int) (int, error) {
	nfd, _, err := unix.Accept4(fd, unix.SOCK_NONBLOCK|unix.SOCK_CLOEXEC)
	if err != nil {
		if err == unix.EAGAIN || err == unix.EWOULDBLOCK {
			return -1, httpderrors.ErrWouldBlock
		}
		return -1, os.NewSyscallError("accept4", err)
	}
	return nfd, nil
}

// Recv performs one non-blocking read into b. A closed peer is reported as
// httpderrors.ErrPeerClosed.
func Recv(fd int, b []byte) (int, error) {
	n, err := unix.Read(fd, b)
	if err != nil {
		if err == unix.EAGAIN || err == unix.EWOULDBLOCK {
			return 0, httpderrors.ErrWouldBlock
		}
		return 0, os.NewSyscallError("recv", err)
	}
	if n == 0 && len(b) > 0 {
		return 0, httpderrors.ErrPeerClosed
	}
	return n, nil
}

// Send performs one non-blocking write of b and returns how many bytes the
// kernel took.
func Send(fd int, b []byte) (int, error) {
	n, err := unix.SendmsgN(fd, b, nil, nil, unix.MSG_NOSIGNAL)
	if err != nil {
		if err == unix.EAGAIN || err == unix.EWOULDBLOCK {
			return 0, httpderrors.ErrWouldBlock
		}
		return 0, os.NewSyscallError("send", err)
	}
	return n, nil
}

func SocketAddress(fd int) (net.Addr, error) {
	addr, err := unix.Getsockname(fd)
	if err != nil {
		return nil, os.NewSyscallError("getsockname", err)
	}
	return FromSockaddrTCP(addr), nil
}

func boolToInt(v bool) int {
	if v {
		return 1
	}
	return 0
}
