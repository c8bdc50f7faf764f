//go:build linux

package internal

import (
	"io"
	"os"
	"sync/atomic"

	"golang.org/x/sys/unix"
)

type PollFlags uint32

const (
	ReadFlags  = PollFlags(unix.EPOLLIN)
	WriteFlags = PollFlags(unix.EPOLLOUT)
	errFlags   = PollFlags(unix.EPOLLERR)
	hupFlags   = PollFlags(unix.EPOLLHUP | unix.EPOLLRDHUP)
)

// Readiness classifies the reported flags. Error and hangup take precedence;
// a mask is only Readable or Writable when it is exactly that flag.
func (e Event) Readiness() Readiness {
	switch {
	case e.Flags&errFlags != 0:
		return Errored
	case e.Flags&hupFlags != 0:
		return HungUp
	case e.Flags == ReadFlags:
		return Readable
	case e.Flags == WriteFlags:
		return Writable
	default:
		return Other
	}
}

// Poller is a level-triggered epoll instance. It is owned by exactly one
// goroutine; only Close may be called concurrently.
type Poller struct {
	// fd is the file descriptor returned by epoll_create1.
	fd int

	// events is the batch buffer handed to epoll_wait.
	events []unix.EpollEvent

	// ready holds the events of the last Wait call, in delivery order.
	ready []Event

	closed uint32
}

func NewPoller(maxEvents int) (*Poller, error) {
	if maxEvents <= 0 {
		maxEvents = 128
	}

	fd, err := unix.EpollCreate1(unix.EPOLL_CLOEXEC)
	if err != nil {
		return nil, os.NewSyscallError("epoll_create1", err)
	}

	p := &Poller{
		fd:     fd,
		events: make([]unix.EpollEvent, maxEvents),
		ready:  make([]Event, 0, maxEvents),
	}
	return p, nil
}

func (p *Poller) Fd() int {
	return p.fd
}

// Add registers fd with the given interest.
func (p *Poller) Add(fd int, flags PollFlags) error {
	return p.ctl(unix.EPOLL_CTL_ADD, fd, flags, "epoll_ctl_add")
}

// Modify replaces the interest of an already registered fd.
func (p *Poller) Modify(fd int, flags PollFlags) error {
	return p.ctl(unix.EPOLL_CTL_MOD, fd, flags, "epoll_ctl_mod")
}

// Del deregisters fd.
func (p *Poller) Del(fd int) error {
	if err := unix.EpollCtl(p.fd, unix.EPOLL_CTL_DEL, fd, nil); err != nil {
		return os.NewSyscallError("epoll_ctl_del", err)
	}
	return nil
}

func (p *Poller) ctl(op, fd int, flags PollFlags, name string) error {
	ev := unix.EpollEvent{
		Events: uint32(flags),
		Fd:     int32(fd),
	}
	if err := unix.EpollCtl(p.fd, op, fd, &ev); err != nil {
		return os.NewSyscallError(name, err)
	}
	return nil
}

// Wait returns the ready events. A timeout of zero makes it a non-blocking
// poll. The returned slice is reused by the next call.
func (p *Poller) Wait(timeoutMs int) ([]Event, error) {
	if p.Closed() {
		return nil, ErrPollerClosed
	}

	n, err := unix.EpollWait(p.fd, p.events, timeoutMs)
	if err != nil {
		if err == unix.EINTR {
			return nil, nil
		}
		return nil, os.NewSyscallError("epoll_wait", err)
	}

	p.ready = p.ready[:0]
	for i := 0; i < n; i++ {
		p.ready = append(p.ready, Event{
			Fd:    int(p.events[i].Fd),
			Flags: PollFlags(p.events[i].Events),
		})
	}
	return p.ready, nil
}

func (p *Poller) Close() error {
	if !atomic.CompareAndSwapUint32(&p.closed, 0, 1) {
		return io.EOF
	}
	return unix.Close(p.fd)
}

func (p *Poller) Closed() bool {
	return atomic.LoadUint32(&p.closed) == 1
}
