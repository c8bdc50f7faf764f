package httpd

import (
	"sync/atomic"

	"github.com/rs/zerolog"
	"github.com/talostrading/httpd/httpderrors"
	"github.com/talostrading/httpd/httpdopts"
	"github.com/talostrading/httpd/internal"
	"golang.org/x/sys/unix"
)

// acceptor takes connections off the listener and deals them to the workers
// in round-robin order. next is owned by the acceptor goroutine alone.
type acceptor struct {
	listener *Listener
	workers  []*Reactor
	next     int
	opts     []httpdopts.Option
	backoff  *internal.Backoff
	running  *atomic.Bool
	stats    *counters
	log      zerolog.Logger
}

// run accepts until the running flag is cleared. While connections keep
// coming it never sleeps; after a failed accept it backs off until the next
// success.
func (a *acceptor) run() {
	active := true
	for a.running.Load() {
		if !active {
			a.backoff.Idle()
		}

		fd, err := internal.Accept(a.listener.RawFd())
		if err != nil {
			if err != httpderrors.ErrWouldBlock {
				a.log.Warn().Err(err).Msg("accept failed")
			}
			active = false
			continue
		}

		active = true
		a.assign(fd)
	}
}

// pick returns the next worker and advances the round-robin index.
func (a *acceptor) pick() *Reactor {
	w := a.workers[a.next]
	a.next++
	if a.next == len(a.workers) {
		a.next = 0
	}
	return w
}

func (a *acceptor) assign(fd int) {
	if err := internal.ApplyOpts(fd, a.opts...); err != nil {
		a.log.Warn().Err(err).Int("fd", fd).Msg("cannot configure connection")
		unix.Close(fd)
		return
	}

	w := a.pick()
	if err := w.Assign(fd); err != nil {
		a.stats.rejected.Add(1)
		a.log.Warn().Err(err).Int("fd", fd).Int("worker", w.ID()).Msg("connection rejected")
		unix.Close(fd)
		return
	}
	a.stats.accepted.Add(1)
}
