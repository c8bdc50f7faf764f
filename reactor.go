package httpd

import (
	"fmt"
	"sync/atomic"
	"time"

	"github.com/HdrHistogram/hdrhistogram-go"
	"github.com/rs/zerolog"
	"github.com/talostrading/httpd/httpderrors"
	"github.com/talostrading/httpd/internal"
	"github.com/talostrading/httpd/util"
	"github.com/valyala/bytebufferpool"
	"golang.org/x/sys/unix"
)

type ioFunc func(fd int, b []byte) (int, error)

// Reactor is one worker: an epoll instance, the connections assigned to it
// and the loop that drives them. Only the reactor's own goroutine touches
// its connections; the acceptor reaches it through Assign.
type Reactor struct {
	id      int
	poller  *internal.Poller
	conns   *connTable
	router  *Router
	backoff *internal.Backoff
	running *atomic.Bool

	// incoming carries accepted descriptors from the acceptor.
	incoming chan int

	recv ioFunc
	send ioFunc

	latency *hdrhistogram.Histogram
	report  *util.TtyHist
	stats   *counters
	log     zerolog.Logger
}

func newReactor(id int, cfg Config, router *Router, running *atomic.Bool, stats *counters) (*Reactor, error) {
	poller, err := internal.NewPoller(cfg.MaxEvents)
	if err != nil {
		return nil, err
	}

	backoff, err := internal.NewBackoff(cfg.IdleBackoffMin, cfg.IdleBackoffMax, uint64(time.Now().UnixNano())+uint64(id))
	if err != nil {
		poller.Close()
		return nil, err
	}

	r := &Reactor{
		id:       id,
		poller:   poller,
		conns:    newConnTable(),
		router:   router,
		backoff:  backoff,
		running:  running,
		incoming: make(chan int, cfg.HandoffQueue),
		recv:     internal.Recv,
		send:     internal.Send,
		latency:  newLatencyHistogram(),
		stats:    stats,
		log:      cfg.Logger.With().Int("worker", id).Logger(),
	}
	if cfg.ReportWriter != nil {
		r.report = util.NewTtyHist(util.TtyHistOpts{
			Name:      fmt.Sprintf("worker-%d", id),
			Scale:     "us",
			N:         cfg.ReportSamples,
			Min:       latencyMinMicros,
			Max:       latencyMaxMicros,
			Precision: latencySigFigs,
			Writer:    cfg.ReportWriter,
		})
	}
	return r, nil
}

func (r *Reactor) ID() int {
	return r.id
}

// Assign hands an accepted descriptor to the reactor. After a nil return the
// reactor owns fd.
func (r *Reactor) Assign(fd int) error {
	select {
	case r.incoming <- fd:
		return nil
	default:
		return httpderrors.ErrWorkerBusy
	}
}

// Run drives the loop until the running flag is cleared, then closes every
// connection it still owns.
func (r *Reactor) Run() {
	for r.running.Load() {
		if r.RunOnce() == 0 {
			r.backoff.Idle()
		}
	}
	r.abandon()
}

// RunOnce registers newly assigned connections and processes one batch of
// ready events without blocking. It returns the amount of work done.
func (r *Reactor) RunOnce() int {
	n := r.adopt()

	events, err := r.poller.Wait(0)
	if err != nil {
		r.log.Error().Err(err).Msg("wait failed")
		return n
	}

	for _, ev := range events {
		r.onEvent(ev)
	}
	return n + len(events)
}

func (r *Reactor) adopt() (n int) {
	for {
		select {
		case fd := <-r.incoming:
			r.open(fd)
			n++
		default:
			return n
		}
	}
}

func (r *Reactor) open(fd int) {
	if _, err := r.conns.open(fd); err != nil {
		r.log.Warn().Err(err).Int("fd", fd).Msg("cannot adopt connection")
		unix.Close(fd)
		return
	}
	if err := r.poller.Add(fd, internal.ReadFlags); err != nil {
		r.close(fd, err)
	}
}

func (r *Reactor) onEvent(ev internal.Event) {
	switch rd := ev.Readiness(); rd {
	case internal.Readable:
		r.onReadable(ev.Fd)
	case internal.Writable:
		r.onWritable(ev.Fd)
	case internal.Errored, internal.HungUp, internal.Other:
		r.close(ev.Fd, fmt.Errorf("%s event flags=%#x", rd, uint32(ev.Flags)))
	}
}

func (r *Reactor) onReadable(fd int) {
	phase, st := r.conns.get(fd)
	if phase != PhaseReading {
		r.close(fd, fmt.Errorf("read event in %s phase", phase))
		return
	}

	buf := st.ReadBuffer()
	n, err := r.recv(fd, buf)
	switch {
	case err == nil:
		next := r.process(fd, buf[:n], n == len(buf))
		r.conns.handoff(fd, PhaseWriting, next)
		r.rearm(fd, internal.WriteFlags)
	case err == httpderrors.ErrWouldBlock:
		r.rearm(fd, internal.ReadFlags)
	default:
		r.close(fd, err)
	}
}

// process runs the HTTP pipeline on one received request and returns the
// write phase state holding the response.
func (r *Reactor) process(fd int, raw []byte, oversized bool) *ConnState {
	start := time.Now()

	dst := bytebufferpool.Get()
	defer bytebufferpool.Put(dst)

	r.stats.requests.Add(1)
	if oversized {
		r.log.Warn().Err(httpderrors.ErrBufferOverflow).Int("fd", fd).Msg("request rejected")
		writeOversized(dst)
		return newWriteState(fd, dst.B, true)
	}

	if err := HandleHTTPData(r.router, raw, dst); err != nil {
		r.stats.failures.Add(1)
		r.log.Error().Err(err).Int("fd", fd).Msg("request failed")
	}
	next := newWriteState(fd, dst.B, false)

	r.record(time.Since(start).Microseconds())
	return next
}

func (r *Reactor) onWritable(fd int) {
	phase, st := r.conns.get(fd)
	if phase != PhaseWriting {
		r.close(fd, fmt.Errorf("write event in %s phase", phase))
		return
	}

	n, err := r.send(fd, st.Pending())
	switch {
	case err == nil && n < st.Remaining():
		st.Advance(n)
		r.rearm(fd, internal.WriteFlags)
	case err == nil:
		if st.closeAfter {
			r.close(fd, nil)
			return
		}
		r.conns.handoff(fd, PhaseReading, newReadState(fd))
		r.rearm(fd, internal.ReadFlags)
	case err == httpderrors.ErrWouldBlock:
		r.rearm(fd, internal.WriteFlags)
	default:
		r.close(fd, err)
	}
}

func (r *Reactor) rearm(fd int, flags internal.PollFlags) {
	if err := r.poller.Modify(fd, flags); err != nil {
		r.close(fd, err)
	}
}

// close deregisters and closes fd and releases its state. err is the reason,
// nil for an orderly close.
func (r *Reactor) close(fd int, err error) {
	_ = r.poller.Del(fd)
	_ = unix.Close(fd)
	r.conns.release(fd)
	r.stats.closed.Add(1)

	if err != nil && err != httpderrors.ErrPeerClosed {
		r.log.Debug().Err(err).Int("fd", fd).Msg("connection torn down")
	}
}

// abandon closes every connection still owned at shutdown, including the
// ones never adopted. Pending responses are not flushed.
func (r *Reactor) abandon() {
	r.adopt()
	if n := r.conns.len(); n > 0 {
		r.log.Info().Int("connections", n).Msg("closing connections left at shutdown")
	}
	for _, fd := range r.conns.fds() {
		r.close(fd, nil)
	}
}

func (r *Reactor) record(micros int64) {
	if micros < latencyMinMicros {
		micros = latencyMinMicros
	}
	_ = r.latency.RecordValue(micros)
	if r.report != nil {
		r.report.Add(micros)
	}
}
