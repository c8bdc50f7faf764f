package httpd

import (
	"net"
	"sync"
	"sync/atomic"
	"time"

	"github.com/pkg/errors"
	"github.com/rs/zerolog"
	"github.com/talostrading/httpd/codec/http"
	"github.com/talostrading/httpd/httpderrors"
	"github.com/talostrading/httpd/httpdopts"
	"github.com/talostrading/httpd/internal"
	"github.com/talostrading/httpd/util"
)

// Server is an HTTP/1.1 server made of one acceptor goroutine and a fixed
// pool of reactors. Handlers should be registered before Start.
type Server struct {
	cfg    Config
	router *Router
	log    zerolog.Logger

	// lck serializes Start and Stop.
	lck sync.Mutex

	running  atomic.Bool
	listener *Listener
	workers  []*Reactor
	wg       sync.WaitGroup

	stats   counters
	latency Latency
}

func New(cfg Config) (*Server, error) {
	if err := cfg.Validate(); err != nil {
		return nil, errors.Wrap(err, "invalid config")
	}

	s := &Server{
		cfg:    cfg,
		router: NewRouter(),
		log:    cfg.Logger,
	}
	return s, nil
}

// RegisterHandler routes (path, method) to h. The path is matched
// case-insensitively.
func (s *Server) RegisterHandler(path string, method http.Method, h HandlerFunc) {
	s.RegisterURI(http.NewURI(path), method, h)
}

func (s *Server) RegisterURI(uri http.URI, method http.Method, h HandlerFunc) {
	s.router.Register(uri, method, h)
}

func (s *Server) Router() *Router {
	return s.router
}

// Start binds the listener, creates the reactors and launches the acceptor
// and worker goroutines. A failure leaves the server stopped.
func (s *Server) Start() (err error) {
	s.lck.Lock()
	defer s.lck.Unlock()

	if s.running.Load() {
		return httpderrors.ErrServerRunning
	}

	listener := NewListener(s.cfg.Host, s.cfg.Port)
	listener.backlog = s.cfg.Backlog
	if err := listener.Start(); err != nil {
		return errors.Wrap(err, "start listener")
	}
	defer func() {
		if err != nil {
			listener.Close()
		}
	}()

	workers := make([]*Reactor, 0, s.cfg.Workers)
	defer func() {
		if err != nil {
			for _, w := range workers {
				w.poller.Close()
			}
		}
	}()
	for i := 0; i < s.cfg.Workers; i++ {
		w, err := newReactor(i, s.cfg, s.router, &s.running, &s.stats)
		if err != nil {
			return errors.Wrapf(err, "create worker %d", i)
		}
		workers = append(workers, w)
	}

	backoff, err := internal.NewBackoff(s.cfg.IdleBackoffMin, s.cfg.IdleBackoffMax, uint64(time.Now().UnixNano()))
	if err != nil {
		return errors.Wrap(err, "create acceptor")
	}
	acc := &acceptor{
		listener: listener,
		workers:  workers,
		opts:     []httpdopts.Option{httpdopts.NoDelay(s.cfg.NoDelay)},
		backoff:  backoff,
		running:  &s.running,
		stats:    &s.stats,
		log:      s.log.With().Str("component", "acceptor").Logger(),
	}

	s.listener = listener
	s.workers = workers
	s.running.Store(true)

	for _, w := range workers {
		s.wg.Add(1)
		go s.runWorker(w)
	}
	s.wg.Add(1)
	go func() {
		defer s.wg.Done()
		acc.run()
	}()

	s.log.Info().
		Str("addr", addrString(listener.Addr())).
		Int("workers", len(workers)).
		Int("routes", len(s.router.URIs())).
		Msg("server started")
	return nil
}

func (s *Server) runWorker(w *Reactor) {
	defer s.wg.Done()

	if s.cfg.PinWorkers {
		cpu, err := util.PinThread(w.ID())
		if err != nil {
			w.log.Warn().Err(err).Msg("cannot pin worker")
		} else {
			w.log.Debug().Int("cpu", cpu).Msg("worker pinned")
		}
	}
	w.Run()
}

// Stop clears the running flag, waits for every goroutine to leave its loop,
// then closes the epoll instances and the listener. Connections still open
// are closed without flushing pending responses.
func (s *Server) Stop() error {
	s.lck.Lock()
	defer s.lck.Unlock()

	if !s.running.Load() {
		return httpderrors.ErrServerStopped
	}

	s.running.Store(false)
	s.wg.Wait()

	var firstErr error
	merged := newLatencyHistogram()
	for _, w := range s.workers {
		merged.Merge(w.latency)
		if err := w.poller.Close(); err != nil && firstErr == nil {
			firstErr = errors.Wrapf(err, "close worker %d", w.ID())
		}
	}
	if err := s.listener.Close(); err != nil && firstErr == nil {
		firstErr = errors.Wrap(err, "close listener")
	}

	s.latency = summarize(merged)
	s.workers = nil

	s.log.Info().
		Uint64("requests", s.stats.requests.Load()).
		Int64("p99_us", s.latency.P99).
		Msg("server stopped")
	return firstErr
}

func (s *Server) Running() bool {
	return s.running.Load()
}

// Addr is the bound address while the server runs.
func (s *Server) Addr() net.Addr {
	s.lck.Lock()
	defer s.lck.Unlock()

	if s.listener == nil || !s.running.Load() {
		return nil
	}
	return s.listener.Addr()
}

func (s *Server) Stats() Stats {
	st := s.stats.snapshot()

	s.lck.Lock()
	st.Latency = s.latency
	s.lck.Unlock()

	return st
}

func addrString(addr net.Addr) string {
	if addr == nil {
		return ""
	}
	return addr.String()
}

