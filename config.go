package httpd

import (
	"errors"
	"io"
	"os"
	"time"

	"github.com/rs/zerolog"
)

type Config struct {
	// Host and Port of the listening socket. An empty host binds every interface.
	Host string
	Port uint16

	// Workers is the number of reactors, each with its own epoll instance.
	Workers int

	// MaxEvents bounds the events returned by a single wait.
	MaxEvents int

	// Backlog of the listening socket.
	Backlog int

	// IdleBackoffMin and IdleBackoffMax bound the sleep of a loop which found
	// nothing to do.
	IdleBackoffMin time.Duration
	IdleBackoffMax time.Duration

	// NoDelay disables Nagle's algorithm on accepted connections.
	NoDelay bool

	// PinWorkers locks every reactor to its own OS thread pinned to a CPU.
	PinWorkers bool

	// HandoffQueue is the number of accepted connections that may wait for
	// a worker to pick them up.
	HandoffQueue int

	// ReportWriter receives a latency report from each worker every
	// ReportSamples requests. Reporting is off when ReportWriter is nil.
	ReportWriter  io.Writer
	ReportSamples int64

	Logger zerolog.Logger
}

func DefaultConfig() Config {
	return Config{
		Host:           "0.0.0.0",
		Port:           8080,
		Workers:        5,
		MaxEvents:      10000,
		Backlog:        1000,
		IdleBackoffMin: 10 * time.Microsecond,
		IdleBackoffMax: 100 * time.Microsecond,
		HandoffQueue:   1024,
		ReportSamples:  100000,
		Logger:         zerolog.New(os.Stderr).With().Timestamp().Logger().Level(zerolog.InfoLevel),
	}
}

func (c Config) Validate() error {
	if c.Workers <= 0 {
		return errors.New("at least one worker is required")
	}
	if c.Backlog <= 0 {
		return errors.New("backlog must be positive")
	}
	if c.MaxEvents <= 0 {
		return errors.New("max events must be positive")
	}
	if c.IdleBackoffMin < 0 || c.IdleBackoffMin > c.IdleBackoffMax {
		return errors.New("idle backoff minimum must be in [0, maximum]")
	}
	if c.HandoffQueue <= 0 {
		return errors.New("handoff queue must be positive")
	}
	if c.ReportWriter != nil && c.ReportSamples <= 0 {
		return errors.New("report samples must be positive when reporting")
	}
	return nil
}
