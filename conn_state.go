package httpd

import (
	"fmt"
	"sync"
)

// MaxBufferSize is the capacity of a connection buffer and the largest
// request a single read accepts.
const MaxBufferSize = 4096

// Phase is the owner of a connection's state at a given instant.
type Phase uint8

const (
	PhaseNone Phase = iota
	PhaseReading
	PhaseWriting
)

func (p Phase) String() string {
	switch p {
	case PhaseReading:
		return "reading"
	case PhaseWriting:
		return "writing"
	default:
		return "none"
	}
}

// ConnState is the buffer of one connection for one phase: the bytes just
// received in the read phase, or the bytes left to flush in the write phase.
type ConnState struct {
	fd     int
	buf    []byte
	cursor int // bytes already flushed
	length int // bytes left to flush

	// closeAfter closes the connection once the write phase is flushed.
	closeAfter bool
}

var statePool = sync.Pool{
	New: func() interface{} {
		return &ConnState{buf: make([]byte, MaxBufferSize)}
	},
}

func newReadState(fd int) *ConnState {
	st := statePool.Get().(*ConnState)
	st.fd = fd
	return st
}

// newWriteState copies wire into a fresh state. Responses larger than
// MaxBufferSize get a buffer of their own instead of being truncated.
func newWriteState(fd int, wire []byte, closeAfter bool) *ConnState {
	var st *ConnState
	if len(wire) <= MaxBufferSize {
		st = statePool.Get().(*ConnState)
	} else {
		st = &ConnState{buf: make([]byte, len(wire))}
	}
	st.fd = fd
	st.length = copy(st.buf, wire)
	st.closeAfter = closeAfter
	return st
}

func releaseState(st *ConnState) {
	if st == nil {
		return
	}
	st.fd = -1
	st.cursor = 0
	st.length = 0
	st.closeAfter = false
	if cap(st.buf) == MaxBufferSize {
		st.buf = st.buf[:MaxBufferSize]
		statePool.Put(st)
	}
}

func (s *ConnState) Fd() int { return s.fd }

// ReadBuffer is the region a receive may fill.
func (s *ConnState) ReadBuffer() []byte {
	return s.buf[:MaxBufferSize]
}

// Pending is the [cursor, cursor+length) slice still to be sent.
func (s *ConnState) Pending() []byte {
	return s.buf[s.cursor : s.cursor+s.length]
}

// Advance records that n pending bytes were sent.
func (s *ConnState) Advance(n int) {
	if n > s.length {
		n = s.length
	}
	s.cursor += n
	s.length -= n
}

func (s *ConnState) Cursor() int    { return s.cursor }
func (s *ConnState) Remaining() int { return s.length }
func (s *ConnState) Flushed() bool  { return s.length == 0 }

type slot struct {
	phase Phase
	state *ConnState
}

// connTable maps each descriptor owned by a worker to the phase currently
// holding its state. Every transition releases the previous state, so a
// state is only reachable through the table entry of its own phase.
type connTable struct {
	slots map[int]slot
}

func newConnTable() *connTable {
	return &connTable{slots: make(map[int]slot)}
}

// open starts the read phase of a newly assigned descriptor.
func (t *connTable) open(fd int) (*ConnState, error) {
	if _, ok := t.slots[fd]; ok {
		return nil, fmt.Errorf("fd=%d already owned", fd)
	}
	st := newReadState(fd)
	t.slots[fd] = slot{phase: PhaseReading, state: st}
	return st, nil
}

func (t *connTable) get(fd int) (Phase, *ConnState) {
	s, ok := t.slots[fd]
	if !ok {
		return PhaseNone, nil
	}
	return s.phase, s.state
}

// handoff moves fd to the next phase, releasing the state of the current one.
func (t *connTable) handoff(fd int, next Phase, st *ConnState) {
	if cur, ok := t.slots[fd]; ok {
		releaseState(cur.state)
	}
	t.slots[fd] = slot{phase: next, state: st}
}

// release drops fd and its state.
func (t *connTable) release(fd int) {
	if cur, ok := t.slots[fd]; ok {
		releaseState(cur.state)
		delete(t.slots, fd)
	}
}

func (t *connTable) len() int {
	return len(t.slots)
}

func (t *connTable) fds() []int {
	fds := make([]int, 0, len(t.slots))
	for fd := range t.slots {
		fds = append(fds, fd)
	}
	return fds
}
