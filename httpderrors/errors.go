package httpderrors

import "errors"

var (
	ErrWouldBlock     = errors.New("operation would block")
	ErrPeerClosed     = errors.New("peer closed the connection")
	ErrServerRunning  = errors.New("server is already running")
	ErrServerStopped  = errors.New("server is not running")
	ErrBufferOverflow = errors.New("message does not fit the connection buffer")
	ErrWorkerBusy     = errors.New("worker cannot take more connections") // the handoff queue of the chosen worker is full
)
