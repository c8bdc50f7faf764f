package internal

// Readiness is the outcome of one readiness notification, reduced to a
// closed set so that combined event masks are never mistaken for a plain
// read or write.
type Readiness uint8

const (
	Readable Readiness = iota
	Writable
	Errored
	HungUp
	Other
)

func (r Readiness) String() string {
	switch r {
	case Readable:
		return "readable"
	case Writable:
		return "writable"
	case Errored:
		return "error"
	case HungUp:
		return "hangup"
	default:
		return "other"
	}
}

// Event is a single ready descriptor reported by the Poller.
type Event struct {
	Fd    int
	Flags PollFlags
}
