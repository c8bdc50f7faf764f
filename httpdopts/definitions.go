package httpdopts

import "fmt"

type OptionType uint8

// Option is a socket option applied to a descriptor before it is bound or
// handed to a worker.
type Option interface {
	Type() OptionType
	Value() interface{}
}

const (
	TypeNonblocking OptionType = iota
	TypeReuseAddr
	TypeReusePort
	TypeNoDelay
	MaxOption
)

func (t OptionType) String() string {
	switch t {
	case TypeNonblocking:
		return "nonblocking"
	case TypeReuseAddr:
		return "reuse_addr"
	case TypeReusePort:
		return "reuse_port"
	case TypeNoDelay:
		return "no_delay"
	default:
		panic(fmt.Errorf("invalid option %d", t))
	}
}

// Merge adds opt to opts, replacing an option of the same type if present.
func Merge(opts []Option, add Option) []Option {
	for i, cur := range opts {
		if cur.Type() == add.Type() {
			opts[i] = add
			return opts
		}
	}
	return append(opts, add)
}

// Without removes the option of type del from opts.
func Without(opts []Option, del OptionType) []Option {
	for i := 0; i < len(opts); i++ {
		if opts[i].Type() == del {
			return append(opts[:i], opts[i+1:]...)
		}
	}
	return opts
}

// Find returns the option of type t, if any.
func Find(opts []Option, t OptionType) (Option, bool) {
	for _, opt := range opts {
		if opt.Type() == t {
			return opt, true
		}
	}
	return nil, false
}
