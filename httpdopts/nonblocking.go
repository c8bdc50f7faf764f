package httpdopts

type optNonblocking struct {
	v bool
}

// Nonblocking puts the descriptor in O_NONBLOCK mode.
func Nonblocking(v bool) Option {
	return &optNonblocking{
		v: v,
	}
}

func (o *optNonblocking) Type() OptionType {
	return TypeNonblocking
}

func (o *optNonblocking) Value() interface{} {
	return o.v
}
