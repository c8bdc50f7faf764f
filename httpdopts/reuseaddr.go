package httpdopts

type optReuseAddr struct {
	v bool
}

// ReuseAddr sets SO_REUSEADDR so a restarted server can rebind while old sockets linger in TIME_WAIT.
func ReuseAddr(v bool) Option {
	return &optReuseAddr{
		v: v,
	}
}

func (o *optReuseAddr) Type() OptionType {
	return TypeReuseAddr
}

func (o *optReuseAddr) Value() interface{} {
	return o.v
}
