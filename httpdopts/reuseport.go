package httpdopts

type optReusePort struct {
	v bool
}

func ReusePort(v bool) Option {
	return &optReusePort{
		v: v,
	}
}

func (o *optReusePort) Type() OptionType {
	return TypeReusePort
}

func (o *optReusePort) Value() interface{} {
	return o.v
}
