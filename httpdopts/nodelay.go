package httpdopts

type optNoDelay struct {
	v bool
}

// NoDelay disables Nagle's algorithm on an accepted connection.
func NoDelay(v bool) Option {
	return &optNoDelay{
		v: v,
	}
}

func (o *optNoDelay) Type() OptionType {
	return TypeNoDelay
}

func (o *optNoDelay) Value() interface{} {
	return o.v
}
