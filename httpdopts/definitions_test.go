package httpdopts

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestMergeReplacesSameType(t *testing.T) {
	opts := []Option{Nonblocking(true), ReuseAddr(true)}

	opts = Merge(opts, ReuseAddr(false))
	assert.Len(t, opts, 2)

	opt, ok := Find(opts, TypeReuseAddr)
	assert.True(t, ok)
	assert.Equal(t, false, opt.Value())

	opts = Merge(opts, NoDelay(true))
	assert.Len(t, opts, 3)
}

func TestWithout(t *testing.T) {
	opts := []Option{Nonblocking(true), ReusePort(true), NoDelay(true)}

	opts = Without(opts, TypeReusePort)
	assert.Len(t, opts, 2)
	_, ok := Find(opts, TypeReusePort)
	assert.False(t, ok)

	opts = Without(opts, TypeReusePort)
	assert.Len(t, opts, 2)
}

func TestOptionTypeString(t *testing.T) {
	assert.Equal(t, "no_delay", TypeNoDelay.String())
	assert.Panics(t, func() { _ = MaxOption.String() })
}
