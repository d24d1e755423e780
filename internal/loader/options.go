package loader

import (
	"github.com/sirupsen/logrus"
)

type options struct {
	logger *logrus.Logger
}

// Option configures a load call.
type Option func(*options)

// WithLogger sets the logger used to report built layers. By default a
// fresh logrus.Logger at Info level is used, so per-layer Debug entries are
// silent.
func WithLogger(l *logrus.Logger) Option {
	return func(o *options) {
		o.logger = l
	}
}

func newOptions(opts []Option) *options {
	o := &options{}
	for _, opt := range opts {
		opt(o)
	}
	if o.logger == nil {
		o.logger = logrus.New()
	}
	return o
}
