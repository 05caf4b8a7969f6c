// Package registry tracks live push connections for one client pool.
package registry

import (
	"github.com/kameshsampath/demo4-dashboard/pkg/logger"
)

// Option applies a configuration option to the Registry.
type Option func(*Registry)

// WithConnectHook registers a hook invoked after a connection is added.
func WithConnectHook(h Hook) Option {
	return func(r *Registry) {
		r.onConnect = h
	}
}

// WithDisconnectHook registers a hook invoked after a connection is removed.
func WithDisconnectHook(h Hook) Option {
	return func(r *Registry) {
		r.onDisconnect = h
	}
}

// WithGauge registers a callback receiving the pool size after each change.
func WithGauge(gauge func(size int)) Option {
	return func(r *Registry) {
		if gauge != nil {
			r.gauge = gauge
		}
	}
}

// WithLogger sets a custom logger for the registry.
func WithLogger(log logger.Logger) Option {
	return func(r *Registry) {
		if log != nil {
			r.log = log
		}
	}
}
