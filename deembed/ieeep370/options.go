package ieeep370

import (
	"go.uber.org/zap"

	"github.com/cwbudde/algo-rf/rf/mixedmode"
)

// DefaultPreResponseTime is the time before the impulse peak at which the
// reflection step response is forced to zero when estimating DC.
const DefaultPreResponseTime = 3e-9

// Config controls a 2x-thru split.
type Config struct {
	// Z0 is the reference impedance of the extracted fixture halves. Zero
	// keeps the reference of the input network.
	Z0              float64
	Order           mixedmode.Order
	PreResponseTime float64
	Logger          *zap.Logger
}

// Option mutates a Config.
type Option func(*Config)

// DefaultConfig returns the input reference, side-ordered pairs, the
// default pre-response time and a no-op logger.
func DefaultConfig() Config {
	return Config{
		Order:           mixedmode.OrderSides,
		PreResponseTime: DefaultPreResponseTime,
		Logger:          zap.NewNop(),
	}
}

// WithZ0 sets the single-ended reference impedance of the result.
func WithZ0(z0 float64) Option {
	return func(cfg *Config) {
		if z0 > 0 {
			cfg.Z0 = z0
		}
	}
}

// WithOrder sets how a 4-port's single-ended ports form pairs.
func WithOrder(order mixedmode.Order) Option {
	return func(cfg *Config) { cfg.Order = order }
}

// WithLogger routes warnings about the input grid to logger.
func WithLogger(logger *zap.Logger) Option {
	return func(cfg *Config) {
		if logger != nil {
			cfg.Logger = logger
		}
	}
}

// WithPreResponseTime sets the time before t=0 used to pin the reflection
// DC estimate.
func WithPreResponseTime(seconds float64) Option {
	return func(cfg *Config) {
		if seconds > 0 {
			cfg.PreResponseTime = seconds
		}
	}
}

// ApplyOptions applies zero or more options to the default config.
func ApplyOptions(opts ...Option) Config {
	cfg := DefaultConfig()

	for _, opt := range opts {
		if opt != nil {
			opt(&cfg)
		}
	}

	return cfg
}
