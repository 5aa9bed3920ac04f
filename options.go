package hwstate

import (
	"log/slog"

	"github.com/gogpu/hwstate/hw"
)

// CacheOption configures a Cache during creation.
//
// Example:
//
//	c := hwstate.New(hwstate.CapsGen125(),
//	    hwstate.WithLogger(logger),
//	    hwstate.WithPrimaryLevel(false))
type CacheOption func(*cacheOptions)

// cacheOptions holds optional configuration for Cache creation.
type cacheOptions struct {
	logger              *slog.Logger
	errata              ErratumConfig
	lowerDepthRangeRate float32
	primary             bool
	forceReemit         hw.GroupSet
}

// defaultOptions returns the default cache options.
func defaultOptions() cacheOptions {
	return cacheOptions{
		logger:              nil, // Falls back to the package logger
		errata:              DefaultErratumConfig(),
		lowerDepthRangeRate: 1,
		primary:             true,
	}
}

// WithLogger sets the logger of one Cache, overriding SetLogger.
func WithLogger(l *slog.Logger) CacheOption {
	return func(o *cacheOptions) {
		o.logger = l
	}
}

// WithErratumConfig replaces the per-erratum suppress lists. Errata missing
// from cfg suppress nothing.
func WithErratumConfig(cfg ErratumConfig) CacheOption {
	return func(o *cacheOptions) {
		o.errata = cfg
	}
}

// WithLowerDepthRangeRate multiplies the z translation of every viewport
// transform by rate, lowering the translated depth range to work around
// depth test misrendering. The default of 1 leaves it untouched.
func WithLowerDepthRangeRate(rate float32) CacheOption {
	return func(o *cacheOptions) {
		o.lowerDepthRangeRate = rate
	}
}

// WithPrimaryLevel selects whether the cache records a primary command
// buffer. Only primary buffers know the render area, so only they clamp
// scissors to it. The default is true.
func WithPrimaryLevel(primary bool) CacheOption {
	return func(o *cacheOptions) {
		o.primary = primary
	}
}

// WithForceReemit sets groups that are re-emitted on every Flush regardless
// of their dirty state.
func WithForceReemit(groups hw.GroupSet) CacheOption {
	return func(o *cacheOptions) {
		o.forceReemit = groups
	}
}

// FlushOptions are per-pass settings for Flush.
type FlushOptions struct {
	// ForceDirty is OR'd into the dirty set for this pass only.
	ForceDirty hw.GroupSet
}
