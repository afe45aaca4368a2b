// Copyright (c) 2025 Michael D Henderson. All rights reserved.

package scnr

import (
	"context"
	"fmt"
	"log/slog"
)

// State is the view of a scan that value readers get.
type State interface {
	Range() Range
	Locale() Locale
	// Spec is the format spec of the field being read.
	Spec() FormatSpec
}

// Context holds the state of one scan: exactly one range and one locale.
//
// The locale type is a type parameter, so the choice between the default
// and a custom locale is made once, when the context is created.
type Context[R Range, L Locale] struct {
	rng    R
	locale L
	spec   FormatSpec

	// logging
	ctx    context.Context
	logger *slog.Logger
}

// Option configures a Context.
type Option func(c *contextConfig)

type contextConfig struct {
	ctx    context.Context
	logger *slog.Logger
}

// WithLogger logs scan progress at debug level.
func WithLogger(logger *slog.Logger) Option {
	return func(c *contextConfig) {
		c.logger = logger
	}
}

// WithContext sets the context passed to the logger.
// It does not cancel a scan.
func WithContext(ctx context.Context) Option {
	return func(c *contextConfig) {
		c.ctx = ctx
	}
}

// NewContext returns a scan context over rng using locale.
func NewContext[R Range, L Locale](rng R, locale L, opts ...Option) *Context[R, L] {
	cfg := contextConfig{ctx: context.Background()}
	for _, opt := range opts {
		opt(&cfg)
	}
	return &Context[R, L]{
		rng:    rng,
		locale: locale,
		ctx:    cfg.ctx,
		logger: cfg.logger,
	}
}

func (c *Context[R, L]) Range() Range {
	return c.rng
}

func (c *Context[R, L]) Locale() Locale {
	return c.locale
}

func (c *Context[R, L]) Spec() FormatSpec {
	return c.spec
}

// Source returns the range with its concrete type.
func (c *Context[R, L]) Source() R {
	return c.rng
}

func (c *Context[R, L]) debug(format string, args ...any) {
	if c.logger == nil {
		return
	}
	c.logger.DebugContext(c.ctx, fmt.Sprintf("scan:%d: %s", c.rng.Pos(), fmt.Sprintf(format, args...)))
}
