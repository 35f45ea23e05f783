// Copyright 2026 Joseph Cumines
//
// Permission to use, copy, modify, and distribute this software for any
// purpose with or without fee is hereby granted, provided that this copyright
// notice appears in all copies.

package conc

import "time"

// DefaultTickGranularity is the polling slice used by WaitFor and by
// Thread.Stop's shield-acquisition loop when no smaller timeout forces a
// shorter slice. Sleep does not poll.
// spec.md §9(c) calls the value a product choice, constrained to be no
// larger than the smallest meaningful timeout a caller passes in; 10ms
// matches the original.
const DefaultTickGranularity = 10 * time.Millisecond

// threadConfig holds the resolved configuration for a single Thread.
type threadConfig struct {
	clock           Clock
	tick            time.Duration
	onException     func(error)
	onDone          func()
}

// ThreadOption configures a Thread at Run time.
type ThreadOption func(*threadConfig)

// WithClock overrides the monotonic clock a Thread's Stop budget uses.
func WithClock(clock Clock) ThreadOption {
	return func(c *threadConfig) { c.clock = clock }
}

// WithTickGranularity overrides DefaultTickGranularity for a single Thread.
func WithTickGranularity(d time.Duration) ThreadOption {
	return func(c *threadConfig) { c.tick = d }
}

// withExceptionCallback is unexported: only ThreadGroup wires a thread's
// exception callback, so it isn't part of the public Option surface.
func withExceptionCallback(fn func(error)) ThreadOption {
	return func(c *threadConfig) { c.onException = fn }
}

// withDoneCallback is unexported for the same reason as withExceptionCallback.
func withDoneCallback(fn func()) ThreadOption {
	return func(c *threadConfig) { c.onDone = fn }
}

func resolveThreadConfig(opts []ThreadOption) *threadConfig {
	cfg := &threadConfig{clock: DefaultClock, tick: DefaultTickGranularity}
	for _, opt := range opts {
		if opt != nil {
			opt(cfg)
		}
	}
	return cfg
}

// groupConfig holds the resolved configuration for a ThreadGroup.
type groupConfig struct {
	clock  Clock
	tick   time.Duration
	logger *Logger
}

// GroupOption configures a ThreadGroup at construction.
type GroupOption func(*groupConfig)

// WithGroupClock overrides the monotonic clock used by workers spawned from
// a ThreadGroup.
func WithGroupClock(clock Clock) GroupOption {
	return func(c *groupConfig) { c.clock = clock }
}

// WithGroupLogger attaches a Logger to a single ThreadGroup, overriding the
// package-level default (see SetLogger).
func WithGroupLogger(l *Logger) GroupOption {
	return func(c *groupConfig) { c.logger = l }
}

func resolveGroupConfig(opts []GroupOption) *groupConfig {
	cfg := &groupConfig{clock: DefaultClock, tick: DefaultTickGranularity}
	for _, opt := range opts {
		if opt != nil {
			opt(cfg)
		}
	}
	if cfg.logger == nil {
		cfg.logger = defaultLogger()
	}
	return cfg
}

// channelConfig holds the resolved configuration for a Channel.
type channelConfig[T any] struct {
	onPut func(T)
}

// ChannelOption configures a Channel at construction.
type ChannelOption[T any] func(*channelConfig[T])

// WithOnPut installs a callback invoked, on the putting goroutine,
// immediately after every successful Put.
func WithOnPut[T any](fn func(T)) ChannelOption[T] {
	return func(c *channelConfig[T]) { c.onPut = fn }
}

func resolveChannelConfig[T any](opts []ChannelOption[T]) *channelConfig[T] {
	cfg := &channelConfig[T]{}
	for _, opt := range opts {
		if opt != nil {
			opt(cfg)
		}
	}
	return cfg
}

// dispatchConfig holds the resolved configuration for a DispatchQueue.
type dispatchConfig struct {
	logger *Logger
}

// DispatchOption configures a DispatchQueue at construction.
type DispatchOption func(*dispatchConfig)

// WithDispatchLogger attaches a Logger to a single DispatchQueue.
func WithDispatchLogger(l *Logger) DispatchOption {
	return func(c *dispatchConfig) { c.logger = l }
}

func resolveDispatchConfig(opts []DispatchOption) *dispatchConfig {
	cfg := &dispatchConfig{}
	for _, opt := range opts {
		if opt != nil {
			opt(cfg)
		}
	}
	if cfg.logger == nil {
		cfg.logger = defaultLogger()
	}
	return cfg
}
