// Package leaderboard computes the weekly sleep boards for a user's friends or clan.
//
// A computation resolves the population and the week window, fetches the nights in that
// window, drops invalid ones, ranks every day per metric and finally assembles one sorted
// board per metric. Nothing is cached between computations.
package leaderboard

import (
	"context"
	"fmt"
	"time"
)

// Engine computes leaderboards against a Store.
type Engine struct {
	store   Store
	shape   WindowShape
	metrics []Metric
	now     func() time.Time
}

// Option configures an Engine.
type Option func(*Engine)

// WithWindowShape sets how the current week's window ends.
func WithWindowShape(shape WindowShape) Option {
	return func(e *Engine) { e.shape = shape }
}

// WithClock replaces time.Now.
func WithClock(now func() time.Time) Option {
	return func(e *Engine) { e.now = now }
}

// WithMetrics replaces DefaultMetrics.
func WithMetrics(metrics ...Metric) Option {
	return func(e *Engine) { e.metrics = metrics }
}

// NewEngine returns an Engine reading from store.
func NewEngine(store Store, opts ...Option) *Engine {
	e := &Engine{
		store:   store,
		shape:   WindowWeek,
		metrics: DefaultMetrics(),
		now:     time.Now,
	}
	for _, opt := range opts {
		opt(e)
	}
	return e
}

// Result is the output of one computation.
type Result struct {
	Scope  Scope  `json:"scope"`
	Window Window `json:"window"`
	Boards Boards `json:"boards"`
}

// Compute builds every board for requester. weekOffset must already be validated as >= 0.
// A store failure aborts the whole computation.
func (e *Engine) Compute(ctx context.Context, requester uint, scope Scope, weekOffset int) (*Result, error) {
	window := ResolveWindow(e.now(), weekOffset, e.shape)

	pop, err := ResolveScope(ctx, e.store, requester, scope)
	if err != nil {
		return nil, err
	}
	if pop.NoClan {
		return &Result{Scope: scope, Window: window, Boards: EmptyBoards(e.metrics)}, nil
	}

	records, err := e.store.FindRecords(ctx, pop.UserIDs, window)
	if err != nil {
		return nil, fmt.Errorf("find records: %w", err)
	}

	buckets := BucketByDay(Filter(records))
	accs, err := Score(ctx, buckets, e.metrics)
	if err != nil {
		return nil, fmt.Errorf("score: %w", err)
	}

	profiles, err := e.store.FindUsers(ctx, pop.UserIDs)
	if err != nil {
		return nil, fmt.Errorf("find users: %w", err)
	}

	return &Result{Scope: scope, Window: window, Boards: Assemble(accs, profiles)}, nil
}
