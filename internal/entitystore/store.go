// Package entitystore caches the last known server state of one entity
// type for a list view and a detail view. It is never the source of truth:
// every read and write goes through a Source.
package entitystore

import (
	"context"
	"errors"
	"fmt"
	"sync"

	"github.com/ayo6706/brokerage-admin/internal/models"
	"github.com/ayo6706/brokerage-admin/internal/query"
	"go.uber.org/zap"
)

type Status string

const (
	StatusIdle      Status = "idle"
	StatusLoading   Status = "loading"
	StatusSucceeded Status = "succeeded"
	StatusFailed    Status = "failed"
)

// Source is the backend of record the store reads from.
type Source[T any] interface {
	List(ctx context.Context, p query.Params) (models.Page[T], error)
	Get(ctx context.Context, id string) (T, error)
}

// Operation performs one mutation against the backend and returns the
// updated record.
type Operation[T any] func(ctx context.Context, id string) (T, error)

type State[T any] struct {
	Items        []T
	Selected     *T
	Pagination   models.Pagination
	Query        query.Params
	ListStatus   Status
	DetailStatus Status
	ActionStatus Status
	Error        string
	ErrorKind    models.ErrorKind
}

// Result is the tagged outcome of one store operation. Stale is set when
// the response was discarded because a newer request superseded it or its
// context ended.
type Result[T any] struct {
	Value T
	Err   error
	Kind  models.ErrorKind
	Stale bool
}

func (r Result[T]) OK() bool { return r.Err == nil && !r.Stale }

type Store[T any] struct {
	source Source[T]
	id     func(T) string
	logger *zap.Logger

	mu          sync.Mutex
	state       State[T]
	listSeq     uint64
	detailSeq   uint64
	actionSeq   uint64
	resets      uint64
	subscribers map[int]func(State[T])
	nextSub     int
}

func New[T any](source Source[T], id func(T) string) *Store[T] {
	return &Store[T]{
		source:      source,
		id:          id,
		logger:      zap.L(),
		state:       initialState[T](),
		subscribers: make(map[int]func(State[T])),
	}
}

func initialState[T any]() State[T] {
	return State[T]{
		Items:        []T{},
		ListStatus:   StatusIdle,
		DetailStatus: StatusIdle,
		ActionStatus: StatusIdle,
	}
}

// State returns a copy of the current state.
func (s *Store[T]) State() State[T] {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.copyState()
}

// Subscribe registers fn to receive every new state. The returned func
// removes it.
func (s *Store[T]) Subscribe(fn func(State[T])) func() {
	s.mu.Lock()
	defer s.mu.Unlock()
	id := s.nextSub
	s.nextSub++
	s.subscribers[id] = fn
	return func() {
		s.mu.Lock()
		defer s.mu.Unlock()
		delete(s.subscribers, id)
	}
}

// Reset drops all cached state. Responses to requests issued before Reset
// are discarded.
func (s *Store[T]) Reset() {
	s.update(func() {
		s.listSeq++
		s.detailSeq++
		s.actionSeq++
		s.resets++
		s.state = initialState[T]()
	})
}

// FetchPage loads one page. Only the most recently issued page request may
// change items.
func (s *Store[T]) FetchPage(ctx context.Context, p query.Params) Result[models.Page[T]] {
	var seq uint64
	s.update(func() {
		s.listSeq++
		seq = s.listSeq
		s.state.ListStatus = StatusLoading
		s.clearError()
	})

	page, err := call(func() (models.Page[T], error) { return s.source.List(ctx, p) })

	res := Result[models.Page[T]]{Value: page, Err: err, Kind: models.Classify(err)}
	s.update(func() {
		if seq != s.listSeq {
			res.Stale = true
			return
		}
		if ctx.Err() != nil {
			res.Stale = true
			s.state.ListStatus = StatusIdle
			return
		}
		if err != nil {
			s.state.ListStatus = StatusFailed
			s.setError(err)
			return
		}
		s.state.Items = append([]T{}, page.Items...)
		s.state.Pagination = page.Pagination
		s.state.Query = p
		s.state.ListStatus = StatusSucceeded
	})
	if res.Stale {
		s.logger.Debug("discarded stale page response", zap.Uint64("seq", seq))
	}
	return res
}

// FetchByID loads a single record into Selected.
func (s *Store[T]) FetchByID(ctx context.Context, id string) Result[T] {
	var seq uint64
	s.update(func() {
		s.detailSeq++
		seq = s.detailSeq
		s.state.DetailStatus = StatusLoading
		s.clearError()
	})

	rec, err := call(func() (T, error) { return s.source.Get(ctx, id) })

	res := Result[T]{Value: rec, Err: err, Kind: models.Classify(err)}
	s.update(func() {
		if seq != s.detailSeq {
			res.Stale = true
			return
		}
		if ctx.Err() != nil {
			res.Stale = true
			s.state.DetailStatus = StatusIdle
			return
		}
		if err != nil {
			s.state.Selected = nil
			s.state.DetailStatus = StatusFailed
			s.setError(err)
			return
		}
		s.state.Selected = &rec
		s.state.DetailStatus = StatusSucceeded
	})
	return res
}

// Mutate runs op against the backend. On success the returned record
// replaces the cached copy in Items and Selected. On failure the cached
// records are left as they were. A result that arrives after Reset is
// returned as Stale and not applied.
func (s *Store[T]) Mutate(ctx context.Context, id string, op Operation[T]) Result[T] {
	var seq, resets uint64
	s.update(func() {
		s.actionSeq++
		seq = s.actionSeq
		resets = s.resets
		s.state.ActionStatus = StatusLoading
		s.clearError()
	})

	rec, err := call(func() (T, error) { return op(ctx, id) })

	res := Result[T]{Value: rec, Err: err, Kind: models.Classify(err)}
	s.update(func() {
		if ctx.Err() != nil && err != nil {
			res.Stale = true
			if seq == s.actionSeq {
				s.state.ActionStatus = StatusIdle
			}
			return
		}
		if resets != s.resets {
			// Records cached after a Reset belong to a new view.
			res.Stale = true
			return
		}
		latest := seq == s.actionSeq
		if err != nil {
			if latest {
				s.state.ActionStatus = StatusFailed
				s.setError(err)
			}
			return
		}
		s.replace(rec)
		if latest {
			s.state.ActionStatus = StatusSucceeded
		}
	})
	return res
}

func (s *Store[T]) replace(rec T) {
	id := s.id(rec)
	for i := range s.state.Items {
		if s.id(s.state.Items[i]) == id {
			s.state.Items[i] = rec
		}
	}
	if s.state.Selected != nil && s.id(*s.state.Selected) == id {
		selected := rec
		s.state.Selected = &selected
	}
}

func (s *Store[T]) clearError() {
	s.state.Error = ""
	s.state.ErrorKind = models.KindNone
}

func (s *Store[T]) setError(err error) {
	s.state.Error = err.Error()
	s.state.ErrorKind = models.Classify(err)
}

// update applies fn under the lock and notifies subscribers afterwards.
func (s *Store[T]) update(fn func()) {
	s.mu.Lock()
	fn()
	snapshot := s.copyState()
	subs := make([]func(State[T]), 0, len(s.subscribers))
	for _, sub := range s.subscribers {
		subs = append(subs, sub)
	}
	s.mu.Unlock()

	for _, sub := range subs {
		sub(snapshot)
	}
}

func (s *Store[T]) copyState() State[T] {
	out := s.state
	out.Items = append([]T{}, s.state.Items...)
	if s.state.Selected != nil {
		selected := *s.state.Selected
		out.Selected = &selected
	}
	return out
}

var errPanic = errors.New("source panicked")

// call converts a panic in the source into an error.
func call[V any](fn func() (V, error)) (v V, err error) {
	defer func() {
		if r := recover(); r != nil {
			err = fmt.Errorf("%w: %v", errPanic, r)
		}
	}()
	return fn()
}
