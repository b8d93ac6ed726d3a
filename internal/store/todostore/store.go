// Package todostore holds the client's in-memory todo collection and keeps
// it in step with the remote API.
//
// Every network operation follows the same protocol: loading is set, the
// API is called without holding the lock, the collection is changed only
// after the server confirms, and loading is cleared whatever the outcome.
// A failure leaves the collection untouched and records one
// operation-specific failure kind.
package todostore

import (
	"context"
	"sync"

	"github.com/idilsaglam/tada/internal/failure"
	"github.com/idilsaglam/tada/internal/logging"
	"github.com/idilsaglam/tada/internal/model"
)

// TodoAPI is the remote collaborator the store synchronizes with.
type TodoAPI interface {
	ListTodos(ctx context.Context) ([]model.Todo, error)
	CreateTodo(ctx context.Context, in model.CreateTodoInput) (model.Todo, error)
	UpdateTodo(ctx context.Context, id int, in model.UpdateTodoInput) (model.Todo, error)
	DeleteTodo(ctx context.Context, id int) error
}

// Snapshot is a consistent copy of the store's state.
type Snapshot struct {
	Todos   []model.Todo
	Loading bool
	Err     *failure.Failure
}

// Store is the single source of truth for todos within a client session.
type Store struct {
	api TodoAPI
	log logging.Logger

	mu        sync.Mutex
	todos     []model.Todo
	loading   bool
	err       *failure.Failure
	listeners map[int]func(Snapshot)
	nextSub   int
}

// Option configures a Store.
type Option func(*Store)

// WithLogger logs failed operations.
func WithLogger(l logging.Logger) Option { return func(s *Store) { s.log = l } }

// WithTodos seeds the collection.
func WithTodos(todos []model.Todo) Option {
	return func(s *Store) { s.todos = append([]model.Todo{}, todos...) }
}

// New creates an empty store backed by api.
func New(api TodoAPI, opts ...Option) *Store {
	s := &Store{
		api:       api,
		log:       logging.Nop(),
		todos:     []model.Todo{},
		listeners: map[int]func(Snapshot){},
	}
	for _, o := range opts {
		o(s)
	}
	return s
}

// FetchTodos replaces the collection with the server's, newest first.
func (s *Store) FetchTodos(ctx context.Context) {
	s.begin()
	defer s.end()

	todos, err := s.api.ListTodos(ctx)
	if err != nil {
		s.fail(failure.FetchTodos, err)
		return
	}
	sorted := append([]model.Todo{}, todos...)
	model.SortNewestFirst(sorted)
	s.mutate(func() { s.todos = sorted })
}

// AddTodo creates a todo and puts the server's record at the front.
// The collection is not re-sorted.
func (s *Store) AddTodo(ctx context.Context, in model.CreateTodoInput) {
	s.begin()
	defer s.end()

	t, err := s.api.CreateTodo(ctx, in)
	if err != nil {
		s.fail(failure.AddTodo, err)
		return
	}
	s.mutate(func() {
		s.todos = append([]model.Todo{t}, s.todos...)
	})
}

// UpdateTodo replaces the record with the given id by the server's answer,
// keeping its position.
func (s *Store) UpdateTodo(ctx context.Context, id int, in model.UpdateTodoInput) {
	s.begin()
	defer s.end()

	t, err := s.api.UpdateTodo(ctx, id, in)
	if err != nil {
		s.fail(failure.UpdateTodo, err)
		return
	}
	s.mutate(func() {
		next := make([]model.Todo, len(s.todos))
		for i, cur := range s.todos {
			if cur.ID == id {
				cur = t
			}
			next[i] = cur
		}
		s.todos = next
	})
}

// DeleteTodo removes the todo with the given id once the server confirms.
// An id that is not held locally leaves the collection as it is.
func (s *Store) DeleteTodo(ctx context.Context, id int) {
	s.begin()
	defer s.end()

	if err := s.api.DeleteTodo(ctx, id); err != nil {
		s.fail(failure.DeleteTodo, err)
		return
	}
	s.mutate(func() {
		next := make([]model.Todo, 0, len(s.todos))
		for _, cur := range s.todos {
			if cur.ID != id {
				next = append(next, cur)
			}
		}
		s.todos = next
	})
}

// SetError sets or, with nil, clears the error state.
func (s *Store) SetError(f *failure.Failure) {
	s.mutate(func() { s.err = f })
}

// Todos returns a copy of the collection.
func (s *Store) Todos() []model.Todo {
	s.mu.Lock()
	defer s.mu.Unlock()
	return append([]model.Todo{}, s.todos...)
}

// Todo looks up a todo by id.
func (s *Store) Todo(id int) (model.Todo, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	for _, t := range s.todos {
		if t.ID == id {
			return t, true
		}
	}
	return model.Todo{}, false
}

// Loading reports whether an operation is in flight.
func (s *Store) Loading() bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.loading
}

// Err returns the last recorded failure, or nil.
func (s *Store) Err() *failure.Failure {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.err
}

// Stats counts done and pending todos.
func (s *Store) Stats() (done, pending int) {
	s.mu.Lock()
	defer s.mu.Unlock()
	return model.Stats(s.todos)
}

// Snapshot returns a copy of the whole state.
func (s *Store) Snapshot() Snapshot {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.snapshotLocked()
}

// Subscribe calls fn after every state change until the returned func is called.
// fn runs on the goroutine that changed the state and must not block.
func (s *Store) Subscribe(fn func(Snapshot)) (unsubscribe func()) {
	s.mu.Lock()
	id := s.nextSub
	s.nextSub++
	s.listeners[id] = fn
	s.mu.Unlock()
	return func() {
		s.mu.Lock()
		delete(s.listeners, id)
		s.mu.Unlock()
	}
}

// begin marks an operation in flight and clears the previous error.
func (s *Store) begin() {
	s.mutate(func() {
		s.loading = true
		s.err = nil
	})
}

func (s *Store) end() {
	s.mutate(func() { s.loading = false })
}

func (s *Store) fail(kind failure.Kind, err error) {
	s.log.Warnf("todo store: %s: %v", kind, err)
	s.mutate(func() { s.err = failure.New(kind, err) })
}

// mutate applies fn under the lock and notifies listeners outside it.
func (s *Store) mutate(fn func()) {
	s.mu.Lock()
	fn()
	snap := s.snapshotLocked()
	listeners := make([]func(Snapshot), 0, len(s.listeners))
	for _, l := range s.listeners {
		listeners = append(listeners, l)
	}
	s.mu.Unlock()

	for _, l := range listeners {
		l(snap)
	}
}

func (s *Store) snapshotLocked() Snapshot {
	return Snapshot{
		Todos:   append([]model.Todo{}, s.todos...),
		Loading: s.loading,
		Err:     s.err,
	}
}
