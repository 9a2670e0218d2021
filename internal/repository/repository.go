// Package repository provides the typed data-access layer: a generic
// Repository for each entity type, specialized repositories with domain
// queries, and the Database aggregate that shares one tracking session
// between them.
//
// Every mutation commits the whole session. When a commit does not persist,
// the session's working set is reconciled with the store before the call
// returns, so a rejected write never leaks into the next one.
package repository

import (
	"context"
	"errors"
	"fmt"

	"github.com/mesh-intelligence/mart/internal/logger"
	"github.com/mesh-intelligence/mart/internal/tracker"
	"github.com/mesh-intelligence/mart/pkg/types"
)

// Repository implements types.Repository for entity type T over a shared
// session.
type Repository[T types.Model] struct {
	session *tracker.Session
}

var _ types.Repository[*types.Customer] = (*Repository[*types.Customer])(nil)

// New returns a repository for T bound to s.
func New[T types.Model](s *tracker.Session) *Repository[T] {
	return &Repository[T]{session: s}
}

// Session returns the session the repository commits through.
func (r *Repository[T]) Session() *tracker.Session { return r.session }

// All returns every persisted entity of T ordered by ID.
func (r *Repository[T]) All(ctx context.Context) ([]T, error) {
	return tracker.Select[T](ctx, r.session, tracker.Query[T]().OrderBy(tracker.KeyColumn[T]()))
}

// Exists reports whether a row with the given ID is persisted.
func (r *Repository[T]) Exists(ctx context.Context, id int64) (bool, error) {
	if id <= 0 {
		return false, nil
	}
	return tracker.Exists[T](ctx, r.session, id)
}

// Get returns the entity with the given ID. Absence is reported through the
// boolean, never as an error.
func (r *Repository[T]) Get(ctx context.Context, id int64) (T, bool, error) {
	if id <= 0 {
		var zero T
		return zero, false, nil
	}
	return tracker.Get[T](ctx, r.session, id)
}

// Create inserts entity and commits. On success the entity carries its new
// ID; on a rejected write it is detached with its ID untouched.
func (r *Repository[T]) Create(ctx context.Context, entity T) (bool, error) {
	if err := r.session.Add(entity); err != nil {
		return false, err
	}
	return r.commit(ctx)
}

// Update persists entity's current field values and commits.
func (r *Repository[T]) Update(ctx context.Context, entity T) (bool, error) {
	if err := r.session.Update(entity); err != nil {
		return false, err
	}
	return r.commit(ctx)
}

// Delete removes entity's row and commits. Rows of join tables that
// reference it are removed with it.
func (r *Repository[T]) Delete(ctx context.Context, entity T) (bool, error) {
	if err := r.session.Remove(entity); err != nil {
		return false, err
	}
	return r.commit(ctx)
}

// commit saves every pending change in the session. A rejected write
// (constraint or concurrency failure) yields false with no error; any other
// failure yields false and the error. On every path that does not persist,
// including a panic, the working set is rolled back first.
func (r *Repository[T]) commit(ctx context.Context) (ok bool, err error) {
	log := logger.FromContext(ctx).With("session", r.session.ID())
	defer func() {
		if ok {
			return
		}
		if rbErr := rollback(ctx, r.session); rbErr != nil {
			log.Error("rollback left stale entities", "error", rbErr)
			err = errors.Join(err, rbErr)
		}
	}()

	if err := r.session.SaveChanges(ctx); err != nil {
		if types.IsExpectedCommitFailure(err) {
			log.Warn("commit rejected", "error", err)
			return false, nil
		}
		return false, fmt.Errorf("committing: %w", err)
	}
	return true, nil
}

// rollback reconciles every tracked entry with the store after a failed
// commit: Modified entries become Unchanged, Added entries are detached, and
// Deleted entries are reloaded. An entry whose reload fails is marked Stale
// and its error is returned.
func rollback(ctx context.Context, s *tracker.Session) error {
	log := logger.FromContext(ctx).With("session", s.ID())
	var errs []error
	var reverted int
	for _, e := range s.Entries() {
		switch e.State() {
		case types.StateModified:
			e.SetState(types.StateUnchanged)
		case types.StateAdded:
			e.SetState(types.StateDetached)
		case types.StateDeleted:
			if err := s.Reload(ctx, e.Entity()); err != nil {
				e.SetState(types.StateStale)
				errs = append(errs, fmt.Errorf("reverting delete of %s %d: %w", e.Table(), e.Entity().GetID(), err))
				continue
			}
		default:
			continue
		}
		reverted++
	}
	log.Debug("rolled back working set", "reverted", reverted, "stale", len(errs))
	return errors.Join(errs...)
}
