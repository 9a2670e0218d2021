// Package tracker implements the change-tracking session that repositories
// share. A session holds a working set of entity instances across all entity
// types, each with a tracking state, and persists every pending change in one
// SQL transaction on SaveChanges.
//
// A Session is not safe for concurrent use. Callers sharing one session must
// serialize their calls, typically by scoping a session to one request.
package tracker

import (
	"database/sql"
	"fmt"
	"reflect"

	"github.com/go-playground/validator/v10"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/mesh-intelligence/mart/pkg/types"
)

// entityKey identifies a persisted row.
type entityKey struct {
	table string
	id    int64
}

// Entry is one tracked entity and its tracking state.
type Entry struct {
	session *Session
	entity  types.Model
	meta    *tableMeta
	state   types.EntityState
	key     entityKey
}

// Entity returns the tracked instance.
func (e *Entry) Entity() types.Model { return e.entity }

// Table returns the table backing the entity.
func (e *Entry) Table() string { return e.meta.table }

// State returns the current tracking state.
func (e *Entry) State() types.EntityState { return e.state }

// SetState moves the entry to s. Setting StateDetached removes the entity
// from the session; setting any other state on a detached entry tracks it
// again unless another instance now holds its key. Invalid states are
// ignored.
func (e *Entry) SetState(s types.EntityState) {
	if !s.Valid() {
		return
	}
	if s == types.StateDetached {
		e.session.detach(e)
		return
	}
	if e.state == types.StateDetached {
		e.session.retrack(e, s)
		return
	}
	e.state = s
}

// Session is a unit of work over one database handle.
type Session struct {
	db       *sql.DB
	id       string
	validate *validator.Validate
	entries  []*Entry
	byRef    map[types.Model]*Entry
	byKey    map[entityKey]*Entry
}

// New creates an empty session over db.
func New(db *sql.DB) *Session {
	return &Session{
		db:       db,
		id:       newSessionID(),
		validate: newValidator(),
		byRef:    make(map[types.Model]*Entry),
		byKey:    make(map[entityKey]*Entry),
	}
}

func newSessionID() string {
	id, err := uuid.NewV7()
	if err != nil {
		return uuid.New().String()
	}
	return id.String()
}

// newValidator registers decimal.Decimal so numeric tags such as gte=0 apply
// to prices.
func newValidator() *validator.Validate {
	v := validator.New(validator.WithRequiredStructEnabled())
	v.RegisterCustomTypeFunc(func(field reflect.Value) any {
		if d, ok := field.Interface().(decimal.Decimal); ok {
			f, _ := d.Float64()
			return f
		}
		return nil
	}, decimal.Decimal{})
	return v
}

// ID returns the session's correlation ID.
func (s *Session) ID() string { return s.id }

// DB returns the handle the session reads and writes through.
func (s *Session) DB() *sql.DB { return s.db }

// Add tracks m as Added.
func (s *Session) Add(m types.Model) error {
	_, err := s.track(m, types.StateAdded)
	return err
}

// Update tracks m as Modified. An entity that is still Added stays Added.
func (s *Session) Update(m types.Model) error {
	if e, ok := s.lookup(m); ok && e.state == types.StateAdded {
		return nil
	}
	_, err := s.track(m, types.StateModified)
	return err
}

// Remove tracks m as Deleted. An entity that is still Added was never
// persisted and is detached instead.
func (s *Session) Remove(m types.Model) error {
	if e, ok := s.lookup(m); ok && e.state == types.StateAdded {
		s.detach(e)
		return nil
	}
	_, err := s.track(m, types.StateDeleted)
	return err
}

// Attach tracks m as Unchanged.
func (s *Session) Attach(m types.Model) error {
	_, err := s.track(m, types.StateUnchanged)
	return err
}

// Detach stops tracking m. Detaching an untracked entity is a no-op.
func (s *Session) Detach(m types.Model) {
	if e, ok := s.lookup(m); ok {
		s.detach(e)
	}
}

// Entry returns the tracking entry for m.
func (s *Session) Entry(m types.Model) (*Entry, bool) {
	return s.lookup(m)
}

// StateOf returns m's tracking state, StateDetached when untracked.
func (s *Session) StateOf(m types.Model) types.EntityState {
	if e, ok := s.lookup(m); ok {
		return e.state
	}
	return types.StateDetached
}

// Entries returns a snapshot of every tracked entry across all entity types,
// in tracking order.
func (s *Session) Entries() []*Entry {
	out := make([]*Entry, len(s.entries))
	copy(out, s.entries)
	return out
}

// HasChanges reports whether any entry is pending.
func (s *Session) HasChanges() bool {
	for _, e := range s.entries {
		if e.state.Pending() {
			return true
		}
	}
	return false
}

// Tracked returns the tracked instances of entity type T.
func Tracked[T types.Model](s *Session) []T {
	var out []T
	for _, e := range s.entries {
		if m, ok := e.entity.(T); ok {
			out = append(out, m)
		}
	}
	return out
}

func (s *Session) lookup(m types.Model) (*Entry, bool) {
	if isNil(m) {
		return nil, false
	}
	e, ok := s.byRef[m]
	return e, ok
}

// track puts m into the working set with the given state. A different
// instance already tracked under m's key is a conflict: the session is left
// unchanged and ErrIdentityConflict is returned.
func (s *Session) track(m types.Model, state types.EntityState) (*Entry, error) {
	meta, err := metaOf(m)
	if err != nil {
		return nil, err
	}
	if other, ok := s.holder(meta.table, m.GetID()); ok && other.entity != m {
		return nil, fmt.Errorf("%w: %s %d", types.ErrIdentityConflict, meta.table, m.GetID())
	}
	e, ok := s.byRef[m]
	if !ok {
		e = &Entry{session: s, entity: m, meta: meta}
		s.entries = append(s.entries, e)
		s.byRef[m] = e
	}
	e.state = state
	s.rekey(e)
	return e, nil
}

// retrack puts a detached entry back into the working set, replacing any
// entry created for the same instance in the meantime. The entry stays
// detached while another instance holds its key.
func (s *Session) retrack(e *Entry, state types.EntityState) {
	if other, ok := s.holder(e.meta.table, e.entity.GetID()); ok && other.entity != e.entity {
		return
	}
	if other, ok := s.byRef[e.entity]; ok && other != e {
		s.detach(other)
	}
	s.entries = append(s.entries, e)
	s.byRef[e.entity] = e
	e.state = state
	s.rekey(e)
}

// holder returns the entry tracked under (table, id).
func (s *Session) holder(table string, id int64) (*Entry, bool) {
	if id == 0 {
		return nil, false
	}
	e, ok := s.byKey[entityKey{table: table, id: id}]
	return e, ok
}

// rekey indexes e under its current identity.
func (s *Session) rekey(e *Entry) {
	if e.key != (entityKey{}) {
		if s.byKey[e.key] == e {
			delete(s.byKey, e.key)
		}
		e.key = entityKey{}
	}
	id := e.entity.GetID()
	if id == 0 {
		return
	}
	k := entityKey{table: e.meta.table, id: id}
	if other, ok := s.byKey[k]; ok && other != e {
		s.detach(other)
	}
	s.byKey[k] = e
	e.key = k
}

func (s *Session) detach(e *Entry) {
	if cur, ok := s.byRef[e.entity]; !ok || cur != e {
		e.state = types.StateDetached
		return
	}
	delete(s.byRef, e.entity)
	if e.key != (entityKey{}) && s.byKey[e.key] == e {
		delete(s.byKey, e.key)
	}
	for i, cur := range s.entries {
		if cur == e {
			s.entries = append(s.entries[:i], s.entries[i+1:]...)
			break
		}
	}
	e.key = entityKey{}
	e.state = types.StateDetached
}
