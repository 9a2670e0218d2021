package tracker

import (
	"context"
	"fmt"

	sq "github.com/Masterminds/squirrel"
	"github.com/georgysavva/scany/v2/sqlscan"

	"github.com/mesh-intelligence/mart/pkg/types"
)

// Query returns a select over every column of T's table. Callers add
// conditions and pass the builder to Select.
func Query[T types.Model]() sq.SelectBuilder {
	meta := metaFor[T]()
	return sq.Select(qualified(meta)...).From(meta.table)
}

// KeyColumn returns the table-qualified key column of T, for use in
// conditions built on top of Query.
func KeyColumn[T types.Model]() string {
	meta := metaFor[T]()
	return meta.table + "." + meta.key
}

func qualified(meta *tableMeta) []string {
	cols := make([]string, len(meta.columns))
	for i, c := range meta.columns {
		cols[i] = meta.table + "." + c + " AS " + c
	}
	return cols
}

// Select runs b and returns the matching entities, resolved against the
// working set: a tracked Unchanged or Stale instance is refreshed from its
// row and returned in place of a new one, a pending instance is returned as
// is, and an untracked row is attached as Unchanged.
func Select[T types.Model](ctx context.Context, s *Session, b sq.SelectBuilder) ([]T, error) {
	meta := metaFor[T]()
	query, args, err := b.ToSql()
	if err != nil {
		return nil, fmt.Errorf("building %s query: %w", meta.table, err)
	}
	var rows []T
	if err := sqlscan.Select(ctx, s.db, &rows, query, args...); err != nil {
		return nil, fmt.Errorf("querying %s: %w", meta.table, err)
	}
	out := make([]T, 0, len(rows))
	for _, row := range rows {
		resolved, err := resolve(s, row)
		if err != nil {
			return nil, err
		}
		out = append(out, resolved)
	}
	return out, nil
}

// Get returns the entity of type T with the given ID. The boolean is false
// when no row matches; a tracked instance whose row has vanished is then
// detached.
func Get[T types.Model](ctx context.Context, s *Session, id int64) (T, bool, error) {
	var zero T
	meta := metaFor[T]()
	found, err := Select[T](ctx, s, Query[T]().Where(sq.Eq{KeyColumn[T](): id}))
	if err != nil {
		return zero, false, err
	}
	if len(found) == 0 {
		if e, ok := s.byKey[entityKey{table: meta.table, id: id}]; ok && !e.state.Pending() {
			s.detach(e)
		}
		return zero, false, nil
	}
	return found[0], true, nil
}

// Exists reports whether a row of T with the given ID is persisted. It does
// not consult or change the working set.
func Exists[T types.Model](ctx context.Context, s *Session, id int64) (bool, error) {
	meta := metaFor[T]()
	query, args, err := sq.Select("1").From(meta.table).Where(sq.Eq{meta.key: id}).Limit(1).ToSql()
	if err != nil {
		return false, fmt.Errorf("building %s exists query: %w", meta.table, err)
	}
	var hits []int
	if err := sqlscan.Select(ctx, s.db, &hits, query, args...); err != nil {
		return false, fmt.Errorf("probing %s: %w", meta.table, err)
	}
	return len(hits) > 0, nil
}

// Count returns the number of persisted rows of T.
func Count[T types.Model](ctx context.Context, s *Session) (int64, error) {
	meta := metaFor[T]()
	query, args, err := sq.Select("COUNT(*)").From(meta.table).ToSql()
	if err != nil {
		return 0, fmt.Errorf("building %s count query: %w", meta.table, err)
	}
	var n int64
	if err := sqlscan.Get(ctx, s.db, &n, query, args...); err != nil {
		return 0, fmt.Errorf("counting %s: %w", meta.table, err)
	}
	return n, nil
}

// Reload re-reads m's row into m and tracks it as Unchanged. If the row no
// longer exists m is detached.
func (s *Session) Reload(ctx context.Context, m types.Model) error {
	meta, err := metaOf(m)
	if err != nil {
		return err
	}
	query, args, err := sq.Select(meta.columns...).From(meta.table).
		Where(sq.Eq{meta.key: m.GetID()}).ToSql()
	if err != nil {
		return fmt.Errorf("building %s reload: %w", meta.table, err)
	}

	fresh := meta.newEntity()
	if err := sqlscan.Get(ctx, s.db, fresh, query, args...); err != nil {
		if sqlscan.NotFound(err) {
			s.Detach(m)
			return nil
		}
		return fmt.Errorf("reloading %s %d: %w", meta.table, m.GetID(), err)
	}
	copyInto(m, fresh)
	if e, ok := s.lookup(m); ok {
		e.SetState(types.StateUnchanged)
		return nil
	}
	_, err = s.track(m, types.StateUnchanged)
	return err
}

// resolve maps a freshly scanned row onto the working set.
func resolve[T types.Model](s *Session, fresh T) (T, error) {
	meta, err := metaOf(fresh)
	if err != nil {
		return fresh, err
	}
	if e, ok := s.byKey[entityKey{table: meta.table, id: fresh.GetID()}]; ok {
		if existing, ok := e.entity.(T); ok {
			if !e.state.Pending() {
				copyInto(existing, fresh)
				e.state = types.StateUnchanged
			}
			return existing, nil
		}
	}
	if _, err := s.track(fresh, types.StateUnchanged); err != nil {
		return fresh, err
	}
	return fresh, nil
}
