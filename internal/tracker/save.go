package tracker

import (
	"context"
	"database/sql"
	"errors"

	sq "github.com/Masterminds/squirrel"

	"github.com/mesh-intelligence/mart/internal/logger"
	"github.com/mesh-intelligence/mart/internal/sqlite"
	"github.com/mesh-intelligence/mart/pkg/types"
)

// SaveChanges persists every pending entry in one transaction: inserts and
// updates in tracking order, then deletes in reverse tracking order.
//
// On success Added and Modified entries become Unchanged (Added ones receive
// their store-assigned ID) and Deleted entries are detached. On failure the
// transaction is rolled back, a *types.CommitError is returned, and no entry
// is touched; reconciling the working set is the caller's job.
func (s *Session) SaveChanges(ctx context.Context) error {
	log := logger.FromContext(ctx).With("session", s.id)

	var adds, mods, dels []*Entry
	for _, e := range s.entries {
		switch e.state {
		case types.StateAdded:
			adds = append(adds, e)
		case types.StateModified:
			mods = append(mods, e)
		case types.StateDeleted:
			dels = append(dels, e)
		}
	}
	if len(adds)+len(mods)+len(dels) == 0 {
		return nil
	}

	for _, e := range append(append([]*Entry{}, adds...), mods...) {
		if verr := s.validate.StructCtx(ctx, e.entity); verr != nil {
			return &types.CommitError{Kind: types.CommitConstraintViolation, Op: "validate", Table: e.meta.table, Err: verr}
		}
	}

	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return &types.CommitError{Kind: types.CommitOther, Op: "begin", Err: err}
	}
	committed := false
	defer func() {
		if committed {
			return
		}
		if rbErr := tx.Rollback(); rbErr != nil && !errors.Is(rbErr, sql.ErrTxDone) {
			log.Warn("transaction rollback failed", "error", rbErr)
		}
	}()

	assigned := make(map[*Entry]int64, len(adds))
	for _, e := range adds {
		id, err := insert(ctx, tx, e)
		if err != nil {
			return err
		}
		assigned[e] = id
	}
	for _, e := range mods {
		if err := update(ctx, tx, e); err != nil {
			return err
		}
	}
	for i := len(dels) - 1; i >= 0; i-- {
		if err := remove(ctx, tx, dels[i]); err != nil {
			return err
		}
	}

	if err := tx.Commit(); err != nil {
		return classify("commit", "", err)
	}
	committed = true

	for _, e := range adds {
		if e.entity.GetID() == 0 {
			e.entity.SetID(assigned[e])
		}
		e.state = types.StateUnchanged
		s.rekey(e)
	}
	for _, e := range mods {
		e.state = types.StateUnchanged
	}
	for _, e := range dels {
		s.detach(e)
	}

	log.Debug("commit succeeded", "added", len(adds), "modified", len(mods), "deleted", len(dels))
	return nil
}

func insert(ctx context.Context, tx *sql.Tx, e *Entry) (int64, error) {
	withKey := e.entity.GetID() != 0
	cols, vals := e.meta.values(e.entity, withKey)
	query, args, err := sq.Insert(e.meta.table).Columns(cols...).Values(vals...).ToSql()
	if err != nil {
		return 0, &types.CommitError{Kind: types.CommitOther, Op: "insert", Table: e.meta.table, Err: err}
	}
	res, err := tx.ExecContext(ctx, query, args...)
	if err != nil {
		return 0, classify("insert", e.meta.table, err)
	}
	if withKey {
		return e.entity.GetID(), nil
	}
	id, err := res.LastInsertId()
	if err != nil {
		return 0, &types.CommitError{Kind: types.CommitOther, Op: "insert", Table: e.meta.table, Err: err}
	}
	return id, nil
}

func update(ctx context.Context, tx *sql.Tx, e *Entry) error {
	cols, vals := e.meta.values(e.entity, false)
	b := sq.Update(e.meta.table).Where(sq.Eq{e.meta.key: e.entity.GetID()})
	for i, col := range cols {
		b = b.Set(col, vals[i])
	}
	query, args, err := b.ToSql()
	if err != nil {
		return &types.CommitError{Kind: types.CommitOther, Op: "update", Table: e.meta.table, Err: err}
	}
	return execOne(ctx, tx, "update", e.meta.table, query, args)
}

func remove(ctx context.Context, tx *sql.Tx, e *Entry) error {
	query, args, err := sq.Delete(e.meta.table).Where(sq.Eq{e.meta.key: e.entity.GetID()}).ToSql()
	if err != nil {
		return &types.CommitError{Kind: types.CommitOther, Op: "delete", Table: e.meta.table, Err: err}
	}
	return execOne(ctx, tx, "delete", e.meta.table, query, args)
}

// execOne runs a statement that must affect exactly one row. Matching no row
// is a concurrency failure: the row was removed after it was read.
func execOne(ctx context.Context, tx *sql.Tx, op, table, query string, args []any) error {
	res, err := tx.ExecContext(ctx, query, args...)
	if err != nil {
		return classify(op, table, err)
	}
	n, err := res.RowsAffected()
	if err != nil {
		return &types.CommitError{Kind: types.CommitOther, Op: op, Table: table, Err: err}
	}
	if n == 0 {
		return &types.CommitError{Kind: types.CommitConcurrency, Op: op, Table: table, Err: types.ErrNotFound}
	}
	return nil
}

func classify(op, table string, err error) *types.CommitError {
	kind := types.CommitOther
	if sqlite.IsConstraint(err) {
		kind = types.CommitConstraintViolation
	}
	return &types.CommitError{Kind: kind, Op: op, Table: table, Err: err}
}
