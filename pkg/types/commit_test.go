package types

import (
	"errors"
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestCommitErrorClassification(t *testing.T) {
	cause := errors.New("UNIQUE constraint failed: customers.email_address")

	tests := []struct {
		name           string
		err            error
		wantConstraint bool
		wantExpected   bool
	}{
		{
			name:           "constraint violation is expected",
			err:            &CommitError{Kind: CommitConstraintViolation, Op: "insert", Table: CustomersTable, Err: cause},
			wantConstraint: true,
			wantExpected:   true,
		},
		{
			name:         "concurrency is expected but not a constraint",
			err:          &CommitError{Kind: CommitConcurrency, Op: "update", Table: CustomersTable, Err: ErrNotFound},
			wantExpected: true,
		},
		{
			name: "other is unexpected",
			err:  &CommitError{Kind: CommitOther, Op: "begin", Err: errors.New("sql: database is closed")},
		},
		{
			name:           "wrapped commit error is still classified",
			err:            fmt.Errorf("create customer: %w", &CommitError{Kind: CommitConstraintViolation, Op: "insert", Err: cause}),
			wantConstraint: true,
			wantExpected:   true,
		},
		{
			name: "plain error is neither",
			err:  cause,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.wantConstraint, IsConstraintViolation(tt.err))
			assert.Equal(t, tt.wantExpected, IsExpectedCommitFailure(tt.err))
		})
	}
}

func TestCommitErrorMessageAndUnwrap(t *testing.T) {
	err := &CommitError{Kind: CommitConcurrency, Op: "delete", Table: ProductsTable, Err: ErrNotFound}
	assert.Equal(t, "commit delete products: concurrency: entity not found", err.Error())
	assert.ErrorIs(t, err, ErrNotFound)

	noTable := &CommitError{Kind: CommitOther, Op: "begin", Err: errors.New("boom")}
	assert.Equal(t, "commit begin: other: boom", noTable.Error())
}
