package apperr

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"testing"

	"github.com/go-sql-driver/mysql"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/stretchr/testify/assert"
	"gorm.io/gorm"
)

func TestErrorMatchesSentinelByKind(t *testing.T) {
	err := New(InvalidQuantity, "Calc.Run", "target must be positive, got %d", -1)
	assert.ErrorIs(t, err, ErrInvalidQuantity)
	assert.NotErrorIs(t, err, ErrInvalidInput)
	assert.Equal(t, "Calc.Run: target must be positive, got -1", err.Error())

	wrapped := fmt.Errorf("outer: %w", err)
	assert.ErrorIs(t, wrapped, ErrInvalidQuantity)
	assert.Equal(t, InvalidQuantity, KindOf(wrapped))
}

func TestKindOfPlainError(t *testing.T) {
	assert.Equal(t, StoreUnavailable, KindOf(errors.New("boom")))
}

func TestFromStore(t *testing.T) {
	tests := []struct {
		name string
		err  error
		want Kind
	}{
		{"not found", gorm.ErrRecordNotFound, NotFound},
		{"duplicate", gorm.ErrDuplicatedKey, DuplicateKey},
		{"foreign key", gorm.ErrForeignKeyViolated, NotFound},
		{"cancelled", context.Canceled, StoreUnavailable},
		{"conn done", sql.ErrConnDone, StoreUnavailable},
		{"pg unique", &pgconn.PgError{Code: "23505"}, DuplicateKey},
		{"pg fk", &pgconn.PgError{Code: "23503"}, NotFound},
		{"pg connection", &pgconn.PgError{Code: "08006"}, StoreUnavailable},
		{"pg numeric overflow", &pgconn.PgError{Code: "22003"}, InvalidQuantity},
		{"pg bad text", &pgconn.PgError{Code: "22P02"}, InvalidInput},
		{"mysql out of range", &mysql.MySQLError{Number: 1264}, InvalidQuantity},
		{"mysql too long", &mysql.MySQLError{Number: 1406}, InvalidInput},
		{"mysql lock wait", &mysql.MySQLError{Number: 1205}, StoreUnavailable},
		{"unknown", errors.New("disk full"), StoreUnavailable},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := FromStore("Repo.Op", tt.err)
			assert.Equal(t, tt.want, KindOf(err))
			assert.ErrorIs(t, err, tt.err)
		})
	}
}

func TestFromStorePassesThroughTaxonomyErrors(t *testing.T) {
	original := New(InvalidCavityIndex, "Inner", "index 9")
	assert.Same(t, original, FromStore("Outer", original))
	assert.NoError(t, FromStore("Outer", nil))
}
