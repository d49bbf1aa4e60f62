// Package apperr holds the error taxonomy every core operation returns.
// Store-level errors never escape the core untranslated.
package apperr

import (
	"context"
	"database/sql"
	"database/sql/driver"
	"errors"
	"fmt"
	"strings"

	"github.com/go-sql-driver/mysql"
	"github.com/jackc/pgx/v5/pgconn"
	"gorm.io/gorm"
)

type Kind string

const (
	NotFound                  Kind = "not_found"
	DuplicateKey              Kind = "duplicate_key"
	InvalidQuantity           Kind = "invalid_quantity"
	InvalidCavityIndex        Kind = "invalid_cavity_index"
	ConflictingPartitionFlags Kind = "conflicting_partition_flags"
	InvalidForCategory        Kind = "invalid_for_category"
	InvalidInput              Kind = "invalid_input"
	Denied                    Kind = "denied"
	StoreUnavailable          Kind = "store_unavailable"
)

// Sentinels for errors.Is.
var (
	ErrNotFound                  = &Error{Kind: NotFound}
	ErrDuplicateKey              = &Error{Kind: DuplicateKey}
	ErrInvalidQuantity           = &Error{Kind: InvalidQuantity}
	ErrInvalidCavityIndex        = &Error{Kind: InvalidCavityIndex}
	ErrConflictingPartitionFlags = &Error{Kind: ConflictingPartitionFlags}
	ErrInvalidForCategory        = &Error{Kind: InvalidForCategory}
	ErrInvalidInput              = &Error{Kind: InvalidInput}
	ErrDenied                    = &Error{Kind: Denied}
	ErrStoreUnavailable          = &Error{Kind: StoreUnavailable}
)

type Error struct {
	Kind Kind
	Op   string
	Msg  string
	Err  error
}

func (e *Error) Error() string {
	if e == nil {
		return ""
	}
	var b strings.Builder
	if e.Op != "" {
		b.WriteString(e.Op)
		b.WriteString(": ")
	}
	switch {
	case e.Msg != "":
		b.WriteString(e.Msg)
	case e.Err != nil:
		b.WriteString(e.Err.Error())
	default:
		b.WriteString(string(e.Kind))
	}
	return b.String()
}

func (e *Error) Unwrap() error { return e.Err }

// Is matches any *Error of the same kind, so callers can compare against the
// sentinels regardless of message or operation.
func (e *Error) Is(target error) bool {
	t, ok := target.(*Error)
	if !ok {
		return false
	}
	return e.Kind == t.Kind
}

func New(kind Kind, op, format string, args ...any) *Error {
	return &Error{Kind: kind, Op: op, Msg: fmt.Sprintf(format, args...)}
}

func Wrap(kind Kind, op string, err error) *Error {
	return &Error{Kind: kind, Op: op, Err: err}
}

// KindOf returns the taxonomy kind of err, or StoreUnavailable for anything
// that is not an *Error.
func KindOf(err error) Kind {
	var e *Error
	if errors.As(err, &e) {
		return e.Kind
	}
	return StoreUnavailable
}

// Postgres SQLSTATE values we translate.
const (
	pgUniqueViolation     = "23505"
	pgForeignKeyViolation = "23503"
	pgConnectionClass     = "08"
	pgDataExceptionClass  = "22"
	pgNumericOutOfRange   = "22003"
)

// MySQL server error numbers for rejected values.
const (
	myOutOfRange      = 1264
	myDataTruncated   = 1265
	myIncorrectValue  = 1366
	myDataTooLong     = 1406
	myTruncatedDouble = 1367
)

// FromStore translates an error coming back from gorm. Errors that are
// already *Error pass through unchanged so nested calls do not rewrap.
func FromStore(op string, err error) error {
	if err == nil {
		return nil
	}
	var e *Error
	if errors.As(err, &e) {
		return err
	}

	switch {
	case errors.Is(err, gorm.ErrRecordNotFound):
		return Wrap(NotFound, op, err)
	case errors.Is(err, gorm.ErrDuplicatedKey):
		return Wrap(DuplicateKey, op, err)
	case errors.Is(err, gorm.ErrForeignKeyViolated):
		return Wrap(NotFound, op, err)
	case errors.Is(err, context.Canceled), errors.Is(err, context.DeadlineExceeded):
		return Wrap(StoreUnavailable, op, err)
	case errors.Is(err, driver.ErrBadConn), errors.Is(err, sql.ErrConnDone):
		return Wrap(StoreUnavailable, op, err)
	}

	var pgErr *pgconn.PgError
	if errors.As(err, &pgErr) {
		switch {
		case pgErr.Code == pgUniqueViolation:
			return Wrap(DuplicateKey, op, err)
		case pgErr.Code == pgForeignKeyViolation:
			return Wrap(NotFound, op, err)
		case strings.HasPrefix(pgErr.Code, pgConnectionClass):
			return Wrap(StoreUnavailable, op, err)
		case pgErr.Code == pgNumericOutOfRange:
			return Wrap(InvalidQuantity, op, err)
		case strings.HasPrefix(pgErr.Code, pgDataExceptionClass):
			return Wrap(InvalidInput, op, err)
		}
	}

	var myErr *mysql.MySQLError
	if errors.As(err, &myErr) {
		switch myErr.Number {
		case myOutOfRange, myTruncatedDouble:
			return Wrap(InvalidQuantity, op, err)
		case myDataTruncated, myIncorrectValue, myDataTooLong:
			return Wrap(InvalidInput, op, err)
		}
	}

	return Wrap(StoreUnavailable, op, err)
}
