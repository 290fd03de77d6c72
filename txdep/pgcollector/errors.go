package pgcollector

import (
	"errors"

	"github.com/jackc/pgconn"
	"github.com/jackc/pgerrcode"
)

// ErrSerializationFailure reports that a reservation attempt lost a
// serializable-transaction conflict to a concurrent claim and should be
// retried by the caller, rather than surfaced as a permanent failure.
var ErrSerializationFailure = errors.New("pgcollector: serialization failure, retry")

// classifyError recognizes the handful of Postgres error codes this
// package's callers care about, leaving everything else untouched.
func classifyError(err error) error {
	var pgErr *pgconn.PgError
	if !errors.As(err, &pgErr) {
		return err
	}
	switch pgErr.Code {
	case pgerrcode.SerializationFailure, pgerrcode.DeadlockDetected:
		log.Debugf("pgcollector: reservation lost conflict, code=%s", pgErr.Code)
		return ErrSerializationFailure
	default:
		return err
	}
}
