package lock

import (
	"context"
	"database/sql"
	"hash/fnv"

	"github.com/pkg/errors"
)

// PGAdvisoryLock usa pg_try_advisory_lock. O lock pertence à sessão, por isso
// a mesma conexão é mantida entre Acquire e Release.
type PGAdvisoryLock struct {
	db     *sql.DB
	conn   *sql.Conn
	lockID int64
}

func NewPGAdvisoryLock(db *sql.DB, key string) *PGAdvisoryLock {
	h := fnv.New64a()
	h.Write([]byte(key))

	return &PGAdvisoryLock{
		db:     db,
		lockID: int64(h.Sum64()),
	}
}

func (l *PGAdvisoryLock) Acquire(ctx context.Context) (bool, error) {
	conn, err := l.db.Conn(ctx)
	if err != nil {
		return false, errors.Wrap(err, "get connection")
	}

	var acquired bool
	if err := conn.QueryRowContext(ctx, "SELECT pg_try_advisory_lock($1)", l.lockID).Scan(&acquired); err != nil {
		conn.Close()
		return false, errors.Wrap(err, "try advisory lock")
	}

	if !acquired {
		conn.Close()
		return false, nil
	}

	l.conn = conn
	return true, nil
}

// Refresh confirma que a sessão dona do lock continua aberta. O advisory
// lock não expira, então não há TTL a renovar.
func (l *PGAdvisoryLock) Refresh(ctx context.Context) (bool, error) {
	if l.conn == nil {
		return false, nil
	}

	if err := l.conn.PingContext(ctx); err != nil {
		return false, errors.Wrap(err, "advisory lock session")
	}

	return true, nil
}

func (l *PGAdvisoryLock) Release(ctx context.Context) error {
	if l.conn == nil {
		return nil
	}

	defer func() {
		l.conn.Close()
		l.conn = nil
	}()

	if _, err := l.conn.ExecContext(ctx, "SELECT pg_advisory_unlock($1)", l.lockID); err != nil {
		return errors.Wrap(err, "advisory unlock")
	}

	return nil
}
